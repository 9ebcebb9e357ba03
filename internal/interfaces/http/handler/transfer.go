package handler

import (
	"context"

	apptransfer "github.com/gadgetstock/backend/internal/application/transfer"
	"github.com/gadgetstock/backend/internal/domain/access"
	"github.com/gadgetstock/backend/internal/domain/shared"
	"github.com/gadgetstock/backend/internal/domain/transfer"
	"github.com/gadgetstock/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TransferHandler serves unit and accessory transfers between branches
type TransferHandler struct {
	BaseHandler
	transfers *apptransfer.Service
}

// NewTransferHandler creates a new transfer handler
func NewTransferHandler(transfers *apptransfer.Service) *TransferHandler {
	return &TransferHandler{transfers: transfers}
}

// CreateTransfer godoc
// @ID           createTransfer
// @Summary      Send unit
// @Description  Creates a pending transfer of a unit held by the caller's branch
// @Tags         transfers
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Makes the request safe to retry"
// @Param        request body CreateTransferRequest true "Transfer"
// @Success      201 {object} APIResponse[apptransfer.TransferResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /transfers [post]
func (h *TransferHandler) CreateTransfer(c *gin.Context) {
	var req CreateTransferRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.transfers.CreateTransfer(c.Request.Context(), middleware.GetActor(c), apptransfer.CreateTransferRequest{
		UnitID:     uuid.MustParse(req.UnitID),
		ToBranchID: uuid.MustParse(req.ToBranchID),
		Reason:     req.Reason,
		Notes:      req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// ListTransfers godoc
// @ID           listTransfers
// @Summary      List unit transfers
// @Tags         transfers
// @Produce      json
// @Param        direction  query string false "incoming, outgoing or all" default(all)
// @Param        status     query string false "Only this status"
// @Param        status_not query string false "Exclude this status"
// @Param        page       query int    false "Page number" default(1)
// @Param        page_size  query int    false "Page size" default(20)
// @Success      200 {object} APIResponse[[]apptransfer.TransferResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /transfers [get]
func (h *TransferHandler) ListTransfers(c *gin.Context) {
	h.list(c, h.transfers.ListTransfers)
}

// GetTransfer godoc
// @ID           getTransfer
// @Summary      Get unit transfer
// @Tags         transfers
// @Produce      json
// @Param        id path string true "Transfer ID"
// @Success      200 {object} APIResponse[apptransfer.TransferResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /transfers/{id} [get]
func (h *TransferHandler) GetTransfer(c *gin.Context) {
	h.byID(c, h.transfers.GetTransfer)
}

// ReceiveTransfer godoc
// @ID           receiveTransfer
// @Summary      Receive unit
// @Description  Completes a transfer at the destination branch and moves the unit
// @Tags         transfers
// @Produce      json
// @Param        Idempotency-Key header string false "Makes the request safe to retry"
// @Param        id path string true "Transfer ID"
// @Success      200 {object} APIResponse[apptransfer.TransferResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /transfers/{id}/receive [post]
func (h *TransferHandler) ReceiveTransfer(c *gin.Context) {
	h.byID(c, h.transfers.ReceiveTransfer)
}

// ApproveTransfer godoc
// @ID           approveTransfer
// @Summary      Approve unit transfer
// @Tags         transfers
// @Produce      json
// @Param        id path string true "Transfer ID"
// @Success      200 {object} APIResponse[apptransfer.TransferResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /transfers/{id}/approve [post]
func (h *TransferHandler) ApproveTransfer(c *gin.Context) {
	h.transition(c, h.transfers.ChangeTransferStatus, apptransfer.VerbApprove)
}

// RejectTransfer godoc
// @ID           rejectTransfer
// @Summary      Reject unit transfer
// @Tags         transfers
// @Produce      json
// @Param        id path string true "Transfer ID"
// @Success      200 {object} APIResponse[apptransfer.TransferResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /transfers/{id}/reject [post]
func (h *TransferHandler) RejectTransfer(c *gin.Context) {
	h.transition(c, h.transfers.ChangeTransferStatus, apptransfer.VerbReject)
}

// CancelTransfer godoc
// @ID           cancelTransfer
// @Summary      Cancel unit transfer
// @Tags         transfers
// @Produce      json
// @Param        id path string true "Transfer ID"
// @Success      200 {object} APIResponse[apptransfer.TransferResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /transfers/{id}/cancel [post]
func (h *TransferHandler) CancelTransfer(c *gin.Context) {
	h.transition(c, h.transfers.ChangeTransferStatus, apptransfer.VerbCancel)
}

// CreateAccessoryTransfer godoc
// @ID           createAccessoryTransfer
// @Summary      Send accessories
// @Description  Creates a pending transfer of an accessory quantity; stock is checked but not moved
// @Tags         accessory-transfers
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Makes the request safe to retry"
// @Param        request body CreateAccessoryTransferRequest true "Transfer"
// @Success      201 {object} APIResponse[apptransfer.TransferResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /accessory-transfers [post]
func (h *TransferHandler) CreateAccessoryTransfer(c *gin.Context) {
	var req CreateAccessoryTransferRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.transfers.CreateAccessoryTransfer(c.Request.Context(), middleware.GetActor(c), apptransfer.CreateAccessoryTransferRequest{
		AccessoryID: uuid.MustParse(req.AccessoryID),
		ToBranchID:  uuid.MustParse(req.ToBranchID),
		Quantity:    req.Quantity,
		Reason:      req.Reason,
		Notes:       req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// ListAccessoryTransfers godoc
// @ID           listAccessoryTransfers
// @Summary      List accessory transfers
// @Tags         accessory-transfers
// @Produce      json
// @Param        direction  query string false "incoming, outgoing or all" default(all)
// @Param        status     query string false "Only this status"
// @Param        status_not query string false "Exclude this status"
// @Param        page       query int    false "Page number" default(1)
// @Param        page_size  query int    false "Page size" default(20)
// @Success      200 {object} APIResponse[[]apptransfer.TransferResponse]
// @Security     BearerAuth
// @Router       /accessory-transfers [get]
func (h *TransferHandler) ListAccessoryTransfers(c *gin.Context) {
	h.list(c, h.transfers.ListAccessoryTransfers)
}

// GetAccessoryTransfer godoc
// @ID           getAccessoryTransfer
// @Summary      Get accessory transfer
// @Tags         accessory-transfers
// @Produce      json
// @Param        id path string true "Transfer ID"
// @Success      200 {object} APIResponse[apptransfer.TransferResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /accessory-transfers/{id} [get]
func (h *TransferHandler) GetAccessoryTransfer(c *gin.Context) {
	h.byID(c, h.transfers.GetAccessoryTransfer)
}

// ReceiveAccessoryTransfer godoc
// @ID           receiveAccessoryTransfer
// @Summary      Receive accessories
// @Description  Moves the quantity from the source to the destination ledger
// @Tags         accessory-transfers
// @Produce      json
// @Param        Idempotency-Key header string false "Makes the request safe to retry"
// @Param        id path string true "Transfer ID"
// @Success      200 {object} APIResponse[apptransfer.TransferResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /accessory-transfers/{id}/receive [post]
func (h *TransferHandler) ReceiveAccessoryTransfer(c *gin.Context) {
	h.byID(c, h.transfers.ReceiveAccessoryTransfer)
}

// ApproveAccessoryTransfer godoc
// @ID           approveAccessoryTransfer
// @Summary      Approve accessory transfer
// @Tags         accessory-transfers
// @Produce      json
// @Param        id path string true "Transfer ID"
// @Success      200 {object} APIResponse[apptransfer.TransferResponse]
// @Security     BearerAuth
// @Router       /accessory-transfers/{id}/approve [post]
func (h *TransferHandler) ApproveAccessoryTransfer(c *gin.Context) {
	h.transition(c, h.transfers.ChangeAccessoryTransferStatus, apptransfer.VerbApprove)
}

// RejectAccessoryTransfer godoc
// @ID           rejectAccessoryTransfer
// @Summary      Reject accessory transfer
// @Tags         accessory-transfers
// @Produce      json
// @Param        id path string true "Transfer ID"
// @Success      200 {object} APIResponse[apptransfer.TransferResponse]
// @Security     BearerAuth
// @Router       /accessory-transfers/{id}/reject [post]
func (h *TransferHandler) RejectAccessoryTransfer(c *gin.Context) {
	h.transition(c, h.transfers.ChangeAccessoryTransferStatus, apptransfer.VerbReject)
}

// CancelAccessoryTransfer godoc
// @ID           cancelAccessoryTransfer
// @Summary      Cancel accessory transfer
// @Tags         accessory-transfers
// @Produce      json
// @Param        id path string true "Transfer ID"
// @Success      200 {object} APIResponse[apptransfer.TransferResponse]
// @Security     BearerAuth
// @Router       /accessory-transfers/{id}/cancel [post]
func (h *TransferHandler) CancelAccessoryTransfer(c *gin.Context) {
	h.transition(c, h.transfers.ChangeAccessoryTransferStatus, apptransfer.VerbCancel)
}

type (
	transferLister      = func(ctx context.Context, actor access.Actor, q transfer.Query) (*shared.Paginated[apptransfer.TransferResponse], error)
	transferByID        = func(ctx context.Context, actor access.Actor, id uuid.UUID) (*apptransfer.TransferResponse, error)
	transferTransitions = func(ctx context.Context, actor access.Actor, id uuid.UUID, verb apptransfer.Verb) (*apptransfer.TransferResponse, error)
)

func (h *TransferHandler) list(c *gin.Context, fn transferLister) {
	var req ListTransfersRequest
	if !h.bindQuery(c, &req) {
		return
	}
	q, err := apptransfer.ListQueryInput{
		Direction: req.Direction,
		Status:    req.Status,
		StatusNot: req.StatusNot,
		Page:      req.Page,
		PageSize:  req.PageSize,
	}.Parse()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, err := fn(c.Request.Context(), middleware.GetActor(c), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	SuccessPage(c, page)
}

func (h *TransferHandler) byID(c *gin.Context, fn transferByID) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	result, err := fn(c.Request.Context(), middleware.GetActor(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

func (h *TransferHandler) transition(c *gin.Context, fn transferTransitions, verb apptransfer.Verb) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	result, err := fn(c.Request.Context(), middleware.GetActor(c), id, verb)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
