package handler

import (
	apptrade "github.com/gadgetstock/backend/internal/application/trade"
	"github.com/gadgetstock/backend/internal/domain/trade"
	"github.com/gadgetstock/backend/internal/domain/shared"
	"github.com/gadgetstock/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TradeHandler serves invoices, payments, returns and invoice documents
type TradeHandler struct {
	BaseHandler
	invoices  *apptrade.InvoiceService
	returns   *apptrade.ReturnService
	documents *apptrade.DocumentService
}

// NewTradeHandler creates a new trade handler. documents may be nil when
// printing is disabled.
func NewTradeHandler(invoices *apptrade.InvoiceService, returns *apptrade.ReturnService, documents *apptrade.DocumentService) *TradeHandler {
	return &TradeHandler{invoices: invoices, returns: returns, documents: documents}
}

// CreateInvoice godoc
// @ID           createInvoice
// @Summary      Create invoice
// @Description  Sells units and accessories held by the caller's branch
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Makes the request safe to retry"
// @Param        request body CreateInvoiceRequest true "Invoice"
// @Success      201 {object} APIResponse[apptrade.InvoiceResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices [post]
func (h *TradeHandler) CreateInvoice(c *gin.Context) {
	var req CreateInvoiceRequest
	if !h.bindJSON(c, &req) {
		return
	}
	in := apptrade.CreateInvoiceRequest{
		CustomerName:   req.CustomerName,
		CustomerPhone:  req.CustomerPhone,
		InitialPayment: req.InitialPayment,
		Items:          make([]apptrade.InvoiceItemInput, 0, len(req.Items)),
	}
	for _, item := range req.Items {
		in.Items = append(in.Items, apptrade.InvoiceItemInput{
			Kind:        trade.ItemKind(item.Kind),
			UnitID:      optionalUUID(item.UnitID),
			AccessoryID: optionalUUID(item.AccessoryID),
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}
	result, err := h.invoices.CreateInvoice(c.Request.Context(), middleware.GetActor(c), in)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// ListInvoices godoc
// @ID           listInvoices
// @Summary      List invoices
// @Tags         invoices
// @Produce      json
// @Param        branch_id query string false "Branch filter (admin branch only)"
// @Param        status    query string false "Invoice status"
// @Param        search    query string false "Invoice number or customer"
// @Param        page      query int    false "Page number" default(1)
// @Param        page_size query int    false "Page size" default(20)
// @Success      200 {object} APIResponse[[]apptrade.InvoiceResponse]
// @Security     BearerAuth
// @Router       /invoices [get]
func (h *TradeHandler) ListInvoices(c *gin.Context) {
	var req ListInvoicesRequest
	if !h.bindQuery(c, &req) {
		return
	}
	q := apptrade.ListInvoicesQuery{
		BranchID: optionalUUID(req.BranchID),
		Search:   req.Search,
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	if req.Status != "" {
		st := trade.InvoiceStatus(req.Status)
		q.Status = &st
	}
	page, err := h.invoices.ListInvoices(c.Request.Context(), middleware.GetActor(c), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	SuccessPage(c, page)
}

// GetInvoice godoc
// @ID           getInvoice
// @Summary      Get invoice
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID"
// @Success      200 {object} APIResponse[apptrade.InvoiceResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/{id} [get]
func (h *TradeHandler) GetInvoice(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	result, err := h.invoices.GetInvoice(c.Request.Context(), middleware.GetActor(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// RecordPayment godoc
// @ID           recordInvoicePayment
// @Summary      Record payment
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id      path string               true "Invoice ID"
// @Param        request body RecordPaymentRequest true "Payment"
// @Success      200 {object} APIResponse[apptrade.InvoiceResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/{id}/payments [post]
func (h *TradeHandler) RecordPayment(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req RecordPaymentRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.invoices.RecordPayment(c.Request.Context(), middleware.GetActor(c), id, req.Amount)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// CancelInvoice godoc
// @ID           cancelInvoice
// @Summary      Cancel invoice
// @Description  Cancels an unpaid invoice and puts its units and accessories back
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID"
// @Success      200 {object} APIResponse[apptrade.InvoiceResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/{id}/cancel [post]
func (h *TradeHandler) CancelInvoice(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	result, err := h.invoices.CancelInvoice(c.Request.Context(), middleware.GetActor(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// RenderDocument godoc
// @ID           renderInvoiceDocument
// @Summary      Invoice PDF
// @Description  Renders the invoice to PDF and returns a download URL
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID"
// @Success      201 {object} SuccessResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/{id}/document [post]
func (h *TradeHandler) RenderDocument(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if h.documents == nil {
		h.Error(c, shared.CodeNotFound, "Invoice printing is disabled")
		return
	}
	result, err := h.documents.RenderInvoicePDF(c.Request.Context(), middleware.GetActor(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// CreateReturn godoc
// @ID           createReturn
// @Summary      Record return
// @Description  Brings invoice lines back for exchange or repair
// @Tags         returns
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Makes the request safe to retry"
// @Param        request body CreateReturnRequest true "Return"
// @Success      201 {object} APIResponse[apptrade.ReturnResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /returns [post]
func (h *TradeHandler) CreateReturn(c *gin.Context) {
	var req CreateReturnRequest
	if !h.bindJSON(c, &req) {
		return
	}
	in := apptrade.CreateReturnRequest{
		InvoiceID: uuid.MustParse(req.InvoiceID),
		Reason:    req.Reason,
		Items:     make([]apptrade.ReturnItemInput, 0, len(req.Items)),
	}
	for _, item := range req.Items {
		in.Items = append(in.Items, apptrade.ReturnItemInput{
			InvoiceItemID:     uuid.MustParse(item.InvoiceItemID),
			Resolution:        trade.Resolution(item.Resolution),
			ReplacementUnitID: optionalUUID(item.ReplacementUnitID),
			Quantity:          item.Quantity,
		})
	}
	result, err := h.returns.CreateReturn(c.Request.Context(), middleware.GetActor(c), in)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// GetReturn godoc
// @ID           getReturn
// @Summary      Get return
// @Tags         returns
// @Produce      json
// @Param        id path string true "Return ID"
// @Success      200 {object} APIResponse[apptrade.ReturnResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /returns/{id} [get]
func (h *TradeHandler) GetReturn(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	result, err := h.returns.GetReturn(c.Request.Context(), middleware.GetActor(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
