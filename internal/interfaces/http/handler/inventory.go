package handler

import (
	appaudit "github.com/gadgetstock/backend/internal/application/audit"
	appinventory "github.com/gadgetstock/backend/internal/application/inventory"
	"github.com/gadgetstock/backend/internal/domain/inventory"
	"github.com/gadgetstock/backend/internal/domain/shared"
	"github.com/gadgetstock/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// InventoryHandler serves units, accessory stock and unit audit trails
type InventoryHandler struct {
	BaseHandler
	units *appinventory.UnitService
	stock *appinventory.StockService
	audit *appaudit.Service
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(units *appinventory.UnitService, stock *appinventory.StockService, audit *appaudit.Service) *InventoryHandler {
	return &InventoryHandler{units: units, stock: stock, audit: audit}
}

// CreateUnit godoc
// @ID           createUnit
// @Summary      Register unit
// @Description  Registers a serialized unit, by default at the admin branch. Admin branch only.
// @Tags         units
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Makes the request safe to retry"
// @Param        request body CreateUnitRequest true "Unit"
// @Success      201 {object} APIResponse[appinventory.UnitResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /units [post]
func (h *InventoryHandler) CreateUnit(c *gin.Context) {
	var req CreateUnitRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.units.CreateUnit(c.Request.Context(), middleware.GetActor(c), appinventory.CreateUnitRequest{
		ProductTypeID: uuid.MustParse(req.ProductTypeID),
		Serial:        req.Serial,
		Color:         req.Color,
		Memory:        req.Memory,
		Condition:     inventory.Condition(req.Condition),
		BranchID:      optionalUUID(req.BranchID),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// ListUnits godoc
// @ID           listUnits
// @Summary      List units
// @Description  Lists units; without branch_id a regular branch sees its own units
// @Tags         units
// @Produce      json
// @Param        branch_id    query string false "Branch filter"
// @Param        availability query string false "AVAILABLE or SOLD"
// @Param        condition    query string false "BRAND_NEW or SECOND_HAND"
// @Param        search       query string false "Serial prefix"
// @Param        page         query int    false "Page number" default(1)
// @Param        page_size    query int    false "Page size" default(20)
// @Success      200 {object} APIResponse[[]appinventory.UnitResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /units [get]
func (h *InventoryHandler) ListUnits(c *gin.Context) {
	var req ListUnitsRequest
	if !h.bindQuery(c, &req) {
		return
	}
	q := appinventory.ListUnitsQuery{
		BranchID: optionalUUID(req.BranchID),
		Search:   req.Search,
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	if req.Availability != "" {
		a := inventory.Availability(req.Availability)
		q.Availability = &a
	}
	if req.Condition != "" {
		cond := inventory.Condition(req.Condition)
		q.Condition = &cond
	}
	page, err := h.units.ListUnits(c.Request.Context(), middleware.GetActor(c), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	SuccessPage(c, page)
}

// GetUnit godoc
// @ID           getUnit
// @Summary      Get unit
// @Tags         units
// @Produce      json
// @Param        id path string true "Unit ID"
// @Success      200 {object} APIResponse[appinventory.UnitResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /units/{id} [get]
func (h *InventoryHandler) GetUnit(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	result, err := h.units.GetUnit(c.Request.Context(), middleware.GetActor(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// UpdateUnit godoc
// @ID           updateUnit
// @Summary      Correct unit
// @Description  Administrative correction of a unit; every change is written to the audit log. Admin branch only.
// @Tags         units
// @Accept       json
// @Produce      json
// @Param        id      path string            true "Unit ID"
// @Param        request body UpdateUnitRequest true "Fields to change"
// @Success      200 {object} APIResponse[appinventory.UnitResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /units/{id} [put]
func (h *InventoryHandler) UpdateUnit(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req UpdateUnitRequest
	if !h.bindJSON(c, &req) {
		return
	}
	in := appinventory.UpdateUnitRequest{
		Color:     req.Color,
		Memory:    req.Memory,
		Condition: optionalCondition(req.Condition),
	}
	if req.BranchID != nil {
		in.BranchID = optionalUUID(*req.BranchID)
	}
	result, err := h.units.UpdateUnit(c.Request.Context(), middleware.GetActor(c), id, in)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// DeleteUnit godoc
// @ID           deleteUnit
// @Summary      Delete unit
// @Description  Soft deletes an unsold unit that is not in transit. Admin branch only.
// @Tags         units
// @Param        id path string true "Unit ID"
// @Success      204
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /units/{id} [delete]
func (h *InventoryHandler) DeleteUnit(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.units.DeleteUnit(c.Request.Context(), middleware.GetActor(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListAuditLog godoc
// @ID           listUnitAuditLog
// @Summary      Unit audit trail
// @Description  One page of the unit's history, newest first
// @Tags         units
// @Produce      json
// @Param        id        path  string true  "Unit ID"
// @Param        page      query int    false "Page number" default(1)
// @Param        page_size query int    false "Page size" default(20)
// @Success      200 {object} APIResponse[[]appaudit.EntryResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /units/{id}/audit-log [get]
func (h *InventoryHandler) ListAuditLog(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req ListAuditRequest
	if !h.bindQuery(c, &req) {
		return
	}
	page, err := h.audit.ListForUnit(c.Request.Context(), middleware.GetActor(c), id, req.Page, req.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	SuccessPage(c, page)
}

// ExportAuditLog godoc
// @ID           exportUnitAuditLog
// @Summary      Export unit audit trail
// @Description  Writes the full history as JSON lines to object storage and returns a download URL
// @Tags         units
// @Produce      json
// @Param        id path string true "Unit ID"
// @Success      201 {object} APIResponse[appaudit.ExportResult]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /units/{id}/audit-log/export [post]
func (h *InventoryHandler) ExportAuditLog(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	result, err := h.audit.ExportForUnit(c.Request.Context(), middleware.GetActor(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// StockIn godoc
// @ID           stockIn
// @Summary      Receive accessories
// @Description  Adds accessory quantity, by default at the admin branch. Admin branch only.
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Makes the request safe to retry"
// @Param        request body StockInRequest true "Stock movement"
// @Success      201 {object} APIResponse[appinventory.StockResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /stock/in [post]
func (h *InventoryHandler) StockIn(c *gin.Context) {
	var req StockInRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.stock.StockIn(c.Request.Context(), middleware.GetActor(c), appinventory.StockInRequest{
		AccessoryID: uuid.MustParse(req.AccessoryID),
		Quantity:    req.Quantity,
		BranchID:    optionalUUID(req.BranchID),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// ListStock godoc
// @ID           listStock
// @Summary      Accessory stock
// @Description  Ledger rows; a regular branch only sees its own
// @Tags         stock
// @Produce      json
// @Param        branch_id query string false "Branch filter (admin branch only)"
// @Param        search    query string false "Accessory name or SKU"
// @Param        page      query int    false "Page number" default(1)
// @Param        page_size query int    false "Page size" default(20)
// @Success      200 {object} APIResponse[[]appinventory.StockResponse]
// @Security     BearerAuth
// @Router       /stock [get]
func (h *InventoryHandler) ListStock(c *gin.Context) {
	var req ListStockRequest
	if !h.bindQuery(c, &req) {
		return
	}
	page, err := h.stock.ListStock(c.Request.Context(), middleware.GetActor(c), optionalUUID(req.BranchID), shared.Filter{
		Page:     req.Page,
		PageSize: req.PageSize,
		Search:   req.Search,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	SuccessPage(c, page)
}
