package handler

// CreateTransferRequest represents the request body for sending a unit to another branch
type CreateTransferRequest struct {
	UnitID     string `json:"unit_id" binding:"required,uuid"`
	ToBranchID string `json:"to_branch_id" binding:"required,uuid"`
	Reason     string `json:"reason" binding:"max=255" example:"restock"`
	Notes      string `json:"notes" binding:"max=1000"`
}

// CreateAccessoryTransferRequest represents the request body for sending accessories to another branch
type CreateAccessoryTransferRequest struct {
	AccessoryID string `json:"accessory_id" binding:"required,uuid"`
	ToBranchID  string `json:"to_branch_id" binding:"required,uuid"`
	Quantity    int64  `json:"quantity" binding:"required,gt=0" example:"5"`
	Reason      string `json:"reason" binding:"max=255"`
	Notes       string `json:"notes" binding:"max=1000"`
}

// ListTransfersRequest represents the query of a transfer listing. Status values
// are checked by the service so both flavours report the same message.
type ListTransfersRequest struct {
	Direction string `form:"direction"`
	Status    string `form:"status"`
	StatusNot string `form:"status_not"`
	Page      int    `form:"page" binding:"omitempty,min=1"`
	PageSize  int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}
