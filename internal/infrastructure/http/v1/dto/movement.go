package dto

import "github.com/shopspring/decimal"

// RecordMovementRequest records one blade movement.
type RecordMovementRequest struct {
	BladeID     string           `json:"bladeId" binding:"required"`
	Op          string           `json:"op" binding:"required"`
	ClientID    string           `json:"clientId"`
	DocChoice   string           `json:"docChoice"`
	Status      string           `json:"status"`
	Machine     string           `json:"machine"`
	HoursWorked *decimal.Decimal `json:"hoursWorked"`
	Note        string           `json:"note"`
}

// MovementListQuery filters movement listings.
type MovementListQuery struct {
	BladeID string `form:"bladeId"`
	Op      string `form:"op"`
	Limit   int    `form:"limit"`
	Offset  int    `form:"offset"`
}
