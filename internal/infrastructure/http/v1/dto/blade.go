package dto

import "github.com/shopspring/decimal"

// CreateBladeRequest creates a new blade. Code is optional; when empty the
// next BL code is assigned.
type CreateBladeRequest struct {
	Code        string          `json:"code"`
	Name        string          `json:"name" binding:"required"`
	ClientID    string          `json:"clientId"`
	WidthMm     decimal.Decimal `json:"widthMm"`
	ThicknessMm decimal.Decimal `json:"thicknessMm"`
	LengthMm    decimal.Decimal `json:"lengthMm"`
	Pitch       string          `json:"pitch"`
	ToothType   string          `json:"toothType"`
	System      string          `json:"system"`
	MachineType string          `json:"machineType"`
	Status      string          `json:"status"`
	Notes       string          `json:"notes"`
}

// UpdateBladeRequest updates an existing blade.
type UpdateBladeRequest struct {
	Name        string          `json:"name" binding:"required"`
	ClientID    string          `json:"clientId"`
	WidthMm     decimal.Decimal `json:"widthMm"`
	ThicknessMm decimal.Decimal `json:"thicknessMm"`
	LengthMm    decimal.Decimal `json:"lengthMm"`
	Pitch       string          `json:"pitch"`
	ToothType   string          `json:"toothType"`
	System      string          `json:"system"`
	MachineType string          `json:"machineType"`
	Status      string          `json:"status"`
	Notes       string          `json:"notes"`
	Version     int             `json:"version" binding:"required"`
}
