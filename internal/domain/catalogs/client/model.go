// Package client manages the customer catalog. Every blade and every
// warehouse document belongs to exactly one client.
package client

import (
	"context"
	"regexp"
	"strings"

	"github.com/sebastiansledz/qrsaws-sub000/internal/core/apperror"
	"github.com/sebastiansledz/qrsaws-sub000/internal/core/entity"
)

// codePattern constrains the short code embedded into document numbers.
// Two uppercase letters, e.g. "AB" in WZ/AB/2025/08/001.
var codePattern = regexp.MustCompile(`^[A-Z]{2}$`)

// nipPattern is the Polish tax identifier, 10 digits.
var nipPattern = regexp.MustCompile(`^\d{10}$`)

// Client represents a sawmill customer.
type Client struct {
	entity.Catalog

	// NIP is the tax identification number (optional)
	NIP string `db:"nip" json:"nip,omitempty"`

	// Address fields
	Address    string `db:"address" json:"address,omitempty"`
	City       string `db:"city" json:"city,omitempty"`
	PostalCode string `db:"postal_code" json:"postalCode,omitempty"`

	// Contact fields
	Email string `db:"email" json:"email,omitempty"`
	Phone string `db:"phone" json:"phone,omitempty"`

	// Notes is free-form text
	Notes string `db:"notes" json:"notes,omitempty"`
}

// New creates a client with a generated ID and normalized code.
func New(code, name string) *Client {
	return &Client{
		Catalog: entity.NewCatalog(NormalizeCode(code), name),
	}
}

// NormalizeCode trims and uppercases a client code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Validate implements entity.Validatable.
func (c *Client) Validate(ctx context.Context) error {
	if err := c.Catalog.Validate(ctx); err != nil {
		return err
	}

	c.Code = NormalizeCode(c.Code)
	if c.Code == "" {
		return apperror.NewValidation("code is required").
			WithDetail("field", "code")
	}
	if !codePattern.MatchString(c.Code) {
		return apperror.NewValidation("code must be exactly two uppercase letters").
			WithDetail("field", "code").
			WithDetail("value", c.Code)
	}

	if c.NIP != "" && !nipPattern.MatchString(c.NIP) {
		return apperror.NewValidation("nip must be 10 digits").
			WithDetail("field", "nip").
			WithDetail("value", c.NIP)
	}

	if c.Email != "" && !strings.Contains(c.Email, "@") {
		return apperror.NewValidation("invalid email").
			WithDetail("field", "email")
	}

	return nil
}
