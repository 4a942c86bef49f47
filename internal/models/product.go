package models

import (
	"bytes"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Product represents a catalog product as served by the remote catalog API.
// Products are read-only here: they are decoded per request and discarded after rendering.
type Product struct {
	ID          ProductID       `json:"id"`
	Slug        string          `json:"slug"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
	Price       decimal.Decimal `json:"price"`
}

// ProductID is an opaque identifier. The catalog may send it as a JSON number or string.
type ProductID string

func (id *ProductID) UnmarshalJSON(b []byte) error {
	if bytes.HasPrefix(b, []byte(`"`)) {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ProductID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = ProductID(n.String())
	return nil
}
