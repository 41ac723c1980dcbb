package catalog

import "time"

// Service is a catalog offering stored in the services table.
// A service is priced either per item or per pound; when both prices are
// present the per-item price wins. Archived services stay in the table so
// historical order lines keep a valid reference.
type Service struct {
	ID            string    `dynamodbav:"id" json:"id"` // PK
	Name          string    `dynamodbav:"name" json:"name"`
	Description   string    `dynamodbav:"description,omitempty" json:"description,omitempty"`
	PricePerItem  *float64  `dynamodbav:"pricePerItem,omitempty" json:"pricePerItem,omitempty"`
	PricePerPound *float64  `dynamodbav:"pricePerPound,omitempty" json:"pricePerPound,omitempty"`
	IsActive      bool      `dynamodbav:"isActive" json:"isActive"`
	CreatedAt     time.Time `dynamodbav:"createdAt" json:"createdAt"`
}

// Patch carries the editable fields for a catalog update. Nil means "leave as is".
type Patch struct {
	Name          *string  `json:"name,omitempty"`
	Description   *string  `json:"description,omitempty"`
	PricePerItem  *float64 `json:"pricePerItem,omitempty"`
	PricePerPound *float64 `json:"pricePerPound,omitempty"`
	IsActive      *bool    `json:"isActive,omitempty"`
}
