package types

import "time"

// Product represents a catalog item owned by a user.
type Product struct {
	ID          string    `json:"id" example:"f7b3e6a0-1c54-4b01-90e6-d701748f0851"` // Unique identifier (UUID).
	Name        string    `json:"name" example:"Mechanical Keyboard"`                // Product name.
	Description *string   `json:"description,omitempty"`                             // Optional long description.
	Price       float64   `json:"price" example:"79.90"`                             // Unit price, always positive.
	Stock       int       `json:"stock" example:"42"`                                // Items available, never negative.
	OwnerID     string    `json:"owner_id"`                                          // ID of the user that created the product.
	IsActive    bool      `json:"is_active"`                                         // Whether the product is visible.
	CreatedAt   time.Time `json:"created_at"`                                        // Timestamp when the product was created.
	UpdatedAt   time.Time `json:"updated_at"`                                        // Timestamp when the product was last updated.
}

// ProductPatch enumerates the mutable product fields for partial updates.
// Nil means "leave unchanged"; only non-nil fields are merged.
type ProductPatch struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Stock       *int     `json:"stock,omitempty"`
	IsActive    *bool    `json:"is_active,omitempty"`
}

// IsEmpty reports whether the patch carries no fields at all.
func (p ProductPatch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.Price == nil && p.Stock == nil && p.IsActive == nil
}
