package product

import (
	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/dpereira/go-product-api/internal/types"
)

// CreateProductRequest represents the expected JSON body for product creation.
type CreateProductRequest struct {
	Name        string  `json:"name" example:"Mechanical Keyboard"`
	Description *string `json:"description,omitempty"`
	Price       float64 `json:"price" example:"79.90"`
	Stock       int     `json:"stock" example:"42"`
}

func (r CreateProductRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(3, 50)),
		validation.Field(&r.Description, validation.Length(0, 500)),
		validation.Field(&r.Price, validation.Required, validation.Min(0.0).Exclusive()),
		validation.Field(&r.Stock, validation.Min(0)),
	)
}

// UpdateProductRequest represents the expected JSON body for a full update.
type UpdateProductRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	IsActive    bool    `json:"is_active"`
}

func (r UpdateProductRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(3, 50)),
		validation.Field(&r.Description, validation.Length(0, 500)),
		validation.Field(&r.Price, validation.Required, validation.Min(0.0).Exclusive()),
		validation.Field(&r.Stock, validation.Min(0)),
	)
}

// ValidatePatch checks only the fields present on a partial update; nil
// fields are left alone by the merge and skipped here. Present fields are
// validated on their dereferenced values so that explicit zero values
// ("name": "", "price": 0) still hit the same rules a full update applies.
func ValidatePatch(p types.ProductPatch) error {
	errs := validation.Errors{}
	if p.Name != nil {
		errs["name"] = validation.Validate(*p.Name, validation.Required, validation.Length(3, 50))
	}
	if p.Description != nil {
		errs["description"] = validation.Validate(*p.Description, validation.Length(0, 500))
	}
	if p.Price != nil {
		errs["price"] = validation.Validate(*p.Price, validation.Required, validation.Min(0.0).Exclusive())
	}
	if p.Stock != nil {
		errs["stock"] = validation.Validate(*p.Stock, validation.Min(0))
	}
	return errs.Filter()
}
