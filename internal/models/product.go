package models

import (
	"time"

	"github.com/yasinhessnawi1/Shopfront_Backend/internal/constants"
)

// Product is an item of the catalog.
type Product struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Price       float64   `json:"price" db:"price"`
	Stock       int       `json:"stock" db:"stock"`
	Category    string    `json:"category" db:"category"`
	ImageURL    string    `json:"image_url,omitempty" db:"image_url"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// TableName returns the database table name for the Product model.
func (p *Product) TableName() string {
	return constants.TableProducts
}

// InStock reports whether at least one unit is available.
func (p *Product) InStock() bool {
	return p.Stock > 0
}

// ProductCreate is the admin payload for a new product.
type ProductCreate struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Description string  `json:"description" validate:"max=2000"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Stock       *int    `json:"stock" validate:"required,gte=0"`
	Category    string  `json:"category" validate:"max=100"`
	ImageURL    string  `json:"image_url" validate:"omitempty,url"`
}

// ToProduct builds the Product to insert.
func (c *ProductCreate) ToProduct() *Product {
	now := time.Now().UTC()
	stock := 0
	if c.Stock != nil {
		stock = *c.Stock
	}
	return &Product{
		Name:        c.Name,
		Description: c.Description,
		Price:       c.Price,
		Stock:       stock,
		Category:    c.Category,
		ImageURL:    c.ImageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// ProductUpdate is a partial update; nil fields are left unchanged.
type ProductUpdate struct {
	Name        *string  `json:"name" validate:"omitempty,min=1,max=255"`
	Description *string  `json:"description" validate:"omitempty,max=2000"`
	Price       *float64 `json:"price" validate:"omitempty,gt=0"`
	Stock       *int     `json:"stock" validate:"omitempty,gte=0"`
	Category    *string  `json:"category" validate:"omitempty,max=100"`
	ImageURL    *string  `json:"image_url" validate:"omitempty,url"`
}

// IsEmpty reports whether the update carries no fields.
func (u *ProductUpdate) IsEmpty() bool {
	return u.Name == nil && u.Description == nil && u.Price == nil &&
		u.Stock == nil && u.Category == nil && u.ImageURL == nil
}

// Apply copies the set fields onto p.
func (u *ProductUpdate) Apply(p *Product) {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.Price != nil {
		p.Price = *u.Price
	}
	if u.Stock != nil {
		p.Stock = *u.Stock
	}
	if u.Category != nil {
		p.Category = *u.Category
	}
	if u.ImageURL != nil {
		p.ImageURL = *u.ImageURL
	}
	p.UpdatedAt = time.Now().UTC()
}

// ProductFilter holds the public listing criteria.
type ProductFilter struct {
	Category string
	MinPrice *float64
	MaxPrice *float64
	SortBy   string
	Page     int
	PageSize int
}

// Offset returns the number of rows to skip for the requested page.
func (f ProductFilter) Offset() int {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

// ProductPage is one page of a product listing.
type ProductPage struct {
	Products []*Product `json:"products"`
	Total    int        `json:"total"`
	Page     int        `json:"page"`
	PageSize int        `json:"page_size"`
}
