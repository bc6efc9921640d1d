package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yasinhessnawi1/Shopfront_Backend/internal/models"
)

func TestProductCreate_ToProduct(t *testing.T) {
	stock := 4
	create := &models.ProductCreate{Name: "Lamp", Description: "Desk lamp", Price: 19.99, Stock: &stock, Category: "home"}

	product := create.ToProduct()

	assert.Equal(t, "Lamp", product.Name)
	assert.Equal(t, 19.99, product.Price)
	assert.Equal(t, 4, product.Stock)
	assert.True(t, product.InStock())
	assert.False(t, product.CreatedAt.IsZero())
}

func TestProductUpdate_Apply(t *testing.T) {
	product := &models.Product{ID: 1, Name: "Lamp", Price: 10, Stock: 2, Category: "home"}
	name := "Floor lamp"
	stock := 0
	update := &models.ProductUpdate{Name: &name, Stock: &stock}

	assert.False(t, update.IsEmpty())
	update.Apply(product)

	assert.Equal(t, "Floor lamp", product.Name)
	assert.Equal(t, 0, product.Stock)
	assert.Equal(t, 10.0, product.Price, "unset fields keep their value")
	assert.Equal(t, "home", product.Category)
	assert.False(t, product.InStock())

	assert.True(t, (&models.ProductUpdate{}).IsEmpty())
}

func TestProductFilter_Offset(t *testing.T) {
	assert.Equal(t, 0, models.ProductFilter{Page: 1, PageSize: 10}.Offset())
	assert.Equal(t, 30, models.ProductFilter{Page: 4, PageSize: 10}.Offset())
	assert.Equal(t, 0, models.ProductFilter{Page: 0, PageSize: 10}.Offset())
}

func TestNewCart(t *testing.T) {
	cart := models.NewCart([]*models.CartLine{
		{ID: 1, ProductID: 1, UnitPrice: 19.99, Quantity: 3},
		{ID: 2, ProductID: 2, UnitPrice: 0.1, Quantity: 2},
	})

	assert.Equal(t, 59.97, cart.Items[0].Subtotal)
	assert.Equal(t, 0.2, cart.Items[1].Subtotal)
	assert.Equal(t, 60.17, cart.Total)

	empty := models.NewCart(nil)
	assert.NotNil(t, empty.Items)
	assert.Equal(t, 0.0, empty.Total)
}
