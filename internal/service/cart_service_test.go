package service

import (
	"testing"

	"storefront/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestAssembleCartView(t *testing.T) {
	items := []models.CartItem{
		{ID: 1, CustomerID: 7, ProductID: 1, Quantity: 2},
		{ID: 2, CustomerID: 7, ProductID: 2, Quantity: 1},
	}
	products := map[int64]models.Product{
		1: {ID: 1, Name: "Lamp", Price: 1000},
		2: {ID: 2, Name: "Desk", Price: 500},
	}

	view := assembleCartView(items, products)

	assert.Len(t, view.Lines, 2)
	assert.Equal(t, int64(2000), view.Lines[0].LineTotal)
	assert.Equal(t, int64(500), view.Lines[1].LineTotal)
	assert.Equal(t, int64(2500), view.Total)
}

func TestAssembleCartViewSkipsMissingProducts(t *testing.T) {
	items := []models.CartItem{
		{ID: 1, CustomerID: 7, ProductID: 1, Quantity: 2},
		{ID: 2, CustomerID: 7, ProductID: 99, Quantity: 3},
	}
	products := map[int64]models.Product{
		1: {ID: 1, Name: "Lamp", Price: 1000},
	}

	view := assembleCartView(items, products)

	assert.Len(t, view.Lines, 1)
	assert.Equal(t, int64(2000), view.Total)
}

func TestAssembleCartViewEmpty(t *testing.T) {
	view := assembleCartView(nil, nil)
	assert.Empty(t, view.Lines)
	assert.Zero(t, view.Total)
}
