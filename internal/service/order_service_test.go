package service

import (
	"testing"

	"storefront/internal/models"
	"storefront/internal/store"

	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	order := models.Order{ID: 1234567, Status: models.StatusConfirmed}
	details := []store.OrderedItemDetail{
		{OrderedItem: models.OrderedItem{ProductID: 1, Quantity: 2, Price: 1000}, ProductName: "Lamp"},
		{OrderedItem: models.OrderedItem{ProductID: 2, Quantity: 1, Price: 500}, ProductName: "Desk"},
	}

	summary := summarize(order, details)

	assert.Equal(t, int64(2500), summary.Total)
	assert.Equal(t, []string{"Desk", "Lamp"}, summary.ProductNames)
}

func TestSummarizeDeduplicatesNames(t *testing.T) {
	// Two snapshot lines can share a product name; the listing shows each
	// name once but the total still counts both lines.
	order := models.Order{ID: 1234567}
	details := []store.OrderedItemDetail{
		{OrderedItem: models.OrderedItem{ProductID: 1, Quantity: 1, Price: 1000}, ProductName: "Lamp"},
		{OrderedItem: models.OrderedItem{ProductID: 3, Quantity: 1, Price: 1200}, ProductName: "Lamp"},
	}

	summary := summarize(order, details)

	assert.Equal(t, []string{"Lamp"}, summary.ProductNames)
	assert.Equal(t, int64(2200), summary.Total)
}

func TestSummarizeUsesFrozenPrices(t *testing.T) {
	// The snapshot price drives the total, regardless of what the live
	// catalog says now.
	order := models.Order{ID: 1234567}
	details := []store.OrderedItemDetail{
		{OrderedItem: models.OrderedItem{ProductID: 1, Quantity: 2, Price: 800}, ProductName: "Lamp"},
	}

	summary := summarize(order, details)
	assert.Equal(t, int64(1600), summary.Total)
}
