package controllers

import (
	"testing"

	"github.com/velora-shop/velora/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposePackImageSkipsUnreadableImages(t *testing.T) {
	db := setupTestDB(t)
	product := seedProduct(t, db, "Serum", "45.00", intPtr(5))
	require.NoError(t, db.Create(&models.ProductImage{
		ProductID: product.ID,
		URL:       "uploads/does-not-exist.png",
	}).Error)

	pack := models.Pack{Name: "Starter Bundle"}
	require.NoError(t, db.Create(&pack).Error)
	require.NoError(t, db.Create(&models.PackItem{
		PackID:           pack.ID,
		DefaultProductID: product.ID,
	}).Error)

	// Every referenced image is unreadable, so no banner is stored.
	url, err := composePackImage(&pack)
	require.NoError(t, err)
	assert.Empty(t, url)
}

func TestComposePackImageNoProductImages(t *testing.T) {
	db := setupTestDB(t)
	product := seedProduct(t, db, "Lotion", "30.00", intPtr(5))

	pack := models.Pack{Name: "Plain Bundle"}
	require.NoError(t, db.Create(&pack).Error)
	require.NoError(t, db.Create(&models.PackItem{
		PackID:           pack.ID,
		DefaultProductID: product.ID,
	}).Error)

	url, err := composePackImage(&pack)
	require.NoError(t, err)
	assert.Empty(t, url)
}
