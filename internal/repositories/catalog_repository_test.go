package repositories_test

import (
	"testing"

	"orderuz/internal/models"
	"orderuz/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedCatalog(t *testing.T) {
	repo := repositories.NewMockCatalogRepository()
	require.NoError(t, repositories.SeedCatalog(repo))

	restaurants, err := repo.Restaurants()
	require.NoError(t, err)
	assert.Len(t, restaurants, 3)

	videos, err := repo.Videos()
	require.NoError(t, err)
	require.Len(t, videos, 3)
	assert.Equal(t, "vid-1", videos[0].ID)

	// Every video points at a dish of its own restaurant.
	for _, v := range videos {
		food, err := repo.GetFoodItem(v.FoodItemID)
		require.NoError(t, err)
		assert.Equal(t, v.RestaurantID, food.RestaurantID)
		assert.Equal(t, v.FoodPrice, food.Price)
	}
}

func TestMockCatalogRepository(t *testing.T) {
	repo := repositories.NewMockCatalogRepository()

	food := &models.FoodItem{Name: "Lagman", Price: 30000, RestaurantID: "res-1"}
	require.NoError(t, repo.CreateFoodItem(food))
	assert.NotEmpty(t, food.ID)

	got, err := repo.GetFoodItem(food.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lagman", got.Name)

	_, err = repo.GetRestaurant("res-404")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	_, err = repo.GetVideo("vid-404")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}
