package repositories

import "orderuz/internal/models"

// CatalogRepository defines access to restaurants, dishes and feed videos.
// List methods return items in insertion order.
type CatalogRepository interface {
	Restaurants() ([]models.Restaurant, error)
	GetRestaurant(id string) (*models.Restaurant, error)
	CreateRestaurant(r *models.Restaurant) error
	FoodItems() ([]models.FoodItem, error)
	GetFoodItem(id string) (*models.FoodItem, error)
	CreateFoodItem(f *models.FoodItem) error
	Videos() ([]models.Video, error)
	GetVideo(id string) (*models.Video, error)
	CreateVideo(v *models.Video) error
}
