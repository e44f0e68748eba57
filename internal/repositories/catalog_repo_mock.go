package repositories

import (
	"fmt"
	"sync"

	"orderuz/internal/models"

	"github.com/google/uuid"
)

// MockCatalogRepository is an in-memory implementation of CatalogRepository.
type MockCatalogRepository struct {
	restaurants []models.Restaurant
	foods       []models.FoodItem
	videos      []models.Video
	mu          sync.RWMutex
}

// NewMockCatalogRepository creates an empty catalog.
func NewMockCatalogRepository() *MockCatalogRepository {
	return &MockCatalogRepository{}
}

// Restaurants returns every restaurant.
func (r *MockCatalogRepository) Restaurants() ([]models.Restaurant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.Restaurant{}, r.restaurants...), nil
}

// GetRestaurant returns a restaurant by its ID.
func (r *MockCatalogRepository) GetRestaurant(id string) (*models.Restaurant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, v := range r.restaurants {
		if v.ID == id {
			c := v
			return &c, nil
		}
	}
	return nil, fmt.Errorf("restaurant %s: %w", id, ErrNotFound)
}

// CreateRestaurant adds a restaurant, generating an ID if missing.
func (r *MockCatalogRepository) CreateRestaurant(res *models.Restaurant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if res.ID == "" {
		res.ID = uuid.New().String()
	}
	r.restaurants = append(r.restaurants, *res)
	return nil
}

// FoodItems returns every dish.
func (r *MockCatalogRepository) FoodItems() ([]models.FoodItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.FoodItem{}, r.foods...), nil
}

// GetFoodItem returns a dish by its ID.
func (r *MockCatalogRepository) GetFoodItem(id string) (*models.FoodItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, v := range r.foods {
		if v.ID == id {
			c := v
			return &c, nil
		}
	}
	return nil, fmt.Errorf("food item %s: %w", id, ErrNotFound)
}

// CreateFoodItem adds a dish, generating an ID if missing.
func (r *MockCatalogRepository) CreateFoodItem(f *models.FoodItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	r.foods = append(r.foods, *f)
	return nil
}

// Videos returns every feed video.
func (r *MockCatalogRepository) Videos() ([]models.Video, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.Video{}, r.videos...), nil
}

// GetVideo returns a video by its ID.
func (r *MockCatalogRepository) GetVideo(id string) (*models.Video, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, v := range r.videos {
		if v.ID == id {
			c := v
			return &c, nil
		}
	}
	return nil, fmt.Errorf("video %s: %w", id, ErrNotFound)
}

// CreateVideo adds a video, generating an ID if missing.
func (r *MockCatalogRepository) CreateVideo(v *models.Video) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	r.videos = append(r.videos, *v)
	return nil
}
