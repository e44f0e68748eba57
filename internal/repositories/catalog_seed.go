package repositories

import (
	"fmt"

	"orderuz/internal/models"
)

// DefaultRestaurants, DefaultFoodItems and DefaultVideos are the launch catalog.
var DefaultRestaurants = []models.Restaurant{
	{
		ID:           "res-1",
		Name:         "Chorsu Heritage Grill",
		Rating:       4.8,
		DeliveryTime: "25-35 min",
		Category:     "Uzbek Traditional",
		Location:     "Tashkent, Shaykhantakhur District",
		Description:  "Authentic Uzbek grill and traditional cuisine from the heart of Chorsu.",
	},
	{
		ID:           "res-2",
		Name:         "Samarkand Plov Center",
		Rating:       4.9,
		DeliveryTime: "20-30 min",
		Category:     "National Food",
		Location:     "Samarkand, University Boulevard",
		Description:  "Award-winning Samarkand plov cooked daily in traditional giant cauldrons.",
	},
	{
		ID:           "res-3",
		Name:         "Tashkent Urban Eats",
		Rating:       4.5,
		DeliveryTime: "15-25 min",
		Category:     "Modern Fusion",
		Location:     "Tashkent, Mirabad District",
		Description:  "Modern takes on traditional favorites and international street food.",
	},
}

var DefaultFoodItems = []models.FoodItem{
	{
		ID:           "food-1",
		RestaurantID: "res-2",
		Name:         "Wedding Plov Special",
		Price:        45000,
		Description:  "Traditional Samarkand plov with tender lamb, yellow carrots, and spices.",
		Category:     "Main Dish",
		IsAvailable:  true,
	},
	{
		ID:           "food-2",
		RestaurantID: "res-1",
		Name:         "Mixed Shashlik Platter",
		Price:        68000,
		Description:  "Assortment of lamb, beef, and chicken kebabs grilled over apricot wood.",
		Category:     "Grill",
		IsAvailable:  true,
	},
	{
		ID:           "food-3",
		RestaurantID: "res-3",
		Name:         "Silk Road Somsa Trio",
		Price:        32000,
		Description:  "Hand-crafted pastry filled with minced beef, pumpkin, and mountain herbs.",
		Category:     "Appetizer",
		IsAvailable:  true,
	},
}

var DefaultVideos = []models.Video{
	{
		ID:             "vid-1",
		VideoURL:       "https://assets.mixkit.co/videos/preview/mixkit-fresh-food-is-prepared-in-a-pan-34563-large.mp4",
		RestaurantID:   "res-2",
		FoodItemID:     "food-1",
		Caption:        "The secret is in the layering! Best Wedding Plov in Tashkent. #UzbekFood #PlovLife #OrderUZ",
		Likes:          12400,
		Shares:         850,
		RestaurantName: "Samarkand Plov Center",
		FoodName:       "Wedding Plov Special",
		FoodPrice:      45000,
	},
	{
		ID:             "vid-2",
		VideoURL:       "https://assets.mixkit.co/videos/preview/mixkit-cooking-a-steak-in-a-pan-in-slow-motion-34560-large.mp4",
		RestaurantID:   "res-1",
		FoodItemID:     "food-2",
		Caption:        "Nothing beats charcoal grill aroma. Shashlik masterclass! #GrillMaster #Chorsu #OrderUZ",
		Likes:          8900,
		Shares:         420,
		RestaurantName: "Chorsu Heritage Grill",
		FoodName:       "Mixed Shashlik Platter",
		FoodPrice:      68000,
	},
	{
		ID:             "vid-3",
		VideoURL:       "https://assets.mixkit.co/videos/preview/mixkit-chef-preparing-a-dish-with-vegetables-and-meat-34567-large.mp4",
		RestaurantID:   "res-3",
		FoodItemID:     "food-3",
		Caption:        "Handmade with love. Our Somsa is a piece of art. #Somsa #TashkentEats #Crispy",
		Likes:          5600,
		Shares:         1100,
		RestaurantName: "Tashkent Urban Eats",
		FoodName:       "Silk Road Somsa Trio",
		FoodPrice:      32000,
	},
}

// SeedCatalog loads the default catalog into repo.
func SeedCatalog(repo CatalogRepository) error {
	for i := range DefaultRestaurants {
		r := DefaultRestaurants[i]
		if err := repo.CreateRestaurant(&r); err != nil {
			return fmt.Errorf("failed to seed restaurant %s: %w", r.ID, err)
		}
	}
	for i := range DefaultFoodItems {
		f := DefaultFoodItems[i]
		if err := repo.CreateFoodItem(&f); err != nil {
			return fmt.Errorf("failed to seed food item %s: %w", f.ID, err)
		}
	}
	for i := range DefaultVideos {
		v := DefaultVideos[i]
		if err := repo.CreateVideo(&v); err != nil {
			return fmt.Errorf("failed to seed video %s: %w", v.ID, err)
		}
	}
	return nil
}
