package models

// Restaurant is a venue that posts videos and sells food.
type Restaurant struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Rating       float64 `json:"rating"`
	DeliveryTime string  `json:"delivery_time"`
	Category     string  `json:"category"`
	Location     string  `json:"location"`
	Description  string  `json:"description,omitempty"`
}

// FoodItem is a dish that can be added to the cart.
type FoodItem struct {
	ID           string `json:"id"`
	RestaurantID string `json:"restaurant_id"`
	Name         string `json:"name"`
	Price        int64  `json:"price"`
	Description  string `json:"description"`
	Category     string `json:"category"`
	IsAvailable  bool   `json:"is_available"`
}

// Line converts the food item into a single-quantity cart line.
func (f FoodItem) Line() CartLine {
	return CartLine{
		ItemID:       f.ID,
		RestaurantID: f.RestaurantID,
		Name:         f.Name,
		UnitPrice:    f.Price,
		Quantity:     1,
	}
}

// Video is one entry of the short-video feed.
type Video struct {
	ID             string `json:"id"`
	VideoURL       string `json:"video_url"`
	RestaurantID   string `json:"restaurant_id"`
	FoodItemID     string `json:"food_item_id"`
	Caption        string `json:"caption"`
	Likes          int    `json:"likes"`
	Shares         int    `json:"shares"`
	RestaurantName string `json:"restaurant_name"`
	FoodName       string `json:"food_name"`
	FoodPrice      int64  `json:"food_price"`
}

// FeedVideo is a video decorated with the viewer's flags.
type FeedVideo struct {
	Video
	UserHasLiked bool `json:"user_has_liked"`
	UserHasSaved bool `json:"user_has_saved"`
}
