package models

import "time"

// AccountType distinguishes customers from restaurant operators.
type AccountType string

const (
	AccountUser       AccountType = "user"
	AccountRestaurant AccountType = "restaurant"
)

// Location is the account's delivery area.
type Location struct {
	City     string `json:"city"`
	District string `json:"district"`
}

// Account is a user of the app.
type Account struct {
	ID                  string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name                string      `json:"name" validate:"required,min=2,max=100"`
	Email               string      `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password            string      `json:"-" gorm:"type:varchar(255)"`
	Phone               string      `json:"phone,omitempty"`
	Address             string      `json:"address,omitempty"`
	AccountType         AccountType `json:"account_type" gorm:"type:varchar(16)"`
	FollowedRestaurants []string    `json:"followed_restaurants" gorm:"serializer:json"`
	OrdersCount         int         `json:"orders_count"`
	SavedCount          int         `json:"saved_count"`
	Location            Location    `json:"location" gorm:"embedded;embeddedPrefix:location_"`
	ManagedRestaurants  []string    `json:"managed_restaurants,omitempty" gorm:"serializer:json"`
	CreatedAt           time.Time   `json:"created_at"`
	UpdatedAt           time.Time   `json:"updated_at"`
}

// Clone returns a copy that shares no slices with a.
func (a Account) Clone() Account {
	c := a
	c.FollowedRestaurants = append([]string(nil), a.FollowedRestaurants...)
	c.ManagedRestaurants = append([]string(nil), a.ManagedRestaurants...)
	return c
}
