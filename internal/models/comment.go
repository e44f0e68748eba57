package models

import "time"

// Comment is a viewer's note under a video.
type Comment struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(64)"`
	VideoID   string    `json:"video_id" gorm:"index;type:varchar(64)"`
	AccountID string    `json:"account_id" gorm:"type:varchar(36)"`
	UserName  string    `json:"user_name"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}
