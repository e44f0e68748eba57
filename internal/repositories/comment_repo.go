package repositories

import "orderuz/internal/models"

// CommentRepository defines the interface for video comment storage.
type CommentRepository interface {
	Create(comment *models.Comment) error
	GetByID(id string) (*models.Comment, error)
	// GetByVideo returns the video's comments, newest first.
	GetByVideo(videoID string) ([]models.Comment, error)
	Delete(id string) error
}
