package repositories

import (
	"errors"
	"fmt"

	"orderuz/internal/models"

	"gorm.io/gorm"
)

// GORMCommentRepository is a GORM implementation of CommentRepository.
type GORMCommentRepository struct {
	db *gorm.DB
}

// NewGORMCommentRepository creates a new instance of GORMCommentRepository.
func NewGORMCommentRepository(db *gorm.DB) *GORMCommentRepository {
	return &GORMCommentRepository{db: db}
}

// Create inserts a comment.
func (r *GORMCommentRepository) Create(comment *models.Comment) error {
	if err := r.db.Create(comment).Error; err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

// GetByID retrieves a comment by its ID.
func (r *GORMCommentRepository) GetByID(id string) (*models.Comment, error) {
	var c models.Comment
	if err := r.db.First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("comment %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get comment %s: %w", id, err)
	}
	return &c, nil
}

// GetByVideo returns the video's comments, newest first.
func (r *GORMCommentRepository) GetByVideo(videoID string) ([]models.Comment, error) {
	comments := []models.Comment{}
	if err := r.db.Where("video_id = ?", videoID).Order("created_at desc").Find(&comments).Error; err != nil {
		return nil, fmt.Errorf("failed to get comments for video %s: %w", videoID, err)
	}
	return comments, nil
}

// Delete removes a comment by its ID.
func (r *GORMCommentRepository) Delete(id string) error {
	res := r.db.Delete(&models.Comment{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete comment: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("comment %s for deletion: %w", id, ErrNotFound)
	}
	return nil
}
