package repositories

import (
	"fmt"
	"sort"
	"sync"

	"orderuz/internal/models"
)

// MockCommentRepository is an in-memory implementation of CommentRepository.
type MockCommentRepository struct {
	comments map[string]models.Comment
	mu       sync.RWMutex
}

// NewMockCommentRepository creates a new instance of MockCommentRepository.
func NewMockCommentRepository() *MockCommentRepository {
	return &MockCommentRepository{comments: make(map[string]models.Comment)}
}

// Create stores a comment.
func (r *MockCommentRepository) Create(comment *models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.comments[comment.ID] = *comment
	return nil
}

// GetByID returns a comment by its ID.
func (r *MockCommentRepository) GetByID(id string) (*models.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.comments[id]
	if !ok {
		return nil, fmt.Errorf("comment %s: %w", id, ErrNotFound)
	}
	return &c, nil
}

// GetByVideo returns the video's comments, newest first.
func (r *MockCommentRepository) GetByVideo(videoID string) ([]models.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := []models.Comment{}
	for _, c := range r.comments {
		if c.VideoID == videoID {
			list = append(list, c)
		}
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list, nil
}

// Delete removes a comment.
func (r *MockCommentRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.comments[id]; !ok {
		return fmt.Errorf("comment %s for deletion: %w", id, ErrNotFound)
	}
	delete(r.comments, id)
	return nil
}
