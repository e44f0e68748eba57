package services

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"orderuz/internal/models"
	"orderuz/internal/repositories"

	"github.com/google/uuid"
)

const maxCommentLength = 500

// CommentService manages comments under feed videos.
type CommentService struct {
	repo    repositories.CommentRepository
	catalog repositories.CatalogRepository
	now     func() time.Time
}

// NewCommentService creates a new CommentService.
func NewCommentService(repo repositories.CommentRepository, catalog repositories.CatalogRepository) *CommentService {
	return &CommentService{repo: repo, catalog: catalog, now: time.Now}
}

// AddComment posts text under videoID.
func (s *CommentService) AddComment(videoID, accountID, userName, text string) (*models.Comment, error) {
	text = strings.TrimSpace(text)
	if n := utf8.RuneCountInString(text); n == 0 || n > maxCommentLength {
		return nil, ErrInvalidComment
	}
	if _, err := s.catalog.GetVideo(videoID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ID:        uuid.New().String(),
		VideoID:   videoID,
		AccountID: accountID,
		UserName:  userName,
		Text:      text,
		CreatedAt: s.now(),
	}
	if err := s.repo.Create(comment); err != nil {
		return nil, fmt.Errorf("failed to save comment: %w", err)
	}
	return comment, nil
}

// CommentsForVideo lists a video's comments, newest first.
func (s *CommentService) CommentsForVideo(videoID string) ([]models.Comment, error) {
	return s.repo.GetByVideo(videoID)
}

// DeleteComment removes a comment written by accountID. It reports false
// when the comment is unknown or has another author.
func (s *CommentService) DeleteComment(commentID, accountID string) (bool, error) {
	comment, err := s.repo.GetByID(commentID)
	if errors.Is(err, repositories.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if comment.AccountID != accountID {
		return false, nil
	}
	if err := s.repo.Delete(commentID); err != nil {
		return false, fmt.Errorf("failed to delete comment: %w", err)
	}
	return true, nil
}
