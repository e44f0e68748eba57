package services_test

import (
	"strings"
	"testing"

	"orderuz/internal/repositories"
	"orderuz/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCommentService(t *testing.T) *services.CommentService {
	t.Helper()
	catalog := repositories.NewMockCatalogRepository()
	require.NoError(t, repositories.SeedCatalog(catalog))
	return services.NewCommentService(repositories.NewMockCommentRepository(), catalog)
}

func TestCommentService_AddAndList(t *testing.T) {
	svc := newCommentService(t)

	first, err := svc.AddComment("vid-1", "acc-1", "Aziz", "  Looks amazing!  ")
	require.NoError(t, err)
	assert.Equal(t, "Looks amazing!", first.Text)
	second, err := svc.AddComment("vid-1", "acc-2", "Nigora", "Ordering now")
	require.NoError(t, err)
	_, err = svc.AddComment("vid-2", "acc-2", "Nigora", "Other video")
	require.NoError(t, err)

	comments, err := svc.CommentsForVideo("vid-1")
	require.NoError(t, err)
	require.Len(t, comments, 2)
	ids := []string{comments[0].ID, comments[1].ID}
	assert.ElementsMatch(t, []string{first.ID, second.ID}, ids)
	assert.False(t, comments[0].CreatedAt.Before(comments[1].CreatedAt))
}

func TestCommentService_Validation(t *testing.T) {
	svc := newCommentService(t)

	_, err := svc.AddComment("vid-1", "acc-1", "Aziz", "   ")
	assert.ErrorIs(t, err, services.ErrInvalidComment)

	_, err = svc.AddComment("vid-1", "acc-1", "Aziz", strings.Repeat("a", 501))
	assert.ErrorIs(t, err, services.ErrInvalidComment)

	_, err = svc.AddComment("vid-1", "acc-1", "Aziz", strings.Repeat("ш", 500))
	assert.NoError(t, err)

	_, err = svc.AddComment("vid-missing", "acc-1", "Aziz", "hello")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestCommentService_DeleteOnlyByAuthor(t *testing.T) {
	svc := newCommentService(t)

	comment, err := svc.AddComment("vid-1", "acc-1", "Aziz", "mine")
	require.NoError(t, err)

	ok, err := svc.DeleteComment(comment.ID, "acc-2")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.DeleteComment(comment.ID, "acc-1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.DeleteComment(comment.ID, "acc-1")
	require.NoError(t, err)
	assert.False(t, ok)

	comments, _ := svc.CommentsForVideo("vid-1")
	assert.Empty(t, comments)
}
