package handlers

import (
	"errors"

	"orderuz/internal/middleware"
	"orderuz/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CommentHandler handles video comments.
type CommentHandler struct {
	comments *services.CommentService
	accounts *services.AccountService
	validate *validator.Validate
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(comments *services.CommentService, accounts *services.AccountService) *CommentHandler {
	return &CommentHandler{
		comments: comments,
		accounts: accounts,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the comment routes.
func (h *CommentHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	router.Get("/videos/:id/comments", h.HandleList)
	router.Post("/videos/:id/comments", auth, h.HandleCreate)
	router.Delete("/comments/:id", auth, h.HandleDelete)
}

// HandleList returns a video's comments, newest first.
func (h *CommentHandler) HandleList(c *fiber.Ctx) error {
	comments, err := h.comments.CommentsForVideo(c.Params("id"))
	if err != nil {
		return fail(c, "Could not retrieve comments", err)
	}
	return c.JSON(comments)
}

// CommentRequest is the comment body.
type CommentRequest struct {
	Text string `json:"text" validate:"required,max=500"`
}

// HandleCreate posts a comment as the caller.
func (h *CommentHandler) HandleCreate(c *fiber.Ctx) error {
	var req CommentRequest
	if ok, err := parseAndValidate(c, h.validate, &req); !ok {
		return err
	}
	account, err := h.accounts.GetAccount(middleware.AccountID(c))
	if err != nil {
		return fail(c, "Could not post comment", err)
	}

	comment, err := h.comments.AddComment(c.Params("id"), account.ID, account.Name, req.Text)
	if errors.Is(err, services.ErrInvalidComment) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   err.Error(),
		})
	}
	if err != nil {
		return fail(c, "Could not post comment", err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// HandleDelete removes the caller's own comment.
func (h *CommentHandler) HandleDelete(c *fiber.Ctx) error {
	deleted, err := h.comments.DeleteComment(c.Params("id"), middleware.AccountID(c))
	if err != nil {
		return fail(c, "Could not delete comment", err)
	}
	if !deleted {
		return notFound(c, "Comment not found")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
