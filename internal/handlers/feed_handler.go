package handlers

import (
	"orderuz/internal/middleware"
	"orderuz/internal/repositories"
	"orderuz/internal/services"

	"github.com/gofiber/fiber/v2"
)

// FeedHandler serves the video feed, restaurants and follow state.
type FeedHandler struct {
	feed    *services.FeedService
	follows *services.FollowService
	catalog repositories.CatalogRepository
}

// NewFeedHandler creates a new FeedHandler.
func NewFeedHandler(feed *services.FeedService, follows *services.FollowService, catalog repositories.CatalogRepository) *FeedHandler {
	return &FeedHandler{feed: feed, follows: follows, catalog: catalog}
}

// RegisterRoutes registers the feed routes. optional identifies the caller
// when a token is present; auth rejects anonymous callers.
func (h *FeedHandler) RegisterRoutes(router fiber.Router, optional, auth fiber.Handler) {
	feedRoutes := router.Group("/feed")
	feedRoutes.Get("/", optional, h.HandleForYou)
	feedRoutes.Get("/search", optional, h.HandleSearch)
	feedRoutes.Get("/following", auth, h.HandleFollowing)

	restaurantRoutes := router.Group("/restaurants")
	restaurantRoutes.Get("/", h.HandleListRestaurants)
	restaurantRoutes.Get("/:id", h.HandleGetRestaurant)
	restaurantRoutes.Get("/:id/videos", optional, h.HandleRestaurantVideos)
	restaurantRoutes.Get("/:id/follow", auth, h.HandleFollowState)
	restaurantRoutes.Post("/:id/follow", auth, h.HandleFollow)
	restaurantRoutes.Delete("/:id/follow", auth, h.HandleUnfollow)

	videoRoutes := router.Group("/videos")
	videoRoutes.Post("/:id/like", auth, h.HandleToggleLike)
	videoRoutes.Post("/:id/save", auth, h.HandleToggleSave)
}

// HandleForYou returns the whole feed.
func (h *FeedHandler) HandleForYou(c *fiber.Ctx) error {
	videos, err := h.feed.ForYou(middleware.AccountID(c))
	if err != nil {
		return fail(c, "Could not retrieve feed", err)
	}
	return c.JSON(videos)
}

// HandleSearch filters the feed by the q query parameter.
func (h *FeedHandler) HandleSearch(c *fiber.Ctx) error {
	videos, err := h.feed.Search(middleware.AccountID(c), c.Query("q"))
	if err != nil {
		return fail(c, "Could not search feed", err)
	}
	return c.JSON(videos)
}

// HandleFollowing returns videos of followed restaurants.
func (h *FeedHandler) HandleFollowing(c *fiber.Ctx) error {
	videos, err := h.feed.Following(middleware.AccountID(c))
	if err != nil {
		return fail(c, "Could not retrieve feed", err)
	}
	return c.JSON(videos)
}

// HandleListRestaurants returns every restaurant.
func (h *FeedHandler) HandleListRestaurants(c *fiber.Ctx) error {
	restaurants, err := h.catalog.Restaurants()
	if err != nil {
		return fail(c, "Could not retrieve restaurants", err)
	}
	return c.JSON(restaurants)
}

// HandleGetRestaurant returns one restaurant.
func (h *FeedHandler) HandleGetRestaurant(c *fiber.Ctx) error {
	restaurant, err := h.catalog.GetRestaurant(c.Params("id"))
	if err != nil {
		return fail(c, "Could not retrieve restaurant", err)
	}
	return c.JSON(restaurant)
}

// HandleRestaurantVideos returns the videos posted by one restaurant.
func (h *FeedHandler) HandleRestaurantVideos(c *fiber.Ctx) error {
	restaurantID := c.Params("id")
	if _, err := h.catalog.GetRestaurant(restaurantID); err != nil {
		return fail(c, "Could not retrieve restaurant", err)
	}
	videos, err := h.feed.ByRestaurant(middleware.AccountID(c), restaurantID)
	if err != nil {
		return fail(c, "Could not retrieve videos", err)
	}
	return c.JSON(videos)
}

func (h *FeedHandler) followReply(c *fiber.Ctx, restaurantID string) error {
	following, err := h.follows.IsFollowing(middleware.AccountID(c), restaurantID)
	if err != nil {
		return fail(c, "Could not retrieve follow state", err)
	}
	return c.JSON(fiber.Map{
		"restaurant_id": restaurantID,
		"following":     following,
	})
}

// HandleFollowState reports whether the caller follows the restaurant.
func (h *FeedHandler) HandleFollowState(c *fiber.Ctx) error {
	return h.followReply(c, c.Params("id"))
}

// HandleFollow follows a restaurant. Following twice is harmless.
func (h *FeedHandler) HandleFollow(c *fiber.Ctx) error {
	restaurantID := c.Params("id")
	if _, err := h.catalog.GetRestaurant(restaurantID); err != nil {
		return fail(c, "Could not follow restaurant", err)
	}
	if err := h.follows.Follow(middleware.AccountID(c), restaurantID); err != nil {
		return fail(c, "Could not follow restaurant", err)
	}
	return h.followReply(c, restaurantID)
}

// HandleUnfollow unfollows a restaurant.
func (h *FeedHandler) HandleUnfollow(c *fiber.Ctx) error {
	restaurantID := c.Params("id")
	if err := h.follows.Unfollow(middleware.AccountID(c), restaurantID); err != nil {
		return fail(c, "Could not unfollow restaurant", err)
	}
	return h.followReply(c, restaurantID)
}

// HandleToggleLike flips the caller's like.
func (h *FeedHandler) HandleToggleLike(c *fiber.Ctx) error {
	video, err := h.feed.ToggleLike(middleware.AccountID(c), c.Params("id"))
	if err != nil {
		return fail(c, "Could not like video", err)
	}
	return c.JSON(video)
}

// HandleToggleSave flips the caller's bookmark.
func (h *FeedHandler) HandleToggleSave(c *fiber.Ctx) error {
	video, err := h.feed.ToggleSave(middleware.AccountID(c), c.Params("id"))
	if err != nil {
		return fail(c, "Could not save video", err)
	}
	return c.JSON(video)
}
