package handlers

import (
	"log"

	"buckeyeborrow/internal/services"

	"github.com/gofiber/fiber/v2"
)

// SearchHandler handles HTTP requests for per-user search history.
type SearchHandler struct {
	searchService *services.SearchService
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(searchService *services.SearchService) *SearchHandler {
	return &SearchHandler{searchService: searchService}
}

// RegisterRoutes registers the search-history routes.
func (h *SearchHandler) RegisterRoutes(router fiber.Router) {
	search := router.Group("/search")
	search.Get("/history", h.HandleList)
	search.Post("/history", h.HandleRecord)
}

// HandleList returns the caller's recent searches, most recent first.
func (h *SearchHandler) HandleList(c *fiber.Ctx) error {
	history, err := h.searchService.Recent(c.Context(), userID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"history": history})
}

// RecordSearchRequest represents the request body for recording a search.
type RecordSearchRequest struct {
	Query string `json:"query"`
}

// HandleRecord saves a search query. Blank queries are accepted and
// ignored.
func (h *SearchHandler) HandleRecord(c *fiber.Ctx) error {
	var req RecordSearchRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing search body: %v", err)
		return badRequest(c, "Invalid request body")
	}

	if err := h.searchService.Record(c.Context(), userID(c), req.Query); err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Search recorded",
	})
}
