package handlers

import (
	"log"
	"strings"

	"buckeyeborrow/internal/services"

	"github.com/gofiber/fiber/v2"
)

// BorrowHandler handles HTTP requests for borrow requests.
type BorrowHandler struct {
	borrowService *services.BorrowService
}

// NewBorrowHandler creates a new BorrowHandler.
func NewBorrowHandler(borrowService *services.BorrowService) *BorrowHandler {
	return &BorrowHandler{borrowService: borrowService}
}

// RegisterRoutes registers the borrow-request routes.
func (h *BorrowHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/items/:id/borrow-requests", h.HandleCreate)
	router.Get("/items/:id/borrow-requests", h.HandleListForItem)

	borrow := router.Group("/borrow-requests")
	borrow.Get("/mine", h.HandleListMine)
	borrow.Get("/pending-counts", h.HandlePendingCounts)
}

// HandleCreate submits a borrow request against an item.
func (h *BorrowHandler) HandleCreate(c *fiber.Ctx) error {
	var in services.BorrowRequestInput
	if err := c.BodyParser(&in); err != nil {
		log.Printf("Error parsing borrow request body: %v", err)
		return badRequest(c, "Invalid request body")
	}

	req, err := h.borrowService.CreateRequest(c.Context(), userID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":        "Borrow request sent",
		"borrow_request": req,
	})
}

// HandleListForItem returns an item's requests to its owner.
func (h *BorrowHandler) HandleListForItem(c *fiber.Ctx) error {
	views, err := h.borrowService.ListForItem(c.Context(), userID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"borrow_requests": views,
		"count":           len(views),
	})
}

// HandleListMine returns the caller's own borrow requests.
func (h *BorrowHandler) HandleListMine(c *fiber.Ctx) error {
	reqs, err := h.borrowService.ListOwn(c.Context(), userID(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"borrow_requests": reqs,
		"count":           len(reqs),
	})
}

// HandlePendingCounts returns the pending-request count per item id. Item
// ids arrive as a comma-separated query parameter.
func (h *BorrowHandler) HandlePendingCounts(c *fiber.Ctx) error {
	raw := c.Query("item_ids")
	if strings.TrimSpace(raw) == "" {
		return badRequest(c, "item_ids query parameter is required")
	}

	var ids []string
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}

	counts, err := h.borrowService.PendingCounts(c.Context(), ids)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"pending_counts": counts,
	})
}
