package handlers

import (
	"log"

	"buckeyeborrow/internal/models"
	"buckeyeborrow/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ItemHandler handles HTTP requests for catalog items.
type ItemHandler struct {
	catalogService *services.CatalogService
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(catalogService *services.CatalogService) *ItemHandler {
	return &ItemHandler{catalogService: catalogService}
}

// RegisterRoutes registers the item routes. All of them sit behind the
// auth middleware.
func (h *ItemHandler) RegisterRoutes(router fiber.Router) {
	items := router.Group("/items")
	items.Post("/", h.HandleCreate)
	items.Get("/", h.HandleList)
	items.Post("/photo", h.HandlePreUploadPhoto)
	items.Get("/mine", h.HandleListMine)
	items.Get("/meta", h.HandleMeta)
	items.Get("/:id", h.HandleGet)
	items.Patch("/:id/status", h.HandleSetStatus)
	items.Post("/:id/photo", h.HandleUploadPhoto)
	items.Delete("/:id", h.HandleDelete)
}

// HandleCreate lists a new item.
func (h *ItemHandler) HandleCreate(c *fiber.Ctx) error {
	var in services.CreateItemInput
	if err := c.BodyParser(&in); err != nil {
		log.Printf("Error parsing create item request body: %v", err)
		return badRequest(c, "Invalid request body")
	}

	item, err := h.catalogService.CreateItem(c.Context(), userID(c), in)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Item listed successfully",
		"item":    item,
	})
}

// HandleList returns the catalog, narrowed by query-string filters.
func (h *ItemHandler) HandleList(c *fiber.Ctx) error {
	filter := services.ItemFilter{
		Category:    c.Query("category"),
		CostType:    c.Query("cost_type"),
		CampusArea:  c.Query("campus_area"),
		Status:      c.Query("status"),
		MaxDuration: c.Query("max_duration"),
		Search:      c.Query("q"),
	}

	items, err := h.catalogService.ListItems(c.Context(), filter)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"items": items,
		"count": len(items),
	})
}

// HandleListMine returns the caller's own listings.
func (h *ItemHandler) HandleListMine(c *fiber.Ctx) error {
	items, err := h.catalogService.ListOwnItems(c.Context(), userID(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"items": items,
		"count": len(items),
	})
}

// HandleMeta returns the vocabulary the listing form is built from.
func (h *ItemHandler) HandleMeta(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"categories":       models.Categories(),
		"campus_areas":     models.CampusAreas(),
		"borrow_durations": models.BorrowDurations(),
		"cost_types":       []string{models.CostTypeFree, models.CostTypeFavor},
		"contact_methods":  []string{models.ContactEmail, models.ContactPhone},
	})
}

// HandleGet returns a single listing.
func (h *ItemHandler) HandleGet(c *fiber.Ctx) error {
	item, err := h.catalogService.GetItem(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"item": item})
}

// StatusRequest represents the request body for a status change.
type StatusRequest struct {
	Status string `json:"status"`
}

// HandleSetStatus flips a listing between available and borrowed.
func (h *ItemHandler) HandleSetStatus(c *fiber.Ctx) error {
	var req StatusRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing status request body: %v", err)
		return badRequest(c, "Invalid request body")
	}

	item, err := h.catalogService.SetItemStatus(c.Context(), userID(c), c.Params("id"), req.Status)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Item status updated",
		"item":    item,
	})
}

// HandlePreUploadPhoto stores a photo before its listing exists and
// returns the URL for the create form.
func (h *ItemHandler) HandlePreUploadPhoto(c *fiber.Ctx) error {
	file, err := c.FormFile("photo")
	if err != nil {
		return badRequest(c, "A photo file is required")
	}

	url, err := h.catalogService.UploadPhoto(c.Context(), userID(c), file)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"photo_url": url,
	})
}

// HandleUploadPhoto attaches a photo to a listing.
func (h *ItemHandler) HandleUploadPhoto(c *fiber.Ctx) error {
	file, err := c.FormFile("photo")
	if err != nil {
		return badRequest(c, "A photo file is required")
	}

	item, err := h.catalogService.AttachPhoto(c.Context(), userID(c), c.Params("id"), file)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Photo uploaded",
		"item":    item,
	})
}

// HandleDelete removes a listing.
func (h *ItemHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.catalogService.DeleteItem(c.Context(), userID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Item deleted",
	})
}
