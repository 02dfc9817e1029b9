package handlers

import (
	"context"
	"encoding/json"
	"log"

	"buckeyeborrow/internal/hub"
	"buckeyeborrow/internal/models"
	"buckeyeborrow/internal/services"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// RequestHandler handles HTTP requests for the community request board.
type RequestHandler struct {
	communityService *services.CommunityService
	liveHub          *hub.Hub
}

// NewRequestHandler creates a new RequestHandler.
func NewRequestHandler(communityService *services.CommunityService, liveHub *hub.Hub) *RequestHandler {
	return &RequestHandler{communityService: communityService, liveHub: liveHub}
}

// RegisterRoutes registers the request-board routes.
func (h *RequestHandler) RegisterRoutes(router fiber.Router) {
	requests := router.Group("/requests")
	requests.Post("/", h.HandleCreate)
	requests.Get("/", h.HandleList)
	requests.Get("/:id", h.HandleGet)
	requests.Patch("/:id/close", h.HandleClose)
	requests.Post("/:id/comments", h.HandleAddComment)
	requests.Get("/:id/comments", h.HandleListComments)

	requests.Use("/:id/comments/live", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	requests.Get("/:id/comments/live", websocket.New(h.handleLiveFeed))
}

// HandleCreate posts a new community request.
func (h *RequestHandler) HandleCreate(c *fiber.Ctx) error {
	var in services.CreateRequestInput
	if err := c.BodyParser(&in); err != nil {
		log.Printf("Error parsing create request body: %v", err)
		return badRequest(c, "Invalid request body")
	}

	req, err := h.communityService.CreateRequest(c.Context(), userID(c), in)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Request posted",
		"request": req,
	})
}

// HandleList returns open requests, optionally narrowed by ?q=.
func (h *RequestHandler) HandleList(c *fiber.Ctx) error {
	views, err := h.communityService.ListOpen(c.Context(), c.Query("q"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"requests": views,
		"count":    len(views),
	})
}

// HandleGet returns a single request.
func (h *RequestHandler) HandleGet(c *fiber.Ctx) error {
	req, err := h.communityService.GetRequest(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"request": req})
}

// HandleClose marks a request closed.
func (h *RequestHandler) HandleClose(c *fiber.Ctx) error {
	if err := h.communityService.CloseRequest(c.Context(), userID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Request closed",
	})
}

// HandleAddComment appends a comment to a request's thread.
func (h *RequestHandler) HandleAddComment(c *fiber.Ctx) error {
	var in services.CommentInput
	if err := c.BodyParser(&in); err != nil {
		log.Printf("Error parsing comment body: %v", err)
		return badRequest(c, "Invalid request body")
	}

	comment, err := h.communityService.AddComment(c.Context(), userID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Comment posted",
		"comment": comment,
	})
}

// HandleListComments returns a request's thread oldest first.
func (h *RequestHandler) HandleListComments(c *fiber.Ctx) error {
	comments, err := h.communityService.ListComments(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"comments": comments,
		"count":    len(comments),
	})
}

// handleLiveFeed streams a request's comment thread over a websocket:
// first the backlog in order, then every insert as it lands. The viewer
// is unsubscribed from the hub on every exit path.
func (h *RequestHandler) handleLiveFeed(conn *websocket.Conn) {
	defer conn.Close()

	requestID := conn.Params("id")
	ctx := context.Background()

	// Subscribe before reading the backlog so inserts that land in
	// between are not lost; OrderedInsert folds any overlap back into
	// place.
	sub := h.liveHub.Subscribe(requestID)
	defer h.liveHub.Unsubscribe(sub)

	backlog, err := h.communityService.ListComments(ctx, requestID)
	if err != nil {
		log.Printf("Error loading comment backlog for request %s: %v", requestID, err)
		return
	}

	seen := make(map[string]bool, len(backlog))
	ordered := make([]models.RequestCommentView, 0, len(backlog))
	for _, comment := range backlog {
		ordered = hub.OrderedInsert(ordered, comment)
		seen[comment.ID] = true
	}
	for _, comment := range ordered {
		if !h.writeComment(conn, comment) {
			return
		}
	}

	// Detect the peer going away; inbound frames are otherwise ignored.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case payload, ok := <-sub.C:
			if !ok {
				return
			}
			var comment models.RequestCommentView
			if err := json.Unmarshal(payload, &comment); err != nil {
				log.Printf("Error decoding live comment for request %s: %v", requestID, err)
				continue
			}
			if seen[comment.ID] {
				continue
			}
			seen[comment.ID] = true
			if !h.writeComment(conn, comment) {
				return
			}
		case <-closed:
			return
		}
	}
}

func (h *RequestHandler) writeComment(conn *websocket.Conn, comment models.RequestCommentView) bool {
	if err := conn.WriteJSON(comment); err != nil {
		log.Printf("Error writing to live-feed viewer: %v", err)
		return false
	}
	return true
}
