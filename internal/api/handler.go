package api

import (
	"context"
	"net/http"

	"events-backend/internal/apikey"
	"events-backend/internal/db"
	"events-backend/internal/oauth"
	"events-backend/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Records is the slice of the record store the API handlers use. *db.DB
// implements it; tests substitute a fake.
type Records interface {
	AllEvents(ctx context.Context) ([]db.Event, error)
	EventsByGroup(ctx context.Context, groupID uuid.UUID) ([]db.Event, error)
	GetEvent(ctx context.Context, id uuid.UUID) (*db.Event, error)
	InsertEvent(ctx context.Context, create db.CreateEvent) (uuid.UUID, error)
	UpdateEvent(ctx context.Context, id uuid.UUID, create db.CreateEvent) error
	DeleteEvent(ctx context.Context, id uuid.UUID) error

	AllGroups(ctx context.Context) ([]db.Group, error)
	GetGroup(ctx context.Context, id uuid.UUID) (*db.Group, error)
	InsertGroup(ctx context.Context, create db.CreateGroup) (uuid.UUID, error)
	UpdateGroup(ctx context.Context, id uuid.UUID, create db.CreateGroup) error
	DeleteGroup(ctx context.Context, id uuid.UUID) error
}

// Handler serves the machine routes. Reads are open; mutations require
// an API key; /auth/me rides the browser session.
type Handler struct {
	records Records
	store   session.Store
	oauth   *oauth.Coordinator
	keys    *apikey.Authenticator
}

func NewHandler(
	records Records,
	store session.Store,
	coordinator *oauth.Coordinator,
	keys *apikey.Authenticator,
) *Handler {
	return &Handler{
		records: records,
		store:   store,
		oauth:   coordinator,
		keys:    keys,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")

	api.GET("/auth/me", h.me)

	api.GET("/events", h.listEvents)
	api.GET("/event/:id", h.viewEvent)
	api.GET("/groups", h.listGroups)
	api.GET("/group/:id", h.viewGroup)

	keyed := api.Group("", requireKey(h.keys))
	keyed.POST("/event", h.createEvent)
	keyed.PUT("/event/:id", h.updateEvent)
	keyed.DELETE("/event/:id", h.deleteEvent)
	keyed.POST("/group", h.createGroup)
	keyed.PUT("/group/:id", h.updateGroup)
	keyed.DELETE("/group/:id", h.deleteGroup)
}

// me reports the provider profile for the session's stored token.
func (h *Handler) me(c *gin.Context) {
	sess, err := session.Resolve(c.Request, h.store)
	if err != nil {
		sessionError(c, err)
		return
	}

	token, ok, err := sess.GetString(oauth.KeyToken)
	if err != nil {
		// A stored value of the wrong shape is a corrupt record, not a
		// caller mistake.
		databaseError(c, err)
		return
	}
	if !ok {
		unauthorized(c, "")
		return
	}

	profile, err := h.oauth.Profile(c.Request.Context(), token)
	if err != nil {
		oauthError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c)
		return uuid.Nil, false
	}
	return id, true
}

// listEvents returns every event, or a single group's events when
// ?group_id= is given.
func (h *Handler) listEvents(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		events []db.Event
		err    error
	)
	if raw := c.Query("group_id"); raw != "" {
		groupID, parseErr := uuid.Parse(raw)
		if parseErr != nil {
			badRequest(c)
			return
		}
		events, err = h.records.EventsByGroup(ctx, groupID)
	} else {
		events, err = h.records.AllEvents(ctx)
	}
	if err != nil {
		databaseError(c, err)
		return
	}

	c.JSON(http.StatusOK, events)
}

func (h *Handler) viewEvent(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	event, err := h.records.GetEvent(c.Request.Context(), id)
	if err != nil {
		databaseError(c, err)
		return
	}
	if event == nil {
		notFound(c)
		return
	}

	c.JSON(http.StatusOK, event)
}

func (h *Handler) createEvent(c *gin.Context) {
	var create db.CreateEvent
	if err := c.ShouldBindJSON(&create); err != nil {
		badRequest(c)
		return
	}

	id, err := h.records.InsertEvent(c.Request.Context(), create)
	if err != nil {
		databaseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"event_id": id})
}

func (h *Handler) updateEvent(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var create db.CreateEvent
	if err := c.ShouldBindJSON(&create); err != nil {
		badRequest(c)
		return
	}

	if err := h.records.UpdateEvent(c.Request.Context(), id, create); err != nil {
		databaseError(c, err)
		return
	}

	c.Status(http.StatusOK)
}

func (h *Handler) deleteEvent(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.records.DeleteEvent(c.Request.Context(), id); err != nil {
		databaseError(c, err)
		return
	}

	c.Status(http.StatusOK)
}

func (h *Handler) listGroups(c *gin.Context) {
	groups, err := h.records.AllGroups(c.Request.Context())
	if err != nil {
		databaseError(c, err)
		return
	}

	c.JSON(http.StatusOK, groups)
}

func (h *Handler) viewGroup(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	group, err := h.records.GetGroup(c.Request.Context(), id)
	if err != nil {
		databaseError(c, err)
		return
	}
	if group == nil {
		notFound(c)
		return
	}

	c.JSON(http.StatusOK, group)
}

func (h *Handler) createGroup(c *gin.Context) {
	var create db.CreateGroup
	if err := c.ShouldBindJSON(&create); err != nil {
		badRequest(c)
		return
	}

	id, err := h.records.InsertGroup(c.Request.Context(), create)
	if err != nil {
		databaseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"group_id": id})
}

func (h *Handler) updateGroup(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var create db.CreateGroup
	if err := c.ShouldBindJSON(&create); err != nil {
		badRequest(c)
		return
	}

	if err := h.records.UpdateGroup(c.Request.Context(), id, create); err != nil {
		databaseError(c, err)
		return
	}

	c.Status(http.StatusOK)
}

func (h *Handler) deleteGroup(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.records.DeleteGroup(c.Request.Context(), id); err != nil {
		databaseError(c, err)
		return
	}

	c.Status(http.StatusOK)
}
