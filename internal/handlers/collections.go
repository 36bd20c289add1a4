package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rootv890/discovery-5/internal/middleware"
	"github.com/rootv890/discovery-5/internal/models"
	"github.com/rootv890/discovery-5/internal/store"
)

// Collections handles per-user tool collections.
type Collections struct {
	collections *store.CollectionStore
	tools       *store.ToolStore
}

// NewCollections creates the collection handler group.
func NewCollections(collections *store.CollectionStore, tools *store.ToolStore) *Collections {
	return &Collections{collections: collections, tools: tools}
}

type createCollectionRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsPublic    bool   `json:"is_public"`
}

type collectionToolRequest struct {
	ToolID string `json:"tool_id"`
}

// ownedCollection loads a collection and checks the caller may modify it.
// Writes the error response itself and returns nil when the caller may not.
func (h *Collections) ownedCollection(w http.ResponseWriter, r *http.Request) *models.Collection {
	claims := middleware.ClaimsFromCtx(r.Context())
	if claims == nil {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return nil
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid collection id")
		return nil
	}

	collection, err := h.collections.FindByID(id)
	if err != nil {
		handleError(w, err)
		return nil
	}
	if collection == nil {
		respondError(w, http.StatusNotFound, "collection not found")
		return nil
	}
	if collection.UserID != claims.UserID && claims.Role != models.RoleAdmin {
		respondError(w, http.StatusForbidden, "You can only modify your own collections.")
		return nil
	}
	return collection
}

// List returns the caller's collections with tool counts.
func (h *Collections) List(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromCtx(r.Context())
	if claims == nil {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	items, err := h.collections.ListByUser(claims.UserID)
	if err != nil {
		handleError(w, err)
		return
	}
	if items == nil {
		items = []models.Collection{}
	}
	respond(w, http.StatusOK, "Collections fetched successfully", items, nil)
}

// Create adds a collection for the caller. Names are unique per user.
func (h *Collections) Create(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromCtx(r.Context())
	if claims == nil {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req createCollectionRequest
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := validateName("Collection name", req.Name); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}
	if msg := validateOptionalText(req.Description, ""); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	created, err := h.collections.Create(&models.Collection{
		Name:        strings.TrimSpace(req.Name),
		UserID:      claims.UserID,
		Description: req.Description,
		IsPublic:    req.IsPublic,
	})
	if errors.Is(err, store.ErrDuplicate) {
		respondError(w, http.StatusConflict, "You already have a collection with this name.")
		return
	}
	if err != nil {
		handleError(w, err)
		return
	}
	respond(w, http.StatusCreated, "Collection created successfully", []models.Collection{*created}, nil)
}

// AddTool places a tool in a collection. Adding an already-present tool
// is a no-op.
func (h *Collections) AddTool(w http.ResponseWriter, r *http.Request) {
	collection := h.ownedCollection(w, r)
	if collection == nil {
		return
	}

	var req collectionToolRequest
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	toolID, err := uuid.Parse(req.ToolID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid tool id")
		return
	}

	exists, err := h.tools.Exists(toolID)
	if err != nil {
		handleError(w, err)
		return
	}
	if !exists {
		respondError(w, http.StatusNotFound, "tool not found")
		return
	}

	inserted, err := h.collections.AddTool(collection.ID, toolID)
	if err != nil {
		handleError(w, err)
		return
	}

	message := "Tool added to collection"
	if !inserted {
		message = "Tool is already in this collection"
	}
	respond(w, http.StatusOK, message, nil, nil)
}

// RemoveTool takes a tool out of a collection.
func (h *Collections) RemoveTool(w http.ResponseWriter, r *http.Request) {
	collection := h.ownedCollection(w, r)
	if collection == nil {
		return
	}

	var req collectionToolRequest
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	toolID, err := uuid.Parse(req.ToolID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid tool id")
		return
	}

	removed, err := h.collections.RemoveTool(collection.ID, toolID)
	if err != nil {
		handleError(w, err)
		return
	}
	if !removed {
		respondError(w, http.StatusNotFound, "tool is not in this collection")
		return
	}
	respond(w, http.StatusOK, "Tool removed from collection", nil, nil)
}

// Delete removes a collection and its membership rows.
func (h *Collections) Delete(w http.ResponseWriter, r *http.Request) {
	collection := h.ownedCollection(w, r)
	if collection == nil {
		return
	}

	if _, err := h.collections.Delete(collection.ID); err != nil {
		handleError(w, err)
		return
	}
	respond(w, http.StatusOK, "Collection deleted successfully", nil, nil)
}
