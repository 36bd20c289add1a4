package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rootv890/discovery-5/internal/catalog"
	"github.com/rootv890/discovery-5/internal/models"
	"github.com/rootv890/discovery-5/internal/pagination"
	"github.com/rootv890/discovery-5/internal/store"
)

// Platforms handles platform CRUD and the platform-scoped read views.
type Platforms struct {
	platforms *store.PlatformStore
	query     *catalog.Query
}

// NewPlatforms creates the platform handler group.
func NewPlatforms(platforms *store.PlatformStore, query *catalog.Query) *Platforms {
	return &Platforms{platforms: platforms, query: query}
}

var platformSortFields = map[string]string{
	"name":      "name",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

type platformRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

type platformPatchRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	ImageURL    *string `json:"image_url"`
}

// List returns a page of platforms with their categories embedded.
func (h *Platforms) List(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromQuery(r.URL.Query(), platformSortFields, "createdAt")

	items, total, err := h.platforms.List(params)
	if err != nil {
		handleError(w, err)
		return
	}
	for i := range items {
		categories, _, err := h.query.CategoriesForPlatform(r.Context(), items[i].ID.String())
		if err != nil {
			handleError(w, err)
			return
		}
		items[i].Categories = categories
	}
	if items == nil {
		items = []models.Platform{}
	}

	meta := pagination.NewMetadata(total, params)
	respond(w, http.StatusOK, "Platforms fetched successfully", items, &meta)
}

// Get returns a single platform with its categories embedded.
func (h *Platforms) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid platform id")
		return
	}

	platform, err := h.platforms.FindByID(id)
	if err != nil {
		handleError(w, err)
		return
	}
	if platform == nil {
		respondError(w, http.StatusNotFound, "platform not found")
		return
	}

	categories, _, err := h.query.CategoriesForPlatform(r.Context(), id.String())
	if err != nil {
		handleError(w, err)
		return
	}
	platform.Categories = categories

	respond(w, http.StatusOK, "Platform fetched successfully", []models.Platform{*platform}, nil)
}

// Categories returns the categories attached to a platform.
func (h *Platforms) Categories(w http.ResponseWriter, r *http.Request) {
	categories, _, err := h.query.CategoriesForPlatform(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, err)
		return
	}
	respond(w, http.StatusOK, "Categories fetched successfully", categories, nil)
}

// Tools returns the distinct tools reachable under a platform.
func (h *Platforms) Tools(w http.ResponseWriter, r *http.Request) {
	tools, err := h.query.ToolsForPlatform(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, err)
		return
	}
	respond(w, http.StatusOK, "Tools fetched successfully", tools, nil)
}

// Create adds a new platform. Admin only.
func (h *Platforms) Create(w http.ResponseWriter, r *http.Request) {
	var req platformRequest
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := validateName("Platform name", req.Name); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}
	if msg := validateOptionalText(req.Description, req.ImageURL); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	created, err := h.platforms.Create(&models.Platform{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		ImageURL:    req.ImageURL,
	})
	if errors.Is(err, store.ErrDuplicate) {
		respondError(w, http.StatusConflict, "A platform with this name already exists.")
		return
	}
	if err != nil {
		handleError(w, err)
		return
	}
	respond(w, http.StatusCreated, "Platform created successfully", []models.Platform{*created}, nil)
}

// Update applies a partial update to a platform. Admin only.
func (h *Platforms) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid platform id")
		return
	}

	var req platformPatchRequest
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	platform, err := h.platforms.FindByID(id)
	if err != nil {
		handleError(w, err)
		return
	}
	if platform == nil {
		respondError(w, http.StatusNotFound, "platform not found")
		return
	}

	if req.Name != nil {
		if msg := validateName("Platform name", *req.Name); msg != "" {
			respondError(w, http.StatusBadRequest, msg)
			return
		}
		platform.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		platform.Description = *req.Description
	}
	if req.ImageURL != nil {
		platform.ImageURL = *req.ImageURL
	}
	if msg := validateOptionalText(platform.Description, platform.ImageURL); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	updated, err := h.platforms.Update(platform)
	if errors.Is(err, store.ErrDuplicate) {
		respondError(w, http.StatusConflict, "A platform with this name already exists.")
		return
	}
	if err != nil {
		handleError(w, err)
		return
	}
	if updated == nil {
		respondError(w, http.StatusNotFound, "platform not found")
		return
	}
	respond(w, http.StatusOK, "Platform updated successfully", []models.Platform{*updated}, nil)
}

// Delete removes a platform and, by cascade, its association rows. Admin
// only.
func (h *Platforms) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid platform id")
		return
	}

	removed, err := h.platforms.Delete(id)
	if err != nil {
		handleError(w, err)
		return
	}
	if !removed {
		respondError(w, http.StatusNotFound, "platform not found")
		return
	}
	respond(w, http.StatusOK, "Platform deleted successfully", nil, nil)
}
