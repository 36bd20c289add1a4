package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rootv890/discovery-5/internal/catalog"
	"github.com/rootv890/discovery-5/internal/models"
	"github.com/rootv890/discovery-5/internal/pagination"
	"github.com/rootv890/discovery-5/internal/store"
)

// Categories handles category CRUD and the attach/detach operations on
// the category-platform association table. All mutation goes through the
// catalog manager.
type Categories struct {
	categories *store.CategoryStore
	manager    *catalog.Manager
	query      *catalog.Query
}

// NewCategories creates the category handler group.
func NewCategories(categories *store.CategoryStore, manager *catalog.Manager, query *catalog.Query) *Categories {
	return &Categories{categories: categories, manager: manager, query: query}
}

var categorySortFields = map[string]string{
	"name":      "name",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

type createCategoryRequest struct {
	Name               string   `json:"name"`
	Description        string   `json:"description"`
	ImageURL           string   `json:"image_url"`
	PlatformConstraint string   `json:"platform_constraint"`
	PlatformIDs        []string `json:"platform_ids"`
}

type platformIDsRequest struct {
	PlatformIDs []string `json:"platform_ids"`
}

// createCategoryResponse pairs the category with its initial attachments.
type createCategoryResponse struct {
	Category    models.Category           `json:"category"`
	Attachments []models.CategoryPlatform `json:"attachments"`
}

// List returns a page of categories.
func (h *Categories) List(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromQuery(r.URL.Query(), categorySortFields, "createdAt")

	items, total, err := h.categories.List(params)
	if err != nil {
		handleError(w, err)
		return
	}
	if items == nil {
		items = []models.Category{}
	}

	meta := pagination.NewMetadata(total, params)
	respond(w, http.StatusOK, "Categories fetched successfully", items, &meta)
}

// Create adds a category together with its initial platform attachments.
// Admin only.
func (h *Categories) Create(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := validateOptionalText(req.Description, req.ImageURL); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	created, attached, err := h.manager.CreateCategory(r.Context(), catalog.CreateCategoryInput{
		Name:               req.Name,
		Description:        req.Description,
		ImageURL:           req.ImageURL,
		PlatformConstraint: req.PlatformConstraint,
		PlatformIDs:        req.PlatformIDs,
	})
	if err != nil {
		handleError(w, err)
		return
	}
	respond(w, http.StatusCreated, "Category created successfully",
		[]createCategoryResponse{{Category: *created, Attachments: attached}}, nil)
}

// Platforms returns the platforms a category is attached to.
func (h *Categories) Platforms(w http.ResponseWriter, r *http.Request) {
	platforms, err := h.query.PlatformsForCategory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, err)
		return
	}
	respond(w, http.StatusOK, "Platforms fetched successfully", platforms, nil)
}

// Tools returns the distinct tools placed under a category.
func (h *Categories) Tools(w http.ResponseWriter, r *http.Request) {
	tools, err := h.query.ToolsForCategory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, err)
		return
	}
	respond(w, http.StatusOK, "Tools fetched successfully", tools, nil)
}

// Attach associates a category with additional platforms, subject to its
// platform constraint. Already-attached platforms are skipped. Admin only.
func (h *Categories) Attach(w http.ResponseWriter, r *http.Request) {
	var req platformIDsRequest
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	inserted, err := h.manager.AttachCategoryToPlatforms(r.Context(), chi.URLParam(r, "id"), req.PlatformIDs)
	if err != nil {
		handleError(w, err)
		return
	}

	message := "Platforms attached successfully"
	if len(inserted) == 0 {
		message = "Platforms were already attached"
	}
	respond(w, http.StatusCreated, message, inserted, nil)
}

// Detach removes the association between a category and the given
// platforms. Admin only.
func (h *Categories) Detach(w http.ResponseWriter, r *http.Request) {
	var req platformIDsRequest
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.manager.DetachCategoryFromPlatforms(r.Context(), chi.URLParam(r, "id"), req.PlatformIDs)
	if err != nil {
		handleError(w, err)
		return
	}
	respond(w, http.StatusOK, "Platforms detached successfully", []catalog.DetachResult{*result}, nil)
}

// Delete removes a category and its cascading associations. Admin only.
func (h *Categories) Delete(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.manager.DeleteCategory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, err)
		return
	}
	respond(w, http.StatusOK, "Category deleted successfully", []models.Category{*deleted}, nil)
}
