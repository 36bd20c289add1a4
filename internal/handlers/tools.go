package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rootv890/discovery-5/internal/catalog"
	"github.com/rootv890/discovery-5/internal/middleware"
	"github.com/rootv890/discovery-5/internal/models"
	"github.com/rootv890/discovery-5/internal/pagination"
	"github.com/rootv890/discovery-5/internal/store"
)

// Tools handles tool CRUD, tagging into (category, platform) slots,
// voting, and comments.
type Tools struct {
	tools    *store.ToolStore
	votes    *store.VoteStore
	comments *store.CommentStore
	manager  *catalog.Manager
	query    *catalog.Query
}

// NewTools creates the tool handler group.
func NewTools(tools *store.ToolStore, votes *store.VoteStore, comments *store.CommentStore, manager *catalog.Manager, query *catalog.Query) *Tools {
	return &Tools{tools: tools, votes: votes, comments: comments, manager: manager, query: query}
}

var toolSortFields = map[string]string{
	"name":      "name",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

type createToolRequest struct {
	Name           string               `json:"name"`
	Description    string               `json:"description"`
	ImageURL       string               `json:"image_url"`
	Thumbnails     models.ThumbnailURLs `json:"thumbnail_urls"`
	ApprovalStatus string               `json:"approval_status"`
	IsNew          bool                 `json:"is_new"`
}

type patchToolRequest struct {
	Name           *string               `json:"name"`
	Description    *string               `json:"description"`
	ImageURL       *string               `json:"image_url"`
	Thumbnails     *models.ThumbnailURLs `json:"thumbnail_urls"`
	ApprovalStatus *string               `json:"approval_status"`
	IsNew          *bool                 `json:"is_new"`
}

type tagRequest struct {
	CategoryID string `json:"category_id"`
	PlatformID string `json:"platform_id"`
}

type voteRequest struct {
	VoteType string `json:"vote_type"`
}

type commentRequest struct {
	Content string `json:"content"`
}

// List returns a page of tools with vote tallies.
func (h *Tools) List(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromQuery(r.URL.Query(), toolSortFields, "createdAt")

	items, total, err := h.tools.List(params)
	if err != nil {
		handleError(w, err)
		return
	}
	if items == nil {
		items = []models.Tool{}
	}

	meta := pagination.NewMetadata(total, params)
	respond(w, http.StatusOK, "Tools fetched successfully", items, &meta)
}

// Get returns a single tool with its vote tallies and tags.
func (h *Tools) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid tool id")
		return
	}

	tool, err := h.tools.FindByID(id)
	if err != nil {
		handleError(w, err)
		return
	}
	if tool == nil {
		respondError(w, http.StatusNotFound, "tool not found")
		return
	}

	tags, err := h.query.TagsForTool(r.Context(), id.String())
	if err != nil {
		handleError(w, err)
		return
	}
	tool.Tags = tags

	respond(w, http.StatusOK, "Tool fetched successfully", []models.Tool{*tool}, nil)
}

// Create submits a new tool. Regular users may only submit DRAFT or
// PENDING tools; moderators may set any status.
func (h *Tools) Create(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromCtx(r.Context())

	var req createToolRequest
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := validateName("Tool name", req.Name); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}
	if msg := validateOptionalText(req.Description, req.ImageURL); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	status := models.ApprovalStatus(req.ApprovalStatus)
	if req.ApprovalStatus == "" {
		status = models.ApprovalPending
	}
	if !status.Valid() {
		respondError(w, http.StatusBadRequest, "approval_status must be PENDING, APPROVED, REJECTED, or DRAFT.")
		return
	}
	moderator := claims != nil && (claims.Role == models.RoleAdmin || claims.Role == models.RoleCurator)
	if !moderator && status != models.ApprovalPending && status != models.ApprovalDraft {
		respondError(w, http.StatusForbidden, "Submitted tools must be DRAFT or PENDING.")
		return
	}

	created, err := h.tools.Create(&models.Tool{
		Name:           strings.TrimSpace(req.Name),
		Description:    req.Description,
		ImageURL:       req.ImageURL,
		Thumbnails:     req.Thumbnails,
		ApprovalStatus: status,
		IsNew:          req.IsNew,
	})
	if errors.Is(err, store.ErrDuplicate) {
		respondError(w, http.StatusConflict, "A tool with this name already exists.")
		return
	}
	if err != nil {
		handleError(w, err)
		return
	}
	respond(w, http.StatusCreated, "Tool created successfully", []models.Tool{*created}, nil)
}

// Update applies a partial update to a tool, including approval status
// transitions. Admin only.
func (h *Tools) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid tool id")
		return
	}

	var req patchToolRequest
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tool, err := h.tools.FindByID(id)
	if err != nil {
		handleError(w, err)
		return
	}
	if tool == nil {
		respondError(w, http.StatusNotFound, "tool not found")
		return
	}

	if req.Name != nil {
		if msg := validateName("Tool name", *req.Name); msg != "" {
			respondError(w, http.StatusBadRequest, msg)
			return
		}
		tool.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		tool.Description = *req.Description
	}
	if req.ImageURL != nil {
		tool.ImageURL = *req.ImageURL
	}
	if req.Thumbnails != nil {
		tool.Thumbnails = *req.Thumbnails
	}
	if req.ApprovalStatus != nil {
		status := models.ApprovalStatus(*req.ApprovalStatus)
		if !status.Valid() {
			respondError(w, http.StatusBadRequest, "approval_status must be PENDING, APPROVED, REJECTED, or DRAFT.")
			return
		}
		tool.ApprovalStatus = status
	}
	if req.IsNew != nil {
		tool.IsNew = *req.IsNew
	}
	if msg := validateOptionalText(tool.Description, tool.ImageURL); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	updated, err := h.tools.Update(tool)
	if errors.Is(err, store.ErrDuplicate) {
		respondError(w, http.StatusConflict, "A tool with this name already exists.")
		return
	}
	if err != nil {
		handleError(w, err)
		return
	}
	if updated == nil {
		respondError(w, http.StatusNotFound, "tool not found")
		return
	}
	respond(w, http.StatusOK, "Tool updated successfully", []models.Tool{*updated}, nil)
}

// Delete removes a tool; placements, votes, and comments cascade away.
// Admin only.
func (h *Tools) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid tool id")
		return
	}

	removed, err := h.tools.Delete(id)
	if err != nil {
		handleError(w, err)
		return
	}
	if !removed {
		respondError(w, http.StatusNotFound, "tool not found")
		return
	}
	respond(w, http.StatusOK, "Tool deleted successfully", nil, nil)
}

// Tag places the tool into a (category, platform) slot. The pair must
// already be associated. Admin only.
func (h *Tools) Tag(w http.ResponseWriter, r *http.Request) {
	var req tagRequest
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	placement, err := h.manager.TagTool(r.Context(), chi.URLParam(r, "id"), req.CategoryID, req.PlatformID)
	if err != nil {
		handleError(w, err)
		return
	}
	respond(w, http.StatusCreated, "Tool tagged successfully", []models.ToolCategoryPlatform{*placement}, nil)
}

// Untag removes the tool from a (category, platform) slot. Admin only.
func (h *Tools) Untag(w http.ResponseWriter, r *http.Request) {
	var req tagRequest
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.manager.UntagTool(r.Context(), chi.URLParam(r, "id"), req.CategoryID, req.PlatformID); err != nil {
		handleError(w, err)
		return
	}
	respond(w, http.StatusOK, "Tool untagged successfully", nil, nil)
}

// Vote records the caller's vote on a tool. Re-voting replaces the
// previous vote; NONE retracts it.
func (h *Tools) Vote(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromCtx(r.Context())
	if claims == nil {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid tool id")
		return
	}

	var req voteRequest
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	voteType := models.VoteType(req.VoteType)
	if !voteType.Valid() {
		respondError(w, http.StatusBadRequest, "vote_type must be UPVOTE, DOWNVOTE, or NONE.")
		return
	}

	exists, err := h.tools.Exists(id)
	if err != nil {
		handleError(w, err)
		return
	}
	if !exists {
		respondError(w, http.StatusNotFound, "tool not found")
		return
	}

	vote, err := h.votes.Cast(claims.UserID, id, voteType)
	if err != nil {
		handleError(w, err)
		return
	}
	respond(w, http.StatusOK, "Vote recorded successfully", []models.Vote{*vote}, nil)
}

// ListComments returns a tool's comments, newest first.
func (h *Tools) ListComments(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid tool id")
		return
	}

	exists, err := h.tools.Exists(id)
	if err != nil {
		handleError(w, err)
		return
	}
	if !exists {
		respondError(w, http.StatusNotFound, "tool not found")
		return
	}

	comments, err := h.comments.ListByTool(id)
	if err != nil {
		handleError(w, err)
		return
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	respond(w, http.StatusOK, "Comments fetched successfully", comments, nil)
}

// CreateComment adds a comment to a tool as the caller.
func (h *Tools) CreateComment(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromCtx(r.Context())
	if claims == nil {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid tool id")
		return
	}

	var req commentRequest
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := validateComment(req.Content); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	exists, err := h.tools.Exists(id)
	if err != nil {
		handleError(w, err)
		return
	}
	if !exists {
		respondError(w, http.StatusNotFound, "tool not found")
		return
	}

	comment, err := h.comments.Create(claims.UserID, id, strings.TrimSpace(req.Content))
	if err != nil {
		handleError(w, err)
		return
	}
	respond(w, http.StatusCreated, "Comment created successfully", []models.Comment{*comment}, nil)
}
