package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rootv890/discovery-5/internal/middleware"
	"github.com/rootv890/discovery-5/internal/models"
	"github.com/rootv890/discovery-5/internal/store"
)

// Comments handles comment routes not scoped under a tool.
type Comments struct {
	comments *store.CommentStore
}

// NewComments creates the comment handler group.
func NewComments(comments *store.CommentStore) *Comments {
	return &Comments{comments: comments}
}

// Delete removes a comment. Users may delete their own comments;
// moderators may delete any.
func (h *Comments) Delete(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromCtx(r.Context())
	if claims == nil {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid comment id")
		return
	}

	comment, err := h.comments.FindByID(id)
	if err != nil {
		handleError(w, err)
		return
	}
	if comment == nil {
		respondError(w, http.StatusNotFound, "comment not found")
		return
	}

	moderator := claims.Role == models.RoleAdmin || claims.Role == models.RoleCurator
	if comment.UserID != claims.UserID && !moderator {
		respondError(w, http.StatusForbidden, "You can only delete your own comments.")
		return
	}

	if _, err := h.comments.Delete(id); err != nil {
		handleError(w, err)
		return
	}
	respond(w, http.StatusOK, "Comment deleted successfully", nil, nil)
}
