package handlers

import (
	"errors"
	"net/http"

	"github.com/rootv890/discovery-5/internal/models"
	"github.com/rootv890/discovery-5/internal/store"
)

// Waitlist handles pre-launch signup requests.
type Waitlist struct {
	waitlist *store.WaitlistStore
}

// NewWaitlist creates the waitlist handler group.
func NewWaitlist(waitlist *store.WaitlistStore) *Waitlist {
	return &Waitlist{waitlist: waitlist}
}

type waitlistSignupRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// Signup registers an email on the waitlist. Duplicate emails return 409.
func (h *Waitlist) Signup(w http.ResponseWriter, r *http.Request) {
	var req waitlistSignupRequest
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := validateEmail(req.Email); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}
	if msg := validateName("Name", req.Name); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}
	role := models.WaitlistRole(req.Role)
	if !role.Valid() {
		respondError(w, http.StatusBadRequest, "Role must be one of designer, developer, both, other.")
		return
	}

	entry, err := h.waitlist.Create(&models.WaitlistEntry{
		Email: req.Email,
		Name:  req.Name,
		Role:  role,
	})
	if errors.Is(err, store.ErrDuplicate) {
		respondError(w, http.StatusConflict, "This email is already on the waitlist.")
		return
	}
	if err != nil {
		handleError(w, err)
		return
	}

	respond(w, http.StatusCreated, "Successfully joined the waitlist", []models.WaitlistEntry{*entry}, nil)
}
