package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/rootv890/discovery-5/internal/auth"
	"github.com/rootv890/discovery-5/internal/models"
	"github.com/rootv890/discovery-5/internal/store"
)

// Auth handles account registration and sign-in.
type Auth struct {
	users  *store.UserStore
	issuer *auth.Issuer
}

// NewAuth creates the auth handler group.
func NewAuth(users *store.UserStore, issuer *auth.Issuer) *Auth {
	return &Auth{users: users, issuer: issuer}
}

type signUpRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// authResponse pairs the account with its access token.
type authResponse struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

// SignUp registers a new account with the USER role and returns it with
// a signed access token.
func (h *Auth) SignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := validateName("Name", req.Name); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}
	if msg := validateUsername(req.Username); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}
	if msg := validateEmail(req.Email); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}
	if msg := validatePassword(req.Password); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	user, err := h.users.Create(
		strings.TrimSpace(req.Name),
		strings.TrimSpace(req.Username),
		strings.TrimSpace(req.Email),
		req.Password,
		models.RoleUser,
	)
	if errors.Is(err, store.ErrDuplicate) {
		respondError(w, http.StatusConflict, "An account with this username or email already exists.")
		return
	}
	if err != nil {
		handleError(w, err)
		return
	}

	token, err := h.issuer.Issue(user)
	if err != nil {
		handleError(w, err)
		return
	}
	respond(w, http.StatusCreated, "Account created successfully", []authResponse{{User: *user, Token: token}}, nil)
}

// SignIn exchanges email and password for an access token. Unknown email
// and wrong password are indistinguishable to the caller.
func (h *Auth) SignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Email and password are required.")
		return
	}

	user, err := h.users.Authenticate(strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		handleError(w, err)
		return
	}
	if user == nil {
		respondError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	token, err := h.issuer.Issue(user)
	if err != nil {
		handleError(w, err)
		return
	}
	respond(w, http.StatusOK, "Signed in successfully", []authResponse{{User: *user, Token: token}}, nil)
}
