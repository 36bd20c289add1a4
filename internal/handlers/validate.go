package handlers

import (
	"net/mail"
	"strings"
	"unicode/utf8"
)

// Validation limits for request fields.
const (
	maxNameLen        = 200
	maxDescriptionLen = 2_000
	maxURLLen         = 2_048
	maxEmailLen       = 320
	maxUsernameLen    = 50
	maxCommentLen     = 5_000
	minPasswordLen    = 8
	maxPasswordLen    = 72 // bcrypt input limit
)

// validateName checks a required display name and returns the first error
// found, or "" if valid.
func validateName(label, name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return label + " is required."
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return label + " is too long (max 200 characters)."
	}
	return ""
}

// validateOptionalText checks optional description and URL fields.
func validateOptionalText(description, imageURL string) string {
	if utf8.RuneCountInString(description) > maxDescriptionLen {
		return "Description is too long (max 2,000 characters)."
	}
	if utf8.RuneCountInString(imageURL) > maxURLLen {
		return "Image URL is too long (max 2,048 characters)."
	}
	return ""
}

// validateEmail checks an email address.
func validateEmail(email string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return "Email is required."
	}
	if utf8.RuneCountInString(email) > maxEmailLen {
		return "Email is too long (max 320 characters)."
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "Email is not a valid address."
	}
	return ""
}

// validateUsername checks a login handle.
func validateUsername(username string) string {
	username = strings.TrimSpace(username)
	if username == "" {
		return "Username is required."
	}
	if utf8.RuneCountInString(username) > maxUsernameLen {
		return "Username is too long (max 50 characters)."
	}
	return ""
}

// validatePassword checks password length bounds.
func validatePassword(password string) string {
	if len(password) < minPasswordLen {
		return "Password must be at least 8 characters."
	}
	if len(password) > maxPasswordLen {
		return "Password is too long (max 72 characters)."
	}
	return ""
}

// validateComment checks comment content.
func validateComment(content string) string {
	if strings.TrimSpace(content) == "" {
		return "Comment content is required."
	}
	if utf8.RuneCountInString(content) > maxCommentLen {
		return "Comment is too long (max 5,000 characters)."
	}
	return ""
}
