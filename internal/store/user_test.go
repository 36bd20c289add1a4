package store

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/rootv890/discovery-5/internal/models"
)

func TestUserStoreCreateAndAuthenticate(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)

	suffix := uuid.NewString()
	email := "tester-" + suffix + "@example.com"
	t.Cleanup(func() { cleanUsers(t, db, email) })

	created, err := s.Create("Tester", "tester-"+suffix, email, "s3cret-pass", models.RoleUser)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.PasswordHash == "s3cret-pass" {
		t.Error("password stored in plaintext")
	}
	if created.Role != models.RoleUser {
		t.Errorf("Role = %s, want USER", created.Role)
	}

	user, err := s.Authenticate(email, "s3cret-pass")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if user == nil || user.ID != created.ID {
		t.Errorf("authenticate = %+v, want user %s", user, created.ID)
	}

	user, err = s.Authenticate(email, "wrong-pass")
	if err != nil {
		t.Fatalf("authenticate wrong password: %v", err)
	}
	if user != nil {
		t.Error("wrong password authenticated")
	}

	user, err = s.Authenticate("nobody-"+suffix+"@example.com", "s3cret-pass")
	if err != nil {
		t.Fatalf("authenticate unknown email: %v", err)
	}
	if user != nil {
		t.Error("unknown email authenticated")
	}
}

func TestUserStoreDuplicateEmail(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)

	suffix := uuid.NewString()
	email := "dupe-" + suffix + "@example.com"
	t.Cleanup(func() { cleanUsers(t, db, email) })

	if _, err := s.Create("First", "first-"+suffix, email, "password1", models.RoleUser); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err := s.Create("Second", "second-"+suffix, email, "password2", models.RoleUser)
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("error = %v, want ErrDuplicate", err)
	}
}
