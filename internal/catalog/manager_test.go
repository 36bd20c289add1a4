// manager_test.go runs the attach/detach workflows against a real
// PostgreSQL database. Tests are skipped if PostgreSQL is not available.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/rootv890/discovery-5/internal/database"
	"github.com/rootv890/discovery-5/internal/models"
	"github.com/rootv890/discovery-5/internal/store"
)

func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "discovery")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "discovery")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("pgx", testDSN())
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testEnv wires up stores and the catalog layer against db, cache
// disabled.
type testEnv struct {
	db      *sql.DB
	manager *Manager
	query   *Query

	platforms    *store.PlatformStore
	categories   *store.CategoryStore
	associations *store.AssociationStore
	tools        *store.ToolStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testDB(t)

	platforms := store.NewPlatformStore(db)
	categories := store.NewCategoryStore(db)
	associations := store.NewAssociationStore(db)
	tools := store.NewToolStore(db)

	return &testEnv{
		db:           db,
		manager:      NewManager(db, categories, platforms, associations, tools, nil),
		query:        NewQuery(categories, platforms, associations, tools, nil),
		platforms:    platforms,
		categories:   categories,
		associations: associations,
		tools:        tools,
	}
}

func (e *testEnv) createPlatform(t *testing.T) *models.Platform {
	t.Helper()
	name := "test-platform-" + uuid.NewString()
	t.Cleanup(func() { e.db.Exec("DELETE FROM platforms WHERE name = $1", name) })

	p, err := e.platforms.Create(&models.Platform{Name: name})
	if err != nil {
		t.Fatalf("create platform: %v", err)
	}
	return p
}

// createBareCategory inserts a category with no attachments, bypassing
// the manager's creation-time platform requirement.
func (e *testEnv) createBareCategory(t *testing.T, constraint models.PlatformConstraint) *models.Category {
	t.Helper()
	name := "test-category-" + uuid.NewString()
	t.Cleanup(func() { e.db.Exec("DELETE FROM categories WHERE name = $1", name) })

	tx, err := e.db.Begin()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	c, err := e.categories.CreateTx(tx, &models.Category{Name: name, PlatformConstraint: constraint})
	if err != nil {
		tx.Rollback()
		t.Fatalf("create category: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
	return c
}

func (e *testEnv) createTool(t *testing.T) *models.Tool {
	t.Helper()
	name := "test-tool-" + uuid.NewString()
	t.Cleanup(func() { e.db.Exec("DELETE FROM tools WHERE name = $1", name) })

	tool, err := e.tools.Create(&models.Tool{Name: name, ApprovalStatus: models.ApprovalApproved})
	if err != nil {
		t.Fatalf("create tool: %v", err)
	}
	return tool
}

func TestCreateCategoryWithAttachments(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	p1 := e.createPlatform(t)
	p2 := e.createPlatform(t)

	name := "test-category-" + uuid.NewString()
	t.Cleanup(func() { e.db.Exec("DELETE FROM categories WHERE name = $1", name) })

	category, attached, err := e.manager.CreateCategory(ctx, CreateCategoryInput{
		Name:               name,
		PlatformConstraint: "NONE",
		PlatformIDs:        []string{p1.ID.String(), p2.ID.String()},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(attached) != 2 {
		t.Errorf("attached %d platforms, want 2", len(attached))
	}

	platforms, err := e.query.PlatformsForCategory(ctx, category.ID.String())
	if err != nil || len(platforms) != 2 {
		t.Errorf("PlatformsForCategory = %v, %v, want 2", platforms, err)
	}
}

func TestCreateCategoryValidation(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	p1 := e.createPlatform(t)
	p2 := e.createPlatform(t)

	cases := []struct {
		name  string
		input CreateCategoryInput
	}{
		{"missing name", CreateCategoryInput{PlatformConstraint: "NONE", PlatformIDs: []string{p1.ID.String()}}},
		{"bad constraint", CreateCategoryInput{Name: "x-" + uuid.NewString(), PlatformConstraint: "MANY", PlatformIDs: []string{p1.ID.String()}}},
		{"single with two", CreateCategoryInput{Name: "x-" + uuid.NewString(), PlatformConstraint: "SINGLE", PlatformIDs: []string{p1.ID.String(), p2.ID.String()}}},
		{"none with zero", CreateCategoryInput{Name: "x-" + uuid.NewString(), PlatformConstraint: "NONE"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := e.manager.CreateCategory(ctx, tc.input)
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Errorf("error = %v, want ValidationError", err)
			}
		})
	}

	// Unknown platform is a not-found, not a validation error.
	_, _, err := e.manager.CreateCategory(ctx, CreateCategoryInput{
		Name:               "x-" + uuid.NewString(),
		PlatformConstraint: "NONE",
		PlatformIDs:        []string{uuid.NewString()},
	})
	var nfErr *NotFoundError
	if !errors.As(err, &nfErr) || nfErr.Kind != KindPlatform {
		t.Errorf("error = %v, want platform NotFoundError", err)
	}
}

func TestCreateCategoryDuplicateName(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	p := e.createPlatform(t)
	name := "test-category-" + uuid.NewString()
	t.Cleanup(func() { e.db.Exec("DELETE FROM categories WHERE name = $1", name) })

	input := CreateCategoryInput{Name: name, PlatformConstraint: "NONE", PlatformIDs: []string{p.ID.String()}}
	if _, _, err := e.manager.CreateCategory(ctx, input); err != nil {
		t.Fatalf("create: %v", err)
	}

	_, _, err := e.manager.CreateCategory(ctx, input)
	var dErr *DuplicateNameError
	if !errors.As(err, &dErr) {
		t.Errorf("error = %v, want DuplicateNameError", err)
	}
}

func TestAttachSkipsAlreadyAttached(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	p1 := e.createPlatform(t)
	p2 := e.createPlatform(t)
	category := e.createBareCategory(t, models.ConstraintNone)

	inserted, err := e.manager.AttachCategoryToPlatforms(ctx, category.ID.String(), []string{p1.ID.String()})
	if err != nil || len(inserted) != 1 {
		t.Fatalf("first attach = %v, %v, want 1 row", inserted, err)
	}

	// Re-attach p1 plus fresh p2: only p2 inserts.
	inserted, err = e.manager.AttachCategoryToPlatforms(ctx, category.ID.String(),
		[]string{p1.ID.String(), p2.ID.String()})
	if err != nil {
		t.Fatalf("second attach: %v", err)
	}
	if len(inserted) != 1 || inserted[0].PlatformID != p2.ID {
		t.Errorf("inserted = %v, want only %s", inserted, p2.ID)
	}

	// Fully redundant attach is an empty success.
	inserted, err = e.manager.AttachCategoryToPlatforms(ctx, category.ID.String(), []string{p1.ID.String()})
	if err != nil {
		t.Fatalf("redundant attach: %v", err)
	}
	if len(inserted) != 0 {
		t.Errorf("inserted = %v, want empty", inserted)
	}
}

func TestAttachSingleExceeded(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	p1 := e.createPlatform(t)
	p2 := e.createPlatform(t)
	category := e.createBareCategory(t, models.ConstraintSingle)

	if _, err := e.manager.AttachCategoryToPlatforms(ctx, category.ID.String(), []string{p1.ID.String()}); err != nil {
		t.Fatalf("first attach: %v", err)
	}

	_, err := e.manager.AttachCategoryToPlatforms(ctx, category.ID.String(), []string{p2.ID.String()})
	var cvErr *ConstraintViolationError
	if !errors.As(err, &cvErr) || cvErr.Reason != SingleExceeded {
		t.Errorf("error = %v, want SINGLE_EXCEEDED", err)
	}
}

// Two concurrent attaches to an empty SINGLE category must not both
// succeed: the row lock serializes them and the loser sees the first
// winner's attachment.
func TestConcurrentSingleAttach(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	p1 := e.createPlatform(t)
	p2 := e.createPlatform(t)
	category := e.createBareCategory(t, models.ConstraintSingle)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, platform := range []*models.Platform{p1, p2} {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			_, errs[i] = e.manager.AttachCategoryToPlatforms(ctx, category.ID.String(), []string{id})
		}(i, platform.ID.String())
	}
	wg.Wait()

	var successes, violations int
	for _, err := range errs {
		var cvErr *ConstraintViolationError
		switch {
		case err == nil:
			successes++
		case errors.As(err, &cvErr):
			violations++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if successes != 1 || violations != 1 {
		t.Errorf("successes = %d, violations = %d, want 1 and 1", successes, violations)
	}

	rows, err := e.associations.ListByCategory(category.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("category holds %d attachments, want exactly 1", len(rows))
	}
}

func TestDetach(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	p1 := e.createPlatform(t)
	p2 := e.createPlatform(t)
	category := e.createBareCategory(t, models.ConstraintNone)

	if _, err := e.manager.AttachCategoryToPlatforms(ctx, category.ID.String(),
		[]string{p1.ID.String(), p2.ID.String()}); err != nil {
		t.Fatalf("attach: %v", err)
	}

	result, err := e.manager.DetachCategoryFromPlatforms(ctx, category.ID.String(), []string{p1.ID.String()})
	if err != nil {
		t.Fatalf("detach: %v", err)
	}
	if result.RemovedCount != 1 {
		t.Errorf("RemovedCount = %d, want 1", result.RemovedCount)
	}

	// Detaching an unattached platform is a not-found.
	_, err = e.manager.DetachCategoryFromPlatforms(ctx, category.ID.String(), []string{p1.ID.String()})
	var nfErr *NotFoundError
	if !errors.As(err, &nfErr) || nfErr.Kind != KindAssociation {
		t.Errorf("error = %v, want association NotFoundError", err)
	}
}

func TestDeleteCategory(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	p := e.createPlatform(t)
	category := e.createBareCategory(t, models.ConstraintNone)

	if _, err := e.manager.AttachCategoryToPlatforms(ctx, category.ID.String(), []string{p.ID.String()}); err != nil {
		t.Fatalf("attach: %v", err)
	}

	deleted, err := e.manager.DeleteCategory(ctx, category.ID.String())
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleted.ID != category.ID {
		t.Errorf("deleted %s, want %s", deleted.ID, category.ID)
	}

	rows, err := e.associations.ListByPlatform(p.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("platform still holds %d attachments", len(rows))
	}

	_, err = e.manager.DeleteCategory(ctx, category.ID.String())
	var nfErr *NotFoundError
	if !errors.As(err, &nfErr) {
		t.Errorf("error = %v, want NotFoundError", err)
	}
}

func TestTagAndUntagTool(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	p := e.createPlatform(t)
	category := e.createBareCategory(t, models.ConstraintNone)
	tool := e.createTool(t)

	// Tagging into an unattached pair fails.
	_, err := e.manager.TagTool(ctx, tool.ID.String(), category.ID.String(), p.ID.String())
	var nfErr *NotFoundError
	if !errors.As(err, &nfErr) || nfErr.Kind != KindAssociation {
		t.Fatalf("error = %v, want association NotFoundError", err)
	}

	if _, err := e.manager.AttachCategoryToPlatforms(ctx, category.ID.String(), []string{p.ID.String()}); err != nil {
		t.Fatalf("attach: %v", err)
	}

	placement, err := e.manager.TagTool(ctx, tool.ID.String(), category.ID.String(), p.ID.String())
	if err != nil {
		t.Fatalf("tag: %v", err)
	}

	// Re-tagging is idempotent.
	again, err := e.manager.TagTool(ctx, tool.ID.String(), category.ID.String(), p.ID.String())
	if err != nil {
		t.Fatalf("re-tag: %v", err)
	}
	if again.ID != placement.ID {
		t.Errorf("re-tag created a new placement")
	}

	tools, err := e.query.ToolsForCategory(ctx, category.ID.String())
	if err != nil || len(tools) != 1 {
		t.Errorf("ToolsForCategory = %v, %v, want 1 tool", tools, err)
	}

	if err := e.manager.UntagTool(ctx, tool.ID.String(), category.ID.String(), p.ID.String()); err != nil {
		t.Fatalf("untag: %v", err)
	}
	if err := e.manager.UntagTool(ctx, tool.ID.String(), category.ID.String(), p.ID.String()); err == nil {
		t.Error("untagging a missing placement succeeded")
	}
}

// A tool reachable through several platforms of the same category shows
// up once.
func TestToolsForCategoryDeduplicates(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	p1 := e.createPlatform(t)
	p2 := e.createPlatform(t)
	category := e.createBareCategory(t, models.ConstraintNone)
	tool := e.createTool(t)

	if _, err := e.manager.AttachCategoryToPlatforms(ctx, category.ID.String(),
		[]string{p1.ID.String(), p2.ID.String()}); err != nil {
		t.Fatalf("attach: %v", err)
	}
	for _, p := range []*models.Platform{p1, p2} {
		if _, err := e.manager.TagTool(ctx, tool.ID.String(), category.ID.String(), p.ID.String()); err != nil {
			t.Fatalf("tag: %v", err)
		}
	}

	tools, err := e.query.ToolsForCategory(ctx, category.ID.String())
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(tools) != 1 {
		t.Errorf("got %d tools, want 1 after de-duplication", len(tools))
	}

	tags, err := e.query.TagsForTool(ctx, tool.ID.String())
	if err != nil || len(tags) != 2 {
		t.Errorf("TagsForTool = %v, %v, want 2 tags", tags, err)
	}
}
