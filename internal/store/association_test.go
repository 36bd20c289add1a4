package store

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/rootv890/discovery-5/internal/models"
)

// fixture creates one platform and one category for association tests,
// registering cleanup. Association rows cascade away with them.
func fixture(t *testing.T, db *sql.DB) (*models.Platform, *models.Category) {
	t.Helper()
	platforms := NewPlatformStore(db)
	categories := NewCategoryStore(db)

	pName := "test-platform-" + uuid.NewString()
	cName := "test-category-" + uuid.NewString()
	t.Cleanup(func() {
		cleanCategories(t, db, cName)
		cleanPlatforms(t, db, pName)
	})

	platform, err := platforms.Create(&models.Platform{Name: pName})
	if err != nil {
		t.Fatalf("create platform: %v", err)
	}

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	category, err := categories.CreateTx(tx, &models.Category{
		Name:               cName,
		PlatformConstraint: models.ConstraintNone,
	})
	if err != nil {
		tx.Rollback()
		t.Fatalf("create category: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
	return platform, category
}

// attach creates one category_platform row outside the manager.
func attach(t *testing.T, db *sql.DB, s *AssociationStore, categoryID, platformID uuid.UUID) models.CategoryPlatform {
	t.Helper()
	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	rows, err := s.BulkInsertTx(tx, categoryID, []uuid.UUID{platformID})
	if err != nil {
		tx.Rollback()
		t.Fatalf("bulk insert: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("inserted %d rows, want 1", len(rows))
	}
	return rows[0]
}

func TestAssociationStoreBulkInsertAndList(t *testing.T) {
	db := testDB(t)
	s := NewAssociationStore(db)
	platform, category := fixture(t, db)

	row := attach(t, db, s, category.ID, platform.ID)
	if row.CategoryID != category.ID || row.PlatformID != platform.ID {
		t.Errorf("row = %+v, want pair (%s, %s)", row, category.ID, platform.ID)
	}

	byCategory, err := s.ListByCategory(category.ID)
	if err != nil || len(byCategory) != 1 {
		t.Errorf("ListByCategory = %v, %v, want 1 row", byCategory, err)
	}
	byPlatform, err := s.ListByPlatform(platform.ID)
	if err != nil || len(byPlatform) != 1 {
		t.Errorf("ListByPlatform = %v, %v, want 1 row", byPlatform, err)
	}
}

func TestAssociationStoreDuplicatePair(t *testing.T) {
	db := testDB(t)
	s := NewAssociationStore(db)
	platform, category := fixture(t, db)

	attach(t, db, s, category.ID, platform.ID)

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	defer tx.Rollback()

	_, err = s.BulkInsertTx(tx, category.ID, []uuid.UUID{platform.ID})
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("error = %v, want ErrDuplicate", err)
	}
}

func TestAssociationStoreFindPair(t *testing.T) {
	db := testDB(t)
	s := NewAssociationStore(db)
	platform, category := fixture(t, db)

	pair, err := s.FindPair(category.ID, platform.ID)
	if err != nil {
		t.Fatalf("find pair: %v", err)
	}
	if pair != nil {
		t.Fatal("pair should not exist yet")
	}

	attach(t, db, s, category.ID, platform.ID)

	pair, err = s.FindPair(category.ID, platform.ID)
	if err != nil || pair == nil {
		t.Errorf("FindPair = %v, %v, want a row", pair, err)
	}
}

func TestAssociationStoreDeleteByCategoryAndPlatforms(t *testing.T) {
	db := testDB(t)
	s := NewAssociationStore(db)
	platform, category := fixture(t, db)

	attach(t, db, s, category.ID, platform.ID)

	removed, err := s.DeleteByCategoryAndPlatforms(category.ID, []uuid.UUID{platform.ID, uuid.New()})
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(removed) != 1 {
		t.Errorf("removed %d rows, want 1", len(removed))
	}

	left, err := s.ListByCategory(category.ID)
	if err != nil || len(left) != 0 {
		t.Errorf("ListByCategory after delete = %v, %v, want empty", left, err)
	}
}

func TestToolPlacementIdempotent(t *testing.T) {
	db := testDB(t)
	s := NewAssociationStore(db)
	tools := NewToolStore(db)
	platform, category := fixture(t, db)

	toolName := "test-tool-" + uuid.NewString()
	t.Cleanup(func() { cleanTools(t, db, toolName) })
	tool, err := tools.Create(&models.Tool{Name: toolName, ApprovalStatus: models.ApprovalPending})
	if err != nil {
		t.Fatalf("create tool: %v", err)
	}

	pair := attach(t, db, s, category.ID, platform.ID)

	first, err := s.InsertToolPlacement(tool.ID, pair.ID)
	if err != nil {
		t.Fatalf("first placement: %v", err)
	}
	second, err := s.InsertToolPlacement(tool.ID, pair.ID)
	if err != nil {
		t.Fatalf("second placement: %v", err)
	}
	if second == nil || second.ID != first.ID {
		t.Errorf("second placement = %+v, want existing row %s", second, first.ID)
	}

	tags, err := s.ListToolTags(tool.ID)
	if err != nil || len(tags) != 1 {
		t.Fatalf("ListToolTags = %v, %v, want 1 tag", tags, err)
	}
	if tags[0].CategoryName != category.Name || tags[0].PlatformName != platform.Name {
		t.Errorf("tag = %+v, want (%s, %s)", tags[0], category.Name, platform.Name)
	}

	removed, err := s.DeleteToolPlacement(tool.ID, pair.ID)
	if err != nil || !removed {
		t.Errorf("DeleteToolPlacement = %v, %v, want true", removed, err)
	}
}

// Deleting an attachment row cascades its tool placements away.
func TestPlacementCascadesWithPair(t *testing.T) {
	db := testDB(t)
	s := NewAssociationStore(db)
	tools := NewToolStore(db)
	platform, category := fixture(t, db)

	toolName := "test-tool-" + uuid.NewString()
	t.Cleanup(func() { cleanTools(t, db, toolName) })
	tool, err := tools.Create(&models.Tool{Name: toolName, ApprovalStatus: models.ApprovalPending})
	if err != nil {
		t.Fatalf("create tool: %v", err)
	}

	pair := attach(t, db, s, category.ID, platform.ID)
	if _, err := s.InsertToolPlacement(tool.ID, pair.ID); err != nil {
		t.Fatalf("placement: %v", err)
	}

	if _, err := s.DeleteByCategoryAndPlatforms(category.ID, []uuid.UUID{platform.ID}); err != nil {
		t.Fatalf("detach: %v", err)
	}

	tags, err := s.ListToolTags(tool.ID)
	if err != nil {
		t.Fatalf("list tags: %v", err)
	}
	if len(tags) != 0 {
		t.Errorf("tags after cascade = %v, want empty", tags)
	}
}
