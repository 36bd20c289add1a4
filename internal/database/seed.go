package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// seedCategories are the predefined directory categories. All are
// unconstrained (NONE); SINGLE categories are created through the API.
var seedCategories = []struct {
	Name        string
	Description string
	ImageURL    string
}{
	{"UI Design", "Tools for User Interface Design", "/images/categories/ui-design.png"},
	{"UX Research", "Tools for User Experience Research", "/images/categories/ux-research.png"},
	{"Prototyping", "Tools for Interactive Prototyping", "/images/categories/prototyping.png"},
	{"Graphic Design", "Tools for Visual Communication and Graphics", "/images/categories/graphic-design.png"},
	{"Code Editors", "Integrated Development Environments", "/images/categories/code-editors.png"},
	{"Frontend Frameworks", "Frameworks for building user interfaces", "/images/categories/frontend-frameworks.png"},
	{"Backend Frameworks", "Frameworks for server-side logic", "/images/categories/backend-frameworks.png"},
	{"Database", "Database management systems", "/images/categories/database.png"},
	{"Project Management", "Tools for team collaboration and task management", "/images/categories/project-management.png"},
	{"Collaboration", "General collaboration and communication tools", "/images/categories/collaboration.png"},
	{"Testing", "Software testing and QA tools", "/images/categories/testing.png"},
	{"Animation", "Tools for creating animations and motion graphics", "/images/categories/animation.png"},
	{"3D Modeling", "Tools for creating 3D models and scenes", "/images/categories/3d-modeling.png"},
	{"AI Tools", "Tools leveraging Artificial Intelligence", "/images/categories/ai-tools.png"},
	{"Marketing", "Marketing and SEO tools", "/images/categories/marketing.png"},
	{"Analytics", "Data analysis and visualization tools", "/images/categories/analytics.png"},
	{"Cloud Services", "Cloud computing platforms and services", "/images/categories/cloud-services.png"},
	{"Learning Platforms", "Online learning and course platforms", "/images/categories/learning-platforms.png"},
	{"Design Inspiration", "Platforms for design inspiration and resources", "/images/categories/design-inspiration.png"},
	{"Productivity", "Tools focused on boosting productivity", "/images/categories/productivity.png"},
}

// seedPlatforms are the predefined delivery platforms.
var seedPlatforms = []struct {
	Name        string
	Description string
	ImageURL    string
}{
	{"Web", "Web-based platforms", "/images/platforms/web.png"},
	{"Desktop", "Desktop applications", "/images/platforms/desktop.png"},
	{"Mobile (iOS)", "Mobile applications for iOS", "/images/platforms/ios.png"},
	{"Mobile (Android)", "Mobile applications for Android", "/images/platforms/android.png"},
	{"Cross-Platform", "Tools available on multiple platforms", "/images/platforms/cross-platform.png"},
	{"Browser Extension", "Browser extensions and plugins", "/images/platforms/browser-extension.png"},
	{"Command Line (CLI)", "Command-line interface tools", "/images/platforms/cli.png"},
	{"API", "Tools primarily accessed via API", "/images/platforms/api.png"},
}

// Seed populates the database with initial development data: the
// predefined platform and category sets, every category attached to every
// platform, and a default admin user. Idempotent; every insert skips
// existing rows.
func Seed(db *sql.DB) error {
	for _, p := range seedPlatforms {
		_, err := db.Exec(`
			INSERT INTO platforms (name, description, image_url)
			VALUES ($1, $2, $3)
			ON CONFLICT (name) DO NOTHING
		`, p.Name, p.Description, p.ImageURL)
		if err != nil {
			return fmt.Errorf("seed platform %q: %w", p.Name, err)
		}
	}

	for _, c := range seedCategories {
		_, err := db.Exec(`
			INSERT INTO categories (name, description, image_url, platform_constraint)
			VALUES ($1, $2, $3, 'NONE')
			ON CONFLICT (name) DO NOTHING
		`, c.Name, c.Description, c.ImageURL)
		if err != nil {
			return fmt.Errorf("seed category %q: %w", c.Name, err)
		}
	}

	// Attach every seeded category to every platform so the directory is
	// browsable out of the box.
	_, err := db.Exec(`
		INSERT INTO category_platform (category_id, platform_id)
		SELECT c.id, p.id FROM categories c CROSS JOIN platforms p
		ON CONFLICT (category_id, platform_id) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("seed category attachments: %w", err)
	}

	// Default admin account.
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM users WHERE role = 'ADMIN'`).Scan(&count); err != nil {
		return fmt.Errorf("seed check admin: %w", err)
	}
	if count == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("seed bcrypt: %w", err)
		}
		_, err = db.Exec(`
			INSERT INTO users (name, username, email, password_hash, role)
			VALUES ($1, $2, $3, $4, 'ADMIN')
		`, "Admin", "admin", "admin@discovery.local", string(hash))
		if err != nil {
			return fmt.Errorf("seed insert admin: %w", err)
		}
		slog.Info("database seeded with default admin user",
			"email", "admin@discovery.local",
			"password", "admin",
		)
	}

	slog.Info("database seeded",
		"platforms", len(seedPlatforms),
		"categories", len(seedCategories),
	)
	return nil
}
