package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"law-office-api/models"
	"law-office-api/utils"

	"github.com/redis/go-redis/v9"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// LibraryFile is the YAML layout accepted by cmd/seed-library.
type LibraryFile struct {
	Templates []LibraryTemplate `yaml:"templates"`
	Clauses   []LibraryClause   `yaml:"clauses"`
	Admin     *LibraryAdmin     `yaml:"admin"`
}

type LibraryTemplate struct {
	Name     string `yaml:"name"`
	Category string `yaml:"category"`
	Body     string `yaml:"body"`
	Active   *bool  `yaml:"active"`
}

type LibraryClause struct {
	Title    string `yaml:"title"`
	Category string `yaml:"category"`
	Body     string `yaml:"body"`
	Active   *bool  `yaml:"active"`
}

type LibraryAdmin struct {
	FullName string `yaml:"full_name"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

// SeedSummary counts what a seed run changed.
type SeedSummary struct {
	TemplatesCreated int
	TemplatesUpdated int
	ClausesCreated   int
	ClausesUpdated   int
	AdminCreated     bool
}

// ParseLibrary decodes and validates a library file. Clause order in the file
// becomes the display order of newly created clauses.
func ParseLibrary(data []byte) (*LibraryFile, error) {
	var lib LibraryFile
	if err := yaml.Unmarshal(data, &lib); err != nil {
		return nil, fmt.Errorf("parse library: %w", err)
	}

	for i, tpl := range lib.Templates {
		if strings.TrimSpace(tpl.Name) == "" {
			return nil, fmt.Errorf("template #%d: %w", i+1, ErrTemplateNameMissing)
		}
	}
	for i, clause := range lib.Clauses {
		if strings.TrimSpace(clause.Title) == "" {
			return nil, fmt.Errorf("clause #%d: %w", i+1, ErrClauseTitleMissing)
		}
	}
	if lib.Admin != nil {
		if !utils.ValidateEmail(lib.Admin.Email) {
			return nil, fmt.Errorf("admin: invalid email %q", lib.Admin.Email)
		}
		if ok, msg := utils.ValidatePassword(lib.Admin.Password); !ok {
			return nil, fmt.Errorf("admin: %s", msg)
		}
	}
	return &lib, nil
}

// SeedLibrary upserts templates by name and clauses by title, and creates the admin
// user when no user with that email exists. cache may be nil.
func SeedLibrary(ctx context.Context, db *gorm.DB, cache *redis.Client, lib *LibraryFile) (SeedSummary, error) {
	var summary SeedSummary
	catalog := NewCatalogService(db, cache)

	for _, tpl := range lib.Templates {
		input := TemplateInput{Name: &tpl.Name, Body: &tpl.Body, Category: &tpl.Category, Active: tpl.Active}

		var existing models.ContractTemplate
		err := db.WithContext(ctx).Where("name = ?", strings.TrimSpace(tpl.Name)).First(&existing).Error
		switch {
		case err == nil:
			if _, err := catalog.UpdateTemplate(ctx, existing.TemplateID, input); err != nil {
				return summary, err
			}
			summary.TemplatesUpdated++
		case errors.Is(err, gorm.ErrRecordNotFound):
			if _, err := catalog.CreateTemplate(ctx, input); err != nil {
				return summary, err
			}
			summary.TemplatesCreated++
		default:
			return summary, fmt.Errorf("lookup template %q: %w", tpl.Name, err)
		}
	}

	for _, clause := range lib.Clauses {
		input := ClauseInput{Title: &clause.Title, Body: &clause.Body, Category: &clause.Category, Active: clause.Active}

		var existing models.ClauseTemplate
		err := db.WithContext(ctx).Where("title = ?", strings.TrimSpace(clause.Title)).First(&existing).Error
		switch {
		case err == nil:
			if _, err := catalog.UpdateClause(ctx, existing.ClauseID, input); err != nil {
				return summary, err
			}
			summary.ClausesUpdated++
		case errors.Is(err, gorm.ErrRecordNotFound):
			if _, err := catalog.CreateClause(ctx, input); err != nil {
				return summary, err
			}
			summary.ClausesCreated++
		default:
			return summary, fmt.Errorf("lookup clause %q: %w", clause.Title, err)
		}
	}

	if lib.Admin != nil {
		created, err := seedAdmin(ctx, db, lib.Admin)
		if err != nil {
			return summary, err
		}
		summary.AdminCreated = created
	}

	return summary, nil
}

func seedAdmin(ctx context.Context, db *gorm.DB, admin *LibraryAdmin) (bool, error) {
	var count int64
	if err := db.WithContext(ctx).Model(&models.User{}).Where("email = ?", admin.Email).Count(&count).Error; err != nil {
		return false, fmt.Errorf("lookup admin: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	hashed, err := utils.HashPassword(admin.Password)
	if err != nil {
		return false, fmt.Errorf("hash admin password: %w", err)
	}

	user := models.User{
		FullName: utils.ValueOr(admin.FullName, "Administrador"),
		Email:    admin.Email,
		Password: hashed,
		RoleID:   models.RoleAdmin,
	}
	if err := db.WithContext(ctx).Omit("Role").Create(&user).Error; err != nil {
		return false, fmt.Errorf("create admin: %w", err)
	}
	return true, nil
}
