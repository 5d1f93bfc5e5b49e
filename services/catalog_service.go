package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"law-office-api/config"
	"law-office-api/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	cacheKeyActiveClauses   = "catalog:clauses:active"
	cacheKeyActiveTemplates = "catalog:templates:active"
	catalogCacheTTL         = 10 * time.Minute
)

var (
	ErrClauseNotFound      = errors.New("clause not found")
	ErrClauseTitleMissing  = errors.New("title is required")
	ErrTemplateNameMissing = errors.New("name is required")
	ErrInvalidClauseOrder  = errors.New("ordered_ids must list every clause exactly once")
)

// ClauseInput carries clause fields for create and update. Nil fields are left untouched on update.
type ClauseInput struct {
	Title    *string `json:"title"`
	Body     *string `json:"body"`
	Category *string `json:"category"`
	Active   *bool   `json:"active"`
}

// TemplateInput carries template fields for create and update.
type TemplateInput struct {
	Name     *string `json:"name"`
	Body     *string `json:"body"`
	Category *string `json:"category"`
	Active   *bool   `json:"active"`
}

// catalogCache is the subset of Redis the catalog needs. A miss is reported as redis.Nil.
type catalogCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

type redisCatalogCache struct {
	client *redis.Client
}

func (r redisCatalogCache) Get(ctx context.Context, key string) ([]byte, error) {
	return r.client.Get(ctx, key).Bytes()
}

func (r redisCatalogCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r redisCatalogCache) Del(ctx context.Context, keys ...string) error {
	return r.client.Del(ctx, keys...).Err()
}

// CatalogService is the clause and template store. Reads of the active catalog
// go through Redis when a client is configured.
type CatalogService struct {
	db    *gorm.DB
	cache catalogCache
	now   func() time.Time
}

func NewCatalogService(db *gorm.DB, cache *redis.Client) *CatalogService {
	if db == nil {
		db = config.DB
	}
	svc := &CatalogService{db: db, now: time.Now}
	if cache != nil {
		svc.cache = redisCatalogCache{client: cache}
	}
	return svc
}

// GetTemplate returns an active template or ErrTemplateNotFound.
func (s *CatalogService) GetTemplate(ctx context.Context, id int) (models.ContractTemplate, error) {
	var tpl models.ContractTemplate
	err := s.db.WithContext(ctx).
		Where("template_id = ? AND active = ?", id, true).
		First(&tpl).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ContractTemplate{}, ErrTemplateNotFound
		}
		return models.ContractTemplate{}, fmt.Errorf("failed to load template: %w", err)
	}
	return tpl, nil
}

// FindTemplate returns a template regardless of its active flag.
func (s *CatalogService) FindTemplate(ctx context.Context, id int) (models.ContractTemplate, error) {
	var tpl models.ContractTemplate
	if err := s.db.WithContext(ctx).Where("template_id = ?", id).First(&tpl).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ContractTemplate{}, ErrTemplateNotFound
		}
		return models.ContractTemplate{}, fmt.Errorf("failed to load template: %w", err)
	}
	return tpl, nil
}

// ListActiveClauses returns active clauses ordered by category, then insertion order.
func (s *CatalogService) ListActiveClauses(ctx context.Context) ([]models.ClauseTemplate, error) {
	var clauses []models.ClauseTemplate
	if s.readCache(ctx, cacheKeyActiveClauses, &clauses) {
		return clauses, nil
	}

	if err := s.db.WithContext(ctx).
		Where("active = ?", true).
		Order("category ASC, display_order ASC, clause_id ASC").
		Find(&clauses).Error; err != nil {
		return nil, fmt.Errorf("failed to list clauses: %w", err)
	}

	s.writeCache(ctx, cacheKeyActiveClauses, clauses)
	return clauses, nil
}

// ListActiveTemplates returns the templates a user may pick.
func (s *CatalogService) ListActiveTemplates(ctx context.Context) ([]models.ContractTemplate, error) {
	var templates []models.ContractTemplate
	if s.readCache(ctx, cacheKeyActiveTemplates, &templates) {
		return templates, nil
	}

	if err := s.db.WithContext(ctx).
		Where("active = ?", true).
		Order("name ASC, template_id ASC").
		Find(&templates).Error; err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}

	s.writeCache(ctx, cacheKeyActiveTemplates, templates)
	return templates, nil
}

// ListAllClauses is the admin listing, inactive clauses included.
func (s *CatalogService) ListAllClauses(ctx context.Context) ([]models.ClauseTemplate, error) {
	var clauses []models.ClauseTemplate
	if err := s.db.WithContext(ctx).
		Order("display_order ASC, clause_id ASC").
		Find(&clauses).Error; err != nil {
		return nil, fmt.Errorf("failed to list clauses: %w", err)
	}
	return clauses, nil
}

// ListAllTemplates is the admin listing, inactive templates included.
func (s *CatalogService) ListAllTemplates(ctx context.Context) ([]models.ContractTemplate, error) {
	var templates []models.ContractTemplate
	if err := s.db.WithContext(ctx).
		Order("name ASC, template_id ASC").
		Find(&templates).Error; err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	return templates, nil
}

// ClausesByIDs returns active clauses in the order of ids. Unknown or inactive ids are skipped.
func (s *CatalogService) ClausesByIDs(ctx context.Context, ids []int) ([]models.ClauseTemplate, error) {
	if len(ids) == 0 {
		return []models.ClauseTemplate{}, nil
	}

	var rows []models.ClauseTemplate
	if err := s.db.WithContext(ctx).
		Where("clause_id IN ? AND active = ?", ids, true).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load selected clauses: %w", err)
	}

	return FlattenSelection(GroupClausesByCategory(rows), ids), nil
}

// CreateClause appends a clause at the end of the display order.
func (s *CatalogService) CreateClause(ctx context.Context, input ClauseInput) (models.ClauseTemplate, error) {
	title := ""
	if input.Title != nil {
		title = strings.TrimSpace(*input.Title)
	}
	if title == "" {
		return models.ClauseTemplate{}, ErrClauseTitleMissing
	}

	now := s.now()
	created := models.ClauseTemplate{
		Title:    title,
		Active:   true,
		CreateAt: now,
		UpdateAt: now,
	}
	if input.Body != nil {
		created.Body = sanitizePlainText(*input.Body)
	}
	if input.Category != nil {
		created.Category = strings.TrimSpace(*input.Category)
	}
	if input.Active != nil {
		created.Active = *input.Active
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var maxOrder sql.NullInt64
		if err := tx.Model(&models.ClauseTemplate{}).
			Select("COALESCE(MAX(display_order), 0)").
			Scan(&maxOrder).Error; err != nil {
			return err
		}
		created.DisplayOrder = int(maxOrder.Int64) + 1
		return tx.Create(&created).Error
	})
	if err != nil {
		return models.ClauseTemplate{}, fmt.Errorf("failed to create clause: %w", err)
	}

	s.invalidate(ctx)
	return created, nil
}

// UpdateClause applies the non-nil fields of input.
func (s *CatalogService) UpdateClause(ctx context.Context, id int, input ClauseInput) (models.ClauseTemplate, error) {
	updates := map[string]interface{}{}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return models.ClauseTemplate{}, ErrClauseTitleMissing
		}
		updates["title"] = title
	}
	if input.Body != nil {
		updates["body"] = sanitizePlainText(*input.Body)
	}
	if input.Category != nil {
		updates["category"] = strings.TrimSpace(*input.Category)
	}
	if input.Active != nil {
		updates["active"] = *input.Active
	}

	var existing models.ClauseTemplate
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("clause_id = ?", id).
			First(&existing).Error; err != nil {
			return err
		}
		if len(updates) == 0 {
			return nil
		}
		updates["update_at"] = s.now()
		if err := tx.Model(&existing).Updates(updates).Error; err != nil {
			return err
		}
		return tx.Where("clause_id = ?", id).First(&existing).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ClauseTemplate{}, ErrClauseNotFound
		}
		return models.ClauseTemplate{}, fmt.Errorf("failed to update clause: %w", err)
	}

	s.invalidate(ctx)
	return existing, nil
}

// DeleteClause removes a clause and closes the gap in the display order.
func (s *CatalogService) DeleteClause(ctx context.Context, id int) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.ClauseTemplate
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("clause_id = ?", id).
			First(&existing).Error; err != nil {
			return err
		}

		if err := tx.Delete(&existing).Error; err != nil {
			return err
		}

		return tx.Model(&models.ClauseTemplate{}).
			Where("display_order > ?", existing.DisplayOrder).
			Update("display_order", gorm.Expr("display_order - 1")).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrClauseNotFound
		}
		return fmt.Errorf("failed to delete clause: %w", err)
	}

	s.invalidate(ctx)
	return nil
}

// ReorderClauses rewrites display_order so that orderedIDs[i] gets position i+1.
func (s *CatalogService) ReorderClauses(ctx context.Context, orderedIDs []int) error {
	seen := make(map[int]struct{}, len(orderedIDs))
	for _, id := range orderedIDs {
		if id <= 0 {
			return ErrInvalidClauseOrder
		}
		if _, dup := seen[id]; dup {
			return ErrInvalidClauseOrder
		}
		seen[id] = struct{}{}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var total int64
		if err := tx.Model(&models.ClauseTemplate{}).Count(&total).Error; err != nil {
			return err
		}
		if int64(len(orderedIDs)) != total {
			return ErrInvalidClauseOrder
		}

		var matched int64
		if err := tx.Model(&models.ClauseTemplate{}).Where("clause_id IN ?", orderedIDs).Count(&matched).Error; err != nil {
			return err
		}
		if matched != total {
			return gorm.ErrRecordNotFound
		}

		for index, id := range orderedIDs {
			if err := tx.Model(&models.ClauseTemplate{}).
				Where("clause_id = ?", id).
				Update("display_order", index+1).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInvalidClauseOrder) {
			return err
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrClauseNotFound
		}
		return fmt.Errorf("failed to reorder clauses: %w", err)
	}

	s.invalidate(ctx)
	return nil
}

// CreateTemplate stores a new base minute.
func (s *CatalogService) CreateTemplate(ctx context.Context, input TemplateInput) (models.ContractTemplate, error) {
	name := ""
	if input.Name != nil {
		name = strings.TrimSpace(*input.Name)
	}
	if name == "" {
		return models.ContractTemplate{}, ErrTemplateNameMissing
	}

	now := s.now()
	created := models.ContractTemplate{
		Name:     name,
		Active:   true,
		CreateAt: now,
		UpdateAt: now,
	}
	if input.Body != nil {
		created.Body = sanitizePlainText(*input.Body)
	}
	if input.Category != nil {
		created.Category = strings.TrimSpace(*input.Category)
	}
	if input.Active != nil {
		created.Active = *input.Active
	}

	if err := s.db.WithContext(ctx).Create(&created).Error; err != nil {
		return models.ContractTemplate{}, fmt.Errorf("failed to create template: %w", err)
	}

	s.invalidate(ctx)
	return created, nil
}

// UpdateTemplate applies the non-nil fields of input.
func (s *CatalogService) UpdateTemplate(ctx context.Context, id int, input TemplateInput) (models.ContractTemplate, error) {
	existing, err := s.FindTemplate(ctx, id)
	if err != nil {
		return models.ContractTemplate{}, err
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return models.ContractTemplate{}, ErrTemplateNameMissing
		}
		updates["name"] = name
	}
	if input.Body != nil {
		updates["body"] = sanitizePlainText(*input.Body)
	}
	if input.Category != nil {
		updates["category"] = strings.TrimSpace(*input.Category)
	}
	if input.Active != nil {
		updates["active"] = *input.Active
	}
	if len(updates) == 0 {
		return existing, nil
	}
	updates["update_at"] = s.now()

	if err := s.db.WithContext(ctx).Model(&existing).Updates(updates).Error; err != nil {
		return models.ContractTemplate{}, fmt.Errorf("failed to update template: %w", err)
	}

	s.invalidate(ctx)
	return s.FindTemplate(ctx, id)
}

// DeleteTemplate removes a template.
func (s *CatalogService) DeleteTemplate(ctx context.Context, id int) error {
	res := s.db.WithContext(ctx).Where("template_id = ?", id).Delete(&models.ContractTemplate{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete template: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrTemplateNotFound
	}

	s.invalidate(ctx)
	return nil
}

func (s *CatalogService) readCache(ctx context.Context, key string, dest interface{}) bool {
	if s.cache == nil {
		return false
	}
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("Warning: catalog cache GET %s failed: %v", key, err)
		}
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		log.Printf("Warning: catalog cache entry %s is corrupt: %v", key, err)
		return false
	}
	return true
}

func (s *CatalogService) writeCache(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		log.Printf("Warning: failed to encode catalog cache entry %s: %v", key, err)
		return
	}
	if err := s.cache.Set(ctx, key, data, catalogCacheTTL); err != nil {
		log.Printf("Warning: catalog cache SET %s failed: %v", key, err)
	}
}

func (s *CatalogService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, cacheKeyActiveClauses, cacheKeyActiveTemplates); err != nil {
		log.Printf("Warning: failed to invalidate catalog cache: %v", err)
	}
}
