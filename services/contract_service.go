package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"law-office-api/config"
	"law-office-api/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrContractNotFound         = errors.New("contract not found")
	ErrInvalidStatus            = errors.New("invalid contract status")
	ErrStatusTransitionBackward = errors.New("contract status can only move forward")
)

// ContractFilter narrows List results.
type ContractFilter struct {
	ClientID *int
	Status   string
	Search   string
	Limit    int
	Offset   int
}

// NewContract is a rendered draft ready to be stored.
type NewContract struct {
	TemplateID int
	Fields     ContractFields
	Content    string
	CreatedBy  int
}

type ContractService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewContractService(db *gorm.DB) *ContractService {
	if db == nil {
		db = config.DB
	}
	return &ContractService{db: db, now: time.Now}
}

// Create persists a rendered contract as a draft.
func (s *ContractService) Create(ctx context.Context, in NewContract) (*models.Contract, error) {
	now := s.now()
	contract := models.Contract{
		Title:           strings.TrimSpace(in.Fields.Title),
		ClientID:        in.Fields.ClientID,
		TemplateID:      in.TemplateID,
		StartDate:       in.Fields.StartDate,
		EndDate:         in.Fields.EndDate,
		Description:     strings.TrimSpace(in.Fields.Description),
		ContractType:    strings.TrimSpace(in.Fields.ContractType),
		Jurisdiction:    strings.TrimSpace(in.Fields.Jurisdiction),
		WitnessRequired: in.Fields.WitnessRequired,
		Content:         in.Content,
		Status:          models.ContractStatusDraft,
		CreatedBy:       in.CreatedBy,
		CreateAt:        now,
		UpdateAt:        now,
	}
	if in.Fields.Value != nil {
		contract.Value = decimal.NewNullDecimal(*in.Fields.Value)
	}

	if err := s.db.WithContext(ctx).Create(&contract).Error; err != nil {
		return nil, fmt.Errorf("failed to create contract: %w", err)
	}
	return &contract, nil
}

func (s *ContractService) Get(ctx context.Context, id int) (*models.Contract, error) {
	var contract models.Contract
	if err := s.db.WithContext(ctx).
		Preload("Client").
		Where("contract_id = ? AND delete_at IS NULL", id).
		First(&contract).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContractNotFound
		}
		return nil, fmt.Errorf("failed to load contract: %w", err)
	}
	return &contract, nil
}

// List returns contracts without their rendered content.
func (s *ContractService) List(ctx context.Context, filter ContractFilter) ([]models.Contract, int64, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	q := s.db.WithContext(ctx).Model(&models.Contract{}).Where("delete_at IS NULL")
	if filter.ClientID != nil {
		q = q.Where("client_id = ?", *filter.ClientID)
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		q = q.Where("status = ?", status)
	}
	if term := strings.TrimSpace(filter.Search); term != "" {
		like := "%" + term + "%"
		q = q.Where("title LIKE ? OR code LIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count contracts: %w", err)
	}

	var contracts []models.Contract
	if err := q.Omit("content").
		Preload("Client").
		Order("create_at DESC, contract_id DESC").
		Limit(limit).Offset(offset).
		Find(&contracts).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list contracts: %w", err)
	}
	return contracts, total, nil
}

// UpdateStatus moves a contract forward through draft, active and closed.
func (s *ContractService) UpdateStatus(ctx context.Context, id int, status string) (*models.Contract, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if !models.IsValidContractStatus(status) {
		return nil, ErrInvalidStatus
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.Contract
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("contract_id = ? AND delete_at IS NULL", id).
			First(&current).Error; err != nil {
			return err
		}
		if !models.CanMoveContractStatus(current.Status, status) {
			return fmt.Errorf("%w: %s to %s", ErrStatusTransitionBackward, current.Status, status)
		}
		if current.Status == status {
			return nil
		}
		return tx.Model(&current).
			Updates(map[string]interface{}{"status": status, "update_at": s.now()}).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContractNotFound
		}
		if errors.Is(err, ErrStatusTransitionBackward) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update contract status: %w", err)
	}
	return s.Get(ctx, id)
}

func (s *ContractService) Delete(ctx context.Context, id int) error {
	now := s.now()
	res := s.db.WithContext(ctx).Model(&models.Contract{}).
		Where("contract_id = ? AND delete_at IS NULL", id).
		Updates(map[string]interface{}{"delete_at": now, "update_at": now})
	if res.Error != nil {
		return fmt.Errorf("failed to delete contract: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrContractNotFound
	}
	return nil
}
