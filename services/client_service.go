package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"law-office-api/config"
	"law-office-api/models"
	"law-office-api/utils"

	"gorm.io/gorm"
)

var (
	ErrClientNotFound       = errors.New("client not found")
	ErrClientNameRequired   = errors.New("name is required")
	ErrInvalidDocumentKind  = errors.New("document_kind must be individual or company")
	ErrInvalidClientEmail   = errors.New("invalid email format")
	ErrInvalidDocumentValue = errors.New("document_number does not match document_kind")
)

// ClientInput carries client fields for create and update.
type ClientInput struct {
	Name           *string `json:"name"`
	DocumentNumber *string `json:"document_number"`
	DocumentKind   *string `json:"document_kind"`
	Address        *string `json:"address"`
	Email          *string `json:"email"`
	Phone          *string `json:"phone"`
}

type ClientService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewClientService(db *gorm.DB) *ClientService {
	if db == nil {
		db = config.DB
	}
	return &ClientService{db: db, now: time.Now}
}

// Get returns a client that has not been deleted.
func (s *ClientService) Get(ctx context.Context, id int) (*models.Client, error) {
	var client models.Client
	if err := s.db.WithContext(ctx).
		Where("client_id = ? AND delete_at IS NULL", id).
		First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to load client: %w", err)
	}
	return &client, nil
}

func (s *ClientService) List(ctx context.Context, search string, limit, offset int) ([]models.Client, int64, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	q := s.db.WithContext(ctx).Model(&models.Client{}).Where("delete_at IS NULL")
	if term := strings.TrimSpace(search); term != "" {
		like := "%" + term + "%"
		q = q.Where("name LIKE ? OR document_number LIKE ? OR email LIKE ?", like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count clients: %w", err)
	}

	var clients []models.Client
	if err := q.Order("name ASC, client_id ASC").Limit(limit).Offset(offset).Find(&clients).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list clients: %w", err)
	}
	return clients, total, nil
}

func (s *ClientService) Create(ctx context.Context, input ClientInput) (*models.Client, error) {
	client := models.Client{DocumentKind: models.DocumentKindIndividual}
	if err := applyClientInput(&client, input); err != nil {
		return nil, err
	}
	if client.Name == "" {
		return nil, ErrClientNameRequired
	}

	now := s.now()
	client.CreateAt = now
	client.UpdateAt = now
	if err := s.db.WithContext(ctx).Create(&client).Error; err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return &client, nil
}

func (s *ClientService) Update(ctx context.Context, id int, input ClientInput) (*models.Client, error) {
	client, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyClientInput(client, input); err != nil {
		return nil, err
	}
	if client.Name == "" {
		return nil, ErrClientNameRequired
	}

	client.UpdateAt = s.now()
	if err := s.db.WithContext(ctx).Save(client).Error; err != nil {
		return nil, fmt.Errorf("failed to update client: %w", err)
	}
	return client, nil
}

// Delete marks the client as deleted; contracts keep their reference.
func (s *ClientService) Delete(ctx context.Context, id int) error {
	now := s.now()
	res := s.db.WithContext(ctx).Model(&models.Client{}).
		Where("client_id = ? AND delete_at IS NULL", id).
		Updates(map[string]interface{}{"delete_at": now, "update_at": now})
	if res.Error != nil {
		return fmt.Errorf("failed to delete client: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrClientNotFound
	}
	return nil
}

func applyClientInput(client *models.Client, input ClientInput) error {
	if input.Name != nil {
		client.Name = utils.SanitizeInput(*input.Name)
	}
	if input.DocumentKind != nil {
		kind := strings.ToLower(utils.SanitizeInput(*input.DocumentKind))
		if !models.IsValidDocumentKind(kind) {
			return ErrInvalidDocumentKind
		}
		client.DocumentKind = kind
	}
	if input.DocumentNumber != nil {
		client.DocumentNumber = utils.SanitizeInput(*input.DocumentNumber)
	}
	if client.DocumentNumber != "" && !utils.ValidateDocumentNumber(client.DocumentNumber, client.DocumentKind) {
		return ErrInvalidDocumentValue
	}
	if input.Address != nil {
		client.Address = utils.SanitizeInput(*input.Address)
	}
	if input.Email != nil {
		email := utils.SanitizeInput(*input.Email)
		if email != "" && !utils.ValidateEmail(email) {
			return ErrInvalidClientEmail
		}
		client.Email = email
	}
	if input.Phone != nil {
		client.Phone = utils.SanitizeInput(*input.Phone)
	}
	return nil
}
