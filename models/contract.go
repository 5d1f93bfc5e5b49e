package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Contract lifecycle statuses.
const (
	ContractStatusDraft  = "draft"
	ContractStatusActive = "active"
	ContractStatusClosed = "closed"
)

// Contract is a persisted, rendered contract document.
type Contract struct {
	ContractID      int                 `gorm:"primaryKey;column:contract_id" json:"contract_id"`
	Code            string              `gorm:"column:code;size:36;uniqueIndex" json:"code"`
	Title           string              `gorm:"column:title" json:"title"`
	ClientID        *int                `gorm:"column:client_id;index" json:"client_id,omitempty"`
	TemplateID      int                 `gorm:"column:template_id" json:"template_id"`
	Value           decimal.NullDecimal `gorm:"column:value;type:decimal(15,2)" json:"value"`
	StartDate       *time.Time          `gorm:"column:start_date" json:"start_date,omitempty"`
	EndDate         *time.Time          `gorm:"column:end_date" json:"end_date,omitempty"`
	Description     string              `gorm:"column:description;type:text" json:"description"`
	ContractType    string              `gorm:"column:contract_type" json:"contract_type"`
	Jurisdiction    string              `gorm:"column:jurisdiction" json:"jurisdiction"`
	WitnessRequired bool                `gorm:"column:witness_required" json:"witness_required"`
	Content         string              `gorm:"column:content;type:longtext" json:"content,omitempty"`
	Status          string              `gorm:"column:status;size:16" json:"status"`
	CreatedBy       int                 `gorm:"column:created_by" json:"created_by"`
	CreateAt        time.Time           `gorm:"column:create_at" json:"create_at"`
	UpdateAt        time.Time           `gorm:"column:update_at" json:"update_at"`
	DeleteAt        *time.Time          `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Client *Client `gorm:"foreignKey:ClientID" json:"client,omitempty"`
}

func (Contract) TableName() string {
	return "contracts"
}

// BeforeCreate assigns the public contract code.
func (c *Contract) BeforeCreate(tx *gorm.DB) error {
	if c.Code == "" {
		c.Code = uuid.New().String()
	}
	if c.Status == "" {
		c.Status = ContractStatusDraft
	}
	return nil
}

// contractStatusRank orders the lifecycle. A contract only moves forward.
var contractStatusRank = map[string]int{
	ContractStatusDraft:  0,
	ContractStatusActive: 1,
	ContractStatusClosed: 2,
}

// CanMoveContractStatus reports whether a contract in status from may be set to
// status to. Repeating the current status is allowed.
func CanMoveContractStatus(from, to string) bool {
	fromRank, ok := contractStatusRank[from]
	if !ok {
		return false
	}
	toRank, ok := contractStatusRank[to]
	if !ok {
		return false
	}
	return toRank >= fromRank
}

// IsValidContractStatus reports whether status is a known lifecycle status.
func IsValidContractStatus(status string) bool {
	switch status {
	case ContractStatusDraft, ContractStatusActive, ContractStatusClosed:
		return true
	default:
		return false
	}
}
