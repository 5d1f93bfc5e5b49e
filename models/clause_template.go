package models

import (
	"strings"
	"time"
)

// DefaultClauseCategory is used for clauses saved without a category.
const DefaultClauseCategory = "General"

// ClauseTemplate is a reusable contract paragraph selectable when assembling a contract.
type ClauseTemplate struct {
	ClauseID     int       `gorm:"primaryKey;column:clause_id" json:"clause_id"`
	Title        string    `gorm:"column:title;not null" json:"title"`
	Body         string    `gorm:"column:body;type:text" json:"body"`
	Category     string    `gorm:"column:category;size:120" json:"category"`
	Active       bool      `gorm:"column:active;not null" json:"active"`
	DisplayOrder int       `gorm:"column:display_order" json:"display_order"`
	CreateAt     time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt     time.Time `gorm:"column:update_at" json:"update_at"`
}

func (ClauseTemplate) TableName() string {
	return "clause_templates"
}

// CategoryOrDefault returns the trimmed category, or DefaultClauseCategory when blank.
func (c ClauseTemplate) CategoryOrDefault() string {
	category := strings.TrimSpace(c.Category)
	if category == "" {
		return DefaultClauseCategory
	}
	return category
}
