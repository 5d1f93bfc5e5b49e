package models

import "time"

// ContractTemplate is a base minute a user picks as the starting point of a contract.
type ContractTemplate struct {
	TemplateID int       `gorm:"primaryKey;column:template_id" json:"template_id"`
	Name       string    `gorm:"column:name;not null" json:"name"`
	Body       string    `gorm:"column:body;type:text" json:"body"`
	Category   string    `gorm:"column:category;size:120" json:"category"`
	Active     bool      `gorm:"column:active;not null" json:"active"`
	CreateAt   time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt   time.Time `gorm:"column:update_at" json:"update_at"`
}

func (ContractTemplate) TableName() string {
	return "contract_templates"
}
