package models

import "time"

// Document kinds accepted for clients.
const (
	DocumentKindIndividual = "individual"
	DocumentKindCompany    = "company"
)

// Client is a person or company represented by the firm.
type Client struct {
	ClientID       int        `gorm:"primaryKey;column:client_id" json:"client_id"`
	Name           string     `gorm:"column:name;not null" json:"name"`
	DocumentNumber string     `gorm:"column:document_number;index" json:"document_number"`
	DocumentKind   string     `gorm:"column:document_kind;size:16" json:"document_kind"`
	Address        string     `gorm:"column:address" json:"address"`
	Email          string     `gorm:"column:email" json:"email"`
	Phone          string     `gorm:"column:phone" json:"phone"`
	CreateAt       time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt       time.Time  `gorm:"column:update_at" json:"update_at"`
	DeleteAt       *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

func (Client) TableName() string {
	return "clients"
}

// IsCompany reports whether the client is identified by a CNPJ.
func (c *Client) IsCompany() bool {
	return c.DocumentKind == DocumentKindCompany
}

// IsValidDocumentKind reports whether kind is one of the supported document kinds.
func IsValidDocumentKind(kind string) bool {
	switch kind {
	case DocumentKindIndividual, DocumentKindCompany:
		return true
	default:
		return false
	}
}
