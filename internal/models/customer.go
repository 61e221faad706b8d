package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer is referenced by invoices. This module only reads customers.
type Customer struct {
	ID       string `gorm:"type:uuid;primaryKey" json:"id"`
	Name     string `gorm:"size:255;not null" json:"name"`
	Email    string `gorm:"size:255;not null;uniqueIndex" json:"email"`
	ImageURL string `gorm:"size:255" json:"image_url,omitempty"`
}

func (c *Customer) BeforeCreate(_ *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
