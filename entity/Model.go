package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Model replaces gorm.Model: ids are uuid strings so they look the same
// whether the record lives in SQL or in mongo.
type Model struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (m *Model) BeforeCreate(tx *gorm.DB) error {
	m.EnsureID()
	return nil
}

// EnsureID assigns a fresh id when none is set.
func (m *Model) EnsureID() {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
}
