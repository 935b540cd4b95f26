package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Counter nomor urut kode registrasi, satu baris per level (level1/level2).
type RegistrationSequenceModel struct {
	RegistrationSequenceID         uuid.UUID `gorm:"column:registration_sequence_id;type:uuid;primaryKey" json:"registration_sequence_id"`
	RegistrationSequenceLevel      string    `gorm:"column:registration_sequence_level;type:varchar(10);not null;uniqueIndex" json:"registration_sequence_level"`
	RegistrationSequenceLastNumber int       `gorm:"column:registration_sequence_last_number;not null;default:0" json:"registration_sequence_last_number"`

	RegistrationSequenceUpdatedAt time.Time `gorm:"column:registration_sequence_updated_at;autoUpdateTime" json:"registration_sequence_updated_at"`
}

func (RegistrationSequenceModel) TableName() string {
	return "registration_sequences"
}

func (m *RegistrationSequenceModel) BeforeCreate(tx *gorm.DB) error {
	if m.RegistrationSequenceID == uuid.Nil {
		m.RegistrationSequenceID = uuid.New()
	}
	return nil
}
