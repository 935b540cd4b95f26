package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Status registrasi kandidat (gate sebelum boleh membuat aplikasi sertifikasi)
const (
	RegistrationStateNone     = "none"
	RegistrationStatePending  = "pending"
	RegistrationStateApproved = "approved"
	RegistrationStateRejected = "rejected"
)

type CandidateModel struct {
	CandidateID     uuid.UUID `gorm:"column:candidate_id;type:uuid;primaryKey" json:"candidate_id"`
	CandidateUserID uuid.UUID `gorm:"column:candidate_user_id;type:uuid;not null;uniqueIndex" json:"candidate_user_id"`

	// Salinan identitas dari service auth eksternal (untuk email & invoice)
	CandidateFullName string `gorm:"column:candidate_full_name;type:varchar(255);not null" json:"candidate_full_name"`
	CandidateEmail    string `gorm:"column:candidate_email;type:varchar(255);not null" json:"candidate_email"`

	CandidateRegistrationState string  `gorm:"column:candidate_registration_state;type:varchar(20);not null;default:none" json:"candidate_registration_state"`
	CandidateRegistrationCode  *string `gorm:"column:candidate_registration_code;type:varchar(32);uniqueIndex" json:"candidate_registration_code,omitempty"`

	// Pilihan sertifikasi dari website (sebelum difinalisasi di application)
	CandidatePendingCertType  *string `gorm:"column:candidate_pending_cert_type;type:varchar(10)" json:"candidate_pending_cert_type,omitempty"`  // new | recert
	CandidatePendingCertLevel *string `gorm:"column:candidate_pending_cert_level;type:varchar(10)" json:"candidate_pending_cert_level,omitempty"` // level1 | level2

	CandidateRegistrationDate *time.Time `gorm:"column:candidate_registration_date" json:"candidate_registration_date,omitempty"`
	CandidateRegistrationNote *string    `gorm:"column:candidate_registration_note;type:text" json:"candidate_registration_note,omitempty"`

	CandidateApprovedBy   *uuid.UUID `gorm:"column:candidate_approved_by;type:uuid" json:"candidate_approved_by,omitempty"`
	CandidateApprovedDate *time.Time `gorm:"column:candidate_approved_date" json:"candidate_approved_date,omitempty"`

	CandidateCreatedAt time.Time      `gorm:"column:candidate_created_at;autoCreateTime" json:"candidate_created_at"`
	CandidateUpdatedAt time.Time      `gorm:"column:candidate_updated_at;autoUpdateTime" json:"candidate_updated_at"`
	CandidateDeletedAt gorm.DeletedAt `gorm:"column:candidate_deleted_at;index" json:"-"`
}

func (CandidateModel) TableName() string {
	return "candidates"
}

func (m *CandidateModel) BeforeCreate(tx *gorm.DB) error {
	if m.CandidateID == uuid.Nil {
		m.CandidateID = uuid.New()
	}
	return nil
}
