package dto

import (
	"time"

	"sertifikasiku_backend/internals/features/registrations/model"
)

type SubmitRegistrationRequest struct {
	FullName  string `json:"full_name" validate:"required,max=255"`
	Email     string `json:"email" validate:"required,email"`
	CertType  string `json:"cert_type" validate:"required,oneof=new recert"`
	CertLevel string `json:"cert_level" validate:"required,oneof=level1 level2"`
}

type RejectRegistrationRequest struct {
	Note string `json:"note"`
}

type CandidateDTO struct {
	CandidateID       string     `json:"candidate_id"`
	FullName          string     `json:"full_name"`
	Email             string     `json:"email"`
	RegistrationState string     `json:"registration_state"`
	RegistrationCode  *string    `json:"registration_code,omitempty"`
	PendingCertType   *string    `json:"pending_cert_type,omitempty"`
	PendingCertLevel  *string    `json:"pending_cert_level,omitempty"`
	RegistrationDate  *time.Time `json:"registration_date,omitempty"`
	RegistrationNote  *string    `json:"registration_note,omitempty"`
	ApprovedDate      *time.Time `json:"approved_date,omitempty"`
}

func ToCandidateDTO(m model.CandidateModel) CandidateDTO {
	return CandidateDTO{
		CandidateID:       m.CandidateID.String(),
		FullName:          m.CandidateFullName,
		Email:             m.CandidateEmail,
		RegistrationState: m.CandidateRegistrationState,
		RegistrationCode:  m.CandidateRegistrationCode,
		PendingCertType:   m.CandidatePendingCertType,
		PendingCertLevel:  m.CandidatePendingCertLevel,
		RegistrationDate:  m.CandidateRegistrationDate,
		RegistrationNote:  m.CandidateRegistrationNote,
		ApprovedDate:      m.CandidateApprovedDate,
	}
}
