package dto

import (
	"time"

	"sertifikasiku_backend/internals/features/sessions/model"
)

type CreateSessionRequest struct {
	SessionToken      string `json:"session_token" validate:"required,max=64"`
	DeviceFingerprint string `json:"device_fingerprint" validate:"max=128"`
}

type CheckSessionRequest struct {
	SessionToken      string `json:"session_token" validate:"required,max=64"`
	DeviceFingerprint string `json:"device_fingerprint" validate:"max=128"`
}

type SessionDTO struct {
	SessionToken string    `json:"session_token"`
	IsActive     bool      `json:"is_active"`
	LastSeenAt   time.Time `json:"last_seen_at"`
	CreatedAt    time.Time `json:"created_at"`
}

func ToSessionDTO(m model.UserSessionModel) SessionDTO {
	return SessionDTO{
		SessionToken: m.UserSessionToken,
		IsActive:     m.UserSessionIsActive,
		LastSeenAt:   m.UserSessionLastSeenAt,
		CreatedAt:    m.UserSessionCreatedAt,
	}
}
