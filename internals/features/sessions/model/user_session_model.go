package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Alasan sesi dinonaktifkan
const (
	ReasonManual    = "manual"     // logout oleh user sendiri
	ReasonNewDevice = "new_device" // tergusur login perangkat lain
	ReasonExpired   = "expired"    // sesi basi (>5 menit tanpa heartbeat) diganti
	ReasonAdmin     = "admin"      // force logout oleh admin
)

// Satu sesi aktif per user. Login dari perangkat baru menonaktifkan seluruh
// sesi lama (reason new_device).
type UserSessionModel struct {
	UserSessionID     uuid.UUID `gorm:"column:user_session_id;type:uuid;primaryKey" json:"user_session_id"`
	UserSessionUserID uuid.UUID `gorm:"column:user_session_user_id;type:uuid;not null;index" json:"user_session_user_id"`

	UserSessionToken             string  `gorm:"column:user_session_token;type:varchar(64);not null;uniqueIndex" json:"user_session_token"`
	UserSessionDeviceFingerprint string  `gorm:"column:user_session_device_fingerprint;type:varchar(128);not null" json:"user_session_device_fingerprint"`
	UserSessionIPAddress         *string `gorm:"column:user_session_ip_address;type:varchar(45)" json:"user_session_ip_address,omitempty"`
	UserSessionUserAgent         *string `gorm:"column:user_session_user_agent;type:varchar(255)" json:"user_session_user_agent,omitempty"`

	UserSessionIsActive          bool    `gorm:"column:user_session_is_active;not null;default:true" json:"user_session_is_active"`
	UserSessionDeactivatedReason *string `gorm:"column:user_session_deactivated_reason;type:varchar(30)" json:"user_session_deactivated_reason,omitempty"`

	UserSessionLastSeenAt time.Time `gorm:"column:user_session_last_seen_at;not null" json:"user_session_last_seen_at"`
	UserSessionCreatedAt  time.Time `gorm:"column:user_session_created_at;autoCreateTime" json:"user_session_created_at"`
	UserSessionUpdatedAt  time.Time `gorm:"column:user_session_updated_at;autoUpdateTime" json:"user_session_updated_at"`
}

func (UserSessionModel) TableName() string {
	return "user_sessions"
}

func (m *UserSessionModel) BeforeCreate(tx *gorm.DB) error {
	if m.UserSessionID == uuid.Nil {
		m.UserSessionID = uuid.New()
	}
	return nil
}
