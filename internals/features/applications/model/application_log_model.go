package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	LogLevelInfo    = "info"
	LogLevelWarning = "warning"
)

// Chatter/audit: catatan append-only per aplikasi untuk visibilitas admin
// (aksi admin, webhook pembayaran, warning service eksternal).
type ApplicationLogModel struct {
	ApplicationLogID            uuid.UUID  `gorm:"column:application_log_id;type:uuid;primaryKey" json:"application_log_id"`
	ApplicationLogApplicationID uuid.UUID  `gorm:"column:application_log_application_id;type:uuid;not null;index" json:"application_log_application_id"`
	ApplicationLogActorID       *uuid.UUID `gorm:"column:application_log_actor_id;type:uuid" json:"application_log_actor_id,omitempty"`
	ApplicationLogLevel         string     `gorm:"column:application_log_level;type:varchar(10);not null;default:info" json:"application_log_level"`
	ApplicationLogMessage       string     `gorm:"column:application_log_message;type:text;not null" json:"application_log_message"`
	ApplicationLogCreatedAt     time.Time  `gorm:"column:application_log_created_at;autoCreateTime" json:"application_log_created_at"`
}

func (ApplicationLogModel) TableName() string {
	return "application_logs"
}

func (m *ApplicationLogModel) BeforeCreate(tx *gorm.DB) error {
	if m.ApplicationLogID == uuid.Nil {
		m.ApplicationLogID = uuid.New()
	}
	return nil
}
