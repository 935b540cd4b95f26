package service

import (
	"context"
	"log"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	applicationModel "sertifikasiku_backend/internals/features/applications/model"
	applicationService "sertifikasiku_backend/internals/features/applications/service"
	"sertifikasiku_backend/internals/features/payment/dto"
)

const externalIDPrefix = "CERT-"

// WebhookService memproses notifikasi pembayaran dari gateway.
// Kontrak: tidak pernah mengembalikan 500 ke gateway — payload aneh atau
// replay di-jawab terstruktur supaya gateway tidak retry selamanya.
type WebhookService struct {
	DB   *gorm.DB
	Apps *applicationService.ApplicationService
}

func NewWebhookService(db *gorm.DB, apps *applicationService.ApplicationService) *WebhookService {
	return &WebhookService{DB: db, Apps: apps}
}

func (s *WebhookService) Handle(ctx context.Context, payload dto.WebhookPayload) dto.WebhookResult {
	result := dto.WebhookResult{ExternalID: payload.ExternalID}

	if !strings.HasPrefix(payload.ExternalID, externalIDPrefix) {
		log.Printf("[WARN] webhook: external_id tidak dikenal: %q", payload.ExternalID)
		result.Message = "external_id tidak dikenal"
		return result
	}

	appID, err := uuid.Parse(strings.TrimPrefix(payload.ExternalID, externalIDPrefix))
	if err != nil {
		log.Printf("[WARN] webhook: external_id bukan UUID: %q", payload.ExternalID)
		result.Message = "external_id tidak valid"
		return result
	}

	switch strings.ToUpper(payload.Status) {
	case "PAID":
		if _, err := s.Apps.ConfirmPayment(ctx, appID, nil, payload.PaymentMethod, "webhook"); err != nil {
			// Replay atau state sudah bergeser: catat dan jawab 200.
			log.Printf("[WARN] webhook PAID tidak diterapkan untuk %s: %v", payload.ExternalID, err)
			result.Message = "pembayaran tidak diterapkan: " + err.Error()
			return result
		}
		result.Processed = true
		result.Message = "pembayaran dikonfirmasi"

	case "EXPIRED", "FAILED":
		status := applicationModel.PaymentExpired
		if strings.ToUpper(payload.Status) == "FAILED" {
			status = applicationModel.PaymentFailed
		}
		if _, err := s.Apps.RecordPaymentFailure(ctx, appID, status); err != nil {
			log.Printf("[WARN] webhook %s tidak diterapkan untuk %s: %v", payload.Status, payload.ExternalID, err)
			result.Message = "status tidak diterapkan: " + err.Error()
			return result
		}
		result.Processed = true
		result.Message = "status pembayaran dicatat: " + status

	default:
		log.Printf("[INFO] webhook: status %q diabaikan untuk %s", payload.Status, payload.ExternalID)
		result.Message = "status tidak dikenal, diabaikan"
	}

	return result
}
