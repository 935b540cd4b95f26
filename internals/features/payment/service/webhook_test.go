package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	applicationModel "sertifikasiku_backend/internals/features/applications/model"
	applicationService "sertifikasiku_backend/internals/features/applications/service"
	"sertifikasiku_backend/internals/features/payment/dto"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("gagal membuka sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("gagal mengambil sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&applicationModel.ApplicationModel{},
		&applicationModel.ApplicationLogModel{},
	); err != nil {
		t.Fatalf("gagal migrasi: %v", err)
	}
	return db
}

// awaitingPayment membuat aplikasi di state payment dengan external id terpasang.
func awaitingPayment(t *testing.T, db *gorm.DB) applicationModel.ApplicationModel {
	t.Helper()

	scheme := applicationModel.SchemeLevel1
	app := applicationModel.ApplicationModel{
		ApplicationCandidateID:      uuid.New(),
		ApplicationState:            applicationModel.StatePayment,
		ApplicationScheme:           &scheme,
		ApplicationPaymentStatus:    applicationModel.PaymentPending,
		ApplicationPaymentAmountIDR: applicationService.FeeLevel1IDR,
	}
	if err := db.Create(&app).Error; err != nil {
		t.Fatalf("gagal membuat aplikasi: %v", err)
	}

	ext := "CERT-" + app.ApplicationID.String()
	if err := db.Model(&app).
		UpdateColumn("application_payment_external_id", ext).Error; err != nil {
		t.Fatalf("gagal set external_id: %v", err)
	}
	app.ApplicationPaymentExternalID = &ext
	return app
}

func newWebhookService(db *gorm.DB) *WebhookService {
	return NewWebhookService(db, applicationService.NewApplicationService(db, nil))
}

func TestWebhookPaidConfirmsPayment(t *testing.T) {
	db := newTestDB(t)
	svc := newWebhookService(db)
	app := awaitingPayment(t, db)

	result := svc.Handle(context.Background(), dto.WebhookPayload{
		ExternalID:    *app.ApplicationPaymentExternalID,
		Status:        "PAID",
		ID:            "trx-001",
		PaymentMethod: "bank_transfer",
	})
	if !result.Processed {
		t.Fatalf("webhook PAID tidak diproses: %s", result.Message)
	}

	var got applicationModel.ApplicationModel
	if err := db.First(&got, "application_id = ?", app.ApplicationID).Error; err != nil {
		t.Fatalf("gagal mengambil aplikasi: %v", err)
	}
	if got.ApplicationState != applicationModel.StateVerified {
		t.Fatalf("state = %s, mau verified", got.ApplicationState)
	}
	if got.ApplicationPaymentStatus != applicationModel.PaymentPaid {
		t.Fatalf("payment_status = %s, mau paid", got.ApplicationPaymentStatus)
	}
	if got.ApplicationPaymentMethod == nil || *got.ApplicationPaymentMethod != "bank_transfer" {
		t.Fatalf("payment_method = %v, mau bank_transfer", got.ApplicationPaymentMethod)
	}
}

func TestWebhookPaidReplayIsHarmless(t *testing.T) {
	db := newTestDB(t)
	svc := newWebhookService(db)
	app := awaitingPayment(t, db)

	payload := dto.WebhookPayload{
		ExternalID: *app.ApplicationPaymentExternalID,
		Status:     "PAID",
	}

	first := svc.Handle(context.Background(), payload)
	if !first.Processed {
		t.Fatalf("webhook pertama gagal: %s", first.Message)
	}

	// Replay: state sudah verified, dijawab terstruktur tanpa double-process.
	second := svc.Handle(context.Background(), payload)
	if second.Processed {
		t.Fatal("replay webhook tidak boleh diproses dua kali")
	}

	var got applicationModel.ApplicationModel
	if err := db.First(&got, "application_id = ?", app.ApplicationID).Error; err != nil {
		t.Fatalf("gagal mengambil aplikasi: %v", err)
	}
	if got.ApplicationState != applicationModel.StateVerified {
		t.Fatalf("state = %s, mau tetap verified", got.ApplicationState)
	}
}

func TestWebhookExpiredRecordsStatusWithoutStateChange(t *testing.T) {
	db := newTestDB(t)
	svc := newWebhookService(db)
	app := awaitingPayment(t, db)

	result := svc.Handle(context.Background(), dto.WebhookPayload{
		ExternalID: *app.ApplicationPaymentExternalID,
		Status:     "EXPIRED",
	})
	if !result.Processed {
		t.Fatalf("webhook EXPIRED tidak diproses: %s", result.Message)
	}

	var got applicationModel.ApplicationModel
	if err := db.First(&got, "application_id = ?", app.ApplicationID).Error; err != nil {
		t.Fatalf("gagal mengambil aplikasi: %v", err)
	}
	// State tetap payment: kandidat masih bisa bayar ulang.
	if got.ApplicationState != applicationModel.StatePayment {
		t.Fatalf("state = %s, mau tetap payment", got.ApplicationState)
	}
	if got.ApplicationPaymentStatus != applicationModel.PaymentExpired {
		t.Fatalf("payment_status = %s, mau expired", got.ApplicationPaymentStatus)
	}
}

func TestWebhookMalformedPayloadNeverFails(t *testing.T) {
	db := newTestDB(t)
	svc := newWebhookService(db)
	ctx := context.Background()

	cases := []dto.WebhookPayload{
		{ExternalID: "", Status: "PAID"},
		{ExternalID: "INVOICE-123", Status: "PAID"},
		{ExternalID: "CERT-bukan-uuid", Status: "PAID"},
		{ExternalID: "CERT-" + uuid.NewString(), Status: "PAID"}, // aplikasi tidak ada
	}
	for i, payload := range cases {
		result := svc.Handle(ctx, payload)
		if result.Processed {
			t.Fatalf("case %d: payload cacat tidak boleh diproses", i)
		}
		if result.Message == "" {
			t.Fatalf("case %d: jawaban harus terstruktur dengan pesan", i)
		}
	}
}

func TestWebhookUnknownStatusIgnored(t *testing.T) {
	db := newTestDB(t)
	svc := newWebhookService(db)
	app := awaitingPayment(t, db)

	result := svc.Handle(context.Background(), dto.WebhookPayload{
		ExternalID: *app.ApplicationPaymentExternalID,
		Status:     "REFUND_REQUESTED",
	})
	if result.Processed {
		t.Fatal("status tidak dikenal tidak boleh diproses")
	}

	var got applicationModel.ApplicationModel
	if err := db.First(&got, "application_id = ?", app.ApplicationID).Error; err != nil {
		t.Fatalf("gagal mengambil aplikasi: %v", err)
	}
	if got.ApplicationState != applicationModel.StatePayment {
		t.Fatalf("state berubah jadi %s", got.ApplicationState)
	}
}
