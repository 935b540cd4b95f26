package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"sertifikasiku_backend/internals/features/applications/dto"
	"sertifikasiku_backend/internals/features/applications/model"
	registrationModel "sertifikasiku_backend/internals/features/registrations/model"
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
		&registrationModel.CandidateModel{},
		&registrationModel.RegistrationSequenceModel{},
		&model.ApplicationModel{},
		&model.ApplicationLogModel{},
	); err != nil {
		t.Fatalf("gagal migrasi: %v", err)
	}
	return db
}

func approvedCandidate(t *testing.T, db *gorm.DB) registrationModel.CandidateModel {
	t.Helper()
	cand := registrationModel.CandidateModel{
		CandidateUserID:            uuid.New(),
		CandidateFullName:          "Siti Rahma",
		CandidateEmail:             "siti@example.com",
		CandidateRegistrationState: registrationModel.RegistrationStateApproved,
	}
	if err := db.Create(&cand).Error; err != nil {
		t.Fatalf("gagal membuat kandidat: %v", err)
	}
	return cand
}

func fiberStatus(t *testing.T, err error) int {
	t.Helper()
	var fe *fiber.Error
	if !errors.As(err, &fe) {
		t.Fatalf("bukan *fiber.Error: %v", err)
	}
	return fe.Code
}

// submittedApplication menjalankan wizard lengkap sampai state submitted.
func submittedApplication(t *testing.T, svc *ApplicationService, candID uuid.UUID, scheme string) *model.ApplicationModel {
	t.Helper()
	ctx := context.Background()

	if _, err := svc.SaveStep1(ctx, candID, dto.Step1Request{
		NIK:       "3174091201900001",
		BirthDate: "1990-01-12",
	}); err != nil {
		t.Fatalf("step1 gagal: %v", err)
	}
	if _, err := svc.SaveStep2(ctx, candID, dto.Step2Request{
		ApplicationType: "new",
		Scheme:          scheme,
	}); err != nil {
		t.Fatalf("step2 gagal: %v", err)
	}
	if _, err := svc.SaveStep3(ctx, candID, dto.Step3Request{
		PasFotoKey: "uploads/pasfoto.jpg",
		KTPKey:     "uploads/ktp.jpg",
	}); err != nil {
		t.Fatalf("step3 gagal: %v", err)
	}
	app, err := svc.SubmitFinal(ctx, candID, dto.FinalSubmitRequest{
		DeclarationCompliance: true,
		DeclarationTruth:      true,
		DeclarationLiability:  true,
		DigitalSignature:      "Siti Rahma",
	})
	if err != nil {
		t.Fatalf("submit final gagal: %v", err)
	}
	return app
}

func TestPriceForScheme(t *testing.T) {
	if got := PriceForScheme(model.SchemeLevel1); got != FeeLevel1IDR {
		t.Fatalf("level1 = %d, mau %d", got, FeeLevel1IDR)
	}
	if got := PriceForScheme(model.SchemeLevel2); got != FeeLevel2IDR {
		t.Fatalf("level2 = %d, mau %d", got, FeeLevel2IDR)
	}
}

func TestSaveStep1RequiresApprovedRegistration(t *testing.T) {
	db := newTestDB(t)
	svc := NewApplicationService(db, nil)

	cand := registrationModel.CandidateModel{
		CandidateUserID:            uuid.New(),
		CandidateFullName:          "Belum Disetujui",
		CandidateEmail:             "pending@example.com",
		CandidateRegistrationState: registrationModel.RegistrationStatePending,
	}
	if err := db.Create(&cand).Error; err != nil {
		t.Fatalf("gagal membuat kandidat: %v", err)
	}

	_, err := svc.SaveStep1(context.Background(), cand.CandidateID, dto.Step1Request{
		NIK:       "3174091201900001",
		BirthDate: "1990-01-12",
	})
	if err == nil {
		t.Fatal("step1 tanpa approval harusnya gagal")
	}
	if code := fiberStatus(t, err); code != fiber.StatusForbidden {
		t.Fatalf("status = %d, mau 403", code)
	}
}

func TestWizardSetsSchemePrice(t *testing.T) {
	db := newTestDB(t)
	svc := NewApplicationService(db, nil)
	cand := approvedCandidate(t, db)

	app := submittedApplication(t, svc, cand.CandidateID, model.SchemeLevel2)
	if app.ApplicationState != model.StateSubmitted {
		t.Fatalf("state = %s, mau submitted", app.ApplicationState)
	}
	if app.ApplicationPaymentAmountIDR != FeeLevel2IDR {
		t.Fatalf("amount = %d, mau %d", app.ApplicationPaymentAmountIDR, FeeLevel2IDR)
	}
	if app.ApplicationCurrentStep != 4 {
		t.Fatalf("current_step = %d, mau 4", app.ApplicationCurrentStep)
	}
}

func TestSubmittedApplicationIsLocked(t *testing.T) {
	db := newTestDB(t)
	svc := NewApplicationService(db, nil)
	cand := approvedCandidate(t, db)
	submittedApplication(t, svc, cand.CandidateID, model.SchemeLevel1)

	_, err := svc.SaveStep2(context.Background(), cand.CandidateID, dto.Step2Request{
		ApplicationType: "new",
		Scheme:          model.SchemeLevel2,
	})
	if err == nil {
		t.Fatal("edit setelah submit harusnya gagal")
	}
	if code := fiberStatus(t, err); code != fiber.StatusForbidden {
		t.Fatalf("status = %d, mau 403", code)
	}
}

type failingInvoicer struct{}

func (failingInvoicer) CreateInvoice(context.Context, model.ApplicationModel, string, string) (string, string, error) {
	return "", "", errors.New("gateway timeout")
}

type stubInvoicer struct{}

func (stubInvoicer) CreateInvoice(context.Context, model.ApplicationModel, string, string) (string, string, error) {
	return "inv-123", "https://pay.example.com/inv-123", nil
}

func TestVerifyDocumentsMovesToPayment(t *testing.T) {
	db := newTestDB(t)
	svc := NewApplicationService(db, stubInvoicer{})
	cand := approvedCandidate(t, db)
	app := submittedApplication(t, svc, cand.CandidateID, model.SchemeLevel1)

	verified, err := svc.VerifyDocuments(context.Background(), app.ApplicationID, uuid.New())
	if err != nil {
		t.Fatalf("verify gagal: %v", err)
	}
	if verified.ApplicationState != model.StatePayment {
		t.Fatalf("state = %s, mau payment", verified.ApplicationState)
	}
	if verified.ApplicationPaymentStatus != model.PaymentPending {
		t.Fatalf("payment_status = %s, mau pending", verified.ApplicationPaymentStatus)
	}

	wantExt := "CERT-" + app.ApplicationID.String()
	if verified.ApplicationPaymentExternalID == nil || *verified.ApplicationPaymentExternalID != wantExt {
		t.Fatalf("external_id = %v, mau %s", verified.ApplicationPaymentExternalID, wantExt)
	}
	if verified.ApplicationPaymentURL == nil || !strings.Contains(*verified.ApplicationPaymentURL, "pay.example.com") {
		t.Fatalf("payment_url tidak terisi: %v", verified.ApplicationPaymentURL)
	}
}

func TestVerifyDocumentsSurvivesGatewayFailure(t *testing.T) {
	db := newTestDB(t)
	svc := NewApplicationService(db, failingInvoicer{})
	cand := approvedCandidate(t, db)
	app := submittedApplication(t, svc, cand.CandidateID, model.SchemeLevel1)

	verified, err := svc.VerifyDocuments(context.Background(), app.ApplicationID, uuid.New())
	if err != nil {
		t.Fatalf("verify harusnya tetap sukses walau gateway gagal: %v", err)
	}
	if verified.ApplicationState != model.StatePayment {
		t.Fatalf("state = %s, mau payment", verified.ApplicationState)
	}
	if verified.ApplicationPaymentURL != nil {
		t.Fatalf("payment_url harusnya kosong, dapat %s", *verified.ApplicationPaymentURL)
	}

	// Kegagalan gateway tercatat sebagai warning di chatter.
	var warnCount int64
	if err := db.Model(&model.ApplicationLogModel{}).
		Where("application_log_application_id = ? AND application_log_level = ?", app.ApplicationID, model.LogLevelWarning).
		Count(&warnCount).Error; err != nil {
		t.Fatalf("gagal menghitung log: %v", err)
	}
	if warnCount == 0 {
		t.Fatal("tidak ada warning chatter untuk kegagalan gateway")
	}
}

func TestRequestRevisionAndResubmitClearsFlags(t *testing.T) {
	db := newTestDB(t)
	svc := NewApplicationService(db, nil)
	cand := approvedCandidate(t, db)
	app := submittedApplication(t, svc, cand.CandidateID, model.SchemeLevel1)
	admin := uuid.New()
	ctx := context.Background()

	// Tanpa flag → ditolak.
	_, err := svc.RequestRevision(ctx, app.ApplicationID, admin, "Foto buram", dto.RevisionFlags{})
	if err == nil {
		t.Fatal("revisi tanpa flag harusnya gagal")
	}

	// Tanpa catatan → ditolak.
	_, err = svc.RequestRevision(ctx, app.ApplicationID, admin, " ", dto.RevisionFlags{PasFoto: true})
	if err == nil {
		t.Fatal("revisi tanpa catatan harusnya gagal")
	}

	revised, err := svc.RequestRevision(ctx, app.ApplicationID, admin, "Pas foto buram, KTP terpotong",
		dto.RevisionFlags{PasFoto: true, KTP: true})
	if err != nil {
		t.Fatalf("request revision gagal: %v", err)
	}
	if revised.ApplicationState != model.StateRevision {
		t.Fatalf("state = %s, mau revision", revised.ApplicationState)
	}
	if !revised.HasRevisionFlag() {
		t.Fatal("flag revisi tidak menyala")
	}

	// Kandidat upload ulang → submitted, seluruh flag + catatan bersih.
	resubmitted, err := svc.SaveStep3(ctx, cand.CandidateID, dto.Step3Request{
		PasFotoKey: "uploads/pasfoto-v2.jpg",
		KTPKey:     "uploads/ktp-v2.jpg",
	})
	if err != nil {
		t.Fatalf("resubmit gagal: %v", err)
	}
	if resubmitted.ApplicationState != model.StateSubmitted {
		t.Fatalf("state = %s, mau submitted", resubmitted.ApplicationState)
	}
	if resubmitted.HasRevisionFlag() {
		t.Fatal("flag revisi masih menyala setelah resubmit")
	}
	if resubmitted.ApplicationAdminNote != nil {
		t.Fatalf("catatan admin masih ada: %s", *resubmitted.ApplicationAdminNote)
	}
}

func TestConfirmPaymentOnlyFromPaymentState(t *testing.T) {
	db := newTestDB(t)
	svc := NewApplicationService(db, nil)
	cand := approvedCandidate(t, db)
	app := submittedApplication(t, svc, cand.CandidateID, model.SchemeLevel1)
	ctx := context.Background()

	// Masih submitted → konfirmasi ditolak.
	if _, err := svc.ConfirmPayment(ctx, app.ApplicationID, nil, "bank_transfer", "webhook"); err == nil {
		t.Fatal("konfirmasi sebelum state payment harusnya gagal")
	}

	if _, err := svc.VerifyDocuments(ctx, app.ApplicationID, uuid.New()); err != nil {
		t.Fatalf("verify gagal: %v", err)
	}

	paid, err := svc.ConfirmPayment(ctx, app.ApplicationID, nil, "bank_transfer", "webhook")
	if err != nil {
		t.Fatalf("konfirmasi gagal: %v", err)
	}
	if paid.ApplicationState != model.StateVerified {
		t.Fatalf("state = %s, mau verified", paid.ApplicationState)
	}
	if paid.ApplicationPaymentStatus != model.PaymentPaid {
		t.Fatalf("payment_status = %s, mau paid", paid.ApplicationPaymentStatus)
	}
	if paid.ApplicationPaymentDate == nil {
		t.Fatal("payment_date kosong")
	}

	// Replay webhook: state sudah verified → ditolak, bukan double-process.
	if _, err := svc.ConfirmPayment(ctx, app.ApplicationID, nil, "bank_transfer", "webhook"); err == nil {
		t.Fatal("konfirmasi kedua harusnya gagal")
	}
}

func TestSetScheduleGuards(t *testing.T) {
	db := newTestDB(t)
	svc := NewApplicationService(db, nil)
	cand := approvedCandidate(t, db)
	app := submittedApplication(t, svc, cand.CandidateID, model.SchemeLevel1)
	admin := uuid.New()
	ctx := context.Background()

	if _, err := svc.VerifyDocuments(ctx, app.ApplicationID, admin); err != nil {
		t.Fatalf("verify gagal: %v", err)
	}
	if _, err := svc.ConfirmPayment(ctx, app.ApplicationID, &admin, "va", "admin"); err != nil {
		t.Fatalf("konfirmasi gagal: %v", err)
	}

	// Input wajib satu per satu.
	if _, err := svc.SetSchedule(ctx, app.ApplicationID, admin, "", "09:00", "Jakarta"); err == nil {
		t.Fatal("tanpa tanggal harusnya gagal")
	}
	if _, err := svc.SetSchedule(ctx, app.ApplicationID, admin, "2026-09-15", "", "Jakarta"); err == nil {
		t.Fatal("tanpa jam harusnya gagal")
	}
	if _, err := svc.SetSchedule(ctx, app.ApplicationID, admin, "2026-09-15", "09:00", ""); err == nil {
		t.Fatal("tanpa lokasi harusnya gagal")
	}

	scheduled, err := svc.SetSchedule(ctx, app.ApplicationID, admin, "2026-09-15", "09:00", "TUK Jakarta")
	if err != nil {
		t.Fatalf("set schedule gagal: %v", err)
	}
	if scheduled.ApplicationState != model.StateScheduled {
		t.Fatalf("state = %s, mau scheduled", scheduled.ApplicationState)
	}
}

func TestIssueCertificate(t *testing.T) {
	db := newTestDB(t)
	svc := NewApplicationService(db, nil)
	cand := approvedCandidate(t, db)
	app := submittedApplication(t, svc, cand.CandidateID, model.SchemeLevel1)
	admin := uuid.New()
	ctx := context.Background()

	if _, err := svc.VerifyDocuments(ctx, app.ApplicationID, admin); err != nil {
		t.Fatalf("verify gagal: %v", err)
	}
	if _, err := svc.ConfirmPayment(ctx, app.ApplicationID, &admin, "va", "admin"); err != nil {
		t.Fatalf("konfirmasi gagal: %v", err)
	}
	if _, err := svc.SetSchedule(ctx, app.ApplicationID, admin, "2026-09-15", "09:00", "TUK Jakarta"); err != nil {
		t.Fatalf("set schedule gagal: %v", err)
	}

	// Belum lulus → sertifikat ditolak.
	if _, err := svc.IssueCertificate(ctx, app.ApplicationID, admin); err == nil {
		t.Fatal("terbit sebelum lulus harusnya gagal")
	}

	if _, err := svc.MarkPassed(ctx, app.ApplicationID, admin); err != nil {
		t.Fatalf("mark passed gagal: %v", err)
	}

	certified, err := svc.IssueCertificate(ctx, app.ApplicationID, admin)
	if err != nil {
		t.Fatalf("issue certificate gagal: %v", err)
	}
	if certified.ApplicationState != model.StateCertified {
		t.Fatalf("state = %s, mau certified", certified.ApplicationState)
	}

	wantNumber := fmt.Sprintf("CERT/SVK/CIG01/0001/%d", time.Now().Year())
	if certified.ApplicationCertNumber == nil || *certified.ApplicationCertNumber != wantNumber {
		t.Fatalf("nomor sertifikat = %v, mau %s", certified.ApplicationCertNumber, wantNumber)
	}
	if certified.ApplicationCertIssueDate == nil || certified.ApplicationCertValidUntil == nil {
		t.Fatal("tanggal sertifikat kosong")
	}
	wantValid := certified.ApplicationCertIssueDate.AddDate(3, 0, 0)
	if !certified.ApplicationCertValidUntil.Equal(wantValid) {
		t.Fatalf("valid_until = %v, mau %v", certified.ApplicationCertValidUntil, wantValid)
	}
}
