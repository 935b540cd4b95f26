package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"sertifikasiku_backend/internals/features/applications/dto"
	"sertifikasiku_backend/internals/features/applications/model"
	registrationModel "sertifikasiku_backend/internals/features/registrations/model"
	registrationService "sertifikasiku_backend/internals/features/registrations/service"
)

// Biaya sertifikasi per skema (IDR). payment_amount selalu fungsi murni dari
// scheme; tidak pernah di-set langsung.
const (
	FeeLevel1IDR = 3_500_000
	FeeLevel2IDR = 5_000_000
)

const certValidityYears = 3

func PriceForScheme(scheme string) int {
	if scheme == model.SchemeLevel2 {
		return FeeLevel2IDR
	}
	return FeeLevel1IDR
}

// Invoicer membuat tagihan di payment gateway eksternal (hosted payment URL).
// Panggilan keluar best-effort: gagal tidak membatalkan transisi state.
type Invoicer interface {
	CreateInvoice(ctx context.Context, app model.ApplicationModel, custName, custEmail string) (invoiceID, payURL string, err error)
}

type ApplicationService struct {
	DB       *gorm.DB
	Invoicer Invoicer
}

func NewApplicationService(db *gorm.DB, inv Invoicer) *ApplicationService {
	return &ApplicationService{DB: db, Invoicer: inv}
}

/* =========================================================
   Chatter / audit log
========================================================= */

// AppendLog mencatat pesan audit pada aplikasi. Best-effort: gagal tulis
// hanya di-log, tidak menggagalkan operasi pemanggil.
func AppendLog(db *gorm.DB, appID uuid.UUID, actorID *uuid.UUID, level, msg string) {
	entry := model.ApplicationLogModel{
		ApplicationLogApplicationID: appID,
		ApplicationLogActorID:       actorID,
		ApplicationLogLevel:         level,
		ApplicationLogMessage:       msg,
	}
	if err := db.Create(&entry).Error; err != nil {
		log.Printf("[WARN] gagal mencatat log aplikasi %s: %v", appID, err)
	}
}

/* =========================================================
   Loader
========================================================= */

func (s *ApplicationService) GetByID(ctx context.Context, appID uuid.UUID) (*model.ApplicationModel, error) {
	var app model.ApplicationModel
	if err := s.DB.WithContext(ctx).First(&app, "application_id = ?", appID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Aplikasi tidak ditemukan")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil aplikasi")
	}
	return &app, nil
}

// Satu aplikasi per kandidat: pencarian selalu by owner.
func (s *ApplicationService) GetByCandidateID(ctx context.Context, candidateID uuid.UUID) (*model.ApplicationModel, error) {
	var app model.ApplicationModel
	if err := s.DB.WithContext(ctx).
		Where("application_candidate_id = ?", candidateID).
		First(&app).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Aplikasi tidak ditemukan")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil aplikasi")
	}
	return &app, nil
}

func (s *ApplicationService) GetLogs(ctx context.Context, appID uuid.UUID) ([]model.ApplicationLogModel, error) {
	var logs []model.ApplicationLogModel
	if err := s.DB.WithContext(ctx).
		Where("application_log_application_id = ?", appID).
		Order("application_log_created_at ASC").
		Find(&logs).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil log aplikasi")
	}
	return logs, nil
}

/* =========================================================
   Kandidat: wizard step 1-4
   Edit hanya boleh di state draft/revision (gate di sini +
   step page collaborator).
========================================================= */

func (s *ApplicationService) SaveStep1(ctx context.Context, candidateID uuid.UUID, req dto.Step1Request) (*model.ApplicationModel, error) {
	// Gate registrasi: aplikasi hanya boleh dibuat setelah registrasi approved.
	var cand registrationModel.CandidateModel
	if err := s.DB.WithContext(ctx).First(&cand, "candidate_id = ?", candidateID).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Kandidat tidak ditemukan")
	}
	if cand.CandidateRegistrationState != registrationModel.RegistrationStateApproved {
		return nil, fiber.NewError(fiber.StatusForbidden, "Registrasi Anda belum disetujui admin")
	}

	birthDate, err := time.Parse("2006-01-02", req.BirthDate)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusUnprocessableEntity, "Tanggal lahir tidak valid")
	}

	var app model.ApplicationModel
	findErr := s.DB.WithContext(ctx).
		Where("application_candidate_id = ?", candidateID).
		First(&app).Error

	switch {
	case findErr == nil:
		if !app.Editable() {
			return nil, fiber.NewError(fiber.StatusForbidden, "Aplikasi sudah terkunci, tidak dapat diubah")
		}
	case errors.Is(findErr, gorm.ErrRecordNotFound):
		app = model.ApplicationModel{
			ApplicationCandidateID: candidateID,
			ApplicationState:       model.StateDraft,
			ApplicationCurrentStep: 1,
		}
		if cand.CandidatePendingCertType != nil {
			app.ApplicationType = *cand.CandidatePendingCertType
		}
	default:
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil aplikasi")
	}

	app.ApplicationNIK = &req.NIK
	app.ApplicationBirthDate = &birthDate
	app.ApplicationPlaceOfBirth = optional(req.PlaceOfBirth)
	app.ApplicationLastEducation = optional(req.LastEducation)
	app.ApplicationNationality = optional(req.Nationality)
	app.ApplicationPhone = optional(req.Phone)
	app.ApplicationAddress = optional(req.Address)
	app.ApplicationSpecialNeeds = req.SpecialNeeds
	app.ApplicationSpecialNeedsDesc = optional(req.SpecialNeedsDesc)

	if err := s.DB.WithContext(ctx).Save(&app).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal menyimpan data diri")
	}
	return &app, nil
}

func (s *ApplicationService) SaveStep2(ctx context.Context, candidateID uuid.UUID, req dto.Step2Request) (*model.ApplicationModel, error) {
	app, err := s.GetByCandidateID(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	if !app.Editable() {
		return nil, fiber.NewError(fiber.StatusForbidden, "Aplikasi sudah terkunci, tidak dapat diubah")
	}

	app.ApplicationType = req.ApplicationType
	app.ApplicationPreviousCertNumber = optional(req.PreviousCertNumber)
	app.ApplicationScheme = &req.Scheme
	// Biaya mengikuti skema; dihitung ulang setiap skema berubah.
	app.ApplicationPaymentAmountIDR = PriceForScheme(req.Scheme)
	if app.ApplicationCurrentStep < 2 {
		app.ApplicationCurrentStep = 2
	}

	if err := s.DB.WithContext(ctx).Save(app).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal menyimpan skema")
	}
	return app, nil
}

func (s *ApplicationService) SaveStep3(ctx context.Context, candidateID uuid.UUID, req dto.Step3Request) (*model.ApplicationModel, error) {
	app, err := s.GetByCandidateID(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	if !app.Editable() {
		return nil, fiber.NewError(fiber.StatusForbidden, "Aplikasi sudah terkunci, tidak dapat diubah")
	}

	wasRevision := app.ApplicationState == model.StateRevision

	setKey(&app.ApplicationPasFotoKey, req.PasFotoKey)
	setKey(&app.ApplicationKTPKey, req.KTPKey)
	setKey(&app.ApplicationIjazahKey, req.IjazahKey)
	setKey(&app.ApplicationIshiharaKey, req.IshiharaKey)
	setKey(&app.ApplicationSKCKKey, req.SKCKKey)
	setKey(&app.ApplicationTrainingCertKey, req.TrainingCertKey)
	setKey(&app.ApplicationCVKey, req.CVKey)
	setKey(&app.ApplicationCertLevel1Key, req.CertLevel1Key)
	setKey(&app.ApplicationPreviousCertKey, req.PreviousCertKey)
	setKey(&app.ApplicationLogbookKey, req.LogbookKey)
	setKey(&app.ApplicationAdditionalKey, req.AdditionalKey)

	if app.ApplicationCurrentStep < 3 {
		app.ApplicationCurrentStep = 3
	}

	// Resubmit dari revision: dokumen baru masuk → kembali ke submitted,
	// SEMUA flag revisi + catatan admin dibersihkan sekaligus (all-or-nothing).
	if wasRevision {
		app.ApplicationState = model.StateSubmitted
		clearRevisionFlags(app)
	}

	if err := s.DB.WithContext(ctx).Save(app).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal menyimpan dokumen")
	}

	if wasRevision {
		AppendLog(s.DB.WithContext(ctx), app.ApplicationID, nil, model.LogLevelInfo, "Kandidat mengirim ulang dokumen perbaikan")
	}
	return app, nil
}

func (s *ApplicationService) SubmitFinal(ctx context.Context, candidateID uuid.UUID, req dto.FinalSubmitRequest) (*model.ApplicationModel, error) {
	app, err := s.GetByCandidateID(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	if !app.Editable() {
		return nil, fiber.NewError(fiber.StatusForbidden, "Aplikasi sudah terkunci, tidak dapat diubah")
	}

	now := time.Now()
	app.ApplicationDeclarationCompliance = req.DeclarationCompliance
	app.ApplicationDeclarationTruth = req.DeclarationTruth
	app.ApplicationDeclarationLiability = req.DeclarationLiability
	app.ApplicationDigitalSignature = &req.DigitalSignature
	app.ApplicationSignatureDate = &now

	app.ApplicationState = model.StateSubmitted
	app.ApplicationCurrentStep = 4
	clearRevisionFlags(app)

	if err := s.DB.WithContext(ctx).Save(app).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal mengirim aplikasi")
	}

	AppendLog(s.DB.WithContext(ctx), app.ApplicationID, nil, model.LogLevelInfo, "Aplikasi dikirim oleh kandidat")
	return app, nil
}

/* =========================================================
   Admin: aksi state machine
========================================================= */

// VerifyDocuments: submitted → payment. Membuat invoice (external id
// CERT-{application_id}) lalu memanggil payment gateway best-effort.
func (s *ApplicationService) VerifyDocuments(ctx context.Context, appID, adminID uuid.UUID) (*model.ApplicationModel, error) {
	app, err := s.GetByID(ctx, appID)
	if err != nil {
		return nil, err
	}
	if app.ApplicationState != model.StateSubmitted {
		return nil, fiber.NewError(fiber.StatusUnprocessableEntity, "Hanya aplikasi berstatus submitted yang dapat diverifikasi")
	}
	if app.ApplicationScheme == nil || *app.ApplicationScheme == "" {
		return nil, fiber.NewError(fiber.StatusUnprocessableEntity, "Skema sertifikasi belum dipilih kandidat")
	}

	externalID := "CERT-" + app.ApplicationID.String()
	app.ApplicationState = model.StatePayment
	app.ApplicationPaymentStatus = model.PaymentPending
	app.ApplicationPaymentExternalID = &externalID

	if err := s.DB.WithContext(ctx).Save(app).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal menyimpan verifikasi")
	}
	AppendLog(s.DB.WithContext(ctx), app.ApplicationID, &adminID, model.LogLevelInfo,
		"Dokumen administrasi terverifikasi. Menunggu pembayaran.")

	// Payment-link keluar best-effort: gagal hanya jadi warning, state tetap.
	if s.Invoicer != nil {
		var cand registrationModel.CandidateModel
		custName, custEmail := "", ""
		if err := s.DB.WithContext(ctx).First(&cand, "candidate_id = ?", app.ApplicationCandidateID).Error; err == nil {
			custName, custEmail = cand.CandidateFullName, cand.CandidateEmail
		}
		invoiceID, payURL, invErr := s.Invoicer.CreateInvoice(ctx, *app, custName, custEmail)
		if invErr != nil {
			log.Printf("[WARN] payment gateway gagal untuk aplikasi %s: %v", app.ApplicationID, invErr)
			AppendLog(s.DB.WithContext(ctx), app.ApplicationID, &adminID, model.LogLevelWarning,
				fmt.Sprintf("Pembuatan payment link gagal: %v", invErr))
		} else {
			app.ApplicationPaymentInvoiceID = &invoiceID
			app.ApplicationPaymentURL = &payURL
			if err := s.DB.WithContext(ctx).Save(app).Error; err != nil {
				log.Printf("[WARN] gagal menyimpan payment URL aplikasi %s: %v", app.ApplicationID, err)
			}
		}
	}

	return app, nil
}

func (s *ApplicationService) RequestRevision(ctx context.Context, appID, adminID uuid.UUID, note string, flags dto.RevisionFlags) (*model.ApplicationModel, error) {
	if strings.TrimSpace(note) == "" {
		return nil, fiber.NewError(fiber.StatusUnprocessableEntity, "Catatan admin wajib diisi")
	}
	if !flags.Any() {
		return nil, fiber.NewError(fiber.StatusUnprocessableEntity, "Minimal satu dokumen harus ditandai untuk diperbaiki")
	}

	app, err := s.GetByID(ctx, appID)
	if err != nil {
		return nil, err
	}
	if app.ApplicationState != model.StateSubmitted {
		return nil, fiber.NewError(fiber.StatusUnprocessableEntity, "Hanya aplikasi berstatus submitted yang dapat diminta revisi")
	}

	app.ApplicationState = model.StateRevision
	app.ApplicationAdminNote = &note
	app.ApplicationRevisionPasFoto = flags.PasFoto
	app.ApplicationRevisionKTP = flags.KTP
	app.ApplicationRevisionIjazah = flags.Ijazah
	app.ApplicationRevisionIshihara = flags.Ishihara
	app.ApplicationRevisionSKCK = flags.SKCK
	app.ApplicationRevisionTrainingCert = flags.TrainingCert
	app.ApplicationRevisionCV = flags.CV
	app.ApplicationRevisionCertLevel1 = flags.CertLevel1

	if err := s.DB.WithContext(ctx).Save(app).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal menyimpan permintaan revisi")
	}
	AppendLog(s.DB.WithContext(ctx), app.ApplicationID, &adminID, model.LogLevelInfo, "PERBAIKAN DOKUMEN: "+note)
	return app, nil
}

func (s *ApplicationService) RejectApplication(ctx context.Context, appID, adminID uuid.UUID, note string) (*model.ApplicationModel, error) {
	if strings.TrimSpace(note) == "" {
		return nil, fiber.NewError(fiber.StatusUnprocessableEntity, "Catatan admin wajib diisi dengan alasan penolakan")
	}

	app, err := s.GetByID(ctx, appID)
	if err != nil {
		return nil, err
	}
	if app.ApplicationState != model.StateSubmitted {
		return nil, fiber.NewError(fiber.StatusUnprocessableEntity, "Hanya aplikasi berstatus submitted yang dapat ditolak")
	}

	app.ApplicationState = model.StateRejected
	app.ApplicationAdminNote = &note
	if err := s.DB.WithContext(ctx).Save(app).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal menyimpan penolakan")
	}
	AppendLog(s.DB.WithContext(ctx), app.ApplicationID, &adminID, model.LogLevelInfo, "APLIKASI DITOLAK: "+note)
	return app, nil
}

// ConfirmPayment: payment → verified. Dipanggil dari webhook gateway atau admin.
func (s *ApplicationService) ConfirmPayment(ctx context.Context, appID uuid.UUID, actorID *uuid.UUID, method, source string) (*model.ApplicationModel, error) {
	app, err := s.GetByID(ctx, appID)
	if err != nil {
		return nil, err
	}
	if app.ApplicationState != model.StatePayment {
		return nil, fiber.NewError(fiber.StatusUnprocessableEntity, "Aplikasi tidak sedang menunggu pembayaran")
	}

	now := time.Now()
	app.ApplicationState = model.StateVerified
	app.ApplicationPaymentStatus = model.PaymentPaid
	app.ApplicationPaymentDate = &now
	app.ApplicationPaymentMethod = optional(method)

	if err := s.DB.WithContext(ctx).Save(app).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal menyimpan konfirmasi pembayaran")
	}
	AppendLog(s.DB.WithContext(ctx), app.ApplicationID, actorID, model.LogLevelInfo,
		"Pembayaran dikonfirmasi ("+source+"). Silakan menunggu jadwal ujian.")
	return app, nil
}

// RecordPaymentFailure mencatat status expired/failed dari gateway tanpa
// mengubah state aplikasi (tetap menunggu pembayaran ulang).
func (s *ApplicationService) RecordPaymentFailure(ctx context.Context, appID uuid.UUID, status string) (*model.ApplicationModel, error) {
	app, err := s.GetByID(ctx, appID)
	if err != nil {
		return nil, err
	}

	app.ApplicationPaymentStatus = status
	if err := s.DB.WithContext(ctx).Save(app).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal menyimpan status pembayaran")
	}
	AppendLog(s.DB.WithContext(ctx), app.ApplicationID, nil, model.LogLevelWarning,
		"Status pembayaran dari gateway: "+status)
	return app, nil
}

func (s *ApplicationService) SetSchedule(ctx context.Context, appID, adminID uuid.UUID, examDate, examTime, examLocation string) (*model.ApplicationModel, error) {
	switch {
	case strings.TrimSpace(examDate) == "":
		return nil, fiber.NewError(fiber.StatusUnprocessableEntity, "Tanggal ujian wajib diisi")
	case strings.TrimSpace(examTime) == "":
		return nil, fiber.NewError(fiber.StatusUnprocessableEntity, "Jam ujian wajib diisi")
	case strings.TrimSpace(examLocation) == "":
		return nil, fiber.NewError(fiber.StatusUnprocessableEntity, "Lokasi ujian wajib diisi")
	}

	date, err := time.ParseInLocation("2006-01-02", examDate, time.Local)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusUnprocessableEntity, "Tanggal ujian tidak valid")
	}
	if _, err := time.Parse("15:04", examTime); err != nil {
		return nil, fiber.NewError(fiber.StatusUnprocessableEntity, "Jam ujian tidak valid")
	}

	app, err := s.GetByID(ctx, appID)
	if err != nil {
		return nil, err
	}
	if app.ApplicationState != model.StateVerified {
		return nil, fiber.NewError(fiber.StatusUnprocessableEntity, "Hanya aplikasi berstatus verified yang dapat dijadwalkan")
	}

	app.ApplicationState = model.StateScheduled
	app.ApplicationExamDate = &date
	app.ApplicationExamTime = &examTime
	app.ApplicationExamLocation = &examLocation

	if err := s.DB.WithContext(ctx).Save(app).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal menyimpan jadwal ujian")
	}
	AppendLog(s.DB.WithContext(ctx), app.ApplicationID, &adminID, model.LogLevelInfo,
		fmt.Sprintf("Jadwal ujian ditetapkan: %s %s di %s", examDate, examTime, examLocation))
	return app, nil
}

// MarkPassed / MarkFailed: override hasil ujian oleh admin. State tidak berubah.
func (s *ApplicationService) MarkPassed(ctx context.Context, appID, adminID uuid.UUID) (*model.ApplicationModel, error) {
	return s.setExamResult(ctx, appID, &adminID, model.ExamResultPassed)
}

func (s *ApplicationService) MarkFailed(ctx context.Context, appID, adminID uuid.UUID) (*model.ApplicationModel, error) {
	return s.setExamResult(ctx, appID, &adminID, model.ExamResultFailed)
}

func (s *ApplicationService) setExamResult(ctx context.Context, appID uuid.UUID, actorID *uuid.UUID, result string) (*model.ApplicationModel, error) {
	app, err := s.GetByID(ctx, appID)
	if err != nil {
		return nil, err
	}
	if app.ApplicationState != model.StateScheduled {
		return nil, fiber.NewError(fiber.StatusUnprocessableEntity, "Hasil ujian hanya dapat diisi pada aplikasi terjadwal")
	}

	app.ApplicationExamResult = result
	if err := s.DB.WithContext(ctx).Save(app).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal menyimpan hasil ujian")
	}
	AppendLog(s.DB.WithContext(ctx), app.ApplicationID, actorID, model.LogLevelInfo, "Hasil ujian: "+result)
	return app, nil
}

// IssueCertificate: verified|scheduled + exam_result=passed → certified.
// Masa berlaku = tanggal terbit + 3 tahun.
func (s *ApplicationService) IssueCertificate(ctx context.Context, appID, adminID uuid.UUID) (*model.ApplicationModel, error) {
	app, err := s.GetByID(ctx, appID)
	if err != nil {
		return nil, err
	}
	if app.ApplicationExamResult != model.ExamResultPassed {
		return nil, fiber.NewError(fiber.StatusUnprocessableEntity, "Sertifikat hanya dapat diterbitkan jika hasil ujian lulus")
	}
	if app.ApplicationState != model.StateVerified && app.ApplicationState != model.StateScheduled {
		return nil, fiber.NewError(fiber.StatusUnprocessableEntity, "Aplikasi tidak dalam tahap penerbitan sertifikat")
	}

	scheme := model.SchemeLevel1
	if app.ApplicationScheme != nil && *app.ApplicationScheme != "" {
		scheme = *app.ApplicationScheme
	}

	var issued int64
	if err := s.DB.WithContext(ctx).Model(&model.ApplicationModel{}).
		Where("application_state = ? AND application_scheme = ?", model.StateCertified, scheme).
		Count(&issued).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal membuat nomor sertifikat")
	}

	now := time.Now()
	certNumber := fmt.Sprintf("CERT/SVK/%s/%04d/%d", registrationService.LevelCode(scheme), issued+1, now.Year())
	validUntil := now.AddDate(certValidityYears, 0, 0)

	app.ApplicationState = model.StateCertified
	app.ApplicationCertNumber = &certNumber
	app.ApplicationCertIssueDate = &now
	app.ApplicationCertValidUntil = &validUntil

	if err := s.DB.WithContext(ctx).Save(app).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal menerbitkan sertifikat")
	}
	AppendLog(s.DB.WithContext(ctx), app.ApplicationID, &adminID, model.LogLevelInfo,
		"Sertifikat diterbitkan: "+certNumber)
	return app, nil
}

// UpdateCertIssueDate: masa berlaku dihitung ulang setiap tanggal terbit berubah.
func (s *ApplicationService) UpdateCertIssueDate(ctx context.Context, appID, adminID uuid.UUID, issueDate time.Time) (*model.ApplicationModel, error) {
	app, err := s.GetByID(ctx, appID)
	if err != nil {
		return nil, err
	}
	if app.ApplicationState != model.StateCertified {
		return nil, fiber.NewError(fiber.StatusUnprocessableEntity, "Aplikasi belum memiliki sertifikat")
	}

	validUntil := issueDate.AddDate(certValidityYears, 0, 0)
	app.ApplicationCertIssueDate = &issueDate
	app.ApplicationCertValidUntil = &validUntil

	if err := s.DB.WithContext(ctx).Save(app).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal memperbarui tanggal sertifikat")
	}
	AppendLog(s.DB.WithContext(ctx), app.ApplicationID, &adminID, model.LogLevelInfo,
		"Tanggal terbit sertifikat diubah ke "+issueDate.Format("2006-01-02"))
	return app, nil
}

/* =========================================================
   Util
========================================================= */

func optional(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

func setKey(dst **string, val string) {
	if strings.TrimSpace(val) != "" {
		v := val
		*dst = &v
	}
}

func clearRevisionFlags(app *model.ApplicationModel) {
	app.ApplicationAdminNote = nil
	app.ApplicationRevisionPasFoto = false
	app.ApplicationRevisionKTP = false
	app.ApplicationRevisionIjazah = false
	app.ApplicationRevisionIshihara = false
	app.ApplicationRevisionSKCK = false
	app.ApplicationRevisionTrainingCert = false
	app.ApplicationRevisionCV = false
	app.ApplicationRevisionCertLevel1 = false
}
