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

	"sertifikasiku_backend/internals/features/registrations/model"
)

// Notifier mengirim notifikasi ke kandidat. Pengiriman email sebenarnya ada
// di collaborator eksternal; default-nya hanya mencatat log (best-effort).
type Notifier interface {
	SendRegistrationApproved(ctx context.Context, cand model.CandidateModel) error
}

type LogNotifier struct{}

func (LogNotifier) SendRegistrationApproved(_ context.Context, cand model.CandidateModel) error {
	code := ""
	if cand.CandidateRegistrationCode != nil {
		code = *cand.CandidateRegistrationCode
	}
	log.Printf("[INFO] notifikasi approval → %s (kode %s)", cand.CandidateEmail, code)
	return nil
}

type RegistrationService struct {
	DB       *gorm.DB
	Notifier Notifier
}

func NewRegistrationService(db *gorm.DB, n Notifier) *RegistrationService {
	if n == nil {
		n = LogNotifier{}
	}
	return &RegistrationService{DB: db, Notifier: n}
}

// =============================
// Kandidat: submit registrasi
// =============================
func (s *RegistrationService) Submit(ctx context.Context, userID uuid.UUID, fullName, email, certType, certLevel string) (*model.CandidateModel, error) {
	var cand model.CandidateModel
	err := s.DB.WithContext(ctx).
		Where("candidate_user_id = ?", userID).
		First(&cand).Error

	now := time.Now()

	switch {
	case err == nil:
		if cand.CandidateRegistrationState == model.RegistrationStateApproved {
			return nil, fiber.NewError(fiber.StatusConflict, "Registrasi Anda sudah disetujui")
		}
		cand.CandidateFullName = fullName
		cand.CandidateEmail = email
		cand.CandidatePendingCertType = &certType
		cand.CandidatePendingCertLevel = &certLevel
		cand.CandidateRegistrationState = model.RegistrationStatePending
		if cand.CandidateRegistrationDate == nil {
			cand.CandidateRegistrationDate = &now
		}
		if err := s.DB.WithContext(ctx).Save(&cand).Error; err != nil {
			return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal menyimpan registrasi")
		}
		return &cand, nil

	case errors.Is(err, gorm.ErrRecordNotFound):
		cand = model.CandidateModel{
			CandidateUserID:            userID,
			CandidateFullName:          fullName,
			CandidateEmail:             email,
			CandidatePendingCertType:   &certType,
			CandidatePendingCertLevel:  &certLevel,
			CandidateRegistrationState: model.RegistrationStatePending,
			CandidateRegistrationDate:  &now,
		}
		if err := s.DB.WithContext(ctx).Create(&cand).Error; err != nil {
			return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal menyimpan registrasi")
		}
		return &cand, nil

	default:
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal memeriksa registrasi")
	}
}

// =============================
// Admin: approve registrasi
// =============================
// Kode registrasi di-generate tepat satu kali di sini; transisi selain dari
// pending ditolak sehingga kode tidak pernah dibuat ulang.
func (s *RegistrationService) Approve(ctx context.Context, candidateID, adminID uuid.UUID) (*model.CandidateModel, error) {
	var cand model.CandidateModel

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&cand, "candidate_id = ?", candidateID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Kandidat tidak ditemukan")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil kandidat")
		}
		if cand.CandidateRegistrationState != model.RegistrationStatePending {
			return fiber.NewError(fiber.StatusUnprocessableEntity, "Hanya registrasi berstatus pending yang dapat disetujui")
		}

		level := "level1"
		if cand.CandidatePendingCertLevel != nil && *cand.CandidatePendingCertLevel != "" {
			level = *cand.CandidatePendingCertLevel
		}

		code, err := s.nextRegistrationCode(tx, level)
		if err != nil {
			return err
		}

		now := time.Now()
		cand.CandidateRegistrationState = model.RegistrationStateApproved
		cand.CandidateRegistrationCode = &code
		cand.CandidateApprovedBy = &adminID
		cand.CandidateApprovedDate = &now

		if err := tx.Save(&cand).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal menyimpan approval")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Email best-effort: gagal kirim tidak membatalkan approval.
	if err := s.Notifier.SendRegistrationApproved(ctx, cand); err != nil {
		log.Printf("[WARN] email approval gagal dikirim ke %s: %v", cand.CandidateEmail, err)
	}

	return &cand, nil
}

// =============================
// Admin: reject registrasi
// =============================
func (s *RegistrationService) Reject(ctx context.Context, candidateID uuid.UUID, note string) (*model.CandidateModel, error) {
	if strings.TrimSpace(note) == "" {
		return nil, fiber.NewError(fiber.StatusUnprocessableEntity, "Catatan admin wajib diisi dengan alasan penolakan")
	}

	var cand model.CandidateModel
	if err := s.DB.WithContext(ctx).First(&cand, "candidate_id = ?", candidateID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Kandidat tidak ditemukan")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil kandidat")
	}
	if cand.CandidateRegistrationState != model.RegistrationStatePending {
		return nil, fiber.NewError(fiber.StatusUnprocessableEntity, "Hanya registrasi berstatus pending yang dapat ditolak")
	}

	cand.CandidateRegistrationState = model.RegistrationStateRejected
	cand.CandidateRegistrationNote = &note
	if err := s.DB.WithContext(ctx).Save(&cand).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal menyimpan penolakan")
	}
	return &cand, nil
}

func (s *RegistrationService) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.CandidateModel, error) {
	var cand model.CandidateModel
	if err := s.DB.WithContext(ctx).Where("candidate_user_id = ?", userID).First(&cand).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Kandidat tidak ditemukan")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil kandidat")
	}
	return &cand, nil
}

/* =========================================================
   Generator kode registrasi: SVK-{CIG0x}-{seq:04d}-{YYMMDD}
   Nomor urut per level, naik monoton lewat UPDATE atomik.
========================================================= */

func LevelCode(level string) string {
	if level == "level2" {
		return "CIG02"
	}
	return "CIG01"
}

func (s *RegistrationService) nextRegistrationCode(tx *gorm.DB, level string) (string, error) {
	lc := LevelCode(level)
	datePart := time.Now().Format("060102")

	n, err := nextSequenceNumber(tx, level)
	if err != nil {
		// Fallback: hitung kode yang sudah ada untuk prefix level ini + 1.
		// Tidak atomik — rawan tabrakan saat approve paralel di level yang sama.
		log.Printf("[WARN] sequence registrasi %s tidak tersedia (%v), fallback hitung kode existing", level, err)
		var count int64
		if err := tx.Model(&model.CandidateModel{}).
			Where("candidate_registration_code LIKE ?", fmt.Sprintf("SVK-%s-%%", lc)).
			Count(&count).Error; err != nil {
			return "", fiber.NewError(fiber.StatusInternalServerError, "Gagal membuat kode registrasi")
		}
		n = int(count) + 1
	}

	return fmt.Sprintf("SVK-%s-%04d-%s", lc, n, datePart), nil
}

func nextSequenceNumber(tx *gorm.DB, level string) (int, error) {
	res := tx.Model(&model.RegistrationSequenceModel{}).
		Where("registration_sequence_level = ?", level).
		UpdateColumn("registration_sequence_last_number", gorm.Expr("registration_sequence_last_number + 1"))
	if res.Error != nil {
		return 0, res.Error
	}

	if res.RowsAffected == 0 {
		seq := model.RegistrationSequenceModel{
			RegistrationSequenceLevel:      level,
			RegistrationSequenceLastNumber: 1,
		}
		if err := tx.Create(&seq).Error; err != nil {
			return 0, err
		}
		return 1, nil
	}

	var seq model.RegistrationSequenceModel
	if err := tx.Where("registration_sequence_level = ?", level).First(&seq).Error; err != nil {
		return 0, err
	}
	return seq.RegistrationSequenceLastNumber, nil
}
