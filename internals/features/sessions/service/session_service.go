package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"sertifikasiku_backend/internals/features/sessions/model"
)

// Sesi tanpa heartbeat lebih lama dari ini dianggap basi dan boleh diganti.
const stalenessWindow = 5 * time.Minute

type SessionService struct {
	DB *gorm.DB
}

func NewSessionService(db *gorm.DB) *SessionService {
	return &SessionService{DB: db}
}

type ValidationResult struct {
	Valid   bool    `json:"valid"`
	Reason  *string `json:"reason,omitempty"`
	Rotated bool    `json:"rotated,omitempty"`
}

// CreateSession menonaktifkan seluruh sesi aktif user (reason new_device) lalu
// menyimpan token sesi yang dikirim klien sebagai sesi aktif baru, dalam satu
// transaksi. Selalu sukses kecuali DB error; jumlah sesi tergusur ikut
// dikembalikan supaya frontend bisa memberi tahu user.
func (s *SessionService) CreateSession(ctx context.Context, userID uuid.UUID, token, fingerprint, ip, userAgent string) (*model.UserSessionModel, int64, error) {
	var session model.UserSessionModel
	var evicted int64

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.UserSessionModel{}).
			Where("user_session_user_id = ? AND user_session_is_active = ?", userID, true).
			Updates(map[string]interface{}{
				"user_session_is_active":          false,
				"user_session_deactivated_reason": model.ReasonNewDevice,
			})
		if res.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal menonaktifkan sesi lama")
		}
		evicted = res.RowsAffected

		session = model.UserSessionModel{
			UserSessionUserID:            userID,
			UserSessionToken:             token,
			UserSessionDeviceFingerprint: fingerprint,
			UserSessionIsActive:          true,
			UserSessionLastSeenAt:        time.Now(),
		}
		if ip != "" {
			session.UserSessionIPAddress = &ip
		}
		if userAgent != "" {
			session.UserSessionUserAgent = &userAgent
		}
		if err := tx.Create(&session).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal membuat sesi")
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	if evicted > 0 {
		log.Printf("[INFO] %d sesi lama user %s tergusur perangkat baru", evicted, userID)
	}
	return &session, evicted, nil
}

// ValidateSession: empat langkah berurutan.
//  1. Sesi aktif dengan token ini → heartbeat last_seen, valid.
//  2. Ada sesi aktif lain: heartbeat-nya < 5 menit → perangkat lain masih
//     dipakai, invalid. Sudah basi → nonaktifkan (reason expired), lanjut.
//  3. autoCreate dan tidak ada sesi aktif tersisa → aktifkan token ini
//     sebagai sesi baru, valid.
//  4. Selain itu invalid.
func (s *SessionService) ValidateSession(ctx context.Context, userID uuid.UUID, token, fingerprint string, autoCreate bool) (*ValidationResult, error) {
	if token == "" {
		return invalid("empty_token"), nil
	}

	var result *ValidationResult
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. Token ini masih jadi sesi aktif user.
		var session model.UserSessionModel
		err := tx.Where("user_session_user_id = ? AND user_session_token = ? AND user_session_is_active = ?",
			userID, token, true).
			First(&session).Error
		if err == nil {
			if err := tx.Model(&session).
				UpdateColumn("user_session_last_seen_at", time.Now()).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Gagal memperbarui sesi")
			}
			result = &ValidationResult{Valid: true}
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal memeriksa sesi")
		}

		// 2. Ada sesi aktif lain = token berbeda = perangkat lain.
		rotated := false
		var other model.UserSessionModel
		err = tx.Where("user_session_user_id = ? AND user_session_is_active = ?", userID, true).
			First(&other).Error
		if err == nil {
			if time.Since(other.UserSessionLastSeenAt) <= stalenessWindow {
				// Perangkat lain benar-benar sedang aktif.
				log.Printf("[WARN] Multi-device terdeteksi untuk user %s (heartbeat terakhir %s)",
					userID, other.UserSessionLastSeenAt.Format(time.RFC3339))
				result = invalid(model.ReasonNewDevice)
				return nil
			}
			// Sesi basi, singkirkan dan ganti dengan token yang dikirim.
			if err := tx.Model(&other).
				Updates(map[string]interface{}{
					"user_session_is_active":          false,
					"user_session_deactivated_reason": model.ReasonExpired,
				}).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Gagal memperbarui sesi")
			}
			rotated = true
			log.Printf("[INFO] Sesi basi user %s diganti token baru", userID)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal memeriksa sesi")
		}

		// 3. Auto-create: aktifkan token ini sebagai sesi baru. Kalau token
		// pernah tercatat (mis. sesi lama yang tergusur), baris lamanya
		// dihidupkan kembali supaya unique index token tidak bentrok.
		if autoCreate {
			var existing model.UserSessionModel
			err := tx.Where("user_session_token = ?", token).First(&existing).Error
			switch {
			case err == nil:
				if existing.UserSessionUserID != userID {
					result = invalid("token_conflict")
					return nil
				}
				if err := tx.Model(&existing).
					Updates(map[string]interface{}{
						"user_session_is_active":          true,
						"user_session_deactivated_reason": nil,
						"user_session_last_seen_at":       time.Now(),
					}).Error; err != nil {
					return fiber.NewError(fiber.StatusInternalServerError, "Gagal mengaktifkan sesi")
				}
			case errors.Is(err, gorm.ErrRecordNotFound):
				fresh := model.UserSessionModel{
					UserSessionUserID:            userID,
					UserSessionToken:             token,
					UserSessionDeviceFingerprint: fingerprint,
					UserSessionIsActive:          true,
					UserSessionLastSeenAt:        time.Now(),
				}
				if err := tx.Create(&fresh).Error; err != nil {
					return fiber.NewError(fiber.StatusInternalServerError, "Gagal membuat sesi")
				}
			default:
				return fiber.NewError(fiber.StatusInternalServerError, "Gagal memeriksa sesi")
			}
			result = &ValidationResult{Valid: true, Rotated: rotated}
			return nil
		}

		// 4. Tanpa auto-create tidak ada yang bisa divalidasi.
		if rotated {
			result = invalid(model.ReasonExpired)
			return nil
		}
		result = invalid("no_session")
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func invalid(reason string) *ValidationResult {
	return &ValidationResult{Valid: false, Reason: &reason}
}

// Logout: user menonaktifkan sesinya sendiri (reason manual).
func (s *SessionService) Deactivate(ctx context.Context, userID uuid.UUID, token string) error {
	res := s.DB.WithContext(ctx).Model(&model.UserSessionModel{}).
		Where("user_session_token = ? AND user_session_user_id = ? AND user_session_is_active = ?", token, userID, true).
		Updates(map[string]interface{}{
			"user_session_is_active":          false,
			"user_session_deactivated_reason": model.ReasonManual,
		})
	if res.Error != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal menonaktifkan sesi")
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "Sesi tidak ditemukan")
	}
	return nil
}

// Admin: paksa logout seluruh sesi aktif user (reason admin).
func (s *SessionService) ForceLogout(ctx context.Context, userID uuid.UUID) (int64, error) {
	res := s.DB.WithContext(ctx).Model(&model.UserSessionModel{}).
		Where("user_session_user_id = ? AND user_session_is_active = ?", userID, true).
		Updates(map[string]interface{}{
			"user_session_is_active":          false,
			"user_session_deactivated_reason": model.ReasonAdmin,
		})
	if res.Error != nil {
		return 0, fiber.NewError(fiber.StatusInternalServerError, "Gagal memaksa logout")
	}
	return res.RowsAffected, nil
}

// Admin: hapus SELURUH riwayat sesi user (bukan sekadar nonaktif).
// User harus login ulang setelahnya.
func (s *SessionService) ClearAllSessions(ctx context.Context, userID uuid.UUID) (int64, error) {
	res := s.DB.WithContext(ctx).
		Where("user_session_user_id = ?", userID).
		Delete(&model.UserSessionModel{})
	if res.Error != nil {
		return 0, fiber.NewError(fiber.StatusInternalServerError, "Gagal menghapus sesi")
	}
	log.Printf("[INFO] %d sesi user %s dihapus oleh admin", res.RowsAffected, userID)
	return res.RowsAffected, nil
}
