package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"sertifikasiku_backend/internals/features/sessions/model"
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

	if err := db.AutoMigrate(&model.UserSessionModel{}); err != nil {
		t.Fatalf("gagal migrasi: %v", err)
	}
	return db
}

func backdateSession(t *testing.T, db *gorm.DB, sessionID uuid.UUID, d time.Duration) {
	t.Helper()
	if err := db.Model(&model.UserSessionModel{}).
		Where("user_session_id = ?", sessionID).
		UpdateColumn("user_session_last_seen_at", time.Now().Add(-d)).Error; err != nil {
		t.Fatalf("gagal memundurkan last_seen: %v", err)
	}
}

func TestCreateSessionEvictsOldOnes(t *testing.T) {
	db := newTestDB(t)
	svc := NewSessionService(db)
	userID := uuid.New()
	ctx := context.Background()

	_, evicted, err := svc.CreateSession(ctx, userID, "tok-laptop", "fp-laptop", "10.0.0.1", "Mozilla")
	if err != nil {
		t.Fatalf("sesi pertama gagal: %v", err)
	}
	if evicted != 0 {
		t.Fatalf("evicted = %d, mau 0", evicted)
	}

	_, evicted, err = svc.CreateSession(ctx, userID, "tok-hp", "fp-hp", "10.0.0.2", "Chrome Mobile")
	if err != nil {
		t.Fatalf("sesi kedua gagal: %v", err)
	}
	if evicted != 1 {
		t.Fatalf("evicted = %d, mau 1", evicted)
	}

	// Hanya satu sesi aktif tersisa.
	var active int64
	if err := db.Model(&model.UserSessionModel{}).
		Where("user_session_user_id = ? AND user_session_is_active = ?", userID, true).
		Count(&active).Error; err != nil {
		t.Fatalf("gagal menghitung sesi: %v", err)
	}
	if active != 1 {
		t.Fatalf("sesi aktif = %d, mau 1", active)
	}

	// Sesi lama tergusur dengan reason new_device.
	var old model.UserSessionModel
	if err := db.First(&old, "user_session_token = ?", "tok-laptop").Error; err != nil {
		t.Fatalf("gagal mengambil sesi lama: %v", err)
	}
	if old.UserSessionIsActive {
		t.Fatal("sesi lama masih aktif")
	}
	if old.UserSessionDeactivatedReason == nil || *old.UserSessionDeactivatedReason != model.ReasonNewDevice {
		t.Fatalf("reason = %v, mau new_device", old.UserSessionDeactivatedReason)
	}
}

func TestValidateSessionActiveTokenHeartbeat(t *testing.T) {
	db := newTestDB(t)
	svc := NewSessionService(db)
	userID := uuid.New()
	ctx := context.Background()

	session, _, err := svc.CreateSession(ctx, userID, "tok-laptop", "fp-laptop", "", "")
	if err != nil {
		t.Fatalf("create gagal: %v", err)
	}

	// last_seen hampir basi; token aktif tetap valid dan heartbeat refresh.
	backdateSession(t, db, session.UserSessionID, stalenessWindow-30*time.Second)

	res, err := svc.ValidateSession(ctx, userID, "tok-laptop", "fp-laptop", true)
	if err != nil {
		t.Fatalf("validate gagal: %v", err)
	}
	if !res.Valid {
		t.Fatalf("hasil = %+v, mau valid", res)
	}

	var got model.UserSessionModel
	if err := db.First(&got, "user_session_id = ?", session.UserSessionID).Error; err != nil {
		t.Fatalf("gagal mengambil sesi: %v", err)
	}
	if time.Since(got.UserSessionLastSeenAt) > time.Minute {
		t.Fatal("last_seen tidak diperbarui oleh heartbeat")
	}
}

func TestValidateSessionFreshCompetitorInvalid(t *testing.T) {
	db := newTestDB(t)
	svc := NewSessionService(db)
	userID := uuid.New()
	ctx := context.Background()

	// Perangkat lain baru saja login dan masih aktif.
	if _, _, err := svc.CreateSession(ctx, userID, "tok-hp", "fp-hp", "", ""); err != nil {
		t.Fatalf("create gagal: %v", err)
	}

	res, err := svc.ValidateSession(ctx, userID, "tok-laptop", "fp-laptop", true)
	if err != nil {
		t.Fatalf("validate gagal: %v", err)
	}
	if res.Valid {
		t.Fatalf("hasil = %+v, mau invalid (perangkat lain masih aktif)", res)
	}
	if res.Reason == nil || *res.Reason != model.ReasonNewDevice {
		t.Fatalf("reason = %v, mau new_device", res.Reason)
	}

	// Sesi perangkat lain tidak boleh ikut tergusur.
	var other model.UserSessionModel
	if err := db.First(&other, "user_session_token = ?", "tok-hp").Error; err != nil {
		t.Fatalf("gagal mengambil sesi: %v", err)
	}
	if !other.UserSessionIsActive {
		t.Fatal("sesi perangkat aktif ikut dinonaktifkan")
	}
}

func TestValidateSessionRotatesStaleCompetitor(t *testing.T) {
	db := newTestDB(t)
	svc := NewSessionService(db)
	userID := uuid.New()
	ctx := context.Background()

	old, _, err := svc.CreateSession(ctx, userID, "tok-lama", "fp-laptop", "", "")
	if err != nil {
		t.Fatalf("create gagal: %v", err)
	}

	// Perangkat lama diam >5 menit; token baru harus mengambil alih.
	backdateSession(t, db, old.UserSessionID, stalenessWindow+time.Minute)

	res, err := svc.ValidateSession(ctx, userID, "tok-baru", "fp-laptop", true)
	if err != nil {
		t.Fatalf("validate gagal: %v", err)
	}
	if !res.Valid {
		t.Fatalf("hasil = %+v, mau valid (sesi basi diganti)", res)
	}
	if !res.Rotated {
		t.Fatalf("hasil = %+v, mau rotated", res)
	}

	// Sesi basi dinonaktifkan dengan reason expired.
	var stale model.UserSessionModel
	if err := db.First(&stale, "user_session_id = ?", old.UserSessionID).Error; err != nil {
		t.Fatalf("gagal mengambil sesi lama: %v", err)
	}
	if stale.UserSessionIsActive {
		t.Fatal("sesi basi masih aktif")
	}
	if stale.UserSessionDeactivatedReason == nil || *stale.UserSessionDeactivatedReason != model.ReasonExpired {
		t.Fatalf("reason = %v, mau expired", stale.UserSessionDeactivatedReason)
	}

	// Token baru kini jadi satu-satunya sesi aktif.
	var fresh model.UserSessionModel
	if err := db.First(&fresh, "user_session_token = ? AND user_session_is_active = ?", "tok-baru", true).Error; err != nil {
		t.Fatalf("sesi baru tidak aktif: %v", err)
	}
	if fresh.UserSessionUserID != userID {
		t.Fatal("sesi baru bukan milik user")
	}
}

func TestValidateSessionAutoCreateWithoutExisting(t *testing.T) {
	db := newTestDB(t)
	svc := NewSessionService(db)
	userID := uuid.New()
	ctx := context.Background()

	// Belum ada sesi sama sekali → auto-create.
	res, err := svc.ValidateSession(ctx, userID, "tok-baru", "fp-laptop", true)
	if err != nil {
		t.Fatalf("validate gagal: %v", err)
	}
	if !res.Valid {
		t.Fatalf("hasil = %+v, mau valid", res)
	}

	var got model.UserSessionModel
	if err := db.First(&got, "user_session_token = ?", "tok-baru").Error; err != nil {
		t.Fatalf("sesi tidak dibuat: %v", err)
	}
	if !got.UserSessionIsActive {
		t.Fatal("sesi auto-create tidak aktif")
	}

	// Tanpa auto-create hasilnya invalid dan tidak ada baris baru.
	res, err = svc.ValidateSession(ctx, uuid.New(), "tok-lain", "fp", false)
	if err != nil {
		t.Fatalf("validate gagal: %v", err)
	}
	if res.Valid {
		t.Fatalf("hasil = %+v, mau invalid tanpa auto-create", res)
	}
}

func TestValidateSessionReactivatesEvictedToken(t *testing.T) {
	db := newTestDB(t)
	svc := NewSessionService(db)
	userID := uuid.New()
	ctx := context.Background()

	if _, _, err := svc.CreateSession(ctx, userID, "tok-laptop", "fp-laptop", "", ""); err != nil {
		t.Fatalf("create gagal: %v", err)
	}
	second, _, err := svc.CreateSession(ctx, userID, "tok-hp", "fp-hp", "", "")
	if err != nil {
		t.Fatalf("create kedua gagal: %v", err)
	}

	// Perangkat kedua ditinggal sampai basi; perangkat pertama kembali
	// memakai token lamanya → baris lamanya dihidupkan kembali.
	backdateSession(t, db, second.UserSessionID, stalenessWindow+time.Minute)

	res, err := svc.ValidateSession(ctx, userID, "tok-laptop", "fp-laptop", true)
	if err != nil {
		t.Fatalf("validate gagal: %v", err)
	}
	if !res.Valid {
		t.Fatalf("hasil = %+v, mau valid", res)
	}

	var active int64
	if err := db.Model(&model.UserSessionModel{}).
		Where("user_session_user_id = ? AND user_session_is_active = ?", userID, true).
		Count(&active).Error; err != nil {
		t.Fatalf("gagal menghitung sesi: %v", err)
	}
	if active != 1 {
		t.Fatalf("sesi aktif = %d, mau 1", active)
	}

	var got model.UserSessionModel
	if err := db.First(&got, "user_session_token = ?", "tok-laptop").Error; err != nil {
		t.Fatalf("gagal mengambil sesi: %v", err)
	}
	if !got.UserSessionIsActive {
		t.Fatal("token lama tidak dihidupkan kembali")
	}
	if got.UserSessionDeactivatedReason != nil {
		t.Fatalf("reason = %v, mau kosong setelah reaktivasi", got.UserSessionDeactivatedReason)
	}
}

func TestValidateSessionEmptyToken(t *testing.T) {
	db := newTestDB(t)
	svc := NewSessionService(db)

	res, err := svc.ValidateSession(context.Background(), uuid.New(), "", "fp", true)
	if err != nil {
		t.Fatalf("validate gagal: %v", err)
	}
	if res.Valid {
		t.Fatalf("hasil = %+v, mau invalid untuk token kosong", res)
	}
}

func TestDeactivateManualLogout(t *testing.T) {
	db := newTestDB(t)
	svc := NewSessionService(db)
	userID := uuid.New()
	ctx := context.Background()

	session, _, err := svc.CreateSession(ctx, userID, "tok-laptop", "fp-laptop", "", "")
	if err != nil {
		t.Fatalf("create gagal: %v", err)
	}

	if err := svc.Deactivate(ctx, userID, "tok-laptop"); err != nil {
		t.Fatalf("logout gagal: %v", err)
	}

	var got model.UserSessionModel
	if err := db.First(&got, "user_session_id = ?", session.UserSessionID).Error; err != nil {
		t.Fatalf("gagal mengambil sesi: %v", err)
	}
	if got.UserSessionIsActive {
		t.Fatal("sesi masih aktif setelah logout")
	}
	if got.UserSessionDeactivatedReason == nil || *got.UserSessionDeactivatedReason != model.ReasonManual {
		t.Fatalf("reason = %v, mau manual", got.UserSessionDeactivatedReason)
	}
}

func TestForceLogout(t *testing.T) {
	db := newTestDB(t)
	svc := NewSessionService(db)
	userID := uuid.New()
	ctx := context.Background()

	if _, _, err := svc.CreateSession(ctx, userID, "tok-laptop", "fp-laptop", "", ""); err != nil {
		t.Fatalf("create gagal: %v", err)
	}

	count, err := svc.ForceLogout(ctx, userID)
	if err != nil {
		t.Fatalf("force logout gagal: %v", err)
	}
	if count != 1 {
		t.Fatalf("deactivated = %d, mau 1", count)
	}

	var got model.UserSessionModel
	if err := db.First(&got, "user_session_token = ?", "tok-laptop").Error; err != nil {
		t.Fatalf("gagal mengambil sesi: %v", err)
	}
	if got.UserSessionIsActive {
		t.Fatal("sesi masih aktif")
	}
	if got.UserSessionDeactivatedReason == nil || *got.UserSessionDeactivatedReason != model.ReasonAdmin {
		t.Fatalf("reason = %v, mau admin", got.UserSessionDeactivatedReason)
	}
}

func TestClearAllSessionsDeletesRows(t *testing.T) {
	db := newTestDB(t)
	svc := NewSessionService(db)
	userID := uuid.New()
	otherID := uuid.New()
	ctx := context.Background()

	if _, _, err := svc.CreateSession(ctx, userID, "tok-1", "fp-1", "", ""); err != nil {
		t.Fatalf("create gagal: %v", err)
	}
	if _, _, err := svc.CreateSession(ctx, userID, "tok-2", "fp-2", "", ""); err != nil {
		t.Fatalf("create kedua gagal: %v", err)
	}
	if _, _, err := svc.CreateSession(ctx, otherID, "tok-lain", "fp-lain", "", ""); err != nil {
		t.Fatalf("create user lain gagal: %v", err)
	}

	deleted, err := svc.ClearAllSessions(ctx, userID)
	if err != nil {
		t.Fatalf("clear gagal: %v", err)
	}
	if deleted != 2 {
		t.Fatalf("deleted = %d, mau 2 (aktif + tergusur)", deleted)
	}

	// Baris benar-benar terhapus, bukan sekadar nonaktif.
	var remaining int64
	if err := db.Model(&model.UserSessionModel{}).
		Where("user_session_user_id = ?", userID).
		Count(&remaining).Error; err != nil {
		t.Fatalf("gagal menghitung sesi: %v", err)
	}
	if remaining != 0 {
		t.Fatalf("masih tersisa %d baris sesi", remaining)
	}

	// Sesi user lain tidak ikut terhapus.
	var others int64
	if err := db.Model(&model.UserSessionModel{}).
		Where("user_session_user_id = ?", otherID).
		Count(&others).Error; err != nil {
		t.Fatalf("gagal menghitung sesi user lain: %v", err)
	}
	if others != 1 {
		t.Fatalf("sesi user lain = %d, mau 1", others)
	}
}
