package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"sertifikasiku_backend/internals/features/registrations/model"
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

	if err := db.AutoMigrate(&model.CandidateModel{}, &model.RegistrationSequenceModel{}); err != nil {
		t.Fatalf("gagal migrasi: %v", err)
	}
	return db
}

func submitPending(t *testing.T, svc *RegistrationService, level string) *model.CandidateModel {
	t.Helper()
	cand, err := svc.Submit(context.Background(), uuid.New(), "Budi Santoso", "budi@example.com", "new", level)
	if err != nil {
		t.Fatalf("submit registrasi gagal: %v", err)
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

func TestApproveGeneratesRegistrationCode(t *testing.T) {
	svc := NewRegistrationService(newTestDB(t), nil)
	cand := submitPending(t, svc, "level1")

	approved, err := svc.Approve(context.Background(), cand.CandidateID, uuid.New())
	if err != nil {
		t.Fatalf("approve gagal: %v", err)
	}
	if approved.CandidateRegistrationState != model.RegistrationStateApproved {
		t.Fatalf("state = %s, mau approved", approved.CandidateRegistrationState)
	}
	if approved.CandidateRegistrationCode == nil {
		t.Fatal("kode registrasi kosong setelah approve")
	}

	want := fmt.Sprintf("SVK-CIG01-0001-%s", time.Now().Format("060102"))
	if *approved.CandidateRegistrationCode != want {
		t.Fatalf("kode = %s, mau %s", *approved.CandidateRegistrationCode, want)
	}
}

func TestApproveSequenceIncrementsPerLevel(t *testing.T) {
	svc := NewRegistrationService(newTestDB(t), nil)
	admin := uuid.New()

	first := submitPending(t, svc, "level1")
	second := submitPending(t, svc, "level1")
	other := submitPending(t, svc, "level2")

	a1, err := svc.Approve(context.Background(), first.CandidateID, admin)
	if err != nil {
		t.Fatalf("approve pertama gagal: %v", err)
	}
	a2, err := svc.Approve(context.Background(), second.CandidateID, admin)
	if err != nil {
		t.Fatalf("approve kedua gagal: %v", err)
	}
	b1, err := svc.Approve(context.Background(), other.CandidateID, admin)
	if err != nil {
		t.Fatalf("approve level2 gagal: %v", err)
	}

	date := time.Now().Format("060102")
	if got, want := *a1.CandidateRegistrationCode, "SVK-CIG01-0001-"+date; got != want {
		t.Fatalf("kode pertama = %s, mau %s", got, want)
	}
	if got, want := *a2.CandidateRegistrationCode, "SVK-CIG01-0002-"+date; got != want {
		t.Fatalf("kode kedua = %s, mau %s", got, want)
	}
	// Sequence level2 berjalan sendiri, mulai lagi dari 0001.
	if got, want := *b1.CandidateRegistrationCode, "SVK-CIG02-0001-"+date; got != want {
		t.Fatalf("kode level2 = %s, mau %s", got, want)
	}
}

func TestApproveRejectsNonPending(t *testing.T) {
	svc := NewRegistrationService(newTestDB(t), nil)
	admin := uuid.New()
	cand := submitPending(t, svc, "level1")

	if _, err := svc.Approve(context.Background(), cand.CandidateID, admin); err != nil {
		t.Fatalf("approve pertama gagal: %v", err)
	}

	// Approve kedua harus ditolak supaya kode tidak dibuat ulang.
	_, err := svc.Approve(context.Background(), cand.CandidateID, admin)
	if err == nil {
		t.Fatal("approve kedua harusnya gagal")
	}
	if code := fiberStatus(t, err); code != fiber.StatusUnprocessableEntity {
		t.Fatalf("status = %d, mau 422", code)
	}
}

func TestRejectRequiresNote(t *testing.T) {
	svc := NewRegistrationService(newTestDB(t), nil)
	cand := submitPending(t, svc, "level1")

	_, err := svc.Reject(context.Background(), cand.CandidateID, "   ")
	if err == nil {
		t.Fatal("reject tanpa catatan harusnya gagal")
	}
	if code := fiberStatus(t, err); code != fiber.StatusUnprocessableEntity {
		t.Fatalf("status = %d, mau 422", code)
	}

	rejected, err := svc.Reject(context.Background(), cand.CandidateID, "Dokumen identitas tidak terbaca")
	if err != nil {
		t.Fatalf("reject dengan catatan gagal: %v", err)
	}
	if rejected.CandidateRegistrationState != model.RegistrationStateRejected {
		t.Fatalf("state = %s, mau rejected", rejected.CandidateRegistrationState)
	}
}

func TestSubmitAfterApprovedConflicts(t *testing.T) {
	svc := NewRegistrationService(newTestDB(t), nil)
	cand := submitPending(t, svc, "level1")

	if _, err := svc.Approve(context.Background(), cand.CandidateID, uuid.New()); err != nil {
		t.Fatalf("approve gagal: %v", err)
	}

	_, err := svc.Submit(context.Background(), cand.CandidateUserID, "Budi Santoso", "budi@example.com", "new", "level1")
	if err == nil {
		t.Fatal("submit ulang setelah approved harusnya gagal")
	}
	if code := fiberStatus(t, err); code != fiber.StatusConflict {
		t.Fatalf("status = %d, mau 409", code)
	}
}

func TestLevelCode(t *testing.T) {
	if got := LevelCode("level1"); got != "CIG01" {
		t.Fatalf("LevelCode(level1) = %s", got)
	}
	if got := LevelCode("level2"); got != "CIG02" {
		t.Fatalf("LevelCode(level2) = %s", got)
	}
	if got := LevelCode(""); got != "CIG01" {
		t.Fatalf("LevelCode kosong = %s, mau default CIG01", got)
	}
}
