package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	applicationModel "sertifikasiku_backend/internals/features/applications/model"
	applicationService "sertifikasiku_backend/internals/features/applications/service"
	"sertifikasiku_backend/internals/features/exams/dto"
	"sertifikasiku_backend/internals/features/exams/model"
	registrationModel "sertifikasiku_backend/internals/features/registrations/model"
)

// Penalti per pelanggaran mulai pelanggaran kedua.
const violationPenaltyPoints = 10

type securityLogEntry struct {
	Type   string    `json:"type"`
	Detail string    `json:"detail,omitempty"`
	At     time.Time `json:"at"`
}

type AttemptService struct {
	DB *gorm.DB
}

func NewAttemptService(db *gorm.DB) *AttemptService {
	return &AttemptService{DB: db}
}

/* =========================================================
   Mulai / resume attempt
========================================================= */

// StartAttempt idempoten: attempt in_progress yang masih hidup di-resume,
// bukan dibuat baru. Urutan soal diacak per attempt.
func (s *AttemptService) StartAttempt(ctx context.Context, candidateID uuid.UUID) (*model.QuizAttemptModel, []dto.QuestionPublicDTO, error) {
	app, err := s.eligibleApplication(ctx, candidateID)
	if err != nil {
		return nil, nil, err
	}

	// Resume attempt berjalan (refresh browser, pindah halaman).
	var existing model.QuizAttemptModel
	findErr := s.DB.WithContext(ctx).
		Where("quiz_attempt_application_id = ? AND quiz_attempt_state = ?", app.ApplicationID, model.AttemptInProgress).
		First(&existing).Error
	if findErr == nil {
		if time.Now().After(existing.Deadline()) {
			if _, err := s.finalizeAttempt(ctx, &existing, model.FinishReasonTimeout); err != nil {
				return nil, nil, err
			}
			return nil, nil, fiber.NewError(fiber.StatusUnprocessableEntity, "Waktu ujian telah habis")
		}
		questions, err := s.attemptQuestions(ctx, existing.QuizAttemptID)
		if err != nil {
			return nil, nil, err
		}
		return &existing, questions, nil
	}
	if !errors.Is(findErr, gorm.ErrRecordNotFound) {
		return nil, nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal memeriksa attempt")
	}

	// Sudah pernah selesai → tidak boleh mengulang tanpa reset admin.
	var doneCount int64
	if err := s.DB.WithContext(ctx).Model(&model.QuizAttemptModel{}).
		Where("quiz_attempt_application_id = ? AND quiz_attempt_state = ?", app.ApplicationID, model.AttemptDone).
		Count(&doneCount).Error; err != nil {
		return nil, nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal memeriksa attempt")
	}
	if doneCount > 0 {
		return nil, nil, fiber.NewError(fiber.StatusConflict, "Anda sudah menyelesaikan ujian")
	}

	scheme := applicationModel.SchemeLevel1
	if app.ApplicationScheme != nil && *app.ApplicationScheme != "" {
		scheme = *app.ApplicationScheme
	}

	var quiz model.QuizModel
	if err := s.DB.WithContext(ctx).
		Where("quiz_scheme = ? AND quiz_is_active = ?", scheme, true).
		First(&quiz).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fiber.NewError(fiber.StatusNotFound, "Belum ada quiz aktif untuk skema ini")
		}
		return nil, nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil quiz")
	}

	var qs []model.QuestionModel
	if err := s.DB.WithContext(ctx).
		Where("question_quiz_id = ?", quiz.QuizID).
		Find(&qs).Error; err != nil {
		return nil, nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil soal")
	}
	if len(qs) == 0 {
		return nil, nil, fiber.NewError(fiber.StatusUnprocessableEntity, "Quiz belum memiliki soal")
	}

	rand.Shuffle(len(qs), func(i, j int) { qs[i], qs[j] = qs[j], qs[i] })

	// Nama tampilan attempt; kandidat dicari best-effort.
	candidateName := "Kandidat"
	var cand registrationModel.CandidateModel
	if err := s.DB.WithContext(ctx).First(&cand, "candidate_id = ?", candidateID).Error; err == nil {
		candidateName = cand.CandidateFullName
	}

	attempt := model.QuizAttemptModel{
		QuizAttemptDisplayName:      fmt.Sprintf("%s - %s", candidateName, quiz.QuizTitle),
		QuizAttemptQuizID:           quiz.QuizID,
		QuizAttemptApplicationID:    app.ApplicationID,
		QuizAttemptCandidateID:      candidateID,
		QuizAttemptState:            model.AttemptInProgress,
		QuizAttemptStartedAt:        time.Now(),
		QuizAttemptTimeLimitSeconds: quiz.QuizTimeLimitSeconds,
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&attempt).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal membuat attempt")
		}
		for i, q := range qs {
			line := model.AnswerLineModel{
				AnswerLineAttemptID:  attempt.QuizAttemptID,
				AnswerLineQuestionID: q.QuestionID,
				AnswerLinePosition:   i + 1,
			}
			if err := tx.Create(&line).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Gagal menyiapkan lembar jawaban")
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	applicationService.AppendLog(s.DB.WithContext(ctx), app.ApplicationID, nil,
		applicationModel.LogLevelInfo, "Kandidat memulai ujian online")

	questions, err := s.attemptQuestions(ctx, attempt.QuizAttemptID)
	if err != nil {
		return nil, nil, err
	}
	return &attempt, questions, nil
}

// Ujian hanya boleh dimulai oleh aplikasi terjadwal yang hasil ujiannya
// masih pending.
func (s *AttemptService) eligibleApplication(ctx context.Context, candidateID uuid.UUID) (*applicationModel.ApplicationModel, error) {
	var app applicationModel.ApplicationModel
	if err := s.DB.WithContext(ctx).
		Where("application_candidate_id = ?", candidateID).
		First(&app).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Aplikasi tidak ditemukan")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil aplikasi")
	}
	if app.ApplicationState != applicationModel.StateScheduled {
		return nil, fiber.NewError(fiber.StatusForbidden, "Ujian hanya dapat diakses setelah aplikasi terjadwal")
	}
	if app.ApplicationExamResult != applicationModel.ExamResultPending {
		return nil, fiber.NewError(fiber.StatusForbidden, "Hasil ujian Anda sudah ditetapkan")
	}
	if opens, ok := examOpensAt(&app); ok && time.Now().Before(opens) {
		return nil, fiber.NewError(fiber.StatusForbidden,
			"Ujian belum dibuka, jadwal Anda "+opens.Format("2006-01-02 15:04"))
	}
	return &app, nil
}

// examOpensAt menggabungkan exam_date + exam_time ("HH:MM") menjadi waktu
// buka ujian. Tanpa jadwal lengkap, ujian dianggap terbuka.
func examOpensAt(app *applicationModel.ApplicationModel) (time.Time, bool) {
	if app.ApplicationExamDate == nil || app.ApplicationExamTime == nil {
		return time.Time{}, false
	}
	clock, err := time.Parse("15:04", *app.ApplicationExamTime)
	if err != nil {
		return time.Time{}, false
	}
	d := *app.ApplicationExamDate
	return time.Date(d.Year(), d.Month(), d.Day(), clock.Hour(), clock.Minute(), 0, 0, time.Local), true
}

func (s *AttemptService) attemptQuestions(ctx context.Context, attemptID uuid.UUID) ([]dto.QuestionPublicDTO, error) {
	var lines []model.AnswerLineModel
	if err := s.DB.WithContext(ctx).
		Where("answer_line_attempt_id = ?", attemptID).
		Order("answer_line_position ASC").
		Find(&lines).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil lembar jawaban")
	}

	out := make([]dto.QuestionPublicDTO, 0, len(lines))
	for _, line := range lines {
		var q model.QuestionModel
		if err := s.DB.WithContext(ctx).First(&q, "question_id = ?", line.AnswerLineQuestionID).Error; err != nil {
			return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil soal")
		}
		out = append(out, dto.QuestionPublicDTO{
			QuestionID: q.QuestionID.String(),
			Position:   line.AnswerLinePosition,
			Text:       q.QuestionText,
			Options:    q.QuestionOptions,
			Points:     q.QuestionPoints,
			Selected:   line.AnswerLineSelectedKey,
		})
	}
	return out, nil
}

func (s *AttemptService) activeAttempt(ctx context.Context, candidateID uuid.UUID) (*model.QuizAttemptModel, error) {
	var attempt model.QuizAttemptModel
	if err := s.DB.WithContext(ctx).
		Where("quiz_attempt_candidate_id = ? AND quiz_attempt_state = ?", candidateID, model.AttemptInProgress).
		First(&attempt).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Tidak ada ujian yang sedang berjalan")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil attempt")
	}
	return &attempt, nil
}

/* =========================================================
   Jawab soal (skoring reaktif)
========================================================= */

// SubmitAnswer menilai jawaban langsung saat disimpan. Jawaban setelah
// deadline ditolak dan attempt ditutup sebagai timeout.
func (s *AttemptService) SubmitAnswer(ctx context.Context, candidateID uuid.UUID, req dto.SubmitAnswerRequest) error {
	attempt, err := s.activeAttempt(ctx, candidateID)
	if err != nil {
		return err
	}

	if time.Now().After(attempt.Deadline()) {
		if _, err := s.finalizeAttempt(ctx, attempt, model.FinishReasonTimeout); err != nil {
			return err
		}
		return fiber.NewError(fiber.StatusUnprocessableEntity, "Waktu ujian telah habis, jawaban tidak disimpan")
	}

	questionID, err := uuid.Parse(req.QuestionID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "ID soal tidak valid")
	}

	var line model.AnswerLineModel
	if err := s.DB.WithContext(ctx).
		Where("answer_line_attempt_id = ? AND answer_line_question_id = ?", attempt.QuizAttemptID, questionID).
		First(&line).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Soal tidak ada di lembar jawaban Anda")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil lembar jawaban")
	}

	var q model.QuestionModel
	if err := s.DB.WithContext(ctx).First(&q, "question_id = ?", questionID).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil soal")
	}

	selected := req.SelectedKey
	line.AnswerLineSelectedKey = &selected
	line.AnswerLineIsCorrect = selected == q.QuestionCorrectKey
	if line.AnswerLineIsCorrect {
		line.AnswerLinePointsEarned = float64(q.QuestionPoints)
	} else {
		line.AnswerLinePointsEarned = 0
	}

	if err := s.DB.WithContext(ctx).Save(&line).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal menyimpan jawaban")
	}
	return nil
}

/* =========================================================
   Selesai / finalisasi
========================================================= */

// Finish idempoten: attempt yang sudah done mengembalikan hasil yang sama.
func (s *AttemptService) Finish(ctx context.Context, candidateID uuid.UUID) (*model.QuizAttemptModel, error) {
	var attempt model.QuizAttemptModel
	err := s.DB.WithContext(ctx).
		Where("quiz_attempt_candidate_id = ?", candidateID).
		Order("quiz_attempt_started_at DESC").
		First(&attempt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Tidak ada ujian untuk diselesaikan")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil attempt")
	}

	if attempt.QuizAttemptState == model.AttemptDone {
		return &attempt, nil
	}

	reason := model.FinishReasonManual
	if time.Now().After(attempt.Deadline()) {
		reason = model.FinishReasonTimeout
	}
	return s.finalizeAttempt(ctx, &attempt, reason)
}

// finalizeAttempt menghitung skor akhir dan meneruskan hasilnya ke aplikasi.
// score_percentage = max(0, 100*total/max − penalti); max_score 0 → 0.
func (s *AttemptService) finalizeAttempt(ctx context.Context, attempt *model.QuizAttemptModel, reason string) (*model.QuizAttemptModel, error) {
	var quiz model.QuizModel
	if err := s.DB.WithContext(ctx).First(&quiz, "quiz_id = ?", attempt.QuizAttemptQuizID).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil quiz")
	}

	var lines []model.AnswerLineModel
	if err := s.DB.WithContext(ctx).
		Where("answer_line_attempt_id = ?", attempt.QuizAttemptID).
		Find(&lines).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil lembar jawaban")
	}

	total := 0.0
	maxScore := 0.0
	for _, line := range lines {
		total += line.AnswerLinePointsEarned
		var q model.QuestionModel
		if err := s.DB.WithContext(ctx).First(&q, "question_id = ?", line.AnswerLineQuestionID).Error; err != nil {
			return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil soal")
		}
		maxScore += float64(q.QuestionPoints)
	}

	percentage := 0.0
	if maxScore > 0 {
		percentage = 100*total/maxScore - attempt.QuizAttemptPenaltyPoints
		if percentage < 0 {
			percentage = 0
		}
	}

	now := time.Now()
	attempt.QuizAttemptState = model.AttemptDone
	attempt.QuizAttemptEndedAt = &now
	attempt.QuizAttemptFinishReason = &reason
	attempt.QuizAttemptTotalScore = total
	attempt.QuizAttemptMaxScore = maxScore
	attempt.QuizAttemptScorePercentage = percentage
	attempt.QuizAttemptIsPassed = percentage >= quiz.QuizPassingScore

	if err := s.DB.WithContext(ctx).Save(attempt).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal menyimpan hasil ujian")
	}

	// Hasil diteruskan ke aplikasi sertifikasi.
	examResult := applicationModel.ExamResultFailed
	if attempt.QuizAttemptIsPassed {
		examResult = applicationModel.ExamResultPassed
	}
	if err := s.DB.WithContext(ctx).Model(&applicationModel.ApplicationModel{}).
		Where("application_id = ?", attempt.QuizAttemptApplicationID).
		UpdateColumn("application_exam_result", examResult).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal menyimpan hasil ujian ke aplikasi")
	}

	applicationService.AppendLog(s.DB.WithContext(ctx), attempt.QuizAttemptApplicationID, nil,
		applicationModel.LogLevelInfo,
		fmt.Sprintf("Ujian selesai (%s): skor %.1f%%, hasil %s", reason, percentage, examResult))

	return attempt, nil
}

/* =========================================================
   Pelanggaran anti-cheat
========================================================= */

// LogViolation: eskalasi bertingkat per attempt.
//
//	pelanggaran ke-1 → warning
//	pelanggaran ke-2 → penalti 10 poin
//	pelanggaran ke-3+ → auto submit (tanpa penalti tambahan)
func (s *AttemptService) LogViolation(ctx context.Context, candidateID uuid.UUID, req dto.LogViolationRequest) (*dto.ViolationResultDTO, error) {
	attempt, err := s.activeAttempt(ctx, candidateID)
	if err != nil {
		return nil, err
	}

	attempt.QuizAttemptViolationCount++
	count := attempt.QuizAttemptViolationCount

	var entries []securityLogEntry
	if len(attempt.QuizAttemptSecurityLog) > 0 {
		if err := sonic.Unmarshal(attempt.QuizAttemptSecurityLog, &entries); err != nil {
			entries = nil
		}
	}
	entries = append(entries, securityLogEntry{
		Type:   req.Type,
		Detail: req.Detail,
		At:     time.Now(),
	})
	if raw, err := sonic.Marshal(entries); err == nil {
		attempt.QuizAttemptSecurityLog = datatypes.JSON(raw)
	}

	result := dto.ViolationResultDTO{Count: count}
	switch {
	case count == 1:
		result.Action = "warning"
		result.Message = "Peringatan: aktivitas Anda terdeteksi meninggalkan halaman ujian. Pelanggaran berikutnya dikenai penalti."
	case count == 2:
		attempt.QuizAttemptPenaltyPoints += violationPenaltyPoints
		result.Action = "penalty"
		result.Message = fmt.Sprintf("Pelanggaran kedua: penalti %d poin diterapkan pada nilai akhir Anda.", violationPenaltyPoints)
	default:
		result.Action = "auto_submit"
		result.Message = "Pelanggaran ketiga: ujian Anda dikumpulkan otomatis."
	}
	result.TotalPenalty = attempt.QuizAttemptPenaltyPoints

	if err := s.DB.WithContext(ctx).Save(attempt).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal mencatat pelanggaran")
	}

	if result.Action == "auto_submit" {
		applicationService.AppendLog(s.DB.WithContext(ctx), attempt.QuizAttemptApplicationID, nil,
			applicationModel.LogLevelWarning,
			fmt.Sprintf("Ujian dikumpulkan otomatis: %d pelanggaran (%s)", count, req.Type))
		if _, err := s.finalizeAttempt(ctx, attempt, model.FinishReasonViolation); err != nil {
			return nil, err
		}
	}

	return &result, nil
}

/* =========================================================
   Admin: hasil & reset
========================================================= */

func (s *AttemptService) ResultByApplication(ctx context.Context, appID uuid.UUID) (*model.QuizAttemptModel, error) {
	var attempt model.QuizAttemptModel
	if err := s.DB.WithContext(ctx).
		Where("quiz_attempt_application_id = ? AND quiz_attempt_state = ?", appID, model.AttemptDone).
		Order("quiz_attempt_started_at DESC").
		First(&attempt).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Belum ada hasil ujian")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil hasil ujian")
	}
	return &attempt, nil
}

// ResetAttempts menghapus seluruh attempt aplikasi sehingga kandidat bisa
// mengulang ujian; hasil ujian di aplikasi dikembalikan ke pending.
func (s *AttemptService) ResetAttempts(ctx context.Context, appID, adminID uuid.UUID) error {
	var app applicationModel.ApplicationModel
	if err := s.DB.WithContext(ctx).First(&app, "application_id = ?", appID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Aplikasi tidak ditemukan")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil aplikasi")
	}
	if app.ApplicationState == applicationModel.StateCertified {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "Aplikasi yang sudah tersertifikasi tidak dapat direset")
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var attempts []model.QuizAttemptModel
		if err := tx.Where("quiz_attempt_application_id = ?", appID).Find(&attempts).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil attempt")
		}
		if len(attempts) == 0 {
			return fiber.NewError(fiber.StatusUnprocessableEntity, "Tidak ada attempt untuk direset")
		}
		for _, a := range attempts {
			if err := tx.Where("answer_line_attempt_id = ?", a.QuizAttemptID).
				Delete(&model.AnswerLineModel{}).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Gagal menghapus lembar jawaban")
			}
		}
		if err := tx.Where("quiz_attempt_application_id = ?", appID).
			Delete(&model.QuizAttemptModel{}).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal menghapus attempt")
		}
		if err := tx.Model(&applicationModel.ApplicationModel{}).
			Where("application_id = ?", appID).
			UpdateColumn("application_exam_result", applicationModel.ExamResultPending).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal mereset hasil ujian")
		}
		return nil
	})
	if err != nil {
		return err
	}

	applicationService.AppendLog(s.DB.WithContext(ctx), appID, &adminID,
		applicationModel.LogLevelInfo, "Attempt ujian direset oleh admin")
	return nil
}
