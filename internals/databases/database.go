package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"sertifikasiku_backend/internals/configs"
	applicationModel "sertifikasiku_backend/internals/features/applications/model"
	examModel "sertifikasiku_backend/internals/features/exams/model"
	registrationModel "sertifikasiku_backend/internals/features/registrations/model"
	sessionModel "sertifikasiku_backend/internals/features/sessions/model"
)

var DB *gorm.DB

func ConnectDB() {
	log.Println("🔌 Koneksi ke PostgreSQL...")

	sslmode := getenv("DB_SSLMODE", "require")
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=sertifikasiku&options=-c statement_timeout=3000",
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_NAME"),
		sslmode,
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true, // 👍 cocok untuk PgBouncer (transaction pooling)
	}), &gorm.Config{
		Logger: configs.NewGormLogger(),
	})
	if err != nil {
		log.Fatalf("❌ Gagal konek DB: %v", err)
	}
	DB = db
	log.Println("✅ DB connected.")
}

func TunePool() {
	sqlDB, err := DB.DB()
	if err != nil {
		log.Printf("pool tune err: %v", err)
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

// Migrate menjalankan AutoMigrate seluruh tabel portal sertifikasi.
func Migrate() {
	if err := DB.AutoMigrate(
		&registrationModel.CandidateModel{},
		&registrationModel.RegistrationSequenceModel{},
		&applicationModel.ApplicationModel{},
		&applicationModel.ApplicationLogModel{},
		&examModel.QuizModel{},
		&examModel.QuestionModel{},
		&examModel.QuizAttemptModel{},
		&examModel.AnswerLineModel{},
		&sessionModel.UserSessionModel{},
	); err != nil {
		log.Fatalf("❌ Gagal migrasi DB: %v", err)
	}
	log.Println("✅ Migrasi DB selesai.")
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
