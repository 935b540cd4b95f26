package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// State aplikasi sertifikasi
const (
	StateDraft     = "draft"
	StateSubmitted = "submitted"
	StateRevision  = "revision"
	StatePayment   = "payment"
	StateVerified  = "verified"
	StateScheduled = "scheduled"
	StateCertified = "certified"
	StateRejected  = "rejected"
)

// Skema sertifikasi (Coating Inspector)
const (
	SchemeLevel1 = "level1"
	SchemeLevel2 = "level2"
)

// Status pembayaran
const (
	PaymentUnpaid  = "unpaid"
	PaymentPending = "pending"
	PaymentPaid    = "paid"
	PaymentExpired = "expired"
	PaymentFailed  = "failed"
)

// Hasil ujian
const (
	ExamResultPending = "pending"
	ExamResultPassed  = "passed"
	ExamResultFailed  = "failed"
)

type ApplicationModel struct {
	ApplicationID          uuid.UUID `gorm:"column:application_id;type:uuid;primaryKey" json:"application_id"`
	ApplicationCandidateID uuid.UUID `gorm:"column:application_candidate_id;type:uuid;not null;index" json:"application_candidate_id"`

	ApplicationState       string `gorm:"column:application_state;type:varchar(20);not null;default:draft" json:"application_state"`
	ApplicationCurrentStep int    `gorm:"column:application_current_step;not null;default:1" json:"application_current_step"` // 1=Data Diri, 2=Skema, 3=Berkas, 4=Done

	// --- STEP 1 (DATA DIRI) ---
	ApplicationNIK              *string    `gorm:"column:application_nik;type:varchar(32)" json:"application_nik,omitempty"`
	ApplicationBirthDate        *time.Time `gorm:"column:application_birth_date" json:"application_birth_date,omitempty"`
	ApplicationPlaceOfBirth     *string    `gorm:"column:application_place_of_birth;type:varchar(128)" json:"application_place_of_birth,omitempty"`
	ApplicationLastEducation    *string    `gorm:"column:application_last_education;type:varchar(128)" json:"application_last_education,omitempty"`
	ApplicationNationality      *string    `gorm:"column:application_nationality;type:varchar(64)" json:"application_nationality,omitempty"`
	ApplicationPhone            *string    `gorm:"column:application_phone;type:varchar(32)" json:"application_phone,omitempty"`
	ApplicationAddress          *string    `gorm:"column:application_address;type:text" json:"application_address,omitempty"`
	ApplicationSpecialNeeds     bool       `gorm:"column:application_special_needs;not null;default:false" json:"application_special_needs"`
	ApplicationSpecialNeedsDesc *string    `gorm:"column:application_special_needs_desc;type:text" json:"application_special_needs_desc,omitempty"`

	// --- STEP 2 (SKEMA) ---
	ApplicationType               string  `gorm:"column:application_type;type:varchar(10);not null;default:new" json:"application_type"` // new | recert
	ApplicationPreviousCertNumber *string `gorm:"column:application_previous_cert_number;type:varchar(64)" json:"application_previous_cert_number,omitempty"`
	ApplicationScheme             *string `gorm:"column:application_scheme;type:varchar(10)" json:"application_scheme,omitempty"` // level1 | level2

	// --- STEP 3 (DOKUMEN) ---
	// Binary file disimpan di storage eksternal; di sini hanya object key.
	ApplicationPasFotoKey      *string `gorm:"column:application_pas_foto_key;type:varchar(255)" json:"application_pas_foto_key,omitempty"`
	ApplicationKTPKey          *string `gorm:"column:application_ktp_key;type:varchar(255)" json:"application_ktp_key,omitempty"`
	ApplicationIjazahKey       *string `gorm:"column:application_ijazah_key;type:varchar(255)" json:"application_ijazah_key,omitempty"`
	ApplicationIshiharaKey     *string `gorm:"column:application_ishihara_key;type:varchar(255)" json:"application_ishihara_key,omitempty"`
	ApplicationSKCKKey         *string `gorm:"column:application_skck_key;type:varchar(255)" json:"application_skck_key,omitempty"`
	ApplicationTrainingCertKey *string `gorm:"column:application_training_cert_key;type:varchar(255)" json:"application_training_cert_key,omitempty"`
	ApplicationCVKey           *string `gorm:"column:application_cv_key;type:varchar(255)" json:"application_cv_key,omitempty"`
	ApplicationCertLevel1Key   *string `gorm:"column:application_cert_level1_key;type:varchar(255)" json:"application_cert_level1_key,omitempty"`
	ApplicationPreviousCertKey *string `gorm:"column:application_previous_cert_key;type:varchar(255)" json:"application_previous_cert_key,omitempty"`
	ApplicationLogbookKey      *string `gorm:"column:application_logbook_key;type:varchar(255)" json:"application_logbook_key,omitempty"`
	ApplicationAdditionalKey   *string `gorm:"column:application_additional_key;type:varchar(255)" json:"application_additional_key,omitempty"`

	// Flag revisi per dokumen (diisi admin saat request revision).
	ApplicationRevisionPasFoto      bool `gorm:"column:application_revision_pas_foto;not null;default:false" json:"application_revision_pas_foto"`
	ApplicationRevisionKTP          bool `gorm:"column:application_revision_ktp;not null;default:false" json:"application_revision_ktp"`
	ApplicationRevisionIjazah       bool `gorm:"column:application_revision_ijazah;not null;default:false" json:"application_revision_ijazah"`
	ApplicationRevisionIshihara     bool `gorm:"column:application_revision_ishihara;not null;default:false" json:"application_revision_ishihara"`
	ApplicationRevisionSKCK         bool `gorm:"column:application_revision_skck;not null;default:false" json:"application_revision_skck"`
	ApplicationRevisionTrainingCert bool `gorm:"column:application_revision_training_cert;not null;default:false" json:"application_revision_training_cert"`
	ApplicationRevisionCV           bool `gorm:"column:application_revision_cv;not null;default:false" json:"application_revision_cv"`
	ApplicationRevisionCertLevel1   bool `gorm:"column:application_revision_cert_level1;not null;default:false" json:"application_revision_cert_level1"`

	ApplicationAdminNote *string `gorm:"column:application_admin_note;type:text" json:"application_admin_note,omitempty"`

	// --- STEP 4 (DECLARATION) ---
	ApplicationDeclarationCompliance bool       `gorm:"column:application_declaration_compliance;not null;default:false" json:"application_declaration_compliance"`
	ApplicationDeclarationTruth      bool       `gorm:"column:application_declaration_truth;not null;default:false" json:"application_declaration_truth"`
	ApplicationDeclarationLiability  bool       `gorm:"column:application_declaration_liability;not null;default:false" json:"application_declaration_liability"`
	ApplicationDigitalSignature      *string    `gorm:"column:application_digital_signature;type:varchar(255)" json:"application_digital_signature,omitempty"`
	ApplicationSignatureDate         *time.Time `gorm:"column:application_signature_date" json:"application_signature_date,omitempty"`

	// --- PEMBAYARAN ---
	ApplicationPaymentStatus     string     `gorm:"column:application_payment_status;type:varchar(10);not null;default:unpaid" json:"application_payment_status"`
	ApplicationPaymentAmountIDR  int        `gorm:"column:application_payment_amount_idr;not null;default:0" json:"application_payment_amount_idr"`
	ApplicationPaymentMethod     *string    `gorm:"column:application_payment_method;type:varchar(32)" json:"application_payment_method,omitempty"`
	ApplicationPaymentDate       *time.Time `gorm:"column:application_payment_date" json:"application_payment_date,omitempty"`
	ApplicationPaymentExternalID *string    `gorm:"column:application_payment_external_id;type:varchar(64);uniqueIndex" json:"application_payment_external_id,omitempty"`
	ApplicationPaymentInvoiceID  *string    `gorm:"column:application_payment_invoice_id;type:varchar(128)" json:"application_payment_invoice_id,omitempty"`
	ApplicationPaymentURL        *string    `gorm:"column:application_payment_url;type:text" json:"application_payment_url,omitempty"`

	// --- JADWAL UJIAN ---
	ApplicationExamDate     *time.Time `gorm:"column:application_exam_date" json:"application_exam_date,omitempty"`
	ApplicationExamTime     *string    `gorm:"column:application_exam_time;type:varchar(5)" json:"application_exam_time,omitempty"` // "HH:MM"
	ApplicationExamLocation *string    `gorm:"column:application_exam_location;type:varchar(255)" json:"application_exam_location,omitempty"`

	ApplicationExamResult string `gorm:"column:application_exam_result;type:varchar(10);not null;default:pending" json:"application_exam_result"`

	// --- SERTIFIKAT ---
	ApplicationCertNumber     *string    `gorm:"column:application_cert_number;type:varchar(64)" json:"application_cert_number,omitempty"`
	ApplicationCertIssueDate  *time.Time `gorm:"column:application_cert_issue_date" json:"application_cert_issue_date,omitempty"`
	ApplicationCertValidUntil *time.Time `gorm:"column:application_cert_valid_until" json:"application_cert_valid_until,omitempty"`

	ApplicationCreatedAt time.Time `gorm:"column:application_created_at;autoCreateTime" json:"application_created_at"`
	ApplicationUpdatedAt time.Time `gorm:"column:application_updated_at;autoUpdateTime" json:"application_updated_at"`
	// Aplikasi tidak pernah dihapus; state rejected bersifat terminal tapi datanya disimpan.
}

func (ApplicationModel) TableName() string {
	return "applications"
}

func (m *ApplicationModel) BeforeCreate(tx *gorm.DB) error {
	if m.ApplicationID == uuid.Nil {
		m.ApplicationID = uuid.New()
	}
	return nil
}

// HasRevisionFlag: minimal satu flag revisi menyala.
func (m *ApplicationModel) HasRevisionFlag() bool {
	return m.ApplicationRevisionPasFoto ||
		m.ApplicationRevisionKTP ||
		m.ApplicationRevisionIjazah ||
		m.ApplicationRevisionIshihara ||
		m.ApplicationRevisionSKCK ||
		m.ApplicationRevisionTrainingCert ||
		m.ApplicationRevisionCV ||
		m.ApplicationRevisionCertLevel1
}

// Editable: kandidat hanya boleh mengubah isi aplikasi di state ini.
func (m *ApplicationModel) Editable() bool {
	return m.ApplicationState == StateDraft || m.ApplicationState == StateRevision
}
