package dto

import (
	"time"

	"sertifikasiku_backend/internals/features/applications/model"
)

/* ===============================
   Request kandidat (wizard step)
=================================*/

type Step1Request struct {
	NIK              string `json:"nik" validate:"required,max=32"`
	BirthDate        string `json:"birth_date" validate:"required,datetime=2006-01-02"`
	PlaceOfBirth     string `json:"place_of_birth" validate:"max=128"`
	LastEducation    string `json:"last_education" validate:"max=128"`
	Nationality      string `json:"nationality" validate:"max=64"`
	Phone            string `json:"phone" validate:"max=32"`
	Address          string `json:"address"`
	SpecialNeeds     bool   `json:"special_needs"`
	SpecialNeedsDesc string `json:"special_needs_desc"`
}

type Step2Request struct {
	ApplicationType    string `json:"application_type" validate:"required,oneof=new recert"`
	PreviousCertNumber string `json:"previous_cert_number" validate:"max=64"`
	Scheme             string `json:"scheme" validate:"required,oneof=level1 level2"`
}

// Object key dokumen dari storage eksternal; kosong = tidak diubah.
type Step3Request struct {
	PasFotoKey      string `json:"pas_foto_key" validate:"max=255"`
	KTPKey          string `json:"ktp_key" validate:"max=255"`
	IjazahKey       string `json:"ijazah_key" validate:"max=255"`
	IshiharaKey     string `json:"ishihara_key" validate:"max=255"`
	SKCKKey         string `json:"skck_key" validate:"max=255"`
	TrainingCertKey string `json:"training_cert_key" validate:"max=255"`
	CVKey           string `json:"cv_key" validate:"max=255"`
	CertLevel1Key   string `json:"cert_level1_key" validate:"max=255"`
	PreviousCertKey string `json:"previous_cert_key" validate:"max=255"`
	LogbookKey      string `json:"logbook_key" validate:"max=255"`
	AdditionalKey   string `json:"additional_key" validate:"max=255"`
}

type FinalSubmitRequest struct {
	DeclarationCompliance bool   `json:"declaration_compliance" validate:"required"`
	DeclarationTruth      bool   `json:"declaration_truth" validate:"required"`
	DeclarationLiability  bool   `json:"declaration_liability" validate:"required"`
	DigitalSignature      string `json:"digital_signature" validate:"required,max=255"`
}

/* ===============================
   Request admin
=================================*/

type RevisionFlags struct {
	PasFoto      bool `json:"pas_foto"`
	KTP          bool `json:"ktp"`
	Ijazah       bool `json:"ijazah"`
	Ishihara     bool `json:"ishihara"`
	SKCK         bool `json:"skck"`
	TrainingCert bool `json:"training_cert"`
	CV           bool `json:"cv"`
	CertLevel1   bool `json:"cert_level1"`
}

func (f RevisionFlags) Any() bool {
	return f.PasFoto || f.KTP || f.Ijazah || f.Ishihara ||
		f.SKCK || f.TrainingCert || f.CV || f.CertLevel1
}

type RequestRevisionRequest struct {
	Note  string        `json:"note"`
	Flags RevisionFlags `json:"flags"`
}

type RejectApplicationRequest struct {
	Note string `json:"note"`
}

type SetScheduleRequest struct {
	ExamDate     string `json:"exam_date"`     // "2006-01-02"
	ExamTime     string `json:"exam_time"`     // "HH:MM"
	ExamLocation string `json:"exam_location"` //
}

type ConfirmPaymentRequest struct {
	PaymentMethod string `json:"payment_method" validate:"max=32"`
}

/* ===============================
   Response
=================================*/

type ApplicationDTO struct {
	ApplicationID    string  `json:"application_id"`
	CandidateID      string  `json:"candidate_id"`
	State            string  `json:"state"`
	CurrentStep      int     `json:"current_step"`
	ApplicationType  string  `json:"application_type"`
	Scheme           *string `json:"scheme,omitempty"`
	AdminNote        *string `json:"admin_note,omitempty"`
	HasRevisionFlags bool    `json:"has_revision_flags"`

	PaymentStatus    string  `json:"payment_status"`
	PaymentAmountIDR int     `json:"payment_amount_idr"`
	PaymentURL       *string `json:"payment_url,omitempty"`

	ExamDate     *time.Time `json:"exam_date,omitempty"`
	ExamTime     *string    `json:"exam_time,omitempty"`
	ExamLocation *string    `json:"exam_location,omitempty"`
	ExamResult   string     `json:"exam_result"`

	CertNumber     *string    `json:"cert_number,omitempty"`
	CertIssueDate  *time.Time `json:"cert_issue_date,omitempty"`
	CertValidUntil *time.Time `json:"cert_valid_until,omitempty"`
}

func ToApplicationDTO(m model.ApplicationModel) ApplicationDTO {
	return ApplicationDTO{
		ApplicationID:    m.ApplicationID.String(),
		CandidateID:      m.ApplicationCandidateID.String(),
		State:            m.ApplicationState,
		CurrentStep:      m.ApplicationCurrentStep,
		ApplicationType:  m.ApplicationType,
		Scheme:           m.ApplicationScheme,
		AdminNote:        m.ApplicationAdminNote,
		HasRevisionFlags: m.HasRevisionFlag(),
		PaymentStatus:    m.ApplicationPaymentStatus,
		PaymentAmountIDR: m.ApplicationPaymentAmountIDR,
		PaymentURL:       m.ApplicationPaymentURL,
		ExamDate:         m.ApplicationExamDate,
		ExamTime:         m.ApplicationExamTime,
		ExamLocation:     m.ApplicationExamLocation,
		ExamResult:       m.ApplicationExamResult,
		CertNumber:       m.ApplicationCertNumber,
		CertIssueDate:    m.ApplicationCertIssueDate,
		CertValidUntil:   m.ApplicationCertValidUntil,
	}
}

type ApplicationLogDTO struct {
	Level     string    `json:"level"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

func ToApplicationLogDTO(m model.ApplicationLogModel) ApplicationLogDTO {
	return ApplicationLogDTO{
		Level:     m.ApplicationLogLevel,
		Message:   m.ApplicationLogMessage,
		CreatedAt: m.ApplicationLogCreatedAt,
	}
}
