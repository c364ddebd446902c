package student

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"
	"golang.org/x/crypto/bcrypt"

	"github.com/cecscoop/portal/core"
)

type Student struct {
	ID               string       `db:"id" json:"id"` // STU-YYYY-XXXX
	Name             string       `db:"name" json:"name"`
	Email            string       `db:"email" json:"email"`
	Phone            string       `db:"phone" json:"phone"`
	Department       string       `db:"department" json:"department"`
	Major            string       `db:"major" json:"major"`
	CreditsCompleted int          `db:"credits_completed" json:"credits_completed"`
	GPA              null.Float64 `db:"gpa" json:"gpa"`
	StartSemester    string       `db:"start_semester" json:"start_semester"` // e.g. "Fall"
	StartYear        null.Int     `db:"start_year" json:"start_year"`
	IsTransfer       bool         `db:"is_transfer" json:"is_transfer"`
	PasswordHash     []byte       `db:"password_hash" json:"-"`
	ResumeFilename   null.String  `db:"resume_filename" json:"resume_filename"` // filename only, no upload handling
	CreatedAt        time.Time    `db:"created_at" json:"created_at"`           // UTC
}

func (s *Student) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	s.PasswordHash = hash
	return nil
}

func (s *Student) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(s.PasswordHash, []byte(pwd))
}

// NewStudent contains information needed to register a new Student.
type NewStudent struct {
	Name             string  `json:"name" validate:"required"`
	Email            string  `json:"email" validate:"required,email"`
	Phone            string  `json:"phone"`
	Department       string  `json:"department" validate:"required"`
	Major            string  `json:"major"`
	CreditsCompleted int     `json:"credits_completed" validate:"omitempty,gte=0"`
	GPA              float64 `json:"gpa" validate:"omitempty,gte=0,lte=4"`
	StartSemester    string  `json:"start_semester" validate:"omitempty,semester"`
	StartYear        int     `json:"start_year" validate:"omitempty,gte=1900"`
	IsTransfer       bool    `json:"is_transfer"`
	Password         string  `json:"password" validate:"required"`
	PasswordConfirm  string  `json:"password_confirm" validate:"required,eqfield=Password"`
}

func (ns *NewStudent) Validate(validate *validator.Validate, svc ServiceInterface) error {
	ns.Name = core.CleanString(ns.Name)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	ns.Department = core.CleanString(ns.Department)
	ns.Major = core.CleanString(ns.Major)

	if err := validate.Struct(ns); err != nil {
		return err
	}
	return svc.CheckEmailUniqueness(ns.Email)
}
