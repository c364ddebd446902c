package employer

import (
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/cecscoop/portal/core"
)

type Employer struct {
	ID           string    `db:"id" json:"id"` // EMP-YYYY-XXXX
	CompanyName  string    `db:"company_name" json:"company_name"`
	ContactName  string    `db:"contact_name" json:"contact_name"`
	Email        string    `db:"email" json:"email"`
	Phone        string    `db:"phone" json:"phone"`
	Location     string    `db:"location" json:"location"`
	Website      string    `db:"website" json:"website"`
	PasswordHash []byte    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"` // UTC
}

func (e *Employer) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	e.PasswordHash = hash
	return nil
}

func (e *Employer) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(e.PasswordHash, []byte(pwd))
}

// NewEmployer contains information needed to register a new Employer.
type NewEmployer struct {
	CompanyName     string `json:"company_name" validate:"required"`
	ContactName     string `json:"contact_name"`
	Email           string `json:"email" validate:"required,email"`
	Phone           string `json:"phone"`
	Location        string `json:"location"`
	Website         string `json:"website" validate:"omitempty,url"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

func (ne *NewEmployer) Validate(validate *validator.Validate, svc ServiceInterface) error {
	ne.CompanyName = core.CleanString(ne.CompanyName)
	ne.ContactName = core.CleanString(ne.ContactName)
	ne.Email = core.CleanString(ne.Email, true /* lower */)
	ne.Location = core.CleanString(ne.Location)

	if err := validate.Struct(ne); err != nil {
		return err
	}
	return svc.CheckEmailUniqueness(ne.Email)
}
