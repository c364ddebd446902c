package faculty

import (
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/cecscoop/portal/core"
)

// Faculty is a department's co-op coordinator. At most one Faculty exists
// per department.
type Faculty struct {
	ID           string    `db:"id" json:"id"` // FAC-YYYY-XXXX
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	Department   string    `db:"department" json:"department"`
	PasswordHash []byte    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"` // UTC
}

func (f *Faculty) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	f.PasswordHash = hash
	return nil
}

func (f *Faculty) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(f.PasswordHash, []byte(pwd))
}

// NewFaculty contains information needed to register a new Faculty coordinator.
type NewFaculty struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Department      string `json:"department" validate:"required"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

func (nf *NewFaculty) Validate(validate *validator.Validate, svc ServiceInterface) error {
	nf.Name = core.CleanString(nf.Name)
	nf.Email = core.CleanString(nf.Email, true /* lower */)
	nf.Department = core.CleanString(nf.Department)

	if err := validate.Struct(nf); err != nil {
		return err
	}
	if err := svc.CheckDepartmentVacancy(nf.Department); err != nil {
		return err
	}
	return svc.CheckEmailUniqueness(nf.Email)
}
