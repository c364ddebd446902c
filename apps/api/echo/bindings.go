package echoapi

import (
	"github.com/go-playground/validator/v10"

	"github.com/cecscoop/portal/core"
)

type (
	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string `json:"token"`
	}

	ApplicationRequest struct {
		PositionID string `json:"position_id" validate:"required"`
	}

	SummaryRequest struct {
		Summary string `json:"summary" validate:"required"`
		Submit  bool   `json:"submit"`
	}

	ReviewRequest struct {
		Approval string `json:"approval" validate:"required"`
	}

	GradeRequest struct {
		Grade string `json:"grade" validate:"required,grade"`
	}
)

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.Email = core.CleanString(lr.Email, true /* lower */)
	return validate.Struct(lr)
}

func (ar *ApplicationRequest) Validate(validate *validator.Validate) error {
	ar.PositionID = core.CleanString(ar.PositionID)
	return validate.Struct(ar)
}

func (sr *SummaryRequest) Validate(validate *validator.Validate) error {
	return validate.Struct(sr)
}

func (rr *ReviewRequest) Validate(validate *validator.Validate) error {
	rr.Approval = core.CleanString(rr.Approval)
	return validate.Struct(rr)
}

func (gr *GradeRequest) Validate(validate *validator.Validate) error {
	gr.Grade = core.CleanString(gr.Grade)
	return validate.Struct(gr)
}
