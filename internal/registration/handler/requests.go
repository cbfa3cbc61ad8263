package handler

import (
	"quoteflow/internal/registration/models"
	s "quoteflow/pkg/string"
	"quoteflow/pkg/validation"
)

// EntryRequest is the body of POST /v1/session/entry. Field rules are applied
// by the flow so clients receive the localized messages; only size limits are
// enforced here.
type EntryRequest struct {
	DocumentType   string `json:"document_type" validate:"max=20"`
	DocumentNumber string `json:"document_number" validate:"max=20"`
	Phone          string `json:"phone" validate:"max=20"`
	AcceptPrivacy  bool   `json:"accept_privacy"`
	AcceptTerms    bool   `json:"accept_terms"`
}

func (r *EntryRequest) Normalize() {
	s.TrimStrings(&r.DocumentType, &r.DocumentNumber, &r.Phone)
}

func (r *EntryRequest) Validate() error {
	return validation.Validate(r)
}

// Form converts the request to the flow input.
func (r *EntryRequest) Form() models.EntryForm {
	return models.EntryForm{
		DocumentType:   models.DocumentType(r.DocumentType),
		DocumentNumber: r.DocumentNumber,
		Phone:          r.Phone,
		AcceptPrivacy:  r.AcceptPrivacy,
		AcceptTerms:    r.AcceptTerms,
	}
}

// CoverageRequest is the body of PUT /v1/session/coverage.
type CoverageRequest struct {
	Target string `json:"target" validate:"required,oneof=for_me for_someone_else"`
}

func (r *CoverageRequest) Normalize() {
	s.TrimStrings(&r.Target)
}

func (r *CoverageRequest) Validate() error {
	return validation.Validate(r)
}

// SelectPlanRequest is the body of POST /v1/session/plan.
type SelectPlanRequest struct {
	Name string `json:"name" validate:"notblank,max=120"`
}

func (r *SelectPlanRequest) Normalize() {
	s.TrimStrings(&r.Name)
}

func (r *SelectPlanRequest) Validate() error {
	return validation.Validate(r)
}
