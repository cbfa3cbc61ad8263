package models

import (
	"slices"
	"strings"
)

// DocumentType is the identity document kind entered on the entry form.
type DocumentType string

const (
	DocumentDNI      DocumentType = "DNI"
	DocumentCE       DocumentType = "CE"
	DocumentPassport DocumentType = "Pasaporte"
)

// IsValid reports whether t is one of the supported document kinds.
func (t DocumentType) IsValid() bool {
	switch t {
	case DocumentDNI, DocumentCE, DocumentPassport:
		return true
	}
	return false
}

func (t DocumentType) String() string { return string(t) }

// CoverageTarget is who the quoted plan covers.
type CoverageTarget string

const (
	CoverageNone           CoverageTarget = ""
	CoverageForMe          CoverageTarget = "for_me"
	CoverageForSomeoneElse CoverageTarget = "for_someone_else"
)

func (c CoverageTarget) IsValid() bool {
	return c == CoverageForMe || c == CoverageForSomeoneElse
}

// ForSomeoneElse reports whether the third-party discount applies.
func (c CoverageTarget) ForSomeoneElse() bool {
	return c == CoverageForSomeoneElse
}

// UserProfile is the user record returned by the quote API.
type UserProfile struct {
	Name     string `json:"name"`
	LastName string `json:"lastName"`
	BirthDay string `json:"birthDay"`
}

// RegistrationUser is the API profile enriched with the entry form data and
// the age computed when the profile was fetched.
type RegistrationUser struct {
	UserProfile
	DocumentType   DocumentType `json:"documentType"`
	DocumentNumber string       `json:"documentNumber"`
	Phone          string       `json:"phone"`
	Age            int          `json:"age"`
}

// FullName joins name and last name ("Rocío Miranda Díaz").
func (u RegistrationUser) FullName() string {
	return strings.TrimSpace(u.Name + " " + u.LastName)
}

// InitialForm is the raw entry form input kept for redisplay on the summary.
type InitialForm struct {
	DocumentType   DocumentType `json:"documentType"`
	DocumentNumber string       `json:"documentNumber"`
	Phone          string       `json:"phone"`
}

// Plan is one insurance plan offered by the quote API.
// Age is the maximum eligible age, inclusive.
type Plan struct {
	Name        string   `json:"name"`
	Price       float64  `json:"price"`
	Description []string `json:"description"`
	Age         int      `json:"age"`
}

// EligibleFor reports whether a person of the given age may buy the plan.
func (p Plan) EligibleFor(age int) bool {
	return age <= p.Age
}

// Clone returns a copy that shares no slices with p.
func (p Plan) Clone() Plan {
	p.Description = slices.Clone(p.Description)
	return p
}

// SelectedPlan is a plan priced for the chosen coverage target.
type SelectedPlan struct {
	Plan
	FinalPrice       float64 `json:"finalPrice"`
	IsForSomeoneElse bool    `json:"isForSomeoneElse"`
}

// Clone returns a copy that shares no slices with s.
func (s SelectedPlan) Clone() SelectedPlan {
	s.Plan = s.Plan.Clone()
	return s
}

// EntryForm is the first wizard step: document, phone and both consents.
type EntryForm struct {
	DocumentType   DocumentType
	DocumentNumber string
	Phone          string
	AcceptPrivacy  bool
	AcceptTerms    bool
}

// Snapshot returns the form fields preserved alongside the user.
func (f EntryForm) Snapshot() InitialForm {
	return InitialForm{
		DocumentType:   f.DocumentType,
		DocumentNumber: f.DocumentNumber,
		Phone:          f.Phone,
	}
}

// Step is the wizard position derived from the registration state.
type Step string

const (
	StepEntry   Step = "entry"
	StepPlans   Step = "plans"
	StepSummary Step = "summary"
)
