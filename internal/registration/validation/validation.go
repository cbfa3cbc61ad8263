// Package validation checks the entry form fields before any user lookup.
package validation

import (
	"maps"
	"regexp"
	"strings"
	"sync"

	"quoteflow/internal/registration/models"
)

// Field keys of the entry form.
const (
	FieldDocumentType   = "documentType"
	FieldDocumentNumber = "documentNumber"
	FieldPhone          = "phone"
)

const (
	MessageDocumentRequired = "El número de documento es requerido"
	MessageDNIFormat        = "El DNI debe tener 8 dígitos"
	MessageCEFormat         = "El CE debe tener 9 dígitos"
	MessagePassportFormat   = "El pasaporte debe tener entre 6 y 12 caracteres alfanuméricos"
	MessageDocumentType     = "El tipo de documento no es válido"
	MessagePhoneRequired    = "El teléfono es requerido"
	MessagePhoneFormat      = "El teléfono debe empezar con 9 y tener 9 dígitos"
)

var (
	dniPattern      = regexp.MustCompile(`^\d{8}$`)
	cePattern       = regexp.MustCompile(`^\d{9}$`)
	passportPattern = regexp.MustCompile(`^[A-Z0-9]{6,12}$`)
	phonePattern    = regexp.MustCompile(`^9\d{8}$`)
)

// FieldErrors maps a field key to its message. A missing key means the field is valid.
type FieldErrors map[string]string

// ValidateDocument checks the document number against the rule of its type.
// A blank number short-circuits with the required message.
func ValidateDocument(docType models.DocumentType, number string) FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(number) == "" {
		errs[FieldDocumentNumber] = MessageDocumentRequired
		return errs
	}

	switch docType {
	case models.DocumentDNI:
		if !dniPattern.MatchString(number) {
			errs[FieldDocumentNumber] = MessageDNIFormat
		}
	case models.DocumentCE:
		if !cePattern.MatchString(number) {
			errs[FieldDocumentNumber] = MessageCEFormat
		}
	case models.DocumentPassport:
		if !passportPattern.MatchString(number) {
			errs[FieldDocumentNumber] = MessagePassportFormat
		}
	default:
		errs[FieldDocumentType] = MessageDocumentType
	}
	return errs
}

// ValidatePhone checks a Peruvian mobile number: nine digits starting with 9.
func ValidatePhone(phone string) FieldErrors {
	errs := FieldErrors{}
	switch {
	case strings.TrimSpace(phone) == "":
		errs[FieldPhone] = MessagePhoneRequired
	case !phonePattern.MatchString(phone):
		errs[FieldPhone] = MessagePhoneFormat
	}
	return errs
}

// Validator validates the entry form and keeps the most recent errors for read-back.
type Validator struct {
	mu     sync.RWMutex
	errors FieldErrors
}

func New() *Validator {
	return &Validator{errors: FieldErrors{}}
}

// ValidateLoginForm validates document and phone together and records the merged
// errors. It returns true iff no field failed.
func (v *Validator) ValidateLoginForm(form models.InitialForm) bool {
	all := ValidateDocument(form.DocumentType, form.DocumentNumber)
	maps.Copy(all, ValidatePhone(form.Phone))

	v.mu.Lock()
	v.errors = all
	v.mu.Unlock()
	return len(all) == 0
}

// Errors returns a copy of the errors recorded by the last validation.
func (v *Validator) Errors() FieldErrors {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return maps.Clone(v.errors)
}

func (v *Validator) HasErrors() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.errors) > 0
}

func (v *Validator) ClearErrors() {
	v.mu.Lock()
	v.errors = FieldErrors{}
	v.mu.Unlock()
}
