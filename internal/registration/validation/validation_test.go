package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quoteflow/internal/registration/models"
)

func TestValidateDocument(t *testing.T) {
	tests := []struct {
		name    string
		docType models.DocumentType
		number  string
		want    FieldErrors
	}{
		{"valid dni", models.DocumentDNI, "12345678", FieldErrors{}},
		{"short dni", models.DocumentDNI, "1234567", FieldErrors{FieldDocumentNumber: MessageDNIFormat}},
		{"dni with letters", models.DocumentDNI, "1234567a", FieldErrors{FieldDocumentNumber: MessageDNIFormat}},
		{"valid ce", models.DocumentCE, "123456789", FieldErrors{}},
		{"ce with eight digits", models.DocumentCE, "12345678", FieldErrors{FieldDocumentNumber: MessageCEFormat}},
		{"valid passport", models.DocumentPassport, "AB123456", FieldErrors{}},
		{"lowercase passport", models.DocumentPassport, "ab123456", FieldErrors{FieldDocumentNumber: MessagePassportFormat}},
		{"passport too short", models.DocumentPassport, "AB123", FieldErrors{FieldDocumentNumber: MessagePassportFormat}},
		{"passport too long", models.DocumentPassport, "AB12345678901", FieldErrors{FieldDocumentNumber: MessagePassportFormat}},
		{"blank number", models.DocumentDNI, "   ", FieldErrors{FieldDocumentNumber: MessageDocumentRequired}},
		{"blank number wins over unknown type", models.DocumentType("RUC"), "", FieldErrors{FieldDocumentNumber: MessageDocumentRequired}},
		{"unknown type", models.DocumentType("RUC"), "12345678", FieldErrors{FieldDocumentType: MessageDocumentType}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateDocument(tt.docType, tt.number))
		})
	}
}

func TestValidatePhone(t *testing.T) {
	tests := []struct {
		phone string
		want  FieldErrors
	}{
		{"987654321", FieldErrors{}},
		{"", FieldErrors{FieldPhone: MessagePhoneRequired}},
		{"  ", FieldErrors{FieldPhone: MessagePhoneRequired}},
		{"887654321", FieldErrors{FieldPhone: MessagePhoneFormat}},
		{"98765432", FieldErrors{FieldPhone: MessagePhoneFormat}},
		{"9876543210", FieldErrors{FieldPhone: MessagePhoneFormat}},
	}

	for _, tt := range tests {
		t.Run(tt.phone, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidatePhone(tt.phone))
		})
	}
}

func TestValidator(t *testing.T) {
	t.Run("valid form records no errors", func(t *testing.T) {
		v := New()
		ok := v.ValidateLoginForm(models.InitialForm{
			DocumentType:   models.DocumentDNI,
			DocumentNumber: "12345678",
			Phone:          "987654321",
		})

		assert.True(t, ok)
		assert.False(t, v.HasErrors())
		assert.Empty(t, v.Errors())
	})

	t.Run("merges document and phone errors", func(t *testing.T) {
		v := New()
		ok := v.ValidateLoginForm(models.InitialForm{
			DocumentType:   models.DocumentDNI,
			DocumentNumber: "123",
			Phone:          "123",
		})

		require.False(t, ok)
		assert.True(t, v.HasErrors())
		assert.Equal(t, FieldErrors{
			FieldDocumentNumber: MessageDNIFormat,
			FieldPhone:          MessagePhoneFormat,
		}, v.Errors())
	})

	t.Run("later validation replaces earlier errors", func(t *testing.T) {
		v := New()
		v.ValidateLoginForm(models.InitialForm{DocumentType: models.DocumentDNI})
		v.ValidateLoginForm(models.InitialForm{
			DocumentType:   models.DocumentCE,
			DocumentNumber: "123456789",
			Phone:          "",
		})

		assert.Equal(t, FieldErrors{FieldPhone: MessagePhoneRequired}, v.Errors())
	})

	t.Run("clear errors", func(t *testing.T) {
		v := New()
		v.ValidateLoginForm(models.InitialForm{})
		require.True(t, v.HasErrors())

		v.ClearErrors()

		assert.False(t, v.HasErrors())
		assert.Empty(t, v.Errors())
	})

	t.Run("errors are returned as a copy", func(t *testing.T) {
		v := New()
		v.ValidateLoginForm(models.InitialForm{})
		errs := v.Errors()
		errs[FieldPhone] = "tampered"

		assert.Equal(t, MessagePhoneRequired, v.Errors()[FieldPhone])
	})
}
