package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "quoteflow/pkg/domain-errors"
)

type coverageRequest struct {
	Target string `json:"target" validate:"required,oneof=for_me for_someone_else"`
}

type planRequest struct {
	Name string `json:"name" validate:"notblank,max=120"`
	Note string `json:"-" validate:"max=3"`
}

func TestValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, Validate(coverageRequest{Target: "for_me"}))
	})

	t.Run("required uses json name", func(t *testing.T) {
		err := Validate(coverageRequest{})

		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		assert.Equal(t, "target is required", err.Error())
		assert.Equal(t, map[string]string{"target": "target is required"}, dErrors.FieldsOf(err))
	})

	t.Run("oneof", func(t *testing.T) {
		err := Validate(coverageRequest{Target: "everyone"})

		assert.Equal(t, "target must be one of [for_me for_someone_else]", err.Error())
	})

	t.Run("notblank", func(t *testing.T) {
		err := Validate(planRequest{Name: "   "})

		assert.Equal(t, "name must not be blank", err.Error())
	})
}

func TestErrorMessage_NonValidatorError(t *testing.T) {
	assert.Equal(t, "invalid request body", ErrorMessage(assert.AnError))
}
