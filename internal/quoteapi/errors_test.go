package quoteapi

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplayMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"user bad status", newError(ErrorBadStatus, ResourceUser, "HTTP Error: 500", nil), MessageUserFetch},
		{"plans unavailable", newError(ErrorUnavailable, ResourcePlans, "refused", nil), MessagePlansFetch},
		{"plans timeout reads as plans", newError(ErrorTimeout, ResourcePlans, "slow", nil), MessagePlansFetch},
		{"user timeout reads as user", newError(ErrorTimeout, ResourceUser, "slow", nil), MessageUserFetch},
		{"wrapped api error", fmt.Errorf("submit: %w", newError(ErrorBadData, ResourceUser, "bad", nil)), MessageUserFetch},
		{"foreign error", errors.New("boom"), MessageGeneric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DisplayMessage(tt.err))
		})
	}
}

func TestError_Format(t *testing.T) {
	underlying := errors.New("connection reset")
	err := newError(ErrorUnavailable, ResourceUser, "failed to execute request", underlying)

	assert.Equal(t, "quoteapi user [unavailable]: failed to execute request: connection reset", err.Error())
	assert.ErrorIs(t, err, underlying)
	assert.Equal(t, "quoteapi plans [bad_data]: x", newError(ErrorBadData, ResourcePlans, "x", nil).Error())
}

func TestGetCategory_Default(t *testing.T) {
	assert.Equal(t, ErrorInternal, GetCategory(errors.New("plain")))
	assert.Equal(t, ErrorInternal, GetCategory(nil))
}
