package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSentinelsSurviveWrapping(t *testing.T) {
	wrapped := fmt.Errorf("assigning V001: %w", ErrVehicleUnavailable)
	assert.ErrorIs(t, wrapped, ErrVehicleUnavailable)
	assert.Equal(t, KindConflict, KindOf(wrapped))
}

func TestWrapKeepsIdentityAndCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(ErrStorageUnavailable, cause)

	assert.ErrorIs(t, err, ErrStorageUnavailable)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, KindStorageUnavailable, KindOf(err))
	assert.Contains(t, err.Error(), "connection refused")
}

func TestDistinctSentinelsDoNotMatch(t *testing.T) {
	assert.NotErrorIs(t, ErrDriverBusy, ErrVehicleBusy)
	assert.NotErrorIs(t, ErrUserNotFound, ErrVehicleNotFound)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindValidation, KindOf(Validation("bad input")))
	assert.Equal(t, KindNoRoute, KindOf(ErrNoRouteFound))
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
	assert.Equal(t, KindUnknown, KindOf(nil))
}
