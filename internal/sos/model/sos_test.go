package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransitionForwardOnly(t *testing.T) {
	allowed := []struct{ from, to Status }{
		{StatusActive, StatusAccepted},
		{StatusActive, StatusResolved},
		{StatusAccepted, StatusResolved},
	}
	for _, tc := range allowed {
		assert.NoError(t, Transition(tc.from, tc.to), "%s → %s should be allowed", tc.from, tc.to)
	}

	rejected := []struct{ from, to Status }{
		{StatusAccepted, StatusActive},
		{StatusResolved, StatusActive},
		{StatusResolved, StatusAccepted},
		{StatusActive, StatusActive},
		{StatusResolved, StatusResolved},
	}
	for _, tc := range rejected {
		err := Transition(tc.from, tc.to)
		assert.ErrorIs(t, err, ErrInvalidTransition, "%s → %s should be rejected", tc.from, tc.to)
	}
}

func TestCanBeAcceptedBy(t *testing.T) {
	req := SOSRequest{UserID: "owner", Status: StatusActive}

	assert.NoError(t, req.CanBeAcceptedBy("rescuer"))
	assert.ErrorIs(t, req.CanBeAcceptedBy("owner"), ErrSelfAccept)

	req.Status = StatusAccepted
	assert.ErrorIs(t, req.CanBeAcceptedBy("rescuer"), ErrNotAcceptable)

	req.Status = StatusResolved
	assert.ErrorIs(t, req.CanBeAcceptedBy("rescuer"), ErrNotAcceptable)
}

func TestTypeValid(t *testing.T) {
	for _, knownType := range AllTypes {
		assert.True(t, knownType.Valid())
	}
	assert.False(t, Type("alien_abduction").Valid())
	assert.False(t, Type("").Valid())
}
