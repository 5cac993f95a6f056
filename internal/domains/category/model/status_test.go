package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		raw     string
		want    Status
		wantErr bool
	}{
		{raw: "ACTIVE", want: StatusActive},
		{raw: "active", want: StatusActive},
		{raw: " Inactive ", want: StatusInactive},
		{raw: "deleted", want: StatusDeleted},
		{raw: "", wantErr: true},
		{raw: "ARCHIVED", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseStatus(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidStatus))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStatus_CanTransitionTo(t *testing.T) {
	assert.True(t, StatusActive.CanTransitionTo(StatusInactive))
	assert.True(t, StatusInactive.CanTransitionTo(StatusActive))
	assert.True(t, StatusActive.CanTransitionTo(StatusDeleted))
	assert.True(t, StatusActive.CanTransitionTo(StatusActive))

	assert.False(t, StatusDeleted.CanTransitionTo(StatusActive))
	assert.False(t, StatusDeleted.CanTransitionTo(StatusInactive))
	assert.True(t, StatusDeleted.CanTransitionTo(StatusDeleted))

	assert.False(t, StatusActive.CanTransitionTo(Status("UNKNOWN")))
	assert.False(t, Status("UNKNOWN").CanTransitionTo(StatusActive))
}

func TestStatus_IsValid(t *testing.T) {
	for _, s := range AllStatuses {
		assert.True(t, s.IsValid(), s)
	}
	assert.False(t, Status("").IsValid())
	assert.False(t, Status("active").IsValid())
}
