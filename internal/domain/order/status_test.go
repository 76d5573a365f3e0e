package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReduceStatus(t *testing.T) {
	tests := []struct {
		name     string
		statuses []Status
		want     Status
		wantOK   bool
	}{
		{
			name:     "all completed",
			statuses: []Status{StatusCompleted, StatusCompleted},
			want:     StatusCompleted,
			wantOK:   true,
		},
		{
			name:     "any in_progress wins over completed",
			statuses: []Status{StatusCompleted, StatusInProgress},
			want:     StatusInProgress,
			wantOK:   true,
		},
		{
			name:     "pending with completed",
			statuses: []Status{StatusPending, StatusCompleted},
			want:     StatusPending,
			wantOK:   true,
		},
		{
			name:     "in_progress wins over pending",
			statuses: []Status{StatusPending, StatusInProgress},
			want:     StatusInProgress,
			wantOK:   true,
		},
		{
			name:     "all cancelled",
			statuses: []Status{StatusCancelled, StatusCancelled},
			want:     StatusCancelled,
			wantOK:   true,
		},
		{
			name:     "single pending",
			statuses: []Status{StatusPending},
			want:     StatusPending,
			wantOK:   true,
		},
		{
			name:     "single completed",
			statuses: []Status{StatusCompleted},
			want:     StatusCompleted,
			wantOK:   true,
		},
		{
			// No rule covers completed+cancelled mixes; callers must keep the
			// stored status.
			name:     "mixed completed and cancelled fires no rule",
			statuses: []Status{StatusCompleted, StatusCancelled},
			wantOK:   false,
		},
		{
			name:     "empty input fires no rule",
			statuses: nil,
			wantOK:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ReduceStatus(tt.statuses)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestReduceStatus_NoRuleKeepsPriorValue(t *testing.T) {
	// A mixed terminal state must leave the caller's stored aggregate alone.
	prior := StatusInProgress

	derived, ok := ReduceStatus([]Status{StatusCompleted, StatusCancelled})
	if ok {
		prior = derived
	}

	assert.False(t, ok)
	assert.Equal(t, StatusInProgress, prior, "prior aggregate must be retained")
}

func TestStatusValid(t *testing.T) {
	assert.True(t, StatusPending.Valid())
	assert.True(t, StatusServed.Valid())
	assert.False(t, Status("paid").Valid())
	assert.False(t, Status("").Valid())
}
