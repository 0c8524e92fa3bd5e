package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutcomeOf(t *testing.T) {
	tests := []struct {
		name     string
		status   PaymentStatus
		want     PollOutcome
		terminal bool
	}{
		{"completed", PaymentCompleted, PollCompleted, true},
		{"failed", PaymentFailed, PollFailed, true},
		{"cancelled", PaymentCancelled, PollCancelled, true},
		{"pending", PaymentPending, "", false},
		{"unknown", PaymentStatus("processing"), "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.terminal, tt.status.Terminal())
			got, ok := OutcomeOf(tt.status)
			assert.Equal(t, tt.terminal, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
