package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusValid(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusInProgress, StatusDone, StatusOverdue, StatusCancelled} {
		assert.True(t, s.Valid(), string(s))
	}
	assert.False(t, Status("archived").Valid())
	assert.False(t, Status("").Valid())
}

func TestStatusTerminal(t *testing.T) {
	assert.True(t, StatusDone.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusInProgress.Terminal())
	assert.False(t, StatusOverdue.Terminal())
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    Status
		to      Status
		reopen  bool
		allowed bool
	}{
		{"pending to in_progress", StatusPending, StatusInProgress, true, true},
		{"pending to cancelled", StatusPending, StatusCancelled, true, true},
		{"pending to overdue", StatusPending, StatusOverdue, true, true},
		{"pending to done", StatusPending, StatusDone, true, false},
		{"in_progress to done", StatusInProgress, StatusDone, true, true},
		{"in_progress to cancelled", StatusInProgress, StatusCancelled, true, true},
		{"in_progress to overdue", StatusInProgress, StatusOverdue, true, true},
		{"in_progress to pending", StatusInProgress, StatusPending, true, false},
		{"overdue reopen to in_progress", StatusOverdue, StatusInProgress, true, true},
		{"overdue resolve to done", StatusOverdue, StatusDone, true, true},
		{"overdue to cancelled", StatusOverdue, StatusCancelled, true, true},
		{"overdue to pending", StatusOverdue, StatusPending, true, false},
		{"overdue terminal when reopen disabled", StatusOverdue, StatusInProgress, false, false},
		{"overdue to done when reopen disabled", StatusOverdue, StatusDone, false, false},
		{"done is terminal", StatusDone, StatusInProgress, true, false},
		{"cancelled is terminal", StatusCancelled, StatusPending, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, CanTransition(tt.from, tt.to, tt.reopen))
		})
	}
}
