package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTerminalStatuses(t *testing.T) {
	assert.True(t, StatusAdminApproved.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.True(t, StatusCompleted.IsTerminal())

	assert.False(t, StatusDraft.IsTerminal())
	assert.False(t, StatusInProgress.IsTerminal())
	assert.False(t, StatusSubmitted.IsTerminal())
	assert.False(t, StatusSupervisorApproved.IsTerminal())
	assert.False(t, StatusSupervisorRejected.IsTerminal())
}

func TestStatusValidity(t *testing.T) {
	assert.True(t, StatusSubmitted.IsValid())
	assert.False(t, SessionStatus("archived").IsValid())
}
