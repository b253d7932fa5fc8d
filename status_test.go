package workplace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statusCatalog() []ClerkStatus {
	return []ClerkStatus{
		{ID: 1, Label: "Logged off", Working: false},
		{ID: 2, Label: "Available", Working: true},
		{ID: 3, Label: "Referral", Working: true},
		{ID: 4, Label: "Supervisor review", Working: true},
		{ID: 5, Label: "Paused", Working: false},
	}
}

func optionIDs(options []StatusOption) []int {
	ids := make([]int, 0, len(options))
	for _, o := range options {
		ids = append(ids, o.Status.ID)
	}

	return ids
}

func TestSelectableStatuses_NormalStatusHidesReserved(t *testing.T) {
	options := SelectableStatuses(statusCatalog(), 2)

	assert.Equal(t, []int{1, 2, 5}, optionIDs(options))
	for _, o := range options {
		assert.False(t, o.Disabled)
	}
}

func TestSelectableStatuses_EscalationInjectsDisabledCurrent(t *testing.T) {
	// Current status 3 (referral): 3 and 4 excluded from direct selection,
	// 2 additionally hidden, and a disabled entry for 3 is injected.
	options := SelectableStatuses(statusCatalog(), 3)

	require.Equal(t, []int{1, 3, 5}, optionIDs(options))

	byID := map[int]StatusOption{}
	for _, o := range options {
		byID[o.Status.ID] = o
	}

	assert.True(t, byID[3].Disabled)
	assert.Equal(t, "Referral", byID[3].Status.Label)
	assert.False(t, byID[1].Disabled)
	assert.False(t, byID[5].Disabled)
}

func TestSelectableStatuses_SupervisorReviewBehavesLikeReferral(t *testing.T) {
	options := SelectableStatuses(statusCatalog(), 4)

	assert.Equal(t, []int{1, 4, 5}, optionIDs(options))
}

func TestSelectableStatuses_OtherEscalationStaysHidden(t *testing.T) {
	// While in referral, the other escalation status is not injected.
	options := SelectableStatuses(statusCatalog(), 3)

	assert.NotContains(t, optionIDs(options), 4)
}

func TestSelectableStatuses_DoesNotModifyInput(t *testing.T) {
	catalog := statusCatalog()
	_ = SelectableStatuses(catalog, 3)

	assert.Equal(t, statusCatalog(), catalog)
}

func TestSelectableStatuses_EmptyCatalog(t *testing.T) {
	assert.Empty(t, SelectableStatuses(nil, 2))
}

func TestConfirmationFor(t *testing.T) {
	tests := []struct {
		name           string
		statusID       int
		assignmentHeld bool
		want           Confirmation
	}{
		{"log off without assignment", 1, false, ConfirmationLogOff},
		{"log off with assignment", 1, true, ConfirmationLogOff},
		{"available without assignment", 2, false, ConfirmationNone},
		{"pause with assignment", 5, true, ConfirmationReleaseAssignment},
		{"pause without assignment", 5, false, ConfirmationNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ConfirmationFor(tt.statusID, tt.assignmentHeld))
		})
	}
}
