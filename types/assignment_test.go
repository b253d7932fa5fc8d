package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignment_Clone_Nil(t *testing.T) {
	var a *Assignment
	assert.Nil(t, a.Clone())
}

func TestAssignment_Clone_DeepCopiesComments(t *testing.T) {
	orig := &Assignment{
		ID:             42,
		ClaimReference: "CLM-0042",
		Comments: []Comment{
			{ID: 1, AssignmentID: 42, Text: "first", Author: "Ada", CreatedAt: time.Now()},
		},
	}

	cp := orig.Clone()
	require.NotNil(t, cp)
	require.Equal(t, orig, cp)

	// Mutating the clone's comment list must not leak into the original.
	cp.Comments = append(cp.Comments, Comment{ID: -1, AssignmentID: 42, Text: "pending"})
	cp.Comments[0].Text = "edited"

	assert.Len(t, orig.Comments, 1)
	assert.Equal(t, "first", orig.Comments[0].Text)
}

func TestComment_Pending(t *testing.T) {
	assert.True(t, Comment{ID: -1}.Pending())
	assert.False(t, Comment{ID: 7}.Pending())
	assert.False(t, Comment{ID: 0}.Pending())
}
