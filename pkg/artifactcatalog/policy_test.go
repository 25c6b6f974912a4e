package artifactcatalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanPerform(t *testing.T) {
	tests := []struct {
		name   string
		role   Role
		action Action
		status ArtifactStatus
		want   bool
	}{
		{"anyone views approved", RoleNone, ActionViewArtifact, ArtifactStatusApproved, true},
		{"staff views approved", RoleStaff, ActionViewArtifact, ArtifactStatusApproved, true},
		{"admin views pending", RoleAdmin, ActionViewArtifact, ArtifactStatusPending, true},
		{"staff views pending", RoleStaff, ActionViewArtifact, ArtifactStatusPending, true},
		{"anonymous blocked from pending", RoleNone, ActionViewArtifact, ArtifactStatusPending, false},

		{"admin creates", RoleAdmin, ActionCreateArtifact, "", true},
		{"staff creates", RoleStaff, ActionCreateArtifact, "", true},
		{"anonymous cannot create", RoleNone, ActionCreateArtifact, "", false},

		{"admin edits", RoleAdmin, ActionEditArtifact, "", true},
		{"staff cannot edit", RoleStaff, ActionEditArtifact, "", false},
		{"anonymous cannot edit", RoleNone, ActionEditArtifact, "", false},

		{"admin approves", RoleAdmin, ActionApproveArtifact, "", true},
		{"staff cannot approve", RoleStaff, ActionApproveArtifact, "", false},
		{"anonymous cannot approve", RoleNone, ActionApproveArtifact, "", false},

		{"admin deletes", RoleAdmin, ActionDeleteArtifact, "", true},
		{"staff cannot delete", RoleStaff, ActionDeleteArtifact, "", false},

		{"admin manages categories", RoleAdmin, ActionManageCategories, "", true},
		{"staff cannot manage categories", RoleStaff, ActionManageCategories, "", false},

		{"admin views activity log", RoleAdmin, ActionViewActivityLog, "", true},
		{"staff views activity log", RoleStaff, ActionViewActivityLog, "", true},
		{"anonymous cannot view activity log", RoleNone, ActionViewActivityLog, "", false},

		{"admin views analytics", RoleAdmin, ActionViewAnalytics, "", true},
		{"staff cannot view analytics", RoleStaff, ActionViewAnalytics, "", false},

		{"unknown action denied", RoleAdmin, Action("reboot"), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanPerform(tt.role, tt.action, tt.status))
		})
	}
}

func TestInitialStatus(t *testing.T) {
	assert.Equal(t, ArtifactStatusApproved, initialStatus(RoleAdmin))
	assert.Equal(t, ArtifactStatusPending, initialStatus(RoleStaff))
	assert.Equal(t, ArtifactStatusPending, initialStatus(RoleNone))
}

func TestCanApprove(t *testing.T) {
	ok, err := canApprove(ArtifactStatusPending)
	assert.True(t, ok)
	assert.NoError(t, err)

	ok, err = canApprove(ArtifactStatusApproved)
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	ok, err = canApprove(ArtifactStatus("bogus"))
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}
