package artifactcatalog

// Action enumerates the operations gated by the access control policy.
type Action string

// Action constants (typed).
const (
	ActionViewArtifact     Action = "view_artifact"
	ActionCreateArtifact   Action = "create_artifact"
	ActionEditArtifact     Action = "edit_artifact"
	ActionApproveArtifact  Action = "approve_artifact"
	ActionDeleteArtifact   Action = "delete_artifact"
	ActionManageCategories Action = "manage_categories"
	ActionViewActivityLog  Action = "view_activity_log"
	ActionViewAnalytics    Action = "view_analytics"
)

// CanPerform is the single source of truth for authorization. It is pure and
// side-effect-free: (role, action, artifact status) in, allow/deny out.
// Every mutating entry point must call it against a freshly resolved role,
// never one cached client-side.
//
// The status argument only matters for ActionViewArtifact, where pending
// artifacts are hidden from anonymous readers. Callers without an artifact in
// hand pass the zero value.
func CanPerform(role Role, action Action, status ArtifactStatus) bool {
	switch action {
	case ActionViewArtifact:
		if status == ArtifactStatusApproved {
			return true
		}
		return role == RoleAdmin || role == RoleStaff
	case ActionCreateArtifact:
		return role == RoleAdmin || role == RoleStaff
	case ActionViewActivityLog:
		return role == RoleAdmin || role == RoleStaff
	case ActionEditArtifact, ActionApproveArtifact, ActionDeleteArtifact,
		ActionManageCategories, ActionViewAnalytics:
		return role == RoleAdmin
	default:
		return false
	}
}

// initialStatus returns the status a newly created artifact starts in, which
// is determined entirely by the creator's role: staff submissions wait for
// approval, admin submissions are live immediately.
func initialStatus(role Role) ArtifactStatus {
	if role == RoleAdmin {
		return ArtifactStatusApproved
	}
	return ArtifactStatusPending
}
