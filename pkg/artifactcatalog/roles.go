package artifactcatalog

import (
	"context"
	"errors"
)

// ResolveRole maps the active session to a role by looking up the principal's
// assignment in the role-assignment collection. No session and no assignment
// are both legitimate results, not failures: either yields RoleNone.
func ResolveRole(ctx context.Context, sessions SessionProvider, repo Repository) (Role, *Principal, error) {
	principal, err := sessions.GetSession(ctx)
	if err != nil {
		return RoleNone, nil, err
	}
	if principal == nil {
		return RoleNone, nil, nil
	}

	assignment, err := repo.GetRoleAssignment(ctx, principal.ID)
	if err != nil {
		if errors.Is(err, ErrRoleAssignmentNotFound) {
			principal.Role = RoleNone
			return RoleNone, principal, nil
		}
		return RoleNone, nil, err
	}

	principal.Role = assignment.Role
	return assignment.Role, principal, nil
}
