package dashboard

import (
	"context"

	"github.com/frahmantamala/lead-management/internal/entity"
	"github.com/frahmantamala/lead-management/internal/storage"
)

// StatusOptions is the option set of the plain name + status forms.
func StatusOptions(context.Context) map[string][]string {
	return map[string][]string{"status": entity.Statuses()}
}

// PermissionOptions adds the fixed permission names.
func PermissionOptions(context.Context) map[string][]string {
	return map[string][]string{
		"status": entity.Statuses(),
		"name":   entity.PermissionNames(),
	}
}

// AssignmentOptions offers the stored role and permission names. Choosing
// from them is a convenience; nothing checks the references later.
func AssignmentOptions(store storage.Adapter) func(ctx context.Context) map[string][]string {
	return func(ctx context.Context) map[string][]string {
		roles := storage.Load[entity.Role](ctx, store, storage.KeyRoles)
		perms := storage.Load[entity.Permission](ctx, store, storage.KeyPermissions)

		roleNames := make([]string, 0, len(roles))
		for _, r := range roles {
			roleNames = append(roleNames, r.RoleName)
		}
		permNames := make([]string, 0, len(perms))
		for _, p := range perms {
			permNames = append(permNames, p.Name)
		}
		if len(permNames) == 0 {
			permNames = entity.PermissionNames()
		}

		return map[string][]string{
			"status":          entity.Statuses(),
			"roleName":        roleNames,
			"permissionNames": permNames,
		}
	}
}
