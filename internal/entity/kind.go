package entity

import "github.com/frahmantamala/lead-management/internal/storage"

// Kind describes where an entity lives in storage and in the route tree.
type Kind struct {
	Name       string
	StorageKey string
	Route      string
	// IdentityField is the JSON field holding the record's name.
	IdentityField string
}

var (
	KindRole           = Kind{Name: "role", StorageKey: storage.KeyRoles, Route: "/role-permission/role", IdentityField: "roleName"}
	KindPermission     = Kind{Name: "permission", StorageKey: storage.KeyPermissions, Route: "/role-permission/permission", IdentityField: "name"}
	KindRolePermission = Kind{Name: "role permission", StorageKey: storage.KeyRolePermissions, Route: "/role-permission/assign", IdentityField: "roleName"}
	KindBankType       = Kind{Name: "bank type", StorageKey: storage.KeyBankTypes, Route: "/lead/status/bank", IdentityField: "name"}
	KindLegalStatus    = Kind{Name: "legal status", StorageKey: storage.KeyLegalStatuses, Route: "/lead/status/legal", IdentityField: "name"}
	KindTypeOfCredit   = Kind{Name: "type of credit", StorageKey: storage.KeyTypesOfCredit, Route: "/lead/status/credit", IdentityField: "name"}
)

func Kinds() []Kind {
	return []Kind{KindRole, KindPermission, KindRolePermission, KindBankType, KindLegalStatus, KindTypeOfCredit}
}
