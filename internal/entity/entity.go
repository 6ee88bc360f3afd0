// Package entity holds the records managed by the console: roles,
// permissions, role-permission mappings and the lead status lookups.
//
// Every record is a flat named value with a two-state status flag. Records
// reference each other only by name; nothing keeps those references intact.
package entity

import (
	"fmt"
	"regexp"
	"strings"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

func (s Status) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

// Statuses lists the allowed status values in display order.
func Statuses() []string {
	return []string{string(StatusActive), string(StatusInactive)}
}

// Permission names are a fixed set.
const (
	PermissionEdit   = "edit"
	PermissionUpdate = "update"
	PermissionDelete = "delete"
)

func PermissionNames() []string {
	return []string{PermissionEdit, PermissionUpdate, PermissionDelete}
}

// Record is implemented by every entity the list and form controllers handle.
type Record interface {
	// Identity is the name the record is matched by on edit and delete.
	Identity() string
	StatusValue() string
	// SearchText is what the list filter matches against.
	SearchText() string
}

var namePattern = regexp.MustCompile(`^[\p{L}\p{N}][\p{L}\p{N} _\-.,&/()']*$`)

const maxNameLength = 100

func validShape(name string, status Status) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("name is empty")
	}
	if !status.Valid() {
		return fmt.Errorf("status %q is not one of %s", status, strings.Join(Statuses(), ", "))
	}
	return nil
}
