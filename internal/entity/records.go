package entity

import (
	"strings"

	"github.com/frahmantamala/lead-management/internal"
	"github.com/frahmantamala/lead-management/internal/core/common/validation"
)

type Role struct {
	RoleName string `json:"roleName"`
	Status   Status `json:"status"`
}

func (r Role) Identity() string    { return r.RoleName }
func (r Role) StatusValue() string { return string(r.Status) }
func (r Role) SearchText() string  { return r.RoleName }
func (r Role) Valid() error        { return validShape(r.RoleName, r.Status) }

func (r Role) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("roleName", r.RoleName).Required().MaxLength(maxNameLength).Matches(namePattern)
	statusField(v, r.Status)
	return v.Validate()
}

type Permission struct {
	Name   string `json:"name"`
	Status Status `json:"status"`
}

func (p Permission) Identity() string    { return p.Name }
func (p Permission) StatusValue() string { return string(p.Status) }
func (p Permission) SearchText() string  { return p.Name }
func (p Permission) Valid() error        { return validShape(p.Name, p.Status) }

func (p Permission) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("name", p.Name).Required().OneOf(internal.ErrCodeNotAllowed, PermissionNames()...)
	statusField(v, p.Status)
	return v.Validate()
}

// RolePermission grants a role a list of permissions, both by name.
type RolePermission struct {
	RoleName        string   `json:"roleName"`
	PermissionNames []string `json:"permissionNames"`
	Status          Status   `json:"status"`
}

func (rp RolePermission) Identity() string    { return rp.RoleName }
func (rp RolePermission) StatusValue() string { return string(rp.Status) }

// SearchText includes the joined permission names so filtering by "edit"
// finds every role holding it.
func (rp RolePermission) SearchText() string {
	return rp.RoleName + " " + strings.Join(rp.PermissionNames, ", ")
}

func (rp RolePermission) Valid() error { return validShape(rp.RoleName, rp.Status) }

func (rp RolePermission) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("roleName", rp.RoleName).Required().MaxLength(maxNameLength).Matches(namePattern)
	v.Field("permissionNames", rp.PermissionNames).Required()
	statusField(v, rp.Status)
	return v.Validate()
}

type BankType struct {
	Name   string `json:"name"`
	Status Status `json:"status"`
}

func (b BankType) Identity() string             { return b.Name }
func (b BankType) StatusValue() string          { return string(b.Status) }
func (b BankType) SearchText() string           { return b.Name }
func (b BankType) Valid() error                 { return validShape(b.Name, b.Status) }
func (b BankType) Validate() *internal.AppError { return validateNamed(b.Name, b.Status) }

type LegalStatus struct {
	Name   string `json:"name"`
	Status Status `json:"status"`
}

func (l LegalStatus) Identity() string             { return l.Name }
func (l LegalStatus) StatusValue() string          { return string(l.Status) }
func (l LegalStatus) SearchText() string           { return l.Name }
func (l LegalStatus) Valid() error                 { return validShape(l.Name, l.Status) }
func (l LegalStatus) Validate() *internal.AppError { return validateNamed(l.Name, l.Status) }

type TypeOfCredit struct {
	Name   string `json:"name"`
	Status Status `json:"status"`
}

func (t TypeOfCredit) Identity() string             { return t.Name }
func (t TypeOfCredit) StatusValue() string          { return string(t.Status) }
func (t TypeOfCredit) SearchText() string           { return t.Name }
func (t TypeOfCredit) Valid() error                 { return validShape(t.Name, t.Status) }
func (t TypeOfCredit) Validate() *internal.AppError { return validateNamed(t.Name, t.Status) }

func validateNamed(name string, status Status) *internal.AppError {
	v := validation.NewValidator()
	v.Field("name", name).Required().MaxLength(maxNameLength).Matches(namePattern)
	statusField(v, status)
	return v.Validate()
}

func statusField(v *validation.ValidationBuilder, status Status) {
	v.Field("status", string(status)).Required().OneOf(internal.ErrCodeInvalidStatus, Statuses()...)
}
