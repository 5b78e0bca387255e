package osa

import (
	"github.com/pkg/errors"
)

var permissionNames = map[string]Permission{
	"FULL_CONTROL": PermissionFullControl,
	"WRITE":        PermissionWrite,
	"READ":         PermissionRead,
	"WRITE_ACP":    PermissionWriteACP,
	"READ_ACP":     PermissionReadACP,
}

// MapPermission maps a permission name to its Permission by exact match.
// Anything unrecognized maps to NOT_SET.
func MapPermission(name string) Permission {
	if permission, ok := permissionNames[name]; ok {
		return permission
	}
	return PermissionNotSet
}

// ParsePermission is the strict form of MapPermission: an unrecognized
// name is an error instead of NOT_SET.
func ParsePermission(name string) (Permission, error) {
	if permission, ok := permissionNames[name]; ok {
		return permission, nil
	}
	return PermissionNotSet, errors.Wrapf(ErrUnknownPermission, "%q", name)
}
