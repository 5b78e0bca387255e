package osa

// Permission is a single access level within a grant, using the wire
// spelling shared by the S3-compatible vendors.
type Permission string

const (
	PermissionFullControl Permission = "FULL_CONTROL"
	PermissionWrite       Permission = "WRITE"
	PermissionWriteACP    Permission = "WRITE_ACP"
	PermissionRead        Permission = "READ"
	PermissionReadACP     Permission = "READ_ACP"
	PermissionNotSet      Permission = "NOT_SET"
)

// GranteeType identifies the kind of principal a grant applies to.
type GranteeType string

const (
	GranteeCanonicalUser GranteeType = "CanonicalUser"
	GranteeGroup         GranteeType = "Group"
	GranteeEmailAddress  GranteeType = "EmailAddress"
)

type Grantee struct {
	ID          string
	DisplayName string
	Type        GranteeType
}

type Grant struct {
	Grantee    Grantee
	Permission Permission
}

// AccessControlPolicy is the full ACL of one bucket or one object: an owner
// plus an ordered grant list. Order is whatever the store returned and
// duplicates are permitted. A policy is fetched fresh for every operation
// and never shared between them.
type AccessControlPolicy struct {
	Owner  Grantee
	Grants []Grant
}
