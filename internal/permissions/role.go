// Package permissions holds hanke roles, the permission bits they grant and
// the access tokens handed out to contact persons of a hanke.
package permissions

// Role is a named set of permission bits. The codes are seeded in the role table.
type Role string

const (
	RoleAll          Role = "KAIKKI_OIKEUDET"
	RoleEditAll      Role = "KAIKKIEN_MUOKKAUS"
	RoleEditHanke    Role = "HANKEMUOKKAUS"
	RoleApplications Role = "HAKEMUSASIOINTI"
	RoleView         Role = "KATSELUOIKEUS"
)

// PermissionCode is a single permission bit.
type PermissionCode int64

const (
	PermissionView                         PermissionCode = 1
	PermissionModifyViewPermissions        PermissionCode = 2
	PermissionEdit                         PermissionCode = 4
	PermissionModifyEditPermissions        PermissionCode = 8
	PermissionDelete                       PermissionCode = 16
	PermissionModifyDeletePermissions      PermissionCode = 32
	PermissionEditApplications             PermissionCode = 64
	PermissionModifyApplicationPermissions PermissionCode = 128
)

var roleCodes = map[Role]int64{
	RoleAll:          255,
	RoleEditAll:      207,
	RoleEditHanke:    69,
	RoleApplications: 65,
	RoleView:         1,
}

// Code returns the permission code of the role, zero for an unknown role.
func (r Role) Code() int64 { return roleCodes[r] }

// Grants reports whether the role carries the permission bit.
func (r Role) Grants(p PermissionCode) bool {
	return r.Code()&int64(p) != 0
}
