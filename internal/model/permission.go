package model

// Permission is a capability bit. A user's permissions column is the
// bitwise OR of the granted bits.
type Permission int64

const (
	PermReadSelf Permission = 1 << iota
	PermUpdateSelf
	PermDeleteSelf
	PermAdmin
	PermCreateUsers
	PermReadUsers
	PermUpdateUsers
	PermDeleteUsers
)

// DefaultUserPermissions is the grant for self-service signup: new
// accounts manage only themselves.
const DefaultUserPermissions = PermReadSelf | PermUpdateSelf | PermDeleteSelf

// Has reports whether all required bits are present. The admin bit
// satisfies any requirement.
func (p Permission) Has(required Permission) bool {
	if p&PermAdmin == PermAdmin {
		return true
	}
	return p&required == required
}
