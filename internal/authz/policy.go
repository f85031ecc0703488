// Package authz decides whether a caller may act on a contact, as a pure
// function of the caller's verified claims and the resource's owner.
package authz

import "address_book/internal/model"

// Claims carries the identity facts extracted from a verified bearer token.
type Claims struct {
	UserID int
	Email  string
	Role   string
}

// CanAccess reports whether the caller may read, update or delete a
// resource owned by ownerID. Admins may act on any resource; users only
// on their own. Absent claims never grant access.
func CanAccess(claims *Claims, ownerID int) bool {
	if claims == nil {
		return false
	}
	switch claims.Role {
	case model.RoleAdmin:
		return true
	case model.RoleUser:
		return claims.UserID == ownerID
	default:
		return false
	}
}
