package voting

import "github.com/Pierocul/DIDAWARDS/storage"

// CanAccess reports whether a user with the given role and generation may
// vote in category. Untyped categories fall back to AllowedRoles and unknown
// types are open to everyone.
func CanAccess(category *storage.Category, role storage.Role, generation int) bool {
	if category == nil {
		return true
	}

	switch category.Type {
	case storage.CategoryTypeLegacy:
		if len(category.AllowedRoles) == 0 {
			return true
		}
		for _, r := range category.AllowedRoles {
			if r == role {
				return true
			}
		}
		return false
	case storage.CategoryTypeAcademic:
		return role == storage.RoleProfessor
	case storage.CategoryTypeCommunity:
		if role != storage.RoleStudent {
			return false
		}
		return category.Generation == 0 || category.Generation == generation
	case storage.CategoryTypeTeacher:
		return role == storage.RoleStudent
	default:
		// TODO: decide with the organisers whether unknown types should fail closed.
		return true
	}
}
