package voting

import (
	"testing"

	"github.com/Pierocul/DIDAWARDS/storage"
	"github.com/stretchr/testify/assert"
)

func TestCanAccess(t *testing.T) {
	roles := []storage.Role{storage.RoleStudent, storage.RoleProfessor, storage.RoleGuest}
	generations := []int{0, 1, 2, 3, 4, 5, 9}

	t.Run("Academic categories are for professors only", func(t *testing.T) {
		category := &storage.Category{ID: "c", Type: storage.CategoryTypeAcademic}
		for _, role := range roles {
			for _, g := range generations {
				assert.Equal(t, role == storage.RoleProfessor, CanAccess(category, role, g), "role %s generation %d", role, g)
			}
		}
	})

	t.Run("Community categories match the student generation", func(t *testing.T) {
		category := &storage.Category{ID: "c", Type: storage.CategoryTypeCommunity, Generation: 3}
		assert.True(t, CanAccess(category, storage.RoleStudent, 3))
		assert.False(t, CanAccess(category, storage.RoleStudent, 2))
		assert.False(t, CanAccess(category, storage.RoleStudent, 4))
		for _, g := range generations {
			assert.False(t, CanAccess(category, storage.RoleProfessor, g))
			assert.False(t, CanAccess(category, storage.RoleGuest, g))
		}
	})

	t.Run("Community categories without generation admit every student", func(t *testing.T) {
		category := &storage.Category{ID: "c", Type: storage.CategoryTypeCommunity}
		for _, g := range generations {
			assert.True(t, CanAccess(category, storage.RoleStudent, g))
		}
		assert.False(t, CanAccess(category, storage.RoleProfessor, 0))
	})

	t.Run("Teacher categories are for students of any generation", func(t *testing.T) {
		category := &storage.Category{ID: "c", Type: storage.CategoryTypeTeacher}
		for _, g := range generations {
			assert.True(t, CanAccess(category, storage.RoleStudent, g))
			assert.False(t, CanAccess(category, storage.RoleProfessor, g))
		}
	})

	t.Run("Untyped categories use allowed roles", func(t *testing.T) {
		restricted := &storage.Category{ID: "c", AllowedRoles: []storage.Role{storage.RoleGuest, storage.RoleProfessor}}
		assert.False(t, CanAccess(restricted, storage.RoleStudent, 1))
		assert.True(t, CanAccess(restricted, storage.RoleGuest, 0))
		assert.True(t, CanAccess(restricted, storage.RoleProfessor, 0))

		open := &storage.Category{ID: "c"}
		for _, role := range roles {
			assert.True(t, CanAccess(open, role, 0))
		}
	})

	t.Run("Unknown types and missing categories stay open", func(t *testing.T) {
		unknown := &storage.Category{ID: "c", Type: storage.CategoryType("alumni")}
		for _, role := range roles {
			assert.True(t, CanAccess(unknown, role, 0))
		}
		assert.True(t, CanAccess(nil, storage.RoleGuest, 0))
	})
}
