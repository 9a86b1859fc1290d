package policy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"go-gin-user-admin/internal/domain"
)

func TestCanAccess(t *testing.T) {
	admin := &domain.User{ID: "a", Role: domain.RoleAdmin}
	user := &domain.User{ID: "u", Role: domain.RoleUser}
	other := &domain.User{ID: "o", Role: domain.RoleUser}
	deletedAdmin := &domain.User{
		ID:        "d",
		Role:      domain.RoleAdmin,
		DeletedAt: gorm.DeletedAt{Time: time.Now(), Valid: true},
	}

	for _, action := range Actions() {
		t.Run(string(action), func(t *testing.T) {
			assert.True(t, CanAccess(admin, action, nil))
			assert.True(t, CanAccess(admin, action, other))
			assert.True(t, CanAccess(admin, action, admin))

			assert.False(t, CanAccess(user, action, nil))
			assert.False(t, CanAccess(user, action, other))
			assert.False(t, CanAccess(user, action, user), "self-service is not allowed")

			assert.False(t, CanAccess(nil, action, other))
			assert.False(t, CanAccess(deletedAdmin, action, other))
		})
	}
}

func TestCanAccessUnknownAction(t *testing.T) {
	admin := &domain.User{Role: domain.RoleAdmin}
	assert.False(t, CanAccess(admin, Action("export"), nil))
}

func TestCanAccessUnknownRole(t *testing.T) {
	assert.False(t, CanAccess(&domain.User{Role: "owner"}, List, nil))
}
