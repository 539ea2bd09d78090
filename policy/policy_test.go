package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Yu-yu0202/FileShareService/models"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name     string
		op       Operation
		loggedIn bool
		role     models.Role
		want     Decision
	}{
		{"anonymous list redirects", OpListVisible, false, "", RedirectToLogin},
		{"anonymous upload redirects", OpUpload, false, "", RedirectToLogin},
		{"anonymous read redirects", OpRead, false, "", RedirectToLogin},
		{"anonymous admin list is 401", OpListAll, false, "", LoginRequired},
		{"anonymous visibility is 401", OpSetVisibility, false, "", LoginRequired},
		{"anonymous delete is 401", OpDelete, false, "", LoginRequired},
		{"anonymous register is 401", OpRegisterUser, false, "", LoginRequired},
		{"anonymous backup is 401", OpBackup, false, "", LoginRequired},

		{"user lists visible", OpListVisible, true, models.RoleUser, Allow},
		{"user uploads", OpUpload, true, models.RoleUser, Allow},
		{"user reads", OpRead, true, models.RoleUser, Allow},
		{"user cannot list all", OpListAll, true, models.RoleUser, Forbidden},
		{"user cannot set visibility", OpSetVisibility, true, models.RoleUser, Forbidden},
		{"user cannot delete", OpDelete, true, models.RoleUser, Forbidden},
		{"user cannot register users", OpRegisterUser, true, models.RoleUser, Forbidden},
		{"user cannot run backups", OpBackup, true, models.RoleUser, Forbidden},

		{"admin lists visible", OpListVisible, true, models.RoleAdmin, Allow},
		{"admin uploads", OpUpload, true, models.RoleAdmin, Allow},
		{"admin reads", OpRead, true, models.RoleAdmin, Allow},
		{"admin lists all", OpListAll, true, models.RoleAdmin, Allow},
		{"admin sets visibility", OpSetVisibility, true, models.RoleAdmin, Allow},
		{"admin deletes", OpDelete, true, models.RoleAdmin, Allow},
		{"admin registers users", OpRegisterUser, true, models.RoleAdmin, Allow},
		{"admin runs backups", OpBackup, true, models.RoleAdmin, Allow},

		{"unknown role never passes a user gate", OpUpload, true, "superuser", Forbidden},
		{"unknown role never passes an admin gate", OpDelete, true, "superuser", Forbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(tt.op, tt.loggedIn, tt.role))
		})
	}
}

func TestOwnerScoped(t *testing.T) {
	assert.True(t, OwnerScoped(OpRead, models.RoleUser))
	assert.False(t, OwnerScoped(OpRead, models.RoleAdmin))
	assert.True(t, OwnerScoped(OpRead, models.Role("superuser")))

	// Only reads carry ownership scoping; admin-only operations are gated by
	// role, not owner.
	assert.False(t, OwnerScoped(OpDelete, models.RoleUser))
	assert.False(t, OwnerScoped(OpListVisible, models.RoleUser))
}
