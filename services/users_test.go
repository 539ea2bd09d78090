package services

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Yu-yu0202/FileShareService/database"
	"github.com/Yu-yu0202/FileShareService/models"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	return db
}

func TestUserServiceVerify(t *testing.T) {
	users := NewUserService(testDB(t))

	created, err := users.Create("alice", "correct horse", models.RoleUser)
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	assert.NotContains(t, created.Password, "correct horse")

	t.Run("CorrectPassword", func(t *testing.T) {
		user, err := users.Verify("alice", "correct horse")
		require.NoError(t, err)
		assert.Equal(t, created.ID, user.ID)
		assert.Equal(t, models.RoleUser, user.Role)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		_, err := users.Verify("alice", "correct horsf")
		assert.ErrorIs(t, err, ErrInvalidCredential)
	})

	t.Run("EmptyPassword", func(t *testing.T) {
		_, err := users.Verify("alice", "")
		assert.ErrorIs(t, err, ErrInvalidCredential)
	})

	t.Run("UnknownUser", func(t *testing.T) {
		_, err := users.Verify("bob", "correct horse")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("UsernameIsCaseSensitive", func(t *testing.T) {
		_, err := users.Verify("Alice", "correct horse")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestUserServiceDuplicateUsername(t *testing.T) {
	users := NewUserService(testDB(t))

	_, err := users.Create("alice", "first password", models.RoleUser)
	require.NoError(t, err)

	_, err = users.Create("alice", "second password", models.RoleAdmin)
	assert.ErrorIs(t, err, ErrDuplicateUsername)

	// The original record is untouched and still owns its password.
	user, err := users.Verify("alice", "first password")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, user.Role)
}

func TestUserServiceEnsureAdmin(t *testing.T) {
	db := testDB(t)
	users := NewUserService(db)

	require.NoError(t, users.EnsureAdmin("bootstrap-pw"))

	admin, err := users.Verify(AdminUsername, "bootstrap-pw")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)

	// Re-running must neither fail nor rotate the password.
	require.NoError(t, users.EnsureAdmin("different-pw"))
	_, err = users.Verify(AdminUsername, "bootstrap-pw")
	assert.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestUserServiceGet(t *testing.T) {
	users := NewUserService(testDB(t))

	created, err := users.Create("alice", "correct horse", models.RoleUser)
	require.NoError(t, err)

	user, err := users.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	_, err = users.Get(created.ID + 100)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
