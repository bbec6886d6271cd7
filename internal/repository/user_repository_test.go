package repository_test

import (
	"context"
	"path/filepath"
	"testing"

	"taskapp/internal/model"
	"taskapp/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// setupTestDB opens a fresh database file in a test temp dir and applies
// the schema, the same way server.Init does.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Task{}))

	return db
}

func TestUserRepository_CreateAndFindByCredentials(t *testing.T) {
	// Arrange
	db := setupTestDB(t)
	userRepo := repository.NewUserRepository(db)

	user := &model.User{Username: "alice", Passcode: "s3cret", IsAdmin: false}
	require.NoError(t, userRepo.Create(context.Background(), user))

	// Act
	found, err := userRepo.FindByCredentials(context.Background(), "alice", "s3cret")

	// Assert
	assert.NoError(t, err)
	assert.NotNil(t, found)
	assert.Equal(t, user.ID, found.ID)
	assert.False(t, found.IsAdmin)
}

func TestUserRepository_FindByCredentials_WrongPasscode(t *testing.T) {
	// Arrange
	db := setupTestDB(t)
	userRepo := repository.NewUserRepository(db)

	require.NoError(t, userRepo.Create(context.Background(), &model.User{Username: "alice", Passcode: "s3cret"}))

	// Act: the passcode comparison is case-sensitive and exact
	found, err := userRepo.FindByCredentials(context.Background(), "alice", "S3CRET")

	// Assert
	assert.NoError(t, err)
	assert.Nil(t, found)
}

func TestUserRepository_Create_DuplicateUsername(t *testing.T) {
	// Arrange
	db := setupTestDB(t)
	userRepo := repository.NewUserRepository(db)

	require.NoError(t, userRepo.Create(context.Background(), &model.User{Username: "alice", Passcode: "one"}))

	// Act: the unique index rejects the second row
	err := userRepo.Create(context.Background(), &model.User{Username: "alice", Passcode: "two"})

	// Assert
	assert.Error(t, err)
}

func TestUserRepository_GetAll_OrderedByUsername(t *testing.T) {
	// Arrange
	db := setupTestDB(t)
	userRepo := repository.NewUserRepository(db)

	for _, name := range []string{"charlie", "alice", "bob"} {
		require.NoError(t, userRepo.Create(context.Background(), &model.User{Username: name, Passcode: "pw"}))
	}

	// Act
	users, err := userRepo.GetAll(context.Background())

	// Assert
	assert.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, "alice", users[0].Username)
	assert.Equal(t, "bob", users[1].Username)
	assert.Equal(t, "charlie", users[2].Username)
}

func TestUserRepository_UpdatePasscode(t *testing.T) {
	// Arrange
	db := setupTestDB(t)
	userRepo := repository.NewUserRepository(db)

	require.NoError(t, userRepo.Create(context.Background(), &model.User{Username: "alice", Passcode: "old"}))

	// Act
	err := userRepo.UpdatePasscode(context.Background(), "alice", "new")

	// Assert
	assert.NoError(t, err)

	found, err := userRepo.FindByCredentials(context.Background(), "alice", "new")
	assert.NoError(t, err)
	assert.NotNil(t, found)

	stale, err := userRepo.FindByCredentials(context.Background(), "alice", "old")
	assert.NoError(t, err)
	assert.Nil(t, stale)
}

func TestUserRepository_UpdatePasscode_UnknownUser(t *testing.T) {
	// Arrange
	db := setupTestDB(t)
	userRepo := repository.NewUserRepository(db)

	// Act
	err := userRepo.UpdatePasscode(context.Background(), "ghost", "pw")

	// Assert
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestUserRepository_CountAdmins(t *testing.T) {
	// Arrange
	db := setupTestDB(t)
	userRepo := repository.NewUserRepository(db)

	require.NoError(t, userRepo.Create(context.Background(), &model.User{Username: "root", Passcode: "pw", IsAdmin: true}))
	require.NoError(t, userRepo.Create(context.Background(), &model.User{Username: "alice", Passcode: "pw"}))
	require.NoError(t, userRepo.Create(context.Background(), &model.User{Username: "bob", Passcode: "pw", IsAdmin: true}))

	// Act
	admins, err := userRepo.CountAdmins(context.Background())

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, int64(2), admins)
}

func TestUserRepository_Delete(t *testing.T) {
	// Arrange
	db := setupTestDB(t)
	userRepo := repository.NewUserRepository(db)

	user := &model.User{Username: "alice", Passcode: "pw"}
	require.NoError(t, userRepo.Create(context.Background(), user))

	// Act
	err := userRepo.Delete(context.Background(), user.ID)

	// Assert
	assert.NoError(t, err)

	found, err := userRepo.GetByID(context.Background(), user.ID)
	assert.NoError(t, err)
	assert.Nil(t, found)

	// Deleting again reports not found
	assert.ErrorIs(t, userRepo.Delete(context.Background(), user.ID), repository.ErrUserNotFound)
}
