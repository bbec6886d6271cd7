package server_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"taskapp/internal/config"
	"taskapp/internal/repository"
	"taskapp/internal/server"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	gin.SetMode(gin.TestMode)
	return &config.Config{
		ServerPort:    "8080",
		DBPath:        filepath.Join(t.TempDir(), "task_app.db"),
		SessionSecret: "test-secret",
		SessionTTL:    time.Hour,
	}
}

func TestInit_SeedsDefaultAdmin(t *testing.T) {
	// Arrange
	cfg := testConfig(t)

	// Act
	s, err := server.Init(cfg)

	// Assert
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(s.DB)
	admin, err := userRepo.FindByCredentials(context.Background(), "admin", "1234")
	require.NoError(t, err)
	require.NotNil(t, admin)
	assert.True(t, admin.IsAdmin)
}

func TestInit_BootstrapRunsOnce(t *testing.T) {
	// Arrange: first boot seeds the admin, who then changes the passcode
	cfg := testConfig(t)
	s, err := server.Init(cfg)
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(s.DB)
	require.NoError(t, userRepo.UpdatePasscode(context.Background(), "admin", "changed"))

	// Act: a second boot against the same database file
	s2, err := server.Init(cfg)

	// Assert: no reseeding, the changed passcode survives
	require.NoError(t, err)

	repo2 := repository.NewUserRepository(s2.DB)
	count, err := repo2.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	admin, err := repo2.FindByCredentials(context.Background(), "admin", "changed")
	require.NoError(t, err)
	assert.NotNil(t, admin)
}
