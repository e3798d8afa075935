package services

import (
	"fmt"
	"os"
	"testing"
	"time"

	"gestloc/internal/config"
	"gestloc/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *config.Config {
	testDBPath := fmt.Sprintf("%s/gestloc_services_test_%d.db", os.TempDir(), time.Now().UnixNano())

	cfg := &config.Config{
		Server: config.ServerConfig{Mode: "test"},
		Database: config.DatabaseConfig{
			Type:   "sqlite",
			SQLite: config.SQLiteConfig{Path: testDBPath},
		},
		Security: config.SecurityConfig{
			BcryptCost: 4,
			BruteForce: config.BruteForceConfig{
				MaxFailures:   5,
				WindowMinutes: 60,
				TrustedIPs:    []string{"127.0.0.1", "::1", "localhost"},
			},
		},
	}

	require.NoError(t, models.InitDB(cfg))
	t.Cleanup(func() {
		if models.DB != nil {
			if sqlDB, err := models.DB.DB(); err == nil {
				sqlDB.Close()
			}
		}
		os.Remove(testDBPath)
		models.DB = nil
	})
	return cfg
}

func seedClient(t *testing.T, phone, email string) *models.Client {
	c := &models.Client{ID: uuid.NewString(), FirstName: "Test", Phone: phone, Email: email}
	require.NoError(t, models.DB.Create(c).Error)
	return c
}

func TestDuplicateClient(t *testing.T) {
	setupTestDB(t)
	s := NewConflictService()

	existing := seedClient(t, "771234567", "moussa@example.com")

	t.Run("no conflict on empty store fields", func(t *testing.T) {
		assert.Empty(t, s.DuplicateClient(map[string]any{"phone": "", "email": ""}, ""))
	})

	t.Run("phone conflict across formats", func(t *testing.T) {
		msg := s.DuplicateClient(map[string]any{"phone": "+221 77 123 45 67"}, "")
		assert.Equal(t, msgClientPhoneTaken, msg)
	})

	t.Run("email conflict ignoring case", func(t *testing.T) {
		msg := s.DuplicateClient(map[string]any{"email": "MOUSSA@example.com"}, "")
		assert.Equal(t, msgClientEmailTaken, msg)
	})

	t.Run("self is excluded on update", func(t *testing.T) {
		msg := s.DuplicateClient(map[string]any{
			"phone": "771234567", "email": "moussa@example.com",
		}, existing.ID)
		assert.Empty(t, msg)
	})
}

func TestDuplicateUserPriority(t *testing.T) {
	setupTestDB(t)
	s := NewConflictService()

	require.NoError(t, models.DB.Create(&models.User{
		ID: "u1", Username: "amadou", Email: "amadou@example.com", Phone: "771234567",
		PasswordHash: "x", Role: models.RoleClient, Status: models.StatusActif,
	}).Error)

	t.Run("username wins over email and phone", func(t *testing.T) {
		msg := s.DuplicateUser(map[string]any{
			"username": "Amadou", "email": "amadou@example.com", "phone": "771234567",
		}, "")
		assert.Equal(t, msgUsernameTaken, msg)
	})

	t.Run("email wins over phone", func(t *testing.T) {
		msg := s.DuplicateUser(map[string]any{
			"username": "other", "email": "amadou@example.com", "phone": "771234567",
		}, "")
		assert.Equal(t, msgEmailTaken, msg)
	})

	t.Run("phone last", func(t *testing.T) {
		msg := s.DuplicateUser(map[string]any{
			"username": "other", "email": "other@example.com", "phone": "221771234567",
		}, "")
		assert.Equal(t, msgPhoneTaken, msg)
	})

	t.Run("admin usernames count too", func(t *testing.T) {
		require.NoError(t, models.DB.Create(&models.Admin{
			ID: "a1", Username: "gerant", Status: models.StatusActif,
		}).Error)
		msg := s.DuplicateUser(map[string]any{"username": "gerant"}, "")
		assert.Equal(t, msgUsernameTaken, msg)
	})

	t.Run("admin phone does not count", func(t *testing.T) {
		msg := s.DuplicateUser(map[string]any{
			"username": "other", "email": "other@example.com", "phone": "770000000",
		}, "")
		assert.Empty(t, msg)
	})
}

func TestDuplicateAdminCarveOut(t *testing.T) {
	setupTestDB(t)
	s := NewConflictService()

	// admin and its linked user share the id and the username
	require.NoError(t, models.DB.Create(&models.User{
		ID: "a1", Username: "gerant", PasswordHash: "x",
		Role: models.RoleAdmin, Status: models.StatusActif,
	}).Error)
	require.NoError(t, models.DB.Create(&models.Admin{
		ID: "a1", Username: "gerant", Status: models.StatusActif,
	}).Error)

	t.Run("own linked user's username is not a conflict", func(t *testing.T) {
		assert.Empty(t, s.DuplicateAdmin(map[string]any{"username": "gerant"}, "a1"))
	})

	t.Run("another admin holding the username conflicts", func(t *testing.T) {
		msg := s.DuplicateAdmin(map[string]any{"username": "gerant"}, "a2")
		assert.Equal(t, msgAdminNameConflict, msg)
	})

	t.Run("another user holding the username conflicts", func(t *testing.T) {
		require.NoError(t, models.DB.Create(&models.User{
			ID: "u9", Username: "comptable", PasswordHash: "x",
			Role: models.RoleClient, Status: models.StatusActif,
		}).Error)
		msg := s.DuplicateAdmin(map[string]any{"username": "comptable"}, "a1")
		assert.Equal(t, msgAdminNameConflict, msg)
	})
}

func TestDuplicateEntreprise(t *testing.T) {
	setupTestDB(t)
	s := NewConflictService()

	require.NoError(t, models.DB.Create(&models.Entreprise{
		ID: "e1", Name: "Immo Plus",
	}).Error)
	require.NoError(t, models.DB.Create(&models.Admin{
		ID: "a1", Username: "gerant", EntrepriseID: "Teranga Immo", Status: models.StatusActif,
	}).Error)

	t.Run("normalized name across entreprises", func(t *testing.T) {
		msg := s.DuplicateEntreprise(map[string]any{"name": " IMMO plus "}, "")
		assert.Equal(t, msgEntrepriseTaken, msg)
	})

	t.Run("legacy free text on admins", func(t *testing.T) {
		msg := s.DuplicateEntreprise(map[string]any{"name": "teranga immo"}, "")
		assert.Equal(t, msgEntrepriseTaken, msg)
	})

	t.Run("self excluded on update", func(t *testing.T) {
		assert.Empty(t, s.DuplicateEntreprise(map[string]any{"name": "Immo Plus"}, "e1"))
	})

	t.Run("fresh name passes", func(t *testing.T) {
		assert.Empty(t, s.DuplicateEntreprise(map[string]any{"name": "Dakar Habitat"}, ""))
	})
}
