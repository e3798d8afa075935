package services

import (
	"testing"

	"gestloc/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildClientViewPrecedence(t *testing.T) {
	setupTestDB(t)
	s := NewViewService()

	t.Run("explicit client fields win", func(t *testing.T) {
		require.NoError(t, models.DB.Create(&models.User{
			ID: "c1", Username: "c1", Name: "Fallback Name", PasswordHash: "x",
			Role: models.RoleClient, Status: models.StatusActif,
		}).Error)
		view := s.BuildClientView(models.Client{
			ID: "c1", FirstName: "Moussa", LastName: "Diop",
		})
		assert.Equal(t, "Moussa", view.FirstName)
		assert.Equal(t, "Diop", view.LastName)
	})

	t.Run("linked user's full name is split as fallback", func(t *testing.T) {
		require.NoError(t, models.DB.Create(&models.User{
			ID: "c2", Username: "c2", Name: "Awa Ndiaye Fall", PasswordHash: "x",
			Role: models.RoleClient, Status: models.StatusActif,
		}).Error)
		view := s.BuildClientView(models.Client{ID: "c2"})
		assert.Equal(t, "Awa", view.FirstName)
		assert.Equal(t, "Ndiaye Fall", view.LastName)
	})

	t.Run("computed default when nothing is known", func(t *testing.T) {
		view := s.BuildClientView(models.Client{ID: "c3"})
		assert.Equal(t, "Client", view.FirstName)
		assert.Empty(t, view.LastName)
	})

	t.Run("rentals are attached", func(t *testing.T) {
		require.NoError(t, models.DB.Create(&models.Rental{
			ID: "r1", ClientID: "c4", Label: "Appartement A",
		}).Error)
		view := s.BuildClientView(models.Client{ID: "c4", FirstName: "X"})
		require.Len(t, view.Rentals, 1)
		assert.Equal(t, "Appartement A", view.Rentals[0].Label)
	})
}

func TestBuildAdminViewPrecedence(t *testing.T) {
	setupTestDB(t)
	s := NewViewService()

	t.Run("user identity fields win over admin fields", func(t *testing.T) {
		require.NoError(t, models.DB.Create(&models.User{
			ID: "a1", Username: "fresh_name", Name: "Gérant Un", Email: "fresh@example.com",
			Phone: "771234567", PasswordHash: "x",
			Role: models.RoleAdmin, Status: models.StatusActif,
		}).Error)
		view := s.BuildAdminView(models.Admin{
			ID: "a1", Username: "stale_name", Email: "stale@example.com",
			Status: models.StatusActif, EntrepriseID: "Immo Plus",
		})
		assert.Equal(t, "fresh_name", view.Username)
		assert.Equal(t, "fresh@example.com", view.Email)
		assert.Equal(t, "Gérant Un", view.Name)
		assert.Equal(t, "771234567", view.Phone)
		assert.Equal(t, "Immo Plus", view.EntrepriseID)
	})

	t.Run("admin fields survive when no user row exists", func(t *testing.T) {
		view := s.BuildAdminView(models.Admin{
			ID: "a2", Username: "orphan", Email: "orphan@example.com",
			Status: models.StatusSuspendu,
		})
		assert.Equal(t, "orphan", view.Username)
		assert.Equal(t, models.StatusSuspendu, view.Status)
	})
}

func TestPendingRequestsProjection(t *testing.T) {
	setupTestDB(t)
	s := NewViewService()

	require.NoError(t, models.DB.Create(&models.User{
		ID: "p1", Username: "pending", PasswordHash: "x",
		Role: models.RoleAdmin, Status: models.StatusEnAttente,
	}).Error)
	require.NoError(t, models.DB.Create(&models.User{
		ID: "a1", Username: "active", PasswordHash: "x",
		Role: models.RoleAdmin, Status: models.StatusActif,
	}).Error)
	require.NoError(t, models.DB.Create(&models.User{
		ID: "c1", Username: "client", PasswordHash: "x",
		Role: models.RoleClient, Status: models.StatusEnAttente,
	}).Error)

	views := s.PendingRequests()
	require.Len(t, views, 1)
	assert.Equal(t, "pending", views[0].Username)

	_, ok := s.PendingRequest("a1")
	assert.False(t, ok)
	_, ok = s.PendingRequest("p1")
	assert.True(t, ok)
}

func TestSplitName(t *testing.T) {
	first, last := splitName("Awa Ndiaye")
	assert.Equal(t, "Awa", first)
	assert.Equal(t, "Ndiaye", last)

	first, last = splitName("Mononyme")
	assert.Equal(t, "Mononyme", first)
	assert.Empty(t, last)

	first, last = splitName("  ")
	assert.Empty(t, first)
	assert.Empty(t, last)
}
