package routes

import (
	"encoding/json"
	"net/http"
	"testing"

	"gestloc/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientConflicts(t *testing.T) {
	cfg := setupTestDB(t)
	defer cleanupTestDB(t, cfg)

	router := setupTestRouter(cfg)

	w := doJSON(router, "POST", "/clients", "", map[string]string{
		"first_name": "Moussa",
		"last_name":  "Diop",
		"phone":      "771234567",
		"email":      "moussa@example.com",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	clientID := created["id"].(string)

	t.Run("same phone in another format conflicts", func(t *testing.T) {
		w := doJSON(router, "POST", "/clients", "", map[string]string{
			"first_name": "Autre",
			"phone":      "+221 77 123 45 67",
			"email":      "autre@example.com",
		})
		assert.Equal(t, http.StatusConflict, w.Code)

		var count int64
		models.DB.Model(&models.Client{}).Count(&count)
		assert.Equal(t, int64(1), count, "conflict must abort before storage")
	})

	t.Run("same email with different case conflicts", func(t *testing.T) {
		w := doJSON(router, "POST", "/clients", "", map[string]string{
			"first_name": "Autre",
			"phone":      "779999999",
			"email":      " MOUSSA@Example.com ",
		})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("updating a client to its own values does not self-conflict", func(t *testing.T) {
		w := doJSON(router, "PUT", "/clients/"+clientID, "", map[string]string{
			"phone": "221771234567",
			"email": "moussa@example.com",
		})
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("updating a client onto another client's phone conflicts", func(t *testing.T) {
		w := doJSON(router, "POST", "/clients", "", map[string]string{
			"first_name": "Deux",
			"phone":      "779999999",
			"email":      "deux@example.com",
		})
		require.Equal(t, http.StatusCreated, w.Code)
		var other map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &other))

		w = doJSON(router, "PATCH", "/clients/"+other["id"].(string), "", map[string]string{
			"phone": "77 123 45 67",
		})
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestUserConflictPriority(t *testing.T) {
	cfg := setupTestDB(t)
	defer cleanupTestDB(t, cfg)

	existing := createTestUser(t, "amadou", "secret123", models.RoleClient, models.StatusActif)
	existing.Phone = "771234567"
	require.NoError(t, models.DB.Save(existing).Error)

	router := setupTestRouter(cfg)

	t.Run("username reported before email", func(t *testing.T) {
		w := doJSON(router, "POST", "/users", "", map[string]string{
			"username": "amadou",
			"email":    "amadou@example.com",
			"password": "x",
		})
		require.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "nom d'utilisateur")
	})

	t.Run("email reported before phone", func(t *testing.T) {
		w := doJSON(router, "POST", "/users", "", map[string]string{
			"username": "fresh",
			"email":    "amadou@example.com",
			"phone":    "771234567",
			"password": "x",
		})
		require.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "email")
	})

	t.Run("phone conflict checked across users", func(t *testing.T) {
		w := doJSON(router, "POST", "/users", "", map[string]string{
			"username": "fresh",
			"email":    "fresh@example.com",
			"phone":    "+221771234567",
			"password": "x",
		})
		require.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "téléphone")
	})

	t.Run("username taken by an admin row also conflicts", func(t *testing.T) {
		require.NoError(t, models.DB.Create(&models.Admin{
			ID: "adm-1", Username: "gerant", Status: models.StatusActif,
		}).Error)

		w := doJSON(router, "POST", "/users", "", map[string]string{
			"username": "gerant",
			"email":    "gerant@example.com",
			"password": "x",
		})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("distinct values pass", func(t *testing.T) {
		w := doJSON(router, "POST", "/users", "", map[string]string{
			"username": "fresh",
			"email":    "fresh@example.com",
			"phone":    "778888888",
			"password": "x",
		})
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.NotContains(t, w.Body.String(), "password_hash")
	})
}

func TestEntrepriseConflicts(t *testing.T) {
	cfg := setupTestDB(t)
	defer cleanupTestDB(t, cfg)

	router := setupTestRouter(cfg)

	w := doJSON(router, "POST", "/entreprises", "", map[string]string{
		"name": "Immo Plus",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	t.Run("normalized name conflicts", func(t *testing.T) {
		w := doJSON(router, "POST", "/entreprises", "", map[string]string{
			"name": "  immo plus ",
		})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("legacy admin entreprise text conflicts", func(t *testing.T) {
		require.NoError(t, models.DB.Create(&models.Admin{
			ID: "adm-1", Username: "gerant", EntrepriseID: "Teranga Immo", Status: models.StatusActif,
		}).Error)

		w := doJSON(router, "POST", "/entreprises", "", map[string]string{
			"name": "teranga immo",
		})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("fresh name passes", func(t *testing.T) {
		w := doJSON(router, "POST", "/entreprises", "", map[string]string{
			"name": "Dakar Habitat",
		})
		assert.Equal(t, http.StatusCreated, w.Code)
	})
}

func TestCollectionQueryCoercion(t *testing.T) {
	cfg := setupTestDB(t)
	defer cleanupTestDB(t, cfg)

	for i := 0; i < 5; i++ {
		createTestClient(t, "", string(rune('A'+i)), "", "")
	}
	router := setupTestRouter(cfg)

	t.Run("_limit", func(t *testing.T) {
		w := doJSON(router, "GET", "/clients?_limit=2", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decodeList(t, w.Body.Bytes()), 2)
	})

	t.Run("_start and _end", func(t *testing.T) {
		w := doJSON(router, "GET", "/clients?_start=1&_end=4", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decodeList(t, w.Body.Bytes()), 3)
	})

	t.Run("_page and _per_page", func(t *testing.T) {
		w := doJSON(router, "GET", "/clients?_page=2&_per_page=2", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decodeList(t, w.Body.Bytes()), 2)
	})

	t.Run("unknown collection is 404", func(t *testing.T) {
		w := doJSON(router, "GET", "/nope", "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
