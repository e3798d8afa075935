package handlers

import (
	"strconv"
	"strings"

	"gestloc/internal/models"
	"gestloc/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CollectionHandler serves the generic /:name[/:id] routes. Entity-specific
// interceptors reshape, scope or validate before delegating to plain
// collection persistence.
type CollectionHandler struct {
	collections *services.CollectionService
	conflicts   *services.ConflictService
	scope       *services.ScopeService
	views       *services.ViewService
	requests    *services.AdminRequestService
	guard       *services.BruteForceService
	authCtx     *services.AuthContextService
}

func NewCollectionHandler(
	collections *services.CollectionService,
	conflicts *services.ConflictService,
	scope *services.ScopeService,
	views *services.ViewService,
	requests *services.AdminRequestService,
	guard *services.BruteForceService,
	authCtx *services.AuthContextService,
) *CollectionHandler {
	return &CollectionHandler{
		collections: collections,
		conflicts:   conflicts,
		scope:       scope,
		views:       views,
		requests:    requests,
		guard:       guard,
		authCtx:     authCtx,
	}
}

// Dispatch routes /:name and /:name/:id by method. Registered as the
// router's fallback so explicit routes keep precedence.
func (h *CollectionHandler) Dispatch(c *gin.Context) {
	segments := strings.Split(strings.Trim(c.Request.URL.Path, "/"), "/")
	if len(segments) == 0 || segments[0] == "" || len(segments) > 2 {
		c.JSON(404, gin.H{"error": "Ressource introuvable"})
		return
	}

	name := segments[0]
	id := ""
	if len(segments) == 2 {
		id = segments[1]
	}

	if name == "admin_requests" {
		h.adminRequests(c, id)
		return
	}

	if !h.collections.Known(name) {
		c.JSON(404, gin.H{"error": "Collection inconnue"})
		return
	}

	if c.Request.Method != "GET" && h.collections.ReadOnly(name) {
		c.JSON(403, gin.H{"error": "Collection en lecture seule"})
		return
	}

	switch c.Request.Method {
	case "GET":
		if id == "" {
			h.list(c, name)
		} else {
			h.get(c, name, id)
		}
	case "POST":
		if id != "" {
			c.JSON(404, gin.H{"error": "Ressource introuvable"})
			return
		}
		h.create(c, name)
	case "PUT", "PATCH":
		if id == "" {
			c.JSON(400, gin.H{"error": "Identifiant requis"})
			return
		}
		h.update(c, name, id)
	case "DELETE":
		if id == "" {
			c.JSON(400, gin.H{"error": "Identifiant requis"})
			return
		}
		h.remove(c, name, id)
	default:
		c.JSON(405, gin.H{"error": "Méthode non autorisée"})
	}
}

func (h *CollectionHandler) list(c *gin.Context, name string) {
	filters, offset, limit := parseQuery(c)

	if name == "clients" {
		h.listClients(c, filters, offset, limit)
		return
	}

	rows, err := h.collections.List(name, filters, offset, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	if name == "admins" {
		c.JSON(200, h.adminViews(rows))
		return
	}
	c.JSON(200, rows)
}

func (h *CollectionHandler) get(c *gin.Context, name, id string) {
	if name == "clients" {
		if err := h.checkClientVisible(id); err != nil {
			respondError(c, err)
			return
		}
		var client models.Client
		if err := models.DB.First(&client, "id = ?", id).Error; err != nil {
			respondError(c, services.ErrNotFound)
			return
		}
		c.JSON(200, h.views.BuildClientView(client))
		return
	}

	row, err := h.collections.Get(name, id)
	if err != nil {
		respondError(c, err)
		return
	}

	if name == "admins" {
		var admin models.Admin
		if err := models.DB.First(&admin, "id = ?", id).Error; err == nil {
			c.JSON(200, h.views.BuildAdminView(admin))
			return
		}
	}
	c.JSON(200, row)
}

func (h *CollectionHandler) create(c *gin.Context, name string) {
	payload, ok := bindPayload(c)
	if !ok {
		return
	}

	if name == "users" {
		if !h.hashPasswordField(c, payload) {
			return
		}
	}

	effAdminID := h.effectiveAdminID()
	if name == "clients" && effAdminID != "" {
		payload["admin_id"] = effAdminID
	}

	row, err := h.collections.Create(name, payload, func(p map[string]any) error {
		if msg := h.conflicts.Check(name, p, ""); msg != "" {
			return &services.ConflictError{Message: msg}
		}
		return nil
	})
	if err != nil {
		respondError(c, err)
		return
	}

	// keep the admin-client join authoritative for visibility
	if name == "clients" && effAdminID != "" {
		link := models.AdminClientLink{
			ID:       uuid.NewString(),
			AdminID:  effAdminID,
			ClientID: row["id"].(string),
		}
		models.DB.Create(&link)
	}

	c.JSON(201, row)
}

func (h *CollectionHandler) update(c *gin.Context, name, id string) {
	if name == "clients" {
		if err := h.checkClientVisible(id); err != nil {
			respondError(c, err)
			return
		}
	}
	if name == "blocked_ips" {
		c.JSON(403, gin.H{"error": "Collection en lecture seule"})
		return
	}

	payload, ok := bindPayload(c)
	if !ok {
		return
	}

	if name == "users" {
		if !h.hashPasswordField(c, payload) {
			return
		}
	}

	row, err := h.collections.Update(name, id, payload, func(p map[string]any) error {
		if msg := h.conflicts.Check(name, p, id); msg != "" {
			return &services.ConflictError{Message: msg}
		}
		return nil
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, row)
}

func (h *CollectionHandler) remove(c *gin.Context, name, id string) {
	if name == "blocked_ips" {
		// deletion of a block row is the unblock operation
		ctx, _ := h.authCtx.Snapshot()
		if _, err := h.guard.Unblock(id, ctx.UserID, c.ClientIP()); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, gin.H{"message": "Adresse IP débloquée"})
		return
	}

	if name == "clients" {
		if err := h.checkClientVisible(id); err != nil {
			respondError(c, err)
			return
		}
	}

	if err := h.collections.Delete(name, id, nil); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, gin.H{"message": "Supprimé"})
}

// adminRequests serves the virtual pending-admin-request collection.
func (h *CollectionHandler) adminRequests(c *gin.Context, id string) {
	switch c.Request.Method {
	case "GET":
		if id == "" {
			c.JSON(200, h.views.PendingRequests())
			return
		}
		view, ok := h.views.PendingRequest(id)
		if !ok {
			c.JSON(404, gin.H{"error": "Demande introuvable"})
			return
		}
		c.JSON(200, view)

	case "POST":
		payload, ok := bindPayload(c)
		if !ok {
			return
		}
		if !h.hashPasswordField(c, payload) {
			return
		}
		payload["role"] = models.RoleAdmin
		payload["status"] = models.StatusEnAttente

		row, err := h.collections.Create("users", payload, func(p map[string]any) error {
			if msg := h.conflicts.Check("users", p, ""); msg != "" {
				return &services.ConflictError{Message: msg}
			}
			return nil
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(201, row)

	case "PUT", "PATCH":
		if id == "" {
			c.JSON(400, gin.H{"error": "Identifiant requis"})
			return
		}
		payload, ok := bindPayload(c)
		if !ok {
			return
		}
		status, _ := payload["status"].(string)
		if status == "" {
			c.JSON(400, gin.H{"error": "Statut requis"})
			return
		}

		ctx, _ := h.authCtx.Snapshot()
		view, err := h.requests.UpdateStatus(id, status, ctx.UserID, c.ClientIP())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, view)

	case "DELETE":
		if id == "" {
			c.JSON(400, gin.H{"error": "Identifiant requis"})
			return
		}
		if err := h.requests.Delete(id); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, gin.H{"message": "Demande supprimée"})

	default:
		c.JSON(405, gin.H{"error": "Méthode non autorisée"})
	}
}

func (h *CollectionHandler) listClients(c *gin.Context, filters map[string]string, offset, limit int) {
	q := models.DB.Model(&models.Client{})
	for k, v := range filters {
		q = q.Where(map[string]any{k: v})
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	var clients []models.Client
	if err := q.Find(&clients).Error; err != nil {
		respondError(c, err)
		return
	}

	effAdminID := h.effectiveAdminID()
	var visible map[string]bool
	if effAdminID != "" {
		visible = h.scope.VisibleClientIDs(effAdminID)
	}

	views := make([]services.ClientView, 0, len(clients))
	for _, client := range clients {
		if visible != nil && !visible[client.ID] {
			continue
		}
		views = append(views, h.views.BuildClientView(client))
	}
	c.JSON(200, views)
}

func (h *CollectionHandler) adminViews(rows []map[string]any) []services.AdminView {
	views := make([]services.AdminView, 0, len(rows))
	for _, row := range rows {
		id, _ := row["id"].(string)
		var admin models.Admin
		if err := models.DB.First(&admin, "id = ?", id).Error; err != nil {
			continue
		}
		views = append(views, h.views.BuildAdminView(admin))
	}
	return views
}

// checkClientVisible enforces the scoping rule on single-client access.
func (h *CollectionHandler) checkClientVisible(id string) error {
	effAdminID := h.effectiveAdminID()
	if effAdminID == "" {
		return nil
	}
	if !h.scope.VisibleClientIDs(effAdminID)[id] {
		return services.ErrForbidden
	}
	return nil
}

func (h *CollectionHandler) effectiveAdminID() string {
	ctx, user := h.authCtx.Snapshot()
	return h.scope.EffectiveAdminID(ctx, user)
}

func (h *CollectionHandler) hashPasswordField(c *gin.Context, payload map[string]any) bool {
	password, _ := payload["password"].(string)
	if password == "" {
		delete(payload, "password")
		return true
	}
	hash, err := h.authCtx.HashPassword(password)
	if err != nil {
		respondError(c, err)
		return false
	}
	delete(payload, "password")
	payload["password_hash"] = hash
	return true
}

func bindPayload(c *gin.Context) (map[string]any, bool) {
	payload := map[string]any{}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(400, gin.H{"error": "Corps de requête invalide"})
		return nil, false
	}
	if payload == nil {
		payload = map[string]any{}
	}
	return payload, true
}

// parseQuery coerces the pagination parameters to integers and keeps the
// rest as equality filters.
func parseQuery(c *gin.Context) (map[string]string, int, int) {
	filters := map[string]string{}
	offset, limit := 0, 0

	start := intQuery(c, "_start", 0)
	end := intQuery(c, "_end", 0)
	if start > 0 {
		offset = start
	}
	if end > start {
		limit = end - start
	}

	if l := intQuery(c, "_limit", 0); l > 0 {
		limit = l
	}

	perPage := intQuery(c, "_per_page", 0)
	if page := intQuery(c, "_page", 0); page > 0 {
		if perPage <= 0 {
			perPage = 10
		}
		offset = (page - 1) * perPage
		limit = perPage
	}

	for key, values := range c.Request.URL.Query() {
		if strings.HasPrefix(key, "_") || len(values) == 0 {
			continue
		}
		filters[key] = values[0]
	}
	return filters, offset, limit
}

func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
