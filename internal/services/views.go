package services

import (
	"strings"
	"time"

	"gestloc/internal/models"
)

// AdminView merges an admin row with its user row. Identity fields come
// from the user when present.
type AdminView struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Phone        string     `json:"phone"`
	Role         string     `json:"role"`
	Status       string     `json:"status"`
	EntrepriseID string     `json:"entreprise_id"`
	Paid         bool       `json:"paid"`
	PaidAt       *time.Time `json:"paid_at"`
	CreatedAt    time.Time  `json:"created_at"`
}

// ClientView is a client row with name fallbacks resolved.
type ClientView struct {
	ID        string          `json:"id"`
	AdminID   string          `json:"admin_id"`
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	Phone     string          `json:"phone"`
	Email     string          `json:"email"`
	CNI       string          `json:"cni"`
	Status    string          `json:"status"`
	Rentals   []models.Rental `json:"rentals"`
	CreatedAt time.Time       `json:"created_at"`
}

// PendingRequestView is projected from user rows with role ADMIN and status
// EN_ATTENTE; no stored row backs it.
type PendingRequestView struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type ViewService struct{}

func NewViewService() *ViewService {
	return &ViewService{}
}

// BuildAdminView assembles the admin response shape. User identity fields
// win over whatever the admin row carries.
func (s *ViewService) BuildAdminView(admin models.Admin) AdminView {
	view := AdminView{
		ID:           admin.ID,
		Username:     admin.Username,
		Email:        admin.Email,
		Role:         models.RoleAdmin,
		Status:       admin.Status,
		EntrepriseID: admin.EntrepriseID,
		Paid:         admin.Paid,
		PaidAt:       admin.PaidAt,
		CreatedAt:    admin.CreatedAt,
	}

	var user models.User
	if err := models.DB.First(&user, "id = ?", admin.ID).Error; err == nil {
		if user.Username != "" {
			view.Username = user.Username
		}
		if user.Email != "" {
			view.Email = user.Email
		}
		view.Name = user.Name
		view.Phone = user.Phone
	}
	return view
}

// BuildClientView resolves name fallbacks: explicit client fields win, then
// a first/last split of the linked user's full name, then a fixed default.
func (s *ViewService) BuildClientView(client models.Client) ClientView {
	view := ClientView{
		ID:        client.ID,
		AdminID:   client.AdminID,
		FirstName: client.FirstName,
		LastName:  client.LastName,
		Phone:     client.Phone,
		Email:     client.Email,
		CNI:       client.CNI,
		Status:    client.Status,
		Rentals:   client.Rentals,
		CreatedAt: client.CreatedAt,
	}
	if view.Rentals == nil {
		var rentals []models.Rental
		models.DB.Where("client_id = ?", client.ID).Find(&rentals)
		view.Rentals = rentals
	}

	if view.FirstName == "" && view.LastName == "" {
		var user models.User
		if err := models.DB.First(&user, "id = ?", client.ID).Error; err == nil && user.Name != "" {
			view.FirstName, view.LastName = splitName(user.Name)
		}
	}
	if view.FirstName == "" && view.LastName == "" {
		view.FirstName = "Client"
	}
	return view
}

// PendingRequests lists the pending admin requests.
func (s *ViewService) PendingRequests() []PendingRequestView {
	var users []models.User
	models.DB.
		Where("role = ? AND status = ?", models.RoleAdmin, models.StatusEnAttente).
		Find(&users)

	views := make([]PendingRequestView, 0, len(users))
	for _, u := range users {
		views = append(views, s.buildPendingView(u))
	}
	return views
}

// PendingRequest returns the pending view for a single user id.
func (s *ViewService) PendingRequest(id string) (PendingRequestView, bool) {
	var user models.User
	err := models.DB.
		Where("id = ? AND role = ? AND status = ?", id, models.RoleAdmin, models.StatusEnAttente).
		First(&user).Error
	if err != nil {
		return PendingRequestView{}, false
	}
	return s.buildPendingView(user), true
}

func (s *ViewService) buildPendingView(u models.User) PendingRequestView {
	return PendingRequestView{
		ID:        u.ID,
		Username:  u.Username,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
	}
}

func splitName(full string) (string, string) {
	full = strings.TrimSpace(full)
	if full == "" {
		return "", ""
	}
	parts := strings.SplitN(full, " ", 2)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.TrimSpace(parts[1])
}
