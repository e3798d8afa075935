package services

import (
	"errors"
	"sync"
	"time"

	"gestloc/internal/config"
	"gestloc/internal/models"
	"gestloc/internal/normalize"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Impersonation is a projection of a super-admin's effective data scope onto
// a target admin. The underlying authenticated principal never changes.
type Impersonation struct {
	AdminID   string `json:"admin_id"`
	AdminName string `json:"admin_name"`
	UserID    string `json:"user_id,omitempty"`
}

type AuthContext struct {
	UserID        string         `json:"user_id"`
	Impersonation *Impersonation `json:"impersonation"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// Principal is the sanitized view of an authenticated user. The secret never
// leaves the service.
type Principal struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Status   string `json:"status"`
}

// AuthContextService owns the process-wide authentication context. Exactly
// one principal is active at a time, system-wide.
type AuthContextService struct {
	cfg   *config.Config
	guard *BruteForceService
	audit *AuditService

	mu  sync.Mutex
	ctx AuthContext
}

func NewAuthContextService(cfg *config.Config, guard *BruteForceService, audit *AuditService) *AuthContextService {
	return &AuthContextService{cfg: cfg, guard: guard, audit: audit}
}

// HashPassword hashes a password using bcrypt
func (s *AuthContextService) HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.Security.BcryptCost)
	return string(bytes), err
}

// VerifyPassword verifies a password against a hash
func (s *AuthContextService) VerifyPassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}

// findByIdentifier resolves a user by exact username, falling back to
// normalized phone equality.
func (s *AuthContextService) findByIdentifier(identifier string) *models.User {
	var user models.User
	if err := models.DB.Where("username = ?", identifier).First(&user).Error; err == nil {
		return &user
	}

	canonical := normalize.Phone(identifier)
	if canonical == "" {
		return nil
	}
	var users []models.User
	models.DB.Where("phone <> ''").Find(&users)
	for i := range users {
		if normalize.Phone(users[i].Phone) == canonical {
			return &users[i]
		}
	}
	return nil
}

// Authenticate checks credentials and the admin gating rules. A failed
// credential check from a non-trusted address feeds the brute-force guard;
// a matched-but-pending or inactive admin does not.
func (s *AuthContextService) Authenticate(identifier, password, ip string) (*models.User, error) {
	user := s.findByIdentifier(identifier)
	if user == nil || !s.VerifyPassword(user.PasswordHash, password) {
		s.guard.RecordFailure(ip)
		return nil, ErrInvalidCredentials
	}

	if user.Role == models.RoleAdmin {
		if user.Status == models.StatusEnAttente {
			return nil, ErrPendingApproval
		}
		if user.Status != models.StatusActif {
			return nil, ErrAdminInactive
		}
		var admin models.Admin
		if err := models.DB.First(&admin, "id = ?", user.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrAdminInactive
			}
			return nil, err
		}
	}

	return user, nil
}

// Login authenticates and installs the principal into the context,
// clearing any impersonation left by the previous holder.
func (s *AuthContextService) Login(identifier, password, ip string) (*Principal, error) {
	user, err := s.Authenticate(identifier, password, ip)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.ctx = AuthContext{UserID: user.ID, UpdatedAt: time.Now()}
	s.mu.Unlock()

	s.audit.Append(AuditEntry{
		ActorID:    user.ID,
		Action:     ActionLogin,
		TargetType: "users",
		TargetID:   user.ID,
		Message:    "Connexion réussie",
		IPAddress:  ip,
	})

	return sanitize(user), nil
}

// Logout clears the context unconditionally.
func (s *AuthContextService) Logout(ip string) {
	s.mu.Lock()
	actor := s.ctx.UserID
	s.ctx = AuthContext{}
	s.mu.Unlock()

	if actor != "" {
		s.audit.Append(AuditEntry{
			ActorID:    actor,
			Action:     ActionLogout,
			TargetType: "users",
			TargetID:   actor,
			Message:    "Déconnexion",
			IPAddress:  ip,
		})
	}
}

// Impersonate enters the impersonation projection. Only an authenticated
// super-admin may impersonate.
func (s *AuthContextService) Impersonate(adminID, adminName, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ctx.UserID == "" {
		return ErrNotAuthenticated
	}

	var user models.User
	if err := models.DB.First(&user, "id = ?", s.ctx.UserID).Error; err != nil {
		return ErrNotAuthenticated
	}
	if user.Role != models.RoleSuperAdmin {
		return ErrForbidden
	}

	s.ctx.Impersonation = &Impersonation{AdminID: adminID, AdminName: adminName, UserID: userID}
	s.ctx.UpdatedAt = time.Now()
	return nil
}

// ClearImpersonation drops the projection, keeping the principal.
func (s *AuthContextService) ClearImpersonation() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ctx.UserID == "" {
		return ErrNotAuthenticated
	}
	s.ctx.Impersonation = nil
	s.ctx.UpdatedAt = time.Now()
	return nil
}

// Current re-validates the holder on every read. An admin whose user row is
// no longer ACTIF, or whose admin row has disappeared, loses the context
// immediately, even mid-session.
func (s *AuthContextService) Current() (AuthContext, *models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ctx.UserID == "" {
		return AuthContext{}, nil, ErrNotAuthenticated
	}

	var user models.User
	if err := models.DB.First(&user, "id = ?", s.ctx.UserID).Error; err != nil {
		s.ctx = AuthContext{}
		return AuthContext{}, nil, ErrNotAuthenticated
	}

	if user.Role == models.RoleAdmin {
		if user.Status != models.StatusActif {
			s.ctx = AuthContext{}
			return AuthContext{}, nil, ErrAdminInactive
		}
		var admin models.Admin
		if err := models.DB.First(&admin, "id = ?", user.ID).Error; err != nil {
			s.ctx = AuthContext{}
			return AuthContext{}, nil, ErrAdminInactive
		}
	}

	return s.ctx, &user, nil
}

// Snapshot returns the context without re-validating the holder. Used by
// the scoping resolver on generic routes.
func (s *AuthContextService) Snapshot() (AuthContext, *models.User) {
	s.mu.Lock()
	ctx := s.ctx
	s.mu.Unlock()

	if ctx.UserID == "" {
		return ctx, nil
	}
	var user models.User
	if err := models.DB.First(&user, "id = ?", ctx.UserID).Error; err != nil {
		return ctx, nil
	}
	return ctx, &user
}

// PendingCheck reports whether the credentials match a still-pending admin
// request.
func (s *AuthContextService) PendingCheck(identifier, password string) bool {
	user := s.findByIdentifier(identifier)
	if user == nil || !s.VerifyPassword(user.PasswordHash, password) {
		return false
	}
	return user.Role == models.RoleAdmin && user.Status == models.StatusEnAttente
}

// EnsureDefaultSuperAdmin seeds the configured super-admin when the users
// table is empty.
func (s *AuthContextService) EnsureDefaultSuperAdmin() error {
	var count int64
	models.DB.Model(&models.User{}).Count(&count)
	if count > 0 {
		return nil
	}

	hash, err := s.HashPassword(s.cfg.DefaultUser.Password)
	if err != nil {
		return err
	}
	user := models.User{
		ID:           uuid.NewString(),
		Username:     s.cfg.DefaultUser.Username,
		PasswordHash: hash,
		Name:         "Super Admin",
		Role:         models.RoleSuperAdmin,
		Status:       models.StatusActif,
	}
	return models.DB.Create(&user).Error
}

func sanitize(user *models.User) *Principal {
	return &Principal{
		ID:       user.ID,
		Username: user.Username,
		Name:     user.Name,
		Email:    user.Email,
		Role:     user.Role,
		Status:   user.Status,
	}
}
