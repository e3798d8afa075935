package services

import (
	"sync"
	"time"

	"gestloc/internal/config"
	"gestloc/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionService is the legacy single-slot session store: at most one live
// entry system-wide, independent of the auth context.
type SessionService struct {
	cfg     *config.Config
	authCtx *AuthContextService

	mu      sync.Mutex
	current *models.Session
}

func NewSessionService(cfg *config.Config, authCtx *AuthContextService) *SessionService {
	return &SessionService{cfg: cfg, authCtx: authCtx}
}

// Login authenticates with the same credential rules as the auth context
// and overwrites the slot.
func (s *SessionService) Login(identifier, password, ip string) (*models.Session, *Principal, error) {
	user, err := s.authCtx.Authenticate(identifier, password, ip)
	if err != nil {
		return nil, nil, err
	}

	token, expiresAt, err := s.generateToken(user)
	if err != nil {
		return nil, nil, err
	}

	session := &models.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// single slot: a fresh login evicts whatever was there
	models.DB.Where("1 = 1").Delete(&models.Session{})
	if err := models.DB.Create(session).Error; err != nil {
		return nil, nil, err
	}
	s.current = session

	return session, sanitize(user), nil
}

// Logout invalidates the slot.
func (s *SessionService) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()

	models.DB.Where("1 = 1").Delete(&models.Session{})
	s.current = nil
}

// Current returns the live session and its user, or nil when the slot is
// empty or expired.
func (s *SessionService) Current() (*models.Session, *Principal) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil || time.Now().After(s.current.ExpiresAt) {
		return nil, nil
	}

	var user models.User
	if err := models.DB.First(&user, "id = ?", s.current.UserID).Error; err != nil {
		return nil, nil
	}
	return s.current, sanitize(&user)
}

// generateToken signs a JWT for the user
func (s *SessionService) generateToken(user *models.User) (string, time.Time, error) {
	expiresIn, err := time.ParseDuration(s.cfg.JWT.ExpiresIn)
	if err != nil {
		expiresIn = 24 * time.Hour
	}

	expiresAt := time.Now().Add(expiresIn)

	secret := s.cfg.JWT.Secret
	if secret == "" {
		secret = "gestloc-default-secret-change-in-production"
	}

	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"role":     user.Role,
		"exp":      expiresAt.Unix(),
		"iat":      time.Now().Unix(),
		"iss":      s.cfg.JWT.Issuer,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiresAt, nil
}
