package services

import "errors"

// User-facing errors are localized strings; handlers map them to HTTP
// statuses.
var (
	ErrInvalidCredentials = errors.New("identifiants invalides")
	ErrPendingApproval    = errors.New("votre demande d'inscription est en attente de validation")
	ErrAdminInactive      = errors.New("ce compte administrateur est inactif ou suspendu")
	ErrNotAuthenticated   = errors.New("non authentifié")
	ErrForbidden          = errors.New("accès refusé")
	ErrNotFound           = errors.New("enregistrement introuvable")
)

// ConflictError carries the localized message of a uniqueness violation.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}
