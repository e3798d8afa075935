package services

import (
	"gestloc/internal/models"
	"gestloc/internal/normalize"
)

// Localized conflict messages
const (
	msgClientPhoneTaken  = "Un client avec ce numéro de téléphone existe déjà"
	msgClientEmailTaken  = "Un client avec cette adresse email existe déjà"
	msgUsernameTaken     = "Ce nom d'utilisateur est déjà utilisé"
	msgEmailTaken        = "Cette adresse email est déjà utilisée"
	msgPhoneTaken        = "Ce numéro de téléphone est déjà utilisé"
	msgEntrepriseTaken   = "Une entreprise avec ce nom existe déjà"
	msgAdminNameConflict = "Ce nom d'utilisateur est déjà utilisé par un autre compte"
)

// ConflictService runs the cross-collection uniqueness checks invoked before
// any create or update is allowed to reach storage. Each check returns a
// localized message, or "" when there is no conflict.
type ConflictService struct{}

func NewConflictService() *ConflictService {
	return &ConflictService{}
}

// Check dispatches by collection name. Unknown collections have no
// uniqueness rules.
func (s *ConflictService) Check(collection string, payload map[string]any, selfID string) string {
	switch collection {
	case "clients":
		return s.DuplicateClient(payload, selfID)
	case "users":
		return s.DuplicateUser(payload, selfID)
	case "admins":
		return s.DuplicateAdmin(payload, selfID)
	case "entreprises":
		return s.DuplicateEntreprise(payload, selfID)
	}
	return ""
}

// DuplicateClient reports a conflict when any other client shares a
// normalized phone or normalized email.
func (s *ConflictService) DuplicateClient(payload map[string]any, selfID string) string {
	phone := normalize.Phone(stringField(payload, "phone"))
	email := normalize.Email(stringField(payload, "email"))

	var clients []models.Client
	models.DB.Find(&clients)

	for _, c := range clients {
		if c.ID == selfID {
			continue
		}
		if phone != "" && normalize.Phone(c.Phone) == phone {
			return msgClientPhoneTaken
		}
		if email != "" && normalize.Email(c.Email) == email {
			return msgClientEmailTaken
		}
	}
	return ""
}

// DuplicateUser checks username across users and admins, email across users
// and admins, phone across users only, in that priority order.
func (s *ConflictService) DuplicateUser(payload map[string]any, selfID string) string {
	username := normalize.Text(stringField(payload, "username"))
	email := normalize.Email(stringField(payload, "email"))
	phone := normalize.Phone(stringField(payload, "phone"))

	var users []models.User
	models.DB.Find(&users)
	var admins []models.Admin
	models.DB.Find(&admins)

	if username != "" {
		for _, u := range users {
			if u.ID != selfID && normalize.Text(u.Username) == username {
				return msgUsernameTaken
			}
		}
		for _, a := range admins {
			if a.ID != selfID && normalize.Text(a.Username) == username {
				return msgUsernameTaken
			}
		}
	}

	if email != "" {
		for _, u := range users {
			if u.ID != selfID && normalize.Email(u.Email) == email {
				return msgEmailTaken
			}
		}
		for _, a := range admins {
			if a.ID != selfID && normalize.Email(a.Email) == email {
				return msgEmailTaken
			}
		}
	}

	if phone != "" {
		for _, u := range users {
			if u.ID != selfID && normalize.Phone(u.Phone) == phone {
				return msgPhoneTaken
			}
		}
	}
	return ""
}

// DuplicateAdmin enforces username uniqueness across admins. An admin may
// share the username of its own linked user; any other user holding the
// username is still a conflict.
func (s *ConflictService) DuplicateAdmin(payload map[string]any, selfID string) string {
	username := normalize.Text(stringField(payload, "username"))
	if username == "" {
		return ""
	}

	var admins []models.Admin
	models.DB.Find(&admins)
	for _, a := range admins {
		if a.ID != selfID && normalize.Text(a.Username) == username {
			return msgAdminNameConflict
		}
	}

	var users []models.User
	models.DB.Find(&users)
	for _, u := range users {
		if normalize.Text(u.Username) != username {
			continue
		}
		if u.ID == selfID {
			// same identity: an admin keeps its linked user's username
			continue
		}
		return msgAdminNameConflict
	}
	return ""
}

// DuplicateEntreprise enforces normalized-name uniqueness across entreprises
// and across the legacy free-text entreprise_id held on admins.
func (s *ConflictService) DuplicateEntreprise(payload map[string]any, selfID string) string {
	name := normalize.Text(stringField(payload, "name"))
	if name == "" {
		return ""
	}

	var entreprises []models.Entreprise
	models.DB.Find(&entreprises)
	for _, e := range entreprises {
		if e.ID != selfID && normalize.Text(e.Name) == name {
			return msgEntrepriseTaken
		}
	}

	var admins []models.Admin
	models.DB.Find(&admins)
	for _, a := range admins {
		if normalize.Text(a.EntrepriseID) == name {
			return msgEntrepriseTaken
		}
	}
	return ""
}

func stringField(payload map[string]any, key string) string {
	if v, ok := payload[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
