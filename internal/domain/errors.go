package domain

import "errors"

// Domain errors.
var (
	ErrMalformedPayload      = errors.New("code scanné illisible")
	ErrUserNotFound          = errors.New("utilisateur introuvable")
	ErrRunNotFound           = errors.New("run introuvable")
	ErrParticipationNotFound = errors.New("participation introuvable")
	ErrMediaNotFound         = errors.New("média introuvable")
	ErrNoActiveParticipation = errors.New("aucune participation en cours pour cet utilisateur")
	ErrRunNotStarted         = errors.New("le run n'a pas encore commencé")
	ErrAlreadyFinished       = errors.New("arrivée déjà enregistrée")
	ErrParticipationExists   = errors.New("un utilisateur ne peut participer qu'une seule fois au même run")
	ErrInvalidRunDates       = errors.New("la date de début doit précéder la date de fin")
	ErrRunDatesInPast        = errors.New("les dates du run doivent être dans le futur")
	ErrEmailExists           = errors.New("un utilisateur avec cet email existe déjà")
	ErrInvalidCredentials    = errors.New("identifiants invalides")
)
