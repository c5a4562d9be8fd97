package domain

// Participation statuses, derived from arrivalTime (never stored).
const (
	StatusInProgress = "IN_PROGRESS"
	StatusFinished   = "FINISHED"
)

// Roles.
const (
	RoleAdmin    = "ROLE_ADMIN"
	RoleOperator = "ROLE_OPERATOR"
	RoleUser     = "ROLE_USER"
)

// DistancePerLapKm is the fixed lap distance of the event, used for the
// displayed distance on results pages.
const DistancePerLapKm = 4
