package entity

import "time"

// Company representa una organización/tenant del sistema (multi-tenant).
// Cada registro del motor de conciliación pertenece a exactamente una Company.
type Company struct {
	ID        string
	Name      string
	NIT       string // NIT colombiano (con o sin dígito de verificación)
	Address   string
	Phone     string
	Email     string
	Status    string // active, suspended, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}
