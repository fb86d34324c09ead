package domain

// The role catalogue is closed: exactly these two names exist, each with
// a stable numeric id assigned once at seeding and never reused. There
// is no hierarchy between them; ADMIN does not imply USER.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// Role is one entry of the catalogue.
type Role struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
