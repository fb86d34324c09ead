package domain

import "time"

// Account is a registered identity. The password is held only as a
// one-way salted hash; the cleartext never leaves the registration path.
// Role membership is stored as a flat set of role ids resolved against
// the role catalogue, not as an object graph.
type Account struct {
	ID           int64     `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	Mobile       string    `json:"mobile"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	RoleIDs      []int     `json:"-"`
	Roles        []string  `json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
