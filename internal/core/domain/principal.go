package domain

// Principal is the verified identity snapshot attached to a request. It
// is minted either at login (from a live Account) or by the identity
// filter after token validation. It carries no reference back to the
// Account: role changes made after minting do not affect it.
type Principal struct {
	AccountID int64    `json:"account_id"`
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	Roles     []string `json:"roles"`
}

// NewPrincipal snapshots an account's identity. The role slice is copied
// so later mutations of the account cannot leak into the snapshot.
func NewPrincipal(a *Account) *Principal {
	roles := make([]string, len(a.Roles))
	copy(roles, a.Roles)
	return &Principal{
		AccountID: a.ID,
		Username:  a.Username,
		Email:     a.Email,
		Roles:     roles,
	}
}

// HasAnyRole reports whether the principal holds at least one of the
// required roles (any-of semantics).
func (p *Principal) HasAnyRole(required ...string) bool {
	for _, want := range required {
		for _, have := range p.Roles {
			if have == want {
				return true
			}
		}
	}
	return false
}
