package model

// SessionIdentity is the display identity of whoever is using the
// application. Exactly one logical record exists.
type SessionIdentity struct {
	ID    int64  `db:"id" json:"id,omitempty"`
	Name  string `db:"name" json:"name,omitempty"`
	Email string `db:"email" json:"email,omitempty"`
}

func (s *SessionIdentity) IsZero() bool {
	return s == nil || (s.ID == 0 && s.Name == "" && s.Email == "")
}

// SessionIdentityPatch holds the fields supplied to a merge. Nil fields keep
// their stored value.
type SessionIdentityPatch struct {
	ID    *int64  `json:"id"`
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

// Apply merges the patch into s.
func (p *SessionIdentityPatch) Apply(s *SessionIdentity) {
	if p.ID != nil {
		s.ID = *p.ID
	}
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Email != nil {
		s.Email = *p.Email
	}
}
