package model

type Practitioner struct {
	ID             int64  `db:"id" json:"id"`
	Name           string `db:"name" json:"name,omitempty"`
	Specialization string `db:"specialization" json:"specialization,omitempty"`
	Contact        string `db:"contact" json:"contact,omitempty"`
	Email          string `db:"email" json:"email,omitempty"`
}

// CreatePractitionerRequest carries the caller supplied fields. Any id in
// the body is ignored; none of the fields are required.
type CreatePractitionerRequest struct {
	Name           string `json:"name"`
	Specialization string `json:"specialization"`
	Contact        string `json:"contact"`
	Email          string `json:"email"`
}

func (r *CreatePractitionerRequest) ToPractitioner() *Practitioner {
	return &Practitioner{
		Name:           r.Name,
		Specialization: r.Specialization,
		Contact:        r.Contact,
		Email:          r.Email,
	}
}
