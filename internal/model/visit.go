package model

type VisitStatus string

const (
	VisitStatusConfirmed VisitStatus = "Confirmed"
	VisitStatusCancelled VisitStatus = "Cancelled"
)

// Visit references its client and practitioner by display name. The ids are
// kept next to the names so a later rename does not orphan the visit; they
// are zero when the creator supplied only a name that matched nothing.
type Visit struct {
	ID               int64       `db:"id" json:"id"`
	ClientName       string      `db:"client_name" json:"clientName,omitempty"`
	ClientID         int64       `db:"client_id" json:"clientId,omitempty"`
	PractitionerName string      `db:"practitioner_name" json:"practitionerName,omitempty"`
	PractitionerID   int64       `db:"practitioner_id" json:"practitionerId,omitempty"`
	Date             string      `db:"visit_date" json:"date,omitempty"`
	Time             string      `db:"visit_time" json:"time,omitempty"`
	Reason           string      `db:"reason" json:"reason,omitempty"`
	Status           VisitStatus `db:"status" json:"status,omitempty"`
}

type CreateVisitRequest struct {
	ClientName       string      `json:"clientName"`
	ClientID         int64       `json:"clientId"`
	PractitionerName string      `json:"practitionerName"`
	PractitionerID   int64       `json:"practitionerId"`
	Date             string      `json:"date"`
	Time             string      `json:"time"`
	Reason           string      `json:"reason"`
	Status           VisitStatus `json:"status"`
}

func (r *CreateVisitRequest) ToVisit() *Visit {
	return &Visit{
		ClientName:       r.ClientName,
		ClientID:         r.ClientID,
		PractitionerName: r.PractitionerName,
		PractitionerID:   r.PractitionerID,
		Date:             r.Date,
		Time:             r.Time,
		Reason:           r.Reason,
		Status:           r.Status,
	}
}

type UpdateVisitStatusRequest struct {
	Status VisitStatus `json:"status"`
}
