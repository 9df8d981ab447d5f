package model

// Client is immutable once created; there is no update path.
type Client struct {
	ID        int64  `db:"id" json:"id"`
	Name      string `db:"name" json:"name,omitempty"`
	Age       int    `db:"age" json:"age"`
	Contact   string `db:"contact" json:"contact,omitempty"`
	Email     string `db:"email" json:"email,omitempty"`
	LastVisit string `db:"last_visit" json:"lastVisit,omitempty"`
}
