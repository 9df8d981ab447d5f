package model

// Collection names one of the four record collections.
type Collection string

const (
	CollectionPractitioners   Collection = "practitioners"
	CollectionClients         Collection = "clients"
	CollectionVisits          Collection = "visits"
	CollectionSessionIdentity Collection = "session_identity"
)

// Collections lists every collection in seeding order.
var Collections = []Collection{
	CollectionPractitioners,
	CollectionClients,
	CollectionVisits,
	CollectionSessionIdentity,
}

func (c Collection) Valid() bool {
	switch c {
	case CollectionPractitioners, CollectionClients, CollectionVisits, CollectionSessionIdentity:
		return true
	}
	return false
}

func (c Collection) String() string {
	return string(c)
}

// DeleteResult is the body returned by every delete endpoint.
type DeleteResult struct {
	Success bool `json:"success"`
}
