package seed

import "github.com/jwalitptl/hms-api/internal/model"

// Dataset is the bootstrap content written into empty collections.
type Dataset struct {
	Practitioners   []model.Practitioner
	Clients         []model.Client
	SessionIdentity model.SessionIdentity
}

// DefaultDataset returns a fresh copy of the built in bootstrap records.
// Visits start empty.
func DefaultDataset() Dataset {
	return Dataset{
		Practitioners: []model.Practitioner{
			{ID: 1, Name: "Dr. Sarah Smith", Specialization: "Cardiologist", Contact: "+1 (123) 456-7890", Email: "sarah.smith@hospital.com"},
			{ID: 2, Name: "Dr. Michael Johnson", Specialization: "Neurologist", Contact: "+1 (987) 654-3210", Email: "michael.johnson@hospital.com"},
			{ID: 3, Name: "Dr. Emily Williams", Specialization: "Pediatrician", Contact: "+1 (555) 123-4567", Email: "emily.williams@hospital.com"},
			{ID: 4, Name: "Dr. James Brown", Specialization: "Orthopedic", Contact: "+1 (555) 987-6543", Email: "james.brown@hospital.com"},
			{ID: 5, Name: "Dr. Lisa Davis", Specialization: "Dermatologist", Contact: "+1 (555) 246-8135", Email: "lisa.davis@hospital.com"},
		},
		Clients: []model.Client{
			{ID: 1, Name: "John Doe", Age: 30, Contact: "+1 (123) 456-7890", Email: "johndoe@example.com", LastVisit: "2024-10-10"},
			{ID: 2, Name: "Jane Smith", Age: 25, Contact: "+1 (555) 555-5555", Email: "janesmith@example.com", LastVisit: "2024-10-12"},
			{ID: 3, Name: "Robert Wilson", Age: 45, Contact: "+1 (555) 111-2222", Email: "robert.wilson@example.com", LastVisit: "2024-10-08"},
			{ID: 4, Name: "Maria Garcia", Age: 35, Contact: "+1 (555) 333-4444", Email: "maria.garcia@example.com", LastVisit: "2024-10-14"},
		},
		SessionIdentity: model.SessionIdentity{ID: 1, Name: "John Doe", Email: "johndoe@example.com"},
	}
}
