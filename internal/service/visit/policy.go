package visit

import (
	"fmt"

	"github.com/jwalitptl/hms-api/internal/model"
	"github.com/jwalitptl/hms-api/pkg/validator"
)

// StatusPolicy decides which status values a visit may be given. Neither
// policy restricts direction: Cancelled visits can be confirmed again.
type StatusPolicy string

const (
	// PolicyLenient stores any status string as given.
	PolicyLenient StatusPolicy = "lenient"
	// PolicyStrict accepts only Confirmed and Cancelled.
	PolicyStrict StatusPolicy = "strict"
)

func ParseStatusPolicy(name string) (StatusPolicy, error) {
	switch p := StatusPolicy(name); p {
	case PolicyLenient, PolicyStrict:
		return p, nil
	case "":
		return PolicyLenient, nil
	}
	return "", fmt.Errorf("unknown visit status policy %q", name)
}

type statusCheck struct {
	Status string `json:"status" validate:"oneof=Confirmed Cancelled"`
}

// Check returns an error when status is not allowed under the policy.
func (p StatusPolicy) Check(v validator.Validator, status model.VisitStatus) error {
	if p != PolicyStrict {
		return nil
	}
	return v.Validate(statusCheck{Status: string(status)})
}
