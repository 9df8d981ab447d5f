package mirror

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jwalitptl/hms-api/internal/model"
)

// DateLayout is the calendar date format used by visits.
const DateLayout = "2006-01-02"

var timeSlots = []string{
	"09:00 AM", "09:30 AM", "10:00 AM", "10:30 AM",
	"11:00 AM", "11:30 AM", "02:00 PM", "02:30 PM",
	"03:00 PM", "03:30 PM", "04:00 PM", "04:30 PM",
}

// ErrInvalidBooking wraps every booking rejected before reaching the API.
var ErrInvalidBooking = errors.New("invalid booking")

// TimeSlots returns the bookable visit times of a day.
func TimeSlots() []string {
	return clone(timeSlots)
}

func IsTimeSlot(s string) bool {
	for _, slot := range timeSlots {
		if slot == s {
			return true
		}
	}
	return false
}

// SearchClients matches term case-insensitively against client names. An
// empty term returns every client.
func (m *Mirror) SearchClients(term string) []model.Client {
	term = strings.ToLower(strings.TrimSpace(term))

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []model.Client{}
	for _, c := range m.clients {
		if strings.Contains(strings.ToLower(c.Name), term) {
			out = append(out, c)
		}
	}
	return out
}

// VisitFilter narrows FilterVisits. Empty fields match everything.
type VisitFilter struct {
	Date             string
	PractitionerName string
}

func (m *Mirror) FilterVisits(f VisitFilter) []model.Visit {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []model.Visit{}
	for _, v := range m.visits {
		if f.Date != "" && v.Date != f.Date {
			continue
		}
		if f.PractitionerName != "" && v.PractitionerName != f.PractitionerName {
			continue
		}
		out = append(out, v)
	}
	return out
}

// VisitsForClient returns the visits booked under the given client name.
func (m *Mirror) VisitsForClient(name string) []model.Visit {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []model.Visit{}
	for _, v := range m.visits {
		if v.ClientName == name {
			out = append(out, v)
		}
	}
	return out
}

type Overview struct {
	Practitioners int
	Clients       int
	Visits        int
	Today         []model.Visit
}

// Overview summarizes the snapshot for the given day.
func (m *Mirror) Overview(today time.Time) Overview {
	day := today.Format(DateLayout)

	m.mu.RLock()
	defer m.mu.RUnlock()

	o := Overview{
		Practitioners: len(m.practitioners),
		Clients:       len(m.clients),
		Visits:        len(m.visits),
		Today:         []model.Visit{},
	}
	for _, v := range m.visits {
		if v.Date == day {
			o.Today = append(o.Today, v)
		}
	}
	return o
}

// BookingRequest is a visit booked by the session identity.
type BookingRequest struct {
	PractitionerName string `json:"practitionerName" validate:"required"`
	Date             string `json:"date" validate:"required,datetime=2006-01-02"`
	Time             string `json:"time" validate:"required,timeslot"`
	Reason           string `json:"reason" validate:"required"`
}

// BookVisit validates req against now and creates the visit in the name of
// the current session identity.
func (m *Mirror) BookVisit(ctx context.Context, req BookingRequest, now time.Time) (*model.Visit, error) {
	if err := m.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBooking, err)
	}

	date, err := time.ParseInLocation(DateLayout, req.Date, now.Location())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBooking, err)
	}
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if date.Before(startOfDay) {
		return nil, fmt.Errorf("%w: date %s is in the past", ErrInvalidBooking, req.Date)
	}

	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	return m.addVisit(ctx, model.CreateVisitRequest{
		ClientName:       m.SessionIdentity().Name,
		PractitionerName: req.PractitionerName,
		Date:             req.Date,
		Time:             req.Time,
		Reason:           req.Reason,
	})
}
