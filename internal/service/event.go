package service

import (
	"fmt"
	"strings"

	"github.com/Shivanand-hulikatti/ticket-booking/internal/model"
	"github.com/Shivanand-hulikatti/ticket-booking/internal/repository"
)

// EventService gives read access to the event catalog.
type EventService struct {
	events *repository.EventRepository
}

// NewEventService constructs an EventService.
func NewEventService(events *repository.EventRepository) *EventService {
	return &EventService{events: events}
}

// ListEvents returns the events whose name or category contains search,
// ignoring case. An empty search returns the whole catalog.
func (s *EventService) ListEvents(search string) []model.Event {
	all := s.events.List()
	q := strings.ToLower(strings.TrimSpace(search))
	if q == "" {
		return all
	}

	out := []model.Event{}
	for _, e := range all {
		if strings.Contains(strings.ToLower(e.Name), q) || strings.Contains(strings.ToLower(e.Category), q) {
			out = append(out, e)
		}
	}
	return out
}

// GetEvent returns a single event by ID.
func (s *EventService) GetEvent(id string) (*model.Event, error) {
	if id == "" {
		return nil, fmt.Errorf("event id is required")
	}
	return s.events.GetByID(id)
}
