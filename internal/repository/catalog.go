package repository

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Shivanand-hulikatti/ticket-booking/internal/model"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// EventRepository serves the static event catalog. It is read-only and
// safe for concurrent use.
type EventRepository struct {
	events []model.Event
	byID   map[string]int
}

// NewEventRepository loads the catalog shipped with the binary.
func NewEventRepository() (*EventRepository, error) {
	return parseCatalog(defaultCatalog)
}

// LoadEventRepository loads a catalog from a YAML file with the same shape
// as the built-in one.
func LoadEventRepository(path string) (*EventRepository, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return parseCatalog(data)
}

func parseCatalog(data []byte) (*EventRepository, error) {
	var doc struct {
		Events []model.Event `yaml:"events"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	repo := &EventRepository{events: doc.Events, byID: make(map[string]int, len(doc.Events))}
	for i, e := range doc.Events {
		if e.ID == "" {
			return nil, fmt.Errorf("catalog entry %d has no id", i)
		}
		if _, dup := repo.byID[e.ID]; dup {
			return nil, fmt.Errorf("catalog has duplicate event id %q", e.ID)
		}
		repo.byID[e.ID] = i
	}
	return repo, nil
}

// List returns all events in catalog order.
func (r *EventRepository) List() []model.Event {
	return append([]model.Event(nil), r.events...)
}

// GetByID returns a single event or ErrNotFound.
func (r *EventRepository) GetByID(id string) (*model.Event, error) {
	i, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	e := r.events[i]
	return &e, nil
}
