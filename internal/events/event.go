// Package events provides the typed change-notification bus and the
// user-facing message sink.
package events

import "time"

// Event is implemented by every notification published on the bus.
type Event interface {
	EventType() string
	EntityType() string // "unit", "set", "datasource", "batch"
	EntityID() int64
	OccurredAt() time.Time
}

// BaseEvent provides the common fields for all events.
type BaseEvent struct {
	Type      string    `json:"type"`
	Entity    string    `json:"entity_type"`
	ID        int64     `json:"entity_id"`
	Timestamp time.Time `json:"occurred_at"`
}

func (e BaseEvent) EventType() string     { return e.Type }
func (e BaseEvent) EntityType() string    { return e.Entity }
func (e BaseEvent) EntityID() int64       { return e.ID }
func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }

// NewBaseEvent creates a BaseEvent stamped with the current time.
func NewBaseEvent(eventType, entityType string, entityID int64) BaseEvent {
	return BaseEvent{
		Type:      eventType,
		Entity:    entityType,
		ID:        entityID,
		Timestamp: time.Now(),
	}
}

// Event type names.
const (
	TypeUnitAdded      = "unit.added"
	TypeUnitUpdated    = "unit.updated"
	TypeUnitRemoved    = "unit.removed"
	TypeSetCreated     = "set.created"
	TypeSetRemoved     = "set.removed"
	TypeScanStarted    = "scan.started"
	TypeScanFinished   = "scan.finished"
	TypeScrapeStarted  = "scrape.started"
	TypeScrapeFinished = "scrape.finished"
)

// UnitAdded is emitted when a unit enters the catalog.
type UnitAdded struct {
	BaseEvent
	Title      string `json:"title"`
	Year       int    `json:"year"`
	Path       string `json:"path"`
	Datasource string `json:"datasource"`
}

// UnitUpdated is emitted after a metadata-affecting mutation is persisted.
type UnitUpdated struct {
	BaseEvent
	Title string `json:"title"`
}

// UnitRemoved is emitted when a unit leaves the catalog.
type UnitRemoved struct {
	BaseEvent
	Title string `json:"title"`
	Path  string `json:"path"`
}

// SetCreated is emitted when a collection is created.
type SetCreated struct {
	BaseEvent
	Title        string `json:"title"`
	CollectionID string `json:"collection_id"`
}

// SetRemoved is emitted when a collection loses its last member.
type SetRemoved struct {
	BaseEvent
	Title string `json:"title"`
}

// ScanStarted is emitted once per datasource update pass.
type ScanStarted struct {
	BaseEvent
	PassID     string `json:"pass_id"`
	Datasource string `json:"datasource"`
}

// ScanFinished carries the outcome counters of a datasource pass.
type ScanFinished struct {
	BaseEvent
	PassID     string `json:"pass_id"`
	Datasource string `json:"datasource"`
	UnitsFound int    `json:"units_found"`
	UnitsNew   int    `json:"units_new"`
	Removed    int    `json:"removed"`
}

// ScrapeStarted is emitted once per scrape batch.
type ScrapeStarted struct {
	BaseEvent
	BatchID string `json:"batch_id"`
	Units   int    `json:"units"`
}

// ScrapeFinished carries the outcome counters of a scrape batch.
type ScrapeFinished struct {
	BaseEvent
	BatchID   string `json:"batch_id"`
	Scraped   int    `json:"scraped"`
	Rejected  int    `json:"rejected"`
	Failed    int    `json:"failed"`
	Cancelled bool   `json:"cancelled"`
}
