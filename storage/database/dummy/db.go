package dummydb

import (
	"context"
	"sync"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/cecscoop/portal/core"
	"github.com/cecscoop/portal/core/coop"
	"github.com/cecscoop/portal/core/employer"
	"github.com/cecscoop/portal/core/faculty"
	"github.com/cecscoop/portal/core/position"
	"github.com/cecscoop/portal/core/student"
)

// DB is an in-memory stand-in for the real database, used by tests.
// Per-method locking only; Transact does not simulate rollbacks.
type DB struct {
	sync.RWMutex

	students  map[string]*student.Student
	employers map[string]*employer.Employer
	faculty   map[string]*faculty.Faculty
	positions map[string]*position.JobPosition

	applications  map[int]*coop.Application
	selections    map[int]*coop.Selection
	eligibilities map[int]*coop.CoopEligibility
	records       map[int]*coop.CoopRecord

	events   map[string]*core.Event
	counters map[string]int // "{prefix}-{year}" -> last sequence

	appPK, selPK, eligPK, recPK int
}

func NewDB() *DB {
	return &DB{
		students:      make(map[string]*student.Student),
		employers:     make(map[string]*employer.Employer),
		faculty:       make(map[string]*faculty.Faculty),
		positions:     make(map[string]*position.JobPosition),
		applications:  make(map[int]*coop.Application),
		selections:    make(map[int]*coop.Selection),
		eligibilities: make(map[int]*coop.CoopEligibility),
		records:       make(map[int]*coop.CoopRecord),
		events:        make(map[string]*core.Event),
		counters:      make(map[string]int),
	}
}

// idGenerator issues sequential human-facing IDs from in-memory counters.
type idGenerator struct {
	db *DB
}

var _ core.IDGenerator = (*idGenerator)(nil)

func NewIDGenerator(db *DB) core.IDGenerator {
	return &idGenerator{db: db}
}

func (g *idGenerator) NextID(_ context.Context, prefix string) (string, error) {
	g.db.Lock()
	defer g.db.Unlock()

	year := core.IDYear()
	key := core.FormatID(prefix, year, 0)
	g.db.counters[key]++
	return core.FormatID(prefix, year, g.db.counters[key]), nil
}

// outbox reads and acknowledges staged notification events.
type outbox struct {
	db *DB
}

var _ core.Outbox = (*outbox)(nil)

func NewOutbox(db *DB) core.Outbox {
	return &outbox{db: db}
}

func (o *outbox) PendingEvents(_ context.Context, limit int) ([]core.Event, error) {
	o.db.RLock()
	defer o.db.RUnlock()

	events := make([]core.Event, 0, limit)
	for _, evt := range o.db.events {
		if evt.Status != core.EventPending {
			continue
		}
		events = append(events, *evt)
		if len(events) == limit {
			break
		}
	}
	return events, nil
}

func (o *outbox) MarkEventSent(_ context.Context, id string) error {
	o.db.Lock()
	defer o.db.Unlock()

	if evt, ok := o.db.events[id]; ok {
		evt.Status = core.EventSent
		evt.SentAt = null.TimeFrom(time.Now().UTC())
	}
	return nil
}

func (o *outbox) MarkEventFailed(_ context.Context, id string) error {
	o.db.Lock()
	defer o.db.Unlock()

	if evt, ok := o.db.events[id]; ok {
		evt.Status = core.EventFailed
	}
	return nil
}

// Events exposes all staged events for test assertions.
func (db *DB) Events() []core.Event {
	db.RLock()
	defer db.RUnlock()

	events := make([]core.Event, 0, len(db.events))
	for _, evt := range db.events {
		events = append(events, *evt)
	}
	return events
}
