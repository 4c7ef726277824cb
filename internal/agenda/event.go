// Package agenda keeps dated personal events in a single store.
package agenda

import (
	"os"
	"sort"
	"strings"
	"time"

	"github.com/denismitr/shelf"
	"github.com/denismitr/shelf/internal/storage"
	"github.com/denismitr/shelf/internal/storage/jsonstorage"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

const (
	DateLayout = "02/01/2006"
	TimeLayout = "15:04"
)

var ErrPastDate = errors.New("date is in the past")

type Event struct {
	ID          string `json:"id"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
	ModifiedAt  string `json:"modified_at"`
}

func (e Event) Key() string   { return e.ID }
func (e Event) Label() string { return e.Description }

func (e Event) Created() string { return e.CreatedAt }

func (e Event) Stamp(created, modified string) Event {
	e.CreatedAt = created
	e.ModifiedAt = modified
	return e
}

func (e Event) Validate() error {
	if _, err := time.Parse(DateLayout, e.Date); err != nil {
		return errors.Errorf("date %q must look like dd/mm/yyyy", e.Date)
	}

	if _, err := time.Parse(TimeLayout, e.Time); err != nil {
		return errors.Errorf("time %q must look like HH:MM (00:00 to 23:59)", e.Time)
	}

	if strings.TrimSpace(e.Description) == "" {
		return errors.New("description must not be empty")
	}

	return nil
}

// At is the moment the event takes place, in UTC. Events with an
// unparsable date or time sort last.
func (e Event) At() (time.Time, bool) {
	at, err := time.Parse(DateLayout+" "+TimeLayout, e.Date+" "+e.Time)
	if err != nil {
		return time.Time{}, false
	}

	return at, true
}

func Schema() shelf.Schema[Event] {
	return shelf.Schema[Event]{
		Name: "agenda",
		Decode: func(key string, doc *shelf.Document) (Event, error) {
			e := Event{
				ID:          key,
				Date:        doc.FirstString("", "date", "fecha"),
				Time:        doc.FirstString("", "time", "hora"),
				Description: doc.FirstString("", "description", "descripcion"),
				CreatedAt:   doc.StringOrDefault("created_at", ""),
				ModifiedAt:  doc.StringOrDefault("modified_at", ""),
			}

			if e.Date == "" || e.Time == "" {
				return e, errors.Errorf("event %s has no date or time", key)
			}

			return e, nil
		},
	}
}

// Agenda is a list of events ordered by when they happen.
type Agenda struct {
	store *shelf.Store[Event]
	newID func() string
	now   func() time.Time
}

// Open loads the agenda from path. A file holding a bare array of events
// is rewritten as an object keyed by fresh ids before it is loaded.
func Open(path string, cfg *shelf.Config) (*Agenda, shelf.Closer, error) {
	indent := ""
	if cfg != nil {
		indent = cfg.Indent
	}

	if err := migrateArray(path, indent, uuid.NewString); err != nil {
		return nil, shelf.NullCloser, err
	}

	s, closer, err := shelf.Open(path, Schema(), cfg)
	if err != nil {
		return nil, shelf.NullCloser, err
	}

	now := time.Now
	if cfg != nil && cfg.Clock != nil {
		now = cfg.Clock
	}

	return &Agenda{store: s, newID: uuid.NewString, now: now}, closer, nil
}

func (a *Agenda) Store() *shelf.Store[Event] {
	return a.store
}

// Add schedules an event. Dates before today are refused.
func (a *Agenda) Add(date, at, description string) (Event, error) {
	e := Event{
		ID:          a.newID(),
		Date:        strings.TrimSpace(date),
		Time:        strings.TrimSpace(at),
		Description: strings.TrimSpace(description),
	}

	if err := e.Validate(); err != nil {
		return Event{}, errors.Wrap(shelf.ErrInvalidInput, err.Error())
	}

	day, _ := time.Parse(DateLayout, e.Date)
	y, m, d := a.now().Date()
	if day.Before(time.Date(y, m, d, 0, 0, 0, 0, time.UTC)) {
		return Event{}, errors.Wrapf(ErrPastDate, "%s", e.Date)
	}

	if err := a.store.Add(e); err != nil {
		return Event{}, err
	}

	return a.store.Get(e.ID)
}

func (a *Agenda) Delete(id string) error {
	return a.store.Remove(id)
}

// List returns every event by date and time. Events at the same moment
// keep insertion order.
func (a *Agenda) List() []Event {
	return byMoment(a.store.List(nil))
}

// On returns the events of one day.
func (a *Agenda) On(date string) ([]Event, error) {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return nil, errors.Wrapf(shelf.ErrInvalidInput, "date %q must look like dd/mm/yyyy", date)
	}

	return byMoment(a.store.Filter(func(e Event) bool { return e.Date == date })), nil
}

func byMoment(events []Event) []Event {
	sort.SliceStable(events, func(i, j int) bool {
		ti, iok := events[i].At()
		tj, jok := events[j].At()
		if iok != jok {
			return iok
		}
		return ti.Before(tj)
	})

	return events
}

func migrateArray(path, indent string, newID func() string) error {
	if !storage.FileExists(path) {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		// the store reports unreadable files itself
		return nil
	}

	root := gjson.ParseBytes(data)
	if !gjson.ValidBytes(data) || !root.IsArray() {
		return nil
	}

	items := make([]jsonstorage.Item, 0)
	root.ForEach(func(_, v gjson.Result) bool {
		if v.IsObject() {
			items = append(items, jsonstorage.Item{Key: newID(), Value: []byte(v.Raw)})
		}
		return true
	})

	if err := jsonstorage.New(path, indent).Write(items); err != nil {
		return errors.Wrapf(shelf.ErrStorageFailed, "could not convert %s: %v", path, err)
	}

	return nil
}
