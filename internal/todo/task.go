package todo

import (
	"strings"

	"github.com/denismitr/shelf"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type Task struct {
	ID         string `json:"id"`
	Text       string `json:"text"`
	Done       bool   `json:"done"`
	CreatedAt  string `json:"created_at"`
	ModifiedAt string `json:"modified_at"`
}

func (t Task) Key() string   { return t.ID }
func (t Task) Label() string { return t.Text }

func (t Task) Created() string { return t.CreatedAt }

func (t Task) Stamp(created, modified string) Task {
	t.CreatedAt = created
	t.ModifiedAt = modified
	return t
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.Text) == "" {
		return errors.New("text must not be empty")
	}

	return nil
}

func Schema() shelf.Schema[Task] {
	return shelf.Schema[Task]{
		Name: "tasks",
		Decode: func(key string, doc *shelf.Document) (Task, error) {
			t := Task{
				ID:         key,
				Text:       doc.FirstString("", "text", "texto"),
				Done:       doc.BoolOrDefault("done", doc.BoolOrDefault("completada", false)),
				CreatedAt:  doc.StringOrDefault("created_at", ""),
				ModifiedAt: doc.StringOrDefault("modified_at", ""),
			}

			if t.Text == "" {
				return t, errors.Errorf("task %s has no text", key)
			}

			return t, nil
		},
	}
}

// List is a to-do list kept in a single store.
type List struct {
	store *shelf.Store[Task]
	newID func() string
}

func Open(path string, cfg *shelf.Config) (*List, shelf.Closer, error) {
	s, closer, err := shelf.Open(path, Schema(), cfg)
	if err != nil {
		return nil, shelf.NullCloser, err
	}

	return &List{store: s, newID: uuid.NewString}, closer, nil
}

func (l *List) Store() *shelf.Store[Task] {
	return l.store
}

// New adds a pending task with a generated id.
func (l *List) New(text string) (Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Task{}, errors.Wrap(shelf.ErrInvalidInput, "task text must not be empty")
	}

	t := Task{ID: l.newID(), Text: text}
	if err := l.store.Add(t); err != nil {
		return Task{}, err
	}

	return l.store.Get(t.ID)
}

// Toggle flips the done flag of a task.
func (l *List) Toggle(id string) (Task, error) {
	t, err := l.store.Get(id)
	if err != nil {
		return Task{}, err
	}

	return l.store.Update(id, shelf.M{"done": !t.Done})
}

func (l *List) Delete(id string) error {
	return l.store.Remove(id)
}

// Pending returns the tasks not done yet, oldest first.
func (l *List) Pending() []Task {
	return l.store.Filter(func(t Task) bool { return !t.Done })
}

func (l *List) All() []Task {
	return l.store.List(nil)
}
