package menu

import (
	"github.com/denismitr/shelf/internal/display"
	"github.com/denismitr/shelf/internal/todo"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Tasks addresses tasks by their position in the full listing.
func Tasks(l *todo.List, f display.Formatter, logger *zap.Logger) *Menu {
	return New("Tasks", logger,
		Item{Label: "Add task", Run: func(p *Prompter) error {
			text, err := p.Text("Task")
			if err != nil {
				return err
			}
			if _, err := l.New(text); err != nil {
				return err
			}
			p.Println("✅ task added")
			return nil
		}},
		Item{Label: "Mark done / undone", Run: func(p *Prompter) error {
			t, err := pickTask(l, p)
			if err != nil {
				return err
			}
			if _, err := l.Toggle(t.ID); err != nil {
				return err
			}
			p.Println("✅ task updated")
			return nil
		}},
		Item{Label: "Delete task", Run: func(p *Prompter) error {
			t, err := pickTask(l, p)
			if err != nil {
				return err
			}
			if err := l.Delete(t.ID); err != nil {
				return err
			}
			p.Println("✅ task deleted")
			return nil
		}},
		Item{Label: "List tasks", Run: func(p *Prompter) error {
			p.Print(f.Tasks(l.All()))
			return nil
		}},
		Item{Label: "List pending tasks", Run: func(p *Prompter) error {
			p.Print(f.Tasks(l.Pending()))
			return nil
		}},
	)
}

func pickTask(l *todo.List, p *Prompter) (todo.Task, error) {
	all := l.All()

	n, err := p.Int("Task number")
	if err != nil {
		return todo.Task{}, err
	}

	if n < 1 || n > len(all) {
		return todo.Task{}, errors.Wrapf(ErrMalformedInput, "there is no task number %d", n)
	}

	return all[n-1], nil
}
