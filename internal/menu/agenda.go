package menu

import (
	"github.com/denismitr/shelf/internal/agenda"
	"github.com/denismitr/shelf/internal/display"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Agenda addresses events by their position in the dated listing.
func Agenda(a *agenda.Agenda, f display.Formatter, logger *zap.Logger) *Menu {
	return New("Agenda", logger,
		Item{Label: "Add event", Run: func(p *Prompter) error {
			date, err := p.Required("Date (dd/mm/yyyy)")
			if err != nil {
				return err
			}
			at, err := p.Required("Time (HH:MM)")
			if err != nil {
				return err
			}
			description, err := p.Required("Description")
			if err != nil {
				return err
			}
			if _, err := a.Add(date, at, description); err != nil {
				return err
			}
			p.Println("✅ event added")
			return nil
		}},
		Item{Label: "Delete event", Run: func(p *Prompter) error {
			e, err := pickEvent(a, p)
			if err != nil {
				return err
			}
			ok, err := p.Confirm("Delete '" + e.Description + "' on " + e.Date + "?")
			if err != nil {
				return err
			}
			if !ok {
				return ErrCancelled
			}
			if err := a.Delete(e.ID); err != nil {
				return err
			}
			p.Println("✅ event deleted")
			return nil
		}},
		Item{Label: "List events", Run: func(p *Prompter) error {
			p.Print(f.Events(a.List()))
			return nil
		}},
		Item{Label: "Events on a day", Run: func(p *Prompter) error {
			date, err := p.Required("Date (dd/mm/yyyy)")
			if err != nil {
				return err
			}
			events, err := a.On(date)
			if err != nil {
				return err
			}
			p.Print(f.Events(events))
			return nil
		}},
	)
}

func pickEvent(a *agenda.Agenda, p *Prompter) (agenda.Event, error) {
	all := a.List()

	n, err := p.Int("Event number")
	if err != nil {
		return agenda.Event{}, err
	}

	if n < 1 || n > len(all) {
		return agenda.Event{}, errors.Wrapf(ErrMalformedInput, "there is no event number %d", n)
	}

	return all[n-1], nil
}
