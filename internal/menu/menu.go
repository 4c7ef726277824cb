// Package menu runs the numbered text menus of the command line tool.
package menu

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/denismitr/shelf"
	"github.com/denismitr/shelf/internal/agenda"
	"github.com/denismitr/shelf/internal/library"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var (
	ErrMalformedInput = errors.New("malformed input")
	ErrCancelled      = errors.New("cancelled")
)

// Item is one numbered entry of a menu.
type Item struct {
	Label string
	Run   func(p *Prompter) error
}

type Menu struct {
	Title string
	Items []Item
	log   *zap.Logger
}

func New(title string, logger *zap.Logger, items ...Item) *Menu {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Menu{Title: title, Items: items, log: logger}
}

// Run shows the menu until the exit entry is picked or in is exhausted.
// Errors of single actions are printed and never end the loop.
func (m *Menu) Run(in io.Reader, out io.Writer) error {
	p := NewPrompter(in, out)
	exit := len(m.Items) + 1

	for {
		m.render(out, exit)

		line, err := p.Text("Choose an option")
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		choice, err := strconv.Atoi(line)
		switch {
		case err != nil || choice < 1 || choice > exit:
			fmt.Fprintf(out, "❌ invalid option %q\n", line)
			continue
		case choice == exit:
			fmt.Fprintln(out, "👋 bye")
			return nil
		}

		item := m.Items[choice-1]
		err = item.Run(p)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			m.log.Debug("menu action failed", zap.String("action", item.Label), zap.Error(err))
			fmt.Fprintf(out, "❌ %s\n", Describe(err))
		}
	}
}

func (m *Menu) render(out io.Writer, exit int) {
	fmt.Fprintf(out, "\n=== %s ===\n", m.Title)
	for i, it := range m.Items {
		fmt.Fprintf(out, "%d. %s\n", i+1, it.Label)
	}
	fmt.Fprintf(out, "%d. Exit\n", exit)
}

// Describe turns an error into the line shown to the user.
func Describe(err error) string {
	switch {
	case errors.Is(err, shelf.ErrKeyAlreadyExists):
		return "an entry with that id already exists"
	case errors.Is(err, shelf.ErrKeyDoesNotExist):
		return "no entry with that id"
	case errors.Is(err, library.ErrHasLoans):
		return "the user still has borrowed books"
	case errors.Is(err, library.ErrNotBorrowed):
		return "that book is not borrowed by this user"
	case errors.Is(err, agenda.ErrPastDate):
		return "events cannot be scheduled in the past"
	case errors.Is(err, ErrCancelled):
		return "cancelled"
	case errors.Is(err, shelf.ErrStorageFailed):
		return "changes are kept in memory but could not be saved: " + err.Error()
	default:
		return err.Error()
	}
}

// Prompter reads answers to prompts one line at a time.
type Prompter struct {
	sc  *bufio.Scanner
	out io.Writer
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{sc: bufio.NewScanner(in), out: out}
}

func (p *Prompter) Println(a ...any) {
	fmt.Fprintln(p.out, a...)
}

func (p *Prompter) Print(s string) {
	fmt.Fprint(p.out, s)
}

// Text returns the trimmed answer. io.EOF means there is no more input.
func (p *Prompter) Text(label string) (string, error) {
	fmt.Fprintf(p.out, "%s: ", label)
	if !p.sc.Scan() {
		if err := p.sc.Err(); err != nil {
			return "", errors.Wrap(err, "could not read input")
		}
		return "", io.EOF
	}

	return strings.TrimSpace(p.sc.Text()), nil
}

// Required is Text that refuses an empty answer.
func (p *Prompter) Required(label string) (string, error) {
	s, err := p.Text(label)
	if err != nil {
		return "", err
	}

	if s == "" {
		return "", errors.Wrapf(ErrMalformedInput, "%s must not be empty", strings.ToLower(label))
	}

	return s, nil
}

func (p *Prompter) Int(label string) (int, error) {
	v, ok, err := p.OptionalInt(label)
	if err != nil {
		return 0, err
	}

	if !ok {
		return 0, errors.Wrapf(ErrMalformedInput, "%s must be a whole number", strings.ToLower(label))
	}

	return v, nil
}

// OptionalInt reports ok=false for an empty answer.
func (p *Prompter) OptionalInt(label string) (int, bool, error) {
	s, err := p.Text(label)
	if err != nil || s == "" {
		return 0, false, err
	}

	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false, errors.Wrapf(ErrMalformedInput, "%q is not a whole number", s)
	}

	return v, true, nil
}

func (p *Prompter) Float(label string) (float64, error) {
	v, ok, err := p.OptionalFloat(label)
	if err != nil {
		return 0, err
	}

	if !ok {
		return 0, errors.Wrapf(ErrMalformedInput, "%s must be a number", strings.ToLower(label))
	}

	return v, nil
}

func (p *Prompter) OptionalFloat(label string) (float64, bool, error) {
	s, err := p.Text(label)
	if err != nil || s == "" {
		return 0, false, err
	}

	v, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil {
		return 0, false, errors.Wrapf(ErrMalformedInput, "%q is not a number", s)
	}

	return v, true, nil
}

// Confirm accepts y/yes and s/si.
func (p *Prompter) Confirm(label string) (bool, error) {
	s, err := p.Text(label + " [y/n]")
	if err != nil {
		return false, err
	}

	switch strings.ToLower(s) {
	case "y", "yes", "s", "si", "sí":
		return true, nil
	default:
		return false, nil
	}
}
