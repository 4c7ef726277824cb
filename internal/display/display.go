// Package display renders store contents for the terminal. The style is
// picked by configuration; there is one Formatter for all of them.
package display

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/denismitr/shelf/internal/agenda"
	"github.com/denismitr/shelf/internal/inventory"
	"github.com/denismitr/shelf/internal/library"
	"github.com/denismitr/shelf/internal/todo"
	"github.com/pkg/errors"
)

type Style string

const (
	Plain Style = "plain"
	Emoji Style = "emoji"
	Table Style = "table"
)

var ErrUnknownStyle = errors.New("unknown display style")

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8BC34A"))
)

func ParseStyle(s string) (Style, error) {
	switch st := Style(strings.ToLower(strings.TrimSpace(s))); st {
	case Plain, Emoji, Table:
		return st, nil
	case "":
		return Plain, nil
	default:
		return "", errors.Wrapf(ErrUnknownStyle, "%q", s)
	}
}

type Formatter struct {
	Style Style
}

func New(style Style) Formatter {
	return Formatter{Style: style}
}

func (f Formatter) Products(products []inventory.Product) string {
	if len(products) == 0 {
		return f.empty("inventory is empty")
	}

	switch f.Style {
	case Table:
		rows := make([][]string, 0, len(products))
		for _, p := range products {
			rows = append(rows, []string{p.ID, p.Name, strconv.Itoa(p.Quantity), money(p.Price), p.ModifiedAt})
		}
		return render([]string{"ID", "Name", "Qty", "Price", "Modified"}, rows)
	case Emoji:
		return lines(len(products), func(i int) string {
			p := products[i]
			return fmt.Sprintf("🆔 %s | 🛒 %s | 📦 %d uds | 💲%s | 📅 %s", p.ID, p.Name, p.Quantity, money(p.Price), p.ModifiedAt)
		})
	default:
		return lines(len(products), func(i int) string {
			p := products[i]
			return fmt.Sprintf("%s  %s  qty=%d  price=%s", p.ID, p.Name, p.Quantity, money(p.Price))
		})
	}
}

func (f Formatter) Books(entries []library.Entry) string {
	if len(entries) == 0 {
		return f.empty("no books")
	}

	switch f.Style {
	case Table:
		rows := make([][]string, 0, len(entries))
		for _, e := range entries {
			rows = append(rows, []string{e.Book.Title, e.Book.Author, e.Book.Category, e.Book.ISBN, status(e)})
		}
		return render([]string{"Title", "Author", "Category", "ISBN", "Status"}, rows)
	case Emoji:
		return lines(len(entries), func(i int) string {
			e := entries[i]
			mark := "📗"
			if !e.Available() {
				mark = "📕"
			}
			return fmt.Sprintf("%s '%s' ✍️ %s | 🏷️ %s | 🔖 %s | %s", mark, e.Book.Title, e.Book.Author, e.Book.Category, e.Book.ISBN, status(e))
		})
	default:
		return lines(len(entries), func(i int) string {
			e := entries[i]
			return fmt.Sprintf("%s (%s)", e.Book.String(), status(e))
		})
	}
}

func (f Formatter) Tasks(tasks []todo.Task) string {
	if len(tasks) == 0 {
		return f.empty("nothing to do")
	}

	switch f.Style {
	case Table:
		rows := make([][]string, 0, len(tasks))
		for i, t := range tasks {
			done := ""
			if t.Done {
				done = "x"
			}
			rows = append(rows, []string{strconv.Itoa(i + 1), done, t.Text})
		}
		return render([]string{"#", "Done", "Task"}, rows)
	case Emoji:
		return lines(len(tasks), func(i int) string {
			mark := "📌"
			if tasks[i].Done {
				mark = "✔"
			}
			return fmt.Sprintf("%d. %s %s", i+1, mark, tasks[i].Text)
		})
	default:
		return lines(len(tasks), func(i int) string {
			mark := "[ ]"
			if tasks[i].Done {
				mark = "[x]"
			}
			return fmt.Sprintf("%d. %s %s", i+1, mark, tasks[i].Text)
		})
	}
}

func (f Formatter) Events(events []agenda.Event) string {
	if len(events) == 0 {
		return f.empty("no events")
	}

	switch f.Style {
	case Table:
		rows := make([][]string, 0, len(events))
		for i, e := range events {
			rows = append(rows, []string{strconv.Itoa(i + 1), e.Date, e.Time, e.Description})
		}
		return render([]string{"#", "Date", "Time", "Activity"}, rows)
	case Emoji:
		return lines(len(events), func(i int) string {
			e := events[i]
			return fmt.Sprintf("%d. 🗓 %s ⏰ %s | %s", i+1, e.Date, e.Time, e.Description)
		})
	default:
		return lines(len(events), func(i int) string {
			e := events[i]
			return fmt.Sprintf("%d. %s %s  %s", i+1, e.Date, e.Time, e.Description)
		})
	}
}

func (f Formatter) empty(msg string) string {
	if f.Style == Emoji {
		return "📭 " + msg + "\n"
	}
	return "(" + msg + ")\n"
}

func status(e library.Entry) string {
	if e.Available() {
		return "available"
	}
	return "borrowed by " + e.BorrowedBy
}

func money(v float64) string {
	return "$" + strconv.FormatFloat(v, 'f', 2, 64)
}

func lines(n int, line func(i int) string) string {
	var sb strings.Builder
	for i := 0; i < n; i++ {
		sb.WriteString(line(i))
		sb.WriteByte('\n')
	}
	return sb.String()
}

func render(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...).
		Rows(rows...)

	return t.Render() + "\n"
}
