package display

import (
	"strings"
	"testing"

	"github.com/denismitr/shelf/internal/agenda"
	"github.com/denismitr/shelf/internal/inventory"
	"github.com/denismitr/shelf/internal/library"
	"github.com/denismitr/shelf/internal/todo"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var products = []inventory.Product{
	{ID: "001", Name: "Book A", Quantity: 3, Price: 9.99, ModifiedAt: "2025-06-01 12:30:00"},
	{ID: "002", Name: "Pen", Quantity: 12, Price: 0.5, ModifiedAt: "2025-06-02 08:00:00"},
}

func TestParseStyle(t *testing.T) {
	tt := []struct {
		in   string
		want Style
	}{
		{"plain", Plain},
		{" EMOJI ", Emoji},
		{"table", Table},
		{"", Plain},
	}

	for _, tc := range tt {
		st, err := ParseStyle(tc.in)
		require.NoError(t, err)
		assert.Equal(t, tc.want, st)
	}

	_, err := ParseStyle("fancy")
	assert.True(t, errors.Is(err, ErrUnknownStyle))
}

func TestFormatter_Products(t *testing.T) {
	t.Run("plain", func(t *testing.T) {
		want := "001  Book A  qty=3  price=$9.99\n" +
			"002  Pen  qty=12  price=$0.50\n"
		assert.Equal(t, want, New(Plain).Products(products))
	})

	t.Run("emoji", func(t *testing.T) {
		out := New(Emoji).Products(products)
		assert.Equal(t, "🆔 001 | 🛒 Book A | 📦 3 uds | 💲$9.99 | 📅 2025-06-01 12:30:00", strings.Split(out, "\n")[0])
	})

	t.Run("table", func(t *testing.T) {
		out := New(Table).Products(products)
		for _, s := range []string{"ID", "Name", "Qty", "Book A", "Pen", "$9.99", "$0.50"} {
			assert.Contains(t, out, s)
		}
		assert.Greater(t, strings.Count(out, "\n"), len(products))
	})

	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, "(inventory is empty)\n", New(Table).Products(nil))
		assert.Equal(t, "📭 inventory is empty\n", New(Emoji).Products(nil))
	})
}

func TestFormatter_Books(t *testing.T) {
	entries := []library.Entry{
		{Book: library.Book{ISBN: "111", Title: "Rayuela", Author: "Julio Cortázar", Category: "Novela"}},
		{Book: library.Book{ISBN: "222", Title: "Ficciones", Author: "Jorge Luis Borges", Category: "Cuentos"}, BorrowedBy: "Ana"},
	}

	plain := New(Plain).Books(entries)
	assert.Equal(t,
		"'Rayuela' by Julio Cortázar, category Novela, ISBN 111 (available)\n"+
			"'Ficciones' by Jorge Luis Borges, category Cuentos, ISBN 222 (borrowed by Ana)\n",
		plain)

	emoji := New(Emoji).Books(entries)
	assert.True(t, strings.HasPrefix(emoji, "📗 'Rayuela'"))
	assert.Contains(t, emoji, "📕 'Ficciones'")

	tbl := New(Table).Books(entries)
	assert.Contains(t, tbl, "borrowed by Ana")
	assert.Contains(t, tbl, "Status")
}

func TestFormatter_Tasks(t *testing.T) {
	tasks := []todo.Task{{ID: "a", Text: "Estudiar"}, {ID: "b", Text: "Leer", Done: true}}

	assert.Equal(t, "1. [ ] Estudiar\n2. [x] Leer\n", New(Plain).Tasks(tasks))
	assert.Equal(t, "1. 📌 Estudiar\n2. ✔ Leer\n", New(Emoji).Tasks(tasks))
	assert.Contains(t, New(Table).Tasks(tasks), "Leer")
}

func TestFormatter_Events(t *testing.T) {
	events := []agenda.Event{
		{ID: "a", Date: "14/03/2025", Time: "13:00", Description: "Almuerzo"},
		{ID: "b", Date: "20/03/2025", Time: "18:30", Description: "Dentista"},
	}

	assert.Equal(t, "1. 14/03/2025 13:00  Almuerzo\n2. 20/03/2025 18:30  Dentista\n", New(Plain).Events(events))
	assert.Equal(t, "1. 🗓 14/03/2025 ⏰ 13:00 | Almuerzo\n2. 🗓 20/03/2025 ⏰ 18:30 | Dentista\n", New(Emoji).Events(events))

	tbl := New(Table).Events(events)
	assert.Contains(t, tbl, "Activity")
	assert.Contains(t, tbl, "Dentista")

	assert.Equal(t, "(no events)\n", New(Plain).Events(nil))
}
