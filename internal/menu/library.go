package menu

import (
	"fmt"

	"github.com/denismitr/shelf/internal/display"
	"github.com/denismitr/shelf/internal/library"
	"go.uber.org/zap"
)

func Library(lib *library.Library, f display.Formatter, logger *zap.Logger) *Menu {
	return New("Library", logger,
		Item{Label: "Add book", Run: func(p *Prompter) error {
			var b library.Book
			for _, q := range []struct {
				label string
				dest  *string
			}{
				{"Title", &b.Title},
				{"Author", &b.Author},
				{"Category", &b.Category},
				{"ISBN", &b.ISBN},
			} {
				v, err := p.Required(q.label)
				if err != nil {
					return err
				}
				*q.dest = v
			}

			if err := lib.AddBook(b); err != nil {
				return err
			}
			p.Println(fmt.Sprintf("✅ book '%s' added", b.Title))
			return nil
		}},
		Item{Label: "Remove book", Run: func(p *Prompter) error {
			isbn, err := p.Required("ISBN")
			if err != nil {
				return err
			}
			if err := lib.RemoveBook(isbn); err != nil {
				return err
			}
			p.Println("✅ book removed")
			return nil
		}},
		Item{Label: "Register user", Run: func(p *Prompter) error {
			name, err := p.Required("Name")
			if err != nil {
				return err
			}
			id, err := p.Required("User id")
			if err != nil {
				return err
			}
			if err := lib.RegisterUser(library.User{ID: id, Name: name}); err != nil {
				return err
			}
			p.Println(fmt.Sprintf("✅ user %s registered", name))
			return nil
		}},
		Item{Label: "Unregister user", Run: func(p *Prompter) error {
			id, err := p.Required("User id")
			if err != nil {
				return err
			}
			if err := lib.UnregisterUser(id); err != nil {
				return err
			}
			p.Println("✅ user unregistered")
			return nil
		}},
		Item{Label: "Lend book", Run: func(p *Prompter) error {
			isbn, id, err := isbnAndUser(p)
			if err != nil {
				return err
			}
			b, err := lib.Lend(isbn, id)
			if err != nil {
				return err
			}
			p.Println(fmt.Sprintf("✅ '%s' lent to %s", b.Title, id))
			return nil
		}},
		Item{Label: "Return book", Run: func(p *Prompter) error {
			isbn, id, err := isbnAndUser(p)
			if err != nil {
				return err
			}
			b, err := lib.Return(isbn, id)
			if err != nil {
				return err
			}
			p.Println(fmt.Sprintf("✅ '%s' returned", b.Title))
			return nil
		}},
		Item{Label: "Search books", Run: func(p *Prompter) error {
			field, err := p.Required("Search by (title/author/category/isbn)")
			if err != nil {
				return err
			}
			q, err := p.Text("Query")
			if err != nil {
				return err
			}
			books, err := lib.Search(library.Field(field), q)
			if err != nil {
				return err
			}
			p.Print(f.Books(available(books)))
			return nil
		}},
		Item{Label: "Borrowed by user", Run: func(p *Prompter) error {
			id, err := p.Required("User id")
			if err != nil {
				return err
			}
			books, err := lib.Loans(id)
			if err != nil {
				return err
			}
			entries := make([]library.Entry, 0, len(books))
			for _, b := range books {
				entries = append(entries, library.Entry{Book: b, BorrowedBy: id})
			}
			p.Print(f.Books(entries))
			return nil
		}},
		Item{Label: "List all books", Run: func(p *Prompter) error {
			p.Print(f.Books(lib.Listing()))
			return nil
		}},
	)
}

func isbnAndUser(p *Prompter) (string, string, error) {
	isbn, err := p.Required("ISBN")
	if err != nil {
		return "", "", err
	}

	id, err := p.Required("User id")
	if err != nil {
		return "", "", err
	}

	return isbn, id, nil
}

func available(books []library.Book) []library.Entry {
	entries := make([]library.Entry, 0, len(books))
	for _, b := range books {
		entries = append(entries, library.Entry{Book: b})
	}
	return entries
}
