package library

import (
	"path/filepath"

	"github.com/denismitr/shelf"
	"github.com/denismitr/shelf/internal/fold"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

const (
	BooksFile = "libros.json"
	UsersFile = "usuarios.json"
)

var (
	ErrHasLoans    = errors.New("user still has borrowed books")
	ErrNotBorrowed = errors.New("book is not borrowed by this user")
)

// Field selects what Library.Search matches against.
type Field string

const (
	ByTitle    Field = "title"
	ByAuthor   Field = "author"
	ByCategory Field = "category"
	ByISBN     Field = "isbn"
)

// Entry is one row of the full listing: either an available book or one
// lent to a user.
type Entry struct {
	Book       Book
	BorrowedBy string
}

func (e Entry) Available() bool {
	return e.BorrowedBy == ""
}

// Library keeps the catalog of available books and the registered users
// in two stores. A lent book lives in the borrower's record until it is
// returned.
type Library struct {
	books *shelf.Store[Book]
	users *shelf.Store[User]
}

// Open loads both stores from dir.
func Open(dir string, cfg *shelf.Config) (*Library, shelf.Closer, error) {
	books, closeBooks, err := shelf.Open(filepath.Join(dir, BooksFile), BookSchema(), cfg)
	if err != nil {
		return nil, shelf.NullCloser, err
	}

	users, closeUsers, err := shelf.Open(filepath.Join(dir, UsersFile), UserSchema(), cfg)
	if err != nil {
		_ = closeBooks()
		return nil, shelf.NullCloser, err
	}

	closer := func() error {
		return multierr.Append(closeBooks(), closeUsers())
	}

	return &Library{books: books, users: users}, closer, nil
}

func (l *Library) Books() *shelf.Store[Book] {
	return l.books
}

func (l *Library) Users() *shelf.Store[User] {
	return l.users
}

// AddBook adds a book to the catalog. An ISBN that is currently lent out
// is also a conflict.
func (l *Library) AddBook(b Book) error {
	if borrower, ok := l.borrowerOf(b.ISBN); ok {
		return errors.Wrapf(shelf.ErrKeyAlreadyExists, "isbn %s is lent to %s", b.ISBN, borrower.ID)
	}

	return l.books.Add(b)
}

func (l *Library) RemoveBook(isbn string) error {
	return l.books.Remove(isbn)
}

func (l *Library) RegisterUser(u User) error {
	u.Borrowed = nil
	return l.users.Add(u)
}

// UnregisterUser refuses to drop a user who still holds books.
func (l *Library) UnregisterUser(id string) error {
	u, err := l.users.Get(id)
	if err != nil {
		return err
	}

	if len(u.Borrowed) > 0 {
		return errors.Wrapf(ErrHasLoans, "user %s holds %d", id, len(u.Borrowed))
	}

	return l.users.Remove(id)
}

// Lend moves a book out of the catalog and into the user's loans.
func (l *Library) Lend(isbn, userID string) (Book, error) {
	u, err := l.users.Get(userID)
	if err != nil {
		return Book{}, err
	}

	b, err := l.books.Get(isbn)
	if err != nil {
		return Book{}, err
	}

	_, err = l.users.Update(userID, shelf.M{"borrowed": append(u.Borrowed, b)})
	if err != nil && !applied(err) {
		return Book{}, err
	}

	return b, multierr.Append(err, l.books.Remove(isbn))
}

// Return moves a book from the user's loans back into the catalog.
func (l *Library) Return(isbn, userID string) (Book, error) {
	u, err := l.users.Get(userID)
	if err != nil {
		return Book{}, err
	}

	i := u.borrowedIndex(isbn)
	if i < 0 {
		return Book{}, errors.Wrapf(ErrNotBorrowed, "isbn %s user %s", isbn, userID)
	}

	b := u.Borrowed[i]
	err = l.books.Add(b)
	if err != nil && !applied(err) {
		return Book{}, err
	}

	rest := append(u.Borrowed[:i:i], u.Borrowed[i+1:]...)
	_, updErr := l.users.Update(userID, shelf.M{"borrowed": rest})

	return b, multierr.Append(err, updErr)
}

// applied reports whether a failed mutation still took effect in memory.
// A store that could not write its file keeps the change and retries on
// close, so a move between the two stores has to be finished.
func applied(err error) bool {
	return errors.Is(err, shelf.ErrStorageFailed)
}

func (l *Library) Loans(userID string) ([]Book, error) {
	u, err := l.users.Get(userID)
	if err != nil {
		return nil, err
	}

	return u.Borrowed, nil
}

// Search looks through the books available for lending.
func (l *Library) Search(field Field, query string) ([]Book, error) {
	switch field {
	case ByTitle:
		return l.books.Search(query), nil
	case ByAuthor:
		return l.books.SearchBy(query, func(b Book) []string { return []string{b.Author} }), nil
	case ByCategory:
		return l.books.Filter(func(b Book) bool { return fold.Equal(b.Category, query) }), nil
	case ByISBN:
		b, err := l.books.Get(query)
		if errors.Is(err, shelf.ErrKeyDoesNotExist) {
			return []Book{}, nil
		}
		if err != nil {
			return nil, err
		}
		return []Book{b}, nil
	default:
		return nil, errors.Wrapf(shelf.ErrInvalidInput, "unknown search field %q", field)
	}
}

// Listing returns available books followed by lent ones.
func (l *Library) Listing() []Entry {
	var entries []Entry
	for _, b := range l.books.List(nil) {
		entries = append(entries, Entry{Book: b})
	}

	for _, u := range l.users.List(nil) {
		for _, b := range u.Borrowed {
			entries = append(entries, Entry{Book: b, BorrowedBy: u.Name})
		}
	}

	return entries
}

func (l *Library) borrowerOf(isbn string) (User, bool) {
	lenders := l.users.Filter(func(u User) bool { return u.borrowedIndex(isbn) >= 0 })
	if len(lenders) == 0 {
		return User{}, false
	}

	return lenders[0], true
}
