package library

import (
	"fmt"

	"github.com/denismitr/shelf"
	"github.com/pkg/errors"
)

// Book is keyed by its ISBN.
type Book struct {
	ISBN     string `json:"isbn"`
	Title    string `json:"title"`
	Author   string `json:"author"`
	Category string `json:"category"`
}

func (b Book) Key() string   { return b.ISBN }
func (b Book) Label() string { return b.Title }

func (b Book) Validate() error {
	switch {
	case b.Title == "":
		return errors.New("title must not be empty")
	case b.Author == "":
		return errors.New("author must not be empty")
	case b.Category == "":
		return errors.New("category must not be empty")
	}

	return nil
}

func (b Book) String() string {
	return fmt.Sprintf("'%s' by %s, category %s, ISBN %s", b.Title, b.Author, b.Category, b.ISBN)
}

func BookSchema() shelf.Schema[Book] {
	return shelf.Schema[Book]{
		Name:   "books",
		Decode: decodeBook,
	}
}

func decodeBook(key string, doc *shelf.Document) (Book, error) {
	b := Book{
		ISBN:     key,
		Title:    doc.FirstString("", "title", "titulo"),
		Author:   doc.FirstString("", "author", "autor"),
		Category: doc.FirstString("", "category", "categoria"),
	}

	if b.Title == "" {
		return b, errors.Errorf("book %s has no title", key)
	}

	return b, nil
}

// User is a library member together with the books currently lent to them.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Borrowed []Book `json:"borrowed"`
}

func (u User) Key() string   { return u.ID }
func (u User) Label() string { return u.Name }

func (u User) Validate() error {
	if u.Name == "" {
		return errors.New("name must not be empty")
	}

	return nil
}

func (u User) borrowedIndex(isbn string) int {
	for i, b := range u.Borrowed {
		if b.ISBN == isbn {
			return i
		}
	}

	return -1
}

func UserSchema() shelf.Schema[User] {
	return shelf.Schema[User]{
		Name:   "users",
		Decode: decodeUser,
	}
}

func decodeUser(key string, doc *shelf.Document) (User, error) {
	u := User{
		ID:   key,
		Name: doc.FirstString("", "name", "nombre"),
	}

	loans := doc.Documents("borrowed")
	if loans == nil {
		loans = doc.Documents("libros_prestados")
	}

	for _, ld := range loans {
		b, err := decodeBook(ld.FirstString("", "isbn"), ld)
		if err != nil {
			return u, errors.Wrapf(err, "user %s", key)
		}
		u.Borrowed = append(u.Borrowed, b)
	}

	return u, nil
}
