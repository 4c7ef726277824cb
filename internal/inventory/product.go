package inventory

import (
	"fmt"

	"github.com/denismitr/shelf"
	"github.com/pkg/errors"
)

// Product is one inventory entry. The id doubles as the key of the
// backing file.
type Product struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Quantity   int     `json:"quantity"`
	Price      float64 `json:"price"`
	CreatedAt  string  `json:"created_at"`
	ModifiedAt string  `json:"modified_at"`
}

func (p Product) Key() string   { return p.ID }
func (p Product) Label() string { return p.Name }

func (p Product) Created() string { return p.CreatedAt }

func (p Product) Stamp(created, modified string) Product {
	p.CreatedAt = created
	p.ModifiedAt = modified
	return p
}

func (p Product) Increment(by int) Product {
	p.Quantity += by
	return p
}

func (p Product) Validate() error {
	if p.Name == "" {
		return errors.New("name must not be empty")
	}

	if p.Quantity < 0 {
		return errors.Errorf("quantity %d must not be negative", p.Quantity)
	}

	if p.Price < 0 {
		return errors.Errorf("price %.2f must not be negative", p.Price)
	}

	return nil
}

// Total is the stock value of the product.
func (p Product) Total() float64 {
	return float64(p.Quantity) * p.Price
}

func (p Product) String() string {
	return fmt.Sprintf("%s %s x%d @ %.2f", p.ID, p.Name, p.Quantity, p.Price)
}

// Schema decodes products, including files written with the older
// field names (nombre, cantidad, precio, fecha).
func Schema() shelf.Schema[Product] {
	return shelf.Schema[Product]{
		Name:   "products",
		Decode: decode,
	}
}

func decode(key string, doc *shelf.Document) (Product, error) {
	p := Product{
		ID:         key,
		Name:       doc.FirstString("", "name", "nombre"),
		Quantity:   doc.FirstInt(0, "quantity", "cantidad"),
		Price:      doc.FirstFloat(0, "price", "precio"),
		CreatedAt:  doc.FirstString("", "created_at", "fecha"),
		ModifiedAt: doc.FirstString("", "modified_at", "fecha"),
	}

	if p.Name == "" {
		return p, errors.Errorf("product %s has no name", key)
	}

	return p, nil
}

// Open loads the inventory kept in path.
func Open(path string, cfg *shelf.Config) (*shelf.Store[Product], shelf.Closer, error) {
	return shelf.Open(path, Schema(), cfg)
}
