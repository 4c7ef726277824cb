package menu

import (
	"fmt"

	"github.com/denismitr/shelf"
	"github.com/denismitr/shelf/internal/display"
	"github.com/denismitr/shelf/internal/inventory"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Inventory builds the product management menu over s.
func Inventory(s *shelf.Store[inventory.Product], f display.Formatter, logger *zap.Logger) *Menu {
	return New("Inventory", logger,
		Item{Label: "Add product", Run: func(p *Prompter) error { return addProduct(s, p) }},
		Item{Label: "Remove product", Run: func(p *Prompter) error {
			id, err := p.Required("Product id")
			if err != nil {
				return err
			}
			if err := s.Remove(id); err != nil {
				return err
			}
			p.Println("✅ product removed")
			return nil
		}},
		Item{Label: "Update product", Run: func(p *Prompter) error { return updateProduct(s, p) }},
		Item{Label: "Search by name", Run: func(p *Prompter) error {
			q, err := p.Text("Name contains")
			if err != nil {
				return err
			}
			p.Print(f.Products(s.Search(q)))
			return nil
		}},
		Item{Label: "List products", Run: func(p *Prompter) error {
			products := s.List(nil)
			p.Print(f.Products(products))

			var total float64
			for _, pr := range products {
				total += pr.Total()
			}
			p.Println(fmt.Sprintf("Stock value: $%.2f", total))
			return nil
		}},
	)
}

// addProduct offers to increase the stock when the id is taken.
func addProduct(s *shelf.Store[inventory.Product], p *Prompter) error {
	id, err := p.Required("Product id")
	if err != nil {
		return err
	}

	if s.Has(id) {
		p.Println("⚠️ that product already exists")
		extra, err := p.Int("Extra quantity to add (0 to cancel)")
		if err != nil {
			return err
		}

		outcome, err := s.AddOrIncrement(inventory.Product{ID: id}, extra)
		if err != nil {
			return err
		}
		if outcome == shelf.Unchanged {
			return ErrCancelled
		}

		p.Println("✅ stock increased")
		return nil
	}

	name, err := p.Required("Name")
	if err != nil {
		return err
	}

	qty, err := p.Int("Quantity")
	if err != nil {
		return err
	}

	price, err := p.Float("Price")
	if err != nil {
		return err
	}

	if err := s.Add(inventory.Product{ID: id, Name: name, Quantity: qty, Price: price}); err != nil {
		return err
	}

	p.Println("✅ product added")
	return nil
}

// updateProduct changes only the answers that were not left blank.
func updateProduct(s *shelf.Store[inventory.Product], p *Prompter) error {
	id, err := p.Required("Product id")
	if err != nil {
		return err
	}

	if !s.Has(id) {
		return errors.Wrapf(shelf.ErrKeyDoesNotExist, "product %s", id)
	}

	patch := shelf.M{}

	qty, ok, err := p.OptionalInt("New quantity (blank keeps it)")
	if err != nil {
		return err
	}
	if ok {
		patch["quantity"] = qty
	}

	price, ok, err := p.OptionalFloat("New price (blank keeps it)")
	if err != nil {
		return err
	}
	if ok {
		patch["price"] = price
	}

	if len(patch) == 0 {
		return ErrCancelled
	}

	if _, err := s.Update(id, patch); err != nil {
		return err
	}

	p.Println("✅ product updated")
	return nil
}
