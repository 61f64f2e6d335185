package inventory

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"golang.org/x/text/collate"
)

const (
	opAdd         = "product_add"
	opUpdate      = "product_update"
	opDelete      = "product_delete"
	opSell        = "product_sell"
	opSearch      = "product_search"
	opList        = "product_list"
	opSortByID    = "product_sort_id"
	opSortByName  = "product_sort_name"
	opSortByPrice = "product_sort_price"
)

// Products is the product ledger.
type Products struct {
	ledger
}

func NewProducts(store Store, deps LedgerDeps) *Products {
	return &Products{ledger: newLedger(store, deps)}
}

func (p *Products) Add(ctx context.Context, in Product) (Product, error) {
	out, err := p.add(ctx, in)
	return out, p.done(opAdd, err)
}

func (p *Products) add(ctx context.Context, in Product) (Product, error) {
	if in.Price < 0 || in.Quantity < 0 {
		return Product{}, ErrInvalidProduct
	}

	d, err := p.load(ctx, opAdd)
	if err != nil {
		return Product{}, err
	}
	if d.productIndex(in.ID) >= 0 {
		return Product{}, ErrProductExists
	}

	in.Name = strings.TrimSpace(in.Name)
	d.Products = append(d.Products, in)

	if err := p.save(ctx, opAdd, &d); err != nil {
		return Product{}, err
	}
	return in, nil
}

// Update replaces the fields set in patch and keeps the rest.
func (p *Products) Update(ctx context.Context, id int, patch ProductPatch) (Product, error) {
	out, err := p.update(ctx, id, patch)
	return out, p.done(opUpdate, err)
}

func (p *Products) update(ctx context.Context, id int, patch ProductPatch) (Product, error) {
	if (patch.Price != nil && *patch.Price < 0) || (patch.Quantity != nil && *patch.Quantity < 0) {
		return Product{}, ErrInvalidProduct
	}

	d, err := p.load(ctx, opUpdate)
	if err != nil {
		return Product{}, err
	}
	i := d.productIndex(id)
	if i < 0 {
		return Product{}, ErrProductNotFound
	}

	cur := &d.Products[i]
	if patch.Name != nil {
		cur.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Price != nil {
		cur.Price = *patch.Price
	}
	if patch.Quantity != nil {
		cur.Quantity = *patch.Quantity
	}
	out := *cur

	if err := p.save(ctx, opUpdate, &d); err != nil {
		return Product{}, err
	}
	return out, nil
}

// Delete removes the product. Rentals that reference it are kept as they are.
func (p *Products) Delete(ctx context.Context, id int) error {
	return p.done(opDelete, p.delete(ctx, id))
}

func (p *Products) delete(ctx context.Context, id int) error {
	d, err := p.load(ctx, opDelete)
	if err != nil {
		return err
	}
	i := d.productIndex(id)
	if i < 0 {
		return ErrProductNotFound
	}

	d.Products = slices.Delete(d.Products, i, i+1)
	return p.save(ctx, opDelete, &d)
}

// Sell takes qty units out of stock and returns what is left.
func (p *Products) Sell(ctx context.Context, id, qty int) (int, error) {
	n, err := p.sell(ctx, id, qty)
	return n, p.done(opSell, err)
}

func (p *Products) sell(ctx context.Context, id, qty int) (int, error) {
	if qty <= 0 {
		return 0, ErrInvalidQuantity
	}

	d, err := p.load(ctx, opSell)
	if err != nil {
		return 0, err
	}
	i := d.productIndex(id)
	if i < 0 {
		return 0, ErrProductNotFound
	}

	cur := &d.Products[i]
	if qty > cur.Quantity {
		return 0, &InsufficientStockError{Requested: qty, Available: cur.Quantity}
	}
	cur.Quantity -= qty
	remaining := cur.Quantity

	if err := p.save(ctx, opSell, &d); err != nil {
		return 0, err
	}
	return remaining, nil
}

func (p *Products) Search(ctx context.Context, id int) (Product, error) {
	out, err := p.search(ctx, id)
	return out, p.done(opSearch, err)
}

func (p *Products) search(ctx context.Context, id int) (Product, error) {
	d, err := p.load(ctx, opSearch)
	if err != nil {
		return Product{}, err
	}
	i := d.productIndex(id)
	if i < 0 {
		return Product{}, ErrProductNotFound
	}
	return d.Products[i], nil
}

// List returns the products in stored order.
func (p *Products) List(ctx context.Context) ([]Product, error) {
	d, err := p.load(ctx, opList)
	if err != nil {
		return nil, p.done(opList, err)
	}
	return d.Products, p.done(opList, nil)
}

func (p *Products) SortByID(ctx context.Context) ([]Product, error) {
	return p.sortBy(ctx, opSortByID, func(a, b Product) int {
		return cmp.Compare(a.ID, b.ID)
	})
}

func (p *Products) SortByPrice(ctx context.Context) ([]Product, error) {
	return p.sortBy(ctx, opSortByPrice, func(a, b Product) int {
		return cmp.Compare(a.Price, b.Price)
	})
}

// SortByName orders by the collation rules of the ledger locale, so "apple"
// sorts next to "Apple" rather than after every capitalised name.
func (p *Products) SortByName(ctx context.Context) ([]Product, error) {
	c := collate.New(p.locale)
	return p.sortBy(ctx, opSortByName, func(a, b Product) int {
		return c.CompareString(a.Name, b.Name)
	})
}

// sortBy reorders the stored collection and persists the new order. The
// sort is stable, so equal keys keep their previous relative order.
func (p *Products) sortBy(ctx context.Context, op string, compare func(a, b Product) int) ([]Product, error) {
	d, err := p.load(ctx, op)
	if err != nil {
		return nil, p.done(op, err)
	}

	slices.SortStableFunc(d.Products, compare)

	if err := p.save(ctx, op, &d); err != nil {
		return nil, p.done(op, err)
	}
	return d.Products, p.done(op, nil)
}
