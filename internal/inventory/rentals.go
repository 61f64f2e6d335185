package inventory

import (
	"context"
	"strings"
)

const (
	opRentalCreate = "rental_create"
	opRentalReturn = "rental_return"
	opRentalList   = "rental_list"
)

// Rentals is the rental ledger. Each active rental holds one unit of its
// product's stock.
type Rentals struct {
	ledger
}

func NewRentals(store Store, deps LedgerDeps) *Rentals {
	return &Rentals{ledger: newLedger(store, deps)}
}

// Create records a rental and takes one unit of the product out of stock.
func (r *Rentals) Create(ctx context.Context, in RentalInput) (Rental, error) {
	out, err := r.create(ctx, in)
	return out, r.done(opRentalCreate, err)
}

func (r *Rentals) create(ctx context.Context, in RentalInput) (Rental, error) {
	if in.AmountPaid < 0 {
		return Rental{}, ErrInvalidRental
	}

	d, err := r.load(ctx, opRentalCreate)
	if err != nil {
		return Rental{}, err
	}
	i := d.productIndex(in.ProductID)
	if i < 0 {
		return Rental{}, ErrProductNotFound
	}

	p := &d.Products[i]
	if p.Quantity <= 0 {
		return Rental{}, ErrOutOfStock
	}
	p.Quantity--

	now := r.now()
	rental := Rental{
		RentalID:    d.nextRentalID(now),
		ProductID:   p.ID,
		ProductName: p.Name,
		RenterName:  strings.TrimSpace(in.RenterName),
		RentDate:    today(now),
		ReturnDate:  strings.TrimSpace(in.ReturnDate),
		PhoneNumber: strings.TrimSpace(in.PhoneNumber),
		Address:     strings.TrimSpace(in.Address),
		AmountPaid:  in.AmountPaid,
		Status:      RentalActive,
	}
	d.Rentals = append(d.Rentals, rental)

	if err := r.save(ctx, opRentalCreate, &d); err != nil {
		return Rental{}, err
	}
	return rental, nil
}

// MarkReturned closes an active rental and puts its unit back in stock if the
// product still exists. Returning a rental twice changes nothing; the first
// result reports whether it had already been returned.
func (r *Rentals) MarkReturned(ctx context.Context, rentalID int64) (bool, error) {
	already, err := r.markReturned(ctx, rentalID)
	return already, r.done(opRentalReturn, err)
}

func (r *Rentals) markReturned(ctx context.Context, rentalID int64) (bool, error) {
	d, err := r.load(ctx, opRentalReturn)
	if err != nil {
		return false, err
	}
	i := d.rentalIndex(rentalID)
	if i < 0 {
		return false, ErrRentalNotFound
	}

	rental := &d.Rentals[i]
	if rental.Status == RentalReturned {
		return true, nil
	}
	rental.Status = RentalReturned
	rental.ReturnedDate = today(r.now())

	if j := d.productIndex(rental.ProductID); j >= 0 {
		d.Products[j].Quantity++
	}

	if err := r.save(ctx, opRentalReturn, &d); err != nil {
		return false, err
	}
	return false, nil
}

// List returns every rental in the order it was recorded.
func (r *Rentals) List(ctx context.Context) ([]Rental, error) {
	d, err := r.load(ctx, opRentalList)
	if err != nil {
		return nil, r.done(opRentalList, err)
	}
	return d.Rentals, r.done(opRentalList, nil)
}
