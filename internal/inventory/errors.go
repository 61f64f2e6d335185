package inventory

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("not found")

	ErrProductExists     = errors.New("product id already exists")
	ErrProductNotFound   = fmt.Errorf("product %w", ErrNotFound)
	ErrRentalNotFound    = fmt.Errorf("rental %w", ErrNotFound)
	ErrInsufficientStock = errors.New("insufficient quantity")
	ErrOutOfStock        = errors.New("product not available for rent")
	ErrInvalidProduct    = errors.New("invalid product")
	ErrInvalidQuantity   = errors.New("quantity must be positive")
	ErrInvalidRental     = errors.New("invalid rental")
	ErrPersistence       = errors.New("persistence failure")
)

// InsufficientStockError reports how much stock was available when a sale
// asked for more.
type InsufficientStockError struct {
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient quantity: requested %d, available %d", e.Requested, e.Available)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
