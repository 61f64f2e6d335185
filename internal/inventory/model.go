// Package inventory holds the product and rental ledgers of NexStock and the
// stores that persist them.
//
// Every ledger operation loads the whole Dataset, mutates it in memory and
// saves it back. There is no locking around that cycle: two requests racing
// between load and save lose one of the updates. The tracker is meant for a
// single operator and accepts that.
package inventory

import "time"

const dateLayout = "2006-01-02"

type Product struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// ProductPatch carries the fields of an update. Nil fields are left alone.
type ProductPatch struct {
	Name     *string
	Price    *float64
	Quantity *int
}

type RentalStatus string

const (
	RentalActive   RentalStatus = "active"
	RentalReturned RentalStatus = "returned"
)

// Rental references its product by id only. The product may since have been
// deleted; ProductName keeps the name it had when the rental was recorded.
type Rental struct {
	RentalID     int64        `json:"rentalId"`
	ProductID    int          `json:"productId"`
	ProductName  string       `json:"productName"`
	RenterName   string       `json:"renterName"`
	RentDate     string       `json:"rentDate"`
	ReturnDate   string       `json:"returnDate"`
	PhoneNumber  string       `json:"phoneNumber"`
	Address      string       `json:"address"`
	AmountPaid   float64      `json:"amountPaid"`
	Status       RentalStatus `json:"status"`
	ReturnedDate string       `json:"returnedDate,omitempty"`
}

type RentalInput struct {
	ProductID   int
	RenterName  string
	ReturnDate  string
	PhoneNumber string
	Address     string
	AmountPaid  float64
}

// Dataset is the complete persisted state.
type Dataset struct {
	Products []Product `json:"products"`
	Rentals  []Rental  `json:"rentals"`
}

func (d *Dataset) normalize() {
	if d.Products == nil {
		d.Products = []Product{}
	}
	if d.Rentals == nil {
		d.Rentals = []Rental{}
	}
}

func (d *Dataset) productIndex(id int) int {
	for i := range d.Products {
		if d.Products[i].ID == id {
			return i
		}
	}
	return -1
}

func (d *Dataset) rentalIndex(id int64) int {
	for i := range d.Rentals {
		if d.Rentals[i].RentalID == id {
			return i
		}
	}
	return -1
}

// nextRentalID derives an id from the clock and bumps it past the largest
// existing id, so ids stay unique even when two rentals land in the same
// millisecond or the clock steps back.
func (d *Dataset) nextRentalID(now time.Time) int64 {
	id := now.UnixMilli()
	for _, r := range d.Rentals {
		if r.RentalID >= id {
			id = r.RentalID + 1
		}
	}
	return id
}

func (d *Dataset) clone() Dataset {
	out := Dataset{
		Products: make([]Product, len(d.Products)),
		Rentals:  make([]Rental, len(d.Rentals)),
	}
	copy(out.Products, d.Products)
	copy(out.Rentals, d.Rentals)
	return out
}

func today(now time.Time) string {
	return now.UTC().Format(dateLayout)
}
