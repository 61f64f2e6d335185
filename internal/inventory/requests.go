package inventory

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

const maxBodyBytes = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type addProductReq struct {
	ID       int      `json:"id" validate:"required,gt=0"`
	Name     string   `json:"name" validate:"required"`
	Price    *float64 `json:"price" validate:"required,gte=0"`
	Quantity *int     `json:"quantity" validate:"required,gte=0"`
}

func (r *addProductReq) normalize() { r.Name = strings.TrimSpace(r.Name) }

func (r addProductReq) product() Product {
	return Product{ID: r.ID, Name: r.Name, Price: *r.Price, Quantity: *r.Quantity}
}

type updateProductReq struct {
	ID       int      `json:"id" validate:"required,gt=0"`
	Name     *string  `json:"name" validate:"omitnil,min=1"`
	Price    *float64 `json:"price" validate:"omitnil,gte=0"`
	Quantity *int     `json:"quantity" validate:"omitnil,gte=0"`
}

func (r *updateProductReq) normalize() {
	if r.Name != nil {
		n := strings.TrimSpace(*r.Name)
		r.Name = &n
	}
}

func (r updateProductReq) patch() ProductPatch {
	return ProductPatch{Name: r.Name, Price: r.Price, Quantity: r.Quantity}
}

type deleteProductReq struct {
	ID int `json:"id" validate:"required,gt=0"`
}

type sellReq struct {
	ProductID    int `json:"productId" validate:"required,gt=0"`
	QuantitySold int `json:"quantitySold" validate:"required,gt=0"`
}

type recordRentalReq struct {
	ProductID   int      `json:"productId" validate:"required,gt=0"`
	RenterName  string   `json:"renterName" validate:"required"`
	ReturnDate  string   `json:"returnDate" validate:"required"`
	PhoneNumber string   `json:"phoneNumber" validate:"required"`
	Address     string   `json:"address" validate:"required"`
	AmountPaid  *float64 `json:"amountPaid" validate:"required,gte=0"`
}

func (r *recordRentalReq) normalize() {
	r.RenterName = strings.TrimSpace(r.RenterName)
	r.ReturnDate = strings.TrimSpace(r.ReturnDate)
	r.PhoneNumber = strings.TrimSpace(r.PhoneNumber)
	r.Address = strings.TrimSpace(r.Address)
}

func (r recordRentalReq) input() RentalInput {
	return RentalInput{
		ProductID:   r.ProductID,
		RenterName:  r.RenterName,
		ReturnDate:  r.ReturnDate,
		PhoneNumber: r.PhoneNumber,
		Address:     r.Address,
		AmountPaid:  *r.AmountPaid,
	}
}

type returnRentalReq struct {
	RentalID int64 `json:"rentalId" validate:"required,gt=0"`
}

type normalizer interface{ normalize() }

var errTrailingData = errors.New("extra data after json object")

// decodeRequest reads one JSON object into dst, trims its text fields and
// validates it.
func decodeRequest(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer func() { _ = r.Body.Close() }()

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errTrailingData
	}

	if n, ok := dst.(normalizer); ok {
		n.normalize()
	}
	return validate.Struct(dst)
}

// fieldErrors maps each failed field to the rule it broke.
func fieldErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = fe.Tag()
	}
	return out
}
