package inventory

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"NexStock/pkg/kit"
)

type Server struct {
	Products *Products
	Rentals  *Rentals
	Store    Store
	Log      *zap.Logger
}

type productResp struct {
	Success bool    `json:"success"`
	Message string  `json:"message"`
	Product Product `json:"product"`
}

type sellResp struct {
	Success           bool `json:"success"`
	QuantityRemaining int  `json:"quantity_remaining"`
}

type sortResp struct {
	Success  bool      `json:"success"`
	Message  string    `json:"message"`
	Products []Product `json:"products"`
}

type rentalResp struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Rental  Rental `json:"rental"`
}

type insufficientResp struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	Available int    `json:"available"`
	RequestID string `json:"request_id,omitempty"`
}

// Routes serves the ledger API. guard, when set, wraps every route that
// writes the dataset.
func (s *Server) Routes(guard func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/products", s.listProducts)
	r.Get("/product/search/{id}", s.searchProduct)
	r.Get("/rentals", s.listRentals)

	r.Group(func(wr chi.Router) {
		if guard != nil {
			wr.Use(guard)
		}
		wr.Post("/product/add", s.addProduct)
		wr.Put("/product/update", s.updateProduct)
		wr.Delete("/product/delete", s.deleteProduct)
		wr.Post("/product/sell", s.sellProduct)
		wr.Get("/product/sort/{key}", s.sortProducts)

		wr.Post("/rental/record", s.recordRental)
		wr.Put("/rental/return", s.returnRental)
	})

	return r
}

func (s *Server) readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
	defer cancel()

	if err := s.Store.Ping(ctx); err != nil {
		s.logger().Warn("readyz failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.Products.List(r.Context())
	if err != nil {
		s.writeLedgerError(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, products)
}

func (s *Server) addProduct(w http.ResponseWriter, r *http.Request) {
	var req addProductReq
	if err := decodeRequest(w, r, &req); err != nil {
		writeBadRequest(w, r, err)
		return
	}

	p, err := s.Products.Add(r.Context(), req.product())
	if err != nil {
		s.writeLedgerError(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusCreated, productResp{Success: true, Message: "Product added", Product: p})
}

func (s *Server) updateProduct(w http.ResponseWriter, r *http.Request) {
	var req updateProductReq
	if err := decodeRequest(w, r, &req); err != nil {
		writeBadRequest(w, r, err)
		return
	}

	p, err := s.Products.Update(r.Context(), req.ID, req.patch())
	if err != nil {
		s.writeLedgerError(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, productResp{Success: true, Message: "Product updated", Product: p})
}

func (s *Server) deleteProduct(w http.ResponseWriter, r *http.Request) {
	var req deleteProductReq
	if err := decodeRequest(w, r, &req); err != nil {
		writeBadRequest(w, r, err)
		return
	}

	if err := s.Products.Delete(r.Context(), req.ID); err != nil {
		s.writeLedgerError(w, r, err)
		return
	}
	kit.WriteMessage(w, http.StatusOK, "Product deleted")
}

func (s *Server) sellProduct(w http.ResponseWriter, r *http.Request) {
	var req sellReq
	if err := decodeRequest(w, r, &req); err != nil {
		writeBadRequest(w, r, err)
		return
	}

	remaining, err := s.Products.Sell(r.Context(), req.ProductID, req.QuantitySold)
	if err != nil {
		s.writeLedgerError(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, sellResp{Success: true, QuantityRemaining: remaining})
}

func (s *Server) searchProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		kit.WriteError(w, r, http.StatusBadRequest, "invalid product id", nil)
		return
	}

	p, err := s.Products.Search(r.Context(), id)
	if err != nil {
		s.writeLedgerError(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, p)
}

func (s *Server) sortProducts(w http.ResponseWriter, r *http.Request) {
	var (
		sortFn func(context.Context) ([]Product, error)
		msg    string
	)
	switch key := chi.URLParam(r, "key"); key {
	case "id":
		sortFn, msg = s.Products.SortByID, "Sorted by ID"
	case "name":
		sortFn, msg = s.Products.SortByName, "Sorted by Name"
	case "price":
		sortFn, msg = s.Products.SortByPrice, "Sorted by Price"
	default:
		kit.WriteError(w, r, http.StatusNotFound, "unknown sort key", map[string]any{"key": key})
		return
	}

	products, err := sortFn(r.Context())
	if err != nil {
		s.writeLedgerError(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, sortResp{Success: true, Message: msg, Products: products})
}

func (s *Server) recordRental(w http.ResponseWriter, r *http.Request) {
	var req recordRentalReq
	if err := decodeRequest(w, r, &req); err != nil {
		writeBadRequest(w, r, err)
		return
	}

	rental, err := s.Rentals.Create(r.Context(), req.input())
	if err != nil {
		s.writeLedgerError(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusCreated, rentalResp{Success: true, Message: "Rental recorded", Rental: rental})
}

func (s *Server) listRentals(w http.ResponseWriter, r *http.Request) {
	rentals, err := s.Rentals.List(r.Context())
	if err != nil {
		s.writeLedgerError(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, rentals)
}

func (s *Server) returnRental(w http.ResponseWriter, r *http.Request) {
	var req returnRentalReq
	if err := decodeRequest(w, r, &req); err != nil {
		writeBadRequest(w, r, err)
		return
	}

	already, err := s.Rentals.MarkReturned(r.Context(), req.RentalID)
	if err != nil {
		s.writeLedgerError(w, r, err)
		return
	}
	if already {
		kit.WriteMessage(w, http.StatusOK, "Rental already returned")
		return
	}
	kit.WriteMessage(w, http.StatusOK, "Rental marked as returned")
}

func writeBadRequest(w http.ResponseWriter, r *http.Request, err error) {
	if fields := fieldErrors(err); fields != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "invalid request", fields)
		return
	}
	kit.WriteError(w, r, http.StatusBadRequest, "bad json", nil)
}

func (s *Server) writeLedgerError(w http.ResponseWriter, r *http.Request, err error) {
	var short *InsufficientStockError

	switch {
	case errors.As(err, &short):
		kit.WriteJSON(w, http.StatusBadRequest, insufficientResp{
			Error:     "Insufficient quantity",
			Available: short.Available,
			RequestID: chimw.GetReqID(r.Context()),
		})
	case errors.Is(err, ErrProductExists):
		kit.WriteError(w, r, http.StatusConflict, "Product ID already exists", nil)
	case errors.Is(err, ErrProductNotFound):
		kit.WriteError(w, r, http.StatusNotFound, "Product not found", nil)
	case errors.Is(err, ErrRentalNotFound):
		kit.WriteError(w, r, http.StatusNotFound, "Rental not found", nil)
	case errors.Is(err, ErrOutOfStock):
		kit.WriteError(w, r, http.StatusConflict, "Product not available for rent", nil)
	case errors.Is(err, ErrInvalidProduct), errors.Is(err, ErrInvalidQuantity), errors.Is(err, ErrInvalidRental):
		kit.WriteError(w, r, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, ErrPersistence):
		kit.WriteError(w, r, http.StatusInternalServerError, "storage unavailable", nil)
	default:
		s.logger().Error("unexpected ledger error", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
	}
}

func (s *Server) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}
