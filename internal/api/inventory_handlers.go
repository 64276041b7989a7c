package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hackgods/clinicops/internal/inventory"
)

func (req MedicineRequest) toInput() (inventory.MedicineInput, error) {
	expiry, err := parseDate("expiry_date", req.ExpiryDate)
	if err != nil {
		return inventory.MedicineInput{}, err
	}
	return inventory.MedicineInput{
		Name:         req.Name,
		BatchNo:      req.BatchNo,
		Manufacturer: req.Manufacturer,
		ExpiryDate:   expiry,
		UnitPrice:    req.UnitPrice,
		SellingPrice: req.SellingPrice,
		Stock:        req.StockQuantity,
	}, nil
}

func createMedicineHandler(svc InventoryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req MedicineRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		in, err := req.toInput()
		if err != nil {
			writeError(w, r, err)
			return
		}
		m, err := svc.Create(r.Context(), in)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, toMedicineResponse(*m))
	}
}

// updateMedicineHandler changes the catalogue fields. Stock only moves
// through restock and pharmacy bills.
func updateMedicineHandler(svc InventoryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "id")
		if err != nil {
			writeError(w, r, err)
			return
		}
		var req MedicineRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		in, err := req.toInput()
		if err != nil {
			writeError(w, r, err)
			return
		}
		active := true
		if req.IsActive != nil {
			active = *req.IsActive
		}
		m, err := svc.Update(r.Context(), id, in, active)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toMedicineResponse(*m))
	}
}

func getMedicineHandler(svc InventoryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "id")
		if err != nil {
			writeError(w, r, err)
			return
		}
		m, err := svc.Get(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toMedicineResponse(*m))
	}
}

// listMedicinesHandler serves the active catalogue, filtered by ?query=.
func listMedicinesHandler(svc InventoryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.Search(r.Context(), r.URL.Query().Get("query"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toMedicineList(list))
	}
}

func checkStockHandler(svc InventoryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "id")
		if err != nil {
			writeError(w, r, err)
			return
		}
		qty, err := strconv.Atoi(chi.URLParam(r, "quantity"))
		if err != nil {
			writeError(w, r, inventory.ErrInvalidQuantity)
			return
		}
		ok, err := svc.CheckStock(r.Context(), id, qty)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, StockCheckResponse{MedicineID: id, Quantity: qty, Available: ok})
	}
}

func restockHandler(svc InventoryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "id")
		if err != nil {
			writeError(w, r, err)
			return
		}
		var req RestockRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		m, err := svc.Restock(r.Context(), id, req.Quantity, req.Remarks)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toMedicineResponse(*m))
	}
}

func stockTransactionsHandler(svc InventoryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "id")
		if err != nil {
			writeError(w, r, err)
			return
		}
		txns, err := svc.Transactions(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		out := make([]StockTransactionResponse, 0, len(txns))
		for _, t := range txns {
			out = append(out, StockTransactionResponse{
				ID:              t.ID,
				MedicineID:      t.MedicineID,
				QuantityChange:  t.QuantityChange,
				TransactionType: string(t.Type),
				Remarks:         t.Remarks,
				CreatedAt:       t.CreatedAt,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}
