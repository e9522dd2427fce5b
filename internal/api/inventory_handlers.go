package api

import (
	"encoding/json"
	"net/http"

	"kondate-planner/internal/inventory"
)

// SaveInventoryItemRequest creates or updates an inventory item.
type SaveInventoryItemRequest struct {
	ID       int64  `json:"id,omitempty"`
	Name     string `json:"name"`
	Quantity int64  `json:"quantity"`
	Unit     string `json:"unit"`
}

func (s *Server) saveInventoryItem(w http.ResponseWriter, r *http.Request) {
	var req SaveInventoryItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.Quantity < 0 {
		writeError(w, http.StatusBadRequest, "quantity must not be negative")
		return
	}

	item := inventory.Item{ID: req.ID, Name: req.Name, Quantity: req.Quantity, Unit: req.Unit}
	id, err := s.inventory.Save(r.Context(), &item)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	item.ID = id
	writeJSON(w, http.StatusCreated, item)
}

func (s *Server) listInventory(w http.ResponseWriter, r *http.Request) {
	items, err := s.inventory.GetAllItems(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// AdjustInventoryRequest changes an item's quantity by a signed delta.
type AdjustInventoryRequest struct {
	Delta int64 `json:"delta"`
}

func (s *Server) adjustInventoryItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req AdjustInventoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := s.inventory.AdjustQuantity(r.Context(), id, req.Delta); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	item, err := s.inventory.Get(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if item == nil {
		writeError(w, http.StatusNotFound, "inventory item not found")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) deleteInventoryItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.inventory.Delete(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
