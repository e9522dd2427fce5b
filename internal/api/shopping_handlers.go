package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"kondate-planner/internal/shopping"
)

// BuildShoppingListRequest is the request body for building a shopping list.
type BuildShoppingListRequest struct {
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	Mode      string  `json:"mode"`
	Title     *string `json:"title,omitempty"`
}

// BuildShoppingListResponse is the response for a successful build.
type BuildShoppingListResponse struct {
	List       *shopping.List `json:"list"`
	ItemsSaved int            `json:"items_saved"`
}

func (s *Server) buildShoppingList(w http.ResponseWriter, r *http.Request) {
	var req BuildShoppingListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	mode, err := shopping.ParseBuildMode(req.Mode)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := s.builder.Build(r.Context(), shopping.BuildRequest{
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Mode:      mode,
		Title:     req.Title,
	})
	if err != nil {
		var vErr *shopping.ValidationError
		var ipErr *shopping.IncompletePersistenceError
		switch {
		case errors.As(err, &vErr):
			writeError(w, http.StatusBadRequest, vErr.Error())
		case errors.As(err, &ipErr):
			// The header exists but items are missing; tell the caller which
			// list is affected so it can be cleaned up or retried.
			writeJSON(w, http.StatusBadGateway, map[string]any{
				"error":   ipErr.Error(),
				"list_id": ipErr.ListID,
			})
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusCreated, BuildShoppingListResponse{List: res.List, ItemsSaved: res.ItemsSaved})
}

func (s *Server) listShoppingLists(w http.ResponseWriter, r *http.Request) {
	lists, err := s.lists.ListLists(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, lists)
}

func (s *Server) getShoppingList(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	list, err := s.lists.GetList(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if list == nil {
		writeError(w, http.StatusNotFound, "shopping list not found")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) deleteShoppingList(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.lists.DeleteList(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddShoppingItemRequest appends one item to an existing list.
type AddShoppingItemRequest struct {
	Name   string  `json:"name"`
	Amount *string `json:"amount,omitempty"`
}

func (s *Server) addShoppingItem(w http.ResponseWriter, r *http.Request) {
	listID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req AddShoppingItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	item, err := s.lists.AddItem(r.Context(), listID, strings.TrimSpace(req.Name), req.Amount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "shopping list not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// UpdateShoppingItemRequest patches a single item. Omitted fields are left
// unchanged. Amount is kept raw so "clear the amount" ({"amount": null}) and
// an absent field stay distinguishable: a plain pointer would decode both to
// nil, but a RawMessage is nil only when the key was never sent.
type UpdateShoppingItemRequest struct {
	Checked *bool           `json:"checked,omitempty"`
	Amount  json.RawMessage `json:"amount,omitempty"`
}

func (s *Server) updateShoppingItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := pathID(r, "itemID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req UpdateShoppingItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Checked == nil && req.Amount == nil {
		writeError(w, http.StatusBadRequest, "nothing to update")
		return
	}

	if req.Checked != nil {
		if err := s.lists.SetItemChecked(r.Context(), itemID, *req.Checked); err != nil {
			writeItemError(w, err)
			return
		}
	}
	if req.Amount != nil {
		var amount *string
		if err := json.Unmarshal(req.Amount, &amount); err != nil {
			writeError(w, http.StatusBadRequest, "amount must be a string or null")
			return
		}
		if err := s.lists.UpdateItemAmount(r.Context(), itemID, amount); err != nil {
			writeItemError(w, err)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) deleteShoppingItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := pathID(r, "itemID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.lists.DeleteItem(r.Context(), itemID); err != nil {
		writeItemError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeItemError(w http.ResponseWriter, err error) {
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "shopping item not found")
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return id, nil
}
