package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sportstock/backend/internal/inventory"
	"github.com/sportstock/backend/internal/middleware"
	"github.com/sportstock/backend/internal/models"
	"github.com/sportstock/backend/internal/report"
	"github.com/sportstock/backend/internal/services"
)

type InventoryHandler struct {
	sync   *services.SyncService
	advice *services.AdviceService
}

func NewInventoryHandler(sync *services.SyncService, advice *services.AdviceService) *InventoryHandler {
	return &InventoryHandler{
		sync:   sync,
		advice: advice,
	}
}

// inventoryPayload is the standard payload for list-bearing responses. Synced
// is false when the optimistic local update could not be persisted; the
// dashboard keeps its syncing indicator lit in that case.
type inventoryPayload struct {
	Items  []models.InventoryItem `json:"items"`
	Stats  inventory.Stats        `json:"stats"`
	Synced bool                   `json:"synced"`
}

func newInventoryPayload(items []models.InventoryItem, synced bool) inventoryPayload {
	return inventoryPayload{
		Items:  items,
		Stats:  inventory.Compute(items),
		Synced: synced,
	}
}

func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	items, err := h.sync.List(r.Context(), userID)
	if err != nil {
		log.Printf("[ListInventory] %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to load inventory"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(newInventoryPayload(items, true)))
}

func (h *InventoryHandler) Groups(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	items, err := h.sync.List(r.Context(), userID)
	if err != nil {
		log.Printf("[ListGroups] %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to load inventory"))
		return
	}

	groups := inventory.Groups(items, r.URL.Query().Get("search"))
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(groups))
}

func (h *InventoryHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	items, err := h.sync.List(r.Context(), userID)
	if err != nil {
		log.Printf("[Suggestions] %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to load inventory"))
		return
	}

	suggestions := inventory.Suggestions(items, r.URL.Query().Get("name"))
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(suggestions))
}

func (h *InventoryHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	userEmail := middleware.GetUserEmail(r.Context())

	var req models.AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errors))
		return
	}

	items, synced, err := h.sync.AddItem(r.Context(), userID, userEmail, &req)
	if err != nil {
		log.Printf("[AddItem] %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to add item"))
		return
	}

	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(newInventoryPayload(items, synced)))
}

// AdjustItem changes one record's quantity. An invalid amount is accepted and
// ignored: the response carries the unchanged list, mirroring the form's
// silent no-op.
func (h *InventoryHandler) AdjustItem(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	userEmail := middleware.GetUserEmail(r.Context())
	itemID := chi.URLParam(r, "itemID")

	var req models.AdjustItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errors))
		return
	}

	increase := req.Direction == models.DirectionIncrease
	items, synced, err := h.sync.AdjustItem(r.Context(), userID, userEmail, itemID, increase, req.Amount)
	if err != nil {
		log.Printf("[AdjustItem] %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to adjust item"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(newInventoryPayload(items, synced)))
}

func (h *InventoryHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	userEmail := middleware.GetUserEmail(r.Context())
	itemID := chi.URLParam(r, "itemID")

	items, found, synced, err := h.sync.RemoveItem(r.Context(), userID, userEmail, itemID)
	if err != nil {
		log.Printf("[DeleteItem] %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to delete item"))
		return
	}
	if !found {
		writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Item not found"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(newInventoryPayload(items, synced)))
}

// Stream pushes the item list over Server-Sent Events: the current list
// immediately on connect, then again on every change, local or remote.
func (h *InventoryHandler) Stream(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "SSE not supported", http.StatusInternalServerError)
		return
	}

	updates, cancel, err := h.sync.Subscribe(r.Context(), userID)
	if err != nil {
		log.Printf("[Stream] subscribe failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to subscribe"))
		return
	}
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case items := <-updates:
			data, err := json.Marshal(newInventoryPayload(items, true))
			if err != nil {
				log.Printf("[Stream] marshal failed: %v", err)
				continue
			}
			fmt.Fprintf(w, "event: inventory\ndata: %s\n\n", data)
			flusher.Flush()
		}
	}
}

// Advice returns the model's prose summary, or the fixed fallback text when
// the call fails. Always HTTP 200; the panel never sees an error state.
func (h *InventoryHandler) Advice(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	items, err := h.sync.List(r.Context(), userID)
	if err != nil {
		log.Printf("[Advice] %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to load inventory"))
		return
	}

	prose := h.advice.InventoryAdvice(r.Context(), items)
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(map[string]string{"advice": prose}))
}

func (h *InventoryHandler) Report(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	items, err := h.sync.List(r.Context(), userID)
	if err != nil {
		log.Printf("[Report] %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to load inventory"))
		return
	}

	now := time.Now()
	data, err := report.Build(userID, items, now)
	if err != nil {
		log.Printf("[Report] render failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to render report"))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Filename(userID, now)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
