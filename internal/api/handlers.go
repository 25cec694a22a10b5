package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"salesim/internal/batch"
	"salesim/internal/config"
	"salesim/internal/customers"
	"salesim/internal/simulation"
	"salesim/internal/sink"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// maxBodyBytes bounds request bodies; a request carries a customer and a
// handful of schedules.
const maxBodyBytes = 1 << 20

// Handler serves single-customer simulations against a fixed catalog.
type Handler struct {
	Sales config.SalesConfig
	Pools simulation.Pools
	Seed  int64

	// Store, when set, exposes ledgers persisted by earlier batch runs.
	Store *sink.SQLStore
}

// NewHandler creates a handler for the given sales settings and pools.
func NewHandler(sales config.SalesConfig, pools simulation.Pools, seed int64) *Handler {
	return &Handler{Sales: sales, Pools: pools, Seed: seed}
}

// Health reports liveness.
// GET /api/health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Config returns the effective sales settings.
// GET /api/config
func (h *Handler) Config(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ConfigResponse{
		EndDate:   h.Sales.EndDate.Format(simulation.DateLayout),
		StoreIDs:  h.Sales.StoreIDs,
		Seed:      h.Seed,
		Schedules: h.Sales.Schedules,
		Pools: PoolSizes{
			Devices:     len(h.Pools.Devices),
			Refills:     len(h.Pools.Refills),
			Accessories: len(h.Pools.Accessories),
			SpareParts:  len(h.Pools.SpareParts),
		},
	})
}

// Simulate generates one customer's ledger. Without an explicit seed the
// result equals that customer's ledger in a batch run with the server seed.
// POST /api/simulations
func (h *Handler) Simulate(w http.ResponseWriter, r *http.Request) {
	var req SimulationRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.CustomerID <= 0 {
		writeError(w, http.StatusBadRequest, "customer_id must be positive", nil)
		return
	}
	start, err := simulation.ParseDate(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid start_date", err)
		return
	}

	sales, err := req.Overrides.Apply(h.Sales)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	seed := h.Seed
	if req.Seed != nil {
		seed = *req.Seed
	}

	items, stats, err := batch.Simulate(sales, h.Pools, seed, customers.Customer{ID: req.CustomerID, CreatedAt: start})
	if err != nil {
		if errors.Is(err, simulation.ErrInvalidConfiguration) {
			writeError(w, http.StatusBadRequest, err.Error(), nil)
			return
		}
		log.Error().Err(err).Int64("customer", req.CustomerID).Msg("Simulation failed")
		writeError(w, http.StatusInternalServerError, "simulation failed", err)
		return
	}
	if items == nil {
		items = []simulation.LineItem{}
	}

	log.Debug().
		Int64("customer", req.CustomerID).
		Int64("seed", seed).
		Int("invoices", stats.Invoices).
		Int("lines", stats.Lines).
		Msg("Simulated customer")

	writeJSON(w, http.StatusOK, SimulationResponse{
		CustomerID: req.CustomerID,
		StartDate:  start.Format(simulation.DateLayout),
		EndDate:    sales.EndDate.Format(simulation.DateLayout),
		Seed:       seed,
		Stats:      stats,
		Lines:      items,
	})
}

// CustomerLines returns a stored ledger.
// GET /api/customers/{id}/lines
func (h *Handler) CustomerLines(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		writeError(w, http.StatusNotFound, "no ledger database configured", nil)
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid customer id", err)
		return
	}
	items, err := h.Store.CustomerLines(r.Context(), id)
	if err != nil {
		log.Error().Err(err).Int64("customer", id).Msg("Failed to read ledger")
		writeError(w, http.StatusInternalServerError, "failed to read ledger", err)
		return
	}
	if items == nil {
		items = []simulation.LineItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Warn().Err(err).Msg("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
