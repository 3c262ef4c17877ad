package batch

import (
	"encoding/json"
	"net/http"

	"github.com/Drobertson1990/Well-Servicing-Calcs/internal/calc/calcerr"
)

// Handler serves the stateless tool. RateUnit is applied to requests that
// leave rate_unit empty.
type Handler struct {
	RateUnit string
}

func (h *Handler) Sweep(w http.ResponseWriter, r *http.Request) {
	var input SweepInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if input.RateUnit == "" {
		input.RateUnit = h.RateUnit
	}
	res, err := SweepPlain(input)
	if err != nil {
		http.Error(w, err.Error(), calcerr.Status(err))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}
