package importer

import (
	"encoding/json"
	"net/http"

	"github.com/Drobertson1990/Well-Servicing-Calcs/internal/calc/calcerr"
)

const maxUpload = 10 << 20

type Handler struct{}

// Parse accepts a multipart upload in field "file" and returns the geometry
// it holds.
func (h *Handler) Parse(w http.ResponseWriter, r *http.Request) {
	wb, ok := FromRequest(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(wb)
}

// FromRequest reads the uploaded workbook, writing the error response itself
// when it fails.
func FromRequest(w http.ResponseWriter, r *http.Request) (Workbook, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUpload)
	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "File required", http.StatusBadRequest)
		return Workbook{}, false
	}
	defer file.Close()

	wb, err := Read(file)
	if err != nil {
		http.Error(w, err.Error(), calcerr.Status(err))
		return Workbook{}, false
	}
	return wb, true
}

func (h *Handler) Template(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="well-geometry.xlsx"`)
	if err := Write(w, Workbook{}); err != nil {
		http.Error(w, "Error writing template", http.StatusInternalServerError)
	}
}
