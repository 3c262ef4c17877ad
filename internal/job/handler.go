package job

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/Drobertson1990/Well-Servicing-Calcs/internal/auth"
	"github.com/Drobertson1990/Well-Servicing-Calcs/internal/calc/batch"
	"github.com/Drobertson1990/Well-Servicing-Calcs/internal/calc/calcerr"
	"github.com/Drobertson1990/Well-Servicing-Calcs/internal/calc/fluid"
	"github.com/Drobertson1990/Well-Servicing-Calcs/internal/calc/geometry"
	"github.com/Drobertson1990/Well-Servicing-Calcs/internal/calc/importer"
	"github.com/Drobertson1990/Well-Servicing-Calcs/internal/calc/pressure"
	"github.com/Drobertson1990/Well-Servicing-Calcs/internal/calc/report"
	"github.com/Drobertson1990/Well-Servicing-Calcs/internal/calc/resolver"
	"github.com/Drobertson1990/Well-Servicing-Calcs/internal/repo"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	Repo repo.JobRepository
	// RateUnit fills in requests that leave rate_unit empty.
	RateUnit string
}

type CreateRequest struct {
	Name string `json:"name"`
}

type StringRequest struct {
	Name     string                 `json:"name"`
	Sections []geometry.SectionSpec `json:"sections"`
}

type TrimRequest struct {
	String  string  `json:"string"`
	AmountM float64 `json:"amount_m"`
}

type FluidResult struct {
	Blend       fluid.Result     `json:"blend"`
	Hydrostatic *pressure.Result `json:"hydrostatic,omitempty"`
}

// Register mounts the job routes on an authenticated subrouter.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/jobs", h.List).Methods(http.MethodGet)
	r.HandleFunc("/jobs", h.Create).Methods(http.MethodPost)
	r.HandleFunc("/jobs/{id}", h.Get).Methods(http.MethodGet)
	r.HandleFunc("/jobs/{id}", h.Put).Methods(http.MethodPut)
	r.HandleFunc("/jobs/{id}", h.Delete).Methods(http.MethodDelete)
	r.HandleFunc("/jobs/{id}/strings", h.PutString).Methods(http.MethodPost)
	r.HandleFunc("/jobs/{id}/strings/{name}", h.RemoveString).Methods(http.MethodDelete)
	r.HandleFunc("/jobs/{id}/strings/{name}/active", h.SetActive).Methods(http.MethodPost)
	r.HandleFunc("/jobs/{id}/trim", h.Trim).Methods(http.MethodPost)
	r.HandleFunc("/jobs/{id}/calc", h.Calc).Methods(http.MethodPost)
	r.HandleFunc("/jobs/{id}/sweep", h.Sweep).Methods(http.MethodPost)
	r.HandleFunc("/jobs/{id}/fluid", h.Fluid).Methods(http.MethodGet)
	r.HandleFunc("/jobs/{id}/report", h.Report).Methods(http.MethodGet)
	r.HandleFunc("/jobs/{id}/import", h.Import).Methods(http.MethodPost)
	r.HandleFunc("/jobs/{id}/export", h.Export).Methods(http.MethodGet)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, err error) {
	status := calcerr.Status(err)
	if status == http.StatusInternalServerError {
		log.Errorf("job: %v", err)
		http.Error(w, "Internal error", status)
		return
	}
	http.Error(w, err.Error(), status)
}

func userFrom(w http.ResponseWriter, r *http.Request) (int, bool) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	}
	return userID, ok
}

// load fetches and decodes the job named in the path.
func (h *Handler) load(w http.ResponseWriter, r *http.Request) (*Job, int, bool) {
	userID, ok := userFrom(w, r)
	if !ok {
		return nil, 0, false
	}
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid job id", http.StatusBadRequest)
		return nil, 0, false
	}
	data, err := h.Repo.GetJob(r.Context(), userID, id)
	if err != nil {
		writeErr(w, err)
		return nil, 0, false
	}
	j, err := Decode(data)
	if err != nil {
		log.WithField("job", id).Errorf("stored job does not decode: %v", err)
		http.Error(w, "Stored job is corrupt", http.StatusInternalServerError)
		return nil, 0, false
	}
	return j, userID, true
}

func (h *Handler) save(r *http.Request, userID int, j *Job) error {
	j.Touch()
	data, err := json.Marshal(j)
	if err != nil {
		return err
	}
	return h.Repo.SaveJob(r.Context(), userID, j.ID, j.Meta.Name, data)
}

// mutate loads a job, applies fn and stores the result. Nothing is saved when
// fn fails.
func (h *Handler) mutate(w http.ResponseWriter, r *http.Request, fn func(j *Job) error) {
	j, userID, ok := h.load(w, r)
	if !ok {
		return
	}
	if err := fn(j); err != nil {
		writeErr(w, err)
		return
	}
	if err := h.save(r, userID, j); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, j)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := userFrom(w, r)
	if !ok {
		return
	}
	jobs, err := h.Repo.ListJobs(r.Context(), userID)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jobs)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := userFrom(w, r)
	if !ok {
		return
	}
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		http.Error(w, "Job name required", http.StatusBadRequest)
		return
	}
	j := New(name)
	if err := h.save(r, userID, j); err != nil {
		writeErr(w, err)
		return
	}
	log.WithFields(log.Fields{"user": userID, "job": j.ID}).Info("job created")
	writeJSON(w, http.StatusCreated, j)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	j, _, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, j)
}

// Put replaces the whole job with the record in the body. The id in the path
// wins over any id in the body.
func (h *Handler) Put(w http.ResponseWriter, r *http.Request) {
	userID, ok := userFrom(w, r)
	if !ok {
		return
	}
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid job id", http.StatusBadRequest)
		return
	}
	var rec Record
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	rec.ID = id.String()
	if strings.TrimSpace(rec.Meta.Name) == "" {
		http.Error(w, "Job name required", http.StatusBadRequest)
		return
	}
	j, err := FromRecord(rec)
	if err != nil {
		writeErr(w, err)
		return
	}
	if err := h.save(r, userID, j); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, j)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := userFrom(w, r)
	if !ok {
		return
	}
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid job id", http.StatusBadRequest)
		return
	}
	if err := h.Repo.DeleteJob(r.Context(), userID, id); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) PutString(w http.ResponseWriter, r *http.Request) {
	var req StringRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	h.mutate(w, r, func(j *Job) error {
		return j.PutString(req.Name, req.Sections)
	})
}

func (h *Handler) RemoveString(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	h.mutate(w, r, func(j *Job) error {
		return j.RemoveString(name)
	})
}

func (h *Handler) SetActive(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	h.mutate(w, r, func(j *Job) error {
		return j.SetActive(name)
	})
}

// Trim cuts the named string, or the active one when no name is given.
func (h *Handler) Trim(w http.ResponseWriter, r *http.Request) {
	var req TrimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	h.mutate(w, r, func(j *Job) error {
		ct, err := j.ActiveString()
		if req.String != "" {
			ct, err = j.Lookup(req.String)
		}
		if err != nil {
			return err
		}
		return ct.TrimFromWhipEnd(req.AmountM)
	})
}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	j, _, ok := h.load(w, r)
	if !ok {
		return
	}
	var p resolver.Params
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if p.RateUnit == "" {
		p.RateUnit = h.RateUnit
	}
	res, err := j.Calculate(p)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) Sweep(w http.ResponseWriter, r *http.Request) {
	j, _, ok := h.load(w, r)
	if !ok {
		return
	}
	var rg batch.Range
	if err := json.NewDecoder(r.Body).Decode(&rg); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if rg.RateUnit == "" {
		rg.RateUnit = h.RateUnit
	}
	res, err := j.Sweep(rg)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) Fluid(w http.ResponseWriter, r *http.Request) {
	j, _, ok := h.load(w, r)
	if !ok {
		return
	}
	if j.Fluids.Density == nil {
		writeErr(w, calcerr.NotFound("base fluid density not set"))
		return
	}
	blend, err := fluid.Calculate(fluid.Input{BaseDensity: *j.Fluids.Density, Additives: j.Fluids.Chemicals})
	if err != nil {
		writeErr(w, err)
		return
	}
	out := FluidResult{Blend: blend}
	if j.Well.TVD != nil {
		p, err := pressure.Hydrostatic(blend.DensityKgM3, *j.Well.TVD)
		if err != nil {
			writeErr(w, err)
			return
		}
		out.Hydrostatic = &p
	}
	writeJSON(w, http.StatusOK, out)
}

func queryFloat(r *http.Request, key string) (float64, bool, error) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, calcerr.Validation("%s: %q is not a number", key, s)
	}
	return v, true, nil
}

// Report renders the job as a PDF. Results are included when depth and rate
// are given in the query; a step adds a depth sweep from surface.
func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	j, _, ok := h.load(w, r)
	if !ok {
		return
	}
	rep, err := j.reportFor(r, h.RateUnit)
	if err != nil {
		writeErr(w, err)
		return
	}
	rep.Author = auth.Login(r.Context())

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="job-report.pdf"`)
	if err := report.Write(w, rep); err != nil {
		log.WithField("job", j.ID).Errorf("write report: %v", err)
	}
}

func (j *Job) reportFor(r *http.Request, defaultUnit string) (report.JobReport, error) {
	rep := report.JobReport{
		Job:    j.Meta.Name,
		Casing: j.Well.Profile.Specs(),
		Notes:  j.Well.Schematic,
	}
	ct, err := j.ActiveString()
	if err == nil {
		rep.String = ct.Name()
		rep.Sections = ct.Specs()
	}

	depth, hasDepth, err := queryFloat(r, "depth")
	if err != nil {
		return rep, err
	}
	rate, hasRate, err := queryFloat(r, "rate")
	if err != nil {
		return rep, err
	}
	unit := r.URL.Query().Get("unit")
	if unit == "" {
		unit = defaultUnit
	}
	if hasDepth && hasRate {
		res, err := j.Calculate(resolver.Params{DepthM: depth, PumpRate: rate, RateUnit: unit})
		if err != nil {
			return rep, err
		}
		rep.Result = &res

		step, hasStep, err := queryFloat(r, "step")
		if err != nil {
			return rep, err
		}
		if hasStep {
			sw, err := j.Sweep(batch.Range{FromM: 0, ToM: depth, StepM: step, PumpRate: rate, RateUnit: unit})
			if err != nil {
				return rep, err
			}
			rep.Sweep = &sw
		}
	}

	if d, err := j.BlendedDensity(); err == nil {
		rep.Density = &d
		if p, err := j.Hydrostatic(); err == nil {
			rep.Pressure = &p
		}
	} else if !errors.Is(err, calcerr.ErrNotFound) {
		return rep, err
	}
	return rep, nil
}

// Import loads geometry from an uploaded workbook. The sections go into the
// string named by the "string" form field (default "imported"); the casing
// and restrictions replace the well's.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	j, userID, ok := h.load(w, r)
	if !ok {
		return
	}
	wb, ok := importer.FromRequest(w, r)
	if !ok {
		return
	}
	name := r.FormValue("string")
	if strings.TrimSpace(name) == "" {
		name = "imported"
	}
	if err := j.PutString(name, wb.Sections); err != nil {
		writeErr(w, err)
		return
	}
	if err := j.SetGeometry(wb.Casing, wb.Restrictions); err != nil {
		writeErr(w, err)
		return
	}
	if err := h.save(r, userID, j); err != nil {
		writeErr(w, err)
		return
	}
	log.WithFields(log.Fields{"job": j.ID, "string": name, "sections": len(wb.Sections)}).Info("workbook imported")
	writeJSON(w, http.StatusOK, j)
}

// Export writes the active string and well geometry as a workbook Import
// accepts.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	j, _, ok := h.load(w, r)
	if !ok {
		return
	}
	wb := importer.Workbook{Casing: j.Well.Profile.Specs()}
	for _, rs := range j.Well.Restrictions {
		wb.Restrictions = append(wb.Restrictions, rs.Spec())
	}
	if ct, err := j.ActiveString(); err == nil {
		wb.Sections = ct.Specs()
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="job-geometry.xlsx"`)
	if err := importer.Write(w, wb); err != nil {
		log.WithField("job", j.ID).Errorf("write workbook: %v", err)
	}
}
