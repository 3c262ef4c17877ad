package job

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Drobertson1990/Well-Servicing-Calcs/internal/auth"
	"github.com/Drobertson1990/Well-Servicing-Calcs/internal/calc/geometry"
	"github.com/Drobertson1990/Well-Servicing-Calcs/internal/calc/importer"
	"github.com/Drobertson1990/Well-Servicing-Calcs/internal/calc/resolver"
	"github.com/Drobertson1990/Well-Servicing-Calcs/internal/repo"
	"github.com/cpmech/gosl/chk"
	"github.com/gorilla/mux"
)

type client struct {
	tst    *testing.T
	router *mux.Router
	user   int
}

func newClient(tst *testing.T, store repo.JobRepository) *client {
	r := mux.NewRouter()
	(&Handler{Repo: store}).Register(r)
	return &client{tst: tst, router: r, user: 1}
}

func (c *client) do(method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req = req.WithContext(auth.WithUser(req.Context(), c.user, "op1"))
	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)
	return w
}

func (c *client) json(method, path, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	return c.do(method, path, r, "application/json")
}

func decodeRecord(tst *testing.T, w *httptest.ResponseRecorder) Record {
	var rec Record
	if err := json.NewDecoder(w.Body).Decode(&rec); err != nil {
		tst.Fatalf("decode: %v", err)
	}
	return rec
}

func TestHandlerLifecycle(tst *testing.T) {

	chk.PrintTitle("job handler lifecycle")

	c := newClient(tst, repo.NewMemoryStore())

	w := c.json(http.MethodPost, "/jobs", `{"name":"  "}`)
	chk.Ints(tst, "blank name", []int{w.Code}, []int{http.StatusBadRequest})

	w = c.json(http.MethodPost, "/jobs", `{"name":"pad 7"}`)
	chk.Ints(tst, "create", []int{w.Code}, []int{http.StatusCreated})
	rec := decodeRecord(tst, w)
	base := "/jobs/" + rec.ID

	w = c.json(http.MethodPost, base+"/strings",
		`{"name":"reel 12","sections":[{"length_m":1000,"od_mm":50.8,"wall_mm":4},{"length_m":2000,"od_mm":44.45,"wall_mm":3.4}]}`)
	chk.Ints(tst, "add string", []int{w.Code}, []int{http.StatusOK})
	rec = decodeRecord(tst, w)
	chk.String(tst, rec.CT.Active, "reel 12")

	rec.Well.Casing = []geometry.IntervalSpec{{TopM: 0, BottomM: 3000, IDMM: 121.4}}
	tvd := 2800.0
	density := 1000.0
	rec.Well.TVD = &tvd
	rec.Fluids.Density = &density
	body, _ := json.Marshal(rec)
	w = c.json(http.MethodPut, base, string(body))
	chk.Ints(tst, "put", []int{w.Code}, []int{http.StatusOK})

	w = c.json(http.MethodPost, base+"/calc", `{"depth_m":2500,"pump_rate":0.5}`)
	chk.Ints(tst, "calc", []int{w.Code}, []int{http.StatusOK})
	var res resolver.Result
	if err := json.NewDecoder(w.Body).Decode(&res); err != nil {
		tst.Fatalf("%v", err)
	}
	chk.Float64(tst, "internal", 1e-9, res.Volumes.Internal,
		geometry.CircleArea(42.8)*1000+geometry.CircleArea(37.65)*1500)

	w = c.json(http.MethodPost, base+"/calc", `{"depth_m":3500,"pump_rate":0.5}`)
	chk.Ints(tst, "beyond string", []int{w.Code}, []int{http.StatusNotFound})

	w = c.json(http.MethodPost, base+"/sweep", `{"from_m":0,"to_m":2000,"step_m":1000,"pump_rate":0.5}`)
	chk.Ints(tst, "sweep", []int{w.Code}, []int{http.StatusOK})

	w = c.json(http.MethodGet, base+"/fluid", "")
	chk.Ints(tst, "fluid", []int{w.Code}, []int{http.StatusOK})
	var fl FluidResult
	if err := json.NewDecoder(w.Body).Decode(&fl); err != nil {
		tst.Fatalf("%v", err)
	}
	if fl.Hydrostatic == nil {
		tst.Fatalf("hydrostatic missing")
	}
	chk.Float64(tst, "hydrostatic", 1e-6, fl.Hydrostatic.Pa, 1000*9.80665*2800)

	w = c.json(http.MethodPost, base+"/trim", `{"amount_m":3000}`)
	chk.Ints(tst, "trim all", []int{w.Code}, []int{http.StatusBadRequest})
	w = c.json(http.MethodPost, base+"/trim", `{"amount_m":250}`)
	chk.Ints(tst, "trim", []int{w.Code}, []int{http.StatusOK})
	rec = decodeRecord(tst, w)
	chk.Float64(tst, "whip section", 1e-9, rec.CT.Strings["reel 12"][0].LengthM, 750)

	w = c.json(http.MethodGet, base+"/report?depth=2000&rate=500&unit=lpm&step=500", "")
	chk.Ints(tst, "report", []int{w.Code}, []int{http.StatusOK})
	chk.String(tst, w.Body.String()[:5], "%PDF-")

	w = c.json(http.MethodGet, base+"/report?depth=deep", "")
	chk.Ints(tst, "bad report query", []int{w.Code}, []int{http.StatusBadRequest})

	w = c.json(http.MethodGet, "/jobs", "")
	var list []repo.JobSummary
	json.NewDecoder(w.Body).Decode(&list)
	chk.Ints(tst, "listed", []int{len(list)}, []int{1})

	other := &client{tst: tst, router: c.router, user: 2}
	w = other.json(http.MethodGet, base, "")
	chk.Ints(tst, "other user", []int{w.Code}, []int{http.StatusNotFound})

	w = c.json(http.MethodDelete, base+"/strings/reel%2012", "")
	chk.Ints(tst, "remove string", []int{w.Code}, []int{http.StatusOK})
	rec = decodeRecord(tst, w)
	chk.String(tst, rec.CT.Active, "")

	w = c.json(http.MethodDelete, base, "")
	chk.Ints(tst, "delete", []int{w.Code}, []int{http.StatusNoContent})
	w = c.json(http.MethodGet, base, "")
	chk.Ints(tst, "gone", []int{w.Code}, []int{http.StatusNotFound})
	w = c.json(http.MethodGet, "/jobs/nope", "")
	chk.Ints(tst, "bad id", []int{w.Code}, []int{http.StatusBadRequest})
}

func TestHandlerImportExport(tst *testing.T) {

	chk.PrintTitle("workbook import and export")

	c := newClient(tst, repo.NewMemoryStore())
	rec := decodeRecord(tst, c.json(http.MethodPost, "/jobs", `{"name":"import"}`))
	base := "/jobs/" + rec.ID

	var xlsx bytes.Buffer
	importer.Write(&xlsx, importer.Workbook{
		Sections:     []geometry.SectionSpec{{LengthM: 1500, ODMM: 38.1, WallMM: 3.2}},
		Casing:       []geometry.IntervalSpec{{TopM: 0, BottomM: 1500, IDMM: 99.6}},
		Restrictions: []geometry.RestrictionSpec{{Name: "profile nipple", DepthM: 1200, IDMM: 45}},
	})
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	mw.WriteField("string", "reel 3")
	fw, _ := mw.CreateFormFile("file", "well.xlsx")
	fw.Write(xlsx.Bytes())
	mw.Close()

	w := c.do(http.MethodPost, base+"/import", &body, mw.FormDataContentType())
	chk.Ints(tst, "import", []int{w.Code}, []int{http.StatusOK})
	rec = decodeRecord(tst, w)
	chk.String(tst, rec.CT.Active, "reel 3")
	chk.Ints(tst, "geometry", []int{len(rec.Well.Casing), len(rec.Well.Restrictions)}, []int{1, 1})

	w = c.json(http.MethodGet, base+"/export", "")
	chk.Ints(tst, "export", []int{w.Code}, []int{http.StatusOK})
	wb, err := importer.Read(w.Body)
	if err != nil {
		tst.Fatalf("%v", err)
	}
	chk.Float64(tst, "exported length", 1e-12, wb.Sections[0].LengthM, 1500)
	chk.String(tst, wb.Restrictions[0].Name, "profile nipple")
}
