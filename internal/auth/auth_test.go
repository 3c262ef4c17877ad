package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Drobertson1990/Well-Servicing-Calcs/internal/repo"
	"github.com/cpmech/gosl/chk"
)

func TestRegisterLogin(tst *testing.T) {

	chk.PrintTitle("register, login and protected route")

	env := &Authenv{JWTkey: []byte("test-key"), Repo: repo.NewMemoryStore()}

	w := httptest.NewRecorder()
	env.RegisterHandler(w, httptest.NewRequest(http.MethodPost, "/api/register",
		strings.NewReader(`{"login":"op1","email":"op1@rig.example","password":"secret1"}`)))
	chk.Ints(tst, "register", []int{w.Code}, []int{http.StatusCreated})

	w = httptest.NewRecorder()
	env.AuthHandler(w, httptest.NewRequest(http.MethodPost, "/api/login",
		strings.NewReader(`{"login":"op1","password":"wrong"}`)))
	chk.Ints(tst, "bad password", []int{w.Code}, []int{http.StatusUnauthorized})

	w = httptest.NewRecorder()
	env.AuthHandler(w, httptest.NewRequest(http.MethodPost, "/api/login",
		strings.NewReader(`{"login":"op1","password":"secret1"}`)))
	chk.Ints(tst, "login", []int{w.Code}, []int{http.StatusOK})
	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		tst.Fatalf("%v", err)
	}

	var seen int
	protected := env.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = UserID(r.Context())
		if Login(r.Context()) != "op1" {
			tst.Errorf("login not in context")
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/user/jobs", nil)
	req.Header.Set("Authorization", "Bearer "+body["token"])
	w = httptest.NewRecorder()
	protected.ServeHTTP(w, req)
	chk.Ints(tst, "bearer", []int{w.Code, seen}, []int{http.StatusOK, 1})

	w = httptest.NewRecorder()
	protected.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/user/jobs", nil))
	chk.Ints(tst, "anonymous", []int{w.Code}, []int{http.StatusUnauthorized})

	other := &Authenv{JWTkey: []byte("other-key")}
	forged, _ := other.NewToken(1, "op1")
	req = httptest.NewRequest(http.MethodGet, "/api/user/jobs", nil)
	req.Header.Set("Authorization", "Bearer "+forged)
	w = httptest.NewRecorder()
	protected.ServeHTTP(w, req)
	chk.Ints(tst, "forged", []int{w.Code}, []int{http.StatusUnauthorized})
}

func TestLimiter(tst *testing.T) {

	chk.PrintTitle("per-ip limiter")

	l := NewIPRateLimiter(0.001, 2)
	h := l.LimitMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	var codes []int
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/login", nil)
		req.RemoteAddr = "10.0.0.1:5000"
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	chk.Ints(tst, "burst then limit", codes, []int{200, 200, 429})

	req := httptest.NewRequest(http.MethodPost, "/api/login", nil)
	req.RemoteAddr = "10.0.0.2:5000"
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	chk.Ints(tst, "other ip", []int{w.Code}, []int{200})
}
