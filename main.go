package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/Drobertson1990/Well-Servicing-Calcs/internal/auth"
	"github.com/Drobertson1990/Well-Servicing-Calcs/internal/calc/batch"
	"github.com/Drobertson1990/Well-Servicing-Calcs/internal/calc/fluid"
	"github.com/Drobertson1990/Well-Servicing-Calcs/internal/calc/importer"
	"github.com/Drobertson1990/Well-Servicing-Calcs/internal/calc/pressure"
	"github.com/Drobertson1990/Well-Servicing-Calcs/internal/calc/recommend"
	"github.com/Drobertson1990/Well-Servicing-Calcs/internal/calc/resolver"
	"github.com/Drobertson1990/Well-Servicing-Calcs/internal/config"
	"github.com/Drobertson1990/Well-Servicing-Calcs/internal/job"
	"github.com/Drobertson1990/Well-Servicing-Calcs/internal/repo"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

var wg sync.WaitGroup

func CORS(mux *mux.Router) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		mux.ServeHTTP(w, r)
	})
}

func HandleList(mux *mux.Router, cfg config.Config, store repo.Store) {
	authEnv := &auth.Authenv{JWTkey: []byte(cfg.TokenKey), Repo: store}
	limiter := auth.NewIPRateLimiter(rate.Limit(cfg.Rate), cfg.Burst)

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}).Methods("GET")

	api := mux.PathPrefix("/api").Subrouter()

	public := api.NewRoute().Subrouter()
	public.Use(limiter.LimitMiddleware)
	public.HandleFunc("/login", authEnv.AuthHandler).Methods("POST")
	public.HandleFunc("/register", authEnv.RegisterHandler).Methods("POST")

	secureApi := api.PathPrefix("/user").Subrouter()
	secureApi.Use(authEnv.AuthMiddleware)

	jobH := &job.Handler{Repo: store, RateUnit: cfg.DefaultRateUnit}
	jobH.Register(secureApi)

	annularH := &resolver.Handler{RateUnit: cfg.DefaultRateUnit}
	sweepH := &batch.Handler{RateUnit: cfg.DefaultRateUnit}
	blendH := &fluid.Handler{}
	hydrostaticH := &pressure.Handler{}
	recommendH := &recommend.Handler{}
	importH := &importer.Handler{}

	secureApi.HandleFunc("/tools/annular/calc", annularH.Calc).Methods("POST")
	secureApi.HandleFunc("/tools/sweep/calc", sweepH.Sweep).Methods("POST")
	secureApi.HandleFunc("/tools/blend/calc", blendH.Calc).Methods("POST")
	secureApi.HandleFunc("/tools/hydrostatic/calc", hydrostaticH.Calc).Methods("POST")
	secureApi.HandleFunc("/tools/recommend/calc", recommendH.Calc).Methods("POST")
	secureApi.HandleFunc("/tools/import/parse", importH.Parse).Methods("POST")
	secureApi.HandleFunc("/tools/import/template", importH.Template).Methods("GET")
}

// openStore picks Postgres when DATABASE_URL is set and the in-process store
// otherwise. The returned func releases the store.
func openStore(ctx context.Context, cfg config.Config) (repo.Store, func(), error) {
	if cfg.DatabaseURL == "" {
		log.Warn("DATABASE_URL not set, jobs and users are kept in memory")
		return repo.NewMemoryStore(), func() {}, nil
	}
	db, err := repo.InitDB(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	pg := repo.NewPostgresUserDB(db)
	if err := pg.Migrate(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}
	return pg, func() { db.Close() }, nil
}

func main() {
	configPath := flag.String("config", "wellcalc.ini", "path to the ini config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	log.SetLevel(cfg.LogLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	startCtx, startCancel := context.WithTimeout(ctx, 10*time.Second)
	store, closeStore, err := openStore(startCtx, cfg)
	startCancel()
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	defer closeStore()

	mux := mux.NewRouter()
	HandleList(mux, cfg, store)
	handler := CORS(mux)

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.WithFields(log.Fields{"addr": cfg.Addr, "tls": cfg.TLS()}).Info("starting server")
		var err error
		if cfg.TLS() {
			err = server.ListenAndServeTLS(cfg.CertFile, cfg.KeyFile)
		} else {
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("server error: %v", err)
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received, closing active connections")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("shutdown: %v", err)
	}
	wg.Wait()
	log.Info("server stopped")
}
