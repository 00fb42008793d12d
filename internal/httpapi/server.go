package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	apimw "github.com/hamed0406/sitewatch/internal/httpapi/middleware"
	"github.com/hamed0406/sitewatch/internal/notify"
	"github.com/hamed0406/sitewatch/internal/repo"
	"github.com/hamed0406/sitewatch/internal/scheduler"
)

// CycleRunner is the part of scheduler.Checker the trigger endpoint needs.
type CycleRunner interface {
	RunCycle(ctx context.Context, batchSize int, delay time.Duration) (*scheduler.Report, error)
}

type Server struct {
	Logger   *zap.Logger
	Sites    repo.SiteStore
	Admins   repo.AdminStore
	Checker  CycleRunner
	Notifier notify.Notifier // serves POST /api/notify; nil disables it
}

func NewServer(l *zap.Logger, sites repo.SiteStore, admins repo.AdminStore, c CycleRunner, n notify.Notifier) *Server {
	if l == nil {
		l = zap.NewNop()
	}
	return &Server{Logger: l, Sites: sites, Admins: admins, Checker: c, Notifier: n}
}

// Router wires public (read) and admin (write, trigger) routes.
// Empty allowedOrigins means no CORS headers at all.
func (s *Server) Router(keys apimw.Keys, allowedOrigins []string, pubRPM, pubBurst, admRPM, admBurst int) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(s.accessLog)
	if len(allowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: allowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-API-Key"},
			MaxAge:         300,
		}))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(api chi.Router) {
		api.Group(func(pub chi.Router) {
			pub.Use(apimw.RateLimit(pubRPM, pubBurst))
			pub.Use(apimw.RequireAny(keys))
			pub.Get("/client-site", s.handleListSites)
			pub.Get("/client-site/{id}", s.handleGetSite)
		})

		api.Group(func(adm chi.Router) {
			adm.Use(apimw.RateLimit(admRPM, admBurst))
			adm.Use(apimw.RequireAdmin(keys))

			adm.Get("/check-sites", s.handleCheckSites)
			adm.Post("/check-sites", s.handleCheckSites)

			adm.Post("/client-site", s.handleCreateSite)
			adm.Patch("/client-site/{id}", s.handleUpdateSite)
			adm.Delete("/client-site/{id}", s.handleDeleteSite)

			adm.Get("/admin", s.handleListAdmins)
			adm.Post("/admin", s.handleCreateAdmin)
			adm.Get("/admin/{id}", s.handleGetAdmin)
			adm.Put("/admin/{id}", s.handleUpdateAdmin)
			adm.Delete("/admin/{id}", s.handleDeleteAdmin)

			adm.Post("/notify", s.handleNotify)
		})
	})

	return r
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.Logger.Debug("http_request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("took", time.Since(start)),
			zap.String("request_id", chimw.GetReqID(r.Context())),
		)
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// decodeJSON reads a bounded JSON body and rejects unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
