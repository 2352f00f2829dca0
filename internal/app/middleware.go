package app

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"github.com/worksledger/worksledger/internal/config"
	"github.com/worksledger/worksledger/internal/rest"
	"github.com/worksledger/worksledger/pkg/dataset"
)

const roleHeader = "X-User-Role"

const (
	RoleViewer = "viewer"
	RoleEditor = "editor"
	RoleAdmin  = "admin"
)

// SetupMiddleware wires all HTTP middlewares for the application.
func SetupMiddleware(r *mux.Router, cfg config.Application) {
	r.Use(RoleGate(cfg.Access.DefaultRole))
}

// RoleGate lets viewers read only. The stateless calculate endpoints store
// nothing and stay open to viewers. Requests without the role header get
// defaultRole.
func RoleGate(defaultRole string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			role := strings.ToLower(strings.TrimSpace(req.Header.Get(roleHeader)))
			if role == "" {
				role = defaultRole
			}
			switch role {
			case RoleEditor, RoleAdmin:
			case RoleViewer:
				if !readOnly(req) {
					log.Debugf("viewer denied %s %s", req.Method, req.URL.Path)
					rest.WriteError(w, http.StatusForbidden, "Read-only access", "viewers may not modify data")
					return
				}
			default:
				rest.WriteError(w, http.StatusForbidden, "Unknown role", role)
				return
			}
			next.ServeHTTP(w, req)
		})
	}
}

var calculatePrefixes = []string{"/api/calculate/", "/api/demo/calculate/"}

func readOnly(req *http.Request) bool {
	switch req.Method {
	case http.MethodGet, http.MethodHead:
		return true
	case http.MethodPost:
		for _, prefix := range calculatePrefixes {
			if strings.HasPrefix(req.URL.Path, prefix) {
				return true
			}
		}
	}
	return false
}

// DemoDataSet marks every request on the router as a demo data set request.
func DemoDataSet(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		next.ServeHTTP(w, req.WithContext(dataset.WithDemo(req.Context(), true)))
	})
}
