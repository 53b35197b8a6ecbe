// Package leaguetest provides an in-process stand-in for the league web app's
// unauthenticated surface, for use in tests.
package leaguetest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/gorilla/mux"
)

type Options struct {
	// HealthStatus 是 "/" 的状态码，0 表示 200
	HealthStatus int
	// OpenOrganizations 让组织接口在未认证时也返回 200
	OpenOrganizations bool
	// PlainErrors 让 401 返回纯文本而不是 {"error": "..."}
	PlainErrors bool
}

type Server struct {
	*httptest.Server

	opts  Options
	mu    sync.Mutex
	paths []string
}

func NewServer(opts Options) *Server {
	s := &Server{opts: opts}

	r := mux.NewRouter()
	r.HandleFunc("/", s.home).Methods(http.MethodGet)
	r.HandleFunc("/login", s.page("<h1>Sign in</h1>")).Methods(http.MethodGet)
	r.HandleFunc("/api/league/organizations", s.organizations).Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc("/auth/callback", s.authCallback).Methods(http.MethodGet)
	r.NotFoundHandler = http.HandlerFunc(notFound)

	// mux 对未匹配路由不执行 r.Use 中间件，所以在最外层记录
	s.Server = httptest.NewServer(s.record(r))
	return s
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		s.mu.Lock()
		s.paths = append(s.paths, req.Method+" "+req.URL.Path)
		s.mu.Unlock()
		next.ServeHTTP(w, req)
	})
}

// Requests 返回按到达顺序记录的 "METHOD /path"
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.paths...)
}

func (s *Server) home(w http.ResponseWriter, r *http.Request) {
	status := s.opts.HealthStatus
	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte("<html><body>PLYAZ</body></html>"))
}

func (s *Server) page(html string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(html))
	}
}

func (s *Server) organizations(w http.ResponseWriter, r *http.Request) {
	if s.opts.OpenOrganizations {
		writeJSON(w, http.StatusOK, []map[string]string{{"id": "1", "name": "Open FC"}})
		return
	}
	if s.opts.PlainErrors {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
}

func (s *Server) authCallback(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("code") == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing code"})
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

func notFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte("<h1>404</h1>"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
