package fakeapi

import (
	"net/http"
	"slices"

	"github.com/weddingwise/weddingwise-client/internal/http/response"
)

// fault is a canned failure for the next matching request.
type fault struct {
	method string
	path   string
	status int
	msg    string
}

// FailNext makes the next request matching method and path (including the
// /api prefix) fail with status and {"msg": msg}. Faults queue up and each
// fires once.
func (s *Server) FailNext(method, path string, status int, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults = append(s.faults, fault{method: method, path: path, status: status, msg: msg})
}

// ExpireNext makes the next matching request answer with the
// credential-expired signal, whatever token it carries.
func (s *Server) ExpireNext(method, path string) {
	s.FailNext(method, path, http.StatusUnauthorized, response.ExpiredTokenMessage)
}

// takeFault removes and returns the first fault matching the request.
func (s *Server) takeFault(r *http.Request) (fault, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.faults, func(f fault) bool {
		return f.method == r.Method && f.path == r.URL.Path
	})
	if i < 0 {
		return fault{}, false
	}
	f := s.faults[i]
	s.faults = slices.Delete(s.faults, i, i+1)
	return f, true
}

func (s *Server) injectFaults(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if f, ok := s.takeFault(r); ok {
			s.logger.Debug("injected fault", "method", f.method, "path", f.path, "status", f.status)
			response.Message(w, f.status, f.msg, s.logger)
			return
		}
		next.ServeHTTP(w, r)
	})
}
