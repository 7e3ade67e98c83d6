package fakeapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/weddingwise/weddingwise-client/internal/http/response"
)

func (s *Server) handleListEvents(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, s.events, s.logger)
}

func (s *Server) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	if doc, ok := findDoc(s.events, chi.URLParam(r, "id")); ok {
		response.Success(w, doc, s.logger)
		return
	}
	response.NotFound(w, "Event not found", s.logger)
}

func (s *Server) handleListVendors(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, s.vendors, s.logger)
}

func (s *Server) handleGetVendor(w http.ResponseWriter, r *http.Request) {
	if doc, ok := findDoc(s.vendors, chi.URLParam(r, "id")); ok {
		response.Success(w, doc, s.logger)
		return
	}
	response.NotFound(w, "Vendor not found", s.logger)
}

func findDoc(docs []catalogDoc, id string) (catalogDoc, bool) {
	for _, d := range docs {
		if d.ID == id {
			return d, true
		}
	}
	return catalogDoc{}, false
}
