package server

import (
	"net/http"

	"github.com/gorilla/mux"
)

// setupRoutes configures all HTTP routes of the bridge server.
func (s *Server) setupRoutes() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/provider.js", s.handleProviderScript).Methods(http.MethodGet)
	r.HandleFunc("/ws", s.handleWebSocket).Methods(http.MethodGet)
	r.HandleFunc("/session", s.handleGetSession).Methods(http.MethodGet)
	r.HandleFunc("/session", s.handlePutSession).Methods(http.MethodPut)
	r.HandleFunc("/events", s.handleEvent).Methods(http.MethodPost)
	r.HandleFunc("/identities", s.handleIdentities).Methods(http.MethodGet)
	r.HandleFunc("/methods", s.handleMethods).Methods(http.MethodGet)

	return r
}
