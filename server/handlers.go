package server

import (
	"encoding/json"
	"net/http"

	w3m "github.com/status-im/status-web3-mock-go"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Debug("writing response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func websocketURL(r *http.Request) string {
	scheme := "ws"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "wss"
	}
	return scheme + "://" + r.Host + "/ws"
}

// handleProviderScript handles GET /provider.js. The bundle points the
// content program at this server's websocket endpoint.
func (s *Server) handleProviderScript(w http.ResponseWriter, r *http.Request) {
	cfg := s.session.Configuration()
	cfg.Transport = w3m.TransportConfig{Kind: w3m.TransportWebSocket, URL: websocketURL(r)}

	scripts, err := s.generator.UserScriptsFor(cfg)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Write([]byte(w3m.Bundle(scripts)))
}

// handleWebSocket handles GET /ws
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Debug("websocket upgrade failed", "error", err)
		return
	}

	c := newConn(s, ws)
	if !s.add(c) {
		c.close()
		return
	}
	logger.Debug("page connected", "conn", c.id, "remote", r.RemoteAddr)

	go c.readLoop()
}

// handleGetSession handles GET /session
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.session.Configuration())
}

// handlePutSession handles PUT /session. Fields absent from the body keep
// their current values; changes apply to the next page load.
func (s *Server) handlePutSession(w http.ResponseWriter, r *http.Request) {
	cfg := s.session.Configuration()
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.session.Update(func(c *w3m.SessionConfiguration) { *c = cfg }); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	writeJSON(w, http.StatusOK, s.session.Configuration())
}

type eventRequest struct {
	Name string      `json:"name"`
	Data interface{} `json:"data"`
}

// handleEvent handles POST /events
func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	n, err := s.Broadcast(req.Name, req.Data)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]int{"delivered": n})
}

type identityResponse struct {
	Key string `json:"key"`
	w3m.ProviderIdentity
}

// handleIdentities handles GET /identities
func (s *Server) handleIdentities(w http.ResponseWriter, r *http.Request) {
	var out []identityResponse
	for _, k := range w3m.Identities() {
		out = append(out, identityResponse{Key: k.String(), ProviderIdentity: w3m.Identity(k)})
	}
	writeJSON(w, http.StatusOK, out)
}

// handleMethods handles GET /methods
func (s *Server) handleMethods(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.dispatcher.SortedMethods())
}
