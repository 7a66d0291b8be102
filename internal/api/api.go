// Package api exposes the matcher over JSON-over-HTTP for low-volume,
// synchronous callers that skip the batch pipeline, fronted by the same
// github.com/rs/cors wiring the teacher's service uses.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/rs/cors"

	"github.com/carlosresu/drg-esoa-matcher/internal/candidate"
	"github.com/carlosresu/drg-esoa-matcher/internal/match"
	"github.com/carlosresu/drg-esoa-matcher/internal/synonym"
)

// Server wraps the read-only matcher index built once at startup.
type Server struct {
	idx   *candidate.Index
	graph *synonym.Graph
}

// NewServer builds a Server around an already-constructed index and
// synonym graph. Neither is mutated after construction.
func NewServer(idx *candidate.Index, graph *synonym.Graph) *Server {
	return &Server{idx: idx, graph: graph}
}

// Handler wires the API's routes behind CORS, reading its allow-list from
// corsOrigins.
func (s *Server) Handler(corsOrigins []string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/v1/match", s.handleMatch)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	})
	return corsHandler.Handler(mux)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type matchRequest struct {
	Rows []match.EsoaRow `json:"rows"`
}

type matchResultDTO struct {
	DrugCode *string `json:"drug_code"`
	Reason   string  `json:"reason"`
}

type matchResponse struct {
	Results []matchResultDTO `json:"results"`
}

func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req matchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "malformed request body: "+err.Error())
		return
	}

	results := make([]matchResultDTO, len(req.Rows))
	for i, row := range req.Rows {
		res := match.Drive(row, s.idx, s.graph)
		results[i] = matchResultDTO{DrugCode: res.DrugCode, Reason: res.Reason}
	}

	writeJSON(w, http.StatusOK, matchResponse{Results: results})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
