package api

import (
	"encoding/json"
	"net/http"
)

func (s *Server) handleListArticles(w http.ResponseWriter, r *http.Request) {
	summaries := s.builder.Summaries()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"count":    len(summaries),
		"articles": summaries,
	})
}
