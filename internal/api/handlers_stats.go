package api

import (
	"encoding/json"
	"net/http"
)

func (s *Server) handleJudgeStats(w http.ResponseWriter, r *http.Request) {
	if s.judge == nil {
		jsonError(w, "judge stats unavailable", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"model": s.cfg.AnthropicModel,
		"stats": s.judge.Stats().Snapshot(),
	})
}
