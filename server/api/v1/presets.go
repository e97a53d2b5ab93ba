package v1

import (
	"encoding/json"
	"net/http"
)

// Presets 列出目錄中所有 preset 的摘要。
func (sh *SimHandler) Presets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(sh.Lab.Summaries())
}
