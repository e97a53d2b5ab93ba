package v1

import (
	"encoding/json"
	"net/http"

	"github.com/zintix-labs/partlab/sdk/part"
	"github.com/zintix-labs/partlab/spec"
	"github.com/zintix-labs/partlab/stats"
)

type DistStat struct {
	PresetName string         `json:"preset_name"`
	PolicyKey  spec.PolicyKey `json:"policy_key"`
	Algorithm  spec.Algorithm `json:"alg"`
	Target     uint64         `json:"target"`
	// 每局一組 parts（multiset，順序不拘）
	Rounds [][]uint64 `json:"rounds"`
	// 每局的 attempts；長度不足時補 1
	Attempts []uint64 `json:"attempts,omitempty"`
}

// Stat 對外部送入的抽樣結果做離線統計，不經過 sampler。
func Stat(w http.ResponseWriter, r *http.Request) {
	// Post方法限定
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	// 嘗試解析
	dst := new(DistStat)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if len(dst.Rounds) < 1 {
		http.Error(w, "rounds must > 0", http.StatusBadRequest)
		return
	}

	rep := stats.NewDrawReport(dst.PresetName, 0, dst.PolicyKey, dst.Algorithm, dst.Target)
	st := part.New()
	for i, parts := range dst.Rounds {
		st.Clear()
		for _, p := range parts {
			if p == 0 {
				http.Error(w, "part size must be positive", http.StatusBadRequest)
				return
			}
			st.Set(p, st.Mult(p)+1)
		}
		attempts := uint64(1)
		if i < len(dst.Attempts) {
			attempts = dst.Attempts[i]
		}
		rep.Record(st, attempts)
	}
	rep.Done()

	if err := json.NewEncoder(w).Encode(rep); err != nil {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}
}
