package v1

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"net/http"
	"strconv"

	"github.com/zintix-labs/partlab"
	"github.com/zintix-labs/partlab/errs"
	"github.com/zintix-labs/partlab/server/httperr"
	"github.com/zintix-labs/partlab/spec"
	"github.com/zintix-labs/partlab/stats"
)

type SimHandler struct {
	Lab *partlab.Lab
}

func NewSimHandler(lab *partlab.Lab) (*SimHandler, error) {
	if lab == nil {
		return nil, errs.NewFatal("lab is required")
	}
	return &SimHandler{Lab: lab}, nil
}

func (sh *SimHandler) Sim(w http.ResponseWriter, q *http.Request) {
	// 內部結構 不影響外部 也不被外部使用
	type SimRequestBody struct {
		PID     spec.PID       `json:"pid"`
		Target  *uint64        `json:"target,omitempty"`
		Round   int            `json:"round"`
		Alg     spec.Algorithm `json:"alg,omitempty"`
		Workers int            `json:"workers,omitempty"`
		Seed    *int64         `json:"seed,omitempty"`
	}
	// 內部結構 不影響外部 也不被外部使用
	type SimResponse struct {
		Stats    *stats.DrawReport `json:"stats"`
		UsedTime int64             `json:"used_ms"`
	}
	// ---
	req := new(SimRequestBody)
	if q.Method != http.MethodGet && q.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if q.Method == http.MethodGet {
		// pid
		if s := q.URL.Query().Get("pid"); s != "" {
			u, err := strconv.ParseUint(s, 10, 64)
			if err != nil {
				httperr.Errs(w, errs.NewWarn("pid must be non-negative integer"))
				return
			}
			req.PID = spec.PID(u)
		} else {
			httperr.Errs(w, errs.NewWarn("pid is required"))
			return
		}

		// target
		if s := q.URL.Query().Get("target"); s != "" {
			u, err := strconv.ParseUint(s, 10, 64)
			if err != nil {
				httperr.Errs(w, errs.NewWarn("target must be non-negative integer"))
				return
			}
			req.Target = &u
		}

		// round
		if s := q.URL.Query().Get("round"); s != "" {
			u, err := strconv.Atoi(s)
			if err != nil {
				httperr.Errs(w, errs.NewWarn("round must be integer"))
				return
			}
			req.Round = u
		} else {
			httperr.Errs(w, errs.NewWarn("round is required"))
			return
		}

		// alg
		if s := q.URL.Query().Get("alg"); s != "" {
			req.Alg = spec.Algorithm(s)
		}

		// workers
		if s := q.URL.Query().Get("workers"); s != "" {
			u, err := strconv.Atoi(s)
			if err != nil {
				httperr.Errs(w, errs.NewWarn("workers must be integer"))
				return
			}
			req.Workers = u
		}

		// seed
		if s := q.URL.Query().Get("seed"); s != "" {
			u, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				httperr.Errs(w, errs.NewWarn("seed must be int64"))
				return
			}
			req.Seed = &u
		}
	}
	if q.Method == http.MethodPost {
		if err := json.NewDecoder(q.Body).Decode(req); err != nil {
			httperr.Errs(w, errs.NewWarn("invalid json:"+err.Error()))
			return
		}
	}
	// 業務檢驗
	if _, ok := sh.Lab.EntryById(req.PID); !ok {
		httperr.Errs(w, errs.NewWarn("pid not found"))
		return
	}
	if req.Round < 1 || req.Round > 1000000 {
		httperr.Errs(w, errs.NewWarn("round must be between 1 to 1,000,000"))
		return
	}
	if req.Workers < 0 || req.Workers > 64 {
		httperr.Errs(w, errs.NewWarn("workers must be between 0 and 64"))
		return
	}
	if req.Seed == nil {
		rnd, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
		if err != nil {
			httperr.Errs(w, errs.NewWarn("seed generate failed"))
			return
		}
		v := rnd.Int64()
		req.Seed = &v
	}
	sim, err := sh.Lab.NewSimulatorWithSeed(req.PID, *req.Seed)
	if err != nil {
		// 這裡的錯誤是來自 lab 尊重錯誤分級
		httperr.Errs(w, errs.Wrap(err, fmt.Sprintf("build simulator err: %d", req.PID)))
		return
	}
	target := uint64(0)
	if req.Target != nil {
		target = *req.Target
	} else if ps, serr := sh.Lab.PresetSettingById(req.PID); serr == nil {
		target = ps.DefaultTarget
	}

	var st *stats.DrawReport
	var used int64
	if req.Workers > 1 {
		r, d, serr := sim.SimMP(target, req.Round, req.Workers, req.Alg, false)
		if serr != nil {
			httperr.Errs(w, errs.Wrap(serr, "simulate err"))
			return
		}
		st, used = r, d.Milliseconds()
	} else {
		r, d, serr := sim.Sim(target, req.Round, req.Alg, false)
		if serr != nil {
			httperr.Errs(w, errs.Wrap(serr, "simulate err"))
			return
		}
		st, used = r, d.Milliseconds()
	}

	resp := SimResponse{
		Stats:    st,
		UsedTime: used,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
