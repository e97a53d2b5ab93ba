package v1

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/zintix-labs/partlab"
	"github.com/zintix-labs/partlab/errs"
	"github.com/zintix-labs/partlab/server/httperr"
	"github.com/zintix-labs/partlab/spec"
)

type DrawHandler struct {
	Lab *partlab.Lab
}

func NewDrawHandler(lab *partlab.Lab) (*DrawHandler, error) {
	if lab == nil {
		return nil, errs.NewFatal("lab is required")
	}
	return &DrawHandler{Lab: lab}, nil
}

// Draw 抽一組分拆並回傳 parts 與統計欄位。
// GET query 或 POST json 皆可；target 留空時採 preset 的 default_target。
func (dh *DrawHandler) Draw(w http.ResponseWriter, q *http.Request) {
	// 內部結構 不影響外部 也不被外部使用
	type DrawRequestBody struct {
		PID    spec.PID       `json:"pid"`
		Target *uint64        `json:"target,omitempty"`
		Alg    spec.Algorithm `json:"alg,omitempty"`
		Seed   *int64         `json:"seed,omitempty"`
	}
	// 內部結構 不影響外部 也不被外部使用
	type DrawResponse struct {
		Parts    []uint64 `json:"parts"`
		Weight   uint64   `json:"weight"`
		Count    uint64   `json:"count"`
		Attempts uint64   `json:"attempts"`
		Stream   string   `json:"stream"`
		Seed     int64    `json:"seed"`
	}
	// ---
	if q.Method != http.MethodGet && q.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	req := new(DrawRequestBody)
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

		// alg
		if s := q.URL.Query().Get("alg"); s != "" {
			req.Alg = spec.Algorithm(s)
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
	if _, ok := dh.Lab.EntryById(req.PID); !ok {
		httperr.Errs(w, errs.NewWarn("pid not found"))
		return
	}

	var g *partlab.Generator
	var err error
	if req.Seed != nil {
		g, err = dh.Lab.NewGeneratorWithSeed(req.PID, *req.Seed)
	} else {
		g, err = dh.Lab.NewGenerator(req.PID)
	}
	if err != nil {
		httperr.Errs(w, errs.Wrap(err, fmt.Sprintf("build generator err: %d", req.PID)))
		return
	}

	target := g.Setting().DefaultTarget
	if req.Target != nil {
		target = *req.Target
	}
	attempts, err := g.DrawAlg(req.Alg, target)
	if err != nil {
		httperr.Errs(w, errs.Wrap(err, "draw err"))
		return
	}
	resp := DrawResponse{
		Parts:    g.Parts(),
		Weight:   g.Weight(),
		Count:    g.State().Count(),
		Attempts: attempts,
		Stream:   g.Stream(),
		Seed:     g.InitSeed(),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// Ferrers 抽一組分拆並以 text/plain 回傳 Ferrers diagram。
func (dh *DrawHandler) Ferrers(w http.ResponseWriter, q *http.Request) {
	if q.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var pid spec.PID
	if s := q.URL.Query().Get("pid"); s != "" {
		u, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			httperr.Errs(w, errs.NewWarn("pid must be non-negative integer"))
			return
		}
		pid = spec.PID(u)
	} else {
		httperr.Errs(w, errs.NewWarn("pid is required"))
		return
	}
	if _, ok := dh.Lab.EntryById(pid); !ok {
		httperr.Errs(w, errs.NewWarn("pid not found"))
		return
	}

	var g *partlab.Generator
	var err error
	if s := q.URL.Query().Get("seed"); s != "" {
		u, perr := strconv.ParseInt(s, 10, 64)
		if perr != nil {
			httperr.Errs(w, errs.NewWarn("seed must be int64"))
			return
		}
		g, err = dh.Lab.NewGeneratorWithSeed(pid, u)
	} else {
		g, err = dh.Lab.NewGenerator(pid)
	}
	if err != nil {
		httperr.Errs(w, errs.Wrap(err, fmt.Sprintf("build generator err: %d", pid)))
		return
	}

	target := g.Setting().DefaultTarget
	if s := q.URL.Query().Get("target"); s != "" {
		u, perr := strconv.ParseUint(s, 10, 64)
		if perr != nil {
			httperr.Errs(w, errs.NewWarn("target must be non-negative integer"))
			return
		}
		target = u
	}
	if _, err := g.Draw(target); err != nil {
		httperr.Errs(w, errs.Wrap(err, "draw err"))
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_ = g.Ferrers(w)
}
