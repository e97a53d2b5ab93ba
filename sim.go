// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package partlab

import (
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/zintix-labs/partlab/errs"
	"github.com/zintix-labs/partlab/sdk/core"
	"github.com/zintix-labs/partlab/sdk/policy"
	"github.com/zintix-labs/partlab/spec"
	"github.com/zintix-labs/partlab/stats"
)

const capPrepare int = 100

// Simulator 用於批次抽樣，可建立多個 Generator 並行累積統計。
type Simulator struct {
	PresetName string              // 配置名稱
	PresetId   spec.PID            // 配置編號
	setting    *spec.PresetSetting // 方便重用建立 Generator
	pol        policy.Policy       // 限制策略（所有 Generator 共用）
	cf         core.PRNGFactory    // 亂數生成器
	initSeed   int64               // 初始下的種子
	seedmaker  *seedMaker          // 種子生成器
	gBuf       []*Generator        // 併發抽樣器實例
	rBuf       []*stats.DrawReport // 併發統計報告
}

func newSimulatorWithSeed(ps *spec.PresetSetting, pol policy.Policy, cf core.PRNGFactory, seed int64) *Simulator {
	s := &Simulator{
		PresetName: ps.PresetName,
		PresetId:   ps.PresetID,
		setting:    ps,
		pol:        pol,
		cf:         cf,
		initSeed:   seed,
		seedmaker:  newSeedMaker(seed),
		gBuf:       make([]*Generator, 1, capPrepare),
		rBuf:       make([]*stats.DrawReport, 0, capPrepare),
	}
	s.gBuf[0] = newGeneratorWithSeed(ps, pol, cf, s.initSeed)
	return s
}

// Sim 單線模擬器：以一個 Generator 連續抽指定 rounds 次，回傳統計結果與用時。
// alg 留空視同配置預設（pdc）。
func (s *Simulator) Sim(m uint64, rounds int, alg spec.Algorithm, showpb bool) (*stats.DrawReport, time.Duration, error) {
	defer s.reset()
	if rounds < 1 {
		return nil, 0, errs.NewWarn("rounds must > 0")
	}
	if err := validAlg(alg); err != nil {
		return nil, 0, err
	}
	if alg == "" {
		alg = spec.AlgPDC
	}
	g := s.gBuf[0]
	r := stats.NewDrawReport(s.PresetName, s.PresetId, s.setting.PolicyKey, alg, m)

	bar := pb.StartNew(rounds)
	if !showpb {
		bar.SetWriter(io.Discard)
	}
	for i := 0; i < rounds; i++ {
		attempts, err := g.DrawAlg(alg, m)
		if err != nil {
			bar.Finish()
			return nil, 0, err
		}
		r.Record(g.State(), attempts)
		bar.Increment()
	}
	used := time.Since(bar.StartTime())
	bar.Finish()
	r.Done()

	return r, used, nil
}

// SimMP 平行執行多個 Generator，總計 rounds*mp 次抽樣，合併統計結果後
// 回傳統計結果與用時。每個 worker 的種子由 seedmaker 導出，彼此獨立。
func (s *Simulator) SimMP(m uint64, rounds int, mp int, alg spec.Algorithm, showpb bool) (*stats.DrawReport, time.Duration, error) {
	defer s.reset()
	if mp <= 0 {
		return nil, 0, errs.NewWarn("workers must > 0")
	}
	if rounds < 1 {
		return nil, 0, errs.NewWarn("rounds must > 0")
	}
	if err := validAlg(alg); err != nil {
		return nil, 0, err
	}
	if alg == "" {
		alg = spec.AlgPDC
	}
	for len(s.gBuf) < mp {
		s.gBuf = append(s.gBuf, newGeneratorWithSeed(s.setting, s.pol, s.cf, s.seedmaker.next()))
	}
	for len(s.rBuf) < mp {
		s.rBuf = append(s.rBuf, stats.NewDrawReport(s.PresetName, s.PresetId, s.setting.PolicyKey, alg, m))
	}

	wg := new(sync.WaitGroup)
	wg.Add(mp)
	var firstErr atomic.Value
	bar := pb.StartNew(rounds * mp)
	if !showpb {
		bar.SetWriter(io.Discard)
	}
	for i := 0; i < mp; i++ {
		go func(i int) {
			defer wg.Done()
			g := s.gBuf[i]
			st := s.rBuf[i]
			for r := 0; r < rounds; r++ {
				attempts, err := g.DrawAlg(alg, m)
				if err != nil {
					firstErr.CompareAndSwap(nil, err)
					return
				}
				st.Record(g.State(), attempts)
				bar.Increment()
			}
		}(i)
	}
	wg.Wait()
	used := time.Since(bar.StartTime())
	bar.Finish()
	if v := firstErr.Load(); v != nil {
		return nil, 0, v.(error)
	}

	result := s.rBuf[0]
	for _, r := range s.rBuf[1:mp] {
		result.Merge(r)
	}
	result.Done()

	return result, used, nil
}

// InitSeed 回傳建立時的初始種子。
func (s *Simulator) InitSeed() int64 { return s.initSeed }

func (s *Simulator) reset() {
	s.gBuf = s.gBuf[:1]
	s.rBuf = s.rBuf[:0]
}

func validAlg(alg spec.Algorithm) error {
	switch alg {
	case "", spec.AlgPDC, spec.AlgRejection, spec.AlgBoltzmann:
		return nil
	}
	return errs.NewWarn("unknown algorithm: " + string(alg))
}

const mask63 = uint64(1<<63) - 1

type seedMaker struct {
	state atomic.Uint64 // always in [0, 2^63)
}

func newSeedMaker(seed int64) *seedMaker {
	s := &seedMaker{}
	s.state.Store(uint64(seed) & mask63)
	return s
}

// state 走全週期（不重複），再用可逆 mix63 打散
//
// 注意：此方法可能在併發環境下被多 goroutines 同時呼叫（例如 SimMP）。
// 因此 state 的推進必須是原子的：
//   - 使用 CAS（Compare-And-Swap）迴圈確保每次呼叫都會取得唯一的下一個 state。
//   - 回傳值使用推進後的 state 經 mix63 打散後的結果。
func (s *seedMaker) next() int64 {
	for {
		old := s.state.Load()                                            // always masked
		next := (old*6364136223846793005 + 1442695040888963407) & mask63 // full-period LCG mod 2^63
		if s.state.CompareAndSwap(old, next) {
			return int64(mix63(next)) // 一定非負
		}
	}
}

// mix63：只用「可逆」的 bit 操作 + 乘奇數（mod 2^63）
func mix63(x uint64) uint64 {
	x &= mask63
	x ^= x >> 30
	x = (x * 0xBF58476D1CE4E5B9) & mask63 // 乘奇數 ⇒ mod 2^63 可逆
	x ^= x >> 27
	x = (x * 0x94D049BB133111EB) & mask63
	x ^= x >> 31
	return x & mask63
}
