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

	"github.com/zintix-labs/partlab/errs"
	"github.com/zintix-labs/partlab/partfmt"
	"github.com/zintix-labs/partlab/sdk/boltz"
	"github.com/zintix-labs/partlab/sdk/core"
	"github.com/zintix-labs/partlab/sdk/part"
	"github.com/zintix-labs/partlab/sdk/policy"
	"github.com/zintix-labs/partlab/spec"
)

// Generator 封裝一個「可對外抽樣」的 partition 產生器。
//
// 對外：Draw / Rejection / Boltzmann 入口（HTTP/模擬器通常只操作它）。
// 對內：持有私有的 RNG（Core）、policy 與可重用的 part.State buffer。
//
// 併發語意：
//   - Generator 不是併發安全的；它內含可重用的 state buffer 與一顆
//     私有 PRNG。要併發抽樣，由更高層建立多個 Generator 分散到
//     worker（Simulator 就是這樣做的）。
//
// Buffer 語意（影響 DX 與正確性）：
//   - State() 回傳的是內部 buffer，每次抽樣會整包覆寫。需要保留
//     結果請先用 Parts()/Stream() 取走，或自行 copy。
type Generator struct {
	presetName string
	presetId   spec.PID
	core       *core.Core
	sampler    *boltz.Sampler
	st         *part.State
	setting    *spec.PresetSetting
	initSeed   int64 // 出生 seed（追溯用）；完整回放以 Snapshot/Restore 為準
}

func newGeneratorWithSeed(ps *spec.PresetSetting, pol policy.Policy, cf core.PRNGFactory, seed int64) *Generator {
	c := core.New(cf.New(seed))
	return &Generator{
		presetName: ps.PresetName,
		presetId:   ps.PresetID,
		core:       c,
		sampler:    boltz.New(pol, c),
		st:         part.New(),
		setting:    ps,
		initSeed:   seed,
	}
}

// Draw 抽一個重量恰為 m 的隨機 partition（預設演算法入口）。
// 回傳該次的內部嘗試次數。
func (g *Generator) Draw(m uint64) (attempts uint64, err error) {
	return g.sampler.Draw(g.st, m, g.opts())
}

// DrawAlg 以指定演算法抽樣；要對照演算法或做基準測試時使用，
// 一般呼叫端請用 Draw。
func (g *Generator) DrawAlg(alg spec.Algorithm, m uint64) (attempts uint64, err error) {
	switch alg {
	case spec.AlgPDC, "":
		return g.sampler.PDCSecondHalf(g.st, m, g.opts())
	case spec.AlgRejection:
		return g.sampler.Rejection(g.st, m, g.opts())
	case spec.AlgBoltzmann:
		return 1, g.sampler.RandomWeight(g.st, m, g.opts())
	default:
		return 0, errs.Warnf("unknown algorithm: %s", alg)
	}
}

// Boltzmann 抽一次自由（隨機重量）partition，期望重量為 m。
func (g *Generator) Boltzmann(m uint64) error {
	return g.sampler.RandomWeight(g.st, m, g.opts())
}

// Tilt 回傳目標 m 下實際會使用的傾斜參數（觀測/除錯用）。
func (g *Generator) Tilt(m uint64) float64 {
	return g.sampler.Tilt(m, g.opts())
}

func (g *Generator) opts() boltz.Options {
	return boltz.Options{
		ManualTilt:  g.setting.ManualTilt,
		MaxAttempts: g.setting.MaxAttempts,
	}
}

// State 回傳內部 partition buffer（會被下一次抽樣覆寫）。
func (g *Generator) State() *part.State {
	return g.st
}

// Weight 回傳目前 partition 的重量。
func (g *Generator) Weight() uint64 {
	return g.st.Weight()
}

// Parts 以 multiset 形式回傳目前的 part，由大到小（copy，可保留）。
func (g *Generator) Parts() []uint64 {
	return g.st.Parts()
}

// Stream 回傳目前 partition 的逗號分隔表示。
func (g *Generator) Stream() string {
	return partfmt.Stream(g.st)
}

// Ferrers 將目前 partition 的 Ferrers diagram 寫入 w。
func (g *Generator) Ferrers(w io.Writer) error {
	return partfmt.WriteFerrers(w, g.st)
}

func (g *Generator) PresetName() string { return g.presetName }

func (g *Generator) PresetId() spec.PID { return g.presetId }

func (g *Generator) InitSeed() int64 { return g.initSeed }

func (g *Generator) Setting() *spec.PresetSetting { return g.setting }

// Snapshot 取得 RNG 當下內部狀態（審計/回放）。
func (g *Generator) Snapshot() ([]byte, error) {
	return g.core.Snapshot()
}

// Restore 還原 RNG 內部狀態。
func (g *Generator) Restore(data []byte) error {
	return g.core.Restore(data)
}
