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

// Package boltz 實作 Boltzmann/Fristedt 隨機 partition 抽樣，
// 以及兩種把隨機重量修成精確重量的演算法。
//
// 模型：固定傾斜 x ∈ (0,1) 下，每個允許的 part size i 的 multiplicity
// C_i 彼此獨立，服從幾何分佈 P(C_i >= k) = x^(i·k)。一次自由抽樣
// （RandomWeight）的總重量是隨機的，期望值由 tilt 解算器對準目標 m；
// Rejection 與 PDCSecondHalf 在其上做條件化，保證重量恰為 m。
package boltz

import (
	"fmt"
	"math"

	"github.com/zintix-labs/partlab/errs"
	"github.com/zintix-labs/partlab/sdk/core"
	"github.com/zintix-labs/partlab/sdk/part"
	"github.com/zintix-labs/partlab/sdk/policy"
	"github.com/zintix-labs/partlab/sdk/tilt"
)

// ErrExhaustedRetries 表示重試額度在抽中精確重量前用完。
// 屬 Warn（可重試）：換個 seed 或放大額度再來即可——除非目標重量在
// 這個 policy 下根本達不到（例如 even policy 配奇數目標），那是呼叫
// 端的語意問題，抽樣器無法區分。
var ErrExhaustedRetries = errs.NewWarn("exhausted retries: attempt budget used up before hitting exact weight")

// Options 控制一次抽樣呼叫。
type Options struct {
	// ManualTilt ∈ (0,1) 時直接使用、跳過數值解算（懷疑數值不穩時的
	// 逃生口）。其他值表示交給 tilt.Solve。
	ManualTilt float64

	// MaxAttempts 是 rejection 迴圈的重試上限，0 表示不設限。
	// 正式環境請設上限：對達不到的目標，無上限就是無限迴圈。
	MaxAttempts uint64
}

// Sampler 綁定一個 policy 與一個亂數核心。
//
// Sampler 本身無狀態可言（結果寫進呼叫端給的 part.State），但 core
// 不是併發安全的：同一個 Sampler 不可被多 goroutine 同時使用。
type Sampler struct {
	pol policy.Policy
	c   *core.Core
}

func New(pol policy.Policy, c *core.Core) *Sampler {
	return &Sampler{pol: pol, c: c}
}

// Tilt 回傳這次呼叫實際會使用的傾斜參數。
func (s *Sampler) Tilt(m uint64, opt Options) float64 {
	if opt.ManualTilt > 0 && opt.ManualTilt < 1 {
		return opt.ManualTilt
	}
	return tilt.Solve(s.pol, m)
}

// RandomWeight 覆寫 st 為一次全新的自由抽樣（Fristedt 抽樣）。
//
// 重量是隨機的，期望值為 m；需要精確重量請走 Draw / Rejection /
// PDCSecondHalf。每個允許的 part size 恰用一個均勻亂數，時間
// O(允許且 <= m 的 part size 個數)。
func (s *Sampler) RandomWeight(st *part.State, m uint64, opt Options) error {
	if m == 0 {
		st.Clear()
		return nil
	}
	return s.drawTail(st, m, s.Tilt(m, opt))
}

// Rejection 重抽到重量恰為 m 為止。
//
// 期望重試次數在 unrestricted 下為 O(√m)——小中目標可用，大目標
// 請改用 PDCSecondHalf。tilt 每次外層呼叫只解一次，重試共用。
func (s *Sampler) Rejection(st *part.State, m uint64, opt Options) (attempts uint64, err error) {
	if m == 0 {
		st.Clear()
		return 0, nil
	}
	x := s.Tilt(m, opt)

	for attempts = 1; ; attempts++ {
		if opt.MaxAttempts > 0 && attempts > opt.MaxAttempts {
			return attempts - 1, errs.WrapWithExtra(ErrExhaustedRetries, "rejection sampling gave up",
				extraBudget(m, opt.MaxAttempts))
		}
		if err := s.drawTail(st, m, x); err != nil {
			return attempts, err
		}
		if st.Weight() == m {
			return attempts, nil
		}
	}
}

// PDCSecondHalf 以 probabilistic divide-and-conquer（deterministic
// second half）抽出重量恰為 m 的 partition。
//
// 做法：把最小允許 part s = Index(1) 留作「second half」，其餘 part
// 組成「tail」。每輪重抽 tail，令 diff = m - tail 重量，接受條件為
//
//	diff >= 0 且 diff % s == 0 且 U <= x^diff
//
// 接受後就把 mult(s) 確定性地設成 diff/s。
//
// 接受機率的由來（這個指數錯了不會被任何重量檢查抓到，所以寫清楚）：
// tilt x 下 mult(s) 的先驗是幾何分佈 P(C = k) = (1-x^s)·x^(s·k)。
// 給定 tail，要補成總重 m 必須 C = diff/s，其機率正比於
// x^(s·(diff/s)) = x^diff。以 sup_k P(C=k) =（k=0 的機率）正規化後，
// 接受機率恰為 x^diff——接受後的分佈即為「給定 tail 與總重 m 時
// mult(s) 的正確條件分佈」，整體輸出與 Rejection 同分佈。
//
// 效率：只需要 diff 對齊 s 的倍數而不是整條重量打中 m，期望重試
// 次數漸近小於 Rejection。x 每次外層呼叫解一次，重試之間重用
// （刻意如此：每輪重解浪費，而換一個 x 會破壞接受機率的推導）。
func (s *Sampler) PDCSecondHalf(st *part.State, m uint64, opt Options) (attempts uint64, err error) {
	if m == 0 {
		st.Clear()
		return 0, nil
	}
	sMin := s.pol.Index(1)
	if sMin == 0 {
		return 0, errs.WrapWithExtra(policy.ErrInvalidPolicy, "policy has empty support", "index(1) == 0")
	}
	x := s.Tilt(m, opt)

	for attempts = 1; ; attempts++ {
		if opt.MaxAttempts > 0 && attempts > opt.MaxAttempts {
			return attempts - 1, errs.WrapWithExtra(ErrExhaustedRetries, "pdc second half gave up",
				extraBudget(m, opt.MaxAttempts))
		}
		if err := s.drawTail(st, m, x); err != nil {
			return attempts, err
		}

		// 抽樣可能已寫入最小 part；tail 定義上不含它，歸零。
		st.Set(sMin, 0)
		partial := st.Weight()
		if partial > m {
			continue
		}
		diff := m - partial
		if diff%sMin != 0 {
			continue
		}
		if s.c.Float64() <= math.Pow(x, float64(diff)) {
			st.Set(sMin, diff/sMin)
			return attempts, nil
		}
	}
}

// Draw 是預設入口，目前轉發到 PDCSecondHalf。
//
// 呼叫端除非要對照特定演算法，否則一律用 Draw：之後有更快的精確
// 重量演算法會換進來，呼叫合約不變。
func (s *Sampler) Draw(st *part.State, m uint64, opt Options) (attempts uint64, err error) {
	return s.PDCSecondHalf(st, m, opt)
}

// drawTail 是共用的 Fristedt 迴圈：清空 st，對每個允許且 <= m 的
// part size i 以幾何反變換抽 multiplicity：
//
//	c = floor( log(u) / (i·log x) ),  u ~ Uniform(0,1)
//
// 等價於逐一建立幾何分佈物件，但更快。policy 合約（嚴格遞增）
// 在第一次違反時即失敗。
func (s *Sampler) drawTail(st *part.State, m uint64, x float64) error {
	st.Clear()

	logx := math.Log(x)
	prev := uint64(0)
	for k := uint64(1); ; k++ {
		i := s.pol.Index(k)
		if i == 0 {
			if k == 1 {
				return errs.WrapWithExtra(policy.ErrInvalidPolicy, "policy has empty support", "index(1) == 0")
			}
			return nil
		}
		if i <= prev {
			return errs.Wrap(policy.ErrInvalidPolicy, "policy sequence not increasing")
		}
		if i > m {
			return nil
		}

		u := s.c.OpenFloat64()
		if c := math.Floor(math.Log(u) / (float64(i) * logx)); c > 0 {
			st.Set(i, uint64(c))
		}
		prev = i
	}
}

func extraBudget(m uint64, budget uint64) string {
	return fmt.Sprintf("target=%d budget=%d", m, budget)
}
