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

// Package tilt 解 Boltzmann 模型的傾斜參數 x。
//
// 給定目標重量 m，要找 x ∈ (0,1) 使模型的期望重量
//
//	ExpectedWeight(x) = Σ_{i∈U} i·x^i / (1 - x^i)
//
// 等於 m。x 越大期望重量越高。unrestricted policy 在小 m 有查表、
// 大 m 有封閉漸近式；受限 policy 一律走二分法。
//
// 這是 best-effort 數值策略：二分法達到迭代上限時回傳目前最好的
// 中點而不是報錯。懷疑數值不穩時，呼叫端可以手動指定 x 繞過解算。
package tilt

import (
	"math"

	"github.com/zintix-labs/partlab/sdk/policy"
)

const (
	tableSize = 201
	// tableMax 之內的 unrestricted 目標直接查表。
	tableMax = uint64(tableSize - 1)

	// asymC = π/√6，unrestricted partition 的漸近常數。
	asymC = 1.2825498301618643

	bisectTol      = 1e-5
	bisectMaxIters = 1000
)

// Solve 解出目標重量 m 的傾斜參數。
//
//   - unrestricted 且 m <= 200：查表（5 位有效數字）。
//   - unrestricted 且 m > 200：漸近式 x = 1 - π/√(6m)。
//   - 其他 policy：二分法（漸近式只對 unrestricted 成立）。
//
// m == 0 回傳 0（抽樣層對目標 0 會直接產出空 partition，不會用到 x）。
func Solve(p policy.Policy, m uint64) float64 {
	if m == 0 {
		return 0
	}
	if _, ok := p.(policy.Unrestricted); ok {
		if m <= tableMax {
			return lookup[m]
		}
		return Asymptotic(m)
	}
	return solveBisection(p, m)
}

// Asymptotic 回傳 unrestricted partition 的大 m 近似解 1 - π/√(6m)。
func Asymptotic(m uint64) float64 {
	return 1 - asymC/math.Sqrt(float64(m))
}

// ExpectedWeight 計算 Σ i·x^i/(1-x^i)，i 取遍 policy 允許且 <= m 的
// part size。截斷到 m 是可接受的：x < 1 時更大的 part 貢獻可忽略，
// 而且抽樣器本來就不會抽超過 m 的 part。
func ExpectedWeight(p policy.Policy, x float64, m uint64) float64 {
	var res float64

	// i == 0 即有限支撐集的結尾。
	k := uint64(1)
	for i := p.Index(k); i != 0 && i <= m; i = p.Index(k) {
		xi := math.Pow(x, float64(i))
		res += float64(i) * xi / (1 - xi)
		k++
	}
	return res
}

// solveBisection 在 [1-asymC/√m, 1-1e-16] 上對 ExpectedWeight(x) - m
// 二分。收斂判準是兩端殘差之差 |r1-r2| <= tol；到達迭代上限時回傳
// 目前的中點（best-effort，不報錯）。
func solveBisection(p policy.Policy, m uint64) float64 {
	x0 := 1 - asymC/math.Sqrt(float64(m))
	xf := 1 - 1e-16
	xi := (x0 + xf) / 2

	r1 := ExpectedWeight(p, x0, m) - float64(m)
	r2 := ExpectedWeight(p, xf, m) - float64(m)

	for iters := 0; math.Abs(r1-r2) > bisectTol && iters < bisectMaxIters; iters++ {
		xi = (x0 + xf) / 2
		r3 := ExpectedWeight(p, xi, m) - float64(m)
		if r3 < 0 {
			x0 = xi
			r1 = r3
		} else {
			xf = xi
			r2 = r3
		}
	}
	return xi
}
