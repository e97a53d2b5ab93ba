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

package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// meanCI 回傳樣本均值、樣本標準差與均值的信賴區間（Student-t）。
//
// 自由抽樣模式下重量是隨機變數，這個 CI 用來驗證 Boltzmann 均值
// 性質（樣本均值應覆蓋目標重量）；精確模式下 std = 0、CI 退化成點。
func meanCI(data []float64, confidence float64) (mean, std float64, ci CI) {
	n := len(data)
	if n == 0 {
		return 0, 0, CI{}
	}
	mean = stat.Mean(data, nil)
	if n == 1 {
		return mean, 0, CI{Lo: mean, Hi: mean}
	}
	std = stat.StdDev(data, nil)

	t := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 1)}
	q := t.Quantile(1 - (1-confidence)/2)
	se := std / math.Sqrt(float64(n))
	return mean, std, CI{Lo: mean - q*se, Hi: mean + q*se}
}

// proportionCICP : Clopper–Pearson exact CI for binomial proportion
// (k successes out of n)
func proportionCICP(k int, n int, confidence float64) (pHat float64, ci CI) {
	if n == 0 {
		return 0, CI{0, 1}
	}
	alpha := 1 - confidence
	pHat = float64(k) / float64(n)

	// Beta PPF 映射，處理邊界
	if k == 0 {
		ci.Lo = 0
	} else {
		b := distuv.Beta{Alpha: float64(k), Beta: float64(n - k + 1)}
		ci.Lo = b.Quantile(alpha / 2)
	}
	if k == n {
		ci.Hi = 1
	} else {
		b := distuv.Beta{Alpha: float64(k + 1), Beta: float64(n - k)}
		ci.Hi = b.Quantile(1 - alpha/2)
	}
	return
}
