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

// Package policy 定義「允許的 part size 集合」的抽象。
//
// 一個 Policy 是純函數：Index(k) 回傳第 k 個（1-based）允許的 part size，
// 回傳 0 表示序列結束（有限支撐集）。合約要求序列在結束前嚴格遞增。
//
// Policy 在抽樣熱路徑上每個 part size 會被呼叫一次、一次模擬可能呼叫
// 數百萬次，實作必須便宜且無副作用。違反遞增合約不會在建構時被擋下
// （那需要走訪無限序列），而是由抽樣器在第一次違反時以
// ErrInvalidPolicy 快速失敗。
package policy

import (
	"fmt"

	"github.com/zintix-labs/partlab/errs"
)

// ErrInvalidPolicy 表示 policy 違反合約：序列非嚴格遞增，或 Index(1) == 0
// 卻要求正的目標重量。屬 Fatal：重試不會讓一個壞掉的 policy 變好。
var ErrInvalidPolicy = errs.NewFatal("invalid policy: index sequence must be strictly increasing")

// Policy 回傳第 k 個允許的 part size；0 表示支撐集在此結束。
type Policy interface {
	Index(k uint64) uint64
}

// Func 讓呼叫端用 closure 直接當 Policy 使用。
type Func func(k uint64) uint64

func (f Func) Index(k uint64) uint64 { return f(k) }

// Unrestricted 允許所有正整數 part：u(k) = k。
//
// tilt 解算器對這個 policy 有 lookup table / 漸近式的捷徑，
// 因此它是具名型別而不是 Func。
type Unrestricted struct{}

func (Unrestricted) Index(k uint64) uint64 { return k }

// Even 只允許偶數 part：u(k) = 2k。
type Even struct{}

func (Even) Index(k uint64) uint64 { return 2 * k }

// Odd 只允許奇數 part：u(k) = 2k-1。
type Odd struct{}

func (Odd) Index(k uint64) uint64 { return 2*k - 1 }

// Triangular 只允許三角形數 part：u(k) = k(k+1)/2。
type Triangular struct{}

func (Triangular) Index(k uint64) uint64 { return k * (k + 1) / 2 }

// JmodM 只允許 ≡ J (mod M) 的 part：u(k) = M(k-1)+J。
// 要求 1 <= J <= M；J 同時是最小的允許 part。
type JmodM struct {
	J uint64
	M uint64
}

func (p JmodM) Index(k uint64) uint64 { return p.M*(k-1) + p.J }

// MaxPart 只允許 <= Limit 的 part（有限支撐集）：u(k) = k for k <= Limit，之後為 0。
type MaxPart struct {
	Limit uint64
}

func (p MaxPart) Index(k uint64) uint64 {
	if k <= p.Limit {
		return k
	}
	return 0
}

// MinPart 只允許 >= Min 的 part：u(k) = k + Min - 1。
type MinPart struct {
	Min uint64
}

func (p MinPart) Index(k uint64) uint64 { return k + p.Min - 1 }

// Validate 走訪前 upTo 個 index，檢查嚴格遞增與 Index(1) != 0。
//
// 抽樣器本身會做 lazy 驗證（邊抽邊檢查），這個函數給組裝階段用：
// preset 載入時先掃一段前綴，把明顯壞掉的設定擋在 runtime 之前。
func Validate(p Policy, upTo uint64) error {
	if upTo == 0 {
		return nil
	}
	prev := p.Index(1)
	if prev == 0 {
		return errs.WrapWithExtra(ErrInvalidPolicy, "policy has empty support", "index(1) == 0")
	}
	for k := uint64(2); k <= upTo; k++ {
		i := p.Index(k)
		if i == 0 {
			return nil // 有限支撐集，合法結束
		}
		if i <= prev {
			return errs.WrapWithExtra(ErrInvalidPolicy, "policy sequence not increasing",
				fmt.Sprintf("index(%d)=%d <= index(%d)=%d", k, i, k-1, prev))
		}
		prev = i
	}
	return nil
}
