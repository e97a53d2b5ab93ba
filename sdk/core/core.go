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

// Package core 提供 partlab 的亂數地基。
//
// 抽樣器（Fristedt 抽樣、兩種精確重量演算法）對亂數來源只有兩個要求：
//  1. 可注入：測試時用固定 seed 重現同一條抽樣軌跡，上線時用熵池 seed。
//  2. 可快照：Snapshot/Restore 讓一次抽樣可以被完整回放（審計）。
//
// 合約上一個 PRNG 實例不是併發安全的；要併發抽樣請每個 goroutine
// 各自持有一個 Core（由同一個 factory 派生不同 seed）。
package core

// PRNG 定義抽樣所需的亂數來源，需同時支援取樣與狀態保存/還原。
type PRNG interface {
	RAND
	Restorable
}

// Restorable 定義可快照與還原的狀態介面。
type Restorable interface {
	// Snapshot 回傳可用於還原的序列化狀態。
	Snapshot() ([]byte, error)
	// Restore 依序列化狀態還原 PRNG 內部狀態。
	Restore([]byte) error
}

// RAND 定義核心亂數取樣能力。
//
// Float64 是抽樣熱路徑唯一會用到的方法（幾何反變換每個 part size 取一次），
// Uint64 / IntN 留給統計與工具層使用。
type RAND interface {
	// Uint64 回傳非負 uint64 亂數。
	Uint64() uint64
	// Float64 回傳 [0,1) 的浮點亂數。
	Float64() float64
	// IntN 回傳 [0,max) 的 int 亂數，若 max <= 0 回傳 -1。
	IntN(int) int
}

// PRNGFactory 以指定 seed 建立新的 PRNG。
//
// 合約：同一個實作與版本下，New(seed) 必須是決定性的——相同 seed 產生
// 相同的輸出序列。partlab 的可重現性（測試、回放、多 worker 模擬的
// 子 seed 派生）都建立在這個合約上。
type PRNGFactory interface {
	New(int64) PRNG
}

// DefaultPRNG 實作預設的 PRNGFactory，底層為 PCG64。
type DefaultPRNG struct{}

// New 滿足 PRNGFactory 合約。
func (d *DefaultPRNG) New(seed int64) PRNG {
	return NewPCG64WithSeed(seed)
}

func Default() *DefaultPRNG {
	return &DefaultPRNG{}
}

// Core 封裝 PRNG，並提供抽樣層慣用的工具方法。
type Core struct {
	PRNG
}

// New 允許使用外部自實現的 PRNG 建立 Core。
func New(rng PRNG) *Core {
	return &Core{rng}
}

// OpenFloat64 回傳 (0,1) 的浮點亂數。
//
// 幾何反變換需要取 log(u)，u == 0 會得到 -Inf 並把 multiplicity 炸成
// 無限大，因此這裡在抽到 0 時重抽。抽到 0 的機率是 2^-53，重抽對
// 分佈的影響可忽略（等同於在 (0,1) 上均勻）。
func (c *Core) OpenFloat64() float64 {
	for {
		if u := c.Float64(); u > 0 {
			return u
		}
	}
}
