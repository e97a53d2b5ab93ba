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

// Package part 持有「目前這個 partition」的可變狀態。
//
// State 是 part size -> multiplicity 的對照表。每次抽樣會整包覆寫
// （Clear 後逐項寫入），不同抽樣之間沒有增量更新。重量域假設為
// uint64（設計合約，目標量級下不檢查溢位）。
package part

import (
	"slices"
	"sort"
)

// State 紀錄 partition 的 (part size, multiplicity) 對。
// multiplicity 為 0 的 part 不保留 entry。
type State struct {
	mult map[uint64]uint64
}

// New 建立空的 partition。
func New() *State {
	return &State{mult: make(map[uint64]uint64, 64)}
}

// Clear 清空所有 part。map 保留重用，避免熱路徑重配置。
func (s *State) Clear() {
	clear(s.mult)
}

// Set 設定 part size 的 multiplicity；c == 0 等同移除該 part。
func (s *State) Set(size, c uint64) {
	if c == 0 {
		delete(s.mult, size)
		return
	}
	s.mult[size] = c
}

// Mult 回傳 part size 的 multiplicity（不存在為 0）。
func (s *State) Mult(size uint64) uint64 {
	return s.mult[size]
}

// Weight 回傳 partition 的總重量 Σ size·mult。
func (s *State) Weight() uint64 {
	var w uint64
	for size, c := range s.mult {
		w += size * c
	}
	return w
}

// Count 回傳 part 的總數 Σ mult。
func (s *State) Count() uint64 {
	var n uint64
	for _, c := range s.mult {
		n += c
	}
	return n
}

// Distinct 回傳不同 part size 的數量。
func (s *State) Distinct() int {
	return len(s.mult)
}

// Largest 回傳最大的 part size；空 partition 回傳 0。
func (s *State) Largest() uint64 {
	var max uint64
	for size := range s.mult {
		if size > max {
			max = size
		}
	}
	return max
}

// Sizes 回傳所有出現過的 part size，由小到大。
func (s *State) Sizes() []uint64 {
	sizes := make([]uint64, 0, len(s.mult))
	for size := range s.mult {
		sizes = append(sizes, size)
	}
	slices.Sort(sizes)
	return sizes
}

// Parts 以 multiset 形式回傳所有 part，由大到小。
//
// 一個重量 n 的 partition 漸近有 ~ √n·log(n) 個 part、~ √n 種不同
// part size，內部以 (size, mult) 儲存比攤平便宜；Parts 留給展示層。
func (s *State) Parts() []uint64 {
	parts := make([]uint64, 0, s.Count())
	for size, c := range s.mult {
		for range c {
			parts = append(parts, size)
		}
	}
	sort.Slice(parts, func(i, j int) bool { return parts[i] > parts[j] })
	return parts
}

// ForEach 依 part size 由小到大走訪所有 (size, mult) 對。
func (s *State) ForEach(fn func(size, mult uint64)) {
	for _, size := range s.Sizes() {
		fn(size, s.mult[size])
	}
}
