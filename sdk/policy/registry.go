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

package policy

import (
	"fmt"

	"github.com/zintix-labs/partlab/errs"
	"github.com/zintix-labs/partlab/spec"
)

// Builder 依 preset 的 params 建出一個 Policy 實例。
//
// params 來自 PresetSetting.Params（yaml）；builder 必須檢查自己需要的
// 鍵是否存在且合法，缺漏以 Fatal 回報（這是設定錯誤，不是 runtime 錯誤）。
type Builder func(params map[string]uint64) (Policy, error)

// Registry 是 PolicyKey -> Builder 的註冊表。
type Registry struct {
	builders map[spec.PolicyKey]Builder
}

func NewRegistry() *Registry {
	return &Registry{
		builders: make(map[spec.PolicyKey]Builder, 16),
	}
}

func (r *Registry) Register(key spec.PolicyKey, b Builder) error {
	if _, ok := r.builders[key]; ok {
		return errs.NewFatal("duplicate policy builder")
	}
	r.builders[key] = b
	return nil
}

func (r *Registry) Build(key spec.PolicyKey, params map[string]uint64) (Policy, error) {
	b, ok := r.builders[key]
	if !ok {
		return nil, errs.NewFatal(fmt.Sprintf("policy is not exist: %s", key))
	}
	return b(params)
}

func (r *Registry) IsExist(key spec.PolicyKey) bool {
	_, ok := r.builders[key]
	return ok
}

// MergeRegistry merges multiple registries into a new one.
//
// Function values 不可比較，重複的 key 一律視為錯誤，
// 避免「last one wins」這種不確定行為。
func MergeRegistry(regs ...*Registry) (*Registry, error) {
	merged := NewRegistry()

	origin := make(map[spec.PolicyKey]int, 16)

	for i, r := range regs {
		if r == nil {
			continue
		}
		for key, builder := range r.builders {
			if _, ok := merged.builders[key]; ok {
				prev := origin[key]
				return nil, errs.NewFatal(fmt.Sprintf("duplicate policy key %s (registry #%d and #%d)", key, prev, i))
			}
			merged.builders[key] = builder
			origin[key] = i
		}
	}

	return merged, nil
}

// 內建 policy 的 key。
const (
	KeyUnrestricted spec.PolicyKey = "unrestricted"
	KeyEven         spec.PolicyKey = "even"
	KeyOdd          spec.PolicyKey = "odd"
	KeyTriangular   spec.PolicyKey = "triangular"
	KeyJmodM        spec.PolicyKey = "jmodm"
	KeyMaxPart      spec.PolicyKey = "maxpart"
	KeyMinPart      spec.PolicyKey = "minpart"
)

// BuiltinRegistry 回傳包含所有參考 policy 的註冊表。
//
// 呼叫端可以再 Merge 自己的 registry 進來（例如 perfect cubes 之類的
// 自訂序列），方式與內建 policy 完全相同。
func BuiltinRegistry() *Registry {
	r := NewRegistry()

	// 這些 Register 只會在 key 重複時失敗，而內建 key 彼此不同。
	_ = r.Register(KeyUnrestricted, func(map[string]uint64) (Policy, error) {
		return Unrestricted{}, nil
	})
	_ = r.Register(KeyEven, func(map[string]uint64) (Policy, error) {
		return Even{}, nil
	})
	_ = r.Register(KeyOdd, func(map[string]uint64) (Policy, error) {
		return Odd{}, nil
	})
	_ = r.Register(KeyTriangular, func(map[string]uint64) (Policy, error) {
		return Triangular{}, nil
	})
	_ = r.Register(KeyJmodM, func(params map[string]uint64) (Policy, error) {
		j, okJ := params["j"]
		m, okM := params["m"]
		if !okJ || !okM {
			return nil, errs.NewFatal("jmodm policy requires params j and m")
		}
		if m == 0 || j == 0 || j > m {
			return nil, errs.NewFatal(fmt.Sprintf("jmodm policy requires 1 <= j <= m, got j=%d m=%d", j, m))
		}
		return JmodM{J: j, M: m}, nil
	})
	_ = r.Register(KeyMaxPart, func(params map[string]uint64) (Policy, error) {
		limit, ok := params["limit"]
		if !ok || limit == 0 {
			return nil, errs.NewFatal("maxpart policy requires param limit >= 1")
		}
		return MaxPart{Limit: limit}, nil
	})
	_ = r.Register(KeyMinPart, func(params map[string]uint64) (Policy, error) {
		min, ok := params["min"]
		if !ok || min == 0 {
			return nil, errs.NewFatal("minpart policy requires param min >= 1")
		}
		return MinPart{Min: min}, nil
	})

	return r
}
