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

// Package spec 定義 partlab 的設定型別（preset），以及設定檔的解碼與基本檢查。
package spec

import (
	"fmt"

	"github.com/zintix-labs/partlab/errs"
)

// PID 是 preset 的唯一識別碼（在同一個 Lab instance 內唯一）。
type PID uint

// PolicyKey 指向 policy registry 內的 builder。
type PolicyKey string

// Algorithm 選擇精確重量演算法。
type Algorithm string

const (
	// AlgPDC 是預設入口：PDC deterministic second half。
	AlgPDC Algorithm = "pdc"
	// AlgRejection 是基準演算法：整重量 rejection sampling。
	AlgRejection Algorithm = "rejection"
	// AlgBoltzmann 只做一次自由抽樣，重量是隨機的（期望值 = 目標）。
	AlgBoltzmann Algorithm = "boltzmann"
)

// PresetSetting 描述一個可抽樣的 partition 家族與它的預設參數。
//
// Params 的鍵依 PolicyKey 而定（例如 jmodm 需要 j 與 m，maxpart 需要
// limit）；沒有參數的 policy 允許 Params 為空。
type PresetSetting struct {
	PresetName    string            `yaml:"preset_name"    json:"preset_name"`
	PresetID      PID               `yaml:"preset_id"      json:"preset_id"`
	PolicyKey     PolicyKey         `yaml:"policy_key"     json:"policy_key"`
	Params        map[string]uint64 `yaml:"params"         json:"params"`
	DefaultTarget uint64            `yaml:"default_target" json:"default_target"`
	MaxAttempts   uint64            `yaml:"max_attempts"   json:"max_attempts"`
	ManualTilt    float64           `yaml:"manual_tilt"    json:"manual_tilt"`
}

// init 執行基本檢查，如需更多驗證可在此擴充。
func (ps *PresetSetting) init() error {
	return ps.valid()
}

func (ps *PresetSetting) valid() error {
	if ps.PresetName == "" {
		return errs.NewFatal("empty preset_name")
	}
	if ps.PolicyKey == "" {
		return errs.NewFatal(fmt.Sprintf("preset_name: %s err:empty policy_key", ps.PresetName))
	}

	// ManualTilt = 0 表示交給 tilt 解算器；非 0 時必須落在 (0,1)。
	if ps.ManualTilt < 0 || ps.ManualTilt >= 1 {
		return errs.NewFatal(fmt.Sprintf("preset_name: %s err:manual_tilt must be in [0,1)", ps.PresetName))
	}
	return nil
}
