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

// Package partlab 提供隨機整數 partition 實驗室的「組裝入口（assembler）」
// 與「運行入口（runtime entry）」。
//
// 它把三個地基組裝在一起，並提供建立 Generator 的入口：
//  1. Catalog：preset 目錄（SSOT），定義有哪些 partition 家族、各自的設定檔。
//  2. policy.Registry：PolicyKey -> builder，決定支援哪些 part size 序列。
//  3. core.PRNGFactory：亂數工廠，保證可重現（reproducible）與可審計。
//
// 設計重點：
//   - partlab 不綁定檔案路徑概念：設定檔來源一律以 fs.FS 注入
//     （go:embed / os.DirFS / 自製 multiFS 都可以）。
//   - Generator 是對外提供抽樣的最小單位；數學核心在 sdk 之下
//     （tilt 解算、Fristedt 抽樣、精確重量條件化）。
//
// 典型使用情境：
//   - 後端服務（HTTP）：由 Lab 建立 Generator，對外提供 /v1/draw。
//   - 模擬器（sim）：由 Lab 建立 Simulator 做大量抽樣與統計。
package partlab

import (
	"crypto/rand"
	"io/fs"
	"math"
	"math/big"

	"github.com/zintix-labs/partlab/catalog"
	"github.com/zintix-labs/partlab/errs"
	"github.com/zintix-labs/partlab/sdk/core"
	"github.com/zintix-labs/partlab/sdk/policy"
	"github.com/zintix-labs/partlab/spec"
)

// Configs 把一或多個設定檔來源（fs.FS）打包成 New() 需要的參數。
func Configs(cfgs ...fs.FS) []fs.FS {
	return cfgs
}

// Policies 把一或多個 policy 註冊表打包成 New() 需要的參數。
// 重複 PolicyKey 會在 New() 直接失敗（避免行為不確定）。
func Policies(regs ...*policy.Registry) []*policy.Registry {
	return regs
}

// Lab 是組裝器與運行入口：持有 preset 目錄、policy 註冊表與亂數工廠。
//
// 使用流程分兩階段：
//   - 組裝階段：建 catalog、合併 registries、檢查重複與缺漏。
//   - 執行階段：依 preset id 產生 Generator / Simulator。
//
// runtime 一旦開始（已建立 Generator 對外服務），不建議再變更
// Catalog/Registry。
type Lab struct {
	cat *catalog.Catalog
	reg *policy.Registry
	cf  core.PRNGFactory
	sum []catalog.Summary
}

// New 建立一個 Lab instance，preset 由呼叫端明確列出。
//
// 參數要求（合約的一部分）：
//   - cf 不能為 nil：沒有 RNG 工廠就無法建立可重現的核心。
//   - cfgs 至少一個：沒有設定檔來源，catalog 無法解析 PresetSetting。
//   - regs 至少一個：沒有 policy builders 無法把設定變成可抽樣的序列。
func New(cf core.PRNGFactory, cfgs []fs.FS, regs []*policy.Registry, entries ...catalog.Entry) (*Lab, error) {
	lab, err := assemble(cf, cfgs, regs)
	if err != nil {
		return nil, err
	}
	if err := lab.cat.Register(entries...); err != nil {
		return nil, err
	}
	return lab.finish()
}

// NewAuto 與 New 相同，但 preset 清單直接取自設定檔本身：
// 掃描所有設定檔，用檔內的 preset_id / preset_name 建目錄。
// 適合 demo 與測試；正式部署建議用 New 明確列出要上線的 preset。
func NewAuto(cf core.PRNGFactory, cfgs []fs.FS, regs []*policy.Registry) (*Lab, error) {
	lab, err := assemble(cf, cfgs, regs)
	if err != nil {
		return nil, err
	}
	if err := lab.cat.AutoRegister(); err != nil {
		return nil, err
	}
	return lab.finish()
}

func assemble(cf core.PRNGFactory, cfgs []fs.FS, regs []*policy.Registry) (*Lab, error) {
	if cf == nil {
		return nil, errs.NewFatal("prng factory is required")
	}
	if len(cfgs) == 0 {
		return nil, errs.NewFatal("at least one config fs is required")
	}
	if len(regs) == 0 {
		return nil, errs.NewFatal("at least one policy registry is required")
	}

	cat, err := catalog.New(cfgs...)
	if err != nil {
		return nil, err
	}
	reg, err := policy.MergeRegistry(regs...)
	if err != nil {
		return nil, err
	}
	return &Lab{cat: cat, reg: reg, cf: cf}, nil
}

// finish 凍結目錄並做跨層一致性檢查：每個 preset 的設定檔要能解析，
// PolicyKey 要有對應 builder，params 要能建出合法 policy。
// 組裝階段把錯誤全抓出來，runtime 才不會爆。
func (lab *Lab) finish() (*Lab, error) {
	for _, e := range lab.cat.All() {
		ps, err := lab.cat.PresetSettingById(e.PID)
		if err != nil {
			return nil, errs.Wrap(err, "preset config unreadable: "+e.Name)
		}
		if !lab.reg.IsExist(ps.PolicyKey) {
			return nil, errs.Fatalf("preset %s refers to unknown policy key %q", e.Name, ps.PolicyKey)
		}
		pol, err := lab.reg.Build(ps.PolicyKey, ps.Params)
		if err != nil {
			return nil, errs.Wrap(err, "preset policy build failed: "+e.Name)
		}
		// 前綴掃描，把明顯非遞增的序列擋在組裝階段
		if err := policy.Validate(pol, 64); err != nil {
			return nil, errs.Wrap(err, "preset policy invalid: "+e.Name)
		}
		lab.sum = append(lab.sum, catalog.Summary{
			PID:           e.PID,
			Name:          e.Name,
			PolicyKey:     ps.PolicyKey,
			DefaultTarget: ps.DefaultTarget,
		})
	}
	lab.cat.Freeze()
	return lab, nil
}

// EntryById 查詢目錄條目。
func (lab *Lab) EntryById(id spec.PID) (catalog.Entry, bool) {
	return lab.cat.GetByID(id)
}

// PresetSettingById 解析並回傳 preset 設定。
func (lab *Lab) PresetSettingById(id spec.PID) (*spec.PresetSetting, error) {
	return lab.cat.PresetSettingById(id)
}

// Summaries 回傳所有 preset 的摘要（穩定排序，依 PID）。
func (lab *Lab) Summaries() []catalog.Summary {
	return append([]catalog.Summary(nil), lab.sum...)
}

// NewGenerator 以加密隨機 seed 建立 Generator。
func (lab *Lab) NewGenerator(id spec.PID) (*Generator, error) {
	seed, err := cryptoSeed()
	if err != nil {
		return nil, err
	}
	return lab.NewGeneratorWithSeed(id, seed)
}

// NewGeneratorWithSeed 以指定 seed 建立 Generator（測試/回放用）。
func (lab *Lab) NewGeneratorWithSeed(id spec.PID, seed int64) (*Generator, error) {
	ps, pol, err := lab.resolve(id)
	if err != nil {
		return nil, err
	}
	return newGeneratorWithSeed(ps, pol, lab.cf, seed), nil
}

// NewGeneratorByName 同 NewGenerator，以 preset 名稱索引。
func (lab *Lab) NewGeneratorByName(name string) (*Generator, error) {
	e, ok := lab.cat.GetByName(name)
	if !ok {
		return nil, errs.NewWarn("name does not exist in catalog")
	}
	return lab.NewGenerator(e.PID)
}

// NewSimulator 以加密隨機 seed 建立 Simulator。
func (lab *Lab) NewSimulator(id spec.PID) (*Simulator, error) {
	seed, err := cryptoSeed()
	if err != nil {
		return nil, err
	}
	return lab.NewSimulatorWithSeed(id, seed)
}

// NewSimulatorWithSeed 以指定 seed 建立 Simulator；多 worker 的子 seed
// 由這個 seed 決定性派生，整場模擬可重現。
func (lab *Lab) NewSimulatorWithSeed(id spec.PID, seed int64) (*Simulator, error) {
	ps, pol, err := lab.resolve(id)
	if err != nil {
		return nil, err
	}
	return newSimulatorWithSeed(ps, pol, lab.cf, seed), nil
}

// NewSimulatorByJSON 以外部送入的 JSON 設定建立 Simulator，不經過目錄。
// PolicyKey 仍必須存在於組裝時的 registry。
func (lab *Lab) NewSimulatorByJSON(data []byte, seed int64) (*Simulator, error) {
	ps, err := spec.GetPresetSettingByJSON(data)
	if err != nil {
		return nil, err
	}
	pol, err := lab.reg.Build(ps.PolicyKey, ps.Params)
	if err != nil {
		return nil, err
	}
	if err := policy.Validate(pol, 64); err != nil {
		return nil, err
	}
	return newSimulatorWithSeed(ps, pol, lab.cf, seed), nil
}

func (lab *Lab) resolve(id spec.PID) (*spec.PresetSetting, policy.Policy, error) {
	ps, err := lab.cat.PresetSettingById(id)
	if err != nil {
		return nil, nil, err
	}
	pol, err := lab.reg.Build(ps.PolicyKey, ps.Params)
	if err != nil {
		return nil, nil, err
	}
	return ps, pol, nil
}

func cryptoSeed() (int64, error) {
	seed, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	if err != nil {
		return 0, errs.Wrap(err, "crypto seed failed")
	}
	return seed.Int64(), nil
}
