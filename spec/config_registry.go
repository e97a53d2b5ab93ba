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

package spec

import (
	"encoding/json"

	"github.com/zintix-labs/partlab/errs"
	"gopkg.in/yaml.v3"
)

// GetPresetSettingByYAML
// 會讀取 YAML 設定、執行基本檢查後回傳。
func GetPresetSettingByYAML(data []byte) (*PresetSetting, error) {
	ps := &PresetSetting{}
	if err := yaml.Unmarshal(data, ps); err != nil {
		return nil, errs.Wrap(err, "failed to unmarshall yaml")
	}

	if err := ps.init(); err != nil {
		return nil, errs.Wrap(err, "preset setting initialized err")
	}

	return ps, nil
}

// GetPresetSettingByJSON
// 會讀取 Json 設定、執行基本檢查後回傳
func GetPresetSettingByJSON(data []byte) (*PresetSetting, error) {
	ps := &PresetSetting{}
	if err := json.Unmarshal(data, ps); err != nil {
		return nil, errs.Wrap(err, "can not unmarshall json byte")
	}

	if err := ps.init(); err != nil {
		return nil, errs.Wrap(err, "preset setting initialized err")
	}

	return ps, nil
}
