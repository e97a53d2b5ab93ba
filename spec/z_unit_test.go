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
	"testing"
)

const yamlPreset = `
preset_name: jmod5m7
preset_id: 4
policy_key: jmodm
params:
  j: 5
  m: 7
default_target: 100
max_attempts: 100000
manual_tilt: 0
`

func TestGetPresetSettingByYAML(t *testing.T) {
	ps, err := GetPresetSettingByYAML([]byte(yamlPreset))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if ps.PresetName != "jmod5m7" || ps.PresetID != 4 {
		t.Fatalf("identity wrong: %s/%d", ps.PresetName, ps.PresetID)
	}
	if ps.PolicyKey != "jmodm" {
		t.Fatalf("policy key wrong: %s", ps.PolicyKey)
	}
	if ps.Params["j"] != 5 || ps.Params["m"] != 7 {
		t.Fatalf("params wrong: %v", ps.Params)
	}
	if ps.DefaultTarget != 100 || ps.MaxAttempts != 100000 {
		t.Fatalf("targets wrong: %d/%d", ps.DefaultTarget, ps.MaxAttempts)
	}
}

func TestGetPresetSettingByJSON(t *testing.T) {
	data := []byte(`{
		"preset_name": "even",
		"preset_id": 1,
		"policy_key": "even",
		"default_target": 50
	}`)
	ps, err := GetPresetSettingByJSON(data)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if ps.PresetName != "even" || ps.PolicyKey != "even" || ps.DefaultTarget != 50 {
		t.Fatalf("fields wrong: %+v", ps)
	}
}

func TestPresetSettingValidation(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"empty name", `{"preset_name": "", "policy_key": "odd"}`},
		{"empty policy key", `{"preset_name": "x", "policy_key": ""}`},
		{"manual tilt too high", `{"preset_name": "x", "policy_key": "odd", "manual_tilt": 1.0}`},
		{"manual tilt negative", `{"preset_name": "x", "policy_key": "odd", "manual_tilt": -0.1}`},
	}
	for _, c := range cases {
		if _, err := GetPresetSettingByJSON([]byte(c.data)); err == nil {
			t.Fatalf("%s: expected error", c.name)
		}
	}
}

func TestBadYAML(t *testing.T) {
	if _, err := GetPresetSettingByYAML([]byte("preset_name: [")); err == nil {
		t.Fatalf("expected yaml error")
	}
}
