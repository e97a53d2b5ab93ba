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

package catalog

import (
	"errors"
	"testing"
	"testing/fstest"
)

func cfgFS() fstest.MapFS {
	return fstest.MapFS{
		"odd.yaml": &fstest.MapFile{Data: []byte(
			"preset_name: odd\npreset_id: 2\npolicy_key: odd\ndefault_target: 100\n")},
		"even.yaml": &fstest.MapFile{Data: []byte(
			"preset_name: even\npreset_id: 1\npolicy_key: even\ndefault_target: 100\n")},
	}
}

func TestRegisterAndLookup(t *testing.T) {
	c, err := New(cfgFS())
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}
	err = c.Register(
		Entry{PID: 1, Name: "Even", ConfigName: "even.yaml"},
		Entry{PID: 2, Name: "odd", ConfigName: "odd.yaml"},
	)
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	// 名稱正規化為小寫
	e, ok := c.GetByName("even")
	if !ok || e.PID != 1 {
		t.Fatalf("lookup by name failed: %+v %v", e, ok)
	}
	if _, ok := c.GetByID(2); !ok {
		t.Fatalf("lookup by id failed")
	}
	if ids := c.IDs(); len(ids) != 2 || ids[0] != 1 || ids[1] != 2 {
		t.Fatalf("ids not sorted: %v", ids)
	}
}

func TestRegisterDuplicates(t *testing.T) {
	c, _ := New(cfgFS())
	if err := c.Register(Entry{PID: 1, Name: "a", ConfigName: "even.yaml"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if err := c.Register(Entry{PID: 1, Name: "b", ConfigName: "odd.yaml"}); !errors.Is(err, ErrDupID) {
		t.Fatalf("expected ErrDupID, got %v", err)
	}
	if err := c.Register(Entry{PID: 9, Name: "a", ConfigName: "odd.yaml"}); !errors.Is(err, ErrDupName) {
		t.Fatalf("expected ErrDupName, got %v", err)
	}
}

func TestRegisterAtomicBatch(t *testing.T) {
	c, _ := New(cfgFS())
	err := c.Register(
		Entry{PID: 1, Name: "a", ConfigName: "even.yaml"},
		Entry{PID: 2, Name: "b", ConfigName: "nosuch.yaml"},
	)
	if err == nil {
		t.Fatalf("expected error for missing config")
	}
	if _, ok := c.GetByID(1); ok {
		t.Fatalf("failed batch registered partial entries")
	}
}

func TestFreeze(t *testing.T) {
	c, _ := New(cfgFS())
	_ = c.Register(Entry{PID: 1, Name: "even", ConfigName: "even.yaml"})
	c.Freeze()
	if !c.IsFrozen() {
		t.Fatalf("freeze not applied")
	}
	if err := c.Register(Entry{PID: 2, Name: "odd", ConfigName: "odd.yaml"}); err == nil {
		t.Fatalf("register after freeze must fail")
	}
}

func TestPresetSetting(t *testing.T) {
	c, _ := New(cfgFS())
	_ = c.Register(Entry{PID: 2, Name: "odd", ConfigName: "odd.yaml"})

	ps, err := c.PresetSettingById(2)
	if err != nil {
		t.Fatalf("setting by id failed: %v", err)
	}
	if ps.PresetName != "odd" || ps.PolicyKey != "odd" || ps.DefaultTarget != 100 {
		t.Fatalf("setting wrong: %+v", ps)
	}
	if _, err := c.PresetSettingById(99); err == nil {
		t.Fatalf("expected error for unknown id")
	}
}

func TestAutoRegister(t *testing.T) {
	c, err := New(cfgFS())
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}
	if err := c.AutoRegister(); err != nil {
		t.Fatalf("auto register failed: %v", err)
	}
	if _, ok := c.GetByName("even"); !ok {
		t.Fatalf("auto register missed even")
	}
	if _, ok := c.GetByID(2); !ok {
		t.Fatalf("auto register missed odd")
	}
}

func TestMultiFSDuplicateName(t *testing.T) {
	a := fstest.MapFS{"same.yaml": &fstest.MapFile{Data: []byte("x: 1\n")}}
	b := fstest.MapFS{"same.yaml": &fstest.MapFile{Data: []byte("x: 2\n")}}
	if _, err := New(a, b); err == nil {
		t.Fatalf("expected duplicate file error")
	}
}

func TestMultiFSRejectsNested(t *testing.T) {
	a := fstest.MapFS{"sub/x.yaml": &fstest.MapFile{Data: []byte("x: 1\n")}}
	if _, err := New(a); err == nil {
		t.Fatalf("expected flat-fs violation error")
	}
}
