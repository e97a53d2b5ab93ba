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
	"errors"
	"testing"
)

func TestBuiltinSequences(t *testing.T) {
	cases := []struct {
		name string
		p    Policy
		want []uint64 // index 1..len
	}{
		{"unrestricted", Unrestricted{}, []uint64{1, 2, 3, 4, 5}},
		{"even", Even{}, []uint64{2, 4, 6, 8, 10}},
		{"odd", Odd{}, []uint64{1, 3, 5, 7, 9}},
		{"triangular", Triangular{}, []uint64{1, 3, 6, 10, 15}},
		{"jmod5m7", JmodM{J: 5, M: 7}, []uint64{5, 12, 19, 26, 33}},
		{"maxpart3", MaxPart{Limit: 3}, []uint64{1, 2, 3, 0, 0}},
		{"minpart4", MinPart{Min: 4}, []uint64{4, 5, 6, 7, 8}},
	}
	for _, c := range cases {
		for i, want := range c.want {
			if got := c.p.Index(uint64(i + 1)); got != want {
				t.Fatalf("%s: index(%d)=%d want %d", c.name, i+1, got, want)
			}
		}
	}
}

func TestValidate(t *testing.T) {
	for _, p := range []Policy{Unrestricted{}, Even{}, Odd{}, Triangular{}, JmodM{J: 2, M: 3}, MaxPart{Limit: 5}, MinPart{Min: 2}} {
		if err := Validate(p, 64); err != nil {
			t.Fatalf("builtin policy rejected: %v", err)
		}
	}

	// 非遞增序列
	bad := Func(func(k uint64) uint64 { return 5 })
	if err := Validate(bad, 8); !errors.Is(err, ErrInvalidPolicy) {
		t.Fatalf("expected ErrInvalidPolicy, got %v", err)
	}

	// 空支撐集
	empty := Func(func(k uint64) uint64 { return 0 })
	if err := Validate(empty, 8); !errors.Is(err, ErrInvalidPolicy) {
		t.Fatalf("expected ErrInvalidPolicy for empty support, got %v", err)
	}

	// 有限支撐集在中途結束是合法的
	if err := Validate(MaxPart{Limit: 3}, 64); err != nil {
		t.Fatalf("finite support rejected: %v", err)
	}
}

func TestRegistryBuild(t *testing.T) {
	r := BuiltinRegistry()

	p, err := r.Build(KeyJmodM, map[string]uint64{"j": 5, "m": 7})
	if err != nil {
		t.Fatalf("build jmodm failed: %v", err)
	}
	if p.Index(1) != 5 || p.Index(2) != 12 {
		t.Fatalf("jmodm sequence wrong")
	}

	if _, err := r.Build(KeyJmodM, map[string]uint64{"j": 9, "m": 7}); err == nil {
		t.Fatalf("expected error for j > m")
	}
	if _, err := r.Build(KeyMaxPart, nil); err == nil {
		t.Fatalf("expected error for missing limit")
	}
	if _, err := r.Build("nosuch", nil); err == nil {
		t.Fatalf("expected error for unknown key")
	}
}

func TestMergeRegistryDuplicate(t *testing.T) {
	a := NewRegistry()
	b := NewRegistry()
	builder := func(map[string]uint64) (Policy, error) { return Unrestricted{}, nil }
	if err := a.Register("dup", builder); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if err := b.Register("dup", builder); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, err := MergeRegistry(a, b); err == nil {
		t.Fatalf("expected duplicate key error")
	}
}
