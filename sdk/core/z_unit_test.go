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

package core

import (
	"testing"
)

func TestCoreDeterminism(t *testing.T) {
	c1 := New(Default().New(7))
	c2 := New(Default().New(7))
	for i := 0; i < 5; i++ {
		if c1.Uint64() != c2.Uint64() {
			t.Fatalf("Uint64 mismatch at %d", i)
		}
	}
	if c1.IntN(10) != c2.IntN(10) {
		t.Fatalf("IntN mismatch")
	}
	if c1.Float64() != c2.Float64() {
		t.Fatalf("Float64 mismatch")
	}
}

func TestCoreSeedSeparation(t *testing.T) {
	c1 := New(Default().New(7))
	c2 := New(Default().New(8))
	same := 0
	for i := 0; i < 16; i++ {
		if c1.Uint64() == c2.Uint64() {
			same++
		}
	}
	if same == 16 {
		t.Fatalf("different seeds produced identical streams")
	}
}

func TestFloat64Range(t *testing.T) {
	c := New(Default().New(9))
	for i := 0; i < 10000; i++ {
		v := c.Float64()
		if v < 0 || v >= 1 {
			t.Fatalf("Float64 out of [0,1): %v", v)
		}
	}
}

func TestOpenFloat64Positive(t *testing.T) {
	c := New(Default().New(11))
	for i := 0; i < 10000; i++ {
		if v := c.OpenFloat64(); v <= 0 || v >= 1 {
			t.Fatalf("OpenFloat64 out of (0,1): %v", v)
		}
	}
}

func TestIntNBounds(t *testing.T) {
	c := New(Default().New(13))
	if got := c.IntN(0); got != -1 {
		t.Fatalf("expected -1 for IntN(0), got %d", got)
	}
	if got := c.IntN(-3); got != -1 {
		t.Fatalf("expected -1 for IntN(-3), got %d", got)
	}
	for i := 0; i < 1000; i++ {
		if v := c.IntN(10); v < 0 || v >= 10 {
			t.Fatalf("IntN(10) out of range: %d", v)
		}
	}
}

func TestSnapshotRestoreReplay(t *testing.T) {
	r := NewPCG64WithSeed(21)
	for i := 0; i < 10; i++ {
		r.Uint64()
	}
	snap, err := r.Snapshot()
	if err != nil {
		t.Fatalf("snapshot failed: %v", err)
	}
	want := make([]uint64, 8)
	for i := range want {
		want[i] = r.Uint64()
	}

	if err := r.Restore(snap); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	for i := range want {
		if got := r.Uint64(); got != want[i] {
			t.Fatalf("replay mismatch at %d: got %d want %d", i, got, want[i])
		}
	}
}
