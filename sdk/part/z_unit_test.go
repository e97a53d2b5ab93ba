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

package part

import (
	"slices"
	"testing"
)

func TestStateAccumulators(t *testing.T) {
	s := New()
	if s.Weight() != 0 || s.Count() != 0 || s.Distinct() != 0 || s.Largest() != 0 {
		t.Fatalf("fresh state not empty")
	}

	s.Set(3, 2) // 3+3
	s.Set(5, 1) // 5
	s.Set(1, 4) // 1*4

	if got := s.Weight(); got != 15 {
		t.Fatalf("weight=%d want 15", got)
	}
	if got := s.Count(); got != 7 {
		t.Fatalf("count=%d want 7", got)
	}
	if got := s.Distinct(); got != 3 {
		t.Fatalf("distinct=%d want 3", got)
	}
	if got := s.Largest(); got != 5 {
		t.Fatalf("largest=%d want 5", got)
	}
}

func TestSetZeroDeletes(t *testing.T) {
	s := New()
	s.Set(4, 2)
	s.Set(4, 0)
	if s.Mult(4) != 0 || s.Distinct() != 0 {
		t.Fatalf("set zero did not delete entry")
	}
}

func TestSizesAndParts(t *testing.T) {
	s := New()
	s.Set(2, 3)
	s.Set(7, 1)
	s.Set(4, 2)

	sizes := s.Sizes()
	if !slices.Equal(sizes, []uint64{2, 4, 7}) {
		t.Fatalf("sizes=%v", sizes)
	}

	parts := s.Parts()
	if !slices.Equal(parts, []uint64{7, 4, 4, 2, 2, 2}) {
		t.Fatalf("parts=%v", parts)
	}
}

func TestClearKeepsWorking(t *testing.T) {
	s := New()
	s.Set(9, 9)
	s.Clear()
	if s.Weight() != 0 || s.Count() != 0 {
		t.Fatalf("clear left residue")
	}
	s.Set(2, 1)
	if s.Weight() != 2 {
		t.Fatalf("state unusable after clear")
	}
}

func TestForEachVisitsAll(t *testing.T) {
	s := New()
	s.Set(1, 2)
	s.Set(6, 1)
	seen := map[uint64]uint64{}
	s.ForEach(func(size, mult uint64) { seen[size] = mult })
	if len(seen) != 2 || seen[1] != 2 || seen[6] != 1 {
		t.Fatalf("foreach wrong: %v", seen)
	}
}
