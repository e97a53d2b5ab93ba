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

package tilt

import (
	"math"
	"testing"

	"github.com/zintix-labs/partlab/sdk/policy"
)

func TestSolveZeroTarget(t *testing.T) {
	if x := Solve(policy.Unrestricted{}, 0); x != 0 {
		t.Fatalf("expected 0 for target 0, got %v", x)
	}
}

func TestSolveTableRange(t *testing.T) {
	for _, m := range []uint64{1, 2, 10, 50, 100, 200} {
		x := Solve(policy.Unrestricted{}, m)
		if x <= 0 || x >= 1 {
			t.Fatalf("m=%d: x=%v out of (0,1)", m, x)
		}
		// 查表值應該讓期望重量貼近目標（表只有 5 位有效數字，
		// 而期望重量對 x 很敏感，給相對寬的容忍）
		ew := ExpectedWeight(policy.Unrestricted{}, x, m)
		if rel := math.Abs(ew-float64(m)) / float64(m); rel > 0.05 {
			t.Fatalf("m=%d: expected weight %v too far from target (rel=%v)", m, ew, rel)
		}
	}
}

func TestSolveTableMonotone(t *testing.T) {
	prev := Solve(policy.Unrestricted{}, 1)
	for m := uint64(2); m <= 200; m++ {
		x := Solve(policy.Unrestricted{}, m)
		if x < prev {
			t.Fatalf("tilt not increasing at m=%d: %v < %v", m, x, prev)
		}
		prev = x
	}
}

func TestSolveAsymptotic(t *testing.T) {
	m := uint64(100000)
	x := Solve(policy.Unrestricted{}, m)
	want := 1 - math.Pi/math.Sqrt(6*float64(m))
	if math.Abs(x-want) > 1e-12 {
		t.Fatalf("asymptotic mismatch: got %v want %v", x, want)
	}
}

func TestSolveBisectionRestricted(t *testing.T) {
	cases := []policy.Policy{
		policy.Even{},
		policy.Odd{},
		policy.Triangular{},
		policy.JmodM{J: 5, M: 7},
		policy.MaxPart{Limit: 10},
		policy.MinPart{Min: 3},
	}
	for _, p := range cases {
		for _, m := range []uint64{20, 100, 1000} {
			x := Solve(p, m)
			if x <= 0 || x >= 1 {
				t.Fatalf("policy %T m=%d: x=%v out of (0,1)", p, m, x)
			}
			ew := ExpectedWeight(p, x, m)
			// 二分收斂判準是殘差差 <= 1e-5，解本身應該壓得很準
			if math.Abs(ew-float64(m)) > 1 {
				t.Fatalf("policy %T m=%d: expected weight %v far from target", p, m, ew)
			}
		}
	}
}

func TestBisectionAgreesWithTable(t *testing.T) {
	// unrestricted 走二分（繞過 type switch 的捷徑）應該跟查表一致
	u := policy.Func(func(k uint64) uint64 { return k })
	for _, m := range []uint64{10, 50, 150} {
		xt := Solve(policy.Unrestricted{}, m)
		xb := Solve(u, m)
		if math.Abs(xt-xb) > 1e-3 {
			t.Fatalf("m=%d: table %v vs bisection %v", m, xt, xb)
		}
	}
}

func TestExpectedWeightTruncation(t *testing.T) {
	// 有限支撐集：i 超過支撐集結尾就停
	ew := ExpectedWeight(policy.MaxPart{Limit: 3}, 0.5, 100)
	var want float64
	for i := 1; i <= 3; i++ {
		xi := math.Pow(0.5, float64(i))
		want += float64(i) * xi / (1 - xi)
	}
	if math.Abs(ew-want) > 1e-12 {
		t.Fatalf("truncation wrong: got %v want %v", ew, want)
	}

	// i > m 截斷
	ew2 := ExpectedWeight(policy.Unrestricted{}, 0.5, 2)
	x1 := 0.5
	x2 := 0.25
	want2 := 1*x1/(1-x1) + 2*x2/(1-x2)
	if math.Abs(ew2-want2) > 1e-12 {
		t.Fatalf("m truncation wrong: got %v want %v", ew2, want2)
	}
}
