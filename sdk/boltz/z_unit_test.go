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

package boltz

import (
	"errors"
	"math"
	"testing"

	"github.com/zintix-labs/partlab/sdk/core"
	"github.com/zintix-labs/partlab/sdk/part"
	"github.com/zintix-labs/partlab/sdk/policy"
)

func newSampler(pol policy.Policy, seed int64) *Sampler {
	return New(pol, core.New(core.Default().New(seed)))
}

func TestRejectionExactWeight(t *testing.T) {
	cases := []struct {
		name string
		pol  policy.Policy
		m    uint64
	}{
		{"unrestricted", policy.Unrestricted{}, 60},
		{"even", policy.Even{}, 60},
		{"odd", policy.Odd{}, 61},
		{"triangular", policy.Triangular{}, 50},
		{"maxpart10", policy.MaxPart{Limit: 10}, 60},
	}
	for _, c := range cases {
		s := newSampler(c.pol, 17)
		st := part.New()
		attempts, err := s.Rejection(st, c.m, Options{})
		if err != nil {
			t.Fatalf("%s: rejection failed: %v", c.name, err)
		}
		if attempts < 1 {
			t.Fatalf("%s: attempts=%d", c.name, attempts)
		}
		if st.Weight() != c.m {
			t.Fatalf("%s: weight=%d want %d", c.name, st.Weight(), c.m)
		}
	}
}

func TestPDCExactWeight(t *testing.T) {
	cases := []struct {
		name string
		pol  policy.Policy
		m    uint64
	}{
		{"unrestricted", policy.Unrestricted{}, 100},
		{"even", policy.Even{}, 100},
		{"odd", policy.Odd{}, 99},
		{"jmod5m7", policy.JmodM{J: 5, M: 7}, 100},
		{"minpart3", policy.MinPart{Min: 3}, 100},
	}
	for _, c := range cases {
		s := newSampler(c.pol, 23)
		st := part.New()
		if _, err := s.PDCSecondHalf(st, c.m, Options{}); err != nil {
			t.Fatalf("%s: pdc failed: %v", c.name, err)
		}
		if st.Weight() != c.m {
			t.Fatalf("%s: weight=%d want %d", c.name, st.Weight(), c.m)
		}
	}
}

func TestDrawRespectsPolicy(t *testing.T) {
	s := newSampler(policy.JmodM{J: 5, M: 7}, 31)
	st := part.New()
	for round := 0; round < 20; round++ {
		if _, err := s.Draw(st, 100, Options{}); err != nil {
			t.Fatalf("draw failed: %v", err)
		}
		st.ForEach(func(size, mult uint64) {
			if size%7 != 5 {
				t.Fatalf("part %d violates jmod5m7", size)
			}
		})
	}

	s2 := newSampler(policy.MaxPart{Limit: 10}, 37)
	for round := 0; round < 20; round++ {
		if _, err := s2.Draw(st, 60, Options{}); err != nil {
			t.Fatalf("draw failed: %v", err)
		}
		if st.Largest() > 10 {
			t.Fatalf("part %d exceeds limit 10", st.Largest())
		}
	}
}

func TestZeroTarget(t *testing.T) {
	s := newSampler(policy.Unrestricted{}, 41)
	st := part.New()
	st.Set(3, 3)

	attempts, err := s.Draw(st, 0, Options{})
	if err != nil || attempts != 0 {
		t.Fatalf("draw(0): attempts=%d err=%v", attempts, err)
	}
	if st.Weight() != 0 || st.Count() != 0 {
		t.Fatalf("draw(0) left residue: weight=%d", st.Weight())
	}

	// 不應消耗任何亂數：之後的序列與全新同 seed 核心一致
	c1 := core.New(core.Default().New(41))
	if s.c.Uint64() != c1.Uint64() {
		t.Fatalf("draw(0) consumed randomness")
	}
}

func TestReproducibility(t *testing.T) {
	for _, pol := range []policy.Policy{policy.Unrestricted{}, policy.Odd{}} {
		s1 := newSampler(pol, 43)
		s2 := newSampler(pol, 43)
		st1 := part.New()
		st2 := part.New()
		a1, err1 := s1.Draw(st1, 80, Options{})
		a2, err2 := s2.Draw(st2, 80, Options{})
		if err1 != nil || err2 != nil {
			t.Fatalf("draw failed: %v %v", err1, err2)
		}
		if a1 != a2 {
			t.Fatalf("attempts diverged: %d vs %d", a1, a2)
		}
		p1 := st1.Parts()
		p2 := st2.Parts()
		if len(p1) != len(p2) {
			t.Fatalf("parts diverged")
		}
		for i := range p1 {
			if p1[i] != p2[i] {
				t.Fatalf("parts diverged at %d", i)
			}
		}
	}
}

func TestBoltzmannMeanNearTarget(t *testing.T) {
	const m = 100
	const rounds = 2000
	s := newSampler(policy.Unrestricted{}, 47)
	st := part.New()

	var sum float64
	for i := 0; i < rounds; i++ {
		if err := s.RandomWeight(st, m, Options{}); err != nil {
			t.Fatalf("random weight failed: %v", err)
		}
		sum += float64(st.Weight())
	}
	mean := sum / rounds
	// 單次重量的標準差約 O(m^(3/4))，平均 2000 次後 ±10 已是很寬的帶
	if math.Abs(mean-m) > 10 {
		t.Fatalf("boltzmann mean %v too far from %d", mean, m)
	}
}

func TestExhaustedRetries(t *testing.T) {
	// even policy 永遠抽不中奇數目標
	s := newSampler(policy.Even{}, 53)
	st := part.New()
	attempts, err := s.Rejection(st, 61, Options{MaxAttempts: 50})
	if !errors.Is(err, ErrExhaustedRetries) {
		t.Fatalf("expected ErrExhaustedRetries, got %v", err)
	}
	if attempts != 50 {
		t.Fatalf("attempts=%d want 50", attempts)
	}

	// PDC 同樣:奇數目標對 even policy 的 diff 永遠不對齊
	if _, err := s.PDCSecondHalf(st, 61, Options{MaxAttempts: 50}); !errors.Is(err, ErrExhaustedRetries) {
		t.Fatalf("expected ErrExhaustedRetries from pdc, got %v", err)
	}
}

func TestInvalidPolicyLazyCheck(t *testing.T) {
	bad := policy.Func(func(k uint64) uint64 { return 5 }) // 常數序列
	s := newSampler(bad, 59)
	st := part.New()
	if _, err := s.Draw(st, 40, Options{}); !errors.Is(err, policy.ErrInvalidPolicy) {
		t.Fatalf("expected ErrInvalidPolicy, got %v", err)
	}

	empty := policy.Func(func(k uint64) uint64 { return 0 })
	s2 := newSampler(empty, 61)
	if _, err := s2.Draw(st, 40, Options{}); !errors.Is(err, policy.ErrInvalidPolicy) {
		t.Fatalf("expected ErrInvalidPolicy for empty support, got %v", err)
	}
}

func TestManualTilt(t *testing.T) {
	s := newSampler(policy.Unrestricted{}, 67)
	if got := s.Tilt(100, Options{ManualTilt: 0.5}); got != 0.5 {
		t.Fatalf("manual tilt ignored: %v", got)
	}
	// 0 表示交給解算器
	if got := s.Tilt(100, Options{}); got <= 0 || got >= 1 {
		t.Fatalf("solved tilt out of range: %v", got)
	}

	st := part.New()
	if _, err := s.Draw(st, 30, Options{ManualTilt: 0.9}); err != nil {
		t.Fatalf("draw with manual tilt failed: %v", err)
	}
	if st.Weight() != 30 {
		t.Fatalf("weight=%d want 30", st.Weight())
	}
}
