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

package partlab

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/zintix-labs/partlab/sdk/core"
	"github.com/zintix-labs/partlab/sdk/policy"
	"github.com/zintix-labs/partlab/spec"
)

func testCfgFS() fstest.MapFS {
	return fstest.MapFS{
		"unrestricted.yaml": &fstest.MapFile{Data: []byte(
			"preset_name: unrestricted\npreset_id: 0\npolicy_key: unrestricted\ndefault_target: 100\n")},
		"even.yaml": &fstest.MapFile{Data: []byte(
			"preset_name: even\npreset_id: 1\npolicy_key: even\ndefault_target: 100\nmax_attempts: 100000\n")},
		"jmod5m7.yaml": &fstest.MapFile{Data: []byte(
			"preset_name: jmod5m7\npreset_id: 4\npolicy_key: jmodm\nparams:\n  j: 5\n  m: 7\ndefault_target: 100\n")},
	}
}

func testLab(t *testing.T) *Lab {
	t.Helper()
	lab, err := NewAuto(
		core.Default(),
		Configs(testCfgFS()),
		Policies(policy.BuiltinRegistry()),
	)
	if err != nil {
		t.Fatalf("new lab failed: %v", err)
	}
	return lab
}

func TestNewAutoAndSummaries(t *testing.T) {
	lab := testLab(t)
	sums := lab.Summaries()
	if len(sums) != 3 {
		t.Fatalf("summaries=%d want 3", len(sums))
	}
	if sums[0].PID != 0 || sums[0].PolicyKey != "unrestricted" {
		t.Fatalf("summary[0] wrong: %+v", sums[0])
	}
}

func TestNewRejectsBadAssembly(t *testing.T) {
	if _, err := New(nil, Configs(testCfgFS()), Policies(policy.BuiltinRegistry())); err == nil {
		t.Fatalf("nil factory accepted")
	}
	if _, err := New(core.Default(), nil, Policies(policy.BuiltinRegistry())); err == nil {
		t.Fatalf("empty configs accepted")
	}
	if _, err := New(core.Default(), Configs(testCfgFS()), nil); err == nil {
		t.Fatalf("empty registries accepted")
	}
}

func TestFinishCatchesUnknownPolicyKey(t *testing.T) {
	bad := fstest.MapFS{
		"x.yaml": &fstest.MapFile{Data: []byte(
			"preset_name: x\npreset_id: 9\npolicy_key: nosuch\n")},
	}
	_, err := NewAuto(core.Default(), Configs(bad), Policies(policy.BuiltinRegistry()))
	if err == nil {
		t.Fatalf("unknown policy key accepted")
	}
}

func TestGeneratorDrawExact(t *testing.T) {
	lab := testLab(t)
	g, err := lab.NewGeneratorWithSeed(0, 71)
	if err != nil {
		t.Fatalf("new generator failed: %v", err)
	}
	attempts, err := g.Draw(100)
	if err != nil {
		t.Fatalf("draw failed: %v", err)
	}
	if attempts < 1 || g.Weight() != 100 {
		t.Fatalf("attempts=%d weight=%d", attempts, g.Weight())
	}
	if g.Stream() == "" {
		t.Fatalf("empty stream for non-empty partition")
	}
}

func TestGeneratorByNameAndReproducible(t *testing.T) {
	lab := testLab(t)
	g1, err := lab.NewGeneratorWithSeed(4, 73)
	if err != nil {
		t.Fatalf("new generator failed: %v", err)
	}
	g2, err := lab.NewGeneratorWithSeed(4, 73)
	if err != nil {
		t.Fatalf("new generator failed: %v", err)
	}
	if _, err := g1.Draw(100); err != nil {
		t.Fatalf("draw failed: %v", err)
	}
	if _, err := g2.Draw(100); err != nil {
		t.Fatalf("draw failed: %v", err)
	}
	if g1.Stream() != g2.Stream() {
		t.Fatalf("same seed diverged: %s vs %s", g1.Stream(), g2.Stream())
	}
	// jmod5m7 的每個 part ≡ 5 (mod 7)
	for _, p := range g1.Parts() {
		if p%7 != 5 {
			t.Fatalf("part %d violates preset policy", p)
		}
	}

	if _, err := lab.NewGeneratorByName("nosuch"); err == nil {
		t.Fatalf("unknown name accepted")
	}
}

func TestGeneratorSnapshotRestore(t *testing.T) {
	lab := testLab(t)
	g, _ := lab.NewGeneratorWithSeed(0, 79)
	if _, err := g.Draw(60); err != nil {
		t.Fatalf("draw failed: %v", err)
	}
	snap, err := g.Snapshot()
	if err != nil {
		t.Fatalf("snapshot failed: %v", err)
	}
	if _, err := g.Draw(60); err != nil {
		t.Fatalf("draw failed: %v", err)
	}
	first := g.Stream()

	if err := g.Restore(snap); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if _, err := g.Draw(60); err != nil {
		t.Fatalf("draw failed: %v", err)
	}
	if g.Stream() != first {
		t.Fatalf("replay diverged: %s vs %s", g.Stream(), first)
	}
}

func TestSimulatorSim(t *testing.T) {
	lab := testLab(t)
	sim, err := lab.NewSimulatorWithSeed(0, 83)
	if err != nil {
		t.Fatalf("new simulator failed: %v", err)
	}
	st, used, err := sim.Sim(50, 200, spec.AlgPDC, false)
	if err != nil {
		t.Fatalf("sim failed: %v", err)
	}
	if st.Summary.Rounds != 200 || st.Summary.ExactRounds != 200 {
		t.Fatalf("rounds=%d exact=%d", st.Summary.Rounds, st.Summary.ExactRounds)
	}
	if st.Summary.WeightMean != 50 {
		t.Fatalf("weight mean=%v want 50", st.Summary.WeightMean)
	}
	if used < 0 {
		t.Fatalf("negative duration")
	}

	if _, _, err := sim.Sim(50, 0, spec.AlgPDC, false); err == nil {
		t.Fatalf("rounds=0 accepted")
	}
	if _, _, err := sim.Sim(50, 10, "nosuch", false); err == nil {
		t.Fatalf("unknown alg accepted")
	}
}

func TestSimulatorSimMP(t *testing.T) {
	lab := testLab(t)
	sim, err := lab.NewSimulatorWithSeed(0, 89)
	if err != nil {
		t.Fatalf("new simulator failed: %v", err)
	}
	st, _, err := sim.SimMP(50, 100, 4, spec.AlgRejection, false)
	if err != nil {
		t.Fatalf("simmp failed: %v", err)
	}
	if st.Summary.Rounds != 400 || st.Summary.ExactRounds != 400 {
		t.Fatalf("rounds=%d exact=%d", st.Summary.Rounds, st.Summary.ExactRounds)
	}

	if _, _, err := sim.SimMP(50, 10, 0, spec.AlgPDC, false); err == nil {
		t.Fatalf("workers=0 accepted")
	}
}

func TestSimulatorBudgetSurfaced(t *testing.T) {
	lab := testLab(t)
	sim, err := lab.NewSimulatorWithSeed(1, 97) // even preset, max_attempts 100000
	if err != nil {
		t.Fatalf("new simulator failed: %v", err)
	}
	// even policy 抽不中奇數目標；preset 的 max_attempts 讓它回報而不是卡死
	_, _, err = sim.Sim(61, 1, spec.AlgPDC, false)
	if err == nil {
		t.Fatalf("unreachable target did not error")
	}
}

func TestNewSimulatorByJSON(t *testing.T) {
	lab := testLab(t)
	cfg := []byte(`{"preset_name":"adhoc","preset_id":77,"policy_key":"odd","default_target":30}`)
	sim, err := lab.NewSimulatorByJSON(cfg, 101)
	if err != nil {
		t.Fatalf("by json failed: %v", err)
	}
	st, _, err := sim.Sim(31, 50, spec.AlgPDC, false)
	if err != nil {
		t.Fatalf("sim failed: %v", err)
	}
	if st.Summary.ExactRounds != 50 {
		t.Fatalf("exact=%d want 50", st.Summary.ExactRounds)
	}

	if _, err := lab.NewSimulatorByJSON([]byte(`{"policy_key":"odd"}`), 1); err == nil {
		t.Fatalf("invalid setting accepted")
	}
}

func TestGeneratorDrawAlgZeroTarget(t *testing.T) {
	lab := testLab(t)
	g, _ := lab.NewGeneratorWithSeed(0, 103)
	attempts, err := g.Draw(0)
	if err != nil || attempts != 0 {
		t.Fatalf("draw(0): attempts=%d err=%v", attempts, err)
	}
	if g.Weight() != 0 || g.Stream() != "" {
		t.Fatalf("draw(0) produced parts: %q", g.Stream())
	}
	var b strings.Builder
	if err := g.Ferrers(&b); err != nil {
		t.Fatalf("ferrers failed: %v", err)
	}
	if b.String() != "" {
		t.Fatalf("ferrers for empty partition: %q", b.String())
	}
}

func TestResolveUnknownPreset(t *testing.T) {
	lab := testLab(t)
	if _, err := lab.NewGenerator(99); err == nil {
		t.Fatalf("unknown preset accepted")
	}
	if _, err := lab.NewSimulatorWithSeed(99, 1); err == nil {
		t.Fatalf("unknown preset accepted for simulator")
	}
}
