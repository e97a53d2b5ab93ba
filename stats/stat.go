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

// Package stats 彙整一批抽樣的統計報告。
//
// 紀錄階段只累積原始數列（避免熱路徑上的轉型與重算），Done() 才一次
// 計算均值/標準差/信賴區間並鎖定報告。
package stats

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/zintix-labs/partlab/sdk/part"
	"github.com/zintix-labs/partlab/spec"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var lang language.Tag = language.English

// 信賴區間
type CI struct {
	Lo float64 `json:"Lo"`
	Hi float64 `json:"Hi"`
}

// DrawReport 一批 partition 抽樣的統計報告
type DrawReport struct {
	Summary *SummaryReport `json:"Summary"`
	Dist    *DistReport    `json:"Dist"`
	isDone  bool

	// 原始數列，Done() 之後不再更動
	weights  []float64
	counts   []float64
	distinct []float64
	largest  []float64
}

type SummaryReport struct {
	PresetName    string         `json:"PresetName"`
	PresetId      spec.PID       `json:"PresetId"`
	PolicyKey     spec.PolicyKey `json:"PolicyKey"`
	Algorithm     spec.Algorithm `json:"Algorithm"`
	Target        uint64         `json:"Target"`
	Rounds        int            `json:"Rounds"`
	ExactRounds   int            `json:"ExactRounds"`
	TotalAttempts uint64         `json:"TotalAttempts"`
	AcceptRate    float64        `json:"AcceptRate"`
	AcceptCI      CI             `json:"AcceptCI"`
	WeightMean    float64        `json:"WeightMean"`
	WeightStd     float64        `json:"WeightStd"`
	WeightCI      CI             `json:"WeightCI"`
	PartsMean     float64        `json:"PartsMean"`
	DistinctMean  float64        `json:"DistinctMean"`
	LargestMean   float64        `json:"LargestMean"`
}

// DistReport 最大 part 相對目標重量的落點分佈
type DistReport struct {
	Bucket  []string  `json:"Bucket"`
	Collect []int     `json:"Collect"`
	Dist    []float64 `json:"Dist"`
}

// NewDrawReport 建立空報告。
func NewDrawReport(name string, pid spec.PID, key spec.PolicyKey, alg spec.Algorithm, target uint64) *DrawReport {
	return &DrawReport{
		Summary: &SummaryReport{
			PresetName: name,
			PresetId:   pid,
			PolicyKey:  key,
			Algorithm:  alg,
			Target:     target,
		},
		Dist:     newDistReport(),
		weights:  make([]float64, 0, 1024),
		counts:   make([]float64, 0, 1024),
		distinct: make([]float64, 0, 1024),
		largest:  make([]float64, 0, 1024),
	}
}

// ============================================================
// ** 公開方法 **
// ============================================================

// Record 紀錄一輪抽樣結果。attempts 為該輪的 rejection 迴圈次數
// （boltzmann 自由抽樣固定為 1）。併發模擬請每個 worker 各自持有
// 一份報告，最後 Merge。
func (s *DrawReport) Record(st *part.State, attempts uint64) {
	if s.isDone {
		return
	}
	w := st.Weight()
	s.weights = append(s.weights, float64(w))
	s.counts = append(s.counts, float64(st.Count()))
	s.distinct = append(s.distinct, float64(st.Distinct()))
	s.largest = append(s.largest, float64(st.Largest()))

	s.Summary.Rounds++
	s.Summary.TotalAttempts += attempts
	if w == s.Summary.Target {
		s.Summary.ExactRounds++
	}
	s.Dist.collect(st.Largest(), s.Summary.Target)
}

// Merge 把另一份報告的原始數列併進來（兩份都必須尚未 Done）。
func (s *DrawReport) Merge(o *DrawReport) {
	if s.isDone || o.isDone {
		return
	}
	s.weights = append(s.weights, o.weights...)
	s.counts = append(s.counts, o.counts...)
	s.distinct = append(s.distinct, o.distinct...)
	s.largest = append(s.largest, o.largest...)
	s.Summary.Rounds += o.Summary.Rounds
	s.Summary.ExactRounds += o.Summary.ExactRounds
	s.Summary.TotalAttempts += o.Summary.TotalAttempts
	s.Dist.merge(o.Dist)
}

// Done 將累積數列轉換為最終統計結果並鎖定報告。
func (s *DrawReport) Done() {
	if s.isDone {
		return
	}
	s.Summary.WeightMean, s.Summary.WeightStd, s.Summary.WeightCI = meanCI(s.weights, 0.95)
	s.Summary.PartsMean, _, _ = meanCI(s.counts, 0.95)
	s.Summary.DistinctMean, _, _ = meanCI(s.distinct, 0.95)
	s.Summary.LargestMean, _, _ = meanCI(s.largest, 0.95)

	// 接受率 = 成功輪數 / 總嘗試次數（Clopper–Pearson 95% CI）
	if s.Summary.TotalAttempts > 0 {
		s.Summary.AcceptRate, s.Summary.AcceptCI = proportionCICP(
			s.Summary.Rounds, int(s.Summary.TotalAttempts), 0.95)
	}
	s.Dist.done()
	s.isDone = true
}

func (s *DrawReport) WriteWith(w io.Writer, rep DrawReportRender) error {
	s.Done()
	return rep.Write(w, s)
}

// StdOut 輸出終端報表。
func (s *DrawReport) StdOut(ut time.Duration) {
	s.Done()
	formatDuration(ut, s.Summary.Rounds)
	sk, sm := s.fmtBasic()
	fmt.Println(fmtTable(s.Summary.PresetName, sk, sm))
}

// ============================================================
// ** 內部方法 **
// ============================================================

func formatDuration(d time.Duration, rounds int) {
	p := message.NewPrinter(lang)
	if d < 0 {
		d = -d
	}
	sec := d.Seconds()
	if sec <= 0 {
		sec = 1e-9
	}
	dps := int(float64(rounds) / sec)
	if sec < 60.0 {
		p.Printf("used: %.2f seconds\ndps : %d draws/sec\n", sec, dps)
		return
	}
	sc := int(d.Seconds()) % 60
	mn := int(d.Minutes()) % 60
	hr := int(d.Hours())
	if hr == 0 {
		p.Printf("used: %dm %ds\ndps : %d draws/sec\n", mn, sc, dps)
		return
	}
	p.Printf("used: %dh:%dm:%ds\ndps : %d draws/sec\n", hr, mn, sc, dps)
}

func (s *DrawReport) fmtBasic() ([]string, map[string]string) {
	p := message.NewPrinter(lang)
	basic := map[string]string{
		"Preset Name":    s.Summary.PresetName,
		"Preset ID":      fmt.Sprintf("%d", s.Summary.PresetId),
		"Policy":         string(s.Summary.PolicyKey),
		"Algorithm":      string(s.Summary.Algorithm),
		"Target Weight":  p.Sprintf("%d", s.Summary.Target),
		"Total Rounds":   p.Sprintf("%d", s.Summary.Rounds),
		"Exact Rounds":   p.Sprintf("%d", s.Summary.ExactRounds),
		"Total Attempts": p.Sprintf("%d", s.Summary.TotalAttempts),
		"Accept Rate":    p.Sprintf("%.4f", s.Summary.AcceptRate),
		"Accept 95% CI":  p.Sprintf("[%.4f,%.4f]", s.Summary.AcceptCI.Lo, s.Summary.AcceptCI.Hi),
		"Weight Mean":    p.Sprintf("%.2f", s.Summary.WeightMean),
		"Weight STD":     p.Sprintf("%.2f", s.Summary.WeightStd),
		"Weight 95% CI":  p.Sprintf("[%.2f,%.2f]", s.Summary.WeightCI.Lo, s.Summary.WeightCI.Hi),
		"Parts Mean":     p.Sprintf("%.2f", s.Summary.PartsMean),
		"Distinct Mean":  p.Sprintf("%.2f", s.Summary.DistinctMean),
		"Largest Mean":   p.Sprintf("%.2f", s.Summary.LargestMean),
	}
	keys := []string{
		"Preset Name", "Preset ID", "Policy", "Algorithm", "Target Weight",
		"Total Rounds", "Exact Rounds", "Total Attempts",
		"Accept Rate", "Accept 95% CI",
		"Weight Mean", "Weight STD", "Weight 95% CI",
		"Parts Mean", "Distinct Mean", "Largest Mean",
	}
	return keys, basic
}

func fmtTable(title string, keys []string, msg map[string]string) string {
	p := message.NewPrinter(lang)
	maxKeyLen := 0
	maxValLen := 0
	for k, m := range msg {
		if w := runewidth.StringWidth(k); w > maxKeyLen {
			maxKeyLen = w
		}
		if w := runewidth.StringWidth(m); w > maxValLen {
			maxValLen = w
		}
	}
	maxKeyLen += 2
	maxValLen += 2

	divider := "+" + strings.Repeat("-", maxKeyLen) + "+" + strings.Repeat("-", maxValLen) + "+\n"
	top := "+" + strings.Repeat("-", maxKeyLen+1+maxValLen) + "+\n"

	totalInner := maxKeyLen + maxValLen + 1
	titleW := runewidth.StringWidth(title)

	left := (totalInner - titleW) / 2
	right := totalInner - titleW - left

	out := top
	out += p.Sprintf("|%s%s%s|\n", blank(left), title, blank(right))
	out += divider
	for _, k := range keys {
		out += p.Sprintf("| %s%s | %s%s |\n", k, blank(maxKeyLen-2-runewidth.StringWidth(k)), msg[k], blank(maxValLen-2-runewidth.StringWidth(msg[k])))
	}
	out += divider

	return out
}

func blank(w int) string {
	if w < 1 {
		return ""
	}
	return strings.Repeat(" ", w)
}
