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

package stats

// 最大 part 相對目標重量的分桶。
// 空 partition 與「最大 part 超過目標」各自獨立一桶，其餘按比例切。
var largestBuckets = []string{
	"empty",
	"(0,10%]",
	"(10%,25%]",
	"(25%,50%]",
	"(50%,75%]",
	"(75%,100%]",
	">100%",
}

func newDistReport() *DistReport {
	return &DistReport{
		Bucket:  largestBuckets,
		Collect: make([]int, len(largestBuckets)),
		Dist:    make([]float64, len(largestBuckets)),
	}
}

func (d *DistReport) collect(largest, target uint64) {
	d.Collect[bucketIdx(largest, target)]++
}

func bucketIdx(largest, target uint64) int {
	if largest == 0 {
		return 0
	}
	if target == 0 || largest > target {
		return len(largestBuckets) - 1
	}
	r := float64(largest) / float64(target)
	switch {
	case r <= 0.10:
		return 1
	case r <= 0.25:
		return 2
	case r <= 0.50:
		return 3
	case r <= 0.75:
		return 4
	default:
		return 5
	}
}

func (d *DistReport) merge(o *DistReport) {
	for i := range d.Collect {
		d.Collect[i] += o.Collect[i]
	}
}

func (d *DistReport) done() {
	total := 0
	for _, c := range d.Collect {
		total += c
	}
	if total == 0 {
		return
	}
	for i, c := range d.Collect {
		d.Dist[i] = float64(c) / float64(total)
	}
}
