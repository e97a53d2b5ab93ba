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

// Package partfmt 把 part.State 轉成對外的文字表示。
// 只讀取 (size, multiplicity) 對，不回頭對抽樣核心提出任何要求。
package partfmt

import (
	"io"
	"strconv"
	"strings"

	"github.com/zintix-labs/partlab/errs"
	"github.com/zintix-labs/partlab/sdk/part"
)

// Stream 回傳逗號分隔的 part 列表，由大到小，例如 "17,7,4,4,1"。
// 空 partition 回傳空字串。
func Stream(st *part.State) string {
	parts := st.Parts()
	if len(parts) == 0 {
		return ""
	}
	var b strings.Builder
	b.Grow(len(parts) * 3)
	for i, p := range parts {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatUint(p, 10))
	}
	return b.String()
}

// WriteStream 將 Stream 的結果寫入 w（含換行）。
func WriteStream(w io.Writer, st *part.State) error {
	if _, err := io.WriteString(w, Stream(st)+"\n"); err != nil {
		return errs.Wrap(err, "write partition stream failed")
	}
	return nil
}

// WriteFerrers 輸出 Ferrers diagram：每個 part 一列、每單位重量一個
// 星號，小 part 在上、大 part 在下。
//
//	* *
//	* * *
//	* * * * *
func WriteFerrers(w io.Writer, st *part.State) error {
	parts := st.Parts()
	var b strings.Builder
	for i := len(parts) - 1; i >= 0; i-- {
		for range parts[i] {
			b.WriteString("* ")
		}
		b.WriteByte('\n')
	}
	if _, err := io.WriteString(w, b.String()); err != nil {
		return errs.Wrap(err, "write ferrers diagram failed")
	}
	return nil
}

// Ferrers 回傳 WriteFerrers 的字串形式。
func Ferrers(st *part.State) string {
	var b strings.Builder
	_ = WriteFerrers(&b, st)
	return b.String()
}
