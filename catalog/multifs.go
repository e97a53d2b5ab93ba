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
	"fmt"
	"io/fs"
	"strings"

	"github.com/zintix-labs/partlab/errs"
)

// multiFS 把多個設定檔來源合併成單一命名空間。
// 設定檔目錄必須是平的（只有根目錄）；重名視為組裝錯誤。
type multiFS struct {
	src   []fs.FS
	index map[string]int // name -> src index
}

func newMultiFS(src ...fs.FS) (*multiFS, error) {
	if len(src) == 0 {
		return nil, errs.NewFatal("no fs provided")
	}
	for i, s := range src {
		if s == nil {
			return nil, errs.NewFatal(fmt.Sprintf("fs[%d] is nil", i))
		}
	}

	m := &multiFS{
		src:   src,
		index: make(map[string]int, 64),
	}

	// eager validate：建索引、偵測跨來源重名
	for i := range src {
		err := fs.WalkDir(src[i], ".", func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path == "." {
					return nil
				}
				return errs.NewFatal(fmt.Sprintf("config FS must be flat (no subdirectories): %q", path))
			}

			lower := strings.ToLower(path)
			if !(strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml") || strings.HasSuffix(lower, ".json")) {
				return nil // 其他資產忽略
			}

			if prev, ok := m.index[path]; ok {
				return errs.NewFatal(fmt.Sprintf("duplicate config %q in fs[%d] and fs[%d]", path, prev, i))
			}
			m.index[path] = i
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return m, nil
}

// GetFS 回傳包含指定檔名的來源。
func (m *multiFS) GetFS(name string) (fs.FS, bool) {
	i, ok := m.index[name]
	if !ok {
		return nil, false
	}
	return m.src[i], true
}

// Names 回傳已索引的設定檔名（無序）。
func (m *multiFS) Names() []string {
	out := make([]string, 0, len(m.index))
	for name := range m.index {
		out = append(out, name)
	}
	return out
}
