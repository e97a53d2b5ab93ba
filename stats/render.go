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

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"
)

// DrawReportRender 定義輸出行為
type DrawReportRender interface {
	Write(w io.Writer, r *DrawReport) error
}

// Json渲染
type JsonDrawReportRender struct{}

func (jr *JsonDrawReportRender) Write(w io.Writer, r *DrawReport) error {
	return json.NewEncoder(w).Encode(r)
}

// YAML渲染
type YAMLDrawReportRender struct{}

func (yr *YAMLDrawReportRender) Write(w io.Writer, r *DrawReport) error {
	// 外層結構維持預設展開；最內層的一維陣列輸出成 flow style：[..., ...]
	return forceReadableList(w, r)
}

// YAML 內層方法
func forceReadableList[T any](w io.Writer, t *T) error {
	var node yaml.Node
	if err := node.Encode(t); err != nil {
		return err
	}

	flattenLeafSeqs(&node)

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(&node)
}

// flattenLeafSeqs 自頂向下調整 sequence node 的 style：
// 內部沒有子 sequence 的（最內層一維）改用 flow style。
func flattenLeafSeqs(n *yaml.Node) {
	if n.Kind == yaml.SequenceNode {
		leaf := true
		for _, c := range n.Content {
			if c.Kind == yaml.SequenceNode || c.Kind == yaml.MappingNode {
				leaf = false
				break
			}
		}
		if leaf {
			n.Style = yaml.FlowStyle
		}
	}
	for _, c := range n.Content {
		flattenLeafSeqs(c)
	}
}
