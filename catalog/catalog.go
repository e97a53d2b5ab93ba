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

// Package catalog 是 preset 的單一事實來源（SSOT）：
// 哪些 preset 存在、各自對應哪個設定檔。設定檔內容一律經由 fs.FS
// 取得，catalog 不碰檔案路徑概念。
package catalog

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/zintix-labs/partlab/errs"
	"github.com/zintix-labs/partlab/spec"
)

var (
	ErrDupID   = errs.NewFatal("duplicate preset id")
	ErrDupName = errs.NewFatal("duplicate preset name")
)

type Entry struct {
	PID        spec.PID
	Name       string
	ConfigName string
}

// Summary 是對外（API/CLI 列表）的 preset 摘要。
type Summary struct {
	PID           spec.PID       `json:"pid"`
	Name          string         `json:"name"`
	PolicyKey     spec.PolicyKey `json:"policy_key"`
	DefaultTarget uint64         `json:"default_target"`
}

type Catalog struct {
	byID   map[spec.PID]Entry
	byName map[string]Entry
	ids    []spec.PID // 用來穩定排序
	config *multiFS
	frozen bool
}

func New(cfg ...fs.FS) (*Catalog, error) {
	multFS, err := newMultiFS(cfg...)
	if err != nil {
		return nil, errs.Wrap(err, "can not create catalog")
	}
	return &Catalog{
		byID:   map[spec.PID]Entry{},
		byName: map[string]Entry{},
		ids:    make([]spec.PID, 0, 32),
		config: multFS,
	}, nil
}

// Register 註冊一批 preset；任何一筆不合法整批失敗（不做半套）。
func (c *Catalog) Register(metas ...Entry) error {
	if c.frozen {
		return errs.NewWarn("can not register when catalog already frozen")
	}
	seenID := map[spec.PID]struct{}{}
	seenName := map[string]struct{}{}
	seenCfg := map[string]struct{}{}
	for i := range metas {
		meta := &metas[i]
		meta.Name = strings.ToLower(strings.TrimSpace(meta.Name))
		if meta.Name == "" {
			return errs.NewFatal("preset name required")
		}
		if err := validFileName(meta.ConfigName); err != nil {
			return err
		}
		if _, ok := c.config.index[meta.ConfigName]; !ok {
			return errs.NewFatal(fmt.Sprintf("config file not found: %s", meta.ConfigName))
		}
		if _, dup := c.byID[meta.PID]; dup {
			return ErrDupID
		}
		if _, dup := seenID[meta.PID]; dup {
			return ErrDupID
		}
		if _, dup := c.byName[meta.Name]; dup {
			return ErrDupName
		}
		if _, dup := seenName[meta.Name]; dup {
			return ErrDupName
		}
		if _, dup := seenCfg[meta.ConfigName]; dup {
			return errs.NewFatal(fmt.Sprintf("duplicate config name: %s", meta.ConfigName))
		}
		seenID[meta.PID] = struct{}{}
		seenName[meta.Name] = struct{}{}
		seenCfg[meta.ConfigName] = struct{}{}
	}
	for _, meta := range metas {
		meta.Name = strings.ToLower(strings.TrimSpace(meta.Name))
		c.byID[meta.PID] = meta
		c.byName[meta.Name] = meta
		c.ids = append(c.ids, meta.PID)
	}
	sort.Slice(c.ids, func(i, j int) bool { return c.ids[i] < c.ids[j] })
	return nil
}

func (c *Catalog) GetByID(id spec.PID) (Entry, bool) {
	m, ok := c.byID[id]
	return m, ok
}

func (c *Catalog) GetByName(name string) (Entry, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	m, ok := c.byName[name]
	return m, ok
}

func (c *Catalog) IDs() []spec.PID {
	if len(c.ids) == 0 {
		return nil
	}
	return append([]spec.PID(nil), c.ids...)
}

func (c *Catalog) All() []Entry {
	m := make([]Entry, 0, len(c.ids))
	for _, id := range c.IDs() {
		if meta, ok := c.GetByID(id); ok {
			m = append(m, meta)
		}
	}
	return m
}

func (c *Catalog) Freeze() {
	c.frozen = true
}

func (c *Catalog) IsFrozen() bool {
	return c.frozen
}

// PresetSettingById
//
// 會讀取 fs.FS 中的 YAML/JSON 設定並執行基本檢查後回傳
func (c *Catalog) PresetSettingById(id spec.PID) (*spec.PresetSetting, error) {
	e, ok := c.GetByID(id)
	if !ok {
		return nil, errs.NewWarn("id does not exist in catalog")
	}
	return c.readSetting(e)
}

// PresetSettingByName
//
// 會讀取 fs.FS 中的 YAML/JSON 設定並執行基本檢查後回傳
func (c *Catalog) PresetSettingByName(name string) (*spec.PresetSetting, error) {
	e, ok := c.GetByName(name)
	if !ok {
		return nil, errs.NewWarn("name does not exist in catalog")
	}
	return c.readSetting(e)
}

func (c *Catalog) readSetting(e Entry) (*spec.PresetSetting, error) {
	src, ok := c.config.GetFS(e.ConfigName)
	if !ok {
		return nil, errs.NewWarn("file name does not exist in catalog")
	}
	raw, err := fs.ReadFile(src, e.ConfigName)
	if err != nil {
		return nil, errs.Wrap(err, "catalog parse file error")
	}
	return parsePresetSettingByExt(e.ConfigName, raw)
}

func parsePresetSettingByExt(filename string, raw []byte) (*spec.PresetSetting, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return spec.GetPresetSettingByYAML(raw)
	case ".json":
		return spec.GetPresetSettingByJSON(raw)
	default:
		return nil, errs.NewFatal(fmt.Sprintf("unsupported config format: %q", filename))
	}
}

// AutoRegister 掃描所有已索引的設定檔，用檔內的 preset_id 與
// preset_name 建立目錄。檔名排序後依序註冊，結果具決定性。
func (c *Catalog) AutoRegister() error {
	names := c.config.Names()
	sort.Strings(names)

	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		src, ok := c.config.GetFS(name)
		if !ok {
			return errs.NewFatal(fmt.Sprintf("config file not found: %s", name))
		}
		raw, err := fs.ReadFile(src, name)
		if err != nil {
			return errs.Wrap(err, "catalog parse file error")
		}
		ps, err := parsePresetSettingByExt(name, raw)
		if err != nil {
			return errs.Wrap(err, "auto register failed: "+name)
		}
		entries = append(entries, Entry{
			PID:        ps.PresetID,
			Name:       ps.PresetName,
			ConfigName: name,
		})
	}
	return c.Register(entries...)
}

func validFileName(file string) error {
	if file == "" {
		return errs.NewFatal("empty config filename")
	}
	if strings.ContainsAny(file, `/\:`) {
		return errs.NewFatal(fmt.Sprintf("invalid config filename: %q (must be a basename)", file))
	}
	lower := strings.ToLower(file)
	if !(strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml") || strings.HasSuffix(lower, ".json")) {
		return errs.NewFatal(fmt.Sprintf("invalid config filename: %q (must end with .yaml, .yml, or .json)", file))
	}
	if strings.HasPrefix(file, ".") {
		return errs.NewFatal(fmt.Sprintf("invalid config filename: %q (cannot start with '.')", file))
	}
	return nil
}
