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

package api

import (
	"log/slog"
	"net/http"

	v1 "github.com/zintix-labs/partlab/server/api/v1"
	"github.com/zintix-labs/partlab/server/netsvr"
	"github.com/zintix-labs/partlab/server/netsvr/middleware"
	"github.com/zintix-labs/partlab/server/svrcfg"
)

// RegisterRoutes 註冊
func RegisterRoutes(svr netsvr.NetSvr, sCfg *svrcfg.SvrCfg) {
	registerMiddleware(svr, sCfg.Log) // 1. 註冊 middleware
	registerIndex(svr)                // 2. 註冊主頁
	registerV1API(svr, sCfg)          // 3. 註冊 v1 api
}

// 註冊 middleware
func registerMiddleware(svr netsvr.NetSvr, log *slog.Logger) {
	svr.Use(middleware.RequestID)
	svr.Use(middleware.AccessLog(log))
	svr.Use(middleware.Recover)
	svr.Use(middleware.Compression)
}

// 註冊主頁
func registerIndex(svr netsvr.NetSvr) {
	svr.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("partlab api\n\n" +
			"GET  /v1/presets\n" +
			"GET  /v1/draw?pid=&target=&alg=&seed=\n" +
			"GET  /v1/ferrers?pid=&target=&seed=\n" +
			"GET  /v1/sim?pid=&target=&round=&alg=&workers=&seed=\n" +
			"POST /v1/simbycfg\n" +
			"POST /v1/stat\n"))
	})
}

// 註冊 v1 api
func registerV1API(svr netsvr.NetSvr, sCfg *svrcfg.SvrCfg) error {
	d, err := v1.NewDrawHandler(sCfg.Lab)
	if err != nil {
		return err
	}
	s, err := v1.NewSimHandler(sCfg.Lab)
	if err != nil {
		return err
	}
	svr.Group("/v1", func(vOne netsvr.NetRouter) {
		vOne.Get("/presets", s.Presets)
		vOne.Get("/draw", d.Draw)
		vOne.Get("/ferrers", d.Ferrers)
		vOne.Get("/sim", s.Sim)

		vOne.Post("/draw", d.Draw)
		vOne.Post("/sim", s.Sim)
		vOne.Post("/simbycfg", s.SetByJson)
		vOne.Post("/stat", v1.Stat)
	})
	return nil
}
