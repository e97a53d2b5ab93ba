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

package server

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/zintix-labs/partlab/errs"
	"github.com/zintix-labs/partlab/server/api"
	"github.com/zintix-labs/partlab/server/app"
	"github.com/zintix-labs/partlab/server/netsvr"
	"github.com/zintix-labs/partlab/server/svrcfg"
)

// Run 是 server 套件的「組裝器（assembler）」與「啟動入口（runtime entry）」。
//
// 它負責：
//  1. 驗證輸入的 SvrCfg（包含必要依賴，例如 logger）。
//  2. 建立 HTTP server（netsvr）。
//  3. 註冊路由與 middleware（api.RegisterRoutes）。
//  4. 啟動 app.Run() 並回傳停止原因。
//
// 注意：
//   - Run 不綁定任何「檔案路徑」或「環境變數」策略；所有依賴都應透過 SvrCfg 明確注入。
//   - 若要自訂 server 的組裝/路由/生命週期，建議在你的專案內以 Lab 為核心自行組裝，
//     自行建立 server 並呼叫 api.RegisterRoutes()。
func Run(sCfg *svrcfg.SvrCfg) {
	if err := sCfg.Vaild(); err != nil {
		// 防止外層傳入的logger不可用
		fmt.Fprintln(os.Stderr, err)
		return
	}
	// Server
	svr := netsvr.NewChiServerDefault()

	// 註冊 Api
	api.RegisterRoutes(svr, sCfg)

	// 運行
	app := app.NewWith(svr)
	sCfg.Log.Info("[partlab] listening on http://localhost" + svr.Address())
	if err := app.Run(); err != nil {
		sCfg.Log.Error("app stopped:", slog.Any("err", err))
	}
}

// RunWithSvr 與 Run() 相同，差別在於允許呼叫端注入自訂的 NetSvr
// （自訂 listener、額外的 server option、或把生命週期接到既有框架）。
//
// 合約：
//   - 會先做 SvrCfg 的基本驗證（包含 logger）。驗證失敗會把錯誤輸出到 stderr，
//     避免上層「組裝失敗但無 log 可看」。
//   - svr 參數必須非 nil，且若是 ChiAdapter 會要求 Ready() 為 true。
//   - 這一層依然只負責「註冊 routes + 啟動 app.Run()」。
func RunWithSvr(sCfg *svrcfg.SvrCfg, svr netsvr.NetSvr) {
	if err := sCfg.Vaild(); err != nil {
		// 防止外層傳入的logger不可用
		fmt.Fprintln(os.Stderr, err)
		return
	}
	if svr == nil {
		sCfg.Log.Error(errs.NewFatal("svr is required").Error())
		return
	} else {
		if s, ok := svr.(*netsvr.ChiAdapter); ok && !s.Ready() {
			sCfg.Log.Error(errs.NewFatal("default server is not ready").Error())
			return
		}
	}

	// 註冊 Api
	api.RegisterRoutes(svr, sCfg)

	// 運行
	app := app.NewWith(svr)
	sCfg.Log.Info("[partlab] listening")
	if err := app.Run(); err != nil {
		sCfg.Log.Error("app stopped:", slog.Any("err", err))
	}
}
