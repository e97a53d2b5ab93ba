package main

import (
	"crypto/rand"
	"flag"
	"fmt"
	"log"
	"math"
	"math/big"
	"strconv"

	"github.com/zintix-labs/partlab"
	"github.com/zintix-labs/partlab/demo/demo_configs"
	"github.com/zintix-labs/partlab/sdk/core"
	"github.com/zintix-labs/partlab/sdk/policy"
	"github.com/zintix-labs/partlab/spec"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var cfg *config = new(config)

type config struct {
	name      string
	id        spec.PID
	worker    int
	rounds    int
	target    uint64
	alg       string
	seed      int64
	pprofmode string
}

type pidFlag struct{ p *spec.PID }

func (f pidFlag) String() string { return fmt.Sprint(uint(*f.p)) }
func (f pidFlag) Set(s string) error {
	u, err := strconv.ParseUint(s, 10, 0)
	if err != nil {
		return err
	}
	*f.p = spec.PID(uint(u))
	return nil
}

func bindVar() {
	// 綁定 Flag 到本地變數的指標 (&)
	flag.Var(pidFlag{&cfg.id}, "preset", "target preset id")
	flag.IntVar(&cfg.worker, "worker", 1, "number of workers")
	flag.IntVar(&cfg.rounds, "rounds", 1000000, "rounds per worker")
	flag.Uint64Var(&cfg.target, "n", 0, "target weight (0 = preset default)")
	flag.StringVar(&cfg.alg, "alg", "pdc", "algorithm: pdc, rejection, boltzmann")
	flag.Int64Var(&cfg.seed, "seed", -1, "int64 seed for random number generator")
	flag.StringVar(&cfg.pprofmode, "p", "", "pprof: '', cpu, heap, allocs")

	flag.Parse()

	// given seed illeagel -> default seed
	if cfg.seed < 1 {
		seed, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
		if err != nil {
			log.Fatal(err)
		}
		cfg.seed = seed.Int64()
	}
}

// 這裡解析並分支要執行的模擬器
func executeSimulator() {
	cfg.valid() // 基本檢查

	lab, err := partlab.NewAuto(
		core.Default(),
		partlab.Configs(demo_configs.FS),
		partlab.Policies(policy.BuiltinRegistry()),
	)
	if err != nil {
		log.Fatal(err)
	}
	s, err := lab.NewSimulatorWithSeed(cfg.id, cfg.seed)
	if err != nil {
		log.Fatal(err)
	}
	ent, _ := lab.EntryById(cfg.id)
	cfg.name = ent.Name
	if cfg.target == 0 {
		ps, perr := lab.PresetSettingById(cfg.id)
		if perr != nil {
			log.Fatal(perr)
		}
		cfg.target = ps.DefaultTarget
	}
	// 至此確保可執行
	green := "\033[1;32m"
	reset := "\033[0m"
	p := message.NewPrinter(language.English)

	alg := spec.Algorithm(cfg.alg)
	if cfg.worker == 1 { // 單線程
		p.Printf("%s[PRESET:%s] [ALG:%s] [N:%d] [ROUNDS:%d]%s\n", green, cfg.name, alg, cfg.target, cfg.rounds, reset)
		st, used, err := s.Sim(cfg.target, cfg.rounds, alg, true)
		if err != nil {
			log.Fatal(err)
		}
		st.StdOut(used)
	} else {
		p.Printf("%s[WORKERS:%d] [PRESET:%s] [ALG:%s] [N:%d] [ROUNDS:%d]%s\n", green, cfg.worker, cfg.name, alg, cfg.target, cfg.worker*cfg.rounds, reset)
		st, used, err := s.SimMP(cfg.target, cfg.rounds, cfg.worker, alg, true) // 併發
		if err != nil {
			log.Fatal(err)
		}
		st.StdOut(used)
	}
}

func (cfg *config) valid() {
	// 工作協程檢查(併發數)
	if cfg.worker < 1 {
		log.Fatal("value err : workers must > 0")
	}

	// 局數檢查
	if cfg.rounds < 1 {
		log.Fatal("value err : rounds must > 0")
	}

	switch cfg.alg {
	case "", "pdc", "rejection", "boltzmann":
	default:
		log.Fatal("value err : alg must be pdc, rejection or boltzmann")
	}
}
