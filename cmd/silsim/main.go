// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/mattn/go-colorable"
	"github.com/rs/zerolog"

	"github.com/ezrec/silicon/boot"
	"github.com/ezrec/silicon/config"
	"github.com/ezrec/silicon/logging"
	"github.com/ezrec/silicon/sim"
	"github.com/ezrec/silicon/translate"
)

var f = translate.From

// logger builds the console logger for cfg. The environment overrides the
// configured level, and verbose overrides both.
func logger(cfg *config.Config) zerolog.Logger {
	lcfg := logging.DefaultConfig(logging.ProfileRuntime)
	if lvl, ok := logging.ParseLevel(cfg.LogLevel); ok {
		lcfg.Level = lvl
	}
	logging.ApplyEnv(&lcfg)
	if cfg.Verbose {
		lcfg.Level = zerolog.DebugLevel
	}
	return logging.New(colorable.NewColorableStderr(), lcfg)
}

// report prints the outcome of a boot.
func report(out io.Writer, m *sim.Machine, res sim.Result) {
	fmt.Fprintln(out, f("silicon:      %v", m.Generation))
	fmt.Fprintln(out, f("arena:        %v bytes at 0x%x", res.Requirement, m.Config.ArenaBase))
	for _, tp := range []boot.Timepoint{boot.TIMEPOINT_1, boot.TIMEPOINT_2, boot.TIMEPOINT_3} {
		st, ok := res.Status[tp]
		if !ok {
			continue
		}
		fmt.Fprintln(out, f("%-13v %v", tp.String()+":", st))
	}
	if res.Resets != 0 {
		fmt.Fprintln(out, f("resets:       %v", res.Resets))
	}
	fmt.Fprintln(out, f("smu version:  0x%08x", res.SmuVersion))
	fmt.Fprintln(out, f("topology:     %v sockets, %v threads", res.Topology.Sockets, res.Topology.Threads))
	for socket, dies := range res.Topology.Dies {
		for die, info := range dies {
			fmt.Fprintln(out, f("  %v.%v:        %+v", socket, die, info))
		}
	}
	fmt.Fprintln(out, f("launched:     %v", res.Launched))
}

func main() {
	var path string
	var verbose bool
	var resume bool
	var timeout time.Duration

	flag.StringVar(&path, "c", "", ".toml machine description to use")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.BoolVar(&resume, "r", false, "Leave the trampoline installed after bring-up")
	flag.DurationVar(&timeout, "t", 0, "Rendezvous timeout override")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	cfg := config.Default()
	if len(path) != 0 {
		var err error
		cfg, err = config.Load(path)
		if err != nil {
			log.Fatal(err)
		}
	}

	cfg.Verbose = cfg.Verbose || verbose
	cfg.Resume = cfg.Resume || resume
	if timeout != 0 {
		cfg.Timeout = timeout.String()
	}

	m, err := sim.New(cfg, sim.WithLogger(logger(&cfg)))
	if err != nil {
		log.Fatal(err)
	}
	defer m.Close()

	res, err := m.Boot()
	report(os.Stdout, m, res)
	if err != nil {
		m.Close()
		log.Fatal(err)
	}
}
