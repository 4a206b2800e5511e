package main

// trace_gen.go is a tiny helper utility to generate deterministic key traces
// for standalone experiments against the admission pipeline (outside
// `go test`).  It emits newline-separated operations which can be replayed by
// service load-testers or external benchmarking suites:
//
//	set <key>
//	get <key>
//
// A configurable fraction of gets targets a small "hot set", which is the
// workload shape W-TinyLFU is built for: the hot keys should stay resident
// while the one-hit wonders churn through the window.
//
// Usage:
//   go run ./tools/trace_gen -n 1000000 -dist=zipf -seed=42 -out trace.txt
//
// Flags:
//   -n        number of operations to generate (default 1e6)
//   -dist     key distribution: "uniform" or "zipf" (default uniform)
//   -zipfs    Zipf s parameter (>1)  (default 1.2)
//   -zipfv    Zipf v parameter (>0)  (default 1.0)
//   -keys     key-space size (default 1e6)
//   -hot      size of the hot set (default 16)
//   -getratio fraction of operations that are gets (default 0.75)
//   -hotratio fraction of gets aimed at the hot set (default 0.5)
//   -seed     RNG seed (default current time)
//   -out      output file (default stdout)
//
// The program is deliberately simple but placed under version control so that
// any contributor can regenerate the exact trace used when hunting admission
// regressions.
//
// © 2025 skipcache authors. MIT License.

import (
	"bufio"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"
)

func main() {
	var (
		n        = flag.Int("n", 1_000_000, "number of operations to generate")
		dist     = flag.String("dist", "uniform", "distribution: uniform or zipf")
		zipfS    = flag.Float64("zipfs", 1.2, "zipf s parameter (>1)")
		zipfV    = flag.Float64("zipfv", 1.0, "zipf v parameter (>0)")
		keySpace = flag.Uint64("keys", 1_000_000, "key-space size")
		hot      = flag.Uint64("hot", 16, "hot-set size")
		getRatio = flag.Float64("getratio", 0.75, "fraction of operations that are gets")
		hotRatio = flag.Float64("hotratio", 0.5, "fraction of gets aimed at the hot set")
		seedVal  = flag.Int64("seed", time.Now().UnixNano(), "PRNG seed")
		outPath  = flag.String("out", "", "output file (default stdout)")
	)
	flag.Parse()

	rnd := rand.New(rand.NewSource(*seedVal))

	var pick func() uint64
	switch *dist {
	case "uniform":
		pick = func() uint64 { return rnd.Uint64() % *keySpace }
	case "zipf":
		if *zipfS <= 1.0 || *zipfV <= 0 {
			fmt.Fprintln(os.Stderr, "zipfs must be >1 and zipfv >0")
			os.Exit(1)
		}
		z := rand.NewZipf(rnd, *zipfS, *zipfV, *keySpace-1)
		pick = z.Uint64
	default:
		fmt.Fprintln(os.Stderr, "unknown dist:", *dist)
		os.Exit(1)
	}

	var out *os.File
	var err error
	if *outPath == "" {
		out = os.Stdout
	} else {
		out, err = os.Create(*outPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "cannot create file:", err)
			os.Exit(1)
		}
		defer out.Close()
	}

	w := bufio.NewWriterSize(out, 1<<20)
	defer w.Flush()

	for i := 0; i < *n; i++ {
		if rnd.Float64() < *getRatio {
			k := pick()
			if rnd.Float64() < *hotRatio {
				k = k % *hot
			}
			fmt.Fprintf(w, "get %d\n", k)
			continue
		}
		fmt.Fprintf(w, "set %d\n", pick())
	}
}
