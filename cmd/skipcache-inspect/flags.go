package main

// flags.go holds the flag surface of skipcache-inspect, kept apart from the
// fetch/print logic in main.go.
//
// © 2025 skipcache authors. MIT License.

import (
	"flag"
	"time"
)

type options struct {
	target           string
	json             bool
	watch            bool
	interval         time.Duration
	version          bool
	heapProfile      string
	goroutineProfile string
}

func parseFlags() *options {
	opts := &options{}
	flag.StringVar(&opts.target, "target", "http://localhost:6060", "base URL of the instrumented service")
	flag.BoolVar(&opts.json, "json", false, "emit the raw snapshot as indented JSON")
	flag.BoolVar(&opts.watch, "watch", false, "refresh the snapshot periodically")
	flag.DurationVar(&opts.interval, "interval", 2*time.Second, "refresh interval for -watch")
	flag.BoolVar(&opts.version, "version", false, "print version and exit")
	flag.StringVar(&opts.heapProfile, "heap", "", "download a heap profile to the given path and exit")
	flag.StringVar(&opts.goroutineProfile, "goroutine", "", "download a goroutine profile to the given path and exit")
	flag.Parse()
	return opts
}
