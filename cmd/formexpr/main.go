package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
)

func main() {
	var cfg config
	flag.StringVar(&cfg.views, "views", "", "view definitions file or directory (JSON/YAML)")
	flag.StringVar(&cfg.view, "view", "", "view name to evaluate")
	flag.StringVar(&cfg.record, "record", "", "record file (JSON/YAML); empty record when omitted")
	flag.StringVar(&cfg.expr, "expr", "", "expression to evaluate")
	flag.StringVar(&cfg.template, "template", "", "template to render")
	flag.StringVar(&cfg.format, "format", "text", "output format: text, json or html (preview)")
	flag.StringVar(&cfg.session, "session", "", "session info file (JSON/YAML)")
	flag.BoolVar(&cfg.interactive, "interactive", false, "prompt for expressions in a loop")
	verbose := flag.Bool("verbose", false, "log debug output to stderr")
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	cfg.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := run(context.Background(), cfg, os.Stdout); err != nil {
		log.Fatalf("formexpr: %v", err)
	}
}
