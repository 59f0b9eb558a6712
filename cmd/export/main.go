package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strings"

	"TickerBoard/internal/config"
	"TickerBoard/internal/recorder"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	out := flag.String("out", "data/history.parquet", "output parquet file")
	symbols := flag.String("symbols", "", "comma-separated symbols to export (default: all)")
	flag.Parse()

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}

	if _, err := os.Stat(cfg.Database.SQLitePath); err != nil {
		log.Fatalf("[FATAL] history database: %v", err)
	}
	rec, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
	if err != nil {
		log.Fatalf("[FATAL] open history: %v", err)
	}
	defer rec.Close()

	var list []string
	for _, s := range strings.Split(*symbols, ",") {
		if s = strings.ToUpper(strings.TrimSpace(s)); s != "" {
			list = append(list, s)
		}
	}

	n, err := recorder.ExportParquet(context.Background(), rec, *out, list)
	if err != nil {
		log.Fatalf("[FATAL] export: %v", err)
	}
	log.Printf("[INFO] exported %d rows to %s", n, *out)
}
