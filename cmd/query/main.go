// Command query prints the summary for one symbol as JSON. It reads the same
// flat store the agent writes, so it works without the agent running.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"log"
	"os"

	"StockPulse/internal/config"
	"StockPulse/internal/query"
	"StockPulse/internal/store"
)

func main() {
	log.SetFlags(0)

	symbol := flag.String("symbol", "", "ticker symbol, e.g. AAPL or RELIANCE.NS")
	period := flag.String("period", "1mo", "trailing window: 1d, 5d, 1mo, 3mo, 6mo, 1y, all")
	flag.Parse()

	if *symbol == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	eng := query.NewEngine(store.NewCSVStore(cfg.Storage.DataDir))
	summary, err := eng.GetSymbolHistory(*symbol, *period)
	switch {
	case errors.Is(err, query.ErrSymbolNotFound):
		log.Fatalf("symbol %s not found in store", *symbol)
	case errors.Is(err, store.ErrUnavailable), errors.Is(err, store.ErrEmpty):
		log.Fatalf("no data ingested yet, run the agent first: %v", err)
	case err != nil:
		log.Fatalf("query: %v", err)
	}

	out, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		log.Fatalf("encode: %v", err)
	}
	os.Stdout.Write(append(out, '\n'))
}
