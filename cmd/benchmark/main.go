// Command benchmark replays a labeled screenshot corpus through the scanner
// and reports precision, recall and F1 against the expected inventories.
//
// Usage: benchmark [options] <corpus.json>
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"megabonk-scanner/internal/bench"
	"megabonk-scanner/internal/catalog"
	"megabonk-scanner/internal/config"
	"megabonk-scanner/internal/count"
	"megabonk-scanner/internal/match"
	"megabonk-scanner/internal/scan"
	"megabonk-scanner/internal/template"
)

var (
	flagTemplates = flag.String("templates", "templates", "Template image directory")
	flagCatalog   = flag.String("catalog", "", "Entity catalog JSON file (optional)")
	flagConfig    = flag.String("config", "", "Scanner config JSON file (optional)")
	flagStrategy  = flag.String("strategy", "", "Similarity strategy: ncc or opencv (overrides config)")
	flagOCR       = flag.Bool("ocr", true, "Read stack counts with Tesseract")
	flagJSON      = flag.String("json", "", "Save the full run report to this JSON file")
	flagVerbose   = flag.Bool("v", false, "Per-image output")
)

func main() {
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <corpus.json>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}

	if err := run(flag.Arg(0)); err != nil {
		log.Fatalf("[Bench] %v", err)
	}
}

func run(corpusPath string) error {
	cfg, err := config.Load(*flagConfig)
	if err != nil {
		return err
	}
	opts, err := cfg.Options()
	if err != nil {
		return err
	}
	if *flagStrategy != "" {
		strategy, err := match.ParseStrategy(*flagStrategy)
		if err != nil {
			return err
		}
		opts.Strategy = strategy
	}

	var cat *catalog.Store
	if *flagCatalog != "" {
		cat, err = catalog.Load(*flagCatalog)
		if err != nil {
			return err
		}
	}

	lib, err := template.LoadDirectory(*flagTemplates, cat)
	if err != nil {
		return err
	}

	var rec count.Recognizer
	if *flagOCR {
		tess, err := count.NewTesseractRecognizer()
		if err != nil {
			log.Printf("[Count] recognizer unavailable: %v", err)
		} else {
			defer tess.Close()
			rec = tess
		}
	}

	scanner, err := scan.New(lib, cat, rec)
	if err != nil {
		return err
	}

	corpus, err := bench.Load(corpusPath)
	if err != nil {
		return err
	}
	log.Printf("[Bench] %d entries (%d skipped), %d templates, strategy %s",
		len(corpus.Entries), corpus.Skipped, lib.Len(), opts.Strategy)

	runner := &bench.Runner{Scanner: scanner, Opts: opts}
	report, err := runner.Run(context.Background(), corpus)
	if err != nil {
		return err
	}

	if *flagVerbose {
		for _, e := range report.Entries {
			if e.Error != "" {
				fmt.Printf("%-40s FAILED: %s\n", e.Image, e.Error)
				continue
			}
			m := e.Metrics
			fmt.Printf("%-40s tp=%-3d fp=%-3d fn=%-3d p=%.3f r=%.3f %.0fms\n",
				e.Image, m.TP, m.FP, m.FN, m.Precision(), m.Recall(), e.Millis)
		}
	}

	fmt.Printf("images:    %d (failed %d, skipped %d)\n",
		report.Images, report.Failed, report.Skipped)
	fmt.Printf("totals:    tp=%d fp=%d fn=%d\n",
		report.Totals.TP, report.Totals.FP, report.Totals.FN)
	fmt.Printf("precision: %.4f\n", report.Precision)
	fmt.Printf("recall:    %.4f\n", report.Recall)
	fmt.Printf("f1:        %.4f\n", report.F1)
	fmt.Printf("avg time:  %.1fms\n", report.AvgMillis)

	if *flagJSON != "" {
		if err := report.Save(*flagJSON); err != nil {
			return err
		}
		log.Printf("[Bench] report saved to %s", *flagJSON)
	}
	return nil
}
