// Command megabonk-scanner scans a game screenshot for inventory items and
// prints the detections as JSON.
//
// Usage: megabonk-scanner [options] <screenshot.png>
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"megabonk-scanner/internal/catalog"
	"megabonk-scanner/internal/config"
	"megabonk-scanner/internal/count"
	"megabonk-scanner/internal/imaging"
	"megabonk-scanner/internal/match"
	"megabonk-scanner/internal/overlay"
	"megabonk-scanner/internal/scan"
	"megabonk-scanner/internal/template"
	"megabonk-scanner/internal/version"
)

var (
	flagTemplates = flag.String("templates", "templates", "Template image directory")
	flagCatalog   = flag.String("catalog", "", "Entity catalog JSON file (optional)")
	flagConfig    = flag.String("config", "", "Scanner config JSON file (optional)")
	flagStrategy  = flag.String("strategy", "", "Similarity strategy: ncc or opencv (overrides config)")
	flagOCR       = flag.Bool("ocr", true, "Read stack counts with Tesseract")
	flagOverlay   = flag.String("overlay", "", "Save an annotated overlay PNG to this path")
	flagVersion   = flag.Bool("version", false, "Print version and exit")
	flagVerbose   = flag.Bool("v", false, "Verbose output")
)

func main() {
	flag.Parse()

	if *flagVersion {
		fmt.Printf("megabonk-scanner %s (%s, built %s)\n",
			version.Version, version.GitCommit, version.BuildTime)
		return
	}

	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <screenshot.png>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}

	if err := run(flag.Arg(0)); err != nil {
		log.Fatalf("[Scan] %v", err)
	}
}

func run(imagePath string) error {
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
		if *flagVerbose {
			log.Printf("[Catalog] %d entries", cat.Len())
		}
	}

	lib, err := template.LoadDirectory(*flagTemplates, cat)
	if err != nil {
		return err
	}
	if *flagVerbose {
		log.Printf("[Template] %d templates loaded from %s", lib.Len(), *flagTemplates)
	}

	var rec count.Recognizer
	if *flagOCR {
		tess, err := count.NewTesseractRecognizer()
		if err != nil {
			// Counts degrade to 1; detection still works.
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

	dets, err := scanner.ScanFile(context.Background(), imagePath, opts)
	if err != nil {
		return err
	}
	if *flagVerbose {
		log.Printf("[Scan] %d detections", len(dets))
	}

	if *flagOverlay != "" {
		img, err := imaging.LoadFile(imagePath)
		if err != nil {
			return err
		}
		if err := overlay.SavePNG(*flagOverlay, img, dets); err != nil {
			return err
		}
		if *flagVerbose {
			log.Printf("[Overlay] saved %s", *flagOverlay)
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(dets)
}
