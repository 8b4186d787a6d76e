package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/incluo/laudo-agency/internal/casestore"
	"github.com/incluo/laudo-agency/internal/laudo"
)

func main() {
	dbPath := flag.String("db", "", "Path to the SQLite case database")
	laudoID := flag.String("laudo-id", "", "Identifier of the laudo to render")
	outputPath := flag.String("output", "", "Path to write the PDF (defaults to <laudo-id>.pdf)")
	flag.Parse()

	if *dbPath == "" {
		log.Fatal("missing required -db")
	}
	if *laudoID == "" {
		log.Fatal("missing required -laudo-id")
	}

	store, err := casestore.Open(*dbPath)
	if err != nil {
		log.Fatalf("open store (%s): %v", *dbPath, err)
	}
	defer store.Close()

	report, found, err := store.GetLaudo(*laudoID)
	if err != nil {
		log.Fatalf("load laudo: %v", err)
	}
	if !found {
		log.Fatalf("laudo not found: %s", *laudoID)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	pdf, err := laudo.NewChromiumPDFRenderer().RenderLaudo(ctx, report)
	if err != nil {
		log.Fatalf("render pdf: %v", err)
	}

	out := *outputPath
	if out == "" {
		out = report.ID + ".pdf"
	}
	if err := os.WriteFile(out, pdf, 0o644); err != nil {
		log.Fatalf("write pdf: %v", err)
	}
	log.Printf("wrote %s (%d bytes)", out, len(pdf))
}
