package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"

	"github.com/incluo/laudo-agency/internal/casestore"
	"github.com/incluo/laudo-agency/internal/docanalysis"
	"github.com/incluo/laudo-agency/internal/eligibility"
	"github.com/incluo/laudo-agency/internal/extractor"
	"github.com/incluo/laudo-agency/internal/httpapi"
	"github.com/incluo/laudo-agency/internal/laudo"
	"github.com/incluo/laudo-agency/internal/telemetry"
)

func main() {
	dbFlag := flag.String("db", "", "path to SQLite database file (overrides DB_PATH env var)")
	vocabFlag := flag.String("vocabulary", "", "optional YAML vocabulary pack extending the default rule table")
	otlpFlag := flag.String("otlp-endpoint", "", "OTLP/HTTP trace endpoint (overrides OTLP_ENDPOINT env var)")
	flag.Parse()

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}

	rules := docanalysis.DefaultRules()
	if *vocabFlag != "" {
		loaded, err := docanalysis.LoadVocabularyPack(*vocabFlag)
		if err != nil {
			log.Fatalf("load vocabulary pack (%s): %v", *vocabFlag, err)
		}
		rules = loaded
		log.Printf("loaded vocabulary pack from %s (%d rules)", *vocabFlag, len(rules))
	}

	dbPath := *dbFlag
	if dbPath == "" {
		dbPath = os.Getenv("DB_PATH")
	}
	var archive httpapi.CaseArchive
	if dbPath != "" {
		store, err := casestore.Open(dbPath)
		if err != nil {
			log.Fatalf("failed to initialize sqlite store (%s): %v", dbPath, err)
		}
		defer store.Close()
		archive = store
		log.Printf("using sqlite store at %s", dbPath)
	} else {
		log.Print("no database configured; analyses and laudos will not be persisted")
	}

	otlpEndpoint := *otlpFlag
	if otlpEndpoint == "" {
		otlpEndpoint = os.Getenv("OTLP_ENDPOINT")
	}
	ctx := context.Background()
	shutdownTracing, err := telemetry.SetupTracing(ctx, "laudo-agency", otlpEndpoint)
	if err != nil {
		log.Fatalf("setup tracing: %v", err)
	}
	defer func() {
		if err := shutdownTracing(ctx); err != nil {
			log.Printf("shutdown tracing: %v", err)
		}
	}()

	handler := httpapi.NewServer(httpapi.Config{
		Analyzer:  docanalysis.NewAnalyzer(rules),
		Engine:    eligibility.NewEngine(rules),
		Generator: laudo.NewGenerator(),
		Fetcher:   extractor.New(),
		Archive:   archive,
		Metrics:   telemetry.NewMetrics("laudo-agency"),
	})

	log.Printf("laudo-agency listening on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatal(err)
	}
}
