// laudo-pipeline runs one eligibility case end to end from the command line:
// it reads a case file (structured JSON request, or free text when -intake
// is set), evaluates eligibility, and optionally issues a laudo for
// confirmed cases when a dossier file is supplied.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/incluo/laudo-agency/internal/casestore"
	"github.com/incluo/laudo-agency/internal/docanalysis"
	"github.com/incluo/laudo-agency/internal/eligibility"
	"github.com/incluo/laudo-agency/internal/intake"
	"github.com/incluo/laudo-agency/internal/laudo"
)

func main() {
	casePath := flag.String("case", "", "Path to the case file (JSON request, or free text with -intake)")
	useIntake := flag.Bool("intake", false, "Treat the case file as free text and parse it with the LLM intake")
	dossierPath := flag.String("dossier", "", "Optional dossier JSON; a laudo is issued when the outcome is CONFIRMED")
	dbPath := flag.String("db", "", "Optional SQLite database to record the assessment and laudo")
	flag.Parse()

	if *casePath == "" {
		log.Fatal("missing required -case")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	req, err := loadRequest(ctx, *casePath, *useIntake)
	if err != nil {
		log.Fatalf("load case: %v", err)
	}

	engine := eligibility.NewEngine(docanalysis.DefaultRules())
	assessment := engine.Decide(req.Documentation)
	fmt.Print(eligibility.BuildAssessmentMarkdown(req, assessment))

	var store *casestore.Store
	if *dbPath != "" {
		store, err = casestore.Open(*dbPath)
		if err != nil {
			log.Fatalf("open store (%s): %v", *dbPath, err)
		}
		defer store.Close()
		if _, err := store.SaveAssessment(req.CandidateCPF, assessment); err != nil {
			log.Fatalf("save assessment: %v", err)
		}
	}

	if *dossierPath == "" {
		return
	}
	if assessment.Outcome != eligibility.OutcomeConfirmed {
		log.Printf("outcome is %s; laudo not issued", assessment.Outcome)
		return
	}

	dossier, err := loadDossier(*dossierPath)
	if err != nil {
		log.Fatalf("load dossier: %v", err)
	}
	report := laudo.NewGenerator().Generate(dossier)
	fmt.Println()
	fmt.Print(report.Document)

	if store != nil && report.ID != laudo.InvalidID {
		if err := store.SaveLaudo(dossier.Candidate.CPF, report); err != nil {
			log.Fatalf("save laudo: %v", err)
		}
		log.Printf("laudo %s recorded", report.ID)
	}
}

func loadRequest(ctx context.Context, path string, useIntake bool) (eligibility.Request, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return eligibility.Request{}, err
	}
	if useIntake {
		caller, err := intake.NewAnthropicCallerFromEnv()
		if err != nil {
			return eligibility.Request{}, err
		}
		return intake.NewParser(caller).Parse(ctx, string(blob))
	}
	var req eligibility.Request
	if err := json.Unmarshal(blob, &req); err != nil {
		return eligibility.Request{}, fmt.Errorf("decode case JSON: %w", err)
	}
	return req, nil
}

func loadDossier(path string) (laudo.Dossier, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return laudo.Dossier{}, err
	}
	var d laudo.Dossier
	if err := json.Unmarshal(blob, &d); err != nil {
		return laudo.Dossier{}, fmt.Errorf("decode dossier JSON: %w", err)
	}
	return d, nil
}
