// importctl imports one spreadsheet export into the estimate store from
// the command line, without going through the API. Useful for backfills
// and for inspecting how a problem file maps before letting users at it.
//
// Usage:
//
//	importctl -file eksport.xlsx -org default [-dry-run]
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/Datavoxx/daglig-rad-sub001/internal/config"
	"github.com/Datavoxx/daglig-rad-sub001/internal/pkg/logger"
	"github.com/Datavoxx/daglig-rad-sub001/internal/repository/postgres"
	"github.com/Datavoxx/daglig-rad-sub001/internal/service/estimate"
	"github.com/Datavoxx/daglig-rad-sub001/internal/sheetdecode"
	"github.com/Datavoxx/daglig-rad-sub001/internal/sheetimport"
)

func main() {
	var (
		filePath = flag.String("file", "", "spreadsheet to import (.csv or .xlsx)")
		org      = flag.String("org", "default", "organization id")
		dryRun   = flag.Bool("dry-run", false, "map and group only, write nothing")
	)
	flag.Parse()

	if *filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.LoadFromEnv("config/config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger.SetLevel(logger.ParseLevel(cfg.Logging.Level))

	f, err := os.Open(*filePath)
	if err != nil {
		log.Fatalf("open file: %v", err)
	}
	defer f.Close()

	sheet, err := sheetdecode.Decode(f, *filePath)
	if err != nil {
		log.Fatalf("decode sheet: %v", err)
	}

	result := sheetimport.DefaultPipeline().Run(sheet)
	fmt.Printf("structure: %s\n", result.Structure)
	fmt.Printf("parsed:    %d estimates (%d rows skipped without a number)\n",
		len(result.Estimates), result.SkippedNoKey)

	if *dryRun {
		for _, est := range result.Estimates {
			fmt.Printf("  %-12s %-30s %d lines\n", est.Number, est.Name, len(est.Lines))
		}
		return
	}

	if cfg.Database.URL == "" {
		log.Fatal("database url is required (config database.url or DATABASE_URL)")
	}
	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	svc := estimate.NewService(postgres.NewEstimateRepo(db))

	existing, err := svc.ExistingNumberSet(ctx, *org)
	if err != nil {
		log.Fatalf("fetch existing numbers: %v", err)
	}
	part := sheetimport.PartitionByExisting(result.Estimates, existing)

	importer := sheetimport.NewImporter(svc.ImportStore(*org))
	outcome, err := importer.ImportAll(ctx, &sheetimport.Batch{
		NewEstimates: part.New,
		Duplicates:   len(part.Duplicate),
		SkippedNoKey: result.SkippedNoKey,
	})
	if err != nil {
		log.Fatalf("import interrupted: %v", err)
	}

	fmt.Printf("imported:   %d estimates, %d lines\n", outcome.Imported, outcome.ImportedLines)
	fmt.Printf("duplicates: %d\n", outcome.Duplicates)
	fmt.Printf("skipped:    %d rows without a number\n", outcome.SkippedNoKey)
	if outcome.Failed > 0 {
		fmt.Printf("failed:     %d estimates (see log)\n", outcome.Failed)
		os.Exit(1)
	}
}
