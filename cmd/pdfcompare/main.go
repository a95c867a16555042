package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/spf13/pflag"

	"github.com/vmanzanal/AI4Devs-finalproject-sub000/internal/config"
	"github.com/vmanzanal/AI4Devs-finalproject-sub000/internal/diff"
	"github.com/vmanzanal/AI4Devs-finalproject-sub000/internal/pdf"
	pdferrors "github.com/vmanzanal/AI4Devs-finalproject-sub000/internal/pdf/errors"
)

func main() {
	cfg, err := config.LoadFromFlags()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	setupLogging(cfg)

	if cfg.IsDebug() {
		log.Printf("Starting with configuration: %s", cfg.String())
	}

	if err := run(cfg, pflag.Args()); err != nil {
		if pdferrors.IsNoFieldsFound(err) {
			fmt.Fprintf(os.Stderr, "No form fields found: %v\n", err)
		} else if pdferrors.IsInvalidDocument(err) {
			fmt.Fprintf(os.Stderr, "Invalid document: %v\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// setupLogging configures logging based on the configured level
func setupLogging(cfg *config.Config) {
	log.SetOutput(os.Stderr)
	if cfg.IsDebug() {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}
}

// run dispatches the analyze and compare commands
func run(cfg *config.Config, args []string) error {
	if len(args) == 0 {
		pflag.Usage()
		return fmt.Errorf("command required: analyze or compare")
	}

	service := pdf.NewService(cfg.MaxFileSize, cfg.IsDebug())
	ctx := context.Background()

	switch args[0] {
	case "analyze":
		if len(args) != 2 {
			return fmt.Errorf("analyze requires exactly one PDF file argument")
		}
		return runAnalyze(ctx, cfg, service, args[1])
	case "compare":
		if len(args) != 3 {
			return fmt.Errorf("compare requires exactly two PDF file arguments")
		}
		return runCompare(ctx, cfg, service, args[1], args[2])
	default:
		pflag.Usage()
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

// runAnalyze extracts one document's field structure and prints it
func runAnalyze(ctx context.Context, cfg *config.Config, service *pdf.Service, path string) error {
	result, err := service.AnalyzeFile(ctx, path)
	if err != nil {
		return err
	}

	if cfg.Format == config.FormatJSON {
		return outputJSON(result)
	}

	fmt.Printf("Document: %s\n", path)
	fmt.Printf("Pages: %d, Fields: %d\n\n", result.PageCount, len(result.Fields))
	for _, field := range result.Fields {
		fmt.Printf("[p%d #%d] %s (%s)\n", field.Page, field.PageOrder, field.FieldID, field.Type)
		if field.NearText != "" {
			fmt.Printf("    Label: %s\n", field.NearText)
		}
		if len(field.ValueOptions) > 0 {
			fmt.Printf("    Options: %v\n", field.ValueOptions)
		}
		if field.Position != nil {
			fmt.Printf("    Position: (%.1f, %.1f) to (%.1f, %.1f)\n",
				field.Position.X0, field.Position.Y0, field.Position.X1, field.Position.Y1)
		}
	}
	for _, warning := range result.Warnings {
		log.Printf("warning: %s", warning)
	}
	return nil
}

// runCompare analyzes both versions and prints the field-level diff
func runCompare(ctx context.Context, cfg *config.Config, service *pdf.Service, sourcePath, targetPath string) error {
	source, err := service.AnalyzeFile(ctx, sourcePath)
	if err != nil {
		return fmt.Errorf("source %s: %w", sourcePath, err)
	}
	target, err := service.AnalyzeFile(ctx, targetPath)
	if err != nil {
		return fmt.Errorf("target %s: %w", targetPath, err)
	}

	result := diff.Compare(source.Fields, target.Fields, diff.Options{
		PositionTolerance: cfg.PositionTolerance,
	})

	if cfg.Format == config.FormatJSON {
		return outputJSON(result)
	}

	m := result.Metrics
	fmt.Printf("Comparing %s -> %s\n\n", sourcePath, targetPath)
	fmt.Printf("Added: %d  Removed: %d  Modified: %d  Unchanged: %d\n",
		m.FieldsAdded, m.FieldsRemoved, m.FieldsModified, m.FieldsUnchanged)
	fmt.Printf("Modification: %.2f%%\n\n", m.ModificationPercentage)

	for _, change := range result.Changes {
		if change.Status == diff.StatusUnchanged {
			continue
		}
		fmt.Printf("%-9s %s\n", change.Status, change.FieldID)
		if change.PageChanged {
			fmt.Printf("    page: %d -> %d\n", *change.SourcePage, *change.TargetPage)
		}
		if change.NearTextDiff == diff.AspectDifferent {
			fmt.Printf("    label: %q -> %q\n", *change.SourceNearText, *change.TargetNearText)
		}
		if change.ValueOptionsDiff == diff.AspectDifferent {
			fmt.Printf("    options: %v -> %v\n", change.SourceValueOptions, change.TargetValueOptions)
		}
		if change.PositionDiff == diff.AspectDifferent {
			fmt.Printf("    position moved\n")
		}
	}
	return nil
}

// outputJSON writes any result as indented JSON to stdout
func outputJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
