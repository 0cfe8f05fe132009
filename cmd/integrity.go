package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"datajoin/feature/integrity"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	fixFlag        bool
	schemaJSONFlag bool
)

type integrityChecks struct {
	structure bool
	datasets  bool
	schema    bool
}

var allChecks = integrityChecks{structure: true, datasets: true, schema: true}

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Perform integrity checks on storage and database",
	Long:  `Checks the storage bucket folders, the stored datasets and the scene tables.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			return cmd.Help()
		}
		return runIntegrityChecks(cmd.Context(), allChecks)
	},
}

// structureCmd represents the integrity structure command
var structureCmd = &cobra.Command{
	Use:   "structure",
	Short: "Check and fix folder structure",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), integrityChecks{structure: true})
	},
}

// datasetsCmd represents the integrity datasets command
var datasetsCmd = &cobra.Command{
	Use:   "datasets",
	Short: "Check that every stored dataset has a readable format",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), integrityChecks{datasets: true})
	},
}

// schemaCmd represents the integrity schema command
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Check the scene tables against their models",
	Long:  `Compares the scenes and scene_elements tables with the expected columns and types. Use --json to save the full report.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), integrityChecks{schema: true})
	},
}

func init() {
	RootCmd.AddCommand(integrityCmd)
	integrityCmd.AddCommand(structureCmd, datasetsCmd, schemaCmd)

	structureCmd.Flags().BoolVar(&fixFlag, "fix", false, "Fix missing folders")
	schemaCmd.Flags().BoolVar(&schemaJSONFlag, "json", false, "Save the detailed report as JSON")
}

func runIntegrityChecks(ctx context.Context, run integrityChecks) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	logg := rt.logger
	defer logg.Sync()

	if err := rt.connect(run.schema && run != allChecks); err != nil {
		return err
	}

	svc := integrity.NewService(rt.client, rt.cfg.Storage.Bucket, logg, rt.db, rt.cfg.Join.DatasetPrefix)

	if run.structure {
		logg.Info("Checking folder structure...")
		missing, err := svc.CheckStructure(ctx)
		if err != nil {
			return fmt.Errorf("structure check failed: %w", err)
		}

		if len(missing) == 0 {
			logg.Info("Structure is intact.")
		} else {
			logg.Warn("Missing folders detected", zap.Strings("missing", missing))

			if fixFlag {
				logg.Info("Fixing missing folders...")
				if err := svc.FixStructure(ctx, missing); err != nil {
					return fmt.Errorf("failed to fix structure: %w", err)
				}
				logg.Info("Structure fixed successfully.")
			} else {
				logg.Info("Run integrity structure with --fix to create missing folders.")
			}
		}
	}

	if run.datasets {
		logg.Info("Checking datasets...")
		report, err := svc.CheckDatasets(ctx)
		if err != nil {
			return fmt.Errorf("dataset check failed: %w", err)
		}
		for format, n := range report.Formats {
			logg.Info("Datasets", zap.String("format", string(format)), zap.Int("count", n))
		}
		if len(report.Unsupported) > 0 {
			logg.Warn("Unsupported datasets detected", zap.Strings("objects", report.Unsupported))
		} else {
			logg.Info("All datasets are readable.", zap.Int("total", report.Total))
		}
	}

	if run.schema {
		return checkSchema(svc, logg)
	}
	return nil
}

func checkSchema(svc *integrity.Service, logg *zap.Logger) error {
	logg.Info("Checking scene schema integrity...")
	report, err := svc.CheckSchema()
	if errors.Is(err, integrity.ErrNoDatabase) {
		logg.Warn("Skipping schema check, no database connected")
		return nil
	}
	if err != nil {
		return fmt.Errorf("schema check failed: %w", err)
	}

	if report.Matched {
		logg.Info("Scene schema matches expected definition.", zap.String("driver", report.Driver))
	} else {
		logg.Warn("Scene schema mismatches found", zap.String("driver", report.Driver))
		for table, tbl := range report.Tables {
			if tbl.Status == "ok" {
				continue
			}
			if len(tbl.MissingColumns) > 0 {
				logg.Warn("Missing Columns", zap.String("table", table), zap.Strings("columns", tbl.MissingColumns))
			}
			if len(tbl.TypeMismatches) > 0 {
				logg.Warn("Type Mismatches", zap.String("table", table), zap.Strings("mismatches", tbl.TypeMismatches))
			}
		}
		for _, e := range report.Errors {
			logg.Error("Inspection Error", zap.String("error", e))
		}
	}

	if schemaJSONFlag {
		filename := fmt.Sprintf("integrity_schema_%d.json", time.Now().Unix())
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		if err := os.WriteFile(filename, data, 0644); err != nil {
			return fmt.Errorf("failed to save JSON file: %w", err)
		}
		logg.Info("Detailed JSON report saved", zap.String("file", filename))
	}
	return nil
}
