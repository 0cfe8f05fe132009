package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"datajoin/core/dataset"
	"datajoin/feature/scenes/models"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	joinScene    string
	joinData     string
	joinKey      string
	joinSelector string
	joinTag      string
	joinParent   string
	joinClasses  []string
	joinAttrs    map[string]string
	joinText     string
	joinStrict   bool
	joinDryRun   bool
	joinNoEnter  bool
	joinNoExit   bool
	joinYes      bool
)

const joinMaxSample = 5

// joinCmd runs one data join from the command line.
var joinCmd = &cobra.Command{
	Use:   "join",
	Short: "Join a dataset to a stored scene (report + optionally apply)",
	Long: `Join a dataset to the children of a scene element.

The dataset is read from a local file when --data names one, otherwise from
the datasets folder of the storage bucket. The join is always planned first.
Exiting elements are removed only after confirmation.

Examples:
  # Report only
  join --scene chart --data points.csv --key id --selector circle.dot --dry-run

  # Apply with auto-confirm, mapping attributes from record fields
  join --scene chart --data points.csv --key id --selector circle.dot --attr cx=x --attr cy=y --yes

  # Bind by index and keep extra elements
  join --scene chart --data series.yaml --selector rect.bar --no-exit --yes`,
	RunE: runJoin,
}

func init() {
	joinCmd.Flags().StringVar(&joinScene, "scene", "", "Scene name")
	joinCmd.Flags().StringVar(&joinData, "data", "", "Dataset file or object name (csv, tsv, json, yaml)")
	joinCmd.Flags().StringVar(&joinKey, "key", "", "Record field used as join key (empty joins by index)")
	joinCmd.Flags().StringVar(&joinSelector, "selector", "", "Selector for the joined children (e.g. circle.dot)")
	joinCmd.Flags().StringVar(&joinTag, "tag", "", "Tag of entering elements (defaults to the selector's tag)")
	joinCmd.Flags().StringVar(&joinParent, "parent", "", "Parent element id (defaults to the scene root)")
	joinCmd.Flags().StringSliceVar(&joinClasses, "class", nil, "Extra classes of entering elements")
	joinCmd.Flags().StringToStringVar(&joinAttrs, "attr", nil, "Attribute to record field mapping (attr=field)")
	joinCmd.Flags().StringVar(&joinText, "text", "", "Record field copied into the element text")
	joinCmd.Flags().BoolVar(&joinStrict, "strict", false, "Fail on duplicate keys instead of keeping the last item")
	joinCmd.Flags().BoolVar(&joinDryRun, "dry-run", false, "Plan only, never touch the scene")
	joinCmd.Flags().BoolVar(&joinNoEnter, "no-enter", false, "Do not create elements for entering items")
	joinCmd.Flags().BoolVar(&joinNoExit, "no-exit", false, "Keep exiting elements")
	joinCmd.Flags().BoolVar(&joinYes, "yes", false, "Auto-confirm removal of exiting elements (non-interactive)")
	_ = joinCmd.MarkFlagRequired("scene")
	_ = joinCmd.MarkFlagRequired("data")

	RootCmd.AddCommand(joinCmd)
}

func runJoin(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	rt, err := newRuntime()
	if err != nil {
		return err
	}
	l := rt.logger
	defer l.Sync()

	if err := rt.connect(true); err != nil {
		return err
	}
	svc, err := rt.sceneService(nil)
	if err != nil {
		return err
	}

	req := models.JoinRequest{
		Parent:    joinParent,
		Selector:  joinSelector,
		Tag:       joinTag,
		Classes:   joinClasses,
		Key:       joinKey,
		SkipEnter: joinNoEnter,
		SkipExit:  joinNoExit,
		Attrs:     joinAttrs,
		Text:      joinText,
	}
	if cmd.Flags().Changed("strict") {
		req.Strict = &joinStrict
	}

	if _, statErr := os.Stat(joinData); statErr == nil {
		items, err := dataset.LoadFile(joinData)
		if err != nil {
			return err
		}
		req.Items = items
		l.Info("Loaded local dataset", zap.String("file", joinData), zap.Int("items", len(items)))
	} else {
		req.Dataset = joinData
		l.Info("Using stored dataset", zap.String("bucket", rt.cfg.Storage.Bucket), zap.String("dataset", joinData))
	}

	// Step 1: Plan (always runs)
	planReq := req
	planReq.DryRun = true
	plan, err := svc.Join(ctx, joinScene, planReq)
	if err != nil {
		return fmt.Errorf("failed to plan join: %w", err)
	}
	printJoinReport(l, "Join plan", plan)

	if joinDryRun {
		l.Info("Dry-run mode: No changes were made.")
		return nil
	}

	// Step 2: Confirm removals
	if plan.Summary.Exiting > 0 && !joinNoExit && !confirmRemoval(plan.Summary.Exiting) {
		l.Warn("Operation cancelled by user. No changes were made.")
		return nil
	}

	// Step 3: Apply
	report, err := svc.Join(ctx, joinScene, req)
	if err != nil {
		return fmt.Errorf("failed to apply join: %w", err)
	}
	printJoinReport(l, "Join applied", report)
	return nil
}

// printJoinReport logs the counts of a join and a sample of its keys.
func printJoinReport(l *zap.Logger, msg string, r *models.JoinReport) {
	s := r.Summary
	l.Info(msg,
		zap.String("scene", r.Scene),
		zap.Int("items", s.Items),
		zap.Int("entering", s.Entering),
		zap.Int("updating", s.Updating),
		zap.Int("exiting", s.Exiting),
		zap.Int("dropped", s.Dropped),
		zap.Int("nodes", r.Nodes),
	)

	sample := func(kind string, keys []string) {
		if len(keys) == 0 {
			return
		}
		n := min(len(keys), joinMaxSample)
		l.Info("Sample keys", zap.String("set", kind), zap.Strings("keys", keys[:n]))
		if len(keys) > n {
			l.Info("Additional keys not shown", zap.String("set", kind), zap.Int("count", len(keys)-n))
		}
	}
	sample("enter", r.Entered)
	sample("exit", r.Exited)
	sample("dropped", r.Dropped)
}

// confirmRemoval prompts the user for confirmation or uses the --yes flag.
func confirmRemoval(count int) bool {
	if joinYes {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Printf("\n⚠️  %d element(s) will be removed. Type 'yes' to confirm: ", count)
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.TrimSpace(response) == "yes"
}
