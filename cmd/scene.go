package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"datajoin/core/scene"
	"datajoin/feature/scenes"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var showJSON bool

// sceneCmd is the parent command for stored scene operations.
var sceneCmd = &cobra.Command{
	Use:   "scene",
	Short: "Inspect, export and delete stored scenes",
}

var sceneListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored scenes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, svc, err := sceneRuntime()
		if err != nil {
			return err
		}
		infos, err := svc.List(cmd.Context())
		if err != nil {
			return err
		}
		for _, info := range infos {
			rt.logger.Info("Scene",
				zap.String("name", info.Name),
				zap.Int64("elements", info.Elements),
				zap.Time("updated_at", info.UpdatedAt),
			)
		}
		rt.logger.Info("Scenes listed", zap.Int("count", len(infos)))
		return nil
	},
}

var sceneShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print a stored scene as an indented tree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, svc, err := sceneRuntime()
		if err != nil {
			return err
		}
		s, err := svc.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if showJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(s)
		}
		s.Walk(func(e *scene.Element, depth int) {
			fmt.Printf("%*s%s\n", depth*2, "", describe(e))
		})
		return nil
	},
}

var sceneExportCmd = &cobra.Command{
	Use:   "export <name>",
	Short: "Write a scene snapshot to the storage bucket",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, svc, err := sceneRuntime()
		if err != nil {
			return err
		}
		res, err := svc.Export(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		rt.logger.Info("Scene exported", zap.String("bucket", res.Bucket), zap.String("object", res.Object))
		return nil
	},
}

var sceneDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a stored scene",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, svc, err := sceneRuntime()
		if err != nil {
			return err
		}
		return svc.Delete(cmd.Context(), args[0])
	},
}

func init() {
	sceneShowCmd.Flags().BoolVar(&showJSON, "json", false, "Print the scene as JSON")
	sceneCmd.AddCommand(sceneListCmd, sceneShowCmd, sceneExportCmd, sceneDeleteCmd)
	RootCmd.AddCommand(sceneCmd)
}

func sceneRuntime() (*runtime, *scenes.Service, error) {
	rt, err := newRuntime()
	if err != nil {
		return nil, nil, err
	}
	if err := rt.connect(true); err != nil {
		return nil, nil, err
	}
	svc, err := rt.sceneService(nil)
	if err != nil {
		return nil, nil, err
	}
	return rt, svc, nil
}

// describe renders an element as tag.class#id[key] "text".
func describe(e *scene.Element) string {
	out := e.Tag
	for _, c := range e.Classes {
		out += "." + c
	}
	out += "#" + e.ID
	if e.Keyed {
		out += fmt.Sprintf("[%s]", e.Key)
	}
	if e.Text != "" {
		out += fmt.Sprintf(" %q", e.Text)
	}
	return out
}
