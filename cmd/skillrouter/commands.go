package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vgardrinier/a2a-marketplace/config"
	"github.com/vgardrinier/a2a-marketplace/internal/mcpserver"
	"github.com/vgardrinier/a2a-marketplace/internal/model"
	"github.com/vgardrinier/a2a-marketplace/internal/pkg/catalog"
	"github.com/vgardrinier/a2a-marketplace/internal/service"
)

func newDetectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detect [path]",
		Short: "Print the project fingerprint of a workspace",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			return writeJSON(cmd.OutOrStdout(), a.Service.DetectProject(argOr(args, 0, ".")))
		},
	}
}

func newSolveCmd() *cobra.Command {
	var (
		req    service.SolveRequest
		budget float64
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "solve <task>",
		Short: "Find the catalog solutions, or workers, for a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			req.Task = args[0]
			if cmd.Flags().Changed("budget") {
				req.Budget = &budget
			}

			resp, err := a.Service.Solve(cmd.Context(), req)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), resp)
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), resp.Text)
			return err
		},
	}

	cmd.Flags().StringVarP(&req.Workspace, "workspace", "w", ".", "Workspace root")
	cmd.Flags().StringSliceVarP(&req.TargetFiles, "file", "f", nil, "Target files (repeatable)")
	cmd.Flags().BoolVar(&req.WantWorker, "want-worker", false, "Suggest workers when no catalog entry fits")
	cmd.Flags().StringVar(&req.Specialty, "specialty", "", "Only consider workers with this specialty")
	cmd.Flags().Float64Var(&budget, "budget", 0, "Maximum worker price")
	cmd.Flags().StringSliceVar(&req.RequiredCapabilities, "capability", nil, "Capabilities every worker must declare")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full response as JSON")
	return cmd
}

func newResolveCmd() *cobra.Command {
	var workspace string

	cmd := &cobra.Command{
		Use:     "resolve <id>",
		Aliases: []string{"skill"},
		Short: "Show one catalog entry, fetching remote instructions when needed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			_, text, err := a.Service.GetSkill(cmd.Context(), args[0], workspace)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), text)
			return err
		},
	}
	cmd.Flags().StringVarP(&workspace, "workspace", "w", ".", "Workspace root")
	return cmd
}

func newMatchCmd() *cobra.Command {
	var (
		req      service.FindWorkerRequest
		budget   float64
		workerID string
	)

	cmd := &cobra.Command{
		Use:   "match <task>",
		Short: "Match a task to an instant skill or rank workers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			if workerID != "" {
				_, text, err := a.Service.ScoreWorker(cmd.Context(), workerID, args[0])
				if err != nil {
					return err
				}
				_, err = fmt.Fprint(cmd.OutOrStdout(), text)
				return err
			}

			req.Task = args[0]
			if cmd.Flags().Changed("budget") {
				req.Budget = &budget
			}
			_, text, err := a.Service.FindWorker(cmd.Context(), req)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), text)
			return err
		},
	}
	cmd.Flags().StringVarP(&req.Workspace, "workspace", "w", ".", "Workspace root")
	cmd.Flags().StringVar(&req.Specialty, "specialty", "", "Only consider workers with this specialty")
	cmd.Flags().Float64Var(&budget, "budget", 0, "Maximum worker price")
	cmd.Flags().StringSliceVar(&req.RequiredCapabilities, "capability", nil, "Capabilities every worker must declare")
	cmd.Flags().StringVar(&workerID, "worker", "", "Score only this worker id, without filters or ranking")
	return cmd
}

func newCatalogCmd() *cobra.Command {
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect catalog entries",
	}

	var (
		workspace string
		relevant  bool
	)
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List merged catalog entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			var entries []*catalog.Entry
			if relevant {
				entries = a.Library.LoadRelevantEntries(a.Detector.Detect(workspace))
			} else {
				entries = a.Service.ListCatalog(workspace)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTYPE\tORIGIN\tRESOLUTION\tNAME")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", e.ID, e.Type, e.Origin, e.Resolution, e.Name)
			}
			return tw.Flush()
		},
	}
	listCmd.Flags().StringVarP(&workspace, "workspace", "w", ".", "Workspace root")
	listCmd.Flags().BoolVar(&relevant, "relevant", false, "Only entries whose detect rule matches the workspace")

	validateCmd := &cobra.Command{
		Use:   "validate <dir>",
		Short: "Parse every entry file under a directory and report failures",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := catalog.NewLoader(nil).LoadFromDir(args[0], catalog.OriginBundled)
			if err != nil {
				return err
			}
			failed := 0
			for _, r := range results {
				if r.Error != nil {
					failed++
					fmt.Fprintf(cmd.OutOrStdout(), "FAIL %s: %v\n", r.Path, r.Error)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d files, %d failed\n", len(results), failed)
			if failed > 0 {
				return fmt.Errorf("%d invalid entry files", failed)
			}
			return nil
		},
	}

	catalogCmd.AddCommand(listCmd, validateCmd)
	return catalogCmd
}

func newWorkersCmd() *cobra.Command {
	workersCmd := &cobra.Command{
		Use:   "workers",
		Short: "Manage the local worker registry",
	}

	seedCmd := &cobra.Command{
		Use:   "seed <file>",
		Short: "Create or update workers from a YAML or JSON list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			workers, err := readWorkers(args[0])
			if err != nil {
				return err
			}

			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			for _, w := range workers {
				if err := a.Workers.Upsert(cmd.Context(), w); err != nil {
					return fmt.Errorf("worker %s: %w", w.ID, err)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d workers\n", len(workers))
			return nil
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List registered workers",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			workers, err := a.Workers.List(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tSTATUS\tSPECIALTY\tREPUTATION\tJOBS\tPRICE")
			for _, w := range workers {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%.1f\t%d\t%.2f\n", w.ID, w.Status, w.Specialty, w.ReputationScore, w.CompletionCount, w.Pricing)
			}
			return tw.Flush()
		},
	}

	workersCmd.AddCommand(seedCmd, listCmd)
	return workersCmd
}

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or write the configuration",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write the default configuration to a YAML file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := argOr(args, 0, "config.yaml")
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := config.Default().Save(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return yaml.NewEncoder(cmd.OutOrStdout()).Encode(config.GetConfig())
		},
	}

	configCmd.AddCommand(initCmd, showCmd)
	return configCmd
}

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the routing tools over MCP on stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			return server.ServeStdio(mcpserver.NewMCPServer(a.Service, version))
		},
	}
}

// readWorkers YAML 先转为通用结构再经 JSON 映射，复用模型上的 json 标签
func readWorkers(path string) ([]*model.Worker, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw any
	switch filepath.Ext(path) {
	case ".json":
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
	default:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
	}

	normalized, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	var workers []*model.Worker
	if err := json.Unmarshal(normalized, &workers); err != nil {
		return nil, fmt.Errorf("%s: expected a list of workers: %w", path, err)
	}
	for _, w := range workers {
		if err := w.Validate(); err != nil {
			return nil, fmt.Errorf("worker %s: %w", w.ID, err)
		}
	}
	return workers, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func argOr(args []string, i int, fallback string) string {
	if i < len(args) {
		return args[i]
	}
	return fallback
}
