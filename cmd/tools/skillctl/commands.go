// cmd/tools/skillctl/commands.go
package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"crm-ai-gateway/internal/common/config"
	"crm-ai-gateway/internal/common/logger"
	"crm-ai-gateway/internal/gateway"
	"crm-ai-gateway/internal/gateway/llm"
	"crm-ai-gateway/internal/skills"
	"crm-ai-gateway/pkg/registry"
)

const registryVersion = "1.0.0"

// loadEndpoints binds every skill offline. No model is contacted.
func loadEndpoints(configPath string) ([]gateway.Endpoint, error) {
	rt := &gateway.Runtime{
		Model:  llm.Unconfigured{},
		Logger: logger.NewNoOpLogger(),
	}
	if configPath != "" {
		cfg, err := config.LoadFromFile(configPath)
		if err != nil {
			return nil, err
		}
		rt.Skills = cfg.Skills
		rt.DefaultTimeout = config.GetDuration(cfg.GenAI.Timeout)
	}
	return skills.Endpoints(rt)
}

func buildRegistry(endpoints []gateway.Endpoint) *registry.SkillRegistry {
	reg := &registry.SkillRegistry{
		Version:     registryVersion,
		LastUpdated: time.Now().UTC().Format(time.RFC3339),
	}
	for _, ep := range endpoints {
		reg.Skills = append(reg.Skills, ep.Describe())
	}
	reg.Sort()
	return reg
}

func findEndpoint(endpoints []gateway.Endpoint, name string) (gateway.Endpoint, error) {
	for _, ep := range endpoints {
		if ep.Name() == name {
			return ep, nil
		}
	}
	return nil, fmt.Errorf("skill %q not found", name)
}

func newListCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered skills",
		RunE: func(cmd *cobra.Command, args []string) error {
			endpoints, err := loadEndpoints(*configPath)
			if err != nil {
				return err
			}
			return writeList(cmd.OutOrStdout(), buildRegistry(endpoints))
		},
	}
}

func writeList(out io.Writer, reg *registry.SkillRegistry) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DOMAIN\tNAME\tROUTE\tENABLED\tTEMP\tTOKENS\tTIMEOUT")
	for _, s := range reg.Skills {
		fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%.2f\t%d\t%s\n",
			s.Domain, s.Name, s.Route, s.Enabled, s.Temperature, s.MaxOutputTokens, s.Timeout)
	}
	return w.Flush()
}

func newExportCmd(configPath *string) *cobra.Command {
	var (
		output string
		format string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the skill registry as JSON or YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			endpoints, err := loadEndpoints(*configPath)
			if err != nil {
				return err
			}
			reg := buildRegistry(endpoints)
			if output != "" {
				if err := registry.SaveRegistry(output, reg); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d skills to %s\n", len(reg.Skills), output)
				return nil
			}
			data, err := registry.Encode(reg, format)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "File to write (format taken from the extension)")
	cmd.Flags().StringVar(&format, "format", "json", "Output format when writing to stdout: json or yaml")
	return cmd
}

func newValidateCmd(configPath *string) *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a registry file against the compiled skill definitions",
		RunE: func(cmd *cobra.Command, args []string) error {
			endpoints, err := loadEndpoints(*configPath)
			if err != nil {
				return err
			}
			stored, err := registry.LoadRegistry(path)
			if err != nil {
				return err
			}
			diffs := registry.Diff(stored, buildRegistry(endpoints))
			out := cmd.OutOrStdout()
			if len(diffs) == 0 {
				fmt.Fprintf(out, "Registry %s is up to date (%d skills)\n", path, len(stored.Skills))
				return nil
			}
			for _, d := range diffs {
				fmt.Fprintln(out, "  -", d)
			}
			return fmt.Errorf("registry %s is out of date: %d difference(s)", path, len(diffs))
		},
	}
	cmd.Flags().StringVar(&path, "path", "configs/skill-registry.json", "Registry file to check")
	return cmd
}

func newRenderCmd(configPath *string) *cobra.Command {
	var input string
	cmd := &cobra.Command{
		Use:   "render <skill>",
		Short: "Print the prompt a skill would send for a sample request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			endpoints, err := loadEndpoints(*configPath)
			if err != nil {
				return err
			}
			ep, err := findEndpoint(endpoints, args[0])
			if err != nil {
				return err
			}

			body := []byte("{}")
			switch {
			case input == "-":
				body, err = io.ReadAll(cmd.InOrStdin())
			case input != "":
				body, err = os.ReadFile(input)
			}
			if err != nil {
				return fmt.Errorf("read request: %w", err)
			}
			if strings.TrimSpace(string(body)) == "" {
				body = []byte("{}")
			}

			text, err := ep.RenderPrompt(body)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "Request JSON file, or - for stdin")
	return cmd
}
