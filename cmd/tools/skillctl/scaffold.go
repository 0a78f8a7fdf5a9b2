// cmd/tools/skillctl/scaffold.go
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"

	"github.com/spf13/cobra"
)

var slug = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// SkillData holds data for templates
type SkillData struct {
	Name        string
	Domain      string
	PackageName string
	Title       string
	Description string
}

const modelsTemplate = `// internal/skills/{{ .Domain }}/{{ .Name }}/models.go
package {{ .PackageName }}

import (
	"crm-ai-gateway/internal/gateway/contexts"
	"crm-ai-gateway/internal/models"
)

type Request struct {
	ClientData      *models.ClientContext   ` + "`json:\"clientData,omitempty\"`" + `
	RegionalContext *models.RegionalContext ` + "`json:\"regionalContext,omitempty\"`" + `
	Options         contexts.Options        ` + "`json:\"options,omitempty\"`" + `
}

type Response struct {
	Summary string   ` + "`json:\"summary\"`" + `
	Actions []string ` + "`json:\"actions\"`" + `
}
`

const skillTemplate = `// internal/skills/{{ .Domain }}/{{ .Name }}/skill.go
package {{ .PackageName }}

import (
	"crm-ai-gateway/internal/gateway"
	"crm-ai-gateway/internal/gateway/contexts"
	"crm-ai-gateway/internal/gateway/llm"
	"crm-ai-gateway/internal/gateway/prompt"
)

const (
	Name   = "{{ .Name }}"
	Domain = "{{ .Domain }}"
)

const schema = ` + "`" + `{
  "summary": "string",
  "actions": ["string"]
}` + "`" + `

func Definition() *gateway.Definition[Request, Response] {
	return &gateway.Definition[Request, Response]{
		Name:        Name,
		Domain:      Domain,
		Description: {{ printf "%q" .Description }},
		Params:      llm.Params{Temperature: 0.5, MaxOutputTokens: 1024},
		Prompt:      buildPrompt,
		Tags:        []string{"{{ .Domain }}"},
		Fallback: Response{
			Summary: {{ printf "%q" (print .Title " is temporarily unavailable.") }},
			Actions: []string{},
		},
	}
}

func buildPrompt(req *Request) prompt.Spec {
	return prompt.Spec{
		Role:         "a CRM assistant",
		Mission:      {{ printf "%q" (print .Description ".") }},
		Instructions: []string{"Base every statement on the context provided"},
		OutputFormat: prompt.OutputFormat{Type: prompt.FormatJSON, Schema: schema},
	}.
		With("", contexts.Join(
			contexts.Client(req.ClientData),
			contexts.Regional(req.RegionalContext, req.Options),
		))
}
`

func newSkillData(domain, name, description string) (SkillData, error) {
	if !slug.MatchString(domain) {
		return SkillData{}, fmt.Errorf("domain %q must be a lowercase slug", domain)
	}
	if !slug.MatchString(name) {
		return SkillData{}, fmt.Errorf("name %q must be a lowercase slug", name)
	}

	words := strings.Split(name, "-")
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	title := strings.Join(words, " ")
	if description == "" {
		description = "Generate " + strings.ToLower(title) + " content"
	}

	return SkillData{
		Name:        name,
		Domain:      domain,
		PackageName: strings.ReplaceAll(name, "-", ""),
		Title:       title,
		Description: description,
	}, nil
}

// scaffold writes a new skill package under root and returns the files it
// created. Existing files are never overwritten.
func scaffold(root string, data SkillData) ([]string, error) {
	dir := filepath.Join(root, data.Domain, data.Name)
	if _, err := os.Stat(dir); err == nil {
		return nil, fmt.Errorf("skill directory %s already exists", dir)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create directory: %w", err)
	}

	files := []struct {
		name string
		tmpl string
	}{
		{"models.go", modelsTemplate},
		{"skill.go", skillTemplate},
	}

	var written []string
	for _, f := range files {
		tmpl, err := template.New(f.name).Parse(f.tmpl)
		if err != nil {
			return written, fmt.Errorf("parse template %s: %w", f.name, err)
		}
		path := filepath.Join(dir, f.name)
		file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err != nil {
			return written, err
		}
		err = tmpl.Execute(file, data)
		file.Close()
		if err != nil {
			return written, fmt.Errorf("render %s: %w", f.name, err)
		}
		written = append(written, path)
	}
	return written, nil
}

func newScaffoldCmd() *cobra.Command {
	var (
		root        string
		description string
	)
	cmd := &cobra.Command{
		Use:   "scaffold <domain> <name>",
		Short: "Generate a new skill package",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := newSkillData(args[0], args[1], description)
			if err != nil {
				return err
			}
			files, err := scaffold(root, data)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, f := range files {
				fmt.Fprintf(out, "Generated %s\n", f)
			}
			fmt.Fprintf(out, "\nNext steps:\n")
			fmt.Fprintf(out, "  1. Define the request and response in models.go\n")
			fmt.Fprintf(out, "  2. Write the prompt, schema and fallback in skill.go\n")
			fmt.Fprintf(out, "  3. Register %s.Definition in internal/skills/register.go\n", data.PackageName)
			fmt.Fprintf(out, "  4. Re-export the registry with skillctl export -o configs/skill-registry.json\n")
			return nil
		},
	}
	cmd.Flags().StringVar(&root, "root", "internal/skills", "Skills root directory")
	cmd.Flags().StringVar(&description, "description", "", "One-line skill description")
	return cmd
}
