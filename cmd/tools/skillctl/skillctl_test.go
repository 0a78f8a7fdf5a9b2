package main

import (
	"bytes"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crm-ai-gateway/internal/skills"
	"crm-ai-gateway/pkg/registry"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestBuildRegistry(t *testing.T) {
	endpoints, err := loadEndpoints("")
	require.NoError(t, err)

	reg := buildRegistry(endpoints)
	require.Len(t, reg.Skills, skills.Count())
	for i := 1; i < len(reg.Skills); i++ {
		prev, cur := reg.Skills[i-1], reg.Skills[i]
		assert.True(t, prev.Domain < cur.Domain || (prev.Domain == cur.Domain && prev.Name < cur.Name))
	}

	s, ok := reg.Find("communication-strategy")
	require.True(t, ok)
	assert.Equal(t, "/api/ai/clients/communication-strategy", s.Route)
	assert.Equal(t, "POST", s.Method)
	assert.Equal(t, "30s", s.Timeout)
}

func TestListCommand(t *testing.T) {
	out, err := execute(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "DOMAIN")
	assert.Contains(t, out, "/api/ai/tasks/task-prioritization")
}

func TestExportAndValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.yaml")

	out, err := execute(t, "export", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote")

	out, err = execute(t, "validate", "--path", path)
	require.NoError(t, err)
	assert.Contains(t, out, "up to date")

	reg, err := registry.LoadRegistry(path)
	require.NoError(t, err)
	reg.Skills = reg.Skills[1:]
	require.NoError(t, registry.SaveRegistry(path, reg))

	out, err = execute(t, "validate", "--path", path)
	require.Error(t, err)
	assert.Contains(t, out, "missing from registry")
}

func TestExportStdoutYAML(t *testing.T) {
	out, err := execute(t, "export", "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "name: lead-score")
}

func TestRenderCommand(t *testing.T) {
	input := filepath.Join(t.TempDir(), "req.json")
	require.NoError(t, os.WriteFile(input, []byte(`{"clientData":{"name":"Acme","industry":"retail"}}`), 0o644))

	out, err := execute(t, "render", "communication-strategy", "-i", input)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "You are "))
	assert.Contains(t, out, "- Name: Acme")

	_, err = execute(t, "render", "no-such-skill")
	require.Error(t, err)
}

func TestNewSkillData(t *testing.T) {
	data, err := newSkillData("clients", "churn-alert", "")
	require.NoError(t, err)
	assert.Equal(t, "churnalert", data.PackageName)
	assert.Equal(t, "Churn Alert", data.Title)
	assert.Equal(t, "Generate churn alert content", data.Description)

	_, err = newSkillData("Clients", "churn-alert", "")
	assert.Error(t, err)
	_, err = newSkillData("clients", "churn_alert", "")
	assert.Error(t, err)
}

func TestScaffold(t *testing.T) {
	root := t.TempDir()
	data, err := newSkillData("clients", "churn-alert", `Flag "at risk" accounts`)
	require.NoError(t, err)

	files, err := scaffold(root, data)
	require.NoError(t, err)
	require.Len(t, files, 2)

	fset := token.NewFileSet()
	for _, f := range files {
		src, err := os.ReadFile(f)
		require.NoError(t, err)
		_, err = parser.ParseFile(fset, f, src, parser.AllErrors)
		require.NoError(t, err, "generated %s does not parse", filepath.Base(f))
		assert.Contains(t, string(src), "package churnalert")
	}

	skill, err := os.ReadFile(filepath.Join(root, "clients", "churn-alert", "skill.go"))
	require.NoError(t, err)
	assert.Contains(t, string(skill), `Name   = "churn-alert"`)
	assert.Contains(t, string(skill), `"Flag \"at risk\" accounts"`)

	_, err = scaffold(root, data)
	assert.Error(t, err)
}
