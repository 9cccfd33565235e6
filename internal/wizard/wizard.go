// Package wizard collects the answers needed to write a .prxdash.yaml.
package wizard

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/charmbracelet/huh"
	"github.com/prxlab/prxdash/internal/projectconfig"
	"golang.org/x/term"
)

// Answers are the raw form values.
type Answers struct {
	SourceKind string
	Location   string
	Container  string
	Dataset    string
	Models     string
	Categories string
}

// ProjectSpec holds the validated fields collected during the wizard.
type ProjectSpec struct {
	SourceKind string
	Root       string
	URL        string
	AccountURL string
	Container  string
	Dataset    string
	Models     []string
	Categories []string
	Percentile float64
	TopN       int
}

const configTemplate = `# prxdash project configuration
source:
  kind: {{ .SourceKind }}
{{- if eq .SourceKind "dir" }}
  root: {{ .Root }}
{{- else if eq .SourceKind "http" }}
  url: {{ .URL }}
{{- else }}
  account_url: {{ .AccountURL }}
  container: {{ .Container }}
{{- end }}

datasets:
  - name: {{ .Dataset }}
    models:
{{- range .Models }}
      - {{ . }}
{{- end }}
{{- if .Categories }}
    categories:
{{- range .Categories }}
      - {{ . }}
{{- end }}
{{- end }}

# Cells at or above this percentile of their metric column are highlighted.
highlight:
  percentile: {{ .Percentile }}

top:
  n: {{ .TopN }}
`

// RunProjectWizard runs an interactive huh form and validates the answers.
func RunProjectWizard(in io.Reader, out io.Writer) (*ProjectSpec, error) {
	a := Answers{SourceKind: projectconfig.SourceDir, Location: projectconfig.DefaultSourceRoot}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Score source").
				Options(
					huh.NewOption("local directory", projectconfig.SourceDir),
					huh.NewOption("HTTP server", projectconfig.SourceHTTP),
					huh.NewOption("Azure Blob Storage", projectconfig.SourceAzBlob),
				).
				Value(&a.SourceKind),
			huh.NewInput().
				Title("Location").
				Description("Directory, base URL, or storage account URL").
				Placeholder(projectconfig.DefaultSourceRoot).
				Value(&a.Location).
				Validate(requireValue("location")),
			huh.NewInput().
				Title("Blob container").
				Description("Only used for Azure Blob Storage").
				Value(&a.Container),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Dataset name").
				Placeholder("alpaca_eval").
				Value(&a.Dataset).
				Validate(requireValue("dataset name")),
			huh.NewInput().
				Title("Models").
				Description("Comma-separated model names, one score file or folder each").
				Placeholder("gemma-2b, qwen-7b").
				Value(&a.Models).
				Validate(func(s string) error {
					if len(splitAndTrim(s)) == 0 {
						return errors.New("at least one model is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Categories").
				Description("Comma-separated score files per model; leave empty for one file per model").
				Value(&a.Categories),
		),
	).
		WithInput(in).
		WithOutput(out)

	// Use accessible mode for non-TTY input (e.g., tests, piped input).
	if f, ok := in.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		form = form.WithAccessible(true)
	}

	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("wizard failed: %w", err)
	}
	return ParseAnswers(a)
}

// ParseAnswers validates raw answers and fills in defaults.
func ParseAnswers(a Answers) (*ProjectSpec, error) {
	spec := &ProjectSpec{
		SourceKind: strings.TrimSpace(a.SourceKind),
		Dataset:    strings.TrimSpace(a.Dataset),
		Models:     splitAndTrim(a.Models),
		Categories: splitAndTrim(a.Categories),
		Percentile: projectconfig.DefaultPercentile,
		TopN:       projectconfig.DefaultTopN,
	}
	if spec.SourceKind == "" {
		spec.SourceKind = projectconfig.SourceDir
	}

	location := strings.TrimSpace(a.Location)
	switch spec.SourceKind {
	case projectconfig.SourceDir:
		spec.Root = location
		if spec.Root == "" {
			spec.Root = projectconfig.DefaultSourceRoot
		}
	case projectconfig.SourceHTTP:
		if !strings.HasPrefix(location, "http://") && !strings.HasPrefix(location, "https://") {
			return nil, fmt.Errorf("source URL %q must start with http:// or https://", location)
		}
		spec.URL = location
	case projectconfig.SourceAzBlob:
		spec.AccountURL = location
		spec.Container = strings.TrimSpace(a.Container)
		if spec.AccountURL == "" || spec.Container == "" {
			return nil, errors.New("azure blob storage needs an account URL and a container")
		}
	default:
		return nil, fmt.Errorf("invalid source kind %q", spec.SourceKind)
	}

	if spec.Dataset == "" {
		return nil, errors.New("dataset name is required")
	}
	if len(spec.Models) == 0 {
		return nil, errors.New("at least one model is required")
	}
	return spec, nil
}

// GenerateConfigYAML renders a .prxdash.yaml from the given spec.
func GenerateConfigYAML(spec *ProjectSpec) (string, error) {
	tmpl, err := template.New("config").Parse(configTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, spec); err != nil {
		return "", fmt.Errorf("failed to render template: %w", err)
	}
	return buf.String(), nil
}

func requireValue(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", name)
		}
		return nil
	}
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	var result []string
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
