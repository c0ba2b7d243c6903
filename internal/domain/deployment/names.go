// Where: internal/domain/deployment/names.go
// What: SageMaker resource naming.
// Why: Model and config names derive from the endpoint name; config files may override the pattern.
package deployment

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

const (
	DefaultModelNameTemplate  = "{{ .Endpoint }}-model"
	DefaultConfigNameTemplate = "{{ .Endpoint }}-config"
)

// NameTemplates are text/template patterns (sprig functions available)
// rendered with .Endpoint, .InstanceType and .Variant.
type NameTemplates struct {
	Model  string
	Config string
}

// ResourceNames are the three names created by the provisioner.
type ResourceNames struct {
	Model          string
	EndpointConfig string
	Endpoint       string
}

type nameData struct {
	Endpoint     string
	InstanceType string
	Variant      string
}

// ResolveNames renders the resource names for s.
func ResolveNames(s Spec) (ResourceNames, error) {
	data := nameData{Endpoint: s.EndpointName, InstanceType: s.InstanceType, Variant: s.VariantName}
	model, err := renderName("model", orDefault(s.Names.Model, DefaultModelNameTemplate), data)
	if err != nil {
		return ResourceNames{}, err
	}
	config, err := renderName("config", orDefault(s.Names.Config, DefaultConfigNameTemplate), data)
	if err != nil {
		return ResourceNames{}, err
	}
	return ResourceNames{Model: model, EndpointConfig: config, Endpoint: s.EndpointName}, nil
}

func renderName(kind, pattern string, data nameData) (string, error) {
	tmpl, err := template.New(kind).Funcs(sprig.TxtFuncMap()).Option("missingkey=error").Parse(pattern)
	if err != nil {
		return "", fmt.Errorf("parse %s name template: %w", kind, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s name template: %w", kind, err)
	}
	name := strings.TrimSpace(buf.String())
	if name == "" {
		return "", fmt.Errorf("%s name template %q rendered empty", kind, pattern)
	}
	if len(name) > 63 {
		return "", fmt.Errorf("%s name %q exceeds 63 characters", kind, name)
	}
	return name, nil
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
