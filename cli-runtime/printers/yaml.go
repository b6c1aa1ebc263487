package printers

import (
	"encoding/json"
	"fmt"
	"io"

	"k8s.io/apimachinery/pkg/runtime"
	"sigs.k8s.io/yaml"
)

// yamlPrinter prints objects as YAML.
type yamlPrinter struct{}

// NewYAMLPrinter creates a new YAML printer.
func NewYAMLPrinter() Printer {
	return &yamlPrinter{}
}

// PrintObj prints an object as YAML.
func (p *yamlPrinter) PrintObj(obj runtime.Object, writer io.Writer) error {
	jsonData, err := json.Marshal(documentOf(obj))
	if err != nil {
		return fmt.Errorf("failed to marshal object: %w", err)
	}

	yamlData, err := yaml.JSONToYAML(jsonData)
	if err != nil {
		return fmt.Errorf("failed to convert to YAML: %w", err)
	}

	_, err = writer.Write(yamlData)
	return err
}
