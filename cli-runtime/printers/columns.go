package printers

import (
	"fmt"
	"strconv"
	"strings"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"

	storev1alpha1 "github.com/dtomasi/storectl/api/v1alpha1"
)

const (
	noneValue    = "<none>"
	unknownValue = "<unknown>"
)

// PrintColumn defines a single column in table output.
type PrintColumn struct {
	Name        string
	Type        string
	Description string
	JSONPath    string
	Priority    int32
}

// ColumnDefinitionProvider provides column definitions for resources.
type ColumnDefinitionProvider interface {
	GetColumns(obj runtime.Object, wide bool) []PrintColumn
}

// DefaultColumnProvider knows the columns of products and categories.
type DefaultColumnProvider struct{}

var (
	productColumns = []PrintColumn{
		{Name: "ID", Type: "integer", JSONPath: ".id"},
		{Name: "Title", Type: "string", JSONPath: ".title"},
		{Name: "Price", Type: "number", JSONPath: ".price"},
		{Name: "Category", Type: "string", JSONPath: ".category"},
		{Name: "Rating", Type: "number", JSONPath: ".rating.rate", Priority: 1},
		{Name: "Count", Type: "integer", JSONPath: ".rating.count", Priority: 1},
		{Name: "Image", Type: "string", JSONPath: ".image", Priority: 1},
	}

	categoryColumns = []PrintColumn{
		{Name: "Name", Type: "string", JSONPath: ".name"},
	}
)

// GetColumns returns the columns for the given object. Priority 1 columns are wide-only.
func (p *DefaultColumnProvider) GetColumns(obj runtime.Object, wide bool) []PrintColumn {
	var all []PrintColumn
	switch obj.(type) {
	case *storev1alpha1.Product:
		all = productColumns
	case *storev1alpha1.Category:
		all = categoryColumns
	default:
		return nil
	}

	columns := make([]PrintColumn, 0, len(all))
	for _, col := range all {
		if col.Priority > 0 && !wide {
			continue
		}
		columns = append(columns, col)
	}
	return columns
}

// extractColumnValue resolves a dotted JSONPath against the unstructured form of obj.
func extractColumnValue(content map[string]interface{}, column PrintColumn) string {
	path := strings.Split(strings.TrimPrefix(column.JSONPath, "."), ".")
	value, found, err := unstructured.NestedFieldNoCopy(content, path...)
	if err != nil {
		return unknownValue
	}
	if !found || value == nil {
		return noneValue
	}
	return formatValue(value)
}

func formatValue(value interface{}) string {
	switch v := value.(type) {
	case string:
		if v == "" {
			return noneValue
		}
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return fmt.Sprintf("%v", v)
	}
}
