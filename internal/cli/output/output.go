package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/goccy/go-yaml"
	"github.com/muesli/termenv"
)

const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Formats is the list of supported output formats.
var Formats = []string{FormatTable, FormatJSON, FormatYAML}

// Column defines how to render a specific field from the data for the Table view.
type Column[T any] struct {
	// Header is the column title.
	Header string
	// Accessor extracts the value from the row object and formats it for the table.
	// If Accessor is provided, it takes precedence over Field.
	Accessor func(row T) string
	// Field is the name of the struct field to extract value from.
	// It is used if Accessor is nil.
	Field string
}

// ValidateFormat returns an error if the format is not one of Formats.
func ValidateFormat(format string) error {
	for _, f := range Formats {
		if format == f {
			return nil
		}
	}
	return fmt.Errorf("unsupported output format '%s', must be one of: %s", format, strings.Join(Formats, ", "))
}

// Print renders the data in the requested format to stdout.
// data: must be a slice of structs (e.g., []Offer, []Record) for "table" format,
// or any JSON/YAML-marshalable object for "json" and "yaml" formats.
// format: "table", "json", or "yaml" (default is "table").
func Print[T any](data any, columns []Column[T], format string) error {
	return Fprint(os.Stdout, data, columns, format)
}

// Fprint renders the data in the requested format to w.
func Fprint[T any](w io.Writer, data any, columns []Column[T], format string) error {
	switch format {
	case FormatJSON:
		return printJSON(w, data)
	case FormatYAML:
		return printYAML(w, data)
	default:
		return printTable(w, data, columns)
	}
}

func printJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func printYAML(w io.Writer, data any) error {
	encoder := yaml.NewEncoder(w, yaml.Indent(2), yaml.IndentSequence(true))
	if err := encoder.Encode(data); err != nil {
		return err
	}
	return encoder.Close()
}

func printTable[T any](w io.Writer, data any, columns []Column[T]) error {
	// Use reflection to verify data is a slice and iterate over it.
	v := reflect.ValueOf(data)
	if v.Kind() != reflect.Slice {
		return fmt.Errorf("output.Print: data must be a slice, got %T", data)
	}
	if v.Len() == 0 {
		return nil
	}

	t := table.New().
		Border(lipgloss.Border{}).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).PaddingRight(3)
			}
			return lipgloss.NewStyle().PaddingRight(3)
		})

	var headers []string
	for _, col := range columns {
		headers = append(headers, col.Header)
	}
	t.Headers(headers...)

	for i := 0; i < v.Len(); i++ {
		rowItem := v.Index(i).Interface().(T)
		var rowStrings []string
		for _, col := range columns {
			rowStrings = append(rowStrings, getValue(rowItem, col))
		}
		t.Row(rowStrings...)
	}

	_, err := fmt.Fprintln(w, t.String())
	return err
}

func getValue[T any](row T, col Column[T]) string {
	if col.Accessor != nil {
		return col.Accessor(row)
	}

	if col.Field == "" {
		return ""
	}

	v := reflect.ValueOf(row)
	// If it's a pointer, dereference it
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	f := v.FieldByName(col.Field)
	if !f.IsValid() {
		return ""
	}

	// Handle pointers
	if f.Kind() == reflect.Ptr {
		if f.IsNil() {
			return "-"
		}
		f = f.Elem()
	}

	switch f.Kind() {
	case reflect.Slice:
		if f.Type().Elem().Kind() == reflect.String {
			var parts []string
			for i := 0; i < f.Len(); i++ {
				parts = append(parts, fmt.Sprint(f.Index(i).Interface()))
			}
			return strings.Join(parts, ", ")
		}
		return fmt.Sprint(f.Interface())
	default:
		return fmt.Sprint(f.Interface())
	}
}

// PillStyle returns a standard style for "pills" like region tags.
func PillStyle() lipgloss.Style {
	style := lipgloss.NewStyle().
		BorderForeground(lipgloss.Color("152")).
		Foreground(lipgloss.Color("0")).
		Background(lipgloss.Color("152"))

	if lipgloss.ColorProfile() != termenv.Ascii {
		style = style.Border(lipgloss.Border{Left: "", Right: ""}, false, true, false, true)
	}
	return style
}
