package config

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/mitchellh/mapstructure"
	"github.com/psviderski/cpualloc/pkg/api"
	"github.com/shopspring/decimal"
)

// RequestFile is an allocation request read from a YAML or .properties file, e.g.
//
//	hours=24
//	minCPUs=135
//	maxPrice=38.5
//
// Fields that are not present in the file are nil or zero.
type RequestFile struct {
	Hours    *int             `mapstructure:"hours"`
	MinCPUs  *int             `mapstructure:"minCPUs"`
	MaxPrice *decimal.Decimal `mapstructure:"maxPrice"`
}

// LoadRequestFile reads an allocation request from a YAML (.yaml, .yml) or Java-style properties (.properties)
// file. Values are weakly typed, so numbers may be quoted.
func LoadRequestFile(path string) (RequestFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RequestFile{}, fmt.Errorf("read request file '%s': %w", path, err)
	}

	var raw map[string]any
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err = yaml.Unmarshal(data, &raw); err != nil {
			return RequestFile{}, fmt.Errorf("parse request file '%s': %s", path, yaml.FormatError(err, false, true))
		}
	case ".properties":
		if raw, err = parseProperties(data); err != nil {
			return RequestFile{}, fmt.Errorf("parse request file '%s': %w", path, err)
		}
	default:
		return RequestFile{}, fmt.Errorf("unsupported request file format '%s': must be .yaml, .yml, or .properties",
			ext)
	}

	var req RequestFile
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       decimalHook,
		WeaklyTypedInput: true,
		Result:           &req,
	})
	if err != nil {
		return RequestFile{}, fmt.Errorf("create decoder: %w", err)
	}
	if err = decoder.Decode(raw); err != nil {
		return RequestFile{}, fmt.Errorf("decode request file '%s': %w", path, err)
	}
	return req, nil
}

// Apply overrides the request fields with the values present in the file.
func (f RequestFile) Apply(req *api.Request) {
	if f.Hours != nil {
		req.Hours = *f.Hours
	}
	if f.MinCPUs != nil {
		req.MinCPUs = f.MinCPUs
	}
	if f.MaxPrice != nil {
		req.MaxPrice = f.MaxPrice
	}
}

// parseProperties parses the subset of the Java properties format used by request files: one key=value or
// key: value pair per line. Blank lines and lines starting with # or ! are ignored.
func parseProperties(data []byte) (map[string]any, error) {
	props := make(map[string]any)
	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' || line[0] == '!' {
			continue
		}

		sep := strings.IndexAny(line, "=:")
		if sep <= 0 {
			return nil, fmt.Errorf("line %d: expected key=value: %q", lineNum, line)
		}
		key := strings.TrimSpace(line[:sep])
		props[key] = strings.TrimSpace(line[sep+1:])
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return props, nil
}

var decimalType = reflect.TypeOf(decimal.Decimal{})

// decimalHook converts strings and numbers to decimal.Decimal.
func decimalHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != decimalType {
		return data, nil
	}
	switch v := data.(type) {
	case string:
		return decimal.NewFromString(strings.TrimSpace(v))
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case uint64:
		return decimal.NewFromUint64(v), nil
	case float64:
		return decimal.NewFromFloat(v), nil
	default:
		return data, nil
	}
}
