package dataprocessing

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	gojson "github.com/goccy/go-json"

	apperrors "github.com/lizi12/hw5-2019/internal/errors"
)

// InputFormat selects how a JSON document maps onto table rows.
type InputFormat string

const (
	// FormatAuto picks records for arrays and lines for a stream of objects.
	// A single object is read as columns when any of its values is an object
	// and as a one-row line stream when every value is a scalar.
	FormatAuto InputFormat = "auto"
	// FormatRecords is an array of row objects.
	FormatRecords InputFormat = "records"
	// FormatColumns is an object of column name to {row label: value}.
	FormatColumns InputFormat = "columns"
	// FormatLines is one row object per line.
	FormatLines InputFormat = "lines"
)

// ParseInputFormat validates a format name. The empty string means auto.
func ParseInputFormat(s string) (InputFormat, error) {
	switch f := InputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatAuto, nil
	case FormatAuto, FormatRecords, FormatColumns, FormatLines:
		return f, nil
	}
	return "", apperrors.NewInvalidArgumentError(fmt.Sprintf("unknown input format %q", s))
}

// FormatForPath returns FormatLines for .jsonl and .ndjson files and fallback otherwise.
func FormatForPath(path string, fallback InputFormat) InputFormat {
	if fallback != "" && fallback != FormatAuto {
		return fallback
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl", ".ndjson":
		return FormatLines
	}
	return FormatAuto
}

// LoadTable reads all of r and decodes it with DecodeTable.
func LoadTable(r io.Reader, format InputFormat) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to read input", err)
	}
	return DecodeTable(data, format)
}

// DecodeTable decodes a JSON document into a table.
//
// Invalid JSON yields a PARSING error. Valid JSON that does not describe
// flat rows yields a FORMAT error.
func DecodeTable(data []byte, format InputFormat) (*Table, error) {
	if format == "" || format == FormatAuto {
		format = detectFormat(data)
	}

	switch format {
	case FormatRecords:
		return decodeRecords(data)
	case FormatColumns:
		return decodeColumns(data)
	case FormatLines:
		return decodeLines(data)
	}
	return nil, apperrors.NewInvalidArgumentError(fmt.Sprintf("unknown input format %q", format))
}

func detectFormat(data []byte) InputFormat {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		if gojson.Valid(trimmed) && hasObjectValue(trimmed) {
			return FormatColumns
		}
		return FormatLines
	}
	return FormatRecords
}

// hasObjectValue reports whether a JSON object holds an object under any
// key. An empty object counts as columns.
func hasObjectValue(doc []byte) bool {
	var fields map[string]gojson.RawMessage
	if err := gojson.Unmarshal(doc, &fields); err != nil {
		return true
	}
	if len(fields) == 0 {
		return true
	}
	for _, raw := range fields {
		if v := bytes.TrimSpace(raw); len(v) > 0 && v[0] == '{' {
			return true
		}
	}
	return false
}

func decodeRecords(data []byte) (*Table, error) {
	var doc any
	if err := gojson.Unmarshal(data, &doc); err != nil {
		return nil, apperrors.NewParsingError("invalid JSON", err)
	}

	items, ok := doc.([]any)
	if !ok {
		return nil, apperrors.NewFormatError(fmt.Sprintf("expected an array of rows, got %s", jsonKind(doc)))
	}

	records := make([]map[string]any, len(items))
	for i, item := range items {
		rec, err := asRecord(item, i)
		if err != nil {
			return nil, err
		}
		records[i] = rec
	}

	return NewTable(objectKeys(data, 2), records), nil
}

func decodeColumns(data []byte) (*Table, error) {
	var doc any
	if err := gojson.Unmarshal(data, &doc); err != nil {
		return nil, apperrors.NewParsingError("invalid JSON", err)
	}

	cols, ok := doc.(map[string]any)
	if !ok {
		return nil, apperrors.NewFormatError(fmt.Sprintf("expected an object of columns, got %s", jsonKind(doc)))
	}

	labelSet := make(map[string]bool)
	var labels []string
	for name, raw := range cols {
		cells, ok := raw.(map[string]any)
		if !ok {
			return nil, apperrors.NewFormatError(fmt.Sprintf("column %q: expected an object of row labels, got %s", name, jsonKind(raw))).
				WithContext("column", name)
		}
		for label, v := range cells {
			if isNested(v) {
				return nil, apperrors.NewFormatError(fmt.Sprintf("column %q row %q: nested %s value", name, label, jsonKind(v))).
					WithContext("column", name)
			}
			if !labelSet[label] {
				labelSet[label] = true
				labels = append(labels, label)
			}
		}
	}
	sortLabels(labels)

	records := make([]map[string]any, len(labels))
	for i, label := range labels {
		rec := make(map[string]any, len(cols))
		for name, raw := range cols {
			if v, ok := raw.(map[string]any)[label]; ok {
				rec[name] = v
			}
		}
		records[i] = rec
	}

	columns := objectKeys(data, 1)
	if len(columns) == 0 {
		columns = sortedKeys(cols)
	}
	return NewTable(columns, records), nil
}

func decodeLines(data []byte) (*Table, error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var (
		records []map[string]any
		columns []string
		seen    = make(map[string]bool)
		lineNo  int
	)
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var doc any
		if err := gojson.Unmarshal(line, &doc); err != nil {
			return nil, apperrors.NewParsingError(fmt.Sprintf("invalid JSON on line %d", lineNo), err).
				WithContext("line", lineNo)
		}
		rec, err := asRecord(doc, len(records))
		if err != nil {
			return nil, err
		}
		records = append(records, rec)

		for _, k := range objectKeys(line, 1) {
			if !seen[k] {
				seen[k] = true
				columns = append(columns, k)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, apperrors.NewParsingError("failed to scan lines", err)
	}

	return NewTable(columns, records), nil
}

func asRecord(v any, row int) (map[string]any, error) {
	rec, ok := v.(map[string]any)
	if !ok {
		return nil, apperrors.NewFormatError(fmt.Sprintf("row %d: expected an object, got %s", row, jsonKind(v))).
			WithContext("row", row)
	}
	for k, cell := range rec {
		if isNested(cell) {
			return nil, apperrors.NewFormatError(fmt.Sprintf("row %d column %q: nested %s value", row, k, jsonKind(cell))).
				WithContext("row", row).
				WithContext("column", k)
		}
	}
	return rec, nil
}

func isNested(v any) bool {
	switch v.(type) {
	case map[string]any, []any:
		return true
	}
	return false
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64:
		return "number"
	}
	return fmt.Sprintf("%T", v)
}

type tokenFrame struct {
	object    bool
	expectKey bool
}

// objectKeys returns the distinct keys of objects nested depth containers
// deep, in document order. Decoded maps lose key order, so the schema is
// recovered from the token stream. It returns nil if the stream cannot be
// walked.
func objectKeys(data []byte, depth int) []string {
	dec := gojson.NewDecoder(bytes.NewReader(data))

	var (
		stack []tokenFrame
		keys  []string
		seen  = make(map[string]bool)
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return keys
		}
		if err != nil {
			return nil
		}

		if delim, ok := tok.(gojson.Delim); ok {
			switch delim {
			case '{', '[':
				if n := len(stack); n > 0 && stack[n-1].object {
					stack[n-1].expectKey = true
				}
				stack = append(stack, tokenFrame{object: delim == '{', expectKey: delim == '{'})
			case '}', ']':
				if len(stack) == 0 {
					return nil
				}
				stack = stack[:len(stack)-1]
			}
			continue
		}

		n := len(stack)
		if n == 0 || !stack[n-1].object {
			continue
		}
		top := &stack[n-1]
		if !top.expectKey {
			top.expectKey = true
			continue
		}
		top.expectKey = false
		if n != depth {
			continue
		}
		if key, ok := tok.(string); ok && !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}
}
