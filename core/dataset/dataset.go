package dataset

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"datajoin/core/join"
	"datajoin/core/storage"
	"datajoin/core/utils"

	"gopkg.in/yaml.v3"
)

// Record is one dataset row.
type Record map[string]any

// String returns field f converted to a string.
func (r Record) String(f string) string {
	return utils.ToString(r[f])
}

// Int returns field f converted to an int.
func (r Record) Int(f string) int {
	return utils.ToInt(r[f])
}

// Format identifies a dataset encoding.
type Format string

const (
	CSV  Format = "csv"
	TSV  Format = "tsv"
	JSON Format = "json"
	YAML Format = "yaml"
)

// ErrUnknownFormat is returned for file extensions without a decoder.
var ErrUnknownFormat = errors.New("unknown dataset format")

// FormatOf infers the format from a file or object name.
func FormatOf(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(path.Ext(name), ".")) {
	case "csv":
		return CSV, nil
	case "tsv", "tab":
		return TSV, nil
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, name)
	}
}

// Decode reads every record from r.
func Decode(r io.Reader, format Format) ([]Record, error) {
	switch format {
	case CSV:
		return decodeDelimited(r, ',')
	case TSV:
		return decodeDelimited(r, '\t')
	case JSON:
		var records []Record
		if err := json.NewDecoder(r).Decode(&records); err != nil {
			return nil, fmt.Errorf("failed to decode json dataset: %w", err)
		}
		return records, nil
	case YAML:
		var records []Record
		if err := yaml.NewDecoder(r).Decode(&records); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to decode yaml dataset: %w", err)
		}
		return records, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// decodeDelimited treats the first row as the header.
func decodeDelimited(r io.Reader, sep rune) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.Comma = sep
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var records []Record
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", len(records)+2, err)
		}
		rec := make(Record, len(header))
		for i, name := range header {
			rec[name] = row[i]
		}
		records = append(records, rec)
	}
	return records, nil
}

// LoadFile decodes a dataset from disk, inferring the format from its extension.
func LoadFile(name string) ([]Record, error) {
	format, err := FormatOf(name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()
	return Decode(f, format)
}

// Load decodes a dataset stored as an object in bucket.
func Load(ctx context.Context, client storage.Client, bucket, object string) ([]Record, error) {
	format, err := FormatOf(object)
	if err != nil {
		return nil, err
	}
	data, err := storage.ReadObject(ctx, client, bucket, object)
	if err != nil {
		return nil, err
	}
	return Decode(bytes.NewReader(data), format)
}

// FieldKey keys records by the string form of field. An empty field keys by index.
func FieldKey(field string) join.KeyFunc[Record] {
	if field == "" {
		return join.ByIndex[Record]
	}
	return func(r Record, _ int) string {
		return r.String(field)
	}
}

// MissingFieldError reports a record lacking the key field.
type MissingFieldError struct {
	Field string
	Index int
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("record %d has no value for key field %q", e.Index, e.Field)
}

// RequireField checks that every record carries a non-empty value for field.
func RequireField(records []Record, field string) error {
	if field == "" {
		return nil
	}
	for i, r := range records {
		if r.String(field) == "" {
			return &MissingFieldError{Field: field, Index: i}
		}
	}
	return nil
}
