package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"

	"dealer-admin-console/internal/backend"
	"dealer-admin-console/internal/entity"
	"dealer-admin-console/internal/listing"
	"dealer-admin-console/internal/model"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// auditFields are stripped from every export row.
var auditFields = []string{"createdBy", "updatedBy"}

// File is a finished export ready for download.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Pipeline exports one entity's full matching dataset: it re-fetches with
// only the search constraint (never pagination or column sort), flattens
// each record, strips auditing fields and encodes to CSV or XLSX. The
// fetched copy is independent of the listing's rows and is discarded after
// encoding.
type Pipeline struct {
	client  *backend.Client
	desc    entity.Descriptor
	encoder SpreadsheetEncoder
	maxRows int
}

func NewPipeline(client *backend.Client, desc entity.Descriptor, encoder SpreadsheetEncoder, maxRows int) *Pipeline {
	if encoder == nil {
		encoder = ExcelEncoder{}
	}
	return &Pipeline{client: client, desc: desc, encoder: encoder, maxRows: maxRows}
}

func (p *Pipeline) Export(ctx context.Context, format Format, searchValue string, filename string, session string) (File, error) {
	if format != FormatCSV && format != FormatXLSX {
		return File{}, fmt.Errorf("unsupported export format %q: %w", format, model.ErrInvalidInput)
	}

	env, err := p.client.Get(ctx, p.desc.Endpoint, listing.BuildExportParams(searchValue), session)
	if err != nil {
		return File{}, fmt.Errorf("failed to fetch %s for export: %w", p.desc.Plural, err)
	}

	records, ok := env.Records(p.desc.PluralKey)
	if !ok {
		return File{}, fmt.Errorf("%s export response missing %q: %w", p.desc.Name, p.desc.PluralKey, model.ErrInvalidInput)
	}
	if p.maxRows > 0 && len(records) > p.maxRows {
		records = records[:p.maxRows]
	}

	rows, headers := p.flattenAll(records)
	grid := buildGrid(rows, headers)

	data, contentType, err := p.encode(format, grid)
	if err != nil {
		return File{}, err
	}

	return File{
		Name:        p.Filename(filename, searchValue, format),
		ContentType: contentType,
		Data:        data,
	}, nil
}

// flattenAll flattens every record and collects the header union in
// first-seen order across rows.
func (p *Pipeline) flattenAll(records []model.Record) ([]model.Record, []string) {
	var headers []string
	seen := map[string]struct{}{}

	rows := make([]model.Record, 0, len(records))
	for _, record := range records {
		row := Flatten(record)
		for _, field := range auditFields {
			delete(row, field)
		}
		rows = append(rows, row)

		for _, key := range sortedKeys(map[string]any(row)) {
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			headers = append(headers, key)
		}
	}
	return rows, headers
}

func buildGrid(rows []model.Record, headers []string) [][]string {
	grid := make([][]string, 0, len(rows)+1)
	grid = append(grid, headers)

	for _, row := range rows {
		cells := make([]string, len(headers))
		for i, header := range headers {
			if value, exists := row[header]; exists && value != nil {
				cells[i] = model.Key(value)
			}
		}
		grid = append(grid, cells)
	}
	return grid
}

func (p *Pipeline) encode(format Format, grid [][]string) ([]byte, string, error) {
	if format == FormatCSV {
		var buf bytes.Buffer
		writer := csv.NewWriter(&buf)
		for _, row := range grid {
			if err := writer.Write(row); err != nil {
				return nil, "", fmt.Errorf("failed to encode csv: %w", err)
			}
		}
		writer.Flush()
		if err := writer.Error(); err != nil {
			return nil, "", fmt.Errorf("failed to encode csv: %w", err)
		}
		return buf.Bytes(), "text/csv", nil
	}

	data, err := p.encoder.Encode(grid)
	if err != nil {
		return nil, "", err
	}
	return data, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", nil
}

// Filename returns the requested name or the generated default
// `<entity>[_<search>].<ext>`, sanitized for use as an attachment name.
func (p *Pipeline) Filename(requested string, searchValue string, format Format) string {
	name := strings.TrimSpace(requested)
	if name == "" {
		name = p.desc.Name
		if trimmed := strings.TrimSpace(searchValue); trimmed != "" {
			name += "_" + trimmed
		}
	}
	return sanitizeFilename(name, p.desc.Name) + "." + string(format)
}
