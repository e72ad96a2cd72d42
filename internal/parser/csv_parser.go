// Package parser loads delimited text files into tables.
package parser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/peekknuf/govdataqa/internal/table"
)

var ErrEmptyInput = errors.New("empty data")

// ParserConfig contains configuration options for the CSV parser
type ParserConfig struct {
	Delimiter  rune // Field delimiter; zero means detect from the data
	TrimSpace  bool // Trim leading/trailing whitespace of every field
	Headers    bool // First row contains column names
	MaxRows    int  // Stop after this many data rows; zero reads everything
	InferTypes bool // Turn all-numeric and all-boolean columns into typed values
	SampleSize int  // Bytes inspected by delimiter detection
}

// DefaultParserConfig returns a default configuration for the CSV parser
func DefaultParserConfig() ParserConfig {
	return ParserConfig{
		TrimSpace:  true,
		Headers:    true,
		InferTypes: true,
		SampleSize: 64 * 1024,
	}
}

// ReadFile loads a CSV file.
func ReadFile(path string, config ParserConfig) (*table.Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	t, err := ReadTable(file, config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return t, nil
}

// ReadTable parses delimited text into a table. Empty fields become nulls,
// short rows are padded with nulls and extra fields are dropped. Input that
// is not valid UTF-8 is decoded as ISO-8859-1, the usual encoding of
// spreadsheet exports.
func ReadTable(r io.Reader, config ParserConfig) (*table.Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read data: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyInput
	}
	if !ValidateUTF8(data) {
		if data, err = charmap.ISO8859_1.NewDecoder().Bytes(data); err != nil {
			return nil, fmt.Errorf("failed to decode latin-1 data: %w", err)
		}
	}

	delim := config.Delimiter
	if delim == 0 {
		delim = DetectDelimiter(data, config.SampleSize)
	}
	if !IsValidDelimiter(delim) {
		return nil, fmt.Errorf("unsupported delimiter %q", delim)
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delim
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = config.TrimSpace

	first, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read headers: %w", err)
	}

	var headers []string
	var pending []string
	if config.Headers {
		headers = normalizeHeaders(first, config.TrimSpace)
	} else {
		headers = make([]string, len(first))
		for i := range headers {
			headers[i] = fmt.Sprintf("column_%d", i+1)
		}
		pending = first
	}

	t := table.New(headers)
	appendRecord := func(record []string) error {
		row := make([]table.Value, len(headers))
		for i := range row {
			if i >= len(record) {
				row[i] = table.Null()
				continue
			}
			field := record[i]
			if config.TrimSpace {
				field = strings.TrimSpace(field)
			}
			if field == "" {
				row[i] = table.Null()
				continue
			}
			row[i] = table.String(field)
		}
		return t.AppendRow(row)
	}

	if pending != nil {
		if err := appendRecord(pending); err != nil {
			return nil, err
		}
	}
	for config.MaxRows <= 0 || t.RowCount() < config.MaxRows {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}
		if err := appendRecord(record); err != nil {
			return nil, err
		}
	}

	if config.InferTypes {
		return table.InferTypes(t), nil
	}
	return t, nil
}

func normalizeHeaders(raw []string, trim bool) []string {
	headers := make([]string, len(raw))
	for i, h := range raw {
		if trim {
			h = strings.TrimSpace(h)
		}
		if h == "" {
			h = fmt.Sprintf("column_%d", i+1)
		}
		headers[i] = h
	}
	return headers
}

// IsValidDelimiter checks if a rune is a valid CSV delimiter
func IsValidDelimiter(delim rune) bool {
	return delim == ',' || delim == ';' || delim == '\t' || delim == '|'
}

// DetectDelimiter picks the candidate that splits the first lines into the
// most fields consistently. Quoted sections are ignored. Comma wins ties.
func DetectDelimiter(data []byte, sampleSize int) rune {
	if sampleSize <= 0 || sampleSize > len(data) {
		sampleSize = len(data)
	}
	sample := data[:sampleSize]

	candidates := []rune{',', ';', '\t', '|'}
	counts := make([][]int, len(candidates))

	line := make([]int, len(candidates))
	inQuotes := false
	lines := 0
	flush := func() {
		for i := range candidates {
			counts[i] = append(counts[i], line[i])
			line[i] = 0
		}
		lines++
	}
	for _, b := range sample {
		if lines >= 5 {
			break
		}
		switch {
		case b == '"':
			inQuotes = !inQuotes
		case inQuotes:
		case b == '\n':
			flush()
		default:
			for i, c := range candidates {
				if rune(b) == c {
					line[i]++
				}
			}
		}
	}
	if lines < 5 {
		flush()
	}

	best, bestScore := ',', 0
	for i, c := range candidates {
		score := consistentCount(counts[i])
		if score > bestScore {
			best, bestScore = c, score
		}
	}
	return best
}

// consistentCount is the per-line count when every sampled line agrees,
// otherwise the smallest non-zero count seen on the first line's level.
func consistentCount(perLine []int) int {
	if len(perLine) == 0 || perLine[0] == 0 {
		return 0
	}
	lowest := perLine[0]
	for _, n := range perLine[1:] {
		if n == 0 {
			continue
		}
		if n < lowest {
			lowest = n
		}
	}
	return lowest
}

// ValidateUTF8 checks if data is valid UTF-8
func ValidateUTF8(data []byte) bool {
	return utf8.Valid(data)
}
