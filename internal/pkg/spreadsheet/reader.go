package spreadsheet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/xuri/excelize/v2"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported file format, expected .xlsx or .csv")
	ErrNoHeader          = errors.New("file has no header row")
	ErrNoRows            = errors.New("file has no data rows")
)

// Format is the upload flavour detected from the file name.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// DetectFormat maps a file name to a Format.
func DetectFormat(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filename)
	}
}

// ReadRows returns the header row followed by the data rows. Header cells are normalized
// to snake_case, every row is padded to the header width and trailing blank rows are dropped.
// Blank rows in between are kept so data row numbers match what the user sees.
func ReadRows(filename string, r io.Reader) ([][]string, error) {
	format, err := DetectFormat(filename)
	if err != nil {
		return nil, err
	}

	var rows [][]string
	switch format {
	case FormatXLSX:
		rows, err = readXLSX(r)
	case FormatCSV:
		rows, err = readCSV(r)
	}
	if err != nil {
		return nil, err
	}

	rows = trimTrailingBlank(rows)
	if len(rows) == 0 {
		return nil, ErrNoHeader
	}
	if len(rows) == 1 {
		return nil, ErrNoRows
	}

	header := make([]string, len(rows[0]))
	for i, cell := range rows[0] {
		header[i] = NormalizeHeader(cell)
	}
	rows[0] = header

	for i := 1; i < len(rows); i++ {
		rows[i] = padRow(rows[i], len(header))
	}
	return rows, nil
}

// Decode reads a spreadsheet into out, a pointer to a slice of structs tagged with `csv`.
// Element i of out is data row i+1.
func Decode(filename string, r io.Reader, out interface{}) error {
	rows, err := ReadRows(filename, r)
	if err != nil {
		return err
	}
	if err := gocsv.UnmarshalCSV(&rowReader{rows: rows}, out); err != nil {
		return fmt.Errorf("decode rows: %w", err)
	}
	return nil
}

// NormalizeHeader turns "Monthly Loan Amount" into "monthly_loan_amount".
func NormalizeHeader(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.Join(strings.Fields(s), "_")
	return strings.ReplaceAll(s, "-", "_")
}

// IsBlank reports whether every cell of the row is empty.
func IsBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoHeader
	}
	// Raw values keep dates as serial numbers instead of locale formatted text.
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	return rows, nil
}

func readCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return rows, nil
}

func trimTrailingBlank(rows [][]string) [][]string {
	end := len(rows)
	for end > 0 && IsBlank(rows[end-1]) {
		end--
	}
	return rows[:end]
}

func padRow(row []string, width int) []string {
	if len(row) >= width {
		return row
	}
	padded := make([]string, width)
	copy(padded, row)
	return padded
}

// rowReader feeds already parsed rows to gocsv.
type rowReader struct {
	rows [][]string
	pos  int
}

func (r *rowReader) Read() ([]string, error) {
	if r.pos >= len(r.rows) {
		return nil, io.EOF
	}
	row := r.rows[r.pos]
	r.pos++
	return row, nil
}

func (r *rowReader) ReadAll() ([][]string, error) {
	rest := r.rows[r.pos:]
	r.pos = len(r.rows)
	return rest, nil
}
