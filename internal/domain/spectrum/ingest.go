package spectrum

import (
	"bytes"
	"sort"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"gonum.org/v1/gonum/stat"

	apperrors "github.com/jgraziolaVU/Yeonni1MB/pkg/errors"
)

// Delimiters tried in order when loading delimited text. The first one that
// yields at least two columns wins.
var delimiters = []rune{'\t', ' ', ',', ';'}

// Load parses raw file bytes into a normalized Spectrum. The filename is
// only used as a format hint: ".xlsx" selects spreadsheet parsing, ".txt"
// and ".csv" delimited text. Column 0 is velocity, column 1 absorption.
//
// Rows with missing values are dropped. After dropping, at least two columns
// and MinDataPoints rows must remain (CodeDataFormat otherwise); non-numeric
// cell content yields CodeDataType. Load either fully succeeds or returns an
// error without touching any shared state.
func Load(filename string, raw []byte) (*Spectrum, error) {
	var (
		rows [][]string
		err  error
	)

	lower := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(lower, ".xlsx"):
		rows, err = parseXLSX(raw)
	case strings.HasSuffix(lower, ".txt"), strings.HasSuffix(lower, ".csv"):
		rows, err = parseDelimited(raw)
	default:
		return nil, apperrors.New(apperrors.CodeDataFormat,
			"unsupported file format; use .xlsx, .txt, or .csv")
	}
	if err != nil {
		return nil, err
	}

	velocity, absorption, err := selectColumns(rows)
	if err != nil {
		return nil, err
	}

	normalize(absorption)
	return New(velocity, absorption)
}

// parseXLSX reads the first sheet of an xlsx workbook into string rows.
func parseXLSX(raw []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDataFormat, "failed to open spreadsheet")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.New(apperrors.CodeDataFormat, "spreadsheet has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDataFormat, "failed to read spreadsheet rows")
	}
	return rows, nil
}

// parseDelimited splits raw text on each candidate delimiter in turn and
// accepts the first that produces at least two columns on some line.
// Space-delimited files are split on whitespace runs, matching how
// instrument exports pad columns.
func parseDelimited(raw []byte) ([][]string, error) {
	text := strings.ReplaceAll(string(raw), "\r\n", "\n")
	lines := strings.Split(text, "\n")

	for _, sep := range delimiters {
		rows := make([][]string, 0, len(lines))
		ok := false
		for _, line := range lines {
			if strings.TrimSpace(line) == "" {
				continue
			}
			var fields []string
			if sep == ' ' {
				fields = strings.Fields(line)
			} else {
				fields = strings.Split(line, string(sep))
			}
			for i := range fields {
				fields[i] = strings.TrimSpace(fields[i])
			}
			if len(fields) >= 2 {
				ok = true
			}
			rows = append(rows, fields)
		}
		if ok {
			return rows, nil
		}
	}

	return nil, apperrors.New(apperrors.CodeDataFormat,
		"file must contain at least 2 columns (velocity and absorption)")
}

// selectColumns coerces the first two columns to float64, dropping rows with
// missing values and rejecting non-numeric content.
func selectColumns(rows [][]string) (velocity, absorption []float64, err error) {
	for _, row := range rows {
		if len(row) < 2 {
			// Short row: treat as missing values and drop.
			continue
		}
		c0, c1 := strings.TrimSpace(row[0]), strings.TrimSpace(row[1])
		if c0 == "" || c1 == "" {
			continue
		}
		v, verr := strconv.ParseFloat(c0, 64)
		if verr != nil {
			return nil, nil, apperrors.Newf(apperrors.CodeDataType,
				"velocity column contains non-numeric value %q", c0)
		}
		a, aerr := strconv.ParseFloat(c1, 64)
		if aerr != nil {
			return nil, nil, apperrors.Newf(apperrors.CodeDataType,
				"absorption column contains non-numeric value %q", c1)
		}
		velocity = append(velocity, v)
		absorption = append(absorption, a)
	}

	if len(velocity) < MinDataPoints {
		return nil, nil, apperrors.Newf(apperrors.CodeDataFormat,
			"insufficient data points (minimum %d required, got %d)", MinDataPoints, len(velocity))
	}
	return velocity, absorption, nil
}

// normalize rescales absorption in place. Values above 10 are assumed to be
// percentages and divided by 100. If the minimum still sits below 0.9 a
// baseline correction divides by the 95th percentile, on the assumption that
// the unabsorbed region dominates the upper tail.
func normalize(absorption []float64) {
	max := absorption[0]
	min := absorption[0]
	for _, a := range absorption[1:] {
		if a > max {
			max = a
		}
		if a < min {
			min = a
		}
	}

	if max > 10 {
		for i := range absorption {
			absorption[i] /= 100
		}
		min /= 100
	}

	if min < 0.9 {
		sorted := make([]float64, len(absorption))
		copy(sorted, absorption)
		sort.Float64s(sorted)
		baseline := stat.Quantile(0.95, stat.LinInterp, sorted, nil)
		if baseline != 0 {
			for i := range absorption {
				absorption[i] /= baseline
			}
		}
	}
}
