// Package pump loads pump performance measurements, fits head and efficiency curves against
// flow, and presents the fits as a text report and an html chart
package pump

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

var (
	ErrMissingHeader = errors.New("missing pump name and header lines")
	ErrMissingUnits  = errors.New("missing flow and head units line")
	ErrMalformedRow  = errors.New("malformed data row, expected flow head efficiency")
	ErrNoRows        = errors.New("no data rows")
)

// Dataset holds the measurements read from a pump data file. Flow, Head and Efficiency are
// paired by index and always have the same length.
type Dataset struct {
	Name       string    `json:"name"`
	FlowUnits  string    `json:"flow_units"`
	HeadUnits  string    `json:"head_units"`
	Flow       []float64 `json:"flow"`
	Head       []float64 `json:"head"`
	Efficiency []float64 `json:"efficiency"`
}

// ReadDataset parses a pump data file. The first line is the pump name, the second a free
// form header that is ignored, the third holds the flow and head units, and every following
// non-blank line holds whitespace separated flow, head and efficiency values.
func ReadDataset(r io.Reader) (*Dataset, error) {
	scanner := bufio.NewScanner(r)

	ds := new(Dataset)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		switch lineNum {
		case 1:
			ds.Name = line
			continue
		case 2:
			continue
		case 3:
			units := strings.Fields(line)
			if len(units) < 2 {
				return nil, fmt.Errorf("line %d has %q, %w", lineNum, line, ErrMissingUnits)
			}
			ds.FlowUnits = units[0]
			ds.HeadUnits = units[1]
			continue
		}

		if line == "" {
			continue
		}

		cells := strings.Fields(line)
		if len(cells) < 3 {
			return nil, fmt.Errorf("line %d has %d values, %w", lineNum, len(cells), ErrMalformedRow)
		}
		vals := make([]float64, 3)
		for i := range vals {
			v, err := strconv.ParseFloat(cells[i], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d column %d, %w, %w", lineNum, i+1, ErrMalformedRow, err)
			}
			vals[i] = v
		}
		ds.Flow = append(ds.Flow, vals[0])
		ds.Head = append(ds.Head, vals[1])
		ds.Efficiency = append(ds.Efficiency, vals[2])
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("unable to read pump data, %w", err)
	}

	switch {
	case lineNum < 2:
		return nil, ErrMissingHeader
	case lineNum < 3:
		return nil, ErrMissingUnits
	case len(ds.Flow) == 0:
		return nil, ErrNoRows
	}
	return ds, nil
}

// ReadFile opens and parses the pump data file at path
func ReadFile(path string) (*Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	ds, err := ReadDataset(file)
	if err != nil {
		return nil, fmt.Errorf("unable to parse %s, %w", path, err)
	}
	return ds, nil
}

// Len returns the number of measurement rows
func (ds *Dataset) Len() int {
	if ds == nil {
		return 0
	}
	return len(ds.Flow)
}
