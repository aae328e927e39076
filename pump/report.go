package pump

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/aouyang1/go-pumpcurve/models"
	"github.com/aouyang1/go-pumpcurve/stats"
	"github.com/aouyang1/go-pumpcurve/util"
	"github.com/goccy/go-json"
)

// Report summarizes a fitted pump model
type Report struct {
	PumpName   string    `json:"pump_name"`
	FlowUnits  string    `json:"flow_units"`
	HeadUnits  string    `json:"head_units"`
	Samples    int       `json:"samples"`
	Degree     int       `json:"degree"`
	Head       FitReport `json:"head"`
	Efficiency FitReport `json:"efficiency"`
}

// FitReport describes a single fitted curve
type FitReport struct {
	Coefficients     []float64     `json:"coefficients"`
	CoefficientsText string        `json:"coefficients_text"`
	Equation         string        `json:"equation"`
	Scores           *stats.Scores `json:"scores"`
}

// Report builds the summary of the fitted head and efficiency curves
func (m *Model) Report() (*Report, error) {
	head, err := newFitReport(m.Head)
	if err != nil {
		return nil, fmt.Errorf("unable to report head fit, %w", err)
	}
	eff, err := newFitReport(m.Efficiency)
	if err != nil {
		return nil, fmt.Errorf("unable to report efficiency fit, %w", err)
	}
	return &Report{
		PumpName:   m.Dataset.Name,
		FlowUnits:  m.Dataset.FlowUnits,
		HeadUnits:  m.Dataset.HeadUnits,
		Samples:    m.Dataset.Len(),
		Degree:     m.opt.Degree,
		Head:       head,
		Efficiency: eff,
	}, nil
}

func newFitReport(c models.Curve) (FitReport, error) {
	text, err := c.CoefString()
	if err != nil {
		return FitReport{}, err
	}
	eq, err := c.Eq()
	if err != nil {
		return FitReport{}, err
	}
	scores, err := c.Score()
	if err != nil {
		return FitReport{}, err
	}
	return FitReport{
		Coefficients:     c.Coef(),
		CoefficientsText: text,
		Equation:         eq,
		Scores:           scores,
	}, nil
}

// WriteJSON writes the report as indented json
func (r *Report) WriteJSON(w io.Writer) error {
	bytes, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	bytes = append(bytes, '\n')
	_, err = w.Write(bytes)
	return err
}

// TablePrint writes a human readable summary of the report
func (r *Report) TablePrint(w io.Writer, prefix, indent string) error {
	if _, err := fmt.Fprintf(w, "%sPump: %s\n", prefix, r.PumpName); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s%sFlow Units: %s    Head Units: %s    Samples: %d    Degree: %d\n",
		prefix, util.IndentExpand(indent, 1),
		r.FlowUnits, r.HeadUnits, r.Samples, r.Degree); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "%sFits:\n", prefix); err != nil {
		return err
	}
	tbl := tabwriter.NewWriter(w, 0, 0, 1, ' ', tabwriter.AlignRight)
	if _, err := fmt.Fprintf(tbl, "%s%sCurve\tR2\tMSE\tCoefficients\t\n", prefix, util.IndentExpand(indent, 1)); err != nil {
		return err
	}
	for _, row := range []struct {
		name string
		fit  FitReport
	}{
		{"Head", r.Head},
		{"Efficiency", r.Efficiency},
	} {
		r2, mse := "...", "..."
		if row.fit.Scores != nil {
			r2 = fmt.Sprintf("%.4f", row.fit.Scores.R2)
			mse = fmt.Sprintf("%.3f", row.fit.Scores.MSE)
		}
		if _, err := fmt.Fprintf(tbl, "%s%s%s\t%s\t%s\t%s\t\n",
			prefix, util.IndentExpand(indent, 1),
			row.name, r2, mse, row.fit.CoefficientsText); err != nil {
			return err
		}
	}
	return tbl.Flush()
}
