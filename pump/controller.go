package pump

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
)

var ErrNoView = errors.New("no view for controller")

// Controller owns the current pump model and pushes it to the view whenever new data is
// imported
type Controller struct {
	opt   *ModelOptions
	view  *View
	model *Model
}

// NewController returns a controller without a model. opt configures every fit the
// controller runs.
func NewController(view *View, opt *ModelOptions) (*Controller, error) {
	if view == nil {
		return nil, ErrNoView
	}
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}
	return &Controller{
		opt:  opt,
		view: view,
	}, nil
}

// ImportFromReader parses pump data, fits the curves and updates the view. On any error the
// previously imported model is kept.
func (c *Controller) ImportFromReader(r io.Reader) error {
	ds, err := ReadDataset(r)
	if err != nil {
		return fmt.Errorf("unable to read pump data, %w", err)
	}
	return c.SetDataset(ds)
}

// ImportFromFile is ImportFromReader for the pump data file at path
func (c *Controller) ImportFromFile(path string) error {
	ds, err := ReadFile(path)
	if err != nil {
		return err
	}
	return c.SetDataset(ds)
}

// SetDataset fits a new model for the dataset and updates the view
func (c *Controller) SetDataset(ds *Dataset) error {
	m, err := NewModel(ds, c.opt)
	if err != nil {
		return err
	}
	if err := c.view.Update(m); err != nil {
		return fmt.Errorf("unable to update view, %w", err)
	}
	c.model = m

	slog.Info("imported pump data",
		"pump", ds.Name,
		"rows", ds.Len(),
		"degree", c.opt.Degree,
	)
	return nil
}

// Model returns the current pump model or nil if nothing has been imported
func (c *Controller) Model() *Model {
	return c.model
}
