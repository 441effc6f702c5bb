package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sartorproj/goseason/mmm"
	"github.com/sartorproj/goseason/timeseries"
	"github.com/sartorproj/goseason/transform"
)

// modelFlags are the data and model overrides shared by build, prior-check
// and fit.
type modelFlags struct {
	csvPath   string
	index     int
	transform string
	out       string
}

func (f *modelFlags) register(cmd *cobra.Command, withIndex bool) {
	cmd.Flags().StringVar(&f.csvPath, "csv", "", "input CSV (date column, optional entity column, value and base columns)")
	if withIndex {
		cmd.Flags().IntVar(&f.index, "index", 0, "build over an integer index of this length instead of CSV dates")
	}
	cmd.Flags().StringVar(&f.transform, "transform", "", "override model.transform (softplus, scaled_exp, abs)")
	cmd.Flags().StringVar(&f.out, "out", "", "write the JSON result to this file")
}

// dataset is the CSV data a model is built and fit over.
type dataset struct {
	inputs   mmm.Inputs
	observed [][]float64
}

// modelConfig applies the flag overrides to the configured model settings.
func (a *app) modelConfig(f *modelFlags) (*mmm.Config, error) {
	cfg, err := a.cfg.ModelConfig()
	if err != nil {
		return nil, err
	}
	if f.transform != "" {
		if cfg.Transform, err = transform.Parse(f.transform); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// loadDataset reads the CSV named by the flags, or builds an index-only
// dataset when --index is given.
func (a *app) loadDataset(f *modelFlags) (*dataset, error) {
	if f.csvPath == "" {
		if f.index <= 0 {
			return nil, errors.New("one of --csv or --index is required")
		}
		return &dataset{inputs: mmm.Inputs{Index: f.index}}, nil
	}

	frame, err := timeseries.LoadFrame(f.csvPath, a.cfg.CSVOptions())
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", f.csvPath, err)
	}
	observed, err := frame.Column(a.cfg.Data.ValueColumn)
	if err != nil {
		return nil, err
	}

	d := &dataset{
		inputs:   mmm.Inputs{Times: frame.Timestamps},
		observed: observed,
	}
	if a.cfg.Data.IDColumn != "" {
		d.inputs.Entities = frame.Entities
	}
	if len(a.cfg.Data.BaseColumns) > 0 {
		if d.inputs.Base, err = frame.SumColumns(a.cfg.Data.BaseColumns...); err != nil {
			return nil, err
		}
	}

	a.logger.Debug("dataset loaded",
		zap.String("path", f.csvPath),
		zap.Int("dates", frame.Len()),
		zap.Strings("entities", frame.Entities),
		zap.Strings("base_columns", a.cfg.Data.BaseColumns))
	return d, nil
}

// build loads the dataset and builds the model it describes.
func (a *app) build(f *modelFlags) (*mmm.Model, *dataset, error) {
	cfg, err := a.modelConfig(f)
	if err != nil {
		return nil, nil, err
	}
	d, err := a.loadDataset(f)
	if err != nil {
		return nil, nil, err
	}
	m, err := mmm.NewBuilder(a.logger).Build(cfg, d.inputs)
	if err != nil {
		return nil, nil, err
	}
	return m, d, nil
}

// writeJSON writes v to path, or to the command's output when path is "-".
func writeJSON(cmd *cobra.Command, path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if path == "-" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	return os.WriteFile(path, data, 0644)
}
