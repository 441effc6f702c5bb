// Package timeseries provides the observed data a seasonality model is fit
// against.
//
// A Series is a single dated column. A Frame is a long-format panel read
// from CSV and grouped by an entity column, so that every entity carries the
// same dates and the same value columns.
//
// # Creating a Series
//
//	values := []float64{100, 102, 105, 103, 108, 110}
//	series := timeseries.New(values)
//
// # Loading a panel
//
//	opts := timeseries.DefaultCSVOptions()
//	opts.IDColumn = "geo"
//	opts.ValueColumns = []string{"y", "intercept", "tv", "search"}
//	frame, err := timeseries.LoadFrame("sales.csv", opts)
//
//	y, err := frame.Column("y")                                  // [entity][date]
//	base, err := frame.SumColumns("intercept", "tv", "search")   // [entity][date]
//
// Rows with a missing value (empty, NA, NaN or null) in any requested column
// are skipped. Entities whose remaining dates differ produce ErrRaggedPanel.
//
// # Writing
//
//	err := timeseries.WriteCSV(os.Stdout, observed, fitted)
package timeseries
