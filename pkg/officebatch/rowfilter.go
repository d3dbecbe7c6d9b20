package officebatch

import (
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// RowRange bounds the rows to process, inclusive on both ends. Negative
// values leave the corresponding end open.
type RowRange struct {
	From int
	To   int
}

// OpenRange processes every row.
var OpenRange = RowRange{From: -1, To: -1}

// FilterRows narrows a data set to the given range and an optional where
// expression evaluated against each row's columns. A where expression that
// does not compile is logged and ignored, matching the forgiving behavior of
// the row source; a row on which evaluation fails is excluded.
func FilterRows(ds *DataSet, rng RowRange, where string, logger *Logger) *DataSet {
	if logger == nil {
		logger = GetLogger()
	}

	rows := ds.Rows

	var program *vm.Program
	if where != "" {
		var err error
		program, err = expr.Compile(where, expr.AllowUndefinedVariables(), expr.AsBool())
		if err != nil {
			logger.Warn("where filter ignored: %v", err)
			program = nil
		}
	}

	if program != nil {
		kept := make([]Row, 0, len(rows))
		for i, row := range rows {
			env := make(map[string]interface{}, len(row))
			for k, v := range row {
				env[k] = v
			}
			out, err := expr.Run(program, env)
			if err != nil {
				logger.Warn("where filter failed on row %d: %v", i, err)
				continue
			}
			if matched, ok := out.(bool); ok && matched {
				kept = append(kept, row)
			}
		}
		rows = kept
	}

	start := 0
	if rng.From >= 0 {
		start = rng.From
	}
	stop := len(rows)
	if rng.To >= 0 && rng.To+1 < stop {
		stop = rng.To + 1
	}
	if start > len(rows) {
		start = len(rows)
	}
	if start > stop {
		stop = start
	}

	return &DataSet{Columns: ds.Columns, Rows: rows[start:stop]}
}
