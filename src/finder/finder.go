// Package finder scans channel rows for a variable match.
package finder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"findchannel/src/contracts"
	"findchannel/src/registry"
)

// Options tunes a single scan.
type Options struct {
	// Trace receives a "Compare:" line for every row carrying the variable.
	// Nil disables tracing.
	Trace io.Writer
}

// Find returns the rows whose session has query.VariableName set to a value
// equal to query.VariableValue, ignoring case.
//
// Rows are visited once each in source order. A row whose session can no
// longer be located is skipped. Scanned counts every row.
func Find(ctx context.Context, rows []contracts.Row, reg registry.Registry, query contracts.Query, opts Options) (*contracts.Result, error) {
	result := &contracts.Result{Rows: []contracts.MatchedRow{}}
	if len(rows) > 0 {
		result.Columns = rows[0].Columns
	}

	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		matched, err := match(ctx, row, reg, query, opts)
		if err != nil {
			return result, err
		}
		if matched {
			values := make(contracts.MatchedRow, len(row.Values))
			copy(values, row.Values)
			result.Rows = append(result.Rows, values)
		}

		result.Scanned++
	}

	return result, nil
}

func match(ctx context.Context, row contracts.Row, reg registry.Registry, query contracts.Query, opts Options) (bool, error) {
	sess, err := reg.Locate(ctx, row.ID())
	if errors.Is(err, registry.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	value, ok := sess.Variable(query.VariableName)
	if !ok {
		return false, nil
	}

	if opts.Trace != nil {
		fmt.Fprintf(opts.Trace, "Compare: %s = %s ? %s\n", query.VariableName, query.VariableValue, value)
	}

	return strings.EqualFold(value, query.VariableValue), nil
}
