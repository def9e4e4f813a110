package cmd

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"bondsim/models"
)

// renderMatrix writes the scenario matrix as an aligned text table: one row
// per holding span (months), one column per holding size (units), each cell
// the median annualized return rate in percent.
func renderMatrix(w io.Writer, matrix *models.ReturnMatrix) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprint(tw, "months \\ units")
	for _, size := range matrix.Sizes {
		fmt.Fprintf(tw, "\t%d", size)
	}
	fmt.Fprintln(tw)

	for i, span := range matrix.Spans {
		fmt.Fprintf(tw, "%d", span)
		for j := range matrix.Sizes {
			fmt.Fprintf(tw, "\t%.3f%%", matrix.Cells[i][j])
		}
		fmt.Fprintln(tw)
	}

	return tw.Flush()
}

// writeMatrixCSV exports the scenario matrix with the same row/column layout
// as the text table.
func writeMatrixCSV(path string, matrix *models.ReturnMatrix) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)

	header := make([]string, 0, len(matrix.Sizes)+1)
	header = append(header, "holding_span_months")
	for _, size := range matrix.Sizes {
		header = append(header, strconv.Itoa(size))
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for i, span := range matrix.Spans {
		row := make([]string, 0, len(matrix.Sizes)+1)
		row = append(row, strconv.Itoa(span))
		for j := range matrix.Sizes {
			row = append(row, strconv.FormatFloat(matrix.Cells[i][j], 'f', 4, 64))
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	w.Flush()
	return w.Error()
}
