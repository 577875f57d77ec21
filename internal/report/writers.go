package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/xuri/excelize/v2"
)

// WriteTable renders the report as an aligned console table.
func (r *Report) WriteTable(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "%s\nrun %s, generated %s\n\n",
		r.Title(), r.RunID, r.GeneratedAt.Format(timeLayout)); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	printRow := func(cells []string) {
		for i, c := range cells {
			if i > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprint(tw, c)
		}
		fmt.Fprintln(tw)
	}
	printRow(header)
	for _, row := range r.Rows {
		printRow(row.strings())
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flushing table: %w", err)
	}

	_, err := fmt.Fprintf(w, "\n%d flagged entries\n", len(r.Rows))
	return err
}

// WriteCSV renders the report as CSV with a header row.
func (r *Report) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, row := range r.Rows {
		if err := cw.Write(row.strings()); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}
	return nil
}

// WriteHTML renders the report with the embedded HTML template.
func (r *Report) WriteHTML(w io.Writer) error {
	if err := reportTemplate.Execute(w, r); err != nil {
		return fmt.Errorf("rendering html report: %w", err)
	}
	return nil
}

const xlsxSheet = "Timesheet Errors"

// WriteXLSX renders the report as an Excel workbook.
func (r *Report) WriteXLSX(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	setRow := func(rowNum int, cells []string) error {
		for col, val := range cells {
			cell, err := excelize.CoordinatesToCellName(col+1, rowNum)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(xlsxSheet, cell, val); err != nil {
				return err
			}
		}
		return nil
	}

	if err := setRow(1, header); err != nil {
		return fmt.Errorf("writing xlsx header: %w", err)
	}
	for i, row := range r.Rows {
		if err := setRow(i+2, row.strings()); err != nil {
			return fmt.Errorf("writing xlsx row %d: %w", i+1, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing xlsx: %w", err)
	}
	return nil
}
