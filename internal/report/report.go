// Package report exports an end-of-run summary workbook, using a single
// fixed layout instead of a generic report-definition system since a
// crawl run only ever produces one shape of summary.
package report

import (
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"
)

// Summary is the final set of counters and buckets a run produces,
// including the quality-score histogram only the quality policies
// populate.
type Summary struct {
	ExperimentName string
	FrontierPolicy string

	Downloaded       int
	FailedDownloads  int
	NotFoundSeeds    int
	WrongLinkedDocID int
	NoOutlinksPages  int
	Checkpoints      int

	// QScoreBuckets maps a histogram bucket label (e.g. "[-1.0, -0.9)")
	// to the number of downloaded pages whose own quality score fell in
	// it. Empty for non-quality policies.
	QScoreBuckets map[string]int
}

var headerStyle = &excelize.Style{
	Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
	Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"00C853"}},
	Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
}

// Write renders Summary to an xlsx workbook at path: a headline-counters
// sheet, and (for quality policies) a qscore-bucket histogram sheet.
func Write(path string, s Summary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeCounters(f, s); err != nil {
		return err
	}
	if len(s.QScoreBuckets) > 0 {
		if err := writeBuckets(f, s); err != nil {
			return err
		}
	}

	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(0)

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("writing summary workbook %s: %w", path, err)
	}
	return nil
}

func writeCounters(f *excelize.File, s Summary) error {
	sheet := "Summary"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("creating sheet %s: %w", sheet, err)
	}

	style, err := f.NewStyle(headerStyle)
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	rows := [][2]interface{}{
		{"experiment_name", s.ExperimentName},
		{"frontier_policy", s.FrontierPolicy},
		{"downloaded", s.Downloaded},
		{"failed_downloads", s.FailedDownloads},
		{"notfound_seeds", s.NotFoundSeeds},
		{"wrong_linked_docid", s.WrongLinkedDocID},
		{"no_outlinks_pages", s.NoOutlinksPages},
		{"checkpoints", s.Checkpoints},
	}

	f.SetCellValue(sheet, "A1", "metric")
	f.SetCellValue(sheet, "B1", "value")
	f.SetCellStyle(sheet, "A1", "B1", style)

	for i, row := range rows {
		r := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", r), row[0])
		f.SetCellValue(sheet, fmt.Sprintf("B%d", r), row[1])
	}

	return nil
}

func writeBuckets(f *excelize.File, s Summary) error {
	sheet := "QScoreHistogram"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("creating sheet %s: %w", sheet, err)
	}

	style, err := f.NewStyle(headerStyle)
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	f.SetCellValue(sheet, "A1", "bucket")
	f.SetCellValue(sheet, "B1", "count")
	f.SetCellStyle(sheet, "A1", "B1", style)

	labels := make([]string, 0, len(s.QScoreBuckets))
	for label := range s.QScoreBuckets {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	for i, label := range labels {
		r := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", r), label)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", r), s.QScoreBuckets[label])
	}

	return nil
}
