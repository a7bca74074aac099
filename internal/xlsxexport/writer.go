package xlsxexport

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"orgcomply/internal/domain"
)

const (
	logSheet    = "Activity Log"
	missedSheet = "Missed Deadlines"
)

// logColumns defines the Activity Log header row.
var logColumns = []string{
	"Activity Title",
	"Kind",
	"Status",
	"Organization",
	"Submitted To",
	"Link",
	"Attachment",
	"Reason",
	"Audit Opinion",
	"Submitted At",
	"Updated At",
}

// missedColumns defines the Missed Deadlines header row.
var missedColumns = []string{
	"Activity Title",
	"Report",
	"Due Date",
	"Days Overdue",
	"Deadline Adjusted",
}

// Writer builds a compliance workbook with the activity log and missed
// deadlines as separate sheets.
type Writer struct {
	file   *excelize.File
	logRow int
}

// NewWriter creates a Writer with both sheets and their header rows in place.
func NewWriter() (*Writer, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), logSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(missedSheet); err != nil {
		return nil, err
	}
	if err := writeRow(f, logSheet, 1, logColumns); err != nil {
		return nil, err
	}
	if err := writeRow(f, missedSheet, 1, missedColumns); err != nil {
		return nil, err
	}
	return &Writer{file: f, logRow: 1}, nil
}

// WriteRecords appends a batch of submission records to the Activity Log sheet.
func (w *Writer) WriteRecords(records []domain.SubmissionRecord) error {
	for i := range records {
		w.logRow++
		if err := writeRow(w.file, logSheet, w.logRow, recordToRow(&records[i])); err != nil {
			return err
		}
	}
	return nil
}

// WriteMissed fills the Missed Deadlines sheet.
func (w *Writer) WriteMissed(missed []domain.MissedDeadline) error {
	for i, m := range missed {
		row := []string{
			m.ActivityTitle,
			string(m.Marker.Kind),
			m.Marker.DueDate.Format("2006-01-02"),
			strconv.Itoa(m.DaysOverdue),
			formatBool(m.Marker.HasOverride),
		}
		if err := writeRow(w.file, missedSheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

// WriteTo streams the finished workbook and closes it.
func (w *Writer) WriteTo(out io.Writer) error {
	defer w.file.Close()
	return w.file.Write(out)
}

func writeRow(f *excelize.File, sheet string, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func recordToRow(r *domain.SubmissionRecord) []string {
	return []string{
		r.ActivityTitle,
		string(r.Kind),
		string(r.Status),
		r.Organization,
		r.SubmittedTo,
		r.Link,
		r.AttachmentURL,
		r.Reason,
		r.AuditOpinion,
		r.SubmittedAt.Format(time.RFC3339),
		r.UpdatedAt.Format(time.RFC3339),
	}
}

func formatBool(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans an organization name for use in Content-Disposition.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a sanitized filename for the Content-Disposition
// header, in the form {org}_compliance_{YYYY-MM-DD}.xlsx.
func BuildFilename(org string) string {
	return fmt.Sprintf("%s_compliance_%s.xlsx", SanitizeFilename(org), time.Now().Format("2006-01-02"))
}
