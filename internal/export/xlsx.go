package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/tbourn/feedback-dashboard/internal/domain"
	"github.com/tbourn/feedback-dashboard/internal/feedback"
)

// SheetName is the single worksheet of an XLSX export.
const SheetName = "Feedbacks"

// Workbook layout (1-based rows).
const (
	titleRow    = 1
	subtitleRow = 2
	headerRow   = 4
	firstRow    = 5
	lastColumn  = "H"
)

var xlsxHeader = []string{
	"Feedback ID",
	"User name",
	"Rating",
	"Category",
	"Comment",
	"Date and time",
	"Date",
	"Time",
}

var columnWidths = []float64{18, 25, 10, 18, 50, 22, 12, 8}

// CategoryColors maps each rating category to its fill color (RGB hex).
var CategoryColors = map[feedback.Category]string{
	feedback.CategoryExcellent: "16A34A",
	feedback.CategoryVeryGood:  "2563EB",
	feedback.CategoryRegular:   "F59E0B",
	feedback.CategoryBad:       "EA580C",
	feedback.CategoryTerrible:  "DC2626",
}

var distributionLabels = map[int]string{
	5: "5 stars (excellent)",
	4: "4 stars (very good)",
	3: "3 stars (regular)",
	2: "2 stars (bad)",
	1: "1 star (terrible)",
}

// BuildWorkbook lays records out on a styled "Feedbacks" sheet:
//
//	row 1     title banner, merged A:H
//	row 2     generation stamp, merged A:H
//	row 3     blank
//	row 4     column headers
//	row 5..   one row per record
//
// Rating and category cells are filled with the category color; the three
// date columns hold real date values with dd/mm/yyyy hh:mm, dd/mm/yyyy and
// hh:mm number formats, rendered in opts.Location. When there is at least one
// record, a statistics block follows after one blank row.
//
// The caller owns the returned file and must Close it.
func BuildWorkbook(records []domain.Feedback, opts Options) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		_ = f.Close()
		return nil, err
	}

	w := &sheetWriter{f: f, sheet: SheetName}
	st := newStyles(w)
	loc := opts.location()
	now := opts.now().In(loc)

	// Banner rows.
	w.set(cell(1, titleRow), "Feedback report")
	w.merge(cell(1, titleRow), lastColumn+fmt.Sprint(titleRow))
	w.style(cell(1, titleRow), lastColumn+fmt.Sprint(titleRow), st.title)
	w.height(titleRow, 30)

	w.set(cell(1, subtitleRow), fmt.Sprintf("Generated on %s at %s", now.Format("02/01/2006"), now.Format("15:04:05")))
	w.merge(cell(1, subtitleRow), lastColumn+fmt.Sprint(subtitleRow))
	w.style(cell(1, subtitleRow), lastColumn+fmt.Sprint(subtitleRow), st.subtitle)
	w.height(subtitleRow, 20)

	for i, h := range xlsxHeader {
		w.set(cell(i+1, headerRow), h)
	}
	w.style(cell(1, headerRow), lastColumn+fmt.Sprint(headerRow), st.header)
	w.height(headerRow, 24)

	row := firstRow
	for _, r := range records {
		cat := feedback.CategoryFor(r.Rating)
		at := wallClock(r.CreatedAt, loc)

		w.set(cell(1, row), r.ID)
		w.set(cell(2, row), r.UserName)
		w.set(cell(3, row), r.Rating)
		w.set(cell(4, row), string(cat))
		w.set(cell(5, row), strings.TrimSpace(r.Comment))
		w.set(cell(6, row), at)
		w.set(cell(7, row), at)
		w.set(cell(8, row), at)

		w.style(cell(1, row), cell(2, row), st.data)
		w.style(cell(3, row), cell(3, row), st.rating[cat])
		w.style(cell(4, row), cell(4, row), st.category[cat])
		w.style(cell(5, row), cell(5, row), st.data)
		w.style(cell(6, row), cell(6, row), st.dateTime)
		w.style(cell(7, row), cell(7, row), st.date)
		w.style(cell(8, row), cell(8, row), st.clock)
		row++
	}

	if len(records) > 0 {
		writeSummary(w, st, feedback.Summarize(records), row+1)
	}

	for i, width := range columnWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		w.width(col, width)
	}

	if w.err != nil {
		_ = f.Close()
		return nil, w.err
	}
	return f, nil
}

// writeSummary renders the statistics block starting at row.
func writeSummary(w *sheetWriter, st *styles, s feedback.Summary, row int) {
	w.set(cell(1, row), "Statistical analysis")
	w.merge(cell(1, row), lastColumn+fmt.Sprint(row))
	w.style(cell(1, row), lastColumn+fmt.Sprint(row), st.analysis)
	row += 2

	section := func(title string) {
		w.set(cell(1, row), title)
		w.style(cell(1, row), cell(3, row), st.section)
		row++
	}
	line := func(label string, values ...any) {
		w.set(cell(1, row), label)
		for i, v := range values {
			w.set(cell(i+2, row), v)
		}
		w.style(cell(1, row), cell(3, row), st.summary)
		row++
	}
	share := func(label string, count int, pct float64) {
		line(label, count, pct/100)
		w.style(cell(3, row-1), cell(3, row-1), st.percent)
	}

	section("General summary")
	line("Total feedback", s.Total)
	line("Average rating", s.AverageRating)
	w.style(cell(2, row-1), cell(2, row-1), st.highlight)
	line("High ratings (4-5)", s.HighCount)
	line("Low ratings (1-2)", s.LowCount)
	mostCount := 0
	for _, b := range s.Distribution {
		if b.Rating == s.MostFrequent {
			mostCount = b.Count
		}
	}
	line("Most frequent rating", s.MostFrequent, mostCount)
	row++

	section("Rating distribution")
	for _, b := range s.Distribution {
		share(distributionLabels[b.Rating], b.Count, b.Percent)
	}
	row++

	section("Quality indicators")
	share("Positive (4-5)", s.Positive.Count, s.Positive.Percent)
	share("Neutral (3)", s.Neutral.Count, s.Neutral.Percent)
	share("Negative (1-2)", s.Negative.Count, s.Negative.Percent)
}

// wallClock re-expresses t's local wall clock in loc as a UTC time, which is
// how spreadsheet serial dates are stored (they carry no zone).
func wallClock(t time.Time, loc *time.Location) time.Time {
	l := t.In(loc)
	return time.Date(l.Year(), l.Month(), l.Day(), l.Hour(), l.Minute(), l.Second(), 0, time.UTC)
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

// sheetWriter keeps the first error so layout code can stay linear.
type sheetWriter struct {
	f     *excelize.File
	sheet string
	err   error
}

func (w *sheetWriter) set(axis string, v any) {
	if w.err == nil {
		w.err = w.f.SetCellValue(w.sheet, axis, v)
	}
}

func (w *sheetWriter) style(from, to string, id int) {
	if w.err == nil {
		w.err = w.f.SetCellStyle(w.sheet, from, to, id)
	}
}

func (w *sheetWriter) merge(from, to string) {
	if w.err == nil {
		w.err = w.f.MergeCell(w.sheet, from, to)
	}
}

func (w *sheetWriter) height(row int, h float64) {
	if w.err == nil {
		w.err = w.f.SetRowHeight(w.sheet, row, h)
	}
}

func (w *sheetWriter) width(col string, width float64) {
	if w.err == nil {
		w.err = w.f.SetColWidth(w.sheet, col, col, width)
	}
}

func (w *sheetWriter) newStyle(s *excelize.Style) int {
	if w.err != nil {
		return 0
	}
	id, err := w.f.NewStyle(s)
	w.err = err
	return id
}

type styles struct {
	title, subtitle, header, data         int
	dateTime, date, clock                 int
	analysis, section, summary, highlight int
	percent                               int
	rating, category                      map[feedback.Category]int
}

func box(style int, color string) []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: color, Style: style},
		{Type: "top", Color: color, Style: style},
		{Type: "right", Color: color, Style: style},
		{Type: "bottom", Color: color, Style: style},
	}
}

func solid(color string) excelize.Fill {
	return excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}}
}

func newStyles(w *sheetWriter) *styles {
	const font = "Calibri"
	centered := &excelize.Alignment{Horizontal: "center", Vertical: "center"}
	thin := box(1, "D1D5DB")
	fmtDateTime := "dd/mm/yyyy hh:mm"
	fmtDate := "dd/mm/yyyy"
	fmtClock := "hh:mm"
	fmtPercent := "0.0%"

	st := &styles{
		rating:   make(map[feedback.Category]int, len(CategoryColors)),
		category: make(map[feedback.Category]int, len(CategoryColors)),
	}
	st.title = w.newStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 16, Family: font, Color: "FFFFFF"},
		Fill:      solid("1E293B"),
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    box(5, "0F172A"),
	})
	st.subtitle = w.newStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Italic: true, Size: 11, Family: font, Color: "475569"},
		Fill:      solid("F1F5F9"),
		Alignment: centered,
		Border:    box(1, "CBD5E1"),
	})
	st.header = w.newStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Family: font, Color: "FFFFFF"},
		Fill:      solid("3B82F6"),
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    box(2, "1D4ED8"),
	})
	st.data = w.newStyle(&excelize.Style{
		Font:      &excelize.Font{Size: 11, Family: font},
		Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
		Border:    thin,
	})
	st.dateTime = w.newStyle(&excelize.Style{Font: &excelize.Font{Size: 11, Family: font}, Alignment: centered, Border: thin, CustomNumFmt: &fmtDateTime})
	st.date = w.newStyle(&excelize.Style{Font: &excelize.Font{Size: 11, Family: font}, Alignment: centered, Border: thin, CustomNumFmt: &fmtDate})
	st.clock = w.newStyle(&excelize.Style{Font: &excelize.Font{Size: 11, Family: font}, Alignment: centered, Border: thin, CustomNumFmt: &fmtClock})

	for cat, color := range CategoryColors {
		st.rating[cat] = w.newStyle(&excelize.Style{
			Font:      &excelize.Font{Bold: true, Size: 14, Family: font, Color: "FFFFFF"},
			Fill:      solid(color),
			Alignment: centered,
			Border:    thin,
		})
		st.category[cat] = w.newStyle(&excelize.Style{
			Font:      &excelize.Font{Bold: true, Size: 11, Family: font, Color: "FFFFFF"},
			Fill:      solid(color),
			Alignment: centered,
			Border:    thin,
		})
	}

	st.analysis = w.newStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14, Family: font, Color: "FFFFFF"},
		Fill:      solid("7C3AED"),
		Alignment: centered,
		Border:    box(5, "5B21B6"),
	})
	st.section = w.newStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Family: font, Color: "FFFFFF"},
		Fill:      solid("059669"),
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
		Border:    box(2, "047857"),
	})
	st.summary = w.newStyle(&excelize.Style{
		Font:      &excelize.Font{Size: 11, Family: font},
		Fill:      solid("F0FDF4"),
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
		Border:    box(1, "BBF7D0"),
	})
	st.highlight = w.newStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Family: font, Color: "1F2937"},
		Fill:      solid("FEF3C7"),
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
		Border:    box(1, "F59E0B"),
	})
	st.percent = w.newStyle(&excelize.Style{
		Font:         &excelize.Font{Size: 11, Family: font},
		Fill:         solid("F0FDF4"),
		Alignment:    &excelize.Alignment{Horizontal: "left", Vertical: "center"},
		Border:       box(1, "BBF7D0"),
		CustomNumFmt: &fmtPercent,
	})
	return st
}
