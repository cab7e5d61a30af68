package export

import (
	"bytes"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/tbourn/feedback-dashboard/internal/domain"
)

const (
	csvBOM       = "\uFEFF"
	csvDelimiter = ";"
	csvLineBreak = "\r\n"

	starFull  = "★"
	starEmpty = "☆"
)

var csvHeader = []string{
	"Feedback ID",
	"User name",
	"Rating",
	"Stars",
	"Comment",
	"Date and time",
	"Date",
	"Time",
}

// Comment line breaks collapse to a single space; \r\n goes first so it
// does not turn into two spaces.
var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// WriteCSV writes records as semicolon-delimited CSV. Dates are rendered in
// loc (UTC when nil). Lines are separated by CRLF with no trailing break, so
// an empty input produces the BOM and the header line only.
func WriteCSV(w io.Writer, records []domain.Feedback, loc *time.Location) error {
	if loc == nil {
		loc = time.UTC
	}

	var buf bytes.Buffer
	buf.WriteString(csvBOM)
	writeCSVLine(&buf, csvHeader)

	for _, r := range records {
		at := r.CreatedAt.In(loc)
		date := at.Format("02/01/2006")
		clock := at.Format("15:04")
		buf.WriteString(csvLineBreak)
		writeCSVLine(&buf, []string{
			r.ID,
			r.UserName,
			strconv.Itoa(r.Rating),
			Stars(r.Rating),
			strings.TrimSpace(lineBreaks.Replace(r.Comment)),
			date + " " + clock,
			date,
			clock,
		})
	}

	_, err := w.Write(buf.Bytes())
	return err
}

func writeCSVLine(buf *bytes.Buffer, fields []string) {
	for i, f := range fields {
		if i > 0 {
			buf.WriteString(csvDelimiter)
		}
		buf.WriteByte('"')
		buf.WriteString(strings.ReplaceAll(f, `"`, `""`))
		buf.WriteByte('"')
	}
}

// Stars renders a rating as five glyphs, filled first. Ratings outside 1..5
// are clamped for display only.
func Stars(rating int) string {
	filled := min(max(rating, 0), 5)
	return strings.Repeat(starFull, filled) + strings.Repeat(starEmpty, 5-filled)
}
