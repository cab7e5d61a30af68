// Package export renders a feedback view as a downloadable file.
//
// Three formats are supported:
//
//   - CSV: semicolon-delimited, BOM-prefixed, CRLF line breaks and every
//     field quoted, so spreadsheet applications in comma-decimal locales
//     open it without an import dialog.
//   - JSON: an indented array of flat objects with ISO-8601 timestamps.
//   - XLSX: a styled single-sheet workbook with a statistics block
//     (see BuildWorkbook).
//
// Serializers are pure: they never log, never touch the network and never
// modify their input. Deciding whether an empty view is worth exporting is
// left to the caller.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tbourn/feedback-dashboard/internal/domain"
)

// Format identifies an export file type.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
)

// MIME types sent with each format.
const (
	ContentTypeCSV  = "text/csv; charset=utf-8"
	ContentTypeJSON = "application/json; charset=utf-8"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// File name bases; Filename appends the generation stamp and extension.
const (
	BaseName       = "feedbacks"
	ReportBaseName = "feedbacks_report"
)

// ErrUnknownFormat is returned by ParseFormat and Render for unsupported formats.
var ErrUnknownFormat = errors.New("unknown export format")

// ParseFormat resolves a user-supplied format name. Matching ignores case and
// surrounding whitespace; "excel" is accepted as an alias for xlsx.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "xlsx", "excel":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Options controls presentation details shared by the serializers.
type Options struct {
	// Location is the zone dates are rendered in (CSV and XLSX). Nil means UTC.
	Location *time.Location
	// Now stamps the file name and the workbook subtitle. Zero means time.Now().
	Now time.Time
}

func (o Options) location() *time.Location {
	if o.Location == nil {
		return time.UTC
	}
	return o.Location
}

func (o Options) now() time.Time {
	if o.Now.IsZero() {
		return time.Now()
	}
	return o.Now
}

// Payload is a rendered export ready to be sent to a client.
type Payload struct {
	Body        []byte
	ContentType string
	Filename    string
}

// Render serializes records in the given format. On error no partial payload
// is returned.
func Render(records []domain.Feedback, format Format, opts Options) (*Payload, error) {
	now := opts.now()
	switch format {
	case FormatCSV:
		var buf bytes.Buffer
		if err := WriteCSV(&buf, records, opts.location()); err != nil {
			return nil, fmt.Errorf("write csv: %w", err)
		}
		return &Payload{Body: buf.Bytes(), ContentType: ContentTypeCSV, Filename: Filename(BaseName, format, now)}, nil

	case FormatJSON:
		body, err := MarshalJSON(records)
		if err != nil {
			return nil, fmt.Errorf("marshal json: %w", err)
		}
		return &Payload{Body: body, ContentType: ContentTypeJSON, Filename: Filename(BaseName, format, now)}, nil

	case FormatXLSX:
		opts.Now = now
		wb, err := BuildWorkbook(records, opts)
		if err != nil {
			return nil, fmt.Errorf("build workbook: %w", err)
		}
		defer wb.Close()
		buf, err := wb.WriteToBuffer()
		if err != nil {
			return nil, fmt.Errorf("write workbook: %w", err)
		}
		return &Payload{Body: buf.Bytes(), ContentType: ContentTypeXLSX, Filename: Filename(ReportBaseName, format, now)}, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, string(format))
	}
}

// Filename builds "<base>_YYYYMMDDHHMM.<ext>" using the UTC wall clock of now.
func Filename(base string, format Format, now time.Time) string {
	return fmt.Sprintf("%s_%s.%s", base, now.UTC().Format("200601021504"), format)
}
