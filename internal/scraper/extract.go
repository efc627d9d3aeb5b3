package scraper

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/activity-scan/internal/activity"
)

// NoDataMarker is the literal the portal returns for IDs without an activity
const NoDataMarker = "error-no active data"

// Skip reasons. Every one of them means "not applicable", never a failure.
var (
	ErrNoData              = errors.New("no active data")
	ErrNoTable             = errors.New("no grid_data table")
	ErrUnparsableTimestamp = errors.New("unparsable registration timestamp")
	ErrNotEligibleData     = errors.New("registration window or meals missing")
)

// ErrMalformedPage is returned when the body cannot be read as HTML at all
var ErrMalformedPage = errors.New("malformed page")

// IsSkip reports whether err is one of the skip reasons
func IsSkip(err error) bool {
	return errors.Is(err, ErrNoData) ||
		errors.Is(err, ErrNoTable) ||
		errors.Is(err, ErrUnparsableTimestamp) ||
		errors.Is(err, ErrNotEligibleData)
}

// Field identifies a recognized row label
type Field int

const (
	FieldUnknown Field = iota
	FieldRegisterStart
	FieldRegisterEnd
	FieldMeals
	FieldName
	FieldLocation
	FieldActivityStart
	FieldActivityEnd
	FieldShareURL
)

// labelRule maps a label substring to a field
type labelRule struct {
	label string
	field Field
}

// labelRules are matched in order by substring containment; the first hit wins.
// Header cells often carry annotations such as "報名開始時間(含)".
var labelRules = []labelRule{
	{"報名開始", FieldRegisterStart},
	{"報名結束", FieldRegisterEnd},
	{"是否提供餐點", FieldMeals},
	{"活動名稱", FieldName},
	{"活動地點", FieldLocation},
	{"活動開始", FieldActivityStart},
	{"活動結束", FieldActivityEnd},
	{"分享", FieldShareURL},
}

// MatchLabel returns the field a header cell's text maps to
func MatchLabel(header string) Field {
	for _, rule := range labelRules {
		if strings.Contains(header, rule.label) {
			return rule.field
		}
	}
	return FieldUnknown
}

// isAffirmative reports whether a meals cell says yes
func isAffirmative(value string) bool {
	value = strings.TrimSpace(value)
	return strings.Contains(value, "是") || strings.Contains(strings.ToLower(value), "yes")
}

// Extractor turns raw detail pages into records
type Extractor struct {
	// Location is the zone portal timestamps are in; nil means UTC
	Location *time.Location
}

// NewExtractor creates an Extractor for timestamps in loc
func NewExtractor(loc *time.Location) *Extractor {
	return &Extractor{Location: loc}
}

// Extract parses a raw page. It returns a record only when both registration timestamps
// parsed and meals are provided; otherwise the error is one of the skip reasons (see IsSkip)
// or ErrMalformedPage. The returned record has no ID or URL; the caller owns those.
func (e *Extractor) Extract(raw []byte) (*activity.Record, error) {
	if bytes.Contains(raw, []byte(NoDataMarker)) {
		return nil, ErrNoData
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPage, err)
	}

	table := doc.Find("table.grid_data").First()
	if table.Length() == 0 {
		return nil, ErrNoTable
	}

	rec := &activity.Record{}
	var haveStart, haveEnd bool
	var parseErr error

	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		headers := row.Find("th")
		values := row.Find("td")

		headers.Each(func(idx int, th *goquery.Selection) {
			if idx >= values.Length() {
				return
			}
			td := values.Eq(idx)
			header := strings.TrimSpace(th.Text())
			value := strings.TrimSpace(td.Text())

			switch MatchLabel(header) {
			case FieldRegisterStart:
				t, err := activity.ParseTimestamp(value, e.Location)
				if err != nil {
					parseErr = err
					return
				}
				rec.RegisterStart, haveStart = t, true
			case FieldRegisterEnd:
				t, err := activity.ParseTimestamp(value, e.Location)
				if err != nil {
					parseErr = err
					return
				}
				rec.RegisterEnd, haveEnd = t, true
			case FieldMeals:
				if isAffirmative(value) {
					rec.MealsProvided = true
				}
			case FieldName:
				rec.Name = value
			case FieldLocation:
				rec.Location = value
			case FieldActivityStart:
				rec.ActivityStart = value
			case FieldActivityEnd:
				rec.ActivityEnd = value
			case FieldShareURL:
				rec.ShareURL = value
				if href, ok := td.Find("a[href]").First().Attr("href"); ok && strings.TrimSpace(href) != "" {
					rec.ShareURL = strings.TrimSpace(href)
				}
			default:
				if header == "" {
					return
				}
				if rec.Extra == nil {
					rec.Extra = make(map[string]string)
				}
				rec.Extra[header] = value
			}
		})
	})

	if parseErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnparsableTimestamp, parseErr)
	}
	if !haveStart || !haveEnd || !rec.MealsProvided {
		return nil, ErrNotEligibleData
	}
	return rec, nil
}
