package glubpage

import (
	"time"
)

// DateFormatter turns a post's date_iso into display text. ok is false if
// the date cannot be parsed, in which case no date is shown.
type DateFormatter interface {
	FormatDate(iso string) (s string, ok bool)
}

const DefaultDateLayout = "Jan 02, 2006"

// LayoutDates formats dates with a time layout in a location. The zero value
// uses DefaultDateLayout and time.Local. Month names are always English;
// DefaultDateLayout is a fixed fallback for renderers without a host locale.
// The browser build formats with the viewer's locale instead, and gctool
// check takes the layout from --date-layout.
type LayoutDates struct {
	Layout   string
	Location *time.Location
}

func (d LayoutDates) FormatDate(iso string) (string, bool) {
	t, ok := ParseDate(iso)
	if !ok {
		return "", false
	}
	layout := d.Layout
	if layout == "" {
		layout = DefaultDateLayout
	}
	loc := d.Location
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(layout), true
}

var dateLayouts = []struct {
	layout string
	local  bool
}{
	{time.RFC3339Nano, false},
	{"2006-01-02T15:04:05.999999999", true},
	{"2006-01-02T15:04", true},
	{"2006-01-02", false},
}

// ParseDate parses the date forms found in manifests. Date-only values are
// midnight UTC, date-times without an offset are local time.
func ParseDate(iso string) (time.Time, bool) {
	if iso == "" {
		return time.Time{}, false
	}
	for _, l := range dateLayouts {
		var (
			t   time.Time
			err error
		)
		if l.local {
			t, err = time.ParseInLocation(l.layout, iso, time.Local)
		} else {
			t, err = time.Parse(l.layout, iso)
		}
		if err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
