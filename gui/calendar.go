package gui

import (
	"fmt"
	"html"
	"strings"
	"time"

	ncwms "github.com/kwilcox/ncWMS"
)

var weekdayHeadings = []string{"M", "T", "W", "T", "F", "S", "S"}

// monthWeeks lays out a month in Monday-first weeks. Days outside the month
// are 0.
func monthWeeks(year int, month time.Month) [][]int {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	offset := (int(first.Weekday()) + 6) % 7
	days := first.AddDate(0, 1, -1).Day()

	var weeks [][]int
	week := make([]int, 7)
	col := offset
	for d := 1; d <= days; d++ {
		week[col] = d
		col++
		if col == 7 {
			weeks = append(weeks, week)
			week = make([]int, 7)
			col = 0
		}
	}
	if col > 0 {
		weeks = append(weeks, week)
	}
	return weeks
}

// calendarMonth finds the month a calendar shows from its nearest timestep,
// or from the first day with data.
func calendarMonth(cal *ncwms.Calendar) (time.Time, bool) {
	values := []string{cal.NearestValue}
	if len(cal.Days) > 0 {
		values = append(values, cal.Days[0].Value)
	}
	for _, v := range values {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			return t.UTC(), true
		}
		if t, err := time.Parse("2006-01-02", v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// calendarHTML renders a month with a link for each day that has data. Clicks
// are handled by delegation using the data attributes.
func calendarHTML(cal *ncwms.Calendar) string {
	var b strings.Builder
	b.WriteString(`<table><tbody><tr>`)
	nav := func(target, label string) {
		if target == "" {
			b.WriteString(`<td></td>`)
			return
		}
		fmt.Fprintf(&b, `<td><a href="#" data-date="%s">%s</a></td>`, html.EscapeString(target), label)
	}
	nav(cal.PrevYear, "&lt;&lt;")
	nav(cal.PrevMonth, "&lt;")
	fmt.Fprintf(&b, `<td colspan="3">%s</td>`, html.EscapeString(cal.Heading))
	nav(cal.NextMonth, "&gt;")
	nav(cal.NextYear, "&gt;&gt;")
	b.WriteString(`</tr><tr>`)
	for _, h := range weekdayHeadings {
		fmt.Fprintf(&b, `<th>%s</th>`, h)
	}
	b.WriteString(`</tr>`)

	withData := make(map[int]ncwms.CalendarDay, len(cal.Days))
	for _, day := range cal.Days {
		withData[day.Day] = day
	}
	cell := func(d int) {
		if d == 0 {
			b.WriteString(`<td></td>`)
			return
		}
		day, ok := withData[d]
		if !ok {
			fmt.Fprintf(&b, `<td>%d</td>`, d)
			return
		}
		fmt.Fprintf(&b, `<td id="t%d"><a href="#" data-tindex="%d" data-pretty="%s">%d</a></td>`,
			day.TIndex, day.TIndex, html.EscapeString(day.Pretty), day.Day)
	}

	if month, ok := calendarMonth(cal); ok {
		for _, week := range monthWeeks(month.Year(), month.Month()) {
			b.WriteString(`<tr>`)
			for _, d := range week {
				cell(d)
			}
			b.WriteString(`</tr>`)
		}
	} else {
		// Without a date only the days with data can be placed.
		b.WriteString(`<tr>`)
		for i, day := range cal.Days {
			if i > 0 && i%7 == 0 {
				b.WriteString(`</tr><tr>`)
			}
			cell(day.Day)
		}
		b.WriteString(`</tr>`)
	}
	b.WriteString(`</tbody></table>`)
	return b.String()
}
