package feed

import (
	ics "github.com/arran4/golang-ical"
	"github.com/calfeeds/ethglobal-ics/internal/ethglobal"
)

const (
	calendarName = "ETHGlobal Events"
	productID    = "-//ETHGlobal//Events Feed//EN"
)

// BuildCalendar assembles the full feed calendar: one VEVENT per upstream
// event, in input order. The result serializes identically for the same
// input sequence.
func BuildCalendar(events []ethglobal.Event) *ics.Calendar {
	cal := ics.NewCalendar()
	cal.SetProductId(productID)
	cal.SetName(calendarName)
	cal.SetXWRCalName(calendarName)

	for _, ev := range events {
		addEvent(cal, ev)
	}

	return cal
}
