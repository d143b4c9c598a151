package feed

import (
	"strconv"

	ics "github.com/arran4/golang-ical"
	"github.com/calfeeds/ethglobal-ics/internal/ethglobal"
	"github.com/google/uuid"
)

// eventPage is the base of the canonical event detail page linked from each
// VEVENT description.
const eventPage = "https://ethglobal.com/events/"

// EventUID derives the calendar UID for an upstream event id: a version-5
// UUID of the decimal id in the DNS namespace. The same id always yields the
// same UID, so subscribed clients update events instead of duplicating them.
func EventUID(id uint64) string {
	return uuid.NewSHA1(uuid.NameSpaceDNS, []byte(strconv.FormatUint(id, 10))).String()
}

// addEvent maps one upstream event onto a VEVENT in cal. Text values are
// handed to the library raw; it applies the iCalendar TEXT escaping.
func addEvent(cal *ics.Calendar, ev ethglobal.Event) {
	ce := cal.AddEvent(EventUID(ev.ID))
	ce.SetSummary(ev.Name)
	ce.SetStartAt(ev.StartTime.UTC())
	ce.SetEndAt(ev.EndTime.UTC())

	if ev.City != nil {
		ce.SetLocation(location(*ev.City))
	}

	if ev.Website != nil {
		ce.SetURL(*ev.Website)
	}

	ce.SetDescription(description(ev))
}

// location renders "City, Country". Upstream data sometimes carries a city
// without a country; the city name alone is rendered in that case.
func location(city ethglobal.City) string {
	if city.Country == nil {
		return city.Name
	}
	return city.Name + ", " + city.Country.Name
}

func description(ev ethglobal.Event) string {
	return ev.Name + "\n" + ev.Type + "\n\n" + eventPage + ev.Slug
}
