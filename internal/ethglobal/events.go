package ethglobal

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrMalformedResponse marks an upstream body that is not valid JSON or does
// not carry the expected getPublishedEvents shape. The query is fixed, so a
// shape mismatch means the upstream contract changed; the whole response is
// rejected rather than salvaged per event.
var ErrMalformedResponse = errors.New("malformed events API response")

// Event is one published event as returned by the getPublishedEvents query.
// The id is the upstream's stable key and drives calendar UID derivation.
type Event struct {
	ID        uint64
	Name      string
	Slug      string
	Type      string
	StartTime time.Time
	EndTime   time.Time
	Website   *string
	City      *City
}

// City is the event location. Country may be absent in upstream data.
type City struct {
	Name    string
	Country *Country
}

type Country struct {
	Name string
}

// eventRecord is the wire form of an event. Required fields decode through
// pointers so an absent field is distinguishable from a zero value; a
// renamed or dropped upstream field must fail the parse, not zero-fill.
type eventRecord struct {
	ID        *uint64     `json:"id"`
	Name      *string     `json:"name"`
	Slug      *string     `json:"slug"`
	Type      *string     `json:"type"`
	StartTime *time.Time  `json:"startTime"`
	EndTime   *time.Time  `json:"endTime"`
	Website   *string     `json:"website"`
	City      *cityRecord `json:"city"`
}

type cityRecord struct {
	Name    *string `json:"name"`
	Country *struct {
		Name *string `json:"name"`
	} `json:"country"`
}

func (r eventRecord) event() (Event, error) {
	switch {
	case r.ID == nil:
		return Event{}, errors.New("missing id")
	case r.Name == nil:
		return Event{}, errors.New("missing name")
	case r.Slug == nil:
		return Event{}, errors.New("missing slug")
	case r.Type == nil:
		return Event{}, errors.New("missing type")
	case r.StartTime == nil:
		return Event{}, errors.New("missing startTime")
	case r.EndTime == nil:
		return Event{}, errors.New("missing endTime")
	}

	ev := Event{
		ID:        *r.ID,
		Name:      *r.Name,
		Slug:      *r.Slug,
		Type:      *r.Type,
		StartTime: *r.StartTime,
		EndTime:   *r.EndTime,
		Website:   r.Website,
	}

	if r.City != nil {
		if r.City.Name == nil {
			return Event{}, errors.New("missing city name")
		}
		city := &City{Name: *r.City.Name}
		if r.City.Country != nil {
			if r.City.Country.Name == nil {
				return Event{}, errors.New("missing country name")
			}
			city.Country = &Country{Name: *r.City.Country.Name}
		}
		ev.City = city
	}

	return ev, nil
}

// ParseEvents decodes a response body shaped as
// {"data":{"getPublishedEvents":[...]}} into the event list. A record with
// a required field missing fails the whole parse.
func ParseEvents(data []byte) ([]Event, error) {
	var payload struct {
		Data *struct {
			GetPublishedEvents []eventRecord `json:"getPublishedEvents"`
		} `json:"data"`
	}

	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if payload.Data == nil || payload.Data.GetPublishedEvents == nil {
		return nil, fmt.Errorf("%w: missing getPublishedEvents payload", ErrMalformedResponse)
	}

	events := make([]Event, 0, len(payload.Data.GetPublishedEvents))
	for i, rec := range payload.Data.GetPublishedEvents {
		ev, err := rec.event()
		if err != nil {
			return nil, fmt.Errorf("%w: event %d: %v", ErrMalformedResponse, i, err)
		}
		events = append(events, ev)
	}

	return events, nil
}
