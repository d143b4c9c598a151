package feed

import (
	"strings"
	"testing"
	"time"

	"github.com/calfeeds/ethglobal-ics/internal/ethglobal"
	"github.com/google/uuid"
)

func strPtr(s string) *string { return &s }

func sampleEvent() ethglobal.Event {
	return ethglobal.Event{
		ID:        1,
		Name:      "Devcon",
		Slug:      "devcon",
		Type:      "hackathon",
		StartTime: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		Website:   strPtr("https://example.com"),
		City:      &ethglobal.City{Name: "Denver", Country: &ethglobal.Country{Name: "USA"}},
	}
}

func TestEventUID(t *testing.T) {
	t.Run("is a pure function of the event id", func(t *testing.T) {
		if EventUID(1) != EventUID(1) {
			t.Error("same id must yield the same UID")
		}
		if EventUID(1) == EventUID(2) {
			t.Error("different ids must yield different UIDs")
		}
	})

	t.Run("matches UUIDv5 of the decimal id in the DNS namespace", func(t *testing.T) {
		// uuid5(NAMESPACE_DNS, "1")
		if got, want := EventUID(1), "b04965e6-a9bb-591f-8f8a-1adcb2c8dc39"; got != want {
			t.Errorf("EventUID(1) = %s, want %s", got, want)
		}
	})

	t.Run("is version 5", func(t *testing.T) {
		id, err := uuid.Parse(EventUID(42))
		if err != nil {
			t.Fatalf("EventUID(42) is not a UUID: %v", err)
		}
		if id.Version() != 5 {
			t.Errorf("expected version 5, got %d", id.Version())
		}
	})
}

func TestLocation(t *testing.T) {
	t.Run("renders city and country", func(t *testing.T) {
		city := ethglobal.City{Name: "Denver", Country: &ethglobal.Country{Name: "USA"}}
		if got, want := location(city), "Denver, USA"; got != want {
			t.Errorf("location() = %q, want %q", got, want)
		}
	})

	t.Run("falls back to the city name when the country is missing", func(t *testing.T) {
		city := ethglobal.City{Name: "Lisbon"}
		if got, want := location(city), "Lisbon"; got != want {
			t.Errorf("location() = %q, want %q", got, want)
		}
	})
}

func TestDescription(t *testing.T) {
	got := description(sampleEvent())
	want := "Devcon\nhackathon\n\nhttps://ethglobal.com/events/devcon"
	if got != want {
		t.Errorf("description() = %q, want %q", got, want)
	}
}

func TestAddEvent(t *testing.T) {
	t.Run("serializes a fully populated event", func(t *testing.T) {
		out := BuildCalendar([]ethglobal.Event{sampleEvent()}).Serialize()

		for _, want := range []string{
			"UID:b04965e6-a9bb-591f-8f8a-1adcb2c8dc39",
			"SUMMARY:Devcon",
			"DTSTART:20240101T000000Z",
			"DTEND:20240102T000000Z",
			"URL:https://example.com",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("serialized calendar is missing %q:\n%s", want, out)
			}
		}

		// Comma in the location must be escaped on the wire.
		if !strings.Contains(out, `Denver\, USA`) {
			t.Errorf("expected escaped location, got:\n%s", out)
		}

		// Description line breaks must serialize as literal \n sequences,
		// never as raw newlines inside the property value.
		if !strings.Contains(out, `\nhackathon`) {
			t.Errorf("expected escaped description newline, got:\n%s", out)
		}
		if strings.Contains(out, "\nhackathon") {
			t.Errorf("raw newline leaked into description:\n%s", out)
		}
	})

	t.Run("omits optional properties when absent", func(t *testing.T) {
		ev := sampleEvent()
		ev.Website = nil
		ev.City = nil

		out := BuildCalendar([]ethglobal.Event{ev}).Serialize()

		if strings.Contains(out, "LOCATION") {
			t.Errorf("expected no LOCATION property:\n%s", out)
		}
		if strings.Contains(out, "URL") {
			t.Errorf("expected no URL property:\n%s", out)
		}
	})

	t.Run("still produces the event when the country is missing", func(t *testing.T) {
		ev := sampleEvent()
		ev.City = &ethglobal.City{Name: "Lisbon"}

		out := BuildCalendar([]ethglobal.Event{ev}).Serialize()

		if !strings.Contains(out, "BEGIN:VEVENT") {
			t.Fatalf("expected a VEVENT:\n%s", out)
		}
		if !strings.Contains(out, "LOCATION:Lisbon") {
			t.Errorf("expected the city alone as location:\n%s", out)
		}
	})
}
