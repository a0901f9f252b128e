// Package export renders the trip list as an iCalendar feed so it can be
// subscribed to from another calendar client.
package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/emersion/go-ical"

	"yearcal/internal/calendar"
	"yearcal/internal/trips"
)

const (
	prodID   = "-//yearcal//Trips//EN"
	calName  = "Trips"
	uidHost  = "yearcal"
	propCalN = "X-WR-CALNAME"
	propCats = "CATEGORIES"
)

// TripsCalendar encodes trips as all-day VEVENTs. stamp is written as
// DTSTAMP on every event.
func TripsCalendar(list []trips.Trip, stamp time.Time) ([]byte, error) {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, prodID)
	cal.Props.SetText(propCalN, calName)
	cal.Props.SetText(ical.PropCalendarScale, "GREGORIAN")

	stampProp := ical.NewProp(ical.PropDateTimeStamp)
	stampProp.SetDateTime(stamp.UTC())

	for _, t := range list {
		ev, err := tripEvent(t)
		if err != nil {
			return nil, fmt.Errorf("export: trip %s: %w", t.ID, err)
		}
		ev.Props.Set(stampProp)
		cal.Children = append(cal.Children, ev.Component)
	}

	if len(cal.Children) == 0 {
		// The encoder refuses a calendar without components.
		return []byte("BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + prodID + "\r\nEND:VCALENDAR\r\n"), nil
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("export: encode: %w", err)
	}
	return buf.Bytes(), nil
}

func tripEvent(t trips.Trip) (*ical.Event, error) {
	start, err := calendar.ParseDateKey(t.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := calendar.ParseDateKey(t.EndDate)
	if err != nil {
		return nil, err
	}

	ev := ical.NewEvent()
	ev.Props.SetText(ical.PropUID, t.ID+"@"+uidHost)
	ev.Props.SetText(ical.PropSummary, t.DisplayName)
	if d := description(t); d != "" {
		ev.Props.SetText(ical.PropDescription, d)
	}
	if t.HTMLLink != "" {
		ev.Props.SetText(ical.PropURL, t.HTMLLink)
	}
	ev.Props.SetText(propCats, strings.ToUpper(string(t.Status)))
	if t.IsTentative {
		ev.Props.SetText(ical.PropStatus, "TENTATIVE")
	} else {
		ev.Props.SetText(ical.PropStatus, "CONFIRMED")
	}

	dtStart := ical.NewProp(ical.PropDateTimeStart)
	dtStart.SetDate(start)
	ev.Props.Set(dtStart)

	dtEnd := ical.NewProp(ical.PropDateTimeEnd)
	dtEnd.SetDate(end)
	ev.Props.Set(dtEnd)

	return ev, nil
}

// description summarises what is known about the trip in plain text.
func description(t trips.Trip) string {
	var lines []string
	if t.Badge != "" {
		lines = append(lines, t.Badge)
	}
	if it := t.Itinerary; it != nil {
		if it.Confirmation != "" {
			lines = append(lines, "Confirmation: "+it.Confirmation)
		}
		for _, f := range it.Flights() {
			line := f.Short()
			if f.Label != "" {
				line = f.Label + ": " + line
			}
			if f.Departure != nil && f.Arrival != nil {
				line += " " + f.Departure.Code + " → " + f.Arrival.Code
			}
			lines = append(lines, strings.TrimSpace(line))
		}
		if it.Hotel != "" {
			lines = append(lines, "Hotel: "+strings.ReplaceAll(it.Hotel, "\n", ", "))
		}
		if it.CarRental != "" {
			lines = append(lines, "Car Rental: "+strings.ReplaceAll(it.CarRental, "\n", ", "))
		}
	}
	if t.Preview != "" {
		lines = append(lines, t.Preview)
	}
	return strings.Join(lines, "\n")
}
