package events

import (
	"fmt"
	"strconv"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"shoresquad/internal/model"
)

// UID returns a stable calendar UID for an event id.
func UID(id int) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("shoresquad/events/"+strconv.Itoa(id))).String() + "@shoresquad"
}

// ExportICS renders the events as an iCalendar feed. Recurring events carry
// their RRULE so calendar clients expand them.
func ExportICS(list []model.Event, stamp time.Time) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//ShoreSquad//Beach Cleanups//EN")
	cal.SetName("ShoreSquad cleanups")

	for _, ev := range list {
		start := StartTime(ev)

		ve := cal.AddEvent(UID(ev.ID))
		ve.SetDtStampTime(stamp.UTC())
		ve.SetStartAt(start)
		ve.SetEndAt(start.Add(defaultDuration))
		ve.SetSummary(ev.Name)
		ve.SetLocation(ev.Location)
		ve.SetDescription(fmt.Sprintf("%s (%d joining)", ev.Description, ev.Participants))
		if ev.Latitude != 0 || ev.Longitude != 0 {
			ve.SetProperty(ical.ComponentPropertyGeo,
				strconv.FormatFloat(ev.Latitude, 'f', -1, 64)+";"+strconv.FormatFloat(ev.Longitude, 'f', -1, 64))
		}
		if ev.Recurrence != "" {
			ve.AddProperty(ical.ComponentPropertyRrule, ev.Recurrence)
		}
	}
	return cal.Serialize()
}
