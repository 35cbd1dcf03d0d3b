package events

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"shoresquad/internal/config"
	appLog "shoresquad/internal/log"
	"shoresquad/internal/model"
)

// maxFeedBytes bounds a single calendar download.
const maxFeedBytes = 4 << 20

// ownUIDSuffix marks events exported by ExportICS; re-importing our own
// feed would duplicate every event.
const ownUIDSuffix = "@shoresquad"

// FetchFeed reads one calendar. http(s) URLs are downloaded; anything else
// is treated as a local file path.
func FetchFeed(ctx context.Context, client *http.Client, src config.FeedConfig) ([]byte, error) {
	if src.URL == "" {
		return nil, errors.New("source URL is empty")
	}
	if !strings.HasPrefix(src.URL, "http://") && !strings.HasPrefix(src.URL, "https://") {
		return os.ReadFile(src.URL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/calendar")

	appLog.Info("feed fetch start", "id", src.ID, "url", redactURL(src.URL))

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed %s: %s", src.ID, resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes))
}

// ParseFeed converts the VEVENTs of one calendar into events. Ids are
// assigned from nextID upward in feed order. Broken VEVENTs, recurrence
// overrides and events exported by this app are skipped.
func ParseFeed(src config.FeedConfig, body []byte, loc *time.Location, nextID int) ([]model.Event, error) {
	if len(body) == 0 {
		return nil, errors.New("empty ICS body")
	}
	if loc == nil {
		loc = time.Local
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	out := make([]model.Event, 0)
	for _, ve := range cal.Events() {
		uid, ev, perr := parseVEvent(ve, loc)
		if perr != nil {
			appLog.Warn("feed vevent skipped", "id", src.ID, "reason", perr.Error())
			continue
		}
		if seen[uid] || strings.HasSuffix(uid, ownUIDSuffix) {
			continue
		}
		seen[uid] = true
		ev.ID = nextID
		nextID++
		out = append(out, ev)
	}

	appLog.Info("feed parse completed", "id", src.ID, "event_count", len(out))
	return out, nil
}

func parseVEvent(ve *ical.VEvent, loc *time.Location) (string, model.Event, error) {
	var ev model.Event

	uidProp := ve.GetProperty(ical.ComponentPropertyUniqueId)
	if uidProp == nil || uidProp.Value == "" {
		return "", ev, errors.New("missing UID")
	}
	uid := uidProp.Value

	if ve.GetProperty("RECURRENCE-ID") != nil {
		return uid, ev, errors.New("recurrence override")
	}

	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		ev.Name = strings.TrimSpace(p.Value)
	}
	if ev.Name == "" {
		return uid, ev, errors.New("missing SUMMARY")
	}
	if p := ve.GetProperty(ical.ComponentPropertyDescription); p != nil {
		ev.Description = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyLocation); p != nil {
		ev.Location = p.Value
	}

	dtStart := ve.GetProperty(ical.ComponentPropertyDtStart)
	if dtStart == nil {
		return uid, ev, errors.New("missing DTSTART")
	}
	if isAllDay(dtStart) {
		d, err := ve.GetAllDayStartAt()
		if err != nil {
			return uid, ev, err
		}
		ev.Date = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
		ev.Time = "All day"
	} else {
		start, err := ve.GetStartAt()
		if err != nil {
			return uid, ev, err
		}
		start = start.In(loc)
		ev.Date = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc)
		ev.Time = start.Format("03:04 PM")
	}

	if p := ve.GetProperty(ical.ComponentPropertyGeo); p != nil {
		ev.Latitude, ev.Longitude = parseGeo(p.Value)
	}
	if p := ve.GetProperty(ical.ComponentPropertyRrule); p != nil {
		ev.Recurrence = strings.TrimSpace(p.Value)
		if _, err := parseRule(ev); err != nil {
			appLog.Warn("feed recurrence dropped", "uid", uid, "reason", err.Error())
			ev.Recurrence = ""
		}
	}
	return uid, ev, nil
}

// isAllDay reports VALUE=DATE or a date-only DTSTART.
func isAllDay(p *ical.IANAProperty) bool {
	if vs, ok := p.ICalParameters["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
		return true
	}
	return !strings.Contains(p.Value, "T")
}

func parseGeo(v string) (float64, float64) {
	lat, lon, ok := strings.Cut(v, ";")
	if !ok {
		return 0, 0
	}
	la, err1 := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	lo, err2 := strconv.ParseFloat(strings.TrimSpace(lon), 64)
	if err1 != nil || err2 != nil {
		return 0, 0
	}
	return la, lo
}

// LoadFeeds fetches and parses every feed. A failing feed is logged and
// skipped; the rest still load.
func LoadFeeds(ctx context.Context, client *http.Client, feeds []config.FeedConfig, loc *time.Location, nextID int) []model.Event {
	var out []model.Event
	for _, src := range feeds {
		body, err := FetchFeed(ctx, client, src)
		if err != nil {
			appLog.Error("feed fetch failed", err, "id", src.ID, "url", redactURL(src.URL))
			continue
		}
		list, err := ParseFeed(src, body, loc, nextID)
		if err != nil {
			appLog.Error("feed parse failed", err, "id", src.ID, "url", redactURL(src.URL))
			continue
		}
		nextID += len(list)
		out = append(out, list...)
	}
	return out
}

// NextID returns one past the largest id in list.
func NextID(list []model.Event) int {
	next := 1
	for _, ev := range list {
		next = max(next, ev.ID+1)
	}
	return next
}

// redactURL hides the path and query of a feed URL, which often carry a
// private token, for logging.
func redactURL(u string) string {
	scheme, rest, ok := strings.Cut(u, "://")
	if !ok {
		return "file://...(redacted)"
	}
	host, _, _ := strings.Cut(rest, "/")
	return scheme + "://" + host + "/...(redacted)"
}
