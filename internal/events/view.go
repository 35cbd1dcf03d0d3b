package events

import (
	"context"
	"fmt"
	"strconv"
	"time"

	appLog "shoresquad/internal/log"
	"shoresquad/internal/model"
)

// upcomingShown is how many future dates a recurring event card lists.
const upcomingShown = 3

// DateLabel formats a date like the cards do: "Mon, Dec 15".
func DateLabel(t time.Time) string {
	return t.Format("Mon, Jan 2")
}

// Cards shapes events into card view models in store order.
func Cards(list []model.Event, now time.Time) []model.EventCard {
	cards := make([]model.EventCard, 0, len(list))
	for _, ev := range list {
		card := model.EventCard{
			ID:           ev.ID,
			Name:         ev.Name,
			Header:       DateLabel(ev.Date) + " at " + ev.Time,
			Location:     ev.Location,
			Participants: strconv.Itoa(ev.Participants) + " joining",
			Description:  ev.Description,
			JoinPath:     fmt.Sprintf("/events/%d/join", ev.ID),
			SharePath:    fmt.Sprintf("/api/events/%d/share", ev.ID),
			Animation:    "fade-in",
		}
		if ev.Recurrence != "" {
			next, err := NextOccurrences(ev, now, upcomingShown)
			if err != nil {
				appLog.Error("events: recurrence expansion failed", err, "id", ev.ID)
			}
			for _, t := range next {
				card.NextDates = append(card.NextDates, DateLabel(t))
			}
		}
		cards = append(cards, card)
	}
	return cards
}

// JoinMessage is the confirmation shown after joining an event.
func JoinMessage(ev model.Event) string {
	return fmt.Sprintf("Great! You're joining \"%s\" on %s!\n\nCheck your inbox for details.", ev.Name, DateLabel(ev.Date))
}

// NativeSharer is a platform share capability. A nil NativeSharer means
// none is available.
type NativeSharer interface {
	Share(ctx context.Context, title, text, url string) error
}

const shareTitle = "ShoreSquad Event"

// Share offers the event through the native sharer when possible and
// otherwise returns the local share prompt. It never fails.
func Share(ctx context.Context, ev model.Event, found bool, pageURL string, native NativeSharer) model.ShareResult {
	if !found {
		return model.ShareResult{Prompt: "Share this cleanup with your crew! 🌊"}
	}
	fallback := model.ShareResult{Prompt: fmt.Sprintf("Share \"%s\" with your crew! 🌊", ev.Name)}
	if native == nil {
		return fallback
	}

	text := fmt.Sprintf("Join me for %s!", ev.Name)
	if err := native.Share(ctx, shareTitle, text, pageURL); err != nil {
		appLog.Info("share cancelled", "id", ev.ID, "reason", err.Error())
		return fallback
	}
	return model.ShareResult{
		Native: true,
		Title:  shareTitle,
		Text:   text,
		URL:    pageURL,
	}
}
