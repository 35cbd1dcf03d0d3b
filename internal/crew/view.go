package crew

import (
	"fmt"

	"shoresquad/internal/model"
)

// RemovePrompt is the question asked before a member is removed.
const RemovePrompt = "Remove this crew member?"

// ConfirmFunc answers a blocking yes/no question.
type ConfirmFunc func(prompt string) bool

// Cards builds the team grid: one card per member bound to its current
// position, then the add-member control. The owner never gets a card.
func Cards(r *Roster) []model.CrewCard {
	members := r.Members()
	cards := make([]model.CrewCard, 0, len(members)+1)
	for i, name := range members {
		cards = append(cards, model.CrewCard{
			Name:       name,
			Position:   i,
			RemovePath: fmt.Sprintf("/crew/%d/remove", i),
			Animation:  "fade-in",
		})
	}
	return append(cards, model.CrewCard{Position: len(members), AddControl: true})
}

// Remove asks confirm and, only on a yes, removes the member at pos.
// It reports whether the roster changed.
func Remove(r *Roster, pos int, confirm ConfirmFunc) bool {
	if confirm == nil || !confirm(RemovePrompt) {
		return false
	}
	return r.RemoveAt(pos)
}
