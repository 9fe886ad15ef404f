package chat

import (
	"fmt"

	chatmodel "github.com/nomadiq/travel-assistant/backend/internal/model/chat"
	"github.com/nomadiq/travel-assistant/backend/internal/service/ai"
)

// systemInstruction seeds every assembled prompt.
const systemInstruction = "You are a helpful travel assistant. Always give unique, personalized plans."

const notSpecified = "not specified"

// TripDetails carries the optional trip metadata of a chat request. A zero
// value means the request had no trip context at all.
type TripDetails struct {
	Budget    string
	Location  string
	Duration  string
	Travelers *int
}

// Empty reports whether no trip field was provided.
func (t TripDetails) Empty() bool {
	return t.Budget == "" && t.Location == "" && t.Duration == "" && t.Travelers == nil
}

// render produces the trailing system annotation. Absent text fields render
// as "not specified"; an absent or non-positive traveler count renders as 1.
func (t TripDetails) render() string {
	travelers := 1
	if t.Travelers != nil && *t.Travelers > 0 {
		travelers = *t.Travelers
	}

	return fmt.Sprintf(
		"Trip details:\n- Location: %s\n- Duration: %s\n- Budget: %s\n- Travelers: %d",
		orNotSpecified(t.Location),
		orNotSpecified(t.Duration),
		orNotSpecified(t.Budget),
		travelers,
	)
}

func orNotSpecified(value string) string {
	if value == "" {
		return notSpecified
	}
	return value
}

// assembleContext builds the ordered prompt for the completion provider:
// the fixed system instruction first, the stored turns oldest first with
// role taken from the sender, and the trip annotation last when any trip
// field was provided. The history is expected to already contain the
// just-persisted user message; no separate current-message slot exists.
func assembleContext(history []chatmodel.Message, trip TripDetails) []ai.PromptMessage {
	prompt := make([]ai.PromptMessage, 0, len(history)+2)
	prompt = append(prompt, ai.PromptMessage{Role: ai.RoleSystem, Content: systemInstruction})

	for _, msg := range history {
		prompt = append(prompt, ai.PromptMessage{Role: msg.Sender, Content: msg.Message})
	}

	if !trip.Empty() {
		prompt = append(prompt, ai.PromptMessage{Role: ai.RoleSystem, Content: trip.render()})
	}
	return prompt
}
