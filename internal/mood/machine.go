// Package mood implements the scripted mood check-in that opens every new
// conversation. The sequence moves strictly forward one stage per non-crisis
// user turn and hands off to freeform generation once assessed.
package mood

import (
	"fmt"
	"strings"

	"github.com/mindfulchat/mindfulchat/internal/model"
)

// Reply is the assistant output produced by a check-in transition.
type Reply struct {
	Text string
	// QuickReplies are advisory chips; typed free text is treated identically.
	QuickReplies []string
	// FollowUp marks that another scripted question is coming.
	FollowUp bool
}

// GreetingQuestion is the opening check-in question for a fresh conversation.
const GreetingQuestion = "Hi, I'm MindfulChat. 💙 Before we dive in, I'd like to check in with you. How are you feeling today?"

// GreetingQuickReplies are the chips offered with the greeting question.
var GreetingQuickReplies = []string{
	"😊 Pretty good",
	"😔 Sad or down",
	"😰 Anxious",
	"😤 Stressed",
	"😡 Frustrated",
	"😶 Numb or empty",
}

var durationQuickReplies = []string{
	"Just today",
	"A few days",
	"A few weeks",
	"A month or more",
	"As long as I can remember",
}

var impactQuickReplies = []string{
	"Not much",
	"Somewhat",
	"A lot",
	"It's taking over",
}

var supportQuickReplies = []string{
	"Yes, friends or family",
	"I have a therapist",
	"Not really",
	"I'd rather not say",
}

// Greeting returns the reply that seeds a freshly started conversation.
func Greeting() Reply {
	return Reply{
		Text:         GreetingQuestion,
		QuickReplies: GreetingQuickReplies,
		FollowUp:     true,
	}
}

// Advance consumes the user's answer for the current stage, returning the new
// state and the assistant reply. The input state is never modified. Calling
// Advance on an assessed state is a bug in the caller; it returns the state
// unchanged with an empty reply.
func Advance(state model.MoodState, answer string) (model.MoodState, Reply) {
	answer = strings.TrimSpace(answer)

	switch state.Stage {
	case model.StageGreeting:
		state.Mood = answer
		state.Stage = model.StageAwaitingDuration
		return state, Reply{
			Text:         "Thanks for telling me. How long have you been feeling this way?",
			QuickReplies: durationQuickReplies,
			FollowUp:     true,
		}

	case model.StageAwaitingDuration:
		state.Duration = answer
		state.Stage = model.StageAwaitingImpact
		return state, Reply{
			Text:         "That helps me understand. How much is this affecting your daily life — things like sleep, work, or time with people?",
			QuickReplies: impactQuickReplies,
			FollowUp:     true,
		}

	case model.StageAwaitingImpact:
		state.Impact = answer
		state.Stage = model.StageAwaitingSupport
		return state, Reply{
			Text:         "One last question. Do you have anyone you can talk to about this — friends, family, or a professional?",
			QuickReplies: supportQuickReplies,
			FollowUp:     true,
		}

	case model.StageAwaitingSupport:
		state.Support = answer
		state.Stage = model.StageAssessed
		return state, Reply{Text: summarize(state)}
	}

	return state, Reply{}
}

// summarize builds the acknowledgment that closes the check-in, interpolating
// the captured answers with phrasing conditioned on the support answer.
func summarize(state model.MoodState) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Thank you for checking in with me. Here's what I'm hearing: you've been feeling %s for %s, and it's affecting your daily life %s.",
		orUnshared(state.Mood), orUnshared(state.Duration), impactPhrase(state.Impact))

	support := strings.ToLower(state.Support)
	switch {
	case strings.Contains(support, "therapist") || strings.Contains(support, "professional"):
		b.WriteString(" It's really good that you're already working with a therapist — I can be a space between sessions whenever you need it. 💙")
	case strings.Contains(support, "not really") || strings.Contains(support, "no one") || strings.Contains(support, "nobody") || support == "no":
		b.WriteString(" It sounds like you don't have much support around you right now, and I want you to know this is a safe space — you can bring anything here. 💙")
	default:
		b.WriteString(" I'm glad you have people around you — and I'm here too, any time. 💙")
	}

	b.WriteString(" What would you like to talk about first?")
	return b.String()
}

func orUnshared(answer string) string {
	if answer == "" {
		return "something you'd rather not name"
	}
	return answer
}

func impactPhrase(impact string) string {
	if impact == "" {
		return "in ways you haven't shared yet"
	}
	return fmt.Sprintf("to the degree of %q", impact)
}
