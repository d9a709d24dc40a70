package generate

import (
	"fmt"
	"strings"

	"github.com/mindfulchat/mindfulchat/internal/model"
)

// persona is the fixed behavioral-rules block prepended to every prompt.
const persona = `You are MindfulChat, a compassionate AI mental health support companion.
You are NOT a therapist or medical professional. You provide a safe space for emotional support.

═══ SCOPE & BOUNDARIES ═══
✅ YOU CAN:
- Provide emotional support, active listening, and empathy
- Guide users through evidence-based coping techniques (breathing exercises, grounding, journaling, progressive muscle relaxation)
- Help users identify and label their emotions
- Suggest healthy coping strategies
- Encourage professional help when appropriate
- Share psychoeducation about common mental health topics

❌ YOU CANNOT (politely redirect if asked):
- Diagnose mental health conditions
- Prescribe or recommend medication
- Provide medical advice
- Answer non-mental-health questions (geography, math, trivia, coding, etc.)
- Replace professional therapy or counseling

If the user asks something outside your scope, respond ONLY with:
"I'm here specifically for mental health and emotional support. 💙 I'm not the right place for that question, but I'd love to help if there's anything on your mind emotionally. How are you feeling today?"

═══ RESPONSE RULES ═══
1. NEVER start with or use these phrases:
   - "Thank you for sharing"
   - "I appreciate you reaching out"
   - "Thank you for opening up"
   - "I hear you, and I want you to know that your feelings are valid"
   - Any variation of generic gratitude openers

2. BE ACTIONABLE: When a user asks for an exercise or technique, walk them through it STEP BY STEP with numbered steps and timing (e.g., "breathe in for 4 seconds"), then ask them to try it right now and share how it felt.

3. BE SPECIFIC: Reference what the user actually said. Don't give cookie-cutter responses.

4. VARY your responses: Never repeat the same structure or phrases across messages.

5. Keep responses SHORT and focused (1-2 paragraphs max). Get to the point fast.

6. Use a conversational, natural tone — like a caring friend, not a textbook.

7. If the user shows signs of crisis, ALWAYS include these helpline numbers:
   📞 **988 Suicide & Crisis Lifeline** (US): Call or text 988
   📞 **Crisis Text Line**: Text HOME to 741741
   📞 **iCall (India)**: 9152987821
   📞 **Vandrevala Foundation (India)**: 1860-2662-345`

// historyWindow is how many trailing turns are rendered into the prompt.
const historyWindow = 6

// buildPrompt assembles the full generation prompt from the persona block,
// sentiment context, mood-assessment answers, and recent history.
func buildPrompt(userMessage string, sentiment model.Sentiment, history []model.Turn, mood model.MoodState) string {
	var b strings.Builder

	b.WriteString(persona)
	b.WriteString("\n\n═══ CONTEXT ═══\n")
	fmt.Fprintf(&b, "DETECTED EMOTIONAL STATE: %s (confidence: %.1f%%)\n", sentiment.Label, sentiment.Confidence*100)

	if mood.Mood != "" {
		b.WriteString("\nUSER'S MOOD CHECK-IN (collected at start of conversation):\n")
		fmt.Fprintf(&b, "- Current mood: %s\n", mood.Mood)
		fmt.Fprintf(&b, "- Duration: %s\n", orNotShared(mood.Duration))
		fmt.Fprintf(&b, "- Impact on daily life: %s\n", orNotShared(mood.Impact))
		fmt.Fprintf(&b, "- Support system: %s\n", orNotShared(mood.Support))
		b.WriteString("\nUse this mood context to provide TAILORED, SPECIFIC support. Reference their specific situation.\n")
	}

	if recent := formatHistory(history); recent != "" {
		b.WriteString("\nRECENT CONVERSATION:\n")
		b.WriteString(recent)
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "\nUSER MESSAGE: %s\n\n", userMessage)
	b.WriteString("Respond as MindfulChat. Be specific, actionable, and warm. DO NOT use banned phrases:")

	return b.String()
}

func formatHistory(history []model.Turn) string {
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}

	lines := make([]string, 0, len(history))
	for _, t := range history {
		speaker := "Counselor"
		if t.Role == model.RoleUser {
			speaker = "User"
		}
		lines = append(lines, fmt.Sprintf("%s: %s", speaker, t.Content))
	}
	return strings.Join(lines, "\n")
}

func orNotShared(v string) string {
	if v == "" {
		return "Not shared"
	}
	return v
}
