// Package crisis detects self-harm and suicide risk in user messages.
package crisis

import (
	"strings"
)

// keywords that trigger an immediate safety response. Matching is
// case-insensitive substring, first hit wins.
var keywords = []string{
	"suicide", "suicidal", "kill myself", "end my life", "want to die",
	"self-harm", "self harm", "hurt myself", "cutting myself",
	"no reason to live", "better off dead", "ending it all",
	"overdose", "jump off", "hang myself",
}

// Detect reports whether the message matches the crisis lexicon.
func Detect(message string) bool {
	lower := strings.ToLower(message)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// Response is the fixed safety reply sent for crisis messages. The mood
// check-in is never advanced by a crisis turn.
const Response = `🆘 **I'm really concerned about what you're sharing, and I want you to know you're not alone.**

If you're in immediate danger, please reach out to one of these resources right now:

📞 **National Suicide Prevention Lifeline**: 988 (call or text)
📞 **Crisis Text Line**: Text HOME to 741741
📞 **International Association for Suicide Prevention**: https://www.iasp.info/resources/Crisis_Centres/
📞 **iCall (India)**: 9152987821
📞 **Vandrevala Foundation (India)**: 1860 2662 345

You matter, and there are people who want to help. Please reach out to a trained counselor — they're available 24/7 and everything is confidential. 💙

Would you like to talk more about what you're going through? I'm here to listen.`
