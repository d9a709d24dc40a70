package generate

import (
	"math/rand/v2"
)

// fallbackBank holds curated replies keyed by sentiment label, used when the
// generation service is unavailable. Unknown labels use the neutral bucket.
var fallbackBank = map[string][]string{
	"depressed": {
		"It sounds like you're going through a heavy time right now. Depression can make everything feel so much harder — what you're feeling is real and valid. Have you been able to talk to anyone close to you about this? Even a small connection can help. 💙",
		"I can sense the weight you're carrying. Let's try something small right now — can you name one thing, no matter how tiny, that brought you even a flicker of comfort recently? Sometimes anchoring to small moments helps. 🌿",
		"What you're experiencing sounds really tough. You don't have to face it alone. Would you like me to guide you through a gentle breathing exercise? It won't fix everything, but it can bring a moment of calm. 💜",
	},
	"anxious": {
		"Anxiety can feel like your mind is stuck on overdrive. Let's try to slow it down together — breathe in slowly for 4 counts, hold for 4, breathe out for 6. Try it right now with me. Ready? In... 2... 3... 4... Hold... 2... 3... 4... Out... 2... 3... 4... 5... 6. How did that feel? 🌊",
		"When anxiety takes over, grounding yourself in the present moment can help. Let's try the 5-4-3-2-1 technique: name 5 things you can see right now. I'll guide you through the rest after. 🍃",
		"Racing thoughts are exhausting. What's the biggest worry on your mind right now? Sometimes naming it specifically takes away some of its power. I'm here to work through it with you. 💙",
	},
	"stressed": {
		"Sounds like you have a lot on your plate. Let's break it down — what feels like the MOST pressing thing right now? Just one thing. We'll start there. 🌟",
		"When stress piles up, we forget to breathe. Literally. Try this: put one hand on your chest and one on your belly. Take 3 slow breaths, feeling your belly rise. This activates your body's calm-down system. Let me know when you've done it. 🌿",
		"Stress makes everything feel urgent and overwhelming. But here's the thing — you don't have to solve everything at once. What's ONE thing you could take off your plate today, even temporarily? ☕",
	},
	"angry": {
		"That frustration sounds really valid. Anger is usually a signal that something important to you isn't being met. What's at the core of what's bothering you? Let's dig into that. 🔥",
		"When anger is running hot, your body needs a release. Try this: clench your fists as tight as you can for 5 seconds... then release completely. Feel the difference? Do it 3 times. It gives the tension somewhere to go. 💪",
		"Something has clearly gotten under your skin, and that's okay. What would help most right now — venting about it, working toward a solution, or just being heard? I'm here for whatever you need. 💙",
	},
	"lonely": {
		"Loneliness has a way of convincing you that nobody cares — but that's the loneliness talking, not reality. Is there someone, even someone you haven't spoken to in a while, you could send a simple message to? Reconnection often starts smaller than we expect. 🌟",
		"Feeling disconnected can be incredibly painful. Let's try something — close your eyes and think of one person who has made you feel seen or valued, even once. Hold that memory for a moment. Connection lives in moments like those. 💙",
		"Your need for connection is deeply human. Even reaching out here shows courage. What kind of connection are you missing most — someone to talk to, physical presence, or feeling understood? 💜",
	},
	"happy": {
		"That's great to hear! 😊 What's been going well? Savoring positive moments actually builds resilience for tougher days — so let's soak this one in. Tell me more!",
		"I love that energy! ✨ What's contributing to this good feeling? The more specific you can name it, the easier it is to recreate it when you need a boost.",
		"That genuinely makes me happy to hear! 🌟 Try to really notice how this feels in your body right now — warmth, lightness, energy? Anchoring good feelings physically helps you access them later.",
	},
	"neutral": {
		"Hey! How are you really doing today? Sometimes we say \"fine\" out of habit, but there might be more going on below the surface. What's actually on your mind? 💙",
		"Good to have you here. What's been occupying your thoughts lately? Whether it's something big or small, I'm here to chat about it. 🌿",
		"How has your day been going? I'm curious about what's on your mind — even everyday worries deserve some attention. 💜",
	},
}

// Fallback returns a canned reply for the given sentiment label. Selection is
// uniformly random within the bucket; callers should assert membership, not
// exact text.
func Fallback(label string) string {
	bucket, ok := fallbackBank[label]
	if !ok {
		bucket = fallbackBank["neutral"]
	}
	return bucket[rand.IntN(len(bucket))]
}

// FallbackBucket exposes a bucket's candidate texts, mainly for tests.
func FallbackBucket(label string) []string {
	if bucket, ok := fallbackBank[label]; ok {
		return bucket
	}
	return fallbackBank["neutral"]
}
