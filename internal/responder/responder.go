// Package responder produces the simulated assistant's replies and
// schedules them after a short random delay.
package responder

import (
	"math/rand/v2"
	"strings"
)

// Canned replies.
const (
	ReplyGreeting = "Hello! How can I assist you today?"
	ReplyHelp     = "I'm here to help. What do you need assistance with?"
	ReplyThanks   = "You're welcome! Is there anything else you'd like to know?"
	ReplyGoodbye  = "Goodbye! Have a great day!"
	ReplyWeather  = "I'm sorry, I don't have access to real-time weather data. You might want to check a weather service for that information."
	ReplyName     = "I'm Gemini, an AI assistant designed to help you with various tasks and answer your questions."
	ReplyImage    = "I can see the image you shared. It looks interesting! What would you like to know about it?"
)

// GenericReplies are used when no keyword matches.
var GenericReplies = []string{
	"That's an interesting point. Can you tell me more?",
	"I understand. How can I help you further with this?",
	"Thanks for sharing that information. What would you like to do next?",
	"I see what you mean. Is there a specific aspect you'd like to explore?",
	"That's a good question. Let me think about how to best address it.",
}

// rule maps any of its keywords to a reply. Rules are tried in order.
type rule struct {
	keywords []string
	reply    string
}

// Keywords match as plain substrings of the lowercased message, so "this"
// matches "hi".
var rules = []rule{
	{[]string{"hello", "hi"}, ReplyGreeting},
	{[]string{"help"}, ReplyHelp},
	{[]string{"thank"}, ReplyThanks},
	{[]string{"bye", "goodbye"}, ReplyGoodbye},
	{[]string{"weather"}, ReplyWeather},
	{[]string{"name"}, ReplyName},
}

// Source is the randomness used for generic replies and delays.
// *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	IntN(n int) int
	Int64N(n int64) int64
}

type globalSource struct{}

func (globalSource) IntN(n int) int       { return rand.IntN(n) }
func (globalSource) Int64N(n int64) int64 { return rand.Int64N(n) }

// Responder picks a canned reply for a user message.
type Responder struct {
	rand Source
}

// New creates a Responder. A nil src uses the process-wide generator.
func New(src Source) *Responder {
	if src == nil {
		src = globalSource{}
	}
	return &Responder{rand: src}
}

// Reply returns the reply to content. hasImage is consulted only when no
// keyword matches.
func (r *Responder) Reply(content string, hasImage bool) string {
	lower := strings.ToLower(content)
	for _, rl := range rules {
		for _, kw := range rl.keywords {
			if strings.Contains(lower, kw) {
				return rl.reply
			}
		}
	}
	if hasImage {
		return ReplyImage
	}
	return GenericReplies[r.rand.IntN(len(GenericReplies))]
}
