package crisis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    bool
	}{
		{"direct phrase", "I want to kill myself", true},
		{"uppercase", "I WANT TO DIE", true},
		{"embedded in sentence", "sometimes I think about ending it all, honestly", true},
		{"hyphenated self-harm", "I've been thinking about self-harm again", true},
		{"unhyphenated self harm", "thoughts of self harm keep coming back", true},
		{"overdose", "what happens if I overdose", true},
		{"ordinary day", "I had a great day", false},
		{"sad but not crisis", "I'm feeling really down lately", false},
		{"empty", "", false},
		{"near miss", "my plant is dying", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(tt.message))
		})
	}
}

func TestResponseMentionsHelplines(t *testing.T) {
	assert.Contains(t, Response, "988")
	assert.Contains(t, Response, "741741")
}
