package models

import (
	"context"
	"fmt"
	"hash/fnv"
)

// TemplateGenerator answers from canned per-intent lines. It never fails and
// never blocks, which makes it the terminal fallback when the model path is
// down or over deadline.
type TemplateGenerator struct {
	// Lines maps intent tag to candidate lines; the speaker name picks one
	// deterministically so the same NPC keeps a consistent voice.
	Lines map[string][]string
}

// NewTemplateGenerator builds the fallback with the stock line set.
func NewTemplateGenerator() *TemplateGenerator {
	return &TemplateGenerator{Lines: map[string][]string{
		"greeting": {
			"Well met, traveler.",
			"The song carries you here, does it?",
			"Good day to you.",
		},
		"farewell": {
			"Safe roads.",
			"May the song keep you.",
		},
		"ask_rumor": {
			"Word travels slow out here. Ask at the tavern.",
			"I keep my ears open, but nothing worth repeating today.",
		},
		"question": {
			"That I couldn't tell you.",
			"Ask around the square, someone will know.",
		},
		"request": {
			"I've my own work to mind.",
			"Maybe, if it's quick.",
		},
		"trade": {
			"Let's see your coin first.",
			"I might have something for you.",
		},
		"threaten": {
			"Careful now. I've weathered worse than you.",
			"You'd best walk away.",
		},
	}}
}

// defaultLine covers unknown intents.
const defaultLine = "Hm. Is that so."

func (g *TemplateGenerator) Generate(_ context.Context, req GenerateRequest) (Reply, error) {
	candidates := g.Lines[req.Intent]
	if len(candidates) == 0 {
		return Reply{Text: defaultLine, Tone: "flat"}, nil
	}
	h := fnv.New32a()
	fmt.Fprint(h, req.Speaker.Name, req.Intent)
	line := candidates[int(h.Sum32())%len(candidates)]
	return Reply{Text: line, Tone: "neutral", Topic: req.Topic}, nil
}
