// Package models provides the model-provider adapters behind dialogue
// generation and memory embedding.
package models

import "context"

// SpeakerProfile is the slice of an NPC the generator is allowed to see.
type SpeakerProfile struct {
	Name         string
	Archetype    string
	Mood         string
	Relationship string
	// MemoryHighlights are short recalled-memory summaries, most relevant
	// first.
	MemoryHighlights []string
}

// GenerateRequest asks for one in-character dialogue line.
type GenerateRequest struct {
	Speaker SpeakerProfile
	// PlayerLine is the utterance being answered.
	PlayerLine string
	// Intent is the classified intent tag ("greeting", "ask_rumor", ...).
	Intent string
	// Topic, when known, narrows what the line should address.
	Topic string
}

// Reply is a structured model response.
type Reply struct {
	Text string `json:"text" jsonschema:"the NPC's spoken line"`
	// Tone annotates delivery for the animation layer.
	Tone string `json:"tone,omitempty" jsonschema:"one-word delivery tone"`
	// Topic is what the line is about, for conversation tracking.
	Topic string `json:"topic,omitempty" jsonschema:"one-phrase topic"`
}

// TextGenerator produces one dialogue reply. Implementations must honor ctx
// cancellation; callers race them against a deadline and fall back to
// templates.
type TextGenerator interface {
	Generate(ctx context.Context, req GenerateRequest) (Reply, error)
}

// Embedder converts text to vectors for similarity retrieval.
type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
	EmbedDocument(ctx context.Context, text string) ([]float32, error)
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
}
