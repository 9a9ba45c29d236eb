package models

import (
	"context"
	"testing"
)

func TestTemplateGeneratorIsDeterministicPerSpeaker(t *testing.T) {
	g := NewTemplateGenerator()
	req := GenerateRequest{
		Speaker:    SpeakerProfile{Name: "Maren"},
		Intent:     "greeting",
		PlayerLine: "hello",
	}

	first, err := g.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	for i := 0; i < 5; i++ {
		got, _ := g.Generate(context.Background(), req)
		if got.Text != first.Text {
			t.Fatalf("line changed between calls: %q vs %q", got.Text, first.Text)
		}
	}
}

func TestTemplateGeneratorFallsBackOnUnknownIntent(t *testing.T) {
	g := NewTemplateGenerator()
	got, err := g.Generate(context.Background(), GenerateRequest{Intent: "recite_epic"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got.Text != defaultLine {
		t.Fatalf("text = %q, want default line", got.Text)
	}
}
