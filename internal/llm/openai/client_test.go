package openai

import (
	"testing"

	"github.com/taskforge/orchestrator/internal/llm"
)

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"missing api key", Config{Model: "gpt-4o", SystemMode: "inline"}, true},
		{"missing model", Config{APIKey: "k", SystemMode: "inline"}, true},
		{"bad system mode", Config{APIKey: "k", Model: "gpt-4o", SystemMode: "bogus"}, true},
		{"negative retries", Config{APIKey: "k", Model: "gpt-4o", SystemMode: "inline", MaxRetries: -1}, true},
		{"valid inline", Config{APIKey: "k", Model: "gpt-4o", SystemMode: "inline"}, false},
		{"valid separate", Config{APIKey: "k", Model: "gpt-4o", SystemMode: "separate"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestToOpenAIMessages_InlineVariant(t *testing.T) {
	c := &Client{config: &Config{SystemMode: "inline"}}
	out := c.toOpenAIMessages([]llm.Message{
		{Role: llm.RoleSystem, Content: "be terse"},
		{Role: llm.RoleUser, Content: "hi"},
	})

	if out[0].Role != "user" {
		t.Errorf("expected system message re-tagged as user, got role %q", out[0].Role)
	}
	if out[0].Content != "[system] be terse" {
		t.Errorf("expected marker-prefixed content, got %q", out[0].Content)
	}
	if out[1].Role != "user" || out[1].Content != "hi" {
		t.Errorf("unexpected second message: %+v", out[1])
	}
}

func TestToOpenAIMessages_SeparateVariant(t *testing.T) {
	c := &Client{config: &Config{SystemMode: "separate"}}
	out := c.toOpenAIMessages([]llm.Message{
		{Role: llm.RoleSystem, Content: "be terse"},
	})

	if out[0].Role != "system" {
		t.Errorf("expected system role preserved, got %q", out[0].Role)
	}
	if out[0].Content != "be terse" {
		t.Errorf("expected content unmodified, got %q", out[0].Content)
	}
}
