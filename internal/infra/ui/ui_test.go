// Where: internal/infra/ui/ui_test.go
// What: Tests for console rendering.
// Why: Plans and previews are read by humans and grepped by scripts.
package ui

import (
	"bytes"
	"strings"
	"testing"
)

func TestEnvBlockSortsKeys(t *testing.T) {
	var out bytes.Buffer
	NewUI(&out, false).Env("Environment", map[string]string{"MODEL_ID": "m", "API_PORT": "8080"})

	text := out.String()
	if strings.Index(text, "API_PORT") > strings.Index(text, "MODEL_ID") {
		t.Fatalf("expected sorted keys, got %q", text)
	}
	if !strings.Contains(text, "Environment") {
		t.Fatalf("missing title: %q", text)
	}
}

func TestWarnWithoutEmojiUsesTextPrefix(t *testing.T) {
	var out bytes.Buffer
	NewUI(&out, false).Warn("careful")
	if out.String() != "[warn] careful\n" {
		t.Fatalf("unexpected output: %q", out.String())
	}
}

func TestCommandJoinsArgs(t *testing.T) {
	var out bytes.Buffer
	New(&out).Command([]string{"vllm", "serve", "m"})
	if !strings.Contains(out.String(), "vllm \\\n     serve") {
		t.Fatalf("unexpected output: %q", out.String())
	}
}
