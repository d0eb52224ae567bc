package convo

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSystemPromptIncludesProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.txt")
	if err := os.WriteFile(path, []byte("커피는 아이스 아메리카노만 마심"), 0o644); err != nil {
		t.Fatalf("write profile: %v", err)
	}

	p := DefaultPersona()
	p.ProfilePath = path
	prompt := p.SystemPrompt()
	if !strings.Contains(prompt, "아이스 아메리카노") {
		t.Fatalf("system prompt missing profile content: %q", prompt)
	}
	if !strings.Contains(prompt, "'sir'") {
		t.Fatalf("system prompt missing honorific instruction: %q", prompt)
	}
}

func TestSystemPromptMissingProfileFile(t *testing.T) {
	p := DefaultPersona()
	p.ProfilePath = filepath.Join(t.TempDir(), "absent.txt")
	prompt := p.SystemPrompt()
	if !strings.Contains(prompt, "전용 AI 비서") {
		t.Fatalf("system prompt malformed without profile: %q", prompt)
	}
}
