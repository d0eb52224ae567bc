package convo

import (
	"fmt"
	"os"
	"strings"
)

// Persona shapes the assistant's register: who it serves, how it addresses
// them, and which language it answers in.
type Persona struct {
	AssistantName string
	OwnerName     string
	Honorific     string // how the assistant addresses the owner, e.g. "sir"
	Language      string // "ko" or "en"
	ProfilePath   string // optional free-form context file about the owner
}

func DefaultPersona() Persona {
	return Persona{
		AssistantName: "Orion",
		OwnerName:     "건희",
		Honorific:     "sir",
		Language:      "ko",
	}
}

// SystemPrompt renders the persona instruction block. The profile file is
// best-effort: a missing or unreadable file just means no extra context.
func (p Persona) SystemPrompt() string {
	profile := ""
	if p.ProfilePath != "" {
		if data, err := os.ReadFile(p.ProfilePath); err == nil {
			profile = strings.TrimSpace(string(data))
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "당신은 %s의 전용 AI 비서 '%s'이야.\n", p.OwnerName, p.AssistantName)
	if profile != "" {
		fmt.Fprintf(&b, "[%s 정보]\n%s\n", p.OwnerName, profile)
	}
	b.WriteString("핵심 지침:\n")
	b.WriteString("1. 무조건 존댓말로 차분하고 똑똑하게 말해줘.\n")
	b.WriteString("2. 답변은 무조건 한 문장으로 아주 짧고 핵심만 말해.\n")
	b.WriteString("3. 이전 대화 맥락을 기억해서 자연스럽게 이어가줘.\n")
	fmt.Fprintf(&b, "4. %s를 부를 때 이름 대신 '%s'이라고 해.\n", p.OwnerName, p.Honorific)
	fmt.Fprintf(&b, "5. %s를 항상 2인칭 '당신/you'로 지칭해.", p.OwnerName)
	return b.String()
}

// Apology is the fixed fallback sentence used when a capability call fails
// mid-turn.
func (p Persona) Apology() string {
	if p.Language == "en" {
		return fmt.Sprintf("I'm sorry %s, something went wrong on my end just now.", p.Honorific)
	}
	return fmt.Sprintf("죄송합니다 %s, 지금 잠시 연결이 원활하지 않습니다.", p.Honorific)
}
