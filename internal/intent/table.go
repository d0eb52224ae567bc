package intent

import (
	"encoding/json"
	"fmt"
	"os"
)

// Table holds the keyword lists the router matches against, in routing
// priority order. Lists are bilingual: speech-to-text may return either the
// Korean original or an English rendering of the same utterance.
type Table struct {
	Exit           []string `json:"exit"`
	CancelDelivery []string `json:"cancel_delivery"`
	Delivery       []string `json:"delivery"`
	PlayPrefixes   []string `json:"play_prefixes"`
	StopMusic      []string `json:"stop_music"`
	VolumeUp       []string `json:"volume_up"`
	VolumeDown     []string `json:"volume_down"`
	Calendar       []string `json:"calendar"`
}

// DefaultTable returns the built-in keyword lists.
func DefaultTable() Table {
	return Table{
		Exit: []string{"goodbye", "shut down", "turn off", "종료"},
		CancelDelivery: []string{
			"cancel order", "cancel delivery", "cancel the order",
			"주문 취소", "배달 취소",
		},
		Delivery: []string{
			"시켜", "주문", "배달", "롯데리아", "버거", "피자", "치킨",
			"order", "deliver", "delivery", "lotteria",
			"burger", "pizza", "chicken", "send me", "get me",
			"bulgogi", "korean beef", "shrimp", "cheese stick",
		},
		PlayPrefixes: []string{"play ", "플레이 ", "틀어줘 ", "틀어 "},
		StopMusic:    []string{"stop music", "stop song", "음악 중지", "음악 꺼"},
		VolumeUp:     []string{"volume up", "볼륨 올려", "볼륨 업"},
		VolumeDown:   []string{"volume down", "볼륨 내려", "볼륨 다운"},
		// Bare day words ("오늘", "today", ...) are deliberately absent:
		// they select the period inside the calendar adapter but must not
		// pull ordinary chat ("오늘 기분 어때") into the calendar path.
		Calendar: []string{
			"schedule", "calendar", "일정", "스케줄", "약속", "미팅", "meeting",
			"what do i have", "what's on", "events", "appointment", "수업",
		},
	}
}

// LoadTable reads keyword overrides from a JSON file. A missing file yields
// the defaults; lists left empty in the file also fall back to the
// defaults, so a partial override only replaces what it names.
func LoadTable(path string) (Table, error) {
	def := DefaultTable()
	if path == "" {
		return def, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return def, nil
	}
	if err != nil {
		return Table{}, fmt.Errorf("read intent table: %w", err)
	}

	var t Table
	if err := json.Unmarshal(data, &t); err != nil {
		return Table{}, fmt.Errorf("parse intent table %s: %w", path, err)
	}

	fill := func(dst *[]string, fallback []string) {
		if len(*dst) == 0 {
			*dst = fallback
		}
	}
	fill(&t.Exit, def.Exit)
	fill(&t.CancelDelivery, def.CancelDelivery)
	fill(&t.Delivery, def.Delivery)
	fill(&t.PlayPrefixes, def.PlayPrefixes)
	fill(&t.StopMusic, def.StopMusic)
	fill(&t.VolumeUp, def.VolumeUp)
	fill(&t.VolumeDown, def.VolumeDown)
	fill(&t.Calendar, def.Calendar)
	return t, nil
}
