package intent

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRoutePriorityOrder(t *testing.T) {
	r := NewRouter(DefaultTable())

	cases := []struct {
		in   string
		kind Kind
		arg  string
	}{
		{"goodbye orion", KindExit, ""},
		{"cancel order please", KindCancelDelivery, ""},
		{"주문 취소", KindCancelDelivery, ""},
		{"order me a bulgogi burger to songdo", KindDeliveryOrder, "order me a bulgogi burger to songdo"},
		{"송도집에 불고기버거 2개 시켜줘", KindDeliveryOrder, "송도집에 불고기버거 2개 시켜줘"},
		{"play lofi beats", KindPlayMusic, "lofi beats"},
		{"틀어줘 Lofi Beats", KindPlayMusic, "Lofi Beats"},
		{"stop music", KindStopMusic, ""},
		{"음악 중지", KindStopMusic, ""},
		{"volume up", KindVolumeUp, ""},
		{"volume down", KindVolumeDown, ""},
		{"오늘 일정 뭐있어", KindCalendarQuery, "오늘 일정 뭐있어"},
		{"what's on tomorrow", KindCalendarQuery, "what's on tomorrow"},
		{"기분이 어때", KindGeneralChat, "기분이 어때"},
		// "오늘" alone is not a calendar trigger; it only selects the
		// period once a real calendar keyword routed the command.
		{"오늘 기분 어때", KindGeneralChat, "오늘 기분 어때"},
	}
	for _, tc := range cases {
		got := r.Route(tc.in)
		if got.Kind != tc.kind {
			t.Fatalf("Route(%q).Kind = %q, want %q", tc.in, got.Kind, tc.kind)
		}
		if got.Arg != tc.arg {
			t.Fatalf("Route(%q).Arg = %q, want %q", tc.in, got.Arg, tc.arg)
		}
	}
}

func TestRoutePlayWithoutTrackFallsThrough(t *testing.T) {
	r := NewRouter(DefaultTable())
	got := r.Route("play ")
	if got.Kind != KindGeneralChat {
		t.Fatalf("Route(\"play \").Kind = %q, want %q", got.Kind, KindGeneralChat)
	}
}

func TestRouteCancelBeatsDeliveryKeywords(t *testing.T) {
	// "cancel order" contains the plain delivery keyword "order"; the
	// cancel check must win by priority.
	r := NewRouter(DefaultTable())
	got := r.Route("cancel order")
	if got.Kind != KindCancelDelivery {
		t.Fatalf("Route(\"cancel order\").Kind = %q, want %q", got.Kind, KindCancelDelivery)
	}
}

func TestLoadTableMissingFileUsesDefaults(t *testing.T) {
	tbl, err := LoadTable("does/not/exist.json")
	if err != nil {
		t.Fatalf("LoadTable() error = %v", err)
	}
	if len(tbl.Exit) == 0 || len(tbl.Delivery) == 0 {
		t.Fatalf("LoadTable() should fall back to defaults: %+v", tbl)
	}
}

func TestLoadTablePartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "intents.json")
	if err := os.WriteFile(path, []byte(`{"exit":["bye now"]}`), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	tbl, err := LoadTable(path)
	if err != nil {
		t.Fatalf("LoadTable() error = %v", err)
	}
	if len(tbl.Exit) != 1 || tbl.Exit[0] != "bye now" {
		t.Fatalf("Exit = %v, want override", tbl.Exit)
	}
	if len(tbl.Calendar) == 0 {
		t.Fatalf("Calendar should keep defaults on partial override")
	}

	r := NewRouter(tbl)
	if got := r.Route("bye now orion"); got.Kind != KindExit {
		t.Fatalf("Route() with override = %q, want %q", got.Kind, KindExit)
	}
}
