package intent

import "strings"

// Router classifies command text with ordered keyword checks. Priority is
// fixed: exit beats delivery-cancel beats delivery beats music beats volume
// beats calendar, and anything unmatched is general chat.
type Router struct {
	table Table
}

func NewRouter(table Table) *Router {
	return &Router{table: table}
}

// Route classifies one command. The caller is expected to have already
// filtered empty input; an empty command still routes safely to GeneralChat.
func (r *Router) Route(command string) Intent {
	command = strings.TrimSpace(command)
	lower := strings.ToLower(command)

	if containsAny(lower, r.table.Exit) {
		return Intent{Kind: KindExit}
	}
	if containsAny(lower, r.table.CancelDelivery) {
		return Intent{Kind: KindCancelDelivery}
	}
	if containsAny(lower, r.table.Delivery) {
		return Intent{Kind: KindDeliveryOrder, Arg: command}
	}
	if track := extractAfter(command, lower, r.table.PlayPrefixes); track != "" {
		return Intent{Kind: KindPlayMusic, Arg: track}
	}
	if containsAny(lower, r.table.StopMusic) {
		return Intent{Kind: KindStopMusic}
	}
	if containsAny(lower, r.table.VolumeUp) {
		return Intent{Kind: KindVolumeUp}
	}
	if containsAny(lower, r.table.VolumeDown) {
		return Intent{Kind: KindVolumeDown}
	}
	if containsAny(lower, r.table.Calendar) {
		return Intent{Kind: KindCalendarQuery, Arg: command}
	}
	return Intent{Kind: KindGeneralChat, Arg: command}
}

func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// extractAfter slices everything after the first matching trigger keyword,
// out of the original-cased text so track names keep their casing. An empty
// slice result means the category did not match and routing falls through.
func extractAfter(original, lower string, prefixes []string) string {
	for _, kw := range prefixes {
		idx := strings.Index(lower, kw)
		if idx < 0 {
			continue
		}
		rest := strings.TrimSpace(original[idx+len(kw):])
		if rest != "" {
			return rest
		}
	}
	return ""
}
