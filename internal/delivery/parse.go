package delivery

import (
	"regexp"
	"strconv"
	"strings"
)

// OrderRequest is a parsed delivery utterance.
type OrderRequest struct {
	Address  string
	Menu     string
	Quantity int
}

// addressAliases covers the romanized forms speech-to-text produces for
// the saved Korean address names.
var addressAliases = map[string][]string{
	"송도집": {"songdo", "songdo house", "songdo jip", "songdo's", "송도"},
	"서울집": {"seoul", "seoul house", "seoul jip", "seoul's", "서울"},
}

var quantityPattern = regexp.MustCompile(`(\d+)\s*개`)

// Korean trailing-verb patterns first: the menu phrase precedes the order
// verb. English verbs lead instead, and the bare food-word patterns are a
// last resort.
var menuPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(.+?)\s*\d*\s*개?\s*시켜`),
	regexp.MustCompile(`(.+?)\s*\d*\s*개?\s*주문`),
	regexp.MustCompile(`(.+?)\s*\d*\s*개?\s*배달`),
	regexp.MustCompile(`(?i)(?:order|send|get|deliver)\s*(?:me\s*)?(?:a\s*)?(.+?)\s*(?:to|from|for)`),
	regexp.MustCompile(`(?i)(.+?burger)`),
	regexp.MustCompile(`(?i)(.+?pizza)`),
	regexp.MustCompile(`(?i)(.+?chicken)`),
}

var englishStopWords = []string{
	"songdo's", "seoul's", "songdo", "seoul", "house",
	"to", "from", "a", "the", "please", "me",
}

var koreanStopWords = []string{"으로", "로", "에", "좀", "한번"}

// ParseCommand extracts address, menu, and quantity from a raw delivery
// utterance. The clarify return is a terminal question for the user when
// the address or menu cannot be resolved; no retry loop follows it.
func ParseCommand(cfg *Config, command string) (req OrderRequest, clarify string) {
	lower := strings.ToLower(command)

	address := resolveAddress(cfg, lower)
	if address == "" {
		return req, "어느 주소로 배달할까요? 송도집 또는 서울집으로 말씀해주세요."
	}

	quantity := 1
	if m := quantityPattern.FindStringSubmatch(command); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			quantity = n
		}
	}

	menu := extractMenu(command, address)
	if menu == "" {
		return req, "어떤 메뉴를 주문할까요?"
	}

	return OrderRequest{Address: address, Menu: menu, Quantity: quantity}, ""
}

// resolveAddress checks the romanized alias lists before the saved names
// themselves.
func resolveAddress(cfg *Config, lowerCommand string) string {
	for addrName, aliases := range addressAliases {
		for _, alias := range aliases {
			if strings.Contains(lowerCommand, alias) {
				if _, ok := cfg.Addresses[addrName]; ok {
					return addrName
				}
			}
		}
	}
	for addrName := range cfg.Addresses {
		if strings.Contains(lowerCommand, strings.ToLower(addrName)) {
			return addrName
		}
	}
	return ""
}

func extractMenu(command, address string) string {
	for _, pattern := range menuPatterns {
		m := pattern.FindStringSubmatch(command)
		if m == nil {
			continue
		}
		menu := stripStopWords(strings.TrimSpace(m[1]), address)
		if menu != "" {
			return menu
		}
	}
	return ""
}

// stripStopWords removes the address name, locale particles, and English
// filler from a captured menu phrase.
func stripStopWords(menu, address string) string {
	menu = strings.ReplaceAll(menu, address, "")
	for _, word := range englishStopWords {
		re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(word) + `\b`)
		menu = re.ReplaceAllString(menu, "")
	}

	fields := strings.Fields(menu)
	kept := make([]string, 0, len(fields))
	for _, f := range fields {
		if isKoreanStopToken(f) {
			continue
		}
		// Address removal leaves its particle dangling, e.g. "송도집으로"
		// becomes "으로".
		f = strings.TrimSuffix(f, "으로")
		if f == "" {
			continue
		}
		kept = append(kept, f)
	}
	return strings.Join(kept, " ")
}

func isKoreanStopToken(token string) bool {
	for _, word := range koreanStopWords {
		if token == word {
			return true
		}
	}
	return false
}
