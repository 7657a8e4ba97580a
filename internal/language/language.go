package language

import "strings"

type entry struct {
	code2   string   // ISO 639-1
	code3   []string // ISO 639-2 forms, bibliographic variant last
	display string
	words   []string
}

var languages = []entry{
	{"en", []string{"eng"}, "English", []string{"english"}},
	{"es", []string{"spa"}, "Spanish", []string{"spanish", "espanol"}},
	{"fr", []string{"fra", "fre"}, "French", []string{"french"}},
	{"de", []string{"deu", "ger"}, "German", []string{"german"}},
	{"it", []string{"ita"}, "Italian", []string{"italian"}},
	{"pt", []string{"por"}, "Portuguese", []string{"portuguese"}},
	{"ja", []string{"jpn"}, "Japanese", []string{"japanese"}},
	{"ko", []string{"kor"}, "Korean", []string{"korean"}},
	{"zh", []string{"zho", "chi"}, "Chinese", []string{"chinese"}},
	{"ru", []string{"rus"}, "Russian", []string{"russian"}},
	{"uk", []string{"ukr"}, "Ukrainian", []string{"ukrainian"}},
	{"ar", []string{"ara"}, "Arabic", []string{"arabic"}},
	{"hi", []string{"hin"}, "Hindi", []string{"hindi"}},
	{"tr", []string{"tur"}, "Turkish", []string{"turkish"}},
	{"nl", []string{"nld", "dut"}, "Dutch", []string{"dutch"}},
	{"pl", []string{"pol"}, "Polish", []string{"polish"}},
	{"sv", []string{"swe"}, "Swedish", []string{"swedish"}},
	{"da", []string{"dan"}, "Danish", []string{"danish"}},
	{"no", []string{"nor"}, "Norwegian", []string{"norwegian"}},
	{"fi", []string{"fin"}, "Finnish", []string{"finnish"}},
}

var index = func() map[string]*entry {
	m := make(map[string]*entry, len(languages)*4)
	for i := range languages {
		e := &languages[i]
		m[e.code2] = e
		for _, code := range e.code3 {
			m[code] = e
		}
		for _, w := range e.words {
			m[w] = e
		}
	}
	return m
}()

// Normalize rewrites a caption language tag the way YouTube names its
// tracks: ISO 639-1 primary subtag, title-cased script, upper-cased region
// ("ENG_us" -> "en-US", "chinese-hans" -> "zh-Hans"). Unknown primary
// subtags pass through lower-cased. Blank input yields "".
func Normalize(tag string) string {
	tag = strings.TrimSpace(strings.ReplaceAll(tag, "_", "-"))
	if tag == "" {
		return ""
	}
	parts := strings.Split(tag, "-")
	primary := strings.ToLower(parts[0])
	if e, ok := index[primary]; ok {
		primary = e.code2
	}
	out := []string{primary}
	for _, sub := range parts[1:] {
		if sub == "" {
			continue
		}
		switch {
		case len(sub) == 2 || (len(sub) == 3 && isDigits(sub)):
			out = append(out, strings.ToUpper(sub))
		case len(sub) == 4:
			out = append(out, strings.ToUpper(sub[:1])+strings.ToLower(sub[1:]))
		default:
			out = append(out, strings.ToLower(sub))
		}
	}
	return strings.Join(out, "-")
}

// Base returns the normalized primary subtag of tag.
func Base(tag string) string {
	base, _, _ := strings.Cut(Normalize(tag), "-")
	return base
}

// NormalizeList normalizes and deduplicates tags, keeping first-seen order.
func NormalizeList(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		normalized := Normalize(tag)
		if normalized == "" {
			continue
		}
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		out = append(out, normalized)
	}
	return out
}

// DisplayName renders tag for people: "English", "English (US)". Unknown
// languages fall back to the normalized tag.
func DisplayName(tag string) string {
	normalized := Normalize(tag)
	if normalized == "" {
		return "Unknown"
	}
	base, rest, _ := strings.Cut(normalized, "-")
	e, ok := index[base]
	if !ok {
		return normalized
	}
	if rest == "" {
		return e.display
	}
	return e.display + " (" + rest + ")"
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
