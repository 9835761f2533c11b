package chatbot

import "strings"

// Rule: satu entri FAQ. Sebuah rule kena kalau salah satu keyword-nya
// muncul sebagai substring di input (setelah lowercase).
type Rule struct {
	Keywords    []string
	Answer      string
	ShowContact bool
}

type Reply struct {
	Answer      string `json:"reply"`
	ShowContact bool   `json:"show_contact"`
}

type Matcher struct {
	rules    []Rule
	fallback Reply
}

func NewMatcher(rules []Rule, fallback Reply) *Matcher {
	return &Matcher{rules: rules, fallback: fallback}
}

// Match: linear scan berurutan, first-match-wins. Tidak ada ranking atau
// fuzzy matching; urutan rules adalah prioritasnya.
func (m *Matcher) Match(input string) Reply {
	text := strings.ToLower(input)
	for _, r := range m.rules {
		for _, kw := range r.Keywords {
			if strings.Contains(text, kw) {
				return Reply{Answer: r.Answer, ShowContact: r.ShowContact}
			}
		}
	}
	return m.fallback
}
