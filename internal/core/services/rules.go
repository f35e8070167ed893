package services

import "regexp"

// rule is one step of an ordered first-match-wins sequence.
type rule struct {
	name  string
	apply func(text string) (string, bool)
}

// ruleChain evaluates rules in order and returns the first hit.
type ruleChain []rule

// first returns the value of the first rule that matches, or "".
func (c ruleChain) first(text string) string {
	for _, r := range c {
		if v, ok := r.apply(text); ok {
			return v
		}
	}
	return ""
}

// matchRule yields the whole leftmost match of pattern.
func matchRule(name, pattern string) rule {
	re := regexp.MustCompile(pattern)
	return rule{name: name, apply: func(text string) (string, bool) {
		m := re.FindString(text)
		return m, m != ""
	}}
}

// groupRule yields the first capture group of the leftmost match of pattern.
// When reject reports true for that candidate the rule does not match.
func groupRule(name, pattern string, reject func(string) bool) rule {
	re := regexp.MustCompile(pattern)
	return rule{name: name, apply: func(text string) (string, bool) {
		m := re.FindStringSubmatch(text)
		if len(m) < 2 || m[1] == "" {
			return "", false
		}
		if reject != nil && reject(m[1]) {
			return "", false
		}
		return m[1], true
	}}
}

// funcRule wraps an arbitrary extractor.
func funcRule(name string, fn func(text string) string) rule {
	return rule{name: name, apply: func(text string) (string, bool) {
		v := fn(text)
		return v, v != ""
	}}
}
