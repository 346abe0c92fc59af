// Package scrub masks contact details and identifiers that people paste
// into free-form notes, before the notes are stored anywhere.
package scrub

import "regexp"

type compiledRule struct {
	rule Rule
	re   *regexp.Regexp
}

type Scrubber struct {
	rules []compiledRule
}

func NewScrubber(cfg RulesConfig) (*Scrubber, error) {
	var compiled []compiledRule
	for _, rule := range cfg.Rules {
		if !rule.Enabled {
			continue
		}
		re, err := regexp.Compile(rule.Pattern)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, compiledRule{rule: rule, re: re})
	}
	return &Scrubber{rules: compiled}, nil
}

// Clean replaces every match with its rule's mask. A nil scrubber passes
// text through untouched.
func (s *Scrubber) Clean(text string) string {
	if s == nil || text == "" {
		return text
	}
	for _, rule := range s.rules {
		text = rule.re.ReplaceAllString(text, rule.rule.Mask)
	}
	return text
}

// Detect reports which rules fire on the text without changing it.
func (s *Scrubber) Detect(text string) []string {
	if s == nil || text == "" {
		return nil
	}
	var names []string
	for _, rule := range s.rules {
		if rule.re.MatchString(text) {
			names = append(names, rule.rule.Name)
		}
	}
	return names
}
