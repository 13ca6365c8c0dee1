package fallback

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/prepcoach/internal/interview"
)

//go:embed bank.yaml
var bankYAML []byte

type bankQuestion struct {
	Text       string `yaml:"text"`
	Category   string `yaml:"category"`
	Difficulty string `yaml:"difficulty"`
}

type bankRole struct {
	Name      string         `yaml:"name"`
	Aliases   []string       `yaml:"aliases"`
	Questions []bankQuestion `yaml:"questions"`
}

// Bank is the curated offline question content.
type Bank struct {
	Roles   []bankRole     `yaml:"roles"`
	Generic []bankQuestion `yaml:"generic"`
}

// MinGenericPerDifficulty is the number of distinct generic questions each
// difficulty needs so a session of interview.MaxQuestionCount never
// repeats a question.
const MinGenericPerDifficulty = (interview.MaxQuestionCount + 2) / 3

// ParseBank decodes a question bank. Every difficulty needs at least
// MinGenericPerDifficulty distinct generic entries.
func ParseBank(data []byte) (*Bank, error) {
	var b Bank
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parse question bank: %w", err)
	}
	for _, d := range interview.AllDifficulties() {
		distinct := make(map[string]bool)
		for _, q := range b.generic(d, "", "") {
			distinct[q.Text] = true
		}
		if len(distinct) < MinGenericPerDifficulty {
			return nil, fmt.Errorf("question bank has %d distinct generic %s questions, need %d",
				len(distinct), d, MinGenericPerDifficulty)
		}
	}
	return &b, nil
}

// DefaultBank returns the embedded bank.
func DefaultBank() *Bank {
	b, err := ParseBank(bankYAML)
	if err != nil {
		panic(err)
	}
	return b
}

// RoleNames lists the curated roles.
func (b *Bank) RoleNames() []string {
	names := make([]string, len(b.Roles))
	for i, r := range b.Roles {
		names[i] = r.Name
	}
	return names
}

func (b *Bank) role(name string) *bankRole {
	key := normalizeRole(name)
	for i := range b.Roles {
		r := &b.Roles[i]
		if normalizeRole(r.Name) == key {
			return r
		}
		for _, a := range r.Aliases {
			if normalizeRole(a) == key {
				return r
			}
		}
	}
	return nil
}

// curated returns the role's questions at difficulty d that fit the
// interview type.
func (b *Bank) curated(role string, d interview.Difficulty, interviewType string) []interview.Question {
	r := b.role(role)
	if r == nil {
		return nil
	}
	want, filter := typeFilter(interviewType)
	var out []interview.Question
	for _, q := range r.Questions {
		if interview.ParseDifficulty(q.Difficulty) != d {
			continue
		}
		c := interview.ParseCategory(q.Category)
		if filter && c != want {
			continue
		}
		out = append(out, interview.Question{Category: c, Difficulty: d, Text: q.Text})
	}
	return out
}

// generic returns role-templated questions at difficulty d. Questions of
// the requested interview type come first.
func (b *Bank) generic(d interview.Difficulty, role, interviewType string) []interview.Question {
	if role == "" {
		role = "professional"
	}
	want, filter := typeFilter(interviewType)
	var matching, rest []interview.Question
	for _, q := range b.Generic {
		if interview.ParseDifficulty(q.Difficulty) != d {
			continue
		}
		iq := interview.Question{
			Category:   interview.ParseCategory(q.Category),
			Difficulty: d,
			Text:       roleText(q.Text, role),
		}
		if filter && iq.Category == want {
			matching = append(matching, iq)
		} else {
			rest = append(rest, iq)
		}
	}
	return append(matching, rest...)
}

// typeFilter maps an interview type to a category filter. Mixed or unknown
// types do not filter.
func typeFilter(interviewType string) (interview.Category, bool) {
	t := strings.ToLower(strings.TrimSpace(interviewType))
	switch t {
	case "", "mixed", "general", "any", "all":
		return "", false
	}
	c := interview.ParseCategory(t)
	if c == interview.CategoryGeneral {
		return "", false
	}
	return c, true
}

func roleText(text, role string) string {
	text = strings.ReplaceAll(text, "{a role}", withArticle(role))
	return strings.ReplaceAll(text, "{role}", role)
}

func normalizeRole(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
