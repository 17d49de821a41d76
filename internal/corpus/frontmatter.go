package corpus

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// moduleMeta is the parsed YAML frontmatter of a SKILL.md file. Unknown
// fields are ignored so corpora can carry extra metadata for other tools.
type moduleMeta struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Parent      string `yaml:"parent"`

	// Keywords: either a YAML list or a single comma-separated string.
	// Unmarshalled as yaml.Node for flexibility.
	Keywords yaml.Node `yaml:"keywords"`

	References []string `yaml:"references"`
}

// keywordList coerces the keywords node into an ordered list of raw strings,
// preserving declaration order and dropping empties.
func (m *moduleMeta) keywordList() []string {
	var out []string
	add := func(s string) {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	switch m.Keywords.Kind {
	case yaml.SequenceNode:
		for _, n := range m.Keywords.Content {
			add(n.Value)
		}
	case yaml.ScalarNode:
		for _, part := range strings.Split(m.Keywords.Value, ",") {
			add(part)
		}
	}
	return out
}

// splitFrontmatter splits a SKILL.md document into its parsed frontmatter
// and body. A file without a frontmatter block yields an error: every module
// must declare its metadata explicitly.
func splitFrontmatter(content string) (*moduleMeta, string, error) {
	s := strings.TrimPrefix(content, "\uFEFF")
	if !strings.HasPrefix(s, "---") {
		return nil, "", fmt.Errorf("missing frontmatter block")
	}

	parts := strings.SplitN(s, "---", 3)
	if len(parts) < 3 {
		return nil, "", fmt.Errorf("unterminated frontmatter block")
	}

	fmText := strings.TrimSpace(parts[1])
	body := strings.TrimPrefix(parts[2], "\n")

	var meta moduleMeta
	if err := yaml.Unmarshal([]byte(fmText), &meta); err != nil {
		return nil, "", fmt.Errorf("invalid YAML frontmatter: %w", err)
	}
	return &meta, body, nil
}
