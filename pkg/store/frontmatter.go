package store

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const frontmatterDelimiter = "---"

const reviewsHeading = "## Reviews"

// frontmatter is the YAML head of an exported goal. Reviews live here so a
// round trip keeps their ids; the body only renders them for reading.
type frontmatter struct {
	Goal    `yaml:",inline"`
	Reviews []Review `yaml:"reviews,omitempty"`
}

// ParseFrontmatter splits an exported goal file into YAML frontmatter and a
// markdown description.
func ParseFrontmatter(content string) (*Goal, error) {
	content = strings.TrimSpace(content)

	if !strings.HasPrefix(content, frontmatterDelimiter) {
		// No frontmatter: the whole file is the description
		return &Goal{Description: content}, nil
	}

	rest := content[len(frontmatterDelimiter):]
	idx := strings.Index(rest, "\n"+frontmatterDelimiter)
	if idx == -1 {
		return nil, fmt.Errorf("unclosed frontmatter delimiter")
	}

	yamlContent := rest[:idx]
	body := rest[idx+len("\n"+frontmatterDelimiter):]
	body = strings.TrimLeft(body, "\n")

	var fm frontmatter
	if err := yaml.Unmarshal([]byte(yamlContent), &fm); err != nil {
		return nil, fmt.Errorf("parsing frontmatter YAML: %w", err)
	}

	goal := fm.Goal
	goal.Reviews = fm.Reviews
	if i := strings.Index(body, reviewsHeading); i >= 0 {
		body = body[:i]
	}
	goal.Description = strings.TrimSpace(body)
	return &goal, nil
}

// SerializeFrontmatter renders a Goal as markdown with YAML frontmatter.
func SerializeFrontmatter(g *Goal) (string, error) {
	yamlBytes, err := yaml.Marshal(frontmatter{Goal: *g, Reviews: g.Reviews})
	if err != nil {
		return "", fmt.Errorf("serializing frontmatter YAML: %w", err)
	}

	var b strings.Builder
	b.WriteString(frontmatterDelimiter)
	b.WriteString("\n")
	b.WriteString(strings.TrimRight(string(yamlBytes), "\n"))
	b.WriteString("\n")
	b.WriteString(frontmatterDelimiter)
	b.WriteString("\n")
	if g.Description != "" {
		b.WriteString("\n")
		b.WriteString(strings.TrimRight(g.Description, "\n"))
		b.WriteString("\n")
	}
	if len(g.Reviews) > 0 {
		b.WriteString("\n")
		b.WriteString(reviewLog(g.Reviews))
	}

	return b.String(), nil
}

// RenderMarkdown renders a goal for display: title, metadata, description,
// SMART breakdown and review log.
func RenderMarkdown(g Goal) string {
	var md strings.Builder

	md.WriteString("# " + g.Title + "\n\n")

	meta := []string{
		"**Horizon:** " + string(g.Horizon),
		"**Status:** " + string(g.Status),
		fmt.Sprintf("**Progress:** %d%%", g.Progress),
		"**Category:** " + g.CategoryOrDefault(),
	}
	if !g.DueDate.IsZero() {
		meta = append(meta, "**Due:** "+g.DueDate.Format("2006-01-02"))
	}
	md.WriteString(strings.Join(meta, " | ") + "\n\n")

	if g.Description != "" {
		md.WriteString(g.Description + "\n\n")
	}

	if sc := g.SmartCriteria; sc != nil {
		md.WriteString("## SMART\n\n")
		md.WriteString("- **Specific:** " + sc.Specific + "\n")
		md.WriteString("- **Measurable:** " + sc.Measurable + "\n")
		md.WriteString("- **Achievable:** " + sc.Achievable + "\n")
		md.WriteString("- **Relevant:** " + sc.Relevant + "\n")
		md.WriteString("- **Time-bound:** " + sc.TimeBound + "\n\n")
	}

	if len(g.Reviews) > 0 {
		md.WriteString(reviewLog(g.Reviews))
	}

	return md.String()
}

func reviewLog(reviews []Review) string {
	var b strings.Builder
	b.WriteString(reviewsHeading + "\n\n")
	for _, r := range reviews {
		b.WriteString(fmt.Sprintf("- **%s** %s\n", r.Date.Format("2006-01-02 15:04"), r.Note))
	}
	return b.String()
}
