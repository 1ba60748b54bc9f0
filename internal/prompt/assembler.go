// Package prompt builds the system instruction sent with every question.
package prompt

import (
	"fmt"
	"strings"

	"github.com/agenthands/streetwatch/internal/config"
	"github.com/agenthands/streetwatch/internal/incident"
)

const defaultRole = "You are an assistant that looks at recent street incidents in %s. " +
	"The user will ask something related to a specific area in %[1]s."

type Assembler struct {
	Area    string
	Role    string
	Markers config.SplitterConfig
}

func NewAssembler(prompts config.PromptConfig, markers config.SplitterConfig) *Assembler {
	return &Assembler{
		Area:    prompts.Area,
		Role:    prompts.Role,
		Markers: markers,
	}
}

// BuildInstructions returns the system instruction for batch. The JSON form of
// batch is always embedded, "[]" when there are no incidents.
func (a *Assembler) BuildInstructions(batch incident.Batch) string {
	var b strings.Builder

	b.WriteString(a.role())
	b.WriteString("\n\n")

	b.WriteString("Recent incidents, as a JSON list of {time, district, details} objects:\n")
	b.WriteString(batch.JSON())
	b.WriteString("\n\n")

	b.WriteString("Based on the area the user names, identify the recent incidents from the list above that happened in or near that area. ")
	b.WriteString("Only use facts found in the list. Do NOT make up incidents, times or details. ")
	b.WriteString("If nothing in the list matches the area, say so.\n\n")

	b.WriteString("Reply in plain text with exactly three sections, in this order:\n")
	if a.Markers.AnswerLabel != "" {
		fmt.Fprintf(&b, "%s a short summary of the matching incidents.\n", a.Markers.AnswerLabel)
	} else {
		b.WriteString("First, a short summary of the matching incidents.\n")
	}
	fmt.Fprintf(&b, "%s the approximate latitude and longitude of the area as \"<lat>,<lng>\".\n", a.Markers.CoordsMarker)
	fmt.Fprintf(&b, "%s any extra information about those incidents found in the list, or \"none found\".\n", a.Markers.NewsMarker)
	b.WriteString("Do not use JSON or markdown, and do not repeat the section labels anywhere else.")

	return b.String()
}

func (a *Assembler) role() string {
	area := a.Area
	if area == "" {
		area = "the city"
	}
	if a.Role == "" {
		return fmt.Sprintf(defaultRole, area)
	}
	return strings.ReplaceAll(a.Role, "%s", area)
}
