package persona

import (
	"context"
	"fmt"
	"strings"

	"github.com/hupe1980/folio/tool"
)

// Tool names advertised to the model. The system prompt refers to them verbatim.
const (
	ToolGetProjects     = "getProjects"
	ToolGetPresentation = "getPresentation"
	ToolGetResume       = "getResume"
	ToolGetContact      = "getContact"
	ToolGetSkills       = "getSkills"
	ToolGetSports       = "getSports"
	ToolGetCrazy        = "getCrazy"
	ToolGetInternship   = "getInternship"
)

// Tools returns the eight canned chat tools in their advertised order.
// Text results are computed once here, so repeated calls are identical.
func (p Persona) Tools() []tool.Tool {
	return []tool.Tool{
		tool.NewStaticTool(ToolGetProjects,
			"This tool will show a list of all projects.",
			"Here are all the projects (above)! Don't hesitate to ask me more about them!"),
		tool.NewFunctionTool(ToolGetPresentation,
			`This tool returns a concise personal introduction. It is used to answer the question "Who are you?" or "Tell me about yourself"`,
			func(context.Context) (any, error) {
				return map[string]any{"presentation": p.Presentation}, nil
			}),
		tool.NewStaticTool(ToolGetResume,
			"This tool shows my resume and where to download it.",
			p.resumeSummary()),
		tool.NewStaticTool(ToolGetContact,
			"This tool show a my contact informations.",
			"Here is my contact informations above, Feel free to contact me I will be happy to answer you 😉"),
		tool.NewStaticTool(ToolGetSkills,
			"This tool show a list of my skills.",
			"You can see all my skills above."),
		tool.NewStaticTool(ToolGetSports,
			"This tool will show some sports photos.",
			"Here are some of my best pictures doing sports!"),
		tool.NewStaticTool(ToolGetCrazy,
			"This tool will the craziest thing I've ever done. use it when the user ask someting like : 'What the craziest thing you've ever done?'",
			p.crazySummary()),
		tool.NewFunctionTool(ToolGetInternship,
			"Gives a summary of what kind of internship I'm looking for, plus my contact info and how to reach me. "+
				"Use this tool when the user asks about my internship search or how to contact me for opportunities.",
			func(context.Context) (any, error) { return p.internshipSummary(), nil }),
	}
}

// Registry builds the immutable tool registry for this persona.
func (p Persona) Registry() (*tool.Registry, error) {
	return tool.NewRegistry(p.Tools()...)
}

func (p Persona) resumeSummary() string {
	r := p.Resume
	summary := fmt.Sprintf("Here is my resume (above): %s. %s", r.Title, r.Description)
	if r.LastUpdated != "" {
		summary += fmt.Sprintf(" Last updated %s.", r.LastUpdated)
	}
	if r.DownloadURL != "" {
		summary += fmt.Sprintf(" Download (%s, %s): %s", r.FileType, r.FileSize, r.DownloadURL)
	}
	return summary
}

func (p Persona) crazySummary() string {
	summary := p.Chat.CrazyDescription + " "
	if p.Chat.CrazyLink != "" {
		summary += "More: " + p.Chat.CrazyLink
	}
	return summary
}

func formatLinks(links []Link) string {
	lines := make([]string, len(links))
	for i, l := range links {
		lines[i] = fmt.Sprintf("- %s: %s", l.Name, l.URL)
	}
	return strings.Join(lines, "\n")
}

func (p Persona) internshipSummary() string {
	in := p.Internship
	links := formatLinks(in.ContactLinks)
	if links == "" {
		links = formatLinks(p.Contact.Socials)
	}

	var b strings.Builder
	b.WriteString("Here’s what I’m looking for 👇\n\n")
	fmt.Fprintf(&b, "- 📅 **Duration**: %s starting **%s**\n", in.Duration, in.StartDate)
	fmt.Fprintf(&b, "- 🌍 **Location**: %s\n", in.LocationPreference)
	fmt.Fprintf(&b, "- 🧑‍💻 **Focus**: %s\n", in.Focus)
	fmt.Fprintf(&b, "- 🛠️ **Stack**: %s\n", in.Stack)
	fmt.Fprintf(&b, "- 💼 **Visa**: %s\n", in.Visa)
	fmt.Fprintf(&b, "- ✅ **What I bring**: %s\n\n", in.WhatIBring)
	b.WriteString("📬 **Contact me** via:\n")
	fmt.Fprintf(&b, "- Email: %s\n", in.ContactEmail)
	b.WriteString(links)
	b.WriteString("\n\nLet's connect ✌️")
	return b.String()
}
