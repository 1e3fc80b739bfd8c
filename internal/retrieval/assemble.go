package retrieval

import (
	"fmt"
	"strings"

	"github.com/lexwatch/lexwatch/internal/domain"
	"github.com/lexwatch/lexwatch/internal/htmltext"
)

const extractMarker = "--- page extract ---"

// AssemblyLimits is the prompt-size budget for one context block.
type AssemblyLimits struct {
	SummaryMaxChars       int
	RemoteExtractMaxChars int
	AttachmentMaxChars    int
	MaxAttachments        int
}

// DefaultAssemblyLimits mirrors the service configuration defaults.
func DefaultAssemblyLimits() AssemblyLimits {
	return AssemblyLimits{
		SummaryMaxChars:       900,
		RemoteExtractMaxChars: 1500,
		AttachmentMaxChars:    2000,
		MaxAttachments:        4,
	}
}

// AssembleContext renders ranked items and attachments into one bounded
// text block. Citation indices are 1-based and follow ranked order; an
// item keeps its index whether or not a page extract is present for it.
// The function is pure: same inputs, same block.
func AssembleContext(items []domain.Item, extracts map[string]string, attachments []domain.Attachment, limits AssemblyLimits) string {
	var b strings.Builder

	for i, item := range items {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(fmt.Sprintf("[%d] %s", i+1, headerLine(item)))
		b.WriteString("\n")
		if summary := htmltext.Truncate(item.Summary, limits.SummaryMaxChars); summary != "" {
			b.WriteString(summary)
			b.WriteString("\n")
		}
		if item.URL != "" {
			b.WriteString("URL: " + item.URL)
			b.WriteString("\n")
		}
		if extract := extracts[item.ID]; extract != "" {
			b.WriteString(extractMarker)
			b.WriteString("\n")
			b.WriteString(htmltext.Truncate(extract, limits.RemoteExtractMaxChars))
			b.WriteString("\n")
		}
	}

	if limits.MaxAttachments > 0 && len(attachments) > limits.MaxAttachments {
		attachments = attachments[:limits.MaxAttachments]
	}
	for i, att := range attachments {
		if len(items) > 0 || i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(fmt.Sprintf("[A%d] %s", i+1, att.Name))
		b.WriteString("\n")
		if text := htmltext.Truncate(att.Text, limits.AttachmentMaxChars); text != "" {
			b.WriteString(text)
			b.WriteString("\n")
		}
	}

	return b.String()
}

func headerLine(item domain.Item) string {
	parts := []string{item.Title, item.Source}
	if item.EffectiveDate != nil {
		parts = append(parts, item.EffectiveDate.Format("2006-01-02"))
	}
	return strings.Join(parts, " — ")
}
