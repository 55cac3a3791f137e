// Package generation builds the cover letter prompt and runs the
// generation call against the LLM.
package generation

import (
	"strings"
	"time"

	"github.com/jonathan/cover-letter/internal/overrides"
	"github.com/jonathan/cover-letter/internal/prompts"
	"github.com/jonathan/cover-letter/internal/types"
)

// DateLayout is the long US English date written into the letter.
const DateLayout = "January 2, 2006"

const defaultRecipient = "Hiring Manager"

// BuildPrompt renders the generation prompt for req. It is deterministic
// for a given request, date and rule table.
func BuildPrompt(req types.GenerationRequest, date time.Time, rules overrides.Table) string {
	template := prompts.MustGet(prompts.CoverLetterFile, "generate-cover-letter")

	return prompts.Format(template, map[string]string{
		"CandidateName":   req.CandidateName,
		"CompanyName":     req.CompanyName,
		"JobDescription":  req.JobDescription,
		"CVText":          req.CVText,
		"OptionalDetails": optionalDetails(req),
		"ContentRules":    contentRules(rules.Applicable(req.CVText)),
		"Date":            date.Format(DateLayout),
		"RecipientBlock":  recipientBlock(req),
		"Salutation":      Salutation(req.HiringManager),
	})
}

// Salutation returns the name used after "Dear": the hiring manager's first
// name, or "Hiring Manager" when none is given.
func Salutation(hiringManager string) string {
	fields := strings.Fields(hiringManager)
	if len(fields) == 0 {
		return defaultRecipient
	}
	return fields[0]
}

func optionalDetails(req types.GenerationRequest) string {
	var sb strings.Builder
	if req.CompanyAddress != "" {
		sb.WriteString("\n- Company Address: " + req.CompanyAddress)
	}
	if req.HiringManager != "" {
		sb.WriteString("\n- Hiring Manager: " + req.HiringManager)
	}
	return sb.String()
}

func recipientBlock(req types.GenerationRequest) string {
	lines := []string{defaultRecipient, req.CompanyName}
	if req.HiringManager != "" {
		lines[0] = req.HiringManager
	}
	if req.CompanyAddress != "" {
		lines = append(lines, req.CompanyAddress)
	}
	return strings.Join(lines, "\n")
}

func contentRules(rules []overrides.Rule) string {
	if len(rules) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString(prompts.MustGet(prompts.CoverLetterFile, "content-rules-header"))
	for _, rule := range rules {
		sb.WriteString("\n")
		sb.WriteString(rule.Instruction)
	}
	sb.WriteString("\n")
	return sb.String()
}
