package prompts

import "strings"

const (
	tailoringFile = "tailoring.json"

	// PromptVersion identifies the tailoring rule set; bump it when tailoring.json changes.
	PromptVersion = "tailor-v1"

	// OutputLanguage is the only language the tailored resume is written in.
	OutputLanguage = "English"
)

// Envelope is the role-tagged pair of text blocks sent to the model as one request.
type Envelope struct {
	System string
	User   string
}

// BuildTailoringEnvelope assembles the tailoring request from the resume and the job posting.
// Both documents are embedded in full; nothing is truncated or template-expanded.
func BuildTailoringEnvelope(resume, posting string) Envelope {
	system := Format(MustGet(tailoringFile, "tailor-system"), map[string]string{
		"Language": OutputLanguage,
	})

	var sb strings.Builder
	sb.Grow(len(resume) + len(posting) + 512)
	sb.WriteString(MustGet(tailoringFile, "tailor-user-intro"))
	sb.WriteString("\n\n")
	sb.WriteString(MustGet(tailoringFile, "tailor-resume-marker"))
	sb.WriteString("\n")
	sb.WriteString(resume)
	sb.WriteString("\n\n")
	sb.WriteString(MustGet(tailoringFile, "tailor-posting-marker"))
	sb.WriteString("\n")
	sb.WriteString(posting)
	sb.WriteString("\n")

	return Envelope{System: system, User: sb.String()}
}
