package services

import (
	"regexp"
	"strings"

	"github.com/sahayhealth/sahay-backend/internal/pkg/logger"
)

// markdownLinkPattern matches the mandated resource link shape:
// **[Title](https://...)**
var markdownLinkPattern = regexp.MustCompile(`\*\*\[[^\]]+\]\(https://[^)\s]+\)\*\*`)

// bareLinkPattern spots any markdown link at all, well formed or not.
var bareLinkPattern = regexp.MustCompile(`\[[^\]]*\]\([^)]*\)`)

var crisisKeywords = []string{
	"suicide", "suicidal", "kill myself", "end my life", "ending it all",
	"want to die", "hurt myself", "self harm",
}

// PolicyValidator audits generated replies against the prompt-enforced
// policy after the fact. It never mutates or rejects a reply; violations
// are logged so prompt regressions show up in monitoring. Policy
// enforcement itself stays delegated to the generation collaborator.
type PolicyValidator struct {
	log *logger.Logger
}

func NewPolicyValidator(log *logger.Logger) *PolicyValidator {
	return &PolicyValidator{log: log.With("service", "PolicyValidator")}
}

// Check inspects one question/reply pair.
func (v *PolicyValidator) Check(conversationID, question, reply string) {
	if ContainsCrisisKeyword(question) && !strings.Contains(reply, CrisisHelpline) {
		v.log.Warn("Reply to a crisis message is missing the helpline number",
			"conversation_id", conversationID)
	}

	links := bareLinkPattern.FindAllString(reply, -1)
	if len(links) == 0 {
		return
	}
	wellFormed := markdownLinkPattern.FindAllString(reply, -1)
	if len(wellFormed) < len(links) {
		v.log.Warn("Reply contains malformed resource links",
			"conversation_id", conversationID,
			"links", len(links),
			"well_formed", len(wellFormed))
	}
}

// ContainsCrisisKeyword reports whether the text carries a distress or
// suicidal-ideation marker.
func ContainsCrisisKeyword(text string) bool {
	t := strings.ToLower(text)
	for _, kw := range crisisKeywords {
		if strings.Contains(t, kw) {
			return true
		}
	}
	return false
}
