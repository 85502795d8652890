// Package feedback parses free-form reviewer output into a structured
// approval decision plus per-agent feedback.
//
// The parsing here is best-effort structured extraction from unstructured
// model text: ordered heuristics with a deterministic fallback, isolated
// behind a pure function so the rest of the engine never reasons about
// parse failure.
package feedback

import (
	"regexp"
	"strings"
)

// GenericRevision is distributed to every target agent when the reviewer
// withheld approval but no per-agent feedback could be extracted, so the
// revision phase is never left without instructions.
const GenericRevision = "Please revise and improve your previous output based on the reviewer's overall comments."

// Result is the outcome of processing one reviewer response.
type Result struct {
	Approved bool
	// Feedback maps target agent id to extracted feedback text. Empty when
	// approved.
	Feedback map[string]string
}

// statusMarkers are prefixes after which a bare approval keyword counts.
var statusMarkers = []string{"status:", "verdict:", "decision:", "result:"}

// labelLine matches a "Label: text" line, optionally bulleted, bolded or
// heading-prefixed. Group 1 is the label, group 2 the trailing text.
var labelLine = regexp.MustCompile(`^\s*(?:#{1,6}\s+)?(?:[-*]\s+)?(?:\*\*)?([A-Za-z][A-Za-z0-9 _/-]{0,60}?)(?:\*\*)?\s*:\s*(.*)$`)

// headingLine matches a bare markdown heading ("## backend") whose feedback
// follows on subsequent lines.
var headingLine = regexp.MustCompile(`^\s*#{1,6}\s+(?:\*\*)?([A-Za-z][A-Za-z0-9 _/-]{0,60}?)(?:\*\*)?\s*$`)

// Process parses reviewer text against the target agent ids and approval
// keyword. It is a pure, idempotent function: identical inputs always yield
// identical results.
//
// Approval is detected case-insensitively by any of: the keyword anywhere in
// the text, the keyword immediately following a status marker, or the
// keyword at the start of a line.
//
// Feedback extraction tries, per target and in order: an explicit
// "<id>: ..." label, a markdown form (**id**: or ## id), then a role-token
// heuristic (a label sharing a token with the id). The first pattern that
// matches wins for that agent.
func Process(reviewerText string, targetAgentIDs []string, approvalKeyword string) Result {
	if detectApproval(reviewerText, approvalKeyword) {
		return Result{Approved: true, Feedback: map[string]string{}}
	}

	segments := segment(reviewerText)
	feedback := map[string]string{}

	for _, id := range targetAgentIDs {
		if text, ok := matchTarget(id, segments); ok {
			feedback[id] = text
		}
	}

	// No explicit feedback and no approval: every target revises.
	if len(feedback) == 0 {
		for _, id := range targetAgentIDs {
			feedback[id] = GenericRevision
		}
	}

	return Result{Approved: false, Feedback: feedback}
}

// detectApproval applies the three approval checks. The "anywhere" check
// subsumes the others; they are kept explicit so the detection order stays
// visible and independently testable.
func detectApproval(text, keyword string) bool {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return false
	}
	lowerText := strings.ToLower(text)
	lowerKeyword := strings.ToLower(keyword)

	if strings.Contains(lowerText, lowerKeyword) {
		return true
	}

	for _, line := range strings.Split(lowerText, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, lowerKeyword) {
			return true
		}
		for _, marker := range statusMarkers {
			if rest, ok := strings.CutPrefix(line, marker); ok &&
				strings.HasPrefix(strings.TrimSpace(rest), lowerKeyword) {
				return true
			}
		}
	}
	return false
}

// seg is one labeled region of the reviewer text: a label line plus every
// following line up to the next label.
type seg struct {
	label string
	text  string
}

// segment splits reviewer text into labeled regions. Lines before the first
// label are ignored; they carry the reviewer's general remarks.
func segment(text string) []seg {
	var segs []seg
	var current *seg
	var body []string

	flush := func() {
		if current != nil {
			current.text = strings.TrimSpace(strings.Join(body, "\n"))
			segs = append(segs, *current)
			current = nil
			body = nil
		}
	}

	for _, line := range strings.Split(text, "\n") {
		if m := labelLine.FindStringSubmatch(line); m != nil {
			flush()
			current = &seg{label: strings.TrimSpace(m[1])}
			if rest := strings.TrimSpace(m[2]); rest != "" {
				body = append(body, rest)
			}
			continue
		}
		if m := headingLine.FindStringSubmatch(line); m != nil {
			flush()
			current = &seg{label: strings.TrimSpace(m[1])}
			continue
		}
		if current != nil {
			body = append(body, line)
		}
	}
	flush()
	return segs
}

// matchTarget finds the first segment whose label addresses the target id,
// applying the three patterns in fixed order.
func matchTarget(id string, segs []seg) (string, bool) {
	normID := normalize(id)

	// (a) explicit label: normalized label equals normalized id.
	for _, s := range segs {
		if normalize(s.label) == normID && s.text != "" {
			return s.text, true
		}
	}

	// (b) markdown forms were stripped during segmentation, so this pass
	// re-checks equality ignoring residual emphasis characters.
	for _, s := range segs {
		stripped := normalize(strings.Trim(s.label, "*_# "))
		if stripped == normID && s.text != "" {
			return s.text, true
		}
	}

	// (c) role-token heuristic: a label sharing any token with the id
	// (e.g. target "backend" matches "Backend Developer:").
	idTokens := tokenize(id)
	for _, s := range segs {
		labelTokens := tokenSet(s.label)
		for _, t := range idTokens {
			if labelTokens[t] && s.text != "" {
				return s.text, true
			}
		}
	}

	return "", false
}

func normalize(s string) string {
	return strings.Join(tokenize(s), " ")
}

// tokenize lower-cases and splits on non-alphanumeric boundaries.
func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
	})
}

func tokenSet(s string) map[string]bool {
	ts := tokenize(s)
	out := make(map[string]bool, len(ts))
	for _, t := range ts {
		out[t] = true
	}
	return out
}
