package gemini

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// MalformedError wraps a decode failure after repair, carrying the repaired
// text for diagnostics.
type MalformedError struct {
	RepairedText string
	Err          error
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed model response: %v", e.Err)
}

func (e *MalformedError) Unwrap() error { return e.Err }

var bareDecimalRe = regexp.MustCompile(`(\d)\.(\s*[,}\]]|$)`)

// Repair takes raw model output and best-effort rewrites it into a single
// syntactically valid JSON object. The model wraps output in markdown fences,
// surrounds it with prose, truncates numbers at a bare decimal point and cuts
// strings short when it runs out of tokens. Repair is idempotent; it does not
// guarantee validity, only improves the odds of decoding.
func Repair(raw string) string {
	s := strings.TrimSpace(raw)

	// Strip markdown code fences, with or without a language tag.
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	s = strings.TrimSpace(s)

	// Keep only the outermost object span. Leading/trailing prose is common
	// even with responseMimeType set to application/json.
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return s
	}
	if end := strings.LastIndexByte(s, '}'); end > start {
		s = s[start : end+1]
	} else {
		s = s[start:]
	}

	// Literal and escaped line breaks inside string values break decoding.
	replacer := strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", `\n`, " ", `\r`, " ")
	s = replacer.Replace(s)

	// "8." before a separator is not valid JSON; make it "8.0".
	s = bareDecimalRe.ReplaceAllString(s, `${1}.0${2}`)

	// A truncated response often ends mid-string. Close the dangling quote.
	if unclosedString(s) {
		s += `"`
	}

	if !strings.HasSuffix(s, "}") {
		s += "}"
	}
	return s
}

// unclosedString reports whether s ends inside an unterminated JSON string.
func unclosedString(s string) bool {
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		}
	}
	return inString
}

// DecodeQuestion repairs raw text and decodes it as a single-question result.
// Field names are matched case-insensitively and unknown fields are ignored.
// A missing baseline comparison defaults to stable with zero delta.
func DecodeQuestion(raw string) (*QuestionResult, error) {
	text := Repair(raw)
	var out QuestionResult
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return nil, &MalformedError{RepairedText: text, Err: err}
	}
	if out.BaselineComparison == nil {
		out.BaselineComparison = &BaselineComparison{ChangeLevel: "estable"}
	}
	return &out, nil
}

// DecodeBatch repairs raw text and decodes it as a questionnaire result.
func DecodeBatch(raw string) (*BatchResult, error) {
	text := Repair(raw)
	var out BatchResult
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return nil, &MalformedError{RepairedText: text, Err: err}
	}
	if out.BaselineComparison == nil {
		out.BaselineComparison = &BaselineComparison{ChangeLevel: "estable"}
	}
	return &out, nil
}
