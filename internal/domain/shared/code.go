package shared

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var codePattern = regexp.MustCompile(`^[A-Z0-9][A-Z0-9_-]*$`)

// NormalizeCode trims and upper-cases a business code.
// A Caser holds state, so one is built per call.
func NormalizeCode(code string) string {
	return cases.Upper(language.Und).String(strings.TrimSpace(code))
}

// ValidateCode checks a normalized business code against the allowed alphabet and length
func ValidateCode(code string, maxLen int) error {
	if code == "" {
		return NewDomainError("INVALID_CODE", "Code cannot be empty")
	}
	if len(code) > maxLen {
		return NewDomainError("INVALID_CODE", fmt.Sprintf("Code cannot exceed %d characters", maxLen))
	}
	if !codePattern.MatchString(code) {
		return NewDomainError("INVALID_CODE", "Code may only contain letters, digits, '-' and '_'")
	}
	return nil
}

// GenerateDocumentNumber builds a document number like INV-20240131-9F2A1C
func GenerateDocumentNumber(prefix string, at time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("%s-%s-%s", prefix, at.Format("20060102"), suffix)
}
