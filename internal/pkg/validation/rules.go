package validation

import (
	"regexp"
)

// Validation rule patterns
var (
	// Email validation pattern
	EmailPattern = `^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`

	// Course code pattern, e.g. "CALC 1000"
	CourseCodePattern = `^[A-Z]{2,10} [0-9]{3,4}[A-Z]?$`

	// Review body minimum length when a body is present
	ReviewBodyMinLength = 20

	// Professor name max length
	ProfessorMaxLength = 128
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Email      *regexp.Regexp
	CourseCode *regexp.Regexp
}{
	Email:      regexp.MustCompile(EmailPattern),
	CourseCode: regexp.MustCompile(CourseCodePattern),
}

// IsValidEmail reports whether the value looks like an email address.
func IsValidEmail(value string) bool {
	return CompiledPatterns.Email.MatchString(value)
}

// IsValidCourseCode reports whether the value matches the catalog's course
// code format.
func IsValidCourseCode(value string) bool {
	return CompiledPatterns.CourseCode.MatchString(value)
}
