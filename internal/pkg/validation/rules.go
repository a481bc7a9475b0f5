package validation

import (
	"regexp"
	"strings"
)

// Validation rule patterns
var (
	// Roman-numeral academic year token, e.g. I, II, III, IV
	YearPattern = `^[IVX]+$`

	// Single-letter section token
	SectionPattern = `^[A-Z]$`

	// Roll number: alphanumeric, 4-20 chars, e.g. 21CSE045
	RollNumberPattern = `^[A-Za-z0-9]{4,20}$`

	// Email domain as configured for generated addresses, e.g. @mits.ac.in
	EmailDomainPattern = `^@[a-z0-9.\-]+\.[a-z]{2,}$`
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Year        *regexp.Regexp
	Section     *regexp.Regexp
	RollNumber  *regexp.Regexp
	EmailDomain *regexp.Regexp
}{
	Year:        regexp.MustCompile(YearPattern),
	Section:     regexp.MustCompile(SectionPattern),
	RollNumber:  regexp.MustCompile(RollNumberPattern),
	EmailDomain: regexp.MustCompile(EmailDomainPattern),
}

// ValidYear reports whether the token is a roman-numeral year.
func ValidYear(year string) bool {
	return CompiledPatterns.Year.MatchString(strings.ToUpper(strings.TrimSpace(year)))
}

// ValidSection reports whether the token is a single section letter.
func ValidSection(section string) bool {
	return CompiledPatterns.Section.MatchString(strings.ToUpper(strings.TrimSpace(section)))
}

// ValidRollNumber reports whether the roll id is usable as a document id.
func ValidRollNumber(roll string) bool {
	return CompiledPatterns.RollNumber.MatchString(strings.TrimSpace(roll))
}

// ValidEmailDomain reports whether the configured domain is well-formed.
func ValidEmailDomain(domain string) bool {
	return CompiledPatterns.EmailDomain.MatchString(strings.ToLower(strings.TrimSpace(domain)))
}
