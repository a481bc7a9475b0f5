// Package directory derives a student's organizational address (department,
// year, section) from inconsistent historical inputs and maps it onto the
// hierarchical document-store layout.
package directory

import (
	"regexp"
	"sort"
	"strings"
)

// Departments is the single source of truth for department short-code and
// full-name mappings. Both the group resolver and the path addresser consult
// the same instance so the two can never drift apart.
type Departments struct {
	shortToFull map[string]string
	fullToShort map[string]string
}

// UnknownDepartmentCode is used when a department cannot be mapped.
const UnknownDepartmentCode = "UNK"

// NewDepartments builds the lookup from the institutional department set.
// Extra full-name spellings observed in legacy data map onto the same codes.
func NewDepartments() *Departments {
	shortToFull := map[string]string{
		"CIVIL":    "Civil Engineering",
		"ECE":      "Electronics & Communication Engineering",
		"EEE":      "Electrical & Electronics Engineering",
		"MECH":     "Mechanical Engineering",
		"BSH":      "Basic Sciences & Humanities",
		"MGMT":     "Management Studies",
		"MCA":      "Computer Applications",
		"CSE":      "Computer Science & Engineering",
		"CSE_AI":   "Computer Science & Engineering (Artificial Intelligence)",
		"CSE_CS":   "Computer Science & Engineering (Cyber Security)",
		"CST":      "Computer Science & Technology",
		"CSE_DS":   "Computer Science & Engineering (Data Science)",
		"CSE_AIML": "Computer Science and Engineering (Artificial Intelligence and Machine Learning)",
		"CSE_NET":  "Computer Science and Engineering (Networks)",
	}

	fullToShort := make(map[string]string, len(shortToFull)+4)
	for code, full := range shortToFull {
		fullToShort[full] = code
	}
	// Legacy spellings seen in older ingests.
	fullToShort["Computer Science & Engineering (Data science)"] = "CSE_DS"
	fullToShort["Computer Science & Engineering (DataScience)"] = "CSE_DS"
	fullToShort["CSE (Data Science)"] = "CSE_DS"
	fullToShort["CSE-DS"] = "CSE_DS"

	return &Departments{shortToFull: shortToFull, fullToShort: fullToShort}
}

// FullName maps a short code to the department's full name. The second return
// is false when the code is unknown.
func (d *Departments) FullName(code string) (string, bool) {
	full, ok := d.shortToFull[strings.TrimSpace(code)]
	return full, ok
}

// ShortCode maps a full department name to its short code, returning
// UnknownDepartmentCode for unrecognized names.
func (d *Departments) ShortCode(fullName string) string {
	if code, ok := d.fullToShort[strings.TrimSpace(fullName)]; ok {
		return code
	}
	return UnknownDepartmentCode
}

// Codes returns all known short codes in stable order. Used by the directory
// when enumerating the full organizational space.
func (d *Departments) Codes() []string {
	codes := make([]string, 0, len(d.shortToFull))
	for code := range d.shortToFull {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// FullNames returns all known full names in stable order.
func (d *Departments) FullNames() []string {
	names := make([]string, 0, len(d.shortToFull))
	for _, full := range d.shortToFull {
		names = append(names, full)
	}
	sort.Strings(names)
	return names
}

var nonCodeChars = regexp.MustCompile(`[^A-Za-z0-9_]`)

// CodeVariants returns the plausible encodings of a short code found in
// legacy paths: the code itself and its compact form without underscores
// (CSE_DS and CSEDS). Read paths try each in order.
func (d *Departments) CodeVariants(code string) []string {
	normalized := nonCodeChars.ReplaceAllString(strings.TrimSpace(code), "_")
	if normalized == "" {
		normalized = UnknownDepartmentCode
	}
	variants := []string{normalized}
	if compact := strings.ReplaceAll(normalized, "_", ""); compact != normalized {
		variants = append(variants, compact)
	}
	return variants
}
