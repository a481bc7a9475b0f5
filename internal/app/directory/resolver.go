package directory

import (
	"regexp"
	"strings"

	"github.com/mitsdash/campuskeys/internal/app/models"
)

var (
	yearPattern    = regexp.MustCompile(`^[IVX]+$`)
	sectionPattern = regexp.MustCompile(`^[A-Z]$`)
)

// GroupResolver derives a GroupKey for a student record from explicit fields,
// a legacy composite identifier, or a hierarchical storage path, in that
// precedence order. It never fails; unresolved dimensions stay empty.
type GroupResolver struct {
	departments *Departments
}

// NewGroupResolver creates a resolver over the shared department lookup.
func NewGroupResolver(departments *Departments) *GroupResolver {
	return &GroupResolver{departments: departments}
}

// Resolve returns the most complete GroupKey derivable from the record.
// Resolution is idempotent: same inputs, same key.
func (r *GroupResolver) Resolve(student *models.StudentRecord) models.GroupKey {
	key := models.GroupKey{
		Department: strings.TrimSpace(student.Department),
		Year:       strings.ToUpper(strings.TrimSpace(student.Year)),
		Section:    strings.ToUpper(strings.TrimSpace(student.Section)),
	}
	if key.Complete() {
		return key
	}

	r.fillFromCompositeID(&key, student.CompositeID)
	if key.Complete() {
		return key
	}

	r.fillFromStoragePath(&key, student.StoragePath)
	return key
}

// fillFromCompositeID parses ids like CSE_III_A_0045 or CSE_DS_III_A_0012.
// Department codes may themselves contain the underscore delimiter, so the
// longest known-code prefix wins; the two tokens after it are the year and
// section candidates. When no prefix is a known code, year and section are
// still taken from the conventional token positions 1 and 2.
func (r *GroupResolver) fillFromCompositeID(key *models.GroupKey, compositeID string) {
	id := strings.TrimSpace(compositeID)
	if id == "" {
		return
	}
	parts := strings.Split(id, "_")
	if len(parts) < 3 {
		return
	}

	deptFull := ""
	maybeYear := strings.ToUpper(parts[1])
	maybeSection := strings.ToUpper(parts[2])
	for split := len(parts) - 2; split >= 1; split-- {
		if full, ok := r.departments.FullName(strings.Join(parts[:split], "_")); ok {
			deptFull = full
			maybeYear = strings.ToUpper(parts[split])
			if split+1 < len(parts) {
				maybeSection = strings.ToUpper(parts[split+1])
			} else {
				maybeSection = ""
			}
			break
		}
	}

	if key.Department == "" && deptFull != "" {
		key.Department = deptFull
	}
	if key.Year == "" && yearPattern.MatchString(maybeYear) {
		key.Year = maybeYear
	}
	if key.Section == "" && sectionPattern.MatchString(maybeSection) {
		key.Section = maybeSection
	}
}

var pathGroupPattern = regexp.MustCompile(`(?i)students/([^/]+)/([^/]+)/`)

// fillFromStoragePath parses paths of the form
// students/{DEPT_SHORT}/{SECTION-YEAR or YEAR-SECTION}/{ROLLNO}. The two
// halves of the hyphen pair are disambiguated by which matches the roman
// year pattern and which the single-letter section pattern; if neither
// interpretation holds, the dimensions stay unresolved rather than guessed.
func (r *GroupResolver) fillFromStoragePath(key *models.GroupKey, storagePath string) {
	path := strings.TrimSpace(storagePath)
	if !strings.Contains(path, "/") {
		return
	}
	m := pathGroupPattern.FindStringSubmatch(path + "/")
	if m == nil {
		return
	}
	deptShort, groupKey := m[1], m[2]

	if key.Department == "" {
		if full, ok := r.departments.FullName(deptShort); ok {
			key.Department = full
		}
	}

	year, section, ok := SplitGroupKey(groupKey)
	if !ok {
		return
	}
	if key.Year == "" {
		key.Year = year
	}
	if key.Section == "" {
		key.Section = section
	}
}

// SplitGroupKey interprets a hyphen-joined group segment as either
// Section-Year (A-III) or Year-Section (III-A). It returns ok=false when the
// pair is ambiguous or matches neither convention.
func SplitGroupKey(groupKey string) (year, section string, ok bool) {
	parts := strings.Split(groupKey, "-")
	if len(parts) != 2 {
		return "", "", false
	}
	first := strings.ToUpper(parts[0])
	second := strings.ToUpper(parts[1])

	switch {
	case sectionPattern.MatchString(first) && yearPattern.MatchString(second):
		return second, first, true
	case yearPattern.MatchString(first) && sectionPattern.MatchString(second):
		return first, second, true
	default:
		return "", "", false
	}
}
