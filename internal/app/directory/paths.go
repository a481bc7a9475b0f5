package directory

import (
	"regexp"
	"strings"

	"github.com/mitsdash/campuskeys/internal/app/models"
)

// StudentsRoot is the well-known root collection of the hierarchical store.
const StudentsRoot = "students"

// AccountIndexRoot is the flat reverse-lookup collection keyed by account id.
const AccountIndexRoot = "studentsByUid"

var segmentSanitizer = regexp.MustCompile(`[^A-Za-z0-9_]`)

// PathAddresser composes the canonical hierarchical storage addresses for
// student records. The canonical group segment order for new writes is
// Section-Year (e.g. B-III); the historical Year-Section order is supported
// strictly as a read-compatibility fallback via AlternatePaths.
type PathAddresser struct {
	departments *Departments
}

// NewPathAddresser creates an addresser over the shared department lookup.
func NewPathAddresser(departments *Departments) *PathAddresser {
	return &PathAddresser{departments: departments}
}

// GroupSegment returns the canonical Section-Year group key, e.g. "A-III".
// Missing dimensions fall back to "U" so the segment stays well-formed.
func (p *PathAddresser) GroupSegment(key models.GroupKey) string {
	return sanitizeSegment(orDefault(key.Section)) + "-" + sanitizeSegment(orDefault(key.Year))
}

// alternateGroupSegment is the legacy Year-Section order.
func (p *PathAddresser) alternateGroupSegment(key models.GroupKey) string {
	return sanitizeSegment(orDefault(key.Year)) + "-" + sanitizeSegment(orDefault(key.Section))
}

// CollectionPath returns students/{DEPT_SHORT}/{SECTION-YEAR}.
func (p *PathAddresser) CollectionPath(key models.GroupKey) string {
	dept := sanitizeSegment(p.departments.ShortCode(key.Department))
	return StudentsRoot + "/" + dept + "/" + p.GroupSegment(key)
}

// DocPath returns the canonical document address
// students/{DEPT_SHORT}/{SECTION-YEAR}/{ROLLID}.
func (p *PathAddresser) DocPath(key models.GroupKey, rollID string) string {
	return p.CollectionPath(key) + "/" + rollID
}

// AlternateDocPath returns the historical Year-Section encoding of the same
// address, used only when reading data written under the old convention.
func (p *PathAddresser) AlternateDocPath(key models.GroupKey, rollID string) string {
	dept := sanitizeSegment(p.departments.ShortCode(key.Department))
	return StudentsRoot + "/" + dept + "/" + p.alternateGroupSegment(key) + "/" + rollID
}

// ReadCollectionPaths lists every plausible collection address for a group:
// the canonical path first, then legacy group-key order and compact
// department-code variants. Read operations that do not know which writer
// produced the data try each in order.
func (p *PathAddresser) ReadCollectionPaths(key models.GroupKey) []string {
	deptVariants := p.departments.CodeVariants(p.departments.ShortCode(key.Department))
	groupVariants := []string{p.GroupSegment(key), p.alternateGroupSegment(key)}

	paths := make([]string, 0, len(deptVariants)*len(groupVariants))
	seen := make(map[string]struct{})
	for _, dept := range deptVariants {
		for _, group := range groupVariants {
			path := StudentsRoot + "/" + dept + "/" + group
			if _, dup := seen[path]; dup {
				continue
			}
			seen[path] = struct{}{}
			paths = append(paths, path)
		}
	}
	return paths
}

// IndexDocPath returns the flat index address studentsByUid/{accountID}.
func (p *PathAddresser) IndexDocPath(accountID string) string {
	return AccountIndexRoot + "/" + accountID
}

// AliasDocPath returns the alias pointer address stored alongside the primary
// record's siblings, keyed by account id for reverse lookup without a scan.
func (p *PathAddresser) AliasDocPath(key models.GroupKey, accountID string) string {
	return p.CollectionPath(key) + "/" + accountID
}

func sanitizeSegment(s string) string {
	return segmentSanitizer.ReplaceAllString(strings.ToUpper(strings.TrimSpace(s)), "")
}

func orDefault(s string) string {
	if strings.TrimSpace(s) == "" {
		return "U"
	}
	return s
}
