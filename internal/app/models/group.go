package models

// GroupKey identifies a student's organizational unit. Fields may be empty
// when a dimension could not be resolved; callers decide wildcard-vs-reject
// semantics for partial keys.
type GroupKey struct {
	Department string `json:"department"` // full name, e.g. "Computer Science & Engineering"
	Year       string `json:"year"`       // roman numeral, e.g. "III"
	Section    string `json:"section"`    // single letter, e.g. "A"
}

// Complete reports whether all three dimensions are resolved.
func (k GroupKey) Complete() bool {
	return k.Department != "" && k.Year != "" && k.Section != ""
}

// ScopeFilter narrows directory and provisioning operations to a subset of
// the organizational space. An empty field means "all" for that dimension.
// It is passed explicitly into every call, never read from ambient state.
type ScopeFilter struct {
	Department string `json:"department,omitempty" form:"department"`
	Year       string `json:"year,omitempty" form:"year"`
	Section    string `json:"section,omitempty" form:"section"`
}

// Matches reports whether a resolved group key falls inside the filter.
func (f ScopeFilter) Matches(key GroupKey) bool {
	if f.Department != "" && key.Department != f.Department {
		return false
	}
	if f.Year != "" && key.Year != f.Year {
		return false
	}
	if f.Section != "" && key.Section != f.Section {
		return false
	}
	return true
}

// IsUnscoped reports whether the filter selects the whole space.
func (f ScopeFilter) IsUnscoped() bool {
	return f.Department == "" && f.Year == "" && f.Section == ""
}
