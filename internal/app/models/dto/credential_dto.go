package dto

import "github.com/mitsdash/campuskeys/internal/app/models"

// PatternRequest selects the credential strategies for a run. Zero values
// fall back to the institutional defaults.
type PatternRequest struct {
	UsernameStrategy    string `json:"usernameStrategy" validate:"omitempty,oneof=ROLLNO EMAIL NAME-ROLLNO CUSTOM"`
	PasswordStrategy    string `json:"passwordStrategy" validate:"omitempty,oneof=DEFAULT_ROLLNO ROLLNO-DOB ROLLNO-YEAR NAME-DOB CUSTOM RANDOM"`
	EmailDomain         string `json:"emailDomain" validate:"omitempty,startswith=@"`
	CustomUsername      string `json:"customUsername"`
	CustomPassword      string `json:"customPassword"`
	PasswordLength      int    `json:"passwordLength" validate:"omitempty,min=6,max=64"`
	IncludeSpecialChars bool   `json:"includeSpecialChars"`
}

// ToPattern merges the request over the default pattern.
func (r PatternRequest) ToPattern() models.CredentialPattern {
	cfg := models.DefaultCredentialPattern()
	if r.UsernameStrategy != "" {
		cfg.UsernameStrategy = models.UsernameStrategy(r.UsernameStrategy)
	}
	if r.PasswordStrategy != "" {
		cfg.PasswordStrategy = models.PasswordStrategy(r.PasswordStrategy)
	}
	if r.EmailDomain != "" {
		cfg.EmailDomain = r.EmailDomain
	}
	if r.CustomUsername != "" {
		cfg.CustomUsername = r.CustomUsername
	}
	if r.CustomPassword != "" {
		cfg.CustomPassword = r.CustomPassword
	}
	if r.PasswordLength > 0 {
		cfg.PasswordLength = r.PasswordLength
	}
	cfg.IncludeSpecialChars = r.IncludeSpecialChars
	return cfg
}

// ProvisionRequest carries the batch for a preview or a full provisioning
// run. Students are passed by value so the dashboard can provision a
// hand-edited selection without an extra directory round trip.
type ProvisionRequest struct {
	Students []models.StudentRecord `json:"students" validate:"required,min=1"`
	Pattern  PatternRequest         `json:"pattern"`
}

// ProvisionResponse summarizes a provisioning run.
type ProvisionResponse struct {
	Results   []models.ProvisioningResult `json:"results"`
	Succeeded int                         `json:"succeeded"`
	Failed    int                         `json:"failed"`
}

// NewProvisionResponse tallies results into the response envelope.
func NewProvisionResponse(results []models.ProvisioningResult) ProvisionResponse {
	resp := ProvisionResponse{Results: results}
	for _, r := range results {
		if r.Failed() {
			resp.Failed++
		} else {
			resp.Succeeded++
		}
	}
	return resp
}

// BulkLifecycleRequest carries one lifecycle operation over a batch.
type BulkLifecycleRequest struct {
	Operation string                 `json:"operation" validate:"required,oneof=reset_password activate deactivate delete"`
	Students  []models.StudentRecord `json:"students" validate:"required,min=1"`
}

// DirectoryQuery binds the directory listing and search query parameters.
type DirectoryQuery struct {
	Department string `form:"department"`
	Year       string `form:"year"`
	Section    string `form:"section"`
	Query      string `form:"q"`
	Field      string `form:"field"`
	Status     string `form:"status"`
	Page       int    `form:"page"`
	Size       int    `form:"size"`
}

// Scope converts the bound query into a scope filter.
func (q DirectoryQuery) Scope() models.ScopeFilter {
	return models.ScopeFilter{Department: q.Department, Year: q.Year, Section: q.Section}
}

// DirectoryResponse wraps a directory result page.
type DirectoryResponse struct {
	Students   []models.StudentRecord `json:"students"`
	Count      int                    `json:"count"`
	Pagination PaginationInfo         `json:"pagination"`
}
