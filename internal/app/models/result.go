package models

// GeneratedCredentials is the pure output of the pattern engine for one
// student, before any write has happened.
type GeneratedCredentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

// ProvisioningResult is the per-student outcome of a provisioning run.
// Ephemeral; callers persist or export it as needed.
type ProvisioningResult struct {
	Student           StudentRecord        `json:"student"`
	Credentials       GeneratedCredentials `json:"credentials"`
	AccountID         string               `json:"accountId,omitempty"`
	AccountCreated    bool                 `json:"accountCreated"`    // false when an existing account was reused
	RecordWritten     bool                 `json:"recordWritten"`     // primary record merge-write succeeded
	Error             string               `json:"error,omitempty"`   // per-student failure, batch continues
}

// Failed reports whether this student's provisioning recorded an error.
func (r ProvisioningResult) Failed() bool { return r.Error != "" }

// LifecycleOperation names a bulk lifecycle action.
type LifecycleOperation string

const (
	OpResetPassword LifecycleOperation = "reset_password"
	OpActivate      LifecycleOperation = "activate"
	OpDeactivate    LifecycleOperation = "deactivate"
	OpDelete        LifecycleOperation = "delete"
)

// Valid reports whether the operation is one of the supported actions.
func (op LifecycleOperation) Valid() bool {
	switch op {
	case OpResetPassword, OpActivate, OpDeactivate, OpDelete:
		return true
	}
	return false
}

// Progress reports how far a sequential bulk operation has advanced.
type Progress struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

// ItemOutcome captures one student's result within a bulk operation.
type ItemOutcome struct {
	RollNumber string `json:"rollNumber"`
	Name       string `json:"name,omitempty"`
	Error      string `json:"error,omitempty"`
}

// BulkSummary is the caller-facing report of a bulk lifecycle run. It always
// enumerates which student failed and why rather than a single pass/fail.
type BulkSummary struct {
	Operation LifecycleOperation `json:"operation"`
	Succeeded []ItemOutcome      `json:"succeeded"`
	Failed    []ItemOutcome      `json:"failed"`
	Progress  Progress           `json:"progress"`
	// Deletions clear credential fields only; removing the identity-provider
	// account needs a separately privileged operation.
	Warning string `json:"warning,omitempty"`
}
