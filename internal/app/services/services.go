package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/mitsdash/campuskeys/internal/app/directory"
	"github.com/mitsdash/campuskeys/internal/app/models"
	"github.com/mitsdash/campuskeys/internal/app/pattern"
	"github.com/mitsdash/campuskeys/internal/identity"
	"github.com/mitsdash/campuskeys/internal/pkg/pacing"
)

// StudentStore is the document-store surface the services depend on.
// Implemented by repositories.StudentRepository; tests substitute fakes.
type StudentStore interface {
	// GetByPath fetches one student document by relative path.
	GetByPath(ctx context.Context, docPath string) (*models.StudentRecord, error)
	// ListCollection returns all documents in one group collection. A
	// collection that was never written to yields an empty slice.
	ListCollection(ctx context.Context, collectionPath string) ([]models.StudentRecord, error)
	// MergeSet merge-upserts fields into the document at docPath, creating
	// the document when absent.
	MergeSet(ctx context.Context, docPath string, fields map[string]interface{}) error
}

// AccountIndexStore maintains the flat account-id index and alias pointers.
type AccountIndexStore interface {
	Get(ctx context.Context, docPath string) (*models.AccountIndexEntry, error)
	Put(ctx context.Context, docPath string, fields map[string]interface{}) error
	PutAlias(ctx context.Context, docPath string, fields map[string]interface{}) error
}

// ProgressFunc receives per-item progress during sequential bulk runs.
// May be nil when the caller does not track progress.
type ProgressFunc func(models.Progress)

// Services bundles the business layer for dependency injection.
type Services struct {
	Provisioner *ProvisionerService
	Lifecycle   *LifecycleService
	Directory   *DirectoryService
}

// NewServices wires the services over shared collaborators. The same
// Departments instance backs both the resolver and the addresser so group
// resolution and path addressing can never disagree on a code mapping.
func NewServices(
	store StudentStore,
	index AccountIndexStore,
	identitySvc identity.Service,
	departments *directory.Departments,
	identityPacer pacing.Pacer,
	bulkPacer pacing.Pacer,
	identityTimeout time.Duration,
	logger zerolog.Logger,
) *Services {
	resolver := directory.NewGroupResolver(departments)
	addresser := directory.NewPathAddresser(departments)
	engine := pattern.NewEngine()

	return &Services{
		Provisioner: NewProvisionerService(store, index, identitySvc, engine, resolver, addresser, identityPacer, identityTimeout, logger),
		Lifecycle:   NewLifecycleService(store, identitySvc, resolver, addresser, bulkPacer, identityTimeout, logger),
		Directory:   NewDirectoryService(store, index, resolver, addresser, departments, logger),
	}
}

// identityCallContext bounds one identity-provider call. A hung provider
// then fails that single item with context.DeadlineExceeded instead of
// stalling the rest of the batch. A non-positive timeout leaves the parent
// context untouched.
func identityCallContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}
