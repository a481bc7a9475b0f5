package repositories

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/mitsdash/campuskeys/internal/app/models"
	"github.com/mitsdash/campuskeys/internal/pkg/apperrors"
)

// AccountIndexRepository maintains the flat account-id lookup collection and
// the alias pointer documents written next to primary student records. Both
// exist so a record is findable by account id without scanning the hierarchy.
type AccountIndexRepository struct {
	client *firestore.Client
}

// NewAccountIndexRepository creates a repository over the Firestore client.
func NewAccountIndexRepository(client *firestore.Client) *AccountIndexRepository {
	return &AccountIndexRepository{client: client}
}

// Get fetches the flat index document at the given path.
func (r *AccountIndexRepository) Get(ctx context.Context, docPath string) (*models.AccountIndexEntry, error) {
	ref := r.client.Doc(docPath)
	if ref == nil {
		return nil, fmt.Errorf("%w: malformed document path %q", apperrors.ErrBadRequest, docPath)
	}
	snap, err := ref.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, apperrors.NewResourceNotFoundError("index document not found").
				WithDetails(map[string]interface{}{"path": docPath})
		}
		return nil, apperrors.NewCustomError(apperrors.ErrStorage, fmt.Sprintf("failed to fetch index document: %v", err)).
			WithDetails(map[string]interface{}{"path": docPath})
	}
	var entry models.AccountIndexEntry
	if err := snap.DataTo(&entry); err != nil {
		return nil, fmt.Errorf("failed to decode index document %s: %w", snap.Ref.ID, err)
	}
	return &entry, nil
}

// Put merge-upserts the flat index document at the given path,
// e.g. studentsByUid/{accountId}.
func (r *AccountIndexRepository) Put(ctx context.Context, docPath string, fields map[string]interface{}) error {
	return r.set(ctx, docPath, fields)
}

// PutAlias merge-upserts an alias pointer document inside a group collection.
func (r *AccountIndexRepository) PutAlias(ctx context.Context, docPath string, fields map[string]interface{}) error {
	return r.set(ctx, docPath, fields)
}

func (r *AccountIndexRepository) set(ctx context.Context, docPath string, fields map[string]interface{}) error {
	ref := r.client.Doc(docPath)
	if ref == nil {
		return fmt.Errorf("%w: malformed document path %q", apperrors.ErrBadRequest, docPath)
	}
	if _, err := ref.Set(ctx, fields, firestore.MergeAll); err != nil {
		return apperrors.NewCustomError(apperrors.ErrStorage, fmt.Sprintf("failed to write index document: %v", err)).
			WithDetails(map[string]interface{}{"path": docPath})
	}
	return nil
}
