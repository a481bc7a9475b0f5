package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/mitsdash/campuskeys/internal/app/models"
	"github.com/mitsdash/campuskeys/internal/pkg/apperrors"
)

// StudentRepository reads and writes student documents at hierarchical paths
// in the primary document store. The store enforces no schema; writes are
// merge-upserts so a missing target document is created rather than rejected.
type StudentRepository struct {
	client *firestore.Client
}

// NewStudentRepository creates a repository over the Firestore client.
func NewStudentRepository(client *firestore.Client) *StudentRepository {
	return &StudentRepository{client: client}
}

// GetByPath fetches one student document by its relative path, e.g.
// students/CSE/A-III/21CSE045.
func (r *StudentRepository) GetByPath(ctx context.Context, docPath string) (*models.StudentRecord, error) {
	ref := r.client.Doc(docPath)
	if ref == nil {
		return nil, fmt.Errorf("%w: malformed document path %q", apperrors.ErrBadRequest, docPath)
	}

	snap, err := ref.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrStudentNotFound, docPath)
		}
		return nil, apperrors.NewCustomError(apperrors.ErrStorage, fmt.Sprintf("failed to fetch student: %v", err)).
			WithDetails(map[string]interface{}{"path": docPath})
	}

	record, err := snapshotToRecord(snap, docPath)
	if err != nil {
		return nil, err
	}
	return record, nil
}

// ListCollection returns every student document in one group collection,
// e.g. students/CSE/A-III. A collection that was never written to yields an
// empty slice, not an error.
func (r *StudentRepository) ListCollection(ctx context.Context, collectionPath string) ([]models.StudentRecord, error) {
	col := r.client.Collection(collectionPath)
	if col == nil {
		return nil, fmt.Errorf("%w: malformed collection path %q", apperrors.ErrBadRequest, collectionPath)
	}

	var records []models.StudentRecord
	iter := col.Documents(ctx)
	defer iter.Stop()
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, apperrors.NewCustomError(apperrors.ErrStorage, fmt.Sprintf("failed to list students: %v", err)).
				WithDetails(map[string]interface{}{"path": collectionPath})
		}
		record, err := snapshotToRecord(snap, collectionPath+"/"+snap.Ref.ID)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	return records, nil
}

// MergeSet merge-upserts fields into the document at docPath.
func (r *StudentRepository) MergeSet(ctx context.Context, docPath string, fields map[string]interface{}) error {
	ref := r.client.Doc(docPath)
	if ref == nil {
		return fmt.Errorf("%w: malformed document path %q", apperrors.ErrBadRequest, docPath)
	}
	if _, err := ref.Set(ctx, fields, firestore.MergeAll); err != nil {
		return apperrors.NewCustomError(apperrors.ErrStorage, fmt.Sprintf("failed to write student fields: %v", err)).
			WithDetails(map[string]interface{}{"path": docPath})
	}
	return nil
}

// snapshotToRecord decodes a document and attaches bookkeeping the decoder
// cannot produce: the relative storage path and a roll number defaulted from
// the document id, matching how the legacy writers keyed records.
func snapshotToRecord(snap *firestore.DocumentSnapshot, docPath string) (*models.StudentRecord, error) {
	var record models.StudentRecord
	if err := snap.DataTo(&record); err != nil {
		return nil, fmt.Errorf("failed to decode student document %s: %w", snap.Ref.ID, err)
	}
	record.StoragePath = strings.Trim(docPath, "/")
	if record.RollNumber == "" {
		record.RollNumber = snap.Ref.ID
	}
	return &record, nil
}
