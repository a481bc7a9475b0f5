package services

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/rs/zerolog"

	"github.com/mitsdash/campuskeys/internal/app/directory"
	"github.com/mitsdash/campuskeys/internal/app/models"
	"github.com/mitsdash/campuskeys/internal/identity"
	"github.com/mitsdash/campuskeys/internal/pkg/apperrors"
	"github.com/mitsdash/campuskeys/internal/pkg/metrics"
	"github.com/mitsdash/campuskeys/internal/pkg/pacing"
)

// lifecycleActor is recorded in the audit fields of every lifecycle write.
const lifecycleActor = "admin"

// deleteWarning accompanies every delete summary: clearing credential fields
// does not remove the identity-provider account.
const deleteWarning = "credential fields cleared; the identity provider account still exists and must be removed separately"

// LifecycleService applies bulk account lifecycle operations to student
// records. Items run sequentially and paced; cancellation is honored between
// items, and each item's failure is isolated into the summary.
type LifecycleService struct {
	store           StudentStore
	identity        identity.Service
	resolver        *directory.GroupResolver
	addresser       *directory.PathAddresser
	pacer           pacing.Pacer
	identityTimeout time.Duration
	logger          zerolog.Logger
}

// NewLifecycleService creates a new lifecycle service instance.
func NewLifecycleService(
	store StudentStore,
	identitySvc identity.Service,
	resolver *directory.GroupResolver,
	addresser *directory.PathAddresser,
	pacer pacing.Pacer,
	identityTimeout time.Duration,
	logger zerolog.Logger,
) *LifecycleService {
	return &LifecycleService{
		store:           store,
		identity:        identitySvc,
		resolver:        resolver,
		addresser:       addresser,
		pacer:           pacer,
		identityTimeout: identityTimeout,
		logger:          logger,
	}
}

// Execute runs one lifecycle operation over a batch of students. The summary
// enumerates every success and every failure by roll number; a partial run
// after cancellation reports only the items actually attempted.
func (s *LifecycleService) Execute(
	ctx context.Context,
	op models.LifecycleOperation,
	students []models.StudentRecord,
	onProgress ProgressFunc,
) (models.BulkSummary, error) {
	summary := models.BulkSummary{
		Operation: op,
		Succeeded: []models.ItemOutcome{},
		Failed:    []models.ItemOutcome{},
		Progress:  models.Progress{Total: len(students)},
	}
	if !op.Valid() {
		return summary, fmt.Errorf("%w: %q", apperrors.ErrUnknownOperation, op)
	}
	if op == models.OpDelete {
		summary.Warning = deleteWarning
	}

	for i := range students {
		if err := ctx.Err(); err != nil {
			return summary, fmt.Errorf("%w: %v", apperrors.ErrOperationCancelled, err)
		}
		if err := s.pacer.Wait(ctx); err != nil {
			return summary, fmt.Errorf("%w: %v", apperrors.ErrOperationCancelled, err)
		}

		student := students[i]
		outcome := models.ItemOutcome{RollNumber: student.RollNumber, Name: student.DisplayName()}
		if err := s.applyOne(ctx, op, &student); err != nil {
			outcome.Error = err.Error()
			summary.Failed = append(summary.Failed, outcome)
			metrics.BulkItemsTotal.WithLabelValues(string(op), metrics.ResultFailed).Inc()
			s.logger.Warn().Err(err).Str("rollNo", student.RollNumber).Str("operation", string(op)).Msg("Lifecycle item failed")
		} else {
			summary.Succeeded = append(summary.Succeeded, outcome)
			metrics.BulkItemsTotal.WithLabelValues(string(op), metrics.ResultOK).Inc()
		}

		summary.Progress.Current = i + 1
		if onProgress != nil {
			onProgress(summary.Progress)
		}
	}

	s.logger.Info().
		Str("operation", string(op)).
		Int("succeeded", len(summary.Succeeded)).
		Int("failed", len(summary.Failed)).
		Msg("Bulk lifecycle operation finished")
	return summary, nil
}

func (s *LifecycleService) applyOne(ctx context.Context, op models.LifecycleOperation, student *models.StudentRecord) error {
	if student.RollNumber == "" {
		return apperrors.ErrNoRollNumber
	}
	docPath := student.StoragePath
	if docPath == "" {
		docPath = s.addresser.DocPath(s.resolver.Resolve(student), student.DocumentID())
	}

	switch op {
	case models.OpResetPassword:
		return s.resetPassword(ctx, docPath, student)
	case models.OpActivate:
		return s.store.MergeSet(ctx, docPath, map[string]interface{}{
			"isActive":    true,
			"activatedAt": firestore.ServerTimestamp,
			"activatedBy": lifecycleActor,
		})
	case models.OpDeactivate:
		return s.store.MergeSet(ctx, docPath, map[string]interface{}{
			"isActive":      false,
			"deactivatedAt": firestore.ServerTimestamp,
			"deactivatedBy": lifecycleActor,
		})
	case models.OpDelete:
		return s.store.MergeSet(ctx, docPath, map[string]interface{}{
			"username":               firestore.Delete,
			"password":               firestore.Delete,
			"authUid":                firestore.Delete,
			"authEmail":              firestore.Delete,
			"rollNoWithUid":          firestore.Delete,
			"credentialsGeneratedAt": firestore.Delete,
			"credentialsPattern":     firestore.Delete,
			"hasLoginCredentials":    false,
			"isActive":               false,
			"deletedAt":              firestore.ServerTimestamp,
			"deletedBy":              lifecycleActor,
		})
	default:
		return fmt.Errorf("%w: %q", apperrors.ErrUnknownOperation, op)
	}
}

// resetPassword stamps the audit fields and, when the record is linked to an
// identity account, triggers the provider's reset flow so the student gets a
// reset email. Unlinked records only get the audit stamp; there is no account
// whose password could change.
func (s *LifecycleService) resetPassword(ctx context.Context, docPath string, student *models.StudentRecord) error {
	if err := s.store.MergeSet(ctx, docPath, map[string]interface{}{
		"passwordResetAt": firestore.ServerTimestamp,
		"passwordResetBy": lifecycleActor,
	}); err != nil {
		return err
	}
	if student.AccountID == "" || student.GeneratedEmail == "" {
		s.logger.Debug().Str("rollNo", student.RollNumber).Msg("Password reset stamped without provider flow, record has no linked account")
		return nil
	}
	callCtx, cancel := identityCallContext(ctx, s.identityTimeout)
	defer cancel()
	if err := s.identity.SendPasswordReset(callCtx, student.GeneratedEmail, student.DisplayName()); err != nil {
		return fmt.Errorf("failed to trigger provider password reset: %w", err)
	}
	return nil
}
