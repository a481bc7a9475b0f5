package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/rs/zerolog"

	"github.com/mitsdash/campuskeys/internal/app/directory"
	"github.com/mitsdash/campuskeys/internal/app/models"
	"github.com/mitsdash/campuskeys/internal/app/pattern"
	"github.com/mitsdash/campuskeys/internal/identity"
	"github.com/mitsdash/campuskeys/internal/pkg/apperrors"
	"github.com/mitsdash/campuskeys/internal/pkg/auth"
	"github.com/mitsdash/campuskeys/internal/pkg/metrics"
	"github.com/mitsdash/campuskeys/internal/pkg/pacing"
	"github.com/mitsdash/campuskeys/internal/pkg/validation"
)

// ProvisionerService generates credentials for students, writes them into the
// hierarchical store and links each record to an identity-provider account.
// Batches run sequentially and paced; one student's failure never aborts the
// rest of the batch.
type ProvisionerService struct {
	store           StudentStore
	index           AccountIndexStore
	identity        identity.Service
	engine          *pattern.Engine
	resolver        *directory.GroupResolver
	addresser       *directory.PathAddresser
	pacer           pacing.Pacer
	identityTimeout time.Duration
	logger          zerolog.Logger
}

// NewProvisionerService creates a new provisioner service instance.
func NewProvisionerService(
	store StudentStore,
	index AccountIndexStore,
	identitySvc identity.Service,
	engine *pattern.Engine,
	resolver *directory.GroupResolver,
	addresser *directory.PathAddresser,
	pacer pacing.Pacer,
	identityTimeout time.Duration,
	logger zerolog.Logger,
) *ProvisionerService {
	return &ProvisionerService{
		store:           store,
		index:           index,
		identity:        identitySvc,
		engine:          engine,
		resolver:        resolver,
		addresser:       addresser,
		pacer:           pacer,
		identityTimeout: identityTimeout,
		logger:          logger,
	}
}

// Preview runs credential generation for a batch without touching any store
// or the identity provider. Used by the dashboard's dry-run table.
func (s *ProvisionerService) Preview(students []models.StudentRecord, cfg models.CredentialPattern) []models.ProvisioningResult {
	results := make([]models.ProvisioningResult, 0, len(students))
	for i := range students {
		student := students[i]
		result := models.ProvisioningResult{Student: student}
		if !validation.ValidRollNumber(student.RollNumber) {
			result.Error = apperrors.ErrNoRollNumber.Error()
			results = append(results, result)
			continue
		}
		creds, err := s.engine.Generate(&student, cfg)
		if err != nil {
			result.Error = fmt.Errorf("%w: %v", apperrors.ErrGeneration, err).Error()
			results = append(results, result)
			continue
		}
		result.Credentials = creds
		results = append(results, result)
	}
	return results
}

// Provision runs the full provisioning flow for a batch: generate, persist,
// create or reuse the identity account, then write the account linkage.
// Cancellation is honored between students, never mid-student; students
// already provisioned stay provisioned.
func (s *ProvisionerService) Provision(
	ctx context.Context,
	students []models.StudentRecord,
	cfg models.CredentialPattern,
	onProgress ProgressFunc,
) ([]models.ProvisioningResult, error) {
	results := make([]models.ProvisioningResult, 0, len(students))
	total := len(students)

	for i := range students {
		if err := ctx.Err(); err != nil {
			return results, fmt.Errorf("%w: %v", apperrors.ErrOperationCancelled, err)
		}
		if err := s.pacer.Wait(ctx); err != nil {
			return results, fmt.Errorf("%w: %v", apperrors.ErrOperationCancelled, err)
		}

		result := s.provisionOne(ctx, students[i], cfg)
		results = append(results, result)

		switch {
		case result.Failed() && result.RecordWritten:
			metrics.ProvisionedTotal.WithLabelValues(metrics.OutcomePartial).Inc()
		case result.Failed():
			metrics.ProvisionedTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
		default:
			metrics.ProvisionedTotal.WithLabelValues(metrics.OutcomeProvisioned).Inc()
		}

		if onProgress != nil {
			onProgress(models.Progress{Current: i + 1, Total: total})
		}
	}
	return results, nil
}

// provisionOne handles a single student end to end. Errors are captured into
// the result rather than returned so the batch keeps moving.
func (s *ProvisionerService) provisionOne(ctx context.Context, student models.StudentRecord, cfg models.CredentialPattern) models.ProvisioningResult {
	result := models.ProvisioningResult{Student: student}

	if !validation.ValidRollNumber(student.RollNumber) {
		result.Error = apperrors.ErrNoRollNumber.Error()
		return result
	}

	key := s.resolver.Resolve(&student)
	creds, err := s.engine.Generate(&student, cfg)
	if err != nil {
		result.Error = fmt.Errorf("%w: %v", apperrors.ErrGeneration, err).Error()
		return result
	}
	result.Credentials = creds

	passwordHash, err := auth.HashPassword(creds.Password)
	if err != nil {
		result.Error = fmt.Errorf("failed to hash password: %v", err).Error()
		return result
	}

	docPath := student.StoragePath
	if docPath == "" {
		docPath = s.addresser.DocPath(key, student.DocumentID())
	}

	fields := map[string]interface{}{
		"username":               creds.Username,
		"password":               passwordHash,
		"email":                  creds.Email,
		"hasLoginCredentials":    true,
		"isActive":               true,
		"credentialsGeneratedAt": firestore.ServerTimestamp,
		"credentialsPattern": map[string]interface{}{
			"username": string(cfg.UsernameStrategy),
			"password": string(cfg.PasswordStrategy),
		},
	}
	// Backfill the resolved group so later readers never need to re-derive it
	// from the composite id or the path.
	if key.Department != "" {
		fields["department"] = key.Department
	}
	if key.Year != "" {
		fields["year"] = key.Year
	}
	if key.Section != "" {
		fields["section"] = key.Section
	}

	if err := s.store.MergeSet(ctx, docPath, fields); err != nil {
		result.Error = fmt.Errorf("failed to persist credentials: %v", err).Error()
		return result
	}
	result.RecordWritten = true

	accountID, created, err := s.ensureAccount(ctx, creds.Email, creds.Password)
	if err != nil {
		result.Error = fmt.Errorf("%w: %v", apperrors.ErrAccountCreation, err).Error()
		s.logger.Warn().Err(err).Str("rollNo", student.RollNumber).Msg("Credentials written but account creation failed")
		return result
	}
	result.AccountID = accountID
	result.AccountCreated = created
	if created {
		metrics.AccountsCreatedTotal.Inc()
	}

	// An already-linked record pointing at a different account means two
	// writers disagree about ownership. Keep the existing linkage untouched
	// and surface the conflict instead of silently re-pointing the record.
	if student.AccountID != "" && student.AccountID != accountID {
		result.Error = fmt.Errorf("%w: record linked to %s, provider returned %s",
			apperrors.ErrAccountLinkConflict, student.AccountID, accountID).Error()
		s.logger.Error().
			Str("rollNo", student.RollNumber).
			Str("linked", student.AccountID).
			Str("resolved", accountID).
			Msg("Account linkage conflict")
		return result
	}

	if err := s.writeLinkage(ctx, docPath, key, &student, creds.Email, accountID); err != nil {
		result.Error = fmt.Errorf("failed to write account linkage: %v", err).Error()
		return result
	}

	s.logger.Info().
		Str("rollNo", student.RollNumber).
		Str("path", docPath).
		Bool("accountCreated", created).
		Msg("Student provisioned")
	return result
}

// ensureAccount returns the identity account id for the email, creating the
// account when absent. Creation racing against an out-of-band registration is
// resolved by re-querying, so the flow is idempotent across reruns. Every
// provider call runs under its own deadline.
func (s *ProvisionerService) ensureAccount(ctx context.Context, accountEmail, password string) (accountID string, created bool, err error) {
	accountID, err = s.lookupAccount(ctx, accountEmail)
	if err != nil {
		return "", false, fmt.Errorf("account lookup failed: %w", err)
	}
	if accountID != "" {
		return accountID, false, nil
	}

	callCtx, cancel := identityCallContext(ctx, s.identityTimeout)
	accountID, err = s.identity.CreateAccount(callCtx, accountEmail, password)
	cancel()
	if err == nil {
		return accountID, true, nil
	}
	if errors.Is(err, identity.ErrAccountExists) {
		accountID, err = s.lookupAccount(ctx, accountEmail)
		if err != nil {
			return "", false, fmt.Errorf("account lookup after create conflict failed: %w", err)
		}
		if accountID == "" {
			return "", false, fmt.Errorf("provider reports account exists but lookup found none for %s", accountEmail)
		}
		return accountID, false, nil
	}
	return "", false, err
}

func (s *ProvisionerService) lookupAccount(ctx context.Context, accountEmail string) (string, error) {
	callCtx, cancel := identityCallContext(ctx, s.identityTimeout)
	defer cancel()
	return s.identity.AccountIDByEmail(callCtx, accountEmail)
}

// writeLinkage records the account id in three places: the primary record,
// the flat account-id index, and an alias pointer next to the primary record.
// All three are merge-writes, so reruns converge instead of conflicting.
func (s *ProvisionerService) writeLinkage(
	ctx context.Context,
	docPath string,
	key models.GroupKey,
	student *models.StudentRecord,
	accountEmail, accountID string,
) error {
	primary := map[string]interface{}{
		"authUid":       accountID,
		"authEmail":     accountEmail,
		"authCreatedAt": firestore.ServerTimestamp,
		"rollNoWithUid": student.RollNumber + "_" + accountID,
	}
	if err := s.store.MergeSet(ctx, docPath, primary); err != nil {
		return fmt.Errorf("primary record: %w", err)
	}

	indexDoc := map[string]interface{}{
		"authUid":        accountID,
		"authEmail":      accountEmail,
		"department":     key.Department,
		"year":           key.Year,
		"section":        key.Section,
		"rollNo":         student.RollNumber,
		"primaryDocPath": docPath,
		"updatedAt":      firestore.ServerTimestamp,
	}
	if err := s.index.Put(ctx, s.addresser.IndexDocPath(accountID), indexDoc); err != nil {
		return fmt.Errorf("account index: %w", err)
	}

	aliasPath := s.addresser.AliasDocPath(key, accountID)
	if aliasPath == docPath {
		return nil
	}
	aliasDoc := map[string]interface{}{
		"isAlias":        true,
		"authUid":        accountID,
		"primaryDocId":   student.DocumentID(),
		"primaryDocPath": docPath,
		"department":     key.Department,
		"year":           key.Year,
		"section":        key.Section,
		"createdAt":      firestore.ServerTimestamp,
	}
	if err := s.index.PutAlias(ctx, aliasPath, aliasDoc); err != nil {
		return fmt.Errorf("alias pointer: %w", err)
	}
	return nil
}
