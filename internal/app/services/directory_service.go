package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mitsdash/campuskeys/internal/app/directory"
	"github.com/mitsdash/campuskeys/internal/app/models"
	"github.com/mitsdash/campuskeys/internal/pkg/apperrors"
	"github.com/mitsdash/campuskeys/internal/pkg/metrics"
)

// SearchField selects which record field a directory search matches against.
type SearchField string

const (
	SearchAll        SearchField = "all"
	SearchAccountID  SearchField = "accountId"
	SearchEmail      SearchField = "email"
	SearchRollNumber SearchField = "rollNumber"
	SearchName       SearchField = "name"
)

// StatusFilter narrows directory results by credential state.
type StatusFilter string

const (
	StatusAny      StatusFilter = ""
	StatusActive   StatusFilter = "active"
	StatusInactive StatusFilter = "inactive"
	// StatusPartial selects records holding credentials without a linked
	// identity account, the state left behind by interrupted provisioning.
	StatusPartial StatusFilter = "partial"
)

// romanYears enumerates the study years used in group segments.
var romanYears = []string{"I", "II", "III", "IV"}

// sectionLetters enumerates the section space scanned during full
// enumeration. Sections are single letters by convention.
const sectionLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// DirectoryService lists and searches student records across the
// hierarchical store, tolerating the historical path variants.
type DirectoryService struct {
	store       StudentStore
	index       AccountIndexStore
	resolver    *directory.GroupResolver
	addresser   *directory.PathAddresser
	departments *directory.Departments
	logger      zerolog.Logger
}

// NewDirectoryService creates a new directory service instance.
func NewDirectoryService(
	store StudentStore,
	index AccountIndexStore,
	resolver *directory.GroupResolver,
	addresser *directory.PathAddresser,
	departments *directory.Departments,
	logger zerolog.Logger,
) *DirectoryService {
	return &DirectoryService{
		store:       store,
		index:       index,
		resolver:    resolver,
		addresser:   addresser,
		departments: departments,
		logger:      logger,
	}
}

// List returns the records inside the scope. An unscoped filter enumerates
// the full organizational space, which is expensive and counted separately.
func (s *DirectoryService) List(ctx context.Context, filter models.ScopeFilter) ([]models.StudentRecord, error) {
	if filter.IsUnscoped() {
		metrics.DirectoryScansTotal.Inc()
		s.logger.Info().Msg("Enumerating the full organizational space")
	}

	var records []models.StudentRecord
	seen := make(map[string]struct{})
	for _, key := range s.groupKeys(filter) {
		loaded, err := s.loadGroup(ctx, key)
		if err != nil {
			return nil, err
		}
		for i := range loaded {
			record := loaded[i]
			// One logical record may be readable under several legacy paths;
			// the first path that yields it wins.
			dedupKey := record.RollNumber + "|" + s.departments.ShortCode(s.resolver.Resolve(&record).Department)
			if _, dup := seen[dedupKey]; dup {
				continue
			}
			seen[dedupKey] = struct{}{}
			records = append(records, record)
		}
	}
	return records, nil
}

// Search returns records in scope whose selected field contains the query,
// case-insensitively, further narrowed by credential status. An empty query
// matches everything in scope.
func (s *DirectoryService) Search(
	ctx context.Context,
	query string,
	field SearchField,
	filter models.ScopeFilter,
	status StatusFilter,
) ([]models.StudentRecord, error) {
	records, err := s.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(query))
	matched := make([]models.StudentRecord, 0, len(records))
	for i := range records {
		record := records[i]
		if !matchesStatus(&record, status) {
			continue
		}
		if needle == "" || s.matchesQuery(&record, needle, field) {
			matched = append(matched, record)
		}
	}
	return matched, nil
}

// FindByAccountID resolves an identity account id to its primary student
// record, preferring the flat index and falling back to a full scan for
// records provisioned before the index existed.
func (s *DirectoryService) FindByAccountID(ctx context.Context, accountID string) (*models.StudentRecord, error) {
	if strings.TrimSpace(accountID) == "" {
		return nil, apperrors.NewBadRequestError("empty account id")
	}

	entry, err := s.index.Get(ctx, s.addresser.IndexDocPath(accountID))
	switch {
	case err == nil && entry.PrimaryDocPath != "":
		record, err := s.store.GetByPath(ctx, entry.PrimaryDocPath)
		if err == nil {
			return record, nil
		}
		if !errors.Is(err, apperrors.ErrStudentNotFound) {
			return nil, err
		}
		// Stale index entry; fall through to the scan.
		s.logger.Warn().Str("accountId", accountID).Str("path", entry.PrimaryDocPath).Msg("Account index points at a missing record")
	case err != nil && !errors.Is(err, apperrors.ErrResourceNotFound):
		return nil, err
	}

	records, err := s.List(ctx, models.ScopeFilter{})
	if err != nil {
		return nil, err
	}
	for i := range records {
		if records[i].AccountID == accountID {
			return &records[i], nil
		}
	}
	return nil, fmt.Errorf("%w: no record linked to account %s", apperrors.ErrStudentNotFound, accountID)
}

// groupKeys expands a scope filter into concrete group keys. Empty dimensions
// fan out over the whole known space for that dimension.
func (s *DirectoryService) groupKeys(filter models.ScopeFilter) []models.GroupKey {
	departmentNames := s.departments.FullNames()
	if filter.Department != "" {
		departmentNames = []string{filter.Department}
	}
	years := romanYears
	if filter.Year != "" {
		years = []string{filter.Year}
	}
	sections := strings.Split(sectionLetters, "")
	if filter.Section != "" {
		sections = []string{filter.Section}
	}

	keys := make([]models.GroupKey, 0, len(departmentNames)*len(years)*len(sections))
	for _, dept := range departmentNames {
		for _, year := range years {
			for _, section := range sections {
				keys = append(keys, models.GroupKey{Department: dept, Year: year, Section: section})
			}
		}
	}
	return keys
}

// loadGroup reads one group from every plausible legacy path, skipping alias
// pointer documents.
func (s *DirectoryService) loadGroup(ctx context.Context, key models.GroupKey) ([]models.StudentRecord, error) {
	var records []models.StudentRecord
	for _, path := range s.addresser.ReadCollectionPaths(key) {
		loaded, err := s.store.ListCollection(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("failed to load group at %s: %w", path, err)
		}
		for i := range loaded {
			if loaded[i].IsAlias {
				continue
			}
			records = append(records, loaded[i])
		}
	}
	return records, nil
}

// matchesQuery applies the case-insensitive substring match for the selected
// field. Account ids additionally match their truncated display form, the
// first eight characters followed by an ellipsis, because that is what
// operators copy out of the dashboard.
func (s *DirectoryService) matchesQuery(record *models.StudentRecord, needle string, field SearchField) bool {
	switch field {
	case SearchAccountID:
		return matchesAccountID(record.AccountID, needle)
	case SearchEmail:
		return contains(record.Email, needle) || contains(record.GeneratedEmail, needle)
	case SearchRollNumber:
		return contains(record.RollNumber, needle)
	case SearchName:
		return contains(record.DisplayName(), needle)
	case SearchAll, "":
		return contains(record.RollNumber, needle) ||
			contains(record.DisplayName(), needle) ||
			contains(record.Email, needle) ||
			contains(record.GeneratedEmail, needle) ||
			contains(record.Username, needle) ||
			matchesAccountID(record.AccountID, needle)
	default:
		return false
	}
}

func matchesStatus(record *models.StudentRecord, status StatusFilter) bool {
	switch status {
	case StatusActive:
		return record.IsActive
	case StatusInactive:
		return !record.IsActive
	case StatusPartial:
		return record.PartiallyProvisioned()
	default:
		return true
	}
}

func matchesAccountID(accountID, needle string) bool {
	if accountID == "" {
		return false
	}
	if contains(accountID, needle) {
		return true
	}
	if len(accountID) > 8 {
		return contains(accountID[:8]+"...", needle)
	}
	return false
}

func contains(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), needle)
}
