package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/mitsdash/campuskeys/internal/app/models"
	"github.com/mitsdash/campuskeys/internal/identity"
	"github.com/mitsdash/campuskeys/internal/pkg/apperrors"
)

// fakeStudentStore is an in-memory StudentStore recording every merge-write.
type fakeStudentStore struct {
	mu       sync.Mutex
	records  map[string]*models.StudentRecord
	lists    map[string][]models.StudentRecord
	writes   map[string][]map[string]interface{}
	writeErr map[string]error
	listErr  map[string]error
}

func newFakeStudentStore() *fakeStudentStore {
	return &fakeStudentStore{
		records:  make(map[string]*models.StudentRecord),
		lists:    make(map[string][]models.StudentRecord),
		writes:   make(map[string][]map[string]interface{}),
		writeErr: make(map[string]error),
		listErr:  make(map[string]error),
	}
}

func (f *fakeStudentStore) GetByPath(_ context.Context, docPath string) (*models.StudentRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if record, ok := f.records[docPath]; ok {
		copied := *record
		return &copied, nil
	}
	return nil, fmt.Errorf("%w: %s", apperrors.ErrStudentNotFound, docPath)
}

func (f *fakeStudentStore) ListCollection(_ context.Context, collectionPath string) ([]models.StudentRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.listErr[collectionPath]; err != nil {
		return nil, err
	}
	return append([]models.StudentRecord(nil), f.lists[collectionPath]...), nil
}

func (f *fakeStudentStore) MergeSet(_ context.Context, docPath string, fields map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.writeErr[docPath]; err != nil {
		return err
	}
	f.writes[docPath] = append(f.writes[docPath], fields)
	return nil
}

// merged flattens all merge-writes applied to one document, later writes
// winning, mirroring what the real store would hold.
func (f *fakeStudentStore) merged(docPath string) map[string]interface{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]interface{})
	for _, write := range f.writes[docPath] {
		for k, v := range write {
			out[k] = v
		}
	}
	return out
}

func (f *fakeStudentStore) writeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, writes := range f.writes {
		n += len(writes)
	}
	return n
}

// fakeAccountIndex is an in-memory AccountIndexStore.
type fakeAccountIndex struct {
	mu      sync.Mutex
	entries map[string]*models.AccountIndexEntry
	puts    map[string]map[string]interface{}
	aliases map[string]map[string]interface{}
}

func newFakeAccountIndex() *fakeAccountIndex {
	return &fakeAccountIndex{
		entries: make(map[string]*models.AccountIndexEntry),
		puts:    make(map[string]map[string]interface{}),
		aliases: make(map[string]map[string]interface{}),
	}
}

func (f *fakeAccountIndex) Get(_ context.Context, docPath string) (*models.AccountIndexEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if entry, ok := f.entries[docPath]; ok {
		copied := *entry
		return &copied, nil
	}
	return nil, fmt.Errorf("%w: %s", apperrors.ErrResourceNotFound, docPath)
}

func (f *fakeAccountIndex) Put(_ context.Context, docPath string, fields map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.puts[docPath] = fields
	return nil
}

func (f *fakeAccountIndex) PutAlias(_ context.Context, docPath string, fields map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.aliases[docPath] = fields
	return nil
}

// fakeIdentity is a scriptable identity.Service.
type fakeIdentity struct {
	mu       sync.Mutex
	accounts map[string]string // email -> account id
	nextID   string

	lookupErr error
	createErr map[string]error // email -> forced creation failure
	resetErr  error

	// resetHangs makes SendPasswordReset block until the caller's context
	// expires.
	resetHangs bool

	// createHangs makes CreateAccount block until the caller's context
	// expires, like a provider that stops answering.
	createHangs bool

	// createRacesWithExisting makes CreateAccount behave as if another writer
	// registered the email first: the account appears and ErrAccountExists is
	// returned.
	createRacesWithExisting bool

	created []string
	resets  []string
}

func newFakeIdentity() *fakeIdentity {
	return &fakeIdentity{
		accounts:  make(map[string]string),
		createErr: make(map[string]error),
		nextID:    "uid-new",
	}
}

func (f *fakeIdentity) AccountIDByEmail(_ context.Context, email string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.lookupErr != nil {
		return "", f.lookupErr
	}
	return f.accounts[email], nil
}

func (f *fakeIdentity) CreateAccount(ctx context.Context, email, _ string) (string, error) {
	if f.createHangs {
		<-ctx.Done()
		return "", ctx.Err()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.createErr[email]; err != nil {
		return "", err
	}
	if _, ok := f.accounts[email]; ok {
		return "", fmt.Errorf("%w: %s", identity.ErrAccountExists, email)
	}
	if f.createRacesWithExisting {
		f.accounts[email] = "uid-raced"
		return "", fmt.Errorf("%w: %s", identity.ErrAccountExists, email)
	}
	f.accounts[email] = f.nextID
	f.created = append(f.created, email)
	return f.nextID, nil
}

func (f *fakeIdentity) SendPasswordReset(ctx context.Context, email, _ string) error {
	if f.resetHangs {
		<-ctx.Done()
		return ctx.Err()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.resetErr != nil {
		return f.resetErr
	}
	f.resets = append(f.resets, email)
	return nil
}
