package services

import (
	"context"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitsdash/campuskeys/internal/app/directory"
	"github.com/mitsdash/campuskeys/internal/app/models"
	"github.com/mitsdash/campuskeys/internal/pkg/apperrors"
	"github.com/mitsdash/campuskeys/internal/pkg/pacing"
)

func newLifecycleFixture() (*LifecycleService, *fakeStudentStore, *fakeIdentity) {
	return newLifecycleFixtureWithTimeout(0)
}

func newLifecycleFixtureWithTimeout(identityTimeout time.Duration) (*LifecycleService, *fakeStudentStore, *fakeIdentity) {
	store := newFakeStudentStore()
	idp := newFakeIdentity()
	departments := directory.NewDepartments()
	svc := NewLifecycleService(
		store,
		idp,
		directory.NewGroupResolver(departments),
		directory.NewPathAddresser(departments),
		pacing.Nop{},
		identityTimeout,
		zerolog.Nop(),
	)
	return svc, store, idp
}

func lifecycleStudent() models.StudentRecord {
	return models.StudentRecord{
		RollNumber:  "21CSE045",
		Name:        "Asha Verma",
		Department:  "Computer Science & Engineering",
		Year:        "III",
		Section:     "A",
		StoragePath: "students/CSE/A-III/21CSE045",
	}
}

func TestLifecycleActivate(t *testing.T) {
	svc, store, _ := newLifecycleFixture()

	summary, err := svc.Execute(context.Background(), models.OpActivate, []models.StudentRecord{lifecycleStudent()}, nil)

	require.NoError(t, err)
	assert.Len(t, summary.Succeeded, 1)
	assert.Empty(t, summary.Failed)
	doc := store.merged("students/CSE/A-III/21CSE045")
	assert.Equal(t, true, doc["isActive"])
	assert.Equal(t, lifecycleActor, doc["activatedBy"])
	assert.Equal(t, firestore.ServerTimestamp, doc["activatedAt"])
}

func TestLifecycleDeactivate(t *testing.T) {
	svc, store, _ := newLifecycleFixture()

	summary, err := svc.Execute(context.Background(), models.OpDeactivate, []models.StudentRecord{lifecycleStudent()}, nil)

	require.NoError(t, err)
	assert.Len(t, summary.Succeeded, 1)
	doc := store.merged("students/CSE/A-III/21CSE045")
	assert.Equal(t, false, doc["isActive"])
	assert.Equal(t, lifecycleActor, doc["deactivatedBy"])
}

func TestLifecycleDeleteClearsCredentialFieldsOnly(t *testing.T) {
	svc, store, _ := newLifecycleFixture()

	summary, err := svc.Execute(context.Background(), models.OpDelete, []models.StudentRecord{lifecycleStudent()}, nil)

	require.NoError(t, err)
	assert.Len(t, summary.Succeeded, 1)
	assert.Equal(t, deleteWarning, summary.Warning)

	doc := store.merged("students/CSE/A-III/21CSE045")
	for _, field := range []string{"username", "password", "authUid", "authEmail", "rollNoWithUid", "credentialsGeneratedAt", "credentialsPattern"} {
		assert.Equal(t, firestore.Delete, doc[field], "field %s should be cleared", field)
	}
	assert.Equal(t, false, doc["hasLoginCredentials"])
	assert.Equal(t, false, doc["isActive"])
	assert.Equal(t, lifecycleActor, doc["deletedBy"])
}

func TestLifecycleResetPasswordLinkedAccount(t *testing.T) {
	svc, store, idp := newLifecycleFixture()
	student := lifecycleStudent()
	student.AccountID = "uid-1"
	student.GeneratedEmail = "21cse045@mits.ac.in"

	summary, err := svc.Execute(context.Background(), models.OpResetPassword, []models.StudentRecord{student}, nil)

	require.NoError(t, err)
	assert.Len(t, summary.Succeeded, 1)
	doc := store.merged("students/CSE/A-III/21CSE045")
	assert.Equal(t, lifecycleActor, doc["passwordResetBy"])
	assert.Equal(t, []string{"21cse045@mits.ac.in"}, idp.resets)
}

func TestLifecycleResetPasswordUnlinkedSkipsProvider(t *testing.T) {
	svc, store, idp := newLifecycleFixture()

	summary, err := svc.Execute(context.Background(), models.OpResetPassword, []models.StudentRecord{lifecycleStudent()}, nil)

	require.NoError(t, err)
	assert.Len(t, summary.Succeeded, 1)
	assert.Empty(t, idp.resets, "no linked account means no provider reset")
	assert.Equal(t, lifecycleActor, store.merged("students/CSE/A-III/21CSE045")["passwordResetBy"])
}

func TestLifecycleBoundsHungProviderResetPerItem(t *testing.T) {
	svc, _, idp := newLifecycleFixtureWithTimeout(15 * time.Millisecond)
	idp.resetHangs = true
	linked := lifecycleStudent()
	linked.AccountID = "uid-1"
	linked.GeneratedEmail = "21cse045@mits.ac.in"
	unlinked := lifecycleStudent()
	unlinked.RollNumber = "21CSE046"
	unlinked.StoragePath = "students/CSE/A-III/21CSE046"

	summary, err := svc.Execute(context.Background(), models.OpResetPassword, []models.StudentRecord{linked, unlinked}, nil)

	// The hung provider call fails only the linked student; the run reaches
	// the next item instead of stalling until the HTTP deadline.
	require.NoError(t, err)
	require.Len(t, summary.Failed, 1)
	assert.Equal(t, "21CSE045", summary.Failed[0].RollNumber)
	assert.Contains(t, summary.Failed[0].Error, context.DeadlineExceeded.Error())
	require.Len(t, summary.Succeeded, 1)
	assert.Equal(t, "21CSE046", summary.Succeeded[0].RollNumber)
}

func TestLifecycleRejectsUnknownOperation(t *testing.T) {
	svc, store, _ := newLifecycleFixture()

	_, err := svc.Execute(context.Background(), "demolish", []models.StudentRecord{lifecycleStudent()}, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnknownOperation)
	assert.Zero(t, store.writeCount())
}

func TestLifecycleIsolatesItemFailures(t *testing.T) {
	svc, store, _ := newLifecycleFixture()
	store.writeErr["students/CSE/A-III/21CSE045"] = assert.AnError
	other := lifecycleStudent()
	other.RollNumber = "21CSE046"
	other.StoragePath = "students/CSE/A-III/21CSE046"

	summary, err := svc.Execute(context.Background(), models.OpActivate, []models.StudentRecord{lifecycleStudent(), other}, nil)

	require.NoError(t, err)
	require.Len(t, summary.Failed, 1)
	assert.Equal(t, "21CSE045", summary.Failed[0].RollNumber)
	assert.NotEmpty(t, summary.Failed[0].Error)
	require.Len(t, summary.Succeeded, 1)
	assert.Equal(t, "21CSE046", summary.Succeeded[0].RollNumber)
}

func TestLifecycleDerivesPathWhenMissing(t *testing.T) {
	svc, store, _ := newLifecycleFixture()
	student := lifecycleStudent()
	student.StoragePath = ""

	summary, err := svc.Execute(context.Background(), models.OpActivate, []models.StudentRecord{student}, nil)

	require.NoError(t, err)
	assert.Len(t, summary.Succeeded, 1)
	assert.NotEmpty(t, store.merged("students/CSE/A-III/21CSE045"))
}

func TestLifecycleReportsProgress(t *testing.T) {
	svc, _, _ := newLifecycleFixture()
	second := lifecycleStudent()
	second.RollNumber = "21CSE046"
	second.StoragePath = "students/CSE/A-III/21CSE046"

	var progress []models.Progress
	summary, err := svc.Execute(context.Background(), models.OpActivate, []models.StudentRecord{lifecycleStudent(), second}, func(p models.Progress) {
		progress = append(progress, p)
	})

	require.NoError(t, err)
	assert.Equal(t, []models.Progress{{Current: 1, Total: 2}, {Current: 2, Total: 2}}, progress)
	assert.Equal(t, models.Progress{Current: 2, Total: 2}, summary.Progress)
}

func TestLifecycleStopsBetweenItemsOnCancel(t *testing.T) {
	svc, _, _ := newLifecycleFixture()
	ctx, cancel := context.WithCancel(context.Background())
	second := lifecycleStudent()
	second.RollNumber = "21CSE046"
	second.StoragePath = "students/CSE/A-III/21CSE046"

	summary, err := svc.Execute(ctx, models.OpActivate, []models.StudentRecord{lifecycleStudent(), second}, func(models.Progress) {
		cancel()
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrOperationCancelled)
	assert.Len(t, summary.Succeeded, 1, "items finished before the cancel stay applied")
	assert.Equal(t, 1, summary.Progress.Current)
}
