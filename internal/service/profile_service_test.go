package service

import (
	"context"
	"errors"
	"testing"

	"alcyxob/trainer-link/internal/domain"
	"alcyxob/trainer-link/internal/logging"
	"alcyxob/trainer-link/internal/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type profileFixture struct {
	svc      ProfileService
	profiles *fakeProfiles
	dir      *fakeDirectory
	files    *fakeStorage

	trainer domain.TrainerPublic
	student uuid.UUID
}

func newProfileFixture(t *testing.T) *profileFixture {
	t.Helper()
	profiles := newFakeProfiles()
	trainer := domain.TrainerPublic{ID: uuid.New(), DisplayName: "Coach", TrainerKey: "ABCD-EFGH"}
	profiles.put(&domain.Profile{UserID: trainer.ID, Role: domain.RoleTrainer, DisplayName: "Coach", TrainerKey: strPtr(trainer.TrainerKey)})

	student := uuid.New()
	profiles.put(&domain.Profile{UserID: student, Role: domain.RoleStudent, DisplayName: "Aluno", TrainerID: &trainer.ID})

	dir := &fakeDirectory{
		trainers: []domain.TrainerPublic{trainer},
		students: map[uuid.UUID][]domain.StudentSummary{
			trainer.ID: {{UserID: student, DisplayName: strPtr("Aluno")}},
		},
	}
	files := &fakeStorage{}
	keys := newTestKeyService(profiles, dir)
	return &profileFixture{
		svc:      NewProfileService(profiles, dir, keys, files, logging.Nop()),
		profiles: profiles,
		dir:      dir,
		files:    files,
		trainer:  trainer,
		student:  student,
	}
}

func TestGetOwnProfileWithTrainer(t *testing.T) {
	f := newProfileFixture(t)

	got, err := f.svc.GetOwnProfileWithTrainer(context.Background(), f.student)
	require.NoError(t, err)
	assert.Equal(t, "Aluno", got.DisplayName)
	require.NotNil(t, got.Trainer)
	assert.Equal(t, f.trainer, *got.Trainer)

	got, err = f.svc.GetOwnProfileWithTrainer(context.Background(), f.trainer.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Trainer)

	_, err = f.svc.GetOwnProfileWithTrainer(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestGetOwnProfileWithTrainer_MissingTrainerCard(t *testing.T) {
	f := newProfileFixture(t)
	f.dir.trainers = nil

	got, err := f.svc.GetOwnProfileWithTrainer(context.Background(), f.student)
	require.NoError(t, err)
	assert.Nil(t, got.Trainer)
}

func TestUpdateOwnProfile(t *testing.T) {
	f := newProfileFixture(t)
	g := domain.GenderOther

	got, err := f.svc.UpdateOwnProfile(context.Background(), f.student, domain.ProfilePatch{
		DisplayName: strPtr("  Novo Nome "),
		Phone:       strPtr("+5511912345678"),
		Bio:         strPtr("treino de força"),
		Gender:      &g,
	})
	require.NoError(t, err)
	assert.Equal(t, "Novo Nome", got.DisplayName)
	assert.Equal(t, "+5511912345678", *got.Phone)
	assert.Equal(t, "treino de força", *got.Bio)
	assert.Equal(t, domain.GenderOther, *got.Gender)
	// not patchable
	assert.Equal(t, domain.RoleStudent, got.Role)
	assert.Equal(t, f.trainer.ID, *got.TrainerID)

	got, err = f.svc.UpdateOwnProfile(context.Background(), f.student, domain.ProfilePatch{Phone: strPtr("")})
	require.NoError(t, err)
	assert.Nil(t, got.Phone)
}

func TestUpdateOwnProfile_Invalid(t *testing.T) {
	f := newProfileFixture(t)
	bad := domain.Gender("x")

	for name, patch := range map[string]domain.ProfilePatch{
		"blank name": {DisplayName: strPtr(" ")},
		"bad phone":  {Phone: strPtr("11 91234-5678")},
		"bad gender": {Gender: &bad},
	} {
		_, err := f.svc.UpdateOwnProfile(context.Background(), f.student, patch)
		assert.ErrorIs(t, err, ErrInvalidProfile, name)
	}
}

func TestUpdateOwnProfile_EmptyPatchReturnsCurrent(t *testing.T) {
	f := newProfileFixture(t)
	f.profiles.updateErr = errors.New("must not be called")

	got, err := f.svc.UpdateOwnProfile(context.Background(), f.student, domain.ProfilePatch{})
	require.NoError(t, err)
	assert.Equal(t, "Aluno", got.DisplayName)
}

func TestListMyStudents(t *testing.T) {
	f := newProfileFixture(t)

	got, err := f.svc.ListMyStudents(context.Background(), f.trainer.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, f.student, got[0].UserID)

	_, err = f.svc.ListMyStudents(context.Background(), f.student)
	assert.ErrorIs(t, err, ErrNotTrainer)
}

func TestListMyStudents_EmptyIsNotNil(t *testing.T) {
	f := newProfileFixture(t)
	f.dir.students = nil

	got, err := f.svc.ListMyStudents(context.Background(), f.trainer.ID)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestRequestAvatarUpload(t *testing.T) {
	f := newProfileFixture(t)

	got, err := f.svc.RequestAvatarUpload(context.Background(), f.student, "image/png")
	require.NoError(t, err)
	wantKey := f.student.String() + "/avatar.png"
	assert.Equal(t, wantKey, got.ObjectKey)
	assert.Equal(t, fakeStorageBase+wantKey, got.PublicURL)
	assert.Contains(t, got.UploadURL, wantKey)
	assert.Equal(t, []string{wantKey}, f.files.presigned)

	_, err = f.svc.RequestAvatarUpload(context.Background(), f.student, "text/plain")
	assert.ErrorIs(t, err, storage.ErrUnsupportedContentType)
}

func TestLinkTrainer(t *testing.T) {
	f := newProfileFixture(t)
	other := domain.TrainerPublic{ID: uuid.New(), DisplayName: "Outra", TrainerKey: "JKLM-NPQR"}
	f.dir.trainers = append(f.dir.trainers, other)

	got, err := f.svc.LinkTrainer(context.Background(), f.student, "jklm-npqr")
	require.NoError(t, err)
	assert.Equal(t, other.ID, got.ID)

	p, _ := f.profiles.GetByUserID(context.Background(), f.student)
	assert.Equal(t, other.ID, *p.TrainerID)

	_, err = f.svc.LinkTrainer(context.Background(), f.student, "ZZZZ-ZZZZ")
	assert.ErrorIs(t, err, ErrInvalidTrainerKey)

	_, err = f.svc.LinkTrainer(context.Background(), f.trainer.ID, "JKLM-NPQR")
	assert.ErrorIs(t, err, ErrNotStudent)
}
