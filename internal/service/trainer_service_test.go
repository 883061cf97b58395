package service

import (
	"context"
	"errors"
	"testing"

	"alcyxob/trainer-link/internal/domain"
	"alcyxob/trainer-link/internal/logging"
	"alcyxob/trainer-link/internal/repository"
	"alcyxob/trainer-link/internal/trainerkey"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestKeyService(profiles *fakeProfiles, dir *fakeDirectory, keys ...string) *trainerKeyService {
	svc := NewTrainerKeyService(profiles, dir, logging.Nop()).(*trainerKeyService)
	if len(keys) > 0 {
		i := 0
		svc.generate = func() string {
			k := keys[i%len(keys)]
			i++
			return k
		}
	}
	return svc
}

func TestValidateKey_ProcedureHitOnRawForm(t *testing.T) {
	trainer := domain.TrainerPublic{ID: uuid.New(), TrainerKey: "AB12CD34"}
	dir := &fakeDirectory{trainers: []domain.TrainerPublic{trainer}}
	svc := newTestKeyService(newFakeProfiles(), dir)

	id, found, err := svc.ValidateKey(context.Background(), "ab12-cd34")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, trainer.ID, id)
	assert.Equal(t, []dirCall{{method: "validate", key: "AB12CD34"}}, dir.calls)
}

func TestValidateKey_ProcedureHitOnDisplayForm(t *testing.T) {
	trainer := domain.TrainerPublic{ID: uuid.New(), TrainerKey: "AB12-CD34"}
	dir := &fakeDirectory{trainers: []domain.TrainerPublic{trainer}}
	svc := newTestKeyService(newFakeProfiles(), dir)

	id, found, err := svc.ValidateKey(context.Background(), " ab12cd34 ")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, trainer.ID, id)
	assert.Equal(t, []dirCall{
		{method: "validate", key: "AB12CD34"},
		{method: "validate", key: "AB12-CD34"},
	}, dir.calls)
}

func TestValidateKey_AnyTypedFormMatchesNormalizedRaw(t *testing.T) {
	trainer := domain.TrainerPublic{ID: uuid.New(), TrainerKey: "AB12-CD34"}

	for _, input := range []string{"ab12-cd34", "AB12CD34", " ab12 cd34 "} {
		t.Run(input, func(t *testing.T) {
			validate := func(key string) (uuid.UUID, bool) {
				dir := &fakeDirectory{
					trainers:    []domain.TrainerPublic{trainer},
					validateErr: errors.New("connection refused"),
				}
				id, found, err := newTestKeyService(newFakeProfiles(), dir).ValidateKey(context.Background(), key)
				require.NoError(t, err)
				return id, found
			}

			id, found := validate(input)
			assert.True(t, found)
			assert.Equal(t, trainer.ID, id)

			rawID, rawFound := validate(trainerkey.Normalize(input).Raw)
			assert.Equal(t, found, rawFound)
			assert.Equal(t, id, rawID)
		})
	}
}

func TestValidateKey_FallbackWhenProcedureFails(t *testing.T) {
	// stored lowercase so only the case-insensitive display lookup matches
	trainer := domain.TrainerPublic{ID: uuid.New(), TrainerKey: "ab12-cd34"}
	dir := &fakeDirectory{
		trainers:    []domain.TrainerPublic{trainer},
		validateErr: errors.New("function validate_trainer_key does not exist"),
	}
	svc := newTestKeyService(newFakeProfiles(), dir)

	id, found, err := svc.ValidateKey(context.Background(), "AB12CD34")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, trainer.ID, id)

	// procedure stops at its first failure
	assert.Len(t, dir.callsTo("validate"), 1)
	assert.Equal(t, []dirCall{
		{method: "find", key: "AB12CD34"},
		{method: "find", key: "AB12-CD34"},
		{method: "find", key: "AB12CD34", ignoreCase: true},
		{method: "find", key: "AB12-CD34", ignoreCase: true},
	}, dir.callsTo("find"))
}

func TestValidateKey_NotFoundIsNotAnError(t *testing.T) {
	dir := &fakeDirectory{}
	svc := newTestKeyService(newFakeProfiles(), dir)

	id, found, err := svc.ValidateKey(context.Background(), "ZZZZ-ZZZZ")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, uuid.Nil, id)
	assert.Len(t, dir.callsTo("validate"), 2)
	assert.Len(t, dir.callsTo("find"), 4)
}

func TestValidateKey_IncompleteKeySkipsLookups(t *testing.T) {
	for _, input := range []string{"", "---", "AB12", "AB12-CD3", "ÄÖÜ"} {
		dir := &fakeDirectory{}
		svc := newTestKeyService(newFakeProfiles(), dir)

		_, found, err := svc.ValidateKey(context.Background(), input)
		require.NoError(t, err, input)
		assert.False(t, found, input)
		assert.Empty(t, dir.calls, input)
	}
}

func TestValidateKey_StoreUnavailable(t *testing.T) {
	boom := errors.New("connection refused")
	dir := &fakeDirectory{validateErr: boom, findErr: boom}
	svc := newTestKeyService(newFakeProfiles(), dir)

	_, found, err := svc.ValidateKey(context.Background(), "AB12CD34")
	assert.False(t, found)
	assert.ErrorIs(t, err, ErrTrainerDirectoryUnavailable)
	assert.ErrorIs(t, err, boom)
}

func TestAssignUniqueKey_FirstAttempt(t *testing.T) {
	profiles := newFakeProfiles()
	userID := uuid.New()
	profiles.put(&domain.Profile{UserID: userID, Role: domain.RoleTrainer})
	phone := "+5511999990000"

	svc := newTestKeyService(profiles, &fakeDirectory{}, "QWER-TY23")
	key, err := svc.AssignUniqueKey(context.Background(), userID, TrainerSignup{DisplayName: "Ana", Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "QWER-TY23", key)

	p, err := profiles.GetByUserID(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleTrainer, p.Role)
	assert.Equal(t, "Ana", p.DisplayName)
	require.NotNil(t, p.TrainerKey)
	assert.Equal(t, "QWER-TY23", *p.TrainerKey)
	assert.Nil(t, p.TrainerID)
	assert.Len(t, profiles.setKeyCalls, 1)
}

func TestAssignUniqueKey_RetriesOnCollision(t *testing.T) {
	profiles := newFakeProfiles()
	profiles.put(&domain.Profile{UserID: uuid.New(), Role: domain.RoleTrainer, TrainerKey: strPtr("AAAA-AAAA")})
	userID := uuid.New()
	profiles.put(&domain.Profile{UserID: userID, Role: domain.RoleTrainer})

	svc := newTestKeyService(profiles, &fakeDirectory{}, "AAAA-AAAA", "AAAA-AAAA", "BBBB-BBBB")
	key, err := svc.AssignUniqueKey(context.Background(), userID, TrainerSignup{DisplayName: "Bia"})
	require.NoError(t, err)
	assert.Equal(t, "BBBB-BBBB", key)
	assert.Len(t, profiles.setKeyCalls, 3)
}

func TestAssignUniqueKey_Exhausted(t *testing.T) {
	profiles := newFakeProfiles()
	userID := uuid.New()
	profiles.put(&domain.Profile{UserID: userID, Role: domain.RoleTrainer})
	profiles.setKeyErrs = []error{
		repository.ErrConflict, repository.ErrConflict, repository.ErrConflict,
		repository.ErrConflict, repository.ErrConflict, repository.ErrConflict,
	}

	svc := newTestKeyService(profiles, &fakeDirectory{})
	key, err := svc.AssignUniqueKey(context.Background(), userID, TrainerSignup{DisplayName: "Caio"})
	assert.Empty(t, key)
	assert.ErrorIs(t, err, ErrTrainerKeyExhausted)
	assert.Len(t, profiles.setKeyCalls, maxKeyAttempts)

	p, _ := profiles.GetByUserID(context.Background(), userID)
	assert.Nil(t, p.TrainerKey)
}

func TestAssignUniqueKey_FatalErrorStopsImmediately(t *testing.T) {
	profiles := newFakeProfiles()
	userID := uuid.New()
	profiles.put(&domain.Profile{UserID: userID, Role: domain.RoleTrainer})
	boom := errors.New("permission denied for table profiles")
	profiles.setKeyErrs = []error{repository.ErrConflict, boom}

	svc := newTestKeyService(profiles, &fakeDirectory{})
	_, err := svc.AssignUniqueKey(context.Background(), userID, TrainerSignup{DisplayName: "Duda"})
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrTrainerKeyExhausted)
	assert.Len(t, profiles.setKeyCalls, 2)
}

func TestAssignUniqueKey_GeneratedKeysAreValid(t *testing.T) {
	profiles := newFakeProfiles()
	userID := uuid.New()
	profiles.put(&domain.Profile{UserID: userID, Role: domain.RoleTrainer})

	svc := newTestKeyService(profiles, &fakeDirectory{})
	key, err := svc.AssignUniqueKey(context.Background(), userID, TrainerSignup{DisplayName: "Eva"})
	require.NoError(t, err)
	assert.True(t, trainerkey.Valid(key))
	assert.Equal(t, key, trainerkey.Normalize(key).Display)
}

func TestAssignUniqueKey_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	profiles := newFakeProfiles()
	svc := newTestKeyService(profiles, &fakeDirectory{})
	_, err := svc.AssignUniqueKey(ctx, uuid.New(), TrainerSignup{DisplayName: "Fabi"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, profiles.setKeyCalls)
}

func TestTrainerByKey(t *testing.T) {
	trainer := domain.TrainerPublic{ID: uuid.New(), DisplayName: "Gabi", TrainerKey: "HJKL-MN23"}
	svc := newTestKeyService(newFakeProfiles(), &fakeDirectory{trainers: []domain.TrainerPublic{trainer}})

	got, err := svc.TrainerByKey(context.Background(), "hjklmn23")
	require.NoError(t, err)
	assert.Equal(t, trainer, *got)

	_, err = svc.TrainerByKey(context.Background(), "PQRS-TUVW")
	assert.ErrorIs(t, err, ErrTrainerKeyNotFound)
}

func strPtr(s string) *string { return &s }
