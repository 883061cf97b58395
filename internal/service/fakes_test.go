package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"alcyxob/trainer-link/internal/domain"
	"alcyxob/trainer-link/internal/repository"
	"alcyxob/trainer-link/internal/storage"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- profiles ---

type fakeProfiles struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]*domain.Profile
	taken    map[string]bool // issued trainer keys

	// setKeyErrs is consumed one per SetTrainerKey call before the
	// uniqueness check runs.
	setKeyErrs  []error
	setKeyCalls []repository.TrainerKeyUpdate
	updateErr   error
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{profiles: map[uuid.UUID]*domain.Profile{}, taken: map[string]bool{}}
}

func (f *fakeProfiles) put(p *domain.Profile) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profiles[p.UserID] = p
	if p.TrainerKey != nil {
		f.taken[*p.TrainerKey] = true
	}
}

func (f *fakeProfiles) GetByUserID(_ context.Context, userID uuid.UUID) (*domain.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProfiles) Update(_ context.Context, userID uuid.UUID, patch domain.ProfilePatch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	p, ok := f.profiles[userID]
	if !ok {
		return repository.ErrNotFound
	}
	orNil := func(v *string) *string {
		if *v == "" {
			return nil
		}
		s := *v
		return &s
	}
	if patch.DisplayName != nil {
		p.DisplayName = *patch.DisplayName
	}
	if patch.Phone != nil {
		p.Phone = orNil(patch.Phone)
	}
	if patch.Bio != nil {
		p.Bio = orNil(patch.Bio)
	}
	if patch.AvatarURL != nil {
		p.AvatarURL = orNil(patch.AvatarURL)
	}
	if patch.Gender != nil {
		g := *patch.Gender
		p.Gender = &g
	}
	return nil
}

func (f *fakeProfiles) SetTrainerKey(_ context.Context, userID uuid.UUID, upd repository.TrainerKeyUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setKeyCalls = append(f.setKeyCalls, upd)
	if len(f.setKeyErrs) > 0 {
		err := f.setKeyErrs[0]
		f.setKeyErrs = f.setKeyErrs[1:]
		if err != nil {
			return err
		}
	}
	if f.taken[upd.TrainerKey] {
		return repository.ErrConflict
	}
	p, ok := f.profiles[userID]
	if !ok {
		return repository.ErrNotFound
	}
	key := upd.TrainerKey
	p.Role = domain.RoleTrainer
	p.TrainerID = nil
	p.TrainerKey = &key
	p.DisplayName = upd.DisplayName
	p.Phone = upd.Phone
	f.taken[key] = true
	return nil
}

func (f *fakeProfiles) SetStudentTrainer(_ context.Context, userID, trainerID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[userID]
	if !ok {
		return repository.ErrNotFound
	}
	p.Role = domain.RoleStudent
	p.TrainerKey = nil
	p.TrainerID = &trainerID
	return nil
}

// --- trainer directory ---

type dirCall struct {
	method     string
	key        string
	ignoreCase bool
}

type fakeDirectory struct {
	mu       sync.Mutex
	trainers []domain.TrainerPublic
	students map[uuid.UUID][]domain.StudentSummary
	calls    []dirCall

	validateErr error // returned by every ValidateTrainerKey call
	findErr     error // returned by every FindByKey call
}

func (f *fakeDirectory) record(c dirCall) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
}

func (f *fakeDirectory) callsTo(method string) []dirCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []dirCall
	for _, c := range f.calls {
		if c.method == method {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeDirectory) ValidateTrainerKey(_ context.Context, key string) (uuid.UUID, error) {
	f.record(dirCall{method: "validate", key: key})
	if f.validateErr != nil {
		return uuid.Nil, f.validateErr
	}
	for _, t := range f.trainers {
		if t.TrainerKey == key {
			return t.ID, nil
		}
	}
	return uuid.Nil, repository.ErrNotFound
}

func (f *fakeDirectory) FindByKey(_ context.Context, key string, ignoreCase bool) (*domain.TrainerPublic, error) {
	f.record(dirCall{method: "find", key: key, ignoreCase: ignoreCase})
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, t := range f.trainers {
		if t.TrainerKey == key || (ignoreCase && strings.EqualFold(t.TrainerKey, key)) {
			cp := t
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeDirectory) GetPublic(_ context.Context, trainerID uuid.UUID) (*domain.TrainerPublic, error) {
	for _, t := range f.trainers {
		if t.ID == trainerID {
			cp := t
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeDirectory) ListStudents(_ context.Context, trainerID uuid.UUID) ([]domain.StudentSummary, error) {
	return f.students[trainerID], nil
}

// --- users ---

type fakeUsers struct {
	mu       sync.Mutex
	byID     map[uuid.UUID]*domain.User
	profiles *fakeProfiles
	deleted  []uuid.UUID

	createErr error
}

func newFakeUsers(profiles *fakeProfiles) *fakeUsers {
	return &fakeUsers{byID: map[uuid.UUID]*domain.User{}, profiles: profiles}
}

func (f *fakeUsers) CreateWithProfile(_ context.Context, user *domain.User, np repository.NewProfile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	for _, u := range f.byID {
		if u.Email == user.Email {
			return repository.ErrConflict
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now()
	cp := *user
	f.byID[user.ID] = &cp
	f.profiles.put(&domain.Profile{
		UserID:      user.ID,
		Role:        np.Role,
		DisplayName: np.DisplayName,
		Phone:       np.Phone,
		Gender:      np.Gender,
		TrainerID:   np.TrainerID,
	})
	return nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUsers) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.byID, id)
	f.deleted = append(f.deleted, id)
	f.profiles.mu.Lock()
	delete(f.profiles.profiles, id)
	f.profiles.mu.Unlock()
	return nil
}

// --- custom exercises ---

type fakeExercises struct {
	mu    sync.Mutex
	items map[primitive.ObjectID]*domain.CustomExercise
	order []primitive.ObjectID
}

func newFakeExercises() *fakeExercises {
	return &fakeExercises{items: map[primitive.ObjectID]*domain.CustomExercise{}}
}

func (f *fakeExercises) Create(_ context.Context, e *domain.CustomExercise) (primitive.ObjectID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e.ID = primitive.NewObjectID()
	e.CreatedAt = time.Now()
	e.UpdatedAt = e.CreatedAt
	cp := *e
	f.items[e.ID] = &cp
	f.order = append(f.order, e.ID)
	return e.ID, nil
}

func (f *fakeExercises) GetByID(_ context.Context, id primitive.ObjectID) (*domain.CustomExercise, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *e
	cp.Images = append([]domain.ExerciseImage(nil), e.Images...)
	return &cp, nil
}

func (f *fakeExercises) GetByTrainerID(_ context.Context, trainerID string) ([]domain.CustomExercise, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.CustomExercise{}
	for i := len(f.order) - 1; i >= 0; i-- {
		if e, ok := f.items[f.order[i]]; ok && e.TrainerID == trainerID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeExercises) Update(_ context.Context, e *domain.CustomExercise) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cur, ok := f.items[e.ID]
	if !ok || cur.TrainerID != e.TrainerID {
		return repository.ErrNotFound
	}
	cp := *e
	f.items[e.ID] = &cp
	return nil
}

func (f *fakeExercises) Delete(_ context.Context, id primitive.ObjectID, trainerID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cur, ok := f.items[id]
	if !ok || cur.TrainerID != trainerID {
		return repository.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

func (f *fakeExercises) RemoveImage(_ context.Context, id primitive.ObjectID, trainerID, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cur, ok := f.items[id]
	if !ok || cur.TrainerID != trainerID {
		return repository.ErrNotFound
	}
	kept := cur.Images[:0]
	for _, img := range cur.Images {
		if img.URL != url {
			kept = append(kept, img)
		}
	}
	cur.Images = kept
	return nil
}

// --- storage ---

const fakeStorageBase = "http://minio.test/exercises/"

type fakeStorage struct {
	mu        sync.Mutex
	presigned []string
	deleted   []string
	deleteErr error
}

func (f *fakeStorage) GeneratePresignedUploadURL(_ context.Context, objectKey, contentType string, _ time.Duration) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.presigned = append(f.presigned, objectKey)
	return "http://minio.test/upload/" + objectKey + "?sig=1&ct=" + contentType, nil
}

func (f *fakeStorage) PublicURL(objectKey string) string {
	return fakeStorageBase + objectKey
}

func (f *fakeStorage) ObjectKeyFromURL(rawURL string) (string, error) {
	if !strings.HasPrefix(rawURL, fakeStorageBase) || len(rawURL) == len(fakeStorageBase) {
		return "", storage.ErrForeignURL
	}
	return strings.TrimPrefix(rawURL, fakeStorageBase), nil
}

func (f *fakeStorage) DeleteObjects(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, keys...)
	return nil
}
