package api

import (
	"context"
	"errors"

	"alcyxob/trainer-link/internal/catalog"
	"alcyxob/trainer-link/internal/domain"
	"alcyxob/trainer-link/internal/service"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var errNotStubbed = errors.New("not stubbed")

type stubAuth struct {
	signUp func(service.SignUpInput) (*service.SignUpResult, error)
	signIn func(email, password string) (string, *domain.User, domain.Role, error)
}

func (s *stubAuth) SignUp(_ context.Context, in service.SignUpInput) (*service.SignUpResult, error) {
	if s.signUp == nil {
		return nil, errNotStubbed
	}
	return s.signUp(in)
}

func (s *stubAuth) SignIn(_ context.Context, email, password string) (string, *domain.User, domain.Role, error) {
	if s.signIn == nil {
		return "", nil, "", errNotStubbed
	}
	return s.signIn(email, password)
}

func (s *stubAuth) GetJWTSecret() string { return testSecret }

type stubKeys struct {
	byKey func(input string) (*domain.TrainerPublic, error)
}

func (s *stubKeys) ValidateKey(context.Context, string) (uuid.UUID, bool, error) {
	return uuid.Nil, false, errNotStubbed
}

func (s *stubKeys) AssignUniqueKey(context.Context, uuid.UUID, service.TrainerSignup) (string, error) {
	return "", errNotStubbed
}

func (s *stubKeys) TrainerByKey(_ context.Context, input string) (*domain.TrainerPublic, error) {
	if s.byKey == nil {
		return nil, errNotStubbed
	}
	return s.byKey(input)
}

type stubProfiles struct {
	get      func(uuid.UUID) (*domain.ProfileWithTrainer, error)
	update   func(uuid.UUID, domain.ProfilePatch) (*domain.Profile, error)
	students func(uuid.UUID) ([]domain.StudentSummary, error)
	link     func(uuid.UUID, string) (*domain.TrainerPublic, error)
}

func (s *stubProfiles) GetOwnProfileWithTrainer(_ context.Context, id uuid.UUID) (*domain.ProfileWithTrainer, error) {
	if s.get == nil {
		return nil, errNotStubbed
	}
	return s.get(id)
}

func (s *stubProfiles) UpdateOwnProfile(_ context.Context, id uuid.UUID, p domain.ProfilePatch) (*domain.Profile, error) {
	if s.update == nil {
		return nil, errNotStubbed
	}
	return s.update(id, p)
}

func (s *stubProfiles) ListMyStudents(_ context.Context, id uuid.UUID) ([]domain.StudentSummary, error) {
	if s.students == nil {
		return nil, errNotStubbed
	}
	return s.students(id)
}

func (s *stubProfiles) RequestAvatarUpload(context.Context, uuid.UUID, string) (*service.UploadURLResponse, error) {
	return nil, errNotStubbed
}

func (s *stubProfiles) LinkTrainer(_ context.Context, id uuid.UUID, key string) (*domain.TrainerPublic, error) {
	if s.link == nil {
		return nil, errNotStubbed
	}
	return s.link(id, key)
}

type stubExercises struct {
	create      func(uuid.UUID, service.CustomExerciseInput) (*domain.CustomExercise, error)
	list        func(uuid.UUID) ([]domain.CustomExercise, error)
	deleteEx    func(uuid.UUID, primitive.ObjectID) error
	deleteImage func(uuid.UUID, primitive.ObjectID, string) error
}

func (s *stubExercises) CreateExercise(_ context.Context, id uuid.UUID, in service.CustomExerciseInput) (*domain.CustomExercise, error) {
	if s.create == nil {
		return nil, errNotStubbed
	}
	return s.create(id, in)
}

func (s *stubExercises) GetExercisesByTrainer(_ context.Context, id uuid.UUID) ([]domain.CustomExercise, error) {
	if s.list == nil {
		return nil, errNotStubbed
	}
	return s.list(id)
}

func (s *stubExercises) UpdateExercise(context.Context, uuid.UUID, primitive.ObjectID, service.CustomExerciseInput) (*domain.CustomExercise, error) {
	return nil, errNotStubbed
}

func (s *stubExercises) DeleteExercise(_ context.Context, id uuid.UUID, exID primitive.ObjectID) error {
	if s.deleteEx == nil {
		return errNotStubbed
	}
	return s.deleteEx(id, exID)
}

func (s *stubExercises) DeleteExerciseImage(_ context.Context, id uuid.UUID, exID primitive.ObjectID, url string) error {
	if s.deleteImage == nil {
		return errNotStubbed
	}
	return s.deleteImage(id, exID, url)
}

func (s *stubExercises) RequestImageUpload(context.Context, uuid.UUID, primitive.ObjectID, string, int) (*service.UploadURLResponse, error) {
	return nil, errNotStubbed
}

func (s *stubExercises) ExerciseCards(context.Context, uuid.UUID) ([]domain.ExerciseCardData, error) {
	return nil, errNotStubbed
}

type stubCatalog struct {
	page    func(catalog.Query) (*domain.ExercisePage, error)
	queries []catalog.Query
}

func (s *stubCatalog) FetchExercisePage(_ context.Context, q catalog.Query) (*domain.ExercisePage, error) {
	s.queries = append(s.queries, q)
	if s.page == nil {
		return nil, errNotStubbed
	}
	return s.page(q)
}

func (s *stubCatalog) FetchCategories(context.Context) ([]domain.ExerciseCategory, error) {
	return []domain.ExerciseCategory{{ID: 10, Name: "Back", Label: "Costas"}}, nil
}
