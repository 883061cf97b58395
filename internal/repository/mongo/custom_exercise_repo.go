package mongo

import (
	"context"
	"errors"
	"time"

	"alcyxob/trainer-link/internal/domain"
	"alcyxob/trainer-link/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const customExerciseCollectionName = "custom_exercises"

// mongoCustomExerciseRepository implements repository.CustomExerciseRepository
type mongoCustomExerciseRepository struct {
	collection *mongo.Collection
}

// NewMongoCustomExerciseRepository creates a new custom exercise repository backed by MongoDB.
func NewMongoCustomExerciseRepository(db *mongo.Database) repository.CustomExerciseRepository {
	return &mongoCustomExerciseRepository{
		collection: db.Collection(customExerciseCollectionName),
	}
}

// Create inserts a new custom exercise.
func (r *mongoCustomExerciseRepository) Create(ctx context.Context, exercise *domain.CustomExercise) (primitive.ObjectID, error) {
	if exercise.Name == "" || exercise.TrainerID == "" {
		return primitive.NilObjectID, errors.New("exercise name and trainer ID are required")
	}

	exercise.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	exercise.CreatedAt = now
	exercise.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, exercise)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}

	return insertedID, nil
}

// GetByID retrieves a custom exercise by its ID.
func (r *mongoCustomExerciseRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.CustomExercise, error) {
	var exercise domain.CustomExercise
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&exercise)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &exercise, nil
}

// GetByTrainerID retrieves all exercises created by a trainer, newest first.
func (r *mongoCustomExerciseRepository) GetByTrainerID(ctx context.Context, trainerID string) ([]domain.CustomExercise, error) {
	exercises := []domain.CustomExercise{}
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"trainerId": trainerID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &exercises); err != nil {
		return nil, err
	}
	return exercises, cursor.Err()
}

// Update replaces the editable fields, including the full image list.
// The owner never changes here.
func (r *mongoCustomExerciseRepository) Update(ctx context.Context, exercise *domain.CustomExercise) error {
	if exercise.ID == primitive.NilObjectID {
		return errors.New("exercise ID is required for update")
	}
	if exercise.Name == "" {
		return errors.New("exercise name cannot be empty")
	}

	exercise.UpdatedAt = time.Now().UTC()
	filter := bson.M{"_id": exercise.ID, "trainerId": exercise.TrainerID}
	update := bson.M{
		"$set": bson.M{
			"name":        exercise.Name,
			"description": exercise.Description,
			"categoryId":  exercise.CategoryID,
			"videoUrl":    exercise.VideoURL,
			"images":      exercise.Images,
			"updatedAt":   exercise.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes an exercise, ensuring it belongs to the specified trainer.
func (r *mongoCustomExerciseRepository) Delete(ctx context.Context, id primitive.ObjectID, trainerID string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "trainerId": trainerID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		// either missing or owned by someone else; both look the same from here
		return repository.ErrNotFound
	}
	return nil
}

// RemoveImage pulls a single image out of an exercise owned by trainerID.
func (r *mongoCustomExerciseRepository) RemoveImage(ctx context.Context, id primitive.ObjectID, trainerID, url string) error {
	filter := bson.M{"_id": id, "trainerId": trainerID}
	update := bson.M{
		"$pull": bson.M{"images": bson.M{"url": url}},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureCustomExerciseIndexes creates necessary indexes for the custom exercises collection.
func EnsureCustomExerciseIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "trainerId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("trainer_created"),
		},
		{
			Keys:    bson.D{{Key: "name", Value: "text"}, {Key: "description", Value: "text"}},
			Options: options.Index().SetName("custom_exercise_text_search"),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
