// internal/domain/exercise.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CustomExercise is an exercise a trainer authored, kept alongside the
// public catalog.
type CustomExercise struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TrainerID   string             `bson:"trainerId" json:"trainerId"` // profile user_id of the owner
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	CategoryID  int                `bson:"categoryId" json:"categoryId"` // upstream category id
	VideoURL    string             `bson:"videoUrl,omitempty" json:"videoUrl,omitempty"`
	Images      []ExerciseImage    `bson:"images,omitempty" json:"images,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ExerciseImage is one picture of a custom exercise. Lower Sort comes first.
type ExerciseImage struct {
	URL  string `bson:"url" json:"url"`
	Sort int    `bson:"sort" json:"sort"`
}

// ImageURLs returns the image URLs in display order.
func (e *CustomExercise) ImageURLs() []string {
	urls := make([]string, 0, len(e.Images))
	for _, img := range sortedImages(e.Images) {
		urls = append(urls, img.URL)
	}
	return urls
}

func sortedImages(in []ExerciseImage) []ExerciseImage {
	out := make([]ExerciseImage, len(in))
	copy(out, in)
	// insertion sort keeps equal Sort values in stored order
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Sort < out[j-1].Sort; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}
