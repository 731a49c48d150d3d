// package models defines the data model for the song preview lookup service
package models

import (
	"time"
)

// Model defines the base interface for all persistent models in the lookup service.
// Implementations include Lookup.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations.
// Implementations handle database interactions for specific model types.
type Repository[T Model] interface {
	Create(model T) error                      // Create inserts a new model into the database
	Get(id string) (T, error)                  // Get retrieves a model by its ID
	Delete(id string) error                    // Delete removes a model from the database by its ID
	List(criteria map[string]any) ([]T, error) // List retrieves all models matching the given criteria
}

// Source identifies which surface started a lookup.
type Source string

const (
	SourceHTTP Source = "http"
	SourceCLI  Source = "cli"
)
