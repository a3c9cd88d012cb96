package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	StatusUnsaved = "Save Article"
	StatusSaved   = "Saved"
)

type Article struct {
	ID      primitive.ObjectID  `bson:"_id,omitempty" json:"_id"`
	Title   string              `bson:"title" json:"title"`
	Link    string              `bson:"link,omitempty" json:"link,omitempty"`
	Summary string              `bson:"summary,omitempty" json:"summary,omitempty"`
	IsSaved bool                `bson:"issaved" json:"issaved"`
	Status  string              `bson:"status" json:"status" validate:"omitempty,savestatus"`
	Note    *primitive.ObjectID `bson:"note,omitempty" json:"note,omitempty"`
	Created time.Time           `bson:"created" json:"created"`
}

// ArticleWithNote is an Article whose note reference has been resolved.
type ArticleWithNote struct {
	Article  `bson:",inline"`
	NoteBody *Note `bson:"note_doc,omitempty" json:"note_doc,omitempty"`
}

// Candidate is an extraction result that has not been validated or stored.
type Candidate struct {
	Title   string `json:"title"`
	Link    string `json:"link,omitempty"`
	Summary string `json:"summary,omitempty"`
}

// NewArticle builds an unsaved Article from an extracted candidate.
func NewArticle(c Candidate) *Article {
	return &Article{
		Title:   c.Title,
		Link:    c.Link,
		Summary: c.Summary,
		Status:  StatusUnsaved,
	}
}

// SaveStatus returns the status label matching a save state.
func SaveStatus(saved bool) string {
	if saved {
		return StatusSaved
	}
	return StatusUnsaved
}

// ArticleFilter selects articles for listing. Results are always ordered
// by creation time, newest first.
type ArticleFilter struct {
	SavedOnly bool
}
