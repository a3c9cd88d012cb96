package model

import (
	"encoding/json"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Note is a free-form annotation. Its fields are whatever the client
// submitted and are stored inline next to the id.
type Note struct {
	ID     primitive.ObjectID `bson:"_id,omitempty"`
	Fields map[string]string  `bson:",inline"`
}

// NewNote copies the submitted fields, dropping any attempt to set the id.
func NewNote(fields map[string]string) *Note {
	n := &Note{Fields: make(map[string]string, len(fields))}
	for k, v := range fields {
		if k == "_id" || k == "" {
			continue
		}
		n.Fields[k] = v
	}
	return n
}

func (n Note) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(n.Fields)+1)
	for k, v := range n.Fields {
		out[k] = v
	}
	out["_id"] = n.ID
	return json.Marshal(out)
}
