package models

import "time"

// Role places a document in one of the corpora of a run
type Role string

const (
	RoleUntrusted Role = "untrusted"
	RoleTrusted   Role = "trusted"
	RoleIgnore    Role = "ignore"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	switch r {
	case RoleUntrusted, RoleTrusted, RoleIgnore:
		return true
	default:
		return false
	}
}

// Submission represents a submission from Redis stream
type Submission struct {
	OwnerID  string `json:"ownerId"`
	CorpusID string `json:"corpusId"`
	Role     Role   `json:"role"`
	Text     string `json:"text"`
}

// Document is a stored text belonging to a corpus
type Document struct {
	OwnerID   string    `bson:"ownerId" json:"ownerId"`
	CorpusID  string    `bson:"corpusId" json:"corpusId"`
	Role      Role      `bson:"role" json:"role"`
	Text      string    `bson:"text" json:"text"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
