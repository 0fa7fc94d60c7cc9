package models

import (
	"time"
)

type Step string

const (
	StepIdle         Step = "idle"
	StepInitiated    Step = "initiated"
	StepLoading      Step = "loading"
	StepMatching     Step = "matching"
	StepHighlighting Step = "highlighting"
	StepCompleted    Step = "completed"
	StepFailed       Step = "failed"
)

// Report statuses
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Segment is a highlighted or plain run of words
type Segment struct {
	Text string `bson:"text" json:"text"`
	Bold bool   `bson:"bold" json:"bold"`
}

// MatchedFragment is one pair of matching fragments
type MatchedFragment struct {
	First  string `bson:"first" json:"first"`
	Second string `bson:"second" json:"second"`
}

// ResultEntry is one owner pair of a report
type ResultEntry struct {
	OwnerID1       string            `bson:"ownerId1" json:"ownerId1"`
	OwnerID2       string            `bson:"ownerId2" json:"ownerId2"`
	TrustedOwner1  bool              `bson:"trustedOwner1" json:"trustedOwner1"`
	EqualFragments bool              `bson:"equalFragments" json:"equalFragments"`
	Fragments      []MatchedFragment `bson:"fragments" json:"fragments"`
	Display1       []Segment         `bson:"display1" json:"display1"`
	Display2       []Segment         `bson:"display2" json:"display2"`
	Coverage1      int               `bson:"coverage1" json:"coverage1"`
	Coverage2      int               `bson:"coverage2" json:"coverage2"`
	Risk           string            `bson:"risk" json:"risk"` // clean, suspicious, highly suspicious, near copy
}

// Report is the stored outcome of one run over a corpus
type Report struct {
	ReportID      string        `bson:"reportId" json:"reportId"`
	CorpusID      string        `bson:"corpusId" json:"corpusId"`
	Status        string        `bson:"status" json:"status"` // pending, completed, failed
	Sensitivity   int           `bson:"sensitivity" json:"sensitivity"`
	Similarity    int           `bson:"similarity" json:"similarity"`
	Metric        string        `bson:"metric" json:"metric"`
	Untrusted     []ResultEntry `bson:"untrusted" json:"untrusted"`
	Trusted       []ResultEntry `bson:"trusted" json:"trusted"`
	TotalAnalyzed int           `bson:"totalAnalyzed" json:"totalAnalyzed"`
	FlaggedOwners int           `bson:"flaggedOwners" json:"flaggedOwners"`
	Risk          string        `bson:"risk" json:"risk"`
	Error         string        `bson:"error,omitempty" json:"error,omitempty"`
	CreatedAt     time.Time     `bson:"createdAt" json:"createdAt"`
	CompletedAt   time.Time     `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
}

// ComputeRequest represents a request to compute plagiarism
type ComputeRequest struct {
	CorpusID    string `json:"corpusId" binding:"required"`
	Sensitivity int    `json:"sensitivity"`
	Similarity  *int   `json:"similarity"`
	Metric      string `json:"metric"`
}

// ComputeResponse represents the response from compute endpoint
type ComputeResponse struct {
	Step     Step   `json:"step"`
	CorpusID string `json:"corpusId"`
	ReportID string `json:"reportId"`
}

// DocumentRequest stores one document directly through the API
type DocumentRequest struct {
	OwnerID  string `json:"ownerId" binding:"required"`
	CorpusID string `json:"corpusId" binding:"required"`
	Role     Role   `json:"role"`
	Text     string `json:"text"`
}
