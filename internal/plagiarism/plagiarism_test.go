package plagiarism

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/RishiKendai/overlap/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDocuments struct {
	docs []*models.Document
	err  error
}

func (f *fakeDocuments) GetDocumentsByCorpusID(_ context.Context, corpusID string) ([]*models.Document, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*models.Document
	for _, d := range f.docs {
		if d.CorpusID == corpusID {
			out = append(out, d)
		}
	}
	return out, nil
}

type fakeReports struct {
	stored []*models.Report
}

func (f *fakeReports) CompleteReport(_ context.Context, report *models.Report) error {
	f.stored = append(f.stored, report)
	return nil
}

type fakeStatuses struct {
	steps []string
}

func (f *fakeStatuses) Set(_ context.Context, key string, value interface{}, _ time.Duration) *redis.StatusCmd {
	f.steps = append(f.steps, value.(string))
	return redis.NewStatusResult("OK", nil)
}

func doc(owner string, role models.Role, text string) *models.Document {
	return &models.Document{OwnerID: owner, CorpusID: "c1", Role: role, Text: text}
}

func TestComputePlagiarism_StoresHighlightedReport(t *testing.T) {
	docs := &fakeDocuments{docs: []*models.Document{
		doc("a.txt", models.RoleUntrusted, "The cat sat on the mat today"),
		doc("b.txt", models.RoleUntrusted, "Yesterday the cat sat on the mat"),
		doc("c.txt", models.RoleUntrusted, "Nothing in common here at all"),
		doc("src.txt", models.RoleTrusted, "A cat sat on the mat in the story"),
		doc("boiler", models.RoleIgnore, "on the mat"),
	}}
	reports := &fakeReports{}
	statuses := &fakeStatuses{}

	report, err := ComputePlagiarism(context.Background(), RunParams{
		CorpusID:    "c1",
		ReportID:    "r1",
		Sensitivity: 3,
		Metric:      Equal(),
	}, docs, reports, statuses, nil)

	require.NoError(t, err)
	require.Len(t, reports.stored, 1)
	assert.Same(t, report, reports.stored[0])

	assert.Equal(t, "r1", report.ReportID)
	assert.Equal(t, models.StatusCompleted, report.Status)
	assert.Equal(t, "equal", report.Metric)
	assert.Equal(t, 4, report.TotalAnalyzed)

	require.Len(t, report.Untrusted, 1)
	entry := report.Untrusted[0]
	assert.Equal(t, "a.txt", entry.OwnerID1)
	assert.Equal(t, "b.txt", entry.OwnerID2)
	// "on the mat" is ignored, leaving "the cat sat", "cat sat on", "sat on the"
	assert.Len(t, entry.Fragments, 3)
	assert.Equal(t, []models.Segment{
		{Text: "the cat sat on the", Bold: true},
		{Text: "mat today", Bold: false},
	}, entry.Display1)

	require.Len(t, report.Trusted, 2)
	for _, e := range report.Trusted {
		assert.True(t, e.TrustedOwner1)
		assert.Equal(t, "src.txt", e.OwnerID1)
	}

	assert.Equal(t, []string{
		string(models.StepLoading),
		string(models.StepMatching),
		string(models.StepHighlighting),
		string(models.StepCompleted),
	}, statuses.steps)
}

func TestComputePlagiarism_NoUntrustedDocuments(t *testing.T) {
	docs := &fakeDocuments{docs: []*models.Document{doc("src", models.RoleTrusted, "some words")}}
	statuses := &fakeStatuses{}

	_, err := ComputePlagiarism(context.Background(), RunParams{CorpusID: "c1", Sensitivity: 2, Metric: Equal()},
		docs, &fakeReports{}, statuses, nil)

	assert.ErrorIs(t, err, ErrNoDocuments)
	assert.Equal(t, string(models.StepFailed), statuses.steps[len(statuses.steps)-1])
}

func TestComputePlagiarism_LoadFailure(t *testing.T) {
	docs := &fakeDocuments{err: errors.New("connection refused")}

	_, err := ComputePlagiarism(context.Background(), RunParams{CorpusID: "c1", Sensitivity: 2, Metric: Equal()},
		docs, &fakeReports{}, nil, nil)

	assert.ErrorContains(t, err, "connection refused")
}

func TestComputePlagiarism_InvalidSensitivity(t *testing.T) {
	docs := &fakeDocuments{docs: []*models.Document{doc("a", models.RoleUntrusted, "x y z")}}

	_, err := ComputePlagiarism(context.Background(), RunParams{CorpusID: "c1", Sensitivity: 0, Metric: Equal()},
		docs, &fakeReports{}, nil, nil)

	assert.ErrorIs(t, err, ErrInvalidSensitivity)
}

func TestUpdateStatus_RejectsUnknownStep(t *testing.T) {
	err := UpdateStatus(context.Background(), &fakeStatuses{}, "c1", models.Step("bogus"))
	assert.Error(t, err)
}
