package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/RishiKendai/overlap/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const reportsCollection = "plagiarism_reports"

type ReportsRepository struct {
	mongoRepo *MongoRepository
}

func NewReportsRepository(mongoRepo *MongoRepository) *ReportsRepository {
	return &ReportsRepository{
		mongoRepo: mongoRepo,
	}
}

func (r *ReportsRepository) InsertReport(ctx context.Context, report *models.Report) error {
	report.CreatedAt = time.Now()

	err := r.mongoRepo.InsertOne(ctx, reportsCollection, report)
	if err != nil {
		return fmt.Errorf("failed to insert report: %w", err)
	}

	return nil
}

// CompleteReport writes the final content of a run onto its pending report.
// The report is created when no pending one exists.
func (r *ReportsRepository) CompleteReport(ctx context.Context, report *models.Report) error {
	now := time.Now()
	report.CompletedAt = now
	if report.CreatedAt.IsZero() {
		report.CreatedAt = now
	}

	filter := bson.M{"reportId": report.ReportID}
	update := bson.M{
		"$set": bson.M{
			"corpusId":      report.CorpusID,
			"status":        report.Status,
			"sensitivity":   report.Sensitivity,
			"similarity":    report.Similarity,
			"metric":        report.Metric,
			"untrusted":     report.Untrusted,
			"trusted":       report.Trusted,
			"totalAnalyzed": report.TotalAnalyzed,
			"flaggedOwners": report.FlaggedOwners,
			"risk":          report.Risk,
			"completedAt":   report.CompletedAt,
		},
		"$setOnInsert": bson.M{"createdAt": report.CreatedAt},
	}

	_, err := r.mongoRepo.UpdateOne(ctx, reportsCollection, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to complete report: %w", err)
	}

	return nil
}

// FailReport marks a report failed and records why
func (r *ReportsRepository) FailReport(ctx context.Context, reportID, reason string) error {
	filter := bson.M{"reportId": reportID}
	update := bson.M{"$set": bson.M{
		"status":      models.StatusFailed,
		"error":       reason,
		"completedAt": time.Now(),
	}}

	res, err := r.mongoRepo.UpdateOne(ctx, reportsCollection, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update report: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("report %s not found", reportID)
	}

	return nil
}

func (r *ReportsRepository) GetLatestReportByCorpusID(ctx context.Context, corpusID string) (*models.Report, error) {
	filter := bson.M{"corpusId": corpusID}
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	var report models.Report
	err := r.mongoRepo.FindOne(ctx, reportsCollection, filter, opts).Decode(&report)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find report: %w", err)
	}

	return &report, nil
}
