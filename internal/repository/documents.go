package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/RishiKendai/overlap/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const documentsCollection = "corpus_documents"

type DocumentsRepository struct {
	mongoRepo *MongoRepository
}

func NewDocumentsRepository(mongoRepo *MongoRepository) *DocumentsRepository {
	return &DocumentsRepository{
		mongoRepo: mongoRepo,
	}
}

// UpsertDocument stores doc, replacing the text previously stored for the same
// owner, corpus and role.
func (r *DocumentsRepository) UpsertDocument(ctx context.Context, doc *models.Document) error {
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now()
	}
	filter := bson.M{"corpusId": doc.CorpusID, "ownerId": doc.OwnerID, "role": doc.Role}

	err := r.mongoRepo.ReplaceOne(ctx, documentsCollection, filter, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert document: %w", err)
	}

	return nil
}

func (r *DocumentsRepository) GetDocumentsByCorpusID(ctx context.Context, corpusID string) ([]*models.Document, error) {
	filter := bson.M{"corpusId": corpusID}
	opts := options.Find().SetSort(bson.D{{Key: "ownerId", Value: 1}})

	cursor, err := r.mongoRepo.FindMany(ctx, documentsCollection, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find documents: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []*models.Document
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode documents: %w", err)
	}

	return docs, nil
}

func (r *DocumentsRepository) CountDocumentsByCorpusID(ctx context.Context, corpusID string) (int64, error) {
	filter := bson.M{"corpusId": corpusID}

	count, err := r.mongoRepo.CountDocuments(ctx, documentsCollection, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}

	return count, nil
}
