package fruitsource

import (
	"context"
	"fmt"

	"github.com/fruitdb/etl/internal/fruits"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/exp/slog"
)

// FetchAll reads the whole collection in one query, unfiltered.
func (h *Handler) FetchAll(ctx context.Context) ([]fruits.Document, error) {
	slog.Info("Fetching fruits", "database", DatabaseName, "collection", CollectionName)

	cursor, err := h.Collection.Find(ctx, bson.D{})
	if err != nil {
		slog.Error("Failed to query fruits", "error", err)
		return nil, fmt.Errorf("could not query %s.%s: %w", DatabaseName, CollectionName, err)
	}
	defer cursor.Close(ctx)

	var documents []fruits.Document
	if err := cursor.All(ctx, &documents); err != nil {
		slog.Error("Failed to decode fruits", "error", err)
		return nil, fmt.Errorf("could not decode %s.%s: %w", DatabaseName, CollectionName, err)
	}
	if documents == nil {
		documents = []fruits.Document{}
	}

	return documents, nil
}
