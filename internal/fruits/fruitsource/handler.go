package fruitsource

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	DatabaseName   = "fruitdb"
	CollectionName = "fruits"
)

type finder interface {
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error)
}

type Handler struct {
	Client     *mongo.Client
	Collection finder
}

// NewHandler builds a client for uri. The driver connects lazily, so this
// only fails on a URI it cannot parse; use Ping to check reachability.
func NewHandler(ctx context.Context, uri string) (*Handler, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("could not create mongo client: %w", err)
	}

	return &Handler{
		Client:     client,
		Collection: client.Database(DatabaseName).Collection(CollectionName),
	}, nil
}

func (h *Handler) Ping(ctx context.Context) error {
	if err := h.Client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("could not reach mongo: %w", err)
	}
	return nil
}

func (h *Handler) Close(ctx context.Context) error {
	if h.Client == nil {
		return nil
	}
	return h.Client.Disconnect(ctx)
}
