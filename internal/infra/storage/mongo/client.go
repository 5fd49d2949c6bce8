// Package mongo implements the indexer.Storage interface on top of a
// MongoDB database: durable per-account cursors plus one collection per
// event type.
package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// client wraps a MongoDB connection and the database all collections live in.
type client struct {
	conn *mongo.Client
	db   *mongo.Database
}

// Close disconnects from the MongoDB deployment.
func (c *client) Close(ctx context.Context) error {
	return c.conn.Disconnect(ctx)
}

// NewClient connects to the MongoDB deployment at uri and verifies the
// connection with a ping before returning. All collections are created
// lazily inside database.
func NewClient(ctx context.Context, uri, database string) (*client, error) {
	conn, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	if err := conn.Ping(ctx, readpref.Primary()); err != nil {
		return nil, err
	}

	return &client{
		conn: conn,
		db:   conn.Database(database),
	}, nil
}
