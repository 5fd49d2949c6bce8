package mongo

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/gabapcia/driftwatch/internal/drift"
	"github.com/gabapcia/driftwatch/internal/indexer"

	"github.com/gagliardetto/solana-go"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// accountsCollection holds one document per indexed account, keyed by the
// account's base58 address, carrying its resume cursor.
const accountsCollection = "accounts"

// eventCollections maps event type names to their collection. Event kinds
// without an entry fall back to the type name itself.
var eventCollections = map[string]string{
	"OrderActionRecord": "order_action_records",
	"OrderRecord":       "order_records",
}

// eventCollection resolves the collection an event is appended to.
func eventCollection(event drift.Event) string {
	if name, ok := eventCollections[event.EventName()]; ok {
		return name
	}

	return event.EventName()
}

// accountDocument is the shape of one entry in the accounts collection.
type accountDocument struct {
	Account                  string    `bson:"account"`
	LastProcessedSignature   string    `bson:"last_processed_signature"`
	LastProcessedSignatureAt time.Time `bson:"last_processed_signature_at"`
}

// LastIndexedSignature loads the resume cursor for account, returning
// indexer.ErrNoCursorFound when the account was never indexed.
func (c *client) LastIndexedSignature(ctx context.Context, account solana.PublicKey) (solana.Signature, error) {
	var doc accountDocument
	err := c.db.Collection(accountsCollection).
		FindOne(ctx, bson.M{"account": account.String()}).
		Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			err = indexer.ErrNoCursorFound
		}

		return solana.Signature{}, err
	}

	return solana.SignatureFromBase58(doc.LastProcessedSignature)
}

// SetLastIndexedSignature upserts the resume cursor for account.
func (c *client) SetLastIndexedSignature(ctx context.Context, account solana.PublicKey, signature solana.Signature) error {
	_, err := c.db.Collection(accountsCollection).UpdateOne(ctx,
		bson.M{"account": account.String()},
		bson.M{"$set": bson.M{
			"last_processed_signature":    signature.String(),
			"last_processed_signature_at": time.Now().UTC(),
		}},
		options.Update().SetUpsert(true),
	)
	return err
}

// InsertEvent appends event to its kind's collection. The event is stored as a plain document, with public keys rendered as
// base58 strings, by round-tripping it through its JSON form. Duplicate
// inserts of the same event are tolerated; a pass that is retried after a
// partial failure simply appends again.
func (c *client) InsertEvent(ctx context.Context, event drift.Event) error {
	raw, err := json.Marshal(event)
	if err != nil {
		return err
	}

	var doc bson.D
	if err := bson.UnmarshalExtJSON(raw, false, &doc); err != nil {
		return err
	}
	doc = append(doc, bson.E{Key: "indexed_at", Value: time.Now().UTC()})

	_, err = c.db.Collection(eventCollection(event)).InsertOne(ctx, doc)
	return err
}

// Compile-time assertion to ensure client implements the Storage interface.
var _ indexer.Storage = new(client)
