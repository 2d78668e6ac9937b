package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DocumentStore is the MongoDB backend. Collections are schema-less; the
// store assigns ObjectIDs and the hex form is what the API exposes as "id".
type DocumentStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// OpenDocumentStore connects and pings with short timeouts so a missing or
// unreachable database fails fast at startup instead of hanging the process.
func OpenDocumentStore(ctx context.Context, creds Credentials) (*DocumentStore, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	clientOpts := options.Client().ApplyURI(creds.URI).
		SetConnectTimeout(5 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(20)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("store: connect: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("store: ping: %w", err)
	}

	return &DocumentStore{client: client, db: client.Database(creds.Database)}, nil
}

// Close disconnects the underlying client.
func (s *DocumentStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Collection exposes a raw collection handle for auxiliary writers
// (the log shipper uses this for the "logs" collection).
func (s *DocumentStore) Collection(name string) *mongo.Collection {
	return s.db.Collection(name)
}

// InsertOrder appends doc to the orders collection and returns the
// generated identifier in hex form.
func (s *DocumentStore) InsertOrder(ctx context.Context, doc Document) (string, error) {
	res, err := s.db.Collection(collOrders).InsertOne(ctx, bson.M(doc))
	if err != nil {
		return "", fmt.Errorf("store: insert order: %w", err)
	}
	return insertedHex(res.InsertedID), nil
}

// InsertProduct appends doc to the products collection and returns the
// stored record with its identifier.
func (s *DocumentStore) InsertProduct(ctx context.Context, doc Document) (Document, error) {
	res, err := s.db.Collection(collProducts).InsertOne(ctx, bson.M(doc))
	if err != nil {
		return nil, fmt.Errorf("store: insert product: %w", err)
	}
	stored := clone(doc)
	stored["id"] = insertedHex(res.InsertedID)
	return stored, nil
}

// ListProducts returns every product, newest first.
func (s *DocumentStore) ListProducts(ctx context.Context) ([]Document, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := s.db.Collection(collProducts).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("store: list products: %w", err)
	}
	defer cur.Close(ctx)

	var raw []bson.M
	if err := cur.All(ctx, &raw); err != nil {
		return nil, fmt.Errorf("store: decode products: %w", err)
	}

	docs := make([]Document, 0, len(raw))
	for _, item := range raw {
		docs = append(docs, normalize(item))
	}
	return docs, nil
}

// ListOrders returns every order in insertion order.
func (s *DocumentStore) ListOrders(ctx context.Context) ([]Document, error) {
	cur, err := s.db.Collection(collOrders).Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("store: list orders: %w", err)
	}
	defer cur.Close(ctx)

	var raw []bson.M
	if err := cur.All(ctx, &raw); err != nil {
		return nil, fmt.Errorf("store: decode orders: %w", err)
	}

	docs := make([]Document, 0, len(raw))
	for _, item := range raw {
		docs = append(docs, normalize(item))
	}
	return docs, nil
}

// DeleteProduct removes the product with the given hex id. Per the
// underlying delete semantics, an id that matches nothing (including one
// that is not valid hex and so cannot exist) is a successful no-op.
func (s *DocumentStore) DeleteProduct(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}
	if _, err := s.db.Collection(collProducts).DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return fmt.Errorf("store: delete product: %w", err)
	}
	return nil
}

// DeleteAllProducts fetches every product id and removes them in a single
// unordered batch.
func (s *DocumentStore) DeleteAllProducts(ctx context.Context) error {
	col := s.db.Collection(collProducts)

	opts := options.Find().SetProjection(bson.M{"_id": 1})
	cur, err := col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return fmt.Errorf("store: list product ids: %w", err)
	}
	defer cur.Close(ctx)

	var ids []bson.M
	if err := cur.All(ctx, &ids); err != nil {
		return fmt.Errorf("store: decode product ids: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}

	models := make([]mongo.WriteModel, 0, len(ids))
	for _, item := range ids {
		models = append(models, mongo.NewDeleteOneModel().SetFilter(bson.M{"_id": item["_id"]}))
	}
	if _, err := col.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false)); err != nil {
		return fmt.Errorf("store: delete all products: %w", err)
	}
	return nil
}

// insertedHex renders an InsertedID for the API. Always an ObjectID for
// server-assigned ids; anything else is stringified as-is.
func insertedHex(id any) string {
	if oid, ok := id.(primitive.ObjectID); ok {
		return oid.Hex()
	}
	return fmt.Sprintf("%v", id)
}

// normalize converts a raw BSON document into the API shape: _id becomes a
// hex "id" field and BSON datetimes become time.Time values.
func normalize(raw bson.M) Document {
	doc := make(Document, len(raw))
	for k, v := range raw {
		if k == "_id" {
			if oid, ok := v.(primitive.ObjectID); ok {
				doc["id"] = oid.Hex()
			} else {
				doc["id"] = v
			}
			continue
		}
		if dt, ok := v.(primitive.DateTime); ok {
			doc[k] = dt.Time().UTC()
			continue
		}
		doc[k] = v
	}
	return doc
}
