package services

import (
	"context"
	"crypto/tls"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sportstock/backend/internal/models"
)

// MongoInventoryStore keeps one inventory document per user in the
// "inventories" collection, keyed by user id. Saves replace the whole
// document, matching the document-store contract.
type MongoInventoryStore struct {
	client *mongo.Client
	db     *mongo.Database
	coll   *mongo.Collection
}

type mongoInventoryDoc struct {
	ID          string           `bson:"_id"`
	Items       []mongoItemEntry `bson:"items"`
	LastUpdated string           `bson:"last_updated"`
	UserEmail   string           `bson:"user_email"`
}

type mongoItemEntry struct {
	ID          string    `bson:"id"`
	Name        string    `bson:"name"`
	Category    string    `bson:"category"`
	Size        string    `bson:"size"`
	Quantity    int       `bson:"quantity"`
	LastUpdated time.Time `bson:"last_updated"`
}

func NewMongoInventoryStore(ctx context.Context, mongoURI, dbName string) (*MongoInventoryStore, error) {
	// Atlas occasionally fails TLS negotiation in some environments unless we force TLS 1.2.
	tlsCfg := &tls.Config{
		MinVersion: tls.VersionTLS12,
		MaxVersion: tls.VersionTLS12,
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI).SetTLSConfig(tlsCfg))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	db := client.Database(dbName)
	coll := db.Collection("inventories")

	// Best-effort index.
	_, _ = coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_email", Value: 1}}},
	})

	log.Printf("MongoDB connected: db=%s", dbName)
	return &MongoInventoryStore{client: client, db: db, coll: coll}, nil
}

func (s *MongoInventoryStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoInventoryStore) Load(ctx context.Context, userID string) (models.InventoryDocument, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var doc mongoInventoryDoc
	if err := s.coll.FindOne(ctx, bson.M{"_id": userID}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			// No document yet means an empty inventory, not an error.
			return models.InventoryDocument{}, nil
		}
		return models.InventoryDocument{}, err
	}
	return inventoryDocToModel(doc), nil
}

func (s *MongoInventoryStore) Save(ctx context.Context, userID string, doc models.InventoryDocument) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := s.coll.ReplaceOne(
		ctx,
		bson.M{"_id": userID},
		inventoryDocFromModel(userID, doc),
		options.Replace().SetUpsert(true),
	)
	return err
}

func inventoryDocToModel(d mongoInventoryDoc) models.InventoryDocument {
	items := make([]models.InventoryItem, 0, len(d.Items))
	for _, e := range d.Items {
		items = append(items, models.InventoryItem{
			ID:          e.ID,
			Name:        e.Name,
			Category:    models.Category(e.Category),
			Size:        e.Size,
			Quantity:    e.Quantity,
			LastUpdated: e.LastUpdated,
		})
	}
	return models.InventoryDocument{
		Items:       items,
		LastUpdated: d.LastUpdated,
		UserEmail:   d.UserEmail,
	}
}

func inventoryDocFromModel(userID string, doc models.InventoryDocument) mongoInventoryDoc {
	entries := make([]mongoItemEntry, 0, len(doc.Items))
	for _, item := range doc.Items {
		entries = append(entries, mongoItemEntry{
			ID:          item.ID,
			Name:        item.Name,
			Category:    string(item.Category),
			Size:        item.Size,
			Quantity:    item.Quantity,
			LastUpdated: item.LastUpdated,
		})
	}
	return mongoInventoryDoc{
		ID:          userID,
		Items:       entries,
		LastUpdated: doc.LastUpdated,
		UserEmail:   doc.UserEmail,
	}
}
