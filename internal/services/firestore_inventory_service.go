package services

import (
	"context"
	"log"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/sportstock/backend/internal/models"
)

// FirestoreInventoryStore keeps each user's inventory in the
// "inventories/{userID}" document, the same layout the dashboard's original
// direct-to-Firestore sync used. It also supports realtime watch via document
// snapshots, so changes written by other devices reach subscribers.
type FirestoreInventoryStore struct {
	client *firestore.Client
}

type firestoreInventoryDoc struct {
	Items       []firestoreItemEntry `firestore:"items"`
	LastUpdated string               `firestore:"lastUpdated"`
	UserEmail   string               `firestore:"userEmail"`
}

type firestoreItemEntry struct {
	ID          string    `firestore:"id"`
	Name        string    `firestore:"name"`
	Category    string    `firestore:"category"`
	Size        string    `firestore:"size"`
	Quantity    int       `firestore:"quantity"`
	LastUpdated time.Time `firestore:"lastUpdated"`
}

func NewFirestoreInventoryStore(client *firestore.Client) *FirestoreInventoryStore {
	return &FirestoreInventoryStore{client: client}
}

func (s *FirestoreInventoryStore) doc(userID string) *firestore.DocumentRef {
	return s.client.Collection("inventories").Doc(userID)
}

func (s *FirestoreInventoryStore) Load(ctx context.Context, userID string) (models.InventoryDocument, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	snap, err := s.doc(userID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return models.InventoryDocument{}, nil
		}
		return models.InventoryDocument{}, err
	}

	var doc firestoreInventoryDoc
	if err := snap.DataTo(&doc); err != nil {
		return models.InventoryDocument{}, err
	}
	return firestoreDocToModel(doc), nil
}

func (s *FirestoreInventoryStore) Save(ctx context.Context, userID string, doc models.InventoryDocument) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := s.doc(userID).Set(ctx, firestoreDocFromModel(doc))
	return err
}

// Watch streams the document's snapshots. The first snapshot arrives
// immediately; the channel closes when the context ends or the listener
// errors. A missing document streams as an empty inventory.
func (s *FirestoreInventoryStore) Watch(ctx context.Context, userID string) (<-chan models.InventoryDocument, error) {
	iter := s.doc(userID).Snapshots(ctx)
	out := make(chan models.InventoryDocument, 1)

	go func() {
		defer close(out)
		defer iter.Stop()
		for {
			snap, err := iter.Next()
			if err != nil {
				if ctx.Err() == nil {
					log.Printf("[Firestore] snapshot listener for user %s stopped: %v", userID, err)
				}
				return
			}
			if !snap.Exists() {
				out <- models.InventoryDocument{}
				continue
			}
			var doc firestoreInventoryDoc
			if err := snap.DataTo(&doc); err != nil {
				log.Printf("[Firestore] bad inventory document for user %s: %v", userID, err)
				continue
			}
			out <- firestoreDocToModel(doc)
		}
	}()
	return out, nil
}

func firestoreDocToModel(d firestoreInventoryDoc) models.InventoryDocument {
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

func firestoreDocFromModel(doc models.InventoryDocument) firestoreInventoryDoc {
	entries := make([]firestoreItemEntry, 0, len(doc.Items))
	for _, item := range doc.Items {
		entries = append(entries, firestoreItemEntry{
			ID:          item.ID,
			Name:        item.Name,
			Category:    string(item.Category),
			Size:        item.Size,
			Quantity:    item.Quantity,
			LastUpdated: item.LastUpdated,
		})
	}
	return firestoreInventoryDoc{
		Items:       entries,
		LastUpdated: doc.LastUpdated,
		UserEmail:   doc.UserEmail,
	}
}
