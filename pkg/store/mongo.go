package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/archsketch/archsketch/pkg/arch"
	"github.com/archsketch/archsketch/pkg/diagram"
	"github.com/archsketch/archsketch/pkg/errors"
)

const roundsCollection = "rounds"

// MongoStore persists rounds in a MongoDB collection, one document per
// round. Snapshots and diagram documents are embedded as raw JSON so the
// wire format stays identical to the file backend.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// roundDoc is the MongoDB document for one round.
type roundDoc struct {
	Record   `bson:"inline"`
	Snapshot []byte `bson:"snapshot"`
	Document []byte `bson:"document,omitempty"`
}

// NewMongoStore connects to MongoDB at uri, verifies the connection and
// ensures the round-id index exists.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeStore, err, "ping mongodb")
	}

	coll := client.Database(database).Collection(roundsCollection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "round_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeStore, err, "create round index")
	}
	return &MongoStore{client: client, coll: coll}, nil
}

// PutSnapshot upserts a snapshot under its round id. A re-stored round
// drops any previously synthesized document since it no longer matches.
func (s *MongoStore) PutSnapshot(ctx context.Context, snap arch.Snapshot) (Record, error) {
	raw, err := arch.MarshalSnapshot(snap)
	if err != nil {
		return Record{}, errors.Wrap(errors.ErrCodeStore, err, "marshal snapshot")
	}

	now := time.Now().UTC()
	rec := Record{
		RoundID:      snap.RoundID,
		RoundTitle:   snap.RoundTitle,
		SnapshotHash: snap.Hash(),
		UpdatedAt:    now,
	}

	var existing roundDoc
	err = s.coll.FindOne(ctx, bson.M{"round_id": snap.RoundID}).Decode(&existing)
	switch {
	case err == nil:
		rec.ID = existing.ID
		rec.CreatedAt = existing.CreatedAt
	case err == mongo.ErrNoDocuments:
		rec.ID = uuid.NewString()
		rec.CreatedAt = now
	default:
		return Record{}, errors.Wrap(errors.ErrCodeStore, err, "look up round %d", snap.RoundID)
	}

	doc := roundDoc{Record: rec, Snapshot: raw}
	_, err = s.coll.ReplaceOne(ctx, bson.M{"round_id": snap.RoundID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return Record{}, errors.Wrap(errors.ErrCodeStore, err, "store round %d", snap.RoundID)
	}
	return rec, nil
}

// GetSnapshot retrieves the snapshot for a round.
func (s *MongoStore) GetSnapshot(ctx context.Context, roundID int) (arch.Snapshot, error) {
	doc, err := s.findRound(ctx, roundID)
	if err != nil {
		return arch.Snapshot{}, err
	}
	return arch.UnmarshalSnapshot(doc.Snapshot)
}

// PutDocument stores the synthesized document for a round.
func (s *MongoStore) PutDocument(ctx context.Context, roundID int, doc diagram.Document) error {
	raw, err := diagram.MarshalDocument(doc)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "marshal document")
	}

	update := bson.M{"$set": bson.M{
		"document":     raw,
		"has_document": true,
		"updated_at":   time.Now().UTC(),
	}}
	res, err := s.coll.UpdateOne(ctx, bson.M{"round_id": roundID}, update)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "store document for round %d", roundID)
	}
	if res.MatchedCount == 0 {
		return errors.New(errors.ErrCodeRoundNotFound, "round %d not found", roundID)
	}
	return nil
}

// GetDocument retrieves the document for a round.
func (s *MongoStore) GetDocument(ctx context.Context, roundID int) (diagram.Document, error) {
	doc, err := s.findRound(ctx, roundID)
	if err != nil {
		return diagram.Document{}, err
	}
	if len(doc.Document) == 0 {
		return diagram.Document{}, errors.New(errors.ErrCodeRoundNotFound, "no document for round %d", roundID)
	}
	return diagram.UnmarshalDocument(doc.Document)
}

// ListRounds returns all stored rounds ordered by ascending round id.
func (s *MongoStore) ListRounds(ctx context.Context) ([]Record, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "round_id", Value: 1}}).
		SetProjection(bson.M{"snapshot": 0, "document": 0})
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "list rounds")
	}
	defer cur.Close(ctx)

	var records []Record
	for cur.Next(ctx) {
		var doc roundDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStore, err, "decode round")
		}
		records = append(records, doc.Record)
	}
	if err := cur.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "iterate rounds")
	}
	return records, nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) findRound(ctx context.Context, roundID int) (roundDoc, error) {
	var doc roundDoc
	err := s.coll.FindOne(ctx, bson.M{"round_id": roundID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return roundDoc{}, errors.New(errors.ErrCodeRoundNotFound, "round %d not found", roundID)
	}
	if err != nil {
		return roundDoc{}, errors.Wrap(errors.ErrCodeStore, err, "load round %d", roundID)
	}
	return doc, nil
}

var _ Store = (*MongoStore)(nil)
