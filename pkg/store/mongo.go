package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kintree/kintree/pkg/family"
)

// Collection names used by the Mongo store.
const (
	colPeople        = "people"
	colRelationships = "relationships"
	colCounters      = "counters"
)

// connectTimeout bounds the initial server handshake.
const connectTimeout = 10 * time.Second

// Mongo is a MongoDB-backed record store. It maintains the same reciprocity
// and cascade invariants as the in-memory store, and mints auto-increment IDs
// from a counters collection so IDs stay dense integers across restarts.
//
// Invariant maintenance is not transactional: a crash between writing an edge
// and its mirror can leave a one-sided relationship. Re-importing through
// kinio repairs this; realistic data sets are small enough that this is an
// accepted trade-off over requiring a replica set for multi-document
// transactions.
type Mongo struct {
	client *mongo.Client
	db     *mongo.Database
}

// MongoConfig configures the MongoDB connection.
type MongoConfig struct {
	URI      string // e.g. "mongodb://localhost:27017"
	Database string // e.g. "kintree"
}

// NewMongo connects to MongoDB and returns a store backed by it.
func NewMongo(ctx context.Context, cfg MongoConfig) (*Mongo, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("mongo URI is required")
	}
	if cfg.Database == "" {
		cfg.Database = "kintree"
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return &Mongo{
		client: client,
		db:     client.Database(cfg.Database),
	}, nil
}

// nextID atomically increments and returns the named counter.
func (s *Mongo) nextID(ctx context.Context, name string) (int, error) {
	var doc struct {
		Seq int `bson:"seq"`
	}
	err := s.db.Collection(colCounters).FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return 0, fmt.Errorf("next %s id: %w", name, err)
	}
	return doc.Seq, nil
}

// ListPeople returns all persons ordered by ID.
func (s *Mongo) ListPeople(ctx context.Context) ([]family.Person, error) {
	cur, err := s.db.Collection(colPeople).Find(ctx, bson.M{},
		options.Find().SetSort(bson.M{"id": 1}))
	if err != nil {
		return nil, fmt.Errorf("list people: %w", err)
	}
	people := []family.Person{}
	if err := cur.All(ctx, &people); err != nil {
		return nil, fmt.Errorf("decode people: %w", err)
	}
	return people, nil
}

// GetPerson returns the person with the given ID.
func (s *Mongo) GetPerson(ctx context.Context, id int) (family.Person, error) {
	var p family.Person
	err := s.db.Collection(colPeople).FindOne(ctx, bson.M{"id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return family.Person{}, ErrPersonNotFound
	}
	if err != nil {
		return family.Person{}, fmt.Errorf("get person %d: %w", id, err)
	}
	return p, nil
}

// InsertPerson stores a new person under the next free ID.
func (s *Mongo) InsertPerson(ctx context.Context, p family.Person) (family.Person, error) {
	id, err := s.nextID(ctx, "person")
	if err != nil {
		return family.Person{}, err
	}
	p.ID = id
	if _, err := s.db.Collection(colPeople).InsertOne(ctx, p); err != nil {
		return family.Person{}, fmt.Errorf("insert person: %w", err)
	}
	return p, nil
}

// ReplacePerson replaces the full record of an existing person.
func (s *Mongo) ReplacePerson(ctx context.Context, p family.Person) error {
	res, err := s.db.Collection(colPeople).ReplaceOne(ctx, bson.M{"id": p.ID}, p)
	if err != nil {
		return fmt.Errorf("replace person %d: %w", p.ID, err)
	}
	if res.MatchedCount == 0 {
		return ErrPersonNotFound
	}
	return nil
}

// DeletePerson removes a person and every relationship referencing it.
func (s *Mongo) DeletePerson(ctx context.Context, id int) error {
	res, err := s.db.Collection(colPeople).DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("delete person %d: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ErrPersonNotFound
	}

	_, err = s.db.Collection(colRelationships).DeleteMany(ctx, bson.M{
		"$or": []bson.M{
			{"person_id": id},
			{"related_person_id": id},
		},
	})
	if err != nil {
		return fmt.Errorf("cascade relationships for person %d: %w", id, err)
	}
	return nil
}

// ListRelationships returns all relationships ordered by ID.
func (s *Mongo) ListRelationships(ctx context.Context) ([]family.Relationship, error) {
	cur, err := s.db.Collection(colRelationships).Find(ctx, bson.M{},
		options.Find().SetSort(bson.M{"id": 1}))
	if err != nil {
		return nil, fmt.Errorf("list relationships: %w", err)
	}
	rels := []family.Relationship{}
	if err := cur.All(ctx, &rels); err != nil {
		return nil, fmt.Errorf("decode relationships: %w", err)
	}
	return rels, nil
}

// AddRelationship stores the relationship and its reciprocal mirror.
func (s *Mongo) AddRelationship(ctx context.Context, r family.Relationship) (family.Relationship, error) {
	if err := r.Validate(); err != nil {
		return family.Relationship{}, err
	}

	id, err := s.nextID(ctx, "relationship")
	if err != nil {
		return family.Relationship{}, err
	}
	r.ID = id

	mirror := r.Mirror()
	mirror.ID, err = s.nextID(ctx, "relationship")
	if err != nil {
		return family.Relationship{}, err
	}

	if _, err := s.db.Collection(colRelationships).InsertMany(ctx, []any{r, mirror}); err != nil {
		return family.Relationship{}, fmt.Errorf("insert relationship pair: %w", err)
	}
	return r, nil
}

// DeleteRelationship removes a relationship and its mirror.
func (s *Mongo) DeleteRelationship(ctx context.Context, id int) error {
	var r family.Relationship
	err := s.db.Collection(colRelationships).FindOneAndDelete(ctx, bson.M{"id": id}).Decode(&r)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrRelationshipNotFound
	}
	if err != nil {
		return fmt.Errorf("delete relationship %d: %w", id, err)
	}

	mirror := r.Mirror()
	_, err = s.db.Collection(colRelationships).DeleteOne(ctx, bson.M{
		"type":              mirror.Type,
		"person_id":         mirror.PersonID,
		"related_person_id": mirror.RelatedPersonID,
	})
	if err != nil {
		return fmt.Errorf("delete mirror of relationship %d: %w", id, err)
	}
	return nil
}

// Close disconnects from MongoDB.
func (s *Mongo) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ensure Mongo implements Store.
var _ Store = (*Mongo)(nil)
