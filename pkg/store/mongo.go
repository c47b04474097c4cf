package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/patentfig/pkg/diagram"
)

// DefaultCollection is the collection diagrams are stored in.
const DefaultCollection = "diagrams"

// MongoStore keeps records in a MongoDB collection.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// mongoDoc is the stored form of a Record. The scene is kept as its JSON
// encoding so the document layout matches the API's.
type mongoDoc struct {
	ID        string    `bson:"_id"`
	Kind      string    `bson:"kind"`
	Style     string    `bson:"style,omitempty"`
	Caption   string    `bson:"caption"`
	Scene     []byte    `bson:"scene"`
	CreatedAt time.Time `bson:"created_at"`
}

// NewMongoStore connects to MongoDB at uri and uses the diagrams collection
// of database.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	if database == "" {
		return nil, errors.New("mongo: database name is required")
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(DefaultCollection),
	}, nil
}

func (s *MongoStore) Save(ctx context.Context, rec Record) (Record, error) {
	rec = prepare(rec)
	doc, err := toDoc(rec)
	if err != nil {
		return Record{}, err
	}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return Record{}, fmt.Errorf("mongo insert: %w", err)
	}
	return rec, nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (Record, error) {
	var doc mongoDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("mongo find: %w", err)
	}
	return fromDoc(doc)
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func toDoc(rec Record) (mongoDoc, error) {
	scene, err := diagram.MarshalScene(rec.Scene)
	if err != nil {
		return mongoDoc{}, fmt.Errorf("encode scene: %w", err)
	}
	return mongoDoc{
		ID:        rec.ID,
		Kind:      string(rec.Kind),
		Style:     rec.Style,
		Caption:   rec.Scene.Caption.Text,
		Scene:     scene,
		CreatedAt: rec.CreatedAt,
	}, nil
}

func fromDoc(doc mongoDoc) (Record, error) {
	scene, err := diagram.UnmarshalScene(doc.Scene)
	if err != nil {
		return Record{}, err
	}
	return Record{
		ID:        doc.ID,
		Kind:      diagram.Kind(doc.Kind),
		Style:     doc.Style,
		Scene:     scene,
		CreatedAt: doc.CreatedAt,
	}, nil
}

var _ Store = (*MongoStore)(nil)
