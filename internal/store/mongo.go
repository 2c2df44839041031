package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/vilaca/issue-tracker/internal/domain"
)

// Document field names for the server-stamped timestamps.
const (
	mongoCreatedAt = "createdAt"
	mongoUpdatedAt = "updatedAt"
)

// MongoConfig holds connection settings for the mongo backend.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// issueDocument is the stored shape of an issue.
type issueDocument struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Project    string             `bson:"project"`
	Title      string             `bson:"issue_title"`
	Text       string             `bson:"issue_text"`
	CreatedBy  string             `bson:"created_by"`
	AssignedTo string             `bson:"assigned_to"`
	StatusText string             `bson:"status_text"`
	Open       bool               `bson:"open"`
	CreatedAt  time.Time          `bson:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt"`
}

func toDocument(issue domain.Issue) issueDocument {
	return issueDocument{
		Project:    issue.Project,
		Title:      issue.Title,
		Text:       issue.Text,
		CreatedBy:  issue.CreatedBy,
		AssignedTo: issue.AssignedTo,
		StatusText: issue.StatusText,
		Open:       issue.Open,
		CreatedAt:  issue.CreatedOn,
		UpdatedAt:  issue.UpdatedOn,
	}
}

func (d issueDocument) issue() domain.Issue {
	return domain.Issue{
		ID:         d.ID.Hex(),
		Project:    d.Project,
		Title:      d.Title,
		Text:       d.Text,
		CreatedBy:  d.CreatedBy,
		AssignedTo: d.AssignedTo,
		StatusText: d.StatusText,
		Open:       d.Open,
		CreatedOn:  domain.Timestamp(d.CreatedAt),
		UpdatedOn:  domain.Timestamp(d.UpdatedAt),
	}
}

// MongoStore keeps issues in a MongoDB collection.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
	clock      Clock
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, cfg MongoConfig, clock Clock) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return &MongoStore{
		client:     client,
		collection: client.Database(cfg.Database).Collection(cfg.Collection),
		clock:      clock,
	}, nil
}

// Insert stores a new issue document; the id is generated client-side.
func (s *MongoStore) Insert(ctx context.Context, issue domain.Issue) (domain.Issue, error) {
	now := s.clock.now()
	doc := toDocument(issue)
	doc.ID = primitive.NewObjectID()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	if _, err := s.collection.InsertOne(ctx, doc); err != nil {
		return domain.Issue{}, fmt.Errorf("insert issue: %w", err)
	}
	return doc.issue(), nil
}

// Find returns issues matching filter in natural order.
func (s *MongoStore) Find(ctx context.Context, filter domain.Filter) ([]domain.Issue, error) {
	query, ok := filterDocument(filter)
	if !ok {
		return nil, nil
	}

	cursor, err := s.collection.Find(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("find issues: %w", err)
	}

	var docs []issueDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode issues: %w", err)
	}

	issues := make([]domain.Issue, 0, len(docs))
	for _, doc := range docs {
		issues = append(issues, doc.issue())
	}
	return issues, nil
}

// Update runs a find-and-modify returning the updated document.
// An empty update only looks the document up.
func (s *MongoStore) Update(ctx context.Context, id string, update domain.Update) (domain.Issue, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.Issue{}, fmt.Errorf("update %q: %w", id, domain.ErrNotFound)
	}

	var doc issueDocument
	if update.IsEmpty() {
		err = s.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	} else {
		opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
		err = s.collection.FindOneAndUpdate(ctx, bson.M{"_id": oid}, updateDocument(update, s.clock.now()), opts).Decode(&doc)
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Issue{}, fmt.Errorf("update %q: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Issue{}, fmt.Errorf("update %q: %w", id, err)
	}
	return doc.issue(), nil
}

// Delete runs a find-and-delete returning the removed document.
func (s *MongoStore) Delete(ctx context.Context, id string) (domain.Issue, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.Issue{}, fmt.Errorf("delete %q: %w", id, domain.ErrNotFound)
	}

	var doc issueDocument
	err = s.collection.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Issue{}, fmt.Errorf("delete %q: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Issue{}, fmt.Errorf("delete %q: %w", id, err)
	}
	return doc.issue(), nil
}

// Ping checks the primary is reachable.
func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// filterDocument translates a domain filter into a mongo query.
// ok is false when some condition can never match, e.g. only malformed ids
// or a field issues do not have. Only known field names become query keys.
func filterDocument(filter domain.Filter) (query bson.M, ok bool) {
	query = bson.M{}
	for name, values := range filter {
		if !domain.IsField(name) {
			return nil, false
		}
		key := name
		switch name {
		case domain.FieldCreatedOn:
			key = mongoCreatedAt
		case domain.FieldUpdatedOn:
			key = mongoUpdatedAt
		case domain.FieldID:
			values = objectIDs(values)
			if len(values) == 0 {
				return nil, false
			}
		}

		if len(values) == 1 {
			query[key] = values[0]
		} else {
			query[key] = bson.M{"$in": values}
		}
	}
	return query, true
}

func objectIDs(values []any) []any {
	ids := make([]any, 0, len(values))
	for _, v := range values {
		s, ok := v.(string)
		if !ok {
			continue
		}
		if oid, err := primitive.ObjectIDFromHex(s); err == nil {
			ids = append(ids, oid)
		}
	}
	return ids
}

// updateDocument builds the $set document for a sparse update.
func updateDocument(update domain.Update, now time.Time) bson.M {
	set := bson.M{mongoUpdatedAt: now}
	if update.Title != nil {
		set[domain.FieldTitle] = *update.Title
	}
	if update.Text != nil {
		set[domain.FieldText] = *update.Text
	}
	if update.CreatedBy != nil {
		set[domain.FieldCreatedBy] = *update.CreatedBy
	}
	if update.AssignedTo != nil {
		set[domain.FieldAssignedTo] = *update.AssignedTo
	}
	if update.StatusText != nil {
		set[domain.FieldStatusText] = *update.StatusText
	}
	if update.Open != nil {
		set[domain.FieldOpen] = *update.Open
	}
	return bson.M{"$set": set}
}
