package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vilaca/issue-tracker/internal/domain"
)

func TestFilterDocument(t *testing.T) {
	created := time.Date(2023, 11, 1, 21, 3, 51, 123_000_000, time.UTC)
	f := domain.Filter{
		domain.FieldProject:   {"test"},
		domain.FieldOpen:      {true},
		domain.FieldCreatedBy: {"a", "b"},
		domain.FieldCreatedOn: {created},
		domain.FieldID:        {"6542bcb70680d11cd05fb050"},
	}

	query, ok := filterDocument(f)

	require.True(t, ok)
	oid, _ := primitive.ObjectIDFromHex("6542bcb70680d11cd05fb050")
	assert.Equal(t, bson.M{
		"project":    "test",
		"open":       true,
		"created_by": bson.M{"$in": []any{"a", "b"}},
		"createdAt":  created,
		"_id":        oid,
	}, query)
}

func TestFilterDocument_MalformedID(t *testing.T) {
	_, ok := filterDocument(domain.Filter{
		domain.FieldProject: {"test"},
		domain.FieldID:      {"nope"},
	})
	assert.False(t, ok)
}

func TestFilterDocument_UnknownFields(t *testing.T) {
	tests := []domain.Filter{
		{domain.FieldProject: {"test"}, "somethingElse": {"x"}},
		{domain.FieldProject: {"test"}, "$where": {"sleep(5000) || true"}},
		{domain.FieldProject: {"test"}, "$expr": {"x"}},
	}
	for _, f := range tests {
		query, ok := filterDocument(f)
		assert.False(t, ok)
		assert.Nil(t, query)
	}
}

func TestFilterDocument_OperatorQueryNeverReachesMongo(t *testing.T) {
	f, ok := domain.NewFilter("p", map[string][]string{"$where": {"sleep(5000) || true"}})
	assert.False(t, ok)
	assert.Nil(t, f)

	// A filter built by hand with an operator key is refused as well.
	_, ok = filterDocument(domain.Filter{"$where": {"sleep(5000) || true"}})
	assert.False(t, ok)
}

func TestUpdateDocument(t *testing.T) {
	now := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	status := "updated"
	closed := false

	doc := updateDocument(domain.Update{StatusText: &status, Open: &closed}, now)

	assert.Equal(t, bson.M{"$set": bson.M{
		"status_text": "updated",
		"open":        false,
		"updatedAt":   now,
	}}, doc)
}

func TestIssueDocumentRoundTrip(t *testing.T) {
	created := time.Date(2023, 11, 1, 21, 3, 51, 123_000_000, time.UTC)
	issue := domain.Issue{
		Project:    "test",
		Title:      "Title",
		Text:       "text",
		CreatedBy:  "CB",
		AssignedTo: "someone",
		StatusText: "QA",
		Open:       true,
		CreatedOn:  created,
		UpdatedOn:  created,
	}

	doc := toDocument(issue)
	doc.ID = primitive.NewObjectID()
	back := doc.issue()

	issue.ID = doc.ID.Hex()
	assert.Equal(t, issue, back)
}
