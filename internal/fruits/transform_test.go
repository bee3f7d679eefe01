package fruits

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func name(s string) *string { return &s }

func TestTransform(t *testing.T) {
	tests := []struct {
		name      string
		documents []Document
		want      []Fruit
	}{
		{
			name: "keeps only the name",
			documents: []Document{
				{Name: name("apple"), Extra: bson.M{"color": "red", "weight": 120}},
				{Name: name("banana"), Extra: bson.M{"_id": "b1"}},
			},
			want: []Fruit{{Name: name("apple")}, {Name: name("banana")}},
		},
		{
			name:      "missing name projects to nil",
			documents: []Document{{Extra: bson.M{"color": "green"}}},
			want:      []Fruit{{Name: nil}},
		},
		{
			name:      "no documents",
			documents: []Document{},
			want:      []Fruit{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Transform(tt.documents)
			assert.Equal(t, tt.want, got)
			assert.NotNil(t, got)
		})
	}
}

func TestTransformDropsExtraFields(t *testing.T) {
	got := Transform([]Document{{Name: name("kiwi"), Extra: bson.M{"origin": "NZ"}}})

	encoded, err := json.Marshal(got)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"kiwi"}]`, string(encoded))
}

func TestDocumentDecodesExtraFieldsInline(t *testing.T) {
	raw, err := bson.Marshal(bson.D{{Key: "name", Value: "plum"}, {Key: "color", Value: "purple"}})
	require.NoError(t, err)

	var doc Document
	require.NoError(t, bson.Unmarshal(raw, &doc))

	require.NotNil(t, doc.Name)
	assert.Equal(t, "plum", *doc.Name)
	assert.Equal(t, "purple", doc.Extra["color"])
	assert.Equal(t, Fruit{Name: name("plum")}, Transform([]Document{doc})[0])
}

func TestDocumentRejectsNonStringName(t *testing.T) {
	raw, err := bson.Marshal(bson.D{{Key: "name", Value: 42}})
	require.NoError(t, err)

	var doc Document
	assert.Error(t, bson.Unmarshal(raw, &doc))
}

func TestNameOrEmpty(t *testing.T) {
	assert.Equal(t, "fig", Fruit{Name: name("fig")}.NameOrEmpty())
	assert.Equal(t, "", Fruit{}.NameOrEmpty())
}
