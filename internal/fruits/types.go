// Package fruits holds the records that flow through the ETL: the raw
// documents read from MongoDB and the projection written to PostgreSQL.
package fruits

import "go.mongodb.org/mongo-driver/bson"

// Document is a fruit as stored in MongoDB. Only name is typed; every
// other field lands in Extra and is dropped by Transform.
type Document struct {
	Name  *string `bson:"name,omitempty" json:"name,omitempty"`
	Extra bson.M  `bson:",inline" json:"extra,omitempty"`
}

// Fruit is the projection loaded into fruit_table. A nil Name means the
// source document had no name and is stored as NULL.
type Fruit struct {
	Name *string `json:"name"`
}

// NameOrEmpty is for logging only.
func (f Fruit) NameOrEmpty() string {
	if f.Name == nil {
		return ""
	}
	return *f.Name
}
