package mongo

import "go.mongodb.org/mongo-driver/bson/primitive"

// objectID parses a hex id. Malformed ids can never match a document, so
// callers map the failure to their not-found sentinel.
func objectID(hex string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return oid, true
}

func insertedHex(id interface{}) string {
	if oid, ok := id.(primitive.ObjectID); ok {
		return oid.Hex()
	}
	return ""
}
