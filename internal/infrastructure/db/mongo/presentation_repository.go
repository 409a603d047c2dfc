package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/compunet/ticketing-api/internal/core/domain"
)

const collectionPresentations = "presentations"

type PresentationRepository struct {
	col *mongo.Collection
}

func NewPresentationRepository(db *mongo.Database) *PresentationRepository {
	return &PresentationRepository{col: db.Collection(collectionPresentations)}
}

type presentationDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	EventID   primitive.ObjectID `bson:"event_id"`
	StartsAt  time.Time          `bson:"starts_at"`
	Venue     string             `bson:"venue"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (d presentationDoc) toDomain() *domain.Presentation {
	return &domain.Presentation{
		ID:        d.ID.Hex(),
		EventID:   d.EventID.Hex(),
		StartsAt:  d.StartsAt.UTC(),
		Venue:     d.Venue,
		CreatedAt: d.CreatedAt.UTC(),
	}
}

func (r *PresentationRepository) Create(ctx context.Context, p *domain.Presentation) (*domain.Presentation, error) {
	eventID, ok := objectID(p.EventID)
	if !ok {
		return nil, domain.ErrEventNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, presentationDoc{
		EventID:   eventID,
		StartsAt:  p.StartsAt,
		Venue:     p.Venue,
		CreatedAt: p.CreatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("insert presentation: %w", err)
	}

	created := *p
	created.ID = insertedHex(res.InsertedID)
	return &created, nil
}

func (r *PresentationRepository) FindByID(ctx context.Context, id string) (*domain.Presentation, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrPresentationNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc presentationDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPresentationNotFound
		}
		return nil, fmt.Errorf("find presentation: %w", err)
	}
	return doc.toDomain(), nil
}

// FindByEvent lists an event's presentations in chronological order.
func (r *PresentationRepository) FindByEvent(ctx context.Context, eventID string) ([]*domain.Presentation, error) {
	oid, ok := objectID(eventID)
	if !ok {
		return []*domain.Presentation{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"event_id": oid}, options.Find().SetSort(bson.D{{Key: "starts_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find presentations: %w", err)
	}
	defer cur.Close(ctx)

	var docs []presentationDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode presentations: %w", err)
	}

	out := make([]*domain.Presentation, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *PresentationRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "event_id", Value: 1}, {Key: "starts_at", Value: 1}},
	})
	return err
}
