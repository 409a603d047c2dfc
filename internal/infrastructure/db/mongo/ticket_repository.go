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

const collectionTickets = "tickets"

type TicketRepository struct {
	col *mongo.Collection
}

func NewTicketRepository(db *mongo.Database) *TicketRepository {
	return &TicketRepository{col: db.Collection(collectionTickets)}
}

type ticketDoc struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	BuyDate        time.Time          `bson:"buy_date"`
	PresentationID primitive.ObjectID `bson:"presentation_id"`
	UserID         string             `bson:"user_id"`
	IsRedeemed     bool               `bson:"is_redeemed"`
	IsActive       bool               `bson:"is_active"`
}

func (d ticketDoc) toDomain() *domain.Ticket {
	return &domain.Ticket{
		ID:             d.ID.Hex(),
		BuyDate:        d.BuyDate.UTC(),
		PresentationID: d.PresentationID.Hex(),
		UserID:         d.UserID,
		Redeemed:       d.IsRedeemed,
		Active:         d.IsActive,
	}
}

func (r *TicketRepository) Create(ctx context.Context, t *domain.Ticket) (*domain.Ticket, error) {
	presID, ok := objectID(t.PresentationID)
	if !ok {
		return nil, domain.ErrPresentationNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, ticketDoc{
		BuyDate:        t.BuyDate,
		PresentationID: presID,
		UserID:         t.UserID,
		IsRedeemed:     t.Redeemed,
		IsActive:       t.Active,
	})
	if err != nil {
		return nil, fmt.Errorf("insert ticket: %w", err)
	}

	created := *t
	created.ID = insertedHex(res.InsertedID)
	return &created, nil
}

func (r *TicketRepository) FindByID(ctx context.Context, id string) (*domain.Ticket, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrTicketNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc ticketDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTicketNotFound
		}
		return nil, fmt.Errorf("find ticket: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *TicketRepository) FindByUser(ctx context.Context, userID string) ([]*domain.Ticket, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"user_id": userID}, options.Find().SetSort(bson.D{{Key: "buy_date", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("find tickets: %w", err)
	}
	defer cur.Close(ctx)

	var docs []ticketDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode tickets: %w", err)
	}

	out := make([]*domain.Ticket, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

// Cancel flips is_active once. When the filter misses, the ticket is either
// gone or already cancelled, so the stored state is returned as is.
func (r *TicketRepository) Cancel(ctx context.Context, id string) (*domain.Ticket, error) {
	return r.flip(ctx, id, bson.M{"is_active": true}, bson.M{"is_active": false})
}

// Redeem flips is_redeemed once, and only for active tickets.
func (r *TicketRepository) Redeem(ctx context.Context, id string) (*domain.Ticket, error) {
	return r.flip(ctx, id, bson.M{"is_active": true, "is_redeemed": false}, bson.M{"is_redeemed": true})
}

func (r *TicketRepository) flip(ctx context.Context, id string, guard, set bson.M) (*domain.Ticket, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrTicketNotFound
	}

	filter := bson.M{"_id": oid}
	for k, v := range guard {
		filter[k] = v
	}

	opCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc ticketDoc
	err := r.col.FindOneAndUpdate(opCtx, filter, bson.M{"$set": set}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return r.FindByID(ctx, id)
	}
	if err != nil {
		return nil, fmt.Errorf("update ticket: %w", err)
	}
	return doc.toDomain(), nil
}

// IsManagedBy walks ticket -> presentation -> event and checks the event
// owner in a single aggregation.
func (r *TicketRepository) IsManagedBy(ctx context.Context, ticketID, managerID string) (bool, error) {
	oid, ok := objectID(ticketID)
	if !ok {
		return false, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Aggregate(ctx, managedByPipeline(oid, managerID))
	if err != nil {
		return false, fmt.Errorf("ticket ownership: %w", err)
	}
	defer cur.Close(ctx)

	found := cur.Next(ctx)
	if err := cur.Err(); err != nil {
		return false, fmt.Errorf("ticket ownership: %w", err)
	}
	return found, nil
}

func managedByPipeline(ticketID primitive.ObjectID, managerID string) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"_id": ticketID}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         collectionPresentations,
			"localField":   "presentation_id",
			"foreignField": "_id",
			"as":           "presentation",
		}}},
		{{Key: "$unwind", Value: "$presentation"}},
		{{Key: "$lookup", Value: bson.M{
			"from":         collectionEvents,
			"localField":   "presentation.event_id",
			"foreignField": "_id",
			"as":           "event",
		}}},
		{{Key: "$unwind", Value: "$event"}},
		{{Key: "$match", Value: bson.M{"event.owner_id": managerID}}},
		{{Key: "$limit", Value: 1}},
		{{Key: "$project", Value: bson.M{"_id": 1}}},
	}
}

func (r *TicketRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "buy_date", Value: -1}}},
		{Keys: bson.D{{Key: "presentation_id", Value: 1}}},
	})
	return err
}
