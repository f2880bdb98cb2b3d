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

	"github.com/vestuario/commerce-api/internal/core/domain"
	"github.com/vestuario/commerce-api/internal/core/ports"
)

const roleRequestsCollection = "role_requests"

// RoleRequestRepository implements ports.RoleRequestRepository on MongoDB.
// Decisions are applied with a conditional single-document update on the
// pending status, which serializes concurrent admins without a transaction.
type RoleRequestRepository struct {
	coll *mongo.Collection
}

func NewRoleRequestRepository(db *mongo.Database) *RoleRequestRepository {
	return &RoleRequestRepository{coll: db.Collection(roleRequestsCollection)}
}

type mongoRoleRequest struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	UserID        primitive.ObjectID `bson:"user_id"`
	RequestedRole string             `bson:"requested_role"`
	Motivation    string             `bson:"motivation"`
	Status        string             `bson:"status"`
	DecidedBy     string             `bson:"decided_by,omitempty"`
	DecisionNotes string             `bson:"decision_notes,omitempty"`
	DecidedAt     *time.Time         `bson:"decided_at,omitempty"`
	CreatedAt     time.Time          `bson:"created_at"`
}

func (mr *mongoRoleRequest) toDomain() *domain.RoleRequest {
	return &domain.RoleRequest{
		ID:            mr.ID.Hex(),
		UserID:        mr.UserID.Hex(),
		RequestedRole: mr.RequestedRole,
		Motivation:    mr.Motivation,
		Status:        domain.RequestStatus(mr.Status),
		DecidedBy:     mr.DecidedBy,
		DecisionNotes: mr.DecisionNotes,
		DecidedAt:     mr.DecidedAt,
		CreatedAt:     mr.CreatedAt,
	}
}

func (r *RoleRequestRepository) Create(ctx context.Context, req *domain.RoleRequest) (*domain.RoleRequest, error) {
	userOID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	doc := mongoRoleRequest{
		UserID:        userOID,
		RequestedRole: req.RequestedRole,
		Motivation:    req.Motivation,
		Status:        string(req.Status),
		CreatedAt:     req.CreatedAt,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert role request: %w", err)
	}

	created := *req
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *RoleRequestRepository) FindByID(ctx context.Context, id string) (*domain.RoleRequest, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrRequestNotFound
	}

	var mr mongoRoleRequest
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mr); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, fmt.Errorf("find role request: %w", err)
	}
	return mr.toDomain(), nil
}

func (r *RoleRequestRepository) ListPending(ctx context.Context) ([]*domain.RoleRequest, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"status": string(domain.RequestPending)}, opts)
	if err != nil {
		return nil, fmt.Errorf("list pending requests: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []mongoRoleRequest
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode pending requests: %w", err)
	}

	requests := make([]*domain.RoleRequest, 0, len(docs))
	for i := range docs {
		requests = append(requests, docs[i].toDomain())
	}
	return requests, nil
}

// MarkDecided flips a pending request to its decided status. The pending
// filter makes the flip conditional: a request already decided matches
// nothing and the caller gets applied=false.
func (r *RoleRequestRepository) MarkDecided(ctx context.Context, id string, d ports.Decision) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, domain.ErrRequestNotFound
	}

	filter := bson.M{"_id": oid, "status": string(domain.RequestPending)}
	update := bson.M{"$set": bson.M{
		"status":         string(d.Status),
		"decided_by":     d.AdminID,
		"decision_notes": d.Notes,
		"decided_at":     d.At,
	}}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("mark request decided: %w", err)
	}
	return res.MatchedCount == 1, nil
}

// Reopen reverts a decided request to pending, clearing the decision fields.
func (r *RoleRequestRepository) Reopen(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrRequestNotFound
	}

	update := bson.M{
		"$set":   bson.M{"status": string(domain.RequestPending)},
		"$unset": bson.M{"decided_by": "", "decision_notes": "", "decided_at": ""},
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("reopen request: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrRequestNotFound
	}
	return nil
}

// EnsureIndexes creates the pending-review index on the role_requests collection.
func (r *RoleRequestRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: 1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
