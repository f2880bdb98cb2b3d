package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vestuario/commerce-api/internal/core/domain"
	"github.com/vestuario/commerce-api/internal/core/ports"
)

const productsCollection = "products"

// ProductRepository implements ports.ProductRepository on MongoDB.
type ProductRepository struct {
	coll *mongo.Collection
}

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{coll: db.Collection(productsCollection)}
}

type mongoProduct struct {
	ID          primitive.ObjectID    `bson:"_id,omitempty"`
	Name        string                `bson:"name"`
	Description string                `bson:"description"`
	Price       int64                 `bson:"price"`
	Category    string                `bson:"category"`
	Stock       int                   `bson:"stock"`
	Code        string                `bson:"code"`
	Sizes       []string              `bson:"sizes,omitempty"`
	Colors      []string              `bson:"colors,omitempty"`
	Images      []domain.ProductImage `bson:"images,omitempty"`
	IsActive    bool                  `bson:"is_active"`
	CreatedAt   time.Time             `bson:"created_at"`
	UpdatedAt   time.Time             `bson:"updated_at"`
}

func (mp *mongoProduct) toDomain() *domain.Product {
	return &domain.Product{
		ID:          mp.ID.Hex(),
		Name:        mp.Name,
		Description: mp.Description,
		Price:       mp.Price,
		Category:    mp.Category,
		Stock:       mp.Stock,
		Code:        mp.Code,
		Sizes:       mp.Sizes,
		Colors:      mp.Colors,
		Images:      mp.Images,
		IsActive:    mp.IsActive,
		CreatedAt:   mp.CreatedAt,
		UpdatedAt:   mp.UpdatedAt,
	}
}

func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	doc := mongoProduct{
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Category:    p.Category,
		Stock:       p.Stock,
		Code:        p.Code,
		Sizes:       p.Sizes,
		Colors:      p.Colors,
		Images:      p.Images,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateProduct
		}
		return nil, fmt.Errorf("insert product: %w", err)
	}

	created := *p
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrProductNotFound
	}

	var mp mongoProduct
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mp); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("find product: %w", err)
	}
	return mp.toDomain(), nil
}

func (r *ProductRepository) List(ctx context.Context, filter ports.ListProductsFilter) ([]*domain.Product, int64, error) {
	query := bson.M{}
	if filter.ActiveOnly {
		query["is_active"] = true
	}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"name": pattern},
			bson.M{"description": pattern},
		}
	}

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((filter.Page - 1) * filter.Limit)).
		SetLimit(int64(filter.Limit))

	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []mongoProduct
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode products: %w", err)
	}

	products := make([]*domain.Product, 0, len(docs))
	for i := range docs {
		products = append(products, docs[i].toDomain())
	}
	return products, total, nil
}

func (r *ProductRepository) Update(ctx context.Context, id string, fields ports.UpdateProductFields) (*domain.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrProductNotFound
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if fields.Name != nil {
		set["name"] = *fields.Name
	}
	if fields.Description != nil {
		set["description"] = *fields.Description
	}
	if fields.Price != nil {
		set["price"] = *fields.Price
	}
	if fields.Category != nil {
		set["category"] = *fields.Category
	}
	if fields.Stock != nil {
		set["stock"] = *fields.Stock
	}
	if fields.Sizes != nil {
		set["sizes"] = fields.Sizes
	}
	if fields.Colors != nil {
		set["colors"] = fields.Colors
	}
	if fields.Images != nil {
		set["images"] = fields.Images
	}
	if fields.IsActive != nil {
		set["is_active"] = *fields.IsActive
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var mp mongoProduct
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&mp)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProductNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateProduct
		}
		return nil, fmt.Errorf("update product: %w", err)
	}
	return mp.toDomain(), nil
}

func (r *ProductRepository) Deactivate(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrProductNotFound
	}

	update := bson.M{"$set": bson.M{"is_active": false, "updated_at": time.Now().UTC()}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("deactivate product: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *ProductRepository) LowStock(ctx context.Context, threshold int) ([]*domain.Product, error) {
	query := bson.M{"is_active": true, "stock": bson.M{"$lt": threshold}}
	opts := options.Find().SetSort(bson.D{{Key: "stock", Value: 1}})

	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []mongoProduct
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode low stock: %w", err)
	}

	products := make([]*domain.Product, 0, len(docs))
	for i := range docs {
		products = append(products, docs[i].toDomain())
	}
	return products, nil
}

func (r *ProductRepository) Stats(ctx context.Context) (*domain.ProductStats, error) {
	total, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}

	active, err := r.coll.CountDocuments(ctx, bson.M{"is_active": true})
	if err != nil {
		return nil, fmt.Errorf("count active products: %w", err)
	}

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   "$category",
			"count": bson.M{"$sum": 1},
			"stock": bson.M{"$sum": "$stock"},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate categories: %w", err)
	}
	defer cursor.Close(ctx)

	var buckets []struct {
		Category string `bson:"_id"`
		Count    int64  `bson:"count"`
		Stock    int64  `bson:"stock"`
	}
	if err := cursor.All(ctx, &buckets); err != nil {
		return nil, fmt.Errorf("decode category buckets: %w", err)
	}

	stats := &domain.ProductStats{TotalProducts: total, ActiveProducts: active}
	for _, b := range buckets {
		stats.TotalStock += b.Stock
		stats.ByCategory = append(stats.ByCategory, domain.CategoryCount{Category: b.Category, Count: b.Count})
	}
	return stats, nil
}

// EnsureIndexes creates the catalog indexes on the products collection.
func (r *ProductRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "code", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "is_active", Value: 1}, {Key: "stock", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
