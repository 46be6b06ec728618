package repository

import (
	"context"
	"errors"
	"time"

	"foodorder/entity"
	"foodorder/pkg/apperr"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureMongoIndexes creates the unique indexes the services rely on.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	if _, err := db.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true),
	}); err != nil {
		return err
	}
	if _, err := db.Collection("carts").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}}, Options: options.Index().SetUnique(true),
	}); err != nil {
		return err
	}
	_, err := db.Collection("orders").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	return err
}

func mongoNotFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return apperr.ErrNotFound
	}
	return err
}

func stamp(m *entity.Model) {
	m.EnsureID()
	now := time.Now().UTC()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now
}

// ---------------- users ----------------

type MongoUserRepository struct{ C *mongo.Collection }

func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{C: db.Collection("users")}
}

func (r *MongoUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var d userDoc
	if err := r.C.FindOne(ctx, bson.M{"email": email}).Decode(&d); err != nil {
		return nil, mongoNotFound(err)
	}
	return d.entity(), nil
}

func (r *MongoUserRepository) CountByEmail(ctx context.Context, email string) (int64, error) {
	return r.C.CountDocuments(ctx, bson.M{"email": email})
}

func (r *MongoUserRepository) Create(ctx context.Context, user *entity.User) error {
	stamp(&user.Model)
	_, err := r.C.InsertOne(ctx, newUserDoc(user))
	return err
}

func (r *MongoUserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	var d userDoc
	if err := r.C.FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		return nil, mongoNotFound(err)
	}
	return d.entity(), nil
}

// ---------------- meals ----------------

type MongoMealRepository struct{ C *mongo.Collection }

func NewMongoMealRepository(db *mongo.Database) *MongoMealRepository {
	return &MongoMealRepository{C: db.Collection("meals")}
}

func (r *MongoMealRepository) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]entity.Meal, error) {
	cur, err := r.C.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	var docs []mealDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	meals := make([]entity.Meal, 0, len(docs))
	for _, d := range docs {
		m, err := d.entity()
		if err != nil {
			return nil, err
		}
		meals = append(meals, m)
	}
	return meals, nil
}

func (r *MongoMealRepository) FindAll(ctx context.Context) ([]entity.Meal, error) {
	return r.find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
}

func (r *MongoMealRepository) FindByID(ctx context.Context, id string) (*entity.Meal, error) {
	var d mealDoc
	if err := r.C.FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		return nil, mongoNotFound(err)
	}
	m, err := d.entity()
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MongoMealRepository) FindByIDs(ctx context.Context, ids []string) ([]entity.Meal, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (r *MongoMealRepository) Count(ctx context.Context) (int64, error) {
	return r.C.CountDocuments(ctx, bson.M{})
}

func (r *MongoMealRepository) Create(ctx context.Context, meal *entity.Meal) error {
	stamp(&meal.Model)
	d, err := newMealDoc(meal)
	if err != nil {
		return err
	}
	_, err = r.C.InsertOne(ctx, d)
	return err
}

func (r *MongoMealRepository) Update(ctx context.Context, meal *entity.Meal) error {
	stamp(&meal.Model)
	d, err := newMealDoc(meal)
	if err != nil {
		return err
	}
	res, err := r.C.UpdateOne(ctx, bson.M{"_id": meal.ID}, bson.M{"$set": bson.M{
		"name": d.Name, "price": d.Price, "description": d.Description,
		"imageUrl": d.ImageURL, "updatedAt": d.UpdatedAt,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *MongoMealRepository) Delete(ctx context.Context, id string) error {
	res, err := r.C.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// ---------------- carts ----------------

type MongoCartRepository struct{ C *mongo.Collection }

func NewMongoCartRepository(db *mongo.Database) *MongoCartRepository {
	return &MongoCartRepository{C: db.Collection("carts")}
}

func (r *MongoCartRepository) FindByUser(ctx context.Context, userID string) (*entity.Cart, error) {
	var d cartDoc
	if err := r.C.FindOne(ctx, bson.M{"userId": userID}).Decode(&d); err != nil {
		return nil, mongoNotFound(err)
	}
	return d.entity()
}

func (r *MongoCartRepository) Create(ctx context.Context, c *entity.Cart) error {
	if c.Items == nil {
		c.Items = []entity.CartItem{}
	}
	c.Recalculate()
	stamp(&c.Model)
	d, err := newCartDoc(c)
	if err != nil {
		return err
	}
	_, err = r.C.InsertOne(ctx, d)
	return err
}

// Save replaces the cart document only when the stored version still
// matches c.Version.
func (r *MongoCartRepository) Save(ctx context.Context, c *entity.Cart) error {
	c.Recalculate()
	next := *c
	next.Version = c.Version + 1
	stamp(&next.Model)

	d, err := newCartDoc(&next)
	if err != nil {
		return err
	}
	res, err := r.C.ReplaceOne(ctx, bson.M{"_id": c.ID, "version": c.Version}, d)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.ErrConflict
	}
	c.Version = next.Version
	c.UpdatedAt = next.UpdatedAt
	return nil
}

// ---------------- orders ----------------

type MongoOrderRepository struct{ C *mongo.Collection }

func NewMongoOrderRepository(db *mongo.Database) *MongoOrderRepository {
	return &MongoOrderRepository{C: db.Collection("orders")}
}

func (r *MongoOrderRepository) Create(ctx context.Context, o *entity.Order) error {
	stamp(&o.Model)
	d, err := newOrderDoc(o)
	if err != nil {
		return err
	}
	_, err = r.C.InsertOne(ctx, d)
	return err
}

func (r *MongoOrderRepository) ListForUser(ctx context.Context, userID string, limit int) ([]entity.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(int64(limit))
	cur, err := r.C.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	var docs []orderDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]entity.Order, 0, len(docs))
	for _, d := range docs {
		o, err := d.entity()
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

func (r *MongoOrderRepository) FindForUser(ctx context.Context, userID, orderID string) (*entity.Order, error) {
	var d orderDoc
	if err := r.C.FindOne(ctx, bson.M{"_id": orderID, "userId": userID}).Decode(&d); err != nil {
		return nil, mongoNotFound(err)
	}
	o, err := d.entity()
	if err != nil {
		return nil, err
	}
	return &o, nil
}
