package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ParasPuneetSingh/IndianDuo/internal/services/learn/internal/model"
)

const (
	usersCollection         = "users"
	languagesCollection     = "languages"
	lessonsCollection       = "lessons"
	exercisesCollection     = "exercises"
	progressCollection      = "user_progress"
	subscriptionsCollection = "subscriptions"
)

// MongoConfig holds the configuration for connecting to MongoDB
type MongoConfig struct {
	URL     string
	Timeout time.Duration
}

// MongoStore implements Store on top of a MongoDB database
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoClient connects to MongoDB and verifies the connection
func NewMongoClient(ctx context.Context, cfg MongoConfig) (*mongo.Client, error) {
	opts := options.Client().ApplyURI(cfg.URL)
	if cfg.Timeout > 0 {
		opts.SetTimeout(cfg.Timeout)
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return client, nil
}

// NewMongoStore creates a MongoStore over database name and ensures its indexes exist
func NewMongoStore(ctx context.Context, client *mongo.Client, name string) (*MongoStore, error) {
	s := &MongoStore{
		client: client,
		db:     client.Database(name),
	}

	if err := s.ensureIndexes(ctx); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	unique := func(key string) mongo.IndexModel {
		return mongo.IndexModel{
			Keys:    bson.D{{Key: key, Value: 1}},
			Options: options.Index().SetUnique(true),
		}
	}
	plain := func(key string) mongo.IndexModel {
		return mongo.IndexModel{Keys: bson.D{{Key: key, Value: 1}}}
	}

	indexes := map[string][]mongo.IndexModel{
		usersCollection:         {unique("id"), unique("username"), unique("email")},
		languagesCollection:     {unique("id"), unique("code")},
		lessonsCollection:       {unique("id"), plain("language_id")},
		exercisesCollection:     {unique("id"), plain("lesson_id")},
		progressCollection:      {unique("id"), plain("user_id")},
		subscriptionsCollection: {unique("user_id")},
	}

	for coll, models := range indexes {
		if _, err := s.db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create %s indexes: %w", coll, err)
		}
	}

	return nil
}

func (s *MongoStore) CreateUser(ctx context.Context, u model.User) error {
	u.Friends = orEmpty(u.Friends)
	u.Achievements = orEmpty(u.Achievements)

	_, err := s.db.Collection(usersCollection).InsertOne(ctx, u)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrExists
		}

		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

func (s *MongoStore) GetUser(ctx context.Context, r GetUserRequest) (model.User, error) {
	var filter bson.M
	switch {
	case r.ID != "":
		filter = bson.M{"id": r.ID}
	case r.Username != "":
		filter = bson.M{"username": r.Username}
	default:
		return model.User{}, ErrNotFound
	}

	var u model.User
	if err := s.findOne(ctx, usersCollection, filter, &u); err != nil {
		return u, fmt.Errorf("find user: %w", err)
	}

	u.LastLessonDate = utcPtr(u.LastLessonDate)
	return u, nil
}

func (s *MongoStore) UserExists(ctx context.Context, r UserExistsRequest) (bool, error) {
	n, err := s.db.Collection(usersCollection).CountDocuments(ctx,
		bson.M{"$or": bson.A{
			bson.M{"username": r.Username},
			bson.M{"email": r.Email},
		}},
		options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}

	return n > 0, nil
}

func (s *MongoStore) UpdateUserProgress(ctx context.Context, r UpdateUserProgressRequest) error {
	update := bson.M{"$inc": bson.M{"total_xp": r.XPDelta}}
	if r.Streak != nil {
		update["$set"] = bson.M{
			"current_streak":   r.Streak.Current,
			"longest_streak":   r.Streak.Longest,
			"last_lesson_date": r.Streak.LastLessonDate,
		}
	}

	res, err := s.db.Collection(usersCollection).UpdateOne(ctx, bson.M{"id": r.UserID}, update)
	if err != nil {
		return fmt.Errorf("update user progress: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}

	return nil
}

func (s *MongoStore) RefillHearts(ctx context.Context, r RefillHeartsRequest) error {
	res, err := s.db.Collection(usersCollection).UpdateOne(ctx,
		bson.M{"id": r.UserID, "gems": bson.M{"$gte": r.Cost}},
		bson.M{
			"$inc": bson.M{"gems": -r.Cost},
			"$set": bson.M{"hearts": r.Hearts},
		})
	if err != nil {
		return fmt.Errorf("refill hearts: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrPrecondition
	}

	return nil
}

func (s *MongoStore) InsertProgress(ctx context.Context, p model.UserProgress) error {
	p.Mistakes = orEmpty(p.Mistakes)

	_, err := s.db.Collection(progressCollection).InsertOne(ctx, p)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrExists
		}

		return fmt.Errorf("insert progress: %w", err)
	}

	return nil
}

func (s *MongoStore) ListProgress(ctx context.Context, r ListProgressRequest) ([]model.UserProgress, error) {
	filter := bson.M{"user_id": r.UserID}
	if r.LessonID != "" {
		filter["lesson_id"] = r.LessonID
	}

	out := make([]model.UserProgress, 0)
	opts := options.Find().SetSort(bson.D{{Key: "completed_at", Value: 1}, {Key: "id", Value: 1}})
	if err := s.findAll(ctx, progressCollection, filter, opts, &out); err != nil {
		return nil, fmt.Errorf("find progress: %w", err)
	}

	for i := range out {
		out[i].CompletedAt = utcPtr(out[i].CompletedAt)
	}

	return out, nil
}

func (s *MongoStore) EnsureLanguage(ctx context.Context, l model.Language) (bool, error) {
	res, err := s.db.Collection(languagesCollection).UpdateOne(ctx,
		bson.M{"code": l.Code},
		bson.M{"$setOnInsert": l},
		options.Update().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}

		return false, fmt.Errorf("upsert language: %w", err)
	}

	return res.UpsertedCount > 0, nil
}

// ListLanguages sorts on _id. Upserts let the server assign it, so this is insertion order.
func (s *MongoStore) ListLanguages(ctx context.Context) ([]model.Language, error) {
	out := make([]model.Language, 0)
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	if err := s.findAll(ctx, languagesCollection, bson.M{}, opts, &out); err != nil {
		return nil, fmt.Errorf("find languages: %w", err)
	}

	return out, nil
}

func (s *MongoStore) GetLesson(ctx context.Context, id string) (model.Lesson, error) {
	var l model.Lesson
	if err := s.findOne(ctx, lessonsCollection, bson.M{"id": id}, &l); err != nil {
		return l, fmt.Errorf("find lesson: %w", err)
	}

	return l, nil
}

func (s *MongoStore) ListLessons(ctx context.Context, r ListLessonsRequest) ([]model.Lesson, error) {
	out := make([]model.Lesson, 0)
	opts := options.Find().SetSort(bson.D{{Key: "unit_id", Value: 1}, {Key: "id", Value: 1}})
	if err := s.findAll(ctx, lessonsCollection, bson.M{"language_id": r.LanguageID}, opts, &out); err != nil {
		return nil, fmt.Errorf("find lessons: %w", err)
	}

	return out, nil
}

// InsertLesson adds a lesson to the catalog. Lessons are authored out of band.
func (s *MongoStore) InsertLesson(ctx context.Context, l model.Lesson) error {
	l.Exercises = orEmpty(l.Exercises)
	l.Prerequisites = orEmpty(l.Prerequisites)

	if _, err := s.db.Collection(lessonsCollection).InsertOne(ctx, l); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrExists
		}

		return fmt.Errorf("insert lesson: %w", err)
	}

	return nil
}

func (s *MongoStore) ListExercises(ctx context.Context, r ListExercisesRequest) ([]model.Exercise, error) {
	out := make([]model.Exercise, 0)
	opts := options.Find().SetSort(bson.D{{Key: "id", Value: 1}})
	if err := s.findAll(ctx, exercisesCollection, bson.M{"lesson_id": r.LessonID}, opts, &out); err != nil {
		return nil, fmt.Errorf("find exercises: %w", err)
	}

	return out, nil
}

func (s *MongoStore) InsertExercise(ctx context.Context, e model.Exercise) error {
	e.Options = orEmpty(e.Options)

	if _, err := s.db.Collection(exercisesCollection).InsertOne(ctx, e); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrExists
		}

		return fmt.Errorf("insert exercise: %w", err)
	}

	return nil
}

func (s *MongoStore) GetSubscription(ctx context.Context, userID string) (model.Subscription, error) {
	var sub model.Subscription
	if err := s.findOne(ctx, subscriptionsCollection, bson.M{"user_id": userID}, &sub); err != nil {
		return sub, fmt.Errorf("find subscription: %w", err)
	}

	sub.StartedAt = sub.StartedAt.UTC()
	sub.ExpiresAt = sub.ExpiresAt.UTC()
	sub.CancelledAt = utcPtr(sub.CancelledAt)
	return sub, nil
}

// PutSubscription stores sub as the user's only subscription, replacing any previous one.
func (s *MongoStore) PutSubscription(ctx context.Context, sub model.Subscription) error {
	_, err := s.db.Collection(subscriptionsCollection).ReplaceOne(ctx,
		bson.M{"user_id": sub.UserID},
		sub,
		options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert subscription: %w", err)
	}

	return nil
}

func (s *MongoStore) CancelSubscription(ctx context.Context, r CancelSubscriptionRequest) error {
	res, err := s.db.Collection(subscriptionsCollection).UpdateOne(ctx,
		bson.M{
			"user_id":      r.UserID,
			"cancelled_at": nil,
			"expires_at":   bson.M{"$gt": r.At},
		},
		bson.M{"$set": bson.M{"cancelled_at": r.At}})
	if err != nil {
		return fmt.Errorf("cancel subscription: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}

	return nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) findOne(ctx context.Context, coll string, filter any, out any) error {
	err := s.db.Collection(coll).FindOne(ctx, filter).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}

	return err
}

func (s *MongoStore) findAll(ctx context.Context, coll string, filter any, opts *options.FindOptions, out any) error {
	cur, err := s.db.Collection(coll).Find(ctx, filter, opts)
	if err != nil {
		return err
	}

	return cur.All(ctx, out)
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}

	v := t.UTC()
	return &v
}
