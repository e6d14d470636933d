package repositories

import (
	"context"
	"time"

	"github.com/anonto42/chirp/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const usersCollection = "users"

// UserRepository defines the interface for user data operations.
// Edge mutations are single-document atomic updates; the boolean results of
// AddFollowing/RemoveFollowing report whether the document actually changed.
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	GetUsersExcept(ctx context.Context, id primitive.ObjectID) ([]models.User, error)
	SampleUsers(ctx context.Context, exclude []primitive.ObjectID, size int) ([]models.User, error)
	UpdateUser(ctx context.Context, id primitive.ObjectID, patch models.UserPatch) (*models.User, error)
	AddFollowing(ctx context.Context, userID, targetID primitive.ObjectID) (bool, error)
	RemoveFollowing(ctx context.Context, userID, targetID primitive.ObjectID) (bool, error)
	AddFollower(ctx context.Context, userID, followerID primitive.ObjectID) error
	RemoveFollower(ctx context.Context, userID, followerID primitive.ObjectID) error
	AddLikedPost(ctx context.Context, userID, postID primitive.ObjectID) error
	RemoveLikedPost(ctx context.Context, userID, postID primitive.ObjectID) error
	RemoveLikedPostFromAll(ctx context.Context, postID primitive.ObjectID) error
}

// MongoUserRepository implements UserRepository for MongoDB
type MongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository creates a new MongoUserRepository
func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{collection: db.Collection(usersCollection)}
}

// CreateUser inserts a new user; unique indexes turn races into ErrDuplicate
func (r *MongoUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	now := time.Now()
	user.ID = primitive.NewObjectID()
	user.CreatedAt = now
	user.UpdatedAt = now
	// $addToSet needs arrays, never null
	if user.Followers == nil {
		user.Followers = []primitive.ObjectID{}
	}
	if user.Following == nil {
		user.Following = []primitive.ObjectID{}
	}
	if user.LikedPosts == nil {
		user.LikedPosts = []primitive.ObjectID{}
	}
	_, err := r.collection.InsertOne(ctx, user)
	return mongoErr(err)
}

func (r *MongoUserRepository) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *MongoUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	if err := r.collection.FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, mongoErr(err)
	}
	return &user, nil
}

// GetUsersByIDs resolves a batch of ids; missing ids are simply absent from the result
func (r *MongoUserRepository) GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}}, nil)
}

// GetUsersExcept lists every user but id, newest first
func (r *MongoUserRepository) GetUsersExcept(ctx context.Context, id primitive.ObjectID) ([]models.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return r.find(ctx, bson.M{"_id": bson.M{"$ne": id}}, opts)
}

func (r *MongoUserRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.User, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err = cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// SampleUsers returns up to size random users whose id is not in exclude
func (r *MongoUserRepository) SampleUsers(ctx context.Context, exclude []primitive.ObjectID, size int) ([]models.User, error) {
	if exclude == nil {
		exclude = []primitive.ObjectID{}
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"_id": bson.M{"$nin": exclude}}}},
		{{Key: "$sample", Value: bson.M{"size": size}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err = cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateUser applies only the fields present in patch and returns the updated document
func (r *MongoUserRepository) UpdateUser(ctx context.Context, id primitive.ObjectID, patch models.UserPatch) (*models.User, error) {
	set := bson.M{"updatedAt": time.Now()}
	setIfPresent(set, "fullname", patch.Fullname)
	setIfPresent(set, "email", patch.Email)
	setIfPresent(set, "bio", patch.Bio)
	setIfPresent(set, "link", patch.Link)
	setIfPresent(set, "profileImg", patch.ProfileImg)
	setIfPresent(set, "coverImg", patch.CoverImg)
	setIfPresent(set, "password", patch.Password)

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var user models.User
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&user)
	if err != nil {
		return nil, mongoErr(err)
	}
	return &user, nil
}

func setIfPresent(set bson.M, field string, value *string) {
	if value != nil {
		set[field] = *value
	}
}

// AddFollowing adds targetID to userID's following set. It reports false when
// the edge already existed, which is how callers decide follow vs unfollow.
func (r *MongoUserRepository) AddFollowing(ctx context.Context, userID, targetID primitive.ObjectID) (bool, error) {
	return r.updateEdge(ctx,
		bson.M{"_id": userID, "following": bson.M{"$ne": targetID}},
		bson.M{"$addToSet": bson.M{"following": targetID}},
	)
}

// RemoveFollowing removes targetID from userID's following set
func (r *MongoUserRepository) RemoveFollowing(ctx context.Context, userID, targetID primitive.ObjectID) (bool, error) {
	return r.updateEdge(ctx,
		bson.M{"_id": userID, "following": targetID},
		bson.M{"$pull": bson.M{"following": targetID}},
	)
}

func (r *MongoUserRepository) AddFollower(ctx context.Context, userID, followerID primitive.ObjectID) error {
	return r.updateByID(ctx, userID, bson.M{"$addToSet": bson.M{"followers": followerID}})
}

func (r *MongoUserRepository) RemoveFollower(ctx context.Context, userID, followerID primitive.ObjectID) error {
	return r.updateByID(ctx, userID, bson.M{"$pull": bson.M{"followers": followerID}})
}

func (r *MongoUserRepository) AddLikedPost(ctx context.Context, userID, postID primitive.ObjectID) error {
	return r.updateByID(ctx, userID, bson.M{"$addToSet": bson.M{"likedPosts": postID}})
}

func (r *MongoUserRepository) RemoveLikedPost(ctx context.Context, userID, postID primitive.ObjectID) error {
	return r.updateByID(ctx, userID, bson.M{"$pull": bson.M{"likedPosts": postID}})
}

// RemoveLikedPostFromAll drops a deleted post from every user's liked set
func (r *MongoUserRepository) RemoveLikedPostFromAll(ctx context.Context, postID primitive.ObjectID) error {
	_, err := r.collection.UpdateMany(ctx,
		bson.M{"likedPosts": postID},
		bson.M{"$pull": bson.M{"likedPosts": postID}},
	)
	return err
}

func (r *MongoUserRepository) updateEdge(ctx context.Context, filter, update bson.M) (bool, error) {
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

func (r *MongoUserRepository) updateByID(ctx context.Context, id primitive.ObjectID, update bson.M) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
