// Package memory holds in-process implementations of the repository
// interfaces. They follow the same semantics as the Mongo and gorm
// repositories (conditional set updates, newest-first listings) and back the
// service and HTTP tests.
package memory

import (
	"context"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/anonto42/chirp/backend/internal/models"
	"github.com/anonto42/chirp/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// clock hands out strictly increasing timestamps so newest-first ordering is
// deterministic even when records are created within the same instant.
type clock struct {
	last time.Time
}

func (c *clock) now() time.Time {
	t := time.Now()
	if !t.After(c.last) {
		t = c.last.Add(time.Microsecond)
	}
	c.last = t
	return t
}

func addID(ids []primitive.ObjectID, id primitive.ObjectID) ([]primitive.ObjectID, bool) {
	for _, v := range ids {
		if v == id {
			return ids, false
		}
	}
	return append(ids, id), true
}

func removeID(ids []primitive.ObjectID, id primitive.ObjectID) ([]primitive.ObjectID, bool) {
	out := make([]primitive.ObjectID, 0, len(ids))
	removed := false
	for _, v := range ids {
		if v == id {
			removed = true
			continue
		}
		out = append(out, v)
	}
	return out, removed
}

func copyIDs(ids []primitive.ObjectID) []primitive.ObjectID {
	return append([]primitive.ObjectID{}, ids...)
}

func idSet(ids []primitive.ObjectID) map[primitive.ObjectID]bool {
	set := make(map[primitive.ObjectID]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// UserRepository is an in-memory repositories.UserRepository
type UserRepository struct {
	mu    sync.Mutex
	clock clock
	users map[primitive.ObjectID]*models.User
}

var _ repositories.UserRepository = (*UserRepository)(nil)

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[primitive.ObjectID]*models.User)}
}

func cloneUser(u *models.User) models.User {
	c := *u
	c.Followers = copyIDs(u.Followers)
	c.Following = copyIDs(u.Following)
	c.LikedPosts = copyIDs(u.LikedPosts)
	return c
}

func (r *UserRepository) CreateUser(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email {
			return repositories.ErrDuplicate
		}
	}
	now := r.clock.now()
	user.ID = primitive.NewObjectID()
	user.CreatedAt = now
	user.UpdatedAt = now
	user.Followers = copyIDs(user.Followers)
	user.Following = copyIDs(user.Following)
	user.LikedPosts = copyIDs(user.LikedPosts)
	stored := cloneUser(user)
	r.users[user.ID] = &stored
	return nil
}

func (r *UserRepository) GetUserByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	c := cloneUser(u)
	return &c, nil
}

func (r *UserRepository) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	return r.findOne(func(u *models.User) bool { return u.Username == username })
}

func (r *UserRepository) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	return r.findOne(func(u *models.User) bool { return u.Email == email })
}

func (r *UserRepository) findOne(match func(*models.User) bool) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if match(u) {
			c := cloneUser(u)
			return &c, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *UserRepository) filter(match func(*models.User) bool) []models.User {
	out := []models.User{}
	for _, u := range r.users {
		if match(u) {
			out = append(out, cloneUser(u))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *UserRepository) GetUsersByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	want := idSet(ids)
	return r.filter(func(u *models.User) bool { return want[u.ID] }), nil
}

func (r *UserRepository) GetUsersExcept(_ context.Context, id primitive.ObjectID) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.filter(func(u *models.User) bool { return u.ID != id }), nil
}

func (r *UserRepository) SampleUsers(_ context.Context, exclude []primitive.ObjectID, size int) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	skip := idSet(exclude)
	users := r.filter(func(u *models.User) bool { return !skip[u.ID] })
	rand.Shuffle(len(users), func(i, j int) { users[i], users[j] = users[j], users[i] })
	if len(users) > size {
		users = users[:size]
	}
	return users, nil
}

func (r *UserRepository) UpdateUser(_ context.Context, id primitive.ObjectID, patch models.UserPatch) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if patch.Email != nil {
		for _, other := range r.users {
			if other.ID != id && other.Email == *patch.Email {
				return nil, repositories.ErrDuplicate
			}
		}
	}
	apply := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	apply(&u.Fullname, patch.Fullname)
	apply(&u.Email, patch.Email)
	apply(&u.Bio, patch.Bio)
	apply(&u.Link, patch.Link)
	apply(&u.ProfileImg, patch.ProfileImg)
	apply(&u.CoverImg, patch.CoverImg)
	apply(&u.Password, patch.Password)
	u.UpdatedAt = r.clock.now()
	c := cloneUser(u)
	return &c, nil
}

func (r *UserRepository) mutate(id primitive.ObjectID, fn func(u *models.User) bool) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return false, repositories.ErrNotFound
	}
	return fn(u), nil
}

func (r *UserRepository) AddFollowing(_ context.Context, userID, targetID primitive.ObjectID) (bool, error) {
	changed, err := r.mutate(userID, func(u *models.User) (changed bool) {
		u.Following, changed = addID(u.Following, targetID)
		return
	})
	if err == repositories.ErrNotFound {
		return false, nil
	}
	return changed, err
}

func (r *UserRepository) RemoveFollowing(_ context.Context, userID, targetID primitive.ObjectID) (bool, error) {
	changed, err := r.mutate(userID, func(u *models.User) (changed bool) {
		u.Following, changed = removeID(u.Following, targetID)
		return
	})
	if err == repositories.ErrNotFound {
		return false, nil
	}
	return changed, err
}

func (r *UserRepository) AddFollower(_ context.Context, userID, followerID primitive.ObjectID) error {
	_, err := r.mutate(userID, func(u *models.User) bool {
		u.Followers, _ = addID(u.Followers, followerID)
		return true
	})
	return err
}

func (r *UserRepository) RemoveFollower(_ context.Context, userID, followerID primitive.ObjectID) error {
	_, err := r.mutate(userID, func(u *models.User) bool {
		u.Followers, _ = removeID(u.Followers, followerID)
		return true
	})
	return err
}

func (r *UserRepository) AddLikedPost(_ context.Context, userID, postID primitive.ObjectID) error {
	_, err := r.mutate(userID, func(u *models.User) bool {
		u.LikedPosts, _ = addID(u.LikedPosts, postID)
		return true
	})
	return err
}

func (r *UserRepository) RemoveLikedPost(_ context.Context, userID, postID primitive.ObjectID) error {
	_, err := r.mutate(userID, func(u *models.User) bool {
		u.LikedPosts, _ = removeID(u.LikedPosts, postID)
		return true
	})
	return err
}

func (r *UserRepository) RemoveLikedPostFromAll(_ context.Context, postID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		u.LikedPosts, _ = removeID(u.LikedPosts, postID)
	}
	return nil
}
