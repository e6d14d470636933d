package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/anonto42/chirp/backend/internal/models"
	"github.com/anonto42/chirp/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PostRepository is an in-memory repositories.PostRepository
type PostRepository struct {
	mu    sync.Mutex
	clock clock
	posts map[primitive.ObjectID]*models.Post
}

var _ repositories.PostRepository = (*PostRepository)(nil)

func NewPostRepository() *PostRepository {
	return &PostRepository{posts: make(map[primitive.ObjectID]*models.Post)}
}

func clonePost(p *models.Post) models.Post {
	c := *p
	c.Likes = copyIDs(p.Likes)
	c.Comments = append([]models.Comment{}, p.Comments...)
	return c
}

func (r *PostRepository) CreatePost(_ context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.clock.now()
	post.ID = primitive.NewObjectID()
	post.CreatedAt = now
	post.UpdatedAt = now
	post.Likes = copyIDs(post.Likes)
	post.Comments = append([]models.Comment{}, post.Comments...)
	stored := clonePost(post)
	r.posts[post.ID] = &stored
	return nil
}

func (r *PostRepository) GetPostByID(_ context.Context, id primitive.ObjectID) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	c := clonePost(p)
	return &c, nil
}

func (r *PostRepository) DeletePost(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.posts, id)
	return nil
}

func (r *PostRepository) filter(match func(*models.Post) bool) []models.Post {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Post{}
	for _, p := range r.posts {
		if match(p) {
			out = append(out, clonePost(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *PostRepository) GetAllPosts(_ context.Context) ([]models.Post, error) {
	return r.filter(func(*models.Post) bool { return true }), nil
}

func (r *PostRepository) GetPostsByUserIDs(_ context.Context, userIDs []primitive.ObjectID) ([]models.Post, error) {
	authors := idSet(userIDs)
	return r.filter(func(p *models.Post) bool { return authors[p.UserID] }), nil
}

func (r *PostRepository) GetPostsByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Post, error) {
	want := idSet(ids)
	return r.filter(func(p *models.Post) bool { return want[p.ID] }), nil
}

func (r *PostRepository) AddLike(_ context.Context, postID, userID primitive.ObjectID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[postID]
	if !ok {
		return false, repositories.ErrNotFound
	}
	var changed bool
	p.Likes, changed = addID(p.Likes, userID)
	return changed, nil
}

func (r *PostRepository) RemoveLike(_ context.Context, postID, userID primitive.ObjectID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[postID]
	if !ok {
		return false, nil
	}
	var changed bool
	p.Likes, changed = removeID(p.Likes, userID)
	return changed, nil
}

func (r *PostRepository) AddComment(_ context.Context, postID primitive.ObjectID, comment models.Comment) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[postID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	p.Comments = append(p.Comments, comment)
	p.UpdatedAt = r.clock.now()
	c := clonePost(p)
	return &c, nil
}
