package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/anonto42/chirp/backend/internal/apperror"
	"github.com/anonto42/chirp/backend/internal/models"
	"github.com/anonto42/chirp/backend/internal/repositories"
	"github.com/labstack/gommon/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PostService struct {
	postRepository repositories.PostRepository
	userRepository repositories.UserRepository
	media          MediaResolver
	notifier       notifier
}

func NewPostService(postRepo repositories.PostRepository, userRepo repositories.UserRepository, notifRepo repositories.NotificationRepository, media MediaResolver) *PostService {
	return &PostService{
		postRepository: postRepo,
		userRepository: userRepo,
		media:          media,
		notifier:       notifier{notifications: notifRepo},
	}
}

// Create stores a new post owned by callerID. An uploaded image is released
// again if the post cannot be written.
func (s *PostService) Create(ctx context.Context, callerID primitive.ObjectID, req models.CreatePostRequest) (*models.PostView, error) {
	if _, err := loadUser(ctx, s.userRepository, callerID); err != nil {
		return nil, err
	}

	text := strings.TrimSpace(req.Text)
	if text == "" && req.Image == "" {
		return nil, apperror.InvalidInput("Post must have text or image")
	}

	var img string
	if req.Image != "" {
		ref, err := s.media.Upload(ctx, req.Image, "posts")
		if err != nil {
			return nil, mediaError(err)
		}
		img = ref
	}

	post := &models.Post{
		UserID: callerID,
		Text:   text,
		Img:    img,
	}
	if err := s.postRepository.CreatePost(ctx, post); err != nil {
		if img != "" {
			if rerr := s.media.Release(ctx, img); rerr != nil {
				log.Warnf("releasing image %s of unsaved post: %v", img, rerr)
			}
		}
		return nil, apperror.Internal("Failed to create post", err)
	}

	views, err := s.expand(ctx, []models.Post{*post})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Delete removes a post owned by callerID together with its image and every
// reference to it from users' liked posts
func (s *PostService) Delete(ctx context.Context, callerID, postID primitive.ObjectID) error {
	post, err := s.loadPost(ctx, postID)
	if err != nil {
		return err
	}
	if post.UserID != callerID {
		return apperror.Forbidden("You are not authorized to delete this post")
	}

	if err := s.postRepository.DeletePost(ctx, postID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperror.NotFound("Post not found")
		}
		return apperror.Internal("Failed to delete post", err)
	}

	if post.Img != "" {
		if err := s.media.Release(ctx, post.Img); err != nil {
			log.Warnf("releasing image %s of post %s: %v", post.Img, postID.Hex(), err)
		}
	}
	if err := s.userRepository.RemoveLikedPostFromAll(ctx, postID); err != nil {
		log.Warnf("pulling deleted post %s from liked posts: %v", postID.Hex(), err)
	}
	return nil
}

// ToggleLike likes the post if the caller has not liked it yet and unlikes it
// otherwise. It reports whether the post is liked afterwards.
func (s *PostService) ToggleLike(ctx context.Context, callerID, postID primitive.ObjectID) (bool, error) {
	post, err := s.loadPost(ctx, postID)
	if err != nil {
		return false, err
	}

	liked, err := s.postRepository.AddLike(ctx, postID, callerID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return false, apperror.NotFound("Post not found")
		}
		return false, apperror.Internal("Failed to like post", err)
	}

	if liked {
		if err := s.userRepository.AddLikedPost(ctx, callerID, postID); err != nil {
			if _, cerr := s.postRepository.RemoveLike(ctx, postID, callerID); cerr != nil {
				log.Errorf("reverting like of post %s by %s: %v", postID.Hex(), callerID.Hex(), cerr)
			}
			return false, apperror.Internal("Failed to like post", err)
		}
		s.notifier.notify(ctx, models.NotificationLike, callerID, post.UserID)
		return true, nil
	}

	if _, err := s.postRepository.RemoveLike(ctx, postID, callerID); err != nil {
		return false, apperror.Internal("Failed to unlike post", err)
	}
	if err := s.userRepository.RemoveLikedPost(ctx, callerID, postID); err != nil {
		if _, cerr := s.postRepository.AddLike(ctx, postID, callerID); cerr != nil {
			log.Errorf("reverting unlike of post %s by %s: %v", postID.Hex(), callerID.Hex(), cerr)
		}
		return false, apperror.Internal("Failed to unlike post", err)
	}
	return false, nil
}

// Comment appends a comment by callerID and returns the updated post
func (s *PostService) Comment(ctx context.Context, callerID, postID primitive.ObjectID, text string) (*models.PostView, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperror.InvalidInput("Text field is required")
	}
	if _, err := s.loadPost(ctx, postID); err != nil {
		return nil, err
	}

	comment := models.Comment{
		ID:        primitive.NewObjectID(),
		UserID:    callerID,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
	post, err := s.postRepository.AddComment(ctx, postID, comment)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperror.NotFound("Post not found")
		}
		return nil, apperror.Internal("Failed to comment on post", err)
	}

	views, err := s.expand(ctx, []models.Post{*post})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// ListAll returns every post, newest first
func (s *PostService) ListAll(ctx context.Context) ([]models.PostView, error) {
	posts, err := s.postRepository.GetAllPosts(ctx)
	if err != nil {
		return nil, apperror.Internal("Failed to fetch posts", err)
	}
	return s.expand(ctx, posts)
}

// ListFollowing returns posts authored by anyone the caller follows
func (s *PostService) ListFollowing(ctx context.Context, callerID primitive.ObjectID) ([]models.PostView, error) {
	caller, err := loadUser(ctx, s.userRepository, callerID)
	if err != nil {
		return nil, err
	}
	if len(caller.Following) == 0 {
		return []models.PostView{}, nil
	}

	posts, err := s.postRepository.GetPostsByUserIDs(ctx, caller.Following)
	if err != nil {
		return nil, apperror.Internal("Failed to fetch feed", err)
	}
	return s.expand(ctx, posts)
}

// ListByUsername returns the posts authored by username
func (s *PostService) ListByUsername(ctx context.Context, username string) ([]models.PostView, error) {
	user, err := s.userRepository.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperror.NotFound("User not found")
		}
		return nil, apperror.Internal("Failed to fetch user posts", err)
	}

	posts, err := s.postRepository.GetPostsByUserIDs(ctx, []primitive.ObjectID{user.ID})
	if err != nil {
		return nil, apperror.Internal("Failed to fetch user posts", err)
	}
	return s.expand(ctx, posts)
}

// ListLikedBy returns the posts in userID's liked set
func (s *PostService) ListLikedBy(ctx context.Context, userID primitive.ObjectID) ([]models.PostView, error) {
	user, err := loadUser(ctx, s.userRepository, userID)
	if err != nil {
		return nil, err
	}
	if len(user.LikedPosts) == 0 {
		return []models.PostView{}, nil
	}

	posts, err := s.postRepository.GetPostsByIDs(ctx, user.LikedPosts)
	if err != nil {
		return nil, apperror.Internal("Failed to fetch liked posts", err)
	}
	return s.expand(ctx, posts)
}

func (s *PostService) loadPost(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	post, err := s.postRepository.GetPostByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperror.NotFound("Post not found")
		}
		return nil, apperror.Internal("Failed to fetch post", err)
	}
	return post, nil
}

// expand resolves post and comment authors with a single user lookup.
// Authors that no longer exist are left nil.
func (s *PostService) expand(ctx context.Context, posts []models.Post) ([]models.PostView, error) {
	views := make([]models.PostView, 0, len(posts))
	if len(posts) == 0 {
		return views, nil
	}

	var ids []primitive.ObjectID
	for _, post := range posts {
		ids = append(ids, post.UserID)
		for _, comment := range post.Comments {
			ids = append(ids, comment.UserID)
		}
	}
	authors, err := usersByID(ctx, s.userRepository, ids)
	if err != nil {
		return nil, apperror.Internal("Failed to fetch post authors", err)
	}

	for _, post := range posts {
		comments := make([]models.CommentView, 0, len(post.Comments))
		for _, comment := range post.Comments {
			comments = append(comments, models.CommentView{
				ID:        comment.ID,
				User:      authors[comment.UserID],
				Text:      comment.Text,
				CreatedAt: comment.CreatedAt,
			})
		}
		likes := post.Likes
		if likes == nil {
			likes = []primitive.ObjectID{}
		}
		views = append(views, models.PostView{
			ID:        post.ID,
			User:      authors[post.UserID],
			Text:      post.Text,
			Img:       post.Img,
			Likes:     likes,
			Comments:  comments,
			CreatedAt: post.CreatedAt,
			UpdatedAt: post.UpdatedAt,
		})
	}
	return views, nil
}
