package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post represents a post stored in MongoDB with its likes and comments embedded
type Post struct {
	ID        primitive.ObjectID   `json:"_id" bson:"_id,omitempty"`
	UserID    primitive.ObjectID   `json:"user" bson:"user"` // owner, immutable after creation
	Text      string               `json:"text" bson:"text"`
	Img       string               `json:"img" bson:"img"`
	Likes     []primitive.ObjectID `json:"likes" bson:"likes"`
	Comments  []Comment            `json:"comments" bson:"comments"`
	CreatedAt time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// IsLikedBy reports whether userID is in the post's like set
func (p *Post) IsLikedBy(userID primitive.ObjectID) bool {
	return containsID(p.Likes, userID)
}

// PostView is a post with its author and comment authors expanded
type PostView struct {
	ID        primitive.ObjectID   `json:"_id"`
	User      *User                `json:"user"`
	Text      string               `json:"text"`
	Img       string               `json:"img"`
	Likes     []primitive.ObjectID `json:"likes"`
	Comments  []CommentView        `json:"comments"`
	CreatedAt time.Time            `json:"createdAt"`
	UpdatedAt time.Time            `json:"updatedAt"`
}

// CreatePostRequest defines the request body for creating a new post.
// Image is a data URL; text or image must be present.
type CreatePostRequest struct {
	Text  string `json:"text" validate:"max=1000"`
	Image string `json:"image"`
}
