package models

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents an account stored in MongoDB. Follow edges and liked posts
// are embedded as id sets on both sides of the relationship.
type User struct {
	ID         primitive.ObjectID   `json:"_id" bson:"_id,omitempty"`
	Username   string               `json:"username" bson:"username"`
	Fullname   string               `json:"fullname" bson:"fullname"`
	Email      string               `json:"email" bson:"email"`
	Password   string               `json:"-" bson:"password"` // bcrypt hash, never serialized
	ProfileImg string               `json:"profileImg" bson:"profileImg"`
	CoverImg   string               `json:"coverImg" bson:"coverImg"`
	Bio        string               `json:"bio" bson:"bio"`
	Link       string               `json:"link" bson:"link"`
	Followers  []primitive.ObjectID `json:"followers" bson:"followers"`
	Following  []primitive.ObjectID `json:"following" bson:"following"`
	LikedPosts []primitive.ObjectID `json:"likedPosts" bson:"likedPosts"`
	CreatedAt  time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// IsFollowing reports whether u has target in its following set
func (u *User) IsFollowing(target primitive.ObjectID) bool {
	return containsID(u.Following, target)
}

// ToCompact returns the trimmed projection used when expanding notification actors
func (u *User) ToCompact() UserCompact {
	return UserCompact{
		ID:         u.ID,
		Username:   u.Username,
		Fullname:   u.Fullname,
		ProfileImg: u.ProfileImg,
	}
}

// UserCompact is the minimal public view of a user
type UserCompact struct {
	ID         primitive.ObjectID `json:"_id"`
	Username   string             `json:"username"`
	Fullname   string             `json:"fullname"`
	ProfileImg string             `json:"profileImg"`
}

// UserPatch is a partial profile update. A nil field is left untouched, a
// non-nil field replaces the stored value, including with "".
type UserPatch struct {
	Fullname   *string
	Email      *string
	Bio        *string
	Link       *string
	ProfileImg *string
	CoverImg   *string
	Password   *string
}

// Empty reports whether the patch changes nothing
func (p UserPatch) Empty() bool {
	return p.Fullname == nil && p.Email == nil && p.Bio == nil && p.Link == nil &&
		p.ProfileImg == nil && p.CoverImg == nil && p.Password == nil
}

type SignupRequest struct {
	Username string `json:"username" validate:"required,min=3,max=30"`
	Fullname string `json:"fullname" validate:"required,max=60"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// Trim strips surrounding whitespace so length and format checks see the
// values that get stored
func (r *SignupRequest) Trim() {
	r.Username = strings.TrimSpace(r.Username)
	r.Fullname = strings.TrimSpace(r.Fullname)
	r.Email = strings.TrimSpace(r.Email)
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Trim() {
	r.Username = strings.TrimSpace(r.Username)
}

// UpdateProfileRequest mirrors the profile form. Pointer fields distinguish
// "not sent" (nil) from "sent empty".
type UpdateProfileRequest struct {
	Fullname        *string `json:"fullname" validate:"omitempty,max=60"`
	Email           *string `json:"email" validate:"omitempty,email"`
	Bio             *string `json:"bio" validate:"omitempty,max=160"`
	Link            *string `json:"link" validate:"omitempty,max=200"`
	ProfileImg      *string `json:"profileImg"`
	CoverImg        *string `json:"coverImg"`
	CurrentPassword string  `json:"currentPassword"`
	NewPassword     string  `json:"newPassword"`
	VerifyPassword  bool    `json:"verifyPassword"`
}

// SessionClaims are the claims carried by the session cookie
type SessionClaims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
