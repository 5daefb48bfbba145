package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// DefaultAvatar is assigned to every account created through signup.
const DefaultAvatar = "https://images.pexels.com/photos/771742/pexels-photo-771742.jpeg?auto=compress&cs=tinysrgb&w=150&h=150&dpr=1"

// User is a registered account. Password holds the bcrypt hash and is persisted,
// but handlers only ever respond with one of the projections below.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Password  string    `json:"password"`
	FullName  string    `json:"fullName"`
	Bio       string    `json:"bio"`
	Avatar    string    `json:"avatar"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserPublic is the projection returned by auth and /users/me.
type UserPublic struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Bio      string `json:"bio"`
	Avatar   string `json:"avatar"`
}

// UserAccount is the full record minus the password, returned after a profile update.
type UserAccount struct {
	UserPublic
	CreatedAt time.Time `json:"createdAt"`
}

// UserCompact is the author summary embedded in posts, comments and stories.
type UserCompact struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Avatar   string `json:"avatar"`
}

// Profile is a user with relationship counters, recomputed on every read.
type Profile struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	FullName       string `json:"fullName"`
	Bio            string `json:"bio"`
	Avatar         string `json:"avatar"`
	PostsCount     int    `json:"postsCount"`
	FollowersCount int    `json:"followersCount"`
	FollowingCount int    `json:"followingCount"`
}

func (u *User) ToPublic() UserPublic {
	return UserPublic{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		FullName: u.FullName,
		Bio:      u.Bio,
		Avatar:   u.Avatar,
	}
}

func (u *User) ToAccount() UserAccount {
	return UserAccount{UserPublic: u.ToPublic(), CreatedAt: u.CreatedAt}
}

func (u *User) ToCompact() UserCompact {
	return UserCompact{
		ID:       u.ID,
		Username: u.Username,
		FullName: u.FullName,
		Avatar:   u.Avatar,
	}
}

// SignupRequest defines the request body for local registration
type SignupRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	FullName string `json:"fullName"`
}

// LoginRequest defines the request body for email/password login
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdateUserRequest carries the mutable profile fields. Empty values keep the current ones.
type UpdateUserRequest struct {
	FullName string `json:"fullName,omitempty"`
	Username string `json:"username,omitempty"`
	Bio      string `json:"bio,omitempty"`
}

// AuthResponse is returned by every login flavour.
type AuthResponse struct {
	Token string     `json:"token"`
	User  UserPublic `json:"user"`
}

// FollowStatus is returned by the follow toggle and the follow-status lookup.
type FollowStatus struct {
	IsFollowing    bool `json:"isFollowing"`
	FollowersCount int  `json:"followersCount"`
}

// JwtCustomClaims binds a token to a user id.
type JwtCustomClaims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}
