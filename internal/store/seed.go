package store

import (
	"time"

	"github.com/anonto42/nano-social/backend/internal/models"
)

// DemoPassword is the password of the seeded accounts.
const DemoPassword = "password123"

// seedLocked fills an empty store with two users who each like the other's post.
func (s *Store) seedLocked() error {
	hash, err := s.hashPassword(DemoPassword)
	if err != nil {
		return err
	}
	now := s.now()

	john := models.User{
		ID:        s.newID(),
		Username:  "john_doe",
		Email:     "john@example.com",
		Password:  hash,
		FullName:  "John Doe",
		Bio:       "Software developer and tech enthusiast",
		Avatar:    "https://images.pexels.com/photos/220453/pexels-photo-220453.jpeg?auto=compress&cs=tinysrgb&w=150&h=150&dpr=1",
		CreatedAt: now,
	}
	jane := models.User{
		ID:        s.newID(),
		Username:  "jane_smith",
		Email:     "jane@example.com",
		Password:  hash,
		FullName:  "Jane Smith",
		Bio:       "Digital artist and creative mind",
		Avatar:    "https://images.pexels.com/photos/415829/pexels-photo-415829.jpeg?auto=compress&cs=tinysrgb&w=150&h=150&dpr=1",
		CreatedAt: now,
	}
	s.data.Users = []models.User{john, jane}

	s.data.Posts = []models.Post{
		demoPost(s.newID(), john.ID, jane.ID,
			"Just finished working on an amazing new project! The future of web development is looking bright. 🚀",
			"https://images.pexels.com/photos/1181467/pexels-photo-1181467.jpeg?auto=compress&cs=tinysrgb&w=800",
			now.Add(-2*time.Hour)),
		demoPost(s.newID(), jane.ID, john.ID,
			"Beautiful sunset today! Nature never fails to inspire my art. 🌅",
			"https://images.pexels.com/photos/416978/pexels-photo-416978.jpeg?auto=compress&cs=tinysrgb&w=800",
			now.Add(-4*time.Hour)),
	}
	return nil
}

func demoPost(id, authorID, likedBy, content, image string, createdAt time.Time) models.Post {
	return models.Post{
		ID:          id,
		UserID:      authorID,
		Content:     content,
		Image:       &image,
		ContentType: DefaultContentType,
		Likes:       []string{likedBy},
		Shares:      []string{},
		Hashtags:    ExtractHashtags(content),
		CreatedAt:   createdAt,
	}
}
