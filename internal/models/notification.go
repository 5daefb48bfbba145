package models

import (
	"encoding/json"
	"time"
)

// Notification is addressed to UserID. Actor is the user who caused it.
type Notification struct {
	ID        string            `json:"id"`
	UserID    string            `json:"userId"`
	Type      string            `json:"type"` // like, comment, follow
	Actor     NotificationActor `json:"actor"`
	Content   string            `json:"content"`
	CreatedAt time.Time         `json:"createdAt"`
	Read      bool              `json:"read"`
}

// NotificationActor is stored as a bare user id. Records that embed the
// user object instead keep that object on the next write.
type NotificationActor struct {
	ID       string
	Username string
	FullName string
	Avatar   string
}

type actorObject struct {
	ID       string `json:"id"`
	Username string `json:"username,omitempty"`
	FullName string `json:"fullName,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
}

func (a NotificationActor) embedded() bool {
	return a.Username != "" || a.FullName != "" || a.Avatar != ""
}

// MarshalJSON writes the id alone unless user details were loaded with it.
func (a NotificationActor) MarshalJSON() ([]byte, error) {
	if !a.embedded() {
		return json.Marshal(a.ID)
	}
	return json.Marshal(actorObject(a))
}

// UnmarshalJSON accepts either "<id>" or {"id", "username", "fullName", "avatar"}.
func (a *NotificationActor) UnmarshalJSON(data []byte) error {
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		*a = NotificationActor{ID: id}
		return nil
	}
	var obj actorObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*a = NotificationActor(obj)
	return nil
}

// Compact returns whatever is known about the actor without a user lookup.
func (a NotificationActor) Compact() *UserCompact {
	return &UserCompact{
		ID:       a.ID,
		Username: a.Username,
		FullName: a.FullName,
		Avatar:   a.Avatar,
	}
}

// NotificationView is a notification with its actor resolved to a user summary.
type NotificationView struct {
	Notification
	Actor *UserCompact `json:"actor"`
}
