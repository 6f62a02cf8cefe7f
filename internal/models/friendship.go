package models

import "time"

// Friendship is a directed edge: UserID follows FriendID.
// The reverse edge is a separate row and is never implied.
type Friendship struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_friendship_pair" json:"user_id"`
	FriendID  uint      `gorm:"not null;uniqueIndex:idx_friendship_pair;index" json:"friend_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM
func (Friendship) TableName() string {
	return "friendships"
}
