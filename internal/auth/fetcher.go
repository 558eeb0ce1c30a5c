package auth

import (
	"context"

	"github.com/NagarSeva/NS-Backend/internal/db"
	"github.com/NagarSeva/NS-Backend/internal/utils"
)

type SessionInfo struct{}

func (si SessionInfo) FindSessionByID(id string) (utils.SessionData, error) {
	var session Session

	err := db.DB.First(&session, "session_id = ?", id).Error
	if err != nil {
		return utils.SessionData{}, err
	}

	return utils.SessionData{
		UserID:    session.UserID,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

// StaffInfo resolves a user's canonical role; the attendance service uses it
// for its capability check.
type StaffInfo struct{}

func (StaffInfo) RoleByUserID(ctx context.Context, userID string) (Role, error) {
	var user User
	if err := db.DB.WithContext(ctx).First(&user, "user_id = ?", userID).Error; err != nil {
		return "", err
	}
	return Role(user.Role), nil
}
