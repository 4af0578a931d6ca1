// Package authz answers the moderation service's role questions.
package authz

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/kurukh-lab/kurukh-lab.github.io-sub001/internal/model"
	"github.com/kurukh-lab/kurukh-lab.github.io-sub001/internal/moderation"
)

// UserAuthorizer resolves roles from the users table. A user is an admin
// when their role is admin or their e-mail is in adminEmails. Any existing
// user that is not banned may vote.
type UserAuthorizer struct {
	db          *gorm.DB
	adminEmails map[string]struct{}
}

func NewUserAuthorizer(db *gorm.DB, adminEmails []string) *UserAuthorizer {
	emails := make(map[string]struct{}, len(adminEmails))
	for _, email := range adminEmails {
		if email = strings.ToLower(strings.TrimSpace(email)); email != "" {
			emails[email] = struct{}{}
		}
	}
	return &UserAuthorizer{db: db, adminEmails: emails}
}

func (a *UserAuthorizer) IsAdmin(ctx context.Context, actorID string) (bool, error) {
	user, found, err := a.user(ctx, actorID)
	if err != nil || !found || user.Banned {
		return false, err
	}
	if user.Role == model.RoleAdmin {
		return true, nil
	}
	_, listed := a.adminEmails[strings.ToLower(user.Email)]
	return listed, nil
}

func (a *UserAuthorizer) IsEligibleVoter(ctx context.Context, actorID string, _ model.Word) (bool, error) {
	user, found, err := a.user(ctx, actorID)
	if err != nil || !found {
		return false, err
	}
	return !user.Banned, nil
}

func (a *UserAuthorizer) user(ctx context.Context, id string) (model.User, bool, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return model.User{}, false, nil
	}
	var user model.User
	err := a.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.User{}, false, nil
	}
	if err != nil {
		return model.User{}, false, err
	}
	return user, true, nil
}

// Static is a fixed set of admins. Everyone else may vote. It backs the
// seed tool and tests.
type Static struct {
	Admins []string
}

func (s Static) IsAdmin(_ context.Context, actorID string) (bool, error) {
	for _, admin := range s.Admins {
		if admin == actorID {
			return true, nil
		}
	}
	return false, nil
}

func (s Static) IsEligibleVoter(_ context.Context, actorID string, _ model.Word) (bool, error) {
	return strings.TrimSpace(actorID) != "", nil
}

var (
	_ moderation.Authorizer = (*UserAuthorizer)(nil)
	_ moderation.Authorizer = Static{}
)
