// Package user resolves storefront identities. The Discord bot knows users
// only by their Discord ID; this service maps that to an internal user,
// creating one on first financial contact.
package user

import (
	"context"
	"errors"
	"strings"

	domainerrors "guildpay/internal/errors"
	"guildpay/internal/models"
	"guildpay/internal/repositories"

	"github.com/sirupsen/logrus"
)

var ErrInvalidDiscordID = &domainerrors.DomainError{
	Code:    "INVALID_DISCORD_ID",
	Message: "discord id is required",
}

// Service resolves and manages storefront users.
type Service interface {
	GetUser(ctx context.Context, id uint) (*models.User, error)
	ResolveDiscordUser(ctx context.Context, discordID, username string) (*models.User, error)
}

type service struct {
	repo repositories.UserRepository
	log  *logrus.Logger
}

func NewService(repo repositories.UserRepository, log *logrus.Logger) Service {
	if repo == nil {
		panic("user repository is required")
	}
	if log == nil {
		log = logrus.New()
	}
	return &service{repo: repo, log: log}
}

func (s *service) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return s.repo.GetByID(ctx, id)
}

// ResolveDiscordUser returns the user owning the given Discord identity,
// creating one if this is their first contact. A non-empty username refreshes
// the stored one, since Discord usernames change.
func (s *service) ResolveDiscordUser(ctx context.Context, discordID, username string) (*models.User, error) {
	discordID = strings.TrimSpace(discordID)
	if discordID == "" {
		return nil, ErrInvalidDiscordID
	}

	user, err := s.repo.GetByDiscordID(ctx, discordID)
	if err == nil {
		if username != "" && username != user.Username {
			user.Username = username
			if err := s.repo.Update(ctx, user); err != nil {
				s.log.WithError(err).Warn("failed to refresh username")
			}
		}
		return user, nil
	}
	if !errors.Is(err, repositories.ErrUserNotFound) {
		return nil, err
	}

	user = &models.User{
		DiscordID: discordID,
		Username:  username,
		Role:      models.RoleCustomer,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"user_id":    user.ID,
		"discord_id": discordID,
	}).Info("created user from discord identity")
	return user, nil
}
