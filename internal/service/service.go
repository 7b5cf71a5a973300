package service

import (
	"github.com/sirupsen/logrus"

	"giftwell/internal/cache"
	"giftwell/internal/repository"
	"giftwell/internal/status"
	"giftwell/internal/storage"
)

// Service is the central business logic layer. It holds all repositories,
// the reconciler, the collection cache, and the image resolver.
type Service struct {
	logger     *logrus.Logger
	cache      *cache.Store
	images     *storage.Resolver
	reconciler *status.Reconciler

	Profiles      repository.ProfileRepository
	Items         repository.ItemRepository
	Statuses      repository.StatusRepository
	Lists         repository.ListRepository
	Groups        repository.GroupRepository
	Notifications repository.NotificationRepository
}

// New creates a new Service with all required dependencies.
func New(logger *logrus.Logger, store *cache.Store, images *storage.Resolver, reconciler *status.Reconciler,
	profiles repository.ProfileRepository,
	items repository.ItemRepository,
	statuses repository.StatusRepository,
	lists repository.ListRepository,
	groups repository.GroupRepository,
	notifications repository.NotificationRepository,
) *Service {
	return &Service{
		logger: logger, cache: store, images: images, reconciler: reconciler,
		Profiles: profiles, Items: items, Statuses: statuses,
		Lists: lists, Groups: groups, Notifications: notifications,
	}
}

// Cache exposes the collection cache, mainly for tests and diagnostics.
func (s *Service) Cache() *cache.Store {
	return s.cache
}
