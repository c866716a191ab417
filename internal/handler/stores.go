package handler

import (
	"context"

	"github.com/iliyamo/travel-api/internal/model"
	"github.com/iliyamo/travel-api/internal/queue"
	"github.com/iliyamo/travel-api/internal/repository"
)

// TravelStore is the travel persistence the handlers need.  It is satisfied
// by *repository.TravelRepo.
type TravelStore interface {
	List(ctx context.Context, publicOnly bool, page repository.PageRequest) ([]model.Travel, int64, error)
	GetByID(ctx context.Context, id uint64) (model.Travel, error)
	GetPublicBySlug(ctx context.Context, slug string) (model.Travel, error)
	NameExists(ctx context.Context, name string, exceptID uint64) (bool, error)
	Create(ctx context.Context, t *model.Travel) error
	Update(ctx context.Context, t *model.Travel) error
}

// TourStore is satisfied by *repository.TourRepo.
type TourStore interface {
	ListByTravel(ctx context.Context, travelID uint64, f repository.TourFilter, page repository.PageRequest) ([]model.Tour, int64, error)
	GetForTravel(ctx context.Context, travelID, tourID uint64) (model.Tour, error)
	Create(ctx context.Context, t *model.Tour) error
	Update(ctx context.Context, t *model.Tour) error
}

type UserFinder interface {
	GetByEmail(ctx context.Context, email string) (model.User, error)
}

// TokenIssuer mints a bearer token for a user and device label.
type TokenIssuer interface {
	Issue(ctx context.Context, userID uint64, device string) (string, error)
}

type EventPublisher interface {
	PublishCatalogChanged(ctx context.Context, ev queue.CatalogChangedEvent) error
}
