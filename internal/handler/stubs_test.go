package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iliyamo/travel-api/internal/middleware"
	"github.com/iliyamo/travel-api/internal/model"
	"github.com/iliyamo/travel-api/internal/queue"
	"github.com/iliyamo/travel-api/internal/repository"
	"github.com/iliyamo/travel-api/internal/utils"
)

type memTravels struct {
	rows []model.Travel
}

func (m *memTravels) List(_ context.Context, publicOnly bool, page repository.PageRequest) ([]model.Travel, int64, error) {
	var all []model.Travel
	for _, t := range m.rows {
		if !publicOnly || t.IsPublic {
			all = append(all, t)
		}
	}
	return pageOf(all, page), int64(len(all)), nil
}

func (m *memTravels) GetByID(_ context.Context, id uint64) (model.Travel, error) {
	for _, t := range m.rows {
		if t.ID == id {
			return t, nil
		}
	}
	return model.Travel{}, repository.ErrTravelNotFound
}

func (m *memTravels) GetPublicBySlug(_ context.Context, slug string) (model.Travel, error) {
	for _, t := range m.rows {
		if t.Slug == slug && t.IsPublic {
			return t, nil
		}
	}
	return model.Travel{}, repository.ErrTravelNotFound
}

func (m *memTravels) NameExists(_ context.Context, name string, exceptID uint64) (bool, error) {
	for _, t := range m.rows {
		if t.Name == name && t.ID != exceptID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memTravels) Create(_ context.Context, t *model.Travel) error {
	t.ID = uint64(len(m.rows) + 1)
	m.rows = append(m.rows, *t)
	return nil
}

func (m *memTravels) Update(_ context.Context, t *model.Travel) error {
	for i := range m.rows {
		if m.rows[i].ID == t.ID {
			m.rows[i] = *t
			return nil
		}
	}
	return repository.ErrTravelNotFound
}

func (m *memTravels) add(name string, public bool) model.Travel {
	t := model.Travel{Name: name, Slug: strings.ReplaceAll(strings.ToLower(name), " ", "-"), Description: "desc", NumberOfDays: 5, IsPublic: public}
	_ = m.Create(context.Background(), &t)
	return t
}

// memTours applies TourFilter the way the SQL builder does.
type memTours struct {
	rows []model.Tour
	last repository.TourFilter
}

func (m *memTours) ListByTravel(_ context.Context, travelID uint64, f repository.TourFilter, page repository.PageRequest) ([]model.Tour, int64, error) {
	m.last = f
	var all []model.Tour
	for _, t := range m.rows {
		switch {
		case t.TravelID != travelID:
		case f.DateFrom != nil && t.StartingDate.Before(*f.DateFrom):
		case f.DateTo != nil && t.EndingDate.After(*f.DateTo):
		case f.PriceFrom != nil && t.Price < *f.PriceFrom:
		case f.PriceTo != nil && t.Price > *f.PriceTo:
		default:
			all = append(all, t)
		}
	}
	byPrice := f.SortBy == repository.SortByPrice && f.SortOrder != ""
	sort.SliceStable(all, func(i, j int) bool {
		a, b := all[i], all[j]
		if byPrice && a.Price != b.Price {
			if f.SortOrder == repository.SortDesc {
				return a.Price > b.Price
			}
			return a.Price < b.Price
		}
		if !a.StartingDate.Equal(b.StartingDate) {
			return a.StartingDate.Before(b.StartingDate)
		}
		return a.ID < b.ID
	})
	return pageOf(all, page), int64(len(all)), nil
}

func (m *memTours) GetForTravel(_ context.Context, travelID, tourID uint64) (model.Tour, error) {
	for _, t := range m.rows {
		if t.ID == tourID && t.TravelID == travelID {
			return t, nil
		}
	}
	return model.Tour{}, repository.ErrTourNotFound
}

func (m *memTours) Create(_ context.Context, t *model.Tour) error {
	t.ID = uint64(len(m.rows) + 1)
	m.rows = append(m.rows, *t)
	return nil
}

func (m *memTours) Update(_ context.Context, t *model.Tour) error {
	for i := range m.rows {
		if m.rows[i].ID == t.ID && m.rows[i].TravelID == t.TravelID {
			m.rows[i] = *t
			return nil
		}
	}
	return repository.ErrTourNotFound
}

func pageOf[T any](all []T, page repository.PageRequest) []T {
	if page.Offset() >= len(all) {
		return nil
	}
	end := page.Offset() + page.Limit()
	if end > len(all) {
		end = len(all)
	}
	return all[page.Offset():end]
}

type memUsers map[string]model.User

func (m memUsers) GetByEmail(_ context.Context, email string) (model.User, error) {
	u, ok := m[email]
	if !ok {
		return model.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

type stubIssuer struct {
	userID uint64
	device string
}

func (s *stubIssuer) Issue(_ context.Context, userID uint64, device string) (string, error) {
	s.userID, s.device = userID, device
	return "issued-token", nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.CatalogChangedEvent
}

func (p *recordingPublisher) PublishCatalogChanged(_ context.Context, ev queue.CatalogChangedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

// staticVerifier treats every bearer token as user 1.
type staticVerifier struct{}

func (staticVerifier) Verify(context.Context, string) (model.User, uint64, error) {
	return model.User{ID: 1}, 1, nil
}

var _ middleware.BearerVerifier = staticVerifier{}

type fixture struct {
	travels *memTravels
	tours   *memTours
	users   memUsers
	issuer  *stubIssuer
	events  *recordingPublisher
	e       *echo.Echo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	hash, err := utils.HashPassword("password", 4)
	require.NoError(t, err)

	f := &fixture{
		travels: &memTravels{},
		tours:   &memTours{},
		users:   memUsers{"admin@example.com": {ID: 1, Email: "admin@example.com", PasswordHash: hash}},
		issuer:  &stubIssuer{},
		events:  &recordingPublisher{},
	}
	log := zap.NewNop()
	e := echo.New()
	e.Validator = NewRequestValidator()
	e.HTTPErrorHandler = HTTPErrorHandler(log)

	pub := NewPublicHandler(f.travels, f.tours, log)
	auth := NewAuthHandler(f.users, f.issuer, log)
	admin := NewAdminHandler(f.travels, f.tours, f.events, log)

	v1 := e.Group("/api/v1")
	v1.GET("/travels", pub.ListTravels)
	v1.GET("/travels/:slug/tours", pub.ListTours)
	v1.POST("/login", auth.Login)

	g := v1.Group("/admin", middleware.Authenticate(staticVerifier{}, log))
	g.GET("/travels", admin.ListTravels)
	g.POST("/travels", admin.CreateTravel)
	g.PUT("/travels/:id", admin.UpdateTravel)
	g.GET("/travels/:id/tours", admin.ListTours)
	g.POST("/travels/:id/tours", admin.CreateTour)
	g.PUT("/travels/:id/tours/:tourId", admin.UpdateTour)

	f.e = e
	return f
}

func (f *fixture) do(method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	req.Header.Set(echo.HeaderAuthorization, "Bearer test")
	req.Header.Set("User-Agent", "handler-test")
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

type listBody[T any] struct {
	Data  []T       `json:"data"`
	Links pageLinks `json:"links"`
	Meta  pageMeta  `json:"meta"`
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

type errorBody struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}
