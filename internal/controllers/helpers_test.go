package controllers

import (
	"context"
	"io"
	"strconv"
	"sync"

	"github.com/amaumene/cinesync/internal/models"
	"github.com/amaumene/cinesync/internal/services/profilestore"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// fakeStore is an in-memory RecordStore that counts reads and writes
type fakeStore struct {
	mu       sync.Mutex
	nextID   int
	profiles []models.Profile
	records  map[profilestore.Collection][]models.Record
	reads    int
	writes   int
	failOp   string
	failErr  error
}

func newFakeStore(profiles ...models.Profile) *fakeStore {
	return &fakeStore{
		nextID:   1,
		profiles: profiles,
		records:  map[profilestore.Collection][]models.Record{},
	}
}

func (s *fakeStore) fail(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failOp, s.failErr = op, err
}

func (s *fakeStore) injected(op string) error {
	if s.failOp == op {
		err := s.failErr
		s.failOp, s.failErr = "", nil
		return err
	}
	return nil
}

func (s *fakeStore) seed(collection profilestore.Collection, rec models.Record) models.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec.ID = models.ID(strconv.Itoa(s.nextID))
	s.nextID++
	s.records[collection] = append(s.records[collection], rec.Clone())
	return rec
}

func (s *fakeStore) all(collection profilestore.Collection) []models.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Record, 0, len(s.records[collection]))
	for _, rec := range s.records[collection] {
		out = append(out, rec.Clone())
	}
	return out
}

func (s *fakeStore) counts() (reads, writes int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads, s.writes
}

func (s *fakeStore) ListProfiles(ctx context.Context) ([]models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	if err := s.injected("ListProfiles"); err != nil {
		return nil, err
	}
	return append([]models.Profile(nil), s.profiles...), nil
}

func (s *fakeStore) ListRecords(ctx context.Context, collection profilestore.Collection, profileID models.ID) ([]models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	if err := s.injected("ListRecords"); err != nil {
		return nil, err
	}
	out := []models.Record{}
	for _, rec := range s.records[collection] {
		if rec.ProfileID == profileID {
			out = append(out, rec.Clone())
		}
	}
	return out, nil
}

func (s *fakeStore) FindRecords(ctx context.Context, collection profilestore.Collection, tmdbID int, profileID models.ID) ([]models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	if err := s.injected("FindRecords"); err != nil {
		return nil, err
	}
	out := []models.Record{}
	for _, rec := range s.records[collection] {
		if rec.TMDBID == tmdbID && rec.ProfileID == profileID {
			out = append(out, rec.Clone())
		}
	}
	return out, nil
}

func (s *fakeStore) CreateRecord(ctx context.Context, collection profilestore.Collection, rec models.Record) (*models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	if err := s.injected("CreateRecord"); err != nil {
		return nil, err
	}
	rec = rec.Clone()
	rec.ID = models.ID(strconv.Itoa(s.nextID))
	s.nextID++
	s.records[collection] = append(s.records[collection], rec)
	out := rec.Clone()
	return &out, nil
}

func (s *fakeStore) UpdateRecord(ctx context.Context, collection profilestore.Collection, rec models.Record) (*models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	if err := s.injected("UpdateRecord"); err != nil {
		return nil, err
	}
	for i, existing := range s.records[collection] {
		if existing.ID == rec.ID {
			s.records[collection][i] = rec.Clone()
			out := rec.Clone()
			return &out, nil
		}
	}
	return nil, &models.StoreError{Kind: models.StoreRequestFailed, Op: "update", Status: 404, Message: "not found"}
}

func (s *fakeStore) DeleteRecord(ctx context.Context, collection profilestore.Collection, id models.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	if err := s.injected("DeleteRecord"); err != nil {
		return err
	}
	records := s.records[collection]
	for i, existing := range records {
		if existing.ID == id {
			s.records[collection] = append(records[:i:i], records[i+1:]...)
			return nil
		}
	}
	return &models.StoreError{Kind: models.StoreRequestFailed, Op: "delete", Status: 404, Message: "not found"}
}

// mockCatalog is a testify mock of Catalog
type mockCatalog struct {
	mock.Mock
}

func (m *mockCatalog) Details(ctx context.Context, mediaType models.MediaType, id int) (*models.CatalogItem, error) {
	args := m.Called(ctx, mediaType, id)
	item, _ := args.Get(0).(*models.CatalogItem)
	return item, args.Error(1)
}

func (m *mockCatalog) Credits(ctx context.Context, mediaType models.MediaType, id int) (*models.Credits, error) {
	args := m.Called(ctx, mediaType, id)
	credits, _ := args.Get(0).(*models.Credits)
	return credits, args.Error(1)
}

func (m *mockCatalog) Images(ctx context.Context, mediaType models.MediaType, id int) (*models.Images, error) {
	args := m.Called(ctx, mediaType, id)
	images, _ := args.Get(0).(*models.Images)
	return images, args.Error(1)
}

func (m *mockCatalog) Season(ctx context.Context, showID, seasonNumber int) (*models.Season, error) {
	args := m.Called(ctx, showID, seasonNumber)
	season, _ := args.Get(0).(*models.Season)
	return season, args.Error(1)
}

func (m *mockCatalog) Search(ctx context.Context, mediaType models.MediaType, query string, year, page int) (*models.Page, error) {
	args := m.Called(ctx, mediaType, query, year, page)
	p, _ := args.Get(0).(*models.Page)
	return p, args.Error(1)
}

func (m *mockCatalog) Discover(ctx context.Context, mediaType models.MediaType, filters models.DiscoverFilters, page int) (*models.Page, error) {
	args := m.Called(ctx, mediaType, filters, page)
	p, _ := args.Get(0).(*models.Page)
	return p, args.Error(1)
}

// memPrefs is an in-memory PreferenceStore
type memPrefs struct {
	profile models.ID
	theme   models.Theme
}

func (p *memPrefs) GetCurrentProfile() (models.ID, error) { return p.profile, nil }

func (p *memPrefs) SetCurrentProfile(id models.ID) error {
	p.profile = id
	return nil
}

func (p *memPrefs) GetTheme() (models.Theme, error) {
	if p.theme == "" {
		return models.ThemeLight, nil
	}
	return p.theme, nil
}

func (p *memPrefs) SetTheme(theme models.Theme) error {
	p.theme = theme
	return nil
}

func (p *memPrefs) ToggleTheme() (models.Theme, error) {
	t, _ := p.GetTheme()
	p.theme = t.Toggle()
	return p.theme, nil
}
