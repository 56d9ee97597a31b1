package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/vidhub/vidhub-api/internal/apperrors"
	"github.com/vidhub/vidhub-api/internal/domain/entity"
)

// mockUserRepo is an in-memory UserRepository with the same case-insensitive
// matching and conflict behavior as the Postgres implementation.
type mockUserRepo struct {
	mu     sync.Mutex
	users  map[string]*entity.User
	nextID int

	createErr error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: map[string]*entity.User{}}
}

func (m *mockUserRepo) Create(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	for _, existing := range m.users {
		if strings.EqualFold(existing.Username, u.Username) || strings.EqualFold(existing.Email, u.Email) {
			return apperrors.ErrConflict
		}
	}
	m.nextID++
	u.ID = fmt.Sprintf("user-%d", m.nextID)
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Username, username) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockUserRepo) FindByIdentity(_ context.Context, username, email string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if (username != "" && strings.EqualFold(u.Username, username)) ||
			(email != "" && strings.EqualFold(u.Email, email)) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockUserRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (m *mockUserRepo) SetRefreshToken(_ context.Context, id, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		u.RefreshToken = token
	}
	return nil
}

func (m *mockUserRepo) RotateRefreshToken(_ context.Context, id, presented, next string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok || u.RefreshToken == "" || u.RefreshToken != presented {
		return false, nil
	}
	u.RefreshToken = next
	return true, nil
}

func (m *mockUserRepo) UpdateDetails(_ context.Context, id, fullName, email string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	if email != "" {
		for otherID, other := range m.users {
			if otherID != id && strings.EqualFold(other.Email, email) {
				return nil, apperrors.ErrConflict
			}
		}
		u.Email = strings.ToLower(email)
	}
	if fullName != "" {
		u.FullName = fullName
	}
	cp := *u
	return &cp, nil
}

func (m *mockUserRepo) UpdateAvatar(_ context.Context, id, avatarURL string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	u.AvatarURL = avatarURL
	cp := *u
	return &cp, nil
}

func (m *mockUserRepo) UpdateCoverImage(_ context.Context, id, coverImageURL string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	u.CoverImageURL = coverImageURL
	cp := *u
	return &cp, nil
}

func (m *mockUserRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users)
}

// mockAssetStorage records uploads and deletes. failNext makes the next
// upload fail once; failOn fails the Nth upload attempt (1-based).
type mockAssetStorage struct {
	mu       sync.Mutex
	uploads  int
	attempts int
	deleted  []string
	failNext bool
	failOn   int
}

func (m *mockAssetStorage) Upload(_ context.Context, r io.Reader, filename, _ string) (*Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts++
	if m.failNext || (m.failOn > 0 && m.attempts == m.failOn) {
		m.failNext = false
		return nil, errors.New("bucket unavailable")
	}
	if r != nil {
		_, _ = io.Copy(io.Discard, r)
	}
	m.uploads++
	url := fmt.Sprintf("https://assets.test/%d-%s", m.uploads, filename)
	return &Asset{URL: url, PublicID: filename}, nil
}

func (m *mockAssetStorage) Delete(_ context.Context, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, url)
	return nil
}

type mockSubsRepo struct {
	counts     map[string]int64
	subscribed map[string]bool // key subscriberID+"|"+channelID
}

func (m *mockSubsRepo) CountSubscribers(_ context.Context, channelID string) (int64, error) {
	return m.counts[channelID], nil
}

func (m *mockSubsRepo) IsSubscribed(_ context.Context, subscriberID, channelID string) (bool, error) {
	return m.subscribed[subscriberID+"|"+channelID], nil
}

type mockVideoRepo struct {
	history map[string][]entity.WatchHistoryEntry
}

func (m *mockVideoRepo) WatchHistory(_ context.Context, userID string) ([]entity.WatchHistoryEntry, error) {
	return m.history[userID], nil
}

func fileUpload(name string) *UploadedFile {
	return &UploadedFile{
		Reader:      strings.NewReader("fake image bytes"),
		Filename:    name,
		ContentType: "image/png",
	}
}
