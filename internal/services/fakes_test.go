package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"eventlottery/internal/domain"
)

// fakeEventRepo is an in-memory EventRepository with real compare-and-swap
// semantics on Event.Version.
type fakeEventRepo struct {
	mu     sync.Mutex
	byID   map[string]*domain.Event
	nextID int

	getErr  error // if set, GetByID returns this error
	saveErr error // if set, Save returns this error
	// conflictsLeft forces the next N saves to fail with ErrVersionConflict.
	conflictsLeft int
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{byID: make(map[string]*domain.Event), nextID: 1}
}

func cloneEvent(e *domain.Event) *domain.Event {
	c := *e
	c.Waitlist = append([]string(nil), e.Waitlist...)
	c.Invitations = append([]domain.Invitation(nil), e.Invitations...)
	c.Attendees = append([]string(nil), e.Attendees...)
	c.Declined = append([]string(nil), e.Declined...)
	return &c
}

func (f *fakeEventRepo) Create(ctx context.Context, e *domain.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e.ID = fmt.Sprintf("ev-%d", f.nextID)
	f.nextID++
	e.Version = 1
	f.byID[e.ID] = cloneEvent(e)
	return nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	if e, ok := f.byID[id]; ok {
		return cloneEvent(e), nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) Save(ctx context.Context, e *domain.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	if f.conflictsLeft > 0 {
		f.conflictsLeft--
		return domain.ErrVersionConflict
	}
	stored, ok := f.byID[e.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if stored.Version != e.Version {
		return domain.ErrVersionConflict
	}
	e.Version++
	f.byID[e.ID] = cloneEvent(e)
	return nil
}

func (f *fakeEventRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeEventRepo) List(ctx context.Context, filter domain.EventFilter, params domain.PaginationParams) ([]*domain.Event, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var matched []*domain.Event
	for _, e := range f.byID {
		if filter.Matches(e) {
			matched = append(matched, cloneEvent(e))
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	total := len(matched)
	start := params.Offset()
	if start > total {
		start = total
	}
	end := start + params.PageSize
	if params.PageSize <= 0 || end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (f *fakeEventRepo) ListAllIDs(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]string, 0, len(f.byID))
	for id := range f.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// fakeUserRepo is an in-memory UserRepository for tests.
type fakeUserRepo struct {
	byID      map[string]*domain.User
	nextID    int
	createErr error
	listErr   error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: make(map[string]*domain.User), nextID: 1}
}

func (f *fakeUserRepo) add(id, username string) {
	f.byID[id] = &domain.User{ID: id, Username: username, Email: id + "@example.com", Role: domain.RoleEntrant}
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return domain.ErrDuplicateEmail
		}
	}
	u.ID = fmt.Sprintf("user-%d", f.nextID)
	f.nextID++
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range f.byID {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) ListByIDs(ctx context.Context, ids []string) ([]*domain.User, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*domain.User
	for _, id := range ids {
		if u, ok := f.byID[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(f.byID, id)
	return nil
}

// fakeNotificationRepo records notification log writes.
type fakeNotificationRepo struct {
	created   []*domain.Notification
	createErr error
}

func (f *fakeNotificationRepo) CreateBatch(ctx context.Context, ns []*domain.Notification) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, ns...)
	return nil
}

func (f *fakeNotificationRepo) ListByUserID(ctx context.Context, userID string, params domain.PaginationParams) ([]*domain.Notification, int, error) {
	var out []*domain.Notification
	for _, n := range f.created {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, len(out), nil
}

// fakeNotifier records notification requests; err makes delivery fail.
type fakeNotifier struct {
	requests []domain.NotificationRequest
	err      error
}

func (f *fakeNotifier) Notify(ctx context.Context, req domain.NotificationRequest) error {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return f.err
	}
	return nil
}

// requestsOfType returns recorded requests with the given type.
func (f *fakeNotifier) requestsOfType(typ domain.NotificationType) []domain.NotificationRequest {
	var out []domain.NotificationRequest
	for _, r := range f.requests {
		if r.Type == typ {
			out = append(out, r)
		}
	}
	return out
}

// fakeHasher avoids bcrypt cost in auth service tests.
type fakeHasher struct{}

func (fakeHasher) GenerateSalt() (string, error) { return "salt", nil }
func (fakeHasher) Hash(salt, password string) (string, error) {
	return salt + ":" + password, nil
}
func (fakeHasher) Compare(hash, salt, password string) error {
	if hash != salt+":"+password {
		return fmt.Errorf("password mismatch")
	}
	return nil
}

// fakeTokenIssuer issues predictable tokens.
type fakeTokenIssuer struct{ err error }

func (f fakeTokenIssuer) Issue(userID, email string, role domain.Role, expiry time.Duration) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "token-for-" + userID, nil
}
