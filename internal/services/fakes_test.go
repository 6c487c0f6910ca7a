package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"eventmanagement/internal/domain"
)

// fakeEventRepo is an in-memory EventRepository for tests. All mutation goes
// through a mutex so the ledger's concurrency behaviour can be exercised with
// real goroutines.
type fakeEventRepo struct {
	mu     sync.Mutex
	byID   map[string]*domain.Event
	nextID int

	getErr    error
	createErr error
	listErr   error
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{byID: make(map[string]*domain.Event), nextID: 1}
}

func (f *fakeEventRepo) add(e *domain.Event) *domain.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	if e.ID == "" {
		e.ID = fmt.Sprintf("ev-%d", f.nextID)
		f.nextID++
	}
	if e.RegistrationIDs == nil {
		e.RegistrationIDs = []string{}
	}
	f.byID[e.ID] = e
	return e
}

func (f *fakeEventRepo) Create(ctx context.Context, e *domain.Event) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.add(e)
	return nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *e
	cp.RegistrationIDs = append([]string(nil), e.RegistrationIDs...)
	return &cp, nil
}

func (f *fakeEventRepo) matching(filter domain.EventFilter, now time.Time) []*domain.Event {
	var out []*domain.Event
	for _, e := range f.byID {
		if !filter.IncludePast && e.Date.Before(now) {
			continue
		}
		if filter.Category != "" && filter.Category != "all" && string(e.Category) != filter.Category {
			continue
		}
		if filter.Search != "" && !containsFold(e.Name, filter.Search) &&
			!containsFold(e.Description, filter.Search) && !containsFold(e.Venue, filter.Search) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func (f *fakeEventRepo) List(ctx context.Context, filter domain.EventFilter, s domain.EventSort, page domain.PaginationParams, now time.Time) ([]*domain.Event, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.matching(filter, now)
	if s.SmartDate() {
		sort.Slice(out, func(i, j int) bool {
			iu, ju := !out[i].Date.Before(now), !out[j].Date.Before(now)
			if iu != ju {
				return iu // upcoming before past
			}
			if iu {
				return out[i].Date.Before(out[j].Date) // soonest upcoming first
			}
			return out[i].Date.After(out[j].Date) // most recent past first
		})
	} else {
		sort.Slice(out, func(i, j int) bool {
			var less bool
			switch s.Field {
			case "name":
				less = out[i].Name < out[j].Name
			case "price":
				less = out[i].Price < out[j].Price
			default:
				less = out[i].CreatedAt.Before(out[j].CreatedAt)
			}
			if s.Desc {
				return !less
			}
			return less
		})
	}
	off := page.Offset()
	if off >= len(out) {
		return nil, nil
	}
	end := off + page.PageSize
	if end > len(out) {
		end = len(out)
	}
	return out[off:end], nil
}

func (f *fakeEventRepo) Count(ctx context.Context, filter domain.EventFilter, now time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.matching(filter, now)), nil
}

func (f *fakeEventRepo) ListByHostID(ctx context.Context, hostID string) ([]*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Event
	for _, e := range f.byID {
		if e.HostID == hostID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeEventRepo) Update(ctx context.Context, id string, patch domain.EventPatch) (*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if patch.Name != nil {
		e.Name = *patch.Name
	}
	if patch.Description != nil {
		e.Description = *patch.Description
	}
	if patch.Venue != nil {
		e.Venue = *patch.Venue
	}
	if patch.Date != nil {
		e.Date = *patch.Date
	}
	if patch.Category != nil {
		e.Category = *patch.Category
	}
	if patch.Type != nil {
		e.Type = *patch.Type
	}
	if patch.Price != nil {
		e.Price = *patch.Price
	}
	if patch.TotalSeats != nil {
		e.TotalSeats = *patch.TotalSeats
	}
	cp := *e
	return &cp, nil
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

func (f *fakeEventRepo) AppendRegistrationID(ctx context.Context, eventID, regID string) (int, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.byID[eventID]
	if !ok {
		return 0, 0, domain.ErrNotFound
	}
	if len(e.RegistrationIDs) >= e.TotalSeats {
		return 0, 0, domain.ErrCapacityExceeded
	}
	e.RegistrationIDs = append(e.RegistrationIDs, regID)
	return len(e.RegistrationIDs), e.TotalSeats, nil
}

func (f *fakeEventRepo) RemoveRegistrationID(ctx context.Context, eventID, regID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.byID[eventID]
	if !ok {
		return domain.ErrNotFound
	}
	for i, id := range e.RegistrationIDs {
		if id == regID {
			e.RegistrationIDs = append(e.RegistrationIDs[:i], e.RegistrationIDs[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeEventRepo) CompleteExpired(ctx context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, e := range f.byID {
		if e.Status == domain.StatusActive && e.Date.Before(now) {
			e.Status = domain.StatusCompleted
			n++
		}
	}
	return n, nil
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// fakeRegistrationRepo is an in-memory RegistrationRepository. Insertion order
// is preserved the way the real store's created_at ordering would.
type fakeRegistrationRepo struct {
	mu     sync.Mutex
	byID   map[string]*domain.Registration
	order  []string
	nextID int

	createErr error
	listErr   error
}

func newFakeRegistrationRepo() *fakeRegistrationRepo {
	return &fakeRegistrationRepo{byID: make(map[string]*domain.Registration), nextID: 1}
}

func (f *fakeRegistrationRepo) Create(ctx context.Context, reg *domain.Registration) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.byID {
		if existing.EventID == reg.EventID && existing.Email == reg.Email {
			return domain.ErrAlreadyRegistered
		}
	}
	reg.ID = fmt.Sprintf("reg-%d", f.nextID)
	f.nextID++
	f.byID[reg.ID] = reg
	f.order = append(f.order, reg.ID)
	return nil
}

func (f *fakeRegistrationRepo) GetByEventAndUser(ctx context.Context, eventID, userID string) (*domain.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range f.order {
		reg := f.byID[id]
		if reg.EventID == eventID && reg.UserID == userID && userID != "" {
			return reg, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRegistrationRepo) ListByEventID(ctx context.Context, eventID string) ([]*domain.Registration, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Registration
	for _, id := range f.order {
		if f.byID[id].EventID == eventID {
			out = append(out, f.byID[id])
		}
	}
	return out, nil
}

func (f *fakeRegistrationRepo) ListByUserID(ctx context.Context, userID string) ([]*domain.Registration, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Registration
	for i := len(f.order) - 1; i >= 0; i-- { // newest first
		if f.byID[f.order[i]].UserID == userID {
			out = append(out, f.byID[f.order[i]])
		}
	}
	return out, nil
}

func (f *fakeRegistrationRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	for i, oid := range f.order {
		if oid == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeRegistrationRepo) count(eventID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, reg := range f.byID {
		if reg.EventID == eventID {
			n++
		}
	}
	return n
}

// fakeUserRepo is an in-memory UserRepository.
type fakeUserRepo struct {
	mu     sync.Mutex
	byID   map[string]*domain.User
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: make(map[string]*domain.User), nextID: 1}
}

func (f *fakeUserRepo) add(u *domain.User) *domain.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u.ID == "" {
		u.ID = fmt.Sprintf("u-%d", f.nextID)
		f.nextID++
	}
	f.byID[u.ID] = u
	return u
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	f.mu.Lock()
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			f.mu.Unlock()
			return domain.ErrDuplicateEmail
		}
	}
	f.mu.Unlock()
	f.add(u)
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) Update(ctx context.Context, u *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	f.byID[u.ID] = u
	return nil
}

// fakeEmailService counts sends instead of sending.
type fakeEmailService struct {
	mu          sync.Mutex
	welcome     int
	created     int
	confirmed   int
	fullyBooked int
	err         error
}

func (f *fakeEmailService) SendWelcome(ctx context.Context, data *domain.WelcomeEmailData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.welcome++
	return f.err
}

func (f *fakeEmailService) SendEventCreated(ctx context.Context, to, hostName string, data *domain.EventEmailData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created++
	return f.err
}

func (f *fakeEmailService) SendRegistrationConfirmed(ctx context.Context, reg *domain.Registration, data *domain.EventEmailData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.confirmed++
	return f.err
}

func (f *fakeEmailService) SendEventFullyBooked(ctx context.Context, to, hostName string, data *domain.EventEmailData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fullyBooked++
	return f.err
}

func (f *fakeEmailService) fullyBookedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fullyBooked
}

// fakeHasher prefixes instead of hashing.
type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (fakeHasher) Compare(hash, password string) error {
	if hash != "hashed:"+password {
		return domain.ErrInvalidCredentials
	}
	return nil
}

// fakeTokenIssuer returns a deterministic token.
type fakeTokenIssuer struct{}

func (fakeTokenIssuer) Issue(userID, email string, expiry time.Duration) (string, error) {
	return "token-" + userID, nil
}
