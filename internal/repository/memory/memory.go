// Package memory keeps users, contacts and categories in process memory.
// It enforces the same uniqueness and category rules as the postgres
// schema and is used with STORAGE=memory and in tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"agenda/internal/apperr"
	"agenda/internal/model"
	"agenda/internal/repository"
)

// Store is a mutex-guarded in-memory database.
type Store struct {
	mu sync.RWMutex

	users      map[int64]model.User
	contacts   map[int64]model.Contact
	categories []model.Category

	nextUserID    int64
	nextContactID int64

	now func() time.Time
}

// New returns an empty store seeded with model.DefaultCategories.
func New() *Store {
	s := &Store{
		users:    map[int64]model.User{},
		contacts: map[int64]model.Contact{},
		now:      time.Now,
	}
	for i, name := range model.DefaultCategories {
		s.categories = append(s.categories, model.Category{ID: int64(i + 1), Name: name})
	}
	return s
}

func (s *Store) Users() repository.UserRepository         { return userRepo{s} }
func (s *Store) Contacts() repository.ContactRepository   { return contactRepo{s} }
func (s *Store) Categories() repository.CategoryRepository { return categoryRepo{s} }

func (s *Store) categoryName(id *int64) (*string, bool) {
	if id == nil {
		return nil, true
	}
	for _, c := range s.categories {
		if c.ID == *id {
			name := c.Name
			return &name, true
		}
	}
	return nil, false
}

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, u *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return apperr.Conflict("email", apperr.MsgAccountEmailTaken)
		}
	}
	r.s.nextUserID++
	u.ID = r.s.nextUserID
	u.CreatedAt = r.s.now()
	r.s.users[u.ID] = *u
	return nil
}

func (r userRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

type categoryRepo struct{ s *Store }

func (r categoryRepo) List(context.Context) ([]model.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]model.Category, len(r.s.categories))
	copy(out, r.s.categories)
	return out, nil
}

type contactRepo struct{ s *Store }

func (r contactRepo) List(_ context.Context, ownerID int64) ([]model.Contact, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []model.Contact{}
	for _, c := range r.s.contacts {
		if c.UserID == ownerID {
			out = append(out, r.withCategory(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r contactRepo) FindByID(_ context.Context, ownerID, id int64) (*model.Contact, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.contacts[id]
	if !ok || c.UserID != ownerID {
		return nil, nil
	}
	c = r.withCategory(c)
	return &c, nil
}

func (r contactRepo) EmailTaken(_ context.Context, ownerID int64, email string, excludeID int64) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.conflict(ownerID, excludeID, func(c model.Contact) bool { return c.Email == email }), nil
}

func (r contactRepo) PhoneTaken(_ context.Context, ownerID int64, phone string, excludeID int64) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.conflict(ownerID, excludeID, func(c model.Contact) bool { return c.Phone == phone }), nil
}

func (r contactRepo) Create(_ context.Context, c *model.Contact) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.check(c); err != nil {
		return err
	}
	r.s.nextContactID++
	c.ID = r.s.nextContactID
	c.CreatedAt = r.s.now()
	c.UpdatedAt = c.CreatedAt
	stored := *c
	stored.CategoryName = nil
	r.s.contacts[c.ID] = stored
	return nil
}

func (r contactRepo) Update(_ context.Context, c *model.Contact, replacePhoto bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.contacts[c.ID]
	if !ok || existing.UserID != c.UserID {
		return apperr.NotFound(apperr.MsgContactNotFound)
	}
	if err := r.check(c); err != nil {
		return err
	}
	existing.Name = c.Name
	existing.Email = c.Email
	existing.Phone = c.Phone
	existing.IsFavorite = c.IsFavorite
	existing.CategoryID = c.CategoryID
	if replacePhoto {
		existing.PhotoPath = c.PhotoPath
	}
	existing.UpdatedAt = r.s.now()
	r.s.contacts[c.ID] = existing
	c.UpdatedAt = existing.UpdatedAt
	return nil
}

func (r contactRepo) Delete(_ context.Context, ownerID, id int64) (*string, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.contacts[id]
	if !ok || c.UserID != ownerID {
		return nil, false, nil
	}
	delete(r.s.contacts, id)
	return c.PhotoPath, true, nil
}

func (r contactRepo) CountByCategory(_ context.Context, ownerID int64) ([]model.CategoryStat, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	totals := map[string]int64{}
	for _, c := range r.s.contacts {
		if c.UserID != ownerID {
			continue
		}
		label := model.UncategorizedLabel
		if name, _ := r.s.categoryName(c.CategoryID); name != nil {
			label = *name
		}
		totals[label]++
	}

	stats := make([]model.CategoryStat, 0, len(totals))
	for category, total := range totals {
		stats = append(stats, model.CategoryStat{Category: category, Total: total})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Total != stats[j].Total {
			return stats[i].Total > stats[j].Total
		}
		return strings.Compare(stats[i].Category, stats[j].Category) < 0
	})
	return stats, nil
}

func (r contactRepo) withCategory(c model.Contact) model.Contact {
	c.CategoryName, _ = r.s.categoryName(c.CategoryID)
	return c
}

func (r contactRepo) conflict(ownerID, excludeID int64, match func(model.Contact) bool) bool {
	for _, c := range r.s.contacts {
		if c.UserID == ownerID && c.ID != excludeID && match(c) {
			return true
		}
	}
	return false
}

// check mirrors the table constraints. Caller holds the write lock.
func (r contactRepo) check(c *model.Contact) error {
	if r.conflict(c.UserID, c.ID, func(o model.Contact) bool { return o.Email == c.Email }) {
		return apperr.Conflict("email", apperr.MsgContactEmailTaken)
	}
	if r.conflict(c.UserID, c.ID, func(o model.Contact) bool { return o.Phone == c.Phone }) {
		return apperr.Conflict("phone", apperr.MsgContactPhoneTaken)
	}
	if _, ok := r.s.categoryName(c.CategoryID); !ok {
		return apperr.Validation("category_id", apperr.MsgInvalidCategory)
	}
	return nil
}
