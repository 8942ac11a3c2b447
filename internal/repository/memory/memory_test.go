package memory

import (
	"context"
	"sync"
	"testing"

	"agenda/internal/apperr"
	"agenda/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestUsers(t *testing.T) {
	s := New()
	ctx := context.Background()

	u := &model.User{Name: "Ana", Email: "ana@x.com", PasswordHash: "h"}
	require.NoError(t, s.Users().Create(ctx, u))
	assert.Equal(t, int64(1), u.ID)
	assert.False(t, u.CreatedAt.IsZero())

	err := s.Users().Create(ctx, &model.User{Name: "Outra", Email: "ana@x.com"})
	assert.True(t, apperr.Is(err, apperr.KindConflict))

	got, err := s.Users().FindByEmail(ctx, "ana@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.Name)

	got, err = s.Users().FindByEmail(ctx, "ghost@x.com")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCategories_Seeded(t *testing.T) {
	got, err := New().Categories().List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, len(model.DefaultCategories))
	assert.Equal(t, model.Category{ID: 1, Name: "Outros"}, got[0])
}

func TestContacts_CreateListFind(t *testing.T) {
	s := New()
	ctx := context.Background()
	repo := s.Contacts()

	a := &model.Contact{Name: "Ana", Email: "ana@x.com", Phone: "11987654321", CategoryID: ptr(int64(2)), UserID: 1}
	b := &model.Contact{Name: "Bruno", Email: "bruno@x.com", Phone: "1133334444", UserID: 1}
	other := &model.Contact{Name: "Carla", Email: "carla@x.com", Phone: "1144445555", UserID: 2}
	for _, c := range []*model.Contact{a, b, other} {
		require.NoError(t, repo.Create(ctx, c))
	}

	list, err := repo.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Ana", list[0].Name)
	assert.Equal(t, "Trabalho", *list[0].CategoryName)
	assert.Nil(t, list[1].CategoryName)

	found, err := repo.FindByID(ctx, 1, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "ana@x.com", found.Email)

	found, err = repo.FindByID(ctx, 1, other.ID)
	require.NoError(t, err)
	assert.Nil(t, found, "contacts of another owner are invisible")

	empty, err := repo.List(ctx, model.GlobalOwner)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestContacts_Uniqueness(t *testing.T) {
	s := New()
	ctx := context.Background()
	repo := s.Contacts()

	require.NoError(t, repo.Create(ctx, &model.Contact{Name: "Ana", Email: "ana@x.com", Phone: "11987654321", UserID: 1}))

	err := repo.Create(ctx, &model.Contact{Name: "Ana 2", Email: "ana@x.com", Phone: "11900000000", UserID: 1})
	assert.True(t, apperr.Is(err, apperr.KindConflict))

	err = repo.Create(ctx, &model.Contact{Name: "Ana 3", Email: "ana3@x.com", Phone: "11987654321", UserID: 1})
	require.Error(t, err)
	assert.Equal(t, apperr.MsgContactPhoneTaken, err.Error())

	// same values under another owner are fine
	require.NoError(t, repo.Create(ctx, &model.Contact{Name: "Ana", Email: "ana@x.com", Phone: "11987654321", UserID: 2}))

	taken, err := repo.EmailTaken(ctx, 1, "ana@x.com", 0)
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = repo.EmailTaken(ctx, 1, "ana@x.com", 1)
	require.NoError(t, err)
	assert.False(t, taken, "the contact itself is excluded")

	taken, err = repo.PhoneTaken(ctx, 3, "11987654321", 0)
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestContacts_UnknownCategory(t *testing.T) {
	err := New().Contacts().Create(context.Background(),
		&model.Contact{Name: "Ana", Email: "ana@x.com", Phone: "11987654321", CategoryID: ptr(int64(99))})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestContacts_UpdateDelete(t *testing.T) {
	s := New()
	ctx := context.Background()
	repo := s.Contacts()

	c := &model.Contact{Name: "Ana", Email: "ana@x.com", Phone: "11987654321", PhotoPath: ptr("/uploads/contacts/a.png"), UserID: 1}
	require.NoError(t, repo.Create(ctx, c))

	upd := &model.Contact{ID: c.ID, Name: "Ana Maria", Email: "ana@x.com", Phone: "11987654321", IsFavorite: true, UserID: 1}
	require.NoError(t, repo.Update(ctx, upd, false))

	got, _ := repo.FindByID(ctx, 1, c.ID)
	assert.Equal(t, "Ana Maria", got.Name)
	assert.True(t, got.IsFavorite)
	assert.Equal(t, "/uploads/contacts/a.png", *got.PhotoPath, "photo kept when not replaced")

	upd.PhotoPath = ptr("/uploads/contacts/b.png")
	require.NoError(t, repo.Update(ctx, upd, true))
	got, _ = repo.FindByID(ctx, 1, c.ID)
	assert.Equal(t, "/uploads/contacts/b.png", *got.PhotoPath)

	err := repo.Update(ctx, &model.Contact{ID: c.ID, Name: "X", UserID: 2}, false)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	photo, deleted, err := repo.Delete(ctx, 1, c.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Equal(t, "/uploads/contacts/b.png", *photo)

	_, deleted, err = repo.Delete(ctx, 1, c.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestContacts_CountByCategory(t *testing.T) {
	s := New()
	ctx := context.Background()
	repo := s.Contacts()

	require.NoError(t, repo.Create(ctx, &model.Contact{Name: "Ana", Email: "a@x.com", Phone: "1100000001", CategoryID: ptr(int64(2)), UserID: 1}))
	require.NoError(t, repo.Create(ctx, &model.Contact{Name: "Bia", Email: "b@x.com", Phone: "1100000002", CategoryID: ptr(int64(2)), UserID: 1}))
	require.NoError(t, repo.Create(ctx, &model.Contact{Name: "Caio", Email: "c@x.com", Phone: "1100000003", UserID: 1}))
	require.NoError(t, repo.Create(ctx, &model.Contact{Name: "Davi", Email: "d@x.com", Phone: "1100000004", UserID: 2}))

	stats, err := repo.CountByCategory(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []model.CategoryStat{
		{Category: "Trabalho", Total: 2},
		{Category: model.UncategorizedLabel, Total: 1},
	}, stats)
}

func TestContacts_ConcurrentCreate(t *testing.T) {
	s := New()
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 20)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = s.Contacts().Create(ctx, &model.Contact{Name: "Ana", Email: "ana@x.com", Phone: "11987654321", UserID: 1})
		}(i)
	}
	wg.Wait()

	created := 0
	for _, err := range errs {
		if err == nil {
			created++
		}
	}
	assert.Equal(t, 1, created)
}
