package service

import (
	"context"
	"fmt"

	"agenda/internal/apperr"
	"agenda/internal/model"
	"agenda/internal/repository"
	"agenda/internal/storage"

	"go.uber.org/zap"
)

// ContactService defines operations on an owner's address book. ownerID is
// model.GlobalOwner when contacts are not scoped to users.
type ContactService interface {
	List(ctx context.Context, ownerID int64) ([]model.Contact, error)
	Get(ctx context.Context, ownerID, id int64) (*model.Contact, error)
	Create(ctx context.Context, ownerID int64, in model.ContactInput, photo *storage.Upload) (*model.Contact, error)
	Update(ctx context.Context, ownerID, id int64, in model.ContactInput, photo *storage.Upload) (*model.Contact, error)
	Delete(ctx context.Context, ownerID, id int64) error
	Stats(ctx context.Context, ownerID int64) ([]model.CategoryStat, error)
}

type contactService struct {
	repo   repository.ContactRepository
	photos storage.PhotoStore
	log    *zap.Logger
}

// NewContactService creates a new ContactService
func NewContactService(repo repository.ContactRepository, photos storage.PhotoStore, log *zap.Logger) ContactService {
	return &contactService{repo: repo, photos: photos, log: log}
}

func (s *contactService) List(ctx context.Context, ownerID int64) ([]model.Contact, error) {
	contacts, err := s.repo.List(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts from repo: %w", err)
	}
	return contacts, nil
}

func (s *contactService) Get(ctx context.Context, ownerID, id int64) (*model.Contact, error) {
	contact, err := s.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find contact by ID: %w", err)
	}
	if contact == nil {
		return nil, apperr.NotFound(apperr.MsgContactNotFound)
	}
	return contact, nil
}

// checkUnique reports the first duplicate, email before phone.
func (s *contactService) checkUnique(ctx context.Context, ownerID int64, in model.ContactInput, excludeID int64) error {
	taken, err := s.repo.EmailTaken(ctx, ownerID, in.Email, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return apperr.Conflict("email", apperr.MsgContactEmailTaken)
	}
	taken, err = s.repo.PhoneTaken(ctx, ownerID, in.Phone, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return apperr.Conflict("phone", apperr.MsgContactPhoneTaken)
	}
	return nil
}

func (s *contactService) savePhoto(ctx context.Context, photo *storage.Upload) (*string, error) {
	if photo == nil {
		return nil, nil
	}
	ref, err := s.photos.Save(ctx, storage.PrefixContacts, *photo)
	if err != nil {
		return nil, err
	}
	return &ref, nil
}

func (s *contactService) Create(ctx context.Context, ownerID int64, in model.ContactInput, photo *storage.Upload) (*model.Contact, error) {
	if err := s.checkUnique(ctx, ownerID, in, 0); err != nil {
		return nil, err
	}
	photoPath, err := s.savePhoto(ctx, photo)
	if err != nil {
		return nil, err
	}

	contact := &model.Contact{
		Name:       in.Name,
		Email:      in.Email,
		Phone:      in.Phone,
		IsFavorite: in.IsFavorite,
		CategoryID: in.CategoryID,
		PhotoPath:  photoPath,
		UserID:     ownerID,
	}
	if err := s.repo.Create(ctx, contact); err != nil {
		discardPhoto(ctx, s.photos, s.log, photoPath)
		return nil, fmt.Errorf("failed to create contact in repo: %w", err)
	}
	return contact, nil
}

func (s *contactService) Update(ctx context.Context, ownerID, id int64, in model.ContactInput, photo *storage.Upload) (*model.Contact, error) {
	existing, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkUnique(ctx, ownerID, in, id); err != nil {
		return nil, err
	}
	photoPath, err := s.savePhoto(ctx, photo)
	if err != nil {
		return nil, err
	}

	oldPhoto := existing.PhotoPath
	existing.Name = in.Name
	existing.Email = in.Email
	existing.Phone = in.Phone
	existing.IsFavorite = in.IsFavorite
	existing.CategoryID = in.CategoryID
	existing.CategoryName = nil
	if photoPath != nil {
		existing.PhotoPath = photoPath
	}

	if err := s.repo.Update(ctx, existing, photoPath != nil); err != nil {
		discardPhoto(ctx, s.photos, s.log, photoPath)
		return nil, fmt.Errorf("failed to update contact in repo: %w", err)
	}
	if photoPath != nil {
		discardPhoto(ctx, s.photos, s.log, oldPhoto)
	}
	return existing, nil
}

// Delete is idempotent: deleting a missing contact succeeds.
func (s *contactService) Delete(ctx context.Context, ownerID, id int64) error {
	photo, deleted, err := s.repo.Delete(ctx, ownerID, id)
	if err != nil {
		return fmt.Errorf("failed to delete contact in repo: %w", err)
	}
	if deleted {
		discardPhoto(ctx, s.photos, s.log, photo)
	}
	return nil
}

func (s *contactService) Stats(ctx context.Context, ownerID int64) ([]model.CategoryStat, error) {
	stats, err := s.repo.CountByCategory(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get contact stats from repo: %w", err)
	}
	return stats, nil
}
