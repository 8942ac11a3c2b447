package repository

import (
	"context"
	"errors"
	"fmt"

	"agenda/internal/apperr"
	"agenda/internal/model"

	"github.com/jackc/pgx/v5"
)

// ContactRepository defines operations for contact data. Every method is
// scoped to an owner; model.GlobalOwner addresses rows without one.
type ContactRepository interface {
	List(ctx context.Context, ownerID int64) ([]model.Contact, error)
	FindByID(ctx context.Context, ownerID, id int64) (*model.Contact, error)
	EmailTaken(ctx context.Context, ownerID int64, email string, excludeID int64) (bool, error)
	PhoneTaken(ctx context.Context, ownerID int64, phone string, excludeID int64) (bool, error)
	Create(ctx context.Context, contact *model.Contact) error
	Update(ctx context.Context, contact *model.Contact, replacePhoto bool) error
	Delete(ctx context.Context, ownerID, id int64) (photoPath *string, deleted bool, err error)
	CountByCategory(ctx context.Context, ownerID int64) ([]model.CategoryStat, error)
}

type contactRepository struct {
	db PgxPool
}

// NewContactRepository creates a new ContactRepository
func NewContactRepository(db PgxPool) ContactRepository {
	return &contactRepository{db: db}
}

const contactColumns = `c.id, c.name, c.email, c.phone, c.is_favorite, c.category_id, cat.name,
            c.photo_path, COALESCE(c.user_id, 0), c.created_at, c.updated_at
            FROM contacts c LEFT JOIN categories cat ON cat.id = c.category_id`

func scanContact(row pgx.Row, c *model.Contact) error {
	return row.Scan(
		&c.ID, &c.Name, &c.Email, &c.Phone, &c.IsFavorite, &c.CategoryID, &c.CategoryName,
		&c.PhotoPath, &c.UserID, &c.CreatedAt, &c.UpdatedAt,
	)
}

// contactWriteError maps constraint violations to client errors.
func contactWriteError(op string, err error) error {
	if pg, ok := pgError(err, pgUniqueViolation); ok {
		switch pg.ConstraintName {
		case "contacts_owner_phone_key":
			return apperr.Conflict("phone", apperr.MsgContactPhoneTaken)
		default:
			return apperr.Conflict("email", apperr.MsgContactEmailTaken)
		}
	}
	if _, ok := pgError(err, pgForeignKeyViolation); ok {
		return apperr.Validation("category_id", apperr.MsgInvalidCategory)
	}
	return fmt.Errorf("failed to %s contact: %w", op, err)
}

// List returns the owner's contacts ordered by id. Never nil.
func (r *contactRepository) List(ctx context.Context, ownerID int64) ([]model.Contact, error) {
	sql := `SELECT ` + contactColumns + ` WHERE COALESCE(c.user_id, 0) = $1 ORDER BY c.id`
	rows, err := r.db.Query(ctx, sql, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query contacts: %w", err)
	}
	defer rows.Close()

	contacts := []model.Contact{}
	for rows.Next() {
		var c model.Contact
		if err := scanContact(rows, &c); err != nil {
			return nil, fmt.Errorf("failed to scan contact row: %w", err)
		}
		contacts = append(contacts, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contact rows: %w", err)
	}
	return contacts, nil
}

// FindByID retrieves one of the owner's contacts. Missing yields nil, nil.
func (r *contactRepository) FindByID(ctx context.Context, ownerID, id int64) (*model.Contact, error) {
	c := &model.Contact{}
	sql := `SELECT ` + contactColumns + ` WHERE c.id = $1 AND COALESCE(c.user_id, 0) = $2`
	if err := scanContact(r.db.QueryRow(ctx, sql, id, ownerID), c); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find contact by ID: %w", err)
	}
	return c, nil
}

func (r *contactRepository) EmailTaken(ctx context.Context, ownerID int64, email string, excludeID int64) (bool, error) {
	return r.taken(ctx, "email", ownerID, email, excludeID)
}

func (r *contactRepository) PhoneTaken(ctx context.Context, ownerID int64, phone string, excludeID int64) (bool, error) {
	return r.taken(ctx, "phone", ownerID, phone, excludeID)
}

// column is one of the two constant names above, never user input.
func (r *contactRepository) taken(ctx context.Context, column string, ownerID int64, value string, excludeID int64) (bool, error) {
	sql := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM contacts
            WHERE COALESCE(user_id, 0) = $1 AND %s = $2 AND id <> $3)`, column)
	var exists bool
	if err := r.db.QueryRow(ctx, sql, ownerID, value, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check contact %s: %w", column, err)
	}
	return exists, nil
}

// Create inserts a new contact into the database
func (r *contactRepository) Create(ctx context.Context, c *model.Contact) error {
	sql := `INSERT INTO contacts (name, email, phone, is_favorite, category_id, photo_path, user_id)
            VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7::bigint, 0)) RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(ctx, sql, c.Name, c.Email, c.Phone, c.IsFavorite, c.CategoryID, c.PhotoPath, c.UserID).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return contactWriteError("create", err)
	}
	return nil
}

// Update replaces the editable fields. photo_path is only written when
// replacePhoto is set.
func (r *contactRepository) Update(ctx context.Context, c *model.Contact, replacePhoto bool) error {
	sql := `UPDATE contacts
            SET name = $1, email = $2, phone = $3, is_favorite = $4, category_id = $5,
                photo_path = CASE WHEN $6::boolean THEN $7::text ELSE photo_path END,
                updated_at = NOW()
            WHERE id = $8 AND COALESCE(user_id, 0) = $9 RETURNING updated_at`
	err := r.db.QueryRow(ctx, sql, c.Name, c.Email, c.Phone, c.IsFavorite, c.CategoryID,
		replacePhoto, c.PhotoPath, c.ID, c.UserID).Scan(&c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.NotFound(apperr.MsgContactNotFound)
		}
		return contactWriteError("update", err)
	}
	return nil
}

// Delete removes a contact and returns its photo reference. Deleting a
// missing contact is not an error.
func (r *contactRepository) Delete(ctx context.Context, ownerID, id int64) (*string, bool, error) {
	sql := `DELETE FROM contacts WHERE id = $1 AND COALESCE(user_id, 0) = $2 RETURNING photo_path`
	var photo *string
	if err := r.db.QueryRow(ctx, sql, id, ownerID).Scan(&photo); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to delete contact: %w", err)
	}
	return photo, true, nil
}

// CountByCategory groups the owner's contacts by category name, largest first.
func (r *contactRepository) CountByCategory(ctx context.Context, ownerID int64) ([]model.CategoryStat, error) {
	sql := `SELECT COALESCE(cat.name, $2) AS category, COUNT(*) AS total
            FROM contacts c LEFT JOIN categories cat ON cat.id = c.category_id
            WHERE COALESCE(c.user_id, 0) = $1
            GROUP BY 1 ORDER BY total DESC, category`
	rows, err := r.db.Query(ctx, sql, ownerID, model.UncategorizedLabel)
	if err != nil {
		return nil, fmt.Errorf("failed to get contacts by category: %w", err)
	}
	defer rows.Close()

	stats := []model.CategoryStat{}
	for rows.Next() {
		var s model.CategoryStat
		if err := rows.Scan(&s.Category, &s.Total); err != nil {
			return nil, fmt.Errorf("failed to scan category stat: %w", err)
		}
		stats = append(stats, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category stats: %w", err)
	}
	return stats, nil
}
