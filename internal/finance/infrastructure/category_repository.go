package infrastructure

import (
	"database/sql"
	"errors"
	"log"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/finanzasimple/api/internal/finance/domain"
	financeErrors "github.com/finanzasimple/api/internal/finance/errors"
)

const pgUniqueViolation = "23505"

// isUniqueViolation reports whether err is a Postgres unique constraint
// rejection. The constraint is the source of truth for duplicate names; the
// service-level pre-check only exists for a friendlier fast path.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

type CategoryRepository struct {
	db *sql.DB
}

func NewCategoryRepository(db *sql.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

const categoryColumns = "id, user_id, name, kind, role, is_default, sort_order, is_visible, created_at, updated_at"

func scanCategory(row interface{ Scan(...interface{}) error }) (*domain.Category, error) {
	var c domain.Category
	err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Kind, &c.Role, &c.IsDefault,
		&c.SortOrder, &c.IsVisible, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CategoryRepository) Save(category domain.Category) error {
	_, err := r.db.Exec(
		`INSERT INTO categories (id, user_id, name, kind, role, is_default, sort_order, is_visible, created_at, updated_at)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())`,
		category.ID, category.UserID, category.Name, category.Kind, category.Role,
		category.IsDefault, category.SortOrder, category.IsVisible,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return financeErrors.ErrDuplicateCategoryName
		}
		return financeErrors.NewStorageError("category insert", err)
	}
	return nil
}

// SaveBatch inserts the categories inside one SQL transaction so a failing
// row rolls back the whole batch.
func (r *CategoryRepository) SaveBatch(categories []domain.Category) error {
	tx, err := r.db.Begin()
	if err != nil {
		return financeErrors.NewStorageError("category batch insert", err)
	}

	for _, category := range categories {
		_, err := tx.Exec(
			`INSERT INTO categories (id, user_id, name, kind, role, is_default, sort_order, is_visible, created_at, updated_at)
             VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())`,
			category.ID, category.UserID, category.Name, category.Kind, category.Role,
			category.IsDefault, category.SortOrder, category.IsVisible,
		)
		if err != nil {
			safeRollback(tx)
			if isUniqueViolation(err) {
				return financeErrors.ErrDuplicateCategoryName
			}
			return financeErrors.NewStorageError("category batch insert", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return financeErrors.NewStorageError("category batch insert", err)
	}
	return nil
}

func safeRollback(tx *sql.Tx) {
	if err := tx.Rollback(); err != nil {
		log.Printf("Error during transaction rollback: %v", err)
	}
}

func (r *CategoryRepository) FindByID(categoryID string) (*domain.Category, error) {
	row := r.db.QueryRow(
		"SELECT "+categoryColumns+" FROM categories WHERE id = $1", categoryID)
	category, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, financeErrors.ErrCategoryNotFound
		}
		return nil, financeErrors.NewStorageError("category lookup", err)
	}
	return category, nil
}

func (r *CategoryRepository) FindByUser(userID string) ([]domain.Category, error) {
	rows, err := r.db.Query(
		"SELECT "+categoryColumns+` FROM categories
         WHERE user_id = $1 ORDER BY sort_order ASC, created_at DESC`, userID)
	if err != nil {
		return nil, financeErrors.NewStorageError("category list", err)
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, financeErrors.NewStorageError("category list", err)
		}
		categories = append(categories, *category)
	}
	return categories, rows.Err()
}

func (r *CategoryRepository) FindByUserAndName(userID, name string) (*domain.Category, error) {
	row := r.db.QueryRow(
		"SELECT "+categoryColumns+" FROM categories WHERE user_id = $1 AND lower(name) = lower($2)",
		userID, name)
	category, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, financeErrors.ErrCategoryNotFound
		}
		return nil, financeErrors.NewStorageError("category lookup", err)
	}
	return category, nil
}

func (r *CategoryRepository) FindFallback(userID, kind string) (*domain.Category, error) {
	row := r.db.QueryRow(
		"SELECT "+categoryColumns+" FROM categories WHERE user_id = $1 AND kind = $2 AND role = $3",
		userID, kind, domain.RoleFallback)
	category, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, financeErrors.ErrCategoryNotFound
		}
		return nil, financeErrors.NewStorageError("fallback lookup", err)
	}
	return category, nil
}

func (r *CategoryRepository) Update(category domain.Category) error {
	_, err := r.db.Exec(
		`UPDATE categories
         SET name = $2, kind = $3, sort_order = $4, is_visible = $5, updated_at = NOW()
         WHERE id = $1`,
		category.ID, category.Name, category.Kind, category.SortOrder, category.IsVisible,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return financeErrors.ErrDuplicateCategoryName
		}
		return financeErrors.NewStorageError("category update", err)
	}
	return nil
}

func (r *CategoryRepository) Delete(categoryID string) error {
	_, err := r.db.Exec("DELETE FROM categories WHERE id = $1", categoryID)
	if err != nil {
		return financeErrors.NewStorageError("category delete", err)
	}
	return nil
}
