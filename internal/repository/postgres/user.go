package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dtroode/accounts-server/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

const pgUniqueViolation = "23505"

// UserRepository persists users. Create and UpdateFields run their
// duplicate checks and writes inside one transaction; the unique
// constraints on username and email are the final backstop for writers
// racing past the check.
type UserRepository struct {
	db *Connection
}

func NewUserRepository(db *Connection) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

const userColumns = `id, username, email, permissions, status, created_at, updated_at`

func (r *UserRepository) GetByID(ctx context.Context, id int64) (model.User, error) {
	var user model.User
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&user.ID, &user.Username, &user.Email, &user.Permissions,
		&user.Status, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

// GetByColumn looks a user up by one allow-listed column and includes
// the password hash, for callers that need to verify credentials.
func (r *UserRepository) GetByColumn(ctx context.Context, column model.Column, value string) (model.User, error) {
	var arg any = value
	if column == model.ColumnID {
		id, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return model.User{}, model.ErrNotFound
		}
		arg = id
	}

	var user model.User
	query := `SELECT id, username, email, password, permissions, status, created_at, updated_at
			  FROM users WHERE ` + string(column) + ` = $1`

	err := r.db.QueryRow(ctx, query, arg).Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.Permissions, &user.Status, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by %s: %w", column, err)
	}

	return user, nil
}

// Search returns one page of users matching an ILIKE filter on the
// query column, plus the unpaged total. Results carry neither password
// hash nor permissions.
func (r *UserRepository) Search(ctx context.Context, query model.SearchQuery) (model.SearchResult, error) {
	filter := "%" + query.Value + "%"
	offset := query.Limit * (query.Page - 1)

	var total int64
	countQuery := `SELECT COUNT(*) FROM users WHERE ` + string(query.Column) + `::text ILIKE $1`
	if err := r.db.QueryRow(ctx, countQuery, filter).Scan(&total); err != nil {
		return model.SearchResult{}, fmt.Errorf("failed to count users: %w", err)
	}

	dataQuery := `SELECT id, username, email, status, created_at, updated_at
				  FROM users WHERE ` + string(query.Column) + `::text ILIKE $1
				  ORDER BY id LIMIT $2 OFFSET $3`

	rows, err := r.db.Query(ctx, dataQuery, filter, query.Limit, offset)
	if err != nil {
		return model.SearchResult{}, fmt.Errorf("failed to search users: %w", err)
	}
	defer rows.Close()

	results := make([]model.User, 0, query.Limit)
	for rows.Next() {
		var user model.User
		if err := rows.Scan(
			&user.ID, &user.Username, &user.Email,
			&user.Status, &user.CreatedAt, &user.UpdatedAt,
		); err != nil {
			return model.SearchResult{}, fmt.Errorf("failed to scan user row: %w", err)
		}
		results = append(results, user)
	}
	if err := rows.Err(); err != nil {
		return model.SearchResult{}, fmt.Errorf("failed to read user rows: %w", err)
	}

	return model.SearchResult{Results: results, Total: total}, nil
}

// Create inserts a new active user after checking, in the same
// transaction, that neither username nor email is taken.
func (r *UserRepository) Create(ctx context.Context, username, email, passwordHash string, permissions int64) (model.User, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	taken, err := r.existsByUsernameOrEmail(ctx, tx, username, email)
	if err != nil {
		return model.User{}, err
	}
	if taken {
		return model.User{}, model.ErrConflict
	}

	var user model.User
	query := `INSERT INTO users (username, email, password, permissions, status)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING ` + userColumns

	err = tx.QueryRow(ctx, query, username, email, passwordHash, permissions, model.StatusActive).Scan(
		&user.ID, &user.Username, &user.Email, &user.Permissions,
		&user.Status, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return model.User{}, model.ErrConflict
		}
		return model.User{}, fmt.Errorf("failed to insert user: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return model.User{}, fmt.Errorf("failed to commit user insert: %w", err)
	}

	return user, nil
}

// UpdateFields applies the supplied fields as one parameterized UPDATE.
// For username and email it first checks, inside the same transaction,
// that no other row already holds the value.
func (r *UserRepository) UpdateFields(ctx context.Context, id int64, fields model.UserUpdate) (model.User, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := r.ensureExists(ctx, tx, id); err != nil {
		return model.User{}, err
	}

	if fields.Username != nil {
		if err := r.checkDuplicate(ctx, tx, model.ColumnUsername, *fields.Username, id); err != nil {
			return model.User{}, err
		}
	}
	if fields.Email != nil {
		if err := r.checkDuplicate(ctx, tx, model.ColumnEmail, *fields.Email, id); err != nil {
			return model.User{}, err
		}
	}

	setClauses := make([]string, 0, 4)
	args := make([]any, 0, 4)

	if fields.Username != nil {
		args = append(args, *fields.Username)
		setClauses = append(setClauses, fmt.Sprintf("username = $%d", len(args)))
	}
	if fields.Email != nil {
		args = append(args, *fields.Email)
		setClauses = append(setClauses, fmt.Sprintf("email = $%d", len(args)))
	}
	if fields.Permissions != nil {
		args = append(args, *fields.Permissions)
		setClauses = append(setClauses, fmt.Sprintf("permissions = $%d", len(args)))
	}
	if len(setClauses) == 0 {
		return model.User{}, fmt.Errorf("no fields to update")
	}
	setClauses = append(setClauses, "updated_at = now()")

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE users SET %s WHERE id = $%d RETURNING `+userColumns,
		strings.Join(setClauses, ", "), len(args))

	var user model.User
	err = tx.QueryRow(ctx, query, args...).Scan(
		&user.ID, &user.Username, &user.Email, &user.Permissions,
		&user.Status, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		if isUniqueViolation(err) {
			return model.User{}, model.ErrConflict
		}
		return model.User{}, fmt.Errorf("failed to update user: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return model.User{}, fmt.Errorf("failed to commit user update: %w", err)
	}

	return user, nil
}

// UpdateStatus sets the status column. There is no uniqueness concern,
// so this is a single statement; zero affected rows means the user does
// not exist.
func (r *UserRepository) UpdateStatus(ctx context.Context, id int64, status int32) error {
	tag, err := r.db.Exec(ctx, `UPDATE users SET status = $1, updated_at = now() WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update user status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	return nil
}

// UpdatePassword replaces the stored hash wholesale.
func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	tag, err := r.db.Exec(ctx, `UPDATE users SET password = $1, updated_at = now() WHERE id = $2`, passwordHash, id)
	if err != nil {
		return fmt.Errorf("failed to update user password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	return nil
}

func (r *UserRepository) existsByUsernameOrEmail(ctx context.Context, tx pgx.Tx, username, email string) (bool, error) {
	var one int
	err := tx.QueryRow(ctx,
		`SELECT 1 FROM users WHERE username = $1 OR email = $2 LIMIT 1`,
		username, email,
	).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return true, nil
}

func (r *UserRepository) ensureExists(ctx context.Context, tx pgx.Tx, id int64) error {
	var one int
	err := tx.QueryRow(ctx, `SELECT 1 FROM users WHERE id = $1`, id).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to check user existence: %w", err)
	}
	return nil
}

// checkDuplicate fails with a model.ConflictError when a different row
// already holds value in column.
func (r *UserRepository) checkDuplicate(ctx context.Context, tx pgx.Tx, column model.Column, value string, excludeID int64) error {
	var one int
	query := `SELECT 1 FROM users WHERE ` + string(column) + ` = $1 AND id != $2`
	err := tx.QueryRow(ctx, query, value, excludeID).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to check duplicate %s: %w", column, err)
	}
	return &model.ConflictError{Column: column}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
