// AngelaMos | 2026
// repository.go

package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/zyclope0/mathakine-sub004/internal/authz"
	"github.com/zyclope0/mathakine-sub004/internal/core"
)

type Repository interface {
	Create(ctx context.Context, account *Account) error
	GetByID(ctx context.Context, id string) (*Account, error)
	GetByUsername(ctx context.Context, username string) (*Account, error)
	GetByResetTokenHash(
		ctx context.Context,
		tokenHash string,
	) (*Account, error)
	UpdateEmail(ctx context.Context, id, email string) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateRole(ctx context.Context, id string, role authz.Role) error
	MarkEmailVerified(ctx context.Context, id string) error
	SetResetToken(
		ctx context.Context,
		id, tokenHash string,
		expiresAt time.Time,
	) error
	ClearResetToken(ctx context.Context, id string) error
	List(ctx context.Context, params ListAccountsParams) ([]Account, int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const accountColumns = `
	id, username, email, password_hash, role, is_email_verified,
	reset_token_hash, reset_token_expires_at, created_at, updated_at`

func (r *repository) Create(ctx context.Context, account *Account) error {
	query := `
		INSERT INTO accounts (id, username, email, password_hash, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, account, query,
		account.ID,
		account.Username,
		account.Email,
		account.PasswordHash,
		account.Role,
	)
	if err != nil {
		if field, ok := duplicateField(err); ok {
			return fmt.Errorf("create account: %s: %w", field, core.ErrDuplicateKey)
		}
		return fmt.Errorf("create account: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Account, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM accounts WHERE id = $1`,
		accountColumns,
	)

	var account Account
	err := r.db.GetContext(ctx, &account, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get account: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}

	return &account, nil
}

func (r *repository) GetByUsername(
	ctx context.Context,
	username string,
) (*Account, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM accounts WHERE username = $1`,
		accountColumns,
	)

	var account Account
	err := r.db.GetContext(ctx, &account, query, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get account by username: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get account by username: %w", err)
	}

	return &account, nil
}

func (r *repository) GetByResetTokenHash(
	ctx context.Context,
	tokenHash string,
) (*Account, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM accounts WHERE reset_token_hash = $1`,
		accountColumns,
	)

	var account Account
	err := r.db.GetContext(ctx, &account, query, tokenHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get account by reset token: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get account by reset token: %w", err)
	}

	return &account, nil
}

func (r *repository) UpdateEmail(ctx context.Context, id, email string) error {
	// An email change always drops verification until reconfirmed.
	query := `
		UPDATE accounts
		SET email = $2, is_email_verified = false, updated_at = NOW()
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, email)
	if err != nil {
		if field, ok := duplicateField(err); ok {
			return fmt.Errorf("update email: %s: %w", field, core.ErrDuplicateKey)
		}
		return fmt.Errorf("update email: %w", err)
	}

	return checkAffected(result, "update email")
}

func (r *repository) UpdatePassword(
	ctx context.Context,
	id, passwordHash string,
) error {
	query := `
		UPDATE accounts
		SET password_hash = $2, updated_at = NOW()
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, passwordHash)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	return checkAffected(result, "update password")
}

func (r *repository) UpdateRole(
	ctx context.Context,
	id string,
	role authz.Role,
) error {
	query := `
		UPDATE accounts
		SET role = $2, updated_at = NOW()
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, role)
	if err != nil {
		return fmt.Errorf("update role: %w", err)
	}

	return checkAffected(result, "update role")
}

func (r *repository) MarkEmailVerified(ctx context.Context, id string) error {
	query := `
		UPDATE accounts
		SET is_email_verified = true, updated_at = NOW()
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("mark email verified: %w", err)
	}

	return checkAffected(result, "mark email verified")
}

func (r *repository) SetResetToken(
	ctx context.Context,
	id, tokenHash string,
	expiresAt time.Time,
) error {
	query := `
		UPDATE accounts
		SET reset_token_hash = $2, reset_token_expires_at = $3,
		    updated_at = NOW()
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, tokenHash, expiresAt)
	if err != nil {
		return fmt.Errorf("set reset token: %w", err)
	}

	return checkAffected(result, "set reset token")
}

func (r *repository) ClearResetToken(ctx context.Context, id string) error {
	query := `
		UPDATE accounts
		SET reset_token_hash = NULL, reset_token_expires_at = NULL,
		    updated_at = NOW()
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("clear reset token: %w", err)
	}

	return checkAffected(result, "clear reset token")
}

func (r *repository) List(
	ctx context.Context,
	params ListAccountsParams,
) ([]Account, int, error) {
	params.Normalize()

	var conditions []string
	var args []any
	argIdx := 1

	conditions = append(conditions, "true")

	if params.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(username ILIKE $%d OR email ILIKE $%d)", argIdx, argIdx))
		args = append(args, "%"+escapeLike(params.Search)+"%")
		argIdx++
	}

	if params.Role != "" {
		conditions = append(conditions, fmt.Sprintf("role = $%d", argIdx))
		args = append(args, params.Role)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf(
		"SELECT COUNT(*) FROM accounts WHERE %s",
		whereClause,
	)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count accounts: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM accounts
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		accountColumns, whereClause, argIdx, argIdx+1)

	args = append(args, params.PageSize, params.Offset())

	var accounts []Account
	if err := r.db.SelectContext(ctx, &accounts, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list accounts: %w", err)
	}

	return accounts, total, nil
}

func checkAffected(result sql.Result, op string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if rows == 0 {
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}

	return nil
}

// duplicateField maps a unique-violation back to the conflicting column
// so the caller can say which field is taken.
func duplicateField(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return "", false
	}

	switch {
	case strings.Contains(pgErr.ConstraintName, "username"):
		return "username", true
	case strings.Contains(pgErr.ConstraintName, "email"):
		return "email", true
	default:
		return "account", true
	}
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "%", "\\%")
	s = strings.ReplaceAll(s, "_", "\\_")
	return s
}
