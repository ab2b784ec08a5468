package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ndanilenko/claimgate/internal/common"
	"github.com/ndanilenko/claimgate/internal/dbx"
	"github.com/ndanilenko/claimgate/internal/server/models"
	"github.com/ndanilenko/claimgate/internal/server/roles"
)

// uniqueViolation is the SQLSTATE code the unique index on external_id
// produces when two bootstrap attempts race.
const uniqueViolation = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByExternalID(ctx context.Context, externalID string) (*models.UserAccount, error) {

	query :=
		`SELECT id, external_id, email, display_name, disabled, deleted_at, created_at FROM users
		 WHERE external_id = $1
		 `

	a := &models.UserAccount{}
	err := r.db.QueryRowContext(ctx, query, externalID).
		Scan(&a.ID, &a.ExternalID, &a.Email, &a.DisplayName, &a.Disabled, &a.DeletedAt, &a.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if a.Roles, err = r.loadRoles(ctx, a.ID); err != nil {
		return nil, err
	}

	return a, nil
}

// loadRoles returns the account's role assignments in stored order.
func (r *PostgresRepository) loadRoles(ctx context.Context, accountID string) ([]roles.Role, error) {

	query :=
		`SELECT role FROM user_roles
		 WHERE user_id = $1
		 ORDER BY position
		 `

	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var assigned []roles.Role
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		role, err := roles.Parse(name)
		if err != nil {
			return nil, err
		}
		assigned = append(assigned, role)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return assigned, nil
}

func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {

	query := `SELECT COUNT(*) FROM users`

	var n int64
	if err := r.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return n, nil
}

func (r *PostgresRepository) Create(ctx context.Context, account *models.UserAccount) (*models.UserAccount, error) {

	query :=
		`INSERT INTO users (id, external_id, email, display_name, disabled)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		account.ID, account.ExternalID, account.Email, account.DisplayName, account.Disabled).
		Scan(&account.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	for i, role := range account.Roles {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO user_roles (user_id, role, position) VALUES ($1, $2, $3)`,
			account.ID, role.String(), i)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
	}

	return account, nil
}
