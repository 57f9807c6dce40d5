package pgrepo

import (
	"context"

	"github.com/fsdevblog/groph-rewards/internal/domain"
	"github.com/fsdevblog/groph-rewards/internal/repository/repoargs"
	"github.com/fsdevblog/groph-rewards/pkg/uow"
	"github.com/shopspring/decimal"
)

const grantColumns = `id, created_at, updated_at, user_id, amount, source, status, fraud_score,
	bucket_immediate, bucket_after_1d, bucket_after_7d, bucket_after_30d, is_vested`

type GrantRepository struct {
	db uow.DBTX
}

func NewGrantRepository(db uow.DBTX) *GrantRepository {
	return &GrantRepository{db: db}
}

func (g *GrantRepository) Create(ctx context.Context, args repoargs.GrantCreate) (*domain.CreditGrant, error) {
	row := g.db.QueryRow(ctx, `
		INSERT INTO credit_grants (
			user_id, amount, source, status, fraud_score,
			bucket_immediate, bucket_after_1d, bucket_after_7d, bucket_after_30d
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+grantColumns,
		args.UserID, args.Amount, args.Source, args.Status, args.FraudScore,
		args.Schedule.Immediate, args.Schedule.AfterDay, args.Schedule.AfterWeek, args.Schedule.AfterMonth,
	)
	grant, err := scanGrant(row)
	if err != nil {
		return nil, convertErr(err, "creating grant for user %d", args.UserID)
	}
	return grant, nil
}

func (g *GrantRepository) GetByID(ctx context.Context, id int64) (*domain.CreditGrant, error) {
	row := g.db.QueryRow(ctx, `SELECT `+grantColumns+` FROM credit_grants WHERE id = $1`, id)
	grant, err := scanGrant(row)
	if err != nil {
		return nil, convertErr(err, "getting grant by id %d", id)
	}
	if progressErr := g.loadProgress(ctx, grant); progressErr != nil {
		return nil, progressErr
	}
	return grant, nil
}

// GetUnvestedByUserID возвращает активные гранты юзера с несозревшими
// траншами. Используется для pull-based вестинга при чтении баланса.
func (g *GrantRepository) GetUnvestedByUserID(ctx context.Context, userID int64) ([]domain.CreditGrant, error) {
	rows, err := g.db.Query(ctx, `
		SELECT `+grantColumns+`
		FROM credit_grants
		WHERE user_id = $1 AND status = 'active' AND NOT is_vested
		ORDER BY created_at`,
		userID,
	)
	if err != nil {
		return nil, convertErr(err, "getting unvested grants for user %d", userID)
	}
	defer rows.Close()

	var grants []domain.CreditGrant
	for rows.Next() {
		grant, scanErr := scanGrant(rows)
		if scanErr != nil {
			return nil, convertErr(scanErr, "scanning grant for user %d", userID)
		}
		grants = append(grants, *grant)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, convertErr(rowsErr, "getting unvested grants for user %d", userID)
	}

	for i := range grants {
		if progressErr := g.loadProgress(ctx, &grants[i]); progressErr != nil {
			return nil, progressErr
		}
	}
	return grants, nil
}

// InsertRelease фиксирует высвобождение транша. Повторное высвобождение того
// же транша вернет domain.ErrDuplicateKey благодаря уникальному ключу
// (grant_id, bucket).
func (g *GrantRepository) InsertRelease(
	ctx context.Context,
	grantID int64,
	bucket domain.VestingBucket,
	amount decimal.Decimal,
) error {
	_, err := g.db.Exec(ctx, `
		INSERT INTO grant_releases (grant_id, bucket, amount)
		VALUES ($1, $2, $3)`,
		grantID, bucket, amount,
	)
	return convertErr(err, "releasing bucket `%s` of grant %d", bucket, grantID)
}

// MarkVested помечает грант как полностью высвобожденный (терминальное состояние).
func (g *GrantRepository) MarkVested(ctx context.Context, grantID int64) error {
	tag, err := g.db.Exec(ctx, `
		UPDATE credit_grants
		SET is_vested = TRUE, status = 'vested', updated_at = now()
		WHERE id = $1 AND status = 'active'`,
		grantID,
	)
	if err != nil {
		return convertErr(err, "marking grant %d vested", grantID)
	}
	if tag.RowsAffected() == 0 {
		return convertErr(errNoRowsAffected, "marking grant %d vested", grantID)
	}
	return nil
}

// SetStatus переводит грант из состояния from в to. Если грант не в состоянии
// from, вернется domain.ErrRecordNotFound.
func (g *GrantRepository) SetStatus(
	ctx context.Context,
	grantID int64,
	from, to domain.GrantStatusType,
) error {
	tag, err := g.db.Exec(ctx, `
		UPDATE credit_grants
		SET status = $3, updated_at = now()
		WHERE id = $1 AND status = $2`,
		grantID, from, to,
	)
	if err != nil {
		return convertErr(err, "setting grant %d status %s -> %s", grantID, from, to)
	}
	if tag.RowsAffected() == 0 {
		return convertErr(errNoRowsAffected, "setting grant %d status %s -> %s", grantID, from, to)
	}
	return nil
}

// loadProgress восстанавливает прогресс вестинга из append-only журнала
// высвобождений.
func (g *GrantRepository) loadProgress(ctx context.Context, grant *domain.CreditGrant) error {
	rows, err := g.db.Query(ctx, `SELECT bucket, amount FROM grant_releases WHERE grant_id = $1`, grant.ID)
	if err != nil {
		return convertErr(err, "loading releases for grant %d", grant.ID)
	}
	defer rows.Close()

	for rows.Next() {
		var bucket domain.VestingBucket
		var amount decimal.Decimal
		if scanErr := rows.Scan(&bucket, &amount); scanErr != nil {
			return convertErr(scanErr, "scanning release for grant %d", grant.ID)
		}
		switch bucket {
		case domain.BucketImmediate:
			grant.Progress.Immediate = amount
		case domain.BucketAfterDay:
			grant.Progress.AfterDay = amount
		case domain.BucketAfterWeek:
			grant.Progress.AfterWeek = amount
		case domain.BucketAfterMonth:
			grant.Progress.AfterMonth = amount
		}
	}
	return convertErr(rows.Err(), "loading releases for grant %d", grant.ID)
}

func scanGrant(row rowScanner) (*domain.CreditGrant, error) {
	var grant domain.CreditGrant
	err := row.Scan(
		&grant.ID,
		&grant.CreatedAt,
		&grant.UpdatedAt,
		&grant.UserID,
		&grant.Amount,
		&grant.Source,
		&grant.Status,
		&grant.FraudScore,
		&grant.Schedule.Immediate,
		&grant.Schedule.AfterDay,
		&grant.Schedule.AfterWeek,
		&grant.Schedule.AfterMonth,
		&grant.IsVested,
	)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &grant, nil
}
