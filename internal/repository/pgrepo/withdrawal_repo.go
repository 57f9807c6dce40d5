package pgrepo

import (
	"context"

	"github.com/fsdevblog/groph-rewards/internal/domain"
	"github.com/fsdevblog/groph-rewards/internal/repository/repoargs"
	"github.com/fsdevblog/groph-rewards/pkg/uow"
)

const withdrawalColumns = "id, created_at, updated_at, user_id, amount, status, fraud_score"

type WithdrawalRepository struct {
	db uow.DBTX
}

func NewWithdrawalRepository(db uow.DBTX) *WithdrawalRepository {
	return &WithdrawalRepository{db: db}
}

func (w *WithdrawalRepository) Create(
	ctx context.Context,
	args repoargs.WithdrawalCreate,
) (*domain.WithdrawalRequest, error) {
	row := w.db.QueryRow(ctx, `
		INSERT INTO withdrawal_requests (user_id, amount, status, fraud_score)
		VALUES ($1, $2, $3, $4)
		RETURNING `+withdrawalColumns,
		args.UserID, args.Amount, args.Status, args.FraudScore,
	)
	request, err := scanWithdrawal(row)
	if err != nil {
		return nil, convertErr(err, "creating withdrawal request for user %d", args.UserID)
	}
	return request, nil
}

func (w *WithdrawalRepository) GetByID(ctx context.Context, id int64) (*domain.WithdrawalRequest, error) {
	row := w.db.QueryRow(ctx, `SELECT `+withdrawalColumns+` FROM withdrawal_requests WHERE id = $1`, id)
	request, err := scanWithdrawal(row)
	if err != nil {
		return nil, convertErr(err, "getting withdrawal request %d", id)
	}
	return request, nil
}

func (w *WithdrawalRepository) GetByUserID(ctx context.Context, userID int64) ([]domain.WithdrawalRequest, error) {
	rows, err := w.db.Query(ctx, `
		SELECT `+withdrawalColumns+`
		FROM withdrawal_requests
		WHERE user_id = $1
		ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, convertErr(err, "getting withdrawal requests of user %d", userID)
	}
	defer rows.Close()

	var requests []domain.WithdrawalRequest
	for rows.Next() {
		request, scanErr := scanWithdrawal(rows)
		if scanErr != nil {
			return nil, convertErr(scanErr, "scanning withdrawal request of user %d", userID)
		}
		requests = append(requests, *request)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, convertErr(rowsErr, "getting withdrawal requests of user %d", userID)
	}
	return requests, nil
}

// SetStatus переводит заявку из состояния from в to.
func (w *WithdrawalRepository) SetStatus(
	ctx context.Context,
	id int64,
	from, to domain.WithdrawalStatusType,
) error {
	tag, err := w.db.Exec(ctx, `
		UPDATE withdrawal_requests
		SET status = $3, updated_at = now()
		WHERE id = $1 AND status = $2`,
		id, from, to,
	)
	if err != nil {
		return convertErr(err, "setting withdrawal %d status %s -> %s", id, from, to)
	}
	if tag.RowsAffected() == 0 {
		return convertErr(errNoRowsAffected, "setting withdrawal %d status %s -> %s", id, from, to)
	}
	return nil
}

func scanWithdrawal(row rowScanner) (*domain.WithdrawalRequest, error) {
	var request domain.WithdrawalRequest
	err := row.Scan(
		&request.ID,
		&request.CreatedAt,
		&request.UpdatedAt,
		&request.UserID,
		&request.Amount,
		&request.Status,
		&request.FraudScore,
	)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &request, nil
}
