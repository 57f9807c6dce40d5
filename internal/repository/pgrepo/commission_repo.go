package pgrepo

import (
	"context"
	"time"

	"github.com/fsdevblog/groph-rewards/internal/domain"
	"github.com/fsdevblog/groph-rewards/internal/repository/repoargs"
	"github.com/fsdevblog/groph-rewards/pkg/uow"
)

const commissionColumns = `id, created_at, updated_at, from_user_id, to_user_id, level, percentage,
	original_amount, commission_amount, transaction_type, external_transaction_id, status, fraud_score, paid_at`

type CommissionRepository struct {
	db uow.DBTX
}

func NewCommissionRepository(db uow.DBTX) *CommissionRepository {
	return &CommissionRepository{db: db}
}

// Create создает запись комиссии. Для повторной обработки того же внешнего
// события вернется domain.ErrDuplicateKey — уникальный индекс
// (from_user_id, external_transaction_id, level) делает повтор структурным no-op.
func (c *CommissionRepository) Create(
	ctx context.Context,
	args repoargs.CommissionCreate,
) (*domain.CommissionTransaction, error) {
	row := c.db.QueryRow(ctx, `
		INSERT INTO commission_transactions (
			from_user_id, to_user_id, level, percentage, original_amount,
			commission_amount, transaction_type, external_transaction_id, status, fraud_score
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+commissionColumns,
		args.FromUserID, args.ToUserID, args.Level, args.Percentage, args.OriginalAmount,
		args.CommissionAmount, args.TransactionType, args.ExternalTransactionID, args.Status, args.FraudScore,
	)
	transaction, err := scanCommission(row)
	if err != nil {
		return nil, convertErr(err, "creating commission for event `%s` level %d", args.ExternalTransactionID, args.Level)
	}
	return transaction, nil
}

// MarkPaid переводит комиссию из pending в paid. Перевод возможен ровно один
// раз; для уже обработанной записи вернется domain.ErrRecordNotFound.
func (c *CommissionRepository) MarkPaid(ctx context.Context, id int64, paidAt time.Time) error {
	tag, err := c.db.Exec(ctx, `
		UPDATE commission_transactions
		SET status = 'paid', paid_at = $2, updated_at = now()
		WHERE id = $1 AND status = 'pending'`,
		id, paidAt,
	)
	if err != nil {
		return convertErr(err, "marking commission %d paid", id)
	}
	if tag.RowsAffected() == 0 {
		return convertErr(errNoRowsAffected, "marking commission %d paid", id)
	}
	return nil
}

func (c *CommissionRepository) GetByID(ctx context.Context, id int64) (*domain.CommissionTransaction, error) {
	row := c.db.QueryRow(ctx, `SELECT `+commissionColumns+` FROM commission_transactions WHERE id = $1`, id)
	transaction, err := scanCommission(row)
	if err != nil {
		return nil, convertErr(err, "getting commission by id %d", id)
	}
	return transaction, nil
}

// GetByToUserID возвращает комиссии, заработанные юзером, по убыванию даты.
func (c *CommissionRepository) GetByToUserID(
	ctx context.Context,
	userID int64,
) ([]domain.CommissionTransaction, error) {
	rows, err := c.db.Query(ctx, `
		SELECT `+commissionColumns+`
		FROM commission_transactions
		WHERE to_user_id = $1
		ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, convertErr(err, "getting commissions for user %d", userID)
	}
	defer rows.Close()

	var transactions []domain.CommissionTransaction
	for rows.Next() {
		transaction, scanErr := scanCommission(rows)
		if scanErr != nil {
			return nil, convertErr(scanErr, "scanning commission for user %d", userID)
		}
		transactions = append(transactions, *transaction)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, convertErr(rowsErr, "getting commissions for user %d", userID)
	}
	return transactions, nil
}

func scanCommission(row rowScanner) (*domain.CommissionTransaction, error) {
	var t domain.CommissionTransaction
	err := row.Scan(
		&t.ID,
		&t.CreatedAt,
		&t.UpdatedAt,
		&t.FromUserID,
		&t.ToUserID,
		&t.Level,
		&t.Percentage,
		&t.OriginalAmount,
		&t.CommissionAmount,
		&t.TransactionType,
		&t.ExternalTransactionID,
		&t.Status,
		&t.FraudScore,
		&t.PaidAt,
	)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &t, nil
}
