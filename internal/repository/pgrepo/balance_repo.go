package pgrepo

import (
	"context"

	"github.com/fsdevblog/groph-rewards/internal/domain"
	"github.com/fsdevblog/groph-rewards/pkg/uow"
	"github.com/shopspring/decimal"
)

const balanceColumns = "user_id, created_at, updated_at, total_credits, available_credits, withdrawable_credits"

// BalanceRepository все мутации — атомарные инкременты на стороне БД, никогда
// read-modify-write: балансы конкурентно трогают комиссии, вестинг и списания.
type BalanceRepository struct {
	db uow.DBTX
}

func NewBalanceRepository(db uow.DBTX) *BalanceRepository {
	return &BalanceRepository{db: db}
}

// Credit увеличивает total и available на amount, создавая счет при первом
// начислении.
func (b *BalanceRepository) Credit(ctx context.Context, userID int64, amount decimal.Decimal) error {
	_, err := b.db.Exec(ctx, `
		INSERT INTO balance_accounts (user_id, total_credits, available_credits)
		VALUES ($1, $2, $2)
		ON CONFLICT (user_id) DO UPDATE SET
			total_credits = balance_accounts.total_credits + EXCLUDED.total_credits,
			available_credits = balance_accounts.available_credits + EXCLUDED.available_credits,
			updated_at = now()`,
		userID, amount,
	)
	return convertErr(err, "crediting user %d", userID)
}

// Debit списывает amount с available. Если средств не хватает, вернется
// domain.ErrInsufficientBalance. Withdrawable при необходимости ужимается,
// чтобы сохранить инвариант withdrawable <= available.
func (b *BalanceRepository) Debit(ctx context.Context, userID int64, amount decimal.Decimal) error {
	tag, err := b.db.Exec(ctx, `
		UPDATE balance_accounts
		SET available_credits = available_credits - $2,
			withdrawable_credits = LEAST(withdrawable_credits, available_credits - $2),
			updated_at = now()
		WHERE user_id = $1 AND available_credits >= $2`,
		userID, amount,
	)
	if err != nil {
		if isCheckViolationErr(err) {
			return domain.ErrInsufficientBalance
		}
		return convertErr(err, "debiting user %d", userID)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInsufficientBalance
	}
	return nil
}

// DebitWithdrawable списывает amount одновременно с available и withdrawable.
// Используется при заявке на вывод средств.
func (b *BalanceRepository) DebitWithdrawable(ctx context.Context, userID int64, amount decimal.Decimal) error {
	tag, err := b.db.Exec(ctx, `
		UPDATE balance_accounts
		SET available_credits = available_credits - $2,
			withdrawable_credits = withdrawable_credits - $2,
			updated_at = now()
		WHERE user_id = $1 AND withdrawable_credits >= $2`,
		userID, amount,
	)
	if err != nil {
		if isCheckViolationErr(err) {
			return domain.ErrInsufficientBalance
		}
		return convertErr(err, "debiting withdrawable of user %d", userID)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInsufficientBalance
	}
	return nil
}

// CreditWithdrawable возвращает amount одновременно в available и
// withdrawable. Обратная операция к DebitWithdrawable: используется при
// отклонении заявки на вывод. Total не трогается — зарезервированные средства
// были заработаны ранее.
func (b *BalanceRepository) CreditWithdrawable(ctx context.Context, userID int64, amount decimal.Decimal) error {
	tag, err := b.db.Exec(ctx, `
		UPDATE balance_accounts
		SET available_credits = available_credits + $2,
			withdrawable_credits = withdrawable_credits + $2,
			updated_at = now()
		WHERE user_id = $1`,
		userID, amount,
	)
	if err != nil {
		return convertErr(err, "crediting withdrawable of user %d", userID)
	}
	if tag.RowsAffected() == 0 {
		return convertErr(errNoRowsAffected, "crediting withdrawable of user %d", userID)
	}
	return nil
}

// Promote выставляет withdrawable = available, если available пересек
// минимальный порог. Продвижение одностороннее: уже выводимые кредиты
// обратно не разжалуются. Возвращает true если продвижение произошло.
func (b *BalanceRepository) Promote(ctx context.Context, userID int64, minAvailable decimal.Decimal) (bool, error) {
	tag, err := b.db.Exec(ctx, `
		UPDATE balance_accounts
		SET withdrawable_credits = available_credits, updated_at = now()
		WHERE user_id = $1
			AND available_credits >= $2
			AND available_credits > withdrawable_credits`,
		userID, minAvailable,
	)
	if err != nil {
		return false, convertErr(err, "promoting withdrawable of user %d", userID)
	}
	return tag.RowsAffected() > 0, nil
}

// GetByUserID возвращает счет юзера. Для юзера без единого начисления
// возвращается нулевой счет, а не ошибка.
func (b *BalanceRepository) GetByUserID(ctx context.Context, userID int64) (*domain.BalanceAccount, error) {
	row := b.db.QueryRow(ctx, `SELECT `+balanceColumns+` FROM balance_accounts WHERE user_id = $1`, userID)

	var account domain.BalanceAccount
	err := row.Scan(
		&account.UserID,
		&account.CreatedAt,
		&account.UpdatedAt,
		&account.Total,
		&account.Available,
		&account.Withdrawable,
	)
	if err != nil {
		converted := convertErr(err, "getting balance of user %d", userID)
		if isNotFound(converted) {
			return &domain.BalanceAccount{
				UserID:       userID,
				Total:        decimal.Zero,
				Available:    decimal.Zero,
				Withdrawable: decimal.Zero,
			}, nil
		}
		return nil, converted
	}
	return &account, nil
}
