package pgrepo

import (
	"context"

	"github.com/fsdevblog/groph-rewards/internal/domain"
	"github.com/fsdevblog/groph-rewards/internal/repository/repoargs"
	"github.com/fsdevblog/groph-rewards/pkg/uow"
	"github.com/shopspring/decimal"
)

const referralColumns = "id, created_at, updated_at, user_id, referral_code, status, total_generated"

type ReferralRepository struct {
	db uow.DBTX
}

func NewReferralRepository(db uow.DBTX) *ReferralRepository {
	return &ReferralRepository{db: db}
}

// CreateRecord создает реферальную запись вместе с цепочкой предков.
// Вызывается внутри uow транзакции: запись и элементы цепочки либо
// сохраняются вместе, либо не сохраняются вовсе.
func (r *ReferralRepository) CreateRecord(
	ctx context.Context,
	args repoargs.ReferralRecordCreate,
) (*domain.ReferralRecord, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO referral_records (user_id, referral_code)
		VALUES ($1, $2)
		RETURNING `+referralColumns,
		args.UserID, args.ReferralCode,
	)
	record, scanErr := scanReferralRecord(row)
	if scanErr != nil {
		return nil, convertErr(scanErr, "creating referral record for user %d", args.UserID)
	}

	for _, entry := range args.Chain {
		_, execErr := r.db.Exec(ctx, `
			INSERT INTO referral_chain_entries (record_id, level, referrer_id, percentage)
			VALUES ($1, $2, $3, $4)`,
			record.ID, entry.Level, entry.ReferrerID, entry.Percentage,
		)
		if execErr != nil {
			return nil, convertErr(execErr, "creating chain entry level %d for record %d", entry.Level, record.ID)
		}
		record.Chain = append(record.Chain, domain.ReferralChainEntry{
			Level:      entry.Level,
			ReferrerID: entry.ReferrerID,
			Percentage: entry.Percentage,
		})
	}
	return record, nil
}

func (r *ReferralRepository) FindByUserID(ctx context.Context, userID int64) (*domain.ReferralRecord, error) {
	row := r.db.QueryRow(ctx, `SELECT `+referralColumns+` FROM referral_records WHERE user_id = $1`, userID)
	record, err := scanReferralRecord(row)
	if err != nil {
		return nil, convertErr(err, "finding referral record by user id %d", userID)
	}
	if chainErr := r.loadChain(ctx, record); chainErr != nil {
		return nil, chainErr
	}
	return record, nil
}

func (r *ReferralRepository) FindByCode(ctx context.Context, code string) (*domain.ReferralRecord, error) {
	row := r.db.QueryRow(ctx, `SELECT `+referralColumns+` FROM referral_records WHERE referral_code = $1`, code)
	record, err := scanReferralRecord(row)
	if err != nil {
		return nil, convertErr(err, "finding referral record by code `%s`", code)
	}
	if chainErr := r.loadChain(ctx, record); chainErr != nil {
		return nil, chainErr
	}
	return record, nil
}

// AddGeneratedCommission атомарно увеличивает счетчик комиссий, порожденных
// покупками юзера.
func (r *ReferralRepository) AddGeneratedCommission(
	ctx context.Context,
	userID int64,
	amount decimal.Decimal,
) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE referral_records
		SET total_generated = total_generated + $2, updated_at = now()
		WHERE user_id = $1`,
		userID, amount,
	)
	if err != nil {
		return convertErr(err, "adding generated commission for user %d", userID)
	}
	if tag.RowsAffected() == 0 {
		return convertErr(errNoRowsAffected, "adding generated commission for user %d", userID)
	}
	return nil
}

func (r *ReferralRepository) loadChain(ctx context.Context, record *domain.ReferralRecord) error {
	rows, err := r.db.Query(ctx, `
		SELECT level, referrer_id, percentage
		FROM referral_chain_entries
		WHERE record_id = $1
		ORDER BY level`,
		record.ID,
	)
	if err != nil {
		return convertErr(err, "loading chain for record %d", record.ID)
	}
	defer rows.Close()

	for rows.Next() {
		var entry domain.ReferralChainEntry
		if scanErr := rows.Scan(&entry.Level, &entry.ReferrerID, &entry.Percentage); scanErr != nil {
			return convertErr(scanErr, "scanning chain entry for record %d", record.ID)
		}
		record.Chain = append(record.Chain, entry)
	}
	return convertErr(rows.Err(), "loading chain for record %d", record.ID)
}

func scanReferralRecord(row rowScanner) (*domain.ReferralRecord, error) {
	var record domain.ReferralRecord
	err := row.Scan(
		&record.ID,
		&record.CreatedAt,
		&record.UpdatedAt,
		&record.UserID,
		&record.ReferralCode,
		&record.Status,
		&record.TotalGenerated,
	)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &record, nil
}
