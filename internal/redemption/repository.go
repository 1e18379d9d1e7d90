package redemption

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Aaron1234413/rallylife-ace-arena-sub001/internal/tokens"
)

type repository struct {
	db        *sqlx.DB
	tokenRepo tokens.Repository
}

func NewRepository(db *sqlx.DB, tokenRepo tokens.Repository) Repository {
	return &repository{db: db, tokenRepo: tokenRepo}
}

func (r *repository) CreateWithDebit(ctx context.Context, red *Redemption, month string) (*Redemption, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if red.TokensUsed > 0 {
		reason := fmt.Sprintf("redemption:%s", red.Category)
		if _, err := r.tokenRepo.DebitTx(ctx, tx, red.ClubID, month, red.TokensUsed, reason); err != nil {
			return nil, err
		}
	}

	err = tx.QueryRowxContext(ctx, `
		INSERT INTO redemptions (club_id, player_id, category, total_value_cents, tokens_used, cash_cents, redemption_pct)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, club_id, player_id, category, total_value_cents, tokens_used, cash_cents, redemption_pct, created_at
	`, red.ClubID, red.PlayerID, red.Category, red.TotalValueCents, red.TokensUsed, red.CashCents, red.RedemptionPct).StructScan(red)
	if err != nil {
		return nil, err
	}

	return red, tx.Commit()
}

func (r *repository) GetByClub(ctx context.Context, clubID int, limit, offset int) ([]Redemption, error) {
	if limit <= 0 {
		limit = 50
	}

	var rows []Redemption
	err := r.db.SelectContext(ctx, &rows, `
		SELECT id, club_id, player_id, category, total_value_cents, tokens_used, cash_cents, redemption_pct, created_at
		FROM redemptions
		WHERE club_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, clubID, limit, offset)
	if err != nil {
		return nil, err
	}

	return rows, nil
}
