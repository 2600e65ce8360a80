package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/calder-games/psiforge/internal/game/psi"
)

// EffectRepository persists scaling-state snapshots: the cached driving value
// and refresh bookkeeping are the only engine fields crossing a save/load
// boundary.
type EffectRepository struct {
	db *pgxpool.Pool
}

// NewEffectRepository creates an EffectRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewEffectRepository(db *pgxpool.Pool) *EffectRepository {
	return &EffectRepository{db: db}
}

// Save upserts every snapshot in snaps inside one transaction. Rows for
// effects that have since expired are cleaned up via DeleteExpired from the
// simulation loop.
//
// Postcondition: Every snapshot in snaps has a matching row.
func (r *EffectRepository) Save(ctx context.Context, snaps []psi.Snapshot) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning snapshot tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, sn := range snaps {
		_, err := tx.Exec(ctx, `
			INSERT INTO psi_effects
				(pawn_id, ability_id, cached_value, last_refresh_tick, duration_remaining, updated_at)
			VALUES ($1, $2, $3, $4, $5, NOW())
			ON CONFLICT (pawn_id, ability_id) DO UPDATE SET
				cached_value       = EXCLUDED.cached_value,
				last_refresh_tick  = EXCLUDED.last_refresh_tick,
				duration_remaining = EXCLUDED.duration_remaining,
				updated_at         = NOW()`,
			sn.PawnID, sn.AbilityID, sn.CachedValue, sn.LastRefreshTick, sn.DurationRemaining,
		)
		if err != nil {
			return fmt.Errorf("upserting effect %s/%s: %w", sn.PawnID, sn.AbilityID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing snapshot tx: %w", err)
	}
	return nil
}

// ListByPawn returns all persisted snapshots for the given pawn.
//
// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (r *EffectRepository) ListByPawn(ctx context.Context, pawnID uuid.UUID) ([]psi.Snapshot, error) {
	rows, err := r.db.Query(ctx, `
		SELECT pawn_id, ability_id, cached_value, last_refresh_tick, duration_remaining
		FROM psi_effects WHERE pawn_id = $1 ORDER BY ability_id ASC`,
		pawnID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing effects: %w", err)
	}
	defer rows.Close()
	return scanSnapshots(rows)
}

// LoadAll returns every persisted snapshot, ordered by pawn then ability.
func (r *EffectRepository) LoadAll(ctx context.Context) ([]psi.Snapshot, error) {
	rows, err := r.db.Query(ctx, `
		SELECT pawn_id, ability_id, cached_value, last_refresh_tick, duration_remaining
		FROM psi_effects ORDER BY pawn_id ASC, ability_id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("loading effects: %w", err)
	}
	defer rows.Close()
	return scanSnapshots(rows)
}

// DeleteByPawn removes all persisted snapshots for the given pawn.
//
// Postcondition: ListByPawn for pawnID returns an empty slice.
func (r *EffectRepository) DeleteByPawn(ctx context.Context, pawnID uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM psi_effects WHERE pawn_id = $1`, pawnID); err != nil {
		return fmt.Errorf("deleting effects for pawn %s: %w", pawnID, err)
	}
	return nil
}

// DeleteExpired removes the rows for effects the manager reported expired,
// keyed by pawn. Without this, an expired effect's last snapshot would
// resurrect it on the next restart.
//
// Postcondition: No listed (pawn, ability) pair has a row.
func (r *EffectRepository) DeleteExpired(ctx context.Context, expired map[uuid.UUID][]string) error {
	for pawnID, abilityIDs := range expired {
		for _, abilityID := range abilityIDs {
			if err := r.Delete(ctx, pawnID, abilityID); err != nil {
				return err
			}
		}
	}
	return nil
}

// Delete removes the persisted snapshot for one (pawn, ability) pair.
func (r *EffectRepository) Delete(ctx context.Context, pawnID uuid.UUID, abilityID string) error {
	if _, err := r.db.Exec(ctx,
		`DELETE FROM psi_effects WHERE pawn_id = $1 AND ability_id = $2`,
		pawnID, abilityID,
	); err != nil {
		return fmt.Errorf("deleting effect %s/%s: %w", pawnID, abilityID, err)
	}
	return nil
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanSnapshots(rows rowScanner) ([]psi.Snapshot, error) {
	snaps := make([]psi.Snapshot, 0)
	for rows.Next() {
		var sn psi.Snapshot
		if err := rows.Scan(
			&sn.PawnID, &sn.AbilityID, &sn.CachedValue,
			&sn.LastRefreshTick, &sn.DurationRemaining,
		); err != nil {
			return nil, fmt.Errorf("scanning effect row: %w", err)
		}
		snaps = append(snaps, sn)
	}
	return snaps, rows.Err()
}
