package work

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/worksledger/worksledger/internal/database"
)

var ErrWorkNotFound = errors.New("work not found")
var ErrSpillNotFound = errors.New("spill not found")
var ErrSpillExceedsAA = errors.New("spill would exceed administrative approval")
var ErrGRNotFound = errors.New("gr not found")

type Repository interface {
	List(ctx context.Context, demo bool, grId *int) ([]Work, error)
	Get(ctx context.Context, demo bool, id int) (Work, error)
	Create(ctx context.Context, demo bool, work Work) (Work, error)
	Update(ctx context.Context, demo bool, work Work) (Work, error)
	Delete(ctx context.Context, demo bool, id int) (bool, error)
	ListSpills(ctx context.Context, demo bool, workId *int) ([]Spill, error)
	GetSpill(ctx context.Context, demo bool, id int) (Spill, error)
	// StoreSpill inserts (Id == 0) or updates a spill, enforcing the AA
	// ceiling against the locked work row.
	StoreSpill(ctx context.Context, demo bool, spill Spill) (Spill, error)
	DeleteSpill(ctx context.Context, demo bool, id int) (bool, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

const workColumns = `id, gr_id, date, name_of_work, aa, ra, is_cancelled,
	COALESCE(cancel_reason, ''), COALESCE(cancel_details, ''), is_demo, created_at, updated_at`

func scanWork(row pgx.Row) (Work, error) {
	var w Work
	var reason string
	err := row.Scan(&w.Id, &w.GrId, &w.Date, &w.Name, &w.AA, &w.RA, &w.IsCancelled,
		&reason, &w.CancelDetails, &w.IsDemo, &w.CreatedAt, &w.UpdatedAt)
	w.CancelReason = CancelReason(reason)
	return w, err
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (r *RepositoryImpl) List(ctx context.Context, demo bool, grId *int) ([]Work, error) {
	query := `SELECT ` + workColumns + ` FROM work
			  WHERE is_demo = $1 AND ($2::int IS NULL OR gr_id = $2)
			  ORDER BY created_at DESC, id DESC`
	rows, err := r.db.Query(ctx, query, demo, grId)
	if err != nil {
		err := fmt.Errorf("could not execute query: %v", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	works := make([]Work, 0)
	ids := make([]int, 0)
	for rows.Next() {
		w, err := scanWork(rows)
		if err != nil {
			err := fmt.Errorf("error scanning row: %w", err)
			log.Error(err)
			return nil, err
		}
		works = append(works, w)
		ids = append(ids, w.Id)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}

	spills, err := r.spillsByWork(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range works {
		works[i].Spills = spills[works[i].Id]
	}
	return works, nil
}

func (r *RepositoryImpl) spillsByWork(ctx context.Context, workIds []int) (map[int][]Spill, error) {
	result := make(map[int][]Spill)
	if len(workIds) == 0 {
		return result, nil
	}
	rows, err := r.db.Query(ctx, `SELECT id, work_id, ara, created_at FROM spill WHERE work_id = ANY($1) ORDER BY id`, workIds)
	if err != nil {
		err := fmt.Errorf("could not execute query: %v", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var s Spill
		if err := rows.Scan(&s.Id, &s.WorkId, &s.ARA, &s.CreatedAt); err != nil {
			err := fmt.Errorf("error scanning row: %w", err)
			log.Error(err)
			return nil, err
		}
		result[s.WorkId] = append(result[s.WorkId], s)
	}
	return result, rows.Err()
}

func (r *RepositoryImpl) Get(ctx context.Context, demo bool, id int) (Work, error) {
	query := `SELECT ` + workColumns + ` FROM work WHERE id = $1 AND is_demo = $2`
	w, err := scanWork(r.db.QueryRow(ctx, query, id, demo))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Work{}, ErrWorkNotFound
		}
		err := fmt.Errorf("could not execute query: %v", err)
		log.Error(err)
		return Work{}, err
	}
	spills, err := r.spillsByWork(ctx, []int{id})
	if err != nil {
		return Work{}, err
	}
	w.Spills = spills[id]
	return w, nil
}

func (r *RepositoryImpl) grExists(ctx context.Context, q pgx.Tx, demo bool, grId int) error {
	var exists bool
	err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM gr WHERE id = $1 AND is_demo = $2)`, grId, demo).Scan(&exists)
	if err != nil {
		err := fmt.Errorf("could not execute query: %v", err)
		log.Error(err)
		return err
	}
	if !exists {
		return ErrGRNotFound
	}
	return nil
}

func (r *RepositoryImpl) Create(ctx context.Context, demo bool, work Work) (Work, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return Work{}, err
	}
	defer tx.Rollback(ctx)

	if err := r.grExists(ctx, tx, demo, work.GrId); err != nil {
		return Work{}, err
	}

	query := `INSERT INTO work (gr_id, date, name_of_work, aa, ra, is_cancelled, cancel_reason, cancel_details, is_demo)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING ` + workColumns
	created, err := scanWork(tx.QueryRow(ctx, query,
		work.GrId,
		work.Date,
		work.Name,
		work.AA,
		work.RA,
		work.IsCancelled,
		nullable(string(work.CancelReason)),
		nullable(work.CancelDetails),
		demo,
	))
	if err != nil {
		err := fmt.Errorf("could not execute query: %v", err)
		log.Error(err)
		return Work{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Work{}, fmt.Errorf("could not commit transaction: %w", err)
	}
	created.Spills = []Spill{}
	return created, nil
}

func (r *RepositoryImpl) Update(ctx context.Context, demo bool, work Work) (Work, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return Work{}, err
	}
	defer tx.Rollback(ctx)

	if err := r.grExists(ctx, tx, demo, work.GrId); err != nil {
		return Work{}, err
	}

	var exists bool
	err = tx.QueryRow(ctx, `SELECT TRUE FROM work WHERE id = $1 AND is_demo = $2 FOR UPDATE`, work.Id, demo).Scan(&exists)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Work{}, ErrWorkNotFound
		}
		err := fmt.Errorf("could not execute query: %v", err)
		log.Error(err)
		return Work{}, err
	}

	totalARA, err := sumSpills(ctx, tx, work.Id, 0)
	if err != nil {
		return Work{}, err
	}
	if work.RA.Add(totalARA).GreaterThan(work.AA) {
		return Work{}, fmt.Errorf("%w: RA (%s) + total ARA (%s) exceeds AA (%s)",
			ErrSpillExceedsAA, work.RA.StringFixed(2), totalARA.StringFixed(2), work.AA.StringFixed(2))
	}

	query := `UPDATE work SET gr_id = $1, date = $2, name_of_work = $3, aa = $4, ra = $5,
				is_cancelled = $6, cancel_reason = $7, cancel_details = $8, updated_at = NOW()
			  WHERE id = $9 AND is_demo = $10 RETURNING ` + workColumns
	updated, err := scanWork(tx.QueryRow(ctx, query,
		work.GrId,
		work.Date,
		work.Name,
		work.AA,
		work.RA,
		work.IsCancelled,
		nullable(string(work.CancelReason)),
		nullable(work.CancelDetails),
		work.Id,
		demo,
	))
	if err != nil {
		err := fmt.Errorf("could not execute query: %v", err)
		log.Error(err)
		return Work{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Work{}, fmt.Errorf("could not commit transaction: %w", err)
	}

	spills, err := r.spillsByWork(ctx, []int{updated.Id})
	if err != nil {
		return Work{}, err
	}
	updated.Spills = spills[updated.Id]
	return updated, nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, demo bool, id int) (bool, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM work WHERE id = $1 AND is_demo = $2`, id, demo)
	if err != nil {
		err := fmt.Errorf("could not execute query: %v", err)
		log.Error(err)
		return false, err
	}
	return result.RowsAffected() > 0, nil
}

func (r *RepositoryImpl) ListSpills(ctx context.Context, demo bool, workId *int) ([]Spill, error) {
	query := `SELECT id, work_id, ara, created_at FROM spill
			  WHERE is_demo = $1 AND ($2::int IS NULL OR work_id = $2) ORDER BY id`
	rows, err := r.db.Query(ctx, query, demo, workId)
	if err != nil {
		err := fmt.Errorf("could not execute query: %v", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	spills := make([]Spill, 0)
	for rows.Next() {
		var s Spill
		if err := rows.Scan(&s.Id, &s.WorkId, &s.ARA, &s.CreatedAt); err != nil {
			err := fmt.Errorf("error scanning row: %w", err)
			log.Error(err)
			return nil, err
		}
		spills = append(spills, s)
	}
	return spills, rows.Err()
}

func (r *RepositoryImpl) GetSpill(ctx context.Context, demo bool, id int) (Spill, error) {
	var s Spill
	err := r.db.QueryRow(ctx, `SELECT id, work_id, ara, created_at FROM spill WHERE id = $1 AND is_demo = $2`, id, demo).
		Scan(&s.Id, &s.WorkId, &s.ARA, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Spill{}, ErrSpillNotFound
		}
		err := fmt.Errorf("could not execute query: %v", err)
		log.Error(err)
		return Spill{}, err
	}
	return s, nil
}

// sumSpills totals the ARA recorded on a work, leaving out excludeId.
func sumSpills(ctx context.Context, tx pgx.Tx, workId, excludeId int) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := tx.QueryRow(ctx, `SELECT COALESCE(SUM(ara), 0) FROM spill WHERE work_id = $1 AND id <> $2`, workId, excludeId).Scan(&total)
	if err != nil {
		err := fmt.Errorf("could not execute query: %v", err)
		log.Error(err)
		return decimal.Zero, err
	}
	return total, nil
}

func (r *RepositoryImpl) StoreSpill(ctx context.Context, demo bool, spill Spill) (Spill, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return Spill{}, err
	}
	defer tx.Rollback(ctx)

	var aa, ra decimal.Decimal
	err = tx.QueryRow(ctx, `SELECT aa, ra FROM work WHERE id = $1 AND is_demo = $2 FOR UPDATE`, spill.WorkId, demo).Scan(&aa, &ra)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Spill{}, ErrWorkNotFound
		}
		err := fmt.Errorf("could not execute query: %v", err)
		log.Error(err)
		return Spill{}, err
	}

	totalARA, err := sumSpills(ctx, tx, spill.WorkId, spill.Id)
	if err != nil {
		return Spill{}, err
	}
	if total := ra.Add(totalARA).Add(spill.ARA); total.GreaterThan(aa) {
		return Spill{}, fmt.Errorf("%w: RA (%s) + total ARA (%s) + new ARA (%s) = %s would exceed AA (%s)",
			ErrSpillExceedsAA, ra.StringFixed(2), totalARA.StringFixed(2), spill.ARA.StringFixed(2),
			total.StringFixed(2), aa.StringFixed(2))
	}

	var stored Spill
	if spill.Id == 0 {
		err = tx.QueryRow(ctx,
			`INSERT INTO spill (work_id, ara, is_demo) VALUES ($1, $2, $3) RETURNING id, work_id, ara, created_at`,
			spill.WorkId, spill.ARA, demo).
			Scan(&stored.Id, &stored.WorkId, &stored.ARA, &stored.CreatedAt)
	} else {
		err = tx.QueryRow(ctx,
			`UPDATE spill SET work_id = $1, ara = $2 WHERE id = $3 AND is_demo = $4 RETURNING id, work_id, ara, created_at`,
			spill.WorkId, spill.ARA, spill.Id, demo).
			Scan(&stored.Id, &stored.WorkId, &stored.ARA, &stored.CreatedAt)
	}
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Spill{}, ErrSpillNotFound
		}
		if database.IsForeignKeyViolation(err) {
			return Spill{}, ErrWorkNotFound
		}
		err := fmt.Errorf("could not execute query: %v", err)
		log.Error(err)
		return Spill{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Spill{}, fmt.Errorf("could not commit transaction: %w", err)
	}
	return stored, nil
}

func (r *RepositoryImpl) DeleteSpill(ctx context.Context, demo bool, id int) (bool, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM spill WHERE id = $1 AND is_demo = $2`, id, demo)
	if err != nil {
		err := fmt.Errorf("could not execute query: %v", err)
		log.Error(err)
		return false, err
	}
	return result.RowsAffected() > 0, nil
}
