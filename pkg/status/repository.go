package status

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

var ErrWorkNotFound = errors.New("work not found")

type Repository interface {
	// WorkGR returns the GR of an active work.
	WorkGR(ctx context.Context, demo bool, workId int) (int, error)
	Counts(ctx context.Context, demo bool, grId, workId *int) (Counts, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) WorkGR(ctx context.Context, demo bool, workId int) (int, error) {
	var grId int
	err := r.db.QueryRow(ctx,
		`SELECT gr_id FROM work WHERE id = $1 AND is_demo = $2 AND NOT is_cancelled`, workId, demo).Scan(&grId)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrWorkNotFound
		}
		err := fmt.Errorf("could not execute query: %v", err)
		log.Error(err)
		return 0, err
	}
	return grId, nil
}

const countsQuery = `
WITH scoped_works AS (
	SELECT w.id FROM work w JOIN gr g ON g.id = w.gr_id
	WHERE w.is_demo = $1 AND g.is_demo = $1 AND NOT w.is_cancelled
	  AND ($2::int IS NULL OR w.gr_id = $2)
	  AND ($3::int IS NULL OR w.id = $3)
), scoped_ts AS (
	SELECT s.work_id, s.noting, s.order_issued FROM technical_sanction s
	WHERE s.is_demo = $1 AND s.work_id IN (SELECT id FROM scoped_works)
), scoped_tenders AS (
	SELECT t.* FROM tender t
	WHERE t.is_demo = $1 AND t.work_id IN (SELECT id FROM scoped_works)
), scoped_bills AS (
	SELECT b.payment_done_from_gr_id FROM bill b
	WHERE b.is_demo = $1 AND b.tender_id IN (SELECT id FROM scoped_tenders)
)
SELECT
	(SELECT COUNT(*) FROM gr WHERE is_demo = $1 AND ($2::int IS NULL OR id = $2)),
	(SELECT COUNT(*) FROM scoped_works),
	(SELECT COUNT(*) FROM scoped_ts),
	(SELECT COUNT(*) FROM scoped_tenders),
	(SELECT COUNT(*) FROM scoped_bills),
	(SELECT COUNT(*) FROM scoped_works w
		WHERE NOT EXISTS (SELECT 1 FROM scoped_ts s WHERE s.work_id = w.id)),
	(SELECT COUNT(*) FROM scoped_works w
		WHERE EXISTS (SELECT 1 FROM scoped_ts s WHERE s.work_id = w.id)
		  AND NOT EXISTS (SELECT 1 FROM scoped_tenders t WHERE t.work_id = w.id)),
	(SELECT COUNT(*) FROM scoped_tenders WHERE NOT technical_verification OR NOT financial_verification),
	(SELECT COUNT(*) FROM scoped_tenders WHERE work_order),
	(SELECT COUNT(*) FROM scoped_ts WHERE noting AND NOT order_issued),
	(SELECT COUNT(*) FROM scoped_ts WHERE order_issued),
	(SELECT COUNT(*) FROM scoped_tenders WHERE NOT online),
	(SELECT COUNT(*) FROM scoped_tenders WHERE technical_verification AND NOT financial_verification),
	(SELECT COUNT(*) FROM scoped_tenders WHERE financial_verification AND NOT loa),
	(SELECT COUNT(*) FROM scoped_tenders WHERE loa AND NOT work_order),
	(SELECT COUNT(*) FROM scoped_bills WHERE payment_done_from_gr_id IS NULL),
	(SELECT COUNT(*) FROM scoped_bills WHERE payment_done_from_gr_id IS NOT NULL)`

func (r *RepositoryImpl) Counts(ctx context.Context, demo bool, grId, workId *int) (Counts, error) {
	var c Counts
	err := r.db.QueryRow(ctx, countsQuery, demo, grId, workId).Scan(
		&c.GRs, &c.Works, &c.TechnicalSanctions, &c.Tenders, &c.Bills,
		&c.WorksWithoutTS, &c.WorksWithTSNoTender, &c.TendersOpen, &c.TendersAwarded,
		&c.TSNoting, &c.TSOrdered,
		&c.TendersOnlinePending, &c.TendersTechnical, &c.TendersFinancial, &c.TendersLOA,
		&c.BillsPendingPayment, &c.BillsPaymentCompleted,
	)
	if err != nil {
		err := fmt.Errorf("could not execute query: %v", err)
		log.Error(err)
		return Counts{}, err
	}
	return c, nil
}
