package bill

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

var ErrBillNotFound = errors.New("bill not found")
var ErrTenderNotFound = errors.New("tender not found")
var ErrGRNotFound = errors.New("gr not found")

type Repository interface {
	List(ctx context.Context, demo bool, filter ListFilter) ([]Bill, error)
	Get(ctx context.Context, demo bool, id int) (Bill, error)
	Create(ctx context.Context, demo bool, b Bill) (Bill, error)
	Update(ctx context.Context, demo bool, b Bill) (Bill, error)
	Delete(ctx context.Context, demo bool, id int) (bool, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

const billSelect = `SELECT b.id, b.tender_id, t.tender_number, w.id, w.name_of_work,
		b.bill_number, b.date, b.payment_done_from_gr_id,
		b.work_portion, b.royalty_and_testing, b.gst_percentage, b.reimbursement_of_insurance,
		b.security_deposit, b.tds_percentage, b.gst_on_workportion_percentage, b.lwc_percentage,
		b.insurance, b.royalty,
		b.gst, b.bill_total, b.tds, b.gst_on_workportion, b.lwc, b.net_amount,
		b.override_gst, b.override_bill_total, b.override_tds, b.override_gst_on_workportion,
		b.override_lwc, b.override_net_amount,
		b.is_demo, b.created_at, b.updated_at
	FROM bill b
	JOIN tender t ON t.id = b.tender_id
	JOIN work w ON w.id = t.work_id`

func scanBill(row pgx.Row) (Bill, error) {
	var b Bill
	in, d, ov := &b.Inputs, &b.Derived, &b.Overrides
	err := row.Scan(
		&b.Id, &b.TenderId, &b.TenderNumber, &b.WorkId, &b.WorkName,
		&b.BillNumber, &b.Date, &b.PaymentDoneFromGRId,
		&in.WorkPortion, &in.RoyaltyAndTesting, &in.GSTPercentage, &in.ReimbursementOfInsurance,
		&in.SecurityDeposit, &in.TDSPercentage, &in.GSTOnWorkPortionPercentage, &in.LWCPercentage,
		&in.Insurance, &in.Royalty,
		&d.GST, &d.BillTotal, &d.TDS, &d.GSTOnWorkPortion, &d.LWC, &d.NetAmount,
		&ov.GST, &ov.BillTotal, &ov.TDS, &ov.GSTOnWorkPortion, &ov.LWC, &ov.NetAmount,
		&b.IsDemo, &b.CreatedAt, &b.UpdatedAt,
	)
	return b, err
}

// amountArgs lists inputs, derived values and override flags in column order.
func amountArgs(b Bill) []any {
	in, d, ov := b.Inputs, b.Derived, b.Overrides
	return []any{
		in.WorkPortion, in.RoyaltyAndTesting, in.GSTPercentage, in.ReimbursementOfInsurance,
		in.SecurityDeposit, in.TDSPercentage, in.GSTOnWorkPortionPercentage, in.LWCPercentage,
		in.Insurance, in.Royalty,
		d.GST, d.BillTotal, d.TDS, d.GSTOnWorkPortion, d.LWC, d.NetAmount,
		ov.GST, ov.BillTotal, ov.TDS, ov.GSTOnWorkPortion, ov.LWC, ov.NetAmount,
	}
}

func (r *RepositoryImpl) List(ctx context.Context, demo bool, filter ListFilter) ([]Bill, error) {
	query := billSelect + ` WHERE b.is_demo = $1
		AND ($2::int IS NULL OR b.tender_id = $2)
		AND ($3::int IS NULL OR t.work_id = $3)
		ORDER BY b.date DESC, b.id DESC`
	rows, err := r.db.Query(ctx, query, demo, filter.TenderId, filter.WorkId)
	if err != nil {
		err := fmt.Errorf("could not execute query: %v", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	result := make([]Bill, 0)
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			err := fmt.Errorf("error scanning row: %w", err)
			log.Error(err)
			return nil, err
		}
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}
	return result, nil
}

func (r *RepositoryImpl) Get(ctx context.Context, demo bool, id int) (Bill, error) {
	b, err := scanBill(r.db.QueryRow(ctx, billSelect+` WHERE b.id = $1 AND b.is_demo = $2`, id, demo))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Bill{}, ErrBillNotFound
		}
		err := fmt.Errorf("could not execute query: %v", err)
		log.Error(err)
		return Bill{}, err
	}
	return b, nil
}

func (r *RepositoryImpl) checkReferences(ctx context.Context, demo bool, b Bill) error {
	var tenderOk, grOk bool
	err := r.db.QueryRow(ctx, `SELECT
			EXISTS (SELECT 1 FROM tender WHERE id = $1 AND is_demo = $3),
			$2::int IS NULL OR EXISTS (SELECT 1 FROM gr WHERE id = $2 AND is_demo = $3)`,
		b.TenderId, b.PaymentDoneFromGRId, demo).Scan(&tenderOk, &grOk)
	if err != nil {
		err := fmt.Errorf("could not execute query: %v", err)
		log.Error(err)
		return err
	}
	if !tenderOk {
		return ErrTenderNotFound
	}
	if !grOk {
		return ErrGRNotFound
	}
	return nil
}

func (r *RepositoryImpl) Create(ctx context.Context, demo bool, b Bill) (Bill, error) {
	if err := r.checkReferences(ctx, demo, b); err != nil {
		return Bill{}, err
	}
	query := `INSERT INTO bill (
				tender_id, bill_number, date, payment_done_from_gr_id, is_demo,
				work_portion, royalty_and_testing, gst_percentage, reimbursement_of_insurance,
				security_deposit, tds_percentage, gst_on_workportion_percentage, lwc_percentage,
				insurance, royalty,
				gst, bill_total, tds, gst_on_workportion, lwc, net_amount,
				override_gst, override_bill_total, override_tds, override_gst_on_workportion,
				override_lwc, override_net_amount
			  ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
				$16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27) RETURNING id`
	args := append([]any{b.TenderId, b.BillNumber, b.Date, b.PaymentDoneFromGRId, demo}, amountArgs(b)...)

	var id int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		err := fmt.Errorf("could not execute query: %v", err)
		log.Error(err)
		return Bill{}, err
	}
	return r.Get(ctx, demo, id)
}

// Update rewrites everything except the tender the bill was raised against.
func (r *RepositoryImpl) Update(ctx context.Context, demo bool, b Bill) (Bill, error) {
	if err := r.checkReferences(ctx, demo, b); err != nil {
		return Bill{}, err
	}
	query := `UPDATE bill SET
				bill_number = $1, date = $2, payment_done_from_gr_id = $3,
				work_portion = $4, royalty_and_testing = $5, gst_percentage = $6, reimbursement_of_insurance = $7,
				security_deposit = $8, tds_percentage = $9, gst_on_workportion_percentage = $10, lwc_percentage = $11,
				insurance = $12, royalty = $13,
				gst = $14, bill_total = $15, tds = $16, gst_on_workportion = $17, lwc = $18, net_amount = $19,
				override_gst = $20, override_bill_total = $21, override_tds = $22, override_gst_on_workportion = $23,
				override_lwc = $24, override_net_amount = $25, updated_at = NOW()
			  WHERE id = $26 AND is_demo = $27`
	args := append([]any{b.BillNumber, b.Date, b.PaymentDoneFromGRId}, amountArgs(b)...)
	args = append(args, b.Id, demo)

	result, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		err := fmt.Errorf("could not execute query: %v", err)
		log.Error(err)
		return Bill{}, err
	}
	if result.RowsAffected() == 0 {
		return Bill{}, ErrBillNotFound
	}
	return r.Get(ctx, demo, b.Id)
}

func (r *RepositoryImpl) Delete(ctx context.Context, demo bool, id int) (bool, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM bill WHERE id = $1 AND is_demo = $2`, id, demo)
	if err != nil {
		err := fmt.Errorf("could not execute query: %v", err)
		log.Error(err)
		return false, err
	}
	return result.RowsAffected() > 0, nil
}
