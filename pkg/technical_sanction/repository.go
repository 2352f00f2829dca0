package technical_sanction

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"github.com/worksledger/worksledger/internal/database"
)

var ErrTechnicalSanctionNotFound = errors.New("technical sanction not found")
var ErrWorkNotFound = errors.New("work not found")

type Repository interface {
	List(ctx context.Context, demo bool, workId *int) ([]TechnicalSanction, error)
	Get(ctx context.Context, demo bool, id int) (TechnicalSanction, error)
	Create(ctx context.Context, demo bool, ts TechnicalSanction) (TechnicalSanction, error)
	Update(ctx context.Context, demo bool, ts TechnicalSanction) (TechnicalSanction, error)
	Delete(ctx context.Context, demo bool, id int) (bool, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

const tsSelect = `SELECT ts.id, ts.work_id, w.name_of_work, ts.sub_name,
		ts.work_portion, ts.royalty, ts.testing, ts.consultancy,
		ts.gst_percentage, ts.contingency_percentage, ts.labour_insurance_percentage,
		ts.gst, ts.grand_total, ts.contingency, ts.labour_insurance, ts.final_total,
		ts.override_gst, ts.override_grand_total, ts.override_contingency,
		ts.override_labour_insurance, ts.override_final_total,
		ts.noting, ts.noting_date, ts.order_issued, ts.order_date,
		ts.is_demo, ts.created_at, ts.updated_at
	FROM technical_sanction ts JOIN work w ON w.id = ts.work_id`

func scanTS(row pgx.Row) (TechnicalSanction, error) {
	var ts TechnicalSanction
	err := row.Scan(
		&ts.Id, &ts.WorkId, &ts.WorkName, &ts.SubName,
		&ts.Inputs.WorkPortion, &ts.Inputs.Royalty, &ts.Inputs.Testing, &ts.Inputs.Consultancy,
		&ts.Inputs.GSTPercentage, &ts.Inputs.ContingencyPercentage, &ts.Inputs.LabourInsurancePercentage,
		&ts.Derived.GSTAmount, &ts.Derived.GrandTotal, &ts.Derived.ContingencyAmount,
		&ts.Derived.LabourInsuranceAmount, &ts.Derived.FinalTotal,
		&ts.Overrides.GST, &ts.Overrides.GrandTotal, &ts.Overrides.Contingency,
		&ts.Overrides.LabourInsurance, &ts.Overrides.FinalTotal,
		&ts.Noting, &ts.NotingDate, &ts.Order, &ts.OrderDate,
		&ts.IsDemo, &ts.CreatedAt, &ts.UpdatedAt,
	)
	return ts, err
}

func (r *RepositoryImpl) List(ctx context.Context, demo bool, workId *int) ([]TechnicalSanction, error) {
	query := tsSelect + ` WHERE ts.is_demo = $1 AND ($2::int IS NULL OR ts.work_id = $2) ORDER BY ts.id`
	rows, err := r.db.Query(ctx, query, demo, workId)
	if err != nil {
		err := fmt.Errorf("could not execute query: %v", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	result := make([]TechnicalSanction, 0)
	for rows.Next() {
		ts, err := scanTS(rows)
		if err != nil {
			err := fmt.Errorf("error scanning row: %w", err)
			log.Error(err)
			return nil, err
		}
		result = append(result, ts)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}
	return result, nil
}

func (r *RepositoryImpl) Get(ctx context.Context, demo bool, id int) (TechnicalSanction, error) {
	ts, err := scanTS(r.db.QueryRow(ctx, tsSelect+` WHERE ts.id = $1 AND ts.is_demo = $2`, id, demo))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return TechnicalSanction{}, ErrTechnicalSanctionNotFound
		}
		err := fmt.Errorf("could not execute query: %v", err)
		log.Error(err)
		return TechnicalSanction{}, err
	}
	return ts, nil
}

func (r *RepositoryImpl) workExists(ctx context.Context, demo bool, workId int) error {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM work WHERE id = $1 AND is_demo = $2)`, workId, demo).Scan(&exists)
	if err != nil {
		err := fmt.Errorf("could not execute query: %v", err)
		log.Error(err)
		return err
	}
	if !exists {
		return ErrWorkNotFound
	}
	return nil
}

func (r *RepositoryImpl) Create(ctx context.Context, demo bool, ts TechnicalSanction) (TechnicalSanction, error) {
	if err := r.workExists(ctx, demo, ts.WorkId); err != nil {
		return TechnicalSanction{}, err
	}
	query := `INSERT INTO technical_sanction (
				work_id, sub_name, work_portion, royalty, testing, consultancy,
				gst_percentage, contingency_percentage, labour_insurance_percentage,
				gst, grand_total, contingency, labour_insurance, final_total,
				override_gst, override_grand_total, override_contingency,
				override_labour_insurance, override_final_total,
				noting, noting_date, order_issued, order_date, is_demo
			  ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
				$15, $16, $17, $18, $19, $20, $21, $22, $23, $24) RETURNING id`
	var id int
	err := r.db.QueryRow(ctx, query,
		ts.WorkId, ts.SubName,
		ts.Inputs.WorkPortion, ts.Inputs.Royalty, ts.Inputs.Testing, ts.Inputs.Consultancy,
		ts.Inputs.GSTPercentage, ts.Inputs.ContingencyPercentage, ts.Inputs.LabourInsurancePercentage,
		ts.Derived.GSTAmount, ts.Derived.GrandTotal, ts.Derived.ContingencyAmount,
		ts.Derived.LabourInsuranceAmount, ts.Derived.FinalTotal,
		ts.Overrides.GST, ts.Overrides.GrandTotal, ts.Overrides.Contingency,
		ts.Overrides.LabourInsurance, ts.Overrides.FinalTotal,
		ts.Noting, ts.NotingDate, ts.Order, ts.OrderDate, demo,
	).Scan(&id)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return TechnicalSanction{}, ErrWorkNotFound
		}
		err := fmt.Errorf("could not execute query: %v", err)
		log.Error(err)
		return TechnicalSanction{}, err
	}
	return r.Get(ctx, demo, id)
}

func (r *RepositoryImpl) Update(ctx context.Context, demo bool, ts TechnicalSanction) (TechnicalSanction, error) {
	if err := r.workExists(ctx, demo, ts.WorkId); err != nil {
		return TechnicalSanction{}, err
	}
	query := `UPDATE technical_sanction SET
				work_id = $1, sub_name = $2, work_portion = $3, royalty = $4, testing = $5, consultancy = $6,
				gst_percentage = $7, contingency_percentage = $8, labour_insurance_percentage = $9,
				gst = $10, grand_total = $11, contingency = $12, labour_insurance = $13, final_total = $14,
				override_gst = $15, override_grand_total = $16, override_contingency = $17,
				override_labour_insurance = $18, override_final_total = $19,
				noting = $20, noting_date = $21, order_issued = $22, order_date = $23, updated_at = NOW()
			  WHERE id = $24 AND is_demo = $25`
	result, err := r.db.Exec(ctx, query,
		ts.WorkId, ts.SubName,
		ts.Inputs.WorkPortion, ts.Inputs.Royalty, ts.Inputs.Testing, ts.Inputs.Consultancy,
		ts.Inputs.GSTPercentage, ts.Inputs.ContingencyPercentage, ts.Inputs.LabourInsurancePercentage,
		ts.Derived.GSTAmount, ts.Derived.GrandTotal, ts.Derived.ContingencyAmount,
		ts.Derived.LabourInsuranceAmount, ts.Derived.FinalTotal,
		ts.Overrides.GST, ts.Overrides.GrandTotal, ts.Overrides.Contingency,
		ts.Overrides.LabourInsurance, ts.Overrides.FinalTotal,
		ts.Noting, ts.NotingDate, ts.Order, ts.OrderDate,
		ts.Id, demo,
	)
	if err != nil {
		err := fmt.Errorf("could not execute query: %v", err)
		log.Error(err)
		return TechnicalSanction{}, err
	}
	if result.RowsAffected() == 0 {
		return TechnicalSanction{}, ErrTechnicalSanctionNotFound
	}
	return r.Get(ctx, demo, ts.Id)
}

func (r *RepositoryImpl) Delete(ctx context.Context, demo bool, id int) (bool, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM technical_sanction WHERE id = $1 AND is_demo = $2`, id, demo)
	if err != nil {
		err := fmt.Errorf("could not execute query: %v", err)
		log.Error(err)
		return false, err
	}
	return result.RowsAffected() > 0, nil
}
