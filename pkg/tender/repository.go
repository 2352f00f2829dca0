package tender

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"github.com/worksledger/worksledger/internal/database"
)

var ErrTenderNotFound = errors.New("tender not found")
var ErrWorkNotFound = errors.New("work not found")
var ErrTechnicalSanctionMismatch = errors.New("technical sanction does not belong to the work")
var ErrDuplicateTenderNumber = errors.New("tender number already exists")

type Repository interface {
	List(ctx context.Context, demo bool, workId *int) ([]Tender, error)
	Get(ctx context.Context, demo bool, id int) (Tender, error)
	Create(ctx context.Context, demo bool, t Tender) (Tender, error)
	Update(ctx context.Context, demo bool, t Tender) (Tender, error)
	Delete(ctx context.Context, demo bool, id int) (bool, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

// stageColumns renders "online, online_date, offline, ..." with the given prefix.
func stageColumns(prefix string) string {
	cols := make([]string, 0, 2*len(Stages))
	for _, s := range Stages {
		cols = append(cols, prefix+string(s), prefix+string(s)+"_date")
	}
	return strings.Join(cols, ", ")
}

var tenderSelect = `SELECT t.id, t.work_id, w.name_of_work, t.technical_sanction_id, t.tender_number,
		t.date, t.agency_name, ` + stageColumns("t.") + `, t.is_demo, t.created_at, t.updated_at
	FROM tender t JOIN work w ON w.id = t.work_id`

func scanTender(row pgx.Row) (Tender, error) {
	var t Tender
	done := make([]bool, len(Stages))
	dates := make([]*time.Time, len(Stages))
	dest := []any{&t.Id, &t.WorkId, &t.WorkName, &t.TechnicalSanctionId, &t.TenderNumber, &t.Date, &t.AgencyName}
	for i := range Stages {
		dest = append(dest, &done[i], &dates[i])
	}
	dest = append(dest, &t.IsDemo, &t.CreatedAt, &t.UpdatedAt)
	if err := row.Scan(dest...); err != nil {
		return Tender{}, err
	}
	t.Stages = make(map[Stage]StageStatus, len(Stages))
	for i, s := range Stages {
		t.Stages[s] = StageStatus{Done: done[i], Date: dates[i]}
	}
	return t, nil
}

// stageArgs flattens the stages into column order.
func stageArgs(t Tender) []any {
	args := make([]any, 0, 2*len(Stages))
	for _, s := range Stages {
		st := t.Stage(s)
		args = append(args, st.Done, st.Date)
	}
	return args
}

func (r *RepositoryImpl) List(ctx context.Context, demo bool, workId *int) ([]Tender, error) {
	query := tenderSelect + ` WHERE t.is_demo = $1 AND ($2::int IS NULL OR t.work_id = $2) ORDER BY t.date DESC, t.id`
	rows, err := r.db.Query(ctx, query, demo, workId)
	if err != nil {
		err := fmt.Errorf("could not execute query: %v", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	result := make([]Tender, 0)
	for rows.Next() {
		t, err := scanTender(rows)
		if err != nil {
			err := fmt.Errorf("error scanning row: %w", err)
			log.Error(err)
			return nil, err
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}
	return result, nil
}

func (r *RepositoryImpl) Get(ctx context.Context, demo bool, id int) (Tender, error) {
	t, err := scanTender(r.db.QueryRow(ctx, tenderSelect+` WHERE t.id = $1 AND t.is_demo = $2`, id, demo))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Tender{}, ErrTenderNotFound
		}
		err := fmt.Errorf("could not execute query: %v", err)
		log.Error(err)
		return Tender{}, err
	}
	return t, nil
}

// checkReferences verifies the work exists in the data set and, when a
// technical sanction is given, that it was issued for that work.
func (r *RepositoryImpl) checkReferences(ctx context.Context, demo bool, t Tender) error {
	var workOk, tsOk bool
	err := r.db.QueryRow(ctx, `SELECT
			EXISTS (SELECT 1 FROM work WHERE id = $1 AND is_demo = $3),
			$2::int IS NULL OR EXISTS (SELECT 1 FROM technical_sanction WHERE id = $2 AND work_id = $1 AND is_demo = $3)`,
		t.WorkId, t.TechnicalSanctionId, demo).Scan(&workOk, &tsOk)
	if err != nil {
		err := fmt.Errorf("could not execute query: %v", err)
		log.Error(err)
		return err
	}
	if !workOk {
		return ErrWorkNotFound
	}
	if !tsOk {
		return ErrTechnicalSanctionMismatch
	}
	return nil
}

func (r *RepositoryImpl) Create(ctx context.Context, demo bool, t Tender) (Tender, error) {
	if err := r.checkReferences(ctx, demo, t); err != nil {
		return Tender{}, err
	}
	placeholders := make([]string, 0, 6+2*len(Stages))
	for i := 1; i <= 6+2*len(Stages); i++ {
		placeholders = append(placeholders, fmt.Sprintf("$%d", i))
	}
	query := `INSERT INTO tender (work_id, technical_sanction_id, tender_number, date, agency_name, is_demo, ` +
		stageColumns("") + `) VALUES (` + strings.Join(placeholders, ", ") + `) RETURNING id`
	args := append([]any{t.WorkId, t.TechnicalSanctionId, t.TenderNumber, t.Date, t.AgencyName, demo}, stageArgs(t)...)

	var id int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		if database.IsUniqueViolation(err) {
			return Tender{}, ErrDuplicateTenderNumber
		}
		err := fmt.Errorf("could not execute query: %v", err)
		log.Error(err)
		return Tender{}, err
	}
	return r.Get(ctx, demo, id)
}

func (r *RepositoryImpl) Update(ctx context.Context, demo bool, t Tender) (Tender, error) {
	if err := r.checkReferences(ctx, demo, t); err != nil {
		return Tender{}, err
	}
	sets := []string{"work_id = $1", "technical_sanction_id = $2", "tender_number = $3", "date = $4", "agency_name = $5"}
	n := 6
	for _, s := range Stages {
		sets = append(sets, fmt.Sprintf("%s = $%d", s, n), fmt.Sprintf("%s_date = $%d", s, n+1))
		n += 2
	}
	query := `UPDATE tender SET ` + strings.Join(sets, ", ") +
		fmt.Sprintf(`, updated_at = NOW() WHERE id = $%d AND is_demo = $%d`, n, n+1)
	args := append([]any{t.WorkId, t.TechnicalSanctionId, t.TenderNumber, t.Date, t.AgencyName}, stageArgs(t)...)
	args = append(args, t.Id, demo)

	result, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return Tender{}, ErrDuplicateTenderNumber
		}
		err := fmt.Errorf("could not execute query: %v", err)
		log.Error(err)
		return Tender{}, err
	}
	if result.RowsAffected() == 0 {
		return Tender{}, ErrTenderNotFound
	}
	return r.Get(ctx, demo, t.Id)
}

func (r *RepositoryImpl) Delete(ctx context.Context, demo bool, id int) (bool, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM tender WHERE id = $1 AND is_demo = $2`, id, demo)
	if err != nil {
		err := fmt.Errorf("could not execute query: %v", err)
		log.Error(err)
		return false, err
	}
	return result.RowsAffected() > 0, nil
}
