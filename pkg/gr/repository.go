package gr

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"github.com/worksledger/worksledger/internal/database"
)

var ErrGRNotFound = errors.New("gr not found")
var ErrDuplicateGRNumber = errors.New("gr number already exists")

type Repository interface {
	List(ctx context.Context, demo bool) ([]GR, error)
	Get(ctx context.Context, demo bool, id int) (GR, error)
	Create(ctx context.Context, demo bool, gr GR) (GR, error)
	Update(ctx context.Context, demo bool, gr GR) (GR, error)
	Delete(ctx context.Context, demo bool, id int) (bool, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

const grColumns = `id, gr_number, date, is_demo, created_at, updated_at`

func scanGR(row pgx.Row) (GR, error) {
	var g GR
	err := row.Scan(&g.Id, &g.Number, &g.Date, &g.IsDemo, &g.CreatedAt, &g.UpdatedAt)
	return g, err
}

func (r *RepositoryImpl) List(ctx context.Context, demo bool) ([]GR, error) {
	query := `SELECT ` + grColumns + ` FROM gr WHERE is_demo = $1 ORDER BY date DESC, id DESC`
	rows, err := r.db.Query(ctx, query, demo)
	if err != nil {
		err := fmt.Errorf("could not execute query: %v", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	grs := make([]GR, 0)
	for rows.Next() {
		g, err := scanGR(rows)
		if err != nil {
			err := fmt.Errorf("error scanning row: %w", err)
			log.Error(err)
			return nil, err
		}
		grs = append(grs, g)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}
	return grs, nil
}

func (r *RepositoryImpl) Get(ctx context.Context, demo bool, id int) (GR, error) {
	query := `SELECT ` + grColumns + ` FROM gr WHERE id = $1 AND is_demo = $2`
	g, err := scanGR(r.db.QueryRow(ctx, query, id, demo))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return GR{}, ErrGRNotFound
		}
		err := fmt.Errorf("could not execute query: %v", err)
		log.Error(err)
		return GR{}, err
	}
	return g, nil
}

func (r *RepositoryImpl) Create(ctx context.Context, demo bool, gr GR) (GR, error) {
	query := `INSERT INTO gr (gr_number, date, is_demo) VALUES ($1, $2, $3) RETURNING ` + grColumns
	created, err := scanGR(r.db.QueryRow(ctx, query, gr.Number, gr.Date, demo))
	if err != nil {
		if database.IsUniqueViolation(err) {
			return GR{}, ErrDuplicateGRNumber
		}
		err := fmt.Errorf("could not execute query: %v", err)
		log.Error(err)
		return GR{}, err
	}
	return created, nil
}

func (r *RepositoryImpl) Update(ctx context.Context, demo bool, gr GR) (GR, error) {
	query := `UPDATE gr SET gr_number = $1, date = $2, updated_at = NOW()
			  WHERE id = $3 AND is_demo = $4 RETURNING ` + grColumns
	updated, err := scanGR(r.db.QueryRow(ctx, query, gr.Number, gr.Date, gr.Id, demo))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return GR{}, ErrGRNotFound
		}
		if database.IsUniqueViolation(err) {
			return GR{}, ErrDuplicateGRNumber
		}
		err := fmt.Errorf("could not execute query: %v", err)
		log.Error(err)
		return GR{}, err
	}
	return updated, nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, demo bool, id int) (bool, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM gr WHERE id = $1 AND is_demo = $2`, id, demo)
	if err != nil {
		err := fmt.Errorf("could not execute query: %v", err)
		log.Error(err)
		return false, err
	}
	return result.RowsAffected() > 0, nil
}
