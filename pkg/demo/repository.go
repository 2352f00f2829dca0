package demo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

// Cleared counts the demo rows removed per table.
type Cleared struct {
	GRs                int
	Works              int
	Spills             int
	TechnicalSanctions int
	Tenders            int
	Bills              int
}

func (c Cleared) Total() int {
	return c.GRs + c.Works + c.Spills + c.TechnicalSanctions + c.Tenders + c.Bills
}

type Repository interface {
	// Clear deletes every demo row; live rows are never touched.
	Clear(ctx context.Context) (Cleared, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) Clear(ctx context.Context) (Cleared, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		err := fmt.Errorf("could not begin transaction: %v", err)
		log.Error(err)
		return Cleared{}, err
	}
	defer tx.Rollback(ctx)

	var c Cleared
	steps := []struct {
		table string
		count *int
	}{
		{"bill", &c.Bills},
		{"tender", &c.Tenders},
		{"technical_sanction", &c.TechnicalSanctions},
		{"spill", &c.Spills},
		{"work", &c.Works},
		{"gr", &c.GRs},
	}
	for _, step := range steps {
		result, err := tx.Exec(ctx, `DELETE FROM `+step.table+` WHERE is_demo = TRUE`)
		if err != nil {
			err := fmt.Errorf("could not clear demo %s rows: %v", step.table, err)
			log.Error(err)
			return Cleared{}, err
		}
		*step.count = int(result.RowsAffected())
	}
	if err := tx.Commit(ctx); err != nil {
		err := fmt.Errorf("could not commit transaction: %v", err)
		log.Error(err)
		return Cleared{}, err
	}
	return c, nil
}
