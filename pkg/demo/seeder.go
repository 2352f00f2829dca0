// Package demo maintains the demo data set: a fixed, realistic set of GRs,
// works, sanctions, tenders and bills stored with is_demo set.
package demo

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/worksledger/worksledger/internal/utils"
	"github.com/worksledger/worksledger/pkg/bill"
	"github.com/worksledger/worksledger/pkg/dataset"
	"github.com/worksledger/worksledger/pkg/gr"
	"github.com/worksledger/worksledger/pkg/technical_sanction"
	"github.com/worksledger/worksledger/pkg/tender"
	"github.com/worksledger/worksledger/pkg/work"
)

// Summary counts what a seed run removed and created.
type Summary struct {
	Cleared            Cleared
	GRs                int
	Works              int
	Spills             int
	TechnicalSanctions int
	Tenders            int
	Bills              int
}

// Seeder runs one clear or seed at a time. The runs of separate processes
// are not serialized.
type Seeder struct {
	mu        sync.Mutex
	repo      Repository
	grs       gr.Service
	works     work.Service
	sanctions technical_sanction.Service
	tenders   tender.Service
	bills     bill.Service
	clock     utils.Clock
}

func NewSeeder(repo Repository, grs gr.Service, works work.Service, sanctions technical_sanction.Service,
	tenders tender.Service, bills bill.Service, clock utils.Clock) *Seeder {
	return &Seeder{repo: repo, grs: grs, works: works, sanctions: sanctions, tenders: tenders, bills: bills, clock: clock}
}

type workSeed struct {
	name   string
	aaLakh int64
	raPct  int64
}

var grSeeds = []struct {
	number  string
	daysAgo int
	works   []workSeed
}{
	{"GR/DEMO/2025/001", 120, []workSeed{{"Road Construction and Widening", 250, 80}, {"Bridge Construction", 420, 75}}},
	{"GR/DEMO/2025/002", 90, []workSeed{{"Water Supply Pipeline", 180, 85}, {"Drainage System", 95, 90}}},
	{"GR/DEMO/2025/003", 60, []workSeed{{"Building Renovation", 60, 70}, {"Street Lighting Installation", 75, 80}}},
	{"GR/DEMO/2025/004", 30, []workSeed{{"Park Development", 130, 85}}},
}

var lakh = decimal.NewFromInt(100000)

// Clear removes the demo data set.
func (s *Seeder) Clear(ctx context.Context) (Cleared, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clear(ctx)
}

func (s *Seeder) clear(ctx context.Context) (Cleared, error) {
	cleared, err := s.repo.Clear(ctx)
	if err != nil {
		return Cleared{}, err
	}
	log.WithFields(log.Fields{"rows": cleared.Total()}).Info("Cleared demo data")
	return cleared, nil
}

// Seed replaces the demo data set. Records are created through the domain
// services so derived amounts, stage dates and events follow the live rules.
// Each record commits on its own: a run that fails partway leaves the demo
// data set partially seeded until the next successful Seed.
func (s *Seeder) Seed(ctx context.Context) (Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ctx = dataset.WithDemo(ctx, true)
	cleared, err := s.clear(ctx)
	if err != nil {
		return Summary{}, err
	}
	summary := Summary{Cleared: cleared}
	today := utils.Today(s.clock)

	var works []work.Work
	for _, g := range grSeeds {
		created, err := s.grs.Create(ctx, gr.GR{Number: g.number, Date: today.AddDate(0, 0, -g.daysAgo)})
		if err != nil {
			return summary, fmt.Errorf("seed gr %s: %w", g.number, err)
		}
		summary.GRs++
		for i, ws := range g.works {
			aa := decimal.NewFromInt(ws.aaLakh).Mul(lakh)
			w, err := s.works.Create(ctx, work.Work{
				GrId: created.Id,
				Date: created.Date.AddDate(0, 0, 7*(i+1)),
				Name: ws.name,
				AA:   aa,
				RA:   aa.Mul(decimal.NewFromInt(ws.raPct)).Div(decimal.NewFromInt(100)).Round(2),
			})
			if err != nil {
				return summary, fmt.Errorf("seed work %s: %w", ws.name, err)
			}
			works = append(works, w)
			summary.Works++
		}
	}

	// spills on the first half of the works, using half of the AA headroom
	for _, w := range works[:len(works)/2] {
		headroom := w.AA.Sub(w.RA)
		if !headroom.IsPositive() {
			continue
		}
		if _, err := s.works.AddSpill(ctx, work.Spill{WorkId: w.Id, ARA: headroom.Div(decimal.NewFromInt(2)).Round(2)}); err != nil {
			return summary, fmt.Errorf("seed spill for work %d: %w", w.Id, err)
		}
		summary.Spills++
	}

	var sanctions []technical_sanction.TechnicalSanction
	for i, w := range works {
		wp := w.RA.Mul(decimal.RequireFromString("0.8")).Round(2)
		req := technical_sanction.WriteRequest{
			Work:                      w.Id,
			SubName:                   "Main works",
			WorkPortion:               wp,
			Royalty:                   wp.Mul(decimal.RequireFromString("0.02")).Round(2),
			Testing:                   wp.Mul(decimal.RequireFromString("0.01")).Round(2),
			Consultancy:               wp.Mul(decimal.RequireFromString("0.015")).Round(2),
			GSTPercentage:             decimal.NewFromInt(18),
			ContingencyPercentage:     decimal.NewFromInt(4),
			LabourInsurancePercentage: decimal.NewFromInt(1),
			Noting:                    i%3 != 2,
			Order:                     i%3 == 0,
		}
		ts, err := s.sanctions.Create(ctx, req)
		if err != nil {
			return summary, fmt.Errorf("seed technical sanction for work %d: %w", w.Id, err)
		}
		sanctions = append(sanctions, ts)
		summary.TechnicalSanctions++
	}

	var tenders []tender.Tender
	for i, ts := range sanctions[:(len(sanctions)+1)/2] {
		tsId := ts.Id
		req := tender.WriteRequest{
			Work:                  ts.WorkId,
			TechnicalSanction:     &tsId,
			TenderNumber:          fmt.Sprintf("TND/DEMO/%03d", i+1),
			AgencyName:            demoAgencies[i%len(demoAgencies)],
			Online:                true,
			Offline:               true,
			TechnicalVerification: i%2 == 0,
			FinancialVerification: i%2 == 0,
			LOA:                   i%2 == 0,
			WorkOrder:             i == 0,
		}
		t, err := s.tenders.Create(ctx, req)
		if err != nil {
			return summary, fmt.Errorf("seed tender %s: %w", req.TenderNumber, err)
		}
		tenders = append(tenders, t)
		summary.Tenders++
	}

	payingGR := works[0].GrId
	for i, t := range tenders[:(len(tenders)+1)/2] {
		for n := 1; n <= 2; n++ {
			in := sanctions[i].Inputs
			tenderId := t.Id
			req := bill.WriteRequest{
				Tender:                     &tenderId,
				BillNumber:                 fmt.Sprintf("RA-%d/%s", n, t.TenderNumber),
				WorkPortion:                in.WorkPortion.Div(decimal.NewFromInt(4)).Round(2),
				RoyaltyAndTesting:          in.Royalty.Add(in.Testing).Div(decimal.NewFromInt(4)).Round(2),
				GSTPercentage:              decimal.NewFromInt(18),
				SecurityDeposit:            in.WorkPortion.Div(decimal.NewFromInt(40)).Round(2),
				TDSPercentage:              decimal.NewFromInt(2),
				GSTOnWorkPortionPercentage: decimal.NewFromInt(2),
				LWCPercentage:              decimal.NewFromInt(1),
			}
			if n == 1 {
				req.PaymentDoneFromGR = &payingGR
			}
			if _, err := s.bills.Create(ctx, req); err != nil {
				return summary, fmt.Errorf("seed bill %s: %w", req.BillNumber, err)
			}
			summary.Bills++
		}
	}

	log.WithFields(log.Fields{
		"grs":                 summary.GRs,
		"works":               summary.Works,
		"spills":              summary.Spills,
		"technical_sanctions": summary.TechnicalSanctions,
		"tenders":             summary.Tenders,
		"bills":               summary.Bills,
	}).Info("Seeded demo data")
	return summary, nil
}

var demoAgencies = []string{"Sahyadri Infra Pvt Ltd", "Godavari Constructions", "Konkan Civil Works", "Vidarbha Engineers"}
