package app

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/worksledger/worksledger/internal/config"
	"github.com/worksledger/worksledger/internal/event_bus"
	"github.com/worksledger/worksledger/internal/utils"
	"github.com/worksledger/worksledger/pkg/bill"
	"github.com/worksledger/worksledger/pkg/calc"
	"github.com/worksledger/worksledger/pkg/demo"
	"github.com/worksledger/worksledger/pkg/form"
	"github.com/worksledger/worksledger/pkg/gr"
	"github.com/worksledger/worksledger/pkg/status"
	"github.com/worksledger/worksledger/pkg/technical_sanction"
	"github.com/worksledger/worksledger/pkg/tender"
	"github.com/worksledger/worksledger/pkg/work"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Clock    utils.Clock
	EventBus *event_bus.EventBus

	GRService gr.Service
	GRHandler *gr.Handler

	WorkService work.Service
	WorkHandler *work.Handler

	TechnicalSanctionService technical_sanction.Service
	TechnicalSanctionHandler *technical_sanction.Handler

	TenderService tender.Service
	TenderHandler *tender.Handler

	BillService bill.Service
	BillHandler *bill.Handler

	StatusService status.Service
	StatusHandler *status.Handler

	CalcHandler *calc.Handler

	FormStore   *form.Store
	FormService form.Service
	FormHandler *form.Handler

	DemoSeeder  *demo.Seeder
	DemoHandler *demo.Handler
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *pgxpool.Pool, cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.Clock = &utils.SystemClock{}
	deps.EventBus = event_bus.NewEventBus(deps.Clock)
	event_bus.RegisterAuditLog(deps.EventBus)

	deps.GRService = gr.NewService(gr.NewRepository(db))
	deps.GRHandler = gr.NewHandler(deps.GRService)

	deps.WorkService = work.NewService(work.NewRepository(db), deps.EventBus, deps.Clock)
	deps.WorkHandler = work.NewHandler(deps.WorkService)

	deps.TechnicalSanctionService = technical_sanction.NewService(technical_sanction.NewRepository(db), deps.EventBus, deps.Clock)
	deps.TechnicalSanctionHandler = technical_sanction.NewHandler(deps.TechnicalSanctionService)

	deps.TenderService = tender.NewService(tender.NewRepository(db), deps.Clock)
	deps.TenderHandler = tender.NewHandler(deps.TenderService)

	deps.BillService = bill.NewService(bill.NewRepository(db), deps.EventBus, deps.Clock)
	deps.BillHandler = bill.NewHandler(deps.BillService)

	deps.StatusService = status.NewService(status.NewRepository(db))
	deps.StatusHandler = status.NewHandler(deps.StatusService)

	deps.CalcHandler = calc.NewHandler()

	deps.FormStore = form.NewStore(cfg.Forms.SessionTTL, deps.Clock)
	deps.FormService = form.NewService(deps.FormStore, deps.BillService, deps.TechnicalSanctionService, deps.Clock)
	deps.FormHandler = form.NewHandler(deps.FormService)

	deps.DemoSeeder = demo.NewSeeder(demo.NewRepository(db), deps.GRService, deps.WorkService,
		deps.TechnicalSanctionService, deps.TenderService, deps.BillService, deps.Clock)
	deps.DemoHandler = demo.NewHandler(deps.DemoSeeder)

	return deps
}
