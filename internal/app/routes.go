package app

import (
	"github.com/gorilla/mux"
	"github.com/worksledger/worksledger/internal/config"
)

// RegisterRoutes registers all API endpoints. The demo data set is served
// under /api/demo with the same routes, so it is registered first.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {
	if cfg.Demo.Enabled {
		demoApi := r.PathPrefix("/api/demo").Subrouter()
		demoApi.Use(DemoDataSet)
		demoApi.HandleFunc("/reset", deps.DemoHandler.Reset).Methods("POST")
		registerDataRoutes(demoApi, deps)
	}

	api := r.PathPrefix("/api").Subrouter()
	registerDataRoutes(api, deps)
}

func registerDataRoutes(r *mux.Router, deps *Dependencies) {
	// GRs
	r.HandleFunc("/grs", deps.GRHandler.List).Methods("GET")
	r.HandleFunc("/grs", deps.GRHandler.Create).Methods("POST")
	r.HandleFunc("/grs/{id:[0-9]+}", deps.GRHandler.Get).Methods("GET")
	r.HandleFunc("/grs/{id:[0-9]+}", deps.GRHandler.Update).Methods("PUT")
	r.HandleFunc("/grs/{id:[0-9]+}", deps.GRHandler.Delete).Methods("DELETE")

	// Works and spills
	r.HandleFunc("/works", deps.WorkHandler.ListWorks).Methods("GET")
	r.HandleFunc("/works", deps.WorkHandler.CreateWork).Methods("POST")
	r.HandleFunc("/works/{id:[0-9]+}", deps.WorkHandler.GetWork).Methods("GET")
	r.HandleFunc("/works/{id:[0-9]+}", deps.WorkHandler.UpdateWork).Methods("PUT")
	r.HandleFunc("/works/{id:[0-9]+}", deps.WorkHandler.DeleteWork).Methods("DELETE")
	r.HandleFunc("/spills", deps.WorkHandler.ListSpills).Methods("GET")
	r.HandleFunc("/spills", deps.WorkHandler.CreateSpill).Methods("POST")
	r.HandleFunc("/spills/{id:[0-9]+}", deps.WorkHandler.UpdateSpill).Methods("PUT")
	r.HandleFunc("/spills/{id:[0-9]+}", deps.WorkHandler.DeleteSpill).Methods("DELETE")

	// Technical sanctions
	r.HandleFunc("/technical-sanctions", deps.TechnicalSanctionHandler.List).Methods("GET")
	r.HandleFunc("/technical-sanctions", deps.TechnicalSanctionHandler.Create).Methods("POST")
	r.HandleFunc("/technical-sanctions/{id:[0-9]+}", deps.TechnicalSanctionHandler.Get).Methods("GET")
	r.HandleFunc("/technical-sanctions/{id:[0-9]+}", deps.TechnicalSanctionHandler.Update).Methods("PUT")
	r.HandleFunc("/technical-sanctions/{id:[0-9]+}", deps.TechnicalSanctionHandler.Delete).Methods("DELETE")

	// Tenders
	r.HandleFunc("/tenders", deps.TenderHandler.List).Methods("GET")
	r.HandleFunc("/tenders", deps.TenderHandler.Create).Methods("POST")
	r.HandleFunc("/tenders/{id:[0-9]+}", deps.TenderHandler.Get).Methods("GET")
	r.HandleFunc("/tenders/{id:[0-9]+}", deps.TenderHandler.Update).Methods("PUT")
	r.HandleFunc("/tenders/{id:[0-9]+}", deps.TenderHandler.Delete).Methods("DELETE")

	// Bills
	r.HandleFunc("/bills/export", deps.BillHandler.Export).Methods("GET")
	r.HandleFunc("/bills", deps.BillHandler.List).Methods("GET")
	r.HandleFunc("/bills", deps.BillHandler.Create).Methods("POST")
	r.HandleFunc("/bills/{id:[0-9]+}", deps.BillHandler.Get).Methods("GET")
	r.HandleFunc("/bills/{id:[0-9]+}", deps.BillHandler.Update).Methods("PUT")
	r.HandleFunc("/bills/{id:[0-9]+}", deps.BillHandler.Delete).Methods("DELETE")

	// Status dashboard
	r.HandleFunc("/status", deps.StatusHandler.Get).Methods("GET")

	// Stateless calculation
	r.HandleFunc("/calculate/bill", deps.CalcHandler.Bill).Methods("POST")
	r.HandleFunc("/calculate/technical-sanction", deps.CalcHandler.TechnicalSanction).Methods("POST")

	// Form sessions
	r.HandleFunc("/forms/bill", deps.FormHandler.OpenBill).Methods("POST")
	r.HandleFunc("/forms/technical-sanction", deps.FormHandler.OpenTechnicalSanction).Methods("POST")
	r.HandleFunc("/forms/{id}", deps.FormHandler.Get).Methods("GET")
	r.HandleFunc("/forms/{id}", deps.FormHandler.Close).Methods("DELETE")
	r.HandleFunc("/forms/{id}/input/{field}", deps.FormHandler.SetInput).Methods("PUT")
	r.HandleFunc("/forms/{id}/derived/{field}", deps.FormHandler.Override).Methods("PUT")
	r.HandleFunc("/forms/{id}/derived/{field}", deps.FormHandler.Release).Methods("DELETE")
	r.HandleFunc("/forms/{id}/milestone/{name}", deps.FormHandler.SetMilestone).Methods("PUT")
	r.HandleFunc("/forms/{id}/submit", deps.FormHandler.Submit).Methods("POST")
}
