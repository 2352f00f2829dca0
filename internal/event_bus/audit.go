package event_bus

import (
	log "github.com/sirupsen/logrus"
	"github.com/worksledger/worksledger/pkg/dataset"
)

// RegisterAuditLog subscribes a structured log line to every domain event.
// The returned function removes all audit subscriptions.
func RegisterAuditLog(eb *EventBus) (unsubscribe func()) {
	unsubs := []func(){
		SubscribeTyped(eb, BillSavedEvent, func(e EventT[BillSaved]) error {
			log.WithFields(log.Fields{
				"event":      e.Type,
				"demo":       dataset.IsDemo(e.Context()),
				"billId":     e.Data.Id,
				"tenderId":   e.Data.TenderId,
				"created":    e.Data.Created,
				"overridden": e.Data.Overridden,
				"netAmount":  e.Data.NetAmount.StringFixed(2),
			}).Info("bill saved")
			return nil
		}),
		SubscribeTyped(eb, TechnicalSanctionSavedEvent, func(e EventT[TechnicalSanctionSaved]) error {
			log.WithFields(log.Fields{
				"event":      e.Type,
				"demo":       dataset.IsDemo(e.Context()),
				"tsId":       e.Data.Id,
				"workId":     e.Data.WorkId,
				"created":    e.Data.Created,
				"overridden": e.Data.Overridden,
				"finalTotal": e.Data.FinalTotal.StringFixed(2),
			}).Info("technical sanction saved")
			return nil
		}),
		SubscribeTyped(eb, WorkCancelledEvent, func(e EventT[WorkCancelled]) error {
			log.WithFields(log.Fields{
				"event":  e.Type,
				"demo":   dataset.IsDemo(e.Context()),
				"workId": e.Data.Id,
				"grId":   e.Data.GrId,
				"reason": e.Data.Reason,
			}).Warn("work cancelled")
			return nil
		}),
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}
