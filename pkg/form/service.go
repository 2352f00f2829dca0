package form

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"
	"github.com/worksledger/worksledger/internal/utils"
	"github.com/worksledger/worksledger/pkg/bill"
	"github.com/worksledger/worksledger/pkg/dataset"
	"github.com/worksledger/worksledger/pkg/technical_sanction"
)

type Service interface {
	// OpenBill opens a bill form, for edit when billId is given.
	OpenBill(ctx context.Context, billId *int, tenderId *int) (View, error)
	// OpenTechnicalSanction opens a sanction form, for edit when tsId is given.
	OpenTechnicalSanction(ctx context.Context, tsId *int, workId *int) (View, error)
	Get(ctx context.Context, id string) (View, error)
	SetInput(ctx context.Context, id, field, raw string) (View, error)
	Override(ctx context.Context, id, field, raw string) (View, error)
	Release(ctx context.Context, id, field string) (View, error)
	SetMilestone(ctx context.Context, id, name string, done bool) (View, error)
	// Submit saves the form through the owning service and closes the
	// session. A failed save leaves the session untouched. While a save is
	// in flight the session rejects every request with ErrSubmitInProgress.
	Submit(ctx context.Context, id string) (Submission, error)
	Close(ctx context.Context, id string) error
}

// Submission is the record a form was saved as. Exactly one of Bill and
// TechnicalSanction is set.
type Submission struct {
	Created           bool
	Bill              *bill.Bill
	TechnicalSanction *technical_sanction.TechnicalSanction
}

type ServiceImpl struct {
	store     *Store
	bills     bill.Service
	sanctions technical_sanction.Service
	clock     utils.Clock
}

func NewService(store *Store, bills bill.Service, sanctions technical_sanction.Service, clock utils.Clock) Service {
	return &ServiceImpl{store: store, bills: bills, sanctions: sanctions, clock: clock}
}

func (s *ServiceImpl) OpenBill(ctx context.Context, billId *int, tenderId *int) (View, error) {
	f := NewBillForm()
	if billId != nil {
		b, err := s.bills.Get(ctx, *billId)
		if err != nil {
			return View{}, err
		}
		f.OpenEdit(b)
	} else {
		f.OpenCreate(tenderId)
	}
	return s.register(ctx, f), nil
}

func (s *ServiceImpl) OpenTechnicalSanction(ctx context.Context, tsId *int, workId *int) (View, error) {
	f := NewTSForm(s.clock)
	if tsId != nil {
		ts, err := s.sanctions.Get(ctx, *tsId)
		if err != nil {
			return View{}, err
		}
		f.OpenEdit(ts)
	} else {
		f.OpenCreate(workId)
	}
	return s.register(ctx, f), nil
}

func (s *ServiceImpl) register(ctx context.Context, f Form) View {
	id := s.store.Add(dataset.IsDemo(ctx), f)
	log.Debugf("opened %s form session %s (record %d)", f.Kind(), id, f.RecordId())
	view := f.View()
	view.Id = id
	return view
}

// update applies fn to the session and returns the resulting snapshot.
func (s *ServiceImpl) update(ctx context.Context, id string, fn func(Form) error) (View, error) {
	var view View
	err := s.store.Do(id, dataset.IsDemo(ctx), func(f Form) error {
		if err := fn(f); err != nil {
			return err
		}
		view = f.View()
		return nil
	})
	if err != nil {
		return View{}, err
	}
	view.Id = id
	return view, nil
}

func (s *ServiceImpl) Get(ctx context.Context, id string) (View, error) {
	return s.update(ctx, id, func(Form) error { return nil })
}

func (s *ServiceImpl) SetInput(ctx context.Context, id, field, raw string) (View, error) {
	return s.update(ctx, id, func(f Form) error { return f.SetInput(field, raw) })
}

func (s *ServiceImpl) Override(ctx context.Context, id, field, raw string) (View, error) {
	return s.update(ctx, id, func(f Form) error { return f.Override(field, raw) })
}

func (s *ServiceImpl) Release(ctx context.Context, id, field string) (View, error) {
	return s.update(ctx, id, func(f Form) error { return f.Release(field) })
}

func (s *ServiceImpl) SetMilestone(ctx context.Context, id, name string, done bool) (View, error) {
	return s.update(ctx, id, func(f Form) error {
		ts, ok := f.(*TSForm)
		if !ok {
			return ErrMilestoneNotBound
		}
		return ts.SetMilestone(name, done)
	})
}

func (s *ServiceImpl) Submit(ctx context.Context, id string) (Submission, error) {
	var billReq *bill.WriteRequest
	var tsReq *technical_sanction.WriteRequest
	var recordId int
	demo := dataset.IsDemo(ctx)
	err := s.store.Claim(id, demo, func(f Form) error {
		recordId = f.RecordId()
		switch f := f.(type) {
		case *BillForm:
			req, err := f.Payload()
			if err != nil {
				return err
			}
			billReq = &req
		case *TSForm:
			req, err := f.Payload()
			if err != nil {
				return err
			}
			tsReq = &req
		default:
			return errors.New("unsupported form")
		}
		return nil
	})
	if err != nil {
		return Submission{}, err
	}

	sub := Submission{Created: recordId == 0}
	switch {
	case billReq != nil:
		var b bill.Bill
		if sub.Created {
			b, err = s.bills.Create(ctx, *billReq)
		} else {
			b, err = s.bills.Update(ctx, recordId, *billReq)
		}
		sub.Bill = &b
	case tsReq != nil:
		var ts technical_sanction.TechnicalSanction
		if sub.Created {
			ts, err = s.sanctions.Create(ctx, *tsReq)
		} else {
			ts, err = s.sanctions.Update(ctx, recordId, *tsReq)
		}
		sub.TechnicalSanction = &ts
	}
	if err != nil {
		log.Debugf("form session %s submit rejected: %v", id, err)
		s.store.Unclaim(id, demo)
		return Submission{}, err
	}
	s.store.Remove(id, demo)
	return sub, nil
}

func (s *ServiceImpl) Close(ctx context.Context, id string) error {
	if !s.store.Remove(id, dataset.IsDemo(ctx)) {
		return ErrSessionNotFound
	}
	return nil
}
