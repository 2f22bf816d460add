package scheduler

import (
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/lendbook/loan-service/internal/ledger"
	"github.com/lendbook/loan-service/internal/service"
	"github.com/lendbook/loan-service/internal/utils/email"
)

// Scheduler runs the periodic outstanding-loans report. Status figures are
// recomputed from the payment history at report time, same as on reads.
type Scheduler struct {
	cron   *cron.Cron
	store  service.Store
	sender *email.Sender
	spec   string
	log    *logrus.Logger
}

// New initializes the scheduler. sender may be nil, in which case the
// report is only logged.
func New(store service.Store, sender *email.Sender, spec string, log *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		store:  store,
		sender: sender,
		spec:   spec,
		log:    log,
	}
}

// Start registers the report job and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.runReport); err != nil {
		return err
	}
	s.cron.Start()
	s.log.Infof("Outstanding-loans report scheduled: %q", s.spec)
	return nil
}

// Stop stops the cron loop.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}

func (s *Scheduler) runReport() {
	loans, err := s.store.FindAllLoans()
	if err != nil {
		s.log.Errorf("Report failed to list loans: %v", err)
		return
	}

	var outstanding []email.OutstandingLoan
	var total float64
	for i := range loans {
		loan := &loans[i]
		payments, err := s.store.FindPaymentsByLoan(loan.ID)
		if err != nil {
			s.log.Errorf("Report failed to load payments for loan %d: %v", loan.ID, err)
			return
		}
		status := ledger.Status(loan, payments)
		if status.Balance <= 0 {
			continue
		}
		outstanding = append(outstanding, email.OutstandingLoan{
			LoanID:     loan.ID,
			CustomerID: loan.CustomerID,
			Balance:    ledger.Round2(status.Balance),
			EMIsLeft:   status.EMIsLeft,
		})
		total += status.Balance
	}

	s.log.Infof("Outstanding loans: %d, total balance %.2f", len(outstanding), total)

	if s.sender == nil {
		return
	}
	if err := s.sender.SendOutstandingReport(outstanding); err != nil {
		s.log.Errorf("Failed to send outstanding-loans report: %v", err)
	}
}
