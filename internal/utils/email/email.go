package email

import (
	"fmt"
	"net/smtp"
	"time"

	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"

	"github.com/lendbook/loan-service/internal/config"
)

// OutstandingLoan is one line of the outstanding-loans report.
type OutstandingLoan struct {
	LoanID     int64
	CustomerID string
	Balance    float64
	EMIsLeft   int
}

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
	}
}

// SendOutstandingReport sends the daily outstanding-loans summary to the
// configured ops address.
func (s *Sender) SendOutstandingReport(loans []OutstandingLoan) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{s.cfg.ReportEmail}
	e.Subject = fmt.Sprintf("Outstanding Loans Report %s", time.Now().UTC().Format("2006-01-02"))

	body := fmt.Sprintf("Outstanding loans as of %s:\n\n", time.Now().UTC().Format("2006-01-02 15:04"))
	if len(loans) == 0 {
		body += "No loans with an outstanding balance.\n"
	}
	var total float64
	for _, loan := range loans {
		body += fmt.Sprintf(
			"Loan %d (customer %s): balance %.2f, %d EMIs left\n",
			loan.LoanID, loan.CustomerID, loan.Balance, loan.EMIsLeft,
		)
		total += loan.Balance
	}
	body += fmt.Sprintf("\nTotal outstanding: %.2f across %d loans\n", total, len(loans))
	body += "\nBest regards,\nLoan Service"
	e.Text = []byte(body)

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	if err := e.Send(addr, auth); err != nil {
		s.logger.Errorf("Failed to send report to %s: %v", s.cfg.ReportEmail, err)
		return fmt.Errorf("failed to send report: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", s.cfg.ReportEmail, e.Subject)
	return nil
}
