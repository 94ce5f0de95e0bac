package application

import (
	"time"

	"github.com/finops-tools/azure-cost-alerts-cli/internal/domain"
)

type WriteOutcome string

const (
	// OutcomeCreated: the subscription had no anomaly alert before.
	OutcomeCreated WriteOutcome = "created"
	// OutcomeReplaced: the write overwrote a fully expired alert set.
	OutcomeReplaced WriteOutcome = "replaced"
	OutcomeFailed   WriteOutcome = "failed"
)

type WriteResult struct {
	Subscription domain.Subscription
	Outcome      WriteOutcome
	Reason       string
}

// ScanReport is one classification pass over a subscription set.
type ScanReport struct {
	Classification domain.Classification
	ScannedAt      time.Time
}

// ApplyReport collects write results for the pass's work list. Each
// subscription's outcome is independent: a failed write never stops the
// remaining ones.
type ApplyReport struct {
	Results []WriteResult
}

func (r ApplyReport) Count(outcome WriteOutcome) int {
	n := 0
	for _, result := range r.Results {
		if result.Outcome == outcome {
			n++
		}
	}
	return n
}

func (r ApplyReport) Succeeded() int {
	return r.Count(OutcomeCreated) + r.Count(OutcomeReplaced)
}

func (r ApplyReport) Failed() int {
	return r.Count(OutcomeFailed)
}
