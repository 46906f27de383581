// Package reporting collects one journal entry per routed operation and
// summarizes them into a retrospective report for operability reviews.
package reporting

import (
	"sync"
	"time"
)

// LogEntry represents a single routed payment operation.
type LogEntry struct {
	Timestamp    time.Time `json:"timestamp"`
	RequestID    string    `json:"requestId"`
	PaymentID    string    `json:"paymentId"`
	PaymentType  string    `json:"paymentType"`
	Operation    string    `json:"operation"` // simulate, execute, simulate_cancellation, cancel, schedule
	Rail         string    `json:"rail"`
	Status       string    `json:"status"`
	Success      bool      `json:"success"`
	AmountMinor  int64     `json:"amountMinor"`
	Currency     string    `json:"currency"`
	ErrorCode    string    `json:"errorCode,omitempty"`
	ScaRequired  bool      `json:"scaRequired"`
	ScaCompleted bool      `json:"scaCompleted"`
}

// Journal receives entries from the routing service.
type Journal interface {
	Record(e LogEntry)
}

// MemoryJournal is the in-process Journal.
type MemoryJournal struct {
	mu      sync.Mutex
	entries []LogEntry
}

// NewMemoryJournal creates an empty MemoryJournal.
func NewMemoryJournal() *MemoryJournal {
	return &MemoryJournal{}
}

var _ Journal = (*MemoryJournal)(nil)

func (j *MemoryJournal) Record(e LogEntry) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, e)
}

// Entries returns a copy of the recorded entries.
func (j *MemoryJournal) Entries() []LogEntry {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]LogEntry, len(j.entries))
	copy(out, j.entries)
	return out
}

// RetrospectiveReport summarizes routed operations.
type RetrospectiveReport struct {
	TotalOperations      int              `json:"totalOperations"`
	SuccessfulOperations int              `json:"successfulOperations"`
	FailedOperations     int              `json:"failedOperations"`
	ScaRequiredCount     int              `json:"scaRequiredCount"`
	ScaCompletedCount    int              `json:"scaCompletedCount"`
	OperationBreakdown   map[string]int   `json:"operationBreakdown"`
	RailUsage            map[string]int   `json:"railUsage"`
	ErrorBreakdown       map[string]int   `json:"errorBreakdown"`
	AmountByCurrency     map[string]int64 `json:"amountByCurrency"` // successful executes only
	DateFrom             time.Time        `json:"dateFrom"`
	DateTo               time.Time        `json:"dateTo"`
}

// RetrospectiveReporter generates retrospective reports from journal entries.
type RetrospectiveReporter struct{}

// NewRetrospectiveReporter creates a new RetrospectiveReporter.
func NewRetrospectiveReporter() *RetrospectiveReporter {
	return &RetrospectiveReporter{}
}

// GenerateRetrospective analyzes journal entries and produces a report.
func (rr *RetrospectiveReporter) GenerateRetrospective(entries []LogEntry) *RetrospectiveReport {
	report := &RetrospectiveReport{
		OperationBreakdown: make(map[string]int),
		RailUsage:          make(map[string]int),
		ErrorBreakdown:     make(map[string]int),
		AmountByCurrency:   make(map[string]int64),
	}
	for i, e := range entries {
		report.TotalOperations++
		if i == 0 || e.Timestamp.Before(report.DateFrom) {
			report.DateFrom = e.Timestamp
		}
		if e.Timestamp.After(report.DateTo) {
			report.DateTo = e.Timestamp
		}

		report.OperationBreakdown[e.Operation]++
		if e.Rail != "" {
			report.RailUsage[e.Rail]++
		}
		if e.ScaRequired {
			report.ScaRequiredCount++
		}
		if e.ScaCompleted {
			report.ScaCompletedCount++
		}

		if e.Success {
			report.SuccessfulOperations++
			if e.Operation == "execute" {
				report.AmountByCurrency[e.Currency] += e.AmountMinor
			}
		} else {
			report.FailedOperations++
			if e.ErrorCode != "" {
				report.ErrorBreakdown[e.ErrorCode]++
			}
		}
	}
	return report
}
