// Package service wires the engine to storage and observability. Each
// service owns one slice of the API surface and keeps handlers thin.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tabsplit/tabsplit/internal/calculator"
	"github.com/tabsplit/tabsplit/internal/metrics"
	"github.com/tabsplit/tabsplit/internal/models"
	"github.com/tabsplit/tabsplit/internal/money"
	"github.com/tabsplit/tabsplit/internal/storage"
)

// SplitResult is the full outcome of one computation: the export
// summary, the reconciliation verdict, and the amounts the strategy
// could not hand to anyone.
type SplitResult struct {
	Summary models.SplitSummary `json:"summary"`
	Verdict calculator.Verdict  `json:"verdict"`

	// Remainder is the unassigned portion of the computed total.
	Remainder money.Money `json:"remainder"`

	// RoundingDifference is the signed drift the rounding policy
	// introduced, reported for display.
	RoundingDifference money.Money `json:"rounding_difference"`
}

// SplitService computes splits and manages saved history.
type SplitService struct {
	store   storage.Store
	metrics *metrics.Metrics
}

// NewSplitService creates a SplitService with the given storage backend.
func NewSplitService(store storage.Store, m *metrics.Metrics) *SplitService {
	return &SplitService{store: store, metrics: m}
}

// Compute runs the full pipeline on a request: strategy, rounding
// normalization, reconciliation, summary. Pure with respect to storage;
// nothing is persisted.
func (s *SplitService) Compute(req *models.SplitRequest) (*SplitResult, error) {
	start := time.Now()

	alloc, err := calculator.Compute(req)
	if err != nil {
		return nil, err
	}
	norm, err := calculator.Normalize(alloc, req.Rounding)
	if err != nil {
		return nil, err
	}

	// The verdict compares what the payer was told against what the
	// participants will actually pay, so the unassigned remainder is
	// excluded from the computed side.
	allocated, err := alloc.ComputedTotal.Sub(alloc.Remainder)
	if err != nil {
		return nil, err
	}
	declared := req.DeclaredTotal
	if declared.IsZero() && declared.Currency() == "" {
		declared = alloc.ComputedTotal
	}
	verdict, err := calculator.Evaluate(declared, allocated, calculator.DefaultTolerance(req.Currency))
	if err != nil {
		return nil, err
	}

	s.metrics.IncrementSplit(string(req.Mode))
	s.metrics.IncrementOutcome(string(verdict.Outcome))
	s.metrics.ObserveComputeLatency(time.Since(start))

	return &SplitResult{
		Summary:            calculator.BuildSummary(req, norm, alloc.ComputedTotal),
		Verdict:            verdict,
		Remainder:          alloc.Remainder,
		RoundingDifference: norm.RoundingDifference,
	}, nil
}

// ComputeAndSave computes a split and persists it to the caller's
// history.
func (s *SplitService) ComputeAndSave(ctx context.Context, userID string, req *models.SplitRequest) (*SplitResult, *models.SplitRecord, error) {
	result, err := s.Compute(req)
	if err != nil {
		return nil, nil, err
	}

	declared := req.DeclaredTotal
	if declared.IsZero() && declared.Currency() == "" {
		declared = mustParse(result.Summary.Subtotal, req.Currency)
	}
	record := &models.SplitRecord{
		UserID:        userID,
		Summary:       result.Summary,
		DeclaredTotal: declared.Units(),
		ComputedTotal: mustParse(result.Summary.Subtotal, req.Currency).Units(),
		Difference:    result.Verdict.Difference.Units(),
		Matched:       result.Verdict.Matched(),
	}
	if err := s.store.CreateRecord(ctx, record); err != nil {
		slog.Error("Failed to save split record", "user_id", userID, "error", err)
		return nil, nil, fmt.Errorf("failed to save split: %w", err)
	}

	slog.Info("Split saved", "record_id", record.ID, "user_id", userID, "mode", req.Mode, "matched", record.Matched)
	return result, record, nil
}

// Record fetches one saved split. Records belong to their owner;
// anyone else gets not-found.
func (s *SplitService) Record(ctx context.Context, userID, id string) (*models.SplitRecord, error) {
	record, err := s.store.GetRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	if record.UserID != userID {
		return nil, fmt.Errorf("record %s: %w", id, storage.ErrNotFound)
	}
	return record, nil
}

// History returns the caller's saved splits, newest first.
func (s *SplitService) History(ctx context.Context, userID string) ([]*models.SplitRecord, error) {
	return s.store.ListRecordsByUser(ctx, userID)
}

// Stats aggregates the caller's saved splits.
func (s *SplitService) Stats(ctx context.Context, userID string) (*models.UserStats, error) {
	return s.store.UserStats(ctx, userID)
}

// mustParse converts a summary decimal string back to Money. Summary
// strings are produced by Money.String, so they always parse.
func mustParse(value, currency string) money.Money {
	m, err := money.FromDecimal(value, currency)
	if err != nil {
		return money.Zero(currency)
	}
	return m
}
