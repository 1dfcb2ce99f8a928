package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"kalban_greenbag/internal/apperror"
	"kalban_greenbag/internal/models"
	"kalban_greenbag/internal/repository"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

type PieChartEntry struct {
	Status      string          `json:"status"`
	Count       int64           `json:"count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Percentage  float64         `json:"percentage"`
}

type StatusTotal struct {
	Status      string          `json:"status"`
	Count       int64           `json:"count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// AnalyticsService aggregates orders and customizations over calendar-day windows.
// Dates are inclusive on both ends and read in the configured location.
type AnalyticsService interface {
	PieChartByOrderStatus(ctx context.Context, from, to time.Time) ([]PieChartEntry, error)
	PieChartByStatus(ctx context.Context, from, to time.Time) ([]PieChartEntry, error)
	TotalAmountAndCountByStatus(ctx context.Context, startDate, endDate string) ([]StatusTotal, error)
}

type AnalyticsServiceDeps struct {
	Orders         repository.OrderRepository
	Customizations repository.ProductCustomizationRepository
	Location       *time.Location
}

type analyticsService struct {
	orders         repository.OrderRepository
	customizations repository.ProductCustomizationRepository
	loc            *time.Location
}

func NewAnalyticsService(deps AnalyticsServiceDeps) (AnalyticsService, error) {
	if deps.Orders == nil {
		return nil, errors.New("analytics service: order repository is required")
	}
	if deps.Customizations == nil {
		return nil, errors.New("analytics service: customization repository is required")
	}
	loc := deps.Location
	if loc == nil {
		loc = time.UTC
	}
	return &analyticsService{orders: deps.Orders, customizations: deps.Customizations, loc: loc}, nil
}

// PieChartByOrderStatus buckets orders created in [from, to] by status.
// Only statuses that occur get a bucket.
func (s *analyticsService) PieChartByOrderStatus(ctx context.Context, from, to time.Time) ([]PieChartEntry, error) {
	window, err := s.dayWindow(from, to)
	if err != nil {
		return nil, err
	}
	rows, err := s.orders.SummarizeByStatus(ctx, window)
	if err != nil {
		return nil, apperror.Wrap(err)
	}
	return pieChart(rows, orderVocabulary(), false), nil
}

// PieChartByStatus buckets product customizations created in [from, to] by status.
// Every customization status is reported, zero-filled when absent.
func (s *analyticsService) PieChartByStatus(ctx context.Context, from, to time.Time) ([]PieChartEntry, error) {
	window, err := s.dayWindow(from, to)
	if err != nil {
		return nil, err
	}
	rows, err := s.customizations.SummarizeByStatus(ctx, window)
	if err != nil {
		return nil, apperror.Wrap(err)
	}
	return pieChart(rows, customizationVocabulary(), true), nil
}

// TotalAmountAndCountByStatus sums orders per status. Either date may be empty to leave that side open.
func (s *analyticsService) TotalAmountAndCountByStatus(ctx context.Context, startDate, endDate string) ([]StatusTotal, error) {
	var window repository.TimeWindow

	if startDate = strings.TrimSpace(startDate); startDate != "" {
		start, err := time.ParseInLocation(dateLayout, startDate, s.loc)
		if err != nil {
			return nil, apperror.Validation("Invalid start date: " + startDate)
		}
		window.Start = &start
	}
	if endDate = strings.TrimSpace(endDate); endDate != "" {
		end, err := time.ParseInLocation(dateLayout, endDate, s.loc)
		if err != nil {
			return nil, apperror.Validation("Invalid end date: " + endDate)
		}
		end = end.AddDate(0, 0, 1)
		window.End = &end
	}
	if window.Start != nil && window.End != nil && !window.Start.Before(*window.End) {
		return nil, apperror.Validation("Start date must not be after end date")
	}

	rows, err := s.orders.SummarizeByStatus(ctx, window)
	if err != nil {
		return nil, apperror.Wrap(err)
	}

	sortSummaries(rows, orderVocabulary())
	totals := make([]StatusTotal, 0, len(rows))
	for _, row := range rows {
		totals = append(totals, StatusTotal{Status: row.Status, Count: row.Count, TotalAmount: row.TotalAmount})
	}
	return totals, nil
}

// dayWindow turns two calendar dates into [from 00:00, to+1d 00:00).
func (s *analyticsService) dayWindow(from, to time.Time) (repository.TimeWindow, error) {
	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, s.loc)
	last := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, s.loc)
	if start.After(last) {
		return repository.TimeWindow{}, apperror.Validation("From date must not be after to date")
	}
	end := last.AddDate(0, 0, 1)
	return repository.TimeWindow{Start: &start, End: &end}, nil
}

func orderVocabulary() []string {
	out := make([]string, 0, len(models.OrderStatuses))
	for _, status := range models.OrderStatuses {
		out = append(out, string(status))
	}
	return out
}

func customizationVocabulary() []string {
	out := make([]string, 0, len(models.CustomizationStatuses))
	for _, status := range models.CustomizationStatuses {
		out = append(out, string(status))
	}
	return out
}

// sortSummaries puts known statuses first in vocabulary order, then the rest alphabetically.
func sortSummaries(rows []models.StatusSummary, vocabulary []string) {
	rank := make(map[string]int, len(vocabulary))
	for i, status := range vocabulary {
		rank[status] = i
	}
	sort.SliceStable(rows, func(i, j int) bool {
		ri, iKnown := rank[rows[i].Status]
		rj, jKnown := rank[rows[j].Status]
		switch {
		case iKnown && jKnown:
			return ri < rj
		case iKnown != jKnown:
			return iKnown
		default:
			return rows[i].Status < rows[j].Status
		}
	})
}

func pieChart(rows []models.StatusSummary, vocabulary []string, zeroFill bool) []PieChartEntry {
	merged := make(map[string]models.StatusSummary, len(rows))
	for _, row := range rows {
		acc := merged[row.Status]
		acc.Status = row.Status
		acc.Count += row.Count
		acc.TotalAmount = acc.TotalAmount.Add(row.TotalAmount)
		merged[row.Status] = acc
	}
	if zeroFill {
		for _, status := range vocabulary {
			if _, ok := merged[status]; !ok {
				merged[status] = models.StatusSummary{Status: status}
			}
		}
	}

	buckets := make([]models.StatusSummary, 0, len(merged))
	var total int64
	for _, row := range merged {
		buckets = append(buckets, row)
		total += row.Count
	}
	sortSummaries(buckets, vocabulary)

	entries := make([]PieChartEntry, 0, len(buckets))
	for _, row := range buckets {
		entries = append(entries, PieChartEntry{
			Status:      row.Status,
			Count:       row.Count,
			TotalAmount: row.TotalAmount,
			Percentage:  percentage(row.Count, total),
		})
	}
	return entries
}

func percentage(count, total int64) float64 {
	if total == 0 {
		return 0
	}
	return decimal.NewFromInt(count).
		Mul(decimal.NewFromInt(100)).
		DivRound(decimal.NewFromInt(total), 2).
		InexactFloat64()
}
