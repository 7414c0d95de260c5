// Package revenuesvc computes month-over-month rental revenue statistics,
// globally for admins or scoped to one owner's books.
package revenuesvc

import (
	"context"
	"errors"
	"time"

	"github.com/Isayas7/book-rent-backend/ability"
	"github.com/Isayas7/book-rent-backend/model"
)

var ErrForbidden = errors.New("forbidden")

type Repo interface {
	SumRentPrice(ctx context.Context, from, to time.Time, ownerID *int64) (float64, error)
}

type Service interface {
	// Global is the admin-only, marketplace-wide revenue comparison.
	Global(ctx context.Context, actor *model.User) (*model.RevenueStats, error)

	// ForOwner is the owner-scoped revenue comparison for the actor's books.
	ForOwner(ctx context.Context, actor *model.User) (*model.RevenueStats, error)
}

type service struct {
	r   Repo
	now func() time.Time
}

func New(r Repo) Service {
	return &service{r: r, now: time.Now}
}

func (s *service) Global(ctx context.Context, actor *model.User) (*model.RevenueStats, error) {
	if !ability.For(actor).Can(ability.Get, ability.Revenue) {
		return nil, ErrForbidden
	}
	return s.stats(ctx, nil)
}

func (s *service) ForOwner(ctx context.Context, actor *model.User) (*model.RevenueStats, error) {
	if !ability.For(actor).Can(ability.Get, ability.OwnRevenue) {
		return nil, ErrForbidden
	}
	return s.stats(ctx, &actor.ID)
}

func (s *service) stats(ctx context.Context, ownerID *int64) (*model.RevenueStats, error) {
	now := s.now().UTC()
	curStart, curEnd := MonthWindow(now)
	prevStart, prevEnd := MonthWindow(curStart.AddDate(0, 0, -1))

	current, err := s.r.SumRentPrice(ctx, curStart, curEnd, ownerID)
	if err != nil {
		return nil, err
	}
	previous, err := s.r.SumRentPrice(ctx, prevStart, prevEnd, ownerID)
	if err != nil {
		return nil, err
	}

	pct, trend := Trend(current, previous)
	return &model.RevenueStats{
		CurrentMonthTotal:  current,
		PreviousMonthTotal: previous,
		PercentageChange:   pct,
		Trend:              trend,
	}, nil
}

// MonthWindow returns the inclusive bounds of the calendar month containing
// t, in UTC.
func MonthWindow(t time.Time) (start, end time.Time) {
	t = t.UTC()
	start = time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	end = start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return start, end
}

// Trend computes the percentage change and its direction. The change is
// only defined against a positive previous total; a zero previous month
// reports 0 and "no change" even when the current month has revenue.
func Trend(current, previous float64) (float64, string) {
	var pct float64
	if previous > 0 {
		pct = (current - previous) / previous * 100
	}
	switch {
	case pct > 0:
		return pct, "increasing"
	case pct < 0:
		return pct, "decreasing"
	default:
		return pct, "no change"
	}
}
