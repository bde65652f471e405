package domain

import (
	"cmp"
	"fmt"
	"slices"
	"time"
)

// Record is one finished session as stored in the index.
type Record struct {
	ID             string
	Reason         string
	Category       string
	PlannedMinutes int
	StartedAt      time.Time
	EndedAt        time.Time
	DurationMin    float64
	FinalFocus     int
	AverageFocus   float64
	EnergyDrinks   int
	Snacks         int
	NotePath       string
}

type CategoryTotal struct {
	Category     string
	Sessions     int
	Minutes      float64
	AverageFocus float64
}

// WeekBucket groups detections by ISO week.
type WeekBucket struct {
	Year         int
	Week         int
	Sessions     int
	EnergyDrinks int
	Snacks       int
}

func (w WeekBucket) Label() string {
	return fmt.Sprintf("%d-W%02d", w.Year, w.Week)
}

type Summary struct {
	Sessions     int
	TotalMinutes float64
	AverageFocus float64
	EnergyDrinks int
	Snacks       int
	ByCategory   []CategoryTotal
	Weekly       []WeekBucket
	Recent       []Record
}

// Summarize folds records into totals. Focus averages are weighted by
// session minutes, falling back to a plain mean when no time was recorded.
func Summarize(records []Record, recent int) Summary {
	s := Summary{}
	var focus focusMean
	categories := map[string]*categoryAcc{}
	weeks := map[[2]int]*WeekBucket{}

	for _, r := range records {
		s.Sessions++
		s.TotalMinutes += r.DurationMin
		s.EnergyDrinks += r.EnergyDrinks
		s.Snacks += r.Snacks
		focus.add(r.AverageFocus, r.DurationMin)

		c, ok := categories[r.Category]
		if !ok {
			c = &categoryAcc{total: CategoryTotal{Category: r.Category}}
			categories[r.Category] = c
		}
		c.total.Sessions++
		c.total.Minutes += r.DurationMin
		c.focus.add(r.AverageFocus, r.DurationMin)

		year, week := r.StartedAt.ISOWeek()
		key := [2]int{year, week}
		b, ok := weeks[key]
		if !ok {
			b = &WeekBucket{Year: year, Week: week}
			weeks[key] = b
		}
		b.Sessions++
		b.EnergyDrinks += r.EnergyDrinks
		b.Snacks += r.Snacks
	}
	s.AverageFocus = focus.value()

	for _, c := range categories {
		c.total.AverageFocus = c.focus.value()
		s.ByCategory = append(s.ByCategory, c.total)
	}
	slices.SortFunc(s.ByCategory, func(a, b CategoryTotal) int {
		if d := cmp.Compare(b.Minutes, a.Minutes); d != 0 {
			return d
		}
		return cmp.Compare(a.Category, b.Category)
	})

	for _, b := range weeks {
		s.Weekly = append(s.Weekly, *b)
	}
	slices.SortFunc(s.Weekly, func(a, b WeekBucket) int {
		if d := cmp.Compare(a.Year, b.Year); d != 0 {
			return d
		}
		return cmp.Compare(a.Week, b.Week)
	})

	s.Recent = Recent(records, recent)
	return s
}

// Recent returns up to limit records, newest first.
func Recent(records []Record, limit int) []Record {
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b Record) int {
		return b.StartedAt.Compare(a.StartedAt)
	})
	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

type categoryAcc struct {
	total CategoryTotal
	focus focusMean
}

type focusMean struct {
	weighted float64
	minutes  float64
	sum      float64
	n        int
}

func (m *focusMean) add(focus, minutes float64) {
	m.weighted += focus * minutes
	m.minutes += minutes
	m.sum += focus
	m.n++
}

func (m focusMean) value() float64 {
	if m.minutes > 0 {
		return m.weighted / m.minutes
	}
	if m.n == 0 {
		return 0
	}
	return m.sum / float64(m.n)
}
