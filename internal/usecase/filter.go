package usecase

import (
	"sort"
	"time"

	"NoticeDigest/internal/dates"
	"NoticeDigest/internal/domain"
)

// FilterRecent keeps items dated on or after ref minus days and orders them
// newest first. Items sharing a date keep their input order.
func FilterRecent(items []domain.NewsItem, days int, ref time.Time) []domain.NewsItem {
	cutoff := dates.Day(ref).AddDate(0, 0, -days)

	recent := make([]domain.NewsItem, 0, len(items))
	for _, item := range items {
		if !item.Date.Before(cutoff) {
			recent = append(recent, item)
		}
	}

	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].Date.After(recent[j].Date)
	})
	return recent
}
