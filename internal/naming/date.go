package naming

import (
	"time"
)

// DateResolver picks the document date: filename, then file birth time, then now.
type DateResolver struct {
	Now       func() time.Time
	BirthTime func(path string) (time.Time, error)
}

// NewDateResolver uses the platform birth time and the wall clock.
func NewDateResolver() DateResolver {
	return DateResolver{Now: time.Now, BirthTime: BirthTime}
}

// Resolve returns YYYYMMDD for path.
func (r DateResolver) Resolve(path string, md Metadata) string {
	if md.Date != "" {
		return md.Date
	}
	if r.BirthTime != nil {
		if t, err := r.BirthTime(path); err == nil && !t.IsZero() {
			return t.Format("20060102")
		}
	}
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	return now().Format("20060102")
}
