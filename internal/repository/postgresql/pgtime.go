package postgresql

import (
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/clock"
	"github.com/jackc/pgx/v5/pgtype"
)

const microsPerMinute = int64(time.Minute / time.Microsecond)

// toPgTime converts an optional wall-clock minute to a TIME parameter.
func toPgTime(m *clock.Minute) pgtype.Time {
	if m == nil {
		return pgtype.Time{}
	}
	return pgtype.Time{Microseconds: int64(*m) * microsPerMinute, Valid: true}
}

// fromPgTime converts a scanned TIME column, truncating seconds.
func fromPgTime(t pgtype.Time) *clock.Minute {
	if !t.Valid {
		return nil
	}
	m := clock.Minute(t.Microseconds / microsPerMinute)
	return &m
}

func fromPgTimeValue(t pgtype.Time) clock.Minute {
	if m := fromPgTime(t); m != nil {
		return *m
	}
	return 0
}

// dateParam pins a date to UTC midnight so DATE columns keep the caller's calendar day.
func dateParam(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func optionalDateParam(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := dateParam(*t)
	return &d
}
