package reports

import (
	"fmt"
	"sync"
	"time"
)

// The AER publishes on Alberta local time, so the schedule math below runs in
// America/Edmonton regardless of where the pipeline itself is deployed.
const albertaZone = "America/Edmonton"

var (
	albertaOnce sync.Once
	albertaLoc  *time.Location
	albertaErr  error
)

func AlbertaLocation() (*time.Location, error) {
	albertaOnce.Do(func() {
		albertaLoc, albertaErr = time.LoadLocation(albertaZone)
	})
	if albertaErr != nil {
		return nil, fmt.Errorf("loading %s timezone: %w", albertaZone, albertaErr)
	}
	return albertaLoc, nil
}

// PreviousBusinessDay rolls d back to the nearest Monday-Friday day, counting
// d itself if it already is one.
func PreviousBusinessDay(d Date) Date {
	for d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
		d = d.AddDays(-1)
	}
	return d
}

// ResolveReportDate derives the report day a scheduled firing at wall-clock
// time now should fetch. The AER posts ST1 around 10:00 and ST100 around 21:00
// Alberta time, and neither is published on weekends, so a firing before the
// posting hour targets the previous business day's file.
func ResolveReportDate(dataset Dataset, now time.Time) (Date, error) {
	loc, err := AlbertaLocation()
	if err != nil {
		return Date{}, err
	}

	local := now.In(loc)
	day := NewDate(local)

	switch dataset {
	case DatasetST1:
		if local.Hour() < 10 {
			return PreviousBusinessDay(day.AddDays(-1)), nil
		}
		return PreviousBusinessDay(day), nil
	case DatasetST100:
		if local.Weekday() == time.Saturday || local.Weekday() == time.Sunday {
			return PreviousBusinessDay(day), nil
		}
		if local.Hour() < 21 {
			return PreviousBusinessDay(day.AddDays(-1)), nil
		}
		return PreviousBusinessDay(day), nil
	}
	return Date{}, fmt.Errorf("unknown dataset %q", dataset)
}
