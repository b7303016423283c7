package services

import (
	"fmt"
	"time"
	"trip-log-service/internal/domain"
)

// logWriter appends duty-status intervals onto day-bounded log sheets.
//
// The current sheet always covers a single calendar day of the trip's time zone:
// intervals crossing midnight are split, gaps are filled with off-duty time, and
// each new calendar day starts a fresh sheet with cleared per-day accumulators.
type logWriter struct {
	state  *simulationState
	sheets []domain.DailyLog
	// Midnight that closes the current sheet.
	dayEnd time.Time
}

func newLogWriter(state *simulationState, start time.Time) *logWriter {
	w := &logWriter{state: state}
	w.sheets = append(w.sheets, domain.DailyLog{Date: startOfDay(start)})
	w.dayEnd = nextMidnight(start)
	state.lastActivityEnd = start
	return w
}

// write records [start, end) and returns the hours of it that landed on the
// sheet that is current afterwards. Earlier pieces belong to closed sheets and
// must not be credited to today's accumulators.
func (w *logWriter) write(start, end time.Time, status domain.DutyStatus, description string) float64 {
	if !start.Before(end) {
		return 0
	}

	w.advanceTo(start)

	tail := 0.0
	for from := start; from.Before(end); {
		if !from.Before(w.dayEnd) {
			w.rollover(from)
			tail = 0
		}
		to := end
		if w.dayEnd.Before(to) {
			to = w.dayEnd
		}
		w.append(domain.LogEntry{Start: from, End: to, Status: status, Description: description})
		tail += to.Sub(from).Hours()
		from = to
	}
	return tail
}

// advanceTo brings the log up to t: the span since the last written entry is
// filled with off-duty time and every midnight crossed on the way opens a new sheet.
func (w *logWriter) advanceTo(t time.Time) {
	for w.state.lastActivityEnd.Before(t) {
		from := w.state.lastActivityEnd
		if !from.Before(w.dayEnd) {
			w.rollover(from)
		}

		to := t
		description := fmt.Sprintf("Off-duty (implicit gap: %.2f hrs)", t.Sub(from).Hours())
		if w.dayEnd.Before(t) {
			to = w.dayEnd
			description = "Off-duty at end of day (implicit boundary)"
		}
		w.append(domain.LogEntry{Start: from, End: to, Status: domain.StatusOffDuty, Description: description})
	}
}

// rollover starts the sheet for the calendar day containing at and clears the
// per-day accumulators.
func (w *logWriter) rollover(at time.Time) {
	w.openSheet(at)
	w.state.resetDay()
}

// openSheet makes the sheet for at's calendar day current. An empty current
// sheet is reused so no empty containers are left behind.
func (w *logWriter) openSheet(at time.Time) {
	last := &w.sheets[len(w.sheets)-1]
	if len(last.Entries) == 0 {
		last.Date = startOfDay(at)
	} else {
		w.sheets = append(w.sheets, domain.DailyLog{Date: startOfDay(at)})
	}
	w.dayEnd = nextMidnight(at)
}

func (w *logWriter) append(e domain.LogEntry) {
	if !e.Start.Before(e.End) {
		return
	}
	last := &w.sheets[len(w.sheets)-1]
	last.Entries = append(last.Entries, e)
	w.state.lastActivityEnd = e.End
}

// dailyLogs returns a copy of all non-empty sheets.
func (w *logWriter) dailyLogs() []domain.DailyLog {
	out := make([]domain.DailyLog, 0, len(w.sheets))
	for _, s := range w.sheets {
		if len(s.Entries) == 0 {
			continue
		}
		entries := make([]domain.LogEntry, len(s.Entries))
		copy(entries, s.Entries)
		out = append(out, domain.DailyLog{Date: s.Date, Entries: entries})
	}
	return out
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func nextMidnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, t.Location())
}
