package attendance

import (
	"context"
	"strings"
	"time"
)

type (
	// Repository persists the four per-user accounting documents. Update
	// methods run the apply func inside a read-modify-write that is atomic
	// per user and document; apply must be a pure state transition.
	Repository interface {
		GetSubjects(ctx context.Context, uid string) ([]string, error)
		UpdateSubjects(ctx context.Context, uid string, apply func([]string) ([]string, error)) ([]string, error)
		GetSchedule(ctx context.Context, uid string) (Schedule, error)
		UpdateSchedule(ctx context.Context, uid string, apply func(*Schedule) error) (Schedule, error)
		GetLedger(ctx context.Context, uid string) (Ledger, error)
		UpdateLedger(ctx context.Context, uid string, apply func(Ledger) error) (Ledger, error)
		GetHolidays(ctx context.Context, uid string) (HolidaySet, error)
		UpdateHolidays(ctx context.Context, uid string, apply func(HolidaySet) error) (HolidaySet, error)
		DeleteUserData(ctx context.Context, uid string) error
	}

	Service interface {
		Subjects(ctx context.Context, uid string) ([]string, error)
		AddSubject(ctx context.Context, uid, name string) ([]string, error)
		RemoveSubject(ctx context.Context, uid, name string) error
		Schedule(ctx context.Context, uid string) (Schedule, error)
		AddSession(ctx context.Context, uid string, ns NewSession) (Schedule, error)
		RemoveSession(ctx context.Context, uid, day string, idx int) (Schedule, error)
		UpdateSettings(ctx context.Context, uid string, st Settings) (Schedule, error)
		Ledger(ctx context.Context, uid string) (Ledger, error)
		Mark(ctx context.Context, uid string, nm NewMark) (Ledger, error)
		Summary(ctx context.Context, uid string) ([]SubjectSummary, error)
		Today(ctx context.Context, uid string, now time.Time) (DayOverview, error)
		Holidays(ctx context.Context, uid string) (HolidaySet, error)
		MarkHoliday(ctx context.Context, uid, date string) (HolidaySet, error)
		Reset(ctx context.Context, uid string) error
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) Subjects(ctx context.Context, uid string) ([]string, error) {
	return svc.repo.GetSubjects(ctx, uid)
}

// AddSubject appends a subject; names are unique per user, case-insensitively.
func (svc *service) AddSubject(ctx context.Context, uid, name string) ([]string, error) {
	return svc.repo.UpdateSubjects(ctx, uid, func(subjects []string) ([]string, error) {
		for _, existing := range subjects {
			if strings.EqualFold(existing, name) {
				return nil, ErrSubjectExists
			}
		}
		return append(subjects, name), nil
	})
}

// RemoveSubject drops the subject from the subject list, deletes its ledger
// entry and purges it from every weekday's session list.
func (svc *service) RemoveSubject(ctx context.Context, uid, name string) error {
	if _, err := svc.repo.UpdateSubjects(ctx, uid, func(subjects []string) ([]string, error) {
		kept := make([]string, 0, len(subjects))
		for _, existing := range subjects {
			if existing != name {
				kept = append(kept, existing)
			}
		}
		if len(kept) == len(subjects) {
			return nil, ErrSubjectNotFound
		}
		return kept, nil
	}); err != nil {
		return err
	}

	if _, err := svc.repo.UpdateLedger(ctx, uid, func(ledger Ledger) error {
		ledger.RemoveSubject(name)
		return nil
	}); err != nil {
		return err
	}

	_, err := svc.repo.UpdateSchedule(ctx, uid, func(sched *Schedule) error {
		sched.RemoveSubject(name)
		return nil
	})
	return err
}

func (svc *service) Schedule(ctx context.Context, uid string) (Schedule, error) {
	return svc.repo.GetSchedule(ctx, uid)
}

// AddSession schedules a class, rejecting unknown subjects and time conflicts.
func (svc *service) AddSession(ctx context.Context, uid string, ns NewSession) (Schedule, error) {
	subjects, err := svc.repo.GetSubjects(ctx, uid)
	if err != nil {
		return Schedule{}, err
	}
	var known bool
	for _, subject := range subjects {
		if subject == ns.Subject {
			known = true
			break
		}
	}
	if !known {
		return Schedule{}, ErrSubjectNotFound
	}

	return svc.repo.UpdateSchedule(ctx, uid, func(sched *Schedule) error {
		return sched.Add(ns.Day, Session{Subject: ns.Subject, StartTime: ns.StartTime, EndTime: ns.EndTime})
	})
}

func (svc *service) RemoveSession(ctx context.Context, uid, day string, idx int) (Schedule, error) {
	return svc.repo.UpdateSchedule(ctx, uid, func(sched *Schedule) error {
		return sched.Remove(day, idx)
	})
}

func (svc *service) UpdateSettings(ctx context.Context, uid string, st Settings) (Schedule, error) {
	return svc.repo.UpdateSchedule(ctx, uid, func(sched *Schedule) error {
		sched.AttendanceCriteria = st.AttendanceCriteria
		sched.StartDate = st.StartDate
		return nil
	})
}

func (svc *service) Ledger(ctx context.Context, uid string) (Ledger, error) {
	return svc.repo.GetLedger(ctx, uid)
}

// Mark grades one session occurrence at most once; repeats surface
// ErrAlreadyMarked with no ledger mutation.
func (svc *service) Mark(ctx context.Context, uid string, nm NewMark) (Ledger, error) {
	hours, err := SessionDurationHours(nm.StartTime, nm.EndTime)
	if err != nil {
		return nil, err
	}
	return svc.repo.UpdateLedger(ctx, uid, func(ledger Ledger) error {
		return ledger.Mark(nm.Subject, nm.Day, nm.StartTime, nm.EndTime, *nm.Present, hours)
	})
}

// Summary evaluates every subject against the configured criteria.
func (svc *service) Summary(ctx context.Context, uid string) ([]SubjectSummary, error) {
	subjects, err := svc.repo.GetSubjects(ctx, uid)
	if err != nil {
		return nil, err
	}
	ledger, err := svc.repo.GetLedger(ctx, uid)
	if err != nil {
		return nil, err
	}
	sched, err := svc.repo.GetSchedule(ctx, uid)
	if err != nil {
		return nil, err
	}

	threshold := sched.Criteria()
	summaries := make([]SubjectSummary, 0, len(subjects))
	for _, subject := range subjects {
		status := Evaluate(ledger[subject], threshold)
		summaries = append(summaries, SubjectSummary{
			Subject: subject,
			Percent: FormatPercent(ledger.Percent(subject)),
			Status:  status.Text,
		})
	}
	return summaries, nil
}

// Today assembles the current weekday's sessions, their marking state and the
// holiday/start-date gate verdict.
func (svc *service) Today(ctx context.Context, uid string, now time.Time) (DayOverview, error) {
	sched, err := svc.repo.GetSchedule(ctx, uid)
	if err != nil {
		return DayOverview{}, err
	}
	holidays, err := svc.repo.GetHolidays(ctx, uid)
	if err != nil {
		return DayOverview{}, err
	}
	ledger, err := svc.repo.GetLedger(ctx, uid)
	if err != nil {
		return DayOverview{}, err
	}

	day := now.Weekday().String()
	date := now.Format("2006-01-02")

	overview := DayOverview{
		Day:         day,
		Date:        date,
		IsHoliday:   holidays.IsHoliday(date),
		BeforeStart: sched.StartDate != "" && date < sched.StartDate,
		Markable:    IsMarkable(sched, holidays, day, date),
	}

	sessions := sched.SessionsOn(day)
	overview.Sessions = make([]TodaySession, 0, len(sessions))
	for _, sess := range sessions {
		key := SessionKey(sess.Subject, day, sess.StartTime, sess.EndTime)
		ts := TodaySession{Session: sess, SessionKey: key}
		if entry, ok := ledger[sess.Subject]; ok {
			if outcome, marked := entry.Marked[key]; marked {
				v := outcome
				ts.Marked = &v
			}
		}
		overview.Sessions = append(overview.Sessions, ts)
	}
	return overview, nil
}

func (svc *service) Holidays(ctx context.Context, uid string) (HolidaySet, error) {
	return svc.repo.GetHolidays(ctx, uid)
}

func (svc *service) MarkHoliday(ctx context.Context, uid, date string) (HolidaySet, error) {
	return svc.repo.UpdateHolidays(ctx, uid, func(holidays HolidaySet) error {
		holidays.Mark(date)
		return nil
	})
}

// Reset wipes every accounting document of the user.
func (svc *service) Reset(ctx context.Context, uid string) error {
	return svc.repo.DeleteUserData(ctx, uid)
}
