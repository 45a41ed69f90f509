package attendance

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/attendoapp/attendo/core"
)

var (
	// errors
	ErrSubjectExists   = errors.New("this subject already exists")
	ErrSubjectNotFound = errors.New("subject not found")
	ErrSessionConflict = errors.New("class time conflicts with an existing class")
	ErrSessionNotFound = errors.New("no class at this position")
	ErrAlreadyMarked   = errors.New("attendance for this session has already been marked")
)

// Session is one scheduled occurrence of a subject's class on a weekday.
// Field names mirror the persisted document shape.
type Session struct {
	Subject   string `json:"subject"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// Schedule holds the weekly timetable plus its two scalar settings.
// A missing weekday key and an empty session list mean the same thing.
type Schedule struct {
	Days               map[string][]Session `json:"days"`
	AttendanceCriteria float64              `json:"attendanceCriteria"`
	StartDate          string               `json:"startDate"` // ISO date; "" when unset
}

// Criteria returns the configured pass threshold, falling back to
// DefaultCriteria when none has been set.
func (s Schedule) Criteria() float64 {
	if s.AttendanceCriteria <= 0 {
		return DefaultCriteria
	}
	return s.AttendanceCriteria
}

// Entry accumulates one subject's attendance hours and marking history.
type Entry struct {
	Present float64         `json:"present"`
	Total   float64         `json:"total"`
	Marked  map[string]bool `json:"markedToday"` // sessionKey -> recorded outcome
}

// Ledger maps subject name to its Entry.
type Ledger map[string]*Entry

// HolidaySet maps ISO dates to "is holiday". Append-only; there is no unmark.
type HolidaySet map[string]bool

// NewSession contains information needed to add a class to the schedule.
type NewSession struct {
	Day       string `json:"day" validate:"required,weekday"`
	Subject   string `json:"subject" validate:"required"`
	StartTime string `json:"startTime" validate:"required,clocktime"`
	EndTime   string `json:"endTime" validate:"required,clocktime"`
}

func (ns *NewSession) Validate(validate *validator.Validate) error {
	ns.Day = core.CleanString(ns.Day)
	ns.Subject = core.CleanString(ns.Subject)
	ns.StartTime = core.CleanString(ns.StartTime)
	ns.EndTime = core.CleanString(ns.EndTime)
	return validate.Struct(ns)
}

// NewSubject contains information needed to register a subject.
type NewSubject struct {
	Name string `json:"name" validate:"required"`
}

func (ns *NewSubject) Validate(validate *validator.Validate) error {
	ns.Name = core.CleanString(ns.Name)
	return validate.Struct(ns)
}

// Settings defines the schedule-wide scalars a user may change.
type Settings struct {
	AttendanceCriteria float64 `json:"attendanceCriteria" validate:"min=0,max=100"`
	StartDate          string  `json:"startDate" validate:"omitempty,isodate"`
}

func (st *Settings) Validate(validate *validator.Validate) error {
	st.StartDate = core.CleanString(st.StartDate)
	return validate.Struct(st)
}

// NewMark records present/absent for one session occurrence.
type NewMark struct {
	Subject   string `json:"subject" validate:"required"`
	Day       string `json:"day" validate:"required,weekday"`
	StartTime string `json:"startTime" validate:"required,clocktime"`
	EndTime   string `json:"endTime" validate:"required,clocktime"`
	Present   *bool  `json:"present" validate:"required"`
}

func (nm *NewMark) Validate(validate *validator.Validate) error {
	nm.Subject = core.CleanString(nm.Subject)
	nm.Day = core.CleanString(nm.Day)
	nm.StartTime = core.CleanString(nm.StartTime)
	nm.EndTime = core.CleanString(nm.EndTime)
	return validate.Struct(nm)
}

// NewHoliday marks a calendar date as a holiday.
type NewHoliday struct {
	Date string `json:"date" validate:"required,isodate"`
}

func (nh *NewHoliday) Validate(validate *validator.Validate) error {
	nh.Date = core.CleanString(nh.Date)
	return validate.Struct(nh)
}

// SubjectSummary is the per-subject line of the attendance summary view.
type SubjectSummary struct {
	Subject string `json:"subject"`
	Percent string `json:"percent"`
	Status  string `json:"status"`
}

// TodaySession is a session of the current weekday along with its marking state.
type TodaySession struct {
	Session
	SessionKey string `json:"session_key"`
	Marked     *bool  `json:"marked"` // nil = not yet marked; else the recorded outcome
}

// DayOverview is the "can I mark today" view: the gate verdict plus today's sessions.
type DayOverview struct {
	Day         string         `json:"day"`
	Date        string         `json:"date"`
	IsHoliday   bool           `json:"is_holiday"`
	BeforeStart bool           `json:"before_start"`
	Markable    bool           `json:"markable"`
	Sessions    []TodaySession `json:"sessions"`
}
