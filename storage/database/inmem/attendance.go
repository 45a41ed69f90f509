package inmemdb

import (
	"context"

	"github.com/attendoapp/attendo/core/attendance"
)

type attendanceRepository struct {
	db *attendanceTable
}

func NewAttendanceRepository(db *DB) attendance.Repository {
	return &attendanceRepository{db: db.attendance}
}

var _ attendance.Repository = (*attendanceRepository)(nil)

func (repo *attendanceRepository) GetSubjects(_ context.Context, uid string) ([]string, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.db.subjects[uid], nil
}

func (repo *attendanceRepository) UpdateSubjects(_ context.Context, uid string, apply func([]string) ([]string, error)) ([]string, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	subjects, err := apply(repo.db.subjects[uid])
	if err != nil {
		return nil, err
	}
	repo.db.subjects[uid] = subjects
	return subjects, nil
}

func (repo *attendanceRepository) GetSchedule(_ context.Context, uid string) (attendance.Schedule, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.db.schedules[uid], nil
}

func (repo *attendanceRepository) UpdateSchedule(_ context.Context, uid string, apply func(*attendance.Schedule) error) (attendance.Schedule, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	sched := repo.db.schedules[uid]
	if err := apply(&sched); err != nil {
		return attendance.Schedule{}, err
	}
	repo.db.schedules[uid] = sched
	return sched, nil
}

func (repo *attendanceRepository) GetLedger(_ context.Context, uid string) (attendance.Ledger, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.ledger(uid), nil
}

func (repo *attendanceRepository) UpdateLedger(_ context.Context, uid string, apply func(attendance.Ledger) error) (attendance.Ledger, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	ledger := repo.ledger(uid)
	if err := apply(ledger); err != nil {
		return nil, err
	}
	repo.db.ledgers[uid] = ledger
	return ledger, nil
}

func (repo *attendanceRepository) GetHolidays(_ context.Context, uid string) (attendance.HolidaySet, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.holidaySet(uid), nil
}

func (repo *attendanceRepository) UpdateHolidays(_ context.Context, uid string, apply func(attendance.HolidaySet) error) (attendance.HolidaySet, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	holidays := repo.holidaySet(uid)
	if err := apply(holidays); err != nil {
		return nil, err
	}
	repo.db.holidays[uid] = holidays
	return holidays, nil
}

func (repo *attendanceRepository) DeleteUserData(_ context.Context, uid string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	delete(repo.db.subjects, uid)
	delete(repo.db.schedules, uid)
	delete(repo.db.ledgers, uid)
	delete(repo.db.holidays, uid)
	return nil
}

func (repo *attendanceRepository) ledger(uid string) attendance.Ledger {
	if ledger, ok := repo.db.ledgers[uid]; ok {
		return ledger
	}
	return make(attendance.Ledger)
}

func (repo *attendanceRepository) holidaySet(uid string) attendance.HolidaySet {
	if holidays, ok := repo.db.holidays[uid]; ok {
		return holidays
	}
	return make(attendance.HolidaySet)
}
