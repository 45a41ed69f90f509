package sqlxrepos

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/attendoapp/attendo/core/attendance"
)

// Document paths; one JSONB document of each kind per user.
const (
	pathSubjects   = "subjects"
	pathSchedule   = "schedule"
	pathAttendance = "attendance"
	pathHolidays   = "holidays"
)

type attendanceRepository struct {
	db *sqlx.DB
}

func NewAttendanceRepository(db *sqlx.DB) attendance.Repository {
	return &attendanceRepository{db: db}
}

var _ attendance.Repository = (*attendanceRepository)(nil)

// getDoc loads the document at (uid, path) into dest. A missing row leaves
// dest untouched so callers start from their zero value.
func (repo *attendanceRepository) getDoc(ctx context.Context, q sqlx.QueryerContext, uid, path string, dest interface{}, lock bool) error {
	query := `SELECT doc FROM document WHERE user_id = $1 AND path = $2`
	if lock {
		query += ` FOR UPDATE`
	}

	var raw []byte
	if err := sqlx.GetContext(ctx, q, &raw, query, uid, path); err != nil {
		if err == sql.ErrNoRows {
			return nil
		}
		return errors.Wrapf(err, "getting %s document", path)
	}
	return errors.Wrapf(json.Unmarshal(raw, dest), "decoding %s document", path)
}

func (repo *attendanceRepository) setDoc(ctx context.Context, tx *sqlx.Tx, uid, path string, doc interface{}) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrapf(err, "encoding %s document", path)
	}
	query := `
INSERT INTO document (user_id, path, doc) VALUES ($1, $2, $3)
ON CONFLICT (user_id, path) DO UPDATE SET doc = EXCLUDED.doc, updated_at = now()`
	_, err = tx.ExecContext(ctx, query, uid, path, raw)
	return errors.Wrapf(err, "saving %s document", path)
}

// withTx runs fn in a transaction; the locked document reads serialize
// concurrent writers on the same user.
func (repo *attendanceRepository) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	if err = fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return errors.Wrap(tx.Commit(), "committing transaction")
}

func (repo *attendanceRepository) GetSubjects(ctx context.Context, uid string) ([]string, error) {
	var subjects []string
	err := repo.getDoc(ctx, repo.db, uid, pathSubjects, &subjects, false)
	return subjects, err
}

func (repo *attendanceRepository) UpdateSubjects(ctx context.Context, uid string, apply func([]string) ([]string, error)) ([]string, error) {
	var subjects []string
	err := repo.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := repo.getDoc(ctx, tx, uid, pathSubjects, &subjects, true); err != nil {
			return err
		}
		var err error
		if subjects, err = apply(subjects); err != nil {
			return err
		}
		return repo.setDoc(ctx, tx, uid, pathSubjects, subjects)
	})
	if err != nil {
		return nil, err
	}
	return subjects, nil
}

func (repo *attendanceRepository) GetSchedule(ctx context.Context, uid string) (attendance.Schedule, error) {
	var sched attendance.Schedule
	err := repo.getDoc(ctx, repo.db, uid, pathSchedule, &sched, false)
	return sched, err
}

func (repo *attendanceRepository) UpdateSchedule(ctx context.Context, uid string, apply func(*attendance.Schedule) error) (attendance.Schedule, error) {
	var sched attendance.Schedule
	err := repo.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := repo.getDoc(ctx, tx, uid, pathSchedule, &sched, true); err != nil {
			return err
		}
		if err := apply(&sched); err != nil {
			return err
		}
		return repo.setDoc(ctx, tx, uid, pathSchedule, sched)
	})
	if err != nil {
		return attendance.Schedule{}, err
	}
	return sched, nil
}

func (repo *attendanceRepository) GetLedger(ctx context.Context, uid string) (attendance.Ledger, error) {
	ledger := make(attendance.Ledger)
	err := repo.getDoc(ctx, repo.db, uid, pathAttendance, &ledger, false)
	return ledger, err
}

func (repo *attendanceRepository) UpdateLedger(ctx context.Context, uid string, apply func(attendance.Ledger) error) (attendance.Ledger, error) {
	ledger := make(attendance.Ledger)
	err := repo.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := repo.getDoc(ctx, tx, uid, pathAttendance, &ledger, true); err != nil {
			return err
		}
		if err := apply(ledger); err != nil {
			return err
		}
		return repo.setDoc(ctx, tx, uid, pathAttendance, ledger)
	})
	if err != nil {
		return nil, err
	}
	return ledger, nil
}

func (repo *attendanceRepository) GetHolidays(ctx context.Context, uid string) (attendance.HolidaySet, error) {
	holidays := make(attendance.HolidaySet)
	err := repo.getDoc(ctx, repo.db, uid, pathHolidays, &holidays, false)
	return holidays, err
}

func (repo *attendanceRepository) UpdateHolidays(ctx context.Context, uid string, apply func(attendance.HolidaySet) error) (attendance.HolidaySet, error) {
	holidays := make(attendance.HolidaySet)
	err := repo.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := repo.getDoc(ctx, tx, uid, pathHolidays, &holidays, true); err != nil {
			return err
		}
		if err := apply(holidays); err != nil {
			return err
		}
		return repo.setDoc(ctx, tx, uid, pathHolidays, holidays)
	})
	if err != nil {
		return nil, err
	}
	return holidays, nil
}

func (repo *attendanceRepository) DeleteUserData(ctx context.Context, uid string) error {
	_, err := repo.db.ExecContext(ctx, `DELETE FROM document WHERE user_id = $1`, uid)
	return errors.Wrap(err, "deleting user documents")
}
