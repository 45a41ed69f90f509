package tests

import (
	"net/http"
	"testing"
	"time"

	echoapi "github.com/attendoapp/attendo/apps/api/echo"
	"github.com/attendoapp/attendo/core/attendance"
)

func bPtr(b bool) *bool { return &b }

func addSubject(t *testing.T, token, name string) {
	t.Helper()

	req, rec := newAuthRequest(http.MethodPost, "/v1/subjects", token, marchallObj(t, attendance.NewSubject{Name: name}))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("addSubject(%q) failed! code = %v; body = %v", name, rec.Code, rec.Body.String())
	}
}

func addSession(t *testing.T, token, day string, ns attendance.NewSession) {
	t.Helper()

	req, rec := newAuthRequest(http.MethodPost, "/v1/schedule/"+day+"/sessions", token, marchallObj(t, ns))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("addSession(%q) failed! code = %v; body = %v", day, rec.Code, rec.Body.String())
	}
}

func putSettings(t *testing.T, token string, st attendance.Settings) {
	t.Helper()

	req, rec := newAuthRequest(http.MethodPut, "/v1/schedule/settings", token, marchallObj(t, st))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("putSettings() failed! code = %v; body = %v", rec.Code, rec.Body.String())
	}
}

func markSession(t *testing.T, token string, nm attendance.NewMark) {
	t.Helper()

	req, rec := newAuthRequest(http.MethodPost, "/v1/attendance/marks", token, marchallObj(t, nm))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("markSession(%q) failed! code = %v; body = %v", nm.Subject, rec.Code, rec.Body.String())
	}
}

func Test_attendanceApi_subjects(t *testing.T) {
	student := createUser(t, "Hero", "subjects@test.cd", "LolC@t123", true)
	token := getToken(t, student)
	empty := marchallList(t, []interface{}{}...)

	tests := []httpTest{
		{name: "Auth required", method: http.MethodGet, path: "/v1/subjects", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "empty list", method: http.MethodGet, path: "/v1/subjects", token: token, wantCode: http.StatusOK, wantData: empty},
		{
			name: "name required", method: http.MethodPost, path: "/v1/subjects", token: token, wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"name": "this field is required"}),
		},
		{
			name: "subject added", method: http.MethodPost, path: "/v1/subjects", token: token,
			body: marchallObj(t, attendance.NewSubject{Name: "Math"}), wantCode: http.StatusCreated, wantData: marchallList(t, "Math"),
		},
		{
			name: "duplicate rejected (case-insensitive)", method: http.MethodPost, path: "/v1/subjects", token: token,
			body:     marchallObj(t, attendance.NewSubject{Name: "math"}),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"name": "this subject already exists"}),
		},
		{
			name: "second subject added", method: http.MethodPost, path: "/v1/subjects", token: token,
			body: marchallObj(t, attendance.NewSubject{Name: "Physics"}), wantCode: http.StatusCreated, wantData: marchallList(t, "Math", "Physics"),
		},
		{
			name: "unknown subject not removed", method: http.MethodDelete, path: "/v1/subjects/Chemistry", token: token,
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"}),
		},
		{name: "subject removed", method: http.MethodDelete, path: "/v1/subjects/Physics", token: token, wantCode: http.StatusNoContent},
		{name: "list after removal", method: http.MethodGet, path: "/v1/subjects", token: token, wantCode: http.StatusOK, wantData: marchallList(t, "Math")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_attendanceApi_schedule(t *testing.T) {
	student := createUser(t, "Hero", "schedule@test.cd", "LolC@t123", true)
	token := getToken(t, student)
	addSubject(t, token, "Math")

	settings := attendance.Settings{AttendanceCriteria: 80, StartDate: "2026-09-07"}
	mathNine := attendance.Session{Subject: "Math", StartTime: "09:00", EndTime: "10:00"}
	mathTen := attendance.Session{Subject: "Math", StartTime: "10:00", EndTime: "11:00"}

	sched := func(sessions ...attendance.Session) attendance.Schedule {
		days := make(map[string][]attendance.Session)
		if len(sessions) > 0 {
			days["Monday"] = sessions
		}
		return attendance.Schedule{Days: days, AttendanceCriteria: settings.AttendanceCriteria, StartDate: settings.StartDate}
	}

	tests := []httpTest{
		{name: "Auth required", method: http.MethodGet, path: "/v1/schedule", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "empty schedule", method: http.MethodGet, path: "/v1/schedule", token: token, wantCode: http.StatusOK, wantData: marchallObj(t, attendance.Schedule{})},
		{
			name: "settings: invalid start date", method: http.MethodPut, path: "/v1/schedule/settings", token: token,
			body:     marchallObj(t, attendance.Settings{AttendanceCriteria: 80, StartDate: "lol"}),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"startDate": "must be a calendar date in YYYY-MM-DD format"}),
		},
		{
			name: "settings: criteria out of range", method: http.MethodPut, path: "/v1/schedule/settings", token: token,
			body:     marchallObj(t, attendance.Settings{AttendanceCriteria: 120}),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"attendanceCriteria": "attendanceCriteria must be 100 or less"}),
		},
		{
			name: "settings updated", method: http.MethodPut, path: "/v1/schedule/settings", token: token,
			body: marchallObj(t, settings), wantCode: http.StatusOK,
			wantData: marchallObj(t, attendance.Schedule{AttendanceCriteria: settings.AttendanceCriteria, StartDate: settings.StartDate}),
		},
		{
			name: "session: unknown subject", method: http.MethodPost, path: "/v1/schedule/Monday/sessions", token: token,
			body:     marchallObj(t, attendance.NewSession{Subject: "History", StartTime: "09:00", EndTime: "10:00"}),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"subject": "subject not found"}),
		},
		{
			name: "session: invalid day", method: http.MethodPost, path: "/v1/schedule/Funday/sessions", token: token,
			body:     marchallObj(t, attendance.NewSession{Subject: "Math", StartTime: "09:00", EndTime: "10:00"}),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"day": "must be a weekday name (Monday .. Sunday)"}),
		},
		{
			name: "session: invalid time", method: http.MethodPost, path: "/v1/schedule/Monday/sessions", token: token,
			body:     marchallObj(t, attendance.NewSession{Subject: "Math", StartTime: "9am", EndTime: "10:00"}),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"startTime": "must be a 24-hour clock time in HH:MM format"}),
		},
		{
			name: "session added", method: http.MethodPost, path: "/v1/schedule/Monday/sessions", token: token,
			body:     marchallObj(t, attendance.NewSession{Subject: "Math", StartTime: "09:00", EndTime: "10:00"}),
			wantCode: http.StatusCreated, wantData: marchallObj(t, sched(mathNine)),
		},
		{
			name: "overlapping session rejected", method: http.MethodPost, path: "/v1/schedule/Monday/sessions", token: token,
			body:     marchallObj(t, attendance.NewSession{Subject: "Math", StartTime: "09:30", EndTime: "10:30"}),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "class time conflicts with an existing class"}),
		},
		{
			name: "back-to-back session allowed", method: http.MethodPost, path: "/v1/schedule/Monday/sessions", token: token,
			body:     marchallObj(t, attendance.NewSession{Subject: "Math", StartTime: "10:00", EndTime: "11:00"}),
			wantCode: http.StatusCreated, wantData: marchallObj(t, sched(mathNine, mathTen)),
		},
		{
			name: "remove: bad index", method: http.MethodDelete, path: "/v1/schedule/Monday/sessions/abc", token: token,
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"}),
		},
		{
			name: "remove: index out of range", method: http.MethodDelete, path: "/v1/schedule/Monday/sessions/5", token: token,
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"}),
		},
		{
			name: "session removed", method: http.MethodDelete, path: "/v1/schedule/Monday/sessions/1", token: token,
			wantCode: http.StatusOK, wantData: marchallObj(t, sched(mathNine)),
		},
		{
			name: "day dropped once empty", method: http.MethodDelete, path: "/v1/schedule/Monday/sessions/0", token: token,
			wantCode: http.StatusOK, wantData: marchallObj(t, sched()),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_attendanceApi_marks(t *testing.T) {
	student := createUser(t, "Hero", "marks@test.cd", "LolC@t123", true)
	token := getToken(t, student)
	addSubject(t, token, "Math")

	reqMsg := "this field is required"
	mondayKey := attendance.SessionKey("Math", "Monday", "09:00", "11:00")
	tuesdayKey := attendance.SessionKey("Math", "Tuesday", "09:00", "10:00")

	afterMonday := attendance.Ledger{
		"Math": &attendance.Entry{Present: 2, Total: 2, Marked: map[string]bool{mondayKey: true}},
	}
	afterTuesday := attendance.Ledger{
		"Math": &attendance.Entry{Present: 2, Total: 3, Marked: map[string]bool{mondayKey: true, tuesdayKey: false}},
	}

	tests := []httpTest{
		{name: "Auth required", method: http.MethodGet, path: "/v1/attendance", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "empty ledger", method: http.MethodGet, path: "/v1/attendance", token: token, wantCode: http.StatusOK, wantData: marchallObj(t, attendance.Ledger{})},
		{
			name: "required fields", method: http.MethodPost, path: "/v1/attendance/marks", token: token, wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"subject": reqMsg, "day": reqMsg, "startTime": reqMsg, "endTime": reqMsg, "present": reqMsg}),
		},
		{
			name: "marked present", method: http.MethodPost, path: "/v1/attendance/marks", token: token,
			body:     marchallObj(t, attendance.NewMark{Subject: "Math", Day: "Monday", StartTime: "09:00", EndTime: "11:00", Present: bPtr(true)}),
			wantCode: http.StatusOK, wantData: marchallObj(t, echoapi.MarkResponse{Attendance: afterMonday}),
		},
		{
			name: "repeat reported, not double-counted", method: http.MethodPost, path: "/v1/attendance/marks", token: token,
			body:     marchallObj(t, attendance.NewMark{Subject: "Math", Day: "Monday", StartTime: "09:00", EndTime: "11:00", Present: bPtr(false)}),
			wantCode: http.StatusOK, wantData: marchallObj(t, echoapi.MarkResponse{AlreadyMarked: true, Attendance: afterMonday}),
		},
		{
			name: "marked absent", method: http.MethodPost, path: "/v1/attendance/marks", token: token,
			body:     marchallObj(t, attendance.NewMark{Subject: "Math", Day: "Tuesday", StartTime: "09:00", EndTime: "10:00", Present: bPtr(false)}),
			wantCode: http.StatusOK, wantData: marchallObj(t, echoapi.MarkResponse{Attendance: afterTuesday}),
		},
		{name: "ledger", method: http.MethodGet, path: "/v1/attendance", token: token, wantCode: http.StatusOK, wantData: marchallObj(t, afterTuesday)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_attendanceApi_summary(t *testing.T) {
	student := createUser(t, "Hero", "summary@test.cd", "LolC@t123", true)
	token := getToken(t, student)
	addSubject(t, token, "Math")
	addSubject(t, token, "History")

	markSession(t, token, attendance.NewMark{Subject: "Math", Day: "Monday", StartTime: "09:00", EndTime: "11:00", Present: bPtr(true)})
	markSession(t, token, attendance.NewMark{Subject: "Math", Day: "Tuesday", StartTime: "09:00", EndTime: "10:00", Present: bPtr(false)})

	historyLine := attendance.SubjectSummary{Subject: "History", Percent: "0.00", Status: attendance.StatusNoData}

	t.Run("default criteria", func(t *testing.T) {
		tt := httpTest{
			method: http.MethodGet, path: "/v1/attendance/summary", token: token, wantCode: http.StatusOK,
			wantData: marchallList(t,
				attendance.SubjectSummary{Subject: "Math", Percent: "66.67", Status: "Attend 1 more class to reach 75%"},
				historyLine,
			),
		}
		req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	t.Run("lowered criteria", func(t *testing.T) {
		putSettings(t, token, attendance.Settings{AttendanceCriteria: 50})

		tt := httpTest{
			method: http.MethodGet, path: "/v1/attendance/summary", token: token, wantCode: http.StatusOK,
			wantData: marchallList(t,
				attendance.SubjectSummary{Subject: "Math", Percent: "66.67", Status: attendance.StatusEarnBunks},
				historyLine,
			),
		}
		req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	t.Run("bunkable margin", func(t *testing.T) {
		markSession(t, token, attendance.NewMark{Subject: "Math", Day: "Wednesday", StartTime: "09:00", EndTime: "13:00", Present: bPtr(true)})

		tt := httpTest{
			method: http.MethodGet, path: "/v1/attendance/summary", token: token, wantCode: http.StatusOK,
			wantData: marchallList(t,
				attendance.SubjectSummary{Subject: "Math", Percent: "85.71", Status: "You can bunk 2 classes and still maintain 50%"},
				historyLine,
			),
		}
		req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})
}

func Test_attendanceApi_today(t *testing.T) {
	student := createUser(t, "Hero", "today@test.cd", "LolC@t123", true)
	token := getToken(t, student)

	now := time.Now()
	day := now.Weekday().String()
	date := now.Format("2006-01-02")
	tomorrow := now.AddDate(0, 0, 1).Format("2006-01-02")

	sess := attendance.Session{Subject: "Math", StartTime: "09:00", EndTime: "10:00"}
	key := attendance.SessionKey("Math", day, "09:00", "10:00")

	getToday := func(t *testing.T, want attendance.DayOverview) {
		t.Helper()
		tt := httpTest{method: http.MethodGet, path: "/v1/attendance/today", token: token, wantCode: http.StatusOK, wantData: marchallObj(t, want)}
		req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	}

	t.Run("no sessions", func(t *testing.T) {
		getToday(t, attendance.DayOverview{Day: day, Date: date, Sessions: []attendance.TodaySession{}})
	})

	t.Run("session scheduled", func(t *testing.T) {
		addSubject(t, token, "Math")
		addSession(t, token, day, attendance.NewSession{Subject: "Math", StartTime: "09:00", EndTime: "10:00"})

		getToday(t, attendance.DayOverview{
			Day: day, Date: date, Markable: true,
			Sessions: []attendance.TodaySession{{Session: sess, SessionKey: key}},
		})
	})

	t.Run("session marked", func(t *testing.T) {
		markSession(t, token, attendance.NewMark{Subject: "Math", Day: day, StartTime: "09:00", EndTime: "10:00", Present: bPtr(true)})

		getToday(t, attendance.DayOverview{
			Day: day, Date: date, Markable: true,
			Sessions: []attendance.TodaySession{{Session: sess, SessionKey: key, Marked: bPtr(true)}},
		})
	})

	t.Run("holiday blocks marking", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/holidays", token, marchallObj(t, attendance.NewHoliday{Date: date}))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("failed to mark holiday! code = %v", rec.Code)
		}

		getToday(t, attendance.DayOverview{
			Day: day, Date: date, IsHoliday: true,
			Sessions: []attendance.TodaySession{{Session: sess, SessionKey: key, Marked: bPtr(true)}},
		})
	})

	t.Run("start date blocks marking", func(t *testing.T) {
		putSettings(t, token, attendance.Settings{StartDate: tomorrow})

		getToday(t, attendance.DayOverview{
			Day: day, Date: date, IsHoliday: true, BeforeStart: true,
			Sessions: []attendance.TodaySession{{Session: sess, SessionKey: key, Marked: bPtr(true)}},
		})
	})
}

func Test_attendanceApi_holidays(t *testing.T) {
	student := createUser(t, "Hero", "holidays@test.cd", "LolC@t123", true)
	token := getToken(t, student)
	empty := marchallList(t, []interface{}{}...)

	tests := []httpTest{
		{name: "Auth required", method: http.MethodGet, path: "/v1/holidays", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "empty list", method: http.MethodGet, path: "/v1/holidays", token: token, wantCode: http.StatusOK, wantData: empty},
		{
			name: "date required", method: http.MethodPost, path: "/v1/holidays", token: token, wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"date": "this field is required"}),
		},
		{
			name: "invalid date", method: http.MethodPost, path: "/v1/holidays", token: token,
			body:     marchallObj(t, attendance.NewHoliday{Date: "lol"}),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"date": "must be a calendar date in YYYY-MM-DD format"}),
		},
		{
			name: "holiday marked", method: http.MethodPost, path: "/v1/holidays", token: token,
			body: marchallObj(t, attendance.NewHoliday{Date: "2026-12-25"}), wantCode: http.StatusCreated, wantData: marchallList(t, "2026-12-25"),
		},
		{
			name: "dates kept sorted", method: http.MethodPost, path: "/v1/holidays", token: token,
			body: marchallObj(t, attendance.NewHoliday{Date: "2026-01-01"}), wantCode: http.StatusCreated, wantData: marchallList(t, "2026-01-01", "2026-12-25"),
		},
		{
			name: "marking is idempotent", method: http.MethodPost, path: "/v1/holidays", token: token,
			body: marchallObj(t, attendance.NewHoliday{Date: "2026-12-25"}), wantCode: http.StatusCreated, wantData: marchallList(t, "2026-01-01", "2026-12-25"),
		},
		{name: "list", method: http.MethodGet, path: "/v1/holidays", token: token, wantCode: http.StatusOK, wantData: marchallList(t, "2026-01-01", "2026-12-25")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_chatApi_ask(t *testing.T) {
	student := createUser(t, "Hero", "chat@test.cd", "LolC@t123", true)
	token := getToken(t, student)

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "prompt required", token: token, wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"prompt": "this field is required"}),
		},
		{
			name: "answered", token: token, wantCode: http.StatusOK,
			body:     marchallObj(t, echoapi.ChatRequest{Prompt: "can I skip Math tomorrow?"}),
			wantData: marchallObj(t, echoapi.ChatResponse{Reply: chatMockReply}),
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/v1/chat"

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
