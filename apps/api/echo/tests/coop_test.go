package tests

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/cecscoop/portal/apps/api/echo"
	"github.com/cecscoop/portal/core"
	"github.com/cecscoop/portal/core/coop"
	"github.com/cecscoop/portal/core/position"
	"github.com/cecscoop/portal/core/student"
)

func Test_home(t *testing.T) {
	app := setup(t)

	req, rec := newRequest(http.MethodGet, "/")
	app.server.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Welcome to the Co-op Portal API!", rec.Body.String())
}

func Test_studentApi_register(t *testing.T) {
	app := setup(t)

	valid := marchallObj(t, map[string]interface{}{
		"name":             "Jo Doe",
		"email":            "Jo.Doe@Test.Test",
		"department":       "CECS",
		"major":            "CS",
		"gpa":              3.4,
		"start_semester":   "Fall",
		"start_year":       2023,
		"password":         "s3cr3t",
		"password_confirm": "s3cr3t",
	})

	req, rec := newRequest(http.MethodPost, "/v1/students/register", valid)
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var std student.Student
	unmarshalBody(t, rec, &std)
	assert.Equal(t, "STU-"+fmt.Sprint(core.IDYear())+"-0001", std.ID)
	assert.Equal(t, "jo.doe@test.test", std.Email) // lowered
	assert.Equal(t, 3.4, std.GPA.Float64)

	tests := []httpTest{
		{
			name: "duplicate email", method: http.MethodPost, path: "/v1/students/register",
			body: valid, wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"email": "a student with this email already exists"}),
		},
		{
			name: "missing required fields", method: http.MethodPost, path: "/v1/students/register",
			body:     marchallObj(t, map[string]interface{}{"email": "nope"}),
			wantCode: http.StatusBadRequest,
		},
		{
			name: "bad semester", method: http.MethodPost, path: "/v1/students/register",
			body: marchallObj(t, map[string]interface{}{
				"name": "A", "email": "a@test.test", "department": "CECS",
				"start_semester": "Winter", "password": "x", "password_confirm": "x",
			}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"start_semester": "must be one of Fall, Spring or Summer"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path, tt.body)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_api_auth(t *testing.T) {
	app := setup(t)
	std := registerStudent(t, app, "stud@test.test", 3.2, 2023)
	empToken := registerEmployer(t, app, "emp@test.test")

	tests := []httpTest{
		{
			name: "auth required", method: http.MethodGet, path: "/v1/students/dashboard",
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken),
		},
		{
			name: "student role required", method: http.MethodGet, path: "/v1/students/dashboard",
			token: empToken, wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "employer role required", method: http.MethodGet, path: "/v1/employers/dashboard",
			token: app.getToken(t, std.ID, std.Name, std.Email, core.RoleStudent), wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "bad credentials", method: http.MethodPost, path: "/v1/students/login",
			body:     marchallObj(t, map[string]string{"email": "stud@test.test", "password": "wrong"}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "authentication failed"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_api_tokenRefresh(t *testing.T) {
	app := setup(t)
	std := registerStudent(t, app, "stud@test.test", 3.2, 2023)

	staleClaims := echoapi.GetClaims(app.conf, std.ID, std.Name, std.Email, core.RoleStudent,
		time.Now().Add(-5*time.Hour).Unix())
	staleToken, err := echoapi.GenerateToken(app.conf, staleClaims)
	require.NoError(t, err)

	tests := []httpTest{
		{
			name: "auth required", wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errMissingToken),
		},
		{
			name: "refresh period expired", token: staleToken, wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "refresh has expired"}),
		},
		{
			name:  "token refreshed",
			token: app.getToken(t, std.ID, std.Name, std.Email, core.RoleStudent), wantCode: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/v1/students/token-refresh", tt.token)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
			if rec.Code == http.StatusOK {
				var res echoapi.LoginResponse
				unmarshalBody(t, rec, &res)
				assert.NotEmpty(t, res.Token)
			}
		})
	}
}

func Test_api_coopFlow(t *testing.T) {
	app := setup(t)

	std := registerStudent(t, app, "stud@test.test", 3.2, 2023)
	stdToken := login(t, app, "/v1/students/login", "stud@test.test")
	empToken := registerEmployer(t, app, "emp@test.test")
	facToken := registerFaculty(t, app, "fac@test.test", "CECS")

	// employer posts a position
	req, rec := newAuthRequest(http.MethodPost, "/v1/employers/positions", empToken, marchallObj(t, map[string]interface{}{
		"title":          "Co-op Engineer",
		"location":       "Detroit, MI",
		"weeks":          12,
		"hours_per_week": 20,
	}))
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var pos position.JobPosition
	unmarshalBody(t, rec, &pos)
	assert.Equal(t, position.StatusOpen, pos.Status)
	assert.Equal(t, 240, pos.TotalHours)

	// student finds it
	req, rec = newAuthRequest(http.MethodGet, "/v1/students/positions?q=engineer", stdToken)
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var found []position.JobPosition
	unmarshalBody(t, rec, &found)
	require.Len(t, found, 1)

	// inspects the posting, no application against it yet
	req, rec = newAuthRequest(http.MethodGet, "/v1/students/positions/"+pos.ID, stdToken)
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var detail coop.PositionDetail
	unmarshalBody(t, rec, &detail)
	assert.Equal(t, pos.ID, detail.ID)
	assert.Nil(t, detail.Application)

	req, rec = newAuthRequest(http.MethodGet, "/v1/students/positions/POS-0000-0000", stdToken)
	app.server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// and applies
	req, rec = newAuthRequest(http.MethodPost, "/v1/students/applications", stdToken,
		marchallObj(t, map[string]string{"position_id": pos.ID}))
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var application coop.Application
	unmarshalBody(t, rec, &application)
	assert.Equal(t, coop.StatusPending, application.Status)

	// the posting now carries the application
	req, rec = newAuthRequest(http.MethodGet, "/v1/students/positions/"+pos.ID, stdToken)
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	unmarshalBody(t, rec, &detail)
	require.NotNil(t, detail.Application)
	assert.Equal(t, application.ID, detail.Application.ID)

	// applying twice is a validation error
	req, rec = newAuthRequest(http.MethodPost, "/v1/students/applications", stdToken,
		marchallObj(t, map[string]string{"position_id": pos.ID}))
	app.server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// employer sees the applicant
	req, rec = newAuthRequest(http.MethodGet, "/v1/employers/positions/"+pos.ID+"/applicants", empToken)
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var applicants []coop.ApplicationDetail
	unmarshalBody(t, rec, &applicants)
	require.Len(t, applicants, 1)
	require.NotNil(t, applicants[0].Student)
	assert.Equal(t, std.ID, applicants[0].Student.ID)

	// and selects them
	req, rec = newAuthRequest(http.MethodPost, fmt.Sprintf("/v1/employers/applications/%d/select", application.ID), empToken)
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var sel echoapi.SelectionResponse
	unmarshalBody(t, rec, &sel)
	assert.Equal(t, coop.StatusSelected, sel.Application.Status)
	assert.True(t, sel.Eligibility.IsEligible)

	// selecting again conflicts
	req, rec = newAuthRequest(http.MethodPost, fmt.Sprintf("/v1/employers/applications/%d/select", application.ID), empToken)
	app.server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// student expresses interest in co-op credit
	req, rec = newAuthRequest(http.MethodPost, fmt.Sprintf("/v1/students/applications/%d/interest", application.ID), stdToken)
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var record coop.CoopRecord
	unmarshalBody(t, rec, &record)
	assert.True(t, record.StudentInterested)

	// writes and submits the summary
	req, rec = newAuthRequest(http.MethodPut, fmt.Sprintf("/v1/students/applications/%d/summary", application.ID), stdToken,
		marchallObj(t, map[string]interface{}{"summary": "I built things.", "submit": true}))
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	unmarshalBody(t, rec, &record)
	assert.Equal(t, coop.SummarySubmitted, record.SummaryStatus)

	// editing a submitted summary conflicts
	req, rec = newAuthRequest(http.MethodPut, fmt.Sprintf("/v1/students/applications/%d/summary", application.ID), stdToken,
		marchallObj(t, map[string]interface{}{"summary": "edit"}))
	app.server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// employer reviews the submitted summary
	req, rec = newAuthRequest(http.MethodGet, "/v1/employers/reviews", empToken)
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var reviews []coop.RecordDetail
	unmarshalBody(t, rec, &reviews)
	require.Len(t, reviews, 1)

	req, rec = newAuthRequest(http.MethodPost, fmt.Sprintf("/v1/employers/records/%d/review", record.ID), empToken,
		marchallObj(t, map[string]string{"approval": coop.ApprovalApproved}))
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	unmarshalBody(t, rec, &record)
	assert.Equal(t, coop.ApprovalApproved, record.EmployerApproval)

	// faculty coordinator grades the record
	req, rec = newAuthRequest(http.MethodGet, "/v1/faculty/dashboard", facToken)
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var dash coop.FacultyDashboard
	unmarshalBody(t, rec, &dash)
	assert.Equal(t, 1, dash.TotalStudents)

	req, rec = newAuthRequest(http.MethodPost, fmt.Sprintf("/v1/faculty/records/%d/grade", record.ID), facToken,
		marchallObj(t, map[string]string{"grade": "A"}))
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	unmarshalBody(t, rec, &record)
	assert.Equal(t, "A", record.FacultyGrade.String)

	// a lowercase or multi-letter grade never passes validation
	req, rec = newAuthRequest(http.MethodPost, fmt.Sprintf("/v1/faculty/records/%d/grade", record.ID), facToken,
		marchallObj(t, map[string]string{"grade": "a+"}))
	app.server.ServeHTTP(rec, req)
	tt := httpTest{
		wantCode: http.StatusBadRequest,
		wantData: marchallObj(t, map[string]string{"grade": "must be a letter grade A to E"}),
	}
	checkCodeAndData(t, tt, rec)

	// student dashboard reflects the journey
	req, rec = newAuthRequest(http.MethodGet, "/v1/students/dashboard", stdToken)
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var stdDash coop.StudentDashboard
	unmarshalBody(t, rec, &stdDash)
	assert.Equal(t, 1, stdDash.TotalApplications)
	assert.True(t, stdDash.Eligible)
}

func Test_api_facultyStudents(t *testing.T) {
	app := setup(t)

	std := registerStudent(t, app, "stud@test.test", 3.2, 2023)
	registerStudent(t, app, "stud2@test.test", 2.8, 2022)
	cecsToken := registerFaculty(t, app, "fac@test.test", "CECS")
	bizToken := registerFaculty(t, app, "biz@test.test", "Business")

	req, rec := newAuthRequest(http.MethodGet, "/v1/faculty/students", cecsToken)
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var students []student.Student
	unmarshalBody(t, rec, &students)
	require.Len(t, students, 2)
	ids := []string{students[0].ID, students[1].ID}
	assert.Contains(t, ids, std.ID)

	// another department's coordinator sees none of them
	req, rec = newAuthRequest(http.MethodGet, "/v1/faculty/students", bizToken)
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	unmarshalBody(t, rec, &students)
	assert.Len(t, students, 0)
}

func Test_api_scoping(t *testing.T) {
	app := setup(t)

	registerStudent(t, app, "stud@test.test", 3.2, 2023)
	stdToken := login(t, app, "/v1/students/login", "stud@test.test")
	empToken := registerEmployer(t, app, "emp@test.test")
	rivalToken := registerEmployer(t, app, "rival@test.test")
	otherDeptFacToken := registerFaculty(t, app, "fac@test.test", "Business")

	req, rec := newAuthRequest(http.MethodPost, "/v1/employers/positions", empToken, marchallObj(t, map[string]interface{}{
		"title": "Co-op Engineer", "weeks": 12, "hours_per_week": 20,
	}))
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)
	var pos position.JobPosition
	unmarshalBody(t, rec, &pos)

	req, rec = newAuthRequest(http.MethodPost, "/v1/students/applications", stdToken,
		marchallObj(t, map[string]string{"position_id": pos.ID}))
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)
	var application coop.Application
	unmarshalBody(t, rec, &application)

	// another employer cannot act on this application or position
	notFound := marchallObj(t, httpErr{Error: "application not found"})
	tests := []httpTest{
		{
			name: "select foreign application", method: http.MethodPost,
			path:  fmt.Sprintf("/v1/employers/applications/%d/select", application.ID),
			token: rivalToken, wantCode: http.StatusNotFound, wantData: notFound,
		},
		{
			name: "reject foreign application", method: http.MethodPost,
			path:  fmt.Sprintf("/v1/employers/applications/%d/reject", application.ID),
			token: rivalToken, wantCode: http.StatusNotFound, wantData: notFound,
		},
		{
			name: "list foreign applicants", method: http.MethodGet,
			path:  "/v1/employers/positions/" + pos.ID + "/applicants",
			token: rivalToken, wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "position not found"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	// walk the record to the gradable state, owned employer this time
	req, rec = newAuthRequest(http.MethodPost, fmt.Sprintf("/v1/employers/applications/%d/select", application.ID), empToken)
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	req, rec = newAuthRequest(http.MethodPost, fmt.Sprintf("/v1/students/applications/%d/interest", application.ID), stdToken)
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var record coop.CoopRecord
	unmarshalBody(t, rec, &record)

	// a coordinator from another department cannot see or grade the record
	req, rec = newAuthRequest(http.MethodGet, fmt.Sprintf("/v1/faculty/records/%d", record.ID), otherDeptFacToken)
	app.server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	req, rec = newAuthRequest(http.MethodPost, fmt.Sprintf("/v1/faculty/records/%d/grade", record.ID), otherDeptFacToken,
		marchallObj(t, map[string]string{"grade": "A"}))
	app.server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// helpers

func registerStudent(t *testing.T, app *testApp, email string, gpa float64, startYear int) student.Student {
	t.Helper()
	req, rec := newRequest(http.MethodPost, "/v1/students/register", marchallObj(t, map[string]interface{}{
		"name":             "Test Student",
		"email":            email,
		"department":       "CECS",
		"gpa":              gpa,
		"start_year":       startYear,
		"password":         "s3cr3t",
		"password_confirm": "s3cr3t",
	}))
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var std student.Student
	unmarshalBody(t, rec, &std)
	return std
}

func registerEmployer(t *testing.T, app *testApp, email string) string {
	t.Helper()
	req, rec := newRequest(http.MethodPost, "/v1/employers/register", marchallObj(t, map[string]interface{}{
		"company_name":     "Acme Corp",
		"contact_name":     "Pat Recruiter",
		"email":            email,
		"password":         "s3cr3t",
		"password_confirm": "s3cr3t",
	}))
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return login(t, app, "/v1/employers/login", email)
}

func registerFaculty(t *testing.T, app *testApp, email, department string) string {
	t.Helper()
	req, rec := newRequest(http.MethodPost, "/v1/faculty/register", marchallObj(t, map[string]interface{}{
		"name":             "Test Coordinator",
		"email":            email,
		"department":       department,
		"password":         "s3cr3t",
		"password_confirm": "s3cr3t",
	}))
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return login(t, app, "/v1/faculty/login", email)
}

func login(t *testing.T, app *testApp, path, email string) string {
	t.Helper()
	req, rec := newRequest(http.MethodPost, path, marchallObj(t, map[string]string{
		"email":    email,
		"password": "s3cr3t",
	}))
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var res echoapi.LoginResponse
	unmarshalBody(t, rec, &res)
	require.NotEmpty(t, res.Token)
	return res.Token
}
