package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	. "github.com/cecscoop/portal/apps/api/echo"
	"github.com/cecscoop/portal/core"
	"github.com/cecscoop/portal/core/coop"
	"github.com/cecscoop/portal/core/employer"
	"github.com/cecscoop/portal/core/faculty"
	"github.com/cecscoop/portal/core/position"
	"github.com/cecscoop/portal/core/student"
	emailsvc "github.com/cecscoop/portal/services/email"
	dummydb "github.com/cecscoop/portal/storage/database/dummy"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type testApp struct {
	conf        *core.Config
	db          *dummydb.DB
	server      Server
	studentSvc  *student.Service
	employerSvc *employer.Service
	facultySvc  *faculty.Service
	positionSvc *position.Service
	coopSvc     *coop.Service
}

func setup(t *testing.T) *testApp {
	t.Helper()

	conf := &core.Config{
		TestMode:  true,
		AppName:   "Test Portal",
		SecretKey: []byte("secret"),
		Server: core.ServerConfig{
			JWTExpirationDelta:        time.Hour,
			JWTRefreshExpirationDelta: 4 * time.Hour,
		},
	}

	db := dummydb.NewDB()
	idGen := dummydb.NewIDGenerator(db)

	studentSvc := student.NewService(dummydb.NewStudentRepository(db), idGen)
	employerSvc := employer.NewService(dummydb.NewEmployerRepository(db), idGen)
	facultySvc := faculty.NewService(dummydb.NewFacultyRepository(db), idGen)
	positionSvc := position.NewService(dummydb.NewPositionRepository(db), idGen)
	coopSvc := coop.NewService(dummydb.NewCoopRepository(db), conf)

	emailsvc.ClearSentMessages()

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)

	server := NewServer(ServerDeps{
		Conf:        conf,
		Logger:      testLogger{t},
		StudentSvc:  studentSvc,
		EmployerSvc: employerSvc,
		FacultySvc:  facultySvc,
		PositionSvc: positionSvc,
		CoopSvc:     coopSvc,
		Validate:    validate,
		Translator:  translator,
	})

	return &testApp{
		conf:        conf,
		db:          db,
		server:      server,
		studentSvc:  studentSvc,
		employerSvc: employerSvc,
		facultySvc:  facultySvc,
		positionSvc: positionSvc,
		coopSvc:     coopSvc,
	}
}

// testLogger routes app logs through the test runner.
type testLogger struct {
	t *testing.T
}

var _ core.Logger = (*testLogger)(nil)

func (l testLogger) Enable(bool)                           {}
func (l testLogger) Debug(msg string, args ...interface{}) { l.t.Logf("DEBUG: %s %v", msg, args) }
func (l testLogger) Info(msg string, args ...interface{})  { l.t.Logf("INFO: %s %v", msg, args) }
func (l testLogger) Warn(msg string, args ...interface{})  { l.t.Logf("WARN: %s %v", msg, args) }
func (l testLogger) Error(msg string, args ...interface{}) { l.t.Logf("ERROR: %s %v", msg, args) }
func (l testLogger) Fatal(msg string, args ...interface{}) { l.t.Fatalf("FATAL: %s %v", msg, args) }

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func (app *testApp) getToken(t *testing.T, id, name, email, role string) string {
	t.Helper()
	token, err := GenerateToken(app.conf, GetClaims(app.conf, id, name, email, role))
	require.NoError(t, err)
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(obj)
	require.NoError(t, err)
	return data
}

func unmarshalBody(t *testing.T, rec *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dest), "body: %s", rec.Body.String())
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
	}
	if tt.wantData != nil {
		require.JSONEq(t, string(tt.wantData), rec.Body.String())
	}
}
