package echoapi_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	echoapi "github.com/testxbusiness/csromawebapp/apps/api/echo"
	"github.com/testxbusiness/csromawebapp/core"
	"github.com/testxbusiness/csromawebapp/core/balance"
	"github.com/testxbusiness/csromawebapp/core/club"
	"github.com/testxbusiness/csromawebapp/core/event"
	"github.com/testxbusiness/csromawebapp/core/fee"
	"github.com/testxbusiness/csromawebapp/core/message"
	"github.com/testxbusiness/csromawebapp/core/user"
	emailsvc "github.com/testxbusiness/csromawebapp/services/email"
	dummydb "github.com/testxbusiness/csromawebapp/storage/database/dummy"
	testutil "github.com/testxbusiness/csromawebapp/tests"
)

type testApp struct {
	app      echoapi.Server
	conf     *core.Config
	usrRepo  user.Repository
	clubRepo club.Repository
	feeSvc   *fee.Service
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	conf := testutil.NewConfig()

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open(): %v", err)
	}
	usrRepo := dummydb.NewUserRepository(db)
	clubRepo := dummydb.NewClubRepository(db)
	feeRepo := dummydb.NewFeeRepository(db)
	eventRepo := dummydb.NewEventRepository(db)
	messageRepo := dummydb.NewMessageRepository(db)
	balanceRepo := dummydb.NewBalanceRepository(db)

	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	validate, translator := core.NewValidator()
	user.RegisterValidators(validate, translator)
	feeSvc := fee.NewService(conf, feeRepo, clubRepo)

	app := echoapi.NewServer(&echoapi.Options{
		Conf:           conf,
		Logger:         nopLogger{},
		DisableReqLogs: true,
		UserSvc:        user.NewService(conf, usrRepo, mailSvc),
		ClubSvc:        club.NewService(clubRepo),
		FeeSvc:         feeSvc,
		EventSvc:       event.NewService(conf, eventRepo),
		MessageSvc:     message.NewService(messageRepo, clubRepo, mailSvc, nopLogger{}),
		BalanceSvc:     balance.NewService(balanceRepo, clubRepo),
		Validate:       validate,
		Translator:     translator,
	})

	return &testApp{app: app, conf: conf, usrRepo: usrRepo, clubRepo: clubRepo, feeSvc: feeSvc}
}

func (ta *testApp) createAdmin(t *testing.T) user.User {
	return testutil.CreateUser(t, ta.usrRepo, "Admin", "admin01", "admin@test.it", "secret", user.AdminRoles, true)
}

func (ta *testApp) createAthlete(t *testing.T) user.User {
	return testutil.CreateUser(t, ta.usrRepo, "Atleta", "atleta01", "atleta@test.it", "secret", user.AthleteRoles, true)
}

func getToken(t *testing.T, usr user.User) string {
	t.Helper()
	token, err := echoapi.GenerateToken(echoapi.GetUserClaims(usr))
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

func newAuthRequest(method, path, token string, data ...interface{}) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		_ = json.NewEncoder(&body).Encode(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...interface{}) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func (ta *testApp) do(req *http.Request, rec *httptest.ResponseRecorder) {
	ta.app.ServeHTTP(rec, req)
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("decoding response %q: %v", rec.Body.String(), err)
	}
}

// nopLogger discards everything; test failures surface through HTTP codes.
type nopLogger struct{}

func (nopLogger) Enable(bool)                  {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}
