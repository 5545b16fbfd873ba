package tests

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"net/mail"
	"os"
	"reflect"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	. "github.com/trezcool/kelasi/apps/api/echo"
	"github.com/trezcool/kelasi/core"
	"github.com/trezcool/kelasi/core/absence"
	"github.com/trezcool/kelasi/core/schedule"
	"github.com/trezcool/kelasi/core/user"
	emailsvc "github.com/trezcool/kelasi/services/email"
	logsvc "github.com/trezcool/kelasi/services/logger"
	inmemdb "github.com/trezcool/kelasi/storage/database/inmem"
	sessionstore "github.com/trezcool/kelasi/storage/session"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type testApp struct {
	app      Server
	db       *inmemdb.DB
	usrRepo  user.Repository
	absRepo  absence.Repository
	usrSvc   user.ServiceInterface
	sessions user.SessionStore
}

// newTestApp builds a fully wired server on a freshly seeded in-memory DB.
// Each test gets its own so mutations do not leak across tests.
func newTestApp(t *testing.T) *testApp {
	t.Helper()

	conf := &core.Config{
		TestMode:         true,
		Env:              "TEST",
		AppName:          "Kelasi",
		SecretKey:        []byte("secret"),
		DefaultFromEmail: mail.Address{Name: "Kelasi", Address: "noreply@localhost"},
	}
	conf.Server.JWTExpirationDelta = time.Hour
	conf.Server.JWTRefreshExpirationDelta = 2 * time.Hour

	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("inmemdb.Open(): %v", err)
	}
	db.Seed()

	usrRepo := inmemdb.NewUserRepository(db)
	absRepo := inmemdb.NewAbsenceRepository(db)
	classRepo := inmemdb.NewScheduleRepository(db)

	var n int
	newID := func() string {
		n++
		return fmt.Sprintf("test-%d", n)
	}

	sessions := sessionstore.NewInMemStore()
	mailSvc := emailsvc.NewConsoleServiceMock(conf)

	usrSvc := user.NewService(usrRepo, sessions)
	scheduleSvc := schedule.NewService(classRepo)
	absenceSvc := absence.NewService(absRepo, usrRepo, classRepo, mailSvc, conf, newID)

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	absence.InitValidators(validate, translator)
	schedule.InitValidators(validate, translator)

	app := NewServer(ServerDeps{
		Conf:        conf,
		Logger:      logsvc.NewStdLogger(log.New(os.Stdout, "TEST : ", log.LstdFlags)),
		UserSvc:     usrSvc,
		AbsenceSvc:  absenceSvc,
		ScheduleSvc: scheduleSvc,
		Validate:    validate,
		Translator:  translator,
	})

	return &testApp{
		app:      app,
		db:       db,
		usrRepo:  usrRepo,
		absRepo:  absRepo,
		usrSvc:   usrSvc,
		sessions: sessions,
	}
}

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

func (tt httpTest) run(t *testing.T, app Server) {
	t.Run(tt.name, func(t *testing.T) {
		method := tt.method
		if method == "" {
			method = http.MethodGet
		}
		wantCode := tt.wantCode
		if wantCode == 0 {
			wantCode = http.StatusOK
		}

		req, rec := newAuthRequest(method, tt.path, tt.token, tt.body)
		app.ServeHTTP(rec, req)

		if rec.Code != wantCode {
			t.Errorf("failed! code = %v; wantCode %v; body %v", rec.Code, wantCode, rec.Body.String())
		}
		if tt.wantData == nil {
			return
		}
		ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
		if err != nil {
			t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
		}
		if !ok {
			t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
		}
	})
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

func getToken(t *testing.T, usr user.User) string {
	claims := GetUserClaims(usr)
	token, err := GenerateToken(claims)
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

func getUser(t *testing.T, repo user.Repository, id string) user.User {
	usr, err := repo.GetUserByID(id)
	if err != nil {
		t.Fatalf("getUser(%s): %v", id, err)
	}
	return usr
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList(): %v", err)
	}
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}
