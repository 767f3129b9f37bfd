package handlers

import (
	"context"
	"net/http"
	"time"

	"aircon_control/internal/control"
	"aircon_control/internal/models"
	"aircon_control/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastSignUpUsername string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(_ context.Context, username, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(_ context.Context, username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockAutoControl struct {
	decision control.Decision
	runErr   error
	stopErr  error

	lastRequest control.Request
	lastReading models.SensorReading
	runCalls    int
	stopCalls   int
}

func (m *mockAutoControl) Decide(req control.Request) control.Decision {
	m.lastRequest = req
	return req.Decide(control.DefaultParams())
}
func (m *mockAutoControl) Run(ctx context.Context, r models.SensorReading) (control.Decision, error) {
	m.runCalls++
	m.lastReading = r
	return m.decision, m.runErr
}
func (m *mockAutoControl) StopAuto(ctx context.Context) error {
	m.stopCalls++
	return m.stopErr
}

type mockAircon struct {
	applyErr error
	offErr   error

	lastCmd    control.Command
	applyCalls int
	offCalls   int
}

func (m *mockAircon) Apply(ctx context.Context, cmd control.Command) error {
	m.applyCalls++
	m.lastCmd = cmd
	return m.applyErr
}
func (m *mockAircon) PowerOff(ctx context.Context) error {
	m.offCalls++
	return m.offErr
}

type mockMonitoring struct {
	state      models.AirconState
	err        error
	snapshot   service.ComfortSnapshot
	comfortErr error
}

func (m *mockMonitoring) GetState(ctx context.Context) (models.AirconState, error) {
	return m.state, m.err
}
func (m *mockMonitoring) Comfort(ctx context.Context) (service.ComfortSnapshot, error) {
	return m.snapshot, m.comfortErr
}

type mockReadings struct {
	resp       []models.SensorReading
	err        error
	lastFilter service.ReadingFilter
}

func (m *mockReadings) Latest(ctx context.Context) (models.SensorReading, bool, error) {
	if len(m.resp) == 0 {
		return models.SensorReading{}, false, m.err
	}
	return m.resp[len(m.resp)-1], true, m.err
}
func (m *mockReadings) List(ctx context.Context, f service.ReadingFilter) ([]models.SensorReading, error) {
	m.lastFilter = f
	return m.resp, m.err
}

type mockEventLog struct {
	resp     []models.ControlEvent
	err      error
	lastFrom time.Time
	lastTo   time.Time
	lastType string
}

func (m *mockEventLog) List(ctx context.Context, f service.LogFilter) ([]models.ControlEvent, error) {
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastType = f.Type
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
