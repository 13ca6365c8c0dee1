package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/prepcoach/internal/coach"
	"github.com/abhisek/prepcoach/internal/interview"
	"github.com/abhisek/prepcoach/internal/llm"
	"github.com/abhisek/prepcoach/internal/session"
	"github.com/abhisek/prepcoach/internal/stats"
	"github.com/abhisek/prepcoach/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const dashboardAnswer = "I built a dashboard that reduced reporting time by 40% using automated pipelines."

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	c := coach.New(llm.OfflineProvider{}, nil, zerolog.Nop())
	svc := session.NewService(c, st.Records(), session.Config{}, zerolog.Nop())
	return NewServer(svc, zerolog.Nop()).Handler()
}

func do(t *testing.T, h http.Handler, method, path string, body any, out any) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if out != nil {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
	}
	return rec.Code
}

func TestHealthz(t *testing.T) {
	h := newTestServer(t)
	var out map[string]string
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/healthz", nil, &out))
	assert.Equal(t, "ok", out["status"])
}

func TestSessionFlow(t *testing.T) {
	h := newTestServer(t)

	var started SessionResponse
	code := do(t, h, http.MethodPost, "/api/v1/sessions", StartSessionRequest{UserName: "ana", Role: "Software Engineer", Count: 2}, &started)
	require.Equal(t, http.StatusCreated, code)
	require.Len(t, started.Questions, 2)
	assert.Equal(t, 1, started.NextQuestionID)
	assert.NotEmpty(t, started.Questions[0].Text)
	assert.Equal(t, interview.DifficultyEasy, started.Questions[0].Difficulty)

	base := "/api/v1/sessions/" + jsonNumber(started.SessionID)

	var answer AnswerResponse
	code = do(t, h, http.MethodPost, base+"/answers", SubmitAnswerRequest{QuestionID: 1, Answer: dashboardAnswer}, &answer)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, interview.SourceFallback, answer.Evaluation.Source)
	assert.GreaterOrEqual(t, answer.Evaluation.OverallScore, 70.0)
	assert.NotEmpty(t, answer.Evaluation.ImprovedAnswer)
	assert.Contains(t, answer.Evaluation.SoftSkills, "Results orientation")
	assert.Equal(t, 1, answer.Answered)
	assert.Equal(t, 2, answer.Total)

	var current SessionResponse
	require.Equal(t, http.StatusOK, do(t, h, http.MethodGet, base, nil, &current))
	assert.Equal(t, 2, current.NextQuestionID)
	assert.Equal(t, 1, current.Answered)

	var errResp ErrorResponse
	code = do(t, h, http.MethodPost, base+"/answers", SubmitAnswerRequest{QuestionID: 9, Answer: "x"}, &errResp)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "unknown question", errResp.Message)

	var finished FinishResponse
	require.Equal(t, http.StatusOK, do(t, h, http.MethodPost, base+"/finish", nil, &finished))
	assert.Equal(t, 1, finished.Answered)
	require.Len(t, finished.Badges, 1)
	assert.Equal(t, "first_interview", finished.Badges[0].ID)
	assert.Equal(t, "First Interview", finished.Badges[0].Name)

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodPost, base+"/finish", nil, nil))

	var st stats.UserStats
	require.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/api/v1/users/ana/stats", nil, &st))
	assert.Equal(t, 1, st.TotalSessions)
	assert.Equal(t, 1, st.TotalQuestions)

	var achievements []BadgeDTO
	require.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/api/v1/users/ana/achievements", nil, &achievements))
	require.Len(t, achievements, 1)
	assert.NotNil(t, achievements[0].EarnedAt)

	var tips interview.Tips
	require.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/api/v1/users/ana/tips?role=Nurse", nil, &tips))
	assert.Len(t, tips.Tips, 5)
	assert.Len(t, tips.FocusAreas, 2)
}

func TestBadRequests(t *testing.T) {
	h := newTestServer(t)

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/api/v1/sessions", map[string]string{"role": "x"}, nil))
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/api/v1/sessions", StartSessionRequest{UserName: "  "}, nil))
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/api/v1/sessions/abc/answers", SubmitAnswerRequest{QuestionID: 1}, nil))
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodPost, "/api/v1/sessions/42/answers", SubmitAnswerRequest{QuestionID: 1}, nil))
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/api/v1/sessions/42", nil, nil))

	var started SessionResponse
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/v1/sessions", StartSessionRequest{UserName: "ben"}, &started))
	assert.Len(t, started.Questions, interview.DefaultQuestionCount)
	path := "/api/v1/sessions/" + jsonNumber(started.SessionID) + "/answers"
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, path, map[string]string{"answer": "no id"}, nil))
}

func TestEmptyUserStats(t *testing.T) {
	h := newTestServer(t)
	var st stats.UserStats
	require.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/api/v1/users/nobody/stats", nil, &st))
	assert.Equal(t, "nobody", st.UserName)
	assert.Zero(t, st.TotalQuestions)

	var achievements []BadgeDTO
	require.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/api/v1/users/nobody/achievements", nil, &achievements))
	assert.Empty(t, achievements)
}

func TestCORS(t *testing.T) {
	h := newTestServer(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/sessions", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func jsonNumber(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}
