package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pav-beep/calorie.app/internal/api"
	"github.com/pav-beep/calorie.app/internal/models"
	"github.com/pav-beep/calorie.app/internal/router"
	"github.com/pav-beep/calorie.app/internal/service"
	"github.com/pav-beep/calorie.app/internal/store"
)

// fakeVision replays a canned model reply without calling a real
// provider.
type fakeVision struct {
	reply string
	err   error
	calls int
}

func (f *fakeVision) AnalyzeMeal(ctx context.Context, image []byte, mimeType string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

// memDraftStore is an in-memory service.DraftStore.
type memDraftStore struct {
	drafts map[string]service.PendingDraft
}

func newMemDraftStore() *memDraftStore {
	return &memDraftStore{drafts: make(map[string]service.PendingDraft)}
}

func (m *memDraftStore) SaveDraft(ctx context.Context, draft *service.PendingDraft) error {
	draft.ID = uuid.New().String()
	m.drafts[draft.ID] = *draft
	return nil
}

func (m *memDraftStore) GetDraft(ctx context.Context, id string) (*service.PendingDraft, error) {
	draft, ok := m.drafts[id]
	if !ok {
		return nil, models.ErrDraftNotFound
	}
	return &draft, nil
}

func (m *memDraftStore) UpdateDraft(ctx context.Context, draft *service.PendingDraft) error {
	if _, ok := m.drafts[draft.ID]; !ok {
		return models.ErrDraftNotFound
	}
	m.drafts[draft.ID] = *draft
	return nil
}

func (m *memDraftStore) DeleteDraft(ctx context.Context, id string) error {
	delete(m.drafts, id)
	return nil
}

const mealReply = "```json\n" + `{
  "food_name": "Chicken salad",
  "calories": "450 kcal",
  "protein": "30g",
  "carbs": 12,
  "fat": 28,
  "micros": "iron, potassium"
}` + "\n```"

type mealFixture struct {
	router *gin.Engine
	vision *fakeVision
	drafts *memDraftStore
	cookie *http.Cookie
}

func setupMealRouter(t *testing.T) *mealFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	ledgerStore, err := store.NewGormStoreWithDB(db)
	require.NoError(t, err)

	vision := &fakeVision{reply: mealReply}
	drafts := newMemDraftStore()

	authSvc := service.NewAuthService(&fakeDirectory{}, []string{"LAUNCH24"}, "test-secret")
	authHandler := api.NewAuthHandler(authSvc)
	mealHandler := api.NewMealHandler(vision, drafts, service.NewLedgerService(ledgerStore), nil)
	r := router.SetupRouter(authHandler, mealHandler, authSvc)

	login := postLogin(r, `{"identifier":"LAUNCH24"}`)
	require.Equal(t, http.StatusOK, login.Code, login.Body.String())

	return &mealFixture{
		router: r,
		vision: vision,
		drafts: drafts,
		cookie: sessionCookie(t, login),
	}
}

// pngBytes is enough of a PNG for content sniffing to accept it.
var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\x0dIHDR")

func (f *mealFixture) do(t *testing.T, method, path string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, body)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.AddCookie(f.cookie)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *mealFixture) analyze(t *testing.T, image []byte) *httptest.ResponseRecorder {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("image", "meal.png")
	require.NoError(t, err)
	_, err = part.Write(image)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	return f.do(t, "POST", "/api/v1/meals/analyze", body, writer.FormDataContentType())
}

func decodeDraft(t *testing.T, w *httptest.ResponseRecorder) service.PendingDraft {
	t.Helper()
	var resp struct {
		Draft service.PendingDraft `json:"draft"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp.Draft
}

func TestAnalyzeCreatesDraft(t *testing.T) {
	f := setupMealRouter(t)

	w := f.analyze(t, pngBytes)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	draft := decodeDraft(t, w)
	assert.NotEmpty(t, draft.ID)
	assert.Equal(t, "Guest-LAUNCH24", draft.Identity)
	assert.Equal(t, "Chicken salad", draft.Record.FoodName)
	assert.Equal(t, models.Amount(450), draft.Record.Calories)
	assert.Equal(t, models.Amount(30), draft.Record.Protein)
	assert.Equal(t, 1, f.vision.calls)

	// Nothing reaches the ledger until the draft is committed.
	today := f.do(t, "GET", "/api/v1/meals/today", nil, "")
	require.Equal(t, http.StatusOK, today.Code)
	assert.Contains(t, today.Body.String(), `"calories":0`)
}

func TestAnalyzeRequiresAuth(t *testing.T) {
	f := setupMealRouter(t)

	req := httptest.NewRequest("POST", "/api/v1/meals/analyze", nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAnalyzeRejectsNonImage(t *testing.T) {
	f := setupMealRouter(t)

	w := f.analyze(t, []byte("not an image at all"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "JPEG or PNG")
	assert.Zero(t, f.vision.calls)
}

func TestAnalyzeUnparsableReplyIsUnprocessable(t *testing.T) {
	f := setupMealRouter(t)
	f.vision.reply = "Sorry, I can't tell what this is."

	w := f.analyze(t, pngBytes)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "retake the photo")
	assert.Empty(t, f.drafts.drafts)
}

func TestAnalyzeVisionDownIsServiceUnavailable(t *testing.T) {
	f := setupMealRouter(t)
	f.vision.err = fmt.Errorf("%w: gemini timed out", models.ErrConnection)

	w := f.analyze(t, pngBytes)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestDraftEditThenCommitFlow(t *testing.T) {
	f := setupMealRouter(t)

	draft := decodeDraft(t, f.analyze(t, pngBytes))

	// User corrects the portion size before confirming.
	update := `{"food_name":"Chicken salad (large)","calories":600,"protein":"40g","carbs":15,"fat":35,"micros":"iron"}`
	w := f.do(t, "PUT", "/api/v1/meals/drafts/"+draft.ID, bytes.NewBufferString(update), "application/json")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decodeDraft(t, w)
	assert.Equal(t, models.Amount(600), updated.Record.Calories)
	assert.Equal(t, models.Amount(40), updated.Record.Protein)

	w = f.do(t, "POST", "/api/v1/meals/drafts/"+draft.ID+"/commit", nil, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// The draft is gone once committed.
	w = f.do(t, "GET", "/api/v1/meals/drafts/"+draft.ID, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Today's totals reflect the edited values, not the model's.
	today := f.do(t, "GET", "/api/v1/meals/today", nil, "")
	require.Equal(t, http.StatusOK, today.Code)

	var summary models.DailySummary
	require.NoError(t, json.NewDecoder(today.Body).Decode(&summary))
	assert.Equal(t, 600.0, summary.Calories)
	assert.Equal(t, 40.0, summary.Protein)
	require.Len(t, summary.Entries, 1)
	assert.Equal(t, "Chicken salad (large)", summary.Entries[0].FoodName)
}

func TestCommitTwiceDoesNotDoubleLog(t *testing.T) {
	f := setupMealRouter(t)

	draft := decodeDraft(t, f.analyze(t, pngBytes))

	w := f.do(t, "POST", "/api/v1/meals/drafts/"+draft.ID+"/commit", nil, "")
	require.Equal(t, http.StatusCreated, w.Code)

	w = f.do(t, "POST", "/api/v1/meals/drafts/"+draft.ID+"/commit", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	today := f.do(t, "GET", "/api/v1/meals/today", nil, "")
	var summary models.DailySummary
	require.NoError(t, json.NewDecoder(today.Body).Decode(&summary))
	assert.Len(t, summary.Entries, 1)
}

func TestDiscardDraft(t *testing.T) {
	f := setupMealRouter(t)

	draft := decodeDraft(t, f.analyze(t, pngBytes))

	w := f.do(t, "DELETE", "/api/v1/meals/drafts/"+draft.ID, nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	today := f.do(t, "GET", "/api/v1/meals/today", nil, "")
	assert.Contains(t, today.Body.String(), `"calories":0`)
}

func TestForeignDraftReadsAsNotFound(t *testing.T) {
	f := setupMealRouter(t)

	draft := &service.PendingDraft{Identity: "someone-else@example.com"}
	require.NoError(t, f.drafts.SaveDraft(context.Background(), draft))

	for _, probe := range []struct {
		method, path string
	}{
		{"GET", "/api/v1/meals/drafts/" + draft.ID},
		{"DELETE", "/api/v1/meals/drafts/" + draft.ID},
		{"POST", "/api/v1/meals/drafts/" + draft.ID + "/commit"},
	} {
		w := f.do(t, probe.method, probe.path, nil, "")
		assert.Equal(t, http.StatusNotFound, w.Code, "%s %s", probe.method, probe.path)
	}
}

func TestUpdateDraftRequiresFoodName(t *testing.T) {
	f := setupMealRouter(t)

	draft := decodeDraft(t, f.analyze(t, pngBytes))

	w := f.do(t, "PUT", "/api/v1/meals/drafts/"+draft.ID, bytes.NewBufferString(`{"calories":600}`), "application/json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
