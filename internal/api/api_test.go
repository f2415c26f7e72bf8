package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/hearthplan/backend/internal/api"
	"github.com/hearthplan/backend/internal/middleware"
	"github.com/hearthplan/backend/internal/router"
	"github.com/hearthplan/backend/internal/service"
	"github.com/hearthplan/backend/internal/testhelpers"
)

type testApp struct {
	engine *gin.Engine
	db     *gorm.DB
	auth   *service.AuthService
	llm    *testhelpers.MockSuggestionClient
}

func setupAPI(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupTestDatabase(t)
	llm := &testhelpers.MockSuggestionClient{}
	authSvc := service.NewAuthService(db)
	shoppingSvc := service.NewShoppingService(db, llm)

	handlers := router.Handlers{
		Auth:       api.NewAuthHandler(authSvc),
		Users:      api.NewUsersHandler(db, authSvc, nil),
		Meals:      api.NewMealsHandler(db, llm),
		MealPlans:  api.NewMealPlansHandler(db),
		Activities: api.NewActivitiesHandler(db),
		Shopping:   api.NewShoppingHandler(db, shoppingSvc),
	}

	return &testApp{
		engine: router.SetupRouter(handlers, authSvc, nil),
		db:     db,
		auth:   authSvc,
		llm:    llm,
	}
}

// request performs an HTTP request against the router. A non-empty session
// token is attached as the session cookie.
func (a *testApp) request(t *testing.T, method, path string, body interface{}, session string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if session != "" {
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: session})
	}

	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

// loginAs registers a user with the given role and returns the user id and
// a live session token.
func (a *testApp) loginAs(t *testing.T, email, role string) (string, string) {
	t.Helper()
	ctx := context.Background()

	user, err := a.auth.Register(ctx, email, "secret123", "Test "+role, role)
	require.NoError(t, err)

	session, err := a.auth.CreateSession(ctx, user.ID)
	require.NoError(t, err)
	return user.ID.String(), session.Token
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}
