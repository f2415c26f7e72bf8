package api_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearthplan/backend/internal/api"
	"github.com/hearthplan/backend/internal/models"
)

func TestCreateActivity(t *testing.T) {
	app := setupAPI(t)
	parentID, parentToken := app.loginAs(t, "parent@example.com", models.RoleParent)
	childID, _ := app.loginAs(t, "kid@example.com", models.RoleChild)

	w := app.request(t, http.MethodPost, "/api/activities", gin.H{
		"title":         "Soccer practice",
		"start_time":    "2024-04-02T16:00:00Z",
		"end_time":      "2024-04-02T17:30:00Z",
		"location":      "City park",
		"assigned_to":   childID,
		"activity_type": "sports",
	}, parentToken)
	require.Equal(t, http.StatusCreated, w.Code)

	var activity models.Activity
	decodeJSON(t, w, &activity)
	assert.Equal(t, "Soccer practice", activity.Title)
	assert.Equal(t, parentID, activity.CreatedBy.String())
	require.NotNil(t, activity.AssignedTo)
	assert.Equal(t, childID, activity.AssignedTo.String())
}

func TestListActivitiesEnrichesUsers(t *testing.T) {
	app := setupAPI(t)
	_, parentToken := app.loginAs(t, "parent@example.com", models.RoleParent)
	childID, childToken := app.loginAs(t, "kid@example.com", models.RoleChild)

	w := app.request(t, http.MethodPost, "/api/activities", gin.H{
		"title":         "Dentist",
		"start_time":    "2024-04-02T09:00:00Z",
		"assigned_to":   childID,
		"activity_type": "appointment",
	}, parentToken)
	require.Equal(t, http.StatusCreated, w.Code)

	w = app.request(t, http.MethodGet, "/api/activities?userId="+childID, nil, childToken)
	require.Equal(t, http.StatusOK, w.Code)

	var activities []api.ActivityResponse
	decodeJSON(t, w, &activities)
	require.Len(t, activities, 1)
	require.NotNil(t, activities[0].AssignedUser)
	assert.Equal(t, childID, activities[0].AssignedUser.ID)
	require.NotNil(t, activities[0].CreatedByUser)
	assert.Equal(t, models.RoleParent, activities[0].CreatedByUser.Role)
}

func TestListActivitiesByDate(t *testing.T) {
	app := setupAPI(t)
	_, token := app.loginAs(t, "parent@example.com", models.RoleParent)

	for _, start := range []string{"2024-04-02T09:00:00Z", "2024-04-02T15:00:00Z", "2024-04-03T09:00:00Z"} {
		w := app.request(t, http.MethodPost, "/api/activities", gin.H{
			"title":         "Errand",
			"start_time":    start,
			"activity_type": "chore",
		}, token)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := app.request(t, http.MethodGet, "/api/activities?date=2024-04-02", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	var activities []api.ActivityResponse
	decodeJSON(t, w, &activities)
	assert.Len(t, activities, 2)
}

func TestActivityWritesRequireParent(t *testing.T) {
	app := setupAPI(t)
	_, cookToken := app.loginAs(t, "cook@example.com", models.RoleCook)
	_, childToken := app.loginAs(t, "kid@example.com", models.RoleChild)

	body := gin.H{
		"title":         "Movie night",
		"start_time":    "2024-04-05T19:00:00Z",
		"activity_type": "family",
	}
	w := app.request(t, http.MethodPost, "/api/activities", body, childToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = app.request(t, http.MethodPost, "/api/activities", body, cookToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	var count int64
	require.NoError(t, app.db.Model(&models.Activity{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestUpdateAndDeleteActivity(t *testing.T) {
	app := setupAPI(t)
	_, token := app.loginAs(t, "parent@example.com", models.RoleParent)

	activity := models.Activity{
		Title:        "Homework",
		StartTime:    time.Date(2024, 4, 2, 16, 0, 0, 0, time.UTC),
		CreatedBy:    mustUserID(t, app, "parent@example.com"),
		ActivityType: "chore",
	}
	require.NoError(t, app.db.Create(&activity).Error)

	w := app.request(t, http.MethodPut, "/api/activities/"+activity.ID.String(), gin.H{
		"completed": true,
		"title":     "Math homework",
	}, token)
	require.Equal(t, http.StatusOK, w.Code)

	var stored models.Activity
	require.NoError(t, app.db.First(&stored, "id = ?", activity.ID).Error)
	assert.True(t, stored.Completed)
	assert.Equal(t, "Math homework", stored.Title)

	w = app.request(t, http.MethodDelete, "/api/activities/"+activity.ID.String(), nil, token)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = app.request(t, http.MethodDelete, "/api/activities/"+activity.ID.String(), nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func mustUserID(t *testing.T, app *testApp, email string) uuid.UUID {
	t.Helper()
	var user models.User
	require.NoError(t, app.db.First(&user, "email = ?", email).Error)
	return user.ID
}
