package courseController

import (
	"net/http"
	"testing"

	"github.com/Rwigenzadavy/techlearnhub/cache"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardFallsBackToCache(t *testing.T) {
	app, db := setupApp(t)
	user, token := seedUser(t, db)
	seedCourse(t, db, 4)

	// A signed-in session exists in the mirror, as after login
	session := cache.SessionUser{ID: user.ID, Name: user.Name, Email: user.Email, Courses: []uint{}}
	require.NoError(t, cache.Local.Put(cache.SessionKey(user.ID), session))

	resp := doRequest(t, app, http.MethodPost, "/course/1/enroll", token)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Store goes away; the dashboard answers from the mirror
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	resp = doRequest(t, app, http.MethodGet, "/user/dashboard", token)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, true, data["served_from_cache"])

	stats := data["stats"].(map[string]interface{})
	assert.EqualValues(t, 1, stats["enrolled"])
	assert.EqualValues(t, 0, stats["completed"])

	cards := data["my_courses"].([]interface{})
	require.Len(t, cards, 1)
	card := cards[0].(map[string]interface{})
	assert.Equal(t, "Go Basics", card["name"])
	assert.Equal(t, "Learn Go", card["description"])
	assert.EqualValues(t, 0, card["progress"])
}

func TestReviewSummaryUnreachableStore(t *testing.T) {
	_, db := setupApp(t)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	avg, count := reviewSummary(db, 1)
	assert.Zero(t, avg)
	assert.Zero(t, count)
}
