package cache

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTest(t *testing.T) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "cache.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Entry{}))
	Local = LocalCache{Db: db}
}

func TestPutGetRoundTrip(t *testing.T) {
	setupTest(t)

	session := SessionUser{ID: "u1", Name: "Ada", Email: "ada@x.com", Courses: []uint{1, 3}}
	require.NoError(t, Local.Put(SessionKey("u1"), session))

	var loaded SessionUser
	found, err := Local.Get(SessionKey("u1"), &loaded)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, session, loaded)
}

func TestGetAbsentKeyIsNotAnError(t *testing.T) {
	setupTest(t)

	var out SessionUser
	found, err := Local.Get(SessionKey("missing"), &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestPutOverwrites(t *testing.T) {
	setupTest(t)

	require.NoError(t, Local.Put("k", []uint{1}))
	require.NoError(t, Local.Put("k", []uint{1, 2, 3}))

	var out []uint
	found, err := Local.Get("k", &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []uint{1, 2, 3}, out)
}

func TestDeleteAbsentKeyIsNoOp(t *testing.T) {
	setupTest(t)
	assert.NoError(t, Local.Delete("never-written"))
}

func TestCompletedLessonsHelpers(t *testing.T) {
	setupTest(t)

	assert.Empty(t, Local.CompletedLessons("u1", 7))

	require.NoError(t, Local.SaveCompletedLessons("u1", 7, []uint{10, 11}))
	assert.Equal(t, []uint{10, 11}, Local.CompletedLessons("u1", 7))

	// Sets are namespaced per user and course
	assert.Empty(t, Local.CompletedLessons("u2", 7))
	assert.Empty(t, Local.CompletedLessons("u1", 8))
}

func TestAddCompletedLessonIdempotent(t *testing.T) {
	setupTest(t)

	set, added, err := Local.AddCompletedLesson("u1", 7, 10)
	require.NoError(t, err)
	assert.True(t, added)
	assert.Equal(t, []uint{10}, set)

	set, added, err = Local.AddCompletedLesson("u1", 7, 10)
	require.NoError(t, err)
	assert.False(t, added)
	assert.Equal(t, []uint{10}, set)
}

func TestAddCompletedLessonConcurrent(t *testing.T) {
	setupTest(t)

	const lessons = 16
	var wg sync.WaitGroup
	for i := 1; i <= lessons; i++ {
		wg.Add(1)
		go func(id uint) {
			defer wg.Done()
			_, _, err := Local.AddCompletedLesson("u1", 7, id)
			assert.NoError(t, err)
		}(uint(i))
	}
	wg.Wait()

	// No concurrent add may drop another's completion
	assert.Len(t, Local.CompletedLessons("u1", 7), lessons)
}

func TestPendingSyncQueue(t *testing.T) {
	setupTest(t)

	p := PendingSync{UserID: "u1", CourseID: 3}
	require.NoError(t, Local.EnqueueSync(p))
	require.NoError(t, Local.EnqueueSync(p)) // duplicates collapse
	require.NoError(t, Local.EnqueueSync(PendingSync{UserID: "u2", CourseID: 3}))

	queue := Local.PendingSyncs()
	require.Len(t, queue, 2)

	require.NoError(t, Local.DequeueSync(p))
	queue = Local.PendingSyncs()
	require.Len(t, queue, 1)
	assert.Equal(t, "u2", queue[0].UserID)
}
