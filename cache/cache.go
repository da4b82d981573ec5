// Package cache is the durable local mirror of session-relevant state. It
// plays the role browser local storage played for the web client: the current
// session user, per-user progress snapshots, per-course review snapshots and
// the completed-lesson sets all live here so views can be served without a
// round trip to PostgreSQL. Values are best-effort JSON snapshots with no
// versioning; an absent key is never an error.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Entry is one key/value pair in the local store.
type Entry struct {
	Key   string `gorm:"primaryKey"`
	Value string
}

// LocalCache holds the SQLite connection for the mirror.
type LocalCache struct {
	Db *gorm.DB
}

// Local is the global cache instance
var Local LocalCache

// pendingMu serializes read-modify-write cycles on the pending sync queue,
// which is touched by both request handlers and the cron job.
var pendingMu sync.Mutex

// completedMu serializes read-modify-write cycles on the completed-lesson
// sets so concurrent marks from one user cannot drop a completion.
var completedMu sync.Mutex

// Connect opens (or creates) the local mirror database.
func Connect(path string) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to open local cache at %s: %v", path, err)
	}

	if err := db.AutoMigrate(&Entry{}); err != nil {
		log.Fatalf("Local cache migration failed: %v", err)
	}

	Local = LocalCache{Db: db}
}

// Put overwrites the value stored under key with the JSON encoding of v.
func (l LocalCache) Put(key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}

	entry := Entry{Key: key, Value: string(raw)}
	return l.Db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&entry).Error
}

// Get decodes the value stored under key into out. The second return is false
// when the key is absent, which is not an error.
func (l LocalCache) Get(key string, out interface{}) (bool, error) {
	var entry Entry
	if err := l.Db.Where("key = ?", key).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal([]byte(entry.Value), out); err != nil {
		return false, err
	}
	return true, nil
}

// Delete removes a key. Deleting an absent key is a no-op.
func (l LocalCache) Delete(key string) error {
	return l.Db.Where("key = ?", key).Delete(&Entry{}).Error
}

// Storage keys. The completed-lesson sets use their own namespace per course,
// separate from the unified per-user snapshot.
func SessionKey(userID string) string  { return "session_user_" + userID }
func ProgressKey(userID string) string { return "user_progress_" + userID }
func CoursesKey(userID string) string  { return "enrolled_courses_" + userID }
func ReviewsKey(courseID uint) string  { return fmt.Sprintf("course_reviews_%d", courseID) }

func CompletedKey(userID string, courseID uint) string {
	return fmt.Sprintf("completed_course_%s_%d", userID, courseID)
}

const pendingSyncKey = "pending_progress_sync"

// SessionUser is the cached shape of the signed-in user.
type SessionUser struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Courses []uint `json:"courses"`
}

// CourseSnapshot is the cached metadata for one enrolled course, enough for
// the dashboard to render a card without reaching the catalog.
type CourseSnapshot struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// PendingSync identifies an enrollment whose remote progress write failed and
// still has to be replayed.
type PendingSync struct {
	UserID   string `json:"user_id"`
	CourseID uint   `json:"course_id"`
}

// CompletedLessons returns the completed-lesson set for one (user, course).
func (l LocalCache) CompletedLessons(userID string, courseID uint) []uint {
	var lessons []uint
	if _, err := l.Get(CompletedKey(userID, courseID), &lessons); err != nil {
		log.Printf("Error reading completed lessons for user %s course %d: %v", userID, courseID, err)
	}
	return lessons
}

// SaveCompletedLessons overwrites the completed-lesson set for one (user, course).
func (l LocalCache) SaveCompletedLessons(userID string, courseID uint, lessons []uint) error {
	completedMu.Lock()
	defer completedMu.Unlock()
	return l.Put(CompletedKey(userID, courseID), lessons)
}

// AddCompletedLesson inserts a lesson into the completed set if it is not
// already there. Returns the resulting set and whether it grew. The set only
// ever grows; the read-check-write runs under the lock.
func (l LocalCache) AddCompletedLesson(userID string, courseID, lessonID uint) ([]uint, bool, error) {
	completedMu.Lock()
	defer completedMu.Unlock()

	lessons := l.CompletedLessons(userID, courseID)
	for _, id := range lessons {
		if id == lessonID {
			return lessons, false, nil
		}
	}

	lessons = append(lessons, lessonID)
	if err := l.Put(CompletedKey(userID, courseID), lessons); err != nil {
		return nil, false, err
	}
	return lessons, true, nil
}

// EnqueueSync records a failed enrollment write for the reconciliation job.
// Duplicate entries are collapsed.
func (l LocalCache) EnqueueSync(p PendingSync) error {
	pendingMu.Lock()
	defer pendingMu.Unlock()

	queue := l.pendingSyncs()
	for _, q := range queue {
		if q == p {
			return nil
		}
	}
	return l.Put(pendingSyncKey, append(queue, p))
}

// DequeueSync removes a replayed entry from the queue.
func (l LocalCache) DequeueSync(p PendingSync) error {
	pendingMu.Lock()
	defer pendingMu.Unlock()

	queue := l.pendingSyncs()
	kept := queue[:0]
	for _, q := range queue {
		if q != p {
			kept = append(kept, q)
		}
	}
	return l.Put(pendingSyncKey, kept)
}

// PendingSyncs returns a copy of the current queue.
func (l LocalCache) PendingSyncs() []PendingSync {
	pendingMu.Lock()
	defer pendingMu.Unlock()
	return l.pendingSyncs()
}

func (l LocalCache) pendingSyncs() []PendingSync {
	var queue []PendingSync
	if _, err := l.Get(pendingSyncKey, &queue); err != nil {
		log.Printf("Error reading pending sync queue: %v", err)
	}
	return queue
}
