// Package progress computes, persists and reports per-course completion. A
// lesson completion is recorded in the local completed-lesson set first and
// then pushed to the enrollment row; a failed push is queued and replayed by
// the reconciliation job, so local and remote state converge instead of
// silently diverging.
package progress

import (
	"errors"
	"log"
	"math"
	"time"

	"github.com/Rwigenzadavy/techlearnhub/cache"
	"github.com/Rwigenzadavy/techlearnhub/database"
	"github.com/Rwigenzadavy/techlearnhub/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CourseProgress is the reported progress state for one enrollment.
type CourseProgress struct {
	Progress       int    `json:"progress"`
	Completed      bool   `json:"completed"`
	CompletionDate string `json:"completion_date,omitempty"` // display form, m/d/yyyy
	EnrolledAt     string `json:"enrolled_at,omitempty"`
}

// MarkResult describes the outcome of a lesson completion.
type MarkResult struct {
	AlreadyCompleted bool   `json:"already_completed"`
	Progress         int    `json:"progress"`
	Completed        bool   `json:"completed"`
	JustCompleted    bool   `json:"just_completed"`
	Synced           bool   `json:"synced"` // false when the enrollment write is queued for retry
	CompletedLessons []uint `json:"completed_lessons"`
}

// displayDate matches the date format the dashboard renders.
const displayDate = "1/2/2006"

// Compute returns the completion percentage, rounded to the nearest integer.
// A course with no lessons is 0% complete.
func Compute(completedCount, totalLessons int) int {
	if totalLessons <= 0 {
		return 0
	}
	return int(math.Round(float64(completedCount) / float64(totalLessons) * 100))
}

// MarkLessonComplete records a lesson completion for an enrolled user. It is
// idempotent: marking an already-completed lesson changes nothing. The local
// set is updated first; the enrollment row write may be deferred to the
// reconciliation queue if the database is unavailable.
func MarkLessonComplete(userID string, courseID, lessonID uint) (*MarkResult, error) {
	completed, added, err := cache.Local.AddCompletedLesson(userID, courseID, lessonID)
	if err != nil {
		return nil, err
	}
	if !added {
		pct, done := currentState(userID, courseID, len(completed))
		return &MarkResult{
			AlreadyCompleted: true,
			Progress:         pct,
			Completed:        done,
			Synced:           true,
			CompletedLessons: completed,
		}, nil
	}

	total := lessonCount(courseID)
	pct := Compute(len(completed), total)
	done := total > 0 && pct == 100

	result := &MarkResult{
		Progress:         pct,
		Completed:        done,
		Synced:           true,
		CompletedLessons: completed,
	}

	justCompleted, err := pushEnrollment(userID, courseID, pct, done)
	if err != nil {
		log.Printf("Error updating progress for user %s course %d, queued for retry: %v", userID, courseID, err)
		if qerr := cache.Local.EnqueueSync(cache.PendingSync{UserID: userID, CourseID: courseID}); qerr != nil {
			log.Printf("Error queueing progress sync: %v", qerr)
		}
		result.Synced = false
		return result, nil
	}

	result.JustCompleted = justCompleted
	if justCompleted {
		issueCertificate(userID, courseID)
	}

	refreshSnapshot(userID)
	return result, nil
}

// LoadAll replaces the cached progress snapshot for a user with what the
// enrollment rows report and returns the fresh mapping.
func LoadAll(userID string) (map[uint]CourseProgress, error) {
	var enrollments []models.Enrollment
	if err := database.Database.Db.Where("user_id = ?", userID).Find(&enrollments).Error; err != nil {
		return nil, err
	}

	mapping := make(map[uint]CourseProgress, len(enrollments))
	courseIDs := make([]uint, 0, len(enrollments))
	for _, e := range enrollments {
		cp := CourseProgress{
			Progress:   e.Progress,
			Completed:  e.Completed,
			EnrolledAt: e.EnrolledAt.Format(displayDate),
		}
		if e.CompletionDate != nil {
			cp.CompletionDate = e.CompletionDate.Format(displayDate)
		}
		mapping[e.CourseID] = cp
		courseIDs = append(courseIDs, e.CourseID)
	}

	if err := cache.Local.Put(cache.ProgressKey(userID), mapping); err != nil {
		log.Printf("Error caching progress snapshot for user %s: %v", userID, err)
	}
	mirrorCourses(userID, courseIDs)
	return mapping, nil
}

// mirrorCourses keeps the cached metadata for the user's enrolled courses in
// step with the catalog, so the offline dashboard can render course names.
func mirrorCourses(userID string, courseIDs []uint) {
	snapshot := make([]cache.CourseSnapshot, 0, len(courseIDs))
	if len(courseIDs) > 0 {
		var courses []models.Course
		if err := database.Database.Db.Where("id IN ?", courseIDs).Find(&courses).Error; err != nil {
			log.Printf("Error mirroring course metadata for user %s: %v", userID, err)
			return
		}
		for _, c := range courses {
			snapshot = append(snapshot, cache.CourseSnapshot{ID: c.ID, Name: c.Name, Description: c.Description})
		}
	}
	if err := cache.Local.Put(cache.CoursesKey(userID), snapshot); err != nil {
		log.Printf("Error caching course metadata for user %s: %v", userID, err)
	}
}

// Get is a pure lookup against the cached snapshot. A course with no record
// reports zero progress; Get never fails.
func Get(userID string, courseID uint) CourseProgress {
	var mapping map[uint]CourseProgress
	if _, err := cache.Local.Get(cache.ProgressKey(userID), &mapping); err != nil {
		log.Printf("Error reading progress snapshot for user %s: %v", userID, err)
	}
	if cp, ok := mapping[courseID]; ok {
		return cp
	}
	return CourseProgress{Progress: 0, Completed: false}
}

// SyncPending replays queued enrollment writes. Entries stay queued until a
// write succeeds.
func SyncPending() {
	queue := cache.Local.PendingSyncs()
	if len(queue) == 0 {
		return
	}
	log.Printf("[PROGRESS-SYNC] Replaying %d pending progress writes", len(queue))

	for _, p := range queue {
		completed := cache.Local.CompletedLessons(p.UserID, p.CourseID)
		total := lessonCount(p.CourseID)
		pct := Compute(len(completed), total)
		done := total > 0 && pct == 100

		justCompleted, err := pushEnrollment(p.UserID, p.CourseID, pct, done)
		if err != nil {
			log.Printf("[PROGRESS-SYNC] Write still failing for user %s course %d: %v", p.UserID, p.CourseID, err)
			continue
		}
		if justCompleted {
			issueCertificate(p.UserID, p.CourseID)
		}
		if err := cache.Local.DequeueSync(p); err != nil {
			log.Printf("[PROGRESS-SYNC] Error dequeueing sync entry: %v", err)
		}
		refreshSnapshot(p.UserID)
	}
}

// pushEnrollment writes {progress, completed} to the enrollment row, keeping
// the completed flag one-way: a completed enrollment never reverts and never
// drops below 100%. Returns whether this write flipped the flag.
func pushEnrollment(userID string, courseID uint, pct int, done bool) (bool, error) {
	db := database.Database.Db

	var enrollment models.Enrollment
	if err := db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&enrollment).Error; err != nil {
		return false, err
	}

	if enrollment.Completed {
		return false, nil
	}

	enrollment.Progress = pct
	justCompleted := false
	if done {
		enrollment.Completed = true
		now := time.Now()
		enrollment.CompletionDate = &now
		justCompleted = true
	}

	if err := db.Save(&enrollment).Error; err != nil {
		return false, err
	}
	return justCompleted, nil
}

// issueCertificate creates the certificate row for a freshly completed course.
// Best-effort: a failure is logged and the completion itself stands.
func issueCertificate(userID string, courseID uint) {
	db := database.Database.Db

	var existing models.Certificate
	if err := db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&existing).Error; err == nil {
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Error checking existing certificate: %v", err)
		return
	}

	cert := models.Certificate{
		UserID:            userID,
		CourseID:          courseID,
		CertificateNumber: uuid.NewString(),
		IssuedAt:          time.Now(),
	}
	if err := db.Create(&cert).Error; err != nil {
		log.Printf("Error issuing certificate for user %s course %d: %v", userID, courseID, err)
	}
}

// lessonCount returns the number of live lessons in a course. The lesson rows,
// not the course's display counter, are authoritative for percentages.
func lessonCount(courseID uint) int {
	var total int64
	if err := database.Database.Db.Model(&models.Lesson{}).
		Where("course_id = ? AND is_deleted = ?", courseID, false).
		Count(&total).Error; err != nil {
		log.Printf("Error counting lessons for course %d: %v", courseID, err)
		return 0
	}
	return int(total)
}

// currentState reads the enrollment row for an already-marked lesson so the
// repeat call can answer without writing. Falls back to a local recompute when
// the row is unreachable.
func currentState(userID string, courseID uint, completedCount int) (int, bool) {
	var enrollment models.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&enrollment).Error; err == nil {
		return enrollment.Progress, enrollment.Completed
	}
	total := lessonCount(courseID)
	pct := Compute(completedCount, total)
	return pct, total > 0 && pct == 100
}

// refreshSnapshot reloads the cached per-user progress mapping after a write.
func refreshSnapshot(userID string) {
	if _, err := LoadAll(userID); err != nil {
		log.Printf("Error refreshing progress snapshot for user %s: %v", userID, err)
	}
}
