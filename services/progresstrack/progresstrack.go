package progresstrack

import (
	"errors"
	"math"
	"time"

	"talim/models"
)

// ErrLessonNotFound means the addressed lesson is not part of the progress
// record's curriculum snapshot.
var ErrLessonNotFound = errors.New("lesson not found in progress")

// BuildLessonSnapshot flattens a course curriculum into per-lesson progress
// rows. The snapshot is taken once, at progress creation; later curriculum
// edits do not alter existing records.
func BuildLessonSnapshot(course *models.Course) []models.LessonProgress {
	var lessons []models.LessonProgress
	for moduleIndex, module := range course.Curriculum {
		for lessonIndex, lesson := range module.Lessons {
			lessons = append(lessons, models.LessonProgress{
				LessonID:    lesson.LessonID,
				ModuleIndex: moduleIndex,
				LessonIndex: lessonIndex,
				Status:      models.LessonNotStarted,
			})
		}
	}
	return lessons
}

// Recompute derives OverallProgress from the completed-lesson ratio and sets
// the completion flag exactly once when it reaches 100.
func Recompute(p *models.Progress) {
	total := len(p.Lessons)
	if total == 0 {
		return
	}

	completed := 0
	for _, lesson := range p.Lessons {
		if lesson.Status == models.LessonCompleted {
			completed++
		}
	}

	p.OverallProgress = int(math.Round(float64(completed) / float64(total) * 100))

	if p.OverallProgress == 100 && !p.IsCompleted {
		now := time.Now()
		p.IsCompleted = true
		p.CompletedAt = &now
	}
}

// ApplyLessonUpdate marks the addressed lesson, accumulates time spent and
// recomputes the overall percentage. It mutates p in place; persisting the
// change is the caller's job.
func ApplyLessonUpdate(p *models.Progress, lessonID string, completed bool, timeSpent int) error {
	var target *models.LessonProgress
	for i := range p.Lessons {
		if p.Lessons[i].LessonID == lessonID {
			target = &p.Lessons[i]
			break
		}
	}
	if target == nil {
		return ErrLessonNotFound
	}

	now := time.Now()
	if target.StartedAt == nil {
		target.StartedAt = &now
	}
	if timeSpent > 0 {
		target.TimeSpent += timeSpent
		p.TotalTimeSpent += timeSpent
	}

	if completed {
		if target.Status != models.LessonCompleted {
			target.Status = models.LessonCompleted
			target.CompletedAt = &now
		}
	} else if target.Status == models.LessonNotStarted {
		target.Status = models.LessonInProgress
	}

	p.LastAccessedAt = now
	p.LastAccessedLesson = lessonID
	Recompute(p)

	return nil
}

// CompletedLessonCount returns how many lessons in the record are completed
func CompletedLessonCount(p *models.Progress) int {
	count := 0
	for _, lesson := range p.Lessons {
		if lesson.Status == models.LessonCompleted {
			count++
		}
	}
	return count
}
