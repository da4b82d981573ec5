package database

import (
	"log"

	"github.com/Rwigenzadavy/techlearnhub/models"
	"gorm.io/gorm"
)

type seedLesson struct {
	Order    int
	Title    string
	Duration string
	VideoURL string
}

type seedCourse struct {
	Name        string
	Description string
	Difficulty  string
	Color       string
	Lessons     []seedLesson
}

var catalog = []seedCourse{
	{
		Name:        "HTML & CSS Fundamentals",
		Description: "Build and style your first web pages from scratch.",
		Difficulty:  "Beginner", Color: "green",
		Lessons: []seedLesson{
			{1, "Introduction to HTML", "10 min", "https://www.youtube.com/watch?v=qz0aGYrrlhU"},
			{2, "Text, Links and Images", "14 min", "https://www.youtube.com/watch?v=916GWv2Qs08"},
			{3, "CSS Selectors and Colors", "12 min", "https://www.youtube.com/watch?v=1PnVor36_40"},
			{4, "The Box Model", "15 min", "https://www.youtube.com/watch?v=rIO5326FgPE"},
			{5, "Flexbox Layouts", "18 min", "https://www.youtube.com/watch?v=JJSoEo8JSnc"},
		},
	},
	{
		Name:        "JavaScript Essentials",
		Description: "Variables, functions, the DOM and everything in between.",
		Difficulty:  "Beginner", Color: "green",
		Lessons: []seedLesson{
			{1, "Variables and Types", "11 min", "https://www.youtube.com/watch?v=W6NZfCO5SIk"},
			{2, "Functions and Scope", "16 min", "https://www.youtube.com/watch?v=N8ap4k_1QEQ"},
			{3, "Working with the DOM", "15 min", "https://www.youtube.com/watch?v=0ik6X4DJKCc"},
			{4, "Events and Forms", "13 min", "https://www.youtube.com/watch?v=XF1_MlZ5l6M"},
		},
	},
	{
		Name:        "Python for Data Analysis",
		Description: "Crunch data with pandas, NumPy and matplotlib.",
		Difficulty:  "Intermediate", Color: "yellow",
		Lessons: []seedLesson{
			{1, "Setting Up Your Environment", "9 min", "https://www.youtube.com/watch?v=YYXdXT2l-Gg"},
			{2, "NumPy Arrays", "14 min", "https://www.youtube.com/watch?v=QUT1VHiLmmI"},
			{3, "DataFrames with pandas", "20 min", "https://www.youtube.com/watch?v=vmEHCJofslg"},
			{4, "Plotting with matplotlib", "16 min", "https://www.youtube.com/watch?v=3Xc3CA655Y4"},
			{5, "A Small End-to-End Analysis", "22 min", "https://www.youtube.com/watch?v=r-uOLxNrNk8"},
		},
	},
	{
		Name:        "React from Zero",
		Description: "Components, props, state and hooks without the magic.",
		Difficulty:  "Intermediate", Color: "yellow",
		Lessons: []seedLesson{
			{1, "Why React", "8 min", "https://www.youtube.com/watch?v=Tn6-PIqc4UM"},
			{2, "Components and Props", "15 min", "https://www.youtube.com/watch?v=9D1x7-2FmTA"},
			{3, "State and Events", "17 min", "https://www.youtube.com/watch?v=O6P86uwfdR0"},
			{4, "Hooks in Practice", "19 min", "https://www.youtube.com/watch?v=f687hBjwFcM"},
		},
	},
	{
		Name:        "Designing REST APIs",
		Description: "Resources, verbs, status codes and versioning done right.",
		Difficulty:  "Advanced", Color: "red",
		Lessons: []seedLesson{
			{1, "HTTP Refresher", "12 min", "https://www.youtube.com/watch?v=iYM2zFP3Zn0"},
			{2, "Resource Modelling", "18 min", "https://www.youtube.com/watch?v=sMKsmZbpyjE"},
			{3, "Errors and Status Codes", "14 min", "https://www.youtube.com/watch?v=LtNSd_4txNc"},
			{4, "Auth and Rate Limiting", "21 min", "https://www.youtube.com/watch?v=501dpx2IjGY"},
		},
	},
	{
		Name:        "Cloud Deployment Basics",
		Description: "Ship your apps with containers and managed services.",
		Difficulty:  "Advanced", Color: "red",
		Lessons: []seedLesson{
			{1, "From Laptop to Server", "10 min", "https://www.youtube.com/watch?v=3c-iBn73dDE"},
			{2, "Containers 101", "16 min", "https://www.youtube.com/watch?v=pTFZFxd4hOI"},
			{3, "Environment and Secrets", "13 min", "https://www.youtube.com/watch?v=x2UVSvLQmVQ"},
			{4, "Monitoring What You Shipped", "15 min", "https://www.youtube.com/watch?v=h4Sl21AKiDg"},
		},
	},
}

// Seed loads the starter catalog. Courses are looked up by name so the
// database assigns every ID through its own sequence; forcing IDs would leave
// the Postgres sequence behind the seeded rows and break later inserts.
// FirstOrCreate keeps reruns idempotent, so an operator can wipe a single
// course and have it recreated on the next boot.
func Seed(db *gorm.DB) error {
	for _, sc := range catalog {
		course := models.Course{
			Name:         sc.Name,
			Description:  sc.Description,
			Difficulty:   sc.Difficulty,
			Color:        sc.Color,
			TotalLessons: len(sc.Lessons),
		}
		if err := db.Where(models.Course{Name: sc.Name}).FirstOrCreate(&course).Error; err != nil {
			return err
		}

		for _, sl := range sc.Lessons {
			lesson := models.Lesson{
				CourseID:    course.ID,
				LessonOrder: sl.Order,
				Title:       sl.Title,
				Duration:    sl.Duration,
				VideoURL:    sl.VideoURL,
			}
			if err := db.Where(models.Lesson{CourseID: course.ID, LessonOrder: sl.Order}).FirstOrCreate(&lesson).Error; err != nil {
				return err
			}
		}
	}

	log.Printf("Seeded %d courses", len(catalog))
	return nil
}
