package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appModels "github.com/derin/courseboard/internal/app/models"
	appRepos "github.com/derin/courseboard/internal/app/repositories"
)

func strPtr(s string) *string { return &s }

// SeedCourses populates the catalog with a starter set of courses when the
// courses table is empty. It never overwrites an existing catalog.
func SeedCourses(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	courseRepo := appRepos.NewCourseRepository(dbPool)

	count, err := courseRepo.CountCourses(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		lgr.Debug().Int("courses", count).Msg("Catalog already populated, skipping seed")
		return nil
	}

	lgr.Info().Msg("Seeding default course catalog...")

	courses := []*appModels.Course{
		{
			CourseCode:  "CALC 1000",
			CourseName:  "Calculus I",
			Description: strPtr("Limits, continuity, differentiation and an introduction to integration of functions of one variable."),
			Category:    strPtr("C"),
			Location:    strPtr("Main"),
		},
		{
			CourseCode:    "CALC 1501",
			CourseName:    "Calculus II for Mathematical Sciences",
			Description:   strPtr("Techniques of integration, sequences and series, Taylor expansions and applications."),
			Prerequisites: strPtr("CALC 1000 with a minimum mark of 60%"),
			Category:      strPtr("C"),
			Location:      strPtr("Main"),
			Links: []appModels.CourseLink{
				{LinkedCode: "CALC 1000", Kind: appModels.LinkPrerequisite},
			},
		},
		{
			CourseCode:  "CS 1026",
			CourseName:  "Computer Science Fundamentals I",
			Description: strPtr("An introduction to programming and computational problem solving. No prior experience assumed."),
			Category:    strPtr("C"),
			Location:    strPtr("Main"),
		},
		{
			CourseCode:     "CS 2210",
			CourseName:     "Data Structures and Algorithms",
			Description:    strPtr("Lists, stacks, queues, trees, hashing and graphs, with analysis of algorithm performance."),
			Prerequisites:  strPtr("CS 1026, CALC 1000"),
			Antirequisites: strPtr("SE 2205"),
			Category:       strPtr("C"),
			Location:       strPtr("Main"),
			Links: []appModels.CourseLink{
				{LinkedCode: "CS 1026", Kind: appModels.LinkPrerequisite},
				{LinkedCode: "CALC 1000", Kind: appModels.LinkPrerequisite},
				{LinkedCode: "SE 2205", Kind: appModels.LinkAntirequisite},
			},
		},
		{
			CourseCode:  "PHIL 1020",
			CourseName:  "Introduction to Philosophy",
			Description: strPtr("A survey of central problems in philosophy, including knowledge, mind, morality and the existence of God."),
			Category:    strPtr("B"),
			Location:    strPtr("Main"),
		},
		{
			CourseCode:  "ECON 1021",
			CourseName:  "Principles of Microeconomics",
			Description: strPtr("Consumer and producer behaviour, market structures and the role of prices in allocating resources."),
			Category:    strPtr("A"),
			Location:    strPtr("Main"),
		},
		{
			CourseCode:    "ECON 1022",
			CourseName:    "Principles of Macroeconomics",
			Description:   strPtr("National income, inflation, unemployment, monetary and fiscal policy."),
			Prerequisites: strPtr("ECON 1021"),
			Category:      strPtr("A"),
			Location:      strPtr("Main"),
			Links: []appModels.CourseLink{
				{LinkedCode: "ECON 1021", Kind: appModels.LinkPrerequisite},
			},
		},
		{
			CourseCode:  "MUSIC 1102",
			CourseName:  "Listening to Music",
			Description: strPtr("An introduction to the materials and repertoire of Western music for students with no formal background."),
			Category:    strPtr("AB"),
			Location:    strPtr("Main"),
			ExtraInfo:   strPtr("Cannot be taken for credit by Music majors."),
		},
		{
			CourseCode:   "STAT 2035",
			CourseName:   "Statistics for Business and Social Sciences",
			Description:  strPtr("Descriptive statistics, probability, estimation and hypothesis testing with applications."),
			Corequisites: strPtr("CALC 1000 or equivalent"),
			Category:     strPtr("C"),
			Location:     strPtr("Main"),
			Links: []appModels.CourseLink{
				{LinkedCode: "CALC 1000", Kind: appModels.LinkCorequisite},
			},
		},
		{
			CourseCode:  "WRIT 1000",
			CourseName:  "Writing for Academic Success",
			Description: strPtr("Practical instruction in planning, drafting and revising academic prose."),
			Category:    strPtr("B"),
			Location:    strPtr("Main"),
		},
	}

	var finalErr error
	created := 0
	for _, course := range courses {
		if err := courseRepo.CreateCourse(ctx, course); err != nil {
			lgr.Error().Err(err).Str("course_code", course.CourseCode).Msg("Error seeding course")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		created++
	}

	lgr.Info().Int("created", created).Msg("Course catalog seed complete")
	return finalErr
}
