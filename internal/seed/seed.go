package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mitsdash/campuskeys/internal/app/directory"
	"github.com/mitsdash/campuskeys/internal/app/models"
	appRepos "github.com/mitsdash/campuskeys/internal/app/repositories"
)

// demoStudents are written into the local emulator so the dashboard has
// something to provision against. Deliberately inconsistent: one record has
// explicit group fields, one only a composite id, one nothing but its path,
// mirroring the shapes found in production data.
var demoStudents = []models.StudentRecord{
	{
		RollNumber: "21CSE045",
		Name:       "Asha Verma",
		Email:      "asha.verma@example.com",
		Department: "Computer Science & Engineering",
		Year:       "III",
		Section:    "A",
		IsActive:   true,
	},
	{
		RollNumber:  "21CSEDS012",
		CompositeID: "CSE_DS_III_A_0012",
		Name:        "Rahul Nair",
		DateOfBirth: "2003-07-14",
		IsActive:    true,
	},
	{
		RollNumber: "22ECE101",
		Name:       "Meena Pillai",
		Department: "Electronics & Communication Engineering",
		Year:       "II",
		Section:    "B",
		IsActive:   true,
	},
}

// CreateDefaultData writes the demo students if their documents do not exist
// yet. Intended for development runs against the Firestore emulator; it never
// overwrites existing records.
func CreateDefaultData(ctx context.Context, repos *appRepos.Repositories, lgr zerolog.Logger) error {
	departments := directory.NewDepartments()
	resolver := directory.NewGroupResolver(departments)
	addresser := directory.NewPathAddresser(departments)

	lgr.Info().Msg("Checking/Creating demo student data...")
	var finalErr error

	for i := range demoStudents {
		student := demoStudents[i]
		key := resolver.Resolve(&student)
		docPath := addresser.DocPath(key, student.DocumentID())

		if _, err := repos.Students.GetByPath(ctx, docPath); err == nil {
			continue
		}

		fields := map[string]interface{}{
			"rollNo":   student.RollNumber,
			"isActive": student.IsActive,
		}
		if student.Name != "" {
			fields["name"] = student.Name
		}
		if student.Email != "" {
			fields["email"] = student.Email
		}
		if student.CompositeID != "" {
			fields["studentId"] = student.CompositeID
		}
		if student.DateOfBirth != "" {
			fields["dateOfBirth"] = student.DateOfBirth
		}
		if key.Department != "" {
			fields["department"] = key.Department
		}
		if key.Year != "" {
			fields["year"] = key.Year
		}
		if key.Section != "" {
			fields["section"] = key.Section
		}

		if err := repos.Students.MergeSet(ctx, docPath, fields); err != nil {
			lgr.Error().Err(err).Str("path", docPath).Msg("Error seeding demo student")
			finalErr = errors.Join(finalErr, fmt.Errorf("seed %s: %w", student.RollNumber, err))
			continue
		}
		lgr.Info().Str("path", docPath).Msg("Seeded demo student")
	}

	return finalErr
}
