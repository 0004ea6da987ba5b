package content

import (
	"context"
	"errors"
	"testing"

	"github.com/formatech/coursegate/internal/trainingapi"
)

type fakeSource struct {
	formation    trainingapi.Formation
	formationErr error

	details    []trainingapi.DetailedContent
	detailsErr error

	listCalls int
}

func (f *fakeSource) GetFormation(ctx context.Context, id int64) (trainingapi.Formation, error) {
	return f.formation, f.formationErr
}

func (f *fakeSource) ListDetailedContents(ctx context.Context, formationID int64) ([]trainingapi.DetailedContent, error) {
	f.listCalls++
	return f.details, f.detailsErr
}

func (f *fakeSource) FileURL(path string) string {
	return "http://api/contenus-detailles/files/" + path
}

func objective(id int64, title string, detailIDs ...int64) trainingapi.SpecificObjective {
	return trainingapi.SpecificObjective{
		ID:          id,
		Title:       title,
		DayContents: []trainingapi.DayContent{{AssignedDetailIDs: detailIDs}},
	}
}

func TestBuildGrouped(t *testing.T) {
	src := &fakeSource{
		formation: trainingapi.Formation{
			ID:    42,
			Title: "HACCP",
			SpecificObjectives: []trainingapi.SpecificObjective{
				objective(1, "Hygiene", 10),
				objective(2, "Traceability", 11, 12),
			},
		},
		details: []trainingapi.DetailedContent{
			{ID: 10, Title: "Intro"},
			{ID: 11, Title: "Lots"},
			{ID: 12, Title: "Registres"},
		},
	}
	a, err := Build(context.Background(), src, 42)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !a.Grouped || len(a.Groups) != 2 {
		t.Fatalf("expected 2 groups, got %+v", a)
	}
	if len(a.Modules) != 3 {
		t.Fatalf("modules must flatten the groups in order, got %d", len(a.Modules))
	}
	if a.Modules[0].Title != "Intro" || a.Modules[2].Title != "Registres" {
		t.Fatalf("flattening out of order: %+v", a.Modules)
	}
	if !a.Groups[0].Expanded {
		t.Fatalf("groups start expanded")
	}
	if a.Groups[1].ObjectiveID != "2" {
		t.Fatalf("objective id mismatch: %q", a.Groups[1].ObjectiveID)
	}
}

func TestBuildSkipsMissingIDsAndEmptyGroups(t *testing.T) {
	src := &fakeSource{
		formation: trainingapi.Formation{
			ID: 42,
			SpecificObjectives: []trainingapi.SpecificObjective{
				objective(1, "Partially resolvable", 10, 11), // 11 has no record
				objective(2, "Fully dangling", 99),           // resolves to nothing
			},
		},
		details: []trainingapi.DetailedContent{{ID: 10, Title: "Intro"}},
	}
	a, err := Build(context.Background(), src, 42)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(a.Groups) != 1 {
		t.Fatalf("empty groups must be dropped, got %d", len(a.Groups))
	}
	if len(a.Groups[0].Contents) != 1 || a.Groups[0].Contents[0].Title != "Intro" {
		t.Fatalf("dangling ids must be skipped: %+v", a.Groups[0].Contents)
	}
}

func TestBuildFlatWhenNoObjectives(t *testing.T) {
	src := &fakeSource{
		formation: trainingapi.Formation{ID: 42, Title: "HACCP"},
		details: []trainingapi.DetailedContent{
			{ID: 10, Title: "A"},
			{ID: 11, Title: "B"},
		},
	}
	a, err := Build(context.Background(), src, 42)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if a.Grouped || len(a.Groups) != 0 {
		t.Fatalf("expected flat assembly, got %+v", a)
	}
	if len(a.Modules) != 2 {
		t.Fatalf("expected 2 flat modules, got %d", len(a.Modules))
	}
}

func TestBuildObjectivesWithoutAssignmentsGoFlat(t *testing.T) {
	src := &fakeSource{
		formation: trainingapi.Formation{
			ID:                 42,
			SpecificObjectives: []trainingapi.SpecificObjective{objective(1, "No content")},
		},
		details: []trainingapi.DetailedContent{{ID: 10, Title: "A"}},
	}
	a, err := Build(context.Background(), src, 42)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if a.Grouped {
		t.Fatalf("objectives without assigned ids must not group")
	}
	if len(a.Modules) != 1 {
		t.Fatalf("expected the flat list, got %+v", a.Modules)
	}
}

func TestBuildFlatFetchFailureYieldsEmptyAssembly(t *testing.T) {
	src := &fakeSource{
		formation:  trainingapi.Formation{ID: 42, Title: "HACCP"},
		detailsErr: errors.New("upstream 500"),
	}
	a, err := Build(context.Background(), src, 42)
	if err != nil {
		t.Fatalf("a failed content fetch must not fail the build: %v", err)
	}
	if len(a.Modules) != 0 || a.Grouped {
		t.Fatalf("expected an empty assembly, got %+v", a)
	}
	if a.Course.Title != "HACCP" {
		t.Fatalf("course header must still map: %+v", a.Course)
	}
}

func TestBuildFormationErrorPropagates(t *testing.T) {
	src := &fakeSource{formationErr: trainingapi.ErrNotFound}
	if _, err := Build(context.Background(), src, 42); !errors.Is(err, trainingapi.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMapModuleFirstOfEachKindWins(t *testing.T) {
	d := trainingapi.DetailedContent{
		ID:                  7,
		Title:               "Nettoyage",
		TeachingMethods:     "Demonstration",
		TheoreticalDuration: 45,
		Levels: []trainingapi.Level{
			{Files: []trainingapi.File{
				{FileType: "video/mp4", FilePath: "a.mp4"},
				{FileType: "", FilePath: "b.MP4"}, // second video loses
				{FileType: "application/pdf", FilePath: "doc1.pdf"},
			}},
			{Files: []trainingapi.File{
				{FileType: "", FilePath: "doc2.pdf"}, // second pdf loses
				{FileType: "image/png", FilePath: "schema.png"},
				{FileType: "", FilePath: "deck.pptx"},
			}},
		},
	}
	m := MapModule(d, func(p string) string { return "http://api/files/" + p })
	if m.VideoURL != "http://api/files/a.mp4" {
		t.Fatalf("first video must win, got %s", m.VideoURL)
	}
	if m.PDFURL != "http://api/files/doc1.pdf" {
		t.Fatalf("first pdf must win, got %s", m.PDFURL)
	}
	if m.ImageURL != "http://api/files/schema.png" || m.SlidesURL != "http://api/files/deck.pptx" {
		t.Fatalf("all kinds may coexist: %+v", m)
	}
	if m.Duration != "45 min" {
		t.Fatalf("expected theoretical duration, got %q", m.Duration)
	}
	if m.Description != "Demonstration" {
		t.Fatalf("description maps from teaching methods, got %q", m.Description)
	}
}

func TestMapModuleFallbacks(t *testing.T) {
	m := MapModule(trainingapi.DetailedContent{ID: 1, PracticalDuration: 30}, func(p string) string { return p })
	if m.Title != "Contenu" {
		t.Fatalf("untitled content falls back to %q, got %q", "Contenu", m.Title)
	}
	if m.Duration != "30 min" {
		t.Fatalf("practical duration is the fallback, got %q", m.Duration)
	}
	if m.VideoURL != "" || m.PDFURL != "" || m.ImageURL != "" || m.SlidesURL != "" {
		t.Fatalf("no files means no urls: %+v", m)
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		fileType, filePath string
		want               mediaKind
	}{
		{"video/webm", "x", kindVideo},
		{"", "lecture.webm", kindVideo},
		{"application/pdf", "x", kindPDF},
		{"", "manuel.PDF", kindPDF}, // extension match folds case
		{"application/vnd.openxmlformats-officedocument.presentationml.presentation", "x", kindSlides},
		{"", "deck.ppt", kindSlides},
		{"image/jpeg", "x", kindImage},
		{"", "photo.webp", kindImage},
		{"application/zip", "archive.zip", kindNone},
	}
	for _, tc := range cases {
		if got := classify(tc.fileType, tc.filePath); got != tc.want {
			t.Fatalf("classify(%q, %q) = %d, want %d", tc.fileType, tc.filePath, got, tc.want)
		}
	}
}

func TestMapCourseAlternateFields(t *testing.T) {
	c := MapCourse(trainingapi.Formation{
		ID:               42,
		Theme:            "Securite alimentaire",
		ThemeDescription: "Bonnes pratiques",
		DurationHoursAlt: 14,
		LevelAlt:         "Debutant",
		TypeName:         "Reglementaire",
		TrainerFirstName: "Marie",
		TrainerLastName:  "Durand",
	})
	if c.ID != "42" || c.Title != "Securite alimentaire" {
		t.Fatalf("alternate title field not resolved: %+v", c)
	}
	if c.Description != "Bonnes pratiques" || c.Level != "Debutant" || c.TotalDuration != 14 {
		t.Fatalf("alternate fields not resolved: %+v", c)
	}
	if c.Category != "Reglementaire" {
		t.Fatalf("type name must back the category, got %q", c.Category)
	}
	if c.Instructor != "Marie Durand" {
		t.Fatalf("instructor mismatch: %q", c.Instructor)
	}

	if got := MapCourse(trainingapi.Formation{ID: 1}); got.Title != "Formation sans titre" {
		t.Fatalf("untitled formation falls back, got %q", got.Title)
	}
}
