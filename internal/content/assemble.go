package content

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/formatech/coursegate/internal/trainingapi"
)

// Source is the slice of the training API the assembler needs.
type Source interface {
	GetFormation(ctx context.Context, id int64) (trainingapi.Formation, error)
	ListDetailedContents(ctx context.Context, formationID int64) ([]trainingapi.DetailedContent, error)
	FileURL(path string) string
}

// Build fetches a formation and assembles its viewable content. When the
// formation carries specific objectives referencing detailed-content ids, the
// result is grouped; otherwise (or when the batch fetch fails) it falls back
// to the flat content list. A failing flat fetch yields an empty assembly with
// a logged diagnostic, not an error: the course page still renders.
func Build(ctx context.Context, src Source, formationID int64) (Assembly, error) {
	f, err := src.GetFormation(ctx, formationID)
	if err != nil {
		return Assembly{}, err
	}

	a := Assembly{Course: MapCourse(f)}

	if hasAssignedContent(f.SpecificObjectives) {
		groups, err := buildGroups(ctx, src, f.SpecificObjectives, formationID)
		if err != nil {
			log.Printf("content: grouped build for formation %d failed, falling back to flat: %v", formationID, err)
		} else if len(groups) > 0 {
			a.Groups = groups
			a.Grouped = true
			for _, g := range groups {
				a.Modules = append(a.Modules, g.Contents...)
			}
			return a, nil
		}
	}

	flat, err := src.ListDetailedContents(ctx, formationID)
	if err != nil {
		log.Printf("content: flat contents for formation %d unavailable: %v", formationID, err)
		return a, nil
	}
	for _, d := range flat {
		a.Modules = append(a.Modules, MapModule(d, src.FileURL))
	}
	return a, nil
}

func hasAssignedContent(objectives []trainingapi.SpecificObjective) bool {
	for _, o := range objectives {
		for _, dc := range o.DayContents {
			if len(dc.AssignedDetailIDs) > 0 {
				return true
			}
		}
	}
	return false
}

// buildGroups resolves each objective's assigned detail ids through one batch
// fetch. Ids with no matching record are skipped; groups that resolve to zero
// modules are omitted.
func buildGroups(ctx context.Context, src Source, objectives []trainingapi.SpecificObjective, formationID int64) ([]ContentGroup, error) {
	details, err := src.ListDetailedContents(ctx, formationID)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]trainingapi.DetailedContent, len(details))
	for _, d := range details {
		byID[d.ID] = d
	}

	var groups []ContentGroup
	for _, o := range objectives {
		var mods []Module
		for _, dc := range o.DayContents {
			for _, id := range dc.AssignedDetailIDs {
				d, ok := byID[id]
				if !ok {
					continue
				}
				mods = append(mods, MapModule(d, src.FileURL))
			}
		}
		if len(mods) == 0 {
			continue
		}
		title := o.Title
		if title == "" {
			title = "Objectif"
		}
		groups = append(groups, ContentGroup{
			ObjectiveID: fmt.Sprintf("%d", o.ID),
			Title:       title,
			Description: o.Description,
			Contents:    mods,
			Expanded:    true,
		})
	}
	return groups, nil
}

// MapCourse maps a formation record onto the viewer-facing course shape,
// resolving the backend's alternate field names.
func MapCourse(f trainingapi.Formation) Course {
	title := f.Title
	if title == "" {
		title = f.Theme
	}
	if title == "" {
		title = "Formation sans titre"
	}
	desc := f.Description
	if desc == "" {
		desc = f.ThemeDescription
	}
	level := f.Level
	if level == "" {
		level = f.LevelAlt
	}
	duration := f.DurationHours
	if duration == 0 {
		duration = f.DurationHoursAlt
	}
	category := f.CategoryName
	if category == "" {
		category = f.TypeName
	}
	var instructor string
	if f.TrainerLastName != "" && f.TrainerFirstName != "" {
		instructor = strings.TrimSpace(f.TrainerFirstName + " " + f.TrainerLastName)
	}
	return Course{
		ID:            fmt.Sprintf("%d", f.ID),
		Title:         title,
		Category:      category,
		Description:   desc,
		Objectives:    f.Objectives,
		Level:         level,
		Instructor:    instructor,
		TotalDuration: duration,
	}
}
