package access

import (
	"context"
	"log"
	"strconv"
	"strings"

	auth "github.com/formatech/coursegate/internal/auth/middleware"
	"github.com/formatech/coursegate/internal/content"
	"github.com/formatech/coursegate/internal/trainingapi"
)

// EnrollmentSource resolves the classes a learner is enrolled in.
type EnrollmentSource interface {
	GetLearnerClasses(ctx context.Context, learnerID int64) (trainingapi.LearnerClasses, error)
}

// Gate decides whether a viewer may see course content. Denial is a boolean
// outcome, never an error: missing data means no access.
type Gate struct {
	enrollments EnrollmentSource
}

func NewGate(src EnrollmentSource) *Gate {
	return &Gate{enrollments: src}
}

// CanAccess grants admins unconditionally, denies anonymous viewers, and
// otherwise checks whether any of the learner's classes references this
// course's formation.
func (g *Gate) CanAccess(ctx context.Context, course content.Course, id auth.Identity) bool {
	if id.Admin() {
		return true
	}
	if id.Anonymous() {
		return false
	}
	learnerID, err := strconv.ParseInt(id.Sub, 10, 64)
	if err != nil {
		return false
	}
	courseID, err := strconv.ParseInt(course.ID, 10, 64)
	if err != nil {
		return false
	}
	resp, err := g.enrollments.GetLearnerClasses(ctx, learnerID)
	if err != nil {
		log.Printf("access: enrollment lookup for learner %d failed: %v", learnerID, err)
		return false
	}
	for _, c := range resp.Classes {
		if c.Formation != nil && c.Formation.ID == courseID {
			return true
		}
	}
	return false
}

// MatchKey checks a supplied access key against the course's configured key,
// trimmed and case-insensitive. A course without a key accepts none.
func MatchKey(course content.Course, supplied string) bool {
	key := strings.TrimSpace(supplied)
	if key == "" || course.AccessKey == "" {
		return false
	}
	return strings.EqualFold(key, course.AccessKey)
}
