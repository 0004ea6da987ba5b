package content

import (
	"fmt"
	"strings"

	"github.com/formatech/coursegate/internal/trainingapi"
)

type mediaKind int

const (
	kindNone mediaKind = iota
	kindVideo
	kindPDF
	kindSlides
	kindImage
)

// classify buckets a file by declared MIME type, falling back to the filename
// extension.
func classify(fileType, filePath string) mediaKind {
	ft := strings.ToLower(fileType)
	fp := strings.ToLower(filePath)
	switch {
	case strings.HasPrefix(ft, "video/") || hasExt(fp, ".mp4", ".webm"):
		return kindVideo
	case ft == "application/pdf" || hasExt(fp, ".pdf"):
		return kindPDF
	case ft == "application/vnd.ms-powerpoint" ||
		ft == "application/vnd.openxmlformats-officedocument.presentationml.presentation" ||
		hasExt(fp, ".ppt", ".pptx"):
		return kindSlides
	case strings.HasPrefix(ft, "image/") || hasExt(fp, ".png", ".jpg", ".jpeg", ".gif", ".webp"):
		return kindImage
	}
	return kindNone
}

func hasExt(path string, exts ...string) bool {
	for _, e := range exts {
		if strings.HasSuffix(path, e) {
			return true
		}
	}
	return false
}

// MapModule flattens a detailed-content record into a Module, scanning its
// levels' files. The first file of each kind wins; later duplicates of the
// same kind are ignored, but all four kinds may coexist.
func MapModule(d trainingapi.DetailedContent, fileURL func(string) string) Module {
	m := Module{
		ID:          fmt.Sprintf("%d", d.ID),
		Title:       d.Title,
		Description: d.TeachingMethods,
	}
	if m.Title == "" {
		m.Title = "Contenu"
	}
	for _, lvl := range d.Levels {
		for _, f := range lvl.Files {
			url := fileURL(f.FilePath)
			switch classify(f.FileType, f.FilePath) {
			case kindVideo:
				if m.VideoURL == "" {
					m.VideoURL = url
				}
			case kindPDF:
				if m.PDFURL == "" {
					m.PDFURL = url
				}
			case kindSlides:
				if m.SlidesURL == "" {
					m.SlidesURL = url
				}
			case kindImage:
				if m.ImageURL == "" {
					m.ImageURL = url
				}
			}
		}
	}
	if d.TheoreticalDuration > 0 {
		m.Duration = fmt.Sprintf("%d min", d.TheoreticalDuration)
	} else if d.PracticalDuration > 0 {
		m.Duration = fmt.Sprintf("%d min", d.PracticalDuration)
	}
	return m
}
