package service

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"

	"neuroleap-backend/internal/model"
	"neuroleap-backend/internal/repository"
	"neuroleap-backend/utilities"
)

type PDFService interface {
	GeneratePDF(adaptedLessonID uuid.UUID) (string, error)
}

type pdfService struct {
	adaptedRepo repository.AdaptedLessonRepository
}

func NewPDFService(adaptedRepo repository.AdaptedLessonRepository) PDFService {
	return &pdfService{adaptedRepo: adaptedRepo}
}

// InitPDFEventListeners pre-renders a printable version whenever a lesson
// finishes adapting.
func InitPDFEventListeners(adaptedRepo repository.AdaptedLessonRepository) {
	utilities.GlobalEventBus.Subscribe(utilities.EventLessonAdapted, func(data interface{}) {
		adaptedID, ok := data.(uuid.UUID)
		if !ok {
			utilities.Warn("invalid adapted lesson ID received for PDF generation")
			return
		}

		pdfService := NewPDFService(adaptedRepo)
		if _, err := pdfService.GeneratePDF(adaptedID); err != nil {
			utilities.Error("error generating PDF for adapted lesson %s: %v", adaptedID, err)
		}
	})
}

// GeneratePDF renders an adapted lesson's content blocks to an A4 PDF and
// returns the file path.
func (s *pdfService) GeneratePDF(adaptedLessonID uuid.UUID) (string, error) {
	adapted, err := s.adaptedRepo.GetByID(adaptedLessonID)
	if err != nil {
		return "", fmt.Errorf("failed to fetch adapted lesson: %w", err)
	}
	if adapted == nil {
		return "", ErrAdaptedLessonNotFound
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.MultiCell(0, 10, adapted.LessonTitle, "", "L", false)

	if adapted.AdaptationStyle != "" {
		pdf.SetFont("Arial", "I", 10)
		pdf.MultiCell(0, 6, adapted.AdaptationStyle, "", "L", false)
	}
	pdf.Ln(4)

	for _, block := range adapted.ContentBlocks {
		switch block.Type {
		case model.BlockHeading:
			pdf.SetFont("Arial", "B", 14)
			pdf.MultiCell(0, 8, block.Content, "", "L", false)
			pdf.Ln(2)
		case model.BlockQuiz, model.BlockQuizCheck:
			pdf.SetFont("Arial", "B", 11)
			pdf.MultiCell(0, 6, block.Question, "", "L", false)
			pdf.SetFont("Arial", "", 11)
			for i, option := range block.Options {
				pdf.MultiCell(0, 6, fmt.Sprintf("  %c) %s", 'A'+i, option), "", "L", false)
			}
			pdf.Ln(2)
		case model.BlockImage, model.BlockImagePrompt:
			if block.AIGeneratedURL != "" {
				imagePath := filepath.Join("working", block.AIGeneratedURL)
				if _, err := os.Stat(imagePath); err == nil {
					pdf.ImageOptions(imagePath, -1, -1, 120, 0, true,
						gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
					pdf.Ln(2)
					continue
				}
			}
			pdf.SetFont("Arial", "I", 10)
			pdf.MultiCell(0, 6, "[Illustration: "+block.Content+"]", "", "L", false)
			pdf.Ln(2)
		case model.BlockActivity:
			pdf.SetFont("Arial", "B", 11)
			pdf.MultiCell(0, 6, "Activity", "", "L", false)
			pdf.SetFont("Arial", "", 11)
			pdf.MultiCell(0, 6, block.Content, "", "L", false)
			pdf.Ln(2)
		case model.BlockSummary:
			pdf.SetFont("Arial", "B", 11)
			pdf.MultiCell(0, 6, "Summary", "", "L", false)
			pdf.SetFont("Arial", "", 11)
			pdf.MultiCell(0, 6, block.Content, "", "L", false)
			pdf.Ln(2)
		default:
			pdf.SetFont("Arial", "", 11)
			pdf.MultiCell(0, 6, block.Content, "", "L", false)
			pdf.Ln(2)
		}
	}

	dir := "working/lessonPDFs"
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	pdfPath := filepath.Join(dir, fmt.Sprintf("lesson_%s.pdf", adapted.ID))
	if err := pdf.OutputFileAndClose(pdfPath); err != nil {
		return "", fmt.Errorf("failed to write PDF: %w", err)
	}

	return pdfPath, nil
}
