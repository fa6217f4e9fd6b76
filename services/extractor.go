package services

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"legal-assistant-backend/internal/logger"

	"github.com/ledongthuc/pdf"
)

// Transcriber is the multimodal OCR capability, implemented by the Gemini
// client. It must delete any remote upload artifact before returning.
type Transcriber interface {
	Transcribe(ctx context.Context, mimeType string, content []byte) (string, error)
}

// Section is a contiguous span of extracted text with an optional page
// label. PDF strategies produce one section per page; everything else
// produces a single unlabeled section.
type Section struct {
	PageLabel string
	Text      string
}

// ExtractionResult contains the extracted text and the strategy that
// produced it.
type ExtractionResult struct {
	Sections []Section
	Strategy string
}

// extractionStrategy is one way of turning raw bytes into text. Strategies
// are tried in priority order; a failure or empty output moves the chain
// to the next one.
type extractionStrategy interface {
	name() string
	extract(ctx context.Context, filename string, content []byte) ([]Section, error)
}

// Extractor converts a raw file into plain text, trying strategies in
// priority order with silent fallback. Only total exhaustion surfaces an
// error.
type Extractor struct {
	transcriber Transcriber
}

func NewExtractor(transcriber Transcriber) *Extractor {
	return &Extractor{transcriber: transcriber}
}

// Extract runs the strategy chain for the file's media type. The first
// strategy producing non-empty text wins; all strategies exhausted wraps
// ErrExtractionFailed.
func (e *Extractor) Extract(ctx context.Context, filename string, content []byte) (*ExtractionResult, error) {
	strategies := e.strategiesFor(filename)

	var lastErr error
	for _, strategy := range strategies {
		sections, err := strategy.extract(ctx, filename, content)
		if err != nil {
			logger.Warn("Extraction strategy failed", "strategy", strategy.name(), "file", filename, "error", err.Error())
			lastErr = err
			continue
		}

		sections = dropEmptySections(sections)
		if len(sections) == 0 {
			logger.Warn("Extraction strategy produced no text", "strategy", strategy.name(), "file", filename)
			continue
		}

		logger.Info("Extraction complete", "strategy", strategy.name(), "file", filename, "sections", len(sections))
		return &ExtractionResult{Sections: sections, Strategy: strategy.name()}, nil
	}

	if lastErr != nil {
		return nil, fmt.Errorf("%w: %s: all strategies exhausted: %v", ErrExtractionFailed, filename, lastErr)
	}
	return nil, fmt.Errorf("%w: %s: no strategy produced text", ErrExtractionFailed, filename)
}

// strategiesFor selects the ordered chain by media type. Images and PDFs
// go through the multimodal model first; PDFs additionally fall back to
// the native text layer; everything else uses a direct reader.
func (e *Extractor) strategiesFor(filename string) []extractionStrategy {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".pdf":
		return []extractionStrategy{
			&transcribeStrategy{transcriber: e.transcriber, mimeType: "application/pdf"},
			&pdfTextLayerStrategy{},
		}
	case ".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tiff", ".tif", ".webp":
		return []extractionStrategy{
			&transcribeStrategy{transcriber: e.transcriber, mimeType: imageMIMEType(ext)},
		}
	case ".docx":
		return []extractionStrategy{&docxStrategy{}}
	default:
		return []extractionStrategy{&plainTextStrategy{}}
	}
}

func imageMIMEType(ext string) string {
	switch ext {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".bmp":
		return "image/bmp"
	case ".tiff", ".tif":
		return "image/tiff"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}

func dropEmptySections(sections []Section) []Section {
	kept := make([]Section, 0, len(sections))
	for _, s := range sections {
		if strings.TrimSpace(s.Text) != "" {
			kept = append(kept, s)
		}
	}
	return kept
}

// transcribeStrategy sends the document to the multimodal model.
type transcribeStrategy struct {
	transcriber Transcriber
	mimeType    string
}

func (s *transcribeStrategy) name() string { return "gemini" }

func (s *transcribeStrategy) extract(ctx context.Context, _ string, content []byte) ([]Section, error) {
	if s.transcriber == nil {
		return nil, fmt.Errorf("transcriber not configured")
	}
	text, err := s.transcriber.Transcribe(ctx, s.mimeType, content)
	if err != nil {
		return nil, err
	}
	return []Section{{Text: text}}, nil
}

// pdfTextLayerStrategy reads the PDF's embedded text layer, one section
// per page.
type pdfTextLayerStrategy struct{}

func (s *pdfTextLayerStrategy) name() string { return "pdf-text-layer" }

func (s *pdfTextLayerStrategy) extract(_ context.Context, _ string, content []byte) ([]Section, error) {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF reader: %w", err)
	}

	var sections []Section
	pages := reader.NumPage()
	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		fonts := make(map[string]*pdf.Font)
		text, err := page.GetPlainText(fonts)
		if err != nil {
			logger.Warn("Failed to extract PDF page", "page", i, "error", err.Error())
			continue
		}

		sections = append(sections, Section{PageLabel: strconv.Itoa(i), Text: text})
	}

	return sections, nil
}

// docxStrategy unpacks word/document.xml from the DOCX archive.
type docxStrategy struct{}

func (s *docxStrategy) name() string { return "docx" }

// documentXML mirrors the paragraph/run structure of word/document.xml.
type documentXML struct {
	Body struct {
		Paragraphs []struct {
			Runs []struct {
				Text []string `xml:"t"`
			} `xml:"r"`
		} `xml:"p"`
	} `xml:"body"`
}

func (s *docxStrategy) extract(_ context.Context, _ string, content []byte) ([]Section, error) {
	reader, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("not a valid DOCX archive: %w", err)
	}

	for _, file := range reader.File {
		if file.Name != "word/document.xml" {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open document.xml: %w", err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read document.xml: %w", err)
		}

		var doc documentXML
		if err := xml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse document.xml: %w", err)
		}

		var paragraphs []string
		for _, p := range doc.Body.Paragraphs {
			var runs []string
			for _, r := range p.Runs {
				runs = append(runs, strings.Join(r.Text, ""))
			}
			if line := strings.Join(runs, ""); strings.TrimSpace(line) != "" {
				paragraphs = append(paragraphs, line)
			}
		}

		return []Section{{Text: strings.Join(paragraphs, "\n")}}, nil
	}

	return nil, fmt.Errorf("document.xml not found in archive")
}

// plainTextStrategy treats the bytes as UTF-8 text.
type plainTextStrategy struct{}

func (s *plainTextStrategy) name() string { return "plain-text" }

func (s *plainTextStrategy) extract(_ context.Context, _ string, content []byte) ([]Section, error) {
	if !utf8.Valid(content) {
		return nil, fmt.Errorf("file is not valid UTF-8 text")
	}
	return []Section{{Text: string(content)}}, nil
}
