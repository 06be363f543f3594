// Package ocr extracts text from captured images using Tesseract.
package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// Engine wraps a Tesseract client. It is not safe for concurrent use.
type Engine struct {
	client *gosseract.Client
}

// NewEngine creates an OCR engine for the given language (e.g. "eng").
func NewEngine(language string) (*Engine, error) {
	client := gosseract.NewClient()
	if language == "" {
		language = "eng"
	}
	if err := client.SetLanguage(language); err != nil {
		client.Close()
		return nil, fmt.Errorf("set ocr language %q: %w", language, err)
	}
	return &Engine{client: client}, nil
}

// Close releases the Tesseract client.
func (e *Engine) Close() error {
	if e.client != nil {
		return e.client.Close()
	}
	return nil
}

// Recognize performs OCR on the whole image and returns the cleaned-up text.
func (e *Engine) Recognize(img image.Image) (string, error) {
	return e.RecognizeRegion(img, img.Bounds())
}

// RecognizeRegion performs OCR on a rectangular region of the image.
func (e *Engine) RecognizeRegion(img image.Image, region image.Rectangle) (string, error) {
	data, err := encodeRegion(img, region)
	if err != nil {
		return "", err
	}
	if err := e.client.SetPageSegMode(gosseract.PSM_AUTO); err != nil {
		return "", fmt.Errorf("set page segmentation: %w", err)
	}
	if err := e.client.SetImageFromBytes(data); err != nil {
		return "", fmt.Errorf("set ocr image: %w", err)
	}
	text, err := e.client.Text()
	if err != nil {
		return "", fmt.Errorf("recognize text: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// Word is a single recognized word with its location in the source image.
type Word struct {
	Text       string
	Bounds     image.Rectangle
	Confidence float64
}

// Words returns word-level results for the whole image, useful for placing
// text annotations over recognized labels.
func (e *Engine) Words(img image.Image) ([]Word, error) {
	data, err := encodeRegion(img, img.Bounds())
	if err != nil {
		return nil, err
	}
	if err := e.client.SetPageSegMode(gosseract.PSM_SPARSE_TEXT); err != nil {
		return nil, fmt.Errorf("set page segmentation: %w", err)
	}
	if err := e.client.SetImageFromBytes(data); err != nil {
		return nil, fmt.Errorf("set ocr image: %w", err)
	}
	boxes, err := e.client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("word boxes: %w", err)
	}
	var words []Word
	for _, box := range boxes {
		text := strings.TrimSpace(box.Word)
		if text == "" {
			continue
		}
		words = append(words, Word{Text: text, Bounds: box.Box, Confidence: box.Confidence})
	}
	return words, nil
}

func encodeRegion(img image.Image, region image.Rectangle) ([]byte, error) {
	region = region.Intersect(img.Bounds())
	if region.Empty() {
		return nil, fmt.Errorf("ocr region is empty")
	}
	crop := image.NewRGBA(image.Rect(0, 0, region.Dx(), region.Dy()))
	for y := 0; y < crop.Rect.Dy(); y++ {
		for x := 0; x < crop.Rect.Dx(); x++ {
			crop.Set(x, y, img.At(region.Min.X+x, region.Min.Y+y))
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, crop); err != nil {
		return nil, fmt.Errorf("encode ocr image: %w", err)
	}
	return buf.Bytes(), nil
}
