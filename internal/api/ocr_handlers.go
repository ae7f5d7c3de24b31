package api

import (
	"errors"
	"mime"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/yourusername/beast-reader/internal/calculator"
	"github.com/yourusername/beast-reader/internal/models"
	"github.com/yourusername/beast-reader/internal/ocr"
)

// maxUploadBytes leaves room for multipart framing or base64 inflation
const maxUploadBytes = ocr.MaxImageBytes*4/3 + 1<<20

// ImageRequest carries a ticket photo as a data URI
type ImageRequest struct {
	Image string `json:"image"`
}

// interpretTicket accepts a multipart "image" field, a JSON data URI, or a
// raw image body, and returns the plays read from it without touching the
// session.
func (s *Server) interpretTicket(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	img, err := readImage(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			writeMessage(w, http.StatusRequestEntityTooLarge, "The image is too large.")
		case errors.Is(err, ocr.ErrEmptyImage):
			writeError(w, s.log, err)
		default:
			writeMessage(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	results, err := s.interpreter.Interpret(r.Context(), img)
	if err != nil {
		writeError(w, s.log, err)
		return
	}

	selected := s.sess.Tracks()
	resp := InterpretResponse{
		Results: results,
		Preview: make([]OCRPreviewRow, len(results)),
		Total:   decimal.Zero,
	}
	for i, res := range results {
		bet := models.TruncateBetNumber(res.BetNumber)
		mode := calculator.Classify(bet, selected)
		total := calculator.RowTotal(bet, mode, res.StraightAmount, res.BoxAmount, res.ComboAmount)
		resp.Preview[i] = OCRPreviewRow{OCRResult: res, GameMode: mode, Total: total}
		resp.Total = resp.Total.Add(total)
	}
	writeJSON(w, http.StatusOK, resp)
}

func readImage(r *http.Request) (ocr.Image, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch {
	case strings.HasPrefix(mediaType, "multipart/"):
		file, _, err := r.FormFile("image")
		if err != nil {
			if errors.Is(err, http.ErrMissingFile) {
				return ocr.Image{}, ocr.ErrEmptyImage
			}
			return ocr.Image{}, err
		}
		defer file.Close()
		return ocr.EncodeImage(file)

	case mediaType == "application/json":
		req, err := decode[ImageRequest](r)
		if err != nil {
			return ocr.Image{}, err
		}
		if req.Image == "" {
			return ocr.Image{}, ocr.ErrEmptyImage
		}
		return ocr.ParseDataURI(req.Image)

	default:
		return ocr.EncodeImage(r.Body)
	}
}

func (s *Server) importResults(w http.ResponseWriter, r *http.Request) {
	req, err := decode[ImportRequest](r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	plays, err := s.sess.AddOCRResults(req.Results)
	if err != nil {
		writeError(w, s.log, err)
		return
	}

	unclassified := 0
	for _, p := range plays {
		if !p.GameMode.IsSet() {
			unclassified++
		}
	}
	s.ocrLog.LogImport(len(plays), unclassified)

	writeJSON(w, http.StatusCreated, PlaysResponse{Plays: plays})
}
