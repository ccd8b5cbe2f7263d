package api

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"saathi/internal/assistant"
	"saathi/internal/expression"
	"saathi/internal/face"
	"saathi/internal/observe"
	"saathi/pkg/audioconv"
	"saathi/pkg/stt"
)

type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{Status: "ok", Message: "Hindi AI Assistant API"})
}

type turnResponse struct {
	Transcript           string  `json:"transcript"`
	Response             string  `json:"response"`
	AudioURL             string  `json:"audio_url"`
	Expression           string  `json:"expression"`
	ExpressionConfidence float64 `json:"expression_confidence"`
}

type unintelligibleResponse struct {
	Transcript string `json:"transcript"`
	Response   string `json:"response"`
	Error      string `json:"error"`
}

func (s *Server) handleProcessAudio(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observe.Logger(ctx)

	r.Body = http.MaxBytesReader(w, r.Body, maxUpload)
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid multipart form: "+err.Error())
		return
	}

	data, filename, err := readFormFile(r, "audio")
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	exprLabel := r.FormValue("expression")
	confidence := 0.0
	if v := r.FormValue("expression_confidence"); v != "" {
		if confidence, err = strconv.ParseFloat(v, 64); err != nil {
			writeError(w, http.StatusUnprocessableEntity, fmt.Sprintf("invalid expression_confidence %q", v))
			return
		}
	}

	audio := stt.Audio{Raw: data, Filename: filename}
	if pcm, err := audioconv.Decode(data, filename, audioconv.Options{}); err != nil {
		logger.Debug("audio not decoded, sending raw upload", "file", filename, "err", err)
	} else {
		audio.PCM = pcm
	}

	text, err := s.pipeline.Transcribe(ctx, audio)
	if err != nil {
		if assistant.KindOf(err) == assistant.KindRecoverable {
			writeJSON(w, http.StatusOK, unintelligibleResponse{
				Response: assistant.Apology,
				Error:    "UnknownValueError",
			})
			return
		}
		logger.Error("speech recognition failed", "err", err)
		writeError(w, http.StatusInternalServerError, "Speech recognition error: "+cause(err).Error())
		return
	}

	reply, err := s.pipeline.Respond(ctx, text, expression.ContextFor(exprLabel))
	if err != nil {
		logger.Error("reply failed", "err", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	mp3, err := s.pipeline.Speak(ctx, s.speech, reply)
	if err != nil {
		logger.Error("speech synthesis failed", "err", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	name, err := s.store.Save(mp3)
	if err != nil {
		logger.Error("store audio failed", "err", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("turn completed", "transcript", text, "expression", exprLabel, "audio", name)
	writeJSON(w, http.StatusOK, turnResponse{
		Transcript:           text,
		Response:             reply,
		AudioURL:             "/audio/" + name,
		Expression:           exprLabel,
		ExpressionConfidence: confidence,
	})
}

// cause strips the pipeline's operation prefix.
func cause(err error) error {
	var e *assistant.Error
	if errors.As(err, &e) {
		return e.Err
	}
	return err
}

func readFormFile(r *http.Request, field string) ([]byte, string, error) {
	f, hdr, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, "", fmt.Errorf("%s file is required", field)
		}
		return nil, "", fmt.Errorf("read %s: %w", field, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", field, err)
	}
	return data, filename(hdr), nil
}

func filename(h *multipart.FileHeader) string {
	if h == nil {
		return ""
	}
	return h.Filename
}

func (s *Server) handleAudio(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	path, err := s.store.Path(name)
	if err != nil {
		writeError(w, http.StatusNotFound, "Audio file not found")
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Content-Disposition", "inline; filename="+name)
	http.ServeFile(w, r, path)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.pipeline.Reset()
	writeJSON(w, http.StatusOK, statusResponse{Status: "ok", Message: "Conversation reset"})
}

type faceBox struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

type faceResponse struct {
	FaceDetected   bool           `json:"face_detected"`
	Expression     string         `json:"expression"`
	Confidence     float64        `json:"confidence"`
	Color          expression.RGB `json:"color"`
	FaceCount      int            `json:"face_count"`
	FaceDimensions *faceBox       `json:"face_dimensions,omitempty"`
}

func faceResponseFor(d face.Detection) faceResponse {
	res := faceResponse{
		FaceDetected: d.Detected,
		Expression:   d.Result.Label.Display(),
		Confidence:   face.Round2(d.Confidence),
		Color:        d.Result.Color,
		FaceCount:    d.Count,
	}
	if d.Detected {
		res.FaceDimensions = &faceBox{
			X:      d.Box.Min.X,
			Y:      d.Box.Min.Y,
			Width:  d.Box.Dx(),
			Height: d.Box.Dy(),
		}
	}
	return res
}

// analyze never fails: undecodable input is reported as no face.
func (s *Server) analyze(r *http.Request, data []byte, source string) face.Detection {
	frame, err := s.decode(data)
	if err != nil {
		observe.Logger(r.Context()).Debug("frame not decoded", "err", err)
		return face.NoFace()
	}

	d := s.faces.Analyze(frame)
	if d.Detected {
		s.metrics.RecordExpression(r.Context(), string(d.Result.Label), source)
	}
	return d
}

func (s *Server) handleDetectFace(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUpload)
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid multipart form: "+err.Error())
		return
	}

	data, _, err := readFormFile(r, "image")
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, faceResponseFor(s.analyze(r, data, "upload")))
}

type healthResponse struct {
	Status        string `json:"status"`
	MessagesCount int    `json:"messages_count"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "healthy", MessagesCount: s.pipeline.Transcript().Len()})
}

type catalogResponse struct {
	Expressions []expression.Entry `json:"expressions"`
}

func (s *Server) handleExpressions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, catalogResponse{Expressions: expression.Catalog()})
}
