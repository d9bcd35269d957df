package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/uyouii/peak-asymmetry/asymmetry"
	"github.com/uyouii/peak-asymmetry/common"
	"github.com/uyouii/peak-asymmetry/config"
	"github.com/uyouii/peak-asymmetry/model"
	"github.com/uyouii/peak-asymmetry/render"
	"github.com/uyouii/peak-asymmetry/report"
	"github.com/uyouii/peak-asymmetry/spectrumio"
	"github.com/uyouii/peak-asymmetry/synth"
	"github.com/uyouii/peak-asymmetry/utils"
	"go.uber.org/zap"
)

// Server exposes the analysis over HTTP: upload a trace, get the report or the chart back.
type Server struct {
	cfg    *config.Config
	logger *zap.Logger
	router *gin.Engine
}

func New(cfg *config.Config, logger *zap.Logger) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = zap.L()
	}
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.MaxMultipartMemory = cfg.Server.MaxUploadSize

	s := &Server{cfg: cfg, logger: logger, router: router}
	router.Use(gin.Recovery(), s.requestLogger())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	api := router.Group("/api")
	api.POST("/asymmetry", s.handleAnalyze)
	api.POST("/asymmetry/chart", s.handleChart)
	api.POST("/synth", s.handleSynth)
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.cfg.Server.Addr, Handler: s.router}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", s.cfg.Server.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Request = c.Request.WithContext(utils.WithLogger(c.Request.Context(), s.logger))
		c.Next()
		s.logger.Info("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}

func (s *Server) handleAnalyze(c *gin.Context) {
	spectrum, opts, result, ok := s.analyze(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, report.New(spectrum.Name, opts, result))
}

func (s *Server) handleChart(c *gin.Context) {
	spectrum, _, result, ok := s.analyze(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := render.Chart(&buf, spectrum, result, ""); err != nil {
		s.fail(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

type synthRequest struct {
	Kind   string            `json:"kind"`
	Lower  float64           `json:"lower"`
	Upper  float64           `json:"upper"`
	Points int               `json:"points"`
	Peaks  []synth.PeakShape `json:"peaks"`
	Noise  float64           `json:"noise"`
	Seed   uint64            `json:"seed"`
}

// maxSynthPoints bounds the grid a client may request from /api/synth.
const maxSynthPoints = 1_000_000

func (r synthRequest) validateGrid() error {
	if r.Points < model.MinSpectrumLen || r.Points > maxSynthPoints {
		return fmt.Errorf("%w: points must be in [%d, %d], got %d",
			common.ErrorInvalidInput, model.MinSpectrumLen, maxSynthPoints, r.Points)
	}
	if !(r.Upper > r.Lower) {
		return fmt.Errorf("%w: upper (%v) must be greater than lower (%v)", common.ErrorInvalidInput, r.Upper, r.Lower)
	}
	return nil
}

func (s *Server) handleSynth(c *gin.Context) {
	var req synthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, fmt.Errorf("%w: %v", common.ErrorInvalidInput, err))
		return
	}

	var (
		spectrum *model.Spectrum
		err      error
	)
	if len(req.Peaks) > 0 {
		if req.Points == 0 {
			req.Lower, req.Upper, req.Points = synth.DefaultLower, synth.DefaultUpper, synth.DefaultPoints
		}
		if err := req.validateGrid(); err != nil {
			s.fail(c, err)
			return
		}
		spectrum, err = synth.Generate("custom", synth.Grid(req.Lower, req.Upper, req.Points), req.Peaks)
	} else {
		spectrum, err = synth.Preset(req.Kind)
	}
	if err != nil {
		s.fail(c, err)
		return
	}
	if req.Noise > 0 {
		spectrum = synth.AddNoise(spectrum, req.Noise, req.Seed)
	}

	var buf bytes.Buffer
	if err := spectrumio.WriteText(&buf, spectrum); err != nil {
		s.fail(c, err)
		return
	}
	c.Data(http.StatusOK, "text/plain; charset=utf-8", buf.Bytes())
}

// analyze reads the uploaded file and form options and runs the pipeline.
// On failure the response is already written.
func (s *Server) analyze(c *gin.Context) (*model.Spectrum, asymmetry.Options, *model.Result, bool) {
	opts, err := s.options(c)
	if err != nil {
		s.fail(c, err)
		return nil, opts, nil, false
	}
	spectrum, err := s.readUpload(c)
	if err != nil {
		s.fail(c, err)
		return nil, opts, nil, false
	}
	result, err := asymmetry.Analyze(c.Request.Context(), spectrum, opts)
	if err != nil {
		s.fail(c, err)
		return nil, opts, nil, false
	}
	return spectrum, opts, result, true
}

func (s *Server) options(c *gin.Context) (asymmetry.Options, error) {
	opts := s.cfg.AnalysisOptions()
	for field, dst := range map[string]*float64{
		"min_prominence":  &opts.MinProminence,
		"relative_height": &opts.RelativeHeight,
	} {
		raw := strings.TrimSpace(c.PostForm(field))
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return opts, fmt.Errorf("%w: %s: %v", common.ErrorInvalidInput, field, err)
		}
		*dst = v
	}
	return opts, opts.Validate()
}

func (s *Server) readUpload(c *gin.Context) (*model.Spectrum, error) {
	header, err := c.FormFile("file")
	if err != nil {
		return nil, fmt.Errorf("%w: file: %v", common.ErrorInvalidInput, err)
	}
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, s.cfg.Server.MaxUploadSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > s.cfg.Server.MaxUploadSize {
		return nil, fmt.Errorf("%w: upload larger than %d bytes", common.ErrorInvalidInput, s.cfg.Server.MaxUploadSize)
	}

	spectrum, err := spectrumio.ReadBytes(data, filepath.Ext(header.Filename), s.cfg.Input.Columns)
	if err != nil {
		return nil, err
	}
	spectrum.Name = strings.TrimSuffix(header.Filename, filepath.Ext(header.Filename))
	return spectrum, nil
}

func (s *Server) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	if asymmetry.IsFatal(err) {
		status = http.StatusBadRequest
	}
	s.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Int("status", status), zap.Error(err))
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
