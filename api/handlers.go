package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stellarlinkco/benchlab/internal/store"
)

type runView struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Stage             string  `json:"stage"`
	CreatedAt         string  `json:"created_at"`
	NInstances        int     `json:"n_instances"`
	NAttempts         int     `json:"n_attempts"`
	ExecutionSeconds  float64 `json:"execution_seconds"`
	EvaluationSeconds float64 `json:"evaluation_seconds"`
	ArtifactPath      string  `json:"artifact_path,omitempty"`
}

type reportView struct {
	Aggregator string             `json:"aggregator"`
	Outer      float64            `json:"outer"`
	Inner      map[string]float64 `json:"inner"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleListRuns(c *gin.Context) {
	limit := 0
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respondError(c, http.StatusBadRequest, errors.New("invalid limit"))
			return
		}
		limit = n
	}

	runs, err := s.store.ListRuns(c.Request.Context(), limit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}

	out := make([]runView, 0, len(runs))
	for _, run := range runs {
		out = append(out, viewOfRun(run))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleGetRun(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		respondError(c, http.StatusBadRequest, errors.New("missing run id"))
		return
	}

	run, err := s.store.GetRun(c.Request.Context(), id)
	if err != nil {
		respondError(c, http.StatusNotFound, err)
		return
	}
	c.JSON(http.StatusOK, viewOfRun(run))
}

func (s *Server) handleGetReports(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		respondError(c, http.StatusBadRequest, errors.New("missing run id"))
		return
	}

	reports, err := s.store.GetReports(c.Request.Context(), id)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}

	out := make([]reportView, 0, len(reports))
	for _, rep := range reports {
		out = append(out, reportView{
			Aggregator: rep.Aggregator,
			Outer:      rep.Outer,
			Inner:      rep.Inner,
		})
	}
	c.JSON(http.StatusOK, out)
}

func viewOfRun(run *store.RunRecord) runView {
	if run == nil {
		return runView{}
	}
	return runView{
		ID:                run.ID,
		Name:              run.Name,
		Stage:             run.Stage,
		CreatedAt:         run.CreatedAt.UTC().Format(time.RFC3339),
		NInstances:        run.NInstances,
		NAttempts:         run.NAttempts,
		ExecutionSeconds:  run.ExecutionSeconds,
		EvaluationSeconds: run.EvaluationSeconds,
		ArtifactPath:      run.ArtifactPath,
	}
}

func respondError(c *gin.Context, status int, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, gin.H{"error": msg})
}
