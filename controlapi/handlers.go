package controlapi

import (
	"fmt"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"lanscan/targets"
)

// Server bundles dependencies for HTTP handlers.
type Server struct {
	store TaskStore
}

// NewServer creates a new control-plane server instance.
func NewServer(store TaskStore) *Server {
	return &Server{store: store}
}

// RegisterRoutes attaches handlers to the provided Gin router group,
// matching the gin.IRoutes signature so the same Server can register
// either directly on the engine or on a versioned route group.
func (s *Server) RegisterRoutes(routes gin.IRoutes) {
	routes.POST("/scans", s.createScanHandler)
	routes.GET("/scans/:id", s.getScanHandler)
}

var uuidV4Pattern = regexp.MustCompile(`^[a-fA-F0-9]{8}-[a-fA-F0-9]{4}-[1-5][a-fA-F0-9]{3}-[abAB89][a-fA-F0-9]{3}-[a-fA-F0-9]{12}$`)

// @Summary      Create a new scan task
// @Description  Submit a host/port target set and let the engine execute it asynchronously. The handler parses the target/port tokens with the same iterators the scan engine itself runs on, so a malformed CIDR or port range is rejected immediately instead of surfacing later as a failed task.
// @Description  **Lifecycle**: POST /scans immediately answers with HTTP 202 Accepted plus the task identifier. Clients must poll GET /scans/{id} to observe status transitions (pending → running → completed/failed).
// @Tags         Scans
// @Accept       json
// @Produce      json
// @Param        scanRequest  body      CreateScanRequest      true  "Scan request parameters"
// @Success      202          {object}  ScanAcceptedResponse
// @Failure      400          {object}  ErrorResponse
// @Failure      401          {object}  ErrorResponse
// @Failure      429          {object}  ErrorResponse
// @Failure      500          {object}  ErrorResponse
// @Security     ApiKeyAuth
// @Router       /scans [post]
func (s *Server) createScanHandler(c *gin.Context) {
	var req CreateScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf("invalid request payload: %v", err)})
		return
	}

	if err := validateTargets(req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	task := &ScanTask{
		ID:        uuid.New().String(),
		Status:    "pending",
		Hosts:     req.Hosts,
		Ports:     req.Ports,
		Mode:      req.Mode,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.store.CreateTask(task); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to persist task"})
		return
	}

	if err := s.store.PushToQueue(task.ID); err != nil {
		task.Status = "failed"
		task.Error = "failed to queue task"
		now := time.Now().UTC()
		task.CompletedAt = &now
		_ = s.store.UpdateTask(task)

		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to queue task"})
		return
	}

	c.JSON(http.StatusAccepted, ScanAcceptedResponse{ID: task.ID, Status: task.Status})
}

// validateTargets runs req.Hosts (and, unless the mode is arp-only,
// req.Ports) through the same constructors the scan engine calls at
// scan() time (targets.NewIPTargets/targets.NewPortTargets), so a
// malformed CIDR block or inverted port range is rejected at submission
// time with the engine's own parse error rather than silently failing a
// background task minutes later.
func validateTargets(req CreateScanRequest) error {
	if _, err := targets.NewIPTargets(req.Hosts); err != nil {
		return fmt.Errorf("invalid hosts: %w", err)
	}
	if req.Mode == "arp" {
		return nil
	}
	if _, err := targets.NewPortTargets([]string{req.Ports}); err != nil {
		return fmt.Errorf("invalid ports: %w", err)
	}
	return nil
}

// @Summary      Get scan status and results
// @Description  Retrieve a live snapshot of a scan task. Supply the UUID obtained from POST /scans and poll this endpoint until the lifecycle reaches completed.
// @Tags         Scans
// @Produce      json
// @Param        id   path      string      true  "Scan Task ID (UUID v4)"
// @Success      200  {object}  ScanTask
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      429  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Security     ApiKeyAuth
// @Router       /scans/{id} [get]
func (s *Server) getScanHandler(c *gin.Context) {
	id := c.Param("id")
	if !uuidV4Pattern.MatchString(id) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid task id format"})
		return
	}
	task, err := s.store.GetTask(id)
	if err != nil {
		if err == ErrTaskNotFound {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to load task"})
		return
	}

	c.JSON(http.StatusOK, task)
}
