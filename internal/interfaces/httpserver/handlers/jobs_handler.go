package handlers

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"command-center/internal/infrastructure/databricks"
	"command-center/internal/interfaces/httpserver/middlewares"
	"command-center/internal/utils/platformerrors"
)

// JobsHandler proxies job orchestration calls.
type JobsHandler struct {
	factory *databricks.Factory
	log     zerolog.Logger
}

// NewJobsHandler wires dependencies for job routes.
func NewJobsHandler(factory *databricks.Factory, log zerolog.Logger) *JobsHandler {
	return &JobsHandler{
		factory: factory,
		log:     log.With().Str("component", "jobs_handler").Logger(),
	}
}

type jobTriggerRequest struct {
	JobID             int64             `json:"job_id" binding:"required"`
	Parameters        map[string]string `json:"parameters"`
	NotebookParams    map[string]string `json:"notebook_params"`
	JarParams         []string          `json:"jar_params"`
	PythonParams      []string          `json:"python_params"`
	SparkSubmitParams []string          `json:"spark_submit_params"`
}

type jobStatusResponse struct {
	RunID             int64            `json:"run_id"`
	JobID             int64            `json:"job_id"`
	State             string           `json:"state"`
	LifeCycleState    string           `json:"life_cycle_state"`
	ResultState       string           `json:"result_state,omitempty"`
	StateMessage      string           `json:"state_message,omitempty"`
	StartTime         int64            `json:"start_time,omitempty"`
	EndTime           int64            `json:"end_time,omitempty"`
	RunDuration       int64            `json:"run_duration,omitempty"`
	SetupDuration     int64            `json:"setup_duration,omitempty"`
	ExecutionDuration int64            `json:"execution_duration,omitempty"`
	CleanupDuration   int64            `json:"cleanup_duration,omitempty"`
	RunPageURL        string           `json:"run_page_url,omitempty"`
	Tasks             []map[string]any `json:"tasks,omitempty"`
}

type executeNotebookRequest struct {
	NotebookPath string            `json:"notebook_path" binding:"required"`
	Parameters   map[string]string `json:"parameters"`
}

func (h *JobsHandler) client(c *gin.Context) (*databricks.Client, bool) {
	identity := middlewares.IdentityFromContext(c)
	client, err := h.factory.ClientFor(c.Request.Context(), identity.Token, databricks.CapabilityJobs)
	if err != nil {
		platformerrors.WriteError(c, err)
		return nil, false
	}
	return client, true
}

func runIDParam(c *gin.Context) (int64, bool) {
	runID, err := strconv.ParseInt(c.Param("run_id"), 10, 64)
	if err != nil {
		platformerrors.WriteValidationError(c, "run_id must be an integer")
		return 0, false
	}
	return runID, true
}

// Trigger godoc
// @Summary Trigger a job
// @Tags jobs
// @Accept json
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/jobs/trigger [post]
func (h *JobsHandler) Trigger(c *gin.Context) {
	var req jobTriggerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		platformerrors.WriteValidationError(c, "job_id is required")
		return
	}

	client, ok := h.client(c)
	if !ok {
		return
	}

	h.log.Info().Int64("job_id", req.JobID).Msg("triggering job")
	run, err := client.RunNow(c.Request.Context(), databricks.RunNowRequest{
		JobID:             req.JobID,
		JobParameters:     req.Parameters,
		NotebookParams:    req.NotebookParams,
		JarParams:         req.JarParams,
		PythonParams:      req.PythonParams,
		SparkSubmitParams: req.SparkSubmitParams,
	})
	if err != nil {
		platformerrors.WriteError(c, err)
		return
	}

	c.JSON(200, gin.H{
		"run_id":  run.RunID,
		"job_id":  req.JobID,
		"status":  "triggered",
		"message": fmt.Sprintf("Job %d triggered successfully. Run ID: %d", req.JobID, run.RunID),
	})
}

// Status godoc
// @Summary Get job run status
// @Tags jobs
// @Produce json
// @Success 200 {object} jobStatusResponse
// @Router /api/jobs/status/{run_id} [get]
func (h *JobsHandler) Status(c *gin.Context) {
	runID, ok := runIDParam(c)
	if !ok {
		return
	}
	client, ok := h.client(c)
	if !ok {
		return
	}

	run, err := client.GetRun(c.Request.Context(), runID)
	if err != nil {
		platformerrors.WriteError(c, err)
		return
	}

	resp := jobStatusResponse{
		RunID:             runID,
		JobID:             run.JobID,
		State:             "UNKNOWN",
		LifeCycleState:    "UNKNOWN",
		StartTime:         run.StartTime,
		EndTime:           run.EndTime,
		RunDuration:       run.RunDuration,
		SetupDuration:     run.SetupDuration,
		ExecutionDuration: run.ExecutionDuration,
		CleanupDuration:   run.CleanupDuration,
		RunPageURL:        run.RunPageURL,
	}
	if run.State != nil {
		if run.State.LifeCycleState != "" {
			resp.State = run.State.LifeCycleState
			resp.LifeCycleState = run.State.LifeCycleState
		}
		resp.ResultState = run.State.ResultState
		resp.StateMessage = run.State.StateMessage
	}
	for _, task := range run.Tasks {
		info := map[string]any{
			"task_key":     task.TaskKey,
			"state":        "UNKNOWN",
			"start_time":   task.StartTime,
			"end_time":     task.EndTime,
			"run_page_url": task.RunPageURL,
		}
		if task.State != nil {
			if task.State.LifeCycleState != "" {
				info["state"] = task.State.LifeCycleState
			}
			info["result_state"] = task.State.ResultState
		}
		resp.Tasks = append(resp.Tasks, info)
	}

	c.JSON(200, resp)
}

// Output godoc
// @Summary Get job run output
// @Tags jobs
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/jobs/output/{run_id} [get]
func (h *JobsHandler) Output(c *gin.Context) {
	runID, ok := runIDParam(c)
	if !ok {
		return
	}
	client, ok := h.client(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	output, err := client.GetRunOutput(ctx, runID)
	if err != nil {
		platformerrors.WriteError(c, err)
		return
	}

	var jobID int64
	if output.Metadata != nil {
		jobID = output.Metadata.JobID
	} else if run, runErr := client.GetRun(ctx, runID); runErr == nil {
		jobID = run.JobID
	}

	resp := gin.H{
		"run_id": runID,
		"job_id": jobID,
	}
	if output.NotebookOutput != nil {
		resp["notebook_output"] = gin.H{
			"result":    output.NotebookOutput.Result,
			"truncated": output.NotebookOutput.Truncated,
		}
	}
	if output.Logs != "" {
		resp["logs"] = output.Logs
	}
	if output.Error != "" {
		resp["error"] = output.Error
	}
	if output.ErrorTrace != "" {
		resp["error_trace"] = output.ErrorTrace
	}

	c.JSON(200, resp)
}

// Cancel godoc
// @Summary Cancel a running job
// @Tags jobs
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/jobs/cancel/{run_id} [delete]
func (h *JobsHandler) Cancel(c *gin.Context) {
	runID, ok := runIDParam(c)
	if !ok {
		return
	}
	client, ok := h.client(c)
	if !ok {
		return
	}

	if err := client.CancelRun(c.Request.Context(), runID); err != nil {
		platformerrors.WriteError(c, err)
		return
	}

	c.JSON(200, gin.H{
		"run_id":  runID,
		"status":  "cancelled",
		"message": fmt.Sprintf("Job run %d cancelled successfully", runID),
	})
}

// Details godoc
// @Summary Get job details
// @Tags jobs
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/jobs/job/{job_id} [get]
func (h *JobsHandler) Details(c *gin.Context) {
	jobID, err := strconv.ParseInt(c.Param("job_id"), 10, 64)
	if err != nil {
		platformerrors.WriteValidationError(c, "job_id must be an integer")
		return
	}
	client, ok := h.client(c)
	if !ok {
		return
	}

	job, jobErr := client.GetJob(c.Request.Context(), jobID)
	if jobErr != nil {
		platformerrors.WriteError(c, jobErr)
		return
	}

	resp := gin.H{
		"job_id":            jobID,
		"creator_user_name": job.CreatorUserName,
		"created_time":      job.CreatedTime,
	}
	if job.Settings != nil {
		resp["name"] = job.Settings.Name
		resp["description"] = job.Settings.Description
	}
	c.JSON(200, resp)
}

// ExecuteNotebook godoc
// @Summary Execute a workspace notebook as a one-time run
// @Tags jobs
// @Accept json
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/jobs/execute-notebook [post]
func (h *JobsHandler) ExecuteNotebook(c *gin.Context) {
	var req executeNotebookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		platformerrors.WriteValidationError(c, "notebook_path is required")
		return
	}
	client, ok := h.client(c)
	if !ok {
		return
	}

	h.log.Info().Str("notebook_path", req.NotebookPath).Msg("submitting one-time notebook run")
	run, err := client.SubmitNotebookRun(c.Request.Context(), req.NotebookPath, req.Parameters)
	if err != nil {
		platformerrors.WriteError(c, err)
		return
	}

	c.JSON(200, gin.H{
		"run_id":  run.RunID,
		"status":  "triggered",
		"message": fmt.Sprintf("Notebook execution started. Run ID: %d", run.RunID),
	})
}

// Notebooks godoc
// @Summary List workspace notebooks
// @Tags jobs
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/jobs/notebooks [get]
func (h *JobsHandler) Notebooks(c *gin.Context) {
	path := c.DefaultQuery("path", "/Users")
	client, ok := h.client(c)
	if !ok {
		return
	}

	notebooks, err := client.ListNotebooks(c.Request.Context(), path)
	if err != nil {
		platformerrors.WriteError(c, err)
		return
	}
	c.JSON(200, gin.H{"notebooks": notebooks})
}
