package databricks

import (
	"context"
	"fmt"
	"path"
	"strconv"
)

// Jobs wire types (Jobs API 2.1).

// RunNowRequest triggers an existing job, optionally with parameters for the
// task types the job defines.
type RunNowRequest struct {
	JobID             int64             `json:"job_id"`
	JobParameters     map[string]string `json:"job_parameters,omitempty"`
	NotebookParams    map[string]string `json:"notebook_params,omitempty"`
	JarParams         []string          `json:"jar_params,omitempty"`
	PythonParams      []string          `json:"python_params,omitempty"`
	SparkSubmitParams []string          `json:"spark_submit_params,omitempty"`
}

type RunNowResponse struct {
	RunID       int64 `json:"run_id"`
	NumberInJob int64 `json:"number_in_job,omitempty"`
}

type RunState struct {
	LifeCycleState string `json:"life_cycle_state,omitempty"`
	ResultState    string `json:"result_state,omitempty"`
	StateMessage   string `json:"state_message,omitempty"`
}

type RunTask struct {
	TaskKey    string    `json:"task_key,omitempty"`
	State      *RunState `json:"state,omitempty"`
	StartTime  int64     `json:"start_time,omitempty"`
	EndTime    int64     `json:"end_time,omitempty"`
	RunPageURL string    `json:"run_page_url,omitempty"`
}

// Run is a job run as reported by runs/get.
type Run struct {
	RunID             int64     `json:"run_id"`
	JobID             int64     `json:"job_id,omitempty"`
	State             *RunState `json:"state,omitempty"`
	StartTime         int64     `json:"start_time,omitempty"`
	EndTime           int64     `json:"end_time,omitempty"`
	RunDuration       int64     `json:"run_duration,omitempty"`
	SetupDuration     int64     `json:"setup_duration,omitempty"`
	ExecutionDuration int64     `json:"execution_duration,omitempty"`
	CleanupDuration   int64     `json:"cleanup_duration,omitempty"`
	RunPageURL        string    `json:"run_page_url,omitempty"`
	Tasks             []RunTask `json:"tasks,omitempty"`
}

type NotebookOutput struct {
	Result    string `json:"result,omitempty"`
	Truncated bool   `json:"truncated,omitempty"`
}

// RunOutput is the output of a completed run as reported by runs/get-output.
type RunOutput struct {
	NotebookOutput *NotebookOutput `json:"notebook_output,omitempty"`
	Logs           string          `json:"logs,omitempty"`
	Error          string          `json:"error,omitempty"`
	ErrorTrace     string          `json:"error_trace,omitempty"`
	Metadata       *Run            `json:"metadata,omitempty"`
}

type JobSettings struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

// Job is a job definition as reported by jobs/get.
type Job struct {
	JobID           int64        `json:"job_id"`
	CreatorUserName string       `json:"creator_user_name,omitempty"`
	CreatedTime     int64        `json:"created_time,omitempty"`
	Settings        *JobSettings `json:"settings,omitempty"`
}

type notebookTask struct {
	NotebookPath   string            `json:"notebook_path"`
	Source         string            `json:"source"`
	BaseParameters map[string]string `json:"base_parameters,omitempty"`
}

type submitTask struct {
	TaskKey      string       `json:"task_key"`
	NotebookTask notebookTask `json:"notebook_task"`
}

type submitRunRequest struct {
	RunName string       `json:"run_name"`
	Tasks   []submitTask `json:"tasks"`
}

// RunNow triggers a job run.
func (c *Client) RunNow(ctx context.Context, request RunNowRequest) (*RunNowResponse, error) {
	req, err := c.request(ctx)
	if err != nil {
		return nil, err
	}

	var out RunNowResponse
	resp, err := req.
		SetBody(request).
		SetResult(&out).
		Post(c.url("/api/2.1/jobs/run-now"))
	if err != nil {
		return nil, wrapTransportError(ctx, err, "trigger job")
	}
	if resp.IsError() {
		return nil, apiError(ctx, resp, "trigger job")
	}
	return &out, nil
}

// GetRun fetches a job run by run id.
func (c *Client) GetRun(ctx context.Context, runID int64) (*Run, error) {
	req, err := c.request(ctx)
	if err != nil {
		return nil, err
	}

	var out Run
	resp, err := req.
		SetQueryParam("run_id", strconv.FormatInt(runID, 10)).
		SetResult(&out).
		Get(c.url("/api/2.1/jobs/runs/get"))
	if err != nil {
		return nil, wrapTransportError(ctx, err, "get run")
	}
	if resp.IsError() {
		return nil, apiError(ctx, resp, "get run")
	}
	return &out, nil
}

// GetRunOutput fetches the output of a completed run.
func (c *Client) GetRunOutput(ctx context.Context, runID int64) (*RunOutput, error) {
	req, err := c.request(ctx)
	if err != nil {
		return nil, err
	}

	var out RunOutput
	resp, err := req.
		SetQueryParam("run_id", strconv.FormatInt(runID, 10)).
		SetResult(&out).
		Get(c.url("/api/2.1/jobs/runs/get-output"))
	if err != nil {
		return nil, wrapTransportError(ctx, err, "get run output")
	}
	if resp.IsError() {
		return nil, apiError(ctx, resp, "get run output")
	}
	return &out, nil
}

// CancelRun cancels a running job run.
func (c *Client) CancelRun(ctx context.Context, runID int64) error {
	req, err := c.request(ctx)
	if err != nil {
		return err
	}

	resp, err := req.
		SetBody(map[string]int64{"run_id": runID}).
		Post(c.url("/api/2.1/jobs/runs/cancel"))
	if err != nil {
		return wrapTransportError(ctx, err, "cancel run")
	}
	if resp.IsError() {
		return apiError(ctx, resp, "cancel run")
	}
	return nil
}

// GetJob fetches a job definition by job id.
func (c *Client) GetJob(ctx context.Context, jobID int64) (*Job, error) {
	req, err := c.request(ctx)
	if err != nil {
		return nil, err
	}

	var out Job
	resp, err := req.
		SetQueryParam("job_id", strconv.FormatInt(jobID, 10)).
		SetResult(&out).
		Get(c.url("/api/2.1/jobs/get"))
	if err != nil {
		return nil, wrapTransportError(ctx, err, "get job")
	}
	if resp.IsError() {
		return nil, apiError(ctx, resp, "get job")
	}
	out.JobID = jobID
	return &out, nil
}

// SubmitNotebookRun submits a one-time run executing a single workspace
// notebook.
func (c *Client) SubmitNotebookRun(ctx context.Context, notebookPath string, parameters map[string]string) (*RunNowResponse, error) {
	req, err := c.request(ctx)
	if err != nil {
		return nil, err
	}

	body := submitRunRequest{
		RunName: fmt.Sprintf("Execute Notebook: %s", path.Base(notebookPath)),
		Tasks: []submitTask{{
			TaskKey: "notebook_task",
			NotebookTask: notebookTask{
				NotebookPath:   notebookPath,
				Source:         "WORKSPACE",
				BaseParameters: parameters,
			},
		}},
	}

	var out RunNowResponse
	resp, err := req.
		SetBody(body).
		SetResult(&out).
		Post(c.url("/api/2.1/jobs/runs/submit"))
	if err != nil {
		return nil, wrapTransportError(ctx, err, "submit notebook run")
	}
	if resp.IsError() {
		return nil, apiError(ctx, resp, "submit notebook run")
	}
	return &out, nil
}
