package rotation

import "time"

type ListRunsRequest struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

type TriggerRunResponse struct {
	RunID   string `json:"run_id"`
	Trigger string `json:"trigger"`
}

type RunResponse struct {
	ID             string  `json:"id"`
	Trigger        string  `json:"trigger"`
	Status         string  `json:"status"`
	Checked        int     `json:"checked"`
	Created        int     `json:"created"`
	AlreadyExisted int     `json:"already_existed"`
	Skipped        int     `json:"skipped"`
	Failed         int     `json:"failed"`
	Error          string  `json:"error,omitempty"`
	StartedAt      string  `json:"started_at"`
	FinishedAt     *string `json:"finished_at,omitempty"`
}

type StatusResponse struct {
	InFlight bool `json:"in_flight"`
}

func mapRunToResponse(r RotationRun) RunResponse {
	resp := RunResponse{
		ID:             r.ID.String(),
		Trigger:        r.Trigger,
		Status:         r.Status,
		Checked:        r.Checked,
		Created:        r.Created,
		AlreadyExisted: r.AlreadyExisted,
		Skipped:        r.Skipped,
		Failed:         r.Failed,
		Error:          r.Error,
		StartedAt:      r.StartedAt.Format(time.RFC3339),
	}
	if r.FinishedAt != nil {
		v := r.FinishedAt.Format(time.RFC3339)
		resp.FinishedAt = &v
	}
	return resp
}
