package meshy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aurum-labs/jewel-studio/common/logger"
	"github.com/aurum-labs/jewel-studio/relay/channel"
	"github.com/aurum-labs/jewel-studio/relay/model"
	"github.com/aurum-labs/jewel-studio/relay/util"
	"github.com/pkg/errors"
)

const requestPath = "/openapi/v2/text-to-3d"

const (
	defaultPollInterval = 5 * time.Second
	defaultPollTimeout  = 10 * time.Minute
)

type Adaptor struct {
	meta *util.RelayMeta
}

func (a *Adaptor) Init(meta *util.RelayMeta) {
	a.meta = meta
}

func (a *Adaptor) GetRequestURL(meta *util.RelayMeta) (string, error) {
	if meta.BaseURL == "" {
		return "", fmt.Errorf("meshy base url is empty")
	}
	return strings.TrimSuffix(meta.BaseURL, "/") + requestPath, nil
}

func (a *Adaptor) ConvertModelRequest(request *model.ModelGenerationRequest) *TextTo3DRequest {
	return &TextTo3DRequest{
		Mode:         request.Mode,
		Prompt:       request.Prompt,
		ArtStyle:     request.ArtStyle,
		OutputFormat: request.OutputFormat,
		ShouldRemesh: true,
	}
}

func (a *Adaptor) GenerateModel(ctx context.Context, request *model.ModelGenerationRequest) (*model.GeneratedModel, *model.ErrorWithStatusCode) {
	if request == nil || request.Prompt == "" {
		return nil, util.ErrorWithMessage("prompt is empty", "invalid_request", http.StatusBadRequest)
	}
	fullRequestURL, err := a.GetRequestURL(a.meta)
	if err != nil {
		return nil, util.ErrorWrapper(err, "get_request_url_failed", http.StatusInternalServerError)
	}
	jsonData, err := json.Marshal(a.ConvertModelRequest(request))
	if err != nil {
		return nil, util.ErrorWrapper(err, "marshal_request_failed", http.StatusInternalServerError)
	}
	req, err := channel.NewRequest(ctx, http.MethodPost, fullRequestURL, bytes.NewReader(jsonData), a.meta)
	if err != nil {
		return nil, util.ErrorWrapper(err, "new_request_failed", http.StatusInternalServerError)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := channel.DoRequest(a.meta, req)
	if err != nil {
		logger.Errorf(ctx, "meshy request failed: %s", err.Error())
		return nil, util.ErrorWrapper(err, "do_request_failed", http.StatusBadGateway)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, util.RelayErrorHandler(resp)
	}

	var createResponse CreateTaskResponse
	err = decodeBody(resp, &createResponse)
	if err != nil {
		return nil, util.ErrorWrapper(err, "unmarshal_response_body_failed", http.StatusBadGateway)
	}
	if createResponse.ModelUrl != "" || createResponse.Result == "" {
		thumbnail := createResponse.ThumbnailUrl
		if thumbnail == "" {
			thumbnail = createResponse.Thumbnail
		}
		return &model.GeneratedModel{
			ModelUrl:     createResponse.ModelUrl,
			ThumbnailUrl: thumbnail,
		}, nil
	}

	logger.Infof(ctx, "meshy task %s created, polling", createResponse.Result)
	task, err := a.WaitForTask(ctx, createResponse.Result)
	if err != nil {
		return nil, util.ErrorWrapper(err, "poll_task_failed", http.StatusGatewayTimeout)
	}
	if task.Status != TaskStatusSucceeded {
		message := fmt.Sprintf("model generation %s", strings.ToLower(task.Status))
		if task.TaskError != nil && task.TaskError.Message != "" {
			message = task.TaskError.Message
		}
		return nil, util.ErrorWithMessage(message, "task_"+strings.ToLower(task.Status), http.StatusBadGateway)
	}
	return &model.GeneratedModel{
		TaskId:       task.Id,
		ModelUrl:     task.ModelUrls.Glb,
		ThumbnailUrl: task.ThumbnailUrl,
	}, nil
}

// GetTask fetches the current state of a text-to-3d task.
func (a *Adaptor) GetTask(ctx context.Context, taskId string) (*Task, error) {
	fullRequestURL, err := a.GetRequestURL(a.meta)
	if err != nil {
		return nil, err
	}
	req, err := channel.NewRequest(ctx, http.MethodGet, fullRequestURL+"/"+taskId, nil, a.meta)
	if err != nil {
		return nil, err
	}
	resp, err := channel.DoRequest(a.meta, req)
	if err != nil {
		return nil, errors.Wrap(err, "get meshy task")
	}
	if resp.StatusCode != http.StatusOK {
		relayErr := util.RelayErrorHandler(resp)
		return nil, errors.Errorf("get meshy task: %s", relayErr.Message)
	}
	var task Task
	if err := decodeBody(resp, &task); err != nil {
		return nil, errors.Wrap(err, "decode meshy task")
	}
	if task.Id == "" {
		task.Id = taskId
	}
	return &task, nil
}

// WaitForTask polls taskId until it reaches a terminal status, the poll
// timeout elapses or ctx is done.
func (a *Adaptor) WaitForTask(ctx context.Context, taskId string) (*Task, error) {
	interval := a.meta.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	timeout := a.meta.PollTimeout
	if timeout <= 0 {
		timeout = defaultPollTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		task, err := a.GetTask(ctx, taskId)
		if err != nil {
			if ctx.Err() != nil {
				return nil, errors.Wrapf(ctx.Err(), "meshy task %s", taskId)
			}
			return nil, err
		}
		if task.Finished() {
			return task, nil
		}
		logger.Debugf(ctx, "meshy task %s is %s (%d%%)", taskId, task.Status, task.Progress)
		select {
		case <-ctx.Done():
			return nil, errors.Wrapf(ctx.Err(), "meshy task %s", taskId)
		case <-ticker.C:
		}
	}
}

func decodeBody(resp *http.Response, v any) error {
	defer resp.Body.Close()
	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(responseBody, v)
}

func (a *Adaptor) GetChannelName() string {
	return "meshy"
}
