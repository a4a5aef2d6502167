// Package handler is the Lambda entry point around the duplicate finder.
package handler

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-lambda-go/lambdacontext"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"tasnim.dev/s3-dupes/internal/dupes"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// Request is the optional shape of the invocation event. Any other event
// (schedule, S3 notification, empty) runs against the configured target.
type Request struct {
	Bucket string `json:"bucket"`
	Prefix string `json:"prefix"`
}

// Response is exactly one of {message} or {error}.
type Response struct {
	Message string        `json:"message,omitempty"`
	Error   string        `json:"error,omitempty"`
	Report  *dupes.Report `json:"report,omitempty"`
}

type Finder interface {
	Find(ctx context.Context, target dupes.Target) (*dupes.Report, error)
}

type Handler struct {
	finder Finder
	target dupes.Target
	log    *zap.Logger
}

func New(finder Finder, target dupes.Target, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{finder: finder, target: target, log: log}
}

// Handle never returns a Go error; failures are reported in the payload so
// the caller always gets a JSON body back.
func (h *Handler) Handle(ctx context.Context, event json.RawMessage) (Response, error) {
	log := h.log
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		log = log.With(zap.String("requestId", lc.AwsRequestID))
	}

	target := h.resolve(event, log)
	report, err := h.finder.Find(ctx, target)
	if err != nil {
		log.Error("duplicate search failed", zap.String("target", target.String()), zap.Error(err))
		return Response{Error: err.Error()}, nil
	}

	msg := report.Summary()
	log.Info("duplicate search finished", zap.String("summary", msg))
	return Response{Message: msg, Report: report}, nil
}

func (h *Handler) resolve(event json.RawMessage, log *zap.Logger) dupes.Target {
	target := h.target
	if len(event) == 0 {
		return target
	}

	var req Request
	if err := jsonAPI.Unmarshal(event, &req); err != nil {
		log.Debug("event is not a target override", zap.Error(err))
		return target
	}
	if req.Bucket != "" {
		target.Bucket = req.Bucket
	}
	if req.Prefix != "" {
		target.Prefix = req.Prefix
	}
	return target
}
