package alumnietl

import (
	"context"
	"sync"

	"cloud.google.com/go/functions/metadata"
)

// PubSubMessage is the payload of a Pub/Sub event delivered to the
// Cloud Functions entrypoint. The message body is ignored; a Cloud
// Scheduler topic publish is only the trigger.
type PubSubMessage struct {
	Data []byte `json:"data"`
}

var (
	pipelineOnce sync.Once
	pipeline     *Pipeline
	pipelineErr  error
)

// RunPipeline is the Cloud Functions entrypoint. It builds the pipeline
// once per instance and runs it once per event. Only an aborted run
// returns an error: a completed run with partial load failures reports
// success so the event is not redelivered against an already-overwritten
// warehouse.
func RunPipeline(ctx context.Context, _ PubSubMessage) error {
	pipelineOnce.Do(func() {
		cfg, err := LoadConfig()
		if err != nil {
			pipelineErr = err
			return
		}
		pipeline, pipelineErr = New(ctx, cfg)
	})
	if pipelineErr != nil {
		return pipelineErr
	}

	if md, err := metadata.FromContext(ctx); err == nil {
		pipeline.logger.Info().
			Str("event_id", md.EventID).
			Time("event_time", md.Timestamp).
			Msg("triggered by event")
	}

	res := pipeline.Run(ctx)
	if res.Status == StatusAborted {
		return res.Err
	}

	return nil
}
