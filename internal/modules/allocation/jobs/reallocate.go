// Package jobs contains scheduled allocation jobs.
package jobs

import (
	"github.com/rs/zerolog"

	"github.com/aristath/hierarch/internal/modules/allocation"
)

// ReallocateJob recomputes the standing allocation over all active
// securities from stored price history.
type ReallocateJob struct {
	service *allocation.Service
	log     zerolog.Logger
}

// NewReallocateJob creates a new reallocation job
func NewReallocateJob(service *allocation.Service, log zerolog.Logger) *ReallocateJob {
	return &ReallocateJob{
		service: service,
		log:     log.With().Str("job", "reallocate").Logger(),
	}
}

// Name returns the job name
func (j *ReallocateJob) Name() string {
	return "reallocate"
}

// Run executes one reallocation over the full active universe
func (j *ReallocateJob) Run() error {
	run, err := j.service.Run(allocation.RunRequest{})
	if err != nil {
		return err
	}

	j.log.Info().
		Str("run_id", run.ID).
		Int("assets", len(run.Assets)).
		Msg("Standing allocation refreshed")

	return nil
}
