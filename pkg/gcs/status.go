// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package gcs

import (
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
)

// status logs the progress of a build, stage by stage.
type status struct {
	stageName  string
	workCount  uint64
	doneCount  uint64
	step       uint64
	start      time.Time
	stageStart time.Time
}

func newStatus() *status {
	return &status{start: time.Now()}
}

func (s *status) Stage(stage string) {
	s.FinishStage()

	s.stageName = stage
	log.Debug().Msgf("%s starting...", s.stageName)

	s.stageStart = time.Now()
	atomic.StoreUint64(&s.doneCount, 0)
	s.workCount, s.step = 0, 0
}

func (s *status) StageWork(name string, work uint64) {
	s.Stage(name)
	s.workCount = work
	// report about every 5%
	s.step = work / 20
}

func (s *status) Incr() {
	done := atomic.AddUint64(&s.doneCount, 1)
	if s.step > 0 && done%s.step == 0 {
		elapsed := time.Since(s.stageStart)
		log.Info().Msgf("%s: %d of %d, %.2f%%, %.0f/s",
			s.stageName, done, s.workCount,
			float64(done)/float64(s.workCount)*100,
			float64(done)/elapsed.Seconds(),
		)
	}
}

func (s *status) FinishStage() {
	if s.stageName != "" {
		log.Debug().Msgf("%s complete in %v", s.stageName, time.Since(s.stageStart))
	}
	s.stageName = ""
}

func (s *status) Done() {
	s.FinishStage()
	log.Info().Msgf("complete in %v", time.Since(s.start))
}
