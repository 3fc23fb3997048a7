package processor

import (
	"sync"

	"github.com/nguyentantai21042004/video-digest/internal/config"
	"github.com/nguyentantai21042004/video-digest/internal/downloader"
	"github.com/nguyentantai21042004/video-digest/internal/logger"
	"github.com/nguyentantai21042004/video-digest/internal/observe"
	"github.com/nguyentantai21042004/video-digest/internal/summarizer"
	"github.com/nguyentantai21042004/video-digest/internal/transcriber"
)

// Components are the pipeline stages the processor sequences.
type Components struct {
	Downloader  downloader.Downloader
	Transcriber transcriber.Transcriber
	Summarizer  summarizer.Summarizer
}

type implProcessor struct {
	// mu serializes runs; they share the scratch directory.
	mu sync.Mutex

	cfg     *config.Config
	comps   Components
	logger  logger.Logger
	metrics *observe.Metrics
}

// New creates a Processor. A nil metrics records nothing.
func New(cfg *config.Config, comps Components, log logger.Logger, metrics *observe.Metrics) Processor {
	if metrics == nil {
		metrics = observe.Noop()
	}
	return &implProcessor{
		cfg:     cfg,
		comps:   comps,
		logger:  log,
		metrics: metrics,
	}
}
