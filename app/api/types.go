package api

import (
	"github.com/icemap/agent/app/database"
	"github.com/icemap/agent/app/pipeline"
	"github.com/icemap/agent/app/source"
	"github.com/icemap/agent/app/tasks"
)

type Handler struct {
	articleRepo    database.ArticleRepository
	checkpointRepo database.CheckpointRepository
	configCache    *source.ConfigCache
	runner         *pipeline.Runner
	scheduler      tasks.TaskSchedulerInterface
}

type IngestRequest struct {
	Records string `json:"records" binding:"required"`
}

type IngestResponse struct {
	Status   string `json:"status"`
	Accepted int    `json:"accepted"`
	Ignored  int    `json:"ignored"`
}
