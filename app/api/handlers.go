package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/icemap/agent/app/article"
	"github.com/icemap/agent/app/database"
	"github.com/icemap/agent/app/pipeline"
	"github.com/icemap/agent/app/source"
	"github.com/icemap/agent/app/tasks"
)

func NewHandler(configCache *source.ConfigCache, articleRepo database.ArticleRepository,
	checkpointRepo database.CheckpointRepository, runner *pipeline.Runner,
	scheduler tasks.TaskSchedulerInterface) *Handler {
	return &Handler{
		articleRepo:    articleRepo,
		checkpointRepo: checkpointRepo,
		configCache:    configCache,
		runner:         runner,
		scheduler:      scheduler,
	}
}

// Ingest accepts a CSV batch in the request body and runs it through
// the pipeline synchronously. Queue acknowledgement does not apply to
// pushed batches.
func (h *Handler) Ingest(c *gin.Context) {
	var req IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	records, err := article.ParseBatch(req.Records)
	if err != nil {
		slog.Error("Batch parse error", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse batch", "details": err.Error()})
		return
	}

	progress, err := h.runner.Run(c.Request.Context(), records, nil)
	if err != nil {
		slog.Error("Batch run error", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process batch", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, IngestResponse{
		Status:   "ok",
		Accepted: progress.Accepted,
		Ignored:  progress.Ignored,
	})
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if articleCount, err := h.articleRepo.GetArticleCount(); err == nil {
		health["articles"] = articleCount
	}

	health["loaded_sources"] = h.configCache.GetConfigCount()

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	stats := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if counts, err := h.articleRepo.GetCategoryCounts(); err == nil {
		stats["categories"] = counts
	}
	if articleCount, err := h.articleRepo.GetArticleCount(); err == nil {
		stats["articles"] = articleCount
	}
	if processedCount, err := h.checkpointRepo.GetProcessedCount(); err == nil {
		stats["processed"] = processedCount
	}
	if deadLetterCount, err := h.articleRepo.GetDeadLetterCount(); err == nil {
		stats["dead_letters"] = deadLetterCount
	}

	totals := h.scheduler.GetTotals()
	stats["scheduler"] = map[string]interface{}{
		"accepted": totals.Accepted,
		"ignored":  totals.Ignored,
		"batches":  totals.Batches,
	}

	c.JSON(http.StatusOK, stats)
}

func (h *Handler) APIListSources(c *gin.Context) {
	configs := h.configCache.GetConfigs()

	sources := make([]map[string]interface{}, 0, len(configs))

	for _, sourceConfig := range configs {
		sourceInfo := map[string]interface{}{
			"name":          sourceConfig.Name,
			"kind":          string(sourceConfig.Kind),
			"enabled":       sourceConfig.Settings.Enabled,
			"batch_size":    sourceConfig.Settings.BatchSize,
			"poll_interval": (time.Duration(sourceConfig.Settings.PollInterval) * time.Second).String(),
		}

		switch sourceConfig.Kind {
		case source.KindFile:
			sourceInfo["path"] = sourceConfig.Path
		default:
			sourceInfo["url"] = sourceConfig.URL
		}

		sources = append(sources, sourceInfo)
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"sources": sources,
		"total":   len(sources),
	})
}

func (h *Handler) APIRunSource(c *gin.Context) {
	name := c.Param("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing source name parameter"})
		return
	}

	if _, err := h.configCache.GetConfig(name); err != nil {
		slog.Error("Source configuration not found", "source", name, "error", err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Source configuration not found"})
		return
	}

	if err := h.scheduler.EnqueueIngest(name); err != nil {
		slog.Error("Error enqueueing ingest task", "source", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to enqueue ingest task",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Ingest task enqueued successfully",
		"source":  name,
	})
}
