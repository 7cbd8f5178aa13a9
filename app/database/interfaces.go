package database

import (
	"github.com/icemap/agent/app/article"
)

type ArticleRepository interface {
	SaveArticle(a *article.Article) error
	SaveDeadLetter(a *article.Article, reason string) error

	GetArticleCount() (int, error)
	GetCategoryCounts() (map[string]int, error)
	GetDeadLetterCount() (int, error)

	GetArticlesNeedingLocation(limit int) ([]article.Article, error)
	UpdateArticleLocation(url string, parsed article.ParsedLocation) error
}

type CheckpointRepository interface {
	IsProcessed(url string) (bool, error)
	MarkProcessed(url string) error
	ProcessedSet() (map[string]bool, error)
	GetProcessedCount() (int, error)
}
