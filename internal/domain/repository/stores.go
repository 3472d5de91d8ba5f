package repository

import (
	"context"
	"time"

	"FinSignal/internal/domain/models"
)

// PriceStore provides read/write access to close prices for the pipeline.
type PriceStore interface {
	GetPrices(ctx context.Context, symbols []string, from time.Time) ([]models.PricePoint, error)
	StorePrices(ctx context.Context, points []models.PricePoint) error
}

// NewsStore provides access to raw articles.
type NewsStore interface {
	GetArticles(ctx context.Context, since time.Time, limit int) ([]models.Article, error)
	StoreArticles(ctx context.Context, articles []models.Article) error
}
