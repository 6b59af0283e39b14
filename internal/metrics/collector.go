package metrics

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"workplace-api/internal/domain"
)

// BusinessMetricsCollector refreshes the business gauges periodically
type BusinessMetricsCollector struct {
	db      *gorm.DB
	metrics *Metrics
	logger  *zap.Logger
	ticker  *time.Ticker
	done    chan bool
}

// NewBusinessMetricsCollector creates a new collector
func NewBusinessMetricsCollector(db *gorm.DB, metrics *Metrics, logger *zap.Logger) *BusinessMetricsCollector {
	return &BusinessMetricsCollector{
		db:      db,
		metrics: metrics,
		logger:  logger,
		ticker:  time.NewTicker(60 * time.Second),
		done:    make(chan bool),
	}
}

// Start begins collecting metrics
func (c *BusinessMetricsCollector) Start() {
	go func() {
		c.collect()

		for {
			select {
			case <-c.ticker.C:
				c.collect()
			case <-c.done:
				return
			}
		}
	}()
}

// Stop stops the collector
func (c *BusinessMetricsCollector) Stop() {
	c.ticker.Stop()
	c.done <- true
}

func (c *BusinessMetricsCollector) collect() {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("Panic in business metrics collection",
				zap.Any("panic", r),
			)
		}
	}()

	var workplaces int64
	if err := c.db.Model(&domain.Workplace{}).Count(&workplaces).Error; err != nil {
		c.logger.Warn("Failed to count workplaces", zap.Error(err))
	} else {
		c.metrics.SetWorkplacesTotal(workplaces)
	}

	var issues int64
	if err := c.db.Model(&domain.Issue{}).Count(&issues).Error; err != nil {
		c.logger.Warn("Failed to count issues", zap.Error(err))
	} else {
		c.metrics.SetIssuesTotal(issues)
	}
}
