package handlers

import (
	"net/http"

	"grid-backtest/internal/api/models"
	"grid-backtest/internal/series"

	"github.com/gin-gonic/gin"
)

// ListPeriods handles GET /api/v1/periods
func ListPeriods(c *gin.Context) {
	periods := make([]models.PeriodInfo, len(series.Periods))
	for i, p := range series.Periods {
		periods[i] = models.PeriodInfo{
			ID:   string(p),
			Code: i,
			Days: int(p.Span() / (24 * 3600)),
		}
	}
	c.JSON(http.StatusOK, gin.H{"periods": periods})
}
