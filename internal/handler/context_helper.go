package handler

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/larissaOjeda/thesis-canvas/internal/middleware"
	"github.com/larissaOjeda/thesis-canvas/internal/models"
	"github.com/larissaOjeda/thesis-canvas/internal/semester"
	appErrors "github.com/larissaOjeda/thesis-canvas/pkg/errors"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextClientKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

// parseSemesterSelector reads the year and semester query parameters.
// A missing year falls back to the current UTC year; the semester tag is
// mandatory because there is no safe default across semester boundaries.
func parseSemesterSelector(c *gin.Context) (int, semester.Season, error) {
	year := time.Now().UTC().Year()
	if raw := c.Query("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 2000 || parsed > 2100 {
			return 0, "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid year %q", raw))
		}
		year = parsed
	}

	raw := c.Query("semester")
	if raw == "" {
		return 0, "", appErrors.Clone(appErrors.ErrValidation, "semester query parameter is required")
	}
	season, err := semester.ParseSeason(raw)
	if err != nil {
		return 0, "", err
	}
	return year, season, nil
}
