package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orghub-server/internal/models"
)

func testContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	return c, rec
}

func TestRecomputeNextRunSetsFutureInstant(t *testing.T) {
	now := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	h := &ReportHandler{Now: func() time.Time { return now }}

	report := &models.Report{
		Frequency: models.FrequencyDaily,
		TimeOfDay: "09:00",
		Timezone:  "UTC",
	}

	c, rec := testContext()
	ok := h.recomputeNextRun(c, report)
	require.True(t, ok)
	require.NotNil(t, report.NextRun)
	assert.Equal(t, time.Date(2024, 1, 16, 9, 0, 0, 0, time.UTC), *report.NextRun)
	assert.Equal(t, http.StatusOK, rec.Code) // nothing written on success
}

func TestNormalizeCompanionFields(t *testing.T) {
	dow := 2
	dom := 31

	t.Run("switch to weekly drops the stale dayOfMonth", func(t *testing.T) {
		report := &models.Report{
			Frequency:  models.FrequencyWeekly,
			DayOfWeek:  &dow,
			DayOfMonth: &dom, // left over from the previous monthly schedule
		}
		normalizeCompanionFields(report)
		require.NotNil(t, report.DayOfWeek)
		assert.Equal(t, 2, *report.DayOfWeek)
		assert.Nil(t, report.DayOfMonth)
	})

	t.Run("switch to monthly drops the stale dayOfWeek", func(t *testing.T) {
		report := &models.Report{
			Frequency:  models.FrequencyMonthly,
			DayOfWeek:  &dow,
			DayOfMonth: &dom,
		}
		normalizeCompanionFields(report)
		assert.Nil(t, report.DayOfWeek)
		require.NotNil(t, report.DayOfMonth)
		assert.Equal(t, 31, *report.DayOfMonth)
	})

	t.Run("daily carries no day selector at all", func(t *testing.T) {
		report := &models.Report{
			Frequency:  models.FrequencyDaily,
			DayOfWeek:  &dow,
			DayOfMonth: &dom,
		}
		normalizeCompanionFields(report)
		assert.Nil(t, report.DayOfWeek)
		assert.Nil(t, report.DayOfMonth)
	})
}

func TestRecomputeNextRunRejectsInvalidSchedule(t *testing.T) {
	h := &ReportHandler{Now: time.Now}

	report := &models.Report{
		Frequency: models.FrequencyWeekly, // missing DayOfWeek
		TimeOfDay: "09:00",
	}

	c, rec := testContext()
	ok := h.recomputeNextRun(c, report)
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, report.NextRun)
}
