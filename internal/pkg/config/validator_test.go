package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateCronSchedule(t *testing.T) {
	valid := []string{
		"*/15 * * * *",
		"30 5 * * *",
		"0 */6 * * *",
		"30 9 * * 1-5",
	}
	for _, schedule := range valid {
		assert.NoError(t, ValidateCronSchedule(schedule), schedule)
	}

	invalid := []string{
		"",
		"* * * *",
		"60 * * * *",
		"every 15 minutes",
		"0 0 * * * *",
	}
	for _, schedule := range invalid {
		assert.Error(t, ValidateCronSchedule(schedule), schedule)
	}
}

func TestValidateCronSchedule_ErrorNamesSchedule(t *testing.T) {
	err := ValidateCronSchedule("99 * * * *")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "99 * * * *")
}

func TestValidateTimezone(t *testing.T) {
	valid := []string{"UTC", "Africa/Libreville", "Europe/Paris"}
	for _, tz := range valid {
		assert.NoError(t, ValidateTimezone(tz), tz)
	}

	invalid := []string{"", "Gabon/Libreville", "+01:00", "libreville"}
	for _, tz := range invalid {
		assert.Error(t, ValidateTimezone(tz), tz)
	}
}

func TestValidateDuration(t *testing.T) {
	min := time.Minute
	max := time.Hour

	assert.NoError(t, ValidateDuration(10*time.Minute, min, max))
	assert.NoError(t, ValidateDuration(min, min, max))
	assert.NoError(t, ValidateDuration(max, min, max))

	assert.Error(t, ValidateDuration(30*time.Second, min, max))
	assert.Error(t, ValidateDuration(2*time.Hour, min, max))
	assert.Error(t, ValidateDuration(-time.Minute, min, max))
}

func TestValidateDuration_InvertedRange(t *testing.T) {
	err := ValidateDuration(10*time.Minute, time.Hour, time.Minute)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid range")
}

func TestValidateIntRange(t *testing.T) {
	assert.NoError(t, ValidateIntRange(10, 1, 100))
	assert.NoError(t, ValidateIntRange(1, 1, 100))
	assert.NoError(t, ValidateIntRange(100, 1, 100))

	assert.Error(t, ValidateIntRange(0, 1, 100))
	assert.Error(t, ValidateIntRange(101, 1, 100))
	assert.Error(t, ValidateIntRange(-5, 1, 100))
}

func TestValidateIntRange_InvertedRange(t *testing.T) {
	err := ValidateIntRange(10, 100, 1)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid range")
}
