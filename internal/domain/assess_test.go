package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func futureLaunch() LaunchRecord {
	return LaunchRecord{
		Mission: "Starlink 6-77",
		When:    NormalizedDateTime{Instant: time.Date(2025, 6, 20, 10, 0, 0, 0, time.UTC), HasTime: true},
	}
}

func calmWeather() WeatherSnapshot {
	return WeatherSnapshot{
		TemperatureC:  24,
		WindSpeedMS:   4,
		CloudCoverPct: 20,
		Condition:     "Clear",
		Description:   "clear sky",
	}
}

func TestAssessDelay_Low(t *testing.T) {
	freezeClock(t, time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC))

	a := AssessDelay(futureLaunch(), calmWeather(), DefaultRiskThresholds())

	assert.Equal(t, RiskLow, a.Risk)
	assert.Equal(t, "current conditions are benign for launch", a.Rationale)
	assert.True(t, a.CurrentOnly, "future launch assessed from current conditions")
}

func TestAssessDelay_Rules(t *testing.T) {
	freezeClock(t, time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC))

	tests := []struct {
		name      string
		mutate    func(*WeatherSnapshot)
		risk      string
		rationale string
	}{
		{
			name:      "rain condition",
			mutate:    func(w *WeatherSnapshot) { w.Condition = "Rain"; w.Description = "light rain" },
			risk:      RiskHigh,
			rationale: "active precipitation",
		},
		{
			name:      "thunderstorm",
			mutate:    func(w *WeatherSnapshot) { w.Condition = "Thunderstorm"; w.Description = "thunderstorm" },
			risk:      RiskHigh,
			rationale: "active precipitation",
		},
		{
			name:      "measured rain with clear code",
			mutate:    func(w *WeatherSnapshot) { w.PrecipMM = 0.4 },
			risk:      RiskHigh,
			rationale: "active precipitation",
		},
		{
			name:      "wind at scrub threshold",
			mutate:    func(w *WeatherSnapshot) { w.WindSpeedMS = 10 },
			risk:      RiskHigh,
			rationale: "scrub threshold",
		},
		{
			name:      "wind approaching threshold",
			mutate:    func(w *WeatherSnapshot) { w.WindSpeedMS = 8.5 },
			risk:      RiskModerate,
			rationale: "approaching the scrub threshold",
		},
		{
			name:      "heavy cloud",
			mutate:    func(w *WeatherSnapshot) { w.CloudCoverPct = 85 },
			risk:      RiskModerate,
			rationale: "cloud cover",
		},
		{
			name:      "freezing",
			mutate:    func(w *WeatherSnapshot) { w.TemperatureC = -8 },
			risk:      RiskModerate,
			rationale: "temperature",
		},
		{
			name:      "extreme heat",
			mutate:    func(w *WeatherSnapshot) { w.TemperatureC = 38 },
			risk:      RiskModerate,
			rationale: "temperature",
		},
		{
			name: "high beats moderate",
			mutate: func(w *WeatherSnapshot) {
				w.WindSpeedMS = 12
				w.CloudCoverPct = 90
			},
			risk:      RiskHigh,
			rationale: "scrub threshold",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wx := calmWeather()
			tt.mutate(&wx)

			a := AssessDelay(futureLaunch(), wx, DefaultRiskThresholds())

			assert.Equal(t, tt.risk, a.Risk)
			assert.Contains(t, a.Rationale, tt.rationale)
		})
	}
}

func TestAssessDelay_Deterministic(t *testing.T) {
	freezeClock(t, time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC))

	wx := calmWeather()
	wx.WindSpeedMS = 9.2
	wx.CloudCoverPct = 75

	first := AssessDelay(futureLaunch(), wx, DefaultRiskThresholds())
	second := AssessDelay(futureLaunch(), wx, DefaultRiskThresholds())

	assert.Equal(t, first, second, "identical inputs must produce identical assessments")
}

func TestAssessDelay_PastLaunchNotCurrentOnly(t *testing.T) {
	freezeClock(t, time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC))

	rec := LaunchRecord{
		Mission: "Starlink 6-70",
		When:    NormalizedDateTime{Instant: time.Date(2024, 11, 3, 0, 0, 0, 0, time.UTC)},
		Source:  SourceHistoricalFallback,
	}

	a := AssessDelay(rec, calmWeather(), DefaultRiskThresholds())

	assert.False(t, a.CurrentOnly)
}

func TestAssessDelay_CustomThresholds(t *testing.T) {
	freezeClock(t, time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC))

	th := DefaultRiskThresholds()
	th.WindHighMS = 15 // site-specific tolerance

	wx := calmWeather()
	wx.WindSpeedMS = 12

	a := AssessDelay(futureLaunch(), wx, th)
	assert.Equal(t, RiskModerate, a.Risk, "12 m/s is below the raised threshold but above moderate")
}
