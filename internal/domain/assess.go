package domain

import (
	"fmt"
	"strings"
)

// RiskThresholds are the deterministic cutoffs the delay assessor applies.
// The exact values are policy, not physics: they are documented here and kept
// configurable, but identical inputs must always yield identical labels.
type RiskThresholds struct {
	WindHighMS     float64 // at or above: high risk
	WindModerateMS float64 // at or above: moderate risk
	CloudCoverPct  float64 // at or above: moderate risk
	TempColdC      float64 // below: moderate risk
	TempHotC       float64 // above: moderate risk
}

// DefaultRiskThresholds returns the shipped policy: 10 m/s sustained wind is
// treated as a likely scrub, 8 m/s as marginal, 70% cloud cover as marginal,
// and temperatures outside -5..35 Celsius as a readiness concern.
func DefaultRiskThresholds() RiskThresholds {
	return RiskThresholds{
		WindHighMS:     10,
		WindModerateMS: 8,
		CloudCoverPct:  70,
		TempColdC:      -5,
		TempHotC:       35,
	}
}

// wetConditions are provider condition groups that indicate active
// precipitation at the site.
var wetConditions = map[string]bool{
	"Rain":         true,
	"Drizzle":      true,
	"Thunderstorm": true,
	"Snow":         true,
}

// AssessDelay is a pure function combining a date-normalized launch record
// with a current-weather snapshot into a qualitative delay-risk label and a
// short rationale. Rules, in order of severity:
//
//	high:     active precipitation (condition group or measured rain), or
//	          wind at/above the high threshold
//	moderate: wind at/above the moderate threshold, cloud cover at/above the
//	          cutoff, or temperature outside the cold/hot band
//	low:      everything else
//
// CurrentOnly is set whenever the launch instant is in the future, because
// the snapshot is an observation, not a forecast, and the answer must say so.
func AssessDelay(rec LaunchRecord, wx WeatherSnapshot, th RiskThresholds) DelayAssessment {
	risk := RiskLow
	var reasons []string

	if wetConditions[wx.Condition] || wx.PrecipMM > 0 {
		risk = RiskHigh
		reasons = append(reasons, fmt.Sprintf("active precipitation (%s)", strings.ToLower(nonEmpty(wx.Description, wx.Condition))))
	}
	if wx.WindSpeedMS >= th.WindHighMS {
		risk = RiskHigh
		reasons = append(reasons, fmt.Sprintf("wind %.1f m/s at or above the %.0f m/s scrub threshold", wx.WindSpeedMS, th.WindHighMS))
	} else if wx.WindSpeedMS >= th.WindModerateMS {
		risk = maxRisk(risk, RiskModerate)
		reasons = append(reasons, fmt.Sprintf("wind %.1f m/s approaching the scrub threshold", wx.WindSpeedMS))
	}
	if wx.CloudCoverPct >= th.CloudCoverPct {
		risk = maxRisk(risk, RiskModerate)
		reasons = append(reasons, fmt.Sprintf("cloud cover %.0f%%", wx.CloudCoverPct))
	}
	if wx.TemperatureC < th.TempColdC || wx.TemperatureC > th.TempHotC {
		risk = maxRisk(risk, RiskModerate)
		reasons = append(reasons, fmt.Sprintf("temperature %.1f C outside the %.0f..%.0f C band", wx.TemperatureC, th.TempColdC, th.TempHotC))
	}

	rationale := "current conditions are benign for launch"
	if len(reasons) > 0 {
		rationale = strings.Join(reasons, "; ")
	}

	return DelayAssessment{
		Mission:     rec.Mission,
		When:        rec.When,
		Weather:     wx,
		Risk:        risk,
		Rationale:   rationale,
		CurrentOnly: rec.When.Known() && rec.When.Instant.After(clock.Now().UTC()),
	}
}

var riskOrder = map[string]int{RiskLow: 0, RiskModerate: 1, RiskHigh: 2}

func maxRisk(a, b string) string {
	if riskOrder[b] > riskOrder[a] {
		return b
	}
	return a
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
