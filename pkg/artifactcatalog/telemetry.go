package artifactcatalog

import (
	"sort"
	"strings"
)

// ClassifyDevice matches mobile-indicating tokens against the caller's
// user-agent string. Anything that does not look mobile counts as desktop.
func ClassifyDevice(userAgent string) DeviceType {
	ua := strings.ToLower(userAgent)
	for _, token := range []string{"mobile", "android", "iphone"} {
		if strings.Contains(ua, token) {
			return DeviceMobile
		}
	}
	return DeviceDesktop
}

// ClassifyBrowser returns the first matching browser family, or "Other".
// Order matters: Chrome advertises Safari in its user agent, so Chrome is
// checked first.
func ClassifyBrowser(userAgent string) string {
	ua := strings.ToLower(userAgent)
	switch {
	case strings.Contains(ua, "chrome"):
		return "Chrome"
	case strings.Contains(ua, "firefox"):
		return "Firefox"
	case strings.Contains(ua, "safari"):
		return "Safari"
	default:
		return "Other"
	}
}

// DailyCounts buckets scan events by calendar day (month and day, not time)
// and returns the most recent windowDays buckets in chronological order.
// Days with zero events are absent from the series, not zero-filled.
func DailyCounts(events []*ScanEvent, windowDays int) []DailyCount {
	if len(events) == 0 {
		return nil
	}

	counts := make(map[string]int)
	var order []string
	for i := len(events) - 1; i >= 0; i-- {
		// Events arrive newest first; walk backwards so buckets appear
		// in chronological order.
		day := events[i].ScannedAt.Format("Jan 2")
		if _, seen := counts[day]; !seen {
			order = append(order, day)
		}
		counts[day]++
	}

	if windowDays > 0 && len(order) > windowDays {
		order = order[len(order)-windowDays:]
	}

	result := make([]DailyCount, 0, len(order))
	for _, day := range order {
		result = append(result, DailyCount{Day: day, Count: counts[day]})
	}
	return result
}

// DeviceDistribution groups scan events by device type. A missing device
// type counts as "Unknown". Result order is unspecified.
func DeviceDistribution(events []*ScanEvent) map[DeviceType]int {
	if len(events) == 0 {
		return nil
	}

	counts := make(map[DeviceType]int)
	for _, event := range events {
		device := event.DeviceType
		if device == "" {
			device = DeviceUnknown
		}
		counts[device]++
	}
	return counts
}

// topNameLen caps artifact names in the top-artifacts report for display.
const topNameLen = 20

// TopArtifacts sorts artifacts by view count descending and returns the top
// n. The sort is stable, so ties keep the input order. Names longer than 20
// characters are truncated for presentation.
func TopArtifacts(artifacts []*Artifact, n int) []ArtifactViews {
	sorted := make([]*Artifact, len(artifacts))
	copy(sorted, artifacts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ViewCount > sorted[j].ViewCount
	})

	if n > 0 && len(sorted) > n {
		sorted = sorted[:n]
	}

	result := make([]ArtifactViews, 0, len(sorted))
	for _, a := range sorted {
		name := a.Name
		if len(name) > topNameLen {
			name = name[:topNameLen]
		}
		result = append(result, ArtifactViews{Name: name, Views: a.ViewCount})
	}
	return result
}
