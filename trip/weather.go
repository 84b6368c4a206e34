package trip

import "math"

// Pleasant band in °F, inclusive on both ends.
const (
	PleasantMin = 69.0
	PleasantMax = 78.0
	IdealTemp   = 75.0
)

// WeatherAPI condition codes.
const (
	CodeSunny        = 1000
	CodePartlyCloudy = 1003
	CodeCloudy       = 1006
)

func InPleasantRange(avgTemp float64) bool {
	return avgTemp >= PleasantMin && avgTemp <= PleasantMax
}

// IsFairCode reports clear or partly-clear days.
func IsFairCode(code int) bool {
	return code == CodeSunny || code == CodePartlyCloudy
}

func IsCloudyCode(code int) bool {
	return code == CodeCloudy
}

// SunnyForecast is true when a majority of days are fair. Fully cloudy days
// count toward that majority only when at least half the days are already
// clear or partly clear.
func SunnyForecast(days []DayForecast) bool {
	n := len(days)
	if n == 0 {
		return false
	}
	fair, cloudy := 0, 0
	for _, d := range days {
		switch {
		case IsFairCode(d.Code):
			fair++
		case IsCloudyCode(d.Code):
			cloudy++
		}
	}
	if fair*2 > n {
		return true
	}
	return fair*2 >= n && (fair+cloudy)*2 > n
}

// NewWeatherSnapshot derives the averaged snapshot from per-day forecasts.
func NewWeatherSnapshot(days []DayForecast, condition string, humidity int) WeatherSnapshot {
	var sum float64
	for i := range days {
		days[i].IsSunny = IsFairCode(days[i].Code)
		sum += days[i].Avg
	}
	var avg float64
	if len(days) > 0 {
		avg = math.Round(sum / float64(len(days)))
	}
	return WeatherSnapshot{
		AvgTemp:   avg,
		Condition: condition,
		IsSunny:   SunnyForecast(days),
		IsInRange: InPleasantRange(avg),
		Humidity:  humidity,
		Forecast:  days,
	}
}
