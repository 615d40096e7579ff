package features

// ClimateFeatures are the climate-derived entries of a district feature
// vector. Humidity, rainfall, and heat index are synthesized from the
// temperature series and heat-alert ratio because the climate feed does not
// carry them directly.
type ClimateFeatures struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	Rainfall    float64 `json:"rainfall"`
	HeatIndex   float64 `json:"heatIndex"`
	AQI         float64 `json:"aqi"`
}

// MapClimateFeatures derives climate features from raw temperature and AQI
// series plus the fraction of rows carrying a heat alert.
func MapClimateFeatures(temps, aqiValues []float64, heatFlagRatio float64) ClimateFeatures {
	temperature := Mean(temps)
	aqi := Mean(aqiValues)

	humidity := BoundedIn(42+heatFlagRatio*30+maxf(0, 36-temperature)*1.8, 20, 95)
	rainfall := BoundedIn(30+humidity*0.6-maxf(0, temperature-34)*2.2, 0, 240)
	heatIndex := BoundedIn(temperature+humidity*0.08, 20, 62)

	return ClimateFeatures{
		Temperature: BoundedIn(temperature, 0, 60),
		Humidity:    humidity,
		Rainfall:    rainfall,
		HeatIndex:   heatIndex,
		AQI:         BoundedIn(aqi, 0, 500),
	}
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
