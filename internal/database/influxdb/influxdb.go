package influxdb

import (
	"log/slog"

	"github.com/Divyamsirswal/SoilSense-sub000/internal/config"
	"github.com/Divyamsirswal/SoilSense-sub000/internal/models"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
)

const readingMeasurement = "soil_reading"

// Mirror writes a time-series copy of each reading through the influx
// async write API. Writes are buffered and batched client-side; errors
// surface on the client's error channel and are only logged, the
// postgres record stays the source of truth.
type Mirror struct {
	client   influxdb2.Client
	writeAPI api.WriteAPI
}

func NewMirror(cfg config.InfluxConfig) *Mirror {
	client := influxdb2.NewClient(cfg.URL, cfg.Token)
	writeAPI := client.WriteAPI(cfg.Org, cfg.Bucket)

	go func() {
		for err := range writeAPI.Errors() {
			slog.Warn("Influx telemetry write failed", "error", err)
		}
	}()

	return &Mirror{client: client, writeAPI: writeAPI}
}

func (m *Mirror) WriteReading(reading *models.SoilData, deviceExternalID string) {
	point := influxdb2.NewPointWithMeasurement(readingMeasurement).
		AddTag("farm_id", reading.FarmID.String()).
		AddTag("device_id", deviceExternalID).
		AddTag("quality", string(reading.Quality)).
		AddField("ph", reading.PH).
		AddField("nitrogen", reading.Nitrogen).
		AddField("phosphorus", reading.Phosphorus).
		AddField("potassium", reading.Potassium).
		AddField("moisture", reading.Moisture).
		AddField("temperature", reading.Temperature).
		SetTime(reading.Timestamp)

	if reading.OrganicMatter != nil {
		point.AddField("organic_matter", *reading.OrganicMatter)
	}
	if reading.Conductivity != nil {
		point.AddField("conductivity", *reading.Conductivity)
	}
	if reading.Salinity != nil {
		point.AddField("salinity", *reading.Salinity)
	}

	m.writeAPI.WritePoint(point)
}

// Close flushes buffered points before shutting the client down.
func (m *Mirror) Close() {
	m.writeAPI.Flush()
	m.client.Close()
}
