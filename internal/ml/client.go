package ml

import (
	"context"
	"fmt"
	"time"

	"github.com/Divyamsirswal/SoilSense-sub000/internal/config"

	"github.com/go-resty/resty/v2"
)

// PredictionRequest carries the soil parameters the external model
// scores on.
type PredictionRequest struct {
	PH          float64 `json:"ph"`
	Nitrogen    float64 `json:"nitrogen"`
	Phosphorus  float64 `json:"phosphorus"`
	Potassium   float64 `json:"potassium"`
	Moisture    float64 `json:"moisture"`
	Temperature float64 `json:"temperature"`
}

// PredictionAdvice is the optional free-text guidance attached to a
// prediction. Fields the model omits stay nil.
type PredictionAdvice struct {
	Growing       *string `json:"growing,omitempty"`
	Fertilization *string `json:"fertilization,omitempty"`
	Irrigation    *string `json:"irrigation,omitempty"`
}

// PredictionResponse is the model's answer: a single crop with a
// confidence score plus optional advice.
type PredictionResponse struct {
	Crop       string           `json:"crop"`
	Confidence float64          `json:"confidence"`
	Advice     PredictionAdvice `json:"advice"`
}

// Client calls the external crop prediction model. It supplements the
// rule-derived recommendations and is wholly optional: a service
// without ML_API_URL configured runs without it.
type Client struct {
	http *resty.Client
}

func NewClient(cfg config.MLAPIConfig) *Client {
	http := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(time.Duration(cfg.Timeout) * time.Second).
		SetHeader("Content-Type", "application/json")

	return &Client{http: http}
}

// Predict submits one parameter set and returns the model's crop pick.
func (c *Client) Predict(ctx context.Context, req PredictionRequest) (*PredictionResponse, error) {
	var prediction PredictionResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&prediction).
		Post("/predict")
	if err != nil {
		return nil, fmt.Errorf("ml prediction request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("ml prediction request: status %d", resp.StatusCode())
	}

	return &prediction, nil
}
