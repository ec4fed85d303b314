// internal/app/system/nutrition/nutrition.go
package nutrition

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/dalemusser/menucasa/internal/domain/models"
)

// Dish descriptions are classified zero-shot against high/low labels
// per macro dimension, then each dimension maps to one of two fixed
// buckets. Coarse on purpose: the product needs "roughly how heavy is
// this meal", not a lab analysis.

const defaultModelURL = "https://api-inference.huggingface.co/models/facebook/bart-large-mnli"

var candidateLabels = []string{
	"high calorie", "low calorie",
	"high protein", "low protein",
	"high carbohydrate", "low carbohydrate",
	"high fat", "low fat",
}

// Bucket values per dimension.
const (
	caloriesHigh = 500
	caloriesLow  = 300
	proteinHigh  = 30
	proteinLow   = 15
	carbsHigh    = 60
	carbsLow     = 30
	fatHigh      = 20
	fatLow       = 10
)

var (
	// ErrUnavailable means the classifier is not configured or the
	// upstream call failed. Callers answer 503 rather than inventing
	// numbers.
	ErrUnavailable = errors.New("nutrition: estimator unavailable")
)

// Estimator classifies meal names through a hosted zero-shot model.
type Estimator struct {
	url    string
	token  string
	client *http.Client
	log    *zap.Logger
}

// New builds an estimator. An empty token disables it; Estimate then
// returns ErrUnavailable.
func New(token string, logger *zap.Logger) *Estimator {
	return &Estimator{
		url:    defaultModelURL,
		token:  token,
		client: &http.Client{Timeout: 10 * time.Second},
		log:    logger,
	}
}

// WithURL overrides the model endpoint. Used by tests.
func (e *Estimator) WithURL(url string) *Estimator {
	e.url = url
	return e
}

// Enabled reports whether an API token is configured.
func (e *Estimator) Enabled() bool { return e.token != "" }

type inferenceRequest struct {
	Inputs     string `json:"inputs"`
	Parameters struct {
		CandidateLabels []string `json:"candidate_labels"`
		MultiLabel      bool     `json:"multi_label"`
	} `json:"parameters"`
}

type inferenceResponse struct {
	Labels []string  `json:"labels"`
	Scores []float64 `json:"scores"`
}

// Estimate classifies the given meal name and returns bucketed macros.
func (e *Estimator) Estimate(ctx context.Context, mealName string) (models.NutritionalInfo, error) {
	var zero models.NutritionalInfo

	if !e.Enabled() {
		return zero, ErrUnavailable
	}

	out, err := e.classify(ctx, mealName, candidateLabels, true)
	if err != nil {
		e.log.Warn("nutrition classification failed",
			zap.String("meal", mealName),
			zap.Error(err))
		return zero, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	scores := make(map[string]float64, len(out.Labels))
	for i, label := range out.Labels {
		scores[label] = out.Scores[i]
	}
	return bucketize(scores), nil
}

// Classify runs zero-shot classification of input against the given
// candidate labels and returns them best match first. Callers that
// want graceful degradation watch for ErrUnavailable.
func (e *Estimator) Classify(ctx context.Context, input string, labels []string) ([]string, error) {
	if !e.Enabled() {
		return nil, ErrUnavailable
	}
	out, err := e.classify(ctx, input, labels, false)
	if err != nil {
		e.log.Warn("zero-shot classification failed",
			zap.String("input", input),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return out.Labels, nil
}

func (e *Estimator) classify(ctx context.Context, input string, labels []string, multiLabel bool) (inferenceResponse, error) {
	reqBody := inferenceRequest{Inputs: input}
	reqBody.Parameters.CandidateLabels = labels
	reqBody.Parameters.MultiLabel = multiLabel

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return inferenceResponse{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(payload))
	if err != nil {
		return inferenceResponse{}, err
	}
	req.Header.Set("Authorization", "Bearer "+e.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return inferenceResponse{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return inferenceResponse{}, fmt.Errorf("inference API status %d: %s", resp.StatusCode, body)
	}

	var out inferenceResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return inferenceResponse{}, fmt.Errorf("decode inference response: %w", err)
	}
	if len(out.Labels) != len(out.Scores) {
		return inferenceResponse{}, fmt.Errorf("inference response labels/scores mismatch")
	}
	return out, nil
}

// bucketize picks the high or low bucket per dimension based on which
// label scored better. Missing labels count as zero, so an absent pair
// falls through to the low bucket.
func bucketize(scores map[string]float64) models.NutritionalInfo {
	pick := func(highLabel, lowLabel string, high, low int) int {
		if scores[highLabel] > scores[lowLabel] {
			return high
		}
		return low
	}
	return models.NutritionalInfo{
		Calories: pick("high calorie", "low calorie", caloriesHigh, caloriesLow),
		Protein:  pick("high protein", "low protein", proteinHigh, proteinLow),
		Carbs:    pick("high carbohydrate", "low carbohydrate", carbsHigh, carbsLow),
		Fat:      pick("high fat", "low fat", fatHigh, fatLow),
	}
}
