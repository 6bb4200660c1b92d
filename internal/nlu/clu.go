package nlu

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"ReturnsAgent/internal/lib/sl"

	"github.com/Jeffail/gabs/v2"
	"github.com/go-resty/resty/v2"
)

const (
	cluAPIVersion     = "2023-04-01"
	cluConversationEP = "/language/:analyze-conversations"
	cluTextEP         = "/language/:analyze-text"
	cluKeyHeader      = "Ocp-Apim-Subscription-Key"
)

type CLUConfig struct {
	Endpoint       string
	ApiKey         string
	ProjectName    string
	DeploymentName string
	Timeout        time.Duration
}

// CLU talks to Azure conversational language understanding and the text
// analytics sentiment endpoint of the same resource.
type CLU struct {
	client         *resty.Client
	projectName    string
	deploymentName string
	log            *slog.Logger
}

func NewCLU(conf CLUConfig, log *slog.Logger) *CLU {
	if conf.Timeout == 0 {
		conf.Timeout = 15 * time.Second
	}
	client := resty.New().
		SetBaseURL(conf.Endpoint).
		SetTimeout(conf.Timeout).
		SetRetryCount(1).
		SetHeader(cluKeyHeader, conf.ApiKey).
		SetQueryParam("api-version", cluAPIVersion).
		SetLogger(sl.Printf{Log: log.With(sl.Module("nlu.clu.resty"))})

	return &CLU{
		client:         client,
		projectName:    conf.ProjectName,
		deploymentName: conf.DeploymentName,
		log:            log.With(sl.Module("nlu.clu")),
	}
}

func (c *CLU) post(ctx context.Context, path string, body any) (*gabs.Container, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(body).
		Post(path)
	if err != nil {
		return nil, fmt.Errorf("clu request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("clu request: status %d: %s", resp.StatusCode(), resp.String())
	}
	parsed, err := gabs.ParseJSON(resp.Body())
	if err != nil {
		return nil, fmt.Errorf("clu response: %w", err)
	}
	return parsed, nil
}

func (c *CLU) AnalyzeConversation(ctx context.Context, text string) (*Result, error) {
	if tooShort(text) {
		return None(), nil
	}

	body := map[string]any{
		"kind": "Conversation",
		"analysisInput": map[string]any{
			"conversationItem": map[string]any{
				"id":            "1",
				"participantId": "1",
				"text":          text,
			},
		},
		"parameters": map[string]any{
			"projectName":     c.projectName,
			"deploymentName":  c.deploymentName,
			"stringIndexType": "Utf16CodeUnit",
		},
	}
	parsed, err := c.post(ctx, cluConversationEP, body)
	if err != nil {
		return nil, err
	}
	res := parsePrediction(parsed.Path("result.prediction"))
	c.log.Debug("conversation analyzed", slog.String("intent", string(res.Intent)))
	return res, nil
}

// parsePrediction reads a CLU prediction object.
func parsePrediction(prediction *gabs.Container) *Result {
	topIntent, _ := prediction.Path("topIntent").Data().(string)

	var score float64
	for _, intent := range prediction.Path("intents").Children() {
		if category, _ := intent.Path("category").Data().(string); category == topIntent {
			score, _ = intent.Path("confidenceScore").Data().(float64)
			break
		}
	}
	if score < MinConfidence {
		return None()
	}

	res := &Result{Intent: ParseIntent(topIntent)}
	for _, entity := range prediction.Path("entities").Children() {
		category, _ := entity.Path("category").Data().(string)
		text, _ := entity.Path("text").Data().(string)
		switch category {
		case "Store":
			res.Store = firstNonEmpty(res.Store, text)
		case "ProductDescription":
			res.ProductDescription = firstNonEmpty(res.ProductDescription, text)
		case "OrderReference":
			res.OrderReference = firstNonEmpty(res.OrderReference, text)
		case "EmailAddress":
			res.EmailAddress = firstNonEmpty(res.EmailAddress, text)
		case "ReturnOrderNumber":
			res.ReturnOrderNumber = firstNonEmpty(res.ReturnOrderNumber, text)
		case "ReturnReason":
			if res.ReturnReason != "" {
				continue
			}
			if extra := entity.Path("extraInformation").Children(); len(extra) > 0 {
				res.ReturnReason, _ = extra[0].Path("key").Data().(string)
			}
		}
	}
	return res
}

func firstNonEmpty(current, candidate string) string {
	if current != "" {
		return current
	}
	return candidate
}

func (c *CLU) AnalyzeSentiment(ctx context.Context, text string) (*Result, error) {
	body := map[string]any{
		"kind": "SentimentAnalysis",
		"analysisInput": map[string]any{
			"documents": []map[string]any{
				{"id": "1", "text": text},
			},
		},
		"parameters": map[string]any{
			"opinionMining": true,
		},
	}
	parsed, err := c.post(ctx, cluTextEP, body)
	if err != nil {
		return nil, err
	}
	docs := parsed.Path("results.documents").Children()
	if len(docs) == 0 {
		return nil, fmt.Errorf("clu sentiment: empty result")
	}
	positive, _ := docs[0].Path("confidenceScores.positive").Data().(float64)
	negative, _ := docs[0].Path("confidenceScores.negative").Data().(float64)
	return sentiment(positive, negative), nil
}
