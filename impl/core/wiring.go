package core

import (
	"context"
	"fmt"
	"log/slog"

	"ReturnsAgent/bot/dialog"
	"ReturnsAgent/bot/flows"
	"ReturnsAgent/bot/flows/createreturn"
	"ReturnsAgent/bot/flows/feedback"
	"ReturnsAgent/bot/flows/login"
	"ReturnsAgent/bot/flows/mainflow"
	"ReturnsAgent/bot/flows/trackreturn"
	"ReturnsAgent/internal/brand"
	"ReturnsAgent/internal/config"
	repository "ReturnsAgent/internal/database"
	"ReturnsAgent/internal/nlu"
	"ReturnsAgent/internal/service/oms"
	"ReturnsAgent/internal/state"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/redis/go-redis/v9"
)

const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendMongo    = "mongo"
	BackendDynamoDB = "dynamodb"

	ProviderCLU     = "clu"
	ProviderOpenAI  = "openai"
	SentimentGoogle = "google"
)

// NewStateBackend opens the configured turn state backend. A Mongo backend
// reuses mongo when it is given.
func NewStateBackend(ctx context.Context, conf *config.Config, mongo *repository.MongoDB, log *slog.Logger) (state.Backend, error) {
	sc := conf.State
	switch sc.Backend {
	case "", BackendMemory:
		return state.NewMemory(), nil

	case BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     sc.Redis.Addr,
			Password: sc.Redis.Password,
			DB:       sc.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("redis ping %s: %w", sc.Redis.Addr, err)
		}
		return state.NewRedis(client, sc.Redis.Prefix, sc.TTL, nil), nil

	case BackendMongo:
		if mongo != nil {
			return mongo, nil
		}
		return repository.NewMongoClient(conf, log)

	case BackendDynamoDB:
		awsConf, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(sc.DynamoDB.Region))
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		client := dynamodb.NewFromConfig(awsConf, func(o *dynamodb.Options) {
			if sc.DynamoDB.Endpoint != "" {
				o.BaseEndpoint = aws.String(sc.DynamoDB.Endpoint)
			}
		})
		return state.NewDynamoDB(client, sc.DynamoDB.Table, sc.TTL)
	}
	return nil, fmt.Errorf("unknown state backend %q", sc.Backend)
}

// NewClassifier builds the intent classifier. With nlu.sentiment set to
// "google" sentiment is scored by the Natural Language API instead.
func NewClassifier(ctx context.Context, conf *config.Config, log *slog.Logger) (nlu.Classifier, error) {
	nc := conf.NLU
	var classifier nlu.Classifier
	switch nc.Provider {
	case "", ProviderCLU:
		classifier = nlu.NewCLU(nlu.CLUConfig{
			Endpoint:       nc.CLU.Endpoint,
			ApiKey:         nc.CLU.ApiKey,
			ProjectName:    nc.CLU.ProjectName,
			DeploymentName: nc.CLU.DeploymentName,
		}, log)
	case ProviderOpenAI:
		classifier = nlu.NewOpenAI(nc.OpenAI.ApiKey, nc.OpenAI.Model, log)
	default:
		return nil, fmt.Errorf("unknown nlu provider %q", nc.Provider)
	}

	switch nc.Sentiment {
	case "":
		return classifier, nil
	case SentimentGoogle:
		google, err := nlu.NewGoogleSentiment(ctx, nc.Google.ApiKey, nc.Google.Endpoint)
		if err != nil {
			return nil, err
		}
		return &nlu.Composite{Conversation: classifier, Sentiment: google}, nil
	}
	return nil, fmt.Errorf("unknown sentiment provider %q", nc.Sentiment)
}

// NewTenantMatcher loads the retailer table from brand.table_path when set.
func NewTenantMatcher(conf *config.Config) (*brand.Matcher, error) {
	var table map[string]string
	if conf.Brand.TablePath != "" {
		var err error
		if table, err = brand.LoadTable(conf.Brand.TablePath); err != nil {
			return nil, err
		}
	}
	return brand.NewMatcher(table, conf.Brand.Cutoff, conf.Brand.DefaultTenant), nil
}

func NewGateway(conf *config.Config, metrics oms.Observer, log *slog.Logger) *oms.Service {
	return oms.NewService(oms.Config{
		BaseURL:  conf.OMS.BaseURL,
		Timeout:  conf.OMS.Timeout,
		Retries:  conf.OMS.Retries,
		TokenTTL: conf.Session.TokenTTL,
	}, metrics, log)
}

// NewDialogEngine registers every returns flow with Main as the root.
func NewDialogEngine(conf *config.Config, classifier nlu.Classifier, gateway oms.Gateway, tenants *brand.Matcher, observer dialog.Observer, log *slog.Logger) (*dialog.Engine, error) {
	eligibility, err := createreturn.NewEligibility(conf.Returns.EligibilityRule)
	if err != nil {
		return nil, err
	}

	engine := dialog.NewEngine(flows.Main, log)
	if observer != nil {
		engine.SetObserver(observer)
	}
	engine.RegisterFlow(mainflow.New(classifier, log))
	engine.RegisterFlow(login.New(gateway, tenants, log))
	engine.RegisterFlow(createreturn.New(gateway, eligibility, log))
	engine.RegisterFlow(trackreturn.New(gateway, tenants, log))
	engine.RegisterFlow(feedback.New(classifier, log))
	return engine, nil
}
