package database

import (
	"context"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// serviceEndpointEnv maps an SDK service id to the env var that overrides
// its endpoint (LocalStack, dynamodb-local).
var serviceEndpointEnv = map[string]string{
	dynamodb.ServiceID:       "DYNAMODB_ENDPOINT",
	sns.ServiceID:            "SNS_ENDPOINT",
	secretsmanager.ServiceID: "SECRETSMANAGER_ENDPOINT",
}

// ConnectDynamoDB creates a DynamoDB client from the shared AWS config.
func ConnectDynamoDB(cfg aws.Config) *dynamodb.Client {
	return dynamodb.NewFromConfig(cfg)
}

// NewAWSConfigFromEnv builds the AWS config shared by every client.
//
// Supported env vars (local-friendly):
//   - AWS_REGION (default: us-east-1)
//   - AWS_ACCESS_KEY_ID / AWS_SECRET_ACCESS_KEY (static credentials, only when both are set
//     or an endpoint override is active; otherwise the default chain is used)
//   - AWS_ENDPOINT_URL (optional; applies to every service)
//   - DYNAMODB_ENDPOINT, SNS_ENDPOINT, SECRETSMANAGER_ENDPOINT (optional; per service)
func NewAWSConfigFromEnv(ctx context.Context) (aws.Config, error) {
	region := getenvDefault("AWS_REGION", "us-east-1")
	endpoints := endpointOverrides()

	loadOpts := []func(*config.LoadOptions) error{
		config.WithRegion(region),
	}

	accessKey, secretKey := os.Getenv("AWS_ACCESS_KEY_ID"), os.Getenv("AWS_SECRET_ACCESS_KEY")
	if (accessKey != "" && secretKey != "") || len(endpoints) > 0 {
		// Local emulators do not validate credentials, but the AWS SDK requires them.
		creds := credentials.NewStaticCredentialsProvider(
			getenvDefault("AWS_ACCESS_KEY_ID", "local"),
			getenvDefault("AWS_SECRET_ACCESS_KEY", "local"),
			"",
		)
		loadOpts = append(loadOpts, config.WithCredentialsProvider(creds))
	}

	if len(endpoints) > 0 {
		resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, _ ...interface{}) (aws.Endpoint, error) {
			if url, ok := endpoints[service]; ok {
				return aws.Endpoint{URL: url, SigningRegion: region, HostnameImmutable: true}, nil
			}
			return aws.Endpoint{}, &aws.EndpointNotFoundError{}
		})
		loadOpts = append(loadOpts, config.WithEndpointResolverWithOptions(resolver))
	}

	return config.LoadDefaultConfig(ctx, loadOpts...)
}

func endpointOverrides() map[string]string {
	out := map[string]string{}
	global := os.Getenv("AWS_ENDPOINT_URL")
	for service, key := range serviceEndpointEnv {
		if v := getenvDefault(key, global); v != "" {
			out[service] = v
		}
	}
	return out
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
