package ds

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

const localTableName = EventStoreTableName("wee-events")

// LocalDynamoStore connects to DynamoDB local on localhost:8000, creating
// the events table when it is missing.
func LocalDynamoStore(ctx context.Context) (*DynamoEventStore, error) {
	return endpointStore(ctx, "http://localhost:8000", localTableName)
}

func endpointStore(ctx context.Context, endpoint string, table EventStoreTableName) (*DynamoEventStore, error) {
	cfg, err := endpointConfig(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	client := Client(cfg)
	if err := ensureTable(ctx, client, table.String()); err != nil {
		return nil, err
	}

	return NewEventStore(client, table), nil
}

func endpointConfig(ctx context.Context, endpoint string) (aws.Config, error) {
	resolver := aws.EndpointResolverWithOptionsFunc(
		func(service, region string, options ...interface{}) (aws.Endpoint, error) {
			if service == dynamodb.ServiceID {
				return aws.Endpoint{PartitionID: "aws", URL: endpoint, SigningRegion: region}, nil
			}
			return aws.Endpoint{}, fmt.Errorf("unknown endpoint requested for %s", service)
		},
	)

	return config.LoadDefaultConfig(ctx,
		config.WithRegion("us-east-1"),
		config.WithEndpointResolverWithOptions(resolver),
		config.WithCredentialsProvider(credentials.StaticCredentialsProvider{
			Value: aws.Credentials{
				AccessKeyID: "dummy", SecretAccessKey: "dummy", SessionToken: "dummy",
				Source: "Hard-coded credentials; values are irrelevant for local DynamoDB",
			},
		}))
}
