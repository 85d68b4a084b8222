package main

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsdynamodb"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslambda"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
)

type CounterStackProps struct {
	awscdk.StackProps
	// Directory holding the compiled get-counter binary.
	HandlerAsset string
}

// NewCounterStack provisions the events table and the read-only lambda
// serving counter resources from it.
func NewCounterStack(scope constructs.Construct, id string, props *CounterStackProps) awscdk.Stack {
	var sprops awscdk.StackProps
	if props != nil {
		sprops = props.StackProps
	}
	stack := awscdk.NewStack(scope, &id, &sprops)

	table := awsdynamodb.NewTable(stack, jsii.String("Events"), &awsdynamodb.TableProps{
		PartitionKey: &awsdynamodb.Attribute{Name: jsii.String("pk"), Type: awsdynamodb.AttributeType_STRING},
		SortKey:      &awsdynamodb.Attribute{Name: jsii.String("sk"), Type: awsdynamodb.AttributeType_STRING},
		BillingMode:  awsdynamodb.BillingMode_PAY_PER_REQUEST,
	})

	getCounter := awslambda.NewFunction(stack, jsii.String("GetCounter"), &awslambda.FunctionProps{
		Runtime: awslambda.Runtime_GO_1_X(),
		Handler: jsii.String("get-counter"),
		Code:    awslambda.Code_FromAsset(jsii.String(props.HandlerAsset), nil),
		Environment: &map[string]*string{
			"DYNAMODB_EVENTS_TABLE_NAME": table.TableName(),
		},
		Tracing: awslambda.Tracing_ACTIVE,
	})

	table.GrantReadData(getCounter)

	awscdk.NewCfnOutput(stack, jsii.String("EventsTableName"), &awscdk.CfnOutputProps{Value: table.TableName()})
	awscdk.NewCfnOutput(stack, jsii.String("GetCounterFunction"), &awscdk.CfnOutputProps{Value: getCounter.FunctionName()})

	return stack
}

func main() {
	app := awscdk.NewApp(nil)

	NewCounterStack(app, "WeeCounter", &CounterStackProps{
		StackProps:   awscdk.StackProps{Env: env()},
		HandlerAsset: "../samples/counter/serverless/get-counter/dist",
	})

	app.Synth(nil)
}

// env uses the account and region implied by the current CLI configuration.
func env() *awscdk.Environment {
	return nil
}
