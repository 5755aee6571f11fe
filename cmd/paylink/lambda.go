package main

import (
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/spf13/cobra"
)

func newLambdaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lambda",
		Short: "Run the webhook endpoint as an AWS Lambda behind API Gateway",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := build()
			lambda.Start(c.handler.HandleAPIGateway)
			return nil
		},
	}
}
