// Projection Compute Lambda entry point
package main

import (
	"github.com/aws/aws-lambda-go/lambda"

	"investment-projection-engine/internal/handlers"
	"investment-projection-engine/internal/utils"
)

func main() {
	// Initialize logger
	_ = utils.InitLogger("info")
	defer utils.Sync()

	// Create handler
	handler, err := handlers.NewProjectionHandler()
	if err != nil {
		panic("Failed to create handler: " + err.Error())
	}

	// Start Lambda
	lambda.Start(handler.Handle)
}
