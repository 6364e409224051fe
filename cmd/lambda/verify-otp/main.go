// Verify OTP Lambda entry point
package main

import (
	"github.com/aws/aws-lambda-go/lambda"

	"insurex/internal/handlers"
	"insurex/internal/services/otp"
	"insurex/internal/utils"
)

func main() {
	// Initialize logger
	_ = utils.InitLogger("info")
	defer utils.Sync()

	handler := handlers.NewOTPHandler(otp.NewStore(otp.DefaultTTL), nil)

	// Start Lambda
	lambda.Start(handler.HandleVerify)
}
