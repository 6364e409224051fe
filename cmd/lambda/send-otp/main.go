// Send OTP Lambda entry point
package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"

	"insurex/internal/handlers"
	"insurex/internal/services/otp"
	"insurex/internal/services/ses"
	"insurex/internal/utils"
)

func main() {
	// Initialize logger
	_ = utils.InitLogger("info")
	defer utils.Sync()

	mailer, err := ses.NewService(context.Background())
	if err != nil {
		panic("Failed to create SES service: " + err.Error())
	}

	handler := handlers.NewOTPHandler(otp.NewStore(otp.DefaultTTL), mailer)

	// Start Lambda
	lambda.Start(handler.HandleSend)
}
