package utils

import (
	"fmt"
	"log"

	"talim/config"

	"github.com/go-resty/resty/v2"
)

// SendSMS pushes a text message through the bulk SMS gateway. Used for the
// optional sms notification channel; failures are the caller's to log.
func SendSMS(mobile, message string) error {
	client := resty.New()

	resp, err := client.R().
		SetQueryParams(map[string]string{
			"api_key":  config.AppConfig.SMSApiKey,
			"senderid": config.AppConfig.SMSSenderID,
			"number":   mobile,
			"message":  message,
			"type":     "text",
		}).
		Get("https://bulksmsbd.net/api/smsapi")
	if err != nil {
		log.Printf("Error while sending SMS to %s: %v", mobile, err)
		return err
	}

	if resp.StatusCode() != 200 {
		log.Printf("Failed to send SMS, response code: %d", resp.StatusCode())
		return fmt.Errorf("failed to send SMS, code: %d", resp.StatusCode())
	}

	return nil
}
