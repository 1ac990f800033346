package telephony

import (
	"fmt"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// Dial places an outbound call that lands on the voice webhook, so the KYC
// dialogue can be initiated from this side rather than waiting for the user
// to call in.
func Dial(accountSID, authToken, from, to, voiceURL string) (string, error) {
	if accountSID == "" || authToken == "" {
		return "", fmt.Errorf("missing Twilio credentials: TWILIO_ACCOUNT_SID and TWILIO_AUTH_TOKEN required")
	}
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})

	params := &twilioApi.CreateCallParams{}
	params.SetTo(to)
	params.SetFrom(from)
	params.SetUrl(voiceURL)
	params.SetMethod("POST")

	resp, err := client.Api.CreateCall(params)
	if err != nil {
		return "", fmt.Errorf("create call: %w", err)
	}
	if resp.Sid == nil {
		return "", fmt.Errorf("create call: no SID returned")
	}
	return *resp.Sid, nil
}
