package error

import "net/http"

// WebhookError covers webhook verification mismatches. The provider gets a
// 403 and no state changes.
type WebhookError string

func (err WebhookError) Error() string {
	return string(err)
}

func (err WebhookError) ErrCode() string {
	return "WEBHOOK_ERROR"
}

func (err WebhookError) StatusCode() int {
	return http.StatusForbidden
}
