package okx

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"time"
)

// signRequest builds the OK-ACCESS-SIGN value: base64(HMAC-SHA256(secret,
// timestamp + method + requestPath + body)). requestPath must include the
// query string exactly as sent.
func signRequest(secret, timestamp, method, requestPath, body string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp + method + requestPath + body))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// signTimestamp formats t the way the exchange expects it in
// OK-ACCESS-TIMESTAMP: ISO-8601 UTC with millisecond precision.
func signTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}
