package chat

import (
	"encoding/json"
	"fmt"
)

// UnknownErrorMessage is reported for a nil failure value.
const UnknownErrorMessage = "Unknown error"

// ErrorMessage renders a failure value for clients: nil becomes
// UnknownErrorMessage, strings pass through, errors yield their message and
// anything else is JSON encoded.
func ErrorMessage(v any) string {
	switch e := v.(type) {
	case nil:
		return UnknownErrorMessage
	case string:
		return e
	case error:
		return e.Error()
	default:
		b, err := json.Marshal(e)
		if err != nil {
			return fmt.Sprintf("%v", e)
		}
		return string(b)
	}
}
