package mqttx

import "errors"

var (
	// ErrConnection indicates the broker was unreachable, a connect attempt
	// timed out, or automatic reconnection was exhausted.
	ErrConnection = errors.New("mqtt connection failed")

	// ErrPublish indicates a publish failed after a connection was obtained.
	ErrPublish = errors.New("mqtt publish failed")

	// ErrSubscribe indicates a broker-level subscribe call failed.
	ErrSubscribe = errors.New("mqtt subscribe failed")

	// ErrParse indicates a malformed payload on a subscribed topic. It is
	// logged per-message and never propagated to other callbacks.
	ErrParse = errors.New("malformed message payload")
)
