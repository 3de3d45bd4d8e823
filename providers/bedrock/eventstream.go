package bedrock

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws/protocol/eventstream"
)

// Event stream frame headers (vnd.amazon.eventstream).
const (
	headerMessageType   = ":message-type"
	headerEventType     = ":event-type"
	headerExceptionType = ":exception-type"
	headerErrorCode     = ":error-code"
	headerErrorMessage  = ":error-message"
)

// eventSource is a lazy, forward-only, non-restartable sequence of decoded
// stream events. Next returns io.EOF at the normal end of the stream; any
// other error is a decode failure for one frame. The source never attempts
// resynchronization after a failure and never closes the underlying
// connection; terminating the stream is the consumer's responsibility.
type eventSource interface {
	Next() (*streamEvent, error)
}

// eventStreamDecoder turns a transport's framed byte stream into an
// eventSource using the vnd.amazon.eventstream frame codec.
type eventStreamDecoder struct {
	reader  io.Reader
	decoder *eventstream.Decoder
	buf     []byte
}

func newEventStreamDecoder(reader io.Reader) *eventStreamDecoder {
	return &eventStreamDecoder{
		reader:  reader,
		decoder: eventstream.NewDecoder(),
		buf:     make([]byte, 0, 64*1024),
	}
}

// Next decodes a single frame into a stream event.
func (d *eventStreamDecoder) Next() (*streamEvent, error) {
	message, err := d.decoder.Decode(d.reader, d.buf)
	if err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("failed to decode event stream frame: %w", err)
	}

	messageType := headerString(message, headerMessageType)
	switch messageType {
	case "event":
		return decodeEventFrame(message)
	case "exception":
		return decodeExceptionFrame(message)
	case "error":
		// Connection-level error frames carry their detail in headers.
		return nil, fmt.Errorf("event stream error frame: %s: %s",
			headerString(message, headerErrorCode),
			headerString(message, headerErrorMessage))
	default:
		return nil, fmt.Errorf("event stream frame has unsupported message type %q", messageType)
	}
}

// decodeEventFrame dispatches on the :event-type header and unmarshals the
// frame payload into the matching field of the event union. An event type
// outside the known set is a decode failure rather than a silently assumed
// default shape.
func decodeEventFrame(message eventstream.Message) (*streamEvent, error) {
	eventType := headerString(message, headerEventType)

	event := &streamEvent{}
	var target any
	switch eventType {
	case "messageStart":
		event.MessageStart = &messageStartEvent{}
		target = event.MessageStart
	case "contentBlockStart":
		event.ContentBlockStart = &contentBlockStartEvent{}
		target = event.ContentBlockStart
	case "contentBlockDelta":
		event.ContentBlockDelta = &contentBlockDeltaEvent{}
		target = event.ContentBlockDelta
	case "contentBlockStop":
		event.ContentBlockStop = &contentBlockStopEvent{}
		target = event.ContentBlockStop
	case "messageStop":
		event.MessageStop = &messageStopEvent{}
		target = event.MessageStop
	case "metadata":
		event.Metadata = &metadataEvent{}
		target = event.Metadata
	default:
		return nil, fmt.Errorf("event stream frame has unknown event type %q", eventType)
	}

	if err := json.Unmarshal(message.Payload, target); err != nil {
		return nil, fmt.Errorf("failed to decode %s event payload: %w", eventType, err)
	}

	return event, nil
}

// decodeExceptionFrame builds an exception event from an exception frame.
// The JSON payload is preserved verbatim; the exception's name is filled
// from the :exception-type header when the payload does not carry one.
// Every *Exception name is handled uniformly.
func decodeExceptionFrame(message eventstream.Message) (*streamEvent, error) {
	name := headerString(message, headerExceptionType)

	payload := make(map[string]any)
	if len(message.Payload) > 0 {
		if err := json.Unmarshal(message.Payload, &payload); err != nil {
			return nil, fmt.Errorf("failed to decode %s exception payload: %w", name, err)
		}
	}
	if _, ok := payload["name"]; !ok && name != "" {
		payload["name"] = name
	}

	return &streamEvent{Exception: &exceptionEvent{
		Name:    name,
		Payload: payload,
	}}, nil
}

func headerString(message eventstream.Message, name string) string {
	header := message.Headers.Get(name)
	if header == nil {
		return ""
	}
	return header.String()
}
