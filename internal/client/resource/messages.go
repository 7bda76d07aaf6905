package resource

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/pharmaintel/internal/client/transport"
)

const MessageNotAuthorized = "You are not authorized to perform this operation."

// SecondaryMessage is the call-site message shown next to the global one,
// e.g. SecondaryMessage(err, "delete", "competitor").
func SecondaryMessage(err error, action, noun string) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, transport.ErrAuthorization) {
		return MessageNotAuthorized
	}

	detail := err.Error()
	if f, ok := transport.AsFault(err); ok {
		detail = f.Detail
	}
	return fmt.Sprintf("Failed to %s %s: %s", action, noun, detail)
}
