package rest

import (
	"fmt"
	"net/http"
	"strings"
)

// MessageFunc renders the error message for a non-2xx response.
type MessageFunc func(target string, status int, serverMessage string) string

// StatusMessages maps upstream statuses that deserve a specific message.
// Statuses not listed here get [GenericMessage].
var StatusMessages = map[int]MessageFunc{
	http.StatusNotFound: func(target string, _ int, _ string) string {
		return fmt.Sprintf("endpoint not found: %s", target)
	},
	http.StatusUnauthorized: func(string, int, string) string {
		return "unauthorized, credential should be renewed"
	},
}

// maxServerMessage caps how much of an error body is copied into a message.
const maxServerMessage = 512

// GenericMessage is the message for statuses without an entry in [StatusMessages].
func GenericMessage(_ string, status int, serverMessage string) string {
	return fmt.Sprintf("server encountered an error: status %d, message %q", status, serverMessage)
}

func statusMessage(target string, status int, body []byte) string {
	server := strings.TrimSpace(string(body))
	if len(server) > maxServerMessage {
		server = server[:maxServerMessage] + "..."
	}
	if render, ok := StatusMessages[status]; ok {
		return render(target, status, server)
	}
	return GenericMessage(target, status, server)
}
