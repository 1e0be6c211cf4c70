package llm

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ErrNotConfigured is returned when no credentials are available for the provider.
var ErrNotConfigured = errors.New("llm provider not configured")

type Image struct {
	Data     []byte
	MIMEType string
}

// DataURI encodes the image as a base64 data URI.
func (i Image) DataURI() string {
	return fmt.Sprintf("data:%s;base64,%s", i.MIMEType, base64.StdEncoding.EncodeToString(i.Data))
}

// MIMETypeForExt maps an image extension to the type sent to vision models.
func MIMETypeForExt(ext string) string {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	switch ext {
	case "jpg", "jpeg", "":
		return "image/jpeg"
	default:
		return "image/" + ext
	}
}

type Part struct {
	Text  string
	Image *Image
}

type Message struct {
	Role  Role
	Parts []Part
}

func TextMessage(role Role, text string) Message {
	return Message{Role: role, Parts: []Part{{Text: text}}}
}

type Request struct {
	Model       string
	Messages    []Message
	MaxTokens   int
	Temperature float64
}

// Provider is a text or vision capable model. Complete returns the textual
// payload of the first candidate.
type Provider interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// StatusError carries the HTTP status returned by a remote model API.
type StatusError struct {
	StatusCode int
	Err        error
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("llm call failed with status %d: %v", e.StatusCode, e.Err)
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether a failed call is worth repeating.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNotConfigured) || errors.Is(err, context.Canceled) {
		return false
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		switch statusErr.StatusCode {
		case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden,
			http.StatusNotFound, http.StatusUnprocessableEntity:
			return false
		}
		return true
	}

	if s, ok := status.FromError(err); ok {
		switch s.Code() {
		case codes.Unauthenticated, codes.PermissionDenied, codes.InvalidArgument, codes.NotFound:
			return false
		}
	}
	return true
}

type unavailable struct {
	reason string
}

// Unavailable is a Provider that fails every call with ErrNotConfigured.
func Unavailable(reason string) Provider {
	return &unavailable{reason: reason}
}

func (u *unavailable) Complete(ctx context.Context, req Request) (string, error) {
	return "", fmt.Errorf("%w: %s", ErrNotConfigured, u.reason)
}
