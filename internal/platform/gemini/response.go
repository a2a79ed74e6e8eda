package gemini

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/phrazzld/inception-api/internal/generation"
	"github.com/phrazzld/inception-api/internal/redact"
	"google.golang.org/genai"
)

// extractText returns the text of the first candidate.
func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", generation.ErrEmptyResponse
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", generation.ErrContentBlocked
	}
	if candidate.Content == nil {
		return "", generation.ErrEmptyResponse
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}
	if strings.TrimSpace(sb.String()) == "" {
		return "", generation.ErrEmptyResponse
	}
	return sb.String(), nil
}

// classifyError turns a client error into a ServiceError with user-facing details.
func classifyError(err error) *generation.ServiceError {
	svcErr := &generation.ServiceError{Err: err}

	var apiErr genai.APIError
	var apiErrPtr *genai.APIError
	switch {
	case errors.As(err, &apiErr):
	case errors.As(err, &apiErrPtr) && apiErrPtr != nil:
		apiErr = *apiErrPtr
	case errors.Is(err, context.DeadlineExceeded):
		svcErr.Details = "review service timed out"
		return svcErr
	case errors.Is(err, context.Canceled):
		svcErr.Details = "review request was cancelled"
		return svcErr
	default:
		svcErr.Details = "review service request failed"
		return svcErr
	}

	svcErr.Code = apiErr.Code
	svcErr.Status = apiErr.Status
	switch {
	case apiErr.Code == http.StatusTooManyRequests:
		svcErr.Details = "review service quota exceeded, try again later"
	case apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden:
		svcErr.Details = "review service rejected the configured credentials"
	case apiErr.Code == http.StatusBadRequest:
		svcErr.Details = "review service rejected the request: " + redact.String(apiErr.Message)
	case apiErr.Code >= http.StatusInternalServerError:
		svcErr.Details = "review service is unavailable"
	default:
		svcErr.Details = "review service request failed"
	}
	return svcErr
}

func detailsFor(err error) string {
	switch {
	case errors.Is(err, generation.ErrContentBlocked):
		return "review was blocked by the provider's safety filters"
	case errors.Is(err, generation.ErrEmptyResponse):
		return "review service returned an empty response"
	default:
		return "review service request failed"
	}
}
