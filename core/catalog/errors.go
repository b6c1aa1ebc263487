package catalog

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	storev1alpha1 "github.com/dtomasi/storectl/api/v1alpha1"
)

// errEmptyBody is returned by the transport when a successful response
// carries no document.
var errEmptyBody = errors.New("catalog returned an empty response")

// StatusError reports a non-2xx answer from the catalog API. It implements
// apierrors.APIStatus so the apierrors predicates (IsNotFound, ...) work on it.
type StatusError struct {
	StatusCode int
	Method     string
	URL        string
	// Body holds the beginning of the response body, if any
	Body string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP error! status: %d", e.StatusCode)
}

// Status implements apierrors.APIStatus.
func (e *StatusError) Status() metav1.Status {
	return metav1.Status{
		Status:  metav1.StatusFailure,
		Code:    int32(e.StatusCode),
		Reason:  reasonForCode(e.StatusCode),
		Message: e.Error(),
	}
}

func reasonForCode(code int) metav1.StatusReason {
	switch code {
	case http.StatusNotFound:
		return metav1.StatusReasonNotFound
	case http.StatusBadRequest:
		return metav1.StatusReasonBadRequest
	case http.StatusUnauthorized:
		return metav1.StatusReasonUnauthorized
	case http.StatusForbidden:
		return metav1.StatusReasonForbidden
	case http.StatusConflict:
		return metav1.StatusReasonConflict
	case http.StatusTooManyRequests:
		return metav1.StatusReasonTooManyRequests
	case http.StatusServiceUnavailable:
		return metav1.StatusReasonServiceUnavailable
	default:
		if code >= http.StatusInternalServerError {
			return metav1.StatusReasonInternalError
		}
		return metav1.StatusReasonUnknown
	}
}

// NewNotFound returns the error used by every backend for a missing product.
func NewNotFound(id int) error {
	return apierrors.NewNotFound(storev1alpha1.ProductGroupResource, strconv.Itoa(id))
}

// IsUpstreamError reports whether err is a non-2xx answer of the catalog API.
func IsUpstreamError(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr)
}
