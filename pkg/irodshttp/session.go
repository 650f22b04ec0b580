package irodshttp

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/rs/xid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/xerrors"
)

// RequestObserver receives the outcome of every HTTP exchange
type RequestObserver interface {
	// ObserveRequest is called once per operation, httpStatusCode is 0 when no response was received
	ObserveRequest(endpoint string, operation string, httpStatusCode int, duration time.Duration, err error)
}

// session is shared by the client and all its sub-clients
type session struct {
	baseURL    *url.URL
	httpClient *http.Client
	retryMax   int
	retryDelay time.Duration
	observer   RequestObserver

	tokenMutex sync.RWMutex
	token      string
}

func newSession(baseURL *url.URL, httpClient *http.Client, retryMax int, retryDelay time.Duration, observer RequestObserver) *session {
	if retryMax < 1 {
		retryMax = 1
	}

	return &session{
		baseURL:    baseURL,
		httpClient: httpClient,
		retryMax:   retryMax,
		retryDelay: retryDelay,
		observer:   observer,
	}
}

func (s *session) getToken() string {
	s.tokenMutex.RLock()
	defer s.tokenMutex.RUnlock()

	return s.token
}

func (s *session) setToken(token string) {
	s.tokenMutex.Lock()
	defer s.tokenMutex.Unlock()

	s.token = token
}

// setTokenIfEmpty sets the token only if none is set yet
func (s *session) setTokenIfEmpty(token string) {
	s.tokenMutex.Lock()
	defer s.tokenMutex.Unlock()

	if len(s.token) == 0 {
		s.token = token
	}
}

func (s *session) getEndpointURL(endpoint string) string {
	u := *s.baseURL
	u.Path = path.Join(u.Path, endpoint)
	return u.String()
}

func (s *session) observe(spec *operationSpec, httpStatusCode int, startTime time.Time, err error) {
	if s.observer != nil {
		s.observer.ObserveRequest(spec.endpoint, spec.op, httpStatusCode, time.Since(startTime), err)
	}
}

// send performs an HTTP exchange.
// Only idempotent requests are retried, and only when no response was received.
func (s *session) send(ctx context.Context, logger *log.Entry, idempotent bool, makeRequest func() (*http.Request, error)) (int, []byte, error) {
	statusCode := 0
	var responseBody []byte

	attempts := s.retryMax
	if !idempotent {
		attempts = 1
	}

	attempt := 0
	err := retry.Do(func() error {
		attempt++

		req, err := makeRequest()
		if err != nil {
			return retry.Unrecoverable(xerrors.Errorf("failed to create a request: %w", err))
		}

		resp, err := s.httpClient.Do(req)
		if err != nil {
			logger.Debugf("attempt %d/%d failed: %v", attempt, attempts, err)
			return xerrors.Errorf("failed to send a request: %w", err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			// the server has processed the request already
			logger.Debugf("attempt %d/%d failed to read response: %v", attempt, attempts, err)
			return retry.Unrecoverable(xerrors.Errorf("failed to read response body: %w", err))
		}

		statusCode = resp.StatusCode
		responseBody = body
		return nil
	},
		retry.Context(ctx),
		retry.Attempts(uint(attempts)),
		retry.Delay(s.retryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return 0, nil, err
	}

	return statusCode, responseBody, nil
}

// newRequest builds a GET request with a query string or a form-encoded POST request
func (s *session) newRequest(ctx context.Context, method string, endpointURL string, values url.Values, token string) (*http.Request, error) {
	var req *http.Request
	var err error

	switch method {
	case http.MethodGet:
		u, parseErr := url.Parse(endpointURL)
		if parseErr != nil {
			return nil, xerrors.Errorf("failed to parse url %q: %w", endpointURL, parseErr)
		}
		u.RawQuery = values.Encode()

		req, err = http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return nil, err
		}
	case http.MethodPost:
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, endpointURL, strings.NewReader(values.Encode()))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	default:
		return nil, xerrors.Errorf("unsupported method %q", method)
	}

	if len(token) > 0 {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// execute runs an operation: token check, validation, encoding, exchange and classification
func (s *session) execute(ctx context.Context, spec *operationSpec, args operationArgs) (*Response, error) {
	logger := log.WithFields(log.Fields{
		"package":    "irodshttp",
		"struct":     "session",
		"function":   "execute",
		"endpoint":   spec.endpoint,
		"op":         spec.op,
		"request_id": xid.New().String(),
	})

	token := s.getToken()
	if len(token) == 0 {
		return nil, newValidationError(spec, ErrNoToken, "%s", ErrNoToken.Error())
	}

	values, err := spec.encode(args)
	if err != nil {
		logger.Debugf("%+v", err)
		return nil, err
	}

	endpointURL := s.getEndpointURL(spec.endpoint)
	logger.Debugf("sending %s request to %q", spec.method, endpointURL)

	startTime := time.Now()
	statusCode, body, err := s.send(ctx, logger, spec.isIdempotent(), func() (*http.Request, error) {
		return s.newRequest(ctx, spec.method, endpointURL, values, token)
	})
	if err != nil {
		transportErr := newTransportError(spec, 0, err.Error(), err)
		s.observe(spec, 0, startTime, transportErr)
		logger.Errorf("%+v", transportErr)
		return nil, transportErr
	}

	response := newResponse(statusCode, body)

	if !response.IsHTTPSuccess() {
		// best effort, Data stays nil if the body is empty or not JSON
		_ = response.decodeData()

		transportErr := newTransportError(spec, statusCode, response.describeFailure(), nil)
		s.observe(spec, statusCode, startTime, transportErr)
		logger.Errorf("%+v", transportErr)
		return response, transportErr
	}

	if spec.rawResponse {
		s.observe(spec, statusCode, startTime, nil)
		logger.Debugf("received %s", response.ToString())
		return response, nil
	}

	err = response.decodeData()
	if err != nil {
		transportErr := newTransportError(spec, statusCode, "failed to parse response body", err)
		s.observe(spec, statusCode, startTime, transportErr)
		logger.Errorf("%+v", transportErr)
		return response, transportErr
	}

	irodsResponse := response.IRODSResponse()
	if irodsResponse.StatusCode != 0 {
		applicationErr := newApplicationError(spec, irodsResponse.StatusCode, irodsResponse.StatusMessage)
		s.observe(spec, statusCode, startTime, applicationErr)
		logger.Errorf("%+v", applicationErr)
		return response, applicationErr
	}

	s.observe(spec, statusCode, startTime, nil)
	logger.Debugf("request succeeded with HTTP status %d", statusCode)
	return response, nil
}
