package irodshttp

import (
	"context"
	"crypto/tls"
	"net/http"
	"net/url"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/xerrors"
)

const (
	authenticateEndpoint string = "/authenticate"
	infoEndpoint         string = "/info"
	collectionsEndpoint  string = "/collections"
	dataObjectsEndpoint  string = "/data-objects"
	resourcesEndpoint    string = "/resources"
	rulesEndpoint        string = "/rules"
	ticketsEndpoint      string = "/tickets"
	queryEndpoint        string = "/query"
	usersGroupsEndpoint  string = "/users-groups"
	zonesEndpoint        string = "/zones"
)

var (
	authenticateSpec = &operationSpec{endpoint: authenticateEndpoint, method: http.MethodPost, rawResponse: true}
	infoSpec         = &operationSpec{endpoint: infoEndpoint, method: http.MethodGet}
)

// ClientOptions holds optional client settings
type ClientOptions struct {
	// HTTPClient overrides the http client, Timeout and InsecureSkipVerify are ignored when set
	HTTPClient *http.Client
	// Timeout is a per-request timeout, 0 means no timeout
	Timeout time.Duration
	// RetryMax is the number of attempts for GET requests failing at the network level, POST requests are sent once
	RetryMax   int
	RetryDelay time.Duration
	// InsecureSkipVerify disables TLS certificate verification
	InsecureSkipVerify bool
	Observer           RequestObserver
}

// NewDefaultClientOptions returns default client options
func NewDefaultClientOptions() *ClientOptions {
	return &ClientOptions{
		HTTPClient:         nil,
		Timeout:            0,
		RetryMax:           1,
		RetryDelay:         100 * time.Millisecond,
		InsecureSkipVerify: false,
		Observer:           nil,
	}
}

// Client is an iRODS HTTP API client
type Client struct {
	session *session

	Collections *CollectionsClient
	DataObjects *DataObjectsClient
	Resources   *ResourcesClient
	Rules       *RulesClient
	Tickets     *TicketsClient
	Queries     *QueriesClient
	UsersGroups *UsersGroupsClient
	Zones       *ZonesClient
}

// NewClient creates a new Client for the given URL base (e.g., http://localhost:9001/irods-http-api/0.3.0)
func NewClient(urlBase string, options *ClientOptions) (*Client, error) {
	logger := log.WithFields(log.Fields{
		"package":  "irodshttp",
		"function": "NewClient",
	})

	if options == nil {
		options = NewDefaultClientOptions()
	}

	baseURL, err := url.Parse(urlBase)
	if err != nil {
		parseErr := xerrors.Errorf("failed to parse url base %q: %w", urlBase, err)
		logger.Errorf("%+v", parseErr)
		return nil, parseErr
	}

	scheme := strings.ToLower(baseURL.Scheme)
	if scheme != "http" && scheme != "https" {
		schemeErr := xerrors.Errorf("unsupported scheme %q in url base %q", baseURL.Scheme, urlBase)
		logger.Errorf("%+v", schemeErr)
		return nil, schemeErr
	}

	if len(baseURL.Host) == 0 {
		hostErr := xerrors.Errorf("host is not given in url base %q", urlBase)
		logger.Errorf("%+v", hostErr)
		return nil, hostErr
	}

	baseURL.RawQuery = ""
	baseURL.Fragment = ""

	httpClient := options.HTTPClient
	if httpClient == nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		if options.InsecureSkipVerify {
			transport.TLSClientConfig = &tls.Config{
				InsecureSkipVerify: true,
			}
		}

		httpClient = &http.Client{
			Transport: transport,
			Timeout:   options.Timeout,
		}
	}

	s := newSession(baseURL, httpClient, options.RetryMax, options.RetryDelay, options.Observer)

	return &Client{
		session: s,

		Collections: &CollectionsClient{session: s},
		DataObjects: &DataObjectsClient{session: s},
		Resources:   &ResourcesClient{session: s},
		Rules:       &RulesClient{session: s},
		Tickets:     &TicketsClient{session: s},
		Queries:     &QueriesClient{session: s},
		UsersGroups: &UsersGroupsClient{session: s},
		Zones:       &ZonesClient{session: s},
	}, nil
}

// GetURLBase returns the url base
func (client *Client) GetURLBase() string {
	return client.session.baseURL.String()
}

// SetToken sets the bearer token for all sub-clients
func (client *Client) SetToken(token string) {
	client.session.setToken(token)
}

// GetToken returns the bearer token
func (client *Client) GetToken() string {
	return client.session.getToken()
}

// HasToken returns true if a token is set
func (client *Client) HasToken() bool {
	return len(client.session.getToken()) > 0
}

// Authenticate obtains a bearer token with HTTP Basic authentication.
// The token is stored only when no token is set yet and is always returned.
func (client *Client) Authenticate(ctx context.Context, username string, password string) (string, error) {
	logger := log.WithFields(log.Fields{
		"package":  "irodshttp",
		"struct":   "Client",
		"function": "Authenticate",
		"username": username,
	})

	endpointURL := client.session.getEndpointURL(authenticateSpec.endpoint)
	logger.Debugf("authenticating to %q", endpointURL)

	startTime := time.Now()
	statusCode, body, err := client.session.send(ctx, logger, authenticateSpec.isIdempotent(), func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpointURL, nil)
		if err != nil {
			return nil, err
		}
		req.SetBasicAuth(username, password)
		return req, nil
	})
	if err != nil {
		transportErr := newTransportError(authenticateSpec, 0, err.Error(), err)
		client.session.observe(authenticateSpec, 0, startTime, transportErr)
		logger.Errorf("%+v", transportErr)
		return "", transportErr
	}

	if statusCode < 200 || statusCode >= 300 {
		transportErr := newTransportError(authenticateSpec, statusCode, "failed to authenticate", nil)
		client.session.observe(authenticateSpec, statusCode, startTime, transportErr)
		logger.Errorf("%+v", transportErr)
		return "", transportErr
	}

	token := string(body)
	client.session.setTokenIfEmpty(token)
	client.session.observe(authenticateSpec, statusCode, startTime, nil)

	logger.Debug("authenticated")
	return token, nil
}

// AuthenticateWithOpenID is not supported yet
func (client *Client) AuthenticateWithOpenID(ctx context.Context, openIDToken string) (string, error) {
	return "", newValidationError(authenticateSpec, ErrOpenIDNotSupported, "%s", ErrOpenIDNotSupported.Error())
}

// Info returns server information
func (client *Client) Info(ctx context.Context) (*Response, error) {
	return client.session.execute(ctx, infoSpec, operationArgs{})
}
