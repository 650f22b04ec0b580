package irodshttp

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
	"golang.org/x/xerrors"
)

// Response is the envelope returned by every operation
type Response struct {
	// StatusCode is the HTTP status code
	StatusCode int `json:"status_code"`
	// Data is the decoded JSON body, nil for raw responses and undecodable bodies
	Data map[string]interface{} `json:"data"`
	// Body is the raw response body
	Body []byte `json:"-"`
}

// IRODSResponse is the iRODS-level status carried in a JSON body
type IRODSResponse struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message,omitempty"`
}

func newResponse(statusCode int, body []byte) *Response {
	return &Response{
		StatusCode: statusCode,
		Data:       nil,
		Body:       body,
	}
}

// decodeData decodes the body into Data, Data stays nil for an empty body
func (response *Response) decodeData() error {
	if len(response.Body) == 0 {
		return nil
	}

	data := map[string]interface{}{}
	err := json.Unmarshal(response.Body, &data)
	if err != nil {
		return xerrors.Errorf("failed to decode response body as a JSON object: %w", err)
	}

	response.Data = data
	return nil
}

// IsHTTPSuccess returns true if the HTTP status is 2xx
func (response *Response) IsHTTPSuccess() bool {
	return response.StatusCode >= 200 && response.StatusCode < 300
}

// IRODSResponse returns iRODS-level status, a missing status is treated as success
func (response *Response) IRODSResponse() *IRODSResponse {
	irodsResponse := &IRODSResponse{}
	if response == nil || len(response.Body) == 0 {
		return irodsResponse
	}

	result := gjson.GetBytes(response.Body, "irods_response")
	if !result.Exists() {
		return irodsResponse
	}

	irodsResponse.StatusCode = int(result.Get("status_code").Int())
	irodsResponse.StatusMessage = result.Get("status_message").String()
	return irodsResponse
}

// Get returns a value in the JSON body at the given gjson path (e.g., "entries.0", "irods_response.status_code")
func (response *Response) Get(path string) gjson.Result {
	if response == nil {
		return gjson.Result{}
	}
	return gjson.GetBytes(response.Body, path)
}

// Text returns the body as text
func (response *Response) Text() string {
	return string(response.Body)
}

// ToString stringifies the object
func (response *Response) ToString() string {
	return fmt.Sprintf("<Response %d %d bytes>", response.StatusCode, len(response.Body))
}

// describeFailure summarizes a failed response for error messages
func (response *Response) describeFailure() string {
	irodsResponse := response.IRODSResponse()
	if irodsResponse.StatusCode != 0 {
		if len(irodsResponse.StatusMessage) > 0 {
			return fmt.Sprintf("iRODS status %d (%s)", irodsResponse.StatusCode, irodsResponse.StatusMessage)
		}
		return fmt.Sprintf("iRODS status %d", irodsResponse.StatusCode)
	}

	if len(response.Body) > 0 && len(response.Body) <= 256 {
		return string(response.Body)
	}
	return "no details"
}
