package irodshttp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	testURLBase  = "/irods-http-api/0.3.0"
	testZone     = "tempZone"
	testUsername = "rods"
	testPassword = "rods"
	testHome     = "/tempZone/home/rods"
)

var ticketStringPattern = regexp.MustCompile(`TICKET_STRING = '([^']*)'`)

type recordedRequest struct {
	Method        string
	Endpoint      string
	ContentType   string
	Authorization string
	Values        url.Values
}

type fakeTicket struct {
	ticketType string
	lpath      string
}

type fakeParallelWrite struct {
	lpath       string
	streamCount int
	content     []byte
}

// fakeIRODSServer implements a subset of the iRODS HTTP API in memory
type fakeIRODSServer struct {
	server *httptest.Server

	mutex          sync.Mutex
	users          map[string]string
	tokens         map[string]string
	collections    map[string]bool
	dataObjects    map[string][]byte
	tickets        map[string]*fakeTicket
	parallelWrites map[string]*fakeParallelWrite
	requests       []recordedRequest
	nextID         int
	shutdownCount  int
	// failWriteStream makes parallel writes to the stream index fail with HTTP 500, -1 disables
	failWriteStream int
}

func newFakeIRODSServer(t *testing.T) *fakeIRODSServer {
	fake := &fakeIRODSServer{
		users: map[string]string{
			testUsername: testPassword,
		},
		tokens: map[string]string{},
		collections: map[string]bool{
			"/":                true,
			"/" + testZone:     true,
			"/tempZone/home":   true,
			testHome:           true,
			"/tempZone/trash":  true,
			"/tempZone/public": true,
		},
		dataObjects:     map[string][]byte{},
		tickets:         map[string]*fakeTicket{},
		parallelWrites:  map[string]*fakeParallelWrite{},
		requests:        []recordedRequest{},
		failWriteStream: -1,
	}

	mux := http.NewServeMux()
	mux.HandleFunc(testURLBase+"/authenticate", fake.handleAuthenticate)
	mux.HandleFunc(testURLBase+"/info", fake.withAuth(fake.handleInfo))
	mux.HandleFunc(testURLBase+"/collections", fake.withAuth(fake.handleCollections))
	mux.HandleFunc(testURLBase+"/data-objects", fake.withAuth(fake.handleDataObjects))
	mux.HandleFunc(testURLBase+"/tickets", fake.withAuth(fake.handleTickets))
	mux.HandleFunc(testURLBase+"/query", fake.withAuth(fake.handleQuery))
	mux.HandleFunc(testURLBase+"/", fake.withAuth(fake.handleGeneric))

	fake.server = httptest.NewServer(mux)
	t.Cleanup(fake.server.Close)
	return fake
}

func (fake *fakeIRODSServer) URLBase() string {
	return fake.server.URL + testURLBase
}

// issueToken returns a valid token without an authenticate request
func (fake *fakeIRODSServer) issueToken(username string) string {
	fake.mutex.Lock()
	defer fake.mutex.Unlock()

	fake.nextID++
	token := fmt.Sprintf("token-%s-%d", username, fake.nextID)
	fake.tokens[token] = username
	return token
}

func (fake *fakeIRODSServer) getRequests() []recordedRequest {
	fake.mutex.Lock()
	defer fake.mutex.Unlock()

	requests := make([]recordedRequest, len(fake.requests))
	copy(requests, fake.requests)
	return requests
}

func (fake *fakeIRODSServer) lastRequest() recordedRequest {
	requests := fake.getRequests()
	if len(requests) == 0 {
		return recordedRequest{}
	}
	return requests[len(requests)-1]
}

func (fake *fakeIRODSServer) getShutdownCount() int {
	fake.mutex.Lock()
	defer fake.mutex.Unlock()

	return fake.shutdownCount
}

func (fake *fakeIRODSServer) setFailWriteStream(streamIndex int) {
	fake.mutex.Lock()
	defer fake.mutex.Unlock()

	fake.failWriteStream = streamIndex
}

func (fake *fakeIRODSServer) countParallelWrites() int {
	fake.mutex.Lock()
	defer fake.mutex.Unlock()

	return len(fake.parallelWrites)
}

func writeJSON(w http.ResponseWriter, status int, data map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func okData(extra map[string]interface{}) map[string]interface{} {
	data := map[string]interface{}{
		"irods_response": map[string]interface{}{
			"status_code": 0,
		},
	}
	for k, v := range extra {
		data[k] = v
	}
	return data
}

func errorData(code int, message string) map[string]interface{} {
	return map[string]interface{}{
		"irods_response": map[string]interface{}{
			"status_code":    code,
			"status_message": message,
		},
	}
}

func (fake *fakeIRODSServer) record(r *http.Request) url.Values {
	var values url.Values
	if r.Method == http.MethodPost {
		r.ParseForm()
		values = r.PostForm
	} else {
		values = r.URL.Query()
	}

	fake.requests = append(fake.requests, recordedRequest{
		Method:        r.Method,
		Endpoint:      strings.TrimPrefix(r.URL.Path, testURLBase),
		ContentType:   r.Header.Get("Content-Type"),
		Authorization: r.Header.Get("Authorization"),
		Values:        values,
	})
	return values
}

func (fake *fakeIRODSServer) withAuth(handler func(w http.ResponseWriter, r *http.Request, values url.Values)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fake.mutex.Lock()
		defer fake.mutex.Unlock()

		values := fake.record(r)

		authorization := r.Header.Get("Authorization")
		token := strings.TrimPrefix(authorization, "Bearer ")
		if !strings.HasPrefix(authorization, "Bearer ") || len(fake.tokens[token]) == 0 {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		handler(w, r, values)
	}
}

func (fake *fakeIRODSServer) handleAuthenticate(w http.ResponseWriter, r *http.Request) {
	fake.mutex.Lock()
	defer fake.mutex.Unlock()

	fake.record(r)

	username, password, ok := r.BasicAuth()
	if r.Method != http.MethodPost || !ok || fake.users[username] != password || len(password) == 0 {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	fake.nextID++
	token := fmt.Sprintf("token-%s-%d", username, fake.nextID)
	fake.tokens[token] = username

	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte(token))
}

func (fake *fakeIRODSServer) handleInfo(w http.ResponseWriter, r *http.Request, values url.Values) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"api_version": "0.3.0",
		"build":       "test",
		"irods_zone":  testZone,
	})
}

func (fake *fakeIRODSServer) handleGeneric(w http.ResponseWriter, r *http.Request, values url.Values) {
	writeJSON(w, http.StatusOK, okData(nil))
}

func (fake *fakeIRODSServer) hasChildren(lpath string) bool {
	prefix := lpath + "/"
	for p := range fake.collections {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	for p := range fake.dataObjects {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	return false
}

func (fake *fakeIRODSServer) handleCollections(w http.ResponseWriter, r *http.Request, values url.Values) {
	lpath := values.Get("lpath")

	switch values.Get("op") {
	case "create":
		if fake.collections[lpath] {
			writeJSON(w, http.StatusOK, okData(map[string]interface{}{"created": false}))
			return
		}

		if !fake.collections[path.Dir(lpath)] {
			if values.Get("create-intermediates") != "1" {
				writeJSON(w, http.StatusOK, errorData(CatNoRowsFound, "parent collection does not exist"))
				return
			}
		}

		for p := lpath; !fake.collections[p]; p = path.Dir(p) {
			fake.collections[p] = true
		}
		writeJSON(w, http.StatusOK, okData(map[string]interface{}{"created": true}))
	case "remove":
		if !fake.collections[lpath] {
			writeJSON(w, http.StatusOK, errorData(CatNoRowsFound, "collection does not exist"))
			return
		}

		if fake.hasChildren(lpath) && values.Get("recurse") != "1" {
			writeJSON(w, http.StatusOK, errorData(CatCollectionNotEmpty, "CAT_COLLECTION_NOT_EMPTY"))
			return
		}

		prefix := lpath + "/"
		for p := range fake.collections {
			if p == lpath || strings.HasPrefix(p, prefix) {
				delete(fake.collections, p)
			}
		}
		for p := range fake.dataObjects {
			if strings.HasPrefix(p, prefix) {
				delete(fake.dataObjects, p)
			}
		}
		writeJSON(w, http.StatusOK, okData(nil))
	case "stat":
		if !fake.collections[lpath] {
			writeJSON(w, http.StatusNotFound, errorData(ObjPathDoesNotExist, "OBJ_PATH_DOES_NOT_EXIST"))
			return
		}

		writeJSON(w, http.StatusOK, okData(map[string]interface{}{
			"type":                "collection",
			"inheritance_enabled": false,
			"permissions":         []interface{}{},
			"registered":          true,
		}))
	case "list":
		if !fake.collections[lpath] {
			writeJSON(w, http.StatusNotFound, errorData(ObjPathDoesNotExist, "OBJ_PATH_DOES_NOT_EXIST"))
			return
		}

		recurse := values.Get("recurse") == "1"
		prefix := lpath + "/"
		entries := []string{}
		isEntry := func(p string) bool {
			if !strings.HasPrefix(p, prefix) {
				return false
			}
			return recurse || !strings.Contains(strings.TrimPrefix(p, prefix), "/")
		}

		for p := range fake.collections {
			if isEntry(p) {
				entries = append(entries, p)
			}
		}
		for p := range fake.dataObjects {
			if isEntry(p) {
				entries = append(entries, p)
			}
		}
		sort.Strings(entries)

		writeJSON(w, http.StatusOK, okData(map[string]interface{}{"entries": entries}))
	default:
		writeJSON(w, http.StatusOK, okData(nil))
	}
}

func writeAt(content []byte, offset int, data []byte) []byte {
	end := offset + len(data)
	if len(content) < end {
		grown := make([]byte, end)
		copy(grown, content)
		content = grown
	}
	copy(content[offset:], data)
	return content
}

func (fake *fakeIRODSServer) handleDataObjects(w http.ResponseWriter, r *http.Request, values url.Values) {
	lpath := values.Get("lpath")

	switch values.Get("op") {
	case "write":
		data := []byte(values.Get("bytes"))
		offset, _ := strconv.Atoi(values.Get("offset"))

		handle := values.Get("parallel-write-handle")
		if len(handle) > 0 {
			parallelWrite, ok := fake.parallelWrites[handle]
			if !ok {
				writeJSON(w, http.StatusBadRequest, errorData(SysInvalidInputParam, "unknown parallel write handle"))
				return
			}

			streamIndex, err := strconv.Atoi(values.Get("stream-index"))
			if err != nil || streamIndex < 0 || streamIndex >= parallelWrite.streamCount {
				writeJSON(w, http.StatusBadRequest, errorData(SysInvalidInputParam, "invalid stream index"))
				return
			}

			if streamIndex == fake.failWriteStream {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}

			parallelWrite.content = writeAt(parallelWrite.content, offset, data)
			writeJSON(w, http.StatusOK, okData(nil))
			return
		}

		if !fake.collections[path.Dir(lpath)] {
			writeJSON(w, http.StatusOK, errorData(CatNoRowsFound, "parent collection does not exist"))
			return
		}

		content := fake.dataObjects[lpath]
		if values.Get("truncate") == "1" {
			content = []byte{}
		}
		if values.Get("append") == "1" {
			offset = len(content)
		}
		fake.dataObjects[lpath] = writeAt(content, offset, data)
		writeJSON(w, http.StatusOK, okData(nil))
	case "read":
		content, ok := fake.dataObjects[lpath]
		if !ok {
			writeJSON(w, http.StatusNotFound, errorData(ObjPathDoesNotExist, "OBJ_PATH_DOES_NOT_EXIST"))
			return
		}

		offset, _ := strconv.Atoi(values.Get("offset"))
		if offset > len(content) {
			offset = len(content)
		}

		end := len(content)
		if countString := values.Get("count"); len(countString) > 0 {
			count, _ := strconv.Atoi(countString)
			if offset+count < end {
				end = offset + count
			}
		}

		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write(content[offset:end])
	case "stat":
		content, ok := fake.dataObjects[lpath]
		if !ok {
			writeJSON(w, http.StatusNotFound, errorData(ObjPathDoesNotExist, "OBJ_PATH_DOES_NOT_EXIST"))
			return
		}

		writeJSON(w, http.StatusOK, okData(map[string]interface{}{
			"type": "data_object",
			"size": len(content),
		}))
	case "touch":
		if _, ok := fake.dataObjects[lpath]; !ok && values.Get("no-create") != "1" {
			fake.dataObjects[lpath] = []byte{}
		}
		writeJSON(w, http.StatusOK, okData(nil))
	case "remove":
		if _, ok := fake.dataObjects[lpath]; !ok {
			writeJSON(w, http.StatusOK, errorData(CatNoRowsFound, "data object does not exist"))
			return
		}

		delete(fake.dataObjects, lpath)
		writeJSON(w, http.StatusOK, okData(nil))
	case "parallel_write_init":
		streamCount, err := strconv.Atoi(values.Get("stream-count"))
		if err != nil || streamCount < 1 {
			writeJSON(w, http.StatusBadRequest, errorData(SysInvalidInputParam, "invalid stream count"))
			return
		}

		content := []byte{}
		if values.Get("truncate") != "1" {
			content = append(content, fake.dataObjects[lpath]...)
		}

		fake.nextID++
		handle := fmt.Sprintf("pw-%d", fake.nextID)
		fake.parallelWrites[handle] = &fakeParallelWrite{
			lpath:       lpath,
			streamCount: streamCount,
			content:     content,
		}
		writeJSON(w, http.StatusOK, okData(map[string]interface{}{"parallel_write_handle": handle}))
	case "parallel_write_shutdown":
		handle := values.Get("parallel-write-handle")
		parallelWrite, ok := fake.parallelWrites[handle]
		if !ok {
			writeJSON(w, http.StatusBadRequest, errorData(SysInvalidInputParam, "unknown parallel write handle"))
			return
		}

		fake.shutdownCount++
		fake.dataObjects[parallelWrite.lpath] = parallelWrite.content
		delete(fake.parallelWrites, handle)
		writeJSON(w, http.StatusOK, okData(nil))
	default:
		writeJSON(w, http.StatusOK, okData(nil))
	}
}

func (fake *fakeIRODSServer) handleTickets(w http.ResponseWriter, r *http.Request, values url.Values) {
	switch values.Get("op") {
	case "create":
		fake.nextID++
		ticket := fmt.Sprintf("ticket%04d", fake.nextID)
		fake.tickets[ticket] = &fakeTicket{
			ticketType: values.Get("type"),
			lpath:      values.Get("lpath"),
		}
		writeJSON(w, http.StatusOK, okData(map[string]interface{}{"ticket": ticket}))
	case "remove":
		name := values.Get("name")
		if _, ok := fake.tickets[name]; !ok {
			writeJSON(w, http.StatusOK, errorData(CatNoRowsFound, "ticket does not exist"))
			return
		}

		delete(fake.tickets, name)
		writeJSON(w, http.StatusOK, okData(nil))
	default:
		writeJSON(w, http.StatusOK, okData(nil))
	}
}

func (fake *fakeIRODSServer) handleQuery(w http.ResponseWriter, r *http.Request, values url.Values) {
	rows := [][]string{}

	if values.Get("op") == "execute_genquery" {
		matches := ticketStringPattern.FindStringSubmatch(values.Get("query"))
		if len(matches) == 2 {
			if ticket, ok := fake.tickets[matches[1]]; ok {
				rows = append(rows, []string{matches[1], ticket.ticketType, ticket.lpath})
			}
		}
	}

	writeJSON(w, http.StatusOK, okData(map[string]interface{}{"rows": rows}))
}

// newTestClient returns a client holding a valid token
func newTestClient(t *testing.T, fake *fakeIRODSServer) *Client {
	client, err := NewClient(fake.URLBase(), nil)
	require.NoError(t, err)

	client.SetToken(fake.issueToken(testUsername))
	return client
}

func testContext() context.Context {
	return context.Background()
}
