package irodshttp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidation(t *testing.T) {
	t.Run("test InvalidFlag", testInvalidFlag)
	t.Run("test InvalidType", testInvalidType)
	t.Run("test InvalidCount", testInvalidCount)
	t.Run("test EmptyOperations", testEmptyOperations)
	t.Run("test UnknownParameter", testUnknownParameter)
	t.Run("test MissingParameter", testMissingParameter)
	t.Run("test InvalidEnums", testInvalidEnums)
	t.Run("test ModifyReplica", testModifyReplicaValidation)
	t.Run("test GenQueryParser", testGenQueryParserValidation)
	t.Run("test NumericRanges", testNumericRanges)
	t.Run("test WriteTarget", testWriteTarget)
}

// assertValidationError checks that err is a validation error of the operation and nothing was sent
func assertValidationError(t *testing.T, fake *fakeIRODSServer, response *Response, err error, cause error) {
	require.Error(t, err)
	assert.Nil(t, response)
	assert.True(t, IsValidationError(err), "%v", err)
	assert.False(t, IsTransportError(err))
	assert.False(t, IsApplicationError(err))
	if cause != nil {
		assert.ErrorIs(t, err, cause)
	}
	assert.Empty(t, fake.getRequests())
}

func testInvalidFlag(t *testing.T) {
	fake := newFakeIRODSServer(t)
	client := newTestClient(t, fake)

	response, err := client.Collections.Create(testContext(), testHome+"/flag", &CollectionCreateOptions{
		CreateIntermediates: Int(2),
	})
	assertValidationError(t, fake, response, err, ErrInvalidValue)

	response, err = client.Collections.SetInheritance(testContext(), testHome, -1, nil)
	assertValidationError(t, fake, response, err, ErrInvalidValue)

	var opErr *OperationError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "/collections", opErr.Endpoint)
	assert.Equal(t, "set_inheritance", opErr.Operation)
	assert.Contains(t, opErr.Message, "enable")
}

func testInvalidType(t *testing.T) {
	fake := newFakeIRODSServer(t)
	client := newTestClient(t, fake)

	response, err := client.session.execute(testContext(), collectionCreateSpec, operationArgs{"lpath": 42})
	assertValidationError(t, fake, response, err, ErrInvalidType)

	response, err = client.session.execute(testContext(), collectionCreateSpec, operationArgs{
		"lpath":                testHome + "/typed",
		"create-intermediates": "1",
	})
	assertValidationError(t, fake, response, err, ErrInvalidType)

	response, err = client.session.execute(testContext(), collectionModifyPermissionsSpec, operationArgs{
		"lpath":      testHome,
		"operations": "not a list",
	})
	assertValidationError(t, fake, response, err, ErrInvalidType)
}

func testInvalidCount(t *testing.T) {
	fake := newFakeIRODSServer(t)
	client := newTestClient(t, fake)

	response, err := client.DataObjects.Read(testContext(), testHome+"/file", &ReadOptions{Count: Int(-2)})
	assertValidationError(t, fake, response, err, ErrInvalidValue)

	response, err = client.Tickets.Create(testContext(), testHome, &TicketCreateOptions{UseCount: Int(-5)})
	assertValidationError(t, fake, response, err, ErrInvalidValue)

	response, err = client.DataObjects.Read(testContext(), testHome+"/file", &ReadOptions{Offset: Int(-1)})
	assertValidationError(t, fake, response, err, ErrInvalidValue)
}

func testEmptyOperations(t *testing.T) {
	fake := newFakeIRODSServer(t)
	client := newTestClient(t, fake)

	response, err := client.Collections.ModifyPermissions(testContext(), testHome, []PermissionOperation{}, nil)
	assertValidationError(t, fake, response, err, ErrInvalidValue)

	response, err = client.DataObjects.ModifyMetadata(testContext(), testHome+"/file", nil, nil)
	assertValidationError(t, fake, response, err, ErrInvalidValue)

	response, err = client.UsersGroups.ModifyMetadata(testContext(), testUsername, []MetadataOperation{})
	assertValidationError(t, fake, response, err, ErrInvalidValue)
}

func testUnknownParameter(t *testing.T) {
	fake := newFakeIRODSServer(t)
	client := newTestClient(t, fake)

	response, err := client.session.execute(testContext(), collectionStatSpec, operationArgs{
		"lpath":   testHome,
		"recurse": 1,
	})
	assertValidationError(t, fake, response, err, ErrInvalidValue)
	assert.Contains(t, err.Error(), "recurse")
}

func testMissingParameter(t *testing.T) {
	fake := newFakeIRODSServer(t)
	client := newTestClient(t, fake)

	response, err := client.session.execute(testContext(), collectionRenameSpec, operationArgs{
		"old-lpath": testHome + "/old",
	})
	assertValidationError(t, fake, response, err, ErrMissingParameter)
	assert.Contains(t, err.Error(), "new-lpath")
}

func testInvalidEnums(t *testing.T) {
	fake := newFakeIRODSServer(t)
	client := newTestClient(t, fake)

	response, err := client.UsersGroups.CreateUser(testContext(), "alice", testZone, UserType("superuser"))
	assertValidationError(t, fake, response, err, ErrInvalidValue)

	response, err = client.UsersGroups.SetUserType(testContext(), "alice", testZone, UserType(""))
	assertValidationError(t, fake, response, err, ErrInvalidValue)

	response, err = client.Resources.Modify(testContext(), "demoResc", ResourcePropertyStatus, "broken")
	assertValidationError(t, fake, response, err, ErrInvalidValue)

	response, err = client.Resources.Modify(testContext(), "demoResc", ResourceProperty("owner"), "rods")
	assertValidationError(t, fake, response, err, ErrInvalidValue)

	response, err = client.Tickets.Create(testContext(), testHome, &TicketCreateOptions{Type: TicketType("delete")})
	assertValidationError(t, fake, response, err, ErrInvalidValue)

	response, err = client.Zones.Modify(testContext(), "otherZone", ZoneProperty("password"), "x")
	assertValidationError(t, fake, response, err, ErrInvalidValue)

	// valid values go through
	_, err = client.Resources.Modify(testContext(), "demoResc", ResourcePropertyStatus, "down")
	require.NoError(t, err)

	_, err = client.UsersGroups.CreateUser(testContext(), "alice", testZone, "")
	require.NoError(t, err)
	assert.Equal(t, "rodsuser", fake.lastRequest().Values.Get("user-type"))
}

func testModifyReplicaValidation(t *testing.T) {
	fake := newFakeIRODSServer(t)
	client := newTestClient(t, fake)

	lpath := testHome + "/replica.txt"

	// both selectors
	response, err := client.DataObjects.ModifyReplica(testContext(), lpath, &ModifyReplicaOptions{
		ResourceHierarchy: "demoResc",
		ReplicaNumber:     Int(0),
		NewDataComments:   "c",
	})
	assertValidationError(t, fake, response, err, ErrInvalidValue)

	// no selector
	response, err = client.DataObjects.ModifyReplica(testContext(), lpath, &ModifyReplicaOptions{
		NewDataComments: "c",
	})
	assertValidationError(t, fake, response, err, nil)

	// no new data
	response, err = client.DataObjects.ModifyReplica(testContext(), lpath, &ModifyReplicaOptions{
		ReplicaNumber: Int(0),
	})
	assertValidationError(t, fake, response, err, nil)

	response, err = client.DataObjects.ModifyReplica(testContext(), lpath, nil)
	assertValidationError(t, fake, response, err, nil)

	_, err = client.DataObjects.ModifyReplica(testContext(), lpath, &ModifyReplicaOptions{
		ResourceHierarchy: "demoResc",
		NewDataModifyTime: "01700000000",
	})
	require.NoError(t, err)

	request := fake.lastRequest()
	assert.Equal(t, "modify_replica", request.Values.Get("op"))
	assert.Equal(t, "demoResc", request.Values.Get("resource-hierarchy"))
	assert.Equal(t, "01700000000", request.Values.Get("new-data-modify-time"))
}

func testGenQueryParserValidation(t *testing.T) {
	fake := newFakeIRODSServer(t)
	client := newTestClient(t, fake)

	query := "select COLL_NAME where COLL_NAME like '/tempZone/home/%'"

	response, err := client.Queries.ExecuteGenQuery(testContext(), query, &GenQueryOptions{
		Parser:        QueryParserGenQuery2,
		CaseSensitive: Int(0),
	})
	assertValidationError(t, fake, response, err, ErrInvalidValue)

	response, err = client.Queries.ExecuteGenQuery(testContext(), query, &GenQueryOptions{
		SQLOnly: Int(1),
	})
	assertValidationError(t, fake, response, err, ErrInvalidValue)

	response, err = client.Queries.ExecuteGenQuery(testContext(), query, &GenQueryOptions{
		Parser: QueryParser("genquery3"),
	})
	assertValidationError(t, fake, response, err, ErrInvalidValue)

	// genquery1 defaults
	_, err = client.Queries.ExecuteGenQuery(testContext(), query, nil)
	require.NoError(t, err)

	request := fake.lastRequest()
	assert.Equal(t, "GET", request.Method)
	assert.Equal(t, "/query", request.Endpoint)
	assert.Equal(t, "execute_genquery", request.Values.Get("op"))
	assert.Equal(t, query, request.Values.Get("query"))
	assert.Equal(t, "genquery1", request.Values.Get("parser"))
	assert.Equal(t, "1", request.Values.Get("case-sensitive"))
	assert.Equal(t, "1", request.Values.Get("distinct"))
	assert.Equal(t, "0", request.Values.Get("offset"))
	_, hasSQLOnly := request.Values["sql-only"]
	assert.False(t, hasSQLOnly)
	_, hasCount := request.Values["count"]
	assert.False(t, hasCount)

	// genquery2 defaults
	_, err = client.Queries.ExecuteGenQuery(testContext(), query, &GenQueryOptions{
		Parser: QueryParserGenQuery2,
		Count:  Int(10),
	})
	require.NoError(t, err)

	request = fake.lastRequest()
	assert.Equal(t, "genquery2", request.Values.Get("parser"))
	assert.Equal(t, "0", request.Values.Get("sql-only"))
	assert.Equal(t, "10", request.Values.Get("count"))
	_, hasCaseSensitive := request.Values["case-sensitive"]
	assert.False(t, hasCaseSensitive)
	_, hasDistinct := request.Values["distinct"]
	assert.False(t, hasDistinct)
}

func testNumericRanges(t *testing.T) {
	fake := newFakeIRODSServer(t)
	client := newTestClient(t, fake)

	response, err := client.DataObjects.Trim(testContext(), testHome+"/file", -1, nil)
	assertValidationError(t, fake, response, err, ErrInvalidValue)

	response, err = client.Rules.RemoveDelayRule(testContext(), 0)
	assertValidationError(t, fake, response, err, ErrInvalidValue)

	response, err = client.DataObjects.ParallelWriteInit(testContext(), testHome+"/file", 0, nil)
	assertValidationError(t, fake, response, err, ErrInvalidValue)

	response, err = client.Queries.ExecuteGenQuery(testContext(), "select COLL_NAME", &GenQueryOptions{Offset: Int(-1)})
	assertValidationError(t, fake, response, err, ErrInvalidValue)

	// zero offsets are valid
	_, err = client.Queries.ExecuteGenQuery(testContext(), "select COLL_NAME", &GenQueryOptions{Offset: Int(0)})
	require.NoError(t, err)

	_, err = client.Rules.RemoveDelayRule(testContext(), 10001)
	require.NoError(t, err)
	assert.Equal(t, "10001", fake.lastRequest().Values.Get("rule-id"))
}

func testWriteTarget(t *testing.T) {
	fake := newFakeIRODSServer(t)
	client := newTestClient(t, fake)

	response, err := client.DataObjects.Write(testContext(), []byte("data"), nil)
	assertValidationError(t, fake, response, err, nil)

	response, err = client.DataObjects.Write(testContext(), []byte("data"), &WriteOptions{})
	assertValidationError(t, fake, response, err, nil)

	response, err = client.DataObjects.Write(testContext(), []byte("data"), &WriteOptions{
		LPath:       testHome + "/file",
		StreamIndex: Int(-3),
	})
	assertValidationError(t, fake, response, err, ErrInvalidValue)
}
