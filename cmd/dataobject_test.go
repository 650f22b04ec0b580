package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDataObjectCommand(t *testing.T) {
	t.Run("test CheckPutOptions", testCheckPutOptions)
}

func testCheckPutOptions(t *testing.T) {
	assert.NoError(t, checkPutOptions("", 4))
	assert.NoError(t, checkPutOptions("demoResc", 1))
	assert.NoError(t, checkPutOptions("demoResc", 0))

	err := checkPutOptions("demoResc", 4)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "demoResc")
}
