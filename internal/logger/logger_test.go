package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithDirWritesDailyFile(t *testing.T) {
	dir := t.TempDir()

	log, closer, err := NewWithDir("debug", "json", dir)
	require.NoError(t, err)

	log.WithComponent("dispatch").WithBatchID("b-1").Info().Str("email", "a@example.com").Msg("sent")
	require.NoError(t, closer.Close())

	name := filepath.Join(dir, time.Now().Format("2006-01-02")+".log")
	data, err := os.ReadFile(name)
	require.NoError(t, err)

	line := string(data)
	assert.True(t, strings.HasSuffix(line, "\n"))
	assert.Contains(t, line, `"component":"dispatch"`)
	assert.Contains(t, line, `"batch_id":"b-1"`)
	assert.Contains(t, line, `"message":"sent"`)
}

func TestNewWithDirDisabled(t *testing.T) {
	log, closer, err := NewWithDir("info", "json", "")
	require.NoError(t, err)
	assert.NotNil(t, log)
	assert.NoError(t, closer.Close())
}
