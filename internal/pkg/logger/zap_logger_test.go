package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestObservedLoggerRecordsModuleAndDetails(t *testing.T) {
	l, logs := NewObservedLogger()
	l.Warn("EVIDENCE", "upsert failed", map[string]interface{}{"evidence_id": "passport"})
	l.Info("EVIDENCE", "no details", nil)

	require.Equal(t, 2, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
	assert.Equal(t, "upsert failed", entry.Message)
	assert.Equal(t, "EVIDENCE", entry.ContextMap()["module"])
	assert.Equal(t, map[string]interface{}{"evidence_id": "passport"}, entry.ContextMap()["details"])
}

func TestIsolatedLoggerWritesJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reminders.log")
	l := NewIsolatedLogger(path)
	l.Info("REMINDER", "sweep finished", map[string]interface{}{"sent": 2})
	l.Debug("REMINDER", "below file level", nil)
	_ = l.Sync()

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "REMINDER", entry["module"])
	assert.Equal(t, "sweep finished", entry["message"])
}
