package iologger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/gnvariants/pkg/config"
	"github.com/gnames/gnvariants/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHandler(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(&buf, config.LogConfig{Format: "json", Level: "warn"})
	log := slog.New(h)
	log.Info("hidden")
	log.Warn("shown", "sample", "s1")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "shown", rec["msg"])
	assert.Equal(t, "s1", rec["sample"])

	buf.Reset()
	h = NewHandler(&buf, config.LogConfig{Format: "text", Level: "debug"})
	slog.New(h).Debug("debugging")
	assert.Contains(t, buf.String(), "msg=debugging")
}

func TestInitFile(t *testing.T) {
	dir := t.TempDir()
	old := slog.Default()
	defer slog.SetDefault(old)

	cfg := config.LogConfig{Format: "json", Level: "info", Destination: "file"}
	require.NoError(t, Init(dir, cfg, false))
	slog.Info("hello")

	bs, err := os.ReadFile(filepath.Join(dir, LogFile))
	require.NoError(t, err)
	assert.Contains(t, string(bs), `"msg":"hello"`)

	err = Init(filepath.Join(dir, "missing"), cfg, true)
	var gnErr *gn.Error
	require.ErrorAs(t, err, &gnErr)
	assert.Equal(t, errcode.CreateLogFileError, gnErr.Code)
}
