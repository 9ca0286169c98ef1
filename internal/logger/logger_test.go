package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_WritesToRotatedFile(t *testing.T) {
	prevOut, prevLevel := logrus.StandardLogger().Out, logrus.GetLevel()
	t.Cleanup(func() {
		logrus.SetOutput(prevOut)
		logrus.SetLevel(prevLevel)
	})

	file := filepath.Join(t.TempDir(), "logs", "app.log")
	w, err := Setup(Options{Level: "warn", File: file})
	require.NoError(t, err)
	require.NotNil(t, w)
	assert.Equal(t, logrus.WarnLevel, logrus.GetLevel())

	logrus.WithField("group_id", "g1").Warn("Auto-coordinate found nothing to book.")
	logrus.Info("dropped below level")

	raw, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "group_id=g1")
	assert.NotContains(t, string(raw), "dropped below level")
}

func TestSetup_BadLevel(t *testing.T) {
	_, err := Setup(Options{Level: "loud"})
	assert.Error(t, err)
}
