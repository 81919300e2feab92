package delegate

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teslasoft/id-agent/internal/models"
)

func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not supported on windows")
	}

	path := filepath.Join(t.TempDir(), "core.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0700))
	return path
}

func TestExecLauncher_Success(t *testing.T) {
	script := writeScript(t, `
[ "$1" = "--component" ] || exit 1
[ "$2" = "pkg/Activity" ] || exit 1
[ "$3" = "--request-id" ] || exit 1
echo '{"account_id":"42","signature":"sig","auth_token":"tok","is_new":true}'
exit 21`)

	code, extras, err := NewExecLauncher(script).Launch(context.Background(), "pkg/Activity")

	require.NoError(t, err)
	assert.Equal(t, 21, code)
	assert.Equal(t, "42", extras["account_id"])
	assert.Equal(t, "sig", extras["signature"])
	assert.Equal(t, "tok", extras["auth_token"])
	assert.Equal(t, "true", extras["is_new"])
}

func TestExecLauncher_ExitCodes(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		expect int
	}{
		{name: "signed out", body: "exit 3", expect: models.ResultSignedOut},
		{name: "denied", body: "exit 2", expect: models.ResultPermissionDenied},
		{name: "clean exit is result canceled", body: "exit 0", expect: models.ResultCanceled},
		{name: "user canceled", body: "exit 1", expect: models.ResultUserCanceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			script := writeScript(t, tt.body)

			code, extras, err := NewExecLauncher(script).Launch(context.Background(), "pkg/Activity")

			require.NoError(t, err)
			assert.Equal(t, tt.expect, code)
			assert.Nil(t, extras)
		})
	}
}

func TestExecLauncher_MalformedExtras(t *testing.T) {
	script := writeScript(t, "echo 'not json'\nexit 20")

	code, extras, err := NewExecLauncher(script).Launch(context.Background(), "pkg/Activity")

	assert.Equal(t, 20, code)
	assert.Nil(t, extras)
	assert.Error(t, err)
}

func TestExecLauncher_MissingExecutable(t *testing.T) {
	launcher := NewExecLauncher(filepath.Join(t.TempDir(), "does-not-exist"))

	code, _, err := launcher.Launch(context.Background(), "pkg/Activity")

	require.NoError(t, err)
	assert.Equal(t, models.ResultCanceled, code)
}

func TestExecLauncher_ContextCancelled(t *testing.T) {
	script := writeScript(t, "exec sleep 5")

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	code, _, err := NewExecLauncher(script).Launch(ctx, "pkg/Activity")

	require.NoError(t, err)
	assert.Equal(t, models.ResultUserCanceled, code)
}
