package delegate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/teslasoft/id-agent/internal/models"
)

const waitDelay = 2 * time.Second

// Launcher starts the external account picker and waits for its answer.
// A non-nil error means the raw code was received but the extras could not
// be read.
type Launcher interface {
	Launch(ctx context.Context, component string) (int, map[string]string, error)
}

// ExecLauncher runs the core authenticator as a child process. The exit
// status is the result code and stdout carries the extras as a JSON
// object, for example {"account_id":"42","signature":"...","auth_token":"..."}.
type ExecLauncher struct {
	Executable string
	Args       []string
}

func NewExecLauncher(executable string, args ...string) *ExecLauncher {
	return &ExecLauncher{Executable: executable, Args: args}
}

func (l *ExecLauncher) Launch(ctx context.Context, component string) (int, map[string]string, error) {
	requestID := uuid.New().String()

	args := append([]string{}, l.Args...)
	args = append(args, "--component", component, "--request-id", requestID)

	logrus.WithFields(logrus.Fields{
		"executable": l.Executable,
		"component":  component,
		"requestId":  requestID,
	}).Debugln("Launching core authenticator")

	cmd := exec.CommandContext(ctx, l.Executable, args...)
	// Grandchildren holding stdout open must not stall a cancelled launch
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	if ctx.Err() != nil {
		// Whoever cancelled us is the user walking away
		return models.ResultUserCanceled, nil, nil
	}

	code := 0
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			// Not installed or not executable
			logrus.WithError(err).WithFields(logrus.Fields{
				"executable": l.Executable,
			}).Warnln("Core authenticator could not be started")
			return models.ResultCanceled, nil, nil
		}
		code = exitErr.ExitCode()
	}

	if stderr.Len() > 0 {
		logrus.WithFields(logrus.Fields{
			"requestId": requestID,
		}).Debugln("Core authenticator: " + strings.TrimSpace(stderr.String()))
	}

	if code < models.ResultSuccessMin {
		return code, nil, nil
	}

	extras, err := parseExtras(stdout.Bytes())
	if err != nil {
		return code, nil, err
	}
	return code, extras, nil
}

func parseExtras(data []byte) (map[string]string, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("core authenticator returned no result extras")
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse result extras: %w", err)
	}

	extras := make(map[string]string, len(raw))
	for key, value := range raw {
		switch v := value.(type) {
		case nil:
		case string:
			extras[key] = v
		default:
			extras[key] = fmt.Sprintf("%v", v)
		}
	}
	return extras, nil
}
