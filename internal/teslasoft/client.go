// Package teslasoft talks to the Teslasoft ID web service: account
// verification, avatar addresses and per-app settings storage.
package teslasoft

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"github.com/teslasoft/id-agent/internal/common"
	"github.com/teslasoft/id-agent/internal/models"
)

const (
	accountInfoPath  = "/xauth/GetAccountInfo.php"
	avatarPathFormat = "/xauth/users/%s.png"
	getSettingsPath  = "/xauth/GetAppSettings.php"
	syncSettingsPath = "/xauth/SyncAppSettings.php"
)

// Options configures the HTTP client shared by the verifier and the
// settings client.
type Options struct {
	Endpoint string
	// Zero keeps the resty default, which never times out.
	Timeout time.Duration
	Strict  bool
}

func newRestClient(opts Options) *resty.Client {
	client := resty.New().
		SetBaseURL(strings.TrimRight(opts.Endpoint, "/")).
		SetHeader("User-Agent", common.GetUserAgent()).
		SetHeader("X-Client", common.GetClientIdentifier())

	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}

	return client
}

// AvatarURL is where the account picture for uid lives. It is only used
// for display; nothing here downloads it.
func AvatarURL(endpoint string, uid string) string {
	return strings.TrimRight(endpoint, "/") + fmt.Sprintf(avatarPathFormat, uid)
}

// classifyTransport maps a resty call result onto the failure taxonomy.
// A nil return means the response body is worth looking at.
func classifyTransport(resp *resty.Response, err error) error {
	if err != nil {
		return models.NewFailure(models.StateNoInternet, models.MessageNoInternet, err)
	}

	// 5xx counts as a connectivity problem so the stored session survives
	if resp.StatusCode() >= http.StatusInternalServerError {
		return models.NewFailure(
			models.StateNoInternet,
			models.MessageNoInternet,
			fmt.Errorf("server responded with status %d", resp.StatusCode()),
		)
	}

	return nil
}

func logRequestError(url string, err error) {
	var failure *models.Failure
	fields := logrus.Fields{"url": url}
	if errors.As(err, &failure) {
		fields["state"] = failure.State
	}
	logrus.WithFields(fields).WithError(err).Errorln("Teslasoft ID request failed")
}
