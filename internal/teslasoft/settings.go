package teslasoft

import (
	"context"
	"net/http"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"github.com/teslasoft/id-agent/internal/models"
	"github.com/teslasoft/id-agent/internal/sessions"
)

// SettingsClient stores an opaque settings document per app and account on
// the ID service. It reuses whatever session the sign-in flow persisted.
type SettingsClient struct {
	client *resty.Client
	store  sessions.Store
	apiKey string
	appID  string
}

func NewSettingsClient(opts Options, store sessions.Store, apiKey string, appID string) *SettingsClient {
	return &SettingsClient{
		client: newRestClient(opts),
		store:  store,
		apiKey: apiKey,
		appID:  appID,
	}
}

// Account returns the persisted session or nil when signed out.
func (c *SettingsClient) Account() (*models.Session, error) {
	return c.store.Load()
}

func (c *SettingsClient) IsSignedIn() bool {
	session, err := c.store.Load()
	if err != nil {
		logrus.WithError(err).Warnln("Failed to read session")
		return false
	}
	return session.IsSignedIn()
}

// AppSettings fetches the raw settings document.
func (c *SettingsClient) AppSettings(ctx context.Context) (string, error) {
	session, err := c.requireSession()
	if err != nil {
		return "", err
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(c.params(session)).
		Get(getSettingsPath)

	if err := checkSettingsResponse(resp, err); err != nil {
		logRequestError(getSettingsPath, err)
		return "", err
	}

	return resp.String(), nil
}

// SyncAppSettings uploads settings, replacing what the server holds.
func (c *SettingsClient) SyncAppSettings(ctx context.Context, settings string) error {
	session, err := c.requireSession()
	if err != nil {
		return err
	}

	form := c.params(session)
	form["settings"] = settings

	resp, err := c.client.R().
		SetContext(ctx).
		SetFormData(form).
		Post(syncSettingsPath)

	if err := checkSettingsResponse(resp, err); err != nil {
		logRequestError(syncSettingsPath, err)
		return err
	}

	logrus.WithFields(logrus.Fields{
		"appId": c.appID,
		"bytes": len(settings),
	}).Infoln("App settings synced")

	return nil
}

func (c *SettingsClient) requireSession() (*models.Session, error) {
	session, err := c.store.Load()
	if err != nil {
		return nil, models.NewFailure(models.StateUnknown, "Failed to read the stored session.", err)
	}
	if !session.IsSignedIn() {
		return nil, models.NewFailure(models.StateNotSignedIn, models.MessageNotSignedIn, nil)
	}
	return session, nil
}

func (c *SettingsClient) params(session *models.Session) map[string]string {
	return map[string]string{
		"uid":     session.AccountID,
		"sig":     session.Signature,
		"api_key": c.apiKey,
		"app_id":  c.appID,
	}
}

func checkSettingsResponse(resp *resty.Response, err error) error {
	if err := classifyTransport(resp, err); err != nil {
		return err
	}
	if resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusMultipleChoices {
		return models.NewFailure(
			models.StateInvalidResponse,
			"The server rejected the settings request: "+resp.Status(),
			nil,
		)
	}
	return nil
}
