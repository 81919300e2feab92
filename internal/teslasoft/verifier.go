package teslasoft

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"github.com/teslasoft/id-agent/internal/models"
)

const (
	fieldUserName  = "user_name"
	fieldUserEmail = "user_email"
	fieldIsDev     = "is_dev"
)

// Verifier performs the sync call: it exchanges a stored account id and
// signature for the account's display metadata.
type Verifier struct {
	client   *resty.Client
	endpoint string
	strict   bool
}

func NewVerifier(opts Options) *Verifier {
	return &Verifier{
		client:   newRestClient(opts),
		endpoint: opts.Endpoint,
		strict:   opts.Strict,
	}
}

func (v *Verifier) AvatarURL(uid string) string {
	return AvatarURL(v.endpoint, uid)
}

// Verify issues exactly one GET request. It does not retry and does not
// cache. Errors are *models.Failure with either NO_INTERNET or
// INVALID_ACCOUNT state.
func (v *Verifier) Verify(ctx context.Context, accountID string, signature string) (*models.AccountInfo, error) {
	logrus.WithFields(logrus.Fields{
		"accountId": accountID,
	}).Debugln("Verifying account with Teslasoft ID")

	resp, err := v.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"sig": signature,
			"uid": accountID,
		}).
		Get(accountInfoPath)

	if err := classifyTransport(resp, err); err != nil {
		logRequestError(accountInfoPath, err)
		return nil, err
	}

	info, err := parseAccountInfo(resp.Body(), v.strict)
	if err != nil {
		logRequestError(accountInfoPath, err)
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"accountId": accountID,
		"isDev":     info.IsDev,
	}).Debugln("Account verified")

	return info, nil
}

// parseAccountInfo reads the flat JSON object returned by the service. In
// lenient mode absent string fields become "null", matching what older
// clients displayed; strict mode refuses them.
func parseAccountInfo(body []byte, strict bool) (*models.AccountInfo, error) {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, models.NewFailure(models.StateInvalidAccount, "Account response could not be parsed.", err)
	}

	if payload == nil {
		return nil, models.NewFailure(models.StateInvalidAccount, "Account response was empty.", nil)
	}

	if strict {
		for _, key := range []string{fieldUserName, fieldUserEmail, fieldIsDev} {
			if _, ok := payload[key]; !ok {
				return nil, models.NewFailure(
					models.StateInvalidAccount,
					fmt.Sprintf("Account response is missing %q.", key),
					nil,
				)
			}
		}
	}

	isDev, _ := payload[fieldIsDev].(bool)

	return &models.AccountInfo{
		UserName:  stringField(payload, fieldUserName),
		UserEmail: stringField(payload, fieldUserEmail),
		IsDev:     isDev,
	}, nil
}

func stringField(payload map[string]any, key string) string {
	value, ok := payload[key]
	if !ok || value == nil {
		return models.MissingField
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", value)
}
