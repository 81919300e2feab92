package models

import "fmt"

// Result codes used by the core authenticator. They only exist at the
// process boundary; everything past DecodeDelegateResult works with
// DelegateKind.
const (
	ResultCanceled         = 0 // core missing or unresponsive
	ResultUserCanceled     = 1
	ResultPermissionDenied = 2
	ResultSignedOut        = 3
	ResultSignedOutAlt     = 4
	ResultSuccessMin       = 20
)

// Keys of the extras returned alongside a success code.
const (
	ExtraAccountID = "account_id"
	ExtraSignature = "signature"
	ExtraAuthToken = "auth_token"
)

type DelegateKind int

const (
	DelegateCanceled DelegateKind = iota
	DelegateSuccess
	DelegateSignedOut
	DelegatePermissionDenied
	DelegateCoreUnavailable
)

func (k DelegateKind) String() string {
	switch k {
	case DelegateSuccess:
		return "success"
	case DelegateSignedOut:
		return "signed_out"
	case DelegatePermissionDenied:
		return "permission_denied"
	case DelegateCoreUnavailable:
		return "core_unavailable"
	default:
		return "canceled"
	}
}

// DelegateResult is the decoded answer of one authenticator launch.
type DelegateResult struct {
	Kind    DelegateKind
	Code    int      // raw code as received
	Session *Session // set for DelegateSuccess only
	Err     error    // cause when the result had to be downgraded
}

// DecodeDelegateResult maps a raw result code and its extras onto a
// DelegateResult. A success code whose extras are missing the account id is
// downgraded to DelegateCoreUnavailable, the same way a malformed answer
// from the core is treated.
func DecodeDelegateResult(code int, extras map[string]string) DelegateResult {
	switch {
	case code >= ResultSuccessMin:
		accountID := extras[ExtraAccountID]
		if len(accountID) == 0 {
			return DelegateResult{
				Kind: DelegateCoreUnavailable,
				Code: code,
				Err:  fmt.Errorf("result code %d carried no %s", code, ExtraAccountID),
			}
		}
		return DelegateResult{
			Kind: DelegateSuccess,
			Code: code,
			Session: &Session{
				AccountID: accountID,
				Signature: extras[ExtraSignature],
				Token:     extras[ExtraAuthToken],
			},
		}
	case code == ResultSignedOut || code == ResultSignedOutAlt:
		return DelegateResult{Kind: DelegateSignedOut, Code: code}
	case code == ResultPermissionDenied:
		return DelegateResult{Kind: DelegatePermissionDenied, Code: code}
	case code == ResultCanceled:
		return DelegateResult{Kind: DelegateCoreUnavailable, Code: code}
	default:
		return DelegateResult{Kind: DelegateCanceled, Code: code}
	}
}

// DecodeMalformedResult is used when the extras could not be read at all.
// Sign out codes survive, anything else becomes core unavailable with the
// cause attached.
func DecodeMalformedResult(code int, cause error) DelegateResult {
	if code == ResultSignedOut || code == ResultSignedOutAlt {
		return DelegateResult{Kind: DelegateSignedOut, Code: code, Err: cause}
	}
	return DelegateResult{Kind: DelegateCoreUnavailable, Code: code, Err: cause}
}

// EncodeDelegateResult is the inverse of DecodeDelegateResult. It is what
// an authenticator implementation writes back to the caller.
func EncodeDelegateResult(r DelegateResult) (int, map[string]string) {
	switch r.Kind {
	case DelegateSuccess:
		code := r.Code
		if code < ResultSuccessMin {
			code = ResultSuccessMin
		}
		extras := map[string]string{}
		if r.Session != nil {
			extras[ExtraAccountID] = r.Session.AccountID
			extras[ExtraSignature] = r.Session.Signature
			if len(r.Session.Token) > 0 {
				extras[ExtraAuthToken] = r.Session.Token
			}
		}
		return code, extras
	case DelegateSignedOut:
		if r.Code == ResultSignedOutAlt {
			return ResultSignedOutAlt, nil
		}
		return ResultSignedOut, nil
	case DelegatePermissionDenied:
		return ResultPermissionDenied, nil
	case DelegateCoreUnavailable:
		return ResultCanceled, nil
	default:
		return ResultUserCanceled, nil
	}
}
